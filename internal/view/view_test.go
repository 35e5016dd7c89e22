package view

import (
	"math"
	"testing"

	"github.com/utopialog/internal/metrics"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999.6, "1,000"},
		{400000, "400,000"},
		{1234567.4, "1,234,567"},
		{math.NaN(), "0"},
	}
	for _, tt := range tests {
		if got := Money(tt.in); got != tt.want {
			t.Fatalf("Money(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(87.456, 1); got != "87.5%" {
		t.Fatalf("unexpected percent: %q", got)
	}
	if got := Percent(12, -1); got != "12%" {
		t.Fatalf("unexpected percent: %q", got)
	}
}

func TestStateBadge(t *testing.T) {
	if got := StateBadge(metrics.StateAscending).Class; got != "state-ascending" {
		t.Fatalf("unexpected class: %s", got)
	}
	if got := StateBadge(metrics.State(99)).Label; got != "CRITICAL" {
		t.Fatalf("unknown state should fall back to CRITICAL, got %s", got)
	}
}

func TestGapLabel(t *testing.T) {
	tests := []struct {
		gap  metrics.Gap
		want string
	}{
		{metrics.Gap{Days: metrics.NeverGap, Never: true}, "never"},
		{metrics.Gap{Days: 0}, "today"},
		{metrics.Gap{Days: 1}, "1 day"},
		{metrics.Gap{Days: 6}, "6 days"},
	}
	for _, tt := range tests {
		if got := GapLabel(tt.gap); got != tt.want {
			t.Fatalf("GapLabel(%+v) = %q, want %q", tt.gap, got, tt.want)
		}
	}
}

func TestLabelsAndTabs(t *testing.T) {
	if got := FieldLabel("money_in"); got != "Revenue" {
		t.Fatalf("unexpected label: %s", got)
	}
	if got := FieldLabel("discipline"); got != "Discipline" {
		t.Fatalf("unexpected label: %s", got)
	}
	if Integrity(81) != "OPTIMAL" || Integrity(80) != "COMPROMISED" {
		t.Fatal("integrity threshold is strictly above 80")
	}

	tabs := Tabs()
	if len(tabs) != 6 || tabs[0].Path != "/command" || tabs[5].Key != "arsenal" {
		t.Fatalf("unexpected tabs: %+v", tabs)
	}
	if TabIconSVG("missing") == "" || TabIconSVG("OPS") == TabIconSVG("missing") {
		t.Fatal("expected icon lookup with fallback")
	}
}
