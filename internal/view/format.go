// Package view holds presentation helpers shared by templates and the CLI.
package view

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/utopialog/internal/metrics"
)

var printer = message.NewPrinter(language.English)

// Money renders a whole amount with thousands separators, e.g. "400,000".
func Money(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0"
	}
	return printer.Sprintf("%d", int64(math.Round(amount)))
}

// Percent renders a 0–100 value with the given number of decimals.
func Percent(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f%%", decimals, value)
}

// Badge is how a state is drawn.
type Badge struct {
	Label string
	Class string
	Color string
}

var stateBadges = map[metrics.State]Badge{
	metrics.StateCritical:  {Label: "CRITICAL", Class: "state-critical", Color: "#ff4b4b"},
	metrics.StateWeak:      {Label: "WEAK", Class: "state-weak", Color: "#ffb347"},
	metrics.StateStable:    {Label: "STABLE", Class: "state-stable", Color: "#d8b4fe"},
	metrics.StateAscending: {Label: "ASCENDING", Class: "state-ascending", Color: "#00ff9c"},
}

func StateBadge(s metrics.State) Badge {
	if b, ok := stateBadges[s]; ok {
		return b
	}
	return stateBadges[metrics.StateCritical]
}

// Integrity summarises the win rate the way the status card shows it.
func Integrity(winRate float64) string {
	if winRate > 80 {
		return "OPTIMAL"
	}
	return "COMPROMISED"
}

// GapLabel renders a recency gap. The sentinel reads as "never".
func GapLabel(g metrics.Gap) string {
	switch {
	case g.Never:
		return "never"
	case g.Days == 0:
		return "today"
	case g.Days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", g.Days)
	}
}

var fieldLabels = map[metrics.Field]string{
	metrics.FieldColdCalls:    "Cold calls",
	metrics.FieldDeepWork:     "Deep work",
	metrics.FieldCalories:     "Calories",
	metrics.FieldWorkout:      "Workout",
	metrics.FieldMoneyIn:      "Revenue",
	metrics.FieldSleep:        "Sleep",
	metrics.FieldReadingPages: "Reading",
	metrics.FieldMood:         "Mood",
	metrics.FieldConfidence:   "Confidence",
	metrics.FieldAggression:   "Aggression",
}

// FieldLabel is the human name of a record field or streak name.
func FieldLabel(name string) string {
	if label, ok := fieldLabels[metrics.Field(name)]; ok {
		return label
	}
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
