package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/utopialog/internal/content"
	"github.com/utopialog/internal/metrics"
	"github.com/utopialog/internal/view"
)

// StatusResult is the JSON shape of the status command.
type StatusResult struct {
	Report            metrics.Report `json:"report"`
	State             metrics.State  `json:"state"`
	EscalationMessage string         `json:"escalation_message"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print today's verdict",
		Long: `Evaluate the record store as of today and print the state, dominance score,
projection, streaks and view locks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runStatus(opts *RootOptions, out io.Writer) error {
	log, err := opts.logger()
	if err != nil {
		return err
	}
	a, err := openApp(opts, log)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.set.Dashboard.Report()
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	message := content.NewPicker(0).EscalationMessage(report.Escalation)

	if opts.Format == "json" {
		return writeJSON(out, StatusResult{
			Report:            report,
			State:             report.Assessment.State,
			EscalationMessage: message,
		})
	}
	_, err = fmt.Fprintln(out, renderStatus(report, message))
	return err
}

func renderStatus(r metrics.Report, message string) string {
	badge := view.StateBadge(r.Assessment.State)
	f := r.Finance

	lines := []string{
		titleStyle.Render("PROJECT UTOPIA // " + r.Today.Format(metrics.DateLayout)),
		"",
		row("STATE", lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(badge.Color)).Render(badge.Label)),
		row("DOMINANCE", fmt.Sprintf("%.1f", r.DominanceScore)),
		row("WIN RATE", view.Percent(r.WinRate, 1)+"  ("+view.Integrity(r.WinRate)+")"),
		row("WAR CHEST", fmt.Sprintf("%s / %s %s", view.Money(f.Total), view.Money(f.Goal), f.Currency)),
		row("PROJECTED", view.Money(float64(r.ProjectedTotal))+" "+f.Currency),
		row("DAILY TARGET", view.Money(f.DailyTarget)+" "+f.Currency+fmt.Sprintf(" x %d days", f.DaysRemaining)),
		row("DAYS LOGGED", fmt.Sprintf("%d", r.DaysLogged)),
		row("COMMAND", flag(r.Locks.Dashboard, "LOCKED", "OPEN")),
		row("ARSENAL", flag(r.Locks.Arsenal, "LOCKED", "OPEN")),
		"",
	}

	for _, s := range r.Streaks {
		lines = append(lines, row(strings.ToUpper(view.FieldLabel(s.Name)), fmt.Sprintf("streak %d (best %d)", s.Current, s.Longest)))
	}
	for _, g := range r.Gaps {
		lines = append(lines, row("LAST "+strings.ToUpper(view.FieldLabel(string(g.Field))), view.GapLabel(g)))
	}
	if message != "" {
		lines = append(lines, "", alertStyle.Render(message))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
