package cli

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d8b4fe"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(18)
	alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4b4b"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9c"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func flag(on bool, yes, no string) string {
	if on {
		return alertStyle.Render(yes)
	}
	return okStyle.Render(no)
}
