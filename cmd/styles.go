package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/clockstorm/internal/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AF5F"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	alertStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

func weekStatusLabel(s model.WeekStatus) string {
	switch s {
	case model.WeekAllSubmittedOrApproved:
		return okStyle.Render("all submitted or approved")
	case model.WeekSomeUnsubmitted:
		return warningStyle.Render("saved, not submitted")
	case model.WeekSomeUnsaved:
		return alertStyle.Render("unsaved changes")
	}
	return mutedStyle.Render("no time cards")
}
