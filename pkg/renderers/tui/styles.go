package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-fertform/pkg/model"
	"github.com/goliatone/go-fertform/pkg/view"
)

// Palette.
var (
	ColorPrimary     = lipgloss.Color("#8BC34A")
	ColorDestructive = lipgloss.Color("#e53935")
	ColorSuccess     = lipgloss.Color("#43a047")
	ColorMuted       = lipgloss.Color("#8a94a6")
)

// Styles groups the lipgloss styles used for the results area.
type Styles struct {
	Panel      lipgloss.Style
	ErrorPanel lipgloss.Style
	Title      lipgloss.Style
	Label      lipgloss.Style
	Muted      lipgloss.Style
	Banner     lipgloss.Style
}

// DefaultStyles returns rounded panels in the default palette.
func DefaultStyles() Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),
		ErrorPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDestructive).
			Padding(0, 1),
		Title:  lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Label:  lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(ColorMuted),
		Banner: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
	}
}

// renderResults draws the results area of snap. Hidden areas render empty.
func (s Styles) renderResults(snap view.Snapshot, errorPrefix string, wrap int) string {
	if !snap.ResultsVisible {
		return ""
	}

	var lines []string
	for _, b := range snap.Banners {
		lines = append(lines, s.Banner.Render(b.Message))
	}

	if snap.Error != nil {
		prefix := errorPrefix
		if prefix == "" {
			prefix = "Error:"
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			s.Label.Foreground(ColorDestructive).Render(prefix)+" "+snap.Error.Message,
			s.Muted.Render(snap.Error.Hint),
		)
		lines = append(lines, s.ErrorPanel.Width(wrap).Render(body))
		return strings.Join(lines, "\n")
	}

	rows := []string{s.Title.Render(snap.Result(model.ResultFertilizerName))}
	for _, row := range []struct {
		label string
		id    model.ResultID
	}{
		{"Category", model.ResultFertilizerCategory},
		{"Crop", model.ResultCrop},
		{"Region", model.ResultRegion},
		{"Month", model.ResultMonth},
	} {
		rows = append(rows, s.Label.Render(row.label+":")+" "+snap.Result(row.id))
	}
	rows = append(rows, "", s.Label.Render("About this fertilizer:")+" "+snap.Result(model.ResultInfo))

	lines = append(lines, s.Panel.Width(wrap).Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	return strings.Join(lines, "\n")
}
