// Package styles holds the TUI palette and the lipgloss styles built from it.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// Palette names colours by role. Every entry adapts to light and dark
// terminal backgrounds.
type Palette struct {
	Accent    lipgloss.AdaptiveColor
	AccentAlt lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Dim       lipgloss.AdaptiveColor
	Bar       lipgloss.AdaptiveColor // status bar background

	OK      lipgloss.AdaptiveColor
	Caution lipgloss.AdaptiveColor
	Alert   lipgloss.AdaptiveColor
	Active  lipgloss.AdaptiveColor // appointments under way
}

// Clinic is the default palette: greens and sky blue.
var Clinic = Palette{
	Accent:    lipgloss.AdaptiveColor{Light: "#1F7A58", Dark: "#2F9E74"},
	AccentAlt: lipgloss.AdaptiveColor{Light: "#1E6FA8", Dark: "#4EA8DE"},
	Text:      lipgloss.AdaptiveColor{Light: "#1B2420", Dark: "#E3EBE6"},
	Dim:       lipgloss.AdaptiveColor{Light: "#5F6E67", Dark: "#7A8A82"},
	Bar:       lipgloss.AdaptiveColor{Light: "#DDE6E1", Dark: "#141B18"},
	OK:        lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#8FD694"},
	Caution:   lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#F2C26B"},
	Alert:     lipgloss.AdaptiveColor{Light: "#B42318", Dark: "#F07C7C"},
	Active:    lipgloss.AdaptiveColor{Light: "#6E40C9", Dark: "#C39BF0"},
}

// Styles are the rendered styles shared by every view.
type Styles struct {
	palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style // highlighted list row
	Help     lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	StatusBar lipgloss.Style
}

// New builds styles from p.
func New(p Palette) *Styles {
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	return &Styles{
		palette:   p,
		Title:     fg(p.Accent).Bold(true),
		Subtitle:  fg(p.AccentAlt).Bold(true),
		Normal:    fg(p.Text),
		Muted:     fg(p.Dim),
		Selected:  fg(p.Text).Background(p.Accent).Bold(true),
		Help:      fg(p.Dim),
		Success:   fg(p.OK),
		Warning:   fg(p.Caution),
		Error:     fg(p.Alert),
		Info:      fg(p.Active),
		StatusBar: fg(p.Dim).Background(p.Bar).Padding(0, 1),
	}
}

func DefaultStyles() *Styles { return New(Clinic) }

func (s *Styles) Palette() Palette { return s.palette }

// Status picks the style for an appointment status. Anything not yet
// confirmed renders as a warning.
func (s *Styles) Status(status domain.AppointmentStatus) lipgloss.Style {
	switch status {
	case domain.StatusConfirmed:
		return s.Success
	case domain.StatusInProgress:
		return s.Info
	case domain.StatusCompleted:
		return s.Muted
	case domain.StatusCancelled, domain.StatusNoShow:
		return s.Error
	}
	return s.Warning
}
