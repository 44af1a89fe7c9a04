// Package status renders the one-line bar under every view: what the
// desk is doing on the left, key hints on the right.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/styles"
)

type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
	StateHelp    State = "help"
	StateAgenda  State = "agenda"
)

const defaultWidth = 80

// Bar is mutated by the app through its setters and has no messages of its own.
type Bar struct {
	st   *styles.Styles
	keys *keymap.KeyMap

	state   State
	message string
	clinic  string
	count   int
	width   int
}

// NewBar uses the default styles and keys for nil arguments.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{st: s, keys: km, state: StateReady, width: defaultWidth}
}

func (b *Bar) State() State { return b.state }
func (b *Bar) Message() string { return b.message }
func (b *Bar) Count() int { return b.count }
func (b *Bar) Width() int { return b.width }
func (b *Bar) SetState(s State) { b.state = s }
func (b *Bar) SetMessage(m string) { b.message = m }
func (b *Bar) SetWidth(w int) { b.width = w }

// SetAgenda shows the clinic's appointment count for the selected day.
func (b *Bar) SetAgenda(clinic string, count int) {
	b.state, b.clinic, b.count = StateAgenda, clinic, count
}

func (b *Bar) Clear() {
	*b = Bar{st: b.st, keys: b.keys, state: StateReady, width: b.width}
}

// View fits the bar to its width. Hints keep their room; a long status
// message is cut instead.
func (b *Bar) View() string {
	hints := b.st.Muted.Render(b.hints())
	room := max(b.width-lipgloss.Width(hints)-1, 1)
	left := lipgloss.NewStyle().MaxWidth(room).Render(b.status())
	gap := strings.Repeat(" ", max(b.width-lipgloss.Width(left)-lipgloss.Width(hints), 1))
	return b.st.StatusBar.Width(b.width).Render(left + gap + hints)
}

func (b *Bar) status() string {
	switch b.state {
	case StateLoading:
		return b.st.Muted.Render("Loading...")
	case StateError:
		return b.st.Error.Render(joinNonEmpty(": ", "Error", b.message))
	case StateHelp:
		return b.st.Normal.Render("Help")
	case StateAgenda:
		return b.st.Normal.Render(joinNonEmpty(" · ", b.clinic, plural(b.count, "appointment"), b.message))
	}
	if b.message == "" {
		return b.st.Muted.Render("Ready")
	}
	return b.st.Normal.Render(b.message)
}

func (b *Bar) hints() string {
	bindings := b.keys.ShortHelp()
	if b.state == StateAgenda {
		bindings = b.keys.AgendaHelp()
	}
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		parts[i] = describe(kb)
	}
	return strings.Join(parts, " | ")
}

func describe(kb key.Binding) string {
	h := kb.Help()
	return h.Key + ": " + h.Desc
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
