// Package clinics provides the clinic picker shown when the TUI starts.
package clinics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// View lists clinics and opens the agenda of the selected one.
type View struct {
	ctx     context.Context
	styles  *styles.Styles
	keys    *keymap.KeyMap
	tenants driving.TenantService

	clinics  []domain.Tenant
	selected int
	width    int
	height   int
	err      error
	loading  bool
}

func NewView(s *styles.Styles, tenants driving.TenantService) *View {
	return &View{
		ctx:     context.Background(),
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		tenants: tenants,
	}
}

// WithKeys replaces the default bindings.
func (v *View) WithKeys(km *keymap.KeyMap) *View {
	v.keys = km
	return v
}

// SetContext sets the context used by service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init starts the first load.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.tenants == nil {
			return messages.TenantsLoaded{Err: errors.New("tenant service not available")}
		}
		tenants, err := v.tenants.List(ctx)
		return messages.TenantsLoaded{Tenants: tenants, Err: err}
	}
}

func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.TenantsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.clinics = msg.Tenants
		v.err = nil
		if v.selected >= len(v.clinics) {
			v.selected = 0
		}
		return v, nil
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := v.keys
	switch {
	case key.Matches(msg, k.Up):
		v.selected = max(v.selected-1, 0)
	case key.Matches(msg, k.Down):
		v.selected = max(min(v.selected+1, len(v.clinics)-1), 0)
	case key.Matches(msg, k.Select):
		if v.selected < len(v.clinics) {
			return v, messages.Send(messages.TenantSelected{Tenant: v.clinics[v.selected]})
		}
	case key.Matches(msg, k.Refresh):
		v.loading = true
		return v, v.load()
	case key.Matches(msg, k.Help):
		return v, messages.Send(messages.ViewChanged{View: messages.ViewHelp})
	case key.Matches(msg, k.Quit):
		return v, messages.Send(messages.Quit{})
	}
	return v, nil
}

func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Vetdesk"))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render("choose a clinic"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading clinics..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.clinics) == 0:
		b.WriteString(v.styles.Muted.Render("No clinics yet. Run 'vetdesk seed' or 'vetdesk tenant create'."))
	default:
		for i := range v.clinics {
			b.WriteString(v.renderClinic(i, &v.clinics[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] agenda  [r] reload  [?] help  [q] quit"))
	return b.String()
}

func (v *View) renderClinic(index int, t *domain.Tenant) string {
	name := t.Name
	if name == "" {
		name = t.Slug
	}
	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %-22s %s", t.Slug, name))
	}
	return v.styles.Normal.Render("  ") +
		v.styles.Subtitle.Render(fmt.Sprintf("%-22s ", t.Slug)) +
		v.styles.Normal.Render(name) + " " +
		v.styles.Muted.Render(t.Timezone)
}

func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Clinics returns the loaded clinics.
func (v *View) Clinics() []domain.Tenant {
	return v.clinics
}

// SelectedIndex returns the highlighted row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
