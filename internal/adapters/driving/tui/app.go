package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/views/agenda"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/views/clinics"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// App routes messages between the clinic picker, the agenda and the help
// screen, and keeps the status bar in step with whichever is showing.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	clinicsView *clinics.View
	agendaView  *agenda.View
	statusBar   *status.Bar

	// initial is opened directly on Init when set.
	initial *domain.Tenant

	currentView messages.ViewType
	// previousView is where esc returns to from help.
	previousView messages.ViewType

	err error

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp fails when a required service is missing from ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        km,
		clinicsView: clinics.NewView(s, ports.Tenants).WithKeys(km),
		agendaView: agenda.NewView(s, agenda.Services{
			Appointments: ports.Appointments,
			Clients:      ports.Clients,
			Catalog:      ports.Catalog,
		}).WithKeys(km),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewClinics,
	}, nil
}

// WithContext bounds every service call and the program itself.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.clinicsView.SetContext(ctx)
	a.agendaView.SetContext(ctx)
	return a
}

// WithTenant opens the agenda of tenant instead of the clinic picker.
func (a *App) WithTenant(tenant *domain.Tenant) *App {
	a.initial = tenant
	return a
}

func (a *App) Init() tea.Cmd {
	first := a.clinicsView.Init()
	if a.initial != nil {
		first = a.openAgenda(*a.initial)
	}
	return tea.Batch(
		tea.SetWindowTitle("vetdesk - agenda"),
		first,
	)
}

func (a *App) openAgenda(tenant domain.Tenant) tea.Cmd {
	a.currentView = messages.ViewAgenda
	a.statusBar.SetAgenda(tenant.Name, 0)
	a.statusBar.SetMessage("")
	return a.agendaView.SetTenant(tenant)
}

//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewClinics:
			a.clinicsView, cmd = a.clinicsView.Update(msg)
		case messages.ViewAgenda:
			a.agendaView, cmd = a.agendaView.Update(msg)
		case messages.ViewHelp:
			switch {
			case key.Matches(msg, a.keys.Back, a.keys.Help):
				a.currentView = a.previousView
				a.refreshStatus()
			case key.Matches(msg, a.keys.Quit):
				return a, tea.Quit
			}
		}
		return a, cmd

	case messages.ViewChanged:
		if msg.View == messages.ViewHelp {
			a.previousView = a.currentView
			a.currentView = messages.ViewHelp
			a.statusBar.SetState(status.StateHelp)
			return a, nil
		}
		a.currentView = msg.View
		if msg.View == messages.ViewClinics {
			a.statusBar.Clear()
			return a, a.clinicsView.Init()
		}
		a.refreshStatus()
		return a, nil

	case messages.TenantsLoaded:
		a.clinicsView, cmd = a.clinicsView.Update(msg)
		a.setErr(msg.Err)
		return a, cmd

	case messages.TenantSelected:
		return a, a.openAgenda(msg.Tenant)

	case messages.AgendaLoaded:
		a.agendaView, cmd = a.agendaView.Update(msg)
		a.setErr(a.agendaView.Err())
		a.refreshStatus()
		return a, cmd

	case messages.AppointmentTransitioned:
		a.agendaView, cmd = a.agendaView.Update(msg)
		a.refreshStatus()
		return a, cmd

	case messages.ErrorOccurred:
		a.setErr(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) setErr(err error) {
	a.err = err
	if err != nil {
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(err.Error())
	}
}

// refreshStatus syncs the status bar with the agenda.
func (a *App) refreshStatus() {
	if a.currentView != messages.ViewAgenda || a.err != nil {
		return
	}
	name := ""
	if t := a.agendaView.Tenant(); t != nil {
		name = t.Name
	}
	a.statusBar.SetAgenda(name, len(a.agendaView.Appointments()))
	a.statusBar.SetMessage(a.agendaView.Notice())
}

// View pins the status bar to the bottom row.
func (a *App) View() string {
	if !a.ready {
		return ""
	}

	var body string
	switch a.currentView {
	case messages.ViewAgenda:
		body = a.agendaView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.clinicsView.View()
	}

	bar := a.statusBar.View()
	gap := max(a.height-lipgloss.Height(body)-lipgloss.Height(bar), 1)
	return body + strings.Repeat("\n", gap) + bar
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")
	for _, group := range a.keys.FullHelp() {
		for _, k := range group {
			h := k.Help()
			b.WriteString(fmt.Sprintf("  %-8s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run blocks until the user quits or the context ends.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Agenda returns the agenda view.
func (a *App) Agenda() *agenda.View {
	return a.agendaView
}

// Clinics returns the clinic picker view.
func (a *App) Clinics() *clinics.View {
	return a.clinicsView
}

// Err is the last load or transition error, nil once cleared.
func (a *App) Err() error {
	return a.err
}

// Ready is false until the first window size arrives.
func (a *App) Ready() bool {
	return a.ready
}

func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.clinicsView.SetDimensions(width, height)
	a.agendaView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}
