// Package agenda provides the day agenda of one clinic: a list of the day's
// appointments with day navigation and status changes.
package agenda

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

const dateLayout = "Mon 02 Jan 2006"

// Services the view reads from. Clients and Catalog are optional and only
// used to show names instead of IDs.
type Services struct {
	Appointments driving.AppointmentService
	Clients      driving.ClientService
	Catalog      driving.CatalogService
}

// View is the day agenda.
type View struct {
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap
	svc    Services
	now    func() time.Time

	tenant   *domain.Tenant
	loc      *time.Location
	date     time.Time
	appts    []domain.Appointment
	names    map[string]string
	selected int
	notice   string
	err      error
	loading  bool
	width    int
	height   int
}

// NewView creates an agenda view.
func NewView(s *styles.Styles, svc Services) *View {
	return &View{
		ctx:    context.Background(),
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		svc:    svc,
		now:    time.Now,
		loc:    time.UTC,
		names:  map[string]string{},
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

// SetTenant opens the agenda of tenant on today's date in its timezone.
func (v *View) SetTenant(tenant domain.Tenant) tea.Cmd {
	v.tenant = &tenant
	v.loc = time.UTC
	if loc, err := tenant.Location(); err == nil {
		v.loc = loc
	}
	v.names = map[string]string{}
	return v.goTo(v.now())
}

// goTo moves to the local day containing t and reloads.
func (v *View) goTo(t time.Time) tea.Cmd {
	y, m, d := t.In(v.loc).Date()
	v.date = time.Date(y, m, d, 0, 0, 0, 0, v.loc)
	v.selected = 0
	v.notice = ""
	return v.load()
}

func (v *View) load() tea.Cmd {
	if v.tenant == nil {
		return nil
	}
	v.loading = true
	ctx, svc, tenantID, date := v.ctx, v.svc, v.tenant.ID, v.date
	known := make(map[string]string, len(v.names))
	for k, name := range v.names {
		known[k] = name
	}
	return func() tea.Msg {
		if svc.Appointments == nil {
			return messages.AgendaLoaded{TenantID: tenantID, Date: date, Err: errors.New("appointment service not available")}
		}
		appts, err := svc.Appointments.Day(ctx, tenantID, date)
		if err != nil {
			return messages.AgendaLoaded{TenantID: tenantID, Date: date, Err: err}
		}
		return messages.AgendaLoaded{
			TenantID:     tenantID,
			Date:         date,
			Appointments: appts,
			Names:        resolveNames(ctx, svc, tenantID, appts, known),
		}
	}
}

// resolveNames looks up client, pet and service names not already in known.
// Lookups that fail leave the ID to be shown instead.
func resolveNames(ctx context.Context, svc Services, tenantID string, appts []domain.Appointment, known map[string]string) map[string]string {
	for i := range appts {
		a := &appts[i]
		if svc.Clients != nil {
			if _, ok := known[a.ClientID]; !ok && a.ClientID != "" {
				if c, err := svc.Clients.Get(ctx, tenantID, a.ClientID); err == nil {
					known[a.ClientID] = c.FullName()
				}
			}
			if _, ok := known[a.PetID]; !ok && a.PetID != "" {
				if p, err := svc.Clients.GetPet(ctx, tenantID, a.PetID); err == nil {
					known[a.PetID] = p.Name
				}
			}
		}
		if svc.Catalog != nil {
			if _, ok := known[a.ServiceID]; !ok && a.ServiceID != "" {
				if s, err := svc.Catalog.Get(ctx, tenantID, a.ServiceID); err == nil {
					known[a.ServiceID] = s.Name
				}
			}
		}
	}
	return known
}

func (v *View) transition(next domain.AppointmentStatus) tea.Cmd {
	a := v.Selected()
	if a == nil {
		return nil
	}
	if !a.Status.CanTransition(next) {
		v.notice = fmt.Sprintf("cannot move %s to %s", a.Status, next)
		return nil
	}
	ctx, svc, tenantID, id := v.ctx, v.svc.Appointments, a.TenantID, a.ID
	return func() tea.Msg {
		updated, err := svc.Transition(ctx, tenantID, id, next)
		return messages.AppointmentTransitioned{Appointment: updated, Status: next, Err: err}
	}
}

// Update handles messages for the agenda view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AgendaLoaded:
		if v.tenant == nil || msg.TenantID != v.tenant.ID || !msg.Date.Equal(v.date) {
			return v, nil // stale
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.appts = msg.Appointments
			if msg.Names != nil {
				v.names = msg.Names
			}
			if v.selected >= len(v.appts) {
				v.selected = max(len(v.appts)-1, 0)
			}
		}
		return v, nil

	case messages.AppointmentTransitioned:
		if msg.Err != nil {
			v.notice = msg.Err.Error()
			return v, nil
		}
		if msg.Appointment != nil {
			for i := range v.appts {
				if v.appts[i].ID == msg.Appointment.ID {
					v.appts[i] = *msg.Appointment
				}
			}
		}
		v.notice = "marked " + strings.ReplaceAll(string(msg.Status), "_", " ")
		return v, nil
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := v.keys
	for _, t := range []struct {
		binding key.Binding
		to      domain.AppointmentStatus
	}{
		{k.Confirm, domain.StatusConfirmed},
		{k.Start, domain.StatusInProgress},
		{k.Complete, domain.StatusCompleted},
		{k.Cancel, domain.StatusCancelled},
		{k.NoShow, domain.StatusNoShow},
	} {
		if key.Matches(msg, t.binding) {
			return v, v.transition(t.to)
		}
	}

	switch {
	case key.Matches(msg, k.Up):
		v.selected = max(v.selected-1, 0)
	case key.Matches(msg, k.Down):
		v.selected = max(min(v.selected+1, len(v.appts)-1), 0)
	case key.Matches(msg, k.PrevDay):
		return v, v.goTo(v.date.AddDate(0, 0, -1))
	case key.Matches(msg, k.NextDay):
		return v, v.goTo(v.date.AddDate(0, 0, 1))
	case key.Matches(msg, k.Today):
		return v, v.goTo(v.now())
	case key.Matches(msg, k.Refresh):
		v.notice = ""
		return v, v.load()
	case key.Matches(msg, k.Back):
		return v, messages.Send(messages.ViewChanged{View: messages.ViewClinics})
	case key.Matches(msg, k.Help):
		return v, messages.Send(messages.ViewChanged{View: messages.ViewHelp})
	case key.Matches(msg, k.Quit):
		return v, messages.Send(messages.Quit{})
	}
	return v, nil
}

// View renders the agenda.
func (v *View) View() string {
	var b strings.Builder

	title := "Agenda"
	if v.tenant != nil {
		title = v.tenant.Name
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("  ")
	b.WriteString(v.styles.Subtitle.Render(v.date.Format(dateLayout)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading agenda..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.appts) == 0:
		b.WriteString(v.styles.Muted.Render("No appointments on this day."))
	default:
		for i := range v.appts {
			b.WriteString(v.renderRow(i, &v.appts[i]))
			b.WriteString("\n")
		}
		if a := v.Selected(); a != nil {
			b.WriteString("\n")
			b.WriteString(v.renderDetail(a))
		}
	}

	if v.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Warning.Render(v.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[←/→] day  [t] today  [c] confirm  [s] start  [d] done  [x] cancel  [n] no-show  [esc] clinics"))
	return b.String()
}

func (v *View) renderRow(index int, a *domain.Appointment) string {
	span := a.Start.In(v.loc).Format("15:04") + "-" + a.End.In(v.loc).Format("15:04")
	who := v.name(a.PetID)
	if client := v.name(a.ClientID); client != "" {
		who += " (" + client + ")"
	}
	what := v.name(a.ServiceID)
	if a.Kind == domain.KindHomeVisit {
		what += " · home visit"
	}
	status := fmt.Sprintf("%-11s", a.Status)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %s  %s  %s  %s", span, status, who, what))
	}
	return "  " + v.styles.Normal.Render(span) + "  " +
		v.styles.Status(a.Status).Render(status) + "  " +
		v.styles.Normal.Render(who) + "  " +
		v.styles.Muted.Render(what)
}

func (v *View) renderDetail(a *domain.Appointment) string {
	var lines []string
	if a.StaffID != "" {
		lines = append(lines, "Staff: "+a.StaffID)
	}
	if a.RoomID != "" {
		lines = append(lines, "Room: "+a.RoomID)
	}
	if a.Kind == domain.KindHomeVisit {
		lines = append(lines, "Address: "+a.Address.Line())
	}
	if a.Notes != "" {
		lines = append(lines, "Notes: "+a.Notes)
	}
	if len(lines) == 0 {
		return ""
	}
	return v.styles.Muted.Render(strings.Join(lines, "\n"))
}

// name returns the resolved name for id, or id itself.
func (v *View) name(id string) string {
	if n, ok := v.names[id]; ok && n != "" {
		return n
	}
	return id
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns the highlighted appointment, or nil.
func (v *View) Selected() *domain.Appointment {
	if v.selected < 0 || v.selected >= len(v.appts) {
		return nil
	}
	return &v.appts[v.selected]
}

// Date returns the local midnight of the day shown.
func (v *View) Date() time.Time {
	return v.date
}

// Appointments returns the day's appointments.
func (v *View) Appointments() []domain.Appointment {
	return v.appts
}

// Tenant returns the clinic shown, or nil.
func (v *View) Tenant() *domain.Tenant {
	return v.tenant
}

// Notice returns the last status line message.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
