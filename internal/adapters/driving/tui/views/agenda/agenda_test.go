package agenda

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

var roma = domain.Tenant{ID: "tn-1", Slug: "huellitas-roma", Name: "Huellitas Roma", Timezone: "America/Mexico_City"}

// 2030-03-05 01:30 UTC is still March 4th in Mexico City (UTC-6).
var lateEvening = time.Date(2030, 3, 5, 1, 30, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2030, 3, 4, hour+6, minute, 0, 0, time.UTC)
}

func fixture() (*mockAppointments, *mockClients) {
	appts := &mockAppointments{byDay: map[string][]domain.Appointment{
		"2030-03-04": {
			{ID: "ap-1", TenantID: "tn-1", ClientID: "cl-1", PetID: "pt-1", ServiceID: "sv-1",
				Status: domain.StatusScheduled, Kind: domain.KindClinic, Start: at(10, 0), End: at(10, 30)},
			{ID: "ap-2", TenantID: "tn-1", ClientID: "cl-2", PetID: "pt-2", ServiceID: "sv-1",
				Status: domain.StatusCompleted, Kind: domain.KindHomeVisit, Start: at(12, 0), End: at(13, 0),
				Address: domain.Address{Street: "Orizaba", ExtNumber: "101", Colonia: "Roma Norte", PostalCode: "06700"}},
		},
	}}
	clients := &mockClients{
		clients: map[string]domain.Client{"cl-1": {ID: "cl-1", FirstName: "Ana", LastName: "López"}},
		pets:    map[string]domain.Pet{"pt-1": {ID: "pt-1", Name: "Firulais"}},
	}
	return appts, clients
}

// run executes cmd and feeds its message back to the view.
func run(t *testing.T, v *View, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	v.Update(msg)
	return msg
}

func newView(t *testing.T) (*View, *mockAppointments) {
	t.Helper()
	appts, clients := fixture()
	v := NewView(styles.DefaultStyles(), Services{Appointments: appts, Clients: clients})
	v.now = func() time.Time { return lateEvening }
	run(t, v, v.SetTenant(roma))
	return v, appts
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_SetTenantLoadsLocalToday(t *testing.T) {
	v, appts := newView(t)

	require.Len(t, appts.days, 1)
	assert.Equal(t, "2030-03-04", appts.days[0].Format("2006-01-02"))
	assert.Equal(t, "America/Mexico_City", v.Date().Location().String())
	assert.Len(t, v.Appointments(), 2)
	assert.Equal(t, "ap-1", v.Selected().ID)
}

func TestView_RendersNames(t *testing.T) {
	v, _ := newView(t)

	out := v.View()
	assert.Contains(t, out, "Huellitas Roma")
	assert.Contains(t, out, "Mon 04 Mar 2030")
	assert.Contains(t, out, "10:00-10:30")
	assert.Contains(t, out, "Firulais (Ana López)")
	// Unresolved IDs are shown as-is.
	assert.Contains(t, out, "pt-2 (cl-2)")
	assert.Contains(t, out, "home visit")
}

func TestView_NamesAreCachedAcrossReloads(t *testing.T) {
	appts, clients := fixture()
	v := NewView(styles.DefaultStyles(), Services{Appointments: appts, Clients: clients})
	v.now = func() time.Time { return lateEvening }
	run(t, v, v.SetTenant(roma))
	first := clients.gets

	_, cmd := v.Update(keyMsg("r"))
	run(t, v, cmd)

	// cl-2 is unknown so it is looked up again; cl-1 is not.
	assert.Equal(t, first+1, clients.gets)
}

func TestView_DayNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"next", []string{"right"}, "2030-03-05"},
		{"next with l", []string{"l"}, "2030-03-05"},
		{"previous", []string{"h"}, "2030-03-03"},
		{"back to today", []string{"l", "l", "t"}, "2030-03-04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, appts := newView(t)
			for _, k := range tt.keys {
				_, cmd := v.Update(keyMsg(k))
				run(t, v, cmd)
			}
			assert.Equal(t, tt.want, v.Date().Format("2006-01-02"))
			assert.Equal(t, tt.want, appts.days[len(appts.days)-1].Format("2006-01-02"))
		})
	}
}

func TestView_EmptyDay(t *testing.T) {
	v, _ := newView(t)

	_, cmd := v.Update(keyMsg("l"))
	run(t, v, cmd)

	assert.Nil(t, v.Selected())
	assert.Contains(t, v.View(), "No appointments on this day.")
}

func TestView_StaleLoadIgnored(t *testing.T) {
	v, _ := newView(t)

	v.Update(messages.AgendaLoaded{TenantID: "tn-1", Date: v.Date().AddDate(0, 0, 3)})

	assert.Len(t, v.Appointments(), 2)
}

func TestView_LoadError(t *testing.T) {
	appts, _ := fixture()
	appts.err = errors.New("database is locked")
	v := NewView(styles.DefaultStyles(), Services{Appointments: appts})
	v.now = func() time.Time { return lateEvening }

	run(t, v, v.SetTenant(roma))

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "database is locked")
}

func TestView_Transition(t *testing.T) {
	v, appts := newView(t)

	_, cmd := v.Update(keyMsg("c"))
	msg := run(t, v, cmd)

	require.IsType(t, messages.AppointmentTransitioned{}, msg)
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusConfirmed}, appts.transitions)
	assert.Equal(t, domain.StatusConfirmed, v.Selected().Status)
	assert.Equal(t, "marked confirmed", v.Notice())
}

func TestView_TransitionNotAllowed(t *testing.T) {
	v, appts := newView(t)
	v.Update(keyMsg("j"))
	require.Equal(t, "ap-2", v.Selected().ID)

	_, cmd := v.Update(keyMsg("x"))

	assert.Nil(t, cmd)
	assert.Empty(t, appts.transitions)
	assert.Equal(t, "cannot move completed to cancelled", v.Notice())
}

func TestView_TransitionError(t *testing.T) {
	v, _ := newView(t)

	v.Update(messages.AppointmentTransitioned{Err: errors.New("slot is no longer available")})

	assert.Equal(t, "slot is no longer available", v.Notice())
	assert.Equal(t, domain.StatusScheduled, v.Selected().Status)
}

func TestView_SelectionBounds(t *testing.T) {
	v, _ := newView(t)

	v.Update(keyMsg("k"))
	assert.Equal(t, "ap-1", v.Selected().ID)
	v.Update(keyMsg("j"))
	v.Update(keyMsg("j"))
	assert.Equal(t, "ap-2", v.Selected().ID)
}

func TestView_NavigationMessages(t *testing.T) {
	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"esc", messages.ViewChanged{View: messages.ViewClinics}},
		{"?", messages.ViewChanged{View: messages.ViewHelp}},
		{"q", messages.Quit{}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, _ := newView(t)
			_, cmd := v.Update(keyMsg(tt.key))
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestView_DetailShowsHomeVisitAddress(t *testing.T) {
	v, _ := newView(t)
	v.Update(keyMsg("j"))

	assert.Contains(t, v.View(), "Address: ")
	assert.Contains(t, v.View(), "Roma Norte")
}
