package clinics

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

type mockTenants struct {
	tenants []domain.Tenant
	err     error
}

func (m *mockTenants) Create(_ context.Context, t domain.Tenant) (*domain.Tenant, error) {
	return &t, m.err
}

func (m *mockTenants) Get(context.Context, string) (*domain.Tenant, error) {
	return nil, domain.ErrNotFound
}

func (m *mockTenants) Resolve(context.Context, string) (*domain.Tenant, error) {
	return nil, domain.ErrNotFound
}

func (m *mockTenants) List(context.Context) ([]domain.Tenant, error) { return m.tenants, m.err }

func (m *mockTenants) Update(context.Context, domain.Tenant) error { return m.err }

func (m *mockTenants) Delete(context.Context, string) error { return m.err }

func loaded(t *testing.T, svc *mockTenants) *View {
	t.Helper()
	v := NewView(styles.DefaultStyles(), svc)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func twoClinics() *mockTenants {
	return &mockTenants{tenants: []domain.Tenant{
		{ID: "tn-1", Slug: "huellitas-roma", Name: "Huellitas Roma", Timezone: "America/Mexico_City"},
		{ID: "tn-2", Slug: "huellitas-napoles", Name: "Huellitas Nápoles", Timezone: "America/Mexico_City"},
	}}
}

func TestView_LoadsClinics(t *testing.T) {
	v := loaded(t, twoClinics())

	assert.Len(t, v.Clinics(), 2)
	assert.NoError(t, v.Err())
	out := v.View()
	assert.Contains(t, out, "huellitas-roma")
	assert.Contains(t, out, "Huellitas Nápoles")
}

func TestView_Empty(t *testing.T) {
	v := loaded(t, &mockTenants{})

	assert.Contains(t, v.View(), "vetdesk seed")
}

func TestView_LoadError(t *testing.T) {
	v := loaded(t, &mockTenants{err: errors.New("no database")})

	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "no database")
}

func TestView_NilService(t *testing.T) {
	v := NewView(styles.DefaultStyles(), nil)
	v.Update(v.Init()())

	assert.Error(t, v.Err())
}

func TestView_SelectOpensClinic(t *testing.T) {
	v := loaded(t, twoClinics())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(runes("j")) // already at the bottom
	assert.Equal(t, 1, v.SelectedIndex())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.TenantSelected)
	require.True(t, ok)
	assert.Equal(t, "tn-2", msg.Tenant.ID)
}

func TestView_EnterWithoutClinics(t *testing.T) {
	v := loaded(t, &mockTenants{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_Keys(t *testing.T) {
	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"?", messages.ViewChanged{View: messages.ViewHelp}},
		{"q", messages.Quit{}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := loaded(t, twoClinics())
			_, cmd := v.Update(runes(tt.key))
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestView_Reload(t *testing.T) {
	svc := twoClinics()
	v := loaded(t, svc)
	svc.tenants = svc.tenants[:1]

	_, cmd := v.Update(runes("r"))
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Len(t, v.Clinics(), 1)
}

func TestView_CustomKeys(t *testing.T) {
	km := keymap.DefaultKeyMap()
	km.Select = key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open"))

	v := loaded(t, twoClinics())
	v.WithKeys(km)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "enter is no longer bound")

	v.Update(runes("j"))
	_, cmd = v.Update(runes("o"))
	require.NotNil(t, cmd)
	assert.Equal(t, "tn-2", cmd().(messages.TenantSelected).Tenant.ID)
}
