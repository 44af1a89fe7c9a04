package mcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewServer(t *testing.T) {
	t.Run("nil tenant service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Appointments: &mockAppointmentService{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingTenantService)
	})

	t.Run("nil appointment service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Tenants: testTenants()})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingAppointmentService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Tenants:      testTenants(),
			Appointments: &mockAppointmentService{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports Ports
		want  error
	}{
		{"empty", Ports{}, ErrMissingTenantService},
		{"tenants only", Ports{Tenants: testTenants()}, ErrMissingAppointmentService},
		{"required only", Ports{Tenants: testTenants(), Appointments: &mockAppointmentService{}}, nil},
		{"all ports", Ports{
			Tenants:      testTenants(),
			Appointments: &mockAppointmentService{},
			Catalog:      &mockCatalogService{},
			Postal:       &mockPostalService{},
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestServer_Handshake(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server, err := NewServer(&Ports{
		Tenants:      testTenants(),
		Appointments: &mockAppointmentService{},
		Postal:       &mockPostalService{},
	}, WithVersion("1.4.0"))
	require.NoError(t, err)

	clientT, serverT := mcp.NewInMemoryTransports()
	ss, err := server.server.Connect(ctx, serverT, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-desk", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	defer cs.Close()

	init := cs.InitializeResult()
	require.NotNil(t, init)
	assert.Equal(t, "vetdesk", init.ServerInfo.Name)
	assert.Equal(t, "1.4.0", init.ServerInfo.Version)
	assert.Contains(t, init.Instructions, "check_availability")

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "book_appointment")
	assert.Contains(t, names, "lookup_postal_code")

	templates, err := cs.ListResourceTemplates(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, templates.ResourceTemplates, "no catalog port, no services resource")
}

func TestServer_ServeStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	server := newTestServer(t, &Ports{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
}
