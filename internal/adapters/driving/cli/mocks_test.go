package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
)

// execute runs the root command with args against s and returns its output.
// Flags are reset to their defaults first since cobra keeps them between runs.
func execute(t *testing.T, s *Services, args ...string) (string, error) {
	t.Helper()

	prev := svc
	t.Cleanup(func() { svc = prev })
	SetServices(s)
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func roma() domain.Tenant {
	return domain.Tenant{
		ID: "tn-1", Slug: "huellitas-roma", Name: "Huellitas Roma",
		Timezone: "America/Mexico_City", SlotMinutes: 15,
	}
}

// mexicoCity returns a wall-clock time in UTC-6.
func mexicoCity(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh+6, mm, 0, 0, time.UTC)
}

type mockTenants struct {
	tenants []domain.Tenant
	err     error
	created *domain.Tenant
}

func (m *mockTenants) Create(_ context.Context, t domain.Tenant) (*domain.Tenant, error) {
	if m.err != nil {
		return nil, m.err
	}
	t.ID = "tn-new"
	m.created = &t
	return &t, nil
}

func (m *mockTenants) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	return m.Resolve(ctx, id)
}

func (m *mockTenants) Resolve(_ context.Context, ref string) (*domain.Tenant, error) {
	for i := range m.tenants {
		if m.tenants[i].ID == ref || m.tenants[i].Slug == ref {
			t := m.tenants[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockTenants) List(context.Context) ([]domain.Tenant, error) { return m.tenants, m.err }

func (m *mockTenants) Update(context.Context, domain.Tenant) error { return m.err }

func (m *mockTenants) Delete(context.Context, string) error { return m.err }

type mockAppointments struct {
	availability *domain.Availability
	booked       *domain.Appointment
	day          []domain.Appointment
	err          error

	lastRequest domain.BookingRequest
	lastDay     time.Time
	lastStatus  domain.AppointmentStatus
}

func (m *mockAppointments) CheckAvailability(_ context.Context, req domain.BookingRequest) (*domain.Availability, error) {
	m.lastRequest = req
	return m.availability, m.err
}

func (m *mockAppointments) Book(_ context.Context, req domain.BookingRequest) (*domain.Appointment, error) {
	m.lastRequest = req
	return m.booked, m.err
}

func (m *mockAppointments) Reschedule(context.Context, string, string, time.Time, string, string) (*domain.Appointment, error) {
	return m.booked, m.err
}

func (m *mockAppointments) Transition(_ context.Context, tenantID, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	m.lastStatus = status
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Appointment{ID: id, TenantID: tenantID, Status: status}, nil
}

func (m *mockAppointments) Get(context.Context, string, string) (*domain.Appointment, error) {
	return m.booked, m.err
}

func (m *mockAppointments) Day(_ context.Context, _ string, date time.Time) ([]domain.Appointment, error) {
	m.lastDay = date
	return m.day, m.err
}

func (m *mockAppointments) Range(context.Context, string, time.Time, time.Time) ([]domain.Appointment, error) {
	return m.day, m.err
}

func (m *mockAppointments) SweepNoShows(context.Context, time.Time) (int, error) { return 0, m.err }

func (m *mockAppointments) PublishPending(context.Context, int) (int, error) { return 0, m.err }

type mockPostal struct {
	entries []domain.PostalCode
	err     error

	lookups  []string
	searches []string
	limit    int
	imported string
}

func (m *mockPostal) Lookup(_ context.Context, code string) ([]domain.PostalCode, error) {
	m.lookups = append(m.lookups, code)
	return m.entries, m.err
}

func (m *mockPostal) Search(_ context.Context, query string, limit int) ([]domain.PostalCode, error) {
	m.searches = append(m.searches, query)
	m.limit = limit
	return m.entries, m.err
}

func (m *mockPostal) Import(_ context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.imported = string(data)
	return 2, m.err
}

type mockInventory struct {
	report *domain.ImportReport
	low    []domain.InventoryItem
	err    error

	lastImport driving.ImportRequest
}

func (m *mockInventory) Import(_ context.Context, req driving.ImportRequest) (*domain.ImportReport, error) {
	m.lastImport = req
	if m.err != nil {
		return nil, m.err
	}
	r := *m.report
	r.Parser, r.Source, r.Mode, r.DryRun = req.Parser, req.Source, req.Mode, req.DryRun
	return &r, nil
}

func (m *mockInventory) Parsers() []string { return []string{"ai", "csv"} }

func (m *mockInventory) Create(_ context.Context, it domain.InventoryItem) (*domain.InventoryItem, error) {
	return &it, m.err
}

func (m *mockInventory) Get(context.Context, string, string) (*domain.InventoryItem, error) {
	return nil, domain.ErrNotFound
}

func (m *mockInventory) List(context.Context, string) ([]domain.InventoryItem, error) {
	return nil, m.err
}

func (m *mockInventory) Update(context.Context, domain.InventoryItem) error { return m.err }

func (m *mockInventory) Delete(context.Context, string, string) error { return m.err }

func (m *mockInventory) LowStock(context.Context, string) ([]domain.InventoryItem, error) {
	return m.low, m.err
}

func (m *mockInventory) Adjust(context.Context, string, string, float64) (*domain.InventoryItem, error) {
	return nil, m.err
}

type mockSeed struct {
	report *driving.SeedReport
	err    error
	calls  int
}

func (m *mockSeed) Seed(context.Context) (*driving.SeedReport, error) {
	m.calls++
	return m.report, m.err
}

func (m *mockSeed) SeedRoutes(context.Context, string) (int, error) { return 0, m.err }

type mockSettings struct {
	settings    domain.AppSettings
	saved       int
	err         error
	validateErr error

	storageDriver domain.StorageDriver
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultAppSettings()}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, m.err
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.saved++
	m.settings = *s
	return m.err
}

func (m *mockSettings) SetLLMProvider(p domain.AIProvider, model, apiKey string) error {
	m.settings.LLM = domain.LLMSettings{Provider: p, Model: model, APIKey: apiKey}
	return m.err
}

func (m *mockSettings) SetStorage(driver domain.StorageDriver, dataDir, dsn string) error {
	m.storageDriver = driver
	m.settings.Storage = domain.StorageSettings{Driver: driver, DataDir: dataDir, DSN: dsn}
	return m.err
}

func (m *mockSettings) SetCalendar(cfg domain.CalendarSettings) error {
	m.settings.Calendar = cfg
	return m.err
}

func (m *mockSettings) Validate() error { return m.err }

func (m *mockSettings) ConfigPath() string { return "/home/vet/.vetdesk/config.toml" }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettings) ValidateLLMConfig() error { return m.validateErr }

func (m *mockSettings) GetSchedulerConfig() domain.SchedulerConfig {
	return domain.DefaultSchedulerConfig()
}

type mockScheduler struct {
	tasks   []domain.ScheduledTask
	result  *domain.TaskResult
	history []domain.TaskResult
	err     error

	ran   string
	limit int
}

func (m *mockScheduler) Start(context.Context) error { return m.err }

func (m *mockScheduler) Stop() error { return nil }

func (m *mockScheduler) Tasks(context.Context) ([]domain.ScheduledTask, error) { return m.tasks, m.err }

func (m *mockScheduler) RunNow(_ context.Context, id string) (*domain.TaskResult, error) {
	m.ran = id
	return m.result, m.err
}

func (m *mockScheduler) History(_ context.Context, _ string, limit int) ([]domain.TaskResult, error) {
	m.limit = limit
	return m.history, m.err
}

func requireContainsAll(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		require.Contains(t, out, w)
	}
}
