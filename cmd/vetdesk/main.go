// Command vetdesk runs the clinic desk: CLI, REST API, MCP server and agenda TUI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/vetdesk/internal/adapters/driven/ai"
	"github.com/custodia-labs/vetdesk/internal/adapters/driven/calendar/google"
	"github.com/custodia-labs/vetdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vetdesk/internal/adapters/driven/oauth"
	"github.com/custodia-labs/vetdesk/internal/adapters/driven/storage/sqlstore"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/cli"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/services"
	"github.com/custodia-labs/vetdesk/internal/logger"
	"github.com/custodia-labs/vetdesk/internal/parsers"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = logger.Sync() }()

	log := logger.Named("main")

	home, err := file.HomeDir()
	if err != nil {
		return err
	}
	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	storage := settings.Storage
	if storage.Driver != domain.StoragePostgres && storage.DataDir == "" {
		storage.DataDir = filepath.Join(home, "data")
	}
	store, err := sqlstore.Open(storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		return err
	}
	llm := ai.Init(ctx, &settings.LLM, prompts)
	defer llm.Close()
	for _, w := range llm.Warnings {
		log.Warnw("AI import disabled", "reason", w)
	}
	registry := parsers.NewDefaultRegistry(llm.LLMService, llm.PromptStore)

	companies := store.CompanyStore()
	tenants := store.TenantStore()
	clients := store.ClientStore()
	pets := store.PetStore()
	staff := store.StaffStore()
	rooms := store.RoomStore()
	catalog := store.ServiceStore()
	appts := store.AppointmentStore()
	items := store.InventoryStore()
	receipts := store.ReceiptStore()
	routes := store.RouteStore()
	codes := store.PostalCodeStore()

	appointmentSvc := services.NewAppointmentService(services.AppointmentStores{
		Tenants:      tenants,
		Clients:      clients,
		Pets:         pets,
		Services:     catalog,
		Staff:        staff,
		Rooms:        rooms,
		Appointments: appts,
	})
	if settings.Calendar.IsConfigured() {
		publisher, err := google.FromSettings(ctx, settings.Calendar)
		if err != nil {
			log.Warnw("calendar mirror disabled", "error", err)
		} else {
			appointmentSvc.SetCalendarPublisher(publisher)
		}
	}

	inventorySvc := services.NewInventoryService(items, tenants, registry)

	cli.SetServices(&cli.Services{
		Companies:    services.NewCompanyService(companies, tenants),
		Tenants:      services.NewTenantService(tenants, companies, appts),
		Clients:      services.NewClientService(clients, pets, appts),
		Staff:        services.NewStaffService(staff, tenants, companies, appts, routes),
		Rooms:        services.NewRoomService(rooms, appts),
		Catalog:      services.NewCatalogService(catalog, appts),
		Appointments: appointmentSvc,
		Inventory:    inventorySvc,
		Receipts:     services.NewReceiptService(receipts, tenants),
		Routes:       services.NewRouteService(routes, staff, clients),
		Postal:       services.NewPostalService(codes),
		Seed: services.NewSeedService(services.SeedStores{
			Companies:    companies,
			Tenants:      tenants,
			Staff:        staff,
			Rooms:        rooms,
			Services:     catalog,
			Clients:      clients,
			Pets:         pets,
			Inventory:    items,
			Templates:    receipts,
			Routes:       routes,
			PostalCodes:  codes,
			Appointments: appts,
		}),
		Settings:     settingsSvc,
		CalendarAuth: services.NewCalendarAuthService(settingsSvc, oauth.NewGoogleAuthorizer()),
		Scheduler: services.NewScheduler(
			settingsSvc.GetSchedulerConfig(),
			store.SchedulerStore(),
			appointmentSvc,
			inventorySvc,
			tenants,
		),
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}
