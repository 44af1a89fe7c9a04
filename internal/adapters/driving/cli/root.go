// Package cli provides the vetdesk command line interface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

// TenantEnv names the environment variable used when --tenant is not given.
const TenantEnv = "VETDESK_TENANT"

// version is set at build time with -ldflags.
var version = "dev"

// Services holds the driving ports the commands call.
// Nil services make the commands that need them fail with a clear error.
type Services struct {
	Companies    driving.CompanyService
	Tenants      driving.TenantService
	Clients      driving.ClientService
	Staff        driving.StaffService
	Rooms        driving.RoomService
	Catalog      driving.CatalogService
	Appointments driving.AppointmentService
	Inventory    driving.InventoryService
	Receipts     driving.ReceiptService
	Routes       driving.RouteService
	Postal       driving.PostalService
	Seed         driving.SeedService
	Settings     driving.SettingsService
	CalendarAuth driving.CalendarAuthService
	Scheduler    driving.Scheduler
}

var (
	svc = &Services{}

	tenantFlag  string
	verboseFlag bool
	jsonFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "vetdesk",
	Short: "Multi-clinic veterinary front desk",
	Long: `Vetdesk runs the front desk of one or more veterinary clinics: appointments
with slot checks, client and pet intake, inventory imports, receipts and
delivery routes.

Most commands act on one clinic. Pass it with --tenant (slug or ID) or set
` + TenantEnv + `.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&tenantFlag, "tenant", "t", os.Getenv(TenantEnv), "clinic slug or ID")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "print results as JSON")
}

// SetServices installs the services used by all commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	svc = s
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// errNotConfigured reports a command whose service was not wired.
func errNotConfigured(what string) error {
	return fmt.Errorf("%s service not configured", what)
}

// currentTenant resolves --tenant.
func currentTenant(cmd *cobra.Command) (*domain.Tenant, error) {
	if svc.Tenants == nil {
		return nil, errNotConfigured("tenant")
	}
	if tenantFlag == "" {
		return nil, errors.New("no clinic selected: pass --tenant or set " + TenantEnv)
	}
	tenant, err := svc.Tenants.Resolve(cmd.Context(), tenantFlag)
	if err != nil {
		return nil, fmt.Errorf("clinic %q: %w", tenantFlag, err)
	}
	return tenant, nil
}

// tenantLocation returns the clinic's timezone, or UTC when it cannot be loaded.
func tenantLocation(tenant *domain.Tenant) *time.Location {
	loc, err := tenant.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
