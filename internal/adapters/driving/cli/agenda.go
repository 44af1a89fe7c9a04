package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/tui"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Open the interactive day agenda",
	Long: `Open the interactive agenda. With --tenant the clinic's agenda opens
directly; otherwise a clinic picker is shown first.

Keys: ←/→ change day, c confirm, s start, d done, x cancel, n no-show.`,
	Args: cobra.NoArgs,
	RunE: runAgenda,
}

func init() {
	rootCmd.AddCommand(agendaCmd)
}

func runAgenda(cmd *cobra.Command, _ []string) error {
	app, err := tui.NewApp(&tui.Ports{
		Tenants:      svc.Tenants,
		Appointments: svc.Appointments,
		Clients:      svc.Clients,
		Catalog:      svc.Catalog,
	})
	if err != nil {
		return err
	}
	app.WithContext(cmd.Context())

	if tenantFlag != "" {
		var tenant *domain.Tenant
		if tenant, err = currentTenant(cmd); err != nil {
			return err
		}
		app.WithTenant(tenant)
	}
	return app.Run()
}
