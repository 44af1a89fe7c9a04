package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/mcp"
	"github.com/custodia-labs/vetdesk/internal/adapters/driving/watcher"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

var (
	serveAddr string
	serveMCP  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API and background jobs",
	Long: `Run the REST API together with the scheduler (no-show sweep, low-stock
report, calendar push) and, when a drop folder is configured, the
inventory folder watcher. With --mcp the MCP endpoint is mounted at /mcp on
the same listener. Stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides settings)")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "also serve MCP at "+mcp.MountPath)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if svc.Settings == nil {
		return errNotConfigured("settings")
	}
	settings, err := svc.Settings.Get()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		settings.Server.Addr = serveAddr
	}

	api, err := httpapi.NewServer(&httpapi.Ports{
		Companies:    svc.Companies,
		Tenants:      svc.Tenants,
		Clients:      svc.Clients,
		Staff:        svc.Staff,
		Rooms:        svc.Rooms,
		Catalog:      svc.Catalog,
		Appointments: svc.Appointments,
		Inventory:    svc.Inventory,
		Receipts:     svc.Receipts,
		Routes:       svc.Routes,
		Postal:       svc.Postal,
	}, settings.Server)
	if err != nil {
		return err
	}
	if serveMCP {
		mcpServer, err := newMCPServer()
		if err != nil {
			return err
		}
		api.Mount(mcp.MountPath, mcpServer.Handler())
	}

	log := logger.Named("serve")
	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error { return api.Run(ctx) })

	if svc.Scheduler != nil {
		g.Go(func() error {
			if err := svc.Scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if settings.Import.WatchDir != "" && svc.Inventory != nil {
		w := watcher.New(settings.Import, svc.Inventory, svc.Tenants)
		g.Go(func() error { return w.Run(ctx) })
		log.Infow("watching inventory drop folder", "dir", w.Dir())
	}

	cmd.Printf("Vetdesk listening on %s (Ctrl+C to stop)\n", settings.Server.Addr)
	return g.Wait()
}
