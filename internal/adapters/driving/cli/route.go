package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/services"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Delivery routes",
}

var routeWeekday string

var routeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List routes, optionally for one --weekday",
	Args:  cobra.NoArgs,
	RunE:  runRouteList,
}

var routeShowCmd = &cobra.Command{
	Use:   "show <route-id>",
	Short: "Show a route's stops in order",
	Args:  cobra.ExactArgs(1),
	RunE:  runRouteShow,
}

var routeSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo routes for the clinic",
	Long:  `Create the demo delivery routes. Routes whose name already exists are skipped.`,
	Args:  cobra.NoArgs,
	RunE:  runRouteSeed,
}

func init() {
	routeListCmd.Flags().StringVar(&routeWeekday, "weekday", "", "day name in English or Spanish")
	routeCmd.AddCommand(routeListCmd, routeShowCmd, routeSeedCmd)
	rootCmd.AddCommand(routeCmd)
}

func runRouteList(cmd *cobra.Command, _ []string) error {
	if svc.Routes == nil {
		return errNotConfigured("route")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}

	var routes []domain.DeliveryRoute
	if routeWeekday != "" {
		day, perr := services.ParseWeekday(routeWeekday)
		if perr != nil {
			return perr
		}
		routes, err = svc.Routes.ForDay(cmd.Context(), tenant.ID, day)
	} else {
		routes, err = svc.Routes.List(cmd.Context(), tenant.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, routes)
	}

	rows := make([][]string, 0, len(routes))
	for i := range routes {
		r := &routes[i]
		rows = append(rows, []string{r.ID, r.Name, r.Weekday.String(), r.DriverID, strconv.Itoa(len(r.Stops))})
	}
	printTable(cmd, "No routes.", []string{"ID", "NAME", "DAY", "DRIVER", "STOPS"}, rows)
	return nil
}

func runRouteShow(cmd *cobra.Command, args []string) error {
	if svc.Routes == nil {
		return errNotConfigured("route")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}
	route, err := svc.Routes.Get(cmd.Context(), tenant.ID, args[0])
	if err != nil {
		return fmt.Errorf("route %q: %w", args[0], err)
	}
	if jsonFlag {
		return printJSON(cmd, route)
	}

	cmd.Printf("%s, %s, driver %s\n", route.Name, route.Weekday, route.DriverID)
	rows := make([][]string, 0, len(route.Stops))
	for _, s := range route.Stops {
		window := "any time"
		if s.HasWindow() {
			window = domain.FormatClock(s.WindowStart) + "-" + domain.FormatClock(s.WindowEnd)
		}
		rows = append(rows, []string{strconv.Itoa(s.Sequence), s.ClientID, s.Address.Line(), window})
	}
	printTable(cmd, "No stops.", []string{"#", "CLIENT", "ADDRESS", "WINDOW"}, rows)
	return nil
}

func runRouteSeed(cmd *cobra.Command, _ []string) error {
	if svc.Seed == nil {
		return errNotConfigured("seed")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}
	n, err := svc.Seed.SeedRoutes(cmd.Context(), tenant.ID)
	if err != nil {
		return fmt.Errorf("failed to seed routes: %w", err)
	}
	cmd.Printf("Created %d routes for %s\n", n, tenant.Slug)
	return nil
}
