package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset",
	Long: `Load demo companies, clinics, staff, clients, pets, inventory, receipt
templates, routes and postal codes. Running it again updates the same records
instead of duplicating them.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if svc.Seed == nil {
		return errNotConfigured("seed")
	}
	report, err := svc.Seed.Seed(cmd.Context())
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, report)
	}

	cmd.Println("Demo data loaded:")
	printTable(cmd, "", []string{"RECORD", "COUNT"}, [][]string{
		{"companies", fmt.Sprint(report.Companies)},
		{"clinics", fmt.Sprint(report.Tenants)},
		{"staff", fmt.Sprint(report.Staff)},
		{"rooms", fmt.Sprint(report.Rooms)},
		{"services", fmt.Sprint(report.Services)},
		{"clients", fmt.Sprint(report.Clients)},
		{"pets", fmt.Sprint(report.Pets)},
		{"inventory items", fmt.Sprint(report.Inventory)},
		{"receipt templates", fmt.Sprint(report.Templates)},
		{"routes", fmt.Sprint(report.Routes)},
		{"postal codes", fmt.Sprint(report.PostalCodes)},
		{"appointments", fmt.Sprint(report.Appointments)},
	})
	return nil
}
