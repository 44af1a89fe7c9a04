package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

var postalCmd = &cobra.Command{
	Use:   "postal <code-or-name>",
	Short: "Look up colonias by postal code or name",
	Long: `Look up SEPOMEX settlements. A five-digit argument is a postal code lookup;
anything else searches colonia and municipality names ignoring accents.`,
	Args: cobra.ExactArgs(1),
	RunE: runPostal,
}

var postalLimit int

var postalImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a SEPOMEX pipe-delimited catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostalImport,
}

func init() {
	postalCmd.Flags().IntVarP(&postalLimit, "limit", "n", 20, "maximum results for name searches")
	postalCmd.AddCommand(postalImportCmd)
	rootCmd.AddCommand(postalCmd)
}

func runPostal(cmd *cobra.Command, args []string) error {
	if svc.Postal == nil {
		return errNotConfigured("postal")
	}

	var (
		entries []domain.PostalCode
		err     error
	)
	if domain.IsPostalCode(args[0]) {
		entries, err = svc.Postal.Lookup(cmd.Context(), args[0])
	} else {
		entries, err = svc.Postal.Search(cmd.Context(), args[0], postalLimit)
	}
	if err != nil {
		return fmt.Errorf("postal lookup failed: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, entries)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Code, e.Colonia, e.SettlementType, e.Municipality, e.State})
	}
	printTable(cmd, "No matches.", []string{"CP", "COLONIA", "TYPE", "MUNICIPALITY", "STATE"}, rows)
	return nil
}

func runPostalImport(cmd *cobra.Command, args []string) error {
	if svc.Postal == nil {
		return errNotConfigured("postal")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	n, err := svc.Postal.Import(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("postal import failed: %w", err)
	}
	cmd.Printf("Loaded %d settlements\n", n)
	return nil
}
