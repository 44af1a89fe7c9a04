package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/watcher"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
	"github.com/custodia-labs/vetdesk/internal/core/services"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Stock levels and imports",
}

var inventoryImport struct {
	parser string
	mode   string
	dryRun bool
}

var inventoryImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import stock from a spreadsheet export or a free-text list",
	Long: `Import stock into the clinic's inventory.

The parser is picked from the extension unless --parser is given: .csv and
.tsv use the CSV parser, .txt uses the AI parser, which needs an LLM provider
(see 'vetdesk settings llm').

Modes:
  merge    update the fields present in each row (default)
  add      add row quantities to current stock, for deliveries
  replace  overwrite stored items with the rows`,
	Args: cobra.ExactArgs(1),
	RunE: runInventoryImport,
}

var inventoryLowStockCmd = &cobra.Command{
	Use:   "low-stock",
	Short: "List items at or below their minimum",
	Args:  cobra.NoArgs,
	RunE:  runInventoryLowStock,
}

func init() {
	f := inventoryImportCmd.Flags()
	f.StringVar(&inventoryImport.parser, "parser", "", "csv or ai (default: from extension)")
	f.StringVar(&inventoryImport.mode, "mode", string(domain.ImportMerge), "merge, add or replace")
	f.BoolVar(&inventoryImport.dryRun, "dry-run", false, "validate without writing")

	inventoryCmd.AddCommand(inventoryImportCmd, inventoryLowStockCmd)
	rootCmd.AddCommand(inventoryCmd)
}

func runInventoryImport(cmd *cobra.Command, args []string) error {
	if svc.Inventory == nil {
		return errNotConfigured("inventory")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	parser := inventoryImport.parser
	if parser == "" {
		parser = watcher.ParserFor(path)
	}
	if parser == "" {
		return fmt.Errorf("cannot pick a parser for %q: pass --parser (available: %s)",
			filepath.Base(path), strings.Join(svc.Inventory.Parsers(), ", "))
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	report, err := svc.Inventory.Import(cmd.Context(), driving.ImportRequest{
		TenantID: tenant.ID,
		Parser:   parser,
		Source:   filepath.Base(path),
		Blob:     blob,
		Mode:     domain.ImportMode(inventoryImport.mode),
		DryRun:   inventoryImport.dryRun,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, report)
	}

	prefix := "Imported"
	if report.DryRun {
		prefix = "Dry run:"
	}
	cmd.Printf("%s %s with %s parser: %d created, %d updated, %d skipped\n",
		prefix, report.Source, report.Parser, report.Created, report.Updated, report.Skipped)
	if len(report.Errors) > 0 {
		cmd.Printf("%d rows had problems:\n", len(report.Errors))
		for _, e := range report.Errors {
			cmd.Printf("  line %d: %s: %s\n", e.Line, e.Field, e.Message)
		}
	}
	return nil
}

func runInventoryLowStock(cmd *cobra.Command, _ []string) error {
	if svc.Inventory == nil {
		return errNotConfigured("inventory")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}
	items, err := svc.Inventory.LowStock(cmd.Context(), tenant.ID)
	if err != nil {
		return fmt.Errorf("failed to list low stock: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, items)
	}

	rows := make([][]string, 0, len(items))
	for i := range items {
		it := &items[i]
		rows = append(rows, []string{
			it.SKU, it.Name, formatQty(it.Quantity) + " " + it.Unit, formatQty(it.MinStock),
			services.FormatMoney(it.PriceCents), it.Supplier,
		})
	}
	printTable(cmd, "All items are above their minimum stock.",
		[]string{"SKU", "NAME", "ON HAND", "MIN", "PRICE", "SUPPLIER"}, rows)
	return nil
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
