package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt",
	Short: "Receipt templates",
}

var receiptOut string

var receiptPreviewCmd = &cobra.Command{
	Use:   "preview [template-id]",
	Short: "Render a template with sample data",
	Long: `Render a receipt template with a sample sale and print the HTML, or write it
to --out. Without an ID the clinic's default template is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReceiptPreview,
}

func init() {
	receiptPreviewCmd.Flags().StringVarP(&receiptOut, "out", "o", "", "write the HTML to this file")
	receiptCmd.AddCommand(receiptPreviewCmd)
	rootCmd.AddCommand(receiptCmd)
}

func runReceiptPreview(cmd *cobra.Command, args []string) error {
	if svc.Receipts == nil {
		return errNotConfigured("receipt")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}
	var id string
	if len(args) == 1 {
		id = args[0]
	}
	html, err := svc.Receipts.Preview(cmd.Context(), tenant.ID, id)
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	if receiptOut == "" {
		cmd.Print(html)
		return nil
	}
	if err := os.WriteFile(receiptOut, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", receiptOut, err)
	}
	cmd.Printf("Preview written to %s\n", receiptOut)
	return nil
}
