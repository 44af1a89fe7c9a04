package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/mcp"
)

var mcpAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Let an assistant check slots and book appointments",
	Long: `Start an MCP server with the check_availability, book_appointment,
day_agenda and lookup_postal_code tools and the vetdesk://tenants resources.

Without --addr the server speaks JSON-RPC over stdio, which is what desktop
assistants launch:

  {"mcpServers": {"vetdesk": {"command": "vetdesk", "args": ["mcp", "serve"]}}}

With --addr it serves streamable HTTP instead, for the MCP Inspector or a
remote client. "vetdesk serve --mcp" mounts the same endpoint on the REST API.`,
	Example: `  vetdesk mcp serve
  vetdesk mcp serve --addr 127.0.0.1:8090`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpAddr, "addr", "", "serve streamable HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(&mcp.Ports{
		Tenants:      svc.Tenants,
		Appointments: svc.Appointments,
		Catalog:      svc.Catalog,
		Postal:       svc.Postal,
	}, mcp.WithVersion(version))
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := newMCPServer()
	if err != nil {
		return err
	}
	if mcpAddr == "" {
		return server.Run(cmd.Context())
	}
	cmd.Printf("MCP server listening on http://%s\n", mcpAddr)
	return server.RunHTTP(cmd.Context(), mcpAddr)
}
