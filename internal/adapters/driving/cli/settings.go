package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure storage, the REST server, the inventory drop folder and
the LLM provider used by the free-text inventory parser.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider",
	Long:  `Interactively configure the LLM provider used to read free-text stock lists.`,
	RunE:  runSettingsLLM,
}

var settingsStorage struct {
	driver, dataDir, dsn string
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Select the database",
	Long: `Select the database backend. SQLite keeps everything in one local file;
PostgreSQL needs --dsn, for example postgres://vetdesk@localhost/vetdesk.`,
	Args: cobra.NoArgs,
	RunE: runSettingsStorage,
}

var settingsServer struct {
	addr  string
	rate  float64
	burst int
}

var settingsServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Configure the REST server",
	Args:  cobra.NoArgs,
	RunE:  runSettingsServer,
}

var settingsImport struct {
	dir      string
	debounce time.Duration
}

var settingsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Configure the inventory drop folder",
	Long: `Configure the folder watched by 'vetdesk serve'. Files dropped into
<dir>/<clinic-slug>/ are imported into that clinic's inventory.`,
	Args: cobra.NoArgs,
	RunE: runSettingsImport,
}

func init() {
	f := settingsStorageCmd.Flags()
	f.StringVar(&settingsStorage.driver, "driver", string(domain.StorageSQLite), "sqlite or postgres")
	f.StringVar(&settingsStorage.dataDir, "data-dir", "", "SQLite directory (default ~/.vetdesk/data)")
	f.StringVar(&settingsStorage.dsn, "dsn", "", "PostgreSQL connection string")

	f = settingsServerCmd.Flags()
	f.StringVar(&settingsServer.addr, "addr", "", "listen address, such as :8080")
	f.Float64Var(&settingsServer.rate, "rate", 0, "requests per second per clinic (0 = unlimited)")
	f.IntVar(&settingsServer.burst, "burst", 0, "burst size per clinic")

	f = settingsImportCmd.Flags()
	f.StringVar(&settingsImport.dir, "dir", "", "drop folder (empty disables the watcher)")
	f.DurationVar(&settingsImport.debounce, "debounce", 0, "wait for writes to settle")

	settingsCmd.AddCommand(settingsShowCmd, settingsLLMCmd, settingsStorageCmd, settingsServerCmd, settingsImportCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if svc.Settings == nil {
		return errNotConfigured("settings")
	}
	settings, err := svc.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", svc.Settings.ConfigPath())
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", settings.Storage.Driver)
	switch settings.Storage.Driver {
	case domain.StoragePostgres:
		cmd.Printf("  DSN: %s\n", maskDSN(settings.Storage.DSN))
	default:
		dir := settings.Storage.DataDir
		if dir == "" {
			dir = "(default)"
		}
		cmd.Printf("  Data dir: %s\n", dir)
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	if settings.Server.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s per clinic, burst %d\n", settings.Server.RateLimit, settings.Server.Burst)
	} else {
		cmd.Println("  Rate limit: off")
	}
	cmd.Println()

	cmd.Println("[Import]")
	if settings.Import.WatchDir != "" {
		cmd.Printf("  Drop folder: %s (debounce %s)\n", settings.Import.WatchDir, settings.Import.Debounce)
	} else {
		cmd.Println("  Drop folder: (disabled)")
	}
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured (free-text imports disabled)"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Calendar]")
	if settings.Calendar.IsConfigured() {
		cmd.Printf("  Mirroring to: %s\n", settings.Calendar.CalendarID)
	} else {
		cmd.Println("  Not connected. Run 'vetdesk calendar connect'.")
	}
	cmd.Println()

	if err := svc.Settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if svc.Settings == nil {
		return errNotConfigured("settings")
	}
	return configureLLMProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
}

func runSettingsStorage(cmd *cobra.Command, _ []string) error {
	if svc.Settings == nil {
		return errNotConfigured("settings")
	}
	driver := domain.StorageDriver(settingsStorage.driver)
	if err := svc.Settings.SetStorage(driver, settingsStorage.dataDir, settingsStorage.dsn); err != nil {
		return fmt.Errorf("failed to set storage: %w", err)
	}
	cmd.Printf("Storage set to %s. Restart running servers to apply.\n", driver)
	return nil
}

func runSettingsServer(cmd *cobra.Command, _ []string) error {
	return updateSettings(cmd, func(s *domain.AppSettings) {
		if cmd.Flags().Changed("addr") {
			s.Server.Addr = settingsServer.addr
		}
		if cmd.Flags().Changed("rate") {
			s.Server.RateLimit = settingsServer.rate
		}
		if cmd.Flags().Changed("burst") {
			s.Server.Burst = settingsServer.burst
		}
	}, "Server settings saved.")
}

func runSettingsImport(cmd *cobra.Command, _ []string) error {
	return updateSettings(cmd, func(s *domain.AppSettings) {
		if cmd.Flags().Changed("dir") {
			s.Import.WatchDir = settingsImport.dir
		}
		if cmd.Flags().Changed("debounce") {
			s.Import.Debounce = settingsImport.debounce
		}
	}, "Import settings saved.")
}

func updateSettings(cmd *cobra.Command, apply func(*domain.AppSettings), done string) error {
	if svc.Settings == nil {
		return errNotConfigured("settings")
	}
	settings, err := svc.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	apply(settings)
	if err := svc.Settings.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println(done)
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := selected.DefaultModel()
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return fmt.Errorf("API key is required for %s", selected.Description())
		}
	}

	if err := svc.Settings.SetLLMProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := svc.Settings.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	cmd.Printf("LLM provider configured: %s (%s)\n", selected.Description(), model)
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	val, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo on a terminal and falls back to reader otherwise.
func readPassword(reader *bufio.Reader) string {
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		if password, err := term.ReadPassword(fd); err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// maskDSN hides the password of a postgres:// URL or key=value DSN.
func maskDSN(dsn string) string {
	if dsn == "" {
		return "(not set)"
	}
	if scheme, rest, ok := strings.Cut(dsn, "://"); ok {
		if userinfo, host, ok := strings.Cut(rest, "@"); ok {
			if user, _, hasPass := strings.Cut(userinfo, ":"); hasPass {
				return scheme + "://" + user + ":****@" + host
			}
		}
		return dsn
	}
	fields := strings.Fields(dsn)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
