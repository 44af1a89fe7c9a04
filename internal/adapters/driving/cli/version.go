package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// buildInfo is what `vetdesk version --json` prints.
type buildInfo struct {
	Version  string `json:"version"`
	Revision string `json:"revision,omitempty"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := currentBuild()
		if jsonFlag {
			return printJSON(cmd, info)
		}
		cmd.Printf("vetdesk version %s\n", info.Version)
		if verboseFlag {
			if info.Revision != "" {
				cmd.Printf("revision: %s\n", info.Revision)
			}
			cmd.Printf("go: %s %s\n", info.Go, info.Platform)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func currentBuild() buildInfo {
	info := buildInfo{
		Version:  version,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				info.Revision = s.Value
			}
		}
	}
	return info
}
