package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the vetdesk home directory.
const HomeEnv = "VETDESK_HOME"

// HomeDir returns $VETDESK_HOME, or ~/.vetdesk when it is unset.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".vetdesk"), nil
}
