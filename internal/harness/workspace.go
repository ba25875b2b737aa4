package harness

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindWorkspaceRoot walks upward from start until it finds a directory
// containing Cargo.toml. Reaching the filesystem root without one is a hard
// error: there is nothing to run the harness against.
func FindWorkspaceRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "Cargo.toml")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no Cargo.toml found above %s", start)
		}
		dir = parent
	}
}
