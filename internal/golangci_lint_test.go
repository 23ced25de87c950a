package internal

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestGolangciLint runs golangci-lint over every package so lint
// regressions surface in the normal test run. Skipped when the binary
// is not installed.
func TestGolangciLint(t *testing.T) {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint not installed, skipping")
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	root := wd
	if filepath.Base(root) == "internal" {
		root = filepath.Dir(root)
	}

	cmd := exec.Command("golangci-lint", "run", "./...")
	cmd.Dir = root
	// Restricted runners may not have a writable default build cache.
	cmd.Env = append(os.Environ(), "GOCACHE="+t.TempDir())

	if output, err := cmd.CombinedOutput(); err != nil {
		t.Errorf("golangci-lint reported issues:\n%s", output)
	}
}
