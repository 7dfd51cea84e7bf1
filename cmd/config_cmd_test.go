package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mlihgenel/padedit-cli/internal/config"
)

func TestWriteDefaultTunables(t *testing.T) {
	dir := t.TempDir()

	path, err := writeDefaultTunables(dir, false)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if path != filepath.Join(dir, config.TunablesFileName) {
		t.Fatalf("unexpected path: %s", path)
	}

	loaded, found, err := config.LoadTunables(dir)
	if err != nil {
		t.Fatalf("written file must load cleanly: %v", err)
	}
	if found != path {
		t.Fatalf("expected written file to be found, got %q", found)
	}
	if loaded != config.DefaultTunables() {
		t.Fatalf("expected defaults round trip, got %+v", loaded)
	}

	if _, err := writeDefaultTunables(dir, false); err == nil {
		t.Fatalf("expected error when file exists")
	}

	if err := os.WriteFile(path, []byte("min_gap = 2.0\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := writeDefaultTunables(dir, true); err != nil {
		t.Fatalf("force overwrite failed: %v", err)
	}
	loaded, _, err = config.LoadTunables(dir)
	if err != nil || loaded.MinGap != config.DefaultTunables().MinGap {
		t.Fatalf("expected defaults after force overwrite, got %+v (%v)", loaded, err)
	}
}
