package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadTunablesFindsParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	cfgPath := filepath.Join(root, TunablesFileName)
	content := `
poll_interval = "10ms"
repeat_delay = "300ms"
trigger_threshold = 64
trim_step = 0.25
gain_suffix = "_louder"
device = "/dev/input/js1"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	tun, foundPath, err := LoadTunables(nested)
	if err != nil {
		t.Fatalf("LoadTunables failed: %v", err)
	}
	if foundPath != cfgPath {
		t.Fatalf("unexpected config path: %s", foundPath)
	}
	if tun.PollInterval.Duration != 10*time.Millisecond {
		t.Fatalf("unexpected poll interval: %s", tun.PollInterval)
	}
	if tun.RepeatDelay.Duration != 300*time.Millisecond {
		t.Fatalf("unexpected repeat delay: %s", tun.RepeatDelay)
	}
	if tun.TriggerThreshold != 64 || tun.TrimStep != 0.25 {
		t.Fatalf("unexpected numeric values: %+v", tun)
	}
	if tun.GainSuffix != "_louder" || tun.Device != "/dev/input/js1" {
		t.Fatalf("unexpected string values: %+v", tun)
	}
	// Dosyada olmayan anahtarlar varsayılan kalmalı.
	if tun.ModalCooldown.Duration != 350*time.Millisecond || tun.BackupDir != "originals" {
		t.Fatalf("expected defaults for missing keys: %+v", tun)
	}
}

func TestLoadTunablesMissingFile(t *testing.T) {
	tun, path, err := LoadTunables(t.TempDir())
	if err != nil {
		t.Fatalf("LoadTunables failed: %v", err)
	}
	if path != "" {
		t.Fatalf("expected empty path, got: %s", path)
	}
	if tun != DefaultTunables() {
		t.Fatalf("expected defaults when no file exists")
	}
}

func TestLoadTunablesInvalidValue(t *testing.T) {
	cases := map[string]string{
		"threshold": `trigger_threshold = 300`,
		"duration":  `grace = "soon"`,
		"gain":      "min_gain_db = 3\nmax_gain_db = 6",
		"backup":    `backup_dir = "a/b"`,
		"unknown":   `quality = 85`,
	}
	for name, content := range cases {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, TunablesFileName), []byte(content), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if _, _, err := LoadTunables(root); err == nil {
			t.Fatalf("%s: expected error for %q", name, content)
		}
	}
}

func TestTunablesEncodeRoundTrip(t *testing.T) {
	out, err := DefaultTunables().Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.Contains(out, `poll_interval = "25ms"`) {
		t.Fatalf("expected duration encoded as string, got:\n%s", out)
	}

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, TunablesFileName), []byte(out), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	tun, _, err := LoadTunables(root)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if tun != DefaultTunables() {
		t.Fatalf("expected encoded defaults to reload unchanged")
	}
}

func TestAppConfigLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := loadConfigFrom(path)
	if cfg.FirstRunCompleted || cfg.UserVolume != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	cfg.FirstRunCompleted = true
	cfg.DefaultDir = "/music"
	cfg.Mode = "gain"
	cfg.UserVolume = 0.5
	if err := saveConfigTo(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got := loadConfigFrom(path)
	if *got != *cfg {
		t.Fatalf("unexpected reloaded config: %+v", got)
	}
}

func TestAppConfigCorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if cfg := loadConfigFrom(path); cfg.FirstRunCompleted || cfg.UserVolume != 1 {
		t.Fatalf("expected defaults for corrupt file: %+v", cfg)
	}
}
