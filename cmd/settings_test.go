package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/padedit-cli/internal/config"
	"github.com/mlihgenel/padedit-cli/internal/edit"
)

func newTestRootCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().StringVar(&editMode, "mode", "", "")
	c.Flags().StringVar(&libraryDir, "dir", "", "")
	c.Flags().StringVar(&devicePath, "device", "", "")
	c.Flags().IntVar(&playerIndex, "player", 0, "")
	c.Flags().Float64Var(&userVolume, "volume", 1, "")
	return c
}

func stubAppConfig(t *testing.T, cfg *config.AppConfig) {
	t.Helper()
	prev := loadAppConfig
	loadAppConfig = func() (*config.AppConfig, error) { return cfg, nil }
	t.Cleanup(func() { loadAppConfig = prev })
}

func TestResolveSettingsFlagsOverrideEnvAndConfig(t *testing.T) {
	dir := t.TempDir()
	stubAppConfig(t, &config.AppConfig{Mode: "trim", UserVolume: 0.3, DefaultDir: "/nonexistent"})
	t.Setenv(envMode, "trim")
	t.Setenv(envVolume, "0.4")

	c := newTestRootCommand()
	for name, value := range map[string]string{"dir": dir, "mode": "gain", "volume": "0.6", "player": "2"} {
		if err := c.Flags().Set(name, value); err != nil {
			t.Fatalf("set %s flag failed: %v", name, err)
		}
	}

	s, err := resolveSettings(c)
	if err != nil {
		t.Fatalf("resolveSettings failed: %v", err)
	}
	if s.Dir != dir {
		t.Fatalf("expected dir %s, got %s", dir, s.Dir)
	}
	if s.Mode != edit.ModeGain {
		t.Fatalf("expected gain mode from flag, got %s", s.Mode)
	}
	if s.Volume != 0.6 {
		t.Fatalf("expected flag volume 0.6, got %g", s.Volume)
	}
	if s.Player != 2 {
		t.Fatalf("expected player 2, got %d", s.Player)
	}
}

func TestResolveSettingsEnvThenAppConfig(t *testing.T) {
	dir := t.TempDir()
	stubAppConfig(t, &config.AppConfig{Mode: "gain", UserVolume: 0.3, DefaultDir: dir})
	t.Setenv(envVolume, "0.8")
	t.Setenv(envMode, "")
	t.Setenv(envDir, "")

	s, err := resolveSettings(newTestRootCommand())
	if err != nil {
		t.Fatalf("resolveSettings failed: %v", err)
	}
	if s.Dir != dir {
		t.Fatalf("expected dir from app config, got %s", s.Dir)
	}
	if s.Mode != edit.ModeGain {
		t.Fatalf("expected gain from app config, got %s", s.Mode)
	}
	if s.Volume != 0.8 {
		t.Fatalf("expected env volume 0.8, got %g", s.Volume)
	}
}

func TestResolveSettingsLoadsTunablesFromDir(t *testing.T) {
	dir := t.TempDir()
	stubAppConfig(t, &config.AppConfig{})
	t.Setenv(envDevice, "")
	t.Setenv(envPlayer, "")
	content := "nav_debounce = \"80ms\"\nmin_gap = 1.5\ndevice = \"/dev/input/js3\"\nplayer_index = 1\n"
	if err := os.WriteFile(filepath.Join(dir, config.TunablesFileName), []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	c := newTestRootCommand()
	if err := c.Flags().Set("dir", dir); err != nil {
		t.Fatalf("set dir failed: %v", err)
	}
	s, err := resolveSettings(c)
	if err != nil {
		t.Fatalf("resolveSettings failed: %v", err)
	}
	if s.TunablesPath == "" {
		t.Fatalf("expected tunables path to be set")
	}
	if s.Device != "/dev/input/js3" || s.Player != 1 {
		t.Fatalf("expected device/player from tunables, got %s/%d", s.Device, s.Player)
	}

	cfg := s.editorConfig()
	if cfg.NavDebounce != 80*time.Millisecond {
		t.Fatalf("expected nav debounce 80ms, got %s", cfg.NavDebounce)
	}
	if cfg.Options.MinGap != 1.5 {
		t.Fatalf("expected min gap 1.5, got %g", cfg.Options.MinGap)
	}
	if cfg.ActionDebounce != 250*time.Millisecond {
		t.Fatalf("expected default action debounce, got %s", cfg.ActionDebounce)
	}

	p := s.newPoller(nil)
	if p.Player != 1 || p.Interval != 25*time.Millisecond || p.Threshold != 128 {
		t.Fatalf("unexpected poller settings: %+v", p)
	}
}

func TestResolveSettingsRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	stubAppConfig(t, &config.AppConfig{})

	c := newTestRootCommand()
	_ = c.Flags().Set("dir", dir)
	_ = c.Flags().Set("volume", "1.5")
	if _, err := resolveSettings(c); err == nil {
		t.Fatalf("expected volume error")
	}

	c = newTestRootCommand()
	_ = c.Flags().Set("dir", dir)
	_ = c.Flags().Set("mode", "reverse")
	if _, err := resolveSettings(c); err == nil {
		t.Fatalf("expected mode error")
	}

	c = newTestRootCommand()
	_ = c.Flags().Set("dir", filepath.Join(dir, "missing"))
	if _, err := resolveSettings(c); err == nil {
		t.Fatalf("expected missing dir error")
	}
}

func TestReadEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "12")
	if v, ok := readEnvInt("X_INT"); !ok || v != 12 {
		t.Fatalf("unexpected int parse result")
	}
	t.Setenv("X_FLOAT", "0.25")
	if v, ok := readEnvFloat("X_FLOAT"); !ok || v != 0.25 {
		t.Fatalf("unexpected float parse result")
	}
	t.Setenv("X_BAD", "abc")
	if _, ok := readEnvFloat("X_BAD"); ok {
		t.Fatalf("expected float parse failure")
	}
}

func TestNormalizeOutputFormat(t *testing.T) {
	if got := NormalizeOutputFormat(""); got != OutputFormatText {
		t.Fatalf("expected text for empty, got %s", got)
	}
	if got := NormalizeOutputFormat("JSON"); got != OutputFormatJSON {
		t.Fatalf("expected json, got %s", got)
	}
	if got := NormalizeOutputFormat("yaml"); got != "" {
		t.Fatalf("expected empty for invalid format, got %s", got)
	}

	prev := outputFormat
	defer func() { outputFormat = prev }()
	outputFormat = "yaml"
	if err := checkOutputFormat(); err == nil {
		t.Fatalf("expected invalid output format error")
	}
}
