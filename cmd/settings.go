package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/padedit-cli/internal/config"
	"github.com/mlihgenel/padedit-cli/internal/edit"
	"github.com/mlihgenel/padedit-cli/internal/editor"
	"github.com/mlihgenel/padedit-cli/internal/input"
	"github.com/mlihgenel/padedit-cli/internal/ui"
)

const (
	envMode   = "PADEDIT_MODE"
	envDir    = "PADEDIT_DIR"
	envDevice = "PADEDIT_DEVICE"
	envVolume = "PADEDIT_VOLUME"
	envPlayer = "PADEDIT_PLAYER"
)

const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// loadAppConfig testlerde değiştirilebilir.
var loadAppConfig = config.LoadConfig

// settings bayrak, ortam değişkeni, .padedit.toml ve kullanıcı tercihlerinin
// birleşimidir. Öncelik bu sıradadır.
type settings struct {
	Mode         edit.Mode
	Dir          string
	Device       string
	Player       int
	Volume       float64
	NoPad        bool
	LogFile      string
	Tunables     config.Tunables
	TunablesPath string
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	s := settings{NoPad: noPad, LogFile: strings.TrimSpace(logFile)}

	appCfg, err := loadAppConfig()
	if err != nil || appCfg == nil {
		appCfg = &config.AppConfig{UserVolume: 1}
	}

	dir := strings.TrimSpace(libraryDir)
	if !flagChanged(cmd, "dir") {
		if v := strings.TrimSpace(os.Getenv(envDir)); v != "" {
			dir = v
		} else if strings.TrimSpace(appCfg.DefaultDir) != "" {
			dir = strings.TrimSpace(appCfg.DefaultDir)
		}
	}
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return s, err
		}
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return s, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return s, fmt.Errorf("klasör okunamadı: %w", err)
	}
	if !info.IsDir() {
		return s, fmt.Errorf("klasör değil: %s", dir)
	}
	s.Dir = dir

	s.Tunables, s.TunablesPath, err = config.LoadTunables(dir)
	if err != nil {
		return s, err
	}

	rawMode := editMode
	if !flagChanged(cmd, "mode") {
		if v := strings.TrimSpace(os.Getenv(envMode)); v != "" {
			rawMode = v
		} else if rawMode == "" {
			rawMode = appCfg.Mode
		}
	}
	if s.Mode, err = edit.ParseMode(rawMode); err != nil {
		return s, err
	}

	s.Device = strings.TrimSpace(devicePath)
	if !flagChanged(cmd, "device") {
		if v := strings.TrimSpace(os.Getenv(envDevice)); v != "" {
			s.Device = v
		} else if s.Device == "" {
			s.Device = s.Tunables.Device
		}
	}

	s.Player = playerIndex
	if !flagChanged(cmd, "player") {
		if v, ok := readEnvInt(envPlayer); ok {
			s.Player = v
		} else {
			s.Player = s.Tunables.PlayerIndex
		}
	}
	if s.Player < 0 {
		return s, fmt.Errorf("player negatif olamaz: %d", s.Player)
	}

	s.Volume = userVolume
	if !flagChanged(cmd, "volume") {
		if v, ok := readEnvFloat(envVolume); ok {
			s.Volume = v
		} else if appCfg.UserVolume > 0 {
			s.Volume = appCfg.UserVolume
		}
	}
	if s.Volume < 0 || s.Volume > 1 {
		return s, fmt.Errorf("volume 0 ile 1 arasında olmalı: %g", s.Volume)
	}
	return s, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func (s settings) editOptions() edit.Options {
	t := s.Tunables
	return edit.Options{
		MinGap:         t.MinGap,
		TrimStep:       t.TrimStep,
		GainStep:       t.GainStep,
		GainCoarseStep: t.GainCoarseStep,
		MinGainDB:      t.MinGainDB,
		MaxGainDB:      t.MaxGainDB,
		TrimSuffix:     t.TrimSuffix,
		GainSuffix:     t.GainSuffix,
	}
}

func (s settings) editorConfig() editor.Config {
	t := s.Tunables
	return editor.Config{
		Mode:           s.Mode,
		Options:        s.editOptions(),
		NavDebounce:    t.NavDebounce.Duration,
		ActionDebounce: t.ActionDebounce.Duration,
		RepeatDelay:    t.RepeatDelay.Duration,
		RepeatInterval: t.RepeatInterval.Duration,
		ModalCooldown:  t.ModalCooldown.Duration,
		PreviewLength:  t.PreviewLength.Duration,
		UserVolume:     s.Volume,
	}
}

func (s settings) newPoller(dev input.Device) *input.Poller {
	p := input.NewPoller(dev, s.Player)
	p.Interval = s.Tunables.PollInterval.Duration
	p.Grace = s.Tunables.Grace.Duration
	p.Threshold = uint8(s.Tunables.TriggerThreshold)
	return p
}

func readEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readEnvFloat(name string) (float64, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func NormalizeOutputFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", OutputFormatText:
		return OutputFormatText
	case OutputFormatJSON:
		return OutputFormatJSON
	default:
		return ""
	}
}

func isJSONOutput() bool {
	return NormalizeOutputFormat(outputFormat) == OutputFormatJSON
}

func checkOutputFormat() error {
	if NormalizeOutputFormat(outputFormat) == "" {
		return fmt.Errorf("gecersiz output-format: %s (text|json)", outputFormat)
	}
	return nil
}

func printJSON(payload any) error {
	enc := json.NewEncoder(ui.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
