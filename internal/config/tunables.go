package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const TunablesFileName = ".padedit.toml"

// Duration TOML'da "25ms" gibi string olarak yazılan süre.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("gecersiz sure degeri: %q", string(text))
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Tunables zamanlama, adım ve dosya adı ayarlarını tutar.
type Tunables struct {
	PollInterval     Duration `toml:"poll_interval"`
	Grace            Duration `toml:"grace"`
	NavDebounce      Duration `toml:"nav_debounce"`
	ActionDebounce   Duration `toml:"action_debounce"`
	RepeatDelay      Duration `toml:"repeat_delay"`
	RepeatInterval   Duration `toml:"repeat_interval"`
	ModalCooldown    Duration `toml:"modal_cooldown"`
	TriggerThreshold int      `toml:"trigger_threshold"`

	MinGap         float64 `toml:"min_gap"`
	TrimStep       float64 `toml:"trim_step"`
	GainStep       float64 `toml:"gain_step"`
	GainCoarseStep float64 `toml:"gain_coarse_step"`
	MinGainDB      float64 `toml:"min_gain_db"`
	MaxGainDB      float64 `toml:"max_gain_db"`

	PreviewLength Duration `toml:"preview_length"`
	TrimSuffix    string   `toml:"trim_suffix"`
	GainSuffix    string   `toml:"gain_suffix"`
	BackupDir     string   `toml:"backup_dir"`
	PlayerIndex   int      `toml:"player_index"`
	Device        string   `toml:"device"`
}

// DefaultTunables dosya yokken kullanılan değerler.
func DefaultTunables() Tunables {
	return Tunables{
		PollInterval:     Duration{25 * time.Millisecond},
		Grace:            Duration{120 * time.Millisecond},
		NavDebounce:      Duration{120 * time.Millisecond},
		ActionDebounce:   Duration{250 * time.Millisecond},
		RepeatDelay:      Duration{200 * time.Millisecond},
		RepeatInterval:   Duration{50 * time.Millisecond},
		ModalCooldown:    Duration{350 * time.Millisecond},
		TriggerThreshold: 128,
		MinGap:           0.5,
		TrimStep:         0.5,
		GainStep:         0.5,
		GainCoarseStep:   3,
		MinGainDB:        -12,
		MaxGainDB:        12,
		PreviewLength:    Duration{5 * time.Second},
		TrimSuffix:       "_trim",
		GainSuffix:       "_gain",
		BackupDir:        "originals",
	}
}

// LoadTunables currentDir'den yukarı doğru .padedit.toml arar ve varsayılanların
// üzerine uygular. Dosya yoksa varsayılanlar ve "" döner.
func LoadTunables(currentDir string) (Tunables, string, error) {
	t := DefaultTunables()

	path, err := findTunablesPath(currentDir)
	if err != nil {
		return t, "", err
	}
	if path == "" {
		return t, "", nil
	}

	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return DefaultTunables(), "", fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return DefaultTunables(), "", fmt.Errorf("%s: bilinmeyen anahtar(lar): %s", path, strings.Join(keys, ", "))
	}
	if err := t.Validate(); err != nil {
		return DefaultTunables(), "", fmt.Errorf("%s:%w", path, err)
	}
	return t, path, nil
}

func findTunablesPath(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		return "", errors.New("gecersiz calisma dizini")
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, TunablesFileName)
		info, statErr := os.Stat(candidate)
		if statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return "", statErr
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// Validate aralık dışı değerleri anahtar adıyla reddeder.
func (t Tunables) Validate() error {
	positive := []struct {
		key string
		d   time.Duration
	}{
		{"poll_interval", t.PollInterval.Duration},
		{"repeat_delay", t.RepeatDelay.Duration},
		{"repeat_interval", t.RepeatInterval.Duration},
		{"preview_length", t.PreviewLength.Duration},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return fmt.Errorf("%s pozitif olmali", p.key)
		}
	}
	nonNegative := []struct {
		key string
		d   time.Duration
	}{
		{"grace", t.Grace.Duration},
		{"nav_debounce", t.NavDebounce.Duration},
		{"action_debounce", t.ActionDebounce.Duration},
		{"modal_cooldown", t.ModalCooldown.Duration},
	}
	for _, p := range nonNegative {
		if p.d < 0 {
			return fmt.Errorf("%s negatif olamaz", p.key)
		}
	}

	if t.TriggerThreshold < 0 || t.TriggerThreshold > 255 {
		return fmt.Errorf("trigger_threshold 0-255 araliginda olmali")
	}
	if t.MinGap <= 0 {
		return fmt.Errorf("min_gap pozitif olmali")
	}
	if t.TrimStep <= 0 {
		return fmt.Errorf("trim_step pozitif olmali")
	}
	if t.GainStep <= 0 {
		return fmt.Errorf("gain_step pozitif olmali")
	}
	if t.GainCoarseStep <= 0 {
		return fmt.Errorf("gain_coarse_step pozitif olmali")
	}
	if t.MinGainDB > 0 || t.MaxGainDB < 0 || t.MinGainDB >= t.MaxGainDB {
		return fmt.Errorf("min_gain_db <= 0 <= max_gain_db olmali")
	}
	if strings.TrimSpace(t.TrimSuffix) == "" {
		return fmt.Errorf("trim_suffix bos olamaz")
	}
	if strings.TrimSpace(t.GainSuffix) == "" {
		return fmt.Errorf("gain_suffix bos olamaz")
	}
	if strings.TrimSpace(t.BackupDir) == "" || strings.ContainsAny(t.BackupDir, `/\`) {
		return fmt.Errorf("backup_dir tek seviyeli bir klasor adi olmali")
	}
	if t.PlayerIndex < 0 {
		return fmt.Errorf("player_index negatif olamaz")
	}
	return nil
}

// Encode ayarları TOML olarak yazar (config komutu için).
func (t Tunables) Encode() (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(t); err != nil {
		return "", err
	}
	return sb.String(), nil
}
