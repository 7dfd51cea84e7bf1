package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AppConfig kullanıcıya ait kalıcı tercihleri tutar
type AppConfig struct {
	FirstRunCompleted bool    `json:"first_run_completed"`
	DefaultDir        string  `json:"default_dir,omitempty"`
	Mode              string  `json:"mode,omitempty"`
	UserVolume        float64 `json:"user_volume,omitempty"`
}

// Dir uygulama veri dizinini döner (~/.padedit)
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".padedit"), nil
}

// configPath yapılandırma dosya yolunu döner
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig yapılandırmayı dosyadan okur
func LoadConfig() (*AppConfig, error) {
	path, err := configPath()
	if err != nil {
		return defaultAppConfig(), nil
	}
	return loadConfigFrom(path), nil
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{UserVolume: 1}
}

func loadConfigFrom(path string) *AppConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		// Dosya yoksa varsayılan config döndür
		return defaultAppConfig()
	}

	cfg := defaultAppConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return defaultAppConfig()
	}
	if cfg.UserVolume <= 0 || cfg.UserVolume > 1 {
		cfg.UserVolume = 1
	}
	return cfg
}

// SaveConfig yapılandırmayı dosyaya kaydeder
func SaveConfig(cfg *AppConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return saveConfigTo(path, cfg)
}

func saveConfigTo(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IsFirstRun uygulamanın ilk kez çalıştırılıp çalıştırılmadığını kontrol eder
func IsFirstRun() bool {
	cfg, _ := LoadConfig()
	return !cfg.FirstRunCompleted
}

// MarkFirstRunDone ilk çalıştırma tamamlandı olarak işaretler
func MarkFirstRunDone() error {
	cfg, _ := LoadConfig()
	cfg.FirstRunCompleted = true
	return SaveConfig(cfg)
}

// SetDefaultDir son kullanılan müzik dizinini kaydeder
func SetDefaultDir(dir string) error {
	cfg, _ := LoadConfig()
	cfg.DefaultDir = dir
	return SaveConfig(cfg)
}
