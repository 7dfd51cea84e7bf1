package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/padedit-cli/internal/config"
	"github.com/mlihgenel/padedit-cli/internal/edit"
	"github.com/mlihgenel/padedit-cli/internal/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Ayarları göster ve düzenle",
	Long: `Zamanlama ve düzenleme ayarları çalışma dizininden yukarı doğru aranan
.padedit.toml dosyasından okunur. Kullanıcı tercihleri (varsayılan klasör,
mod, ses seviyesi) ~/.padedit/config.json dosyasında tutulur.

Örnekler:
  padedit-cli config show
  padedit-cli config init
  padedit-cli config set-dir ~/Music
  padedit-cli config set-mode gain`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Geçerli ayarları yazdır",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := configTargetDir(cmd)
		if err != nil {
			return err
		}
		t, path, err := config.LoadTunables(dir)
		if err != nil {
			return err
		}
		if isJSONOutput() {
			return printJSON(map[string]any{"path": path, "tunables": t})
		}
		if path == "" {
			ui.PrintInfo("Ayar dosyası yok; varsayılanlar kullanılıyor")
		} else {
			ui.PrintInfo("Ayar dosyası: " + shortenPath(path))
		}
		text, err := t.Encode()
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Varsayılan .padedit.toml dosyasını oluştur",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := configTargetDir(cmd)
		if err != nil {
			return err
		}
		path, err := writeDefaultTunables(dir, configForce)
		if err != nil {
			return err
		}
		ui.PrintSuccess("Oluşturuldu: " + shortenPath(path))
		return nil
	},
}

var configSetDirCmd = &cobra.Command{
	Use:   "set-dir <klasör>",
	Short: "Varsayılan ses klasörünü kaydet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			return fmt.Errorf("klasör bulunamadı: %s", dir)
		}
		if err := config.SetDefaultDir(dir); err != nil {
			return err
		}
		ui.PrintSuccess("Varsayılan klasör: " + shortenPath(dir))
		return nil
	},
}

var configSetModeCmd = &cobra.Command{
	Use:   "set-mode <trim|gain>",
	Short: "Varsayılan düzenleme modunu kaydet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := edit.ParseMode(args[0])
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		cfg.Mode = string(mode)
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		ui.PrintSuccess("Varsayılan mod: " + string(mode))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Var olan dosyanın üzerine yaz")
	configCmd.AddCommand(configShowCmd, configInitCmd, configSetDirCmd, configSetModeCmd)
	rootCmd.AddCommand(configCmd)
}

func configTargetDir(cmd *cobra.Command) (string, error) {
	if err := checkOutputFormat(); err != nil {
		return "", err
	}
	if flagChanged(cmd, "dir") && libraryDir != "" {
		return filepath.Abs(libraryDir)
	}
	return os.Getwd()
}

func writeDefaultTunables(dir string, force bool) (string, error) {
	path := filepath.Join(dir, config.TunablesFileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s zaten var (üzerine yazmak için --force)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	text, err := config.DefaultTunables().Encode()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", err
	}
	return path, nil
}
