package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	editMode     string
	libraryDir   string
	devicePath   string
	playerIndex  int
	logFile      string
	noPad        bool
	userVolume   float64
	outputFormat string

	appVersion = "dev"
	appDate    = ""
)

// SetVersionInfo build-time version bilgisini ayarlar
func SetVersionInfo(version, date string) {
	if strings.TrimSpace(version) != "" {
		appVersion = version
	}
	appDate = strings.TrimSpace(date)
	if appDate == "" || appDate == "unknown" {
		appDate = time.Now().Format("2006-01-02 15:04:05")
	}
	rootCmd.Version = appVersion
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	return fmt.Sprintf(
		"PadEdit CLI v%s\nTarih:  %s\nGo:     %s\nOS:     %s/%s\n",
		appVersion, appDate, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}

var rootCmd = &cobra.Command{
	Use:   "padedit-cli",
	Short: "PadEdit CLI - gamepad ile ses kırpma ve kazanç düzenleyici",
	Long: `PadEdit CLI: ses dosyalarını gamepad (veya klavye) ile düzenleyin.

Argümansız çalıştırıldığında bir klasördeki ses dosyalarını listeler.
Seçilen dosya analiz edilir ve dalga formu üzerinde kırpma penceresi
ya da kazanç ayarı yapılır. Uygulanan düzenleme yeni bir dosyaya yazılır,
orijinal dosya yedek klasörüne taşınır (FFmpeg gerekir).

Gamepad:
  D-pad       gezinme / değer kaydırma (basılı tutunca tekrar)
  LB / RB     pencereyi daralt / genişlet
  LT / RT     ilk / son, adım küçült / büyüt
  A           seç / onayla       B   geri
  X           önizleme           Y   sıfırla
  Start       uygula

Örnekler:
  padedit-cli
  padedit-cli --mode gain --dir ~/Music
  padedit-cli trim sarki.mp3 --start 1.5 --end 42
  padedit-cli gain sarki.mp3 --db -3
  padedit-cli info sarki.mp3 --output-format json
  padedit-cli devices`,
	Version: appVersion,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		return RunInteractive(s)
	},
}

// Execute CLI'ı çalıştırır
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&editMode, "mode", "m", "", "Düzenleme modu (trim|gain)")
	rootCmd.PersistentFlags().StringVarP(&libraryDir, "dir", "d", "", "Ses dosyalarının bulunduğu klasör (varsayılan: çalışma dizini)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output-format", OutputFormatText, "Çıktı formatı (text|json)")

	rootCmd.Flags().StringVar(&devicePath, "device", "", "Joystick düğümü (ör. /dev/input/js0)")
	rootCmd.Flags().IntVar(&playerIndex, "player", 0, "Birden fazla gamepad varsa kullanılacak oyuncu sırası")
	rootCmd.Flags().StringVar(&logFile, "log", "", "Hata ayıklama logunu bu dosyaya yaz")
	rootCmd.Flags().BoolVar(&noPad, "no-pad", false, "Gamepad'i devre dışı bırak (yalnızca klavye)")
	rootCmd.Flags().Float64Var(&userVolume, "volume", 1, "Önizleme ses seviyesi (0..1)")

	SetVersionInfo(appVersion, appDate)

	// Hata mesajlarını özelleştir
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "Hata: %s\n\n", err.Error())
		cmd.Usage()
		return err
	})
}
