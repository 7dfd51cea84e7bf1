package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/padedit-cli/internal/config"
	"github.com/mlihgenel/padedit-cli/internal/edit"
	"github.com/mlihgenel/padedit-cli/internal/transcode"
	"github.com/mlihgenel/padedit-cli/internal/ui"
	"github.com/mlihgenel/padedit-cli/internal/waveform"
)

var (
	trimStart      float64
	trimEnd        float64
	gainDB         float64
	gainSnap       bool
	forceClip      bool
	editSuffix     string
	editOnConflict string
)

// Testlerde değiştirilebilir.
var (
	newTranscoder   = transcode.New
	newFileAnalyzer = func() (waveform.Analyzer, func()) { return newAnalyzer() }
)

type editResult struct {
	Input    string  `json:"input"`
	Output   string  `json:"output"`
	Backup   string  `json:"backup"`
	Mode     string  `json:"mode"`
	Summary  string  `json:"summary"`
	Start    float64 `json:"start,omitempty"`
	End      float64 `json:"end,omitempty"`
	GainDB   float64 `json:"gain_db,omitempty"`
	Duration string  `json:"elapsed"`
}

var trimCmd = &cobra.Command{
	Use:   "trim <dosya>",
	Short: "Ses dosyasını verilen aralıkta kırp",
	Long: `Dosyanın [start, end] aralığını yeni bir dosyaya yazar.
Orijinal dosya yedek klasörüne taşınır.

Örnekler:
  padedit-cli trim sarki.mp3 --start 12.5 --end 48
  padedit-cli trim sarki.wav --start 3 --suffix _kisa --on-conflict overwrite`,
	Args: cobra.ExactArgs(1),
	RunE: runTrim,
}

var gainCmd = &cobra.Command{
	Use:   "gain <dosya>",
	Short: "Ses dosyasına sabit kazanç uygula",
	Long: `Dosyaya dB cinsinden sabit kazanç uygular ve yeni bir dosyaya yazar.
Kazanç clip oluşturacaksa --force verilmedikçe işlem yapılmaz.

Örnekler:
  padedit-cli gain sarki.mp3 --db -3
  padedit-cli gain sarki.mp3 --snap
  padedit-cli gain sarki.flac --db 6 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runGain,
}

func init() {
	trimCmd.Flags().Float64Var(&trimStart, "start", 0, "Başlangıç (saniye)")
	trimCmd.Flags().Float64Var(&trimEnd, "end", 0, "Bitiş (saniye, varsayılan: dosya sonu)")
	gainCmd.Flags().Float64Var(&gainDB, "db", 0, "Kazanç (dB)")
	gainCmd.Flags().BoolVar(&gainSnap, "snap", false, "Clip oluşturmayan en yüksek kazancı kullan")
	gainCmd.Flags().BoolVar(&forceClip, "force", false, "Clip uyarısına rağmen uygula")

	for _, c := range []*cobra.Command{trimCmd, gainCmd} {
		c.Flags().StringVar(&editSuffix, "suffix", "", "Çıktı dosya adı soneki (varsayılan: .padedit.toml)")
		c.Flags().StringVar(&editOnConflict, "on-conflict", transcode.ConflictVersioned, "Çıktı çakışma politikası (overwrite|skip|versioned)")
		rootCmd.AddCommand(c)
	}
}

func runTrim(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	path, tunables, analysis, err := prepareEdit(ctx, args[0])
	if err != nil {
		return err
	}

	end := trimEnd
	if !flagChanged(cmd, "end") {
		end = analysis.Duration
	}
	w, err := edit.NewTrimWindowRange(analysis.Duration, tunables.MinGap, trimStart, end)
	if err != nil {
		return err
	}
	if w.IsFull() {
		return fmt.Errorf("%w: pencere dosyanın tamamını kapsıyor", edit.ErrNothingChanged)
	}

	job, err := transcode.TrimJob(path, w.Start(), w.End(), suffixOr(tunables.TrimSuffix))
	if err != nil {
		return err
	}
	summary := fmt.Sprintf("%s → %s (%s)", edit.FormatSeconds(w.Start()), edit.FormatSeconds(w.End()), edit.FormatSeconds(w.Duration()))
	return runEditJob(ctx, tunables, job, editResult{
		Mode:    string(edit.ModeTrim),
		Summary: summary,
		Start:   w.Start(),
		End:     w.End(),
	})
}

func runGain(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	if gainSnap && flagChanged(cmd, "db") {
		return errors.New("--db ve --snap birlikte kullanılamaz")
	}

	path, tunables, analysis, err := prepareEdit(ctx, args[0])
	if err != nil {
		return err
	}

	g := edit.NewGain(tunables.MinGainDB, tunables.MaxGainDB, analysis.PeakDB)
	if gainSnap {
		g.SnapToHeadroom()
	} else {
		if gainDB < g.MinDB() || gainDB > g.MaxDB() {
			return fmt.Errorf("kazanç %.1f..%.1f dB aralığında olmalı: %.2f", g.MinDB(), g.MaxDB(), gainDB)
		}
		g.Set(gainDB)
	}
	if g.DB() == 0 {
		return fmt.Errorf("%w: kazanç 0 dB", edit.ErrNothingChanged)
	}
	if g.Clipping() && !forceClip {
		return fmt.Errorf("%+.1f dB kazanç clip oluşturur (boşluk %s); yine de uygulamak için --force", g.DB(), formatDB(g.HeadroomDB()))
	}
	if g.Clipping() {
		ui.PrintWarning(fmt.Sprintf("%+.1f dB kazanç clip oluşturacak", g.DB()))
	}

	job := transcode.GainJob(path, g.DB(), suffixOr(tunables.GainSuffix))
	return runEditJob(ctx, tunables, job, editResult{
		Mode:    string(edit.ModeGain),
		Summary: fmt.Sprintf("%+.1f dB (x%.2f)", g.DB(), g.LinearMultiplier()),
		GainDB:  g.DB(),
	})
}

// prepareEdit dosyayı doğrular, en yakın .padedit.toml'u yükler ve analiz eder.
func prepareEdit(ctx context.Context, raw string) (string, config.Tunables, waveform.Analysis, error) {
	if err := checkOutputFormat(); err != nil {
		return "", config.Tunables{}, waveform.Analysis{}, err
	}
	if transcode.NormalizeConflictPolicy(editOnConflict) == "" {
		return "", config.Tunables{}, waveform.Analysis{}, fmt.Errorf("gecersiz on-conflict politikasi: %s", editOnConflict)
	}
	path, err := filepath.Abs(raw)
	if err != nil {
		return "", config.Tunables{}, waveform.Analysis{}, err
	}
	tunables, _, err := config.LoadTunables(filepath.Dir(path))
	if err != nil {
		return "", config.Tunables{}, waveform.Analysis{}, err
	}

	analyzer, closeAnalyzer := newFileAnalyzer()
	defer closeAnalyzer()
	analysis, err := analyzer.Analyze(ctx, path)
	if err != nil {
		return "", tunables, analysis, err
	}
	if !analysis.Valid {
		return "", tunables, analysis, fmt.Errorf("%w: %s", edit.ErrNoAnalysis, path)
	}
	return path, tunables, analysis, nil
}

func runEditJob(ctx context.Context, tunables config.Tunables, job transcode.Job, result editResult) error {
	f := newTranscoder(tunables.BackupDir)
	f.OnConflict = transcode.NormalizeConflictPolicy(editOnConflict)

	started := time.Now()
	res, err := f.Run(ctx, job)
	if err != nil {
		return err
	}
	result.Input = job.Input
	result.Output = res.Output
	result.Backup = res.Backup
	result.Duration = ui.FormatDuration(time.Since(started))
	forgetAnalysis(ctx, job.Input)

	if isJSONOutput() {
		return printJSON(result)
	}
	ui.PrintEdit(filepath.Base(job.Input), filepath.Base(res.Output), result.Summary)
	ui.PrintInfo("Orijinal: " + shortenPath(res.Backup))
	ui.PrintDuration(time.Since(started))
	return nil
}

// forgetAnalysis yedeğe taşınan orijinalin önbellek kaydını siler.
func forgetAnalysis(ctx context.Context, path string) {
	analyzer, closeAnalyzer := newFileAnalyzer()
	defer closeAnalyzer()
	if f, ok := analyzer.(waveform.Forgetter); ok {
		if err := f.Forget(ctx, path); err != nil {
			log.Printf("önbellek kaydı silinemedi (%s): %v", path, err)
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func suffixOr(fallback string) string {
	if editSuffix != "" {
		return editSuffix
	}
	return fallback
}
