package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mlihgenel/padedit-cli/internal/batch"
	"github.com/mlihgenel/padedit-cli/internal/config"
	"github.com/mlihgenel/padedit-cli/internal/edit"
	"github.com/mlihgenel/padedit-cli/internal/library"
	"github.com/mlihgenel/padedit-cli/internal/ui"
	"github.com/mlihgenel/padedit-cli/internal/waveform"
)

var (
	infoAnalyze bool
	infoWorkers int
)

// audioInfo info komutunun çıktısıdır.
type audioInfo struct {
	FileName   string   `json:"file_name"`
	Path       string   `json:"path"`
	Size       int64    `json:"size"`
	SizeText   string   `json:"size_text"`
	Duration   float64  `json:"duration"`
	SampleRate int      `json:"sample_rate"`
	PeakDB     *float64 `json:"peak_db"`
	HeadroomDB *float64 `json:"headroom_db"`
	MaxGainDB  float64  `json:"max_safe_gain_db"`
}

var infoCmd = &cobra.Command{
	Use:   "info <dosya|klasör>",
	Short: "Ses dosyasının süre ve tepe seviyesini göster",
	Long: `Bir ses dosyasını analiz eder: süre, tepe seviyesi (dBFS) ve clip
oluşturmadan uygulanabilecek en yüksek kazanç. Klasör verilirse
içindeki ses dosyalarını listeler; --analyze ile hepsini paralel analiz
eder ve önbelleği doldurur.

Örnekler:
  padedit-cli info sarki.mp3
  padedit-cli info sarki.mp3 --output-format json
  padedit-cli info ~/Music
  padedit-cli info ~/Music --analyze --workers 4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutputFormat(); err != nil {
			return err
		}
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		st, err := os.Stat(path)
		if err != nil {
			return err
		}
		if st.IsDir() {
			if infoAnalyze {
				return analyzeLibrary(commandContext(cmd), path)
			}
			return printLibrary(path)
		}

		tunables, _, err := config.LoadTunables(filepath.Dir(path))
		if err != nil {
			return err
		}
		analyzer, closeAnalyzer := newFileAnalyzer()
		defer closeAnalyzer()
		analysis, err := analyzer.Analyze(commandContext(cmd), path)
		if err != nil {
			return err
		}
		if !analysis.Valid {
			return fmt.Errorf("%w: %s", edit.ErrNoAnalysis, path)
		}

		info := newAudioInfo(path, st.Size(), analysis, tunables)
		if isJSONOutput() {
			return printJSON(info)
		}
		printAudioInfo(info)
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoAnalyze, "analyze", false, "Klasördeki tüm dosyaları analiz et")
	infoCmd.Flags().IntVar(&infoWorkers, "workers", 0, "Paralel analiz sayısı (0 = CPU sayısı)")
	rootCmd.AddCommand(infoCmd)
}

func newAudioInfo(path string, size int64, analysis waveform.Analysis, tunables config.Tunables) audioInfo {
	info := audioInfo{
		FileName:   filepath.Base(path),
		Path:       path,
		Size:       size,
		SizeText:   library.Entry{Size: size}.SizeText(),
		Duration:   analysis.Duration,
		SampleRate: analysis.SampleRate,
	}
	g := edit.NewGain(tunables.MinGainDB, tunables.MaxGainDB, analysis.PeakDB)
	if !math.IsInf(analysis.PeakDB, 0) {
		peak, head := analysis.PeakDB, g.HeadroomDB()
		info.PeakDB, info.HeadroomDB = &peak, &head
	}
	g.SnapToHeadroom()
	info.MaxGainDB = g.DB()
	return info
}

type libraryAnalysis struct {
	Files   []audioInfo   `json:"files"`
	Summary batch.Summary `json:"summary"`
}

// analyzeLibrary klasördeki dosyaları worker pool ile analiz eder.
func analyzeLibrary(ctx context.Context, dir string) error {
	files, err := library.Scan(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		ui.PrintWarning("Bu klasörde ses dosyası yok: " + shortenPath(dir))
		return nil
	}
	tunables, _, err := config.LoadTunables(dir)
	if err != nil {
		return err
	}
	analyzer, closeAnalyzer := newFileAnalyzer()
	defer closeAnalyzer()

	paths := make([]string, len(files))
	index := make(map[string]int, len(files))
	for i, f := range files {
		paths[i] = f.Path
		index[f.Path] = i
	}
	infos := make([]*audioInfo, len(files))

	pool := batch.NewPool(infoWorkers)
	pool.SetRetry(1, 200*time.Millisecond)
	if !isJSONOutput() {
		pool.OnProgress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "\r  %s Analiz: %d/%d", ui.IconTime, done, total)
		}
	}

	started := time.Now()
	results := pool.Execute(ctx, paths, func(ctx context.Context, path string) error {
		a, err := analyzer.Analyze(ctx, path)
		if err != nil {
			return err
		}
		if !a.Valid {
			return edit.ErrNoAnalysis
		}
		i := index[path]
		info := newAudioInfo(path, files[i].Size, a, tunables)
		infos[i] = &info
		return nil
	})
	summary := batch.GetSummary(results, time.Since(started))

	out := libraryAnalysis{Summary: summary}
	for _, info := range infos {
		if info != nil {
			out.Files = append(out.Files, *info)
		}
	}
	if isJSONOutput() {
		if err := printJSON(out); err != nil {
			return err
		}
		return failedAnalyses(summary)
	}
	fmt.Fprintln(os.Stderr)

	rows := make([][]string, 0, len(out.Files))
	for _, info := range out.Files {
		peak := "sessiz"
		if info.PeakDB != nil {
			peak = formatDB(*info.PeakDB)
		}
		rows = append(rows, []string{
			info.FileName,
			edit.FormatSeconds(info.Duration),
			peak,
			fmt.Sprintf("%+.1f dB", info.MaxGainDB),
		})
	}
	ui.PrintTable([]string{"Dosya", "Süre", "Tepe", "Güvenli kazanç"}, rows)
	for _, e := range summary.Errors {
		ui.PrintError(fmt.Sprintf("%s: %s", filepath.Base(e.Path), e.Error))
	}
	ui.PrintInfo(fmt.Sprintf("%d/%d dosya analiz edildi", summary.Succeeded, summary.Total))
	ui.PrintDuration(summary.Duration)
	return failedAnalyses(summary)
}

func failedAnalyses(s batch.Summary) error {
	if s.Failed > 0 {
		return fmt.Errorf("%d dosya analiz edilemedi", s.Failed)
	}
	return nil
}

func printLibrary(dir string) error {
	files, err := library.Scan(dir)
	if err != nil {
		return err
	}
	if isJSONOutput() {
		return printJSON(files)
	}
	if len(files) == 0 {
		ui.PrintWarning("Bu klasörde ses dosyası yok: " + shortenPath(dir))
		return nil
	}
	now := time.Now()
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Name, f.SizeText(), f.Age(now)})
	}
	ui.PrintTable([]string{"Dosya", "Boyut", "Değişiklik"}, rows)
	ui.PrintInfo(fmt.Sprintf("%d dosya, toplam %s", len(files), library.TotalSize(files)))
	return nil
}

func printAudioInfo(info audioInfo) {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	labelStyle := lipgloss.NewStyle().
		Foreground(textColor).
		Width(16)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#334155")).
		Padding(1, 2).
		MarginTop(1)

	line := func(label, value string) string {
		return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
	}

	var lines []string
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%s  %s", ui.IconAudio, info.FileName)))
	lines = append(lines, dimStyle.Render(strings.Repeat("─", 40)))
	lines = append(lines, line("Boyut", info.SizeText))
	lines = append(lines, line("Süre", edit.FormatSeconds(info.Duration)))
	if info.SampleRate > 0 {
		lines = append(lines, line("Analiz", fmt.Sprintf("%d Hz mono", info.SampleRate)))
	}
	if info.PeakDB == nil {
		lines = append(lines, line("Tepe", "sessiz"))
	} else {
		lines = append(lines, line("Tepe", formatDB(*info.PeakDB)))
		lines = append(lines, line("Boşluk", formatDB(*info.HeadroomDB)))
	}
	lines = append(lines, line("Güvenli kazanç", fmt.Sprintf("%+.1f dB", info.MaxGainDB)))

	fmt.Println(boxStyle.Render(strings.Join(lines, "\n")))
}
