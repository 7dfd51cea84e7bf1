package transcode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultBackupDir orijinal dosyaların taşındığı alt klasör.
const DefaultBackupDir = "originals"

// ErrToolMissing ffmpeg PATH'te yoksa Run tarafından döner.
var ErrToolMissing = errors.New("ffmpeg bulunamadı")

// Job tek bir ffmpeg düzenleme işidir.
type Job struct {
	Input  string
	Suffix string
	// Filter -i'den sonra eklenen argümanlar (ör. -ss/-to veya -af).
	Filter []string
}

// Result başarılı bir işin dosya yolları.
type Result struct {
	Output string
	Backup string
}

// FFmpeg düzenlemeleri ffmpeg ile yeni dosyaya yazar. Orijinal dosya
// BackupDir alt klasörüne taşınır; iş başarısız olursa geri konur.
type FFmpeg struct {
	FFmpegPath string
	BackupDir  string
	OnConflict string

	// RunCommand ffmpeg'i çalıştırır; testlerde değiştirilebilir.
	RunCommand func(ctx context.Context, ffmpegPath string, args []string) error
}

// New ffmpeg'i PATH'te arar.
func New(backupDir string) *FFmpeg {
	path, _ := exec.LookPath("ffmpeg")
	if strings.TrimSpace(backupDir) == "" {
		backupDir = DefaultBackupDir
	}
	return &FFmpeg{
		FFmpegPath: path,
		BackupDir:  backupDir,
		OnConflict: ConflictVersioned,
		RunCommand: runFFmpegCommand,
	}
}

// Available ffmpeg bulunup bulunmadığını söyler.
func (f *FFmpeg) Available() bool { return f.FFmpegPath != "" }

// TrimJob [start, end] aralığını kesen işi kurar.
func TrimJob(path string, start, end float64, suffix string) (Job, error) {
	if end <= start || start < 0 {
		return Job{}, fmt.Errorf("geçersiz kesim aralığı: %.3f -> %.3f", start, end)
	}
	return Job{
		Input:  path,
		Suffix: suffix,
		Filter: []string{"-ss", formatSeconds(start), "-to", formatSeconds(end)},
	}, nil
}

// GainJob sabit dB kazancı uygulayan işi kurar.
func GainJob(path string, gainDB float64, suffix string) Job {
	return Job{
		Input:  path,
		Suffix: suffix,
		Filter: []string{"-af", fmt.Sprintf("volume=%sdB", strconv.FormatFloat(gainDB, 'f', 2, 64))},
	}
}

// ApplyTrim [start, end] aralığını yeni dosyaya yazar.
func (f *FFmpeg) ApplyTrim(ctx context.Context, path string, start, end float64, suffix string) (bool, error) {
	job, err := TrimJob(path, start, end, suffix)
	if err != nil {
		return false, err
	}
	return f.apply(ctx, job)
}

// ApplyGain sabit dB kazancını yeni dosyaya uygular.
func (f *FFmpeg) ApplyGain(ctx context.Context, path string, gainDB float64, suffix string) (bool, error) {
	return f.apply(ctx, GainJob(path, gainDB, suffix))
}

func (f *FFmpeg) apply(ctx context.Context, job Job) (bool, error) {
	_, err := f.Run(ctx, job)
	if errors.Is(err, ErrToolMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Run işi yürütür ve yazılan dosya yollarını döner.
func (f *FFmpeg) Run(ctx context.Context, job Job) (Result, error) {
	if f.FFmpegPath == "" {
		return Result{}, ErrToolMissing
	}
	info, err := os.Stat(job.Input)
	if err != nil {
		return Result{}, fmt.Errorf("kaynak dosya okunamadı: %w", err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("kaynak bir klasör: %s", job.Input)
	}
	if strings.TrimSpace(job.Suffix) == "" {
		return Result{}, fmt.Errorf("çıktı soneki boş olamaz")
	}

	output, skip, err := ResolveConflict(OutputPath(job.Input, job.Suffix), f.OnConflict)
	if err != nil {
		return Result{}, err
	}
	if skip {
		return Result{}, fmt.Errorf("%w: %s", ErrOutputExists, output)
	}

	backupDir := f.BackupDir
	if backupDir == "" {
		backupDir = DefaultBackupDir
	}
	if err := os.MkdirAll(filepath.Join(filepath.Dir(job.Input), backupDir), 0755); err != nil {
		return Result{}, fmt.Errorf("yedek klasörü oluşturulamadı: %w", err)
	}
	backup, err := BackupPath(job.Input, backupDir)
	if err != nil {
		return Result{}, err
	}
	if err := os.Rename(job.Input, backup); err != nil {
		return Result{}, fmt.Errorf("orijinal taşınamadı: %w", err)
	}

	ext := filepath.Ext(output)
	temp := fmt.Sprintf("%s.%s.tmp%s", strings.TrimSuffix(output, ext), uuid.NewString(), ext)

	args := []string{"-loglevel", "error", "-y", "-i", backup}
	args = append(args, job.Filter...)
	args = append(args, AudioCodecArgs(output)...)
	args = append(args, temp)

	run := f.RunCommand
	if run == nil {
		run = runFFmpegCommand
	}
	if err := run(ctx, f.FFmpegPath, args); err != nil {
		return Result{}, f.restore(job.Input, backup, temp, err)
	}
	if err := os.Rename(temp, output); err != nil {
		return Result{}, f.restore(job.Input, backup, temp, err)
	}

	log.Printf("düzenleme yazıldı: %s (orijinal: %s)", output, backup)
	return Result{Output: output, Backup: backup}, nil
}

// restore geçici dosyayı siler ve orijinali yerine taşır.
func (f *FFmpeg) restore(original, backup, temp string, cause error) error {
	_ = os.Remove(temp)
	if err := os.Rename(backup, original); err != nil {
		return fmt.Errorf("%w (orijinal geri alınamadı, yedek: %s: %v)", cause, backup, err)
	}
	return cause
}

func runFFmpegCommand(ctx context.Context, ffmpegPath string, args []string) error {
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg hatası: %s\n%s", err.Error(), strings.TrimSpace(string(out)))
	}
	return nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
