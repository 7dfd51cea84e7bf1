package transcode

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	ConflictOverwrite = "overwrite"
	ConflictSkip      = "skip"
	ConflictVersioned = "versioned"
)

// ErrOutputExists skip politikasında hedef dosya zaten varsa döner.
var ErrOutputExists = errors.New("hedef dosya zaten mevcut")

// NormalizeConflictPolicy geçersiz/boş değerlerde varsayılan policy döner.
func NormalizeConflictPolicy(policy string) string {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case ConflictOverwrite:
		return ConflictOverwrite
	case ConflictSkip:
		return ConflictSkip
	case ConflictVersioned, "":
		return ConflictVersioned
	default:
		return ""
	}
}

// ResolveConflict hedef dosya adı çakışmasını verilen policy'ye göre çözer.
// skip=true dönerse iş yapılmamalıdır.
func ResolveConflict(path, policy string) (resolvedPath string, skip bool, err error) {
	normalized := NormalizeConflictPolicy(policy)
	if normalized == "" {
		return "", false, fmt.Errorf("gecersiz on-conflict politikasi: %s", policy)
	}

	_, statErr := os.Stat(path)
	if statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return path, false, nil
		}
		return "", false, statErr
	}

	switch normalized {
	case ConflictOverwrite:
		return path, false, nil
	case ConflictSkip:
		return path, true, nil
	default:
		return versionedPath(path)
	}
}

// versionedPath "ad (1).ext" biçiminde boş bir aday bulur.
func versionedPath(path string) (string, bool, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i < 100000; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, false, nil
		} else if err != nil {
			return "", false, err
		}
	}
	return "", false, fmt.Errorf("uygun versioned dosya adi bulunamadi")
}

// OutputPath düzenlenmiş dosyanın varsayılan adını üretir: <ad><sonek><uzantı>.
func OutputPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// BackupPath orijinalin taşınacağı yolu üretir: <klasör>/<yedek>/<ad><uzantı>.
// Yedek klasörde aynı adlı dosya varsa versioned ad kullanılır.
func BackupPath(path, backupDir string) (string, error) {
	target := filepath.Join(filepath.Dir(path), backupDir, filepath.Base(path))
	resolved, _, err := ResolveConflict(target, ConflictVersioned)
	return resolved, err
}

// AudioCodecArgs hedef uzantıya göre ffmpeg codec argümanlarını döner.
func AudioCodecArgs(path string) []string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "mp3":
		return []string{"-c:a", "libmp3lame", "-b:a", "192k"}
	case "wav":
		return []string{"-c:a", "pcm_s16le"}
	case "ogg":
		return []string{"-c:a", "libvorbis", "-b:a", "192k"}
	case "flac":
		return []string{"-c:a", "flac"}
	case "aac", "m4a":
		return []string{"-c:a", "aac", "-b:a", "192k"}
	case "wma":
		return []string{"-c:a", "wmav2", "-b:a", "192k"}
	case "opus", "webm":
		return []string{"-c:a", "libopus", "-b:a", "192k"}
	default:
		return []string{"-b:a", "192k"}
	}
}
