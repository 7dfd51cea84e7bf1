package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// SupportedExtensions düzenlenebilir ses dosyası uzantıları.
var SupportedExtensions = []string{"mp3", "wav", "ogg", "flac", "aac", "m4a", "wma", "opus"}

// Entry listede gösterilen bir ses dosyası.
type Entry struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// SizeText dosya boyutunu okunabilir biçimde döner (ör. "4.2 MB").
func (e Entry) SizeText() string {
	return humanize.Bytes(uint64(e.Size))
}

// Age son değişiklikten bu yana geçen süreyi okunabilir biçimde döner.
func (e Entry) Age(now time.Time) string {
	return humanize.RelTime(e.ModTime, now, "önce", "sonra")
}

// IsAudio uzantının desteklenip desteklenmediğini söyler.
func IsAudio(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Scan dizindeki desteklenen ses dosyalarını ada göre sıralı listeler.
// Alt klasörlere (yedek klasörü dahil) inilmez; gizli dosyalar atlanır.
func Scan(dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dizin okunamadı: %w", err)
	}

	var out []Entry
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsAudio(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Path:    filepath.Join(dir, e.Name()),
			Name:    e.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// TotalSize listedeki dosyaların toplam boyutunu okunabilir biçimde döner.
func TotalSize(entries []Entry) string {
	var total uint64
	for _, e := range entries {
		total += uint64(e.Size)
	}
	return humanize.Bytes(total)
}
