package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Engine kütüphane dizinindeki değişiklikleri bildiren izleyici.
type Engine interface {
	Bootstrap() error
	// Poll yeni, değişmiş ve yerleşmiş ya da silinmiş dosyaları döner.
	Poll(now time.Time) ([]string, error)
	// Events olay tabanlı backend'de erken yoklama sinyali verir; polling'de nil.
	Events() <-chan struct{}
	Close() error
	Mode() string
}

type fileState struct {
	Size       int64
	ModTime    time.Time
	LastChange time.Time
	Reported   bool
}

// Watcher polling tabanlı dizin izleyicisidir.
type Watcher struct {
	Root      string
	SettleFor time.Duration

	states map[string]fileState
}

// NewWatcher yeni bir watcher oluşturur.
func NewWatcher(root string, settleFor time.Duration) *Watcher {
	if settleFor <= 0 {
		settleFor = 1500 * time.Millisecond
	}
	return &Watcher{
		Root:      root,
		SettleFor: settleFor,
		states:    make(map[string]fileState),
	}
}

// Bootstrap mevcut dosyaları "zaten bildirilmiş" olarak kaydeder.
func (w *Watcher) Bootstrap() error {
	now := time.Now()
	return w.scan(func(path string, info os.FileInfo) error {
		w.states[path] = fileState{
			Size:       info.Size(),
			ModTime:    info.ModTime(),
			LastChange: now,
			Reported:   true,
		}
		return nil
	})
}

// Poll yazımı bitmiş (SettleFor boyunca değişmemiş) yeni/değişen dosyaları ve
// silinen dosyaları döner. Her değişiklik bir kez bildirilir.
func (w *Watcher) Poll(now time.Time) ([]string, error) {
	seen := make(map[string]struct{})
	var changed []string

	err := w.scan(func(path string, info os.FileInfo) error {
		seen[path] = struct{}{}
		state, ok := w.states[path]

		if !ok {
			w.states[path] = fileState{
				Size:       info.Size(),
				ModTime:    info.ModTime(),
				LastChange: now,
			}
			return nil
		}

		if state.Size != info.Size() || !state.ModTime.Equal(info.ModTime()) {
			state.Size = info.Size()
			state.ModTime = info.ModTime()
			state.LastChange = now
			state.Reported = false
			w.states[path] = state
			return nil
		}

		if !state.Reported && now.Sub(state.LastChange) >= w.SettleFor {
			state.Reported = true
			w.states[path] = state
			changed = append(changed, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for path, state := range w.states {
		if _, ok := seen[path]; !ok {
			delete(w.states, path)
			if state.Reported {
				changed = append(changed, path)
			}
		}
	}

	return changed, nil
}

func (w *Watcher) Events() <-chan struct{} { return nil }
func (w *Watcher) Close() error            { return nil }
func (w *Watcher) Mode() string            { return "polling" }

func (w *Watcher) scan(onFile func(path string, info os.FileInfo) error) error {
	info, err := os.Stat(w.Root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("izlenen yol dizin olmalidir: %s", w.Root)
	}

	entries, err := os.ReadDir(w.Root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsAudio(e.Name()) {
			continue
		}
		info, statErr := e.Info()
		if statErr != nil {
			continue
		}
		if err := onFile(filepath.Join(w.Root, e.Name()), info); err != nil {
			return err
		}
	}
	return nil
}
