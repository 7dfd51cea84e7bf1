package library

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventWatcher fsnotify olaylarıyla erken yoklama tetikler; asıl karar
// polling watcher'ındadır, böylece yarım yazılmış dosyalar bildirilmez.
type EventWatcher struct {
	poller *Watcher
	fs     *fsnotify.Watcher
	root   string

	events chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewEventWatcher fsnotify backend'i oluşturur.
func NewEventWatcher(root string, settleFor time.Duration) (*EventWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &EventWatcher{
		poller: NewWatcher(root, settleFor),
		fs:     fs,
		root:   root,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}, nil
}

// NewAdaptiveWatcher event backend'i dener; olmazsa polling fallback döner.
func NewAdaptiveWatcher(root string, settleFor time.Duration) (Engine, error) {
	eventWatcher, err := NewEventWatcher(root, settleFor)
	if err != nil {
		return NewWatcher(root, settleFor), err
	}
	return eventWatcher, nil
}

func (w *EventWatcher) Bootstrap() error {
	if err := w.poller.Bootstrap(); err != nil {
		return err
	}
	info, err := os.Stat(w.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("izlenen yol dizin olmalidir: %s", w.root)
	}
	if err := w.fs.Add(w.root); err != nil {
		return err
	}

	go w.loop()
	return nil
}

func (w *EventWatcher) Poll(now time.Time) ([]string, error) {
	return w.poller.Poll(now)
}

func (w *EventWatcher) Events() <-chan struct{} {
	return w.events
}

func (w *EventWatcher) Close() error {
	w.once.Do(func() {
		close(w.done)
	})
	return w.fs.Close()
}

func (w *EventWatcher) Mode() string { return "event+polling" }

func (w *EventWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case _, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.signal()
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Polling devam ettiği için hata yalnızca erken yoklamayı tetikler.
			w.signal()
		}
	}
}

func (w *EventWatcher) signal() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
