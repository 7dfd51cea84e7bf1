package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlihgenel/padedit-cli/internal/editor"
	"github.com/mlihgenel/padedit-cli/internal/input"
	"github.com/mlihgenel/padedit-cli/internal/library"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEditorModel(t *testing.T, files []library.Entry, pad <-chan input.Snapshot) (editorModel, *testClock) {
	t.Helper()
	machine := editor.New(editor.DefaultConfig(), editor.Deps{})
	machine.SetFiles(files)
	t.Cleanup(machine.Close)

	clock := &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newEditorModel(machine, t.TempDir(), pad, nil)
	m.now = clock.Now
	return m, clock
}

func testFiles() []library.Entry {
	mod := time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC)
	return []library.Entry{
		{Path: "/music/a.mp3", Name: "a.mp3", Size: 2048, ModTime: mod},
		{Path: "/music/b.wav", Name: "b.wav", Size: 4096, ModTime: mod},
		{Path: "/music/c.flac", Name: "c.flac", Size: 8192, ModTime: mod},
	}
}

func update(t *testing.T, m editorModel, msg tea.Msg) (editorModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	em, ok := next.(editorModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return em, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestKeyboardNavigationWithoutPad(t *testing.T) {
	m, clock := newTestEditorModel(t, testFiles(), nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.machine.Cursor(); got != 1 {
		t.Fatalf("expected cursor 1, got %d", got)
	}

	// Aynı nav penceresindeki ikinci basış yutulur.
	clock.Advance(50 * time.Millisecond)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.machine.Cursor(); got != 1 {
		t.Fatalf("expected debounced press to be ignored, got cursor %d", got)
	}

	clock.Advance(200 * time.Millisecond)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	if got := m.machine.Cursor(); got != 2 {
		t.Fatalf("expected cursor at last file, got %d", got)
	}
}

func TestQuitKeyClosesMachine(t *testing.T) {
	m, _ := newTestEditorModel(t, testFiles(), nil)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !isQuit(cmd) {
		t.Fatalf("expected quit command")
	}
	if !m.machine.Closed() {
		t.Fatalf("expected machine to be closed")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestBackInSelectionQuits(t *testing.T) {
	m, _ := newTestEditorModel(t, testFiles(), nil)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Fatalf("expected back in file selection to quit")
	}
}

func TestPadSnapshotDrivesMachine(t *testing.T) {
	pad := make(chan input.Snapshot)
	m, clock := newTestEditorModel(t, nil, pad)
	m.firstRun = true

	m, _ = update(t, m, padMsg(input.Snapshot{At: clock.Now(), Connected: true}))
	if !m.firstRun {
		t.Fatalf("welcome should stay until a button is pressed")
	}
	if !strings.Contains(m.View(), "bağlı") {
		t.Fatalf("expected connected pad in header")
	}

	clock.Advance(30 * time.Millisecond)
	m, _ = update(t, m, padMsg(input.Snapshot{
		At:        clock.Now(),
		Connected: true,
		Held:      input.Buttons(input.ButtonA),
		Pressed:   input.Buttons(input.ButtonA),
	}))
	if m.firstRun {
		t.Fatalf("expected welcome to be dismissed by a press")
	}
	if got := m.machine.Status(); got != "Seçilecek dosya yok" {
		t.Fatalf("unexpected status: %q", got)
	}
}

func TestKeyWaitsForPadTickWhenPadEnabled(t *testing.T) {
	pad := make(chan input.Snapshot)
	m, clock := newTestEditorModel(t, testFiles(), pad)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.machine.Cursor(); got != 0 {
		t.Fatalf("key should be queued until the next poll, got cursor %d", got)
	}
	m, _ = update(t, m, padMsg(input.Snapshot{At: clock.Now(), Connected: true}))
	if got := m.machine.Cursor(); got != 1 {
		t.Fatalf("expected queued key to be applied, got cursor %d", got)
	}
}

func TestViews(t *testing.T) {
	m, clock := newTestEditorModel(t, testFiles(), nil)
	m.firstRun = true

	view := m.View()
	for _, want := range []string{"Dosya Seç", "a.mp3", "c.flac", "Gamepad yoksa", "klavye"} {
		if !strings.Contains(view, want) {
			t.Fatalf("selection view missing %q", want)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.machine.Step() != editor.StepEditing {
		t.Fatalf("expected editing step")
	}
	view = m.View()
	if !strings.Contains(view, "Düzenle") || !strings.Contains(view, "Analiz başarısız") {
		t.Fatalf("expected analysis failure in editing view, got:\n%s", view)
	}

	clock.Advance(time.Second)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.machine.Step() != editor.StepFileSelection {
		t.Fatalf("expected back to selection")
	}
}

func TestLibraryWatcherKeepsPollingFallback(t *testing.T) {
	dir := t.TempDir()
	watcher := startLibraryWatcher(dir, func(root string, settle time.Duration) (library.Engine, error) {
		return library.NewWatcher(root, settle), errors.New("inotify unavailable")
	})
	if watcher == nil {
		t.Fatalf("expected polling fallback to be kept")
	}
	defer watcher.Close()
	if watcher.Mode() != "polling" {
		t.Fatalf("unexpected watcher mode %q", watcher.Mode())
	}

	if err := os.WriteFile(filepath.Join(dir, "new.mp3"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	now := time.Now()
	if _, err := watcher.Poll(now); err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	changed, err := watcher.Poll(now.Add(2 * librarySettleTime))
	if err != nil || len(changed) != 1 {
		t.Fatalf("expected new file to be reported, got %v (%v)", changed, err)
	}

	if w := startLibraryWatcher(dir, func(string, time.Duration) (library.Engine, error) {
		return nil, errors.New("no watcher")
	}); w != nil {
		t.Fatalf("expected nil watcher when none could be created")
	}
}
