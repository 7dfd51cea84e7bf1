package cmd

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlihgenel/padedit-cli/internal/config"
	"github.com/mlihgenel/padedit-cli/internal/editor"
	"github.com/mlihgenel/padedit-cli/internal/input"
	"github.com/mlihgenel/padedit-cli/internal/library"
	"github.com/mlihgenel/padedit-cli/internal/playback"
	"github.com/mlihgenel/padedit-cli/internal/transcode"
	"github.com/mlihgenel/padedit-cli/internal/waveform"
)

const (
	uiTickInterval    = 100 * time.Millisecond
	libraryPollEvery  = 20 // uiTick sayısı
	librarySettleTime = 1500 * time.Millisecond
	applyDrainTimeout = 10 * time.Second
)

// ========================================
// Mesajlar
// ========================================

type tickMsg time.Time

type padMsg input.Snapshot

type machineEventMsg editor.Event

type libraryChangedMsg struct{}

// ========================================
// Model
// ========================================

type editorModel struct {
	machine *editor.Machine
	keys    keyMap
	help    help.Model

	pad        <-chan input.Snapshot
	padEnabled bool
	lastPad    input.Snapshot

	watcher library.Engine
	dir     string

	width       int
	height      int
	spinnerTick int
	quitting    bool
	firstRun    bool
	now         func() time.Time
}

func newEditorModel(m *editor.Machine, dir string, pad <-chan input.Snapshot, watcher library.Engine) editorModel {
	h := help.New()
	h.ShortSeparator = "  "
	return editorModel{
		machine:    m,
		keys:       newKeyMap(),
		help:       h,
		pad:        pad,
		padEnabled: pad != nil,
		watcher:    watcher,
		dir:        dir,
		width:      80,
		height:     24,
		now:        time.Now,
	}
}

// ========================================
// bubbletea Interface
// ========================================

func (m editorModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), waitForMachineEvent(m.machine.Events())}
	if m.pad != nil {
		cmds = append(cmds, waitForPad(m.pad))
	}
	if m.watcher != nil {
		if ch := m.watcher.Events(); ch != nil {
			cmds = append(cmds, waitForLibrary(ch))
		}
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(uiTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForPad(ch <-chan input.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return padMsg(snap)
	}
}

func waitForMachineEvent(ch <-chan editor.Event) tea.Cmd {
	return func() tea.Msg {
		return machineEventMsg(<-ch)
	}
}

func waitForLibrary(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return libraryChangedMsg{}
	}
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		m.firstRun = false
		m.machine.Enqueue(m.keys.action(msg))
		if !m.padEnabled {
			// Gamepad yoksa yoklama döngüsü de yok; aksiyonu hemen işle.
			m.machine.Tick(input.Snapshot{At: m.now()}, m.now())
		}
		return m.afterTick()

	case padMsg:
		snap := input.Snapshot(msg)
		m.lastPad = snap
		if snap.Pressed != 0 {
			m.firstRun = false
		}
		m.machine.Tick(snap, snap.At)
		next, cmd := m.afterTick()
		return next, tea.Batch(cmd, waitForPad(m.pad))

	case machineEventMsg:
		m.machine.HandleEvent(editor.Event(msg), m.now())
		return m, waitForMachineEvent(m.machine.Events())

	case libraryChangedMsg:
		m.pollLibrary()
		return m, waitForLibrary(m.watcher.Events())

	case tickMsg:
		m.spinnerTick++
		if !m.padEnabled {
			m.machine.Tick(input.Snapshot{At: time.Time(msg)}, time.Time(msg))
		}
		if m.watcher != nil && m.spinnerTick%libraryPollEvery == 0 {
			m.pollLibrary()
		}
		next, cmd := m.afterTick()
		if m.quitting {
			return next, cmd
		}
		return next, tea.Batch(cmd, tickCmd())
	}
	return m, nil
}

// afterTick makine kendini kapattıysa (seçimde B) programı bitirir.
func (m editorModel) afterTick() (tea.Model, tea.Cmd) {
	if m.machine.Closed() && !m.quitting {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m editorModel) quit() (tea.Model, tea.Cmd) {
	m.machine.Close()
	m.quitting = true
	return m, tea.Quit
}

func (m *editorModel) pollLibrary() {
	changed, err := m.watcher.Poll(m.now())
	if err != nil {
		log.Printf("kütüphane izlenemedi: %v", err)
		return
	}
	if len(changed) == 0 {
		return
	}
	files, err := library.Scan(m.dir)
	if err != nil {
		log.Printf("liste yenilenemedi: %v", err)
		return
	}
	log.Printf("kütüphane değişti: %d dosya", len(changed))
	m.machine.SetFiles(files)
}

// ========================================
// Çalıştırma
// ========================================

// RunInteractive gamepad düzenleyicisini tam ekran başlatır.
func RunInteractive(s settings) error {
	closeLog, err := setupLogging(s.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	files, err := library.Scan(s.Dir)
	if err != nil {
		return err
	}

	analyzer, closeCache := newAnalyzer()
	defer closeCache()

	transcoder := transcode.New(s.Tunables.BackupDir)
	player := playback.NewFFplay()
	if !transcoder.Available() {
		log.Printf("ffmpeg bulunamadı; uygulama devre dışı kalacak (padedit-cli doctor)")
	}

	machine := editor.New(s.editorConfig(), editor.Deps{
		Analyzer:   analyzer,
		Transcoder: transcoder,
		Player:     player,
		ListFiles:  func() ([]library.Entry, error) { return library.Scan(s.Dir) },
	})
	machine.SetFiles(files)

	watcher := startLibraryWatcher(s.Dir, library.NewAdaptiveWatcher)
	if watcher != nil {
		defer watcher.Close()
	}

	var pad chan input.Snapshot
	ctx, cancel := context.WithCancel(context.Background())
	padDone := make(chan struct{})
	if s.NoPad {
		close(padDone)
	} else {
		dev := input.OpenJoystick(s.Device)
		poller := s.newPoller(dev)
		poller.OnConnectChange = func(connected bool) {
			log.Printf("gamepad bağlantısı: %v", connected)
		}
		pad = make(chan input.Snapshot, 1)
		go func() {
			defer close(padDone)
			defer dev.Close()
			poller.Run(ctx, pad)
		}()
	}

	model := newEditorModel(machine, s.Dir, pad, watcher)
	model.firstRun = config.IsFirstRun()
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()
	if model.firstRun {
		if err := config.MarkFirstRunDone(); err != nil {
			log.Printf("ilk kullanım kaydedilemedi: %v", err)
		}
	}

	machine.Close()
	cancel()
	<-padDone
	if !machine.Wait(applyDrainTimeout) {
		log.Printf("arka plan işleri zamanında bitmedi")
	}
	return runErr
}

func newAnalyzer() (waveform.Analyzer, func()) {
	base := waveform.NewFFmpegAnalyzer()
	dir, err := config.Dir()
	if err != nil {
		return base, func() {}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("veri dizini oluşturulamadı: %v", err)
		return base, func() {}
	}
	cache, err := waveform.OpenCache(filepath.Join(dir, "analysis.db"))
	if err != nil {
		log.Printf("analiz önbelleği açılamadı: %v", err)
		return base, func() {}
	}
	return &waveform.CachedAnalyzer{Inner: base, Cache: cache}, func() { cache.Close() }
}

// setupLogging --log verilmişse logları dosyaya, değilse hiçbir yere yazar.
// Tam ekran arayüz stderr'i kullanamaz.
// startLibraryWatcher izleyiciyi kurar. fsnotify açılamazsa dönen polling
// izleyicisiyle devam eder; hiç izleyici yoksa nil döner.
func startLibraryWatcher(dir string, create func(string, time.Duration) (library.Engine, error)) library.Engine {
	watcher, err := create(dir, librarySettleTime)
	if err != nil {
		log.Printf("olay tabanlı izleyici başlatılamadı, yoklamaya geçiliyor: %v", err)
	}
	if watcher == nil {
		return nil
	}
	if err := watcher.Bootstrap(); err != nil {
		log.Printf("kütüphane taranamadı: %v", err)
	}
	log.Printf("kütüphane izleyici: %s", watcher.Mode())
	return watcher
}

func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "padedit")
	if err != nil {
		return func() {}, err
	}
	return func() { f.Close() }, nil
}
