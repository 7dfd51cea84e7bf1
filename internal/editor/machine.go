package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/mlihgenel/padedit-cli/internal/edit"
	"github.com/mlihgenel/padedit-cli/internal/input"
	"github.com/mlihgenel/padedit-cli/internal/library"
	"github.com/mlihgenel/padedit-cli/internal/playback"
	"github.com/mlihgenel/padedit-cli/internal/waveform"
)

// Step makinenin üst düzey ekranı.
type Step int

const (
	StepFileSelection Step = iota
	StepEditing
)

func (s Step) String() string {
	if s == StepEditing {
		return "editing"
	}
	return "file-selection"
}

// ModalKind açık modal pencerenin türü.
type ModalKind int

const (
	ModalNone ModalKind = iota
	// ModalConfirmClip clip uyarısından sonra uygulama onayı.
	ModalConfirmClip
	// ModalNotice engelleyen hata bildirimi.
	ModalNotice
)

// Config zamanlama ve düzenleme ayarları.
type Config struct {
	Mode    edit.Mode
	Options edit.Options

	NavDebounce    time.Duration
	ActionDebounce time.Duration
	RepeatDelay    time.Duration
	RepeatInterval time.Duration
	ModalCooldown  time.Duration
	// PreviewLength gain önizlemesinin süresi; trim önizlemesi pencere boyunca çalar.
	PreviewLength  time.Duration

	// UserVolume gain önizlemesinin taban ses seviyesi, 0..1.
	UserVolume float64
}

// DefaultConfig varsayılan ayarlar.
func DefaultConfig() Config {
	return Config{
		Mode:           edit.ModeTrim,
		Options:        edit.DefaultOptions(),
		NavDebounce:    120 * time.Millisecond,
		ActionDebounce: 250 * time.Millisecond,
		RepeatDelay:    input.DefaultRepeatDelay,
		RepeatInterval: input.DefaultRepeatInterval,
		ModalCooldown:  350 * time.Millisecond,
		PreviewLength:  5 * time.Second,
		UserVolume:     1,
	}
}

// Deps makinenin dış bileşenleri.
type Deps struct {
	Analyzer   waveform.Analyzer
	Transcoder edit.Transcoder
	Player     playback.Player
	// ListFiles başarılı uygulamadan sonra listeyi yenilemek için çağrılır.
	ListFiles func() ([]library.Entry, error)
}

// EventKind arka plan işinin türü.
type EventKind int

const (
	EventAnalysis EventKind = iota
	EventApply
)

// Event arka plan işinin sonucu. Gen ve Path, isteğin hâlâ güncel olup
// olmadığını anlamak için kullanılır.
type Event struct {
	Kind     EventKind
	Gen      uint64
	Path     string
	Analysis waveform.Analysis
	OK       bool
	Err      error
}

// Machine dosya seçimi ve düzenleme ekranlarını yöneten durum makinesidir.
// Tek bir goroutine'den (UI döngüsü) kullanılmalıdır; arka plan işleri
// sonuçlarını Events kanalına gönderir.
type Machine struct {
	cfg  Config
	deps Deps

	nav      *input.Gate
	action   *input.Gate
	repeater *input.Repeater
	cooldown *input.Cooldown
	queue    []Action

	step     Step
	files    []library.Entry
	cursor   int
	selected string

	session     edit.Session
	analysis    waveform.Analysis
	analyzing   bool
	analysisErr string

	modal        ModalKind
	modalMessage string

	busy        bool
	applyCancel context.CancelFunc

	previewing      bool
	previewDeadline time.Time

	status string

	gen            uint64
	analysisGen    uint64
	applyGen       uint64
	analysisCancel context.CancelFunc

	events    chan Event
	workers   sync.WaitGroup
	closed    bool
	closedCh  chan struct{}
	closeOnce sync.Once
}

// New makineyi dosya seçimi adımında oluşturur.
func New(cfg Config, deps Deps) *Machine {
	if cfg.Mode == "" {
		cfg.Mode = edit.ModeTrim
	}
	if cfg.UserVolume <= 0 || cfg.UserVolume > 1 {
		cfg.UserVolume = 1
	}
	if cfg.PreviewLength <= 0 {
		cfg.PreviewLength = 5 * time.Second
	}
	return &Machine{
		cfg:      cfg,
		deps:     deps,
		nav:      input.NewGate(cfg.NavDebounce),
		action:   input.NewGate(cfg.ActionDebounce),
		repeater: input.NewRepeater(cfg.RepeatDelay, cfg.RepeatInterval),
		cooldown: input.NewCooldown(cfg.ModalCooldown),
		step:     StepFileSelection,
		events:   make(chan Event, 8),
		closedCh: make(chan struct{}),
	}
}

// Events arka plan sonuçlarının kanalı; alınan her olay HandleEvent'e verilmelidir.
func (m *Machine) Events() <-chan Event { return m.events }

// SetFiles dosya listesini değiştirir; imleç sınırlar içinde tutulur.
func (m *Machine) SetFiles(files []library.Entry) {
	m.files = files
	if m.cursor >= len(files) {
		m.cursor = len(files) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Enqueue klavye aksiyonunu bir sonraki Tick'te işlenmek üzere sıraya alır.
func (m *Machine) Enqueue(a Action) {
	if a == ActionNone || m.closed {
		return
	}
	m.queue = append(m.queue, a)
}

// Tick bir yoklama adımını işler: önizleme süresi, sıradaki klavye
// aksiyonları, gamepad edge'leri ve basılı tutma tekrarı bu sırayla.
func (m *Machine) Tick(snap input.Snapshot, now time.Time) {
	if m.closed {
		m.queue = nil
		return
	}

	if m.previewing && !m.previewDeadline.IsZero() && !now.Before(m.previewDeadline) {
		m.stopPreview()
	}

	queued := m.queue
	m.queue = nil
	for _, a := range queued {
		m.handle(a, now)
		if m.closed {
			return
		}
	}

	for _, e := range edgeButtons {
		if snap.Pressed.Has(e.button) {
			m.handle(e.action, now)
			if m.closed {
				return
			}
		}
	}

	held := heldAction(snap.Held)
	if m.suppressed(now) {
		m.repeater.Sync(input.Direction(held), now)
		return
	}
	switch m.repeater.Update(input.Direction(held), now) {
	case input.FireImmediate:
		if m.nav.TryFire(now) {
			m.dispatch(held, now)
		}
	case input.FireRepeat:
		if m.repeatable(held) {
			m.dispatch(held, now)
		}
	}
}

// suppressed modal açıkken, kapandıktan sonraki bekleme süresinde ve
// uygulama sürerken girdiyi bastırır.
func (m *Machine) suppressed(now time.Time) bool {
	return m.modal != ModalNone || m.cooldown.Blocked(now) || m.busy
}

// handle ayrık bir aksiyonu kapılardan geçirip uygular.
func (m *Machine) handle(a Action, now time.Time) {
	if m.modal != ModalNone {
		if m.cooldown.Blocked(now) {
			return
		}
		if (a == ActionConfirm || a == ActionBack) && m.action.TryFire(now) {
			m.answerModal(a, now)
		}
		return
	}
	if m.busy {
		if a == ActionBack && m.action.TryFire(now) && m.applyCancel != nil {
			log.Printf("uygulama iptal ediliyor: %s", m.selected)
			m.applyCancel()
		}
		return
	}
	if m.cooldown.Blocked(now) {
		return
	}

	gate := m.action
	if a.navigational() {
		gate = m.nav
	}
	if !gate.TryFire(now) {
		return
	}
	m.dispatch(a, now)
}

func (m *Machine) repeatable(a Action) bool {
	switch m.step {
	case StepFileSelection:
		return a == ActionUp || a == ActionDown
	case StepEditing:
		switch a {
		case ActionLeft, ActionRight, ActionShrink, ActionGrow:
			return true
		case ActionUp, ActionDown:
			// Trim'de odak değiştirir; tekrar etmesi anlamsız.
			return m.cfg.Mode == edit.ModeGain
		}
	}
	return false
}

func (m *Machine) dispatch(a Action, now time.Time) {
	switch m.step {
	case StepFileSelection:
		m.dispatchSelection(a, now)
	case StepEditing:
		m.dispatchEditing(a, now)
	}
}

func (m *Machine) dispatchSelection(a Action, now time.Time) {
	switch a {
	case ActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case ActionDown:
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}
	case ActionFirst:
		m.cursor = 0
	case ActionLast:
		if len(m.files) > 0 {
			m.cursor = len(m.files) - 1
		}
	case ActionConfirm:
		if len(m.files) == 0 {
			m.status = "Seçilecek dosya yok"
			return
		}
		m.open(m.files[m.cursor].Path)
	case ActionBack:
		m.Close()
	}
}

func (m *Machine) dispatchEditing(a Action, now time.Time) {
	if a == ActionBack {
		m.leaveEditing("")
		return
	}
	if m.session == nil {
		return
	}

	switch a {
	case ActionLeft:
		m.adjust(edit.ControlNudge, -1)
	case ActionRight:
		m.adjust(edit.ControlNudge, 1)
	case ActionUp:
		m.adjust(edit.ControlCycle, 1)
	case ActionDown:
		m.adjust(edit.ControlCycle, -1)
	case ActionShrink:
		m.adjust(edit.ControlResize, -1)
	case ActionGrow:
		m.adjust(edit.ControlResize, 1)
	case ActionFirst:
		m.adjust(edit.ControlStep, -1)
	case ActionLast:
		m.adjust(edit.ControlStep, 1)
	case ActionReset:
		m.session.Reset()
		m.stopPreview()
		m.status = "Sıfırlandı"
	case ActionPreview:
		m.togglePreview(now)
	case ActionApply:
		m.requestApply(now)
	}
}

func (m *Machine) adjust(c edit.Control, dir int) {
	if m.session.Adjust(c, dir) {
		m.stopPreview()
	}
}

// open dosyayı seçer, düzenleme adımına geçer ve analizi başlatır.
// Önceki analiz isteği iptal edilir.
func (m *Machine) open(path string) {
	m.stopPreview()
	m.cancelAnalysis()

	m.step = StepEditing
	m.selected = path
	m.session = nil
	m.analysis = waveform.Analysis{}
	m.analysisErr = ""
	m.status = ""
	m.repeater.Reset()

	if m.deps.Analyzer == nil {
		m.analysisErr = "analiz bileşeni yok"
		return
	}

	m.gen++
	gen := m.gen
	m.analysisGen = gen
	m.analyzing = true

	ctx, cancel := context.WithCancel(context.Background())
	m.analysisCancel = cancel
	analyzer := m.deps.Analyzer

	log.Printf("dosya seçildi: %s (gen %d)", path, gen)
	m.workers.Add(1)
	go func() {
		defer m.workers.Done()
		a, err := analyzer.Analyze(ctx, path)
		m.post(Event{Kind: EventAnalysis, Gen: gen, Path: path, Analysis: a, Err: err})
	}()
}

// leaveEditing oturumu atar ve dosya seçimine döner.
func (m *Machine) leaveEditing(status string) {
	m.stopPreview()
	m.cancelAnalysis()
	m.step = StepFileSelection
	m.selected = ""
	m.session = nil
	m.analysis = waveform.Analysis{}
	m.analysisErr = ""
	m.status = status
	m.repeater.Reset()
}

func (m *Machine) cancelAnalysis() {
	if m.analysisCancel != nil {
		m.analysisCancel()
		m.analysisCancel = nil
	}
	m.analyzing = false
	m.analysisGen = 0
}

func (m *Machine) post(ev Event) {
	select {
	case m.events <- ev:
	case <-m.closedCh:
	}
}

// HandleEvent arka plan sonucunu uygular. Eski isteklere ait sonuçlar atılır.
func (m *Machine) HandleEvent(ev Event, now time.Time) {
	if m.closed {
		return
	}
	switch ev.Kind {
	case EventAnalysis:
		m.handleAnalysis(ev)
	case EventApply:
		m.handleApply(ev, now)
	}
}

func (m *Machine) handleAnalysis(ev Event) {
	if ev.Gen == 0 || ev.Gen != m.analysisGen || m.step != StepEditing || ev.Path != m.selected {
		log.Printf("eski analiz sonucu atıldı: %s (gen %d, güncel %d)", ev.Path, ev.Gen, m.analysisGen)
		return
	}
	m.analyzing = false
	m.analysisCancel = nil

	if ev.Err != nil || !ev.Analysis.Valid {
		reason := edit.ErrNoAnalysis.Error()
		if ev.Err != nil {
			reason = ev.Err.Error()
		}
		m.analysisErr = reason
		log.Printf("analiz başarısız: %s: %s", ev.Path, reason)
		return
	}

	session, err := edit.NewSession(m.cfg.Mode, ev.Analysis.Duration, ev.Analysis.PeakDB, m.cfg.Options)
	if err != nil {
		m.analysisErr = err.Error()
		log.Printf("oturum kurulamadı: %s: %v", ev.Path, err)
		return
	}
	m.analysis = ev.Analysis
	m.session = session
	log.Printf("analiz tamam: %s (%.2fs, tepe %.1f dB)", ev.Path, ev.Analysis.Duration, ev.Analysis.PeakDB)
}

// requestApply doğrular; clip bekleniyorsa onay ister, yoksa uygular.
func (m *Machine) requestApply(now time.Time) {
	if err := m.session.Valid(); err != nil {
		m.status = "Uygulanamaz: " + err.Error()
		return
	}
	if msg, warn := m.session.Warning(); warn {
		m.openModal(ModalConfirmClip, msg+". Yine de uygulansın mı? (A: evet, B: hayır)")
		return
	}
	m.startApply()
}

func (m *Machine) startApply() {
	if m.deps.Transcoder == nil {
		m.openModal(ModalNotice, "dönüştürücü yok")
		return
	}
	m.stopPreview()

	m.gen++
	gen := m.gen
	m.applyGen = gen
	m.busy = true

	ctx, cancel := context.WithCancel(context.Background())
	m.applyCancel = cancel
	session, transcoder, path := m.session, m.deps.Transcoder, m.selected

	log.Printf("uygulanıyor: %s %s (gen %d)", path, session.Summary(), gen)
	m.workers.Add(1)
	go func() {
		defer m.workers.Done()
		ok, err := session.Apply(ctx, transcoder, path)
		m.post(Event{Kind: EventApply, Gen: gen, Path: path, OK: ok, Err: err})
	}()
}

func (m *Machine) handleApply(ev Event, now time.Time) {
	if ev.Gen == 0 || ev.Gen != m.applyGen {
		log.Printf("eski uygulama sonucu atıldı: %s (gen %d)", ev.Path, ev.Gen)
		return
	}
	m.busy = false
	m.applyGen = 0
	if m.applyCancel != nil {
		m.applyCancel()
		m.applyCancel = nil
	}

	switch {
	case errors.Is(ev.Err, context.Canceled):
		m.status = "Uygulama iptal edildi"
		log.Printf("uygulama iptal edildi: %s", ev.Path)
	case ev.Err != nil:
		m.openModal(ModalNotice, "Uygulama başarısız: "+ev.Err.Error())
		log.Printf("uygulama başarısız: %s: %v", ev.Path, ev.Err)
	case !ev.OK:
		m.openModal(ModalNotice, "ffmpeg bulunamadı; düzenleme uygulanamadı")
		log.Printf("uygulama yapılamadı (araç yok): %s", ev.Path)
	default:
		summary := ""
		if m.session != nil {
			summary = m.session.Summary()
		}
		log.Printf("uygulandı: %s %s", ev.Path, summary)
		m.forget(ev.Path)
		m.leaveEditing(fmt.Sprintf("Kaydedildi: %s %s", filepath.Base(ev.Path), summary))
		m.refresh()
	}
}

// forget yedeğe taşınan orijinalin önbellek kaydını siler.
func (m *Machine) forget(path string) {
	f, ok := m.deps.Analyzer.(waveform.Forgetter)
	if !ok {
		return
	}
	if err := f.Forget(context.Background(), path); err != nil {
		log.Printf("önbellek kaydı silinemedi (%s): %v", path, err)
	}
}

func (m *Machine) refresh() {
	if m.deps.ListFiles == nil {
		return
	}
	files, err := m.deps.ListFiles()
	if err != nil {
		log.Printf("liste yenilenemedi: %v", err)
		return
	}
	m.SetFiles(files)
}

func (m *Machine) openModal(kind ModalKind, message string) {
	m.modal = kind
	m.modalMessage = message
	m.stopPreview()
}

// answerModal modalı kapatır ve kapatan basışın sızmaması için bekleme başlatır.
func (m *Machine) answerModal(a Action, now time.Time) {
	kind := m.modal
	m.modal = ModalNone
	m.modalMessage = ""
	m.cooldown.Arm(now)

	if kind == ModalConfirmClip && a == ActionConfirm && m.session != nil {
		m.startApply()
	}
}

func (m *Machine) togglePreview(now time.Time) {
	if m.previewing {
		m.stopPreview()
		return
	}
	if m.deps.Player == nil {
		m.openModal(ModalNotice, "oynatıcı yok")
		return
	}

	length := m.cfg.PreviewLength
	var err error
	switch s := m.session.(type) {
	case *edit.TrimSession:
		length = time.Duration(s.Window.Duration() * float64(time.Second))
		err = m.deps.Player.PlayFrom(m.selected, s.Window.Start())
	case *edit.GainSession:
		err = m.deps.Player.PlayPreview(m.selected, s.Gain.PreviewVolume(m.cfg.UserVolume))
	default:
		return
	}
	if err != nil {
		m.openModal(ModalNotice, "Önizleme başlatılamadı: "+err.Error())
		return
	}
	m.previewing = true
	m.previewDeadline = now.Add(length)
}

func (m *Machine) stopPreview() {
	if !m.previewing {
		return
	}
	m.previewing = false
	m.previewDeadline = time.Time{}
	if m.deps.Player != nil {
		m.deps.Player.Stop()
	}
}

// Close önizlemeyi durdurur, arka plan işlerini iptal eder ve makineyi kapatır.
func (m *Machine) Close() {
	if m.closed {
		return
	}
	m.stopPreview()
	m.cancelAnalysis()
	if m.applyCancel != nil {
		m.applyCancel()
		m.applyCancel = nil
	}
	m.closed = true
	m.closeOnce.Do(func() { close(m.closedCh) })
	log.Printf("editör kapatıldı")
}

func (m *Machine) Closed() bool { return m.closed }

// Wait Close'tan sonra arka plan işlerinin bitmesini en fazla timeout kadar
// bekler. İptal edilen uygulama orijinali geri yüklemeden dönmez.
func (m *Machine) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		m.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// ========================================
// Görünüm erişimcileri
// ========================================

func (m *Machine) Step() Step                  { return m.step }
func (m *Machine) Mode() edit.Mode             { return m.cfg.Mode }
func (m *Machine) Files() []library.Entry      { return m.files }
func (m *Machine) Cursor() int                 { return m.cursor }
func (m *Machine) Selected() string            { return m.selected }
func (m *Machine) Session() edit.Session       { return m.session }
func (m *Machine) Analysis() waveform.Analysis { return m.analysis }
func (m *Machine) Analyzing() bool             { return m.analyzing }
func (m *Machine) AnalysisError() string       { return m.analysisErr }
func (m *Machine) Status() string              { return m.status }
func (m *Machine) Busy() bool                  { return m.busy }
func (m *Machine) Previewing() bool            { return m.previewing }
func (m *Machine) UserVolume() float64         { return m.cfg.UserVolume }

// Modal açık modalın türünü ve mesajını döner.
func (m *Machine) Modal() (ModalKind, string) { return m.modal, m.modalMessage }

// Suppressed girdinin şu an bastırılıp bastırılmadığını söyler (görünüm için).
func (m *Machine) Suppressed(now time.Time) bool { return m.suppressed(now) }

// CooldownRemaining modal kapandıktan sonra girdinin yeniden kabul
// edilmesine kalan süre.
func (m *Machine) CooldownRemaining(now time.Time) time.Duration {
	if d := m.cooldown.Until().Sub(now); d > 0 {
		return d
	}
	return 0
}

// PreviewRemaining önizlemenin otomatik durmasına kalan süre.
func (m *Machine) PreviewRemaining(now time.Time) time.Duration {
	if !m.previewing || m.previewDeadline.IsZero() {
		return 0
	}
	if d := m.previewDeadline.Sub(now); d > 0 {
		return d
	}
	return 0
}
