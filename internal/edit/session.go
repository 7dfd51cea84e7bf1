package edit

import (
	"context"
	"fmt"
	"strings"
)

// Mode düzenleme modunu belirtir.
type Mode string

const (
	ModeTrim Mode = "trim"
	ModeGain Mode = "gain"
)

// ParseMode kullanıcı girdisini Mode'a çevirir.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "trim", "kes":
		return ModeTrim, nil
	case "gain", "kazanc", "kazanç", "volume":
		return ModeGain, nil
	default:
		return "", fmt.Errorf("geçersiz düzenleme modu: %s (trim|gain)", raw)
	}
}

// Control bir oturumda yönlü bir girdinin neyi değiştireceğini seçer.
type Control int

const (
	// ControlNudge sol/sağ: odaktaki değeri bir adım kaydırır.
	ControlNudge Control = iota
	// ControlCycle yukarı/aşağı: trim'de odak değiştirir, gain'de kaba adım.
	ControlCycle
	// ControlResize daralt/genişlet.
	ControlResize
	// ControlStep adım merdiveninde ince/kaba geçiş.
	ControlStep
)

// Transcoder bir düzenlemeyi yeni dosyaya uygulayan harici işlemdir.
// false,nil kurtarılabilir bir hatayı (ör. araç yok) belirtir.
type Transcoder interface {
	ApplyTrim(ctx context.Context, path string, start, end float64, suffix string) (bool, error)
	ApplyGain(ctx context.Context, path string, gainDB float64, suffix string) (bool, error)
}

// Session bir dosya için canlı düzenleme modelidir. Editör durum makinesi
// yalnızca bu arayüzü bilir; trim ve gain farkı burada kalır.
type Session interface {
	Mode() Mode
	// Adjust yönlü bir kontrolü uygular; model değiştiyse true döner.
	Adjust(c Control, dir int) bool
	Reset()
	Valid() error
	// Warning uygulamadan önce onay gerektiren bir durum varsa mesajını döner.
	Warning() (string, bool)
	Apply(ctx context.Context, t Transcoder, path string) (bool, error)
	Summary() string
}

// Options oturumların ayarlanabilir değerleridir.
type Options struct {
	MinGap         float64
	TrimStep       float64
	GainStep       float64
	GainCoarseStep float64
	MinGainDB      float64
	MaxGainDB      float64
	TrimSuffix     string
	GainSuffix     string
}

// DefaultOptions varsayılan ayarlar.
func DefaultOptions() Options {
	return Options{
		MinGap:         DefaultMinGap,
		TrimStep:       0.5,
		GainStep:       0.5,
		GainCoarseStep: 3,
		MinGainDB:      DefaultMinGainDB,
		MaxGainDB:      DefaultMaxGainDB,
		TrimSuffix:     "_trim",
		GainSuffix:     "_gain",
	}
}

// NewSession moda göre uygun oturumu kurar.
func NewSession(mode Mode, durationSec, peakDB float64, opts Options) (Session, error) {
	switch mode {
	case ModeGain:
		return NewGainSession(peakDB, opts), nil
	case ModeTrim:
		return NewTrimSession(durationSec, opts)
	default:
		return nil, fmt.Errorf("geçersiz düzenleme modu: %s", mode)
	}
}

// ========================================
// Trim oturumu
// ========================================

// Focus trim penceresinde hangi kenarın düzenlendiğini belirtir.
type Focus int

const (
	FocusStart Focus = iota
	FocusEnd
)

var trimStepLadder = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60}

type TrimSession struct {
	Window *TrimWindow
	focus  Focus
	step   float64
	suffix string
}

func NewTrimSession(durationSec float64, opts Options) (*TrimSession, error) {
	w, err := NewTrimWindow(durationSec, opts.MinGap)
	if err != nil {
		return nil, err
	}
	step := opts.TrimStep
	if step <= 0 {
		step = 0.5
	}
	return &TrimSession{Window: w, focus: FocusStart, step: step, suffix: opts.TrimSuffix}, nil
}

func (s *TrimSession) Mode() Mode     { return ModeTrim }
func (s *TrimSession) Focus() Focus   { return s.focus }
func (s *TrimSession) Step() float64  { return s.step }
func (s *TrimSession) Suffix() string { return s.suffix }

func (s *TrimSession) Adjust(c Control, dir int) bool {
	if dir == 0 {
		return false
	}
	before := [2]float64{s.Window.Start(), s.Window.End()}
	switch c {
	case ControlNudge:
		delta := float64(dir) * s.step
		if s.focus == FocusStart {
			s.Window.AdjustStart(delta)
		} else {
			s.Window.AdjustEnd(delta)
		}
	case ControlCycle:
		if s.focus == FocusStart {
			s.focus = FocusEnd
		} else {
			s.focus = FocusStart
		}
		return false
	case ControlResize:
		s.Window.AdjustSize(float64(dir) * 2 * s.step)
	case ControlStep:
		s.step = nextStep(trimStepLadder, s.step, dir)
		return false
	}
	return before != [2]float64{s.Window.Start(), s.Window.End()}
}

func (s *TrimSession) Reset() {
	s.Window.Reset()
	s.focus = FocusStart
}

func (s *TrimSession) Valid() error {
	if err := s.Window.Validate(); err != nil {
		return err
	}
	if s.Window.IsFull() {
		return fmt.Errorf("%w: pencere dosyanın tamamını kapsıyor", ErrNothingChanged)
	}
	return nil
}

func (s *TrimSession) Warning() (string, bool) { return "", false }

func (s *TrimSession) Apply(ctx context.Context, t Transcoder, path string) (bool, error) {
	if err := s.Valid(); err != nil {
		return false, err
	}
	return t.ApplyTrim(ctx, path, s.Window.Start(), s.Window.End(), s.suffix)
}

func (s *TrimSession) Summary() string {
	return fmt.Sprintf("%s -> %s (%s)",
		FormatSeconds(s.Window.Start()),
		FormatSeconds(s.Window.End()),
		FormatSeconds(s.Window.Duration()))
}

// ========================================
// Gain oturumu
// ========================================

var gainStepLadder = []float64{0.1, 0.25, 0.5, 1, 3}

type GainSession struct {
	Gain   *Gain
	step   float64
	coarse float64
	suffix string
}

func NewGainSession(peakDB float64, opts Options) *GainSession {
	step := opts.GainStep
	if step <= 0 {
		step = 0.5
	}
	coarse := opts.GainCoarseStep
	if coarse <= 0 {
		coarse = 3
	}
	return &GainSession{
		Gain:   NewGain(opts.MinGainDB, opts.MaxGainDB, peakDB),
		step:   step,
		coarse: coarse,
		suffix: opts.GainSuffix,
	}
}

func (s *GainSession) Mode() Mode     { return ModeGain }
func (s *GainSession) Step() float64  { return s.step }
func (s *GainSession) Suffix() string { return s.suffix }

func (s *GainSession) Adjust(c Control, dir int) bool {
	if dir == 0 {
		return false
	}
	before := s.Gain.DB()
	switch c {
	case ControlNudge:
		s.Gain.Adjust(float64(dir) * s.step)
	case ControlCycle:
		s.Gain.Adjust(float64(dir) * s.coarse)
	case ControlResize:
		if dir < 0 {
			s.Gain.SnapToHeadroom()
		}
	case ControlStep:
		s.step = nextStep(gainStepLadder, s.step, dir)
		return false
	}
	return before != s.Gain.DB()
}

func (s *GainSession) Reset() { s.Gain.Reset() }

func (s *GainSession) Valid() error {
	db := s.Gain.DB()
	if db < s.Gain.MinDB() || db > s.Gain.MaxDB() {
		return fmt.Errorf("kazanç sınır dışında: %.2f dB", db)
	}
	if db == 0 {
		return fmt.Errorf("%w: kazanç 0 dB", ErrNothingChanged)
	}
	return nil
}

func (s *GainSession) Warning() (string, bool) {
	if !s.Gain.Clipping() {
		return "", false
	}
	return fmt.Sprintf("%+.1f dB kazanç clip oluşturur (headroom %.1f dB)", s.Gain.DB(), s.Gain.HeadroomDB()), true
}

func (s *GainSession) Apply(ctx context.Context, t Transcoder, path string) (bool, error) {
	if err := s.Valid(); err != nil {
		return false, err
	}
	return t.ApplyGain(ctx, path, s.Gain.DB(), s.suffix)
}

func (s *GainSession) Summary() string {
	return fmt.Sprintf("%+.1f dB (x%.2f)", s.Gain.DB(), s.Gain.LinearMultiplier())
}

// nextStep adım merdiveninde bir yukarı (dir>0) veya aşağı gider.
func nextStep(ladder []float64, current float64, dir int) float64 {
	if dir > 0 {
		for i, s := range ladder {
			if current < s {
				return s
			}
			if current == s && i < len(ladder)-1 {
				return ladder[i+1]
			}
		}
		return ladder[len(ladder)-1]
	}
	for i := len(ladder) - 1; i >= 0; i-- {
		s := ladder[i]
		if current > s {
			return s
		}
		if current == s && i > 0 {
			return ladder[i-1]
		}
	}
	return ladder[0]
}

// FormatSeconds saniyeyi hh:mm:ss(.mmm) biçimine çevirir.
func FormatSeconds(value float64) string {
	if value < 0 {
		value = 0
	}
	millis := int64(value*1000 + 0.5)
	hours := millis / 3600000
	minutes := (millis % 3600000) / 60000
	seconds := (millis % 60000) / 1000
	ms := millis % 1000

	if ms == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, ms)
}
