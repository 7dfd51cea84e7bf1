package edit

import (
	"errors"
	"fmt"
)

// DefaultMinGap en kısa geçerli trim süresi (saniye).
const DefaultMinGap = 0.5

const gapEpsilon = 1e-9

var (
	ErrNoDuration     = errors.New("toplam süre sıfırdan büyük olmalı")
	ErrInvalidWindow  = errors.New("geçersiz trim aralığı")
	ErrNoAnalysis     = errors.New("dosya analizi yok veya geçersiz")
	ErrNothingChanged = errors.New("uygulanacak değişiklik yok")
)

// TrimWindow bilinen bir toplam süre içindeki [Start, End) aralığını tutar.
// Toplam süre kurulumdan sonra değişmez; Start/End yalnızca Adjust* ile
// değişir ve her zaman 0 <= Start < End <= Total kalır.
type TrimWindow struct {
	total  float64
	start  float64
	end    float64
	minGap float64

	// sizes kırpmaya takılmamış AdjustSize adımlarını tutar; ters adım
	// önceki kenarları birebir geri yükler.
	sizes []sizeStep
}

type sizeStep struct {
	delta              float64
	fromStart, fromEnd float64
	toStart, toEnd     float64
}

// NewTrimWindow tam süreyi kapsayan bir pencere oluşturur.
func NewTrimWindow(total float64, minGap float64) (*TrimWindow, error) {
	if total <= 0 {
		return nil, ErrNoDuration
	}
	if minGap <= 0 {
		minGap = DefaultMinGap
	}
	if minGap > total {
		minGap = total
	}
	w := &TrimWindow{total: total, minGap: minGap}
	w.Reset()
	return w, nil
}

// NewTrimWindowRange verilen aralığı doğrulayarak pencere kurar.
// Değerler sınır dışındaysa kırpmak yerine hata döner.
func NewTrimWindowRange(total, minGap, start, end float64) (*TrimWindow, error) {
	w, err := NewTrimWindow(total, minGap)
	if err != nil {
		return nil, err
	}
	if start < 0 || end > total+gapEpsilon || end-start < w.minGap-gapEpsilon {
		return nil, fmt.Errorf("%w: %.3f -> %.3f (süre %.3f, en az %.3fs)", ErrInvalidWindow, start, end, total, w.minGap)
	}
	if end > total {
		end = total
	}
	w.start = start
	w.end = end
	return w, nil
}

func (w *TrimWindow) Total() float64    { return w.total }
func (w *TrimWindow) Start() float64    { return w.start }
func (w *TrimWindow) End() float64      { return w.end }
func (w *TrimWindow) MinGap() float64   { return w.minGap }
func (w *TrimWindow) Duration() float64 { return w.end - w.start }

func (w *TrimWindow) StartPercent() float64 { return w.start / w.total * 100 }
func (w *TrimWindow) EndPercent() float64   { return w.end / w.total * 100 }

// Reset pencereyi dosyanın tamamına döndürür.
func (w *TrimWindow) Reset() {
	w.sizes = nil
	w.start = 0
	w.end = w.total
}

// AdjustStart başlangıcı delta kadar kaydırır; [0, End-MinGap] aralığına kırpar.
func (w *TrimWindow) AdjustStart(delta float64) {
	w.sizes = nil
	w.start = clamp(w.start+delta, 0, w.end-w.minGap)
}

// AdjustEnd bitişi delta kadar kaydırır; [Start+MinGap, Total] aralığına kırpar.
func (w *TrimWindow) AdjustEnd(delta float64) {
	w.sizes = nil
	w.end = clamp(w.end+delta, w.start+w.minGap, w.total)
}

// AdjustSize iki kenarı delta/2 kadar dışarı (delta>0) veya içeri (delta<0) taşır.
func (w *TrimWindow) AdjustSize(delta float64) {
	if n := len(w.sizes); n > 0 {
		last := w.sizes[n-1]
		if delta == -last.delta && w.start == last.toStart && w.end == last.toEnd {
			w.sizes = w.sizes[:n-1]
			w.start, w.end = last.fromStart, last.fromEnd
			return
		}
	}

	half := delta / 2
	start := w.start - half
	end := w.end + half
	clamped := false
	if start < 0 {
		start = 0
		clamped = true
	}
	if end > w.total {
		end = w.total
		clamped = true
	}
	if end-start < w.minGap {
		clamped = true
		// Merkez korunur, pencere MinGap'e daraltılır ve sınırlara itilir.
		center := (w.start + w.end) / 2
		start = center - w.minGap/2
		end = center + w.minGap/2
		if start < 0 {
			end -= start
			start = 0
		}
		if end > w.total {
			start -= end - w.total
			end = w.total
		}
		if start < 0 {
			start = 0
		}
	}
	if clamped {
		w.sizes = nil
	} else {
		w.sizes = append(w.sizes, sizeStep{delta: delta, fromStart: w.start, fromEnd: w.end, toStart: start, toEnd: end})
	}
	w.start = start
	w.end = end
}

// Valid sıralama ve MinGap koşullarını kontrol eder.
func (w *TrimWindow) Valid() bool {
	return w.Validate() == nil
}

// Validate Valid ile aynı kontrolü hata mesajıyla yapar.
func (w *TrimWindow) Validate() error {
	if w.total <= 0 {
		return ErrNoDuration
	}
	if w.start < 0 || w.end > w.total+gapEpsilon || w.start >= w.end {
		return fmt.Errorf("%w: %.3f -> %.3f", ErrInvalidWindow, w.start, w.end)
	}
	if w.end-w.start < w.minGap-gapEpsilon {
		return fmt.Errorf("%w: süre %.3fs, en az %.3fs olmalı", ErrInvalidWindow, w.end-w.start, w.minGap)
	}
	return nil
}

// IsFull pencerenin dosyanın tamamını kapsayıp kapsamadığını döner.
func (w *TrimWindow) IsFull() bool {
	return w.start <= gapEpsilon && w.end >= w.total-gapEpsilon
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
