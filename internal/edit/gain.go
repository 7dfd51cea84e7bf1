package edit

import "math"

const (
	DefaultMinGainDB = -12.0
	DefaultMaxGainDB = 12.0
)

// Gain dB cinsinden kazanç değerini ve analizden gelen tepe seviyesini tutar.
// PeakDB ve HeadroomDB salt okunurdur; yalnızca DB değişir.
type Gain struct {
	db     float64
	minDB  float64
	maxDB  float64
	peakDB float64
}

// NewGain 0 dB ile başlayan bir kazanç modeli oluşturur.
// Geçersiz sınırlar verilirse varsayılan -12..+12 kullanılır.
func NewGain(minDB, maxDB, peakDB float64) *Gain {
	if minDB >= maxDB {
		minDB, maxDB = DefaultMinGainDB, DefaultMaxGainDB
	}
	g := &Gain{minDB: minDB, maxDB: maxDB, peakDB: peakDB}
	g.Reset()
	return g
}

func (g *Gain) DB() float64     { return g.db }
func (g *Gain) MinDB() float64  { return g.minDB }
func (g *Gain) MaxDB() float64  { return g.maxDB }
func (g *Gain) PeakDB() float64 { return g.peakDB }

// HeadroomDB en yüksek örnek clip olmadan önce eklenebilecek kazançtır.
func (g *Gain) HeadroomDB() float64 { return 0 - g.peakDB }

// Adjust kazancı delta kadar değiştirir ve [MinDB, MaxDB] aralığına kırpar.
// Headroom burada sınır değildir; yalnızca uyarı için kullanılır.
func (g *Gain) Adjust(deltaDB float64) {
	g.db = clamp(g.db+deltaDB, g.minDB, g.maxDB)
}

// Set kazancı doğrudan ayarlar (sınırlara kırpılır).
func (g *Gain) Set(db float64) {
	g.db = clamp(db, g.minDB, g.maxDB)
}

// Reset kazancı 0 dB'ye döndürür.
func (g *Gain) Reset() {
	g.db = clamp(0, g.minDB, g.maxDB)
}

// SnapToHeadroom clip oluşturmayan en yüksek kazancı seçer.
func (g *Gain) SnapToHeadroom() {
	g.Set(g.HeadroomDB())
}

// LinearMultiplier mevcut kazancın doğrusal çarpanıdır.
func (g *Gain) LinearMultiplier() float64 {
	return LinearMultiplierFor(g.db)
}

// LinearMultiplierFor 10^(db/20).
func LinearMultiplierFor(db float64) float64 {
	return math.Pow(10, db/20)
}

// WouldClip verilen kazançta en yüksek örneğin tam ölçeği aşıp aşmayacağını söyler.
func (g *Gain) WouldClip(candidateDB float64) bool {
	return candidateDB > g.HeadroomDB()
}

// Clipping mevcut kazanç için WouldClip.
func (g *Gain) Clipping() bool {
	return g.WouldClip(g.db)
}

// PreviewVolume canlı önizleme için efektif ses seviyesi, [0,1] aralığında.
// Kalıcı uygulama bu değeri değil ham DB değerini kullanır.
func (g *Gain) PreviewVolume(userVolume float64) float64 {
	return clamp(userVolume*g.LinearMultiplier(), 0, 1)
}

// Scaled örnekleri mevcut kazançla ölçekler, [-1,1] aralığına kırpar ve
// kırpılan örnekleri işaretleyen paralel bir maske döner. Yalnızca görüntüleme içindir.
func (g *Gain) Scaled(samples []float32) ([]float32, []bool) {
	mul := g.LinearMultiplier()
	out := make([]float32, len(samples))
	clipped := make([]bool, len(samples))
	for i, s := range samples {
		v := float64(s) * mul
		switch {
		case v > 1:
			v = 1
			clipped[i] = true
		case v < -1:
			v = -1
			clipped[i] = true
		}
		out[i] = float32(v)
	}
	return out, clipped
}

// PeakToDB doğrusal tepe değerini dBFS'e çevirir. Sessizlik için -Inf döner.
func PeakToDB(peak float64) float64 {
	if peak <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(peak)
}
