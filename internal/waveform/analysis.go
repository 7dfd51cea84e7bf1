package waveform

import (
	"context"
	"errors"
	"math"

	"github.com/mlihgenel/padedit-cli/internal/edit"
)

// DefaultResolution ekranda gösterilen tepe noktası sayısı.
const DefaultResolution = 512

var ErrEmptyAudio = errors.New("çözümlenecek ses verisi yok")

// Analysis bir dosyanın görüntüleme ve düzenleme için özetidir.
// Üretildikten sonra değişmez; dosya değişince bütünüyle yenisiyle değiştirilir.
type Analysis struct {
	SourcePath string
	Samples    []float32 // -1..1 aralığında, işaretli görüntüleme tepe noktaları
	SampleRate int
	Duration   float64
	PeakDB     float64
	Valid      bool
}

// Forgetter önbellekli analizcilerde bir yolun kaydını geçersiz kılar.
type Forgetter interface {
	Forget(ctx context.Context, path string) error
}

// Analyzer bir ses dosyasını analiz eden dış bileşendir.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (Analysis, error)
}

// FromPCM çözülmüş mono PCM'den analiz sonucunu üretir.
func FromPCM(path string, pcm []float32, sampleRate, resolution int) (Analysis, error) {
	if len(pcm) == 0 || sampleRate <= 0 {
		return Analysis{SourcePath: path}, ErrEmptyAudio
	}
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	var peak float64
	for _, s := range pcm {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}

	return Analysis{
		SourcePath: path,
		Samples:    Reduce(pcm, resolution),
		SampleRate: sampleRate,
		Duration:   float64(len(pcm)) / float64(sampleRate),
		PeakDB:     edit.PeakToDB(peak),
		Valid:      true,
	}, nil
}

// Reduce PCM'i n kovaya böler; her kova için mutlak değeri en büyük örneği
// işaretiyle birlikte [-1,1] aralığına kırparak döner.
func Reduce(pcm []float32, n int) []float32 {
	if n <= 0 || len(pcm) == 0 {
		return nil
	}
	if n > len(pcm) {
		n = len(pcm)
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		lo := i * len(pcm) / n
		hi := (i + 1) * len(pcm) / n
		var best float32
		for _, s := range pcm[lo:hi] {
			if abs32(s) > abs32(best) {
				best = s
			}
		}
		out[i] = clamp32(best)
	}
	return out
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
