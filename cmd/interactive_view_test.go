package cmd

import (
	"math"
	"strings"
	"testing"

	"github.com/mlihgenel/padedit-cli/internal/edit"
)

func TestMarkerPositions(t *testing.T) {
	start, end := markerPositions(0, 100, 100, 41)
	if start != 0 || end != 40 {
		t.Fatalf("full window should span the bar, got %d..%d", start, end)
	}
	start, end = markerPositions(25, 50, 100, 41)
	if start != 10 || end != 20 {
		t.Fatalf("unexpected marker positions: %d..%d", start, end)
	}
	if s, e := markerPositions(5, 1, 0, 10); s != 0 || e != 0 {
		t.Fatalf("zero total should collapse to origin, got %d..%d", s, e)
	}
}

func TestTrimTimelineBarMarkers(t *testing.T) {
	w, err := edit.NewTrimWindowRange(60, 0.5, 15, 45)
	if err != nil {
		t.Fatalf("window failed: %v", err)
	}
	bar := trimTimelineBar(w, 30)
	if got := strings.Count(bar, "◆"); got != 2 {
		t.Fatalf("expected 2 markers, got %d in %q", got, bar)
	}
	if !strings.Contains(bar, "━") || !strings.Contains(bar, "─") {
		t.Fatalf("expected range and base runes in %q", bar)
	}
}

func TestWaveformColumns(t *testing.T) {
	samples := []float32{0.1, -0.8, 0.2, 0.3, -0.1, 0.05, 1.5, 0}
	cols := waveformColumns(samples, 4)
	want := []float64{0.8, 0.3, 0.1, 1}
	for i := range want {
		if math.Abs(cols[i]-want[i]) > 1e-6 {
			t.Fatalf("column %d: expected %.2f, got %.2f", i, want[i], cols[i])
		}
	}

	wide := waveformColumns([]float32{0.5, -0.25}, 6)
	if wide[0] != 0.5 || wide[5] != 0.25 {
		t.Fatalf("expected samples stretched across columns, got %v", wide)
	}
	if empty := waveformColumns(nil, 3); empty[0] != 0 || len(empty) != 3 {
		t.Fatalf("expected zero columns for empty samples, got %v", empty)
	}
}

func TestClipColumns(t *testing.T) {
	clipped := []bool{false, false, true, false, false, false}
	cols := clipColumns(clipped, 3)
	if cols[0] || !cols[1] || cols[2] {
		t.Fatalf("unexpected clip columns: %v", cols)
	}
}

func TestRenderWaveformHeight(t *testing.T) {
	out := renderWaveform([]float64{1, 0, 0.5}, nil, 4, func(int) bool { return true })
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	if strings.Count(out, "█") < 4+2 {
		t.Fatalf("expected full column and half column blocks in %q", out)
	}
}

func TestGainMeterRunes(t *testing.T) {
	g := edit.NewGain(-12, 12, -6)
	runes := string(gainMeterRunes(g, 25))
	if strings.Count(runes, "●") != 1 {
		t.Fatalf("expected a single gain marker in %q", runes)
	}
	// 0 dB kazanç imleci sıfır çizgisinin üzerindedir.
	if strings.Contains(runes, "│") {
		t.Fatalf("marker should cover the zero line at 0 dB: %q", runes)
	}
	if strings.Count(runes, "┊") != 1 {
		t.Fatalf("expected headroom mark at +6 dB in %q", runes)
	}

	g.Set(9)
	runes = string(gainMeterRunes(g, 25))
	if !strings.Contains(runes, "│") || !strings.Contains(runes, "━") {
		t.Fatalf("expected zero line and fill at +9 dB: %q", runes)
	}
	if []rune(runes)[21] != '●' {
		t.Fatalf("expected marker at column 21, got %q", runes)
	}

	silent := edit.NewGain(-12, 12, math.Inf(-1))
	if strings.Contains(string(gainMeterRunes(silent, 25)), "┊") {
		t.Fatalf("silence has no headroom mark")
	}
}

func TestVisibleRange(t *testing.T) {
	if from, to := visibleRange(5, 3, 10); from != 0 || to != 5 {
		t.Fatalf("short list should be fully visible, got %d..%d", from, to)
	}
	if from, to := visibleRange(100, 50, 10); from != 45 || to != 55 {
		t.Fatalf("cursor should be centered, got %d..%d", from, to)
	}
	if from, to := visibleRange(100, 98, 10); from != 90 || to != 100 {
		t.Fatalf("range should stop at the end, got %d..%d", from, to)
	}
}

func TestTextHelpers(t *testing.T) {
	if got := truncateRunes("şarkı-uzun.mp3", 6); got != "şarkı…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := padRunes("ç", 3); got != "ç  " {
		t.Fatalf("unexpected padding: %q", got)
	}
	if got := formatDB(math.Inf(-1)); got != "-∞ dB" {
		t.Fatalf("unexpected silence label: %q", got)
	}
	if got := formatDB(-3.04); got != "-3.0 dB" {
		t.Fatalf("unexpected dB label: %q", got)
	}
}
