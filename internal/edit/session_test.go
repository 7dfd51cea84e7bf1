package edit

import (
	"context"
	"errors"
	"testing"
)

type recordingTranscoder struct {
	trimCalls int
	gainCalls int
	start     float64
	end       float64
	gainDB    float64
	suffix    string
}

func (r *recordingTranscoder) ApplyTrim(_ context.Context, _ string, start, end float64, suffix string) (bool, error) {
	r.trimCalls++
	r.start, r.end, r.suffix = start, end, suffix
	return true, nil
}

func (r *recordingTranscoder) ApplyGain(_ context.Context, _ string, gainDB float64, suffix string) (bool, error) {
	r.gainCalls++
	r.gainDB, r.suffix = gainDB, suffix
	return true, nil
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("GAIN"); err != nil || m != ModeGain {
		t.Fatalf("unexpected parse result: %v %v", m, err)
	}
	if m, err := ParseMode(""); err != nil || m != ModeTrim {
		t.Fatalf("expected trim as default mode, got %v %v", m, err)
	}
	if _, err := ParseMode("reverb"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestTrimSessionControls(t *testing.T) {
	s, err := NewTrimSession(60, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.Adjust(ControlNudge, 1) || s.Window.Start() != 0.5 {
		t.Fatalf("expected start nudged by one step, got %.3f", s.Window.Start())
	}
	if s.Adjust(ControlCycle, 1) {
		t.Fatalf("focus change must not report a model change")
	}
	if s.Focus() != FocusEnd {
		t.Fatalf("expected focus on end")
	}
	s.Adjust(ControlNudge, -1)
	if s.Window.End() != 59.5 {
		t.Fatalf("expected end nudged back, got %.3f", s.Window.End())
	}
	s.Adjust(ControlResize, -1)
	if s.Window.Start() != 1 || s.Window.End() != 59 {
		t.Fatalf("unexpected window after shrink: %.3f -> %.3f", s.Window.Start(), s.Window.End())
	}

	s.Adjust(ControlStep, 1)
	if s.Step() != 1 {
		t.Fatalf("expected step ladder to move to 1s, got %.2f", s.Step())
	}
	s.Adjust(ControlStep, -1)
	s.Adjust(ControlStep, -1)
	if s.Step() != 0.1 {
		t.Fatalf("expected step ladder to move down to 0.1s, got %.2f", s.Step())
	}

	s.Reset()
	if !s.Window.IsFull() || s.Focus() != FocusStart {
		t.Fatalf("expected reset to restore full window and start focus")
	}
	if err := s.Valid(); !errors.Is(err, ErrNothingChanged) {
		t.Fatalf("expected full window to be rejected at apply time, got %v", err)
	}
}

func TestTrimSessionApplyUsesWindow(t *testing.T) {
	s, _ := NewTrimSession(30, DefaultOptions())
	s.Window.AdjustStart(2)
	s.Window.AdjustEnd(-8)

	tr := &recordingTranscoder{}
	ok, err := s.Apply(context.Background(), tr, "/music/song.mp3")
	if err != nil || !ok {
		t.Fatalf("unexpected apply result: %v %v", ok, err)
	}
	if tr.trimCalls != 1 || tr.start != 2 || tr.end != 22 || tr.suffix != "_trim" {
		t.Fatalf("unexpected transcoder call: %+v", tr)
	}
}

func TestGainSessionControlsAndWarning(t *testing.T) {
	s := NewGainSession(-3, DefaultOptions())
	s.Adjust(ControlCycle, 1)
	if s.Gain.DB() != 3 {
		t.Fatalf("expected coarse step to 3 dB, got %.2f", s.Gain.DB())
	}
	if _, warn := s.Warning(); warn {
		t.Fatalf("expected no warning at headroom")
	}
	s.Adjust(ControlNudge, 1)
	if msg, warn := s.Warning(); !warn || msg == "" {
		t.Fatalf("expected clip warning above headroom")
	}
	s.Adjust(ControlResize, -1)
	if s.Gain.DB() != 3 {
		t.Fatalf("expected snap to headroom, got %.2f", s.Gain.DB())
	}

	s.Reset()
	if err := s.Valid(); !errors.Is(err, ErrNothingChanged) {
		t.Fatalf("expected 0 dB to be rejected, got %v", err)
	}
	tr := &recordingTranscoder{}
	if ok, _ := s.Apply(context.Background(), tr, "/x.wav"); ok || tr.gainCalls != 0 {
		t.Fatalf("invalid gain must never reach the transcoder")
	}

	s.Adjust(ControlNudge, -1)
	if ok, err := s.Apply(context.Background(), tr, "/x.wav"); !ok || err != nil {
		t.Fatalf("unexpected apply result: %v %v", ok, err)
	}
	if tr.gainDB != -0.5 || tr.suffix != "_gain" {
		t.Fatalf("unexpected transcoder call: %+v", tr)
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := FormatSeconds(3723.25); got != "01:02:03.250" {
		t.Fatalf("unexpected format: %s", got)
	}
	if got := FormatSeconds(-1); got != "00:00:00" {
		t.Fatalf("unexpected format for negative: %s", got)
	}
}
