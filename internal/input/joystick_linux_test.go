//go:build linux

package input

import (
	"encoding/binary"
	"testing"
)

func jsEvent(kind, number uint8, value int16) []byte {
	ev := make([]byte, jsEventSize)
	binary.LittleEndian.PutUint16(ev[4:6], uint16(value))
	ev[6] = kind
	ev[7] = number
	return ev
}

func TestJoystickApplyEvents(t *testing.T) {
	j := OpenJoystick("/dev/null-joystick")

	j.apply(jsEvent(jsEventButton|jsEventInit, 0, 1))
	j.apply(jsEvent(jsEventButton, 7, 1))
	j.apply(jsEvent(jsEventAxis, jsAxisHatX, -32767))
	j.apply(jsEvent(jsEventAxis, jsAxisRightTrigger, 32767))

	s := j.state
	if !s.Buttons.Has(ButtonA) || !s.Buttons.Has(ButtonStart) || !s.Buttons.Has(ButtonDPadLeft) {
		t.Fatalf("unexpected buttons: %s", s.Buttons)
	}
	if s.RightTrigger != 255 {
		t.Fatalf("expected full right trigger, got %d", s.RightTrigger)
	}

	j.apply(jsEvent(jsEventAxis, jsAxisHatX, 0))
	j.apply(jsEvent(jsEventButton, 0, 0))
	if j.state.Buttons.Has(ButtonDPadLeft) || j.state.Buttons.Has(ButtonA) {
		t.Fatalf("expected release to clear buttons: %s", j.state.Buttons)
	}
}

func TestAxisToTrigger(t *testing.T) {
	cases := map[int16]uint8{-32767: 0, -32768: 0, 0: 127, 32767: 255}
	for in, want := range cases {
		if got := axisToTrigger(in); got != want {
			t.Fatalf("axisToTrigger(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestJoystickMissingDeviceIsDisconnected(t *testing.T) {
	j := OpenJoystick("/nonexistent/js9")
	if _, ok := j.Poll(0); ok {
		t.Fatalf("missing device must report disconnected")
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close on unopened device must be a no-op: %v", err)
	}
}
