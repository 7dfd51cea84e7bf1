//go:build linux

package input

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"
)

const (
	jsEventButton = 0x01
	jsEventAxis   = 0x02
	jsEventInit   = 0x80

	jsEventSize = 8
)

// xpad sürücüsünün düğme ve eksen numaraları.
var jsButtonMap = map[uint8]Button{
	0: ButtonA,
	1: ButtonB,
	2: ButtonX,
	3: ButtonY,
	4: ButtonLeftShoulder,
	5: ButtonRightShoulder,
	6: ButtonBack,
	7: ButtonStart,
}

const (
	jsAxisLeftTrigger  = 2
	jsAxisRightTrigger = 5
	jsAxisHatX         = 6
	jsAxisHatY         = 7
)

// Joystick Linux joystick arayüzünü (/dev/input/jsN) bloklamadan okur.
// Her Poll çağrısı bekleyen tüm olayları tüketip birikmiş durumu döner.
// Okuma hatasında cihaz kapatılır ve sonraki Poll'da yeniden açılmaya çalışılır.
type Joystick struct {
	Paths []string

	fd    int
	open  bool
	state RawState
}

// JoystickPaths sistemdeki joystick düğümlerini sıralı döner.
func JoystickPaths() []string {
	matches, _ := filepath.Glob("/dev/input/js*")
	sort.Strings(matches)
	return matches
}

// OpenJoystick verilen yolu (boşsa sistemdeki tüm js düğümlerini) kullanır.
// player indeksi Poll sırasında düğüm seçmek için kullanılır.
func OpenJoystick(path string) *Joystick {
	j := &Joystick{fd: -1}
	if path != "" {
		j.Paths = []string{path}
	}
	return j
}

func (j *Joystick) pathFor(player int) (string, bool) {
	paths := j.Paths
	if len(paths) == 0 {
		paths = JoystickPaths()
	}
	if len(paths) == 1 {
		return paths[0], true
	}
	if player < 0 || player >= len(paths) {
		return "", false
	}
	return paths[player], true
}

func (j *Joystick) reopen(player int) bool {
	path, ok := j.pathFor(player)
	if !ok {
		return false
	}
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return false
	}
	j.fd = fd
	j.open = true
	j.state = RawState{}
	return true
}

// Poll bekleyen olayları okur. Cihaz yoksa ya da okuma başarısızsa ok=false döner.
func (j *Joystick) Poll(player int) (RawState, bool) {
	if !j.open && !j.reopen(player) {
		return RawState{}, false
	}

	buf := make([]byte, jsEventSize*32)
	for {
		n, err := unix.Read(j.fd, buf)
		if err == unix.EAGAIN || err == unix.EINTR {
			break
		}
		if err != nil || n == 0 {
			_ = j.Close()
			return RawState{}, false
		}
		for off := 0; off+jsEventSize <= n; off += jsEventSize {
			j.apply(buf[off : off+jsEventSize])
		}
		if n < len(buf) {
			break
		}
	}
	return j.state, true
}

func (j *Joystick) apply(ev []byte) {
	value := int16(binary.LittleEndian.Uint16(ev[4:6]))
	kind := ev[6] &^ jsEventInit
	number := ev[7]

	switch kind {
	case jsEventButton:
		btn, ok := jsButtonMap[number]
		if !ok {
			return
		}
		if value != 0 {
			j.state.Buttons |= Buttons(btn)
		} else {
			j.state.Buttons &^= Buttons(btn)
		}
	case jsEventAxis:
		switch number {
		case jsAxisLeftTrigger:
			j.state.LeftTrigger = axisToTrigger(value)
		case jsAxisRightTrigger:
			j.state.RightTrigger = axisToTrigger(value)
		case jsAxisHatX:
			j.state.Buttons = setHat(j.state.Buttons, value, ButtonDPadLeft, ButtonDPadRight)
		case jsAxisHatY:
			j.state.Buttons = setHat(j.state.Buttons, value, ButtonDPadUp, ButtonDPadDown)
		}
	}
}

// axisToTrigger -32767..32767 aralığını 0..255'e indirger.
func axisToTrigger(v int16) uint8 {
	scaled := (int32(v) + 32767) * 255 / 65534
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 255 {
		scaled = 255
	}
	return uint8(scaled)
}

func setHat(b Buttons, v int16, neg, pos Button) Buttons {
	b &^= Buttons(neg | pos)
	switch {
	case v < 0:
		b |= Buttons(neg)
	case v > 0:
		b |= Buttons(pos)
	}
	return b
}

// Close açık dosya tanımlayıcısını bırakır.
func (j *Joystick) Close() error {
	if !j.open {
		return nil
	}
	j.open = false
	fd := j.fd
	j.fd = -1
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("joystick kapatılamadı: %w", err)
	}
	return nil
}
