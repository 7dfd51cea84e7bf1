//go:build !linux

package input

// Joystick bu platformda desteklenmez; her zaman bağlı değil döner.
type Joystick struct {
	Paths []string
}

func JoystickPaths() []string { return nil }

func OpenJoystick(path string) *Joystick {
	j := &Joystick{}
	if path != "" {
		j.Paths = []string{path}
	}
	return j
}

func (j *Joystick) Poll(int) (RawState, bool) { return RawState{}, false }
func (j *Joystick) Close() error              { return nil }
