package input

import "strings"

// Button tek bir dijital düğmeyi temsil eden bit.
type Button uint32

// Buttons basılı düğmelerin bit kümesi.
type Buttons uint32

const (
	ButtonDPadUp Button = 1 << iota
	ButtonDPadDown
	ButtonDPadLeft
	ButtonDPadRight
	ButtonStart
	ButtonBack
	ButtonLeftShoulder
	ButtonRightShoulder
	ButtonA
	ButtonB
	ButtonX
	ButtonY
	// Tetikler eşik üstündeyken dijital düğme gibi davranır.
	ButtonLeftTrigger
	ButtonRightTrigger
)

var buttonNames = []struct {
	b    Button
	name string
}{
	{ButtonDPadUp, "up"},
	{ButtonDPadDown, "down"},
	{ButtonDPadLeft, "left"},
	{ButtonDPadRight, "right"},
	{ButtonStart, "start"},
	{ButtonBack, "back"},
	{ButtonLeftShoulder, "lb"},
	{ButtonRightShoulder, "rb"},
	{ButtonA, "a"},
	{ButtonB, "b"},
	{ButtonX, "x"},
	{ButtonY, "y"},
	{ButtonLeftTrigger, "lt"},
	{ButtonRightTrigger, "rt"},
}

// Has kümenin verilen düğmeyi içerip içermediğini döner.
func (b Buttons) Has(btn Button) bool { return b&Buttons(btn) != 0 }

func (b Buttons) String() string {
	if b == 0 {
		return "-"
	}
	var names []string
	for _, n := range buttonNames {
		if b.Has(n.b) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "+")
}

// RawState cihazdan bir okumada gelen ham durum.
type RawState struct {
	Buttons      Buttons
	LeftTrigger  uint8
	RightTrigger uint8
}

// Device yoklanarak okunan bir giriş cihazıdır. Bağlantı yoksa ok=false döner;
// hata hiçbir zaman yukarı taşınmaz.
type Device interface {
	Poll(player int) (RawState, bool)
	Close() error
}

// NoDevice hiçbir düğme basılı değilmiş gibi davranır (yalnızca klavye kullanımı).
type NoDevice struct{}

func (NoDevice) Poll(int) (RawState, bool) { return RawState{}, false }
func (NoDevice) Close() error              { return nil }
