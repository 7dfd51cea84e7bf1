package editor

import "github.com/mlihgenel/padedit-cli/internal/input"

// Action klavye ve gamepad için ortak mantıksal komut.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionShrink
	ActionGrow
	ActionFirst
	ActionLast
	ActionConfirm
	ActionBack
	ActionPreview
	ActionReset
	ActionApply
)

var actionNames = map[Action]string{
	ActionUp:      "up",
	ActionDown:    "down",
	ActionLeft:    "left",
	ActionRight:   "right",
	ActionShrink:  "shrink",
	ActionGrow:    "grow",
	ActionFirst:   "first",
	ActionLast:    "last",
	ActionConfirm: "confirm",
	ActionBack:    "back",
	ActionPreview: "preview",
	ActionReset:   "reset",
	ActionApply:   "apply",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// navigational nav kapısından, diğerleri action kapısından geçer.
func (a Action) navigational() bool {
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight,
		ActionShrink, ActionGrow, ActionFirst, ActionLast:
		return true
	}
	return false
}

// edgeButtons basıldığı anda bir kez tetiklenen düğmeler, sıralı.
var edgeButtons = []struct {
	button input.Button
	action Action
}{
	{input.ButtonA, ActionConfirm},
	{input.ButtonB, ActionBack},
	{input.ButtonX, ActionPreview},
	{input.ButtonY, ActionReset},
	{input.ButtonStart, ActionApply},
	{input.ButtonLeftTrigger, ActionFirst},
	{input.ButtonRightTrigger, ActionLast},
}

// heldButtons basılı tutulunca tekrar eden yönlü düğmeler, öncelik sırasıyla.
var heldButtons = []struct {
	button input.Button
	action Action
}{
	{input.ButtonDPadUp, ActionUp},
	{input.ButtonDPadDown, ActionDown},
	{input.ButtonDPadLeft, ActionLeft},
	{input.ButtonDPadRight, ActionRight},
	{input.ButtonLeftShoulder, ActionShrink},
	{input.ButtonRightShoulder, ActionGrow},
}

// heldAction birden fazla yön basılıysa önceliği en yüksek olanı döner.
func heldAction(held input.Buttons) Action {
	for _, h := range heldButtons {
		if held.Has(h.button) {
			return h.action
		}
	}
	return ActionNone
}
