package key

import (
	"fmt"
	"strings"
)

// Mode is the input-device family a key belongs to
type Mode int

const (
	KeyboardAndMouse Mode = iota
	Gamepad
	Touch
	Gesture
)

func (m Mode) String() string {
	switch m {
	case KeyboardAndMouse:
		return "KeyboardAndMouse"
	case Gamepad:
		return "Gamepad"
	case Touch:
		return "Touch"
	case Gesture:
		return "Gesture"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Modes lists every mode in display order
func Modes() []Mode {
	return []Mode{KeyboardAndMouse, Gamepad, Touch, Gesture}
}

// ParseMode parses a mode name, ignoring case. "VR" is accepted for Gesture.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keyboardandmouse", "keyboard_and_mouse", "keyboard":
		return KeyboardAndMouse, nil
	case "gamepad":
		return Gamepad, nil
	case "touch":
		return Touch, nil
	case "gesture", "vr":
		return Gesture, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Classifier maps a key to its input mode. Hosts may supply their own.
type Classifier func(Key) Mode

// Classify is the default Classifier. Keys outside every known family
// classify as KeyboardAndMouse.
func Classify(k Key) Mode {
	switch {
	case k.IsTouch():
		return Touch
	case k.IsGesture():
		return Gesture
	case k.IsGamepad():
		return Gamepad
	default:
		return KeyboardAndMouse
	}
}
