package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Key is a canonical, lower-case physical key name
type Key string

// None is the empty key. It is never a valid binding.
const None Key = ""

var (
	ErrUnknownKey  = errors.New("unknown key")
	ErrUnknownMode = errors.New("unknown input mode")
)

const (
	gamepadPrefix = "gamepad_"
	gesturePrefix = "gesture_"
	touchPrefix   = "touch"
	numpadPrefix  = "num_"
)

// aliases folds alternative spellings onto the canonical name
var aliases = map[string]string{
	"return":      "enter",
	"esc":         "escape",
	"del":         "delete",
	"ins":         "insert",
	"spacebar":    "space",
	"pgup":        "pageup",
	"pgdn":        "pagedown",
	"lmb":         "mouse_left",
	"rmb":         "mouse_right",
	"mmb":         "mouse_middle",
	"lshift":      "left_shift",
	"rshift":      "right_shift",
	"lctrl":       "left_ctrl",
	"rctrl":       "right_ctrl",
	"lalt":        "left_alt",
	"ralt":        "right_alt",
	"gamepad_a":   "gamepad_face_bottom",
	"gamepad_b":   "gamepad_face_right",
	"gamepad_x":   "gamepad_face_left",
	"gamepad_y":   "gamepad_face_top",
	"gesture_vr":  "gesture_pinch",
	"mouse_wheel": "mouse_wheel_up",
}

var keyboardKeys = map[string]bool{
	"space":         true,
	"enter":         true,
	"tab":           true,
	"escape":        true,
	"backspace":     true,
	"delete":        true,
	"insert":        true,
	"home":          true,
	"end":           true,
	"pageup":        true,
	"pagedown":      true,
	"up":            true,
	"down":          true,
	"left":          true,
	"right":         true,
	"left_shift":    true,
	"right_shift":   true,
	"left_ctrl":     true,
	"right_ctrl":    true,
	"left_alt":      true,
	"right_alt":     true,
	"caps_lock":     true,
	"comma":         true,
	"period":        true,
	"slash":         true,
	"backslash":     true,
	"semicolon":     true,
	"apostrophe":    true,
	"minus":         true,
	"equals":        true,
	"tilde":         true,
	"left_bracket":  true,
	"right_bracket": true,
}

var mouseKeys = map[string]bool{
	"mouse_left":       true,
	"mouse_right":      true,
	"mouse_middle":     true,
	"mouse_x1":         true,
	"mouse_x2":         true,
	"mouse_wheel_up":   true,
	"mouse_wheel_down": true,
}

var gamepadKeys = map[string]bool{
	"gamepad_face_bottom":    true,
	"gamepad_face_right":     true,
	"gamepad_face_left":      true,
	"gamepad_face_top":       true,
	"gamepad_left_shoulder":  true,
	"gamepad_right_shoulder": true,
	"gamepad_left_trigger":   true,
	"gamepad_right_trigger":  true,
	"gamepad_dpad_up":        true,
	"gamepad_dpad_down":      true,
	"gamepad_dpad_left":      true,
	"gamepad_dpad_right":     true,
	"gamepad_left_thumb":     true,
	"gamepad_right_thumb":    true,
	"gamepad_special_left":   true,
	"gamepad_special_right":  true,
}

var gestureKeys = map[string]bool{
	"gesture_pinch":            true,
	"gesture_flick":            true,
	"gesture_rotate":           true,
	"gesture_swipe_left_right": true,
	"gesture_swipe_up_down":    true,
}

// Parse canonicalizes a key name like "Space", "esc" or "gamepad_a".
// Modifier chains such as "ctrl+c" are rejected.
func Parse(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return None, fmt.Errorf("%w: no key specified", ErrUnknownKey)
	}
	if strings.Contains(name, "+") {
		return None, fmt.Errorf("%w: %q is a key chord, expected a single key", ErrUnknownKey, s)
	}
	name = strings.ReplaceAll(name, " ", "_")
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	name = trimSuffixZeros(name)

	k := Key(name)
	if !k.IsValid() {
		return None, fmt.Errorf("%w: %q", ErrUnknownKey, s)
	}
	return k, nil
}

// MustParse is Parse for literals known to be valid
func MustParse(s string) Key {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// IsValid reports whether k is a known, non-empty key
func (k Key) IsValid() bool {
	return k.IsKeyboard() || k.IsMouse() || k.IsGamepad() || k.IsTouch() || k.IsGesture()
}

// IsKeyboard reports whether k is a keyboard key
func (k Key) IsKeyboard() bool {
	s := string(k)
	if s == "" {
		return false
	}

	// Single letter or digit
	if utf8.RuneCountInString(s) == 1 {
		c := s[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}

	if n, ok := suffixNumber(s, "f"); ok {
		return n >= 1 && n <= 24
	}
	if n, ok := suffixNumber(s, numpadPrefix); ok {
		return n >= 0 && n <= 9
	}

	return keyboardKeys[s]
}

// IsMouse reports whether k is a mouse button or wheel axis
func (k Key) IsMouse() bool {
	return mouseKeys[string(k)]
}

// IsGamepad reports whether k is a gamepad button
func (k Key) IsGamepad() bool {
	return strings.HasPrefix(string(k), gamepadPrefix) && gamepadKeys[string(k)]
}

// IsTouch reports whether k is a touch point
func (k Key) IsTouch() bool {
	n, ok := suffixNumber(string(k), touchPrefix)
	return ok && n >= 1 && n <= 10
}

// IsGesture reports whether k is a motion/VR gesture
func (k Key) IsGesture() bool {
	return strings.HasPrefix(string(k), gesturePrefix) && gestureKeys[string(k)]
}

func (k Key) String() string {
	return string(k)
}

func suffixNumber(s, prefix string) (int, bool) {
	if !strings.HasPrefix(s, prefix) || len(s) == len(prefix) {
		return 0, false
	}
	digits := s[len(prefix):]
	if strings.TrimLeft(digits, "0123456789") != "" {
		return 0, false
	}
	// "f01" is not canonical; Parse folds it to "f1"
	if len(digits) > 1 && digits[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// trimSuffixZeros drops leading zeros from the number of a numbered key
func trimSuffixZeros(name string) string {
	for _, prefix := range []string{numpadPrefix, touchPrefix, "f"} {
		digits, ok := strings.CutPrefix(name, prefix)
		if !ok || digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		return prefix + strconv.Itoa(n)
	}
	return name
}
