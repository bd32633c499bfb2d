package message

import "fmt"

// ErrorCode classifies an error report. It is encoded as its integer value.
type ErrorCode int

// Error codes.
const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodeListenerFailed
	ErrorCodeListenerPanicked
	ErrorCodeScriptFailed
	ErrorCodeInputFailed
	ErrorCodeConfigInvalid
)

// String returns a human-readable error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeUnknown:
		return "unknown"
	case ErrorCodeListenerFailed:
		return "listener_failed"
	case ErrorCodeListenerPanicked:
		return "listener_panicked"
	case ErrorCodeScriptFailed:
		return "script_failed"
	case ErrorCodeInputFailed:
		return "input_failed"
	case ErrorCodeConfigInvalid:
		return "config_invalid"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// KeyCode identifies a letter key. Lowercase letters occupy 0-25 and
// uppercase letters 26-51. It is encoded as its integer value.
type KeyCode int

// Lowercase key codes.
const (
	KeyCodeLowerA KeyCode = iota
	KeyCodeLowerB
	KeyCodeLowerC
	KeyCodeLowerD
	KeyCodeLowerE
	KeyCodeLowerF
	KeyCodeLowerG
	KeyCodeLowerH
	KeyCodeLowerI
	KeyCodeLowerJ
	KeyCodeLowerK
	KeyCodeLowerL
	KeyCodeLowerM
	KeyCodeLowerN
	KeyCodeLowerO
	KeyCodeLowerP
	KeyCodeLowerQ
	KeyCodeLowerR
	KeyCodeLowerS
	KeyCodeLowerT
	KeyCodeLowerU
	KeyCodeLowerV
	KeyCodeLowerW
	KeyCodeLowerX
	KeyCodeLowerY
	KeyCodeLowerZ
)

// Uppercase key codes.
const (
	KeyCodeA KeyCode = iota + 26
	KeyCodeB
	KeyCodeC
	KeyCodeD
	KeyCodeE
	KeyCodeF
	KeyCodeG
	KeyCodeH
	KeyCodeI
	KeyCodeJ
	KeyCodeK
	KeyCodeL
	KeyCodeM
	KeyCodeN
	KeyCodeO
	KeyCodeP
	KeyCodeQ
	KeyCodeR
	KeyCodeS
	KeyCodeT
	KeyCodeU
	KeyCodeV
	KeyCodeW
	KeyCodeX
	KeyCodeY
	KeyCodeZ
)

// KeyCodeFromRune returns the key code for a letter rune.
func KeyCodeFromRune(r rune) (KeyCode, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyCode(r - 'a'), true
	case r >= 'A' && r <= 'Z':
		return KeyCodeA + KeyCode(r-'A'), true
	default:
		return 0, false
	}
}

// Rune returns the letter for the key code, or 0 if the code is invalid.
func (k KeyCode) Rune() rune {
	switch {
	case k >= KeyCodeLowerA && k <= KeyCodeLowerZ:
		return 'a' + rune(k)
	case k >= KeyCodeA && k <= KeyCodeZ:
		return 'A' + rune(k-KeyCodeA)
	default:
		return 0
	}
}

// IsValid reports whether k names a letter key.
func (k KeyCode) IsValid() bool {
	return k.Rune() != 0
}

// String returns the letter for valid codes.
func (k KeyCode) String() string {
	if r := k.Rune(); r != 0 {
		return string(r)
	}
	return fmt.Sprintf("KeyCode(%d)", int(k))
}
