package interaction

import (
	"fmt"
	"strings"
)

// Mode selects what a pointer drag on a canvas does.
type Mode int

const (
	// ModePan drags the content of a cell within its crop.
	ModePan Mode = iota
	// ModeSwap drags a cell onto another cell to exchange the photos.
	ModeSwap
)

func (m Mode) String() string {
	switch m {
	case ModePan:
		return "pan"
	case ModeSwap:
		return "swap"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode parses "pan" or "swap".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pan":
		return ModePan, nil
	case "swap":
		return ModeSwap, nil
	default:
		return ModePan, fmt.Errorf("unknown interaction mode %q", s)
	}
}
