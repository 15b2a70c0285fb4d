package timer

import (
	"fmt"
	"strings"
)

// Stance is one of the two alternating postures.
type Stance int

const (
	Sitting Stance = iota
	Standing
)

// Toggle returns the opposite stance.
func (s Stance) Toggle() Stance {
	if s == Sitting {
		return Standing
	}
	return Sitting
}

func (s Stance) String() string {
	switch s {
	case Sitting:
		return "Sitting"
	case Standing:
		return "Standing"
	}
	return fmt.Sprintf("Stance(%d)", int(s))
}

// Prompt is the reminder shown when a cycle for this stance begins.
func (s Stance) Prompt() string {
	if s == Standing {
		return "Please stand up."
	}
	return "Please sit down."
}

// MarshalText encodes the stance the way it is written in the config file.
func (s Stance) MarshalText() ([]byte, error) {
	if s != Sitting && s != Standing {
		return nil, fmt.Errorf("invalid stance %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts "Sitting" or "Standing".
func (s *Stance) UnmarshalText(text []byte) error {
	v, err := ParseStance(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStance parses a stance name or its short form ("sit", "stand"),
// ignoring case and surrounding whitespace.
func ParseStance(name string) (Stance, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sitting", "sit":
		return Sitting, nil
	case "standing", "stand":
		return Standing, nil
	}
	return Sitting, fmt.Errorf("unknown stance %q", name)
}
