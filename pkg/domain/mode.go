package domain

import (
	"fmt"
	"strings"
)

// Mode is the host interaction mode.
type Mode string

const (
	ModeObject     Mode = "OBJECT"
	ModeEditStroke Mode = "EDIT_STROKE"
	ModeDraw       Mode = "PAINT_STROKE"
)

// PickPhase is the state of the point-picking workflow.
type PickPhase string

const (
	PickIdle              PickPhase = "idle"
	PickAwaitingSelection PickPhase = "awaiting_selection"
)

// Axis selects a Euler component.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// ParseAxis accepts "x", "y" or "z" (case insensitive).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("%w: %q (must be x / y / z)", ErrInvalidAxis, s)
}
