package domain

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCommand      EventType = "command"
	EventPlaneCreated EventType = "plane_created"
	EventModeChange   EventType = "mode_change"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	DocumentID string    `json:"document_id"`
}

// CommandEvent reports a finished command.
type CommandEvent struct {
	EventBase
	Command  string        `json:"command"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// PlaneEvent reports a newly placed workplane.
type PlaneEvent struct {
	EventBase
	Orientation string     `json:"orientation"`
	Location    mgl64.Vec3 `json:"location"`
	Rotation    mgl64.Vec3 `json:"rotation"`
	Grid        Grid       `json:"grid"`
}

// ModeEvent reports a host mode switch.
type ModeEvent struct {
	EventBase
	From Mode `json:"from"`
	To   Mode `json:"to"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnCommand      func(context.Context, *CommandEvent)
	OnPlaneCreated func(context.Context, *PlaneEvent)
	OnModeChange   func(context.Context, *ModeEvent)
	OnStateChange  func(context.Context, *SessionDiff)
}
