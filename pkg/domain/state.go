package domain

import "time"

// NoActiveDrawable is the sentinel stored when no drawable is active.
const NoActiveDrawable = "empty"

// SessionState is the per-document state persisted between commands.
type SessionState struct {
	DocumentID string `json:"document_id"`

	// ActiveDrawable names the drawable commands operate on, or NoActiveDrawable.
	ActiveDrawable string `json:"active_drawable"`

	// PlaneLocation is the base location of the workplane before any offset.
	PlaneLocation Point   `json:"plane_location"`
	PlaneOffset   float64 `json:"plane_offset"`

	// Grid survives workplane replacement.
	Grid Grid `json:"grid"`

	// AutoDeleteStroke removes the stroke a V/H/3D plane was built from.
	AutoDeleteStroke bool `json:"auto_delete_stroke"`

	ExpandSystem bool `json:"expand_system"`
	ExpandGrid   bool `json:"expand_grid"`

	Picking PickPhase `json:"picking"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewSessionState creates the default state for a document.
func NewSessionState(documentID string) *SessionState {
	return &SessionState{
		DocumentID:     documentID,
		ActiveDrawable: NoActiveDrawable,
		Grid:           DefaultGrid(),
		ExpandSystem:   true,
		ExpandGrid:     true,
		Picking:        PickIdle,
	}
}

// HasActive reports whether a drawable name is recorded.
func (s *SessionState) HasActive() bool {
	return s.ActiveDrawable != "" && s.ActiveDrawable != NoActiveDrawable
}

// ClearActive resets the active drawable to the sentinel.
func (s *SessionState) ClearActive() {
	s.ActiveDrawable = NoActiveDrawable
}

// Snapshot returns a copy of the state. All fields are values.
func (s *SessionState) Snapshot() *SessionState {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
