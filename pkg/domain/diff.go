package domain

// SessionDiff represents the changes between two session states.
// It is designed to be serialized to JSON for partial updates on the client.
type SessionDiff struct {
	// DocumentID is always present to identify the target.
	DocumentID string `json:"document_id"`

	ActiveDrawable   *string    `json:"active_drawable,omitempty"`
	PlaneLocation    *Point     `json:"plane_location,omitempty"`
	PlaneOffset      *float64   `json:"plane_offset,omitempty"`
	Grid             *Grid      `json:"grid,omitempty"`
	AutoDeleteStroke *bool      `json:"auto_delete_stroke,omitempty"`
	ExpandSystem     *bool      `json:"expand_system,omitempty"`
	ExpandGrid       *bool      `json:"expand_grid,omitempty"`
	Picking          *PickPhase `json:"picking,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed. UpdatedAt is ignored.
func Diff(oldState, newState *SessionState) *SessionDiff {
	if newState == nil {
		return nil
	}

	diff := &SessionDiff{DocumentID: newState.DocumentID}
	n := newState.Snapshot()

	if oldState == nil || oldState.ActiveDrawable != n.ActiveDrawable {
		diff.ActiveDrawable = &n.ActiveDrawable
	}
	if oldState == nil || oldState.PlaneLocation != n.PlaneLocation {
		diff.PlaneLocation = &n.PlaneLocation
	}
	if oldState == nil || oldState.PlaneOffset != n.PlaneOffset {
		diff.PlaneOffset = &n.PlaneOffset
	}
	if oldState == nil || oldState.Grid != n.Grid {
		diff.Grid = &n.Grid
	}
	if oldState == nil || oldState.AutoDeleteStroke != n.AutoDeleteStroke {
		diff.AutoDeleteStroke = &n.AutoDeleteStroke
	}
	if oldState == nil || oldState.ExpandSystem != n.ExpandSystem {
		diff.ExpandSystem = &n.ExpandSystem
	}
	if oldState == nil || oldState.ExpandGrid != n.ExpandGrid {
		diff.ExpandGrid = &n.ExpandGrid
	}
	if oldState == nil || oldState.Picking != n.Picking {
		diff.Picking = &n.Picking
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.ActiveDrawable == nil &&
		d.PlaneLocation == nil &&
		d.PlaneOffset == nil &&
		d.Grid == nil &&
		d.AutoDeleteStroke == nil &&
		d.ExpandSystem == nil &&
		d.ExpandGrid == nil &&
		d.Picking == nil
}
