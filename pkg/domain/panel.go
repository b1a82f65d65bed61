package domain

// PanelState is everything the side panel needs to render.
type PanelState struct {
	Session   SessionState `json:"session"`
	Mode      Mode         `json:"mode"`
	Focused   string       `json:"focused,omitempty"`
	Workplane *Workplane   `json:"workplane,omitempty"`
	Drawables []string     `json:"drawables"`
}

// Command is a named user action with loosely typed arguments.
type Command struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}
