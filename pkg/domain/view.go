package domain

import "github.com/go-gl/mathgl/mgl64"

// ViewSettings configures the host viewport for drawing on workplanes.
type ViewSettings struct {
	Shading         string     `json:"shading" yaml:"shading"`
	XRay            bool       `json:"xray" yaml:"xray"`
	ShowFloor       bool       `json:"show_floor" yaml:"show_floor"`
	ShowCursor      bool       `json:"show_cursor" yaml:"show_cursor"`
	ShowOrigins     bool       `json:"show_origins" yaml:"show_origins"`
	VertexOpacity   float64    `json:"vertex_opacity" yaml:"vertex_opacity"`
	Background      mgl64.Vec3 `json:"background" yaml:"background"`
	WireColor       mgl64.Vec3 `json:"wire_color" yaml:"wire_color"`
	StrokePlacement string     `json:"stroke_placement" yaml:"stroke_placement"`
}

// DefaultViewSettings returns a transparent wireframe view with strokes projected onto surfaces.
func DefaultViewSettings() ViewSettings {
	return ViewSettings{
		Shading:         "WIREFRAME",
		XRay:            true,
		VertexOpacity:   1,
		Background:      mgl64.Vec3{0.8, 0.8, 0.8},
		WireColor:       mgl64.Vec3{0.5, 0.5, 0.5},
		StrokePlacement: "SURFACE",
	}
}
