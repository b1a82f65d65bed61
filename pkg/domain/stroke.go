package domain

import "github.com/go-gl/mathgl/mgl64"

// Point is a 3D coordinate read from host stroke data.
type Point = mgl64.Vec3

// StrokePoint is a single sample of a stroke.
type StrokePoint struct {
	Co       Point `json:"co" yaml:"co"`
	Selected bool  `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// Stroke is an ordered sequence of points.
type Stroke struct {
	Points []StrokePoint `json:"points" yaml:"points"`
}

// First returns the first point of the stroke.
func (s Stroke) First() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[0].Co, true
}

// Last returns the last point of the stroke.
func (s Stroke) Last() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1].Co, true
}

// Frame holds the strokes drawn on a given frame number.
type Frame struct {
	Number  int      `json:"number" yaml:"number"`
	Strokes []Stroke `json:"strokes" yaml:"strokes"`
}

// Layer groups frames. ActiveFrame indexes Frames.
type Layer struct {
	Name        string  `json:"name" yaml:"name"`
	Frames      []Frame `json:"frames" yaml:"frames"`
	ActiveFrame int     `json:"active_frame" yaml:"active_frame"`
}

// StrokeData is the pencil data block of a drawable.
// ActiveLayer is -1 when no layer is active.
type StrokeData struct {
	Name        string  `json:"name" yaml:"name"`
	Layers      []Layer `json:"layers" yaml:"layers"`
	ActiveLayer int     `json:"active_layer" yaml:"active_layer"`
}

// NewStrokeData creates stroke data with a single empty active layer.
func NewStrokeData(name string) *StrokeData {
	return &StrokeData{
		Name: name,
		Layers: []Layer{{
			Name:   "Lines",
			Frames: []Frame{{Number: 1}},
		}},
		ActiveLayer: 0,
	}
}

// ActiveFrame returns the active frame of the active layer.
func (d *StrokeData) ActiveFrame() (*Frame, bool) {
	if d == nil || d.ActiveLayer < 0 || d.ActiveLayer >= len(d.Layers) {
		return nil, false
	}
	layer := &d.Layers[d.ActiveLayer]
	if layer.ActiveFrame < 0 || layer.ActiveFrame >= len(layer.Frames) {
		return nil, false
	}
	return &layer.Frames[layer.ActiveFrame], true
}

// SelectedPoints returns the selected points of the active frame in document order.
func (d *StrokeData) SelectedPoints() []Point {
	frame, ok := d.ActiveFrame()
	if !ok {
		return nil
	}
	var points []Point
	for _, stroke := range frame.Strokes {
		for _, p := range stroke.Points {
			if p.Selected {
				points = append(points, p.Co)
			}
		}
	}
	return points
}

// Clone returns a deep copy.
func (d *StrokeData) Clone() *StrokeData {
	if d == nil {
		return nil
	}
	out := &StrokeData{Name: d.Name, ActiveLayer: d.ActiveLayer}
	out.Layers = make([]Layer, len(d.Layers))
	for i, l := range d.Layers {
		nl := Layer{Name: l.Name, ActiveFrame: l.ActiveFrame, Frames: make([]Frame, len(l.Frames))}
		for j, f := range l.Frames {
			nf := Frame{Number: f.Number, Strokes: make([]Stroke, len(f.Strokes))}
			for k, s := range f.Strokes {
				nf.Strokes[k] = Stroke{Points: append([]StrokePoint(nil), s.Points...)}
			}
			nl.Frames[j] = nf
		}
		out.Layers[i] = nl
	}
	return out
}
