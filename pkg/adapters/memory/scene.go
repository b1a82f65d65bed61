package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/workplane/pkg/domain"
)

// Scene implements ports.Scene in memory. It stands in for the host application in tests,
// the CLI and the network adapters. Objects enumerate in insertion order.
// Safe for concurrent use.
type Scene struct {
	mu      sync.RWMutex
	objects []*domain.Object
	strokes map[string]*domain.StrokeData
	focused string
	mode    domain.Mode
	view    domain.ViewSettings
}

// Snapshot is the serializable content of a Scene.
type Snapshot struct {
	Objects    []*domain.Object     `json:"objects" yaml:"objects"`
	StrokeData []*domain.StrokeData `json:"stroke_data" yaml:"stroke_data"`
	Focused    string               `json:"focused,omitempty" yaml:"focused,omitempty"`
	Mode       domain.Mode          `json:"mode,omitempty" yaml:"mode,omitempty"`
	View       *domain.ViewSettings `json:"view,omitempty" yaml:"view,omitempty"`
}

// NewScene creates an empty scene in object mode.
func NewScene() *Scene {
	return &Scene{
		strokes: make(map[string]*domain.StrokeData),
		mode:    domain.ModeObject,
	}
}

// FromSnapshot rebuilds a scene from its serialized content.
func FromSnapshot(snap Snapshot) (*Scene, error) {
	s := NewScene()
	for _, obj := range snap.Objects {
		if err := s.AddObject(obj); err != nil {
			return nil, err
		}
	}
	for _, data := range snap.StrokeData {
		s.PutStrokeData(data)
	}
	if snap.Focused != "" {
		if s.index(snap.Focused) < 0 {
			return nil, fmt.Errorf("focused object %q: %w", snap.Focused, domain.ErrObjectNotFound)
		}
		s.focused = snap.Focused
	}
	if snap.Mode != "" {
		s.mode = snap.Mode
	}
	if snap.View != nil {
		s.view = *snap.View
	}
	return s, nil
}

// Snapshot returns a deep copy of the scene content.
func (s *Scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Focused: s.focused, Mode: s.mode}
	for _, obj := range s.objects {
		snap.Objects = append(snap.Objects, obj.Clone())
	}
	for _, obj := range s.objects {
		if data, ok := s.strokes[obj.Data]; ok && obj.IsDrawable() {
			snap.StrokeData = append(snap.StrokeData, data.Clone())
		}
	}
	view := s.view
	snap.View = &view
	return snap
}

// AddObject inserts an object as-is. It is meant for seeding fixtures.
func (s *Scene) AddObject(obj *domain.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(obj.Name) >= 0 {
		return fmt.Errorf("%w: %q", domain.ErrObjectExists, obj.Name)
	}
	s.objects = append(s.objects, obj.Clone())
	return nil
}

// PutStrokeData inserts or replaces a stroke data block. It is meant for seeding fixtures.
func (s *Scene) PutStrokeData(data *domain.StrokeData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strokes[data.Name] = data.Clone()
}

// View returns the last applied view settings.
func (s *Scene) View() domain.ViewSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Scene) index(name string) int {
	for i, obj := range s.objects {
		if obj.Name == name {
			return i
		}
	}
	return -1
}

func (s *Scene) Objects(ctx context.Context) ([]*domain.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Object, 0, len(s.objects))
	for _, obj := range s.objects {
		out = append(out, obj.Clone())
	}
	return out, nil
}

func (s *Scene) Object(ctx context.Context, name string) (*domain.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrObjectNotFound, name)
	}
	return s.objects[i].Clone(), nil
}

func (s *Scene) CreateDrawable(ctx context.Context, name string, transform domain.Transform) (*domain.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(name) >= 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrObjectExists, name)
	}
	obj := &domain.Object{
		Name:      name,
		Kind:      domain.KindDrawable,
		Data:      name,
		Transform: transform,
	}
	s.objects = append(s.objects, obj)
	s.strokes[name] = domain.NewStrokeData(name)
	s.focused = name
	s.mode = domain.ModeObject
	return obj.Clone(), nil
}

func (s *Scene) CreatePlane(ctx context.Context, name string, transform domain.Transform) (*domain.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(name) >= 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrObjectExists, name)
	}
	obj := &domain.Object{
		Name:      name,
		Kind:      domain.KindMesh,
		Transform: transform,
	}
	s.objects = append(s.objects, obj)
	s.focused = name
	s.mode = domain.ModeObject
	return obj.Clone(), nil
}

func (s *Scene) UpdateObject(ctx context.Context, obj *domain.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(obj.Name)
	if i < 0 {
		return fmt.Errorf("%w: %q", domain.ErrObjectNotFound, obj.Name)
	}
	current := s.objects[i]
	updated := obj.Clone()
	// kind and data binding are owned by the host
	updated.Kind = current.Kind
	updated.Data = current.Data
	s.objects[i] = updated
	return nil
}

func (s *Scene) DeleteObject(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", domain.ErrObjectNotFound, name)
	}
	obj := s.objects[i]
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	if obj.IsDrawable() {
		delete(s.strokes, obj.Data)
	}
	if s.focused == name {
		s.focused = ""
		s.mode = domain.ModeObject
	}
	return nil
}

func (s *Scene) StrokeData(ctx context.Context, name string) (*domain.StrokeData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.strokes[name]
	if !ok {
		return nil, fmt.Errorf("%w: stroke data %q", domain.ErrObjectNotFound, name)
	}
	return data.Clone(), nil
}

func (s *Scene) SaveStrokeData(ctx context.Context, data *domain.StrokeData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.strokes[data.Name]; !ok {
		return fmt.Errorf("%w: stroke data %q", domain.ErrObjectNotFound, data.Name)
	}
	s.strokes[data.Name] = data.Clone()
	return nil
}

func (s *Scene) Focused(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused, nil
}

func (s *Scene) Focus(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		s.focused = ""
		s.mode = domain.ModeObject
		return nil
	}
	if s.index(name) < 0 {
		return fmt.Errorf("%w: %q", domain.ErrObjectNotFound, name)
	}
	if s.focused != name {
		// switching objects drops back to object mode, like the host does
		s.mode = domain.ModeObject
	}
	s.focused = name
	return nil
}

func (s *Scene) Mode(ctx context.Context) (domain.Mode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode, nil
}

func (s *Scene) SetMode(ctx context.Context, mode domain.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case domain.ModeObject:
	case domain.ModeDraw, domain.ModeEditStroke:
		i := s.index(s.focused)
		if i < 0 || !s.objects[i].IsDrawable() {
			return fmt.Errorf("cannot enter %s: %w", mode, domain.ErrNoActiveObject)
		}
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	s.mode = mode
	return nil
}

func (s *Scene) ConfigureView(ctx context.Context, view domain.ViewSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	return nil
}
