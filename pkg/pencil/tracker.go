// Package pencil tracks the active drawable of a document and switches host modes around it.
package pencil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/workplane/internal/logging"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/ports"
)

// NamePrefix is the prefix of generated drawable names ("Drawing 1", "Drawing 2", ...).
const NamePrefix = "Drawing "

// ModeObserver is notified after the tracker switches the host mode.
type ModeObserver func(ctx context.Context, from, to domain.Mode)

// Tracker resolves, creates and removes the active drawable recorded in a SessionState.
type Tracker struct {
	scene    ports.Scene
	logger   *slog.Logger
	observer ModeObserver
}

// Option configures the Tracker.
type Option func(*Tracker)

// WithLogger configures a logger for the Tracker.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithModeObserver registers a callback for mode switches.
func WithModeObserver(fn ModeObserver) Option {
	return func(t *Tracker) {
		t.observer = fn
	}
}

// NewTracker creates a Tracker over scene.
func NewTracker(scene ports.Scene, opts ...Option) *Tracker {
	t := &Tracker{
		scene:  scene,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// EnsureActive makes sure st names an existing drawable and focuses it.
// With nothing recorded it falls back to the first drawable in host order, and creates a new
// one when the scene has none. created reports whether a drawable was created.
func (t *Tracker) EnsureActive(ctx context.Context, st *domain.SessionState) (name string, created bool, err error) {
	if st.HasActive() {
		obj, err := t.scene.Object(ctx, st.ActiveDrawable)
		switch {
		case err == nil && obj.IsDrawable():
			if err := t.scene.Focus(ctx, obj.Name); err != nil {
				return "", false, fmt.Errorf("failed to focus drawable: %w", err)
			}
			return obj.Name, false, nil
		case err == nil, errors.Is(err, domain.ErrObjectNotFound):
			t.logger.Info("Recorded drawable is gone", "drawable", st.ActiveDrawable)
			st.ClearActive()
		default:
			return "", false, fmt.Errorf("failed to resolve active drawable: %w", err)
		}
	}

	objs, err := t.scene.Objects(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to list objects: %w", err)
	}
	for _, obj := range objs {
		if obj.IsDrawable() {
			if err := t.scene.Focus(ctx, obj.Name); err != nil {
				return "", false, fmt.Errorf("failed to focus drawable: %w", err)
			}
			st.ActiveDrawable = obj.Name
			return obj.Name, false, nil
		}
	}

	name, err = t.Create(ctx, st)
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// NextName returns "Drawing n" for the smallest positive n not used by any object.
func NextName(objs []*domain.Object) string {
	used := make(map[int]bool, len(objs))
	for _, obj := range objs {
		suffix, ok := strings.CutPrefix(obj.Name, NamePrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > 0 {
			used[n] = true
		}
	}
	n := 1
	for used[n] {
		n++
	}
	return NamePrefix + strconv.Itoa(n)
}

// Create adds a new drawable at the origin with its location locked and makes it active.
func (t *Tracker) Create(ctx context.Context, st *domain.SessionState) (string, error) {
	objs, err := t.scene.Objects(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list objects: %w", err)
	}
	name := NextName(objs)

	obj, err := t.scene.CreateDrawable(ctx, name, domain.IdentityTransform())
	if err != nil {
		return "", fmt.Errorf("failed to create drawable: %w", err)
	}
	obj.LockLocation = [3]bool{true, true, true}
	if err := t.scene.UpdateObject(ctx, obj); err != nil {
		return "", fmt.Errorf("failed to lock drawable: %w", err)
	}
	st.ActiveDrawable = name
	t.logger.Debug("Drawable created", "drawable", name)
	return name, nil
}

// SaveActive records the focused drawable in st, or clears it if the focused object is not a
// drawable bound to stroke data of the same name.
func (t *Tracker) SaveActive(ctx context.Context, st *domain.SessionState) (string, error) {
	focused, err := t.scene.Focused(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read focus: %w", err)
	}
	if focused == "" {
		st.ClearActive()
		return st.ActiveDrawable, nil
	}
	obj, err := t.scene.Object(ctx, focused)
	if err != nil {
		return "", fmt.Errorf("failed to read focused object: %w", err)
	}
	if obj.IsDrawable() && obj.Data == obj.Name {
		st.ActiveDrawable = obj.Name
	} else {
		st.ClearActive()
	}
	return st.ActiveDrawable, nil
}

// RemoveActive deletes the recorded drawable if it still exists and clears st.
func (t *Tracker) RemoveActive(ctx context.Context, st *domain.SessionState) error {
	if st.HasActive() {
		obj, err := t.scene.Object(ctx, st.ActiveDrawable)
		switch {
		case err == nil && obj.IsDrawable():
			if err := t.scene.DeleteObject(ctx, obj.Name); err != nil {
				return fmt.Errorf("failed to delete drawable: %w", err)
			}
		case err != nil && !errors.Is(err, domain.ErrObjectNotFound):
			return fmt.Errorf("failed to resolve active drawable: %w", err)
		}
	}
	st.ClearActive()
	return nil
}

// Select focuses the named drawable and records it in st.
func (t *Tracker) Select(ctx context.Context, st *domain.SessionState, name string) error {
	obj, err := t.scene.Object(ctx, name)
	if err != nil {
		return err
	}
	if !obj.IsDrawable() {
		return fmt.Errorf("%w: %q", domain.ErrNotDrawable, name)
	}
	if err := t.scene.Focus(ctx, name); err != nil {
		return fmt.Errorf("failed to focus drawable: %w", err)
	}
	_, err = t.SaveActive(ctx, st)
	return err
}

// Drawables lists drawable names in host order.
func (t *Tracker) Drawables(ctx context.Context) ([]string, error) {
	objs, err := t.scene.Objects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	names := []string{}
	for _, obj := range objs {
		if obj.IsDrawable() {
			names = append(names, obj.Name)
		}
	}
	return names, nil
}

// ActiveData returns the stroke data of the focused drawable.
func (t *Tracker) ActiveData(ctx context.Context) (*domain.StrokeData, error) {
	focused, err := t.scene.Focused(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read focus: %w", err)
	}
	if focused == "" {
		return nil, domain.ErrNoActiveObject
	}
	obj, err := t.scene.Object(ctx, focused)
	if err != nil {
		return nil, fmt.Errorf("failed to read focused object: %w", err)
	}
	if !obj.IsDrawable() {
		return nil, fmt.Errorf("%w: %q is a %s", domain.ErrNoActiveObject, obj.Name, obj.Kind)
	}
	data, err := t.scene.StrokeData(ctx, obj.Name)
	if errors.Is(err, domain.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %q", domain.ErrNameMismatch, obj.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stroke data: %w", err)
	}
	return data, nil
}

// LastStroke returns the most recent stroke of the focused drawable's active layer.
func (t *Tracker) LastStroke(ctx context.Context) (domain.Stroke, error) {
	data, err := t.ActiveData(ctx)
	if err != nil {
		return domain.Stroke{}, err
	}
	frame, ok := data.ActiveFrame()
	if !ok || len(frame.Strokes) == 0 {
		return domain.Stroke{}, domain.ErrNoStrokes
	}
	return frame.Strokes[len(frame.Strokes)-1], nil
}

// DeleteLastStroke removes the most recent stroke of the focused drawable's active layer.
func (t *Tracker) DeleteLastStroke(ctx context.Context) error {
	data, err := t.ActiveData(ctx)
	if err != nil {
		return err
	}
	frame, ok := data.ActiveFrame()
	if !ok || len(frame.Strokes) == 0 {
		return domain.ErrNoStrokes
	}
	frame.Strokes = frame.Strokes[:len(frame.Strokes)-1]
	if err := t.scene.SaveStrokeData(ctx, data); err != nil {
		return fmt.Errorf("failed to save stroke data: %w", err)
	}
	return nil
}

// Draw switches to stroke drawing.
func (t *Tracker) Draw(ctx context.Context) error {
	return t.switchMode(ctx, domain.ModeDraw)
}

// Edit switches to stroke editing.
func (t *Tracker) Edit(ctx context.Context) error {
	return t.switchMode(ctx, domain.ModeEditStroke)
}

// ObjectMode switches to object manipulation.
func (t *Tracker) ObjectMode(ctx context.Context) error {
	return t.switchMode(ctx, domain.ModeObject)
}

func (t *Tracker) switchMode(ctx context.Context, to domain.Mode) error {
	from, err := t.scene.Mode(ctx)
	if err != nil {
		return fmt.Errorf("failed to read mode: %w", err)
	}
	if from == to {
		return nil
	}
	if err := t.scene.SetMode(ctx, to); err != nil {
		return err
	}
	if t.observer != nil {
		t.observer(ctx, from, to)
	}
	return nil
}
