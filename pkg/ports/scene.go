package ports

import (
	"context"

	"github.com/aretw0/workplane/pkg/domain"
)

// Scene is the host application as seen by the controller.
// Implementations return copies; mutations go through UpdateObject and SaveStrokeData.
type Scene interface {
	// Objects lists all objects in host enumeration order.
	Objects(ctx context.Context) ([]*domain.Object, error)

	// Object returns the named object or domain.ErrObjectNotFound.
	Object(ctx context.Context, name string) (*domain.Object, error)

	// CreateDrawable adds a drawable and stroke data under the same name and focuses it.
	CreateDrawable(ctx context.Context, name string, transform domain.Transform) (*domain.Object, error)

	// CreatePlane adds a unit plane mesh and focuses it.
	CreatePlane(ctx context.Context, name string, transform domain.Transform) (*domain.Object, error)

	// UpdateObject replaces transform, modifiers, locks and display flags of an existing object.
	UpdateObject(ctx context.Context, obj *domain.Object) error

	// DeleteObject removes an object and, for drawables, its stroke data.
	DeleteObject(ctx context.Context, name string) error

	// StrokeData returns the stroke data block with the given name or domain.ErrObjectNotFound.
	StrokeData(ctx context.Context, name string) (*domain.StrokeData, error)

	// SaveStrokeData replaces an existing stroke data block.
	SaveStrokeData(ctx context.Context, data *domain.StrokeData) error

	// Focused returns the name of the focused object, or "" if none.
	Focused(ctx context.Context) (string, error)

	// Focus makes the named object the focused one. An empty name clears focus.
	Focus(ctx context.Context, name string) error

	// Mode returns the current interaction mode.
	Mode(ctx context.Context) (domain.Mode, error)

	// SetMode switches the interaction mode. Stroke modes require a focused drawable.
	SetMode(ctx context.Context, mode domain.Mode) error

	// ConfigureView applies viewport settings.
	ConfigureView(ctx context.Context, view domain.ViewSettings) error
}
