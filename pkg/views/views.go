// Package views stores named chart configurations.
//
// A view is a saved set of render options — columns, sort, seed, captions —
// addressed by name, so a chart can be re-rendered with the same settings
// against fresh data. The CLI keeps views as JSON files under the user
// config dir; the HTTP service keeps them in MongoDB.
package views

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/plotforge/barchart/pkg/errors"
	"github.com/plotforge/barchart/pkg/pipeline"
)

// View is one saved chart configuration.
type View struct {
	ID        string           `json:"id" bson:"_id"`
	Name      string           `json:"name" bson:"name"`
	Config    pipeline.Options `json:"config" bson:"config"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" bson:"updated_at"`
}

// New creates a view with a fresh ID and timestamps.
func New(name string, config pipeline.Options) *View {
	now := time.Now().UTC()
	return &View{
		ID:        uuid.NewString(),
		Name:      name,
		Config:    config,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store persists views by name.
type Store interface {
	// Get retrieves a view. Returns a VIEW_NOT_FOUND error when the name
	// is unknown.
	Get(ctx context.Context, name string) (*View, error)

	// Put creates or replaces the view with v.Name. On replace the
	// original ID and CreatedAt are kept and UpdatedAt advances.
	Put(ctx context.Context, v *View) error

	// Delete removes a view. Deleting an unknown name is a
	// VIEW_NOT_FOUND error.
	Delete(ctx context.Context, name string) error

	// List returns all views sorted by name.
	List(ctx context.Context) ([]*View, error)

	// Close releases store resources.
	Close(ctx context.Context) error
}

// NotFound constructs the standard error for a missing view.
func NotFound(name string) error {
	return errors.New(errors.ErrCodeViewNotFound, "view %q not found", name)
}
