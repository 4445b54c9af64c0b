// Package cache provides caching for computed draw plans and rendered
// artifacts.
//
// Rendering the same dataset with the same options always produces the same
// plan and artifacts, so both are safe to cache keyed by a hash of the
// inputs. The CLI uses a file cache under the user cache dir; the HTTP
// service uses Redis; tests use the null cache.
package cache

import (
	"context"
	"time"
)

// TTLs for the two cached value classes. Plans are small and cheap to keep;
// artifacts (PNG bytes especially) are larger and expire sooner.
const (
	PlanTTL     = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Cache stores opaque byte values under string keys with per-entry TTLs.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// PlanKeyOpts are the render options that affect the computed plan.
type PlanKeyOpts struct {
	Width     float64
	Height    float64
	Seed      float64
	SortKey   string
	SortDir   string
	CatColumn int
	CntColumn int
}

// ArtifactKeyOpts are the options that affect a rendered artifact beyond
// the plan itself. PNGScale changes the raster bytes without changing the
// plan, so it must be part of the key.
type ArtifactKeyOpts struct {
	Format   string
	PNGScale float64
}

// Keyer generates cache keys for the cached value classes.
type Keyer interface {
	// PlanKey generates a key for a computed draw plan from the dataset
	// hash and the options that shape the plan.
	PlanKey(datasetHash string, opts PlanKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact from the plan
	// hash and the output format.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates keys by hashing the inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlanKey implements Keyer.
func (k *DefaultKeyer) PlanKey(datasetHash string, opts PlanKeyOpts) string {
	return hashKey("plan", datasetHash, opts)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}
