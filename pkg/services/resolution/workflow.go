package resolution

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/rs/zerolog"
)

// ErrInvalidStatus indicates the requested resolution value is not one
// of the accepted statuses.
var ErrInvalidStatus = errors.New("invalid resolution status")

// Registry persists resolution updates into the known-apps store.
type Registry interface {
	UpdateResolution(ctx context.Context, appDomain string, status domain.ResolutionStatus) error
}

// Invalidator drops the cached source snapshot after a successful write.
type Invalidator interface {
	Invalidate()
}

// Workflow validates and applies administrator resolution overrides.
type Workflow struct {
	registry Registry
	cache    Invalidator
}

func NewWorkflow(registry Registry, cache Invalidator) *Workflow {
	return &Workflow{registry: registry, cache: cache}
}

// Resolve persists the new resolution status for appDomain and then
// invalidates the snapshot cache so the next processing pass observes
// the change. A failed write leaves the cache untouched: readers keep
// seeing the stale but consistent snapshot.
func (w *Workflow) Resolve(ctx context.Context, appDomain string, status domain.ResolutionStatus) error {
	if appDomain == "" {
		return fmt.Errorf("%w: missing domain", ErrInvalidStatus)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := w.registry.UpdateResolution(ctx, appDomain, status); err != nil {
		return err
	}

	w.cache.Invalidate()
	zerolog.Ctx(ctx).Info().
		Str("domain", appDomain).
		Str("resolution", string(status)).
		Msg("resolution applied, snapshot invalidated")
	return nil
}
