package pipeline

import (
	"context"
	"errors"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/de-tools/shadow-scope/pkg/services/discovery"
	"github.com/de-tools/shadow-scope/pkg/services/resolution"
	"github.com/de-tools/shadow-scope/pkg/services/scoring"
	"github.com/de-tools/shadow-scope/pkg/services/snapshot"
	"github.com/de-tools/shadow-scope/pkg/store/sources"
	"github.com/rs/zerolog"
)

// Service runs the full processing pass and exposes the resolution
// workflow. It is the single seam the HTTP handlers depend on.
type Service interface {
	// Processed returns the scored profiles for the current snapshot.
	// Source failures degrade to an empty result, never an error that
	// would take the serving process down.
	Processed(ctx context.Context) []domain.AppProfile
	// Events returns the raw network events behind the current snapshot.
	Events(ctx context.Context) []domain.NetworkEvent
	Resolve(ctx context.Context, appDomain string, status domain.ResolutionStatus) error
}

type service struct {
	cache    *snapshot.Cache
	workflow *resolution.Workflow
	settings scoring.ScoringSettings
}

func NewService(cache *snapshot.Cache, workflow *resolution.Workflow, settings scoring.ScoringSettings) Service {
	return &service{cache: cache, workflow: workflow, settings: settings}
}

func (s *service) Processed(ctx context.Context) []domain.AppProfile {
	snap, err := s.cache.Get(ctx, false)
	if err != nil {
		logSourceFailure(ctx, err)
		return nil
	}

	drafts := discovery.Discover(ctx, snap.Network)
	return scoring.Score(ctx, drafts, snap.KnownApps, snap.Expenses, s.settings)
}

func (s *service) Events(ctx context.Context) []domain.NetworkEvent {
	snap, err := s.cache.Get(ctx, false)
	if err != nil {
		logSourceFailure(ctx, err)
		return nil
	}
	return snap.Network
}

func (s *service) Resolve(ctx context.Context, appDomain string, status domain.ResolutionStatus) error {
	return s.workflow.Resolve(ctx, appDomain, status)
}

func logSourceFailure(ctx context.Context, err error) {
	logger := zerolog.Ctx(ctx)
	switch {
	case errors.Is(err, sources.ErrSchemaMismatch):
		logger.Warn().Err(err).Msg("schema mismatch, serving empty result")
	default:
		logger.Error().Err(err).Msg("sources unavailable, serving empty result")
	}
}
