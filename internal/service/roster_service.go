package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
)

const rosterCacheKey = "roster:all"

type rosterSource interface {
	ListAll(ctx context.Context) ([]models.Participant, error)
}

type rosterFallback interface {
	Load() ([]models.Participant, error)
	Replace(data []byte) (int, error)
}

type rosterCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RosterService provides read-only participant lookups. The remote source
// is preferred; when it is unreachable the service degrades to the
// admin-uploaded local file, and cache failures degrade to source reads.
type RosterService struct {
	source   rosterSource
	fallback rosterFallback
	cache    rosterCache
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewRosterService constructs the service. Source and cache may be nil.
func NewRosterService(source rosterSource, fallback rosterFallback, cache rosterCache, logger *zap.Logger, cacheTTL time.Duration) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &RosterService{
		source:   source,
		fallback: fallback,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// List returns the full roster.
func (s *RosterService) List(ctx context.Context) ([]models.Participant, error) {
	if s.cache != nil {
		var cached []models.Participant
		if err := s.cache.Get(ctx, rosterCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("roster cache read failed", zap.Error(err))
		}
	}

	participants, err := s.loadFromSource(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rosterCacheKey, participants, s.cacheTTL); err != nil {
			s.logger.Warn("roster cache write failed", zap.Error(err))
		}
	}
	return participants, nil
}

// Names returns the sorted unique participant names for the kiosk picker.
func (s *RosterService) Names(ctx context.Context) ([]string, error) {
	participants, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(participants))
	names := make([]string, 0, len(participants))
	for _, p := range participants {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Lookup returns the first participant with the given name, or nil when
// the name is not on the roster (a walk-in, not an error).
func (s *RosterService) Lookup(ctx context.Context, name string) (*models.Participant, error) {
	participants, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range participants {
		if participants[i].Name == name {
			return &participants[i], nil
		}
	}
	return nil, nil
}

// ReplaceFallback installs an uploaded roster file and drops the cache.
func (s *RosterService) ReplaceFallback(ctx context.Context, data []byte) (int, error) {
	if s.fallback == nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no roster fallback configured")
	}
	count, err := s.fallback.Replace(data)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster upload")
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, rosterCacheKey); err != nil {
			s.logger.Warn("roster cache invalidation failed", zap.Error(err))
		}
	}
	return count, nil
}

func (s *RosterService) loadFromSource(ctx context.Context) ([]models.Participant, error) {
	if s.source != nil {
		participants, err := s.source.ListAll(ctx)
		if err == nil {
			return participants, nil
		}
		s.logger.Warn("remote roster unavailable, using local fallback", zap.Error(err))
	}

	if s.fallback == nil {
		return nil, nil
	}
	participants, err := s.fallback.Load()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster fallback")
	}
	return participants, nil
}
