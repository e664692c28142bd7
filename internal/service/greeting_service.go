package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type greetingGenerator interface {
	Generate(ctx context.Context, name, sessionName string) (string, error)
}

type greetingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// GreetingService wraps the external generator behind a deterministic
// fallback. Greet never fails and never blocks the correctness of a
// check-in; the worst case is the canned phrase.
type GreetingService struct {
	generator greetingGenerator
	cache     greetingCache
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewGreetingService constructs the service. Generator and cache may be nil.
func NewGreetingService(generator greetingGenerator, cache greetingCache, logger *zap.Logger, cacheTTL time.Duration) *GreetingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &GreetingService{generator: generator, cache: cache, logger: logger, cacheTTL: cacheTTL}
}

// Greet returns a welcome line for the attendee, falling back to a fixed
// phrase on any failure.
func (s *GreetingService) Greet(ctx context.Context, name, sessionName string) string {
	fallback := fmt.Sprintf("Welcome %s! Enjoy the session.", name)
	if s.generator == nil {
		return fallback
	}

	key := "greeting:" + name + "|" + sessionName
	if s.cache != nil {
		var cached string
		if err := s.cache.Get(ctx, key, &cached); err == nil && cached != "" {
			return cached
		}
	}

	message, err := s.generator.Generate(ctx, name, sessionName)
	if err != nil {
		s.logger.Debug("greeting generation failed, using fallback", zap.String("name", name), zap.Error(err))
		return fallback
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, message, s.cacheTTL); err != nil {
			s.logger.Debug("greeting cache write failed", zap.Error(err))
		}
	}
	return message
}
