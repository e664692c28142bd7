package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type generatorStub struct {
	message string
	err     error
	calls   int
}

func (s *generatorStub) Generate(ctx context.Context, name, sessionName string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.message, nil
}

type greetingCacheStub struct {
	values map[string]string
}

func (s *greetingCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if v, ok := s.values[key]; ok {
		*dest.(*string) = v
		return nil
	}
	return errors.New("miss")
}

func (s *greetingCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value.(string)
	return nil
}

func TestGreetUsesGenerator(t *testing.T) {
	gen := &generatorStub{message: "Hello Alice, glad you made it!"}
	svc := NewGreetingService(gen, nil, nil, time.Minute)

	got := svc.Greet(context.Background(), "Alice", "Briefing")
	assert.Equal(t, "Hello Alice, glad you made it!", got)
}

func TestGreetFallsBackOnError(t *testing.T) {
	gen := &generatorStub{err: errors.New("generator down")}
	svc := NewGreetingService(gen, nil, nil, time.Minute)

	got := svc.Greet(context.Background(), "Alice", "Briefing")
	assert.Equal(t, "Welcome Alice! Enjoy the session.", got)
}

func TestGreetWithoutGenerator(t *testing.T) {
	svc := NewGreetingService(nil, nil, nil, time.Minute)

	got := svc.Greet(context.Background(), "Bob", "Briefing")
	assert.Equal(t, "Welcome Bob! Enjoy the session.", got)
}

func TestGreetCachesResult(t *testing.T) {
	gen := &generatorStub{message: "Hello again!"}
	cache := &greetingCacheStub{}
	svc := NewGreetingService(gen, cache, nil, time.Minute)

	first := svc.Greet(context.Background(), "Alice", "Briefing")
	second := svc.Greet(context.Background(), "Alice", "Briefing")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.calls)
}
