package location

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tmacready/daybreak/internal/domain/almanac"
	"github.com/tmacready/daybreak/internal/logger"
)

// Provider supplies fresh geographic fixes. Failures are classified with the
// almanac taxonomy: ErrPermissionDenied, ErrPositionUnavailable, ErrTimeout.
type Provider interface {
	// GetFix requests a fresh fix from the underlying positioning source.
	GetFix(ctx context.Context) (almanac.LocationFix, error)
}

// Resolver supplies a location fix with a time-boxed cache fallback. It owns
// the single process-wide cached fix; only the resolver writes it, and every
// engine within a briefing reads through Resolve.
type Resolver struct {
	// provider is the positioning source.
	provider Provider
	// maxAge is how long a cached fix stays usable.
	maxAge time.Duration
	// now supplies the current time; overridable for tests.
	now func() time.Time

	// mu protects the cached fix.
	mu sync.Mutex
	// cached is the last fresh fix, nil until the first success.
	cached *almanac.LocationFix
}

// Option configures Resolver behaviour.
type Option func(*Resolver)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// errProviderRequired is returned when no positioning provider is supplied.
var errProviderRequired = errors.New("location provider must be provided")

// NewResolver creates a resolver over the provider with the given cache max age.
func NewResolver(provider Provider, maxAge time.Duration, opts ...Option) (*Resolver, error) {
	if provider == nil {
		return nil, errProviderRequired
	}

	r := &Resolver{
		provider: provider,
		maxAge:   maxAge,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Resolve returns a usable fix: a fresh one when the provider succeeds,
// otherwise the cached fix if it has not exceeded its max age. An expired
// cache entry is never returned; with no fresh fix and no valid cache the
// provider's failure is surfaced.
func (r *Resolver) Resolve(ctx context.Context) (almanac.LocationFix, error) {
	fix, err := r.provider.GetFix(ctx)
	if err == nil {
		if !fix.Valid() {
			return almanac.LocationFix{}, fmt.Errorf("provider fix out of range: %w", almanac.ErrPositionUnavailable)
		}

		r.mu.Lock()
		promoted := fix
		r.cached = &promoted
		r.mu.Unlock()

		return fix, nil
	}

	r.mu.Lock()
	cached := r.cached
	r.mu.Unlock()

	if cached != nil && !cached.ExpiredAt(r.now(), r.maxAge) {
		logger.WarnKV(ctx, "Fresh fix unavailable, using cached location",
			"age", r.now().Sub(cached.CapturedAt).String(), "error", err)

		return *cached, nil
	}

	return almanac.LocationFix{}, fmt.Errorf("resolve location: %w", err)
}
