package sources

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/pkg/logger"
	"nft-gate.backend/pkg/metrics"
	"nft-gate.backend/pkg/utils"
)

// RateLimitConfig holds the throttling knobs of one wrapped source
type RateLimitConfig struct {
	MaxRequestsPerSecond float64
	// BatchSize bounds concurrent in-flight requests to the provider.
	BatchSize  int
	CacheTTL   time.Duration
	RetryDelay time.Duration
	MaxRetries int
	// FetchTimeout bounds one shared upstream fetch including its retries.
	// Zero leaves it to the inner client's own timeout.
	FetchTimeout time.Duration
}

// RateLimitedSource wraps an AssetSource with a token bucket, a concurrency
// bound, request coalescing, a positive-result cache and throttle retries.
type RateLimitedSource struct {
	inner   AssetSource
	cfg     RateLimitConfig
	limiter *rate.Limiter
	slots   chan struct{}
	group   singleflight.Group
	cache   ResponseCache

	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimitedSource wraps inner. cache may be nil.
func NewRateLimitedSource(inner AssetSource, cfg RateLimitConfig, cache ResponseCache) *RateLimitedSource {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	limit := rate.Inf
	if cfg.MaxRequestsPerSecond > 0 {
		limit = rate.Limit(cfg.MaxRequestsPerSecond)
	}

	return &RateLimitedSource{
		inner:   inner,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, cfg.BatchSize),
		slots:   make(chan struct{}, cfg.BatchSize),
		cache:   cache,
		sleep:   utils.SleepContext,
	}
}

func (s *RateLimitedSource) ID() entities.SourceID {
	return s.inner.ID()
}

// FetchPage returns a cached page or fetches it through the limiter.
// Concurrent calls for the same page share one upstream request. The shared
// request is detached from any single caller, so a caller that gives up does
// not fail the others waiting on it.
func (s *RateLimitedSource) FetchPage(ctx context.Context, wallet, collection string, page int) (*entities.SourcePage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := s.cacheKey(wallet, collection, page)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			metrics.SourceCacheHits.WithLabelValues(string(s.ID())).Inc()
			return cached, nil
		}
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if s.cfg.FetchTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, s.cfg.FetchTimeout)
			defer cancel()
		}

		result, err := s.fetchWithRetry(fetchCtx, wallet, collection, page)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(fetchCtx, key, result, s.cfg.CacheTTL)
		}
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entities.SourcePage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *RateLimitedSource) fetchWithRetry(ctx context.Context, wallet, collection string, page int) (*entities.SourcePage, error) {
	source := string(s.ID())
	for attempt := 0; ; attempt++ {
		result, err := s.fetchOnce(ctx, wallet, collection, page)
		if err == nil {
			metrics.SourceRequests.WithLabelValues(source, "ok").Inc()
			return result, nil
		}
		if ctx.Err() != nil {
			metrics.SourceRequests.WithLabelValues(source, "error").Inc()
			return nil, fmt.Errorf("%w: %s: %w", domainerrors.ErrSourceUnavailable, source, ctx.Err())
		}

		if errors.Is(err, ErrThrottled) {
			metrics.SourceRequests.WithLabelValues(source, "throttled").Inc()
			if attempt < s.cfg.MaxRetries {
				logger.Warn(ctx, "Source throttled, retrying",
					zap.String("source", source),
					zap.Int("attempt", attempt+1),
					zap.Duration("retry_delay", s.cfg.RetryDelay),
				)
				if err := s.sleep(ctx, s.cfg.RetryDelay); err != nil {
					return nil, fmt.Errorf("%w: %s: %w", domainerrors.ErrSourceUnavailable, source, err)
				}
				continue
			}
			return nil, fmt.Errorf("%w: %s throttled after %d attempts: %w",
				domainerrors.ErrSourceUnavailable, source, attempt+1, err)
		}

		metrics.SourceRequests.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("%w: %s: %w", domainerrors.ErrSourceUnavailable, source, err)
	}
}

func (s *RateLimitedSource) fetchOnce(ctx context.Context, wallet, collection string, page int) (*entities.SourcePage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-s.slots }()

	start := time.Now()
	result, err := s.inner.FetchPage(ctx, wallet, collection, page)
	metrics.SourceLatency.WithLabelValues(string(s.ID())).Observe(time.Since(start).Seconds())
	if err == nil && result == nil {
		result = &entities.SourcePage{}
	}
	return result, err
}

func (s *RateLimitedSource) cacheKey(wallet, collection string, page int) string {
	return string(s.ID()) + ":" + wallet + ":" + collection + ":" + strconv.Itoa(page)
}
