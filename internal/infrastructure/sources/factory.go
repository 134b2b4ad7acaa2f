package sources

import (
	"fmt"
	"strings"
	"time"

	"nft-gate.backend/internal/config"
	"nft-gate.backend/internal/domain/entities"
)

// NewFromConfig builds the rate limited sources in configured priority order.
// Sources without an endpoint are skipped.
func NewFromConfig(src config.SourcesConfig, rl config.RateLimitConfig, cache ResponseCache) ([]AssetSource, error) {
	limits := RateLimitConfig{
		MaxRequestsPerSecond: rl.MaxRequestsPerSecond,
		BatchSize:            rl.BatchSize,
		CacheTTL:             rl.CacheTTL,
		RetryDelay:           rl.RetryDelay,
		MaxRetries:           rl.MaxRetries,
		FetchTimeout:         fetchTimeout(src.HTTPTimeout, rl),
	}

	var out []AssetSource
	seen := make(map[entities.SourceID]bool)
	for _, name := range src.Priority {
		id := entities.SourceID(strings.ToLower(strings.TrimSpace(name)))
		if seen[id] {
			continue
		}
		seen[id] = true

		var inner AssetSource
		switch id {
		case SourceDAS:
			if src.DASURL == "" {
				continue
			}
			inner = NewDASClient(src.DASURL, src.PageSize, src.HTTPTimeout)
		case SourceMagicEden:
			if src.MagicEdenURL == "" {
				continue
			}
			inner = NewMagicEdenClient(src.MagicEdenURL, src.MagicEdenAPIKey, src.PageSize, src.HTTPTimeout)
		default:
			return nil, fmt.Errorf("unknown asset source %q", name)
		}
		out = append(out, NewRateLimitedSource(inner, limits, cache))
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no asset source configured")
	}
	return out, nil
}

// fetchTimeout covers every attempt of one page fetch plus the waits between them.
func fetchTimeout(httpTimeout time.Duration, rl config.RateLimitConfig) time.Duration {
	if httpTimeout <= 0 {
		return 0
	}
	retries := rl.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return httpTimeout*time.Duration(retries+1) + rl.RetryDelay*time.Duration(retries)
}
