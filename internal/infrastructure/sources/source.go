// Package sources talks to external NFT indexers and throttles access to them.
package sources

import (
	"context"
	"errors"

	"nft-gate.backend/internal/domain/entities"
)

// ErrThrottled is returned by a source when the provider rejected the call for
// rate reasons. RateLimitedSource retries it.
var ErrThrottled = errors.New("source throttled")

// AssetSource lists the assets a wallet currently owns on one provider.
//
// page is 1-based. Sources without paging return everything on page 1 with
// HasMore false. collection is a hint; callers filter again.
type AssetSource interface {
	ID() entities.SourceID
	FetchPage(ctx context.Context, wallet, collection string, page int) (*entities.SourcePage, error)
}
