package usecases

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"nft-gate.backend/internal/domain/entities"
	"nft-gate.backend/internal/infrastructure/sources"
	"nft-gate.backend/pkg/logger"
)

// DefaultMaxPages bounds how far a paged source is drained
const DefaultMaxPages = 10

// DiscoveryUsecase finds the assets a wallet holds across all configured
// sources and merges them into one deduplicated set.
type DiscoveryUsecase struct {
	sources  []sources.AssetSource
	maxPages int
}

// NewDiscoveryUsecase creates a discovery usecase. srcs are in merge priority order.
func NewDiscoveryUsecase(srcs []sources.AssetSource, maxPages int) *DiscoveryUsecase {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &DiscoveryUsecase{sources: srcs, maxPages: maxPages}
}

type sourceOutcome struct {
	items []entities.SourceAsset
	err   error
}

// Discover queries every source concurrently and reconciles the results.
// A failing source is reported in PerSource and never aborts the others.
func (u *DiscoveryUsecase) Discover(ctx context.Context, wallet, collectionScope string) (*entities.DiscoveryResult, error) {
	outcomes := make([]sourceOutcome, len(u.sources))

	var g errgroup.Group
	for i, src := range u.sources {
		i, src := i, src
		g.Go(func() error {
			items, err := u.drain(ctx, src, wallet, collectionScope)
			outcomes[i] = sourceOutcome{items: items, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &entities.DiscoveryResult{
		Assets:    []entities.ReconciledAsset{},
		PerSource: make(map[entities.SourceID]entities.SourceReport, len(u.sources)),
	}

	index := make(map[string]int)
	for i, src := range u.sources {
		id := src.ID()
		out := outcomes[i]

		perSource := make(map[string]bool)
		for _, item := range out.items {
			if collectionScope != "" && !inCollections(item.Collections, collectionScope) {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(item.ID))
			if key == "" || perSource[key] {
				continue
			}
			perSource[key] = true

			if pos, ok := index[key]; ok {
				mergeInto(&result.Assets[pos], item, id)
				continue
			}
			index[key] = len(result.Assets)
			result.Assets = append(result.Assets, newReconciled(key, item, id))
		}

		report := entities.SourceReport{Count: len(perSource)}
		if out.err != nil {
			report.Error = out.err.Error()
			logger.Warn(ctx, "Asset source failed",
				zap.String("source", string(id)),
				zap.String("wallet", wallet),
				zap.Int("partial_count", len(perSource)),
				zap.Error(out.err),
			)
		}
		result.PerSource[id] = report
	}

	return result, nil
}

// drain pages through src until it runs out or maxPages is reached. Items
// fetched before a failure are returned with the error.
func (u *DiscoveryUsecase) drain(ctx context.Context, src sources.AssetSource, wallet, collection string) ([]entities.SourceAsset, error) {
	var items []entities.SourceAsset
	for page := 1; page <= u.maxPages; page++ {
		res, err := src.FetchPage(ctx, wallet, collection, page)
		if err != nil {
			return items, err
		}
		items = append(items, res.Items...)
		if !res.HasMore {
			break
		}
	}
	return items, nil
}

func newReconciled(key string, item entities.SourceAsset, id entities.SourceID) entities.ReconciledAsset {
	a := entities.ReconciledAsset{
		AssetID:     strings.TrimSpace(item.ID),
		Key:         key,
		DisplayName: item.Name,
		Attributes:  item.Attributes,
		Sources:     []entities.SourceID{id},
	}
	addCollections(&a, item.Collections)
	return a
}

// mergeInto folds a later source's view into an existing asset. The first
// non-empty name and attribute list win.
func mergeInto(a *entities.ReconciledAsset, item entities.SourceAsset, id entities.SourceID) {
	if !a.HasSource(id) {
		a.Sources = append(a.Sources, id)
	}
	if a.DisplayName == "" {
		a.DisplayName = item.Name
	}
	if len(a.Attributes) == 0 && len(item.Attributes) > 0 {
		a.Attributes = item.Attributes
	}
	addCollections(a, item.Collections)
}

func addCollections(a *entities.ReconciledAsset, collections []string) {
	for _, c := range collections {
		if c == "" || a.InCollection(c) {
			continue
		}
		a.Collections = append(a.Collections, c)
		if a.CollectionID == "" {
			a.CollectionID = c
		}
	}
}

func inCollections(collections []string, want string) bool {
	for _, c := range collections {
		if strings.EqualFold(c, want) {
			return true
		}
	}
	return false
}
