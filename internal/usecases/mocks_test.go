package usecases_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"nft-gate.backend/internal/domain/entities"
)

// Mock GuildRuleRepository
type MockGuildRuleRepository struct {
	mock.Mock
}

func (m *MockGuildRuleRepository) ListByGuild(ctx context.Context, communityID string) ([]*entities.GuildRule, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GuildRule), args.Error(1)
}

func (m *MockGuildRuleRepository) Create(ctx context.Context, rule *entities.GuildRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockGuildRuleRepository) Delete(ctx context.Context, communityID string, id uuid.UUID) error {
	args := m.Called(ctx, communityID, id)
	return args.Error(0)
}

// Mock UserVerificationRepository
type MockUserVerificationRepository struct {
	mock.Mock
}

func (m *MockUserVerificationRepository) Upsert(ctx context.Context, state *entities.UserVerificationState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockUserVerificationRepository) GetByIdentity(ctx context.Context, identityID, communityID string) (*entities.UserVerificationState, error) {
	args := m.Called(ctx, identityID, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserVerificationState), args.Error(1)
}

func (m *MockUserVerificationRepository) ListByCommunity(ctx context.Context, communityID string, limit, offset int) ([]*entities.UserVerificationState, int64, error) {
	args := m.Called(ctx, communityID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.UserVerificationState), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserVerificationRepository) SelectForReverification(ctx context.Context, policy entities.ReverificationPolicy) ([]entities.ReverificationCandidate, error) {
	args := m.Called(ctx, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ReverificationCandidate), args.Error(1)
}

// Mock RolePlatform
type MockRolePlatform struct {
	mock.Mock
}

func (m *MockRolePlatform) MemberRoles(ctx context.Context, communityID, memberID string) ([]string, error) {
	args := m.Called(ctx, communityID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRolePlatform) AddRole(ctx context.Context, communityID, memberID, roleID string) error {
	args := m.Called(ctx, communityID, memberID, roleID)
	return args.Error(0)
}

func (m *MockRolePlatform) RemoveRole(ctx context.Context, communityID, memberID, roleID string) error {
	args := m.Called(ctx, communityID, memberID, roleID)
	return args.Error(0)
}

// Mock AssetDiscoverer
type MockAssetDiscoverer struct {
	mock.Mock
}

func (m *MockAssetDiscoverer) Discover(ctx context.Context, wallet, collectionScope string) (*entities.DiscoveryResult, error) {
	args := m.Called(ctx, wallet, collectionScope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiscoveryResult), args.Error(1)
}

// Mock RoleSynchronizer
type MockRoleSynchronizer struct {
	mock.Mock
}

func (m *MockRoleSynchronizer) Apply(ctx context.Context, communityID, memberID string, grants, revokes []string) (*entities.RoleSyncReport, error) {
	args := m.Called(ctx, communityID, memberID, grants, revokes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RoleSyncReport), args.Error(1)
}

// scriptedSource serves fixed pages and optionally fails at a page.
type scriptedSource struct {
	id     entities.SourceID
	pages  [][]entities.SourceAsset
	failAt int
	err    error

	mu     sync.Mutex
	scopes []string
}

func (s *scriptedSource) ID() entities.SourceID { return s.id }

func (s *scriptedSource) FetchPage(_ context.Context, _ string, collection string, page int) (*entities.SourcePage, error) {
	s.mu.Lock()
	s.scopes = append(s.scopes, collection)
	s.mu.Unlock()

	if s.err != nil && page >= s.failAt {
		return nil, s.err
	}
	if page > len(s.pages) {
		return &entities.SourcePage{}, nil
	}
	return &entities.SourcePage{
		Items:   s.pages[page-1],
		HasMore: page < len(s.pages),
	}, nil
}

func asset(id, collection string, attrs ...entities.Attribute) entities.SourceAsset {
	return entities.SourceAsset{
		ID:          id,
		Name:        "Item " + id,
		Collections: []string{collection},
		Attributes:  attrs,
	}
}

func reconciled(n int, collection string) []entities.ReconciledAsset {
	out := make([]entities.ReconciledAsset, n)
	for i := range out {
		id := uuid.NewString()
		out[i] = entities.ReconciledAsset{AssetID: id, Key: id, Collections: []string{collection}}
	}
	return out
}
