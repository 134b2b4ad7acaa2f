package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"nft-gate.backend/internal/domain/entities"
	"nft-gate.backend/internal/infrastructure/jobs"
	"nft-gate.backend/pkg/utils"
)

type verificationServiceMock struct {
	mock.Mock
}

func (m *verificationServiceMock) CreateSession(ctx context.Context, input *entities.CreateSessionInput) (*entities.SessionChallenge, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SessionChallenge), args.Error(1)
}

func (m *verificationServiceMock) FindByToken(ctx context.Context, token string) (*entities.VerificationSession, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VerificationSession), args.Error(1)
}

func (m *verificationServiceMock) Verify(ctx context.Context, token string, input *entities.VerifySessionInput) (*entities.VerificationResult, error) {
	args := m.Called(ctx, token, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VerificationResult), args.Error(1)
}

type guildAdminServiceMock struct {
	mock.Mock
}

func (m *guildAdminServiceMock) ListRules(ctx context.Context, communityID string) ([]*entities.GuildRule, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GuildRule), args.Error(1)
}

func (m *guildAdminServiceMock) CreateRule(ctx context.Context, communityID string, input *entities.CreateGuildRuleInput) (*entities.GuildRule, error) {
	args := m.Called(ctx, communityID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildRule), args.Error(1)
}

func (m *guildAdminServiceMock) DeleteRule(ctx context.Context, communityID string, id uuid.UUID) error {
	args := m.Called(ctx, communityID, id)
	return args.Error(0)
}

func (m *guildAdminServiceMock) ListHolders(ctx context.Context, communityID string, p utils.PaginationParams) ([]*entities.UserVerificationState, utils.PaginationMeta, error) {
	args := m.Called(ctx, communityID, p)
	if args.Get(0) == nil {
		return nil, utils.PaginationMeta{}, args.Error(2)
	}
	return args.Get(0).([]*entities.UserVerificationState), args.Get(1).(utils.PaginationMeta), args.Error(2)
}

type cycleRunnerMock struct {
	mock.Mock
}

func (m *cycleRunnerMock) RunCycle(ctx context.Context) (*jobs.CycleReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.CycleReport), args.Error(1)
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch v := body.(type) {
		case string:
			buf.WriteString(v)
		default:
			_ = json.NewEncoder(&buf).Encode(v)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
