package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"signin-screen/internal/domain"
	"signin-screen/internal/observe"
	"signin-screen/internal/provider"
)

// MockProvider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Configure(cfg provider.Config) error {
	args := m.Called(cfg)
	return args.Error(0)
}

func (m *MockProvider) CheckPrerequisites(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProvider) SignIn(ctx context.Context) (*domain.UserRecord, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*domain.UserRecord)
	return user, args.Error(1)
}

func (m *MockProvider) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type recorderStub struct {
	outcomes []observe.Outcome
}

func (r *recorderStub) Record(_ context.Context, o observe.Outcome) {
	r.outcomes = append(r.outcomes, o)
}

func (r *recorderStub) results() []string {
	out := make([]string, 0, len(r.outcomes))
	for _, o := range r.outcomes {
		out = append(out, o.Field())
	}
	return out
}
