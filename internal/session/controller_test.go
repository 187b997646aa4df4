package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"signin-screen/internal/domain"
	"signin-screen/internal/provider"
)

func jane() *domain.UserRecord {
	return &domain.UserRecord{
		User: domain.UserProfile{
			ID:    "1001",
			Name:  domain.StringPtr("Jane"),
			Email: domain.StringPtr("jane@x.com"),
		},
	}
}

func TestController_InitiallySignedOut(t *testing.T) {
	c := NewController(&MockProvider{}, nil)
	assert.False(t, c.State().SignedIn())
}

func TestController_BeginSignIn_Success(t *testing.T) {
	p := &MockProvider{}
	p.On("CheckPrerequisites", mock.Anything).Return(nil)
	p.On("SignIn", mock.Anything).Return(jane(), nil)
	rec := &recorderStub{}

	c := NewController(p, rec)
	c.BeginSignIn(context.Background())

	state := c.State()
	require.True(t, state.SignedIn())
	assert.Equal(t, jane(), state.User)
	assert.Equal(t, []string{"sign_in:success"}, rec.results())
	p.AssertExpectations(t)
}

func TestController_BeginSignIn_FailuresLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		prereq   error
		signIn   error
		expected string
	}{
		{"cancelled", nil, provider.Cancelled("access_denied"), "sign_in:cancelled"},
		{"in progress", nil, provider.InProgress(), "sign_in:in_progress"},
		{"prerequisites at sign-in", nil, provider.PrerequisitesUnavailable("x", nil), "sign_in:prerequisites_unavailable"},
		{"unknown", nil, errors.New("socket closed"), "sign_in:unknown"},
		{"prerequisite check fails", provider.PrerequisitesUnavailable("discovery down", nil), nil, "sign_in:prerequisites_unavailable"},
	}

	for _, tt := range tests {
		for _, signedIn := range []bool{false, true} {
			name := tt.name + "/signed out"
			if signedIn {
				name = tt.name + "/signed in"
			}
			t.Run(name, func(t *testing.T) {
				p := &MockProvider{}
				rec := &recorderStub{}
				c := NewController(p, rec)
				if signedIn {
					c.user = jane()
				}
				before := c.State()

				p.On("CheckPrerequisites", mock.Anything).Return(tt.prereq)
				if tt.prereq == nil {
					p.On("SignIn", mock.Anything).Return(nil, tt.signIn)
				}

				c.BeginSignIn(context.Background())

				assert.Equal(t, before, c.State())
				assert.Equal(t, []string{tt.expected}, rec.results())
				if tt.prereq != nil {
					p.AssertNotCalled(t, "SignIn", mock.Anything)
				}
			})
		}
	}
}

func TestController_BeginSignIn_NilUserIsUnknown(t *testing.T) {
	p := &MockProvider{}
	p.On("CheckPrerequisites", mock.Anything).Return(nil)
	p.On("SignIn", mock.Anything).Return(nil, nil)
	rec := &recorderStub{}

	c := NewController(p, rec)
	c.BeginSignIn(context.Background())

	assert.False(t, c.State().SignedIn())
	assert.Equal(t, []string{"sign_in:unknown"}, rec.results())
}

func TestController_SignOut(t *testing.T) {
	t.Run("success clears state", func(t *testing.T) {
		p := &MockProvider{}
		p.On("SignOut", mock.Anything).Return(nil)
		rec := &recorderStub{}

		c := NewController(p, rec)
		c.user = jane()
		c.SignOut(context.Background())

		assert.False(t, c.State().SignedIn())
		assert.Equal(t, []string{"sign_out:success"}, rec.results())
	})

	t.Run("failure retains user", func(t *testing.T) {
		p := &MockProvider{}
		p.On("SignOut", mock.Anything).Return(provider.Unknown("revoke token", errors.New("400")))
		rec := &recorderStub{}

		c := NewController(p, rec)
		c.user = jane()
		c.SignOut(context.Background())

		assert.Equal(t, jane(), c.State().User)
		assert.Equal(t, []string{"sign_out:unknown"}, rec.results())
	})

	t.Run("signed out already", func(t *testing.T) {
		p := &MockProvider{}
		p.On("SignOut", mock.Anything).Return(nil)

		c := NewController(p, nil)
		c.SignOut(context.Background())

		assert.False(t, c.State().SignedIn())
	})
}

func TestController_StateIsASnapshot(t *testing.T) {
	p := &MockProvider{}
	p.On("CheckPrerequisites", mock.Anything).Return(nil)
	returned := jane()
	p.On("SignIn", mock.Anything).Return(returned, nil)

	c := NewController(p, nil)
	c.BeginSignIn(context.Background())

	*returned.User.Name = "Mutated by provider"
	snapshot := c.State()
	*snapshot.User.User.Name = "Mutated by caller"

	assert.Equal(t, "Jane", *c.State().User.User.Name)
}

func TestController_ConcurrentReadsDuringSignIn(t *testing.T) {
	release := make(chan time.Time)
	p := &MockProvider{}
	p.On("CheckPrerequisites", mock.Anything).Return(nil)
	p.On("SignIn", mock.Anything).WaitUntil(release).Return(jane(), nil)

	c := NewController(p, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.BeginSignIn(context.Background())
	}()

	for i := 0; i < 50; i++ {
		assert.False(t, c.State().SignedIn())
	}
	close(release)
	wg.Wait()

	assert.True(t, c.State().SignedIn())
}
