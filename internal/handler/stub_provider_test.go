package handler

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"signin-screen/internal/domain"
	"signin-screen/internal/provider"
)

const stubAuthURL = "https://accounts.example.com/o/oauth2/auth?state=s1"

// stubProvider presents stubAuthURL and completes when a callback with
// state=s1 arrives.
type stubProvider struct {
	mu         sync.Mutex
	prereqErr  error
	prereqGate chan struct{}
	signOutErr error
	user       *domain.UserRecord
	presentErr error

	callbacks chan url.Values
	finished  chan struct{}
}

func newStubProvider(user *domain.UserRecord) *stubProvider {
	return &stubProvider{
		user:      user,
		callbacks: make(chan url.Values, 1),
		finished:  make(chan struct{}, 1),
	}
}

func (s *stubProvider) Configure(provider.Config) error { return nil }

func (s *stubProvider) CheckPrerequisites(context.Context) error {
	if s.prereqGate != nil {
		<-s.prereqGate
	}
	return s.prereqErr
}

func (s *stubProvider) SignIn(ctx context.Context) (*domain.UserRecord, error) {
	defer func() { s.finished <- struct{}{} }()

	if i, ok := provider.InteractionFrom(ctx); ok {
		if err := i.Present(ctx, stubAuthURL); err != nil {
			s.mu.Lock()
			s.presentErr = err
			s.mu.Unlock()
			return nil, provider.Unknown("present consent screen", err)
		}
	}

	select {
	case q := <-s.callbacks:
		if q.Get("error") == "access_denied" {
			return nil, provider.Cancelled("access_denied")
		}
		return s.user, nil
	case <-ctx.Done():
		return nil, provider.Cancelled("abandoned")
	}
}

func (s *stubProvider) ReceiveCallback(_ context.Context, q url.Values) error {
	if q.Get("state") != "s1" {
		return errors.New("unknown state")
	}
	select {
	case s.callbacks <- q:
		return nil
	default:
		return errors.New("callback already delivered")
	}
}

func (s *stubProvider) SignOut(context.Context) error {
	return s.signOutErr
}

func (s *stubProvider) getPresentErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentErr
}
