// Package session holds the signed-in user for the screen and drives the
// provider's sign-in and sign-out calls.
package session

import (
	"context"
	"sync"
	"time"

	"signin-screen/internal/domain"
	"signin-screen/internal/observe"
	"signin-screen/internal/provider"
)

// Controller owns the Session State. The state changes only when a provider
// call completes: sign-in success stores the returned record, sign-out
// success clears it, and every failure leaves it as it was.
type Controller struct {
	provider provider.Provider
	recorder observe.Recorder
	now      func() time.Time

	mu   sync.RWMutex
	user *domain.UserRecord
}

// NewController creates a signed-out controller.
func NewController(p provider.Provider, recorder observe.Recorder) *Controller {
	if recorder == nil {
		recorder = observe.Multi{}
	}
	return &Controller{provider: p, recorder: recorder, now: time.Now}
}

// State returns a snapshot of the current Session State.
func (c *Controller) State() domain.SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.SessionState{User: c.user.Clone()}
}

// BeginSignIn checks the provider's prerequisites, then runs its interactive
// sign-in. Failures are recorded and otherwise ignored.
func (c *Controller) BeginSignIn(ctx context.Context) {
	start := c.now()

	if err := c.provider.CheckPrerequisites(ctx); err != nil {
		c.record(ctx, observe.ActionSignIn, err, start)
		return
	}

	user, err := c.provider.SignIn(ctx)
	if err == nil && user == nil {
		err = provider.Unknown("provider returned no user", nil)
	}
	if err != nil {
		c.record(ctx, observe.ActionSignIn, err, start)
		return
	}

	c.mu.Lock()
	c.user = user.Clone()
	c.mu.Unlock()

	c.record(ctx, observe.ActionSignIn, nil, start)
}

// SignOut asks the provider to end the session and clears the state on
// success. On failure the current user stays signed in.
func (c *Controller) SignOut(ctx context.Context) {
	start := c.now()

	if err := c.provider.SignOut(ctx); err != nil {
		c.record(ctx, observe.ActionSignOut, err, start)
		return
	}

	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()

	c.record(ctx, observe.ActionSignOut, nil, start)
}

func (c *Controller) record(ctx context.Context, action observe.Action, err error, start time.Time) {
	c.recorder.Record(ctx, observe.NewOutcome(action, err, c.now().Sub(start)))
}
