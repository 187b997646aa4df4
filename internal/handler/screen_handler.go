package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"signin-screen/internal/config"
	"signin-screen/internal/domain"
	"signin-screen/internal/middleware"
	"signin-screen/internal/provider"
	"signin-screen/internal/view"
	apperrors "signin-screen/pkg/errors"
	"signin-screen/pkg/logger"
)

const (
	defaultPresentWait  = 15 * time.Second
	defaultCallbackWait = 30 * time.Second
)

// SessionController is what the screen needs from session.Controller
type SessionController interface {
	State() domain.SessionState
	BeginSignIn(ctx context.Context)
	SignOut(ctx context.Context)
}

// ScreenHandler serves the sign-in screen and drives the browser through the
// provider's consent flow.
type ScreenHandler struct {
	controller SessionController
	receiver   provider.CallbackReceiver
	logger     *logger.Logger

	// presentWait bounds how long POST /signin waits for a consent URL;
	// callbackWait bounds how long the callback waits for the sign-in to land.
	presentWait  time.Duration
	callbackWait time.Duration

	mu      sync.Mutex
	pending chan struct{}
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(controller SessionController, receiver provider.CallbackReceiver, logger *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		controller:   controller,
		receiver:     receiver,
		logger:       logger.Named("screen"),
		presentWait:  defaultPresentWait,
		callbackWait: defaultCallbackWait,
	}
}

// RegisterRoutes mounts the screen routes
func (h *ScreenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Show)
	r.Post("/signin", h.SignIn)
	r.Post("/signout", h.SignOut)
	r.Get(config.CallbackPath, h.Callback)
}

// Show handles GET /
func (h *ScreenHandler) Show(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := view.Render(&buf, view.NewModel(h.controller.State())); err != nil {
		respondError(w, r, h.logger, apperrors.NewInternalError("Failed to render screen", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WithError(err).Debug("Client went away while writing screen")
	}
}

// SignIn handles POST /signin. The sign-in runs detached from the request;
// the browser is sent to the consent URL once the provider presents it, or
// back to the screen if the attempt ends first.
func (h *ScreenHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	urls := make(chan string)
	abandoned := make(chan struct{})
	done := make(chan struct{})

	interaction := provider.InteractionFunc(func(ctx context.Context, authURL string) error {
		select {
		case urls <- authURL:
			return nil
		case <-abandoned:
			return errors.New("sign-in request stopped waiting for the consent URL")
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	ctx := provider.WithInteraction(context.WithoutCancel(r.Context()), interaction)
	go func() {
		defer close(done)
		h.controller.BeginSignIn(ctx)
	}()

	timer := time.NewTimer(h.presentWait)
	defer timer.Stop()

	select {
	case authURL := <-urls:
		h.mu.Lock()
		h.pending = done
		h.mu.Unlock()
		go func() {
			<-done
			h.clearPending(done)
		}()
		http.Redirect(w, r, authURL, http.StatusSeeOther)
	case <-done:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case <-timer.C:
		close(abandoned)
		h.logger.Warn("Provider did not present a consent screen in time")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Callback handles the provider's redirect back after the consent screen
func (h *ScreenHandler) Callback(w http.ResponseWriter, r *http.Request) {
	// A callback for a flow that already ended (timed out, superseded or
	// forged) leaves the state as it is and shows the screen.
	if err := h.receiver.ReceiveCallback(r.Context(), r.URL.Query()); err != nil {
		h.logger.WithError(err).WithField("request_id", middleware.GetRequestID(r.Context())).
			Warn("Ignoring callback without a pending sign-in")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.mu.Lock()
	done := h.pending
	h.mu.Unlock()

	if done != nil {
		timer := time.NewTimer(h.callbackWait)
		defer timer.Stop()

		select {
		case <-done:
			h.clearPending(done)
		case <-timer.C:
			h.logger.Warn("Sign-in still running after callback, showing current state")
		case <-r.Context().Done():
			return
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignOut handles POST /signout
func (h *ScreenHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.controller.SignOut(context.WithoutCancel(r.Context()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *ScreenHandler) clearPending(done chan struct{}) {
	h.mu.Lock()
	if h.pending == done {
		h.pending = nil
	}
	h.mu.Unlock()
}
