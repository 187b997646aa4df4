package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"signin-screen/internal/domain"
	apperrors "signin-screen/pkg/errors"
	"signin-screen/pkg/logger"
)

// StateReader exposes the current Session State
type StateReader interface {
	State() domain.SessionState
}

// TallyReader exposes the persisted outcome counters
type TallyReader interface {
	Tallies(ctx context.Context) (map[string]int64, error)
}

// APIHandler serves JSON views of the session and its outcomes
type APIHandler struct {
	state   StateReader
	tallies TallyReader
	logger  *logger.Logger
}

// NewAPIHandler creates a new API handler. tallies may be nil when no
// outcome store is configured.
func NewAPIHandler(state StateReader, tallies TallyReader, logger *logger.Logger) *APIHandler {
	return &APIHandler{
		state:   state,
		tallies: tallies,
		logger:  logger.Named("api"),
	}
}

// SessionResponse is the JSON form of the Session State
type SessionResponse struct {
	SignedIn bool          `json:"signed_in"`
	User     *UserResponse `json:"user,omitempty"`
}

// UserResponse is the JSON form of a signed-in User Record. The ID token
// itself is never returned.
type UserResponse struct {
	ID         string   `json:"id"`
	Name       *string  `json:"name,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Photo      *string  `json:"photo,omitempty"`
	GivenName  *string  `json:"given_name,omitempty"`
	FamilyName *string  `json:"family_name,omitempty"`
	Scopes     []string `json:"scopes"`
	HasIDToken bool     `json:"has_id_token"`
}

// RegisterRoutes mounts the API routes
func (h *APIHandler) RegisterRoutes(r chi.Router) {
	r.Get("/session", h.Session)
	r.Get("/outcomes", h.Outcomes)
}

// Session handles GET /api/session
func (h *APIHandler) Session(w http.ResponseWriter, r *http.Request) {
	state := h.state.State()

	resp := SessionResponse{SignedIn: state.SignedIn()}
	if u := state.User; u != nil {
		scopes := u.Scopes
		if scopes == nil {
			scopes = []string{}
		}
		resp.User = &UserResponse{
			ID:         u.User.ID,
			Name:       u.User.Name,
			Email:      u.User.Email,
			Photo:      u.User.Photo,
			GivenName:  u.User.GivenName,
			FamilyName: u.User.FamilyName,
			Scopes:     scopes,
			HasIDToken: u.IDToken != nil,
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, h.logger, http.StatusOK, resp)
}

// Outcomes handles GET /api/outcomes
func (h *APIHandler) Outcomes(w http.ResponseWriter, r *http.Request) {
	if h.tallies == nil {
		respondError(w, r, h.logger, apperrors.NewUnavailableError("Outcome store not configured", nil))
		return
	}

	tallies, err := h.tallies.Tallies(r.Context())
	if err != nil {
		respondError(w, r, h.logger, apperrors.NewUnavailableError("Outcome store not available", err))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, tallies)
}
