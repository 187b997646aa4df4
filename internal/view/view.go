// Package view renders the sign-in screen as a pure function of the
// Session State.
package view

import (
	"embed"
	"html/template"
	"io"

	"signin-screen/internal/domain"
)

const (
	PlaceholderName  = "User"
	PlaceholderEmail = "No email"

	Prompt       = "Sign in with Google below:"
	SignInLabel  = "Sign In with Google"
	SignOutLabel = "Sign Out"
)

//go:embed templates/*.html
var templateFS embed.FS

var screen = template.Must(template.ParseFS(templateFS, "templates/screen.html"))

// Model is everything the screen template needs.
type Model struct {
	SignedIn bool

	Prompt      string
	SignInLabel string

	Welcome      string
	EmailLine    string
	PhotoURL     string
	SignOutLabel string
}

// NewModel maps a Session State to the screen model. Missing name and email
// fall back to placeholders; a missing photo leaves PhotoURL empty.
func NewModel(state domain.SessionState) Model {
	if !state.SignedIn() {
		return Model{Prompt: Prompt, SignInLabel: SignInLabel}
	}

	u := state.User.User
	m := Model{
		SignedIn:     true,
		Welcome:      "Welcome, " + orDefault(u.Name, PlaceholderName),
		EmailLine:    "Email: " + orDefault(u.Email, PlaceholderEmail),
		SignOutLabel: SignOutLabel,
	}
	if u.Photo != nil {
		m.PhotoURL = *u.Photo
	}
	return m
}

// Render writes the screen for m.
func Render(w io.Writer, m Model) error {
	return screen.ExecuteTemplate(w, "screen.html", m)
}

func orDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
