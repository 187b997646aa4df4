// Package provider defines the boundary to an external authentication
// provider. The provider owns every credential concern; callers only see the
// resulting user record or a classified error.
package provider

import (
	"context"
	"net/url"

	"signin-screen/internal/domain"
)

// Config is the static configuration handed to a provider once at startup.
type Config struct {
	ClientID      string
	OfflineAccess bool
}

// Provider is an external authentication client.
type Provider interface {
	// Configure initializes the client. Re-configuring is provider-defined.
	Configure(cfg Config) error

	// CheckPrerequisites returns nil or an error of KindPrerequisitesUnavailable.
	CheckPrerequisites(ctx context.Context) error

	// SignIn runs the interactive sign-in and blocks until the user completes
	// or abandons it.
	SignIn(ctx context.Context) (*domain.UserRecord, error)

	// SignOut ends the provider session.
	SignOut(ctx context.Context) error
}

// CallbackReceiver is implemented by providers whose external UI returns to
// the application through an HTTP redirect.
type CallbackReceiver interface {
	ReceiveCallback(ctx context.Context, query url.Values) error
}

// Interaction presents the provider's external sign-in UI to the user.
type Interaction interface {
	Present(ctx context.Context, authURL string) error
}

// InteractionFunc adapts a function to Interaction.
type InteractionFunc func(ctx context.Context, authURL string) error

// Present calls f.
func (f InteractionFunc) Present(ctx context.Context, authURL string) error {
	return f(ctx, authURL)
}

type interactionKey struct{}

// WithInteraction attaches the interaction used by SignIn calls made with ctx.
func WithInteraction(ctx context.Context, i Interaction) context.Context {
	return context.WithValue(ctx, interactionKey{}, i)
}

// InteractionFrom returns the interaction attached to ctx, if any.
func InteractionFrom(ctx context.Context) (Interaction, bool) {
	i, ok := ctx.Value(interactionKey{}).(Interaction)
	return i, ok && i != nil
}
