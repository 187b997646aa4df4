package google

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"

	"signin-screen/internal/domain"
	"signin-screen/internal/provider"
	"signin-screen/pkg/logger"
)

const (
	defaultDiscoveryURL = "https://accounts.google.com/.well-known/openid-configuration"
	defaultRevokeURL    = "https://oauth2.googleapis.com/revoke"
	defaultFlowTimeout  = 5 * time.Minute

	// errorAccessDenied is what Google sends back when the user declines consent.
	errorAccessDenied = "access_denied"
)

// ErrUnknownState is returned for a callback that matches no pending flow.
var ErrUnknownState = errors.New("google: callback state does not match a pending sign-in")

// Options holds settings that are not part of the provider Config record.
// Endpoint, DiscoveryURL, RevokeURL and UserInfoEndpoint are overridable for tests.
type Options struct {
	ClientSecret    string
	RedirectURL     string
	RevokeOnSignOut bool
	FlowTimeout     time.Duration

	Endpoint         oauth2.Endpoint
	DiscoveryURL     string
	RevokeURL        string
	UserInfoEndpoint string

	HTTPClient *http.Client
	Logger     *logger.Logger
}

type callbackResult struct {
	code    string
	errCode string
	errDesc string
}

type flow struct {
	state    string
	verifier string
	result   chan callbackResult
}

// Provider signs users in with Google using the authorization-code flow with PKCE.
type Provider struct {
	opts       Options
	httpClient *http.Client
	log        *logger.Logger

	mu    sync.Mutex
	oauth *oauth2.Config
	cfg   provider.Config
	flow  *flow
	token *oauth2.Token
}

var (
	_ provider.Provider         = (*Provider)(nil)
	_ provider.CallbackReceiver = (*Provider)(nil)
)

// New creates an unconfigured Google provider.
func New(opts Options) *Provider {
	if opts.Endpoint.AuthURL == "" {
		opts.Endpoint = oauthgoogle.Endpoint
	}
	if opts.DiscoveryURL == "" {
		opts.DiscoveryURL = defaultDiscoveryURL
	}
	if opts.RevokeURL == "" {
		opts.RevokeURL = defaultRevokeURL
	}
	if opts.FlowTimeout <= 0 {
		opts.FlowTimeout = defaultFlowTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Provider{
		opts:       opts,
		httpClient: httpClient,
		log:        log.Named("google"),
	}
}

// Configure builds the OAuth client. Calling it again replaces the previous
// configuration; a flow already in progress keeps the config it started with.
func (p *Provider) Configure(cfg provider.Config) error {
	if strings.TrimSpace(cfg.ClientID) == "" {
		return errors.New("google: client ID is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.cfg = cfg
	p.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: p.opts.ClientSecret,
		RedirectURL:  p.opts.RedirectURL,
		Endpoint:     p.opts.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	p.log.WithFields(map[string]interface{}{
		"offline_access": cfg.OfflineAccess,
		"redirect_url":   p.opts.RedirectURL,
	}).Info("Google provider configured")
	return nil
}

// CheckPrerequisites verifies the provider is configured and Google's OpenID
// discovery document is reachable.
func (p *Provider) CheckPrerequisites(ctx context.Context) error {
	p.mu.Lock()
	configured := p.oauth != nil
	p.mu.Unlock()

	if !configured {
		return provider.PrerequisitesUnavailable("provider is not configured", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.opts.DiscoveryURL, nil)
	if err != nil {
		return provider.PrerequisitesUnavailable("build discovery request", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return provider.PrerequisitesUnavailable("Google sign-in services unreachable", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return provider.PrerequisitesUnavailable(fmt.Sprintf("discovery returned status %d", resp.StatusCode), nil)
	}
	return nil
}

// SignIn presents the consent URL through the interaction attached to ctx and
// waits for ReceiveCallback. Only one flow runs at a time.
func (p *Provider) SignIn(ctx context.Context) (*domain.UserRecord, error) {
	p.mu.Lock()
	if p.oauth == nil {
		p.mu.Unlock()
		return nil, provider.PrerequisitesUnavailable("provider is not configured", nil)
	}
	if p.flow != nil {
		p.mu.Unlock()
		return nil, provider.InProgress()
	}
	f := &flow{
		state:    uuid.NewString(),
		verifier: oauth2.GenerateVerifier(),
		result:   make(chan callbackResult, 1),
	}
	p.flow = f
	oauthCfg := p.oauth
	offline := p.cfg.OfflineAccess
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if p.flow == f {
			p.flow = nil
		}
		p.mu.Unlock()
	}()

	authOpts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(f.verifier)}
	if offline {
		authOpts = append(authOpts, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	}
	authURL := oauthCfg.AuthCodeURL(f.state, authOpts...)

	if err := p.present(ctx, authURL); err != nil {
		return nil, provider.Unknown("present consent screen", err)
	}

	timer := time.NewTimer(p.opts.FlowTimeout)
	defer timer.Stop()

	var res callbackResult
	select {
	case res = <-f.result:
	case <-timer.C:
		return nil, provider.Cancelled("sign-in flow timed out")
	case <-ctx.Done():
		return nil, provider.Cancelled("sign-in flow abandoned")
	}

	if res.errCode != "" {
		if res.errCode == errorAccessDenied {
			return nil, provider.Cancelled(errorAccessDenied)
		}
		return nil, provider.Unknown(strings.TrimSpace(res.errCode+" "+res.errDesc), nil)
	}

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := oauthCfg.Exchange(exchangeCtx, res.code, oauth2.VerifierOption(f.verifier))
	if err != nil {
		return nil, provider.Unknown("token exchange", err)
	}

	record, err := p.buildRecord(exchangeCtx, oauthCfg, tok)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.token = tok
	p.mu.Unlock()

	p.log.WithFields(map[string]interface{}{
		"user_id":     record.User.ID,
		"has_refresh": tok.RefreshToken != "",
		"scopes":      record.Scopes,
		"has_photo":   record.User.Photo != nil,
	}).Info("Google sign-in completed")

	return record, nil
}

func (p *Provider) present(ctx context.Context, authURL string) error {
	if i, ok := provider.InteractionFrom(ctx); ok {
		return i.Present(ctx, authURL)
	}
	p.log.WithField("auth_url", authURL).Info("Open this URL in a browser to continue signing in")
	return nil
}

// ReceiveCallback hands the redirect query of a finished consent screen to
// the pending flow with the same state.
func (p *Provider) ReceiveCallback(_ context.Context, query url.Values) error {
	state := query.Get("state")

	p.mu.Lock()
	f := p.flow
	p.mu.Unlock()

	if f == nil || state == "" || subtle.ConstantTimeCompare([]byte(state), []byte(f.state)) != 1 {
		return ErrUnknownState
	}

	res := callbackResult{
		code:    query.Get("code"),
		errCode: query.Get("error"),
		errDesc: query.Get("error_description"),
	}
	if res.code == "" && res.errCode == "" {
		res.errCode = "missing_code"
	}

	select {
	case f.result <- res:
		return nil
	default:
		return errors.New("google: callback already received for this sign-in")
	}
}

// SignOut forgets the held token. With RevokeOnSignOut the token is revoked
// first and kept if revocation fails.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	tok := p.token
	p.mu.Unlock()

	if p.opts.RevokeOnSignOut && tok != nil {
		if err := p.revoke(ctx, tok); err != nil {
			return provider.Unknown("revoke token", err)
		}
	}

	p.mu.Lock()
	if p.token == tok {
		p.token = nil
	}
	p.mu.Unlock()

	p.log.WithField("revoked", p.opts.RevokeOnSignOut && tok != nil).Info("Google sign-out completed")
	return nil
}

func (p *Provider) revoke(ctx context.Context, tok *oauth2.Token) error {
	value := tok.RefreshToken
	if value == "" {
		value = tok.AccessToken
	}

	form := url.Values{"token": {value}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("revocation returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
