package wrike

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"palmviz/internal/domain/models"
	"palmviz/internal/domain/repositories"
)

const (
	// DefaultAuthorizeURL is the Wrike OAuth2 consent page
	DefaultAuthorizeURL = "https://www.wrike.com/oauth2/authorize"

	// oauthScopes are the read-only scopes the dashboard needs
	oauthScopes = "amReadOnlyGroup,wsReadOnly,amReadOnlyUser"
)

// Authenticator runs the OAuth2 authorization-code exchange and stores
// the resulting token set as the designated account's credentials.
type Authenticator struct {
	creds        repositories.CredentialsRepository
	account      string
	clientID     string
	clientSecret string
	authorizeURL string
	tokenURL     string
	httpClient   *http.Client
	now          func() time.Time
	logger       *slog.Logger
}

// NewAuthenticator creates an authenticator for the given account.
func NewAuthenticator(creds repositories.CredentialsRepository, account, clientID, clientSecret, authorizeURL, tokenURL string, logger *slog.Logger) *Authenticator {
	if authorizeURL == "" {
		authorizeURL = DefaultAuthorizeURL
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &Authenticator{
		creds:        creds,
		account:      account,
		clientID:     clientID,
		clientSecret: clientSecret,
		authorizeURL: authorizeURL,
		tokenURL:     tokenURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now:    time.Now,
		logger: logger,
	}
}

// AuthorizeURL builds the provider consent-page URL the operator is
// redirected to in step one of the setup flow.
func (a *Authenticator) AuthorizeURL(redirectURI string) string {
	query := url.Values{}
	query.Set("client_id", a.clientID)
	query.Set("response_type", "code")
	query.Set("redirect_uri", redirectURI)
	query.Set("scope", oauthScopes)
	return a.authorizeURL + "?" + query.Encode()
}

// Exchange trades the authorization code from the consent redirect for a
// token set and upserts it as the account's credentials.
func (a *Authenticator) Exchange(ctx context.Context, code, redirectURI string) error {
	form := url.Values{}
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	tok, err := requestToken(ctx, a.httpClient, a.tokenURL, form)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	creds := &models.Credentials{
		Account:      a.account,
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		LastFetched:  a.now(),
	}
	if err := a.creds.Upsert(ctx, creds); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}

	a.logger.Info("wrike account authorized", "account", a.account)
	return nil
}
