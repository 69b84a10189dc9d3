package wrike

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"palmviz/internal/domain"
	"palmviz/internal/domain/repositories"
)

// DefaultTokenURL is the Wrike OAuth2 token endpoint
const DefaultTokenURL = "https://www.wrike.com/oauth2/token"

// staleAfter is how old an access token may get before a refresh grant
// is attempted: one hour minus one minute, matching the provider's
// one-hour token lifetime.
const staleAfter = 3540 * time.Second

// Refresher is a TokenSource backed by the stored credentials of one
// designated API account. It refreshes the access token via the OAuth2
// refresh-token grant once it is staleAfter old. A failed refresh is
// logged and the stored (possibly stale) token is returned; the next
// API call surfaces the real authorization failure.
type Refresher struct {
	creds        repositories.CredentialsRepository
	account      string
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	now          func() time.Time
	logger       *slog.Logger
}

// NewRefresher creates a token refresher for the given account.
func NewRefresher(creds repositories.CredentialsRepository, account, clientID, clientSecret, tokenURL string, logger *slog.Logger) *Refresher {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &Refresher{
		creds:        creds,
		account:      account,
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now:    time.Now,
		logger: logger,
	}
}

// AccessToken implements TokenSource.
func (r *Refresher) AccessToken(ctx context.Context) (string, error) {
	cred, err := r.creds.Get(ctx, r.account)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: complete the OAuth2 setup first", domain.ErrNotAuthorized)
		}
		return "", err
	}

	if r.now().Sub(cred.LastFetched) < staleAfter {
		return cred.AccessToken, nil
	}

	form := url.Values{}
	form.Set("client_id", r.clientID)
	form.Set("client_secret", r.clientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", cred.RefreshToken)

	tok, err := requestToken(ctx, r.httpClient, r.tokenURL, form)
	if err != nil {
		r.logger.Warn("access token refresh failed, using stored token",
			"account", r.account,
			"error", err,
		)
		return cred.AccessToken, nil
	}

	cred.AccessToken = tok.AccessToken
	cred.LastFetched = r.now()
	if err := r.creds.Upsert(ctx, cred); err != nil {
		r.logger.Warn("persist refreshed token failed", "account", r.account, "error", err)
	}

	return cred.AccessToken, nil
}

// tokenResponse is the provider's token-endpoint payload, for both the
// authorization-code and refresh-token grants.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// requestToken posts a form-encoded grant to the token endpoint. A
// payload with a non-empty "error" field counts as a failure.
func requestToken(ctx context.Context, client *http.Client, tokenURL string, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST token endpoint: %w", err)
	}
	defer resp.Body.Close()

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tok.Error != "" {
		return nil, fmt.Errorf("token grant rejected: %s: %s", tok.Error, tok.ErrorDescription)
	}

	return &tok, nil
}
