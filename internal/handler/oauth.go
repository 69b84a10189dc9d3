package handler

import (
	"log/slog"
	"net/http"

	"palmviz/internal/httputil"
	"palmviz/internal/wrike"
)

// OAuthHandler glues the two-step OAuth2 setup flow to the Wrike
// authenticator: redirect to the consent page, then exchange the code
// from the redirect for a stored token set.
type OAuthHandler struct {
	auth   *wrike.Authenticator
	logger *slog.Logger
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(auth *wrike.Authenticator, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// Authorize forwards the operator to the provider consent page
// GET /oauth2/authorize
func (h *OAuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.auth.AuthorizeURL(callbackURI(r)), http.StatusFound)
}

// Callback exchanges the authorization code for credentials
// GET /oauth2/callback?code=...
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		httputil.RespondError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	if err := h.auth.Exchange(r.Context(), code, callbackURI(r)); err != nil {
		h.logger.Error("authorization code exchange failed", "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// callbackURI rebuilds the redirect_uri the provider was given; it must
// match between the authorize and exchange steps.
func callbackURI(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/oauth2/callback"
}
