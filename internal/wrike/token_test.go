package wrike

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"palmviz/internal/domain"
	"palmviz/internal/domain/models"
)

type fakeCredsRepo struct {
	stored  *models.Credentials
	upserts int
}

func (r *fakeCredsRepo) Get(ctx context.Context, account string) (*models.Credentials, error) {
	if r.stored == nil || r.stored.Account != account {
		return nil, fmt.Errorf("credentials for %q: %w", account, domain.ErrNotFound)
	}
	cred := *r.stored
	return &cred, nil
}

func (r *fakeCredsRepo) Upsert(ctx context.Context, creds *models.Credentials) error {
	r.upserts++
	stored := *creds
	r.stored = &stored
	return nil
}

func newTestRefresher(repo *fakeCredsRepo, tokenURL string, now time.Time) *Refresher {
	r := NewRefresher(repo, "palm", "client-id", "client-secret", tokenURL, testLogger())
	r.now = func() time.Time { return now }
	return r
}

func TestAccessTokenFreshTokenNoRefresh(t *testing.T) {
	var refreshCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
	}))
	defer server.Close()

	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeCredsRepo{stored: &models.Credentials{
		Account:     "palm",
		AccessToken: "fresh-token",
		LastFetched: now.Add(-30 * time.Minute),
	}}

	token, err := newTestRefresher(repo, server.URL, now).AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error: %v", err)
	}
	if token != "fresh-token" {
		t.Errorf("token = %q, want fresh-token", token)
	}
	if refreshCalls != 0 {
		t.Errorf("refresh calls = %d, want 0", refreshCalls)
	}
	if repo.upserts != 0 {
		t.Errorf("upserts = %d, want 0", repo.upserts)
	}
}

func TestAccessTokenStaleTokenRefreshed(t *testing.T) {
	var refreshCalls int
	var gotGrant, gotRefreshToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		r.ParseForm()
		gotGrant = r.PostFormValue("grant_type")
		gotRefreshToken = r.PostFormValue("refresh_token")
		io.WriteString(w, `{"access_token":"new-token","refresh_token":"new-refresh","token_type":"bearer","expires_in":3600}`)
	}))
	defer server.Close()

	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeCredsRepo{stored: &models.Credentials{
		Account:      "palm",
		AccessToken:  "old-token",
		RefreshToken: "old-refresh",
		LastFetched:  now.Add(-2 * time.Hour),
	}}

	token, err := newTestRefresher(repo, server.URL, now).AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error: %v", err)
	}
	if token != "new-token" {
		t.Errorf("token = %q, want new-token", token)
	}
	if refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshCalls)
	}
	if gotGrant != "refresh_token" || gotRefreshToken != "old-refresh" {
		t.Errorf("grant = %q refresh_token = %q", gotGrant, gotRefreshToken)
	}
	if repo.stored.AccessToken != "new-token" {
		t.Errorf("stored access token = %q", repo.stored.AccessToken)
	}
	if !repo.stored.LastFetched.Equal(now) {
		t.Errorf("stored LastFetched = %v, want %v", repo.stored.LastFetched, now)
	}
	// The stored refresh token stays as issued during setup.
	if repo.stored.RefreshToken != "old-refresh" {
		t.Errorf("stored refresh token = %q, want old-refresh", repo.stored.RefreshToken)
	}
}

func TestAccessTokenJustUnderStaleThreshold(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("refresh should not be attempted")
	}))
	defer server.Close()

	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeCredsRepo{stored: &models.Credentials{
		Account:     "palm",
		AccessToken: "still-good",
		LastFetched: now.Add(-3539 * time.Second),
	}}

	token, err := newTestRefresher(repo, server.URL, now).AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error: %v", err)
	}
	if token != "still-good" {
		t.Errorf("token = %q", token)
	}
}

func TestAccessTokenRefreshFailureReturnsStoredToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"invalid_grant","error_description":"refresh token revoked"}`)
	}))
	defer server.Close()

	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeCredsRepo{stored: &models.Credentials{
		Account:      "palm",
		AccessToken:  "stale-token",
		RefreshToken: "revoked",
		LastFetched:  now.Add(-2 * time.Hour),
	}}

	token, err := newTestRefresher(repo, server.URL, now).AccessToken(context.Background())
	if err != nil {
		t.Fatalf("a failed refresh should not error here, got: %v", err)
	}
	if token != "stale-token" {
		t.Errorf("token = %q, want the stored stale token", token)
	}
	if repo.upserts != 0 {
		t.Errorf("store should be untouched after a failed refresh, upserts = %d", repo.upserts)
	}
}

func TestAccessTokenNoCredentials(t *testing.T) {
	repo := &fakeCredsRepo{}
	_, err := newTestRefresher(repo, "http://unused.invalid", time.Now()).AccessToken(context.Background())
	if !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("error = %v, want ErrNotAuthorized", err)
	}
}
