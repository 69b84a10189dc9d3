package wrike

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AccessToken(ctx context.Context) (string, error) {
	return s.token, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(contactList{Data: []ContactRecord{{ID: "KUA"}}})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok-123"}, testLogger())
	contacts, err := client.Contacts(context.Background())
	if err != nil {
		t.Fatalf("Contacts() error: %v", err)
	}
	if gotAuth != "bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "bearer tok-123")
	}
	if len(contacts) != 1 || contacts[0].ID != "KUA" {
		t.Errorf("contacts = %+v", contacts)
	}
}

func TestClientTokenSourceError(t *testing.T) {
	client := NewClient("http://unused.invalid", staticTokens{err: errors.New("not authorized")}, testLogger())
	if _, err := client.Contacts(context.Background()); err == nil {
		t.Fatal("expected error from token source")
	}
}

func TestClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"not_authorized","errorDescription":"token expired"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok"}, testLogger())
	_, err := client.CustomFields(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Code != "not_authorized" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestClientTaskPagination(t *testing.T) {
	pages := map[string]taskList{
		"": {
			Data:          []TaskRecord{{ID: "T1"}, {ID: "T2"}},
			NextPageToken: "page2",
		},
		"page2": {
			Data:          []TaskRecord{{ID: "T3"}},
			NextPageToken: "page3",
		},
		"page3": {
			Data: []TaskRecord{{ID: "T4"}},
		},
	}

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		token := r.URL.Query().Get("nextPageToken")
		if token == "" {
			// First request carries the field selection and page size;
			// follow-ups carry only the token.
			if r.URL.Query().Get("pageSize") == "" {
				t.Error("first page request missing pageSize")
			}
		} else if r.URL.Query().Get("pageSize") != "" {
			t.Error("follow-up request should carry only nextPageToken")
		}
		json.NewEncoder(w).Encode(pages[token])
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok"}, testLogger())

	var got []string
	err := client.Tasks(context.Background(), func(page []TaskRecord) error {
		for _, task := range page {
			got = append(got, task.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Tasks() error: %v", err)
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
	want := []string{"T1", "T2", "T3", "T4"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestClientTaskPaginationStopsOnCallbackError(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(taskList{
			Data:          []TaskRecord{{ID: "T1"}},
			NextPageToken: "more",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok"}, testLogger())
	wantErr := errors.New("stop")
	err := client.Tasks(context.Background(), func(page []TaskRecord) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Tasks() error = %v, want %v", err, wantErr)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}
