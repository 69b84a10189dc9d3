package wrike

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Wrike v4 API endpoint
	DefaultBaseURL = "https://www.wrike.com/api/v4"
	// DefaultTimeout is the HTTP timeout for API requests
	DefaultTimeout = 60 * time.Second

	// taskPageSize is the provider's page-size cap for task listings
	taskPageSize = 1000
)

// TokenSource supplies a bearer token for API requests.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client issues authenticated requests against the Wrike API. Requests
// are throttled client-side; Wrike enforces roughly 100 requests per
// minute per account.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a Wrike API client.
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/100), 10),
		logger:  logger,
	}
}

// APIError is a non-2xx response from the Wrike API.
type APIError struct {
	Status      int
	Code        string `json:"error"`
	Description string `json:"errorDescription"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wrike api: %d %s: %s", e.Status, e.Code, e.Description)
}

type customFieldList struct {
	Data []CustomFieldRecord `json:"data"`
}

type contactList struct {
	Data []ContactRecord `json:"data"`
}

type folderList struct {
	Data []FolderRecord `json:"data"`
}

type taskList struct {
	Data          []TaskRecord `json:"data"`
	NextPageToken string       `json:"nextPageToken"`
	ResponseSize  int          `json:"responseSize"`
}

// CustomFields fetches all custom field definitions.
func (c *Client) CustomFields(ctx context.Context) ([]CustomFieldRecord, error) {
	var out customFieldList
	if err := c.get(ctx, "/customfields", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Contacts fetches all contacts in the account.
func (c *Client) Contacts(ctx context.Context) ([]ContactRecord, error) {
	var out contactList
	if err := c.get(ctx, "/contacts", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// FolderTree fetches the flat account-wide listing of every folder and
// project. The records carry no parent or custom-field data; the sync
// uses them to guarantee every folder id exists before relations
// reference it.
func (c *Client) FolderTree(ctx context.Context) ([]FolderRecord, error) {
	var out folderList
	if err := c.get(ctx, "/folders", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Projects fetches the full project listing including parent ids and
// custom fields.
func (c *Client) Projects(ctx context.Context) ([]FolderRecord, error) {
	query := url.Values{}
	query.Set("project", "true")
	query.Set("descendants", "true")
	query.Set("fields", `["customFields"]`)
	var out folderList
	if err := c.get(ctx, "/folders", query, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Folders fetches the full plain-folder listing including parent ids and
// custom fields.
func (c *Client) Folders(ctx context.Context) ([]FolderRecord, error) {
	query := url.Values{}
	query.Set("project", "false")
	query.Set("descendants", "true")
	query.Set("fields", `["customFields"]`)
	var out folderList
	if err := c.get(ctx, "/folders", query, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Tasks fetches all tasks page by page and hands each page's batch to fn
// as it arrives, so a mid-pagination failure does not lose the pages
// already processed. Iteration stops on the first error from fn.
func (c *Client) Tasks(ctx context.Context, fn func(page []TaskRecord) error) error {
	query := url.Values{}
	query.Set("fields", `["briefDescription","parentIds","responsibleIds","customFields"]`)
	query.Set("pageSize", strconv.Itoa(taskPageSize))

	for page := 1; ; page++ {
		var out taskList
		if err := c.get(ctx, "/tasks", query, &out); err != nil {
			return fmt.Errorf("fetch task page %d: %w", page, err)
		}
		c.logger.Debug("task page fetched", "page", page, "records", len(out.Data))

		if err := fn(out.Data); err != nil {
			return err
		}

		if out.NextPageToken == "" {
			return nil
		}
		query = url.Values{}
		query.Set("nextPageToken", out.NextPageToken)
	}
}

// get issues one authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}
