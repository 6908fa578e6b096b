// Package remote implements the HTTP client for the server-side entity API:
// paginated collection reads, record upserts for outbound sync, login and a
// reachability probe.
//
// Collections are served as { "data": [...], "hasMore": bool } pages.
// Requests are rate limited with a token bucket so a refresh burst cannot
// flood the server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Clar17y/Football-Events-sub005/internal/client/models"
	"github.com/Clar17y/Football-Events-sub005/internal/logging"
)

// API is the surface the cache and sync layers consume. Implementations
// other than HTTPClient exist only in tests.
type API interface {
	// Login exchanges credentials for an API token.
	Login(ctx context.Context, email, password string) (string, error)

	// Ping probes server reachability.
	Ping(ctx context.Context) error

	// FetchCollection pulls the complete remote collection for an entity
	// type, following pagination. Any page failure fails the whole fetch.
	FetchCollection(ctx context.Context, entity models.EntityType) ([]json.RawMessage, error)

	// FetchDefaultLineups pulls the default lineups for one team.
	FetchDefaultLineups(ctx context.Context, teamID string) ([]json.RawMessage, error)

	// FetchMatchesSince pulls matches created at or after since.
	FetchMatchesSince(ctx context.Context, since time.Time) ([]json.RawMessage, error)

	// Push transmits one record. A nil return means the server confirmed
	// receipt; any error means the record must stay unsynced.
	Push(ctx context.Context, entity models.EntityType, rec models.Record) error
}

// TokenSource supplies the bearer token for authenticated requests. An empty
// token sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// HTTPClient is the production API implementation.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	limiter    *rate.Limiter
	log        logging.Logger
	pageSize   int
}

// NewHTTPClient creates an API client. baseURL is the API root, e.g.
// "http://localhost:3001/api/v1". pageSize bounds collection pages;
// requestsPerMinute feeds the token bucket.
func NewHTTPClient(baseURL string, pageSize, requestsPerMinute int, tokens TokenSource, log logging.Logger) *HTTPClient {
	rps := float64(requestsPerMinute) / 60.0
	return &HTTPClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(rps), pageSize/10+1),
		log:        log,
		pageSize:   pageSize,
	}
}

// page is the collection response envelope.
type page struct {
	Data    []json.RawMessage `json:"data"`
	HasMore bool              `json:"hasMore"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, truncate(respBody, 200))
	}
	return respBody, nil
}

// fetchPages follows pagination until the server signals the end: it stops
// when hasMore is false and the page came back short.
func (c *HTTPClient) fetchPages(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	var all []json.RawMessage
	for pageNum := 1; ; pageNum++ {
		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(pageNum))
		q.Set("limit", strconv.Itoa(c.pageSize))

		body, err := c.do(ctx, http.MethodGet, path, q, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", path, pageNum, err)
		}
		var p page
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode %s page %d: %w", path, pageNum, err)
		}
		all = append(all, p.Data...)
		if !p.HasMore && len(p.Data) < c.pageSize {
			return all, nil
		}
	}
}

func (c *HTTPClient) FetchCollection(ctx context.Context, entity models.EntityType) ([]json.RawMessage, error) {
	if !entity.Known() {
		return nil, fmt.Errorf("unknown entity type %q", entity)
	}
	return c.fetchPages(ctx, "/"+entity.Collection(), nil)
}

func (c *HTTPClient) FetchDefaultLineups(ctx context.Context, teamID string) ([]json.RawMessage, error) {
	return c.fetchPages(ctx, "/default-lineups/"+url.PathEscape(teamID), nil)
}

func (c *HTTPClient) FetchMatchesSince(ctx context.Context, since time.Time) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("since", models.FormatTime(since))
	return c.fetchPages(ctx, "/"+models.EntityMatch.Collection(), params)
}

func (c *HTTPClient) Push(ctx context.Context, entity models.EntityType, rec models.Record) error {
	if !entity.Known() {
		return fmt.Errorf("unknown entity type %q", entity)
	}
	doc, err := rec.WireDocument()
	if err != nil {
		return err
	}
	path := "/" + entity.Collection() + "/" + url.PathEscape(rec.ID)
	if _, err := c.do(ctx, http.MethodPut, path, nil, doc); err != nil {
		return fmt.Errorf("push %s %s: %w", entity, rec.ID, err)
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	return err
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", nil, body)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return out.Token, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}

var _ API = (*HTTPClient)(nil)
