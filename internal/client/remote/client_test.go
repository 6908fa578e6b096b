package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clar17y/Football-Events-sub005/internal/client/models"
	"github.com/Clar17y/Football-Events-sub005/internal/logging"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, handler http.Handler, token string) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 2, 6000, staticToken(token), testLogger())
}

func pageBody(ids []string, hasMore bool) string {
	docs := make([]json.RawMessage, len(ids))
	for i, id := range ids {
		docs[i] = json.RawMessage(fmt.Sprintf(`{"id":%q}`, id))
	}
	b, _ := json.Marshal(map[string]any{"data": docs, "hasMore": hasMore})
	return string(b)
}

func TestFetchCollection_FollowsPagination(t *testing.T) {
	var pagesServed []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/teams", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("limit"))
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		switch page {
		case "1":
			fmt.Fprint(w, pageBody([]string{"T1", "T2"}, true))
		case "2":
			fmt.Fprint(w, pageBody([]string{"T3"}, false))
		default:
			t.Fatalf("unexpected page %s", page)
		}
	})

	c := newTestClient(t, handler, "")
	docs, err := c.FetchCollection(context.Background(), models.EntityTeam)
	require.NoError(t, err)

	assert.Len(t, docs, 3)
	assert.Equal(t, []string{"1", "2"}, pagesServed)
}

func TestFetchCollection_StopsOnShortPageWithoutHasMore(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, pageBody([]string{"T1"}, false))
	})

	c := newTestClient(t, handler, "")
	docs, err := c.FetchCollection(context.Background(), models.EntityTeam)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, 1, calls)
}

func TestFetchCollection_LaterPageFailureFailsWholeFetch(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, pageBody([]string{"T1", "T2"}, true))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	c := newTestClient(t, handler, "")
	_, err := c.FetchCollection(context.Background(), models.EntityTeam)
	require.Error(t, err, "partial pagination success is still a failed fetch")
	assert.Contains(t, err.Error(), "page 2")
}

func TestFetchCollection_SendsBearerToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		fmt.Fprint(w, pageBody(nil, false))
	})

	c := newTestClient(t, handler, "tok-123")
	_, err := c.FetchCollection(context.Background(), models.EntityTeam)
	require.NoError(t, err)
}

func TestFetchDefaultLineups_PerTeamPath(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/default-lineups/T9", r.URL.Path)
		fmt.Fprint(w, pageBody([]string{"DL1"}, false))
	})

	c := newTestClient(t, handler, "")
	docs, err := c.FetchDefaultLineups(context.Background(), "T9")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestFetchMatchesSince_SendsSinceParam(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/matches", r.URL.Path)
		assert.Equal(t, models.FormatTime(since), r.URL.Query().Get("since"))
		fmt.Fprint(w, pageBody([]string{"M1"}, false))
	})

	c := newTestClient(t, handler, "")
	docs, err := c.FetchMatchesSince(context.Background(), since)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestPush_PutsWireDocument(t *testing.T) {
	var received map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/events/E1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	})

	c := newTestClient(t, handler, "")
	rec, err := models.NewLocalRecord("E1", "u1", []byte(`{"id":"E1","kind":"goal"}`), time.Now())
	require.NoError(t, err)

	require.NoError(t, c.Push(context.Background(), models.EntityEvent, rec))
	assert.Equal(t, "E1", received["id"])
	assert.Equal(t, "goal", received["kind"])
	assert.NotContains(t, received, "synced")
}

func TestPush_NonSuccessStatusIsError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"validation failed"}`, http.StatusUnprocessableEntity)
	})

	c := newTestClient(t, handler, "")
	rec, err := models.NewLocalRecord("E1", "u1", []byte(`{"id":"E1"}`), time.Now())
	require.NoError(t, err)

	err = c.Push(context.Background(), models.EntityEvent, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestLogin(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "pw" {
			http.Error(w, "nope", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"token":"tok-1"}`)
	})

	c := newTestClient(t, handler, "")

	token, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	_, err = c.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	c := newTestClient(t, handler, "")
	require.NoError(t, c.Ping(context.Background()))
}
