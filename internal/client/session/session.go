// Package session persists the API token in the cache database's metadata
// table and answers the IsAuthenticated question the refresh entry point
// gates on.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Clar17y/Football-Events-sub005/internal/dbx"
)

const tokenKey = "api_token"

// Session holds the current API token. It is safe for concurrent use; the
// token is cached in memory and written through to the metadata table.
type Session struct {
	db    dbx.DBTX
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

// New creates a session backed by the given database handle and loads any
// previously stored token.
func New(ctx context.Context, db dbx.DBTX) (*Session, error) {
	s := &Session{db: db, now: time.Now}
	token, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.token = token
	return s, nil
}

func (s *Session) load(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key=?`, tokenKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session token: %w", err)
	}
	return value, nil
}

// SetToken stores a freshly issued token.
func (s *Session) SetToken(ctx context.Context, token string) error {
	query := `INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, query, tokenKey, token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear forgets the stored token (logout).
func (s *Session) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key=?`, tokenKey); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Token returns the current token ("" when logged out). Implements
// remote.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserID returns the subject claim of the stored token, for record
// provenance. Empty when logged out or when the token carries no subject.
func (s *Session) UserID() string {
	token := s.Token()
	if token == "" {
		return ""
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// IsAuthenticated reports whether a token is present and, when the token is
// a JWT with an expiry claim, not yet expired. The signature is not checked
// here; only the server can verify it, and an expired token is the common
// local failure mode worth catching before a refresh.
func (s *Session) IsAuthenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		// Opaque (non-JWT) tokens count as authenticated; the server
		// rejects them if they are stale.
		return true
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(s.now())
}
