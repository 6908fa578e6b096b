package models

import (
	"errors"
	"fmt"
	"time"
)

// TimeLayout is the format used for every stored timestamp. Timestamps stay
// strings end to end; they are parsed only where an age comparison is needed.
const TimeLayout = time.RFC3339Nano

var (
	ErrMissingID = errors.New("record has no id")
)

// Record is the envelope stored for every cached entity row. Entity-specific
// attributes live in Payload and are never inspected by the cache core, only
// copied during merge.
//
// Synced=false means this exact local version has not been confirmed received
// by the server. SyncedAt is set if and only if Synced is true; the two
// change together.
type Record struct {
	ID              string `json:"id"`
	Payload         []byte `json:"payload"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
	CreatedByUserID string `json:"createdByUserId"`
	IsDeleted       bool   `json:"isDeleted"`
	DeletedAt       string `json:"deletedAt,omitempty"`
	DeletedByUserID string `json:"deletedByUserId,omitempty"`
	Synced          bool   `json:"synced"`
	SyncedAt        string `json:"syncedAt,omitempty"`
}

// FormatTime renders t in the stored timestamp layout (UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp string.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// NewLocalRecord builds a record originated by local user action. It is
// unsynced and carries no sync timestamp until the outbound driver confirms
// transmission.
func NewLocalRecord(id, userID string, payload []byte, now time.Time) (Record, error) {
	if id == "" {
		return Record{}, ErrMissingID
	}
	ts := FormatTime(now)
	return Record{
		ID:              id,
		Payload:         payload,
		CreatedAt:       ts,
		UpdatedAt:       ts,
		CreatedByUserID: userID,
		Synced:          false,
	}, nil
}

// MarkUpdated records a local edit: the updated timestamp moves and the
// record drops back to unsynced so the next outbound cycle picks it up.
func (r *Record) MarkUpdated(now time.Time) {
	r.UpdatedAt = FormatTime(now)
	r.Synced = false
	r.SyncedAt = ""
}

// MarkDeleted soft-deletes the record locally. The row stays present (and
// unsynced) until the deletion has propagated.
func (r *Record) MarkDeleted(userID string, now time.Time) {
	r.IsDeleted = true
	r.DeletedAt = FormatTime(now)
	r.DeletedByUserID = userID
	r.MarkUpdated(now)
}

// CreatedBefore reports whether the record's creation time is strictly
// before cutoff. A record created exactly at the cutoff is kept.
func (r Record) CreatedBefore(cutoff time.Time) (bool, error) {
	t, err := ParseTime(r.CreatedAt)
	if err != nil {
		return false, err
	}
	return t.Before(cutoff), nil
}

// Clone returns a deep copy of r (the payload slice is copied).
func (r Record) Clone() Record {
	out := r
	if r.Payload != nil {
		out.Payload = append([]byte(nil), r.Payload...)
	}
	return out
}
