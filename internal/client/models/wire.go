package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// wireEnvelope is the subset of a remote entity document the cache core
// reads. Everything else in the document is opaque and travels inside
// Record.Payload untouched.
type wireEnvelope struct {
	ID              string `json:"id"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
	CreatedByUserID string `json:"createdByUserId"`
	IsDeleted       bool   `json:"isDeleted"`
	DeletedAt       string `json:"deletedAt"`
	DeletedByUserID string `json:"deletedByUserId"`
}

// FromRemote maps one remote entity document into a local record. The whole
// document is kept as the payload; the envelope fields are extracted copies.
// Records ingested from the server are synced by definition, with SyncedAt
// stamped at ingestion time.
//
// Validation happens here, at the boundary: a document without an id is
// rejected rather than stored.
func FromRemote(doc json.RawMessage, now time.Time) (Record, error) {
	var env wireEnvelope
	if err := json.Unmarshal(doc, &env); err != nil {
		return Record{}, fmt.Errorf("decode remote record: %w", err)
	}
	if env.ID == "" {
		return Record{}, ErrMissingID
	}
	createdAt := env.CreatedAt
	if createdAt == "" {
		createdAt = FormatTime(now)
	}
	updatedAt := env.UpdatedAt
	if updatedAt == "" {
		updatedAt = createdAt
	}
	return Record{
		ID:              env.ID,
		Payload:         append([]byte(nil), doc...),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
		CreatedByUserID: env.CreatedByUserID,
		IsDeleted:       env.IsDeleted,
		DeletedAt:       env.DeletedAt,
		DeletedByUserID: env.DeletedByUserID,
		Synced:          true,
		SyncedAt:        FormatTime(now),
	}, nil
}

// WireDocument renders the record as the JSON document the remote API
// accepts: the payload attributes merged with the envelope fields. Envelope
// values win over stale copies inside the payload. Sync flags are local
// bookkeeping and never leave the device.
func (r Record) WireDocument() (json.RawMessage, error) {
	doc := map[string]any{}
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, &doc); err != nil {
			return nil, fmt.Errorf("decode payload for %s: %w", r.ID, err)
		}
	}
	doc["id"] = r.ID
	doc["createdAt"] = r.CreatedAt
	doc["updatedAt"] = r.UpdatedAt
	doc["createdByUserId"] = r.CreatedByUserID
	doc["isDeleted"] = r.IsDeleted
	if r.DeletedAt != "" {
		doc["deletedAt"] = r.DeletedAt
	}
	if r.DeletedByUserID != "" {
		doc["deletedByUserId"] = r.DeletedByUserID
	}
	delete(doc, "synced")
	delete(doc, "syncedAt")

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", r.ID, err)
	}
	return b, nil
}
