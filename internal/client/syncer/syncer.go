// Package syncer implements the outbound sync driver: it discovers unsynced
// records and attempts delivery to the server, flipping sync flags only on
// confirmed success.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Clar17y/Football-Events-sub005/internal/client/models"
	"github.com/Clar17y/Football-Events-sub005/internal/client/remote"
	"github.com/Clar17y/Football-Events-sub005/internal/client/store"
	"github.com/Clar17y/Football-Events-sub005/internal/logging"
)

// Result summarizes one outbound cycle.
type Result struct {
	Pushed int
	Failed int
}

// Syncer pushes locally-originated records upstream.
type Syncer struct {
	store store.Store
	api   remote.API
	log   logging.Logger
}

func New(st store.Store, api remote.API, log logging.Logger) *Syncer {
	return &Syncer{store: st, api: api, log: log}
}

// SyncPending scans every entity table for unsynced records and attempts to
// transmit each. On confirmed success the record is marked synced. On any
// failure (network, server rejection, anything) the stored row is left
// byte-identical so the next cycle retries it. There is no separate failed
// state.
//
// Store-level errors are collected and joined; push failures are reported
// only through Result.Failed, since staying unsynced is their whole
// handling.
func (s *Syncer) SyncPending(ctx context.Context) (Result, error) {
	var res Result
	var errs []error

	for _, entity := range models.AllTypes() {
		recs, err := s.store.GetUnsynced(ctx, entity)
		if err != nil {
			s.log.Error(ctx, "unsynced scan failed", "entity", string(entity), "error", err)
			errs = append(errs, fmt.Errorf("scan %s: %w", entity, err))
			continue
		}
		for _, rec := range recs {
			if err := s.api.Push(ctx, entity, rec); err != nil {
				s.log.Warn(ctx, "push failed, record stays unsynced",
					"entity", string(entity), "id", rec.ID, "error", err)
				res.Failed++
				continue
			}
			if err := s.store.MarkSynced(ctx, entity, rec.ID); err != nil {
				// The server has the record but the local flag flip
				// failed; the record will be pushed again, which the
				// upsert endpoint absorbs.
				s.log.Error(ctx, "mark synced failed",
					"entity", string(entity), "id", rec.ID, "error", err)
				errs = append(errs, fmt.Errorf("mark %s %s: %w", entity, rec.ID, err))
				continue
			}
			res.Pushed++
		}
	}

	if res.Pushed > 0 || res.Failed > 0 {
		s.log.Info(ctx, "outbound sync finished", "pushed", res.Pushed, "failed", res.Failed)
	}
	return res, errors.Join(errs...)
}
