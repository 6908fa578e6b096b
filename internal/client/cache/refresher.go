// Package cache implements the cache-refresh protocol: pulling authoritative
// server state into the local store without disturbing unsynced local work,
// evicting aged temporal records, and caching the recent match window.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Clar17y/Football-Events-sub005/internal/client/models"
	"github.com/Clar17y/Football-Events-sub005/internal/client/remote"
	"github.com/Clar17y/Football-Events-sub005/internal/client/store"
	"github.com/Clar17y/Football-Events-sub005/internal/logging"
)

// temporalRetention is how long synced temporal records are kept, measured
// from createdAt.
const temporalRetention = 30 * 24 * time.Hour

// Stats summarizes one RefreshCache cycle.
type Stats struct {
	ReferenceDataRefreshed bool
	TemporalDataCleaned    int
	MatchesCached          int
}

// AuthChecker gates refresh on an authenticated session.
type AuthChecker interface {
	IsAuthenticated() bool
}

// ConnectivityChecker gates refresh on reachability.
type ConnectivityChecker interface {
	IsOnline() bool
}

// Refresher drives the pull side of synchronization.
type Refresher struct {
	store store.Store
	api   remote.API
	auth  AuthChecker
	net   ConnectivityChecker
	log   logging.Logger
	now   func() time.Time
}

// NewRefresher wires a refresher. auth and net may be nil, in which case the
// corresponding gate is skipped (useful for explicit CLI-triggered refresh).
func NewRefresher(st store.Store, api remote.API, auth AuthChecker, net ConnectivityChecker, log logging.Logger) *Refresher {
	return &Refresher{store: st, api: api, auth: auth, net: net, log: log, now: time.Now}
}

// RefreshCache is the top-level entry point: reference-data refresh, then
// temporal cleanup, then recent-match caching. It never returns an error;
// each phase is isolated, logged, and reflected in the returned stats. When
// offline or unauthenticated it is a no-op with zeroed stats.
func (r *Refresher) RefreshCache(ctx context.Context) Stats {
	var stats Stats

	if r.net != nil && !r.net.IsOnline() {
		r.log.Info(ctx, "cache refresh skipped: offline")
		return stats
	}
	if r.auth != nil && !r.auth.IsAuthenticated() {
		r.log.Info(ctx, "cache refresh skipped: not authenticated")
		return stats
	}

	start := r.now()

	if err := r.RefreshReferenceData(ctx); err != nil {
		r.log.Error(ctx, "reference data refresh failed", "error", err)
	} else {
		stats.ReferenceDataRefreshed = true
	}

	cleaned, err := r.CleanupOldTemporalData(ctx)
	if err != nil {
		r.log.Error(ctx, "temporal cleanup failed", "error", err)
	}
	stats.TemporalDataCleaned = cleaned

	cached, err := r.CacheRecentMatches(ctx)
	if err != nil {
		r.log.Error(ctx, "recent match caching failed", "error", err)
	} else {
		stats.MatchesCached = cached
	}

	r.log.Info(ctx, "cache refresh finished",
		"reference_refreshed", stats.ReferenceDataRefreshed,
		"temporal_cleaned", stats.TemporalDataCleaned,
		"matches_cached", stats.MatchesCached,
		"duration", r.now().Sub(start).String())
	return stats
}

// RefreshReferenceData refreshes every reference-class collection in
// dependency order: teams, players, seasons, player-teams, then the per-team
// default lineups (which need the freshly resolved team ids). A failure on
// one entity type is logged and does not stop the others; the joined error
// is returned so the caller can see what failed.
func (r *Refresher) RefreshReferenceData(ctx context.Context) error {
	var errs []error

	for _, entity := range models.ReferenceTypes() {
		docs, err := r.api.FetchCollection(ctx, entity)
		if err != nil {
			err = fmt.Errorf("refresh %s: %w", entity, err)
			r.log.Error(ctx, "entity refresh failed", "entity", string(entity), "error", err)
			errs = append(errs, err)
			continue
		}
		n, err := r.mergeCollection(ctx, entity, docs, true)
		if err != nil {
			err = fmt.Errorf("refresh %s: %w", entity, err)
			r.log.Error(ctx, "entity merge failed", "entity", string(entity), "error", err)
			errs = append(errs, err)
			continue
		}
		r.log.Info(ctx, "entity refreshed", "entity", string(entity), "upserted", n)
	}

	if err := r.refreshDefaultLineups(ctx); err != nil {
		err = fmt.Errorf("refresh %s: %w", models.EntityDefaultLineup, err)
		r.log.Error(ctx, "entity refresh failed",
			"entity", string(models.EntityDefaultLineup), "error", err)
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// refreshDefaultLineups assembles the full default-lineup collection from
// the per-team endpoint, then merges it like any other reference collection.
// A failure fetching any one team aborts the whole entity type: a partial
// union would make the deletion pass evict lineups of the unfetched teams.
func (r *Refresher) refreshDefaultLineups(ctx context.Context) error {
	teams, err := r.store.All(ctx, models.EntityTeam)
	if err != nil {
		return err
	}
	var docs []json.RawMessage
	for _, team := range teams {
		part, err := r.api.FetchDefaultLineups(ctx, team.ID)
		if err != nil {
			return fmt.Errorf("team %s: %w", team.ID, err)
		}
		docs = append(docs, part...)
	}
	n, err := r.mergeCollection(ctx, models.EntityDefaultLineup, docs, true)
	if err != nil {
		return err
	}
	r.log.Info(ctx, "entity refreshed",
		"entity", string(models.EntityDefaultLineup), "upserted", n, "teams", len(teams))
	return nil
}

// mergeCollection merges fetched documents into the local table.
//
// Unsynced local records win unconditionally: they are skipped by the upsert
// pass even when a fetched document shares their id, and the deletion pass
// never touches them. Synced local records are server property: absent ids
// are deleted (withDeletion) and present ids are replaced whole-record.
//
// The merge reads local state once; a record that goes unsynced mid-merge
// via a concurrent write can still be overwritten by the upsert pass. The
// CLI serializes refresh and sync, so the window only opens to external
// writers of the same database file.
func (r *Refresher) mergeCollection(ctx context.Context, entity models.EntityType, docs []json.RawMessage, withDeletion bool) (int, error) {
	now := r.now()

	incoming := make([]models.Record, 0, len(docs))
	remoteIDs := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		rec, err := models.FromRemote(doc, now)
		if err != nil {
			return 0, err
		}
		incoming = append(incoming, rec)
		remoteIDs[rec.ID] = struct{}{}
	}

	locals, err := r.store.All(ctx, entity)
	if err != nil {
		return 0, err
	}
	unsynced := make(map[string]struct{})
	for _, rec := range locals {
		if !rec.Synced {
			unsynced[rec.ID] = struct{}{}
		}
	}

	if withDeletion {
		var stale []string
		for _, rec := range locals {
			if !rec.Synced {
				continue
			}
			if _, ok := remoteIDs[rec.ID]; ok {
				continue
			}
			if _, ok := unsynced[rec.ID]; ok {
				continue
			}
			stale = append(stale, rec.ID)
		}
		if err := r.store.BulkDelete(ctx, entity, stale); err != nil {
			return 0, err
		}
	}

	upserts := make([]models.Record, 0, len(incoming))
	for _, rec := range incoming {
		if _, ok := unsynced[rec.ID]; ok {
			continue
		}
		upserts = append(upserts, rec)
	}
	if err := r.store.BulkPut(ctx, entity, upserts); err != nil {
		return 0, err
	}
	return len(upserts), nil
}

// CleanupOldTemporalData deletes synced temporal records created strictly
// more than 30 days ago. Unsynced records are never deleted regardless of
// age, and reference tables are never scanned. Per-entity-type failures are
// isolated; the total deleted count is returned alongside any joined error.
func (r *Refresher) CleanupOldTemporalData(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-temporalRetention)
	total := 0
	var errs []error

	for _, entity := range models.TemporalTypes() {
		recs, err := r.store.All(ctx, entity)
		if err != nil {
			r.log.Error(ctx, "cleanup scan failed", "entity", string(entity), "error", err)
			errs = append(errs, fmt.Errorf("cleanup %s: %w", entity, err))
			continue
		}
		var stale []string
		for _, rec := range recs {
			if !rec.Synced {
				continue
			}
			old, err := rec.CreatedBefore(cutoff)
			if err != nil {
				// An unparseable timestamp is never grounds for deletion.
				r.log.Warn(ctx, "skipping record with bad createdAt",
					"entity", string(entity), "id", rec.ID, "error", err)
				continue
			}
			if old {
				stale = append(stale, rec.ID)
			}
		}
		if len(stale) == 0 {
			continue
		}
		if err := r.store.BulkDelete(ctx, entity, stale); err != nil {
			r.log.Error(ctx, "cleanup delete failed", "entity", string(entity), "error", err)
			errs = append(errs, fmt.Errorf("cleanup %s: %w", entity, err))
			continue
		}
		total += len(stale)
		r.log.Info(ctx, "evicted stale records", "entity", string(entity), "count", len(stale))
	}

	return total, errors.Join(errs...)
}

// CacheRecentMatches pulls matches created within the retention window and
// upserts them with the same unsynced-preservation rule as the reference
// refresh. There is no deletion pass: the fetch sees only a 30-day window,
// so absence from it does not mean deletion upstream.
func (r *Refresher) CacheRecentMatches(ctx context.Context) (int, error) {
	since := r.now().Add(-temporalRetention)
	docs, err := r.api.FetchMatchesSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("fetch recent matches: %w", err)
	}
	n, err := r.mergeCollection(ctx, models.EntityMatch, docs, false)
	if err != nil {
		return 0, fmt.Errorf("cache recent matches: %w", err)
	}
	return n, nil
}
