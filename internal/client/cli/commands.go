package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Clar17y/Football-Events-sub005/internal/client/models"
	"github.com/Clar17y/Football-Events-sub005/internal/client/store"
)

func entityFromArg(arg string) (models.EntityType, bool) {
	switch strings.ToLower(arg) {
	case "team", "teams":
		return models.EntityTeam, true
	case "player", "players":
		return models.EntityPlayer, true
	case "season", "seasons":
		return models.EntitySeason, true
	case "match", "matches":
		return models.EntityMatch, true
	case "event", "events":
		return models.EntityEvent, true
	case "lineup", "lineups":
		return models.EntityLineup, true
	default:
		return "", false
	}
}

// Refresh runs the full cache refresh cycle on demand.
func (a *App) Refresh(ctx context.Context) {
	stats := a.refresher.RefreshCache(ctx)
	fmt.Printf("reference data refreshed: %v, temporal records cleaned: %d, matches cached: %d\n",
		stats.ReferenceDataRefreshed, stats.TemporalDataCleaned, stats.MatchesCached)
}

// Sync pushes unsynced local records to the server.
func (a *App) Sync(ctx context.Context) {
	res, err := a.syncer.SyncPending(ctx)
	if err != nil {
		fmt.Printf("sync finished with errors: %v\n", err)
	}
	fmt.Printf("pushed: %d, still pending: %d\n", res.Pushed, res.Failed)
}

// List prints all cached records of one entity type.
func (a *App) List(ctx context.Context, kind string) {
	entity, _ := entityFromArg(kind)
	recs, err := a.store.All(ctx, entity)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	for _, rec := range recs {
		if rec.IsDeleted {
			continue
		}
		marker := " "
		if !rec.Synced {
			marker = "*"
		}
		fmt.Printf("%s %s  created %s\n", marker, rec.ID, rec.CreatedAt)
	}
	fmt.Printf("%d record(s); * = not yet synced\n", len(recs))
}

// Pending prints the unsynced records of one entity type.
func (a *App) Pending(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: pending <entity>")
		return
	}
	entity, ok := entityFromArg(args[0])
	if !ok {
		fmt.Printf("unknown entity %q\n", args[0])
		return
	}
	recs, err := a.store.GetUnsynced(ctx, entity)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	for _, rec := range recs {
		fmt.Printf("%s  updated %s\n", rec.ID, rec.UpdatedAt)
	}
	fmt.Printf("%d pending record(s)\n", len(recs))
}

func (a *App) putLocal(ctx context.Context, entity models.EntityType, id string, payload any) {
	b, err := models.EncodePayload(payload)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	rec, err := models.NewLocalRecord(id, a.session.UserID(), b, time.Now())
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if err := a.store.Put(ctx, entity, rec); err != nil {
		fmt.Printf("saving error: %v\n", err)
		return
	}
	fmt.Printf("created %s %s (pending sync)\n", entity, id)
}

// AddTeam creates a team locally; it stays unsynced until the next push.
func (a *App) AddTeam(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("usage: addteam <name>")
		return
	}
	team := models.NewTeam(strings.Join(args, " "))
	a.putLocal(ctx, models.EntityTeam, team.ID, team)
}

// AddPlayer creates a player locally.
func (a *App) AddPlayer(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("usage: addplayer <name> [squad number]")
		return
	}
	squad := 0
	name := args
	if n, err := strconv.Atoi(args[len(args)-1]); err == nil && len(args) > 1 {
		squad = n
		name = args[:len(args)-1]
	}
	player := models.NewPlayer(strings.Join(name, " "), squad)
	a.putLocal(ctx, models.EntityPlayer, player.ID, player)
}

// AddMatch creates a match between two cached teams.
func (a *App) AddMatch(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: addmatch <home team id> <away team id>")
		return
	}
	for _, id := range args {
		if _, err := a.store.Get(ctx, models.EntityTeam, id); err != nil {
			fmt.Printf("team %s: %v\n", id, err)
			return
		}
	}
	match := models.NewMatch(args[0], args[1])
	a.putLocal(ctx, models.EntityMatch, match.ID, match)
}

// AddEvent records an in-match event against a cached match.
func (a *App) AddEvent(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: addevent <match id> <kind>")
		return
	}
	if _, err := a.store.Get(ctx, models.EntityMatch, args[0]); err != nil {
		fmt.Printf("match %s: %v\n", args[0], err)
		return
	}
	event := models.NewMatchEvent(args[0], args[1])
	a.putLocal(ctx, models.EntityEvent, event.ID, event)
}

// Show prints one record's payload.
func (a *App) Show(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: show <entity> <id>")
		return
	}
	entity, ok := entityFromArg(args[0])
	if !ok {
		fmt.Printf("unknown entity %q\n", args[0])
		return
	}
	rec, err := a.store.Get(ctx, entity, args[1])
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("synced: %v", rec.Synced)
	if rec.SyncedAt != "" {
		fmt.Printf(" at %s", rec.SyncedAt)
	}
	fmt.Println()
	fmt.Println(string(rec.Payload))
}

// Delete soft-deletes a record locally; the tombstone propagates on the next
// sync rather than being removed outright.
func (a *App) Delete(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: delete <entity> <id>")
		return
	}
	entity, ok := entityFromArg(args[0])
	if !ok {
		fmt.Printf("unknown entity %q\n", args[0])
		return
	}
	rec, err := a.store.Get(ctx, entity, args[1])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("record not found")
			return
		}
		fmt.Printf("error: %v\n", err)
		return
	}
	rec.MarkDeleted(a.session.UserID(), time.Now())
	if err := a.store.Put(ctx, entity, *rec); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("deleted %s %s (pending sync)\n", entity, rec.ID)
}
