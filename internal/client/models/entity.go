// Package models defines the cached record envelope shared by every entity
// type, the entity-type registry with retention classes, and typed payload
// helpers for the entities the CLI edits directly.
package models

// EntityType identifies one cached entity table.
type EntityType string

const (
	EntityTeam          EntityType = "team"
	EntityPlayer        EntityType = "player"
	EntitySeason        EntityType = "season"
	EntityPlayerTeam    EntityType = "player_team"
	EntityDefaultLineup EntityType = "default_lineup"
	EntityMatch         EntityType = "match"
	EntityEvent         EntityType = "event"
	EntityMatchPeriod   EntityType = "match_period"
	EntityMatchState    EntityType = "match_state"
	EntityLineup        EntityType = "lineup"
)

// RetentionClass controls whether the cleanup pass may ever evict records of
// an entity type.
type RetentionClass int

const (
	// ClassReference entities are retained indefinitely.
	ClassReference RetentionClass = iota
	// ClassTemporal entities are evicted once synced and older than the
	// retention window.
	ClassTemporal
)

type entityInfo struct {
	table      string
	collection string
	class      RetentionClass
}

var entities = map[EntityType]entityInfo{
	EntityTeam:          {"teams", "teams", ClassReference},
	EntityPlayer:        {"players", "players", ClassReference},
	EntitySeason:        {"seasons", "seasons", ClassReference},
	EntityPlayerTeam:    {"player_teams", "player-teams", ClassReference},
	EntityDefaultLineup: {"default_lineups", "default-lineups", ClassReference},
	EntityMatch:         {"matches", "matches", ClassTemporal},
	EntityEvent:         {"events", "events", ClassTemporal},
	EntityMatchPeriod:   {"match_periods", "match-periods", ClassTemporal},
	EntityMatchState:    {"match_states", "match-states", ClassTemporal},
	EntityLineup:        {"lineups", "lineups", ClassTemporal},
}

// Known reports whether e names a registered entity type.
func (e EntityType) Known() bool {
	_, ok := entities[e]
	return ok
}

// Table returns the local table name for e, or "" if e is unknown.
func (e EntityType) Table() string { return entities[e].table }

// Collection returns the remote collection path segment for e.
func (e EntityType) Collection() string { return entities[e].collection }

// Class returns the retention class for e.
func (e EntityType) Class() RetentionClass { return entities[e].class }

// ReferenceTypes returns the reference-class entity types in refresh order.
// Default lineups are refreshed separately, per team, after teams.
func ReferenceTypes() []EntityType {
	return []EntityType{EntityTeam, EntityPlayer, EntitySeason, EntityPlayerTeam}
}

// TemporalTypes returns the entity types eligible for age-based eviction.
func TemporalTypes() []EntityType {
	return []EntityType{EntityMatch, EntityEvent, EntityMatchPeriod, EntityMatchState, EntityLineup}
}

// AllTypes returns every entity type, reference types first.
func AllTypes() []EntityType {
	return []EntityType{
		EntityTeam, EntityPlayer, EntitySeason, EntityPlayerTeam, EntityDefaultLineup,
		EntityMatch, EntityEvent, EntityMatchPeriod, EntityMatchState, EntityLineup,
	}
}
