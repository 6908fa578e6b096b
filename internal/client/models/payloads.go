package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Typed payloads for the entities the CLI creates directly. The cache core
// never looks inside these; they exist so write paths produce well-formed
// documents.
//
// Team and Player keep a legacy secondary identifier alongside id. It must
// always equal id; the constructors are the only place either is set.

// Team is the payload shape for a team record.
type Team struct {
	ID           string `json:"id"`
	TeamID       string `json:"teamId"` // legacy alias, always equals ID
	Name         string `json:"name"`
	ShortCode    string `json:"shortCode,omitempty"`
	HomeKitColor string `json:"homeKitColor,omitempty"`
	AwayKitColor string `json:"awayKitColor,omitempty"`
}

// NewTeam builds a team payload with a fresh id. The legacy TeamID mirrors
// the id; the pair never diverges.
func NewTeam(name string) Team {
	id := uuid.NewString()
	return Team{ID: id, TeamID: id, Name: name}
}

// Player is the payload shape for a player record.
type Player struct {
	ID                string `json:"id"`
	PlayerID          string `json:"playerId"` // legacy alias, always equals ID
	Name              string `json:"name"`
	SquadNumber       int    `json:"squadNumber,omitempty"`
	PreferredPosition string `json:"preferredPosition,omitempty"`
}

// NewPlayer builds a player payload with a fresh id, legacy alias included.
func NewPlayer(name string, squadNumber int) Player {
	id := uuid.NewString()
	return Player{ID: id, PlayerID: id, Name: name, SquadNumber: squadNumber}
}

// Match is the payload shape for a match record.
type Match struct {
	ID         string `json:"id"`
	SeasonID   string `json:"seasonId,omitempty"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	KickoffAt  string `json:"kickoffAt,omitempty"`
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
}

// NewMatch builds a match payload with a fresh id.
func NewMatch(homeTeamID, awayTeamID string) Match {
	return Match{ID: uuid.NewString(), HomeTeamID: homeTeamID, AwayTeamID: awayTeamID}
}

// MatchEvent is the payload shape for an in-match event record.
type MatchEvent struct {
	ID           string `json:"id"`
	MatchID      string `json:"matchId"`
	Kind         string `json:"kind"` // goal, assist, card, substitution, ...
	PeriodNumber int    `json:"periodNumber,omitempty"`
	ClockMs      int64  `json:"clockMs,omitempty"`
	TeamID       string `json:"teamId,omitempty"`
	PlayerID     string `json:"playerId,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// NewMatchEvent builds an event payload with a fresh id.
func NewMatchEvent(matchID, kind string) MatchEvent {
	return MatchEvent{ID: uuid.NewString(), MatchID: matchID, Kind: kind}
}

// EncodePayload marshals a typed payload for storage in a Record.
func EncodePayload(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return b, nil
}

// DecodePayload unmarshals a record payload into a typed shape.
func DecodePayload(r Record, v any) error {
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("decode payload of %s: %w", r.ID, err)
	}
	return nil
}
