// models/models.go
package models

import (
	"time"
)

// Visit 一次游戏页面在线记录
type Visit struct {
	SessionID       string    `json:"session_id"`
	PlayerName      string    `json:"player_name"`
	RemoteAddr      string    `json:"remote_addr"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds int64     `json:"duration_seconds"`
}

// VisitStats aggregates stored visits.
type VisitStats struct {
	TotalVisits     int64 `json:"total_visits"`
	DistinctPlayers int64 `json:"distinct_players"`
}

// PresenceEntry is a currently connected game page.
type PresenceEntry struct {
	SessionID   string    `json:"session_id"`
	PlayerName  string    `json:"player_name"`
	ConnectedAt time.Time `json:"connected_at"`
}
