// Package state holds the authoritative server model (spec.md §3): the
// entity maps ServerState owns, and the intent queue connections use to
// hand per-turn client messages to the engine without a shared mutex.
package state

import "time"

// Config is the immutable set of parameters a game is created with
// (spec.md §3, ServerConfig). It never changes for the lifetime of the
// server process, even across a GameEnded -> Lobby reset.
type Config struct {
	ServerName      string
	SizeX           uint16
	SizeY           uint16
	PlayersCount    uint8
	GameLength      uint16
	ExplosionRadius uint16
	BombTimer       uint16
	InitialBlocks   uint16
	TurnDuration    time.Duration
	Seed            uint32
	Port            uint16
}
