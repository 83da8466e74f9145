// Package client implements the client-side relay: a replicated ClientState
// (spec.md §3/§4.3) kept in sync with the server's broadcast Turn stream,
// and the event loop that bridges a UDP GUI peer and a TCP server peer.
package client

import "bomberman/internal/protocol"

// State is the client's local replica of the public game state (spec.md
// §3, "ClientState"). It is owned by a single goroutine (the relay's event
// loop); nothing else touches it.
type State struct {
	ServerName      string
	SizeX           uint16
	SizeY           uint16
	BombTimer       uint16
	ExplosionRadius uint16
	GameLength      uint16
	PlayersCount    uint8

	Players   map[protocol.PlayerId]protocol.Player
	Turn      uint16
	Positions map[protocol.PlayerId]protocol.Position
	Blocks    map[protocol.Position]struct{}
	Bombs     map[protocol.BombId]protocol.Bomb
	Scores    map[protocol.PlayerId]protocol.Score

	// Explosions, WouldDie, and BlocksToDestroy are cleared and rebuilt
	// fresh at the start of every Turn (spec.md §4.3 step 1); they only
	// ever describe the most recently applied turn.
	Explosions      map[protocol.Position]struct{}
	WouldDie        map[protocol.PlayerId]struct{}
	BlocksToDestroy map[protocol.Position]struct{}

	GameOn bool
}

// NewState returns an empty, pre-Hello replica.
func NewState() *State {
	return &State{
		Players:         make(map[protocol.PlayerId]protocol.Player),
		Positions:       make(map[protocol.PlayerId]protocol.Position),
		Blocks:          make(map[protocol.Position]struct{}),
		Bombs:           make(map[protocol.BombId]protocol.Bomb),
		Scores:          make(map[protocol.PlayerId]protocol.Score),
		Explosions:      make(map[protocol.Position]struct{}),
		WouldDie:        make(map[protocol.PlayerId]struct{}),
		BlocksToDestroy: make(map[protocol.Position]struct{}),
	}
}

// ApplyHello overwrites the config fields (spec.md §4.3, "Hello").
func (s *State) ApplyHello(m protocol.HelloMessage) {
	s.ServerName = m.ServerName
	s.PlayersCount = m.PlayersCount
	s.SizeX = m.SizeX
	s.SizeY = m.SizeY
	s.GameLength = m.GameLength
	s.ExplosionRadius = m.ExplosionRadius
	s.BombTimer = m.BombTimer
}

// ApplyAcceptedPlayer inserts the player and seeds its score at 0 (spec.md
// §4.3, "AcceptedPlayer").
func (s *State) ApplyAcceptedPlayer(m protocol.AcceptedPlayerMessage) {
	s.Players[m.PlayerId] = m.Player
	s.Scores[m.PlayerId] = 0
}

// ApplyGameStarted flips the replica into In-Game mode, replacing the
// player roster and zeroing every score. No draw is emitted for this
// message; the caller relies on the Turn 0 that follows (spec.md §4.3,
// "GameStarted").
func (s *State) ApplyGameStarted(m protocol.GameStartedMessage) {
	s.GameOn = true
	s.Players = m.Players
	s.Scores = make(map[protocol.PlayerId]protocol.Score, len(m.Players))
	for id := range m.Players {
		s.Scores[id] = 0
	}
}

// ApplyTurn applies one Turn message to the replica, in the exact
// step order spec.md §4.3 lists under "Turn".
func (s *State) ApplyTurn(m protocol.TurnMessage) {
	s.Explosions = make(map[protocol.Position]struct{})
	s.BlocksToDestroy = make(map[protocol.Position]struct{})
	s.WouldDie = make(map[protocol.PlayerId]struct{})

	s.Turn = m.Turn

	for id, bomb := range s.Bombs {
		if bomb.Timer > 0 {
			bomb.Timer--
		}
		s.Bombs[id] = bomb
	}

	for _, ev := range m.Events {
		switch v := ev.(type) {
		case protocol.BombPlacedEvent:
			s.Bombs[v.BombId] = protocol.Bomb{Position: v.Position, Timer: s.BombTimer}
		case protocol.BombExplodedEvent:
			// The wire event carries only the bomb id and its outcome;
			// the blast origin is the bomb's last known position, looked
			// up before it's removed.
			bomb, ok := s.Bombs[v.BombId]
			if ok {
				killed, destroyed, path := s.resolveExplosion(bomb.Position)
				for _, id := range killed {
					s.WouldDie[id] = struct{}{}
				}
				for _, p := range destroyed {
					s.BlocksToDestroy[p] = struct{}{}
				}
				for _, p := range path {
					s.Explosions[p] = struct{}{}
				}
			}
			delete(s.Bombs, v.BombId)
		case protocol.PlayerMovedEvent:
			s.Positions[v.PlayerId] = v.Position
		case protocol.BlockPlacedEvent:
			s.Blocks[v.Position] = struct{}{}
		}
	}

	for id := range s.WouldDie {
		s.Scores[id]++
	}
	for p := range s.BlocksToDestroy {
		delete(s.Blocks, p)
	}
}

// ApplyGameEnded resets the replica to its post-Hello state, keeping only
// the config fields (spec.md §9, "full reset because scores were just
// transmitted and the next screen is a fresh Lobby").
func (s *State) ApplyGameEnded(protocol.GameEndedMessage) {
	s.GameOn = false
	s.Turn = 0
	s.Players = make(map[protocol.PlayerId]protocol.Player)
	s.Positions = make(map[protocol.PlayerId]protocol.Position)
	s.Blocks = make(map[protocol.Position]struct{})
	s.Bombs = make(map[protocol.BombId]protocol.Bomb)
	s.Scores = make(map[protocol.PlayerId]protocol.Score)
	s.Explosions = make(map[protocol.Position]struct{})
	s.WouldDie = make(map[protocol.PlayerId]struct{})
	s.BlocksToDestroy = make(map[protocol.Position]struct{})
}

// LobbyDraw builds the GUI-facing snapshot for the In-Lobby screen.
func (s *State) LobbyDraw() protocol.LobbyDraw {
	return protocol.LobbyDraw{
		ServerName:      s.ServerName,
		SizeX:           s.SizeX,
		SizeY:           s.SizeY,
		GameLength:      s.GameLength,
		ExplosionRadius: s.ExplosionRadius,
		BombTimer:       s.BombTimer,
		PlayersCount:    s.PlayersCount,
		Players:         s.Players,
	}
}

// GameDraw builds the GUI-facing snapshot for the In-Game screen.
func (s *State) GameDraw() protocol.GameDraw {
	return protocol.GameDraw{
		ServerName:      s.ServerName,
		SizeX:           s.SizeX,
		SizeY:           s.SizeY,
		GameLength:      s.GameLength,
		Turn:            s.Turn,
		Players:         s.Players,
		PlayerPositions: s.Positions,
		Blocks:          s.Blocks,
		Bombs:           s.Bombs,
		Explosions:      s.Explosions,
		Scores:          s.Scores,
	}
}
