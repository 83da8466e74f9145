// Package engine implements the authoritative turn loop: lobby admission,
// turn-0 placement, turn resolution, and explosion resolution (spec.md
// §4.2). It touches internal/state's mutating methods and
// internal/rng.Randomizer; it knows nothing about sockets — a Broadcaster
// is the only way it reaches the outside world.
package engine

import (
	"context"
	"log"
	"time"

	"bomberman/internal/metrics"
	"bomberman/internal/protocol"
	"bomberman/internal/rng"
	"bomberman/internal/state"
)

// Broadcaster sends a ServerMessage to every connected player, in the
// serialized, deterministic order spec.md §4.4/§5 require. Implemented by
// internal/connection.Connector.
type Broadcaster interface {
	Broadcast(msg protocol.ServerMessage)
}

// Engine drives one game at a time to completion, then resets state and
// waits for the next lobby to fill. A server process runs exactly one
// Engine for its lifetime (spec.md §4.2 state machine: ENDED -> LOBBY,
// same process, same config).
type Engine struct {
	state   *state.ServerState
	rng     *rng.Randomizer
	bcast   Broadcaster
	startCh chan struct{}

	// Metrics is optional; nil means no metrics are recorded.
	Metrics *metrics.Metrics
}

// New creates an Engine seeded from cfg.Seed (via st.Config).
func New(st *state.ServerState, bcast Broadcaster) *Engine {
	return &Engine{
		state:   st,
		rng:     rng.New(st.Config.Seed),
		bcast:   bcast,
		startCh: make(chan struct{}, 1),
	}
}

// Join attempts to admit (name, address) as a new player. It is called
// directly from a connection's receive loop on its first valid Join
// message (spec.md §4.2); state.AcceptJoin's mutex is what actually
// serializes concurrent joins, so Join is safe to call from any number of
// connection goroutines at once. When this join fills the lobby, Join
// broadcasts GameStarted and wakes Run to begin turn 0.
func (e *Engine) Join(name, address string) (protocol.PlayerId, bool) {
	id, ok, started := e.state.AcceptJoin(name, address)
	if !ok {
		return 0, false
	}
	e.bcast.Broadcast(protocol.AcceptedPlayerMessage{PlayerId: id, Player: protocol.Player{Name: name, Address: address}})
	if started {
		e.bcast.Broadcast(protocol.GameStartedMessage{Players: e.state.PlayersSnapshot()})
		select {
		case e.startCh <- struct{}{}:
		default:
		}
	}
	return id, true
}

// Run is the engine's single persistent goroutine: it waits for a lobby to
// fill, plays one game to completion, resets, and waits again. It returns
// when ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.startCh:
		}
		e.playGame(ctx)
		e.state.Reset()
	}
}

func (e *Engine) playGame(ctx context.Context) {
	e.turn0()

	ticker := time.NewTicker(e.state.Config.TurnDuration)
	defer ticker.Stop()

	for t := uint16(1); t <= e.state.Config.GameLength; t++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		e.resolveTurn(t)
	}

	log.Printf("⏱ game ended after %d turns", e.state.Config.GameLength)
	e.bcast.Broadcast(protocol.GameEndedMessage{Scores: e.state.ScoresSnapshot()})
}

// turn0 draws initial player positions, then initial_blocks block
// positions, redrawing on collision (spec.md §4.2: "Turn 0"). Player
// placements always precede block placements in the emitted event list;
// players are visited in ascending id order.
func (e *Engine) turn0() {
	var events []protocol.Event

	for _, id := range e.state.PlayerIDsAscending() {
		pos := e.randomPosition()
		e.state.SetPosition(id, pos)
		events = append(events, protocol.PlayerMovedEvent{PlayerId: id, Position: pos})
	}

	for i := uint16(0); i < e.state.Config.InitialBlocks; i++ {
		for {
			pos := e.randomPosition()
			if e.state.AddBlock(pos) {
				events = append(events, protocol.BlockPlacedEvent{Position: pos})
				break
			}
		}
	}

	turn := protocol.TurnMessage{Turn: 0, Events: events}
	e.state.AppendTurn(turn)
	e.bcast.Broadcast(turn)
}

func (e *Engine) randomPosition() protocol.Position {
	return protocol.Position{
		X: e.rng.NextBounded(e.state.Config.SizeX),
		Y: e.rng.NextBounded(e.state.Config.SizeY),
	}
}
