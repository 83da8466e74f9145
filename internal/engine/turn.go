package engine

import (
	"sort"
	"time"

	"bomberman/internal/protocol"
)

// resolveTurn runs one full turn of resolution (spec.md §4.2, "Turn
// resolution"). Event ordering within the assembled Turn follows §5
// exactly: all bomb-explosion events (ascending BombId), then respawn
// PlayerMoved events (ascending PlayerId), then intent-driven events
// (ascending PlayerId).
func (e *Engine) resolveTurn(turnNumber uint16) {
	start := time.Now()
	defer e.observeTurnDuration(start)

	intents := e.state.Intents().Drain()

	var explodedEvents []protocol.Event
	dead := make(map[protocol.PlayerId]struct{})
	removedBlocks := make(map[protocol.Position]struct{})

	for _, bombID := range e.state.BombIDsAscending() {
		if e.state.DecrementBombTimer(bombID) != 0 {
			continue
		}
		bomb, ok := e.state.Bomb(bombID)
		if !ok {
			continue
		}
		killed, destroyed := e.resolveExplosion(bomb.Position)
		for _, id := range killed {
			dead[id] = struct{}{}
		}
		for _, p := range destroyed {
			removedBlocks[p] = struct{}{}
		}
		e.state.RemoveBomb(bombID)
		explodedEvents = append(explodedEvents, protocol.BombExplodedEvent{
			BombId:          bombID,
			RobotsDestroyed: killed,
			BlocksDestroyed: destroyed,
		})
	}

	var respawnEvents []protocol.Event
	for _, id := range sortedDead(dead) {
		e.state.IncrementScore(id)
		delete(intents, id)
		pos := e.randomPosition()
		e.state.SetPosition(id, pos)
		respawnEvents = append(respawnEvents, protocol.PlayerMovedEvent{PlayerId: id, Position: pos})
	}

	var intentEvents []protocol.Event
	for _, id := range sortedIntentIDs(intents) {
		if _, ok := dead[id]; ok {
			continue
		}
		ev := e.applyIntent(id, intents[id])
		if ev != nil {
			intentEvents = append(intentEvents, ev)
		}
	}

	if len(removedBlocks) > 0 {
		positions := make([]protocol.Position, 0, len(removedBlocks))
		for p := range removedBlocks {
			positions = append(positions, p)
		}
		e.state.RemoveBlocks(positions)
	}

	events := make([]protocol.Event, 0, len(explodedEvents)+len(respawnEvents)+len(intentEvents))
	events = append(events, explodedEvents...)
	events = append(events, respawnEvents...)
	events = append(events, intentEvents...)

	turn := protocol.TurnMessage{Turn: turnNumber, Events: events}
	e.state.AppendTurn(turn)
	e.bcast.Broadcast(turn)

	if e.Metrics != nil {
		e.Metrics.CurrentTurn.Set(float64(turnNumber))
		e.Metrics.BombsLive.Set(float64(len(e.state.BombsSnapshot())))
	}
}

func (e *Engine) observeTurnDuration(start time.Time) {
	if e.Metrics != nil {
		e.Metrics.TurnDuration.Observe(time.Since(start).Seconds())
	}
}

// applyIntent applies one player's drained intent (spec.md §4.2 step 5)
// and returns the Event it produced, or nil for a no-op (e.g. PlaceBlock
// on a cell that is already a block).
func (e *Engine) applyIntent(id protocol.PlayerId, intent protocol.ClientMessage) protocol.Event {
	pos, ok := e.state.Position(id)
	if !ok {
		return nil
	}
	switch v := intent.(type) {
	case protocol.PlaceBombMessage:
		bombID := e.state.AddBomb(pos)
		return protocol.BombPlacedEvent{BombId: bombID, Position: pos}
	case protocol.PlaceBlockMessage:
		if !e.state.AddBlock(pos) {
			return nil
		}
		return protocol.BlockPlacedEvent{Position: pos}
	case protocol.MoveMessage:
		dx, dy := v.Direction.Step()
		nx, ny := int(pos.X)+dx, int(pos.Y)+dy
		if nx < 0 || ny < 0 || nx >= int(e.state.Config.SizeX) || ny >= int(e.state.Config.SizeY) {
			return nil
		}
		next := protocol.Position{X: uint16(nx), Y: uint16(ny)}
		if e.state.HasBlock(next) {
			return nil
		}
		e.state.SetPosition(id, next)
		return protocol.PlayerMovedEvent{PlayerId: id, Position: next}
	default:
		return nil
	}
}

func sortedDead(dead map[protocol.PlayerId]struct{}) []protocol.PlayerId {
	ids := make([]protocol.PlayerId, 0, len(dead))
	for id := range dead {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedIntentIDs(intents map[protocol.PlayerId]protocol.ClientMessage) []protocol.PlayerId {
	ids := make([]protocol.PlayerId, 0, len(intents))
	for id := range intents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
