package engine

import (
	"sort"

	"bomberman/internal/protocol"
)

// directionSteps are the four cardinal unit steps, in the same order as
// protocol.Direction's enum (Up, Right, Down, Left); the order the resolver
// visits them in is not wire-observable, but keeping it aligned with the
// enum makes the two easy to read side by side.
var directionSteps = [4][2]int{
	{0, -1}, // Up
	{1, 0},  // Right
	{0, 1},  // Down
	{-1, 0}, // Left
}

// resolveExplosion computes the (killed, destroyed) sets for a bomb at p
// (spec.md §4.2, "Explosion resolver"). The client's local explosion
// expansion (internal/client) must reproduce this exactly, including the
// ground-zero-on-block early return and the per-direction break on the
// first block hit (P5).
func (e *Engine) resolveExplosion(p protocol.Position) (killed []protocol.PlayerId, destroyed []protocol.Position) {
	killedSet := make(map[protocol.PlayerId]struct{})
	for _, id := range e.state.PositionsAt(p) {
		killedSet[id] = struct{}{}
	}

	if e.state.HasBlock(p) {
		return sortedKilled(killedSet), []protocol.Position{p}
	}

	var destroyedList []protocol.Position
	radius := int(e.state.Config.ExplosionRadius)
	sizeX, sizeY := int(e.state.Config.SizeX), int(e.state.Config.SizeY)

	for _, step := range directionSteps {
		for i := 1; i <= radius; i++ {
			qx, qy := int(p.X)+step[0]*i, int(p.Y)+step[1]*i
			if qx < 0 || qy < 0 || qx >= sizeX || qy >= sizeY {
				break
			}
			q := protocol.Position{X: uint16(qx), Y: uint16(qy)}
			for _, id := range e.state.PositionsAt(q) {
				killedSet[id] = struct{}{}
			}
			if e.state.HasBlock(q) {
				destroyedList = append(destroyedList, q)
				break
			}
		}
	}

	return sortedKilled(killedSet), destroyedList
}

func sortedKilled(killed map[protocol.PlayerId]struct{}) []protocol.PlayerId {
	ids := make([]protocol.PlayerId, 0, len(killed))
	for id := range killed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
