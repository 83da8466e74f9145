package client

import (
	"sort"

	"bomberman/internal/protocol"
)

// directionSteps mirrors internal/engine's resolver exactly (same order,
// same bounds/break semantics); spec.md §4.3 requires this.
var directionSteps = [4][2]int{
	{0, -1}, // Up
	{1, 0},  // Right
	{0, 1},  // Down
	{-1, 0}, // Left
}

// resolveExplosion reproduces the server's explosion resolver against the
// replica's own positions/blocks (spec.md §4.2, §4.3, P5). path is every
// cell the blast visually covers (ground zero, plus every cell stepped
// through in each direction up to and including a destroyed block); it has
// no wire counterpart and exists only to fill State.Explosions.
func (s *State) resolveExplosion(p protocol.Position) (killed []protocol.PlayerId, destroyed []protocol.Position, path []protocol.Position) {
	killedSet := make(map[protocol.PlayerId]struct{})
	for id, pos := range s.Positions {
		if pos == p {
			killedSet[id] = struct{}{}
		}
	}

	path = append(path, p)

	if _, blocked := s.Blocks[p]; blocked {
		return sortedKilled(killedSet), []protocol.Position{p}, path
	}

	var destroyedList []protocol.Position
	radius := int(s.ExplosionRadius)
	sizeX, sizeY := int(s.SizeX), int(s.SizeY)

	for _, step := range directionSteps {
		for i := 1; i <= radius; i++ {
			qx, qy := int(p.X)+step[0]*i, int(p.Y)+step[1]*i
			if qx < 0 || qy < 0 || qx >= sizeX || qy >= sizeY {
				break
			}
			q := protocol.Position{X: uint16(qx), Y: uint16(qy)}
			path = append(path, q)
			for id, pos := range s.Positions {
				if pos == q {
					killedSet[id] = struct{}{}
				}
			}
			if _, blocked := s.Blocks[q]; blocked {
				destroyedList = append(destroyedList, q)
				break
			}
		}
	}

	return sortedKilled(killedSet), destroyedList, path
}

func sortedKilled(killed map[protocol.PlayerId]struct{}) []protocol.PlayerId {
	ids := make([]protocol.PlayerId, 0, len(killed))
	for id := range killed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
