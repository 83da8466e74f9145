package protocol

import "sort"

// Lists, sets, and maps all share the same on-wire shape: a 4-byte count
// followed by that many encodings of the element type (spec.md §4.1). Sets
// are encoded in ascending order by the writer but decode tolerates any
// order or duplicate entries the peer used, per spec.md's compatibility
// note — some historical variants encoded sets as plain unordered
// sequences.

func (e *Encoder) WritePlayerIdList(ids []PlayerId) {
	e.WriteU32(uint32(len(ids)))
	for _, id := range ids {
		e.WriteU8(uint8(id))
	}
}

func (d *Decoder) ReadPlayerIdList() ([]PlayerId, error) {
	n, err := d.readCollectionLen()
	if err != nil {
		return nil, err
	}
	ids := make([]PlayerId, 0, min32(n, 256))
	for i := uint32(0); i < n; i++ {
		v, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		ids = append(ids, PlayerId(v))
	}
	return ids, nil
}

func (e *Encoder) WritePositionList(positions []Position) {
	e.WriteU32(uint32(len(positions)))
	for _, p := range positions {
		e.WritePosition(p)
	}
}

func (d *Decoder) ReadPositionList() ([]Position, error) {
	n, err := d.readCollectionLen()
	if err != nil {
		return nil, err
	}
	out := make([]Position, 0, min32(n, 4096))
	for i := uint32(0); i < n; i++ {
		p, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// WritePositionSet encodes a set of positions in ascending order.
func (e *Encoder) WritePositionSet(set map[Position]struct{}) {
	positions := make([]Position, 0, len(set))
	for p := range set {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Less(positions[j]) })
	e.WritePositionList(positions)
}

// ReadPositionSet decodes a set of positions, tolerating any order and
// silently merging duplicates.
func (d *Decoder) ReadPositionSet() (map[Position]struct{}, error) {
	positions, err := d.ReadPositionList()
	if err != nil {
		return nil, err
	}
	set := make(map[Position]struct{}, len(positions))
	for _, p := range positions {
		set[p] = struct{}{}
	}
	return set, nil
}

// WritePlayerMap encodes a PlayerId->Player mapping as an ascending-by-id
// sequence of pairs.
func (e *Encoder) WritePlayerMap(players map[PlayerId]Player) error {
	ids := sortedIds(players)
	e.WriteU32(uint32(len(ids)))
	for _, id := range ids {
		e.WriteU8(uint8(id))
		if err := e.WriteString(players[id].Name); err != nil {
			return err
		}
		if err := e.WriteString(players[id].Address); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) ReadPlayerMap() (map[PlayerId]Player, error) {
	n, err := d.readCollectionLen()
	if err != nil {
		return nil, err
	}
	out := make(map[PlayerId]Player, min32(n, 256))
	for i := uint32(0); i < n; i++ {
		idv, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		addr, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		out[PlayerId(idv)] = Player{Name: name, Address: addr}
	}
	return out, nil
}

// WriteScoreMap encodes a PlayerId->Score mapping as an ascending-by-id
// sequence of pairs.
func (e *Encoder) WriteScoreMap(scores map[PlayerId]Score) {
	ids := sortedScoreIds(scores)
	e.WriteU32(uint32(len(ids)))
	for _, id := range ids {
		e.WriteU8(uint8(id))
		e.WriteU32(uint32(scores[id]))
	}
}

func (d *Decoder) ReadScoreMap() (map[PlayerId]Score, error) {
	n, err := d.readCollectionLen()
	if err != nil {
		return nil, err
	}
	out := make(map[PlayerId]Score, min32(n, 256))
	for i := uint32(0); i < n; i++ {
		idv, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		s, err := d.ReadU32()
		if err != nil {
			return nil, err
		}
		out[PlayerId(idv)] = Score(s)
	}
	return out, nil
}

// WriteBombMap encodes a BombId->Bomb mapping as an ascending-by-id
// sequence of pairs.
func (e *Encoder) WriteBombMap(bombs map[BombId]Bomb) {
	ids := make([]BombId, 0, len(bombs))
	for id := range bombs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	e.WriteU32(uint32(len(ids)))
	for _, id := range ids {
		e.WriteU32(uint32(id))
		e.WritePosition(bombs[id].Position)
		e.WriteU16(bombs[id].Timer)
	}
}

func (d *Decoder) ReadBombMap() (map[BombId]Bomb, error) {
	n, err := d.readCollectionLen()
	if err != nil {
		return nil, err
	}
	out := make(map[BombId]Bomb, min32(n, 1024))
	for i := uint32(0); i < n; i++ {
		idv, err := d.ReadU32()
		if err != nil {
			return nil, err
		}
		pos, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		timer, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		out[BombId(idv)] = Bomb{Position: pos, Timer: timer}
	}
	return out, nil
}

// WritePositionMap encodes a PlayerId->Position mapping (player
// positions), ascending by id.
func (e *Encoder) WritePositionMap(positions map[PlayerId]Position) {
	ids := make([]PlayerId, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	e.WriteU32(uint32(len(ids)))
	for _, id := range ids {
		e.WriteU8(uint8(id))
		e.WritePosition(positions[id])
	}
}

func (d *Decoder) ReadPositionMap() (map[PlayerId]Position, error) {
	n, err := d.readCollectionLen()
	if err != nil {
		return nil, err
	}
	out := make(map[PlayerId]Position, min32(n, 256))
	for i := uint32(0); i < n; i++ {
		idv, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		pos, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		out[PlayerId(idv)] = pos
	}
	return out, nil
}

func sortedIds(players map[PlayerId]Player) []PlayerId {
	ids := make([]PlayerId, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedScoreIds(scores map[PlayerId]Score) []PlayerId {
	ids := make([]PlayerId, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func min32(n uint32, cap uint32) uint32 {
	if n < cap {
		return n
	}
	return cap
}
