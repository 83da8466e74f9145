package protocol

// Event is the tagged sum of per-turn events carried inside a Turn message
// (spec.md §4.1, "Event").
type Event interface {
	isEvent()
}

const (
	tagBombPlaced   uint8 = 0
	tagBombExploded uint8 = 1
	tagPlayerMoved  uint8 = 2
	tagBlockPlaced  uint8 = 3
)

type BombPlacedEvent struct {
	BombId   BombId
	Position Position
}

type BombExplodedEvent struct {
	BombId          BombId
	RobotsDestroyed []PlayerId
	BlocksDestroyed []Position
}

type PlayerMovedEvent struct {
	PlayerId PlayerId
	Position Position
}

type BlockPlacedEvent struct {
	Position Position
}

func (BombPlacedEvent) isEvent()   {}
func (BombExplodedEvent) isEvent() {}
func (PlayerMovedEvent) isEvent()  {}
func (BlockPlacedEvent) isEvent()  {}

func EncodeEvent(e *Encoder, ev Event) error {
	switch v := ev.(type) {
	case BombPlacedEvent:
		e.WriteU8(tagBombPlaced)
		e.WriteU32(uint32(v.BombId))
		e.WritePosition(v.Position)
		return nil
	case BombExplodedEvent:
		e.WriteU8(tagBombExploded)
		e.WriteU32(uint32(v.BombId))
		e.WritePlayerIdList(v.RobotsDestroyed)
		e.WritePositionList(v.BlocksDestroyed)
		return nil
	case PlayerMovedEvent:
		e.WriteU8(tagPlayerMoved)
		e.WriteU8(uint8(v.PlayerId))
		e.WritePosition(v.Position)
		return nil
	case BlockPlacedEvent:
		e.WriteU8(tagBlockPlaced)
		e.WritePosition(v.Position)
		return nil
	default:
		return errUnknownTag(0, "Event: unrepresentable variant")
	}
}

func DecodeEvent(d *Decoder) (Event, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagBombPlaced:
		id, err := d.ReadU32()
		if err != nil {
			return nil, err
		}
		pos, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		return BombPlacedEvent{BombId: BombId(id), Position: pos}, nil
	case tagBombExploded:
		id, err := d.ReadU32()
		if err != nil {
			return nil, err
		}
		robots, err := d.ReadPlayerIdList()
		if err != nil {
			return nil, err
		}
		blocks, err := d.ReadPositionList()
		if err != nil {
			return nil, err
		}
		return BombExplodedEvent{BombId: BombId(id), RobotsDestroyed: robots, BlocksDestroyed: blocks}, nil
	case tagPlayerMoved:
		idv, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		pos, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		return PlayerMovedEvent{PlayerId: PlayerId(idv), Position: pos}, nil
	case tagBlockPlaced:
		pos, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		return BlockPlacedEvent{Position: pos}, nil
	default:
		return nil, errUnknownTag(tag, "Event")
	}
}

func EncodeEventList(e *Encoder, events []Event) error {
	e.WriteU32(uint32(len(events)))
	for _, ev := range events {
		if err := EncodeEvent(e, ev); err != nil {
			return err
		}
	}
	return nil
}

func DecodeEventList(d *Decoder) ([]Event, error) {
	n, err := d.readCollectionLen()
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, min32(n, 4096))
	for i := uint32(0); i < n; i++ {
		ev, err := DecodeEvent(d)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}
