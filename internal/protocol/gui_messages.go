package protocol

// GuiDraw is the tagged sum the client relay sends to the GUI over UDP:
// tag 0 is a Lobby screen, tag 1 is a Game screen (spec.md §4.1, "Client ↔
// GUI").
type GuiDraw interface {
	isGuiDraw()
}

const (
	tagLobbyDraw uint8 = 0
	tagGameDraw  uint8 = 1
)

// LobbyDraw mirrors the server's Hello plus whichever players have joined
// so far.
type LobbyDraw struct {
	ServerName      string
	SizeX           uint16
	SizeY           uint16
	GameLength      uint16
	ExplosionRadius uint16
	BombTimer       uint16
	PlayersCount    uint8
	Players         map[PlayerId]Player
}

// GameDraw is a full snapshot of the replica's public state, sent once per
// applied Turn.
type GameDraw struct {
	ServerName      string
	SizeX           uint16
	SizeY           uint16
	GameLength      uint16
	Turn            uint16
	Players         map[PlayerId]Player
	PlayerPositions map[PlayerId]Position
	Blocks          map[Position]struct{}
	Bombs           map[BombId]Bomb
	Explosions      map[Position]struct{}
	Scores          map[PlayerId]Score
}

func (LobbyDraw) isGuiDraw() {}
func (GameDraw) isGuiDraw()  {}

func EncodeGuiDraw(e *Encoder, d GuiDraw) error {
	switch v := d.(type) {
	case LobbyDraw:
		e.WriteU8(tagLobbyDraw)
		if err := e.WriteString(v.ServerName); err != nil {
			return err
		}
		e.WriteU16(v.SizeX)
		e.WriteU16(v.SizeY)
		e.WriteU16(v.GameLength)
		e.WriteU16(v.ExplosionRadius)
		e.WriteU16(v.BombTimer)
		e.WriteU8(v.PlayersCount)
		return e.WritePlayerMap(v.Players)
	case GameDraw:
		e.WriteU8(tagGameDraw)
		if err := e.WriteString(v.ServerName); err != nil {
			return err
		}
		e.WriteU16(v.SizeX)
		e.WriteU16(v.SizeY)
		e.WriteU16(v.GameLength)
		e.WriteU16(v.Turn)
		if err := e.WritePlayerMap(v.Players); err != nil {
			return err
		}
		e.WritePositionMap(v.PlayerPositions)
		e.WritePositionSet(v.Blocks)
		e.WriteBombMap(v.Bombs)
		e.WritePositionSet(v.Explosions)
		e.WriteScoreMap(v.Scores)
		return nil
	default:
		return errUnknownTag(0, "GuiDraw: unrepresentable variant")
	}
}

func DecodeGuiDraw(dec *Decoder) (GuiDraw, error) {
	tag, err := dec.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagLobbyDraw:
		name, err := dec.ReadString()
		if err != nil {
			return nil, err
		}
		sizeX, err := dec.ReadU16()
		if err != nil {
			return nil, err
		}
		sizeY, err := dec.ReadU16()
		if err != nil {
			return nil, err
		}
		gameLength, err := dec.ReadU16()
		if err != nil {
			return nil, err
		}
		explosionRadius, err := dec.ReadU16()
		if err != nil {
			return nil, err
		}
		bombTimer, err := dec.ReadU16()
		if err != nil {
			return nil, err
		}
		playersCount, err := dec.ReadU8()
		if err != nil {
			return nil, err
		}
		players, err := dec.ReadPlayerMap()
		if err != nil {
			return nil, err
		}
		return LobbyDraw{
			ServerName:      name,
			SizeX:           sizeX,
			SizeY:           sizeY,
			GameLength:      gameLength,
			ExplosionRadius: explosionRadius,
			BombTimer:       bombTimer,
			PlayersCount:    playersCount,
			Players:         players,
		}, nil
	case tagGameDraw:
		name, err := dec.ReadString()
		if err != nil {
			return nil, err
		}
		sizeX, err := dec.ReadU16()
		if err != nil {
			return nil, err
		}
		sizeY, err := dec.ReadU16()
		if err != nil {
			return nil, err
		}
		gameLength, err := dec.ReadU16()
		if err != nil {
			return nil, err
		}
		turn, err := dec.ReadU16()
		if err != nil {
			return nil, err
		}
		players, err := dec.ReadPlayerMap()
		if err != nil {
			return nil, err
		}
		positions, err := dec.ReadPositionMap()
		if err != nil {
			return nil, err
		}
		blocks, err := dec.ReadPositionSet()
		if err != nil {
			return nil, err
		}
		bombs, err := dec.ReadBombMap()
		if err != nil {
			return nil, err
		}
		explosions, err := dec.ReadPositionSet()
		if err != nil {
			return nil, err
		}
		scores, err := dec.ReadScoreMap()
		if err != nil {
			return nil, err
		}
		return GameDraw{
			ServerName:      name,
			SizeX:           sizeX,
			SizeY:           sizeY,
			GameLength:      gameLength,
			Turn:            turn,
			Players:         players,
			PlayerPositions: positions,
			Blocks:          blocks,
			Bombs:           bombs,
			Explosions:      explosions,
			Scores:          scores,
		}, nil
	default:
		return nil, errUnknownTag(tag, "GuiDraw")
	}
}

// GuiInput is the tagged sum the GUI sends the client over UDP. Its tag
// table is deliberately distinct from ClientMessage's: there is no Join
// variant (the client relay synthesizes Join locally from its configured
// player name), so PlaceBomb/PlaceBlock/Move shift down by one tag value
// (spec.md §4.1, "GUI→client input uses tags {0=PlaceBomb, 1=PlaceBlock,
// 2=Move(u8)}").
type GuiInput interface {
	isGuiInput()
}

const (
	tagGuiPlaceBomb  uint8 = 0
	tagGuiPlaceBlock uint8 = 1
	tagGuiMove       uint8 = 2
)

type GuiPlaceBomb struct{}
type GuiPlaceBlock struct{}
type GuiMove struct{ Direction Direction }

func (GuiPlaceBomb) isGuiInput()  {}
func (GuiPlaceBlock) isGuiInput() {}
func (GuiMove) isGuiInput()       {}

func EncodeGuiInput(e *Encoder, in GuiInput) error {
	switch v := in.(type) {
	case GuiPlaceBomb:
		e.WriteU8(tagGuiPlaceBomb)
		return nil
	case GuiPlaceBlock:
		e.WriteU8(tagGuiPlaceBlock)
		return nil
	case GuiMove:
		e.WriteU8(tagGuiMove)
		e.WriteU8(uint8(v.Direction))
		return nil
	default:
		return errUnknownTag(0, "GuiInput: unrepresentable variant")
	}
}

func DecodeGuiInput(d *Decoder) (GuiInput, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagGuiPlaceBomb:
		return GuiPlaceBomb{}, nil
	case tagGuiPlaceBlock:
		return GuiPlaceBlock{}, nil
	case tagGuiMove:
		dirv, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		dir := Direction(dirv)
		if !dir.Valid() {
			return nil, errUnknownTag(dirv, "Move direction")
		}
		return GuiMove{Direction: dir}, nil
	default:
		return nil, errUnknownTag(tag, "GuiInput")
	}
}
