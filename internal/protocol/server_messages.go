package protocol

// ServerMessage is the tagged sum of messages the server sends to a
// client (spec.md §4.1, "Server → Client").
type ServerMessage interface {
	isServerMessage()
}

const (
	tagHello          uint8 = 0
	tagAcceptedPlayer uint8 = 1
	tagGameStarted    uint8 = 2
	tagTurn           uint8 = 3
	tagGameEnded      uint8 = 4
)

type HelloMessage struct {
	ServerName      string
	PlayersCount    uint8
	SizeX           uint16
	SizeY           uint16
	GameLength      uint16
	ExplosionRadius uint16
	BombTimer       uint16
}

type AcceptedPlayerMessage struct {
	PlayerId PlayerId
	Player   Player
}

type GameStartedMessage struct {
	Players map[PlayerId]Player
}

type TurnMessage struct {
	Turn   uint16
	Events []Event
}

type GameEndedMessage struct {
	Scores map[PlayerId]Score
}

func (HelloMessage) isServerMessage()          {}
func (AcceptedPlayerMessage) isServerMessage() {}
func (GameStartedMessage) isServerMessage()    {}
func (TurnMessage) isServerMessage()           {}
func (GameEndedMessage) isServerMessage()      {}

func EncodeServerMessage(e *Encoder, m ServerMessage) error {
	switch v := m.(type) {
	case HelloMessage:
		e.WriteU8(tagHello)
		if err := e.WriteString(v.ServerName); err != nil {
			return err
		}
		e.WriteU8(v.PlayersCount)
		e.WriteU16(v.SizeX)
		e.WriteU16(v.SizeY)
		e.WriteU16(v.GameLength)
		e.WriteU16(v.ExplosionRadius)
		e.WriteU16(v.BombTimer)
		return nil
	case AcceptedPlayerMessage:
		e.WriteU8(tagAcceptedPlayer)
		e.WriteU8(uint8(v.PlayerId))
		if err := e.WriteString(v.Player.Name); err != nil {
			return err
		}
		return e.WriteString(v.Player.Address)
	case GameStartedMessage:
		e.WriteU8(tagGameStarted)
		return e.WritePlayerMap(v.Players)
	case TurnMessage:
		e.WriteU8(tagTurn)
		e.WriteU16(v.Turn)
		return EncodeEventList(e, v.Events)
	case GameEndedMessage:
		e.WriteU8(tagGameEnded)
		e.WriteScoreMap(v.Scores)
		return nil
	default:
		return errUnknownTag(0, "ServerMessage: unrepresentable variant")
	}
}

func DecodeServerMessage(d *Decoder) (ServerMessage, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagHello:
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		playersCount, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		sizeX, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		sizeY, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		gameLength, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		explosionRadius, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		bombTimer, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		return HelloMessage{
			ServerName:      name,
			PlayersCount:    playersCount,
			SizeX:           sizeX,
			SizeY:           sizeY,
			GameLength:      gameLength,
			ExplosionRadius: explosionRadius,
			BombTimer:       bombTimer,
		}, nil
	case tagAcceptedPlayer:
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
		return AcceptedPlayerMessage{PlayerId: PlayerId(idv), Player: Player{Name: name, Address: addr}}, nil
	case tagGameStarted:
		players, err := d.ReadPlayerMap()
		if err != nil {
			return nil, err
		}
		return GameStartedMessage{Players: players}, nil
	case tagTurn:
		turn, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		events, err := DecodeEventList(d)
		if err != nil {
			return nil, err
		}
		return TurnMessage{Turn: turn, Events: events}, nil
	case tagGameEnded:
		scores, err := d.ReadScoreMap()
		if err != nil {
			return nil, err
		}
		return GameEndedMessage{Scores: scores}, nil
	default:
		return nil, errUnknownTag(tag, "ServerMessage")
	}
}
