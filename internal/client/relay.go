package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"bomberman/internal/framing"
	"bomberman/internal/netutil"
	"bomberman/internal/protocol"
)

// Config configures one Relay process (spec.md §6, "Client CLI").
type Config struct {
	PlayerName    string
	ServerAddress string // host:port, last-colon split
	GUIAddress    string // host:port the GUI listens on for draws
	Port          uint16 // local UDP port the GUI sends input on
}

// Relay bridges one UDP GUI peer and one TCP server peer around a single
// replicated State (spec.md §4.3). Every mutation of state happens on the
// one goroutine that runs Run — the "single threaded cooperative event
// loop" of spec.md §5. The two socket reads run on their own goroutines and
// hand decoded messages to Run over channels.
type Relay struct {
	cfg   Config
	state *State

	server  *framing.TCPStream
	gui     *framing.UDPEndpoint
	guiAddr net.Addr
}

// Dial connects to the server and binds the GUI-facing UDP socket, but does
// not start the event loop.
func Dial(ctx context.Context, cfg Config) (*Relay, error) {
	serverConn, err := netutil.DialTCP(ctx, cfg.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("client: dialing server: %w", err)
	}

	udpConn, err := netutil.ListenUDP(ctx, cfg.Port)
	if err != nil {
		serverConn.Close()
		return nil, fmt.Errorf("client: binding GUI socket: %w", err)
	}

	host, port, err := netutil.SplitHostPort(cfg.GUIAddress)
	if err != nil {
		serverConn.Close()
		udpConn.Close()
		return nil, fmt.Errorf("client: parsing gui address: %w", err)
	}
	guiAddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, port))
	if err != nil {
		serverConn.Close()
		udpConn.Close()
		return nil, fmt.Errorf("client: resolving gui address: %w", err)
	}

	return &Relay{
		cfg:     cfg,
		state:   NewState(),
		server:  framing.NewTCPStream(serverConn),
		gui:     framing.NewUDPEndpoint(udpConn),
		guiAddr: guiAddr,
	}, nil
}

// Close closes the TCP connection to the server. The GUI-facing UDP socket
// is not closed here.
func (r *Relay) Close() {
	r.server.Close()
}

// Run drives the event loop until the server connection closes or ctx is
// cancelled. Run itself closes no socket: a fatal error is returned to the
// caller, which closes the relay with Close and exits 1.
func (r *Relay) Run(ctx context.Context) error {
	fromServer := make(chan protocol.ServerMessage)
	fromGUI := make(chan protocol.GuiInput)
	serverErr := make(chan error, 1)

	go r.readServerLoop(fromServer, serverErr)
	go r.readGUILoop(fromGUI)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-serverErr:
			return err
		case msg := <-fromServer:
			if err := r.applyServerMessage(msg); err != nil {
				return err
			}
		case in := <-fromGUI:
			if err := r.forwardGUIInput(in); err != nil {
				return err
			}
		}
	}
}

func (r *Relay) readServerLoop(out chan<- protocol.ServerMessage, errc chan<- error) {
	for {
		msg, err := r.server.DecodeServerMessage()
		if err != nil {
			if errors.Is(err, framing.ErrConnectionAborted) {
				errc <- err
				return
			}
			// Decode errors on the TCP side are fatal for the connection
			// (spec.md §7).
			errc <- err
			return
		}
		out <- msg
	}
}

func (r *Relay) readGUILoop(out chan<- protocol.GuiInput) {
	for {
		in, _, err := r.gui.ReadGuiInput()
		if err != nil {
			// Decode failures on the GUI-facing UDP socket are non-fatal;
			// drop and keep listening (spec.md §4.3, §7).
			if isFatalUDPError(err) {
				return
			}
			continue
		}
		out <- in
	}
}

func isFatalUDPError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && !netErr.Timeout()
}

// applyServerMessage updates the replica per spec.md §4.3's rules, then
// emits the matching draw to the GUI when one is called for.
func (r *Relay) applyServerMessage(msg protocol.ServerMessage) error {
	switch m := msg.(type) {
	case protocol.HelloMessage:
		r.state.ApplyHello(m)
		return r.emitDraw()
	case protocol.AcceptedPlayerMessage:
		r.state.ApplyAcceptedPlayer(m)
		return r.emitDraw()
	case protocol.GameStartedMessage:
		r.state.ApplyGameStarted(m)
		return nil
	case protocol.TurnMessage:
		r.state.ApplyTurn(m)
		return r.emitDraw()
	case protocol.GameEndedMessage:
		r.state.ApplyGameEnded(m)
		return r.emitDraw()
	default:
		log.Printf("client: ignoring unrecognized server message %T", msg)
		return nil
	}
}

func (r *Relay) emitDraw() error {
	if r.state.GameOn {
		return r.gui.WriteGuiDraw(r.state.GameDraw(), r.guiAddr)
	}
	return r.gui.WriteGuiDraw(r.state.LobbyDraw(), r.guiAddr)
}

// forwardGUIInput implements spec.md §4.3's "On GUI input" rule: before the
// game starts, any GUI input is treated as a request to join; once the
// game is on, the decoded intent is forwarded unchanged.
func (r *Relay) forwardGUIInput(in protocol.GuiInput) error {
	if !r.state.GameOn {
		return r.server.WriteClientMessage(protocol.JoinMessage{Name: r.cfg.PlayerName})
	}
	switch v := in.(type) {
	case protocol.GuiPlaceBomb:
		return r.server.WriteClientMessage(protocol.PlaceBombMessage{})
	case protocol.GuiPlaceBlock:
		return r.server.WriteClientMessage(protocol.PlaceBlockMessage{})
	case protocol.GuiMove:
		return r.server.WriteClientMessage(protocol.MoveMessage{Direction: v.Direction})
	default:
		return nil
	}
}
