// Package connection implements the server's player-facing I/O: accepting
// TCP connections, replaying the late-joiner snapshot, running one receive
// loop per connection, and the serialized broadcast fan-out (spec.md §4.4,
// §5). It is the only package that touches net.Conn on the server side.
package connection

import (
	"context"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"bomberman/internal/framing"
	"bomberman/internal/metrics"
	"bomberman/internal/protocol"
	"bomberman/internal/state"
)

// Joiner is the subset of internal/engine.Engine a Connector needs: the
// ability to admit a Join. Kept as an interface so this package doesn't
// import engine's broadcaster dependency back.
type Joiner interface {
	Join(name, address string) (protocol.PlayerId, bool)
}

// PlayerConnection is one accepted TCP peer (spec.md §3). assigned/id are
// only ever written by this connection's own receive-loop goroutine; no
// other goroutine reads them, so they need no lock.
type PlayerConnection struct {
	stream   *framing.TCPStream
	limiter  *rate.Limiter
	sendMu   sync.Mutex
	id       protocol.PlayerId
	assigned bool
}

// Connector owns the accept socket and the live connection set (spec.md
// §4.4). mu is the "exclusive access to the connection set" spec.md
// describes: both accepting a new connection (with its snapshot reply) and
// broadcasting hold it, so the two can never interleave — a late joiner
// never misses, or double-sees, a broadcast Turn (P4).
type Connector struct {
	mu    sync.Mutex
	conns map[*PlayerConnection]struct{}

	state  *state.ServerState
	joiner Joiner

	rateLimit rate.Limit
	rateBurst int

	sent    uint64
	dropped uint64

	// Metrics is optional; nil means no metrics are recorded.
	Metrics *metrics.Metrics
}

// Config bundles the per-connection rate limit, generalized from the
// teacher's per-IP HTTP-upgrade throttle (getOrCreateRateLimiter) to a
// per-connection protocol-message throttle: our transport has no HTTP
// upgrade step to hang a limiter off of, but the same "reject past N
// messages/sec, burst B" shape applies to a stream of client intents.
type Config struct {
	RateLimit rate.Limit
	RateBurst int
}

// New creates a Connector. joiner is usually an *engine.Engine; it may be
// nil at construction time and set later with SetJoiner, to break the
// construction cycle between Connector and Engine (Engine needs a
// Broadcaster, which Connector provides).
func New(st *state.ServerState, joiner Joiner, cfg Config) *Connector {
	return &Connector{
		conns:     make(map[*PlayerConnection]struct{}),
		state:     st,
		joiner:    joiner,
		rateLimit: cfg.RateLimit,
		rateBurst: cfg.RateBurst,
	}
}

// SetJoiner sets the Joiner used to admit new players. Must be called
// before Serve starts accepting connections.
func (c *Connector) SetJoiner(joiner Joiner) {
	c.joiner = joiner
}

// Serve runs the accept loop until ctx is cancelled or the listener errors.
func (c *Connector) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}
		go c.handleAccept(conn)
	}
}

func (c *Connector) handleAccept(conn net.Conn) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
	}
	stream := framing.NewTCPStream(conn)
	pc := &PlayerConnection{
		stream:  stream,
		limiter: rate.NewLimiter(c.rateLimit, c.rateBurst),
	}

	c.mu.Lock()
	ok := c.greet(pc)
	if ok {
		c.conns[pc] = struct{}{}
		if c.Metrics != nil {
			c.Metrics.ConnectedPlayers.Set(float64(len(c.conns)))
		}
	}
	c.mu.Unlock()

	if !ok {
		stream.Close()
		return
	}

	log.Printf("🔌 connection accepted from %s", stream.RemoteAddr())
	c.receiveLoop(pc)
}

// greet sends Hello followed by the late-joiner snapshot (spec.md §4.4,
// steps 1-3), while c.mu is held so no broadcast can interleave with the
// snapshot being assembled. It must be called with c.mu held.
func (c *Connector) greet(pc *PlayerConnection) bool {
	cfg := c.state.Config
	hello := protocol.HelloMessage{
		ServerName:      cfg.ServerName,
		PlayersCount:    cfg.PlayersCount,
		SizeX:           cfg.SizeX,
		SizeY:           cfg.SizeY,
		GameLength:      cfg.GameLength,
		ExplosionRadius: cfg.ExplosionRadius,
		BombTimer:       cfg.BombTimer,
	}
	if err := pc.stream.WriteServerMessage(hello); err != nil {
		return false
	}

	switch c.state.Phase() {
	case state.PhasePlaying:
		players := c.state.PlayersSnapshot()
		if err := pc.stream.WriteServerMessage(protocol.GameStartedMessage{Players: players}); err != nil {
			return false
		}
		for _, turn := range c.state.HistorySnapshot() {
			if err := pc.stream.WriteServerMessage(turn); err != nil {
				return false
			}
		}
	case state.PhaseLobby:
		players := c.state.PlayersSnapshot()
		for _, id := range c.state.PlayerIDsAscending() {
			msg := protocol.AcceptedPlayerMessage{PlayerId: id, Player: players[id]}
			if err := pc.stream.WriteServerMessage(msg); err != nil {
				return false
			}
		}
	}
	return true
}

func (c *Connector) receiveLoop(pc *PlayerConnection) {
	defer c.remove(pc)
	for {
		msg, err := pc.stream.DecodeClientMessage()
		if err != nil {
			return
		}
		if !pc.limiter.Allow() {
			continue
		}
		switch m := msg.(type) {
		case protocol.JoinMessage:
			if pc.assigned {
				continue
			}
			id, ok := c.joiner.Join(m.Name, pc.stream.RemoteAddr())
			if !ok {
				continue
			}
			pc.id = id
			pc.assigned = true
		default:
			if !pc.assigned {
				continue
			}
			c.state.Intents().Submit(pc.id, m)
		}
	}
}

func (c *Connector) remove(pc *PlayerConnection) {
	c.mu.Lock()
	delete(c.conns, pc)
	if c.Metrics != nil {
		c.Metrics.ConnectedPlayers.Set(float64(len(c.conns)))
	}
	c.mu.Unlock()
	pc.stream.Close()
}

// Broadcast sends msg to every live connection, in a single serialized
// iteration (spec.md §4.4/§5, P3): all observers see the same turn
// sequence because no two broadcasts, and no broadcast and snapshot
// assembly, ever run concurrently. A send error marks that connection for
// removal after the iteration completes; the engine is never blocked by
// one bad peer.
func (c *Connector) Broadcast(msg protocol.ServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var dead []*PlayerConnection
	for pc := range c.conns {
		pc.sendMu.Lock()
		err := pc.stream.WriteServerMessage(msg)
		pc.sendMu.Unlock()
		if err != nil {
			dead = append(dead, pc)
			atomic.AddUint64(&c.dropped, 1)
			if c.Metrics != nil {
				c.Metrics.BroadcastsFailed.Inc()
			}
			continue
		}
		atomic.AddUint64(&c.sent, 1)
		if c.Metrics != nil {
			c.Metrics.BroadcastsSent.Inc()
		}
	}
	for _, pc := range dead {
		delete(c.conns, pc)
		pc.stream.Close()
	}
	if len(dead) > 0 && c.Metrics != nil {
		c.Metrics.ConnectedPlayers.Set(float64(len(c.conns)))
	}
}

// Stats reports cumulative send counters, in the shape of the teacher's
// broadcast-worker stats idiom (atomic counters + a snapshot map).
func (c *Connector) Stats() map[string]uint64 {
	return map[string]uint64{
		"sent":    atomic.LoadUint64(&c.sent),
		"dropped": atomic.LoadUint64(&c.dropped),
	}
}

// ConnectionCount returns the number of live connections.
func (c *Connector) ConnectionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conns)
}
