// Command server runs one authoritative bomberman game server process
// (spec.md §6, "Server CLI"). It parses the fixed set of short flags,
// builds a server.Config, and blocks in server.Run until the process is
// signalled to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"bomberman/internal/server"
	"bomberman/internal/state"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		bombTimer       = flag.Uint("b", 0, "bomb timer, in turns (required)")
		playersCount    = flag.Uint("c", 0, "number of players to admit before starting (required)")
		turnDurationMs  = flag.Uint64("d", 0, "turn duration, in milliseconds (required)")
		explosionRadius = flag.Uint("e", 0, "explosion radius, in cells (required)")
		initialBlocks   = flag.Uint("k", 0, "number of blocks placed at turn 0 (required)")
		gameLength      = flag.Uint("l", 0, "number of turns per game (required)")
		serverName      = flag.String("n", "", "server name, shown in Hello (required)")
		port            = flag.Uint("p", 0, "TCP port to listen on (required)")
		sizeX           = flag.Uint("x", 0, "board width, in cells (required)")
		sizeY           = flag.Uint("y", 0, "board height, in cells (required)")
		seed            = flag.Int64("s", -1, "PRNG seed (default: current epoch time)")
		metricsAddr     = flag.String("metrics-addr", "", "optional host:port to serve /metrics on")
		rateLimit       = flag.Float64("rate-limit", 30, "max client messages per second, per connection")
		rateBurst       = flag.Uint("rate-burst", 10, "burst size for the per-connection rate limiter")
	)
	flag.Usage = printUsage
	flag.Parse()

	if err := requireFlags(map[string]bool{
		"n": *serverName != "",
		"p": *port != 0 && *port <= 65535,
		"x": *sizeX != 0,
		"y": *sizeY != 0,
		"c": *playersCount != 0 && *playersCount <= 255,
		"l": *gameLength != 0,
		"e": *explosionRadius != 0,
		"b": *bombTimer != 0,
		"k": true, // 0 initial blocks is a valid, if odd, board
		"d": *turnDurationMs != 0,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		flag.Usage()
		return 1
	}

	resolvedSeed := uint32(*seed)
	if *seed < 0 {
		resolvedSeed = uint32(time.Now().Unix())
	}

	cfg := server.Config{
		Game: state.Config{
			ServerName:      *serverName,
			SizeX:           uint16(*sizeX),
			SizeY:           uint16(*sizeY),
			PlayersCount:    uint8(*playersCount),
			GameLength:      uint16(*gameLength),
			ExplosionRadius: uint16(*explosionRadius),
			BombTimer:       uint16(*bombTimer),
			InitialBlocks:   uint16(*initialBlocks),
			TurnDuration:    time.Duration(*turnDurationMs) * time.Millisecond,
			Seed:            resolvedSeed,
			Port:            uint16(*port),
		},
		MetricsAddr: *metricsAddr,
		RateLimit:   rate.Limit(*rateLimit),
		RateBurst:   int(*rateBurst),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		return 1
	}
	return 0
}

func requireFlags(present map[string]bool) error {
	for name, ok := range present {
		if !ok {
			return fmt.Errorf("-%s is required", name)
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: server -n name -p port -x size-x -y size-y -c players-count -l game-length -e explosion-radius -b bomb-timer -k initial-blocks -d turn-duration-ms [-s seed]")
	flag.PrintDefaults()
}
