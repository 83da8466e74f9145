// Command client runs one bomberman client relay process (spec.md §6,
// "Client CLI"): it bridges a UDP GUI peer and a TCP server peer around a
// replicated game state.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bomberman/internal/client"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		guiAddress    = flag.String("d", "", "GUI host:port to send draw messages to (required)")
		playerName    = flag.String("n", "", "player name sent on Join (required)")
		port          = flag.Uint("p", 0, "local UDP port the GUI sends input on (required)")
		serverAddress = flag.String("s", "", "server host:port to connect to (required)")
	)
	flag.Usage = printUsage
	flag.Parse()

	if err := requireFlags(map[string]bool{
		"d": *guiAddress != "",
		"n": *playerName != "",
		"p": *port != 0 && *port <= 65535,
		"s": *serverAddress != "",
	}); err != nil {
		fmt.Fprintln(os.Stderr, "client:", err)
		flag.Usage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := client.Config{
		PlayerName:    *playerName,
		ServerAddress: *serverAddress,
		GUIAddress:    *guiAddress,
		Port:          uint16(*port),
	}

	relay, err := client.Dial(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "client:", err)
		return 1
	}
	defer relay.Close()

	if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "client:", err)
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
	fmt.Fprintln(os.Stderr, "usage: client -n player-name -s server-address -d gui-address -p port")
	flag.PrintDefaults()
}
