// Command eio-probe connects to an engine.io server, upgrades to websocket
// when the server allows it, and prints what arrives until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zishang520/engine.io-client-ws/config"
	"github.com/zishang520/engine.io-client-ws/engine"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
)

func main() {
	fs := flag.NewFlagSet("eio-probe", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML config file (default ./eio.yaml)")
	url := fs.String("url", "", "engine.io server url, overrides the config file")
	message := fs.String("message", "", "text message to send once the session is open")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	if *url != "" {
		cfg.URL = *url
	}
	if cfg.URL == "" {
		fatalf("no server url, use -url or set url in the config file")
	}
	log.DEBUG = *debug || cfg.Debug

	socket, err := engine.NewSocket(cfg.URL, cfg.SocketOptions())
	if err != nil {
		fatalf("new socket: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	socket.On("open", func(...any) {
		fmt.Printf("open sid=%s\n", socket.Id())
		if *message != "" {
			if err := socket.Send(*message); err != nil {
				fmt.Fprintf(os.Stderr, "send: %v\n", err)
			}
		}
	})
	socket.On("upgrade", func(args ...any) {
		if t, ok := args[0].(engine.TransportInterface); ok {
			fmt.Printf("upgraded to %s\n", t.Name())
		}
	})
	socket.On("upgradeError", func(args ...any) {
		fmt.Fprintf(os.Stderr, "upgrade failed: %v\n", args[0])
	})
	socket.On("message", func(args ...any) {
		if data, ok := args[0].(types.BufferInterface); ok {
			fmt.Printf("message: %s\n", data.String())
		}
	})
	socket.On("decoded", func(args ...any) {
		fmt.Printf("socket.io packet: %+v\n", args[0])
	})
	socket.On("error", func(args ...any) {
		fmt.Fprintf(os.Stderr, "error: %v\n", args[0])
	})
	socket.On("close", func(args ...any) {
		fmt.Printf("close: %v\n", args[0])
		stop()
	})

	if err := socket.Connect(ctx); err != nil {
		fatalf("connect: %v", err)
	}

	<-ctx.Done()
	socket.Close()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
