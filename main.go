package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstehr/vimy/vimy-tactics/agent"
	"github.com/nstehr/vimy/vimy-tactics/config"
	"github.com/nstehr/vimy/vimy-tactics/ipc"
	"github.com/nstehr/vimy/vimy-tactics/rules"
	"github.com/nstehr/vimy/vimy-tactics/theater"
)

const banner = `
██╗   ██╗██╗███╗   ███╗██╗   ██╗
██║   ██║██║████╗ ████║╚██╗ ██╔╝
██║   ██║██║██╔████╔██║ ╚████╔╝
╚██╗ ██╔╝██║██║╚██╔╝██║  ╚██╔╝
 ╚████╔╝ ██║██║ ╚═╝ ██║   ██║
  ╚═══╝  ╚═╝╚═╝     ╚═╝   ╚═╝

Doctrine-Driven Tactical Coordination`

func main() {
	socketPath := flag.String("socket", "/tmp/vimy-tactics.sock", "unix domain socket to listen on")
	doctrinePath := flag.String("doctrine", "", "tactical doctrine YAML file (defaults if empty)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	reloadEvery := flag.Int("reload-interval", 500, "ticks between doctrine file checks")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	doctrine := rules.DefaultDoctrine()
	if *doctrinePath != "" {
		d, err := config.LoadDoctrine(*doctrinePath)
		if err != nil {
			slog.Error("failed to load doctrine", "error", err)
			os.Exit(1)
		}
		doctrine = d
	}
	slog.Info("starting vimy-tactics", "doctrine", doctrine.Name, "socket", *socketPath)

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(*socketPath); err != nil {
		slog.Error("failed to clean up socket", "path", *socketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", *socketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", *socketPath, "error", err)
		os.Exit(1)
	}
	defer listener.Close()
	defer os.Remove(*socketPath)

	slog.Info("listening on domain socket", "path", *socketPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(ctx, conn, doctrine, *doctrinePath, *reloadEvery)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}

// handleConn gives each player session its own engine, squads and reloader so
// sessions never share mutable state.
func handleConn(ctx context.Context, conn net.Conn, d rules.Doctrine, doctrinePath string, reloadEvery int) {
	engine, err := rules.NewEngine(rules.CompileDoctrine(d))
	if err != nil {
		slog.Error("failed to compile doctrine", "error", err)
		conn.Close()
		return
	}
	commander := theater.NewCommander(engine, d)
	reloader := agent.NewReloader(doctrinePath, engine, commander, reloadEvery)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go reloader.Start(ctx)

	c := ipc.NewConnection(conn, nil)
	a := agent.New(c, commander, reloader)
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeGameState, a.HandleGameState)
	c.ReadLoop(ctx)
}
