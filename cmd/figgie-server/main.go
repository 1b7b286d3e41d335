// Command figgie-server runs the two-listener process described in §6:
// a request/response RPC listener and a PlayerUpdate websocket stream
// listener, both backed by one process-wide internal/registry.
//
// Grounded on hakimelghazi-exchange-core/cmd/server/main.go's overall
// shape (parse flags, build dependencies, start listeners, wait on a
// shutdown signal or a listener error, shut down with a timeout), with
// its plain log.Fatal startup swapped for a structured slog logger in
// the idiom Bboissen-trador_tool/api-gateway's main.go uses for its own
// two-listener (public/private) process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/figgie-game/figgie/internal/config"
	"github.com/figgie-game/figgie/internal/registry"
	"github.com/figgie-game/figgie/internal/round"
	"github.com/figgie-game/figgie/internal/transport"
)

func main() {
	fs := flag.NewFlagSet("figgie-server", flag.ExitOnError)
	cfg, err := config.ParseServerFlags(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	reg := registry.New(cfg.Round, round.RealClock{}, logger)
	srv := transport.New(reg, logger, webFS())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting figgie-server", "rpc_addr", cfg.RPCAddr, "ws_addr", cfg.WSAddr)
	if err := srv.ListenAndServe(ctx, cfg.RPCAddr, cfg.WSAddr); err != nil && ctx.Err() == nil {
		logger.Error("listen failed", "err", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// setupLogger builds the process's default structured logger, keyed off
// the -log-level flag's Debug|Info|Error vocabulary from §6's CLI
// surface, in the spirit of api-gateway's own environment-driven
// setupLogger but trimmed to the flag-only surface this server exposes.
func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "Debug":
		lvl = slog.LevelDebug
	case "Error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
