// Command figgie-bot runs one automated player against a figgie-server,
// over the same public RPC/stream surface a browser client uses.
//
// Grounded on LarryBui-ThirteenV4/Server's CLI-driven bot launch
// (a -which suffix distinguishes one bot process from another when
// several are started side by side) and hakimelghazi-exchange-core's
// flag-and-run main shape.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/figgie-game/figgie/internal/bot"
	"github.com/figgie-game/figgie/internal/config"
)

func main() {
	fs := flag.NewFlagSet("figgie-bot", flag.ExitOnError)
	cfg, err := config.ParseBotFlags(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, levelFromString(cfg.LogLevel)))

	who := fmt.Sprintf("bot%d", cfg.Which)
	wsAddr := deriveWSAddr(cfg.Server)
	client := bot.Dial(cfg.Server, wsAddr)
	agent := bot.NewAgent(client, who, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := agent.Run(ctx, cfg.Room); err != nil && ctx.Err() == nil {
		logger.Error("agent stopped", "who", who, "err", err)
		os.Exit(1)
	}
}

// deriveWSAddr guesses the websocket listener's address from the RPC
// listener's, assuming the default port offset (58829 = 58828+1) from
// §6's CLI surface. A deployment using nonstandard ports would need its
// own -ws-addr flag; the bot binary's Non-goals keep its CLI surface to
// a single -server address for simplicity.
func deriveWSAddr(rpcAddr string) string {
	host, portStr, err := net.SplitHostPort(rpcAddr)
	if err != nil {
		return rpcAddr
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return rpcAddr
	}
	return net.JoinHostPort(host, strconv.Itoa(port+1))
}

func levelFromString(level string) *slog.HandlerOptions {
	var lvl slog.Level
	switch level {
	case "Debug":
		lvl = slog.LevelDebug
	case "Error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return &slog.HandlerOptions{Level: lvl}
}
