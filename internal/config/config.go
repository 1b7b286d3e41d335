// Package config loads Figgie's server-wide defaults from command-line
// flags, grounded on the plain-struct, load-once pattern of
// LarryBui-ThirteenV4/Server/internal/config/config.go's GameConfig,
// adapted from a JSON file to flags because §6's CLI surface is
// flag-driven rather than file-driven.
package config

import (
	"flag"
	"time"
)

// RoundConfig holds the per-room constants from §6, overridable per room
// at creation time.
type RoundConfig struct {
	Pot               int64
	PerGoldCardBonus   int64
	RoundDuration      time.Duration
	MaxPrice           int64
	PlayersPerRoom     int
	HandSize           int64
	DeckSize           int64
}

// Defaults returns §6's default constants.
func Defaults() RoundConfig {
	const pot = 100
	return RoundConfig{
		Pot:              pot,
		PerGoldCardBonus: 10,
		RoundDuration:    240 * time.Second,
		MaxPrice:         100 * pot,
		PlayersPerRoom:   4,
		HandSize:         10,
		DeckSize:         40,
	}
}

// ServerConfig holds the server binary's settings parsed from flags:
// -rpc-addr and -ws-addr for its two listeners, plus the -log-level flag
// it shares with the bot binary.
type ServerConfig struct {
	RPCAddr string // e.g. ":58828"
	WSAddr  string // e.g. ":58829"
	LogLevel string // Debug | Info | Error
	Round   RoundConfig
}

// ParseServerFlags parses the server binary's flags from args (pass
// os.Args[1:]), applying §6's defaults for anything unset.
func ParseServerFlags(fs *flag.FlagSet, args []string) (ServerConfig, error) {
	cfg := ServerConfig{Round: Defaults()}
	fs.StringVar(&cfg.RPCAddr, "rpc-addr", ":58828", "address for the request/response RPC listener")
	fs.StringVar(&cfg.WSAddr, "ws-addr", ":58829", "address for the websocket update-stream listener")
	fs.StringVar(&cfg.LogLevel, "log-level", "Info", "Debug, Info, or Error")
	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// BotConfig holds the bot client's flags, grounded on §6's "-which N"
// (username-suffix) surface.
type BotConfig struct {
	Server   string
	LogLevel string
	Which    int
	Room     string
}

// ParseBotFlags parses the bot binary's flags.
func ParseBotFlags(fs *flag.FlagSet, args []string) (BotConfig, error) {
	cfg := BotConfig{}
	fs.StringVar(&cfg.Server, "server", "localhost:58828", "HOST:PORT of the RPC listener")
	fs.StringVar(&cfg.LogLevel, "log-level", "Info", "Debug, Info, or Error")
	fs.IntVar(&cfg.Which, "which", 0, "suffixes the bot's username, e.g. bot3")
	fs.StringVar(&cfg.Room, "room", "", "specific room to join; empty means auto-join")
	if err := fs.Parse(args); err != nil {
		return BotConfig{}, err
	}
	return cfg, nil
}
