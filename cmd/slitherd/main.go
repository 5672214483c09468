// slitherd is an authoritative multiplayer snake arena server speaking the
// binary slither wire protocol over websockets.
package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"slitherd/internal/config"
	"slitherd/internal/game"
	"slitherd/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config overriding the embedded defaults")
	port := flag.Int("port", 0, "bind port (overrides config)")
	bots := flag.Int("bots", -1, "bots to spawn on startup (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *bots >= 0 {
		cfg.World.Bots = *bots
	}
	if *debug {
		cfg.Server.Debug = true
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	world := game.NewWorld(cfg.GameConfig(), rng)
	log.Printf("world ready: radius=%d sectors=%dx%d bots=%d",
		game.GameRadius, game.SectorCountAlongEdge, game.SectorCountAlongEdge, cfg.World.Bots)

	srv := server.New(cfg, world)
	if err := srv.Run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
