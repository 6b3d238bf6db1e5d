package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/splatvr/assets"
	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/server/core"
	"github.com/automoto/splatvr/shared/protocol"
)

func main() {
	port := flag.Uint("port", cfg.Net.Port, "Server port")
	tickRate := flag.Int("tickrate", cfg.Net.TickRate, "Server tick rate (updates per second)")
	name := flag.String("name", cfg.Net.ServerName, "Server display name")
	version := flag.String("version", cfg.Net.Version, "Required client version (empty = accept any)")
	levelsDir := flag.String("levels", cfg.Arena.LevelsDir, "Directory containing arenas/*.tmx (empty = embedded arenas)")
	level := flag.String("level", cfg.Arena.DefaultLevel, "Arena to host")
	master := flag.String("master", os.Getenv("SPLATVR_MASTER"), "Master server URL (empty = do not register)")
	address := flag.String("address", "", "Public address advertised to the master")
	region := flag.String("region", "", "Region advertised to the master")
	logHits := flag.Bool("log-hits", cfg.Debug.LogHits, "Log every resolved hit")
	logFires := flag.Bool("log-fires", cfg.Debug.LogFires, "Log every fire command")
	flag.Parse()

	cfg.Debug.LogHits = *logHits
	cfg.Debug.LogFires = *logFires

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	arena, err := loadArena(*levelsDir, *level)
	if err != nil {
		log.Fatalf("Failed to load arena: %v", err)
	}

	server := core.NewServer(arena, *tickRate, *name, *version)

	var reg *core.Registration
	if *master != "" {
		addr := *address
		if addr == "" {
			addr = fmt.Sprintf("localhost:%d", *port)
		}
		reg = core.NewRegistration(*master, *name, addr, *version, *region, arena.Name, cfg.Net.MaxPlayers, server)
		reg.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		if reg != nil {
			reg.Stop()
		}
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting splat server %q on port %d (arena: %s, tick rate: %d/s, version: %s)",
		*name, *port, arena.Name, *tickRate, *version)
	if err := server.Start(*port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadArena loads the requested arena, falling back to a plain walled square
// when the levels directory has none.
func loadArena(dir, name string) (*core.Arena, error) {
	fsys, source := assets.FS(), "embedded assets"
	if dir != "" {
		fsys, source = os.DirFS(dir), dir
	}
	arenas, names, err := core.LoadArenas(fsys, assets.ArenaDir)
	if err != nil {
		log.Printf("No arenas loaded from %s (%v), using fallback arena", source, err)
		return core.NewFallbackArena(cfg.Arena.FallbackSize), nil
	}
	arena, err := core.SelectArena(arenas, names, name)
	if errors.Is(err, core.ErrUnknownLevel) {
		log.Printf("Arena %q not found, hosting %s", name, names[0])
		return arenas[names[0]], nil
	}
	return arena, err
}
