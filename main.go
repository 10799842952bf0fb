package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/campusmap/config"
	"github.com/milk9111/campusmap/floors"
	"github.com/milk9111/campusmap/visits"
)

func main() {
	configPath := flag.String("config", "campusmap.yml", "path to the YAML config file")
	floorName := flag.String("floor", "", "floor to show first (id, asset name or map-level<n> link)")
	profileName := flag.String("profile", "", "viewer profile: campus or compact (overrides config)")
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *profileName != "" {
		cfg.Profile = *profileName
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	profile, err := cfg.ViewerProfile()
	if err != nil {
		log.Fatal(err)
	}

	table, err := floors.LoadTable(cfg.FloorsFile)
	if err != nil {
		log.Fatal(err)
	}

	count := recordVisit(cfg.VisitsDB)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	game, err := NewGame(GameOptions{
		Config:  cfg,
		Profile: profile,
		Table:   table,
		Floor:   *floorName,
		Visits:  count,
		Debug:   *debug,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// recordVisit bumps the visitor counter and returns the new total, or -1 when
// the counter is disabled or unavailable.
func recordVisit(path string) int {
	if path == "" {
		return -1
	}
	store, err := visits.Open(path)
	if err != nil {
		log.Printf("visitor counter disabled: %v", err)
		return -1
	}
	defer store.Close()

	n, err := store.Record(context.Background())
	if err != nil {
		log.Printf("visitor counter disabled: %v", err)
		return -1
	}
	return n
}
