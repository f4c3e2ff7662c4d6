// Command armory queries the game's save data from the command line:
// bounties, black market offers, crafted gear modifiers, proficiencies,
// and player snapshot stats. Output is JSON on stdout.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"vaultkeep/internal/armory"
	"vaultkeep/internal/config"
	"vaultkeep/internal/snapshots"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "bounties":
		playerCmd(os.Args[1], os.Args[2:], func(s *armory.Service, ign string) (any, error) {
			return s.Bounties(ign)
		})
	case "blackmarket":
		blackMarketCmd(os.Args[2:])
	case "crafted":
		playerCmd(os.Args[1], os.Args[2:], func(s *armory.Service, ign string) (any, error) {
			return s.CraftedModifiers(ign)
		})
	case "proficiency":
		playerCmd(os.Args[1], os.Args[2:], func(s *armory.Service, ign string) (any, error) {
			return s.Proficiency(ign)
		})
	case "stats":
		statsCmd(os.Args[2:])
	case "players":
		rosterCmd(os.Args[2:], snapshots.Online)
	case "invault":
		rosterCmd(os.Args[2:], snapshots.InVault)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: armory <bounties|blackmarket|crafted|proficiency|stats|players|invault> [flags]")
}

func newService(fs *flag.FlagSet, args []string) (*armory.Service, config.Config) {
	cfgPath := fs.String("config", "./configs/vaultkeep.yaml", "config file path")
	_ = fs.Parse(args)

	logger := log.New(os.Stderr, "[armory] ", log.LstdFlags)
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	svc, err := armory.New(armory.Options{
		DataDir:      cfg.DataDir,
		SnapshotsDir: cfg.SnapshotsDir,
		LangDir:      cfg.LangDir,
		GearConfig:   cfg.GearConfig,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatalf("armory: %v", err)
	}
	return svc, cfg
}

func playerCmd(name string, args []string, query func(*armory.Service, string) (any, error)) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	player := fs.String("player", "", "in-game username")
	svc, _ := newService(fs, args)
	if *player == "" {
		fmt.Fprintln(os.Stderr, "missing -player")
		os.Exit(2)
	}

	out, err := query(svc, *player)
	if err != nil {
		fail(err)
	}
	emit(out)
}

func blackMarketCmd(args []string) {
	fs := flag.NewFlagSet("blackmarket", flag.ExitOnError)
	player := fs.String("player", "", "in-game username (omit for every player)")
	byCost := fs.Bool("by_cost", false, "sort trades by cost, highest first")
	svc, _ := newService(fs, args)

	if *player == "" {
		all, err := svc.AllBlackMarket()
		if err != nil {
			fail(err)
		}
		if *byCost {
			for _, offer := range all {
				armory.SortTradesByCost(offer.Trades)
			}
		}
		emit(all)
		return
	}

	offer, err := svc.BlackMarket(*player)
	if err != nil {
		fail(err)
	}
	if *byCost {
		armory.SortTradesByCost(offer.Trades)
	}
	emit(offer)
}

func statsCmd(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	player := fs.String("player", "", "in-game username")
	cfgPath := fs.String("config", "./configs/vaultkeep.yaml", "config file path")
	_ = fs.Parse(args)
	if *player == "" {
		fmt.Fprintln(os.Stderr, "missing -player")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fail(err)
	}
	p, ok, err := snapshots.Stats(cfg.SnapshotsDir, *player)
	if err != nil {
		fail(err)
	}
	if !ok {
		fail(fmt.Errorf("%s: %w", *player, armory.ErrUnknownPlayer))
	}
	emit(p)
}

func rosterCmd(args []string, list func(dir string) ([]string, error)) {
	fs := flag.NewFlagSet("roster", flag.ExitOnError)
	cfgPath := fs.String("config", "./configs/vaultkeep.yaml", "config file path")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fail(err)
	}
	names, err := list(cfg.SnapshotsDir)
	if err != nil {
		fail(err)
	}
	emit(names)
}

func emit(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail(err)
	}
}

func fail(err error) {
	if errors.Is(err, armory.ErrUnknownPlayer) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(3)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
