// Command tracker watches the save data for newly offered bounties and
// journals an alert for each one it has not seen before.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vaultkeep/internal/armory"
	"vaultkeep/internal/config"
	"vaultkeep/internal/tracker"
)

func main() {
	var (
		cfgPath = flag.String("config", "./configs/vaultkeep.yaml", "config file path")
		once    = flag.Bool("once", false, "poll a single time and exit")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[tracker] ", log.LstdFlags)

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

	journal, err := tracker.OpenJournal(cfg.Tracker.JournalPath)
	if err != nil {
		logger.Fatalf("open journal: %v", err)
	}
	defer journal.Close()

	alertLog := tracker.NewAlertLog(cfg.Tracker.AlertLogDir)
	defer alertLog.Close()

	tr, err := tracker.New(tracker.Options{
		Source:       svc,
		Journal:      journal,
		AlertLog:     alertLog,
		SnapshotsDir: cfg.SnapshotsDir,
		Players:      cfg.Tracker.Players,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatalf("tracker: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if *once {
		alerts, err := tr.Poll(ctx)
		if err != nil {
			logger.Fatalf("poll: %v", err)
		}
		logger.Printf("poll complete: %d alerts", len(alerts))
		return
	}

	interval := time.Duration(cfg.Tracker.IntervalSeconds) * time.Second
	logger.Printf("polling every %s", interval)
	if err := tr.Run(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("run: %v", err)
	}
	logger.Printf("shutting down")
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
