package tracker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"vaultkeep/internal/armory"
	"vaultkeep/internal/snapshots"
)

// BountySource yields the current bounties for a player by username.
type BountySource interface {
	Bounties(ign string) ([]armory.Bounty, error)
}

// Fingerprint identifies a bounty by its offer content: task type and id,
// target amount, and the full reward. Progress, availability, and refresh
// time are excluded so a bounty does not re-alert as the player works it
// or as it moves between categories.
func Fingerprint(b armory.Bounty) string {
	h := sha256.New()
	h.Write([]byte(b.Task.Type))
	h.Write([]byte{0})
	h.Write([]byte(b.Task.ID))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(b.Task.Amount, 10)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(b.Reward.VaultExperience, 10)))
	for _, it := range b.Reward.Items {
		h.Write([]byte{0})
		h.Write([]byte(it.ID))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatInt(it.Count, 10)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Alert is one journaled new-bounty event.
type Alert struct {
	At          int64         `json:"at"`
	Player      string        `json:"player"`
	Fingerprint string        `json:"fingerprint"`
	Bounty      armory.Bounty `json:"bounty"`
}

type Options struct {
	Source       BountySource
	Journal      *Journal
	AlertLog     *AlertLog // optional
	SnapshotsDir string    // used when Players is empty
	Players      []string  // explicit watch list; empty means everyone
	Logger       *log.Logger
}

type Tracker struct {
	src      BountySource
	journal  *Journal
	alertLog *AlertLog
	snapsDir string
	players  []string
	logger   *log.Logger

	now func() time.Time
}

func New(opts Options) (*Tracker, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("tracker: nil bounty source")
	}
	if opts.Journal == nil {
		return nil, fmt.Errorf("tracker: nil journal")
	}
	return &Tracker{
		src:      opts.Source,
		journal:  opts.Journal,
		alertLog: opts.AlertLog,
		snapsDir: opts.SnapshotsDir,
		players:  opts.Players,
		logger:   opts.Logger,
		now:      time.Now,
	}, nil
}

// Run polls at the given interval until ctx is done. The first poll runs
// immediately.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := t.Poll(ctx); err != nil && !errors.Is(err, context.Canceled) {
			t.logf("tracker: poll: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll reads bounties for every watched player once and returns the alerts
// raised. A player's first poll primes the journal without alerting, so a
// fresh journal does not flood with everything currently on offer.
func (t *Tracker) Poll(ctx context.Context) ([]Alert, error) {
	players, err := t.watchList()
	if err != nil {
		return nil, err
	}

	var raised []Alert
	for _, p := range players {
		if err := ctx.Err(); err != nil {
			return raised, err
		}
		alerts, err := t.pollPlayer(ctx, p)
		if errors.Is(err, armory.ErrUnknownPlayer) {
			t.logf("tracker: skipping %s: %v", p, err)
			continue
		}
		if err != nil {
			t.logf("tracker: %s: %v", p, err)
			continue
		}
		raised = append(raised, alerts...)
	}
	return raised, nil
}

func (t *Tracker) pollPlayer(ctx context.Context, player string) ([]Alert, error) {
	bounties, err := t.src.Bounties(player)
	if err != nil {
		return nil, err
	}

	seen, primed, err := t.journal.Seen(ctx, player)
	if err != nil {
		return nil, err
	}

	now := t.now().Unix()
	fps := make([]string, 0, len(bounties))
	var raised []Alert
	for _, b := range bounties {
		fp := Fingerprint(b)
		fps = append(fps, fp)
		if !primed || seen[fp] || b.Availability != armory.Available {
			continue
		}
		a := Alert{At: now, Player: player, Fingerprint: fp, Bounty: b}
		payload, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		if err := t.journal.RecordAlert(ctx, player, fp, now, payload); err != nil {
			return nil, err
		}
		if t.alertLog != nil {
			if err := t.alertLog.Write(a); err != nil {
				t.logf("tracker: alert log: %v", err)
			}
		}
		raised = append(raised, a)
	}

	if err := t.journal.MarkSeen(ctx, player, fps, now); err != nil {
		return nil, err
	}
	return raised, nil
}

// watchList resolves the players to poll: the configured list, or every
// snapshotted player when none is configured.
func (t *Tracker) watchList() ([]string, error) {
	if len(t.players) > 0 {
		return t.players, nil
	}
	names, err := snapshots.Online(t.snapsDir)
	if err != nil {
		return nil, fmt.Errorf("tracker: snapshots: %w", err)
	}
	return names, nil
}

func (t *Tracker) logf(format string, args ...any) {
	if t.logger != nil {
		t.logger.Printf(format, args...)
	}
}
