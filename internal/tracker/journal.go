// Package tracker polls bounty state and journals what it has seen, so
// newly offered bounties can be detected across process restarts. Detection
// keys on a content fingerprint per bounty rather than comparing whole
// reward lists, which survives progress updates and availability moves.
package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Journal is the sqlite record of fingerprints already seen per player,
// plus the alerts that were raised for them.
type Journal struct {
	db *sql.DB
}

func OpenJournal(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("empty journal path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS seen_bounties (
			player      TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			first_seen  INTEGER NOT NULL,
			last_seen   INTEGER NOT NULL,
			PRIMARY KEY (player, fingerprint)
		);`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			player      TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			created_at  INTEGER NOT NULL,
			payload     TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS alerts_player ON alerts(player, created_at);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal init: %w", err)
		}
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error { return j.db.Close() }

// Seen returns the fingerprints journaled for player. ok reports whether
// the player has any journal history at all; a player with none is being
// primed, not alerted.
func (j *Journal) Seen(ctx context.Context, player string) (map[string]bool, bool, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT fingerprint FROM seen_bounties WHERE player = ?", player)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	seen := map[string]bool{}
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, false, err
		}
		seen[fp] = true
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return seen, len(seen) > 0, nil
}

// MarkSeen upserts fingerprints for player at the given unix time.
func (j *Journal) MarkSeen(ctx context.Context, player string, fps []string, now int64) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO seen_bounties (player, fingerprint, first_seen, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player, fingerprint) DO UPDATE SET last_seen = excluded.last_seen`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, fp := range fps {
		if _, err := stmt.ExecContext(ctx, player, fp, now, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecordAlert journals one raised alert with its serialized bounty.
func (j *Journal) RecordAlert(ctx context.Context, player, fp string, now int64, payload []byte) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO alerts (player, fingerprint, created_at, payload) VALUES (?, ?, ?, ?)",
		player, fp, now, string(payload))
	return err
}

// AlertCount reports how many alerts were journaled for player.
func (j *Journal) AlertCount(ctx context.Context, player string) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM alerts WHERE player = ?", player).Scan(&n)
	return n, err
}
