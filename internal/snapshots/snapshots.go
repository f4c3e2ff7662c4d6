// Package snapshots reads the per-player JSON stat dumps the game server
// writes into the snapshot directory, and answers UUID/username identity
// queries over them. Snapshots are re-read on every call; the staleness
// window is whatever cadence the server writes at.
package snapshots

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Player is one snapshot record.
type Player struct {
	UUID       string         `json:"playerUUID"`
	Nickname   string         `json:"playerNickname"`
	VaultLevel int            `json:"vaultLevel"`
	PowerLevel int            `json:"powerLevel"`
	Abilities  map[string]int `json:"abilities"`
	Talents    map[string]int `json:"talents"`
	Researches []string       `json:"researches"`
	InVault    bool           `json:"inVault"`
}

// Load reads every snapshot file in dir. Non-JSON directory entries are
// skipped; a snapshot that fails to parse is an error, since it means the
// server and this reader disagree about the format.
func Load(dir string) ([]Player, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var players []Player
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var p Player
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", e.Name(), err)
		}
		if p.UUID == "" {
			return nil, fmt.Errorf("snapshot %s: missing playerUUID", e.Name())
		}
		players = append(players, p)
	}
	return players, nil
}

// Index is the UUID<->nickname mapping derived from one snapshot scan.
// Nicknames are assumed unique; on a duplicate the later directory entry
// wins, matching the behavior of rebuilding a plain map.
type Index struct {
	nameByUUID map[string]string
	uuidByName map[string]string
}

// NewIndex builds a fresh identity index from dir.
func NewIndex(dir string) (*Index, error) {
	players, err := Load(dir)
	if err != nil {
		return nil, err
	}
	idx := &Index{
		nameByUUID: make(map[string]string, len(players)),
		uuidByName: make(map[string]string, len(players)),
	}
	for _, p := range players {
		idx.nameByUUID[p.UUID] = p.Nickname
		idx.uuidByName[p.Nickname] = p.UUID
	}
	return idx, nil
}

// UUIDFor resolves an in-game username to its UUID.
func (idx *Index) UUIDFor(ign string) (string, bool) {
	u, ok := idx.uuidByName[ign]
	return u, ok
}

// NameFor resolves a UUID to the current in-game username.
func (idx *Index) NameFor(uuid string) (string, bool) {
	n, ok := idx.nameByUUID[uuid]
	return n, ok
}

// Stats returns the stat subset shown for a player, or false when no
// snapshot carries that nickname.
func Stats(dir, ign string) (Player, bool, error) {
	players, err := Load(dir)
	if err != nil {
		return Player{}, false, err
	}
	for _, p := range players {
		if p.Nickname == ign {
			return p, true, nil
		}
	}
	return Player{}, false, nil
}

// Online lists every snapshotted nickname, sorted. The server only writes
// snapshots for players it has seen, so presence of a file is the roster.
func Online(dir string) ([]string, error) {
	players, err := Load(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Nickname)
	}
	sort.Strings(names)
	return names, nil
}

// InVault lists the nicknames of players currently inside a vault, sorted
// for stable output.
func InVault(dir string) ([]string, error) {
	players, err := Load(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, p := range players {
		if p.InVault {
			names = append(names, p.Nickname)
		}
	}
	sort.Strings(names)
	return names, nil
}
