// Package armory extracts per-player vault data (bounties, black market
// offers, crafted modifiers, proficiency) from the game server's save
// files. Every query re-reads its backing files; nothing is cached, so a
// response is never staler than the files on disk.
package armory

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"vaultkeep/internal/gearconfig"
	"vaultkeep/internal/lang"
	"vaultkeep/internal/nbt"
	"vaultkeep/internal/snapshots"
)

// Save file names as written by the game server into world/data.
const (
	bountiesFile    = "the_vault_Bounties.dat"
	blackMarketFile = "the_vault_PlayerBlackMarket.dat"
	craftedFile     = "the_vault_DiscoveredWorkbenchModifiers.dat"
	proficiencyFile = "the_vault_PlayerProficiency.dat"
)

// Category lang tables, relative to the lang directory.
const (
	bountiesLangFile = "bounties.json"
	craftedLangFile  = "crafted_modifiers.json"
)

// ErrUnknownPlayer reports an unresolvable username. It is the only
// not-found condition an extractor returns; an empty result for a known
// player is a value, not an error.
var ErrUnknownPlayer = errors.New("unknown player")

// Options locates the data a Service reads.
type Options struct {
	DataDir      string // the game's world/data directory
	SnapshotsDir string // per-player JSON snapshot directory
	LangDir      string // label lookup tables
	GearConfig   string // static gear modifier tier table
	Logger       *log.Logger
}

// Service answers extraction queries. It holds no mutable state; the only
// thing loaded up front is the static gear modifier table.
type Service struct {
	dataDir  string
	snapsDir string
	langDir  string
	gear     gearconfig.Table
	logger   *log.Logger
	resolver *lang.Resolver
}

func New(o Options) (*Service, error) {
	s := &Service{
		dataDir:  o.DataDir,
		snapsDir: o.SnapshotsDir,
		langDir:  o.LangDir,
		logger:   o.Logger,
		resolver: lang.NewResolver(o.LangDir, o.Logger),
	}
	if o.GearConfig != "" {
		gear, err := gearconfig.Load(o.GearConfig)
		if err != nil {
			return nil, err
		}
		s.gear = gear
	}
	return s, nil
}

// uuidFor resolves ign against a fresh snapshot scan.
func (s *Service) uuidFor(ign string) (string, error) {
	idx, err := snapshots.NewIndex(s.snapsDir)
	if err != nil {
		return "", fmt.Errorf("snapshots: %w", err)
	}
	u, ok := idx.UUIDFor(ign)
	if !ok {
		return "", fmt.Errorf("%q: %w", ign, ErrUnknownPlayer)
	}
	return u, nil
}

func (s *Service) dataPath(name string) string {
	return filepath.Join(s.dataDir, name)
}

func (s *Service) langPath(name string) string {
	return filepath.Join(s.langDir, name)
}

// structErr reports a structural contract violation inside an otherwise
// readable save file as a decode failure.
func structErr(path, format string, args ...any) error {
	return &nbt.DecodeError{Path: path, Err: fmt.Errorf(format, args...)}
}
