// Package gearconfig loads the static per-gear-piece modifier tier table
// used to attach value ranges to discovered workbench modifiers.
package gearconfig

import (
	"encoding/json"
	"fmt"
	"os"
)

// Range is one tier's rolled value bounds. Magnitudes under 1 are
// fractional multipliers and render as percentages.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Table maps gear piece -> modifier id -> tier ranges (zero-based tiers,
// matching the t<N> suffixes in the craft data).
type Table map[string]map[string][]Range

// Load reads the gear modifier table.
func Load(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("gear modifier table: %w", err)
	}
	return t, nil
}

// Range looks up the bounds for one modifier tier. tier is zero-based.
func (t Table) Range(piece, modifier string, tier int) (Range, bool) {
	tiers, ok := t[piece][modifier]
	if !ok || tier < 0 || tier >= len(tiers) {
		return Range{}, false
	}
	return tiers[tier], true
}
