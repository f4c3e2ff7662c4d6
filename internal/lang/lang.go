// Package lang maps raw game identifiers to display labels through layered
// lookup tables: caller-supplied per-category tables first, then the global
// fallback pair (the_vault.json, other.json). An id with no label anywhere
// falls back to itself; that is policy, not an error, but misses are logged
// so the tables can be kept up to date.
package lang

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// The global fallback tables, consulted in this order.
const (
	VaultTableFile = "the_vault.json"
	OtherTableFile = "other.json"
)

// Table is a decoded nested JSON lookup document.
type Table map[string]any

// LoadTable reads one JSON lookup table.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	return t, nil
}

// Descend walks a dot-separated key path to a nested object.
func (t Table) Descend(path string) (map[string]any, bool) {
	cur := map[string]any(t)
	if path == "" {
		return cur, true
	}
	for _, step := range strings.Split(path, ".") {
		next, ok := cur[step].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// StringAt walks a dot-separated key path to a string leaf.
func (t Table) StringAt(path string) (string, bool) {
	steps := strings.Split(path, ".")
	parent, ok := t.Descend(strings.Join(steps[:len(steps)-1], "."))
	if !ok {
		return "", false
	}
	s, ok := parent[steps[len(steps)-1]].(string)
	return s, ok
}

// Source is one category-specific lookup: a table file plus the dot path to
// its id mapping. NamePath, when set, points at a fixed name field instead
// of keying the id mapping (the bounty task-type lookup works this way).
type Source struct {
	Path     string
	IDPath   string
	NamePath string
}

// Resolver resolves ids against a lang directory. Tables are re-read on
// every call, matching the rest of the system's no-cache policy.
type Resolver struct {
	dir    string
	logger *log.Logger
	misses atomic.Uint64
}

func NewResolver(langDir string, logger *log.Logger) *Resolver {
	return &Resolver{dir: langDir, logger: logger}
}

// Misses reports how many resolutions fell back to the raw id.
func (r *Resolver) Misses() uint64 { return r.misses.Load() }

// Resolve returns the display label for rawID. Category sources are tried
// in order, first match wins; then the global tables; then rawID unchanged.
func (r *Resolver) Resolve(rawID string, sources ...Source) string {
	for _, src := range sources {
		if label, ok := r.resolveSource(rawID, src); ok {
			return label
		}
	}
	for _, file := range []string{VaultTableFile, OtherTableFile} {
		if label, ok := r.resolveGlobal(rawID, file); ok {
			return label
		}
	}
	r.misses.Add(1)
	if r.logger != nil {
		r.logger.Printf("lang: no label for %q", rawID)
	}
	return rawID
}

func (r *Resolver) resolveSource(rawID string, src Source) (string, bool) {
	t, err := LoadTable(src.Path)
	if err != nil {
		if r.logger != nil {
			r.logger.Printf("lang: %s: %v", filepath.Base(src.Path), err)
		}
		return "", false
	}
	ids, ok := t.Descend(src.IDPath)
	if !ok {
		return "", false
	}
	if _, ok := ids[rawID]; !ok {
		return "", false
	}
	if src.NamePath == "" || src.NamePath == src.IDPath {
		label, ok := ids[rawID].(string)
		return label, ok
	}
	return t.StringAt(src.NamePath)
}

// resolveGlobal matches rawID against a flat fallback table: exact key,
// then the namespace-prefixed key, then any key rawID is a dotted suffix
// of. The suffix rule covers table keys that carry a prefix the raw data
// does not ("item.minecraft.x" vs "minecraft:x").
func (r *Resolver) resolveGlobal(rawID, file string) (string, bool) {
	t, err := LoadTable(filepath.Join(r.dir, file))
	if err != nil {
		return "", false
	}

	id := Normalize(rawID)
	for _, key := range []string{id, NamespacePrefix(id) + id} {
		if label, ok := t[key].(string); ok {
			return label, true
		}
	}
	for key, v := range t {
		if strings.HasSuffix(key, "."+id) {
			if label, ok := v.(string); ok {
				return label, true
			}
		}
	}
	return "", false
}

// Normalize rewrites the game's namespace separator to the lang tables'
// dotted form: "minecraft:stone" -> "minecraft.stone".
func Normalize(id string) string {
	return strings.ReplaceAll(id, ":", ".")
}

// NamespacePrefix picks the synthetic lang-key prefix for a raw id. Block
// ids get "block.", everything else "item.". One rule for every call site.
func NamespacePrefix(id string) string {
	seg := id
	if i := strings.LastIndexAny(seg, ".:"); i >= 0 {
		seg = seg[i+1:]
	}
	for _, suffix := range []string{"_block", "_ore"} {
		if strings.HasSuffix(seg, suffix) {
			return "block."
		}
	}
	return "item."
}
