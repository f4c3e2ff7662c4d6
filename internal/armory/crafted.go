package armory

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"vaultkeep/internal/lang"
	"vaultkeep/internal/nbt"
)

// Modifier is one discovered workbench modifier on a gear piece.
type Modifier struct {
	ID   string `json:"id"`
	Tier int    `json:"tier"` // 1-based for display; the save data is 0-based
	// Values holds the tier's formatted bounds, or the soulbound sentinel
	// pair for binary modifiers that have no numeric range.
	Values [2]string `json:"values"`
}

// SoulboundValue fills both bounds of a modifier that is on/off rather
// than ranged.
const SoulboundValue = "-"

// CraftedModifiers returns the modifiers ign has discovered, grouped by
// gear piece label. A player with no craft record gets an empty map.
func (s *Service) CraftedModifiers(ign string) (map[string][]Modifier, error) {
	raw, err := s.uuidFor(ign)
	if err != nil {
		return nil, err
	}
	target, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("snapshot uuid %q: %w", raw, err)
	}
	targetHex := hex.EncodeToString(target[:])

	path := s.dataPath(craftedFile)
	root, err := nbt.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	crafts, ok := root.At("data", "crafts")
	if !ok {
		return nil, structErr(path, "missing data.crafts")
	}

	out := map[string][]Modifier{}
	for _, entry := range crafts.Elems() {
		playerNode, _ := entry.Field("player")
		hexID, ok := packedUUIDHex(playerNode)
		if !ok {
			return nil, structErr(path, "craft entry with malformed player uuid")
		}
		if hexID != targetHex {
			continue
		}

		itemCrafts, _ := entry.Field("itemCrafts")
		for _, gearKey := range itemCrafts.Keys() {
			tokens, _ := itemCrafts.Field(gearKey)
			mods := make([]Modifier, 0, tokens.Len())
			for _, tok := range tokens.Elems() {
				m, ok := s.decodeModifier(gearKey, tok.Text())
				if !ok {
					if s.logger != nil {
						s.logger.Printf("armory: unparseable modifier token %q", tok.Text())
					}
					continue
				}
				mods = append(mods, m)
			}
			out[s.resolver.Resolve(lang.Normalize(gearKey))] = mods
		}
	}
	return out, nil
}

// decodeModifier splits a raw craft token like "frenzy_t2" on its last
// underscore into the modifier id and a zero-based tier suffix.
func (s *Service) decodeModifier(gearKey, token string) (Modifier, bool) {
	cut := strings.LastIndex(token, "_")
	if cut < 1 {
		return Modifier{}, false
	}
	id, suffix := token[:cut], token[cut+1:]
	if !strings.HasPrefix(suffix, "t") {
		return Modifier{}, false
	}
	tier, err := strconv.Atoi(suffix[1:])
	if err != nil || tier < 0 {
		return Modifier{}, false
	}

	m := Modifier{
		ID:   s.resolver.Resolve(id, lang.Source{Path: s.langPath(craftedLangFile), IDPath: "crafted_modifiers"}),
		Tier: tier + 1,
	}
	if strings.Contains(id, "soulbound") {
		m.Values = [2]string{SoulboundValue, SoulboundValue}
		return m, true
	}
	if rng, ok := s.gear.Range(gearKey, id, tier); ok {
		m.Values = [2]string{formatModifierValue(rng.Min), formatModifierValue(rng.Max)}
	} else if s.logger != nil {
		s.logger.Printf("armory: no value range for %s %s t%d", gearKey, id, tier)
	}
	return m, true
}

// packedUUIDHex converts the save format's packed uuid (four signed 32-bit
// ints, most significant first) into the canonical hyphenless hex string.
func packedUUIDHex(n *nbt.Node) (string, bool) {
	var parts []int64
	switch n.Kind() {
	case nbt.KindIntArray:
		for _, v := range n.Ints() {
			parts = append(parts, int64(v))
		}
	case nbt.KindList:
		for _, el := range n.Elems() {
			parts = append(parts, el.Number())
		}
	default:
		return "", false
	}
	if len(parts) != 4 {
		return "", false
	}

	var b [16]byte
	for i, v := range parts {
		binary.BigEndian.PutUint32(b[i*4:], uint32(int32(v)))
	}
	u, err := uuid.FromBytes(b[:])
	if err != nil {
		return "", false
	}
	return strings.ReplaceAll(u.String(), "-", ""), true
}

// formatModifierValue renders one range bound: fractional multipliers as
// percentages, whole values as plain numbers.
func formatModifierValue(v float64) string {
	if v != 0 && math.Abs(v) < 1 {
		return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
