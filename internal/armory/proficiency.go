package armory

import (
	"strconv"
	"strings"

	"vaultkeep/internal/nbt"
)

// Proficiency returns ign's per-gear proficiency percentages, keyed by
// title-cased gear name. The save stores hundredths of a percent.
func (s *Service) Proficiency(ign string) (map[string]string, error) {
	uuid, err := s.uuidFor(ign)
	if err != nil {
		return nil, err
	}

	root, err := nbt.DecodeFile(s.dataPath(proficiencyFile))
	if err != nil {
		return nil, err
	}

	out := map[string]string{}
	record, ok := root.At("data", uuid)
	if !ok {
		return out, nil
	}
	for _, gear := range record.Keys() {
		v, _ := record.Field(gear)
		out[titleCase(gear)] = strconv.FormatFloat(v.Float()/100, 'f', -1, 64) + "%"
	}
	return out, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
