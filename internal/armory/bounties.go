package armory

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"vaultkeep/internal/lang"
	"vaultkeep/internal/nbt"
)

// Availability is a bounty's lifecycle state.
type Availability string

const (
	Active    Availability = "active"
	Available Availability = "available"
	Complete  Availability = "complete"
)

// availabilityOrder fixes category iteration. The save format historically
// also carried a "legendary" category that nothing downstream rendered; it
// is not read.
var availabilityOrder = []Availability{Active, Available, Complete}

// Bounty is one normalized bounty record.
type Bounty struct {
	Availability Availability `json:"availability"`
	Task         Task         `json:"task"`
	Reward       Reward       `json:"reward"`
	// RefreshTime is set only for completed bounties. The raw value's
	// precision varies between game versions; see RefreshUnixSeconds.
	RefreshTime int64 `json:"refresh_time,omitempty"`
}

type Task struct {
	Type           string `json:"type"`
	AmountObtained int64  `json:"amount_obtained"`
	Amount         int64  `json:"amount"`
	ID             string `json:"id"`
}

type Reward struct {
	VaultExperience int64        `json:"vault_experience"`
	Items           []RewardItem `json:"items"`
}

type RewardItem struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

// RefreshUnixSeconds truncates the refresh timestamp to epoch seconds by
// decimal-string length, the rule the game data demands: the field is
// sometimes written in milliseconds, and what stays constant is the first
// ten digits, not the unit.
func (b Bounty) RefreshUnixSeconds() int64 {
	s := strconv.FormatInt(b.RefreshTime, 10)
	if len(s) <= 10 {
		return b.RefreshTime
	}
	v, _ := strconv.ParseInt(s[:10], 10, 64)
	return v
}

// Bounties returns every bounty for ign across the availability
// categories, in category order. A player with no bounties gets an empty
// slice; ErrUnknownPlayer is reserved for an unresolvable username.
func (s *Service) Bounties(ign string) ([]Bounty, error) {
	uuid, err := s.uuidFor(ign)
	if err != nil {
		return nil, err
	}

	path := s.dataPath(bountiesFile)
	root, err := nbt.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	schema, err := lang.LoadTable(s.langPath(bountiesLangFile))
	if err != nil {
		return nil, fmt.Errorf("bounty lang table: %w", err)
	}

	out := []Bounty{}
	for _, avail := range availabilityOrder {
		list, ok := root.At("data", string(avail), uuid)
		if !ok {
			continue // player has no bounties in this category
		}
		for _, rec := range list.Elems() {
			b, err := s.normalizeBounty(path, rec, avail, schema)
			if err != nil {
				return nil, err
			}
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Service) normalizeBounty(path string, rec *nbt.Node, avail Availability, schema lang.Table) (Bounty, error) {
	details, ok := rec.Field("task")
	if !ok {
		return Bounty{}, structErr(path, "%s bounty record missing task", avail)
	}
	props, ok := details.Field("properties")
	if !ok {
		return Bounty{}, structErr(path, "%s bounty task missing properties", avail)
	}

	taskTypeNode, _ := props.Field("taskType")
	taskType := taskTypeNode.Text()

	obtainedNode, _ := details.Field("amountObtained") // active bounties only
	amountNode, _ := props.Field("amount")
	amount := int64(math.Round(amountNode.Float())) // source values may be fractional

	// Which property identifies the task depends on the task type; the
	// bounty lang table maps each type to its id field name.
	rawTaskID := ""
	if field, ok := schema.StringAt("tasks." + taskType + ".taskId"); ok {
		idNode, _ := props.Field(field)
		rawTaskID = idNode.Text()
	} else if s.logger != nil {
		s.logger.Printf("armory: no taskId schema for task type %q", taskType)
	}

	taskID := rawTaskID
	if rawTaskID != "" {
		taskID = s.resolver.Resolve(lang.Normalize(rawTaskID), lang.Source{
			Path:   s.langPath(bountiesLangFile),
			IDPath: "tasks." + taskType + ".ids",
		})
	}
	typeLabel := s.resolver.Resolve(taskType, lang.Source{
		Path:     s.langPath(bountiesLangFile),
		IDPath:   "tasks",
		NamePath: "tasks." + taskType + ".name",
	})

	reward, ok := details.Field("reward")
	if !ok {
		return Bounty{}, structErr(path, "%s bounty task missing reward", avail)
	}
	itemsNode, _ := reward.Field("items")
	items := s.normalizeRewards(itemsNode.Elems())
	expNode, _ := reward.Field("vaultExp")

	b := Bounty{
		Availability: avail,
		Task: Task{
			Type:           typeLabel,
			AmountObtained: obtainedNode.Number(),
			Amount:         amount,
			ID:             taskID,
		},
		Reward: Reward{
			VaultExperience: expNode.Number(),
			Items:           items,
		},
	}
	if avail == Complete {
		expire, _ := rec.Field("expiration")
		b.RefreshTime = expire.Number()
	}
	return b, nil
}

// normalizeRewards deduplicates reward items by raw id (counts summed),
// resolves the survivors to labels, and sorts descending by count. Ties
// keep first-seen order.
func (s *Service) normalizeRewards(items []*nbt.Node) []RewardItem {
	var out []RewardItem
	seen := map[string]int{} // raw id -> index in out
	for _, item := range items {
		idNode, _ := item.Field("id")
		countNode, _ := item.Field("Count")
		raw := idNode.Text()
		if i, ok := seen[raw]; ok {
			out[i].Count += countNode.Number()
			continue
		}
		seen[raw] = len(out)
		out = append(out, RewardItem{ID: raw, Count: countNode.Number()})
	}
	for i := range out {
		out[i].ID = s.resolver.Resolve(lang.Normalize(out[i].ID))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
