package armory

import (
	"sort"

	"vaultkeep/internal/lang"
	"vaultkeep/internal/nbt"
	"vaultkeep/internal/snapshots"
)

// Trade is one black market offer line.
type Trade struct {
	Item   string `json:"item"`
	Amount int64  `json:"amount"`
	Cost   int64  `json:"cost"`
}

// Offer is a player's current black market selection.
type Offer struct {
	Trades []Trade `json:"trades"`
	Reset  int64   `json:"reset"`
}

// AllBlackMarket returns every player's current offers, keyed by resolved
// username.
//
// The save file stores two parallel lists, data.playerList and
// data.blackMarketList, written in matching order by the game server. No
// per-entry key exists to verify the pairing, so a length mismatch is the
// only detectable skew and is treated as a decode failure rather than
// silently mis-attributing trades.
func (s *Service) AllBlackMarket() (map[string]Offer, error) {
	idx, err := snapshots.NewIndex(s.snapsDir)
	if err != nil {
		return nil, err
	}

	path := s.dataPath(blackMarketFile)
	root, err := nbt.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	playerList, ok := root.At("data", "playerList")
	if !ok {
		return nil, structErr(path, "missing data.playerList")
	}
	bmList, ok := root.At("data", "blackMarketList")
	if !ok {
		return nil, structErr(path, "missing data.blackMarketList")
	}
	if playerList.Len() != bmList.Len() {
		return nil, structErr(path, "playerList has %d entries, blackMarketList has %d",
			playerList.Len(), bmList.Len())
	}

	out := map[string]Offer{}
	for i := 0; i < playerList.Len(); i++ {
		uuid := playerList.Elem(i).Text()
		name, ok := idx.NameFor(uuid)
		if !ok {
			// No snapshot for this player yet; their entry is
			// unattributable, not an error for everyone else.
			if s.logger != nil {
				s.logger.Printf("armory: black market entry for unknown uuid %s", uuid)
			}
			continue
		}

		entry := bmList.Elem(i)
		offer := out[name]
		resetNode, _ := entry.Field("nextReset")
		offer.Reset = resetNode.Number()

		trades, _ := entry.Field("trades")
		for _, tr := range trades.Elems() {
			idNode, _ := tr.At("trade", "stack", "id")
			countNode, _ := tr.At("trade", "stack", "Count")
			costNode, _ := tr.At("trade", "cost")
			offer.Trades = append(offer.Trades, Trade{
				Item:   s.resolver.Resolve(lang.Normalize(idNode.Text())),
				Amount: countNode.Number(),
				Cost:   costNode.Number(),
			})
		}
		out[name] = offer
	}
	return out, nil
}

// BlackMarket returns one player's offers, in file order. A known player
// with no entry gets an empty Offer.
func (s *Service) BlackMarket(ign string) (Offer, error) {
	if _, err := s.uuidFor(ign); err != nil {
		return Offer{}, err
	}
	all, err := s.AllBlackMarket()
	if err != nil {
		return Offer{}, err
	}
	return all[ign], nil
}

// SortTradesByCost orders trades by descending soul shard cost, the one
// presentation sort the display layer applies.
func SortTradesByCost(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].Cost > trades[j].Cost })
}
