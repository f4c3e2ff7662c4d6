package armory

import (
	"errors"
	"testing"

	"vaultkeep/internal/nbt"
)

func bmEntry(reset int64, trades ...*nbt.Node) *nbt.Node {
	return nbt.Compound().
		Set("nextReset", nbt.Long(reset)).
		Set("trades", nbt.List(trades...))
}

func bmTrade(id string, amount, cost int32) *nbt.Node {
	return nbt.Compound().Set("trade", nbt.Compound().
		Set("stack", nbt.Compound().
			Set("id", nbt.String(id)).
			Set("Count", nbt.Int(amount))).
		Set("cost", nbt.Int(cost)))
}

func TestBlackMarket_PositionalPairing(t *testing.T) {
	f := newFixture(t)

	f.writeDat(t, blackMarketFile, nbt.Compound().Set("data", nbt.Compound().
		Set("playerList", nbt.List(nbt.String(legoUUID), nbt.String(steveUUID))).
		Set("blackMarketList", nbt.List(
			bmEntry(1700000100,
				bmTrade("minecraft:emerald", 4, 9),
				bmTrade("the_vault:vault_diamond", 1, 25)),
			bmEntry(1700000200,
				bmTrade("minecraft:dirt", 64, 1))))))

	offer, err := f.svc.BlackMarket("Drlegoman")
	if err != nil {
		t.Fatalf("BlackMarket: %v", err)
	}
	if offer.Reset != 1700000100 {
		t.Fatalf("reset: got %d", offer.Reset)
	}
	if len(offer.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(offer.Trades))
	}
	// File order is preserved by the extractor.
	if offer.Trades[0].Item != "Emerald" || offer.Trades[0].Amount != 4 || offer.Trades[0].Cost != 9 {
		t.Fatalf("trades[0]: got %+v", offer.Trades[0])
	}
	if offer.Trades[1].Item != "Vault Diamond" || offer.Trades[1].Cost != 25 {
		t.Fatalf("trades[1]: got %+v", offer.Trades[1])
	}

	// Steve's entry must not leak into Drlegoman's offer.
	steve, err := f.svc.BlackMarket("Steve")
	if err != nil {
		t.Fatalf("BlackMarket(Steve): %v", err)
	}
	if len(steve.Trades) != 1 || steve.Reset != 1700000200 {
		t.Fatalf("steve: got %+v", steve)
	}
}

func TestBlackMarket_LengthMismatchFailsLoudly(t *testing.T) {
	f := newFixture(t)

	f.writeDat(t, blackMarketFile, nbt.Compound().Set("data", nbt.Compound().
		Set("playerList", nbt.List(nbt.String(legoUUID), nbt.String(steveUUID))).
		Set("blackMarketList", nbt.List(bmEntry(1)))))

	_, err := f.svc.BlackMarket("Drlegoman")
	var de *nbt.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("want DecodeError on skewed lists, got %v", err)
	}
}

func TestBlackMarket_KnownPlayerWithoutEntry(t *testing.T) {
	f := newFixture(t)

	f.writeDat(t, blackMarketFile, nbt.Compound().Set("data", nbt.Compound().
		Set("playerList", nbt.List(nbt.String(steveUUID))).
		Set("blackMarketList", nbt.List(bmEntry(5, bmTrade("minecraft:dirt", 1, 1))))))

	offer, err := f.svc.BlackMarket("Drlegoman")
	if err != nil {
		t.Fatalf("BlackMarket: %v", err)
	}
	if len(offer.Trades) != 0 {
		t.Fatalf("got %+v, want empty offer", offer)
	}
}

func TestBlackMarket_UnknownPlayer(t *testing.T) {
	f := newFixture(t)
	f.writeDat(t, blackMarketFile, nbt.Compound().Set("data", nbt.Compound().
		Set("playerList", nbt.List()).
		Set("blackMarketList", nbt.List())))

	_, err := f.svc.BlackMarket("Nobody")
	if !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("want ErrUnknownPlayer, got %v", err)
	}
}

func TestSortTradesByCost(t *testing.T) {
	trades := []Trade{
		{Item: "cheap", Cost: 1},
		{Item: "steep", Cost: 30},
		{Item: "mid", Cost: 12},
	}
	SortTradesByCost(trades)
	for i, want := range []string{"steep", "mid", "cheap"} {
		if trades[i].Item != want {
			t.Fatalf("trades[%d]: got %q want %q", i, trades[i].Item, want)
		}
	}
}
