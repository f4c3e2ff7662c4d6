package armory

import (
	"testing"

	"vaultkeep/internal/nbt"
)

func miningBounty(obtained int64, amount float64, rewards *nbt.Node) *nbt.Node {
	task := nbt.Compound().
		Set("amountObtained", nbt.Int(int32(obtained))).
		Set("properties", nbt.Compound().
			Set("taskType", nbt.String("mining")).
			Set("amount", nbt.Double(amount)).
			Set("blockId", nbt.String("minecraft:iron_ore"))).
		Set("reward", nbt.Compound().
			Set("vaultExp", nbt.Int(150)).
			Set("items", rewards))
	return nbt.Compound().Set("task", task)
}

func rewardItem(id string, count int32) *nbt.Node {
	return nbt.Compound().
		Set("id", nbt.String(id)).
		Set("Count", nbt.Int(count))
}

func TestBounties_AllCategories(t *testing.T) {
	f := newFixture(t)

	complete := miningBounty(12, 12, nbt.List(rewardItem("the_vault:vault_diamond", 2)))
	complete.Set("expiration", nbt.Long(1690000000123))

	f.writeDat(t, bountiesFile, nbt.Compound().Set("data", nbt.Compound().
		Set("active", nbt.Compound().
			Set(legoUUID, nbt.List(miningBounty(5, 10.4, nbt.List(rewardItem("the_vault:vault_diamond", 3)))))).
		Set("available", nbt.Compound().
			Set(legoUUID, nbt.List(miningBounty(0, 9.6, nbt.List(rewardItem("minecraft:emerald", 8)))))).
		Set("complete", nbt.Compound().
			Set(legoUUID, nbt.List(complete)))))

	got, err := f.svc.Bounties("Drlegoman")
	if err != nil {
		t.Fatalf("Bounties: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d bounties, want 3", len(got))
	}

	active := got[0]
	if active.Availability != Active {
		t.Fatalf("category order: got %s first", active.Availability)
	}
	if active.Task.Type != "Mining" || active.Task.ID != "Iron Ore" {
		t.Fatalf("labels: got %q / %q", active.Task.Type, active.Task.ID)
	}
	if active.Task.AmountObtained != 5 || active.Task.Amount != 10 {
		t.Fatalf("progress: got %d/%d, want 5/10", active.Task.AmountObtained, active.Task.Amount)
	}
	if active.Reward.VaultExperience != 150 {
		t.Fatalf("vault exp: got %d", active.Reward.VaultExperience)
	}
	if len(active.Reward.Items) != 1 || active.Reward.Items[0].ID != "Vault Diamond" {
		t.Fatalf("reward items: got %+v", active.Reward.Items)
	}
	if active.RefreshTime != 0 {
		t.Fatal("refresh time must be absent outside complete")
	}

	available := got[1]
	if available.Availability != Available || available.Task.Amount != 10 {
		t.Fatalf("available: got %s amount %d", available.Availability, available.Task.Amount)
	}
	if available.Reward.Items[0].ID != "Emerald" {
		t.Fatalf("available reward: got %q", available.Reward.Items[0].ID)
	}

	done := got[2]
	if done.Availability != Complete || done.RefreshTime != 1690000000123 {
		t.Fatalf("complete: got %s refresh %d", done.Availability, done.RefreshTime)
	}
	if done.RefreshUnixSeconds() != 1690000000 {
		t.Fatalf("RefreshUnixSeconds: got %d", done.RefreshUnixSeconds())
	}
}

func TestBounties_RewardDedupeAndSort(t *testing.T) {
	f := newFixture(t)

	rewards := nbt.List(
		rewardItem("a", 3),
		rewardItem("a", 2),
		rewardItem("b", 1),
	)
	f.writeDat(t, bountiesFile, nbt.Compound().Set("data", nbt.Compound().
		Set("active", nbt.Compound().Set(legoUUID, nbt.List(miningBounty(0, 1, rewards))))))

	got, err := f.svc.Bounties("Drlegoman")
	if err != nil {
		t.Fatalf("Bounties: %v", err)
	}
	items := got[0].Reward.Items
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "a" || items[0].Count != 5 {
		t.Fatalf("items[0]: got %+v", items[0])
	}
	if items[1].ID != "b" || items[1].Count != 1 {
		t.Fatalf("items[1]: got %+v", items[1])
	}
}

func TestBounties_RewardSortTiesKeepFirstSeen(t *testing.T) {
	f := newFixture(t)

	rewards := nbt.List(
		rewardItem("x", 2),
		rewardItem("y", 2),
		rewardItem("z", 2),
	)
	f.writeDat(t, bountiesFile, nbt.Compound().Set("data", nbt.Compound().
		Set("active", nbt.Compound().Set(legoUUID, nbt.List(miningBounty(0, 1, rewards))))))

	got, err := f.svc.Bounties("Drlegoman")
	if err != nil {
		t.Fatalf("Bounties: %v", err)
	}
	items := got[0].Reward.Items
	for i, want := range []string{"x", "y", "z"} {
		if items[i].ID != want {
			t.Fatalf("items[%d]: got %q want %q", i, items[i].ID, want)
		}
	}
}

func TestBounties_NoBountiesIsEmptyNotNotFound(t *testing.T) {
	f := newFixture(t)
	f.writeDat(t, bountiesFile, nbt.Compound().Set("data", nbt.Compound().
		Set("active", nbt.Compound()).
		Set("available", nbt.Compound()).
		Set("complete", nbt.Compound())))

	got, err := f.svc.Bounties("Drlegoman")
	if err != nil {
		t.Fatalf("Bounties: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty slice", got)
	}
}

func TestBounties_UnknownTaskTypeFallsBack(t *testing.T) {
	f := newFixture(t)

	task := nbt.Compound().
		Set("amountObtained", nbt.Int(0)).
		Set("properties", nbt.Compound().
			Set("taskType", nbt.String("unheard_of")).
			Set("amount", nbt.Double(4))).
		Set("reward", nbt.Compound().
			Set("vaultExp", nbt.Int(10)).
			Set("items", nbt.List()))
	f.writeDat(t, bountiesFile, nbt.Compound().Set("data", nbt.Compound().
		Set("active", nbt.Compound().Set(legoUUID, nbt.List(nbt.Compound().Set("task", task))))))

	got, err := f.svc.Bounties("Drlegoman")
	if err != nil {
		t.Fatalf("Bounties: %v", err)
	}
	if got[0].Task.Type != "unheard_of" {
		t.Fatalf("type: got %q, want raw fallback", got[0].Task.Type)
	}
	if got[0].Task.ID != "" {
		t.Fatalf("id: got %q, want empty without a taskId schema", got[0].Task.ID)
	}
}
