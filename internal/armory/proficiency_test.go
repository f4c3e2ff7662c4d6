package armory

import (
	"errors"
	"testing"

	"vaultkeep/internal/nbt"
)

func TestProficiency(t *testing.T) {
	f := newFixture(t)

	f.writeDat(t, proficiencyFile, nbt.Compound().Set("data", nbt.Compound().
		Set(legoUUID, nbt.Compound().
			Set("sword", nbt.Int(1550)).
			Set("HELMET", nbt.Int(100)))))

	got, err := f.svc.Proficiency("Drlegoman")
	if err != nil {
		t.Fatalf("Proficiency: %v", err)
	}
	if got["Sword"] != "15.5%" {
		t.Fatalf("sword: got %q", got["Sword"])
	}
	if got["Helmet"] != "1%" {
		t.Fatalf("helmet: got %q", got["Helmet"])
	}
}

func TestProficiency_NoRecord(t *testing.T) {
	f := newFixture(t)
	f.writeDat(t, proficiencyFile, nbt.Compound().Set("data", nbt.Compound()))

	got, err := f.svc.Proficiency("Drlegoman")
	if err != nil {
		t.Fatalf("Proficiency: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty map", got)
	}
}

func TestProficiency_UnknownPlayer(t *testing.T) {
	f := newFixture(t)
	f.writeDat(t, proficiencyFile, nbt.Compound().Set("data", nbt.Compound()))

	_, err := f.svc.Proficiency("Nobody")
	if !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("want ErrUnknownPlayer, got %v", err)
	}
}
