package lang

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTable(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestResolver(t *testing.T, vaultJSON, otherJSON string) *Resolver {
	t.Helper()
	dir := t.TempDir()
	writeTable(t, dir, VaultTableFile, vaultJSON)
	writeTable(t, dir, OtherTableFile, otherJSON)
	return NewResolver(dir, nil)
}

func TestResolve_CategoryBeatsGlobal(t *testing.T) {
	r := newTestResolver(t, `{"x":"Global X"}`, `{}`)
	src := writeTable(t, t.TempDir(), "bounties.json", `{"tasks":{"mining":{"ids":{"x":"Custom X"}}}}`)

	got := r.Resolve("x", Source{Path: src, IDPath: "tasks.mining.ids"})
	if got != "Custom X" {
		t.Fatalf("got %q, want Custom X", got)
	}
}

func TestResolve_NamePathReturnsFixedField(t *testing.T) {
	r := newTestResolver(t, `{}`, `{}`)
	src := writeTable(t, t.TempDir(), "bounties.json",
		`{"tasks":{"mining":{"name":"Mining Task","taskId":"blockId","ids":{}}}}`)

	got := r.Resolve("mining", Source{Path: src, IDPath: "tasks", NamePath: "tasks.mining.name"})
	if got != "Mining Task" {
		t.Fatalf("got %q, want Mining Task", got)
	}
}

func TestResolve_GlobalExactMatch(t *testing.T) {
	r := newTestResolver(t, `{"the_vault.vault_diamond":"Vault Diamond"}`, `{}`)
	if got := r.Resolve("the_vault.vault_diamond"); got != "Vault Diamond" {
		t.Fatalf("got %q", got)
	}
}

func TestResolve_GlobalPrefixedMatch(t *testing.T) {
	r := newTestResolver(t,
		`{"item.minecraft.emerald":"Emerald","block.minecraft.iron_ore":"Iron Ore"}`, `{}`)

	if got := r.Resolve("minecraft:emerald"); got != "Emerald" {
		t.Fatalf("item prefix: got %q", got)
	}
	if got := r.Resolve("minecraft:iron_ore"); got != "Iron Ore" {
		t.Fatalf("block prefix: got %q", got)
	}
}

func TestResolve_GlobalSuffixMatch(t *testing.T) {
	r := newTestResolver(t, `{}`, `{"tooltip.the_vault.soul_shard":"Soul Shard"}`)
	if got := r.Resolve("the_vault.soul_shard"); got != "Soul Shard" {
		t.Fatalf("got %q", got)
	}
}

func TestResolve_SecondGlobalConsulted(t *testing.T) {
	r := newTestResolver(t, `{}`, `{"other.thing":"A Thing"}`)
	if got := r.Resolve("other.thing"); got != "A Thing" {
		t.Fatalf("got %q", got)
	}
}

func TestResolve_FallbackIsRawID(t *testing.T) {
	r := newTestResolver(t, `{}`, `{}`)
	if got := r.Resolve("totally_unknown_id"); got != "totally_unknown_id" {
		t.Fatalf("got %q", got)
	}
	if r.Misses() != 1 {
		t.Fatalf("misses: got %d, want 1", r.Misses())
	}
}

func TestNamespacePrefix(t *testing.T) {
	cases := []struct{ id, want string }{
		{"minecraft:emerald", "item."},
		{"minecraft:iron_ore", "block."},
		{"the_vault.vault_stone_block", "block."},
		{"vault_diamond", "item."},
	}
	for _, c := range cases {
		if got := NamespacePrefix(c.id); got != c.want {
			t.Fatalf("NamespacePrefix(%q): got %q want %q", c.id, got, c.want)
		}
	}
}

func TestTable_Descend(t *testing.T) {
	tbl := Table{"a": map[string]any{"b": map[string]any{"c": "leaf"}}}

	m, ok := tbl.Descend("a.b")
	if !ok || m["c"] != "leaf" {
		t.Fatalf("Descend: ok=%v m=%v", ok, m)
	}
	if _, ok := tbl.Descend("a.missing"); ok {
		t.Fatal("missing path must not resolve")
	}
	if s, ok := tbl.StringAt("a.b.c"); !ok || s != "leaf" {
		t.Fatalf("StringAt: ok=%v s=%q", ok, s)
	}
}
