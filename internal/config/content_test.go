package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalPack = `
balance:
  primary_resource: gold
resources:
  - id: gold
    name: Gold
generators:
  - id: mine
    name: Gold Mine
    base_production: 1
    outputs:
      - resource: gold
        amount: 1
    base_cost:
      - resource: gold
        amount: 10
    growth_rate: 1.15
`

func writePack(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	return path
}

func TestLoadMinimalPack(t *testing.T) {
	pack, err := Load(writePack(t, minimalPack))
	if err != nil {
		t.Fatalf("Expected minimal pack to load, got %v", err)
	}

	if len(pack.Resources) != 1 || pack.Resources[0].ID != "gold" {
		t.Errorf("Expected one gold resource, got %v", pack.Resources)
	}
	if len(pack.Generators) != 1 || pack.Generators[0].GrowthRate != 1.15 {
		t.Errorf("Expected one mine generator, got %v", pack.Generators)
	}

	// Omitted balance fields fall back to the reference tuning.
	if pack.Balance.TickIntervalMs != 100 {
		t.Errorf("Expected default tick of 100ms, got %d", pack.Balance.TickIntervalMs)
	}
	if pack.Balance.ClickPower != 1 {
		t.Errorf("Expected default click power 1, got %f", pack.Balance.ClickPower)
	}
	if pack.Balance.PrestigeBase != 1.25 {
		t.Errorf("Expected default prestige base 1.25, got %f", pack.Balance.PrestigeBase)
	}
	if pack.Balance.PrestigeThresholdBase != 1000 {
		t.Errorf("Expected default threshold 1000, got %f", pack.Balance.PrestigeThresholdBase)
	}
}

func TestLoadParsesConditions(t *testing.T) {
	body := minimalPack + `
upgrades:
  - id: sharpPicks
    name: Sharp Picks
    costs:
      - resource: gold
        amount: 50
    effects:
      - kind: generator_production
        target: mine
        value: 2
    unlock_conditions:
      - type: generator
        target: mine
        min_owned: 5
narratives:
  - id: firstStrike
    title: First Strike
    priority: 100
    unlock_conditions:
      - type: resource
        target: gold
        min_amount: 10
        operator: ">="
`
	pack, err := Load(writePack(t, body))
	if err != nil {
		t.Fatalf("Expected pack with conditions to load, got %v", err)
	}

	up := pack.Upgrades[0]
	if len(up.Conditions) != 1 || up.Conditions[0].MinOwned == nil || *up.Conditions[0].MinOwned != 5 {
		t.Errorf("Expected min_owned 5 condition, got %+v", up.Conditions)
	}
	n := pack.Narratives[0]
	if len(n.Conditions) != 1 || n.Conditions[0].MinAmount == nil || *n.Conditions[0].MinAmount != 10 {
		t.Errorf("Expected min_amount 10 condition, got %+v", n.Conditions)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("Expected missing file to error")
	}
}

func TestValidateRejectsBadPacks(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing primary resource definition",
			body: strings.Replace(minimalPack, "id: gold", "id: silver", 1),
			want: "primary resource",
		},
		{
			name: "flat cost curve",
			body: strings.Replace(minimalPack, "growth_rate: 1.15", "growth_rate: 1.0", 1),
			want: "growth_rate",
		},
		{
			name: "duplicate resource ids",
			body: strings.Replace(minimalPack,
				"  - id: gold\n    name: Gold\n",
				"  - id: gold\n    name: Gold\n  - id: gold\n    name: Gold Again\n", 1),
			want: "duplicate resource",
		},
		{
			name: "negative generator cost",
			body: strings.Replace(minimalPack, "amount: 10", "amount: -10", 1),
			want: "base_cost amount",
		},
		{
			name: "zero upgrade cost",
			body: minimalPack + `
upgrades:
  - id: freebie
    name: Freebie
    costs:
      - resource: gold
        amount: 0
    effects:
      - kind: click
        value: 2
`,
			want: "cost amount",
		},
		{
			name: "unknown effect kind",
			body: minimalPack + `
upgrades:
  - id: broken
    name: Broken
    costs:
      - resource: gold
        amount: 1
    effects:
      - kind: teleport
        value: 2
`,
			want: "unknown effect kind",
		},
	}

	for _, tc := range cases {
		_, err := Load(writePack(t, tc.body))
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: expected error mentioning %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestDefaultPackValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Expected built-in pack to validate, got %v", err)
	}
}
