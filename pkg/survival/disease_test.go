package survival

import (
	"testing"

	"github.com/jwebster45206/wasteland/pkg/rng"
)

func TestDisease_CountdownClears(t *testing.T) {
	g := newTestGame(rng.NewScript(2))

	if !g.ContractDisease() {
		t.Fatal("ContractDisease() = false, want true")
	}
	if g.disease.ID != "infected_wound" {
		t.Fatalf("disease = %s, want infected_wound", g.disease.ID)
	}
	if !g.notifier.has(SoundCough) {
		t.Error("expected cough sound")
	}

	for day := 1; day <= 3; day++ {
		before := g.disease.Remaining
		g.processDisease()
		if day < 3 && g.disease.Remaining != before-1 {
			t.Errorf("day %d remaining = %d, want %d", day, g.disease.Remaining, before-1)
		}
	}

	if g.disease != nil {
		t.Errorf("disease = %+v, want nil after duration", g.disease)
	}
	if g.vitals.Health != 70 {
		t.Errorf("Health = %d, want 70", g.vitals.Health)
	}
}

func TestDisease_OnlyOneAtATime(t *testing.T) {
	g := newTestGame(rng.NewScript(0, 1))
	g.ContractDisease()
	if g.ContractDisease() {
		t.Error("second ContractDisease() = true, want false")
	}
	if g.disease.ID != "radiation_sickness" {
		t.Errorf("disease = %s, want radiation_sickness", g.disease.ID)
	}
}

func TestDisease_EffectsClamp(t *testing.T) {
	g := newTestGame(rng.NewScript(1))
	g.ContractDisease()
	g.vitals = Vitals{Health: 5, Food: 10, Water: 2}

	g.processDisease()

	if g.vitals.Health != 0 || g.vitals.Water != 0 || g.vitals.Food != 10 {
		t.Errorf("vitals = %+v, want health 0, water 0, food 10", g.vitals)
	}
}

func TestDisease_AntibioticsCure(t *testing.T) {
	g := newTestGame(nil)
	g.ContractDisease()
	g.give(ItemAntibiotics)

	if err := g.UseItem(0); err != nil {
		t.Fatalf("UseItem() error = %v", err)
	}
	if g.disease != nil {
		t.Error("disease not cured")
	}
	if g.inv.Len() != 0 {
		t.Error("antibiotics not consumed")
	}
}
