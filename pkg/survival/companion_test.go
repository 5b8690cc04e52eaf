package survival

import (
	"testing"

	"github.com/jwebster45206/wasteland/pkg/rng"
)

func TestCompanion_Find(t *testing.T) {
	g := newTestGame(rng.NewScript(0))

	if !g.FindCompanion() {
		t.Fatal("FindCompanion() = false, want true")
	}
	c := g.Companion()
	if c.Name != "Rex" || c.Species != MutantDog {
		t.Fatalf("companion = %s/%s, want Rex/mutant_dog", c.Name, c.Species)
	}
	if c.Health() != 80 || c.MaxHealth() != 80 {
		t.Errorf("health = %d/%d, want 80/80", c.Health(), c.MaxHealth())
	}
	if !c.Has(AbilityGuard) || !c.Has(AbilityHunt) || c.Has(AbilityScout) {
		t.Errorf("abilities = %v, want guard and hunt", c.Abilities)
	}
	if g.FindCompanion() {
		t.Error("second FindCompanion() = true, want false")
	}
	if !g.notifier.has(SoundCompanionBark) {
		t.Error("expected companion_bark sound")
	}
}

func TestCompanion_UseAbility(t *testing.T) {
	t.Run("missing ability", func(t *testing.T) {
		g := newTestGame(rng.NewScript(0))
		g.FindCompanion()
		if g.UseAbility(AbilityRepair) {
			t.Error("UseAbility(repair) on Rex = true, want false")
		}
	})

	t.Run("incapacitated", func(t *testing.T) {
		g := newTestGame(rng.NewScript(0))
		g.FindCompanion()
		g.companion.hurt(500)
		if got := g.companion.Health(); got != 0 {
			t.Fatalf("health = %d, want 0", got)
		}
		if g.UseAbility(AbilityGuard) {
			t.Error("UseAbility() at 0 health = true, want false")
		}
	})

	t.Run("hunt brings meat", func(t *testing.T) {
		g := newTestGame(rng.NewScript(0).WithFloats(0.5))
		g.FindCompanion()
		if !g.UseAbility(AbilityHunt) {
			t.Fatal("UseAbility(hunt) = false")
		}
		if !g.inv.Has(ItemMeatRation) {
			t.Error("expected a meat ration")
		}
	})

	t.Run("repair caps at 100", func(t *testing.T) {
		g := newTestGame(rng.NewScript(2))
		g.FindCompanion()
		g.inv.AddWithDurability(ItemGasMask, 90)
		g.inv.AddWithDurability(ItemGasMaskNew, 50)
		if !g.UseAbility(AbilityRepair) {
			t.Fatal("UseAbility(repair) = false")
		}
		if d, _ := g.inv.DurabilityAt(0); d != 100 {
			t.Errorf("first mask = %d, want 100", d)
		}
		if d, _ := g.inv.DurabilityAt(1); d != 70 {
			t.Errorf("second mask = %d, want 70", d)
		}
	})

	t.Run("scout advances mission", func(t *testing.T) {
		g := newTestGame(rng.NewScript(1).WithFloats(0.1))
		g.FindCompanion()
		g.mission = &Mission{Kind: MissionRetrieve, Target: "fuel cells", Location: "power plant", Difficulty: 3}
		g.UseAbility(AbilityScout)
		if _, progress := g.Mission(); progress != 1 {
			t.Errorf("progress = %d, want 1", progress)
		}
	})
}

func TestCompanion_UseCostsHealthAndRegenerates(t *testing.T) {
	// Rex, ability index 0 (guard), cost 5+3
	g := newTestGame(rng.NewScript(0, 0, 3))
	g.FindCompanion()

	if !g.UseCompanion() {
		t.Fatal("UseCompanion() = false")
	}
	if got := g.companion.Health(); got != 72 {
		t.Errorf("health = %d, want 72", got)
	}

	g.regenerateCompanion()
	if got := g.companion.Health(); got != 80 {
		t.Errorf("health after regen = %d, want 80 (capped)", got)
	}
}

func TestCompanion_KnockedOutRecovers(t *testing.T) {
	g := newTestGame(rng.NewScript(0))
	g.FindCompanion()
	c := g.Companion()

	c.hurt(c.MaxHealth())
	if c.Active() {
		t.Fatal("Active() at 0 health = true, want false")
	}
	if c.actor.HP() != 0 {
		t.Errorf("actor HP = %d, want 0", c.actor.HP())
	}

	g.regenerateCompanion()
	if !c.Active() {
		t.Error("Active() after regen = false, want true")
	}
	if c.Health() != companionRegen || c.actor.HP() != companionRegen {
		t.Errorf("health = %d (actor %d), want %d", c.Health(), c.actor.HP(), companionRegen)
	}
}

func TestCompanion_RestoreHealth(t *testing.T) {
	tests := []struct {
		name   string
		health int
		want   int
		active bool
	}{
		{"in range", 35, 35, true},
		{"zero", 0, 0, false},
		{"negative", -20, 0, false},
		{"above max", 500, 80, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(rng.NewScript(0))
			g.FindCompanion()
			snap := g.Snapshot()
			snap.CompanionHealth = &tt.health

			restored := newTestGame(nil)
			if err := restored.Restore(snap); err != nil {
				t.Fatalf("Restore() error = %v", err)
			}
			c := restored.Companion()
			if c.Health() != tt.want {
				t.Errorf("Health() = %d, want %d", c.Health(), tt.want)
			}
			if c.Active() != tt.active {
				t.Errorf("Active() = %v, want %v", c.Active(), tt.active)
			}
		})
	}
}
