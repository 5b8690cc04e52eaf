package survival

import (
	"context"
	"testing"

	"github.com/jwebster45206/wasteland/pkg/rng"
)

func TestRest_AutoConsumeAndRecovery(t *testing.T) {
	g := newTestGame(nil)
	g.vitals = Vitals{Health: 50, Food: 50, Water: 40, Radiation: 30}
	g.give(ItemCannedFood, ItemWaterBottles, ItemMedKit, ItemRadPills, ItemUSP)

	if err := g.Rest(context.Background()); err != nil {
		t.Fatalf("Rest() error = %v", err)
	}

	want := Vitals{Health: 100, Food: 55, Water: 42, Radiation: 0}
	if g.vitals != want {
		t.Errorf("vitals = %+v, want %+v", g.vitals, want)
	}
	if g.Day() != 2 || g.stats.DaysAlive != 2 {
		t.Errorf("day = %d, days alive = %d, want 2", g.Day(), g.stats.DaysAlive)
	}
	if items := g.Items(); len(items) != 1 || items[0] != ItemUSP {
		t.Errorf("Items() = %v, want [usp]", items)
	}
	if len(g.persister.saved) != 1 {
		t.Errorf("saved %d snapshots, want 1", len(g.persister.saved))
	}
}

func TestRest_MedicalBayAndSolar(t *testing.T) {
	g := newTestGame(nil)
	g.vitals = Vitals{Health: 20, Food: 90, Water: 90}
	g.upgrades = BaseUpgrades{MedicalBay: 2, SolarPanels: 1}
	g.give(ItemMedKit)

	if err := g.Rest(context.Background()); err != nil {
		t.Fatalf("Rest() error = %v", err)
	}

	// 20 + (40 + 20) + 2 + 10
	if g.vitals.Health != 92 {
		t.Errorf("Health = %d, want 92", g.vitals.Health)
	}
}

func TestRest_StarvationEndsRun(t *testing.T) {
	g := newTestGame(nil)
	g.vitals = Vitals{Health: 10, Food: 0, Water: 0, Radiation: 0}
	g.give(ItemUSP)
	g.GrantEntitlement("premium_bundle")

	if err := g.Rest(context.Background()); err != nil {
		t.Fatalf("Rest() error = %v", err)
	}

	death := g.LastDeath()
	if death == nil || death.Cause != CauseStarvation {
		t.Fatalf("LastDeath() = %+v, want starvation", death)
	}
	if death.Message != deathMessages[CauseStarvation] {
		t.Errorf("death message = %q", death.Message)
	}
	if !g.out.Contains("starvation and thirst") {
		t.Error("expected the starvation message in the log")
	}
	if len(g.persister.cleared) != 1 || g.persister.cleared[0] != g.PlayerID().String() {
		t.Errorf("cleared = %v, want the player's save", g.persister.cleared)
	}
	if g.Day() != 1 || g.Vitals() != NewVitals() || len(g.Items()) != 0 {
		t.Errorf("progress not reset: day %d vitals %+v items %v", g.Day(), g.Vitals(), g.Items())
	}
	if ents := g.Entitlements(); len(ents) != 1 || ents[0] != "premium_bundle" {
		t.Errorf("Entitlements() = %v, want kept", ents)
	}
}

func TestRest_EvenDayDrainHardcore(t *testing.T) {
	g := newTestGame(nil)
	g.mode = ModeHardcore
	g.vitals = Vitals{Health: 100, Food: 100, Water: 100}

	g.Rest(context.Background())

	// 100-20-10, 100-15-16
	if g.vitals.Food != 70 || g.vitals.Water != 69 {
		t.Errorf("food = %d, water = %d, want 70 and 69", g.vitals.Food, g.vitals.Water)
	}
}

func TestRest_RaiderEventStopsCycle(t *testing.T) {
	// floats: weather, radio, disease, companion, mission, roach, raider
	floats := []float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.01}
	g := newTestGame(rng.NewScript().WithFloats(floats...))
	g.vitals = Vitals{Health: 100, Food: 100, Water: 100}
	g.give(ItemRPG)

	if err := g.Rest(context.Background()); err != nil {
		t.Fatalf("Rest() error = %v", err)
	}

	if g.stats.RaidersDefeated != 1 {
		t.Errorf("RaidersDefeated = %d, want 1", g.stats.RaidersDefeated)
	}
	if len(g.persister.saved) != 1 {
		t.Errorf("saved %d snapshots, want 1", len(g.persister.saved))
	}
}

func TestRest_CreativeSkipsRareEvents(t *testing.T) {
	floats := []float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.01, 0.01}
	g := newTestGame(rng.NewScript().WithFloats(floats...))
	g.mode = ModeCreative
	g.give(ItemRPG)

	g.Rest(context.Background())

	if g.stats.RaidersDefeated != 0 || g.inv.Len() != 1 {
		t.Error("rare event fired in creative mode")
	}
}

func TestRest_UnlocksAchievement(t *testing.T) {
	g := newTestGame(nil)
	g.day = 9
	g.vitals = Vitals{Health: 100, Food: 100, Water: 100}

	g.Rest(context.Background())

	if got := g.Achievements(); len(got) != 1 || got[0] != "survivor_10" {
		t.Errorf("Achievements() = %v, want [survivor_10]", got)
	}
	if !g.notifier.has(SoundAchievement) {
		t.Error("expected achievement sound")
	}

	g.Rest(context.Background())
	if got := g.Achievements(); len(got) != 1 {
		t.Errorf("achievement unlocked twice: %v", got)
	}
}
