package survival

import (
	"reflect"
	"testing"

	"github.com/jwebster45206/wasteland/pkg/rng"
)

func TestRaiderTier(t *testing.T) {
	tests := []struct {
		score int
		want  RaiderTier
	}{
		{9, RaiderDecisive},
		{6, RaiderDecisive},
		{5, RaiderVictory},
		{4, RaiderVictory},
		{3, RaiderDefeat},
		{2, RaiderDefeat},
	}
	for _, tt := range tests {
		if got := raiderTier(tt.score); got != tt.want {
			t.Errorf("raiderTier(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestBestWeapon(t *testing.T) {
	inv := NewInventory()
	if w, p := bestWeapon(inv); w != "" || p != 0 {
		t.Errorf("bestWeapon(empty) = (%q, %d)", w, p)
	}
	inv.Add(ItemUSP)
	inv.Add(ItemSniperRifle)
	inv.Add(ItemSMG)
	if w, p := bestWeapon(inv); w != ItemSniperRifle || p != 4 {
		t.Errorf("bestWeapon() = (%q, %d), want (sniper_rifle, 4)", w, p)
	}
}

func TestRaiderAttack_RPGDecisive(t *testing.T) {
	g := newTestGame(nil)
	g.give(ItemRPG)

	tier := g.raiderAttack()

	if tier != RaiderDecisive {
		t.Fatalf("tier = %s, want decisive", tier)
	}
	if g.vitals.Health != 95 {
		t.Errorf("Health = %d, want 95", g.vitals.Health)
	}
	want := []string{ItemRPG, ItemCannedFood, ItemCannedFood}
	if got := g.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
	if g.stats.RaidersDefeated != 1 {
		t.Errorf("RaidersDefeated = %d, want 1", g.stats.RaidersDefeated)
	}
}

func TestRaiderAttack_ReinforcementAbsorbs(t *testing.T) {
	g := newTestGame(nil)
	g.give(ItemRPG)
	g.upgrades.Reinforcement = 1

	g.raiderAttack()

	if g.vitals.Health != 100 {
		t.Errorf("Health = %d, want 100", g.vitals.Health)
	}
}

func TestRaiderAttack_UnarmedRobbery(t *testing.T) {
	// raiders, faction, d4 -> 2 (robbed), damage 20, steal 1, slot 0
	g := newTestGame(rng.NewScript(0, 0, 1))
	g.inv.AddWithDurability(ItemGasMask, 40)
	g.inv.AddWithDurability(ItemGasMaskNew, 75)
	g.vitals = Vitals{Health: 100, Food: 50, Water: 40}

	tier := g.raiderAttack()

	if tier != RaiderRobbed {
		t.Fatalf("tier = %s, want robbed", tier)
	}
	want := Vitals{Health: 80, Food: 35, Water: 30}
	if g.vitals != want {
		t.Errorf("vitals = %+v, want %+v", g.vitals, want)
	}
	if got := g.Items(); !reflect.DeepEqual(got, []string{ItemGasMaskNew}) {
		t.Errorf("Items() = %v", got)
	}
	if got := g.Durability(); !reflect.DeepEqual(got, map[int]int{0: 75}) {
		t.Errorf("Durability() = %v, want map[0:75]", got)
	}
}

func TestRaiderAttack_DefeatCanDestroyWeapon(t *testing.T) {
	// raiders, faction, d4 -> 1 with usp (score 2), damage, food, water, destroyed slot
	g := newTestGame(rng.NewScript(0, 0, 0, 0, 0, 0, 0).WithFloats(0.1))
	g.give(ItemCannedFood, ItemUSP)

	if tier := g.raiderAttack(); tier != RaiderDefeat {
		t.Fatalf("tier = %s, want defeat", tier)
	}
	if g.inv.Has(ItemUSP) {
		t.Error("usp should have been destroyed")
	}
	if g.vitals.Health != 75 {
		t.Errorf("Health = %d, want 75", g.vitals.Health)
	}
}

func TestInfestationTier(t *testing.T) {
	for roll, want := range map[int]InfestationTier{1: InfestationMinor, 2: InfestationSwarm, 3: InfestationNest, 4: InfestationPlague} {
		if got := infestationTier(roll); got != want {
			t.Errorf("infestationTier(%d) = %s, want %s", roll, got, want)
		}
	}
}

func TestRoachInfestation_SwarmEatsFood(t *testing.T) {
	// tier 2, damage 10, eaten index among food slots
	g := newTestGame(rng.NewScript(1, 0, 1))
	g.give(ItemCannedFood, ItemUSP, ItemMeatRation)

	if tier := g.roachInfestation(); tier != InfestationSwarm {
		t.Fatalf("tier = %s, want swarm", tier)
	}
	want := []string{ItemCannedFood, ItemUSP}
	if got := g.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
	if g.vitals.Health != 90 {
		t.Errorf("Health = %d, want 90", g.vitals.Health)
	}
}
