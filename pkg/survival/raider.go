package survival

import (
	"strings"

	"github.com/jwebster45206/wasteland/pkg/rng"
)

// RaiderTier is the result of a raider fight.
type RaiderTier string

const (
	RaiderDecisive       RaiderTier = "decisive"
	RaiderVictory        RaiderTier = "victory"
	RaiderDefeat         RaiderTier = "defeat"
	RaiderUnarmedVictory RaiderTier = "unarmed_victory"
	RaiderRobbed         RaiderTier = "robbed"
)

// raiderTier maps an armed fight score (d4 roll plus weapon power) to a tier.
func raiderTier(score int) RaiderTier {
	switch {
	case score >= 6:
		return RaiderDecisive
	case score >= 4:
		return RaiderVictory
	default:
		return RaiderDefeat
	}
}

// bestWeapon returns the highest priority weapon held and its power.
func bestWeapon(inv *Inventory) (string, int) {
	for _, w := range weaponPriority {
		if inv.Has(w) {
			return w, weaponPower[w]
		}
	}
	return "", 0
}

var (
	raiderLoot     = []string{ItemCannedFood, ItemWaterBottles, ItemMedKit, ItemRadPills, ItemUSP, ItemSMG}
	raiderDrops    = []string{ItemUSP, ItemSMG, ItemAssaultRifle}
	unarmedDrops   = []string{ItemUSP, ItemSMG}
	raiderFactions = []string{"Rust Jackals", "Ash Kings", "Bone Collectors", "Red Dust Gang"}
)

// raiderDamage applies a raider hit, reduced by bunker reinforcement.
func (e *Engine) raiderDamage(amount int) int {
	amount = max(0, amount-5*e.upgrades.Reinforcement)
	e.vitals.Apply(Health, -amount)
	return amount
}

func (e *Engine) raiderAttack() RaiderTier {
	raiders := e.rng.Int(2, 5)
	e.logf(SeverityDanger, "🔫 %d raiders from the %s storm the bunker!", raiders, rng.Choice(e.rng, raiderFactions))

	weapon, power := bestWeapon(e.inv)
	if weapon == "" {
		return e.unarmedRaid()
	}

	score := e.rng.Int(1, 4) + power
	e.logf(SeverityNormal, "You grab your %s and fight back!", DisplayName(weapon))
	tier := raiderTier(score)
	switch tier {
	case RaiderDecisive:
		dmg := e.raiderDamage(e.rng.Int(5, 15))
		count := e.rng.Int(2, 4)
		var looted []string
		for i := 0; i < count; i++ {
			item := rng.Choice(e.rng, raiderLoot)
			e.inv.Add(item)
			looted = append(looted, DisplayName(item))
		}
		e.stats.RaidersDefeated++
		e.logf(SeveritySuccess, "💥 The raiders are routed! (-%d health) You loot: %s", dmg, strings.Join(looted, ", "))
	case RaiderVictory:
		dmg := e.raiderDamage(e.rng.Int(15, 30))
		drop := rng.Choice(e.rng, raiderDrops)
		e.inv.Add(drop)
		e.stats.RaidersDefeated++
		e.logf(SeveritySuccess, "You drive them off after a hard fight. (-%d health) One of them dropped a %s.", dmg, DisplayName(drop))
	case RaiderDefeat:
		dmg := e.raiderDamage(e.rng.Int(25, 45))
		food := e.rng.Int(10, 20)
		water := e.rng.Int(5, 15)
		e.vitals.Apply(Food, -food)
		e.vitals.Apply(Water, -water)
		e.logf(SeverityDanger, "The raiders overwhelm you and raid your stores. (-%d health, -%d food, -%d water)", dmg, food, water)
		if e.rng.Chance(0.3) {
			if held := e.inv.IndexesOf(weaponPriority...); len(held) > 0 {
				idx := held[e.rng.Pick(len(held))]
				lost, _ := e.inv.RemoveAt(idx)
				e.logf(SeverityDanger, "Your %s was destroyed in the fight.", DisplayName(lost))
			}
		}
	}
	return tier
}

func (e *Engine) unarmedRaid() RaiderTier {
	e.log("You have no weapon. You fight with your bare hands!", SeverityWarning)
	if e.rng.Int(1, 4) == 1 {
		dmg := e.raiderDamage(e.rng.Int(30, 50))
		drop := rng.Choice(e.rng, unarmedDrops)
		e.inv.Add(drop)
		e.logf(SeveritySuccess, "Against all odds you win! (-%d health) You take their %s.", dmg, DisplayName(drop))
		return RaiderUnarmedVictory
	}

	dmg := e.raiderDamage(e.rng.Int(20, 40))
	stolen := min(e.inv.Len(), e.rng.Int(1, 3))
	var taken []string
	for i := 0; i < stolen; i++ {
		item, _ := e.inv.RemoveAt(e.rng.Pick(e.inv.Len()))
		taken = append(taken, DisplayName(item))
	}
	food := e.rng.Int(15, 30)
	water := e.rng.Int(10, 20)
	e.vitals.Apply(Food, -food)
	e.vitals.Apply(Water, -water)
	e.logf(SeverityDanger, "The raiders beat you down and rob you. (-%d health, -%d food, -%d water)", dmg, food, water)
	if len(taken) > 0 {
		e.logf(SeverityDanger, "Stolen: %s", strings.Join(taken, ", "))
	}
	return RaiderRobbed
}
