package survival

import "github.com/jwebster45206/wasteland/pkg/rng"

// InfestationTier is the severity of a roach infestation.
type InfestationTier string

const (
	InfestationMinor  InfestationTier = "minor"
	InfestationSwarm  InfestationTier = "swarm"
	InfestationNest   InfestationTier = "nest"
	InfestationPlague InfestationTier = "plague"
)

var infestationTiers = []InfestationTier{InfestationMinor, InfestationSwarm, InfestationNest, InfestationPlague}

// infestationTier maps a roll in [1, 4] to a tier.
func infestationTier(roll int) InfestationTier {
	return infestationTiers[clamp(roll, 1, len(infestationTiers))-1]
}

var roachFinds = []string{ItemCannedFood, ItemWaterBottles, ItemRadPills}

func (e *Engine) roachInfestation() InfestationTier {
	tier := infestationTier(e.rng.Int(1, 4))
	switch tier {
	case InfestationMinor:
		dmg := e.rng.Int(5, 15)
		e.vitals.Apply(Health, -dmg)
		e.logf(SeverityWarning, "🪳 A few mutant roaches crawl out of the vents. You stomp them. (-%d health)", dmg)
		if e.rng.Chance(0.3) {
			item := rng.Choice(e.rng, roachFinds)
			e.inv.Add(item)
			e.logf(SeveritySuccess, "Their nest hid a %s.", DisplayName(item))
		}
	case InfestationSwarm:
		dmg := e.rng.Int(10, 20)
		e.vitals.Apply(Health, -dmg)
		e.logf(SeverityDanger, "🪳 A swarm of roaches floods the bunker! (-%d health)", dmg)
		if held := e.inv.IndexesOf(ItemCannedFood, ItemMeatRation); len(held) > 0 {
			eaten, _ := e.inv.RemoveAt(held[e.rng.Pick(len(held))])
			e.logf(SeverityDanger, "They devour your %s.", DisplayName(eaten))
		} else {
			loss := e.rng.Int(10, 20)
			e.vitals.Apply(Food, -loss)
			e.logf(SeverityDanger, "They get into your rations. (-%d food)", loss)
		}
	case InfestationNest:
		dmg := e.rng.Int(20, 35)
		rad := e.rng.Int(5, 15)
		e.vitals.Apply(Health, -dmg)
		e.vitals.Apply(Radiation, rad)
		e.logf(SeverityDanger, "🪳 Irradiated roaches nest in your bedding! (-%d health, +%d radiation)", dmg, rad)
	case InfestationPlague:
		dmg := e.rng.Int(25, 40)
		water := e.rng.Int(15, 25)
		food := e.rng.Int(10, 20)
		e.vitals.Apply(Health, -dmg)
		e.vitals.Apply(Water, -water)
		e.vitals.Apply(Food, -food)
		e.logf(SeverityDanger, "🪳 A roach plague overruns the bunker and fouls your supplies! (-%d health, -%d water, -%d food)", dmg, water, food)
	}
	return tier
}
