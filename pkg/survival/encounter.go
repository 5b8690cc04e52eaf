package survival

import (
	"context"

	"github.com/jwebster45206/wasteland/pkg/rng"
)

// EncounterKind tags a random event.
type EncounterKind string

const (
	EncounterNone              EncounterKind = ""
	EncounterScavenge          EncounterKind = "scavenge"
	EncounterMysteriousSound   EncounterKind = "mysterious_sound"
	EncounterSupplyCache       EncounterKind = "supply_cache"
	EncounterRadiationExposure EncounterKind = "radiation_exposure"
	EncounterCreature          EncounterKind = "creature"
	EncounterRoachInfestation  EncounterKind = "roach_infestation"
	EncounterRaiderAttack      EncounterKind = "raider_attack"
)

// expeditionEncounters are the events exploring can lead to.
var expeditionEncounters = []EncounterKind{
	EncounterScavenge,
	EncounterMysteriousSound,
	EncounterSupplyCache,
	EncounterRadiationExposure,
	EncounterCreature,
}

// Outcome summarises a resolved encounter.
type Outcome struct {
	Kind   EncounterKind `json:"kind"`
	Result string        `json:"result"`
	Death  *Death        `json:"death,omitempty"`
}

var expeditionIntros = map[EncounterKind]string{
	EncounterScavenge:          "You spot ruins worth searching.",
	EncounterMysteriousSound:   "A strange sound echoes from the darkness...",
	EncounterSupplyCache:       "You notice a marked hatch half-buried in the dust.",
	EncounterRadiationExposure: "The air shimmers. Your Geiger counter starts clicking.",
	EncounterCreature:          "Something moves between the wrecks.",
}

// BeginExpedition leaves the bunker and picks an encounter. The encounter
// stays pending until ResolveEncounter is called.
func (e *Engine) BeginExpedition() (EncounterKind, error) {
	if e.pending != EncounterNone {
		return EncounterNone, ErrEncounterPending
	}
	gain := e.rng.Int(5, 15)
	e.vitals.Apply(Radiation, gain)
	e.logf(SeverityWarning, "🚪 You venture into the wasteland. (+%d radiation)", gain)

	e.pending = expeditionEncounters[e.rng.Pick(len(expeditionEncounters))]
	e.log(expeditionIntros[e.pending], SeverityNormal)
	return e.pending, nil
}

// PendingEncounter returns the encounter waiting to be resolved.
func (e *Engine) PendingEncounter() EncounterKind {
	return e.pending
}

// ResolveEncounter resolves the pending expedition encounter.
func (e *Engine) ResolveEncounter(ctx context.Context) (Outcome, error) {
	kind := e.pending
	if kind == EncounterNone {
		return Outcome{}, ErrNoEncounter
	}
	e.pending = EncounterNone
	return e.resolve(ctx, kind), nil
}

// Explore runs both expedition phases back to back.
func (e *Engine) Explore(ctx context.Context) (Outcome, error) {
	if _, err := e.BeginExpedition(); err != nil {
		return Outcome{}, err
	}
	return e.ResolveEncounter(ctx)
}

func (e *Engine) resolve(ctx context.Context, kind EncounterKind) Outcome {
	var result string
	switch kind {
	case EncounterScavenge:
		result = e.scavenge()
	case EncounterMysteriousSound:
		result = e.mysteriousSound()
	case EncounterSupplyCache:
		result = e.supplyCache()
	case EncounterRadiationExposure:
		result = e.radiationExposure()
	case EncounterCreature:
		result = e.creatureEncounter()
	case EncounterRoachInfestation:
		result = string(e.roachInfestation())
	case EncounterRaiderAttack:
		result = string(e.raiderAttack())
	default:
		return Outcome{Kind: kind}
	}
	e.metrics.EncounterResolved(kind, result)
	out := Outcome{Kind: kind, Result: result}
	if e.checkGameOver(ctx) {
		out.Death = e.lastDeath
	}
	return out
}

var scavengeLocations = []string{
	"abandoned supermarket",
	"destroyed pharmacy",
	"crashed military convoy",
	"ruined gas station",
	"collapsed apartment building",
}

// scavengeFinds is a uniform table. The weapon bundle draws one weapon, and
// the last entry is an empty haul.
var scavengeFinds = [][]string{
	{ItemCannedFood, ItemWaterBottles},
	{ItemMedKit},
	{ItemRadPills, ItemCannedFood},
	{ItemWaterBottles, ItemGasMask},
	{"weapon"},
	{ItemAntibiotics, ItemWaterBottles},
	{},
}

var scavengeWeapons = []string{ItemUSP, ItemSMG, ItemAssaultRifle, ItemSniperRifle, ItemRPG}

func (e *Engine) scavenge() string {
	location := rng.Choice(e.rng, scavengeLocations)
	e.logf(SeverityNormal, "🏚️ You search the %s...", location)

	if e.mission != nil && e.rng.Chance(0.4) {
		e.log("You follow a lead instead of looting.", SeverityNormal)
		if e.ProgressMission() {
			return "mission_complete"
		}
		return "mission_progress"
	}

	finds := scavengeFinds[e.rng.Pick(len(scavengeFinds))]
	if len(finds) == 0 {
		e.log("You find nothing useful. Someone got here first.", SeverityNormal)
		return "empty"
	}
	for _, item := range finds {
		if item == "weapon" {
			item = rng.Choice(e.rng, scavengeWeapons)
		}
		if isProtective(item) {
			e.inv.AddWithDurability(item, e.rng.Int(30, 100))
		} else {
			e.inv.Add(item)
		}
		e.logf(SeveritySuccess, "Found: %s", DisplayName(item))
	}
	return "looted"
}

var mysteriousSounds = []string{
	"Metal scraping against concrete...",
	"A low, inhuman growl...",
	"Rapid clicking sounds...",
	"Heavy breathing that isn't yours...",
}

func (e *Engine) mysteriousSound() string {
	e.logf(SeverityWarning, "👂 You hear: %s", rng.Choice(e.rng, mysteriousSounds))
	if e.rng.Chance(0.3) {
		e.inv.Add(ItemCannedFood)
		e.inv.Add(ItemWaterBottles)
		e.log("It was just a trapped animal guarding a hidden cache! Found canned food and water.", SeveritySuccess)
		return "cache"
	}
	damage := e.rng.Int(15, 30)
	e.vitals.Apply(Health, -damage)
	e.logf(SeverityDanger, "Something lunges from the dark and wounds you! (-%d health)", damage)
	return "injured"
}

var cacheItems = []string{ItemMedKit, ItemRadPills, ItemCannedFood, ItemWaterBottles, ItemGasMask, ItemUSP, ItemSMG}

func (e *Engine) supplyCache() string {
	e.log("📦 You found a hidden supply cache!", SeveritySuccess)
	if e.mission != nil && e.rng.Chance(0.5) {
		e.log("Among the supplies: a clue for your mission.", SeverityNormal)
		if e.ProgressMission() {
			return "mission_complete"
		}
	}
	count := e.rng.Int(2, 4)
	for i := 0; i < count; i++ {
		item := rng.Choice(e.rng, cacheItems)
		// Cache stock is sealed, so masks come in at full durability.
		e.inv.Add(item)
		e.logf(SeveritySuccess, "Found: %s", DisplayName(item))
	}
	return "looted"
}

func (e *Engine) radiationExposure() string {
	e.log("☢️ You stumble into a radiation hotspot!", SeverityDanger)

	idx := e.inv.IndexOfAny(ItemGasMask, ItemGasMaskNew)
	if idx >= 0 {
		item, _ := e.inv.At(idx)
		variant := maskVariants[item]
		durability, ok := e.inv.DurabilityAt(idx)
		if !ok {
			durability = variant.fallback
			e.inv.SetDurabilityAt(idx, durability)
		}
		if durability > 0 {
			gain := e.rng.Int(5, 10)
			e.vitals.Apply(Radiation, gain)
			wear := e.rng.Int(variant.minWear, variant.maxWear)
			left := e.inv.DegradeAt(idx, wear)
			e.logf(SeverityWarning, "Your %s filters most of it. (+%d radiation, -%d%% filter)", DisplayName(item), gain, wear)
			switch {
			case left <= 0:
				e.inv.RemoveAt(idx)
				e.logf(SeverityDanger, "💥 The %s filter breaks apart! You toss the useless mask.", DisplayName(item))
				return "mask_broken"
			case left <= 25:
				e.logf(SeverityDanger, "⚠️ Your %s is heavily damaged (%d%%).", DisplayName(item), left)
			case left <= 50:
				e.logf(SeverityWarning, "Your %s shows signs of wear (%d%%).", DisplayName(item), left)
			}
			return "protected"
		}
	}
	gain := e.rng.Int(20, 35)
	e.vitals.Apply(Radiation, gain)
	e.logf(SeverityDanger, "Without a working mask you breathe in the fallout. (+%d radiation)", gain)
	return "unprotected"
}

// CreatureOutcome is how a creature fight ends.
type CreatureOutcome string

const (
	CreatureVictory   CreatureOutcome = "victory"
	CreatureEscape    CreatureOutcome = "escape"
	CreatureNegotiate CreatureOutcome = "negotiate"
	CreatureAttacked  CreatureOutcome = "attacked"
)

// creatureOutcome maps an outcome roll in [1, 3] to a result. won is the
// combat check for roll 1; hasFood enables negotiation on roll 3.
func creatureOutcome(roll int, won, hasFood bool) CreatureOutcome {
	switch {
	case roll == 1 && won:
		return CreatureVictory
	case roll == 2:
		return CreatureEscape
	case roll == 3 && hasFood:
		return CreatureNegotiate
	default:
		return CreatureAttacked
	}
}

var creatures = []string{
	"Mutant rat the size of a dog",
	"Irradiated vulture with three heads",
	"Twisted humanoid figure in the shadows",
	"Pack of glowing-eyed wolves",
}

func (e *Engine) creatureEncounter() string {
	creature := rng.Choice(e.rng, creatures)
	e.logf(SeverityDanger, "🐺 %s attacks!", creature)

	roll := e.rng.Int(1, 3)
	c := e.companion
	assist := c != nil && c.Has(AbilityGuard) && c.Health() > 30
	if assist {
		cost := e.rng.Int(15, 25)
		c.hurt(cost)
		e.logf(SeverityNormal, "%s leaps to your defence! (-%d companion health)", c.Name, cost)
	}
	won := roll == 1 && (assist || e.rng.Chance(0.6))

	outcome := creatureOutcome(roll, won, e.inv.Has(ItemCannedFood))
	switch outcome {
	case CreatureVictory:
		e.inv.Add(ItemMeatRation)
		e.stats.CreaturesKilled++
		e.log("You defeat the creature and carve a meat ration from it.", SeveritySuccess)
	case CreatureEscape:
		damage := 10
		if assist {
			damage = 5
		}
		e.vitals.Apply(Health, -damage)
		e.logf(SeverityWarning, "You escape, but not unscathed. (-%d health)", damage)
	case CreatureNegotiate:
		e.inv.RemoveFirst(ItemCannedFood)
		e.log("You toss it a can of food. It takes the offering and slinks away.", SeverityNormal)
	case CreatureAttacked:
		damage := e.rng.Int(15, 25)
		if assist {
			damage = max(5, damage-10)
		}
		e.vitals.Apply(Health, -damage)
		e.logf(SeverityDanger, "The creature mauls you! (-%d health)", damage)
		if e.rng.Chance(0.2) {
			e.log("The wound looks dirty...", SeverityWarning)
			if e.rng.Chance(0.5) {
				e.ContractDisease()
			}
		}
	}
	return string(outcome)
}

func (k EncounterKind) String() string {
	if k == EncounterNone {
		return "none"
	}
	return string(k)
}
