package survival

import (
	"fmt"

	"github.com/jwebster45206/d20"
)

// Species is a companion kind. Its value doubles as the item id that
// attracts it.
type Species string

const (
	MutantDog    Species = "mutant_dog"
	WastelandCat Species = "wasteland_cat"
	RobotDrone   Species = "robot_drone"
)

// Ability is something a companion can do.
type Ability string

const (
	AbilityGuard  Ability = "guard"
	AbilityHunt   Ability = "hunt"
	AbilityScout  Ability = "scout"
	AbilityRepair Ability = "repair"
)

const companionRegen = 10

type companionTemplate struct {
	name        string
	species     Species
	maxHealth   int
	abilities   []Ability
	description string
}

var companionCatalog = []companionTemplate{
	{name: "Rex", species: MutantDog, maxHealth: 80, abilities: []Ability{AbilityGuard, AbilityHunt}, description: "A loyal mutant German Shepherd with glowing eyes"},
	{name: "Shadow", species: WastelandCat, maxHealth: 60, abilities: []Ability{AbilityHunt, AbilityScout}, description: "A sleek black cat that survived the radiation"},
	{name: "Scrap", species: RobotDrone, maxHealth: 100, abilities: []Ability{AbilityScout, AbilityRepair}, description: "A damaged military drone you repaired"},
}

func templateFor(s Species) (companionTemplate, bool) {
	for _, t := range companionCatalog {
		if t.species == s {
			return t, true
		}
	}
	return companionTemplate{}, false
}

// Companion is a recruited ally. Health and abilities live on a d20 actor.
type Companion struct {
	Name        string
	Species     Species
	Description string
	Abilities   []Ability

	actor *d20.Actor
}

func newCompanion(t companionTemplate) (*Companion, error) {
	attrs := make(map[string]int, len(t.abilities))
	for _, a := range t.abilities {
		attrs[string(a)] = 1
	}
	actor, err := d20.NewActor(t.name).
		WithHP(t.maxHealth).
		WithAC(10).
		WithAttributes(attrs).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build companion: %w", err)
	}
	return &Companion{
		Name:        t.name,
		Species:     t.species,
		Description: t.description,
		Abilities:   append([]Ability(nil), t.abilities...),
		actor:       actor,
	}, nil
}

// Health returns current health.
func (c *Companion) Health() int { return c.actor.HP() }

// MaxHealth returns the companion's health cap.
func (c *Companion) MaxHealth() int { return c.actor.MaxHP() }

// Has reports whether the companion knows ability a.
func (c *Companion) Has(a Ability) bool {
	return c.actor.HasAttribute(string(a))
}

// Active reports whether the companion can use abilities.
func (c *Companion) Active() bool { return !c.actor.IsKnockedOut() }

func (c *Companion) hurt(amount int) { c.actor.SubHP(amount) }

func (c *Companion) heal(amount int) { c.actor.AddHP(amount) }

// restoreHealth sets health from a save, clamped to the actor's range.
func (c *Companion) restoreHealth(h int) error {
	if err := c.actor.SetHP(clamp(h, 0, c.MaxHealth())); err != nil {
		return fmt.Errorf("failed to restore companion health: %w", err)
	}
	return nil
}

// FindCompanion recruits a random companion if the player has none.
func (e *Engine) FindCompanion() bool {
	if e.companion != nil {
		e.log("You already have a companion.", SeverityNormal)
		return false
	}
	return e.recruit(companionCatalog[e.rng.Pick(len(companionCatalog))])
}

func (e *Engine) recruit(t companionTemplate) bool {
	c, err := newCompanion(t)
	if err != nil {
		e.logger.Error("Failed to create companion", "species", t.species, "error", err)
		return false
	}
	e.companion = c
	e.logf(SeveritySuccess, "🐾 %s joins you! %s.", c.Name, c.Description)
	e.notifier.Notify(SoundCompanionBark)
	return true
}

// UseAbility resolves one companion ability. It returns false if there is
// no companion, it is incapacitated, or it lacks the ability.
func (e *Engine) UseAbility(a Ability) bool {
	c := e.companion
	if c == nil || !c.Active() || !c.Has(a) {
		return false
	}
	switch a {
	case AbilityGuard:
		e.logf(SeverityNormal, "🛡️ %s stands guard, watching the shadows.", c.Name)
	case AbilityHunt:
		if e.rng.Chance(0.6) {
			e.inv.Add(ItemMeatRation)
			e.logf(SeveritySuccess, "🍖 %s brings back a meat ration!", c.Name)
		} else {
			e.logf(SeverityNormal, "%s returns from the hunt empty-handed.", c.Name)
		}
	case AbilityScout:
		if e.mission != nil && e.rng.Chance(0.5) {
			e.logf(SeveritySuccess, "🔍 %s scouts ahead and finds a lead!", c.Name)
			e.ProgressMission()
		} else {
			e.logf(SeverityNormal, "%s scouts the area but finds nothing useful.", c.Name)
		}
	case AbilityRepair:
		repaired := 0
		e.inv.EachDurable(func(_ int, _ string, d int) int {
			repaired++
			return min(d+20, 100)
		})
		if repaired > 0 {
			e.logf(SeveritySuccess, "🔧 %s repairs your gas masks (+20%% durability).", c.Name)
		} else {
			e.logf(SeverityNormal, "%s has nothing to repair.", c.Name)
		}
	}
	return true
}

// UseCompanion has the companion act with a random ability, at a cost of
// some of its health.
func (e *Engine) UseCompanion() bool {
	c := e.companion
	if c == nil {
		e.log("You don't have a companion.", SeverityNormal)
		return false
	}
	if !c.Active() {
		e.logf(SeverityWarning, "%s is too hurt to help. Let them rest.", c.Name)
		return false
	}
	a := c.Abilities[e.rng.Pick(len(c.Abilities))]
	if !e.UseAbility(a) {
		return false
	}
	cost := e.rng.Int(5, 15)
	c.hurt(cost)
	e.logf(SeverityNormal, "%s is tired. (-%d companion health)", c.Name, cost)
	return true
}

func (e *Engine) regenerateCompanion() {
	if c := e.companion; c != nil && c.Health() < c.MaxHealth() {
		c.heal(companionRegen)
	}
}
