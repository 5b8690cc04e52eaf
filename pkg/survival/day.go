package survival

import "context"

const (
	restFoodCost  = 20
	restWaterCost = 15
	restHeal      = 10
	guardHeal     = 5
	medKitThresh  = 80
	radPillThresh = 20
)

var radioMessages = []string{
	"📻 Static crackles... \"...anyone out there... the creatures are... *static*\"",
	"📻 A faint voice: \"...safe zone to the north... bring water...\"",
	"📻 A looping broadcast: \"This is not a drill. Stay indoors.\"",
}

// Rest ends the day. Steps run in a fixed order: upkeep, automatic item
// use, recovery, the new day's weather and disease, random events, then
// saving and the terminal check.
func (e *Engine) Rest(ctx context.Context) error {
	if e.pending != EncounterNone {
		return ErrEncounterPending
	}
	e.log("🛏️ You rest in the bunker...", SeverityNormal)

	food := min(e.vitals.Food, restFoodCost)
	water := min(e.vitals.Water, restWaterCost)
	e.vitals.Apply(Food, -food)
	e.vitals.Apply(Water, -water)
	e.logf(SeverityNormal, "You consume your daily rations. (-%d food, -%d water)", food, water)

	e.autoConsume()
	if e.inv.Has(ItemAntibiotics) && e.disease != nil {
		e.inv.RemoveFirst(ItemAntibiotics)
		e.cureDisease()
	}

	if e.vitals.Water >= 50 && e.vitals.Radiation > 0 {
		flush := e.rng.Int(1, 10)
		e.vitals.Apply(Radiation, -flush)
		e.logf(SeveritySuccess, "Staying hydrated flushes some radiation. (-%d radiation)", flush)
	}
	if e.upgrades.SolarPanels > 0 {
		heal := 2 * e.upgrades.SolarPanels
		e.vitals.Apply(Health, heal)
		e.logf(SeveritySuccess, "☀️ Solar power keeps the bunker warm. (+%d health)", heal)
	}
	heal := restHeal
	if c := e.companion; c != nil && c.Has(AbilityGuard) && c.Active() {
		heal += guardHeal
		e.logf(SeverityNormal, "%s keeps watch while you sleep.", c.Name)
	}
	e.vitals.Apply(Health, heal)

	e.day++
	e.stats.DaysAlive = e.day
	e.logf(SeverityNormal, "🌅 Day %d begins.", e.day)

	e.updateWeather()
	if e.weather != WeatherClear {
		e.applyWeatherEffects()
	}
	e.processDisease()

	if e.day%2 == 0 {
		food, water := 5, 8
		if e.mode == ModeHardcore {
			food, water = food*2, water*2
		}
		e.vitals.Apply(Food, -food)
		e.vitals.Apply(Water, -water)
		e.logf(SeverityWarning, "The dry air saps you. (-%d food, -%d water)", food, water)
	}
	e.regenerateCompanion()

	if e.rng.Chance(0.10) {
		e.log(radioMessages[e.rng.Pick(len(radioMessages))], SeverityNormal)
	}
	if e.rng.Chance(0.08) {
		e.ContractDisease()
	}
	if e.rng.Chance(0.05) {
		e.log("Something scratches at the bunker door...", SeverityNormal)
		e.FindCompanion()
	}
	if e.mission == nil && e.rng.Chance(0.15) {
		e.StartNewMission()
	}
	e.checkAchievements()
	e.metrics.DayCompleted(e.mode)

	if e.mode != ModeCreative {
		var rare EncounterKind
		switch {
		case e.rng.Chance(0.05):
			rare = EncounterRoachInfestation
		case e.rng.Chance(0.06):
			rare = EncounterRaiderAttack
		}
		if rare != EncounterNone {
			out := e.resolve(ctx, rare)
			if out.Death == nil {
				e.persist(ctx)
			}
			return nil
		}
	}

	e.persist(ctx)
	e.checkGameOver(ctx)
	return nil
}

// autoConsume uses one of each restorative item when it helps.
func (e *Engine) autoConsume() {
	if e.inv.RemoveFirst(ItemCannedFood) {
		e.vitals.Apply(Food, 30)
		e.log("🥫 You eat a can of food. (+30 food)", SeveritySuccess)
	}
	if e.inv.RemoveFirst(ItemWaterBottles) {
		e.vitals.Apply(Water, 25)
		e.log("💧 You drink a bottle of water. (+25 water)", SeveritySuccess)
	}
	if e.vitals.Health < medKitThresh && e.inv.RemoveFirst(ItemMedKit) {
		heal := 40 + 10*e.upgrades.MedicalBay
		e.vitals.Apply(Health, heal)
		e.logf(SeveritySuccess, "🩹 You patch yourself up with a med kit. (+%d health)", heal)
	}
	if e.vitals.Radiation > radPillThresh && e.inv.RemoveFirst(ItemRadPills) {
		e.vitals.Apply(Radiation, -30)
		e.log("💊 You take rad pills. (-30 radiation)", SeveritySuccess)
	}
}

// persist saves a snapshot. Failures are reported but never end the game.
func (e *Engine) persist(ctx context.Context) {
	if err := e.Save(ctx); err != nil {
		e.logger.Error("Failed to save progress", "player_id", e.playerID, "error", err)
		e.log("⚠️ Failed to save progress.", SeverityWarning)
		return
	}
	e.logger.Debug("Progress saved", "player_id", e.playerID, "day", e.day, "rng_draws", e.rng.Position())
}

// Save writes a snapshot through the persister.
func (e *Engine) Save(ctx context.Context) error {
	return e.persister.SaveSnapshot(ctx, e.Snapshot())
}
