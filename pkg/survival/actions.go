package survival

import (
	"slices"
	"strings"
)

const maxUpgradeLevel = 3

// StarterPack is the entitlement id that grants the starter kit.
const StarterPack = "starter_pack"

type upgradeDef struct {
	name  string
	label string
	item  string
	level func(*BaseUpgrades) *int
}

var upgradeCatalog = []upgradeDef{
	{name: "reinforcement", label: "🧱 Reinforced Walls", item: ItemReinforcementKit, level: func(u *BaseUpgrades) *int { return &u.Reinforcement }},
	{name: "workshop", label: "🔧 Workshop", item: ItemWorkshopTools, level: func(u *BaseUpgrades) *int { return &u.Workshop }},
	{name: "medical_bay", label: "🏥 Medical Bay", item: ItemMedKit, level: func(u *BaseUpgrades) *int { return &u.MedicalBay }},
	{name: "solar_panels", label: "☀️ Solar Panels", item: ItemSolarPanel, level: func(u *BaseUpgrades) *int { return &u.SolarPanels }},
}

type recipe struct {
	output    string
	materials []string
}

var recipes = []recipe{
	{output: ItemMolotov, materials: []string{ItemWaterBottles, ItemCannedFood}},
	{output: ItemRadDetector, materials: []string{ItemWorkshopTools}},
	{output: ItemWaterFilter, materials: []string{ItemGasMask}},
	{output: ItemArmor, materials: []string{ItemReinforcementKit}},
}

var giftCodes = map[string][]string{
	"SURVIVAL_EXPERT": {string(MutantDog), ItemSolarPanel, ItemReinforcementKit, ItemWorkshopTools},
}

// starterPackItems is granted once per run to owners of the starter pack.
func starterPackItems() []string {
	items := []string{ItemSMG, ItemMedKit, ItemMedKit}
	for i := 0; i < 19; i++ {
		items = append(items, ItemCannedFood)
	}
	for i := 0; i < 20; i++ {
		items = append(items, ItemWaterBottles)
	}
	for i := 0; i < 5; i++ {
		items = append(items, ItemGasMaskNew)
	}
	for i := 0; i < 5; i++ {
		items = append(items, ItemRadPills)
	}
	return items
}

// UseItem uses the item in slot index.
func (e *Engine) UseItem(index int) error {
	if e.pending != EncounterNone {
		return ErrEncounterPending
	}
	item, ok := e.inv.At(index)
	if !ok {
		e.logger.Debug("Ignoring use of invalid slot", "index", index, "size", e.inv.Len())
		return ErrInvalidSlot
	}

	consumed := false
	switch item {
	case ItemCannedFood:
		if e.vitals.Food < vitalMax {
			e.vitals.Apply(Food, 30)
			e.log("🥫 You eat the canned food. (+30 food)", SeveritySuccess)
			consumed = true
		} else {
			e.log("You're not hungry.", SeverityNormal)
		}
	case ItemWaterBottles:
		if e.vitals.Water < vitalMax {
			e.vitals.Apply(Water, 25)
			e.log("💧 You drink the water. (+25 water)", SeveritySuccess)
			consumed = true
		} else {
			e.log("You're not thirsty.", SeverityNormal)
		}
	case ItemMedKit:
		if e.vitals.Health < vitalMax {
			e.vitals.Apply(Health, 40)
			e.log("🩹 You use the med kit. (+40 health)", SeveritySuccess)
			consumed = true
		} else {
			e.log("You're already at full health.", SeverityNormal)
		}
	case ItemRadPills:
		if e.vitals.Radiation > 0 {
			e.vitals.Apply(Radiation, -30)
			e.log("💊 You take the rad pills. (-30 radiation)", SeveritySuccess)
			consumed = true
		} else {
			e.log("You have no radiation to treat.", SeverityNormal)
		}
	case ItemMeatRation:
		e.vitals.Apply(Food, 20)
		e.log("🍖 You eat the meat ration. (+20 food)", SeveritySuccess)
		consumed = true
	case ItemWaterFilter:
		if e.vitals.Radiation > 10 {
			e.vitals.Apply(Radiation, -20)
			e.log("You filter your water carefully. (-20 radiation)", SeveritySuccess)
			consumed = true
		} else {
			e.log("Your radiation is too low for the filter to help.", SeverityNormal)
		}
	case ItemAntibiotics:
		if e.cureDisease() {
			consumed = true
		} else {
			e.log("You're not sick.", SeverityNormal)
		}
	case ItemGasMask, ItemGasMaskNew:
		e.inspectMask(index, item)
		return nil
	case string(MutantDog), string(WastelandCat), string(RobotDrone):
		if e.companion == nil {
			if t, ok := templateFor(Species(item)); ok && e.recruit(t) {
				consumed = true
			}
		} else {
			e.log("You already have a companion.", SeverityNormal)
		}
	case ItemReinforcementKit, ItemWorkshopTools, ItemSolarPanel:
		e.logf(SeverityNormal, "%s: %s Use it to upgrade the bunker.", DisplayName(item), Describe(item))
	default:
		if isWeapon(item) {
			e.logf(SeverityNormal, "🔫 %s: %s You draw your best weapon when raiders come.", DisplayName(item), Describe(item))
			break
		}
		e.logf(SeverityNormal, "%s: %s", DisplayName(item), Describe(item))
	}

	if consumed {
		e.inv.RemoveAt(index)
	}
	return nil
}

func (e *Engine) inspectMask(index int, item string) {
	d, ok := e.inv.DurabilityAt(index)
	if !ok {
		d = maskVariants[item].fallback
	}
	switch {
	case d <= 0:
		e.logf(SeverityDanger, "Your %s is broken. You throw it away.", DisplayName(item))
		e.inv.RemoveAt(index)
	case d <= 25:
		e.logf(SeverityDanger, "%s filter: %d%%. It won't last much longer.", DisplayName(item), d)
	case d <= 50:
		e.logf(SeverityWarning, "%s filter: %d%%. Showing wear.", DisplayName(item), d)
	default:
		e.logf(SeveritySuccess, "%s filter: %d%%. Good condition.", DisplayName(item), d)
	}
}

// UseItemByName resolves free text to a slot and uses it.
func (e *Engine) UseItemByName(name string) error {
	idx, ok := e.inv.ResolveItem(name)
	if !ok {
		e.logf(SeverityNormal, "You don't have anything called %q.", name)
		return ErrInvalidSlot
	}
	return e.UseItem(idx)
}

// CheckBunker takes one random item from the bunker stockpile.
func (e *Engine) CheckBunker() (string, bool) {
	var available []string
	for _, item := range []string{ItemCannedFood, ItemWaterBottles, ItemMedKit} {
		if e.bunker[item] > 0 {
			available = append(available, item)
		}
	}
	if len(available) == 0 {
		e.log("The bunker shelves are empty.", SeverityWarning)
		return "", false
	}
	item := available[e.rng.Pick(len(available))]
	e.bunker[item]--
	e.inv.Add(item)
	e.logf(SeveritySuccess, "📦 You take %s from the bunker stockpile. (%d left)", DisplayName(item), e.bunker[item])
	return item, true
}

// Bunker returns the remaining bunker stockpile.
func (e *Engine) Bunker() map[string]int {
	out := make(map[string]int, len(e.bunker))
	for k, v := range e.bunker {
		out[k] = v
	}
	return out
}

// UpgradeBase applies the first upgrade the player has parts for.
func (e *Engine) UpgradeBase() (string, bool) {
	for _, u := range upgradeCatalog {
		level := u.level(&e.upgrades)
		if *level >= maxUpgradeLevel || !e.inv.Has(u.item) {
			continue
		}
		e.inv.RemoveFirst(u.item)
		*level++
		e.logf(SeveritySuccess, "🏗️ %s upgraded to level %d!", u.label, *level)
		return u.name, true
	}
	e.log("You don't have the parts for any upgrade.", SeverityNormal)
	return "", false
}

// Craft builds the first recipe the player has materials for. It needs a
// workshop.
func (e *Engine) Craft() (string, bool) {
	if e.upgrades.Workshop < 1 {
		e.log("You need a workshop to craft.", SeverityNormal)
		return "", false
	}
	for _, r := range recipes {
		if !e.hasAll(r.materials) {
			continue
		}
		for _, m := range r.materials {
			e.inv.RemoveFirst(m)
		}
		e.inv.Add(r.output)
		e.stats.ItemsCrafted++
		e.logf(SeveritySuccess, "🔨 You crafted a %s!", DisplayName(r.output))
		e.notifier.Notify(SoundCraftSuccess)
		return r.output, true
	}
	e.log("You don't have the materials for anything.", SeverityNormal)
	return "", false
}

func (e *Engine) hasAll(materials []string) bool {
	need := make(map[string]int)
	for _, m := range materials {
		need[m]++
	}
	for item, n := range need {
		if e.inv.Count(item) < n {
			return false
		}
	}
	return true
}

// RedeemGiftCode adds the code's items once per run.
func (e *Engine) RedeemGiftCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	items, ok := giftCodes[code]
	if !ok {
		e.log("❌ Invalid gift code.", SeverityWarning)
		return ErrUnknownCode
	}
	if slices.Contains(e.giftCodes, code) {
		e.log("This gift code has already been redeemed.", SeverityWarning)
		return ErrCodeRedeemed
	}
	e.giftCodes = append(e.giftCodes, code)
	for _, item := range items {
		e.inv.Add(item)
	}
	e.log("🎁 Gift code redeemed! Check your inventory.", SeveritySuccess)
	return nil
}

// ClaimStarterPack adds the starter kit if the player owns it and has not
// received it this run.
func (e *Engine) ClaimStarterPack() bool {
	if e.starterClaimed || !slices.Contains(e.entitlements, StarterPack) {
		return false
	}
	for _, item := range starterPackItems() {
		e.inv.Add(item)
	}
	e.starterClaimed = true
	e.log("🎁 Starter pack delivered to your inventory.", SeveritySuccess)
	return true
}

// RadiationLevel buckets radiation for display.
func RadiationLevel(radiation int) string {
	switch {
	case radiation < 25:
		return "safe"
	case radiation < 50:
		return "elevated"
	case radiation < 75:
		return "dangerous"
	default:
		return "critical"
	}
}

// CheckRadiation reports the current radiation level.
func (e *Engine) CheckRadiation() string {
	level := RadiationLevel(e.vitals.Radiation)
	severity := SeveritySuccess
	switch level {
	case "elevated":
		severity = SeverityWarning
	case "dangerous", "critical":
		severity = SeverityDanger
	}
	e.logf(severity, "☢️ Radiation: %d (%s)", e.vitals.Radiation, level)
	return level
}
