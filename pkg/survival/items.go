package survival

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item identifiers.
const (
	ItemCannedFood       = "canned_food"
	ItemWaterBottles     = "water_bottles"
	ItemMedKit           = "med_kit"
	ItemRadPills         = "rad_pills"
	ItemGasMask          = "gas_mask"
	ItemGasMaskNew       = "gas_mask_new"
	ItemMeatRation       = "meat_ration"
	ItemAntibiotics      = "antibiotics"
	ItemWaterFilter      = "water_filter"
	ItemMolotov          = "molotov"
	ItemRadDetector      = "rad_detector"
	ItemArmor            = "armor"
	ItemReinforcementKit = "reinforcement_kit"
	ItemWorkshopTools    = "workshop_tools"
	ItemSolarPanel       = "solar_panel"
	ItemUSP              = "usp"
	ItemSMG              = "smg"
	ItemAssaultRifle     = "assault_rifle"
	ItemSniperRifle      = "sniper_rifle"
	ItemRPG              = "rpg"
)

// Protective-consumable variants and their storm behaviour.
type maskVariant struct {
	minWear, maxWear int
	// fallback is used when a slot has no ledger entry.
	fallback int
}

var maskVariants = map[string]maskVariant{
	ItemGasMask:    {minWear: 15, maxWear: 25, fallback: 0},
	ItemGasMaskNew: {minWear: 5, maxWear: 10, fallback: 100},
}

func isProtective(item string) bool {
	_, ok := maskVariants[item]
	return ok
}

// weaponPower ranks weapons for raider fights.
var weaponPower = map[string]int{
	ItemUSP:          1,
	ItemSMG:          2,
	ItemAssaultRifle: 3,
	ItemSniperRifle:  4,
	ItemRPG:          5,
}

// weaponPriority lists weapons from most to least preferred.
var weaponPriority = []string{ItemRPG, ItemSniperRifle, ItemAssaultRifle, ItemSMG, ItemUSP}

func isWeapon(item string) bool {
	_, ok := weaponPower[item]
	return ok
}

var itemDescriptions = map[string]string{
	ItemCannedFood:       "Dented but sealed. Restores 30 food.",
	ItemWaterBottles:     "Clean water. Restores 25 water.",
	ItemMedKit:           "Bandages and stims. Restores 40 health.",
	ItemRadPills:         "Iodine tablets. Removes 30 radiation.",
	ItemGasMask:          "A scavenged gas mask. Filters wear out in storms.",
	ItemGasMaskNew:       "Military-grade gas mask. Filters last much longer.",
	ItemMeatRation:       "Dried mutant meat. Restores 20 food.",
	ItemAntibiotics:      "Cures whatever the wasteland gave you.",
	ItemWaterFilter:      "Filters out contaminants. Removes 20 radiation.",
	ItemMolotov:          "A bottle of fire. Raiders hate it.",
	ItemRadDetector:      "Clicks faster near hotspots.",
	ItemArmor:            "Scrap-metal plating strapped over your coat.",
	ItemReinforcementKit: "Steel plates and bolts for the bunker walls.",
	ItemWorkshopTools:    "A full toolset. Unlocks crafting.",
	ItemSolarPanel:       "A cracked panel that still charges.",
	ItemUSP:              "Pistol. Better than your fists.",
	ItemSMG:              "Submachine gun. Loud and fast.",
	ItemAssaultRifle:     "Reliable automatic rifle.",
	ItemSniperRifle:      "Long-range rifle with a scratched scope.",
	ItemRPG:              "Rocket launcher. Raiders scatter at the sight of it.",
	string(MutantDog):    "A whistle and a collar. Someone is waiting for you.",
	string(WastelandCat): "A bowl of scraps. Something is watching.",
	string(RobotDrone):   "A drone control chip.",
}

// DisplayName turns an item id such as "gas_mask_new" into "Gas Mask New".
func DisplayName(item string) string {
	// A Caser holds state, so each call gets its own.
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(item, "_", " "))
}

// Describe returns a short description of item.
func Describe(item string) string {
	if d, ok := itemDescriptions[item]; ok {
		return d
	}
	return "You are not sure what this is for."
}

func normalizeItemName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), "_")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func fuzzyLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// ResolveItem maps free text to an inventory index. It tries an exact id
// match, then a display-name prefix, then the closest edit distance within
// a length-based limit.
func (inv *Inventory) ResolveItem(name string) (int, bool) {
	want := normalizeItemName(name)
	if want == "" {
		return -1, false
	}
	if i := inv.IndexOf(want); i >= 0 {
		return i, true
	}
	for i, s := range inv.slots {
		if strings.HasPrefix(s.item, want) {
			return i, true
		}
	}
	best, bestDist := -1, 0
	for i, s := range inv.slots {
		dist := levenshtein.ComputeDistance(want, s.item)
		if dist > fuzzyLimit(len(s.item)) {
			continue
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best, best >= 0
}
