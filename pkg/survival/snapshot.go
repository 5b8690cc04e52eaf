package survival

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// CompanionRecord is the persisted form of a companion.
type CompanionRecord struct {
	Name    string  `json:"name"`
	Species Species `json:"type"`
}

// Snapshot is the persisted progress record. The first group of fields is
// always written; the extended group may be missing from older saves and
// defaults safely.
type Snapshot struct {
	PlayerName        string         `json:"player_name"`
	Health            int            `json:"health"`
	Food              int            `json:"food"`
	Water             int            `json:"water"`
	Radiation         int            `json:"radiation"`
	Inventory         []string       `json:"inventory"`
	GasMaskDurability map[int]int    `json:"gas_mask_durability"`
	Day               int            `json:"day"`
	BunkerSupplies    map[string]int `json:"bunker_supplies"`
	CurrentMission    *Mission       `json:"current_mission"`
	MissionProgress   int            `json:"mission_progress"`
	PremiumPurchases  []string       `json:"premium_purchases"`
	PlayerUID         string         `json:"player_uid"`

	GameMode           string           `json:"game_mode,omitempty"`
	Disease            *Disease         `json:"disease,omitempty"`
	Weather            string           `json:"weather,omitempty"`
	WeatherDuration    int              `json:"weather_duration,omitempty"`
	Achievements       []string         `json:"achievements,omitempty"`
	Statistics         *Statistics      `json:"statistics,omitempty"`
	Companion          *CompanionRecord `json:"companion,omitempty"`
	CompanionHealth    *int             `json:"companion_health,omitempty"`
	BaseUpgrades       *BaseUpgrades    `json:"base_upgrades,omitempty"`
	GiftCodesRedeemed  []string         `json:"gift_codes_redeemed,omitempty"`
	StarterPackClaimed bool             `json:"starter_pack_claimed,omitempty"`
	SavedAt            time.Time        `json:"saved_at"`
}

// Snapshot captures the full engine state.
func (e *Engine) Snapshot() *Snapshot {
	s := &Snapshot{
		PlayerName:         e.playerName,
		Health:             e.vitals.Health,
		Food:               e.vitals.Food,
		Water:              e.vitals.Water,
		Radiation:          e.vitals.Radiation,
		Inventory:          e.inv.Items(),
		GasMaskDurability:  e.inv.Durability(),
		Day:                e.day,
		BunkerSupplies:     e.Bunker(),
		MissionProgress:    e.missionProgress,
		PremiumPurchases:   slices.Clone(e.entitlements),
		PlayerUID:          e.playerID.String(),
		GameMode:           string(e.mode),
		Weather:            string(e.weather),
		WeatherDuration:    e.weatherDuration,
		Achievements:       slices.Clone(e.achievements),
		GiftCodesRedeemed:  slices.Clone(e.giftCodes),
		StarterPackClaimed: e.starterClaimed,
		SavedAt:            time.Now().UTC(),
	}
	if e.mission != nil {
		m := *e.mission
		m.Reward = slices.Clone(m.Reward)
		s.CurrentMission = &m
	}
	if e.disease != nil {
		d := *e.disease
		s.Disease = &d
	}
	stats := e.stats
	s.Statistics = &stats
	upgrades := e.upgrades
	s.BaseUpgrades = &upgrades
	if c := e.companion; c != nil {
		s.Companion = &CompanionRecord{Name: c.Name, Species: c.Species}
		h := c.Health()
		s.CompanionHealth = &h
	}
	return s
}

// Restore replaces the engine state with a snapshot. Values are clamped,
// unknown enums fall back to defaults, and durability entries that do not
// point at a gas mask are dropped.
func (e *Engine) Restore(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	if s.PlayerUID != "" {
		id, err := uuid.Parse(s.PlayerUID)
		if err != nil {
			return fmt.Errorf("invalid player uid: %w", err)
		}
		e.playerID = id
	}
	e.resetState()
	e.lastDeath = nil
	e.playerName = s.PlayerName
	e.mode = ParseGameMode(s.GameMode)

	e.vitals = Vitals{Health: s.Health, Food: s.Food, Water: s.Water, Radiation: s.Radiation}
	e.vitals.Normalize()
	e.inv = RestoreInventory(s.Inventory, s.GasMaskDurability)
	e.day = max(s.Day, 1)

	if s.BunkerSupplies != nil {
		for _, item := range []string{ItemCannedFood, ItemWaterBottles, ItemMedKit} {
			e.bunker[item] = max(s.BunkerSupplies[item], 0)
		}
	}
	if m := s.CurrentMission; m != nil && archetypeFor(m.Kind) != nil {
		restored := *m
		restored.Difficulty = clamp(restored.Difficulty, 1, 3)
		restored.Reward = slices.Clone(m.Reward)
		e.mission = &restored
		e.missionProgress = clamp(s.MissionProgress, 0, restored.Required()-1)
	}
	e.entitlements = nil
	for _, item := range s.PremiumPurchases {
		e.GrantEntitlement(item)
	}

	if d := s.Disease; d != nil && d.Remaining > 0 {
		if base, ok := findDisease(d.ID); ok {
			base.Remaining = d.Remaining
			e.disease = &base
		}
	}
	e.weather = ParseWeather(s.Weather)
	e.weatherDuration = max(s.WeatherDuration, 0)
	if e.weather == WeatherClear {
		e.weatherDuration = 0
	} else if e.weatherDuration == 0 {
		e.weather = WeatherClear
	}
	for _, id := range s.Achievements {
		if knownAchievement(id) && !slices.Contains(e.achievements, id) {
			e.achievements = append(e.achievements, id)
		}
	}
	if st := s.Statistics; st != nil {
		e.stats = *st
	}
	e.stats.DaysAlive = max(e.stats.DaysAlive, e.day)
	if u := s.BaseUpgrades; u != nil {
		e.upgrades = BaseUpgrades{
			Reinforcement: clamp(u.Reinforcement, 0, maxUpgradeLevel),
			Workshop:      clamp(u.Workshop, 0, maxUpgradeLevel),
			MedicalBay:    clamp(u.MedicalBay, 0, maxUpgradeLevel),
			SolarPanels:   clamp(u.SolarPanels, 0, maxUpgradeLevel),
		}
	}
	if rec := s.Companion; rec != nil {
		if t, ok := templateFor(rec.Species); ok {
			c, err := newCompanion(t)
			if err != nil {
				return err
			}
			if s.CompanionHealth != nil {
				if err := c.restoreHealth(*s.CompanionHealth); err != nil {
					return err
				}
			}
			e.companion = c
		}
	}
	for _, code := range s.GiftCodesRedeemed {
		if _, ok := giftCodes[code]; ok && !slices.Contains(e.giftCodes, code) {
			e.giftCodes = append(e.giftCodes, code)
		}
	}
	e.starterClaimed = s.StarterPackClaimed
	return nil
}

// Validate lists problems a snapshot would have corrected on restore.
func Validate(s *Snapshot) []string {
	var problems []string
	for name, v := range map[string]int{"health": s.Health, "food": s.Food, "water": s.Water, "radiation": s.Radiation} {
		if v < vitalMin || v > vitalMax {
			problems = append(problems, fmt.Sprintf("%s %d outside [0, 100]", name, v))
		}
	}
	for idx, d := range s.GasMaskDurability {
		switch {
		case idx < 0 || idx >= len(s.Inventory):
			problems = append(problems, fmt.Sprintf("durability key %d outside inventory", idx))
		case !isProtective(s.Inventory[idx]):
			problems = append(problems, fmt.Sprintf("durability key %d points at %q", idx, s.Inventory[idx]))
		case d < 0 || d > 100:
			problems = append(problems, fmt.Sprintf("durability %d at slot %d outside [0, 100]", d, idx))
		}
	}
	if s.Day < 1 {
		problems = append(problems, fmt.Sprintf("day %d is before day 1", s.Day))
	}
	if m := s.CurrentMission; m != nil {
		if archetypeFor(m.Kind) == nil {
			problems = append(problems, fmt.Sprintf("unknown mission type %q", m.Kind))
		} else if s.MissionProgress >= m.Difficulty*2 {
			problems = append(problems, "mission progress already meets the requirement")
		}
	}
	if s.PlayerUID != "" {
		if _, err := uuid.Parse(s.PlayerUID); err != nil {
			problems = append(problems, fmt.Sprintf("invalid player uid %q", s.PlayerUID))
		}
	}
	slices.Sort(problems)
	return problems
}
