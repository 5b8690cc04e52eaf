package survival

// ItemView is one inventory slot as shown to players.
type ItemView struct {
	Index      int    `json:"index"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Durability *int   `json:"durability,omitempty"`
}

// MissionView describes the active mission.
type MissionView struct {
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Progress    int      `json:"progress"`
	Required    int      `json:"required"`
	Reward      []string `json:"reward"`
}

// CompanionView describes the companion.
type CompanionView struct {
	Name      string    `json:"name"`
	Species   Species   `json:"species"`
	Health    int       `json:"health"`
	MaxHealth int       `json:"max_health"`
	Abilities []Ability `json:"abilities"`
}

// View is a read-only picture of the game for displays.
type View struct {
	PlayerUID        string         `json:"player_uid"`
	PlayerName       string         `json:"player_name"`
	Mode             GameMode       `json:"game_mode"`
	Day              int            `json:"day"`
	Vitals           Vitals         `json:"vitals"`
	RadiationLevel   string         `json:"radiation_level"`
	Inventory        []ItemView     `json:"inventory"`
	Bunker           map[string]int `json:"bunker_supplies"`
	Weather          Weather        `json:"weather"`
	WeatherDuration  int            `json:"weather_duration"`
	Disease          *Disease       `json:"disease,omitempty"`
	Mission          *MissionView   `json:"mission,omitempty"`
	Companion        *CompanionView `json:"companion,omitempty"`
	Upgrades         BaseUpgrades   `json:"base_upgrades"`
	Statistics       Statistics     `json:"statistics"`
	Achievements     []string       `json:"achievements"`
	Entitlements     []string       `json:"entitlements"`
	PendingEncounter EncounterKind  `json:"pending_encounter,omitempty"`
	LastDeath        *Death         `json:"last_death,omitempty"`
}

// View builds a display snapshot of the engine.
func (e *Engine) View() View {
	v := View{
		PlayerUID:        e.playerID.String(),
		PlayerName:       e.playerName,
		Mode:             e.mode,
		Day:              e.day,
		Vitals:           e.vitals,
		RadiationLevel:   RadiationLevel(e.vitals.Radiation),
		Bunker:           e.Bunker(),
		Weather:          e.weather,
		WeatherDuration:  e.weatherDuration,
		Upgrades:         e.upgrades,
		Statistics:       e.stats,
		Achievements:     e.Achievements(),
		Entitlements:     e.Entitlements(),
		PendingEncounter: e.pending,
		LastDeath:        e.lastDeath,
	}
	for i, item := range e.inv.Items() {
		iv := ItemView{Index: i, ID: item, Name: DisplayName(item)}
		if d, ok := e.inv.DurabilityAt(i); ok {
			iv.Durability = &d
		}
		v.Inventory = append(v.Inventory, iv)
	}
	if e.disease != nil {
		d := *e.disease
		v.Disease = &d
	}
	if m := e.mission; m != nil {
		v.Mission = &MissionView{
			Description: m.Describe(),
			Difficulty:  m.DifficultyLabel(),
			Progress:    e.missionProgress,
			Required:    m.Required(),
			Reward:      append([]string(nil), m.Reward...),
		}
	}
	if c := e.companion; c != nil {
		v.Companion = &CompanionView{
			Name:      c.Name,
			Species:   c.Species,
			Health:    c.Health(),
			MaxHealth: c.MaxHealth(),
			Abilities: append([]Ability(nil), c.Abilities...),
		}
	}
	return v
}
