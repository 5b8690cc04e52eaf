package survival

import "fmt"

// MissionKind is the mission archetype.
type MissionKind string

const (
	MissionRescue   MissionKind = "rescue"
	MissionRetrieve MissionKind = "retrieve"
)

// Mission is an active objective. Required progress is Difficulty * 2.
type Mission struct {
	Kind       MissionKind `json:"type"`
	Target     string      `json:"target"`
	Location   string      `json:"location"`
	Reward     []string    `json:"reward"`
	Difficulty int         `json:"difficulty"`
}

// Required returns the progress needed to complete the mission.
func (m *Mission) Required() int {
	return m.Difficulty * 2
}

// DifficultyLabel returns Easy, Medium or Hard.
func (m *Mission) DifficultyLabel() string {
	switch m.Difficulty {
	case 1:
		return "Easy"
	case 2:
		return "Medium"
	default:
		return "Hard"
	}
}

// Describe returns a one-line summary.
func (m *Mission) Describe() string {
	if m.Kind == MissionRescue {
		return fmt.Sprintf("Rescue %s from the %s", m.Target, m.Location)
	}
	return fmt.Sprintf("Retrieve %s from the %s", m.Target, m.Location)
}

type missionArchetype struct {
	kind      MissionKind
	targets   []string
	locations []string
	rewards   [][]string
	progress  []string
}

var missionArchetypes = []missionArchetype{
	{
		kind:      MissionRescue,
		targets:   []string{"Dr. Sarah Chen", "Engineer Marcus", "Child Amy", "Soldier Jake", "Scientist Elena", "Medic Rodriguez"},
		locations: []string{"collapsed hospital", "abandoned school", "crashed helicopter", "underground tunnel", "research facility", "military outpost"},
		rewards: [][]string{
			{ItemMedKit, ItemRadPills, ItemCannedFood},
			{ItemAssaultRifle, ItemMedKit, ItemWaterBottles},
			{ItemSniperRifle, ItemRadPills},
			{ItemRPG, ItemCannedFood, ItemWaterBottles},
			{ItemSMG, ItemUSP, ItemMedKit},
			{ItemRadPills, ItemMedKit, ItemCannedFood, ItemWaterBottles},
		},
		progress: []string{
			"You found fresh footprints leading deeper into the ruins.",
			"A torn piece of clothing is snagged on rebar. You're close.",
			"You hear faint tapping through the rubble.",
			"Scratched into the wall: a message and an arrow.",
			"A survivor's camp, recently abandoned. The fire is still warm.",
			"You clear a blocked corridor. Someone is calling for help.",
		},
	},
	{
		kind:      MissionRetrieve,
		targets:   []string{"medical supplies", "weapon cache", "research data", "radio equipment", "fuel cells", "water purifier"},
		locations: []string{"military base", "pharmacy", "university lab", "radio tower", "power plant", "water treatment facility"},
		rewards: [][]string{
			{ItemWaterBottles, ItemWaterBottles, ItemRadPills},
			{ItemCannedFood, ItemCannedFood, ItemMedKit},
			{ItemUSP, ItemSMG, ItemMedKit},
			{ItemAssaultRifle, ItemRadPills},
			{ItemRadPills, ItemRadPills, ItemWaterBottles},
			{ItemMedKit, ItemMedKit, ItemCannedFood},
		},
		progress: []string{
			"You recover a map marking the storage room.",
			"A keycard on a skeleton opens the next door.",
			"You find an inventory manifest. The goods are still here.",
			"Crates stamped with the right serial numbers. Getting warmer.",
			"You bypass a collapsed stairwell to reach the lower level.",
			"A dead guard's logbook points to the vault.",
		},
	},
}

func archetypeFor(kind MissionKind) *missionArchetype {
	for i := range missionArchetypes {
		if missionArchetypes[i].kind == kind {
			return &missionArchetypes[i]
		}
	}
	return nil
}

// StartNewMission generates a mission if none is active.
func (e *Engine) StartNewMission() bool {
	if e.mission != nil {
		return false
	}
	a := &missionArchetypes[e.rng.Pick(len(missionArchetypes))]
	reward := a.rewards[e.rng.Pick(len(a.rewards))]
	m := &Mission{
		Kind:       a.kind,
		Target:     a.targets[e.rng.Pick(len(a.targets))],
		Location:   a.locations[e.rng.Pick(len(a.locations))],
		Reward:     append([]string(nil), reward...),
		Difficulty: e.rng.Int(1, 3),
	}
	e.mission = m
	e.missionProgress = 0
	e.logf(SeverityWarning, "📻 New mission: %s. Difficulty: %s.", m.Describe(), m.DifficultyLabel())
	return true
}

// ProgressMission advances the active mission by one step and reports
// whether it completed.
func (e *Engine) ProgressMission() bool {
	m := e.mission
	if m == nil {
		return false
	}
	e.missionProgress++
	if e.missionProgress >= m.Required() {
		e.completeMission()
		return true
	}
	if a := archetypeFor(m.Kind); a != nil {
		e.log(a.progress[e.rng.Pick(len(a.progress))], SeverityNormal)
	}
	e.logf(SeverityNormal, "Mission progress: %d/%d", e.missionProgress, m.Required())
	return false
}

func (e *Engine) completeMission() {
	m := e.mission
	e.logf(SeveritySuccess, "🎯 Mission complete! %s.", m.Describe())
	for _, item := range m.Reward {
		e.inv.Add(item)
		e.logf(SeveritySuccess, "Reward: %s", DisplayName(item))
	}
	e.stats.MissionsCompleted++
	e.mission = nil
	e.missionProgress = 0
}
