package survival

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/jwebster45206/wasteland/pkg/rng"
)

// GameMode is a persisted difficulty label.
type GameMode string

const (
	ModeNormal   GameMode = "normal"
	ModeHardcore GameMode = "hardcore"
	ModeCreative GameMode = "creative"
)

// ParseGameMode maps a stored value to a mode, defaulting to normal.
func ParseGameMode(s string) GameMode {
	switch GameMode(s) {
	case ModeHardcore, ModeCreative:
		return GameMode(s)
	default:
		return ModeNormal
	}
}

// Death describes the end of a run.
type Death struct {
	Cause   DeathCause `json:"cause"`
	Message string     `json:"message"`
	Day     int        `json:"day"`
}

// BaseUpgrades are bunker improvements, each capped at maxUpgradeLevel.
type BaseUpgrades struct {
	Reinforcement int `json:"reinforcement"`
	Workshop      int `json:"workshop"`
	MedicalBay    int `json:"medical_bay"`
	SolarPanels   int `json:"solar_panels"`
}

// Statistics are lifetime counters for the current run.
type Statistics struct {
	DaysAlive         int `json:"days_alive"`
	CreaturesKilled   int `json:"creatures_killed"`
	ItemsCrafted      int `json:"items_crafted"`
	MissionsCompleted int `json:"missions_completed"`
	RaidersDefeated   int `json:"raiders_defeated"`
}

// Deps are the engine's collaborators. Nil fields get no-op defaults.
type Deps struct {
	Rand      *rng.Rand
	Sink      Sink
	Notifier  Notifier
	Metrics   Metrics
	Persister Persister
	Logger    *slog.Logger
}

// Engine owns one player's game.
type Engine struct {
	playerID   uuid.UUID
	playerName string
	mode       GameMode

	vitals          Vitals
	inv             *Inventory
	day             int
	bunker          map[string]int
	mission         *Mission
	missionProgress int
	disease         *Disease
	weather         Weather
	weatherDuration int
	companion       *Companion
	upgrades        BaseUpgrades
	stats           Statistics
	achievements    []string
	entitlements    []string
	starterClaimed  bool
	giftCodes       []string
	pending         EncounterKind
	lastDeath       *Death

	rng       *rng.Rand
	sink      Sink
	notifier  Notifier
	metrics   Metrics
	persister Persister
	logger    *slog.Logger
}

// New creates an engine holding a fresh game for the player.
func New(playerID uuid.UUID, playerName string, deps Deps) *Engine {
	if playerID == uuid.Nil {
		playerID = uuid.New()
	}
	e := &Engine{
		playerID:   playerID,
		playerName: playerName,
		mode:       ModeNormal,
		rng:        deps.Rand,
		sink:       deps.Sink,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
		persister:  deps.Persister,
		logger:     deps.Logger,
	}
	if e.rng == nil {
		e.rng = rng.New(nil)
	}
	if e.sink == nil {
		e.sink = &Log{}
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.metrics == nil {
		e.metrics = nopMetrics{}
	}
	if e.persister == nil {
		e.persister = nopPersister{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.resetState()
	return e
}

func newBunker() map[string]int {
	return map[string]int{ItemCannedFood: 5, ItemWaterBottles: 3, ItemMedKit: 2}
}

// resetState restores new-game values. Identity, mode and entitlements survive.
func (e *Engine) resetState() {
	e.vitals = NewVitals()
	e.inv = NewInventory()
	e.day = 1
	e.bunker = newBunker()
	e.mission = nil
	e.missionProgress = 0
	e.disease = nil
	e.weather = WeatherClear
	e.weatherDuration = 0
	e.companion = nil
	e.upgrades = BaseUpgrades{}
	e.stats = Statistics{DaysAlive: 1}
	e.achievements = nil
	e.starterClaimed = false
	e.giftCodes = nil
	e.pending = EncounterNone
}

// NewGame starts over in the given mode and hands out owned starter packs.
func (e *Engine) NewGame(mode GameMode) {
	e.mode = ParseGameMode(string(mode))
	e.resetState()
	e.lastDeath = nil
	e.logf(SeverityNormal, "☢️ Day 1. %s wakes in the bunker. The wasteland waits outside.", e.displayPlayer())
	e.ClaimStarterPack()
}

func (e *Engine) displayPlayer() string {
	if e.playerName == "" {
		return "Survivor"
	}
	return e.playerName
}

func (e *Engine) log(message string, severity Severity) {
	e.sink.Emit(message, severity)
}

func (e *Engine) logf(severity Severity, format string, args ...any) {
	e.sink.Emit(fmt.Sprintf(format, args...), severity)
}

// PlayerID returns the stable player id.
func (e *Engine) PlayerID() uuid.UUID { return e.playerID }

// PlayerName returns the player's display name.
func (e *Engine) PlayerName() string { return e.playerName }

// SetPlayerName renames the player.
func (e *Engine) SetPlayerName(name string) { e.playerName = name }

// Mode returns the game mode.
func (e *Engine) Mode() GameMode { return e.mode }

// Vitals returns a copy of the current vitals.
func (e *Engine) Vitals() Vitals { return e.vitals }

// Day returns the current day.
func (e *Engine) Day() int { return e.day }

// Items returns the inventory in slot order.
func (e *Engine) Items() []string { return e.inv.Items() }

// Durability returns the index-keyed durability view.
func (e *Engine) Durability() map[int]int { return e.inv.Durability() }

// Mission returns the active mission and its progress.
func (e *Engine) Mission() (*Mission, int) { return e.mission, e.missionProgress }

// Disease returns the active disease, if any.
func (e *Engine) Disease() *Disease { return e.disease }

// Weather returns the weather and its remaining duration.
func (e *Engine) Weather() (Weather, int) { return e.weather, e.weatherDuration }

// Companion returns the current companion, if any.
func (e *Engine) Companion() *Companion { return e.companion }

// Upgrades returns the bunker upgrade levels.
func (e *Engine) Upgrades() BaseUpgrades { return e.upgrades }

// Statistics returns the run counters.
func (e *Engine) Statistics() Statistics { return e.stats }

// Achievements returns unlocked achievement ids in unlock order.
func (e *Engine) Achievements() []string { return slices.Clone(e.achievements) }

// LastDeath returns how the previous run ended, if it did.
func (e *Engine) LastDeath() *Death { return e.lastDeath }

// Entitlements returns purchased item ids known to this session.
func (e *Engine) Entitlements() []string { return slices.Clone(e.entitlements) }

// SetEntitlements replaces the known entitlements, usually from the
// entitlement service.
func (e *Engine) SetEntitlements(items []string) {
	e.entitlements = nil
	for _, item := range items {
		e.GrantEntitlement(item)
	}
}

// GrantEntitlement records a purchased item. It is idempotent.
func (e *Engine) GrantEntitlement(item string) bool {
	if item == "" || slices.Contains(e.entitlements, item) {
		return false
	}
	e.entitlements = append(e.entitlements, item)
	return true
}

// checkGameOver ends the run if a terminal condition holds. Progress is
// wiped and saved snapshots are cleared; entitlements are kept.
func (e *Engine) checkGameOver(ctx context.Context) bool {
	cause, dead := e.vitals.Terminal()
	if !dead {
		return false
	}
	death := &Death{Cause: cause, Message: deathMessages[cause], Day: e.day}
	e.log(death.Message, SeverityDanger)
	e.logf(SeverityNormal, "You survived %d days.", e.day)
	e.metrics.PlayerDied(cause)
	e.logger.Info("Player died", "player_id", e.playerID, "cause", cause, "day", e.day)

	e.resetProgress(ctx)
	e.lastDeath = death
	return true
}

// ResetProgress wipes the run and the saved snapshot.
func (e *Engine) ResetProgress(ctx context.Context) {
	e.resetProgress(ctx)
	e.lastDeath = nil
}

func (e *Engine) resetProgress(ctx context.Context) {
	if err := e.persister.ClearSnapshot(ctx, e.playerID.String()); err != nil {
		e.logger.Error("Failed to clear saved progress", "player_id", e.playerID, "error", err)
	}
	e.NewGame(e.mode)
}
