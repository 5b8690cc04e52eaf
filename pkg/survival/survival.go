// Package survival implements the wasteland survival engine: vitals,
// inventory with degrading gas masks, weather, disease, missions,
// companions, random encounters and the day cycle that ties them together.
//
// An Engine is single-threaded. Drivers must serialise calls to one Engine.
package survival

import (
	"context"
	"errors"
	"log/slog"
)

var (
	// ErrInvalidSlot is returned for inventory indexes outside the current inventory.
	ErrInvalidSlot = errors.New("invalid inventory slot")
	// ErrEncounterPending is returned when an action is attempted before the
	// current expedition encounter has been resolved.
	ErrEncounterPending = errors.New("an encounter is waiting to be resolved")
	// ErrNoEncounter is returned when resolving without a pending encounter.
	ErrNoEncounter = errors.New("no encounter to resolve")
	// ErrUnknownCode is returned for gift codes that are not in the catalog.
	ErrUnknownCode = errors.New("unknown gift code")
	// ErrCodeRedeemed is returned when a gift code was already used this session.
	ErrCodeRedeemed = errors.New("gift code already redeemed")
)

// Severity classifies a narrative log line for display.
type Severity string

const (
	SeverityNormal  Severity = "normal"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// SoundTag names a sound cue. Playback is up to the notifier.
type SoundTag string

const (
	SoundCough         SoundTag = "cough"
	SoundAchievement   SoundTag = "achievement"
	SoundWeatherClear  SoundTag = "weather_clear"
	SoundAcidRain      SoundTag = "acid_rain"
	SoundRadStorm      SoundTag = "rad_storm"
	SoundColdWind      SoundTag = "cold_wind"
	SoundCompanionBark SoundTag = "companion_bark"
	SoundCraftSuccess  SoundTag = "craft_success"
)

// Sink receives narrative lines in the order they happen.
type Sink interface {
	Emit(message string, severity Severity)
}

// Notifier receives sound cues.
type Notifier interface {
	Notify(tag SoundTag)
}

// Metrics records gameplay counters.
type Metrics interface {
	DayCompleted(mode GameMode)
	EncounterResolved(kind EncounterKind, result string)
	PlayerDied(cause DeathCause)
}

// Persister stores and clears progress snapshots.
type Persister interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	ClearSnapshot(ctx context.Context, playerID string) error
}

// Entry is one emitted log line.
type Entry struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Log is a Sink that keeps every entry in memory.
type Log struct {
	Entries []Entry
}

var _ Sink = (*Log)(nil)

func (l *Log) Emit(message string, severity Severity) {
	l.Entries = append(l.Entries, Entry{Message: message, Severity: severity})
}

// Drain returns all entries and empties the log.
func (l *Log) Drain() []Entry {
	out := l.Entries
	l.Entries = nil
	return out
}

// Contains reports whether any entry contains substr.
func (l *Log) Contains(substr string) bool {
	for _, e := range l.Entries {
		if containsFold(e.Message, substr) {
			return true
		}
	}
	return false
}

// MultiSink fans one line out to several sinks.
type MultiSink []Sink

func (m MultiSink) Emit(message string, severity Severity) {
	for _, s := range m {
		if s != nil {
			s.Emit(message, severity)
		}
	}
}

// SlogSink writes narrative lines to a structured logger at debug level.
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) Emit(message string, severity Severity) {
	s.Logger.Debug("game log", "severity", severity, "message", message)
}

type nopNotifier struct{}

func (nopNotifier) Notify(SoundTag) {}

type nopMetrics struct{}

func (nopMetrics) DayCompleted(GameMode)                  {}
func (nopMetrics) EncounterResolved(EncounterKind, string) {}
func (nopMetrics) PlayerDied(DeathCause)                  {}

type nopPersister struct{}

func (nopPersister) SaveSnapshot(context.Context, *Snapshot) error { return nil }
func (nopPersister) ClearSnapshot(context.Context, string) error   { return nil }
