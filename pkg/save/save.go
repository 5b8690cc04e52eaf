// Package save persists survival snapshots as JSON blobs in a local store
// with an optional remote mirror.
package save

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/wasteland/pkg/survival"
)

// Store is a key-value blob store. Load returns nil, nil when the key is
// absent.
type Store interface {
	Save(ctx context.Context, key string, blob []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Clear(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Encode serialises a snapshot.
func Encode(s *survival.Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// legacyRecord is the camelCase layout written by the first web client.
type legacyRecord struct {
	PlayerName         string                    `json:"playerName"`
	Health             int                       `json:"health"`
	Food               int                       `json:"food"`
	Water              int                       `json:"water"`
	Radiation          int                       `json:"radiation"`
	Supplies           []string                  `json:"supplies"`
	GasMaskDurability  map[int]int               `json:"gasMaskDurability"`
	Day                int                       `json:"day"`
	BunkerSupplies     map[string]int            `json:"bunkerSupplies"`
	CurrentMission     *survival.Mission         `json:"currentMission"`
	MissionProgress    int                       `json:"missionProgress"`
	PremiumPurchases   []string                  `json:"premiumPurchases"`
	PlayerUID          string                    `json:"playerUID"`
	GameMode           string                    `json:"gameMode"`
	Weather            string                    `json:"weather"`
	WeatherDuration    int                       `json:"weatherDuration"`
	Achievements       []string                  `json:"achievements"`
	Statistics         *survival.Statistics      `json:"statistics"`
	Companion          *survival.CompanionRecord `json:"companion"`
	CompanionHealth    *int                      `json:"companionHealth"`
	BaseUpgrades       *survival.BaseUpgrades    `json:"baseUpgrades"`
	DiseaseProgression int                       `json:"diseaseProgression"`
	Disease            *struct {
		ID string `json:"id"`
	} `json:"disease"`
}

func (l *legacyRecord) snapshot() *survival.Snapshot {
	s := &survival.Snapshot{
		PlayerName:        l.PlayerName,
		Health:            l.Health,
		Food:              l.Food,
		Water:             l.Water,
		Radiation:         l.Radiation,
		Inventory:         l.Supplies,
		GasMaskDurability: l.GasMaskDurability,
		Day:               l.Day,
		BunkerSupplies:    l.BunkerSupplies,
		CurrentMission:    l.CurrentMission,
		MissionProgress:   l.MissionProgress,
		PremiumPurchases:  l.PremiumPurchases,
		PlayerUID:         l.PlayerUID,
		GameMode:          l.GameMode,
		Weather:           l.Weather,
		WeatherDuration:   l.WeatherDuration,
		Achievements:      l.Achievements,
		Statistics:        l.Statistics,
		Companion:         l.Companion,
		CompanionHealth:   l.CompanionHealth,
		BaseUpgrades:      l.BaseUpgrades,
	}
	if l.Disease != nil && l.Disease.ID != "" {
		s.Disease = &survival.Disease{ID: l.Disease.ID, Remaining: l.DiseaseProgression}
	}
	return s
}

// Decode parses a snapshot blob. Blobs in the legacy camelCase layout are
// converted. Missing extended fields are left for Engine.Restore to default.
func Decode(data []byte) (*survival.Snapshot, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if _, legacy := keys[legacyMarker]; legacy {
		var l legacyRecord
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("failed to unmarshal legacy snapshot: %w", err)
		}
		return l.snapshot(), nil
	}
	var s survival.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &s, nil
}

const legacyMarker = "playerName"

// IsLegacy reports whether data is a save in the legacy camelCase layout.
func IsLegacy(data []byte) bool {
	var keys map[string]json.RawMessage
	if json.Unmarshal(data, &keys) != nil {
		return false
	}
	_, ok := keys[legacyMarker]
	return ok
}
