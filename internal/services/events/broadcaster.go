package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/wasteland/pkg/survival"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeSound              EventType = "game.sound"
	EventTypeDayCompleted       EventType = "game.day_completed"
	EventTypePlayerDied         EventType = "game.player_died"
	EventTypeEntitlementGranted EventType = "game.entitlement_granted"
	EventTypeEncounterResolved  EventType = "game.encounter_resolved"
)

const notifyTimeout = 2 * time.Second

// Event represents a generic event structure
type Event struct {
	Type   EventType      `json:"type"`
	GameID string         `json:"game_id,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// Channel returns the pub/sub channel for a game.
func Channel(gameID string) string {
	return fmt.Sprintf("wasteland-events:%s", gameID)
}

// Broadcaster publishes game events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Notifier returns a survival.Notifier that publishes sound cues for a game.
func (b *Broadcaster) Notifier(gameID string) survival.Notifier {
	return &notifier{b: b, gameID: gameID}
}

type notifier struct {
	b      *Broadcaster
	gameID string
}

func (n *notifier) Notify(tag survival.SoundTag) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	_ = n.b.PublishSound(ctx, n.gameID, tag)
}

// PublishSound publishes a game.sound event
func (b *Broadcaster) PublishSound(ctx context.Context, gameID string, tag survival.SoundTag) error {
	return b.publish(ctx, Event{
		Type:   EventTypeSound,
		GameID: gameID,
		Data:   map[string]any{"tag": string(tag)},
	})
}

// PublishDayCompleted publishes a game.day_completed event
func (b *Broadcaster) PublishDayCompleted(ctx context.Context, gameID string, day int, vitals survival.Vitals) error {
	return b.publish(ctx, Event{
		Type:   EventTypeDayCompleted,
		GameID: gameID,
		Data: map[string]any{
			"day":       day,
			"health":    vitals.Health,
			"food":      vitals.Food,
			"water":     vitals.Water,
			"radiation": vitals.Radiation,
		},
	})
}

// PublishEncounterResolved publishes a game.encounter_resolved event
func (b *Broadcaster) PublishEncounterResolved(ctx context.Context, gameID string, outcome survival.Outcome) error {
	return b.publish(ctx, Event{
		Type:   EventTypeEncounterResolved,
		GameID: gameID,
		Data: map[string]any{
			"kind":   string(outcome.Kind),
			"result": outcome.Result,
		},
	})
}

// PublishPlayerDied publishes a game.player_died event
func (b *Broadcaster) PublishPlayerDied(ctx context.Context, gameID string, death survival.Death) error {
	return b.publish(ctx, Event{
		Type:   EventTypePlayerDied,
		GameID: gameID,
		Data: map[string]any{
			"cause":   string(death.Cause),
			"message": death.Message,
			"day":     death.Day,
		},
	})
}

// PublishEntitlementGranted publishes a game.entitlement_granted event
func (b *Broadcaster) PublishEntitlementGranted(ctx context.Context, gameID, product string) error {
	return b.publish(ctx, Event{
		Type:   EventTypeEntitlementGranted,
		GameID: gameID,
		Data:   map[string]any{"product": product},
	})
}

func (b *Broadcaster) publish(ctx context.Context, event Event) error {
	channel := Channel(event.GameID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)
	return nil
}
