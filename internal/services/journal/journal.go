// Package journal keeps each player's narrative log in Redis lists so API
// clients can poll it.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/wasteland/pkg/survival"
)

const (
	// MaxEntries caps a player's undrained journal.
	MaxEntries = 200

	appendTimeout = 2 * time.Second
)

// Journal manages the per-player log lists.
type Journal struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewJournal(rdb *redis.Client, logger *slog.Logger) *Journal {
	return &Journal{rdb: rdb, logger: logger}
}

func journalKey(playerID string) string {
	return fmt.Sprintf("wasteland:log:%s", playerID)
}

// Append adds entries to the end of the player's journal, trimming the
// oldest beyond MaxEntries.
func (j *Journal) Append(ctx context.Context, playerID string, entries ...survival.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	values := make([]any, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal journal entry: %w", err)
		}
		values = append(values, data)
	}
	key := journalKey(playerID)
	_, err := j.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, -MaxEntries, -1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append journal: %w", err)
	}
	return nil
}

// Drain removes and returns all journal entries for a player.
func (j *Journal) Drain(ctx context.Context, playerID string) ([]survival.Entry, error) {
	key := journalKey(playerID)
	var lrange *redis.StringSliceCmd
	_, err := j.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to drain journal: %w", err)
	}
	return decodeEntries(j.logger, lrange.Val()), nil
}

// Peek returns up to limit entries without removing them. A limit of zero
// or less returns everything.
func (j *Journal) Peek(ctx context.Context, playerID string, limit int) ([]survival.Entry, error) {
	end := int64(limit - 1)
	if limit <= 0 {
		end = -1
	}
	raw, err := j.rdb.LRange(ctx, journalKey(playerID), 0, end).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to peek journal: %w", err)
	}
	return decodeEntries(j.logger, raw), nil
}

// Depth returns the number of undrained entries.
func (j *Journal) Depth(ctx context.Context, playerID string) (int, error) {
	n, err := j.rdb.LLen(ctx, journalKey(playerID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get journal depth: %w", err)
	}
	return int(n), nil
}

// Clear removes a player's journal.
func (j *Journal) Clear(ctx context.Context, playerID string) error {
	if err := j.rdb.Del(ctx, journalKey(playerID)).Err(); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	return nil
}

// Sink returns a survival.Sink that appends to the player's journal.
func (j *Journal) Sink(playerID string) survival.Sink {
	return &sink{journal: j, playerID: playerID}
}

type sink struct {
	journal  *Journal
	playerID string
}

func (s *sink) Emit(message string, severity survival.Severity) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	entry := survival.Entry{Message: message, Severity: severity}
	if err := s.journal.Append(ctx, s.playerID, entry); err != nil {
		s.journal.logger.Warn("Failed to append journal entry", "player_uid", s.playerID, "error", err)
	}
}

func decodeEntries(logger *slog.Logger, raw []string) []survival.Entry {
	entries := make([]survival.Entry, 0, len(raw))
	for _, r := range raw {
		var e survival.Entry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			logger.Warn("Skipping malformed journal entry", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries
}
