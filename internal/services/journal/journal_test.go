package journal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/wasteland/pkg/survival"
)

func setupTestRedis(t *testing.T) (*Journal, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	opt, err := redis.ParseURL("redis://" + mr.Addr())
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to parse redis URL: %v", err)
	}
	rdb := redis.NewClient(opt)
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewJournal(rdb, logger), mr
}

func TestJournal_SinkAndDrain(t *testing.T) {
	j, mr := setupTestRedis(t)
	ctx := context.Background()

	sink := j.Sink("p1")
	sink.Emit("☀️ Day 2 begins.", survival.SeverityNormal)
	sink.Emit("💀 You were attacked!", survival.SeverityDanger)

	depth, err := j.Depth(ctx, "p1")
	if err != nil {
		t.Fatalf("Depth() error = %v", err)
	}
	if depth != 2 {
		t.Errorf("Depth() = %d, want 2", depth)
	}
	if !mr.Exists("wasteland:log:p1") {
		t.Error("expected journal key wasteland:log:p1")
	}

	peeked, err := j.Peek(ctx, "p1", 1)
	if err != nil {
		t.Fatalf("Peek() error = %v", err)
	}
	if len(peeked) != 1 || peeked[0].Message != "☀️ Day 2 begins." {
		t.Errorf("Peek() = %+v", peeked)
	}

	entries, err := j.Drain(ctx, "p1")
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Drain() returned %d entries, want 2", len(entries))
	}
	if entries[1].Severity != survival.SeverityDanger {
		t.Errorf("entries[1].Severity = %s, want danger", entries[1].Severity)
	}

	entries, err = j.Drain(ctx, "p1")
	if err != nil {
		t.Fatalf("second Drain() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("second Drain() returned %d entries, want 0", len(entries))
	}
}

func TestJournal_TrimsOldEntries(t *testing.T) {
	j, _ := setupTestRedis(t)
	ctx := context.Background()

	batch := make([]survival.Entry, 0, MaxEntries+10)
	for i := 0; i < MaxEntries+10; i++ {
		batch = append(batch, survival.Entry{Message: fmt.Sprintf("line %d", i)})
	}
	if err := j.Append(ctx, "p1", batch...); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries, err := j.Drain(ctx, "p1")
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if len(entries) != MaxEntries {
		t.Fatalf("Drain() returned %d entries, want %d", len(entries), MaxEntries)
	}
	if entries[0].Message != "line 10" {
		t.Errorf("oldest kept entry = %q, want %q", entries[0].Message, "line 10")
	}
}

func TestJournal_SkipsMalformed(t *testing.T) {
	j, mr := setupTestRedis(t)
	ctx := context.Background()

	if _, err := mr.RPush("wasteland:log:p1", "not json", `{"message":"ok","severity":"normal"}`); err != nil {
		t.Fatalf("RPush() error = %v", err)
	}
	entries, err := j.Drain(ctx, "p1")
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Message != "ok" {
		t.Errorf("Drain() = %+v, want single ok entry", entries)
	}
}

func TestMemoryJournal(t *testing.T) {
	j := NewMemoryJournal()
	ctx := context.Background()

	j.Sink("p1").Emit("hello", survival.SeverityNormal)
	j.Sink("p2").Emit("other", survival.SeverityNormal)

	entries, _ := j.Drain(ctx, "p1")
	if len(entries) != 1 || entries[0].Message != "hello" {
		t.Errorf("Drain(p1) = %+v", entries)
	}
	entries, _ = j.Drain(ctx, "p1")
	if len(entries) != 0 {
		t.Errorf("second Drain(p1) = %+v, want empty", entries)
	}
	if err := j.Clear(ctx, "p2"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	entries, _ = j.Drain(ctx, "p2")
	if len(entries) != 0 {
		t.Errorf("Drain(p2) after clear = %+v, want empty", entries)
	}
}
