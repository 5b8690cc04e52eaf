package survival

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jwebster45206/wasteland/pkg/rng"
)

type recordingPersister struct {
	saved   []*Snapshot
	cleared []string
	err     error
}

func (p *recordingPersister) SaveSnapshot(_ context.Context, s *Snapshot) error {
	if p.err != nil {
		return p.err
	}
	p.saved = append(p.saved, s)
	return nil
}

func (p *recordingPersister) ClearSnapshot(_ context.Context, id string) error {
	p.cleared = append(p.cleared, id)
	return nil
}

type recordingNotifier struct {
	tags []SoundTag
}

func (n *recordingNotifier) Notify(tag SoundTag) {
	n.tags = append(n.tags, tag)
}

func (n *recordingNotifier) has(tag SoundTag) bool {
	for _, t := range n.tags {
		if t == tag {
			return true
		}
	}
	return false
}

type testGame struct {
	*Engine
	out       *Log
	persister *recordingPersister
	notifier  *recordingNotifier
}

// newTestGame builds an engine over scripted draws. A nil script behaves as
// an exhausted one: ranges resolve to their minimum and no chance fires.
func newTestGame(script *rng.Script) *testGame {
	if script == nil {
		script = rng.NewScript()
	}
	g := &testGame{
		out:       &Log{},
		persister: &recordingPersister{},
		notifier:  &recordingNotifier{},
	}
	g.Engine = New(uuid.New(), "Tester", Deps{
		Rand:      rng.New(script),
		Sink:      g.out,
		Notifier:  g.notifier,
		Persister: g.persister,
		Logger:    slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})),
	})
	return g
}

func (g *testGame) give(items ...string) {
	for _, item := range items {
		g.inv.Add(item)
	}
}
