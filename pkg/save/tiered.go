package save

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jwebster45206/wasteland/pkg/survival"
)

const (
	TierLocal  = "local"
	TierMirror = "mirror"

	defaultMirrorTimeout = 5 * time.Second
	mirrorQueueSize      = 64
)

// ErrClosed is returned by SaveSnapshot after Close.
var ErrClosed = errors.New("save: persister closed")

// Recorder observes persistence results per tier.
type Recorder interface {
	SaveRecorded(tier string, err error)
}

type nopRecorder struct{}

func (nopRecorder) SaveRecorded(string, error) {}

type mirrorOp struct {
	key  string
	blob []byte // nil clears the key
}

// Tiered writes every snapshot to a local store synchronously and copies it
// to an optional remote mirror in the background. Pending mirror writes for
// the same key are coalesced so only the newest blob is sent.
type Tiered struct {
	local    Store
	mirror   Store
	logger   *slog.Logger
	recorder Recorder
	timeout  time.Duration

	mu      sync.Mutex
	pending map[string]mirrorOp
	order   []string
	closed  bool
	wake    chan struct{}
	idle    *sync.Cond
	busy    bool
	done    chan struct{}
}

// Ensure Tiered implements survival.Persister
var _ survival.Persister = (*Tiered)(nil)

// Options configures a Tiered persister.
type Options struct {
	Mirror   Store
	Timeout  time.Duration
	Recorder Recorder
}

// NewTiered starts the mirror worker when a mirror is configured.
func NewTiered(local Store, logger *slog.Logger, opts Options) *Tiered {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultMirrorTimeout
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	t := &Tiered{
		local:    local,
		mirror:   opts.Mirror,
		logger:   logger,
		recorder: opts.Recorder,
		timeout:  opts.Timeout,
		pending:  make(map[string]mirrorOp),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	t.idle = sync.NewCond(&t.mu)
	if t.mirror != nil {
		go t.run()
	} else {
		close(t.done)
	}
	return t
}

// Key returns the storage key for a player.
func Key(playerID string) string {
	return "save:" + playerID
}

// SaveSnapshot writes the snapshot locally and queues it for the mirror.
func (t *Tiered) SaveSnapshot(ctx context.Context, snap *survival.Snapshot) error {
	blob, err := Encode(snap)
	if err != nil {
		return err
	}
	key := Key(snap.PlayerUID)
	err = t.local.Save(ctx, key, blob)
	t.recorder.SaveRecorded(TierLocal, err)
	if err != nil {
		return fmt.Errorf("failed to save snapshot locally: %w", err)
	}
	return t.enqueue(mirrorOp{key: key, blob: blob})
}

// ClearSnapshot removes the player's save from both tiers.
func (t *Tiered) ClearSnapshot(ctx context.Context, playerID string) error {
	key := Key(playerID)
	if err := t.local.Clear(ctx, key); err != nil {
		return fmt.Errorf("failed to clear local snapshot: %w", err)
	}
	return t.enqueue(mirrorOp{key: key})
}

func (t *Tiered) enqueue(op mirrorOp) error {
	if t.mirror == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if _, queued := t.pending[op.key]; !queued {
		t.order = append(t.order, op.key)
	}
	t.pending[op.key] = op
	if len(t.order) > mirrorQueueSize {
		dropped := t.order[0]
		t.order = t.order[1:]
		delete(t.pending, dropped)
		t.logger.Warn("Mirror queue full, dropping oldest write", "key", dropped)
	}
	select {
	case t.wake <- struct{}{}:
	default:
	}
	return nil
}

func (t *Tiered) next() (mirrorOp, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.order) == 0 {
		t.busy = false
		t.idle.Broadcast()
		return mirrorOp{}, false
	}
	key := t.order[0]
	t.order = t.order[1:]
	op := t.pending[key]
	delete(t.pending, key)
	t.busy = true
	return op, true
}

func (t *Tiered) run() {
	defer close(t.done)
	for {
		for {
			op, ok := t.next()
			if !ok {
				break
			}
			t.push(op)
		}
		t.mu.Lock()
		closed := t.closed && len(t.order) == 0
		t.mu.Unlock()
		if closed {
			return
		}
		<-t.wake
	}
}

func (t *Tiered) push(op mirrorOp) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	var err error
	if op.blob == nil {
		err = t.mirror.Clear(ctx, op.key)
	} else {
		err = t.mirror.Save(ctx, op.key, op.blob)
	}
	t.recorder.SaveRecorded(TierMirror, err)
	if err != nil {
		t.logger.Warn("Failed to mirror snapshot", "key", op.key, "error", err)
	}
}

// Flush blocks until every queued mirror write has been attempted or ctx
// is done.
func (t *Tiered) Flush(ctx context.Context) error {
	if t.mirror == nil {
		return nil
	}
	stop := context.AfterFunc(ctx, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.idle.Broadcast()
	})
	defer stop()

	t.mu.Lock()
	defer t.mu.Unlock()
	for len(t.order) > 0 || t.busy {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.idle.Wait()
	}
	return nil
}

// Close drains the mirror queue and stops the worker.
func (t *Tiered) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	select {
	case t.wake <- struct{}{}:
	default:
	}
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load returns the newest snapshot for a player across both tiers, or nil
// when neither has a usable one. A tier that fails or holds a malformed
// blob is skipped in favour of the other.
func (t *Tiered) Load(ctx context.Context, playerID string) (*survival.Snapshot, error) {
	key := Key(playerID)
	local, err := t.loadFrom(ctx, t.local, key)
	if err != nil {
		t.logger.Warn("Failed to load local snapshot", "key", key, "error", err)
		local = nil
	}
	if t.mirror == nil {
		return local, nil
	}

	mctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	remote, err := t.loadFrom(mctx, t.mirror, key)
	if err != nil {
		t.logger.Warn("Failed to load mirrored snapshot, using local copy", "key", key, "error", err)
		return local, nil
	}
	if remote == nil || (local != nil && !remote.SavedAt.After(local.SavedAt)) {
		return local, nil
	}

	t.logger.Info("Mirrored snapshot is newer than local copy", "key", key, "saved_at", remote.SavedAt)
	if blob, err := Encode(remote); err == nil {
		if err := t.local.Save(ctx, key, blob); err != nil {
			t.logger.Warn("Failed to refresh local snapshot", "key", key, "error", err)
		}
	}
	return remote, nil
}

func (t *Tiered) loadFrom(ctx context.Context, s Store, key string) (*survival.Snapshot, error) {
	blob, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}
	return Decode(blob)
}
