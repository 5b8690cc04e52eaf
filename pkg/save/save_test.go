package save

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jwebster45206/wasteland/pkg/survival"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

const testPlayer = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

func snapshotAt(day int, at time.Time) *survival.Snapshot {
	return &survival.Snapshot{
		PlayerName: "Vault Dweller",
		Health:     90,
		Food:       40,
		Water:      30,
		Day:        day,
		Inventory:  []string{"gas_mask", "canned_food"},
		PlayerUID:  testPlayer,
		SavedAt:    at,
	}
}

type countingRecorder struct {
	mu      sync.Mutex
	results map[string][]error
}

func (r *countingRecorder) SaveRecorded(tier string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = make(map[string][]error)
	}
	r.results[tier] = append(r.results[tier], err)
}

func (r *countingRecorder) count(tier string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results[tier])
}

func TestDecodeLegacyLayout(t *testing.T) {
	blob := []byte(`{
		"playerName": "Old Timer",
		"health": 75,
		"food": 20,
		"water": 10,
		"radiation": 5,
		"supplies": ["gas_mask", "med_kit"],
		"gasMaskDurability": {"0": 40},
		"day": 12,
		"bunkerSupplies": {},
		"currentMission": null,
		"missionProgress": 0,
		"premiumPurchases": ["starter_pack"],
		"playerUID": "` + testPlayer + `",
		"disease": {"id": "radiation_sickness", "name": "Radiation Sickness"},
		"diseaseProgression": 3
	}`)

	if !IsLegacy(blob) {
		t.Error("IsLegacy() = false, want true")
	}
	s, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if s.PlayerName != "Old Timer" {
		t.Errorf("PlayerName = %q, want %q", s.PlayerName, "Old Timer")
	}
	if len(s.Inventory) != 2 || s.Inventory[1] != "med_kit" {
		t.Errorf("Inventory = %v, want [gas_mask med_kit]", s.Inventory)
	}
	if s.GasMaskDurability[0] != 40 {
		t.Errorf("GasMaskDurability[0] = %d, want 40", s.GasMaskDurability[0])
	}
	if s.Day != 12 {
		t.Errorf("Day = %d, want 12", s.Day)
	}
	if s.Disease == nil || s.Disease.ID != "radiation_sickness" || s.Disease.Remaining != 3 {
		t.Errorf("Disease = %+v, want radiation_sickness with 3 remaining", s.Disease)
	}
}

func TestEncodeDecodeKeepsExtendedFields(t *testing.T) {
	s := snapshotAt(4, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	s.GameMode = "hardcore"
	s.Weather = "acid_rain"
	s.WeatherDuration = 2
	s.Achievements = []string{"survivor_10"}

	blob, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if IsLegacy(blob) {
		t.Error("IsLegacy() = true for current layout")
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.GameMode != "hardcore" || got.Weather != "acid_rain" || got.WeatherDuration != 2 {
		t.Errorf("extended fields = %q %q %d", got.GameMode, got.Weather, got.WeatherDuration)
	}
	if !got.SavedAt.Equal(s.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", got.SavedAt, s.SavedAt)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("Decode() expected error for invalid JSON")
	}
}

func TestTieredLocalOnly(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryStore()
	p := NewTiered(local, testLogger(), Options{})
	defer p.Close(ctx)

	if err := p.SaveSnapshot(ctx, snapshotAt(3, time.Now())); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	got, err := p.Load(ctx, testPlayer)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil || got.Day != 3 {
		t.Fatalf("Load() = %+v, want day 3", got)
	}

	if err := p.ClearSnapshot(ctx, testPlayer); err != nil {
		t.Fatalf("ClearSnapshot() error = %v", err)
	}
	got, err = p.Load(ctx, testPlayer)
	if err != nil {
		t.Fatalf("Load() after clear error = %v", err)
	}
	if got != nil {
		t.Errorf("Load() after clear = %+v, want nil", got)
	}
}

func TestTieredLocalFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryStore()
	local.SetSaveError(errors.New("disk full"))
	rec := &countingRecorder{}
	p := NewTiered(local, testLogger(), Options{Recorder: rec})
	defer p.Close(ctx)

	if err := p.SaveSnapshot(ctx, snapshotAt(1, time.Now())); err == nil {
		t.Fatal("SaveSnapshot() expected error when local store fails")
	}
	if rec.count(TierLocal) != 1 {
		t.Errorf("local results = %d, want 1", rec.count(TierLocal))
	}
}

func TestTieredMirrorsInBackground(t *testing.T) {
	ctx := context.Background()
	local, mirror := NewMemoryStore(), NewMemoryStore()
	rec := &countingRecorder{}
	p := NewTiered(local, testLogger(), Options{Mirror: mirror, Recorder: rec})

	for day := 1; day <= 3; day++ {
		if err := p.SaveSnapshot(ctx, snapshotAt(day, time.Now())); err != nil {
			t.Fatalf("SaveSnapshot(day %d) error = %v", day, err)
		}
	}
	flushCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.Flush(flushCtx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	blob, err := mirror.Load(ctx, Key(testPlayer))
	if err != nil || blob == nil {
		t.Fatalf("mirror Load() = %v, %v", blob, err)
	}
	s, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if s.Day != 3 {
		t.Errorf("mirrored day = %d, want 3", s.Day)
	}
	if n := rec.count(TierMirror); n < 1 || n > 3 {
		t.Errorf("mirror writes = %d, want between 1 and 3", n)
	}

	if err := p.Close(flushCtx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.SaveSnapshot(ctx, snapshotAt(4, time.Now())); !errors.Is(err, ErrClosed) {
		t.Errorf("SaveSnapshot() after close error = %v, want ErrClosed", err)
	}
}

func TestTieredMirrorFailureDoesNotFailSave(t *testing.T) {
	ctx := context.Background()
	local, mirror := NewMemoryStore(), NewMemoryStore()
	mirror.SetSaveError(errors.New("bucket unavailable"))
	rec := &countingRecorder{}
	p := NewTiered(local, testLogger(), Options{Mirror: mirror, Recorder: rec})
	defer p.Close(ctx)

	if err := p.SaveSnapshot(ctx, snapshotAt(2, time.Now())); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if err := p.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if local.Len() != 1 {
		t.Errorf("local blobs = %d, want 1", local.Len())
	}
	if rec.count(TierMirror) != 1 {
		t.Errorf("mirror results = %d, want 1", rec.count(TierMirror))
	}
}

func TestTieredLoadPrefersNewest(t *testing.T) {
	ctx := context.Background()
	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	tests := []struct {
		name      string
		local     *survival.Snapshot
		mirror    *survival.Snapshot
		mirrorErr error
		wantDay   int
	}{
		{name: "local newer", local: snapshotAt(5, newer), mirror: snapshotAt(4, older), wantDay: 5},
		{name: "mirror newer", local: snapshotAt(4, older), mirror: snapshotAt(6, newer), wantDay: 6},
		{name: "only mirror", mirror: snapshotAt(7, older), wantDay: 7},
		{name: "mirror failing", local: snapshotAt(3, older), mirrorErr: errors.New("timeout"), wantDay: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local, mirror := NewMemoryStore(), NewMemoryStore()
			for store, snap := range map[*MemoryStore]*survival.Snapshot{local: tt.local, mirror: tt.mirror} {
				if snap == nil {
					continue
				}
				blob, _ := Encode(snap)
				_ = store.Save(ctx, Key(testPlayer), blob)
			}
			mirror.SetLoadError(tt.mirrorErr)

			p := NewTiered(local, testLogger(), Options{Mirror: mirror})
			defer p.Close(ctx)

			got, err := p.Load(ctx, testPlayer)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got == nil || got.Day != tt.wantDay {
				t.Fatalf("Load() = %+v, want day %d", got, tt.wantDay)
			}
			if tt.name == "mirror newer" || tt.name == "only mirror" {
				blob, _ := local.Load(ctx, Key(testPlayer))
				refreshed, _ := Decode(blob)
				if refreshed == nil || refreshed.Day != tt.wantDay {
					t.Errorf("local copy not refreshed from mirror")
				}
			}
		})
	}
}

func TestTieredLoadFallsBackWhenLocalBroken(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		localBlob   []byte
		localErr    error
		mirror      *survival.Snapshot
		mirrorErr   error
		noMirror    bool
		wantDay     int // 0 means nil
		wantRefresh bool
	}{
		{name: "malformed local", localBlob: []byte(`{not json`), mirror: snapshotAt(8, at), wantDay: 8, wantRefresh: true},
		{name: "local unreachable", localErr: errors.New("database is locked"), mirror: snapshotAt(9, at), wantDay: 9},
		{name: "both failing", localBlob: []byte(`{not json`), mirrorErr: errors.New("timeout")},
		{name: "malformed local without mirror", localBlob: []byte(`{not json`), noMirror: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local, mirror := NewMemoryStore(), NewMemoryStore()
			if tt.localBlob != nil {
				_ = local.Save(ctx, Key(testPlayer), tt.localBlob)
			}
			local.SetLoadError(tt.localErr)
			if tt.mirror != nil {
				blob, _ := Encode(tt.mirror)
				_ = mirror.Save(ctx, Key(testPlayer), blob)
			}
			mirror.SetLoadError(tt.mirrorErr)

			opts := Options{Mirror: mirror}
			if tt.noMirror {
				opts = Options{}
			}
			p := NewTiered(local, testLogger(), opts)
			defer p.Close(ctx)

			got, err := p.Load(ctx, testPlayer)
			if err != nil {
				t.Fatalf("Load() error = %v, want nil", err)
			}
			if tt.wantDay == 0 {
				if got != nil {
					t.Fatalf("Load() = %+v, want nil", got)
				}
				return
			}
			if got == nil || got.Day != tt.wantDay {
				t.Fatalf("Load() = %+v, want day %d", got, tt.wantDay)
			}
			if tt.wantRefresh {
				blob, _ := local.Load(ctx, Key(testPlayer))
				refreshed, err := Decode(blob)
				if err != nil || refreshed.Day != tt.wantDay {
					t.Errorf("local copy not refreshed from mirror: %v", err)
				}
			}
		})
	}
}

// stalledStore blocks every Save until release is closed.
type stalledStore struct {
	*MemoryStore
	release chan struct{}
}

func (s *stalledStore) Save(ctx context.Context, key string, blob []byte) error {
	<-s.release
	return s.MemoryStore.Save(ctx, key, blob)
}

func TestTieredFlushStopsOnContext(t *testing.T) {
	ctx := context.Background()
	mirror := &stalledStore{MemoryStore: NewMemoryStore(), release: make(chan struct{})}
	p := NewTiered(NewMemoryStore(), testLogger(), Options{Mirror: mirror, Timeout: time.Minute})

	if err := p.SaveSnapshot(ctx, snapshotAt(1, time.Now())); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	for range 3 {
		flushCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		start := time.Now()
		err := p.Flush(flushCtx)
		cancel()
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Flush() error = %v, want DeadlineExceeded", err)
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Fatalf("Flush() returned after %v, want prompt return", elapsed)
		}
	}

	close(mirror.release)
	flushCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.Flush(flushCtx); err != nil {
		t.Fatalf("Flush() after release error = %v", err)
	}
	if mirror.Len() != 1 {
		t.Errorf("mirror blobs = %d, want 1", mirror.Len())
	}
	if err := p.Close(flushCtx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
