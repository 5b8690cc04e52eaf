package runner

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/wasteland/internal/handlers"
	"github.com/jwebster45206/wasteland/internal/payment"
	"github.com/jwebster45206/wasteland/internal/services/journal"
	"github.com/jwebster45206/wasteland/internal/session"
	"github.com/jwebster45206/wasteland/pkg/entitlement"
	"github.com/jwebster45206/wasteland/pkg/save"
)

// newTestServer serves the game API from in-memory stores.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	store := save.NewTiered(save.NewMemoryStore(), logger, save.Options{})
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	svc := entitlement.NewService(entitlement.NewMemoryStore(), payment.NewSandbox(logger), nil, logger)
	j := journal.NewMemoryJournal()
	sessions := session.NewManager(session.Options{
		Store:        store,
		Entitlements: svc,
		Journal:      j,
		Seed:         7,
	}, logger)

	mux := http.NewServeMux()
	games := handlers.NewGameHandler(sessions, j, nil, logger)
	mux.Handle("/v1/games", games)
	mux.Handle("/v1/games/", games)
	mux.Handle("/v1/purchases", handlers.NewPurchaseHandler(svc, sessions, nil, nil, logger))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunnerCases(t *testing.T) {
	srv := newTestServer(t)
	r := NewRunner(srv.URL)
	r.Logger = t.Logf

	jobs, err := LoadTestSuiteWithExpansion("../cases/all.json", "../cases")
	require.NoError(t, err)
	require.Len(t, jobs, 4)

	for _, job := range jobs {
		t.Run(job.Name, func(t *testing.T) {
			result, err := r.RunSuite(context.Background(), job.Suite)
			require.NoError(t, err)
			assert.Len(t, result.Results, len(job.Suite.Steps))
			for _, step := range result.Results {
				assert.True(t, step.Success, "%s: %v", step.StepName, step.Error)
			}
		})
	}
}

func TestRunnerReportsFailedExpectation(t *testing.T) {
	srv := newTestServer(t)
	r := NewRunner(srv.URL)
	r.ErrorHandlingMode = ErrorHandlingExit

	wrongDay := 5
	suite := TestSuite{
		Name: "wrong day",
		Steps: []TestStep{
			{Name: "rest", Action: "rest", Expectations: Expectations{Day: &wrongDay}},
			{Name: "never runs", Action: "rest"},
		},
	}

	result, err := r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected day 5")
	assert.Len(t, result.Results, 1, "exit mode stops at the first failure")
}

func TestLoadTestSuiteMissingFile(t *testing.T) {
	_, err := LoadTestSuite("../cases/does_not_exist.json")
	assert.Error(t, err)
}
