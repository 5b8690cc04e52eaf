package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/wasteland/internal/handlers"
	"github.com/jwebster45206/wasteland/pkg/survival"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running wasteland API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 30 * time.Second},
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		subJobs, err := LoadTestSuiteWithExpansion(filepath.Join(casesDir, caseFile), casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite against a fresh player
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:       TestJob{Name: suite.Name, Suite: suite},
		Results:   make([]TestResult, 0, len(suite.Steps)),
		PlayerUID: uuid.New(),
	}

	if err := r.createGame(ctx, result.PlayerUID, suite); err != nil {
		result.Error = fmt.Errorf("failed to create game: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.executeStep(ctx, result.PlayerUID, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) createGame(ctx context.Context, id uuid.UUID, suite TestSuite) error {
	req := handlers.CreateGameRequest{
		PlayerName: suite.PlayerName,
		PlayerUID:  id.String(),
		GameMode:   suite.GameMode,
	}
	status, body, err := r.send(ctx, http.MethodPost, "/v1/games", req)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("create game returned %d: %s", status, string(body))
	}
	return nil
}

// send issues one JSON request and returns the status and raw body.
func (r *Runner) send(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute %s request: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// executeStep performs one step and checks its expectations
func (r *Runner) executeStep(ctx context.Context, id uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}
	gamePath := "/v1/games/" + id.String()

	var (
		status int
		body   []byte
		err    error
	)
	switch step.Action {
	case ResetGameAction:
		result.IsReset = true
		status, body, err = r.send(ctx, http.MethodDelete, gamePath, nil)
	case PurchaseAction:
		status, body, err = r.send(ctx, http.MethodPost, "/v1/purchases", handlers.PurchaseRequest{PlayerUID: id.String(), Item: step.Item})
	default:
		status, body, err = r.send(ctx, http.MethodPost, gamePath+"/actions", handlers.ActionRequest{
			Action: step.Action,
			Item:   step.Item,
			Index:  step.Index,
			Code:   step.Code,
		})
	}
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	var purchase *handlers.PurchaseResponse
	var game *handlers.GameResponse
	var errResp handlers.ErrorResponse
	switch {
	case step.Action == PurchaseAction && (status == http.StatusOK || status == http.StatusPaymentRequired):
		purchase = &handlers.PurchaseResponse{}
		err = json.Unmarshal(body, purchase)
	case status == http.StatusOK:
		game = &handlers.GameResponse{}
		err = json.Unmarshal(body, game)
	default:
		err = json.Unmarshal(body, &errResp)
	}
	if err != nil {
		result.Error = fmt.Errorf("failed to decode %d response: %w", status, err)
		result.Duration = time.Since(start)
		return result
	}

	// Purchases return no game state; read it back for state expectations.
	if purchase != nil {
		status2, body2, err := r.send(ctx, http.MethodGet, gamePath, nil)
		if err == nil && status2 == http.StatusOK {
			game = &handlers.GameResponse{}
			_ = json.Unmarshal(body2, game)
		}
	}

	if game != nil {
		result.Messages = joinMessages(game.Messages)
	}
	if err := checkExpectations(step.Expectations, status, game, purchase, errResp.Error); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

func joinMessages(entries []survival.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Message)
	}
	return strings.Join(lines, "\n")
}

// checkExpectations validates one step's response against its expectations
func checkExpectations(exp Expectations, status int, game *handlers.GameResponse, purchase *handlers.PurchaseResponse, errMsg string) error {
	wantStatus := http.StatusOK
	if exp.Status != nil {
		wantStatus = *exp.Status
	}
	if status != wantStatus {
		return fmt.Errorf("expected status %d, got %d (%s)", wantStatus, status, errMsg)
	}

	if exp.ErrorContains != "" && !strings.Contains(strings.ToLower(errMsg), strings.ToLower(exp.ErrorContains)) {
		return fmt.Errorf("expected error to contain '%s', got '%s'", exp.ErrorContains, errMsg)
	}

	if exp.PurchaseStatus != nil {
		if purchase == nil {
			return fmt.Errorf("expected purchase status %s, but step returned no purchase", *exp.PurchaseStatus)
		}
		if string(purchase.Status) != *exp.PurchaseStatus {
			return fmt.Errorf("expected purchase status %s, got %s (%s)", *exp.PurchaseStatus, purchase.Status, purchase.Reason)
		}
	}

	needsState := exp.Day != nil || exp.GameMode != nil || exp.PlayerName != nil ||
		len(exp.InventoryContains) > 0 || len(exp.InventoryExcludes) > 0 ||
		len(exp.Entitlements) > 0 || exp.PendingEncounter != nil
	if needsState && game == nil {
		return fmt.Errorf("expected game state, but step returned none")
	}

	if game != nil {
		if err := checkState(exp, game.State); err != nil {
			return err
		}
		if err := checkMessages(exp, joinMessages(game.Messages)); err != nil {
			return err
		}
	}
	return nil
}

func checkState(exp Expectations, state survival.View) error {
	if exp.Day != nil && state.Day != *exp.Day {
		return fmt.Errorf("expected day %d, got %d", *exp.Day, state.Day)
	}
	if exp.GameMode != nil && string(state.Mode) != *exp.GameMode {
		return fmt.Errorf("expected game mode %s, got %s", *exp.GameMode, state.Mode)
	}
	if exp.PlayerName != nil && state.PlayerName != *exp.PlayerName {
		return fmt.Errorf("expected player name %s, got %s", *exp.PlayerName, state.PlayerName)
	}

	items := make([]string, 0, len(state.Inventory))
	for _, item := range state.Inventory {
		items = append(items, item.ID)
	}
	for _, want := range exp.InventoryContains {
		if !slices.Contains(items, want) {
			return fmt.Errorf("expected inventory to contain '%s', but it's missing. Actual inventory: %v", want, items)
		}
	}
	for _, unwanted := range exp.InventoryExcludes {
		if slices.Contains(items, unwanted) {
			return fmt.Errorf("inventory contains unexpected item '%s'. Actual inventory: %v", unwanted, items)
		}
	}

	for _, want := range exp.Entitlements {
		if !slices.Contains(state.Entitlements, want) {
			return fmt.Errorf("expected entitlement '%s', got %v", want, state.Entitlements)
		}
	}

	if exp.PendingEncounter != nil {
		pending := state.PendingEncounter != ""
		if pending != *exp.PendingEncounter {
			return fmt.Errorf("expected pending encounter %t, got %t (%s)", *exp.PendingEncounter, pending, state.PendingEncounter)
		}
	}
	return nil
}

func checkMessages(exp Expectations, messages string) error {
	lower := strings.ToLower(messages)
	for _, want := range exp.MessagesContain {
		if !strings.Contains(lower, strings.ToLower(want)) {
			return fmt.Errorf("expected messages to contain '%s', but they didn't:\n%s", want, messages)
		}
	}
	for _, unwanted := range exp.MessagesNotContain {
		if strings.Contains(lower, strings.ToLower(unwanted)) {
			return fmt.Errorf("expected messages to NOT contain '%s', but they did", unwanted)
		}
	}
	if exp.MessageRegex != "" {
		matched, err := regexp.MatchString(exp.MessageRegex, messages)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("messages didn't match regex pattern: %s", exp.MessageRegex)
		}
	}
	return nil
}
