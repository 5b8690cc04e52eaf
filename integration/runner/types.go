package runner

import (
	"time"

	"github.com/google/uuid"
)

// Special action values that trigger non-game calls
const (
	ResetGameAction = "RESET_GAME"
	PurchaseAction  = "PURCHASE"
)

// TestSuite defines a complete integration test run
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name       string     `json:"name"`
	PlayerName string     `json:"player_name,omitempty"` // Used for regular tests
	GameMode   string     `json:"game_mode,omitempty"`   // Used for regular tests
	Steps      []TestStep `json:"steps,omitempty"`       // Used for regular tests
	Cases      []string   `json:"cases,omitempty"`       // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep defines a single game action and its expected outcomes
// Use action: "RESET_GAME" to reset progress, or "PURCHASE" with item set
// to buy a product.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Action       string       `json:"action"`
	Item         string       `json:"item,omitempty"`
	Index        *int         `json:"index,omitempty"`
	Code         string       `json:"code,omitempty"`
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	// HTTP status of the step; defaults to 200.
	Status *int `json:"status,omitempty"`

	// Game state
	Day               *int     `json:"day,omitempty"`
	GameMode          *string  `json:"game_mode,omitempty"`
	PlayerName        *string  `json:"player_name,omitempty"`
	InventoryContains []string `json:"inventory_contains,omitempty"`
	InventoryExcludes []string `json:"inventory_excludes,omitempty"`
	Entitlements      []string `json:"entitlements,omitempty"`
	PendingEncounter  *bool    `json:"pending_encounter,omitempty"`

	// Purchases
	PurchaseStatus *string `json:"purchase_status,omitempty"`

	// Narrative log analysis
	MessagesContain    []string `json:"messages_contain,omitempty"`
	MessagesNotContain []string `json:"messages_not_contain,omitempty"`
	MessageRegex       string   `json:"message_regex,omitempty"`
	ErrorContains      string   `json:"error_contains,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	Messages string
	IsReset  bool // True if this was a RESET_GAME step
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job       TestJob
	Results   []TestResult
	Error     error
	Duration  time.Duration
	PlayerUID uuid.UUID
}
