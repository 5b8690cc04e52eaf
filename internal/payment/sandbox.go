// Package payment provides payment backends for the entitlement service.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/wasteland/pkg/entitlement"
)

// ErrUnknownSession is returned when verifying a ref the backend never issued.
var ErrUnknownSession = errors.New("unknown payment session")

type session struct {
	productID string
	playerID  string
	amount    int
	status    string
}

// Sandbox is an in-process backend that settles sessions immediately.
// Players added with Decline have their payments fail.
type Sandbox struct {
	mu       sync.Mutex
	sessions map[string]*session
	declined map[string]bool
	logger   *slog.Logger
}

// Ensure Sandbox implements entitlement.Backend interface
var _ entitlement.Backend = (*Sandbox)(nil)

func NewSandbox(logger *slog.Logger) *Sandbox {
	return &Sandbox{
		sessions: make(map[string]*session),
		declined: make(map[string]bool),
		logger:   logger,
	}
}

// Decline makes every future session for playerID fail verification.
func (s *Sandbox) Decline(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.declined[playerID] = true
}

func (s *Sandbox) CreatePaymentSession(ctx context.Context, product entitlement.Product, playerID string) (string, error) {
	if product.PriceCents <= 0 {
		return "", fmt.Errorf("invalid amount %d for %s", product.PriceCents, product.ID)
	}
	ref := "pi_" + uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	status := "succeeded"
	if s.declined[playerID] {
		status = "requires_payment_method"
	}
	s.sessions[ref] = &session{productID: product.ID, playerID: playerID, amount: product.PriceCents, status: status}
	s.logger.Debug("Sandbox payment session created", "session_ref", ref, "product", product.ID, "amount_cents", product.PriceCents)
	return ref, nil
}

func (s *Sandbox) VerifyPayment(ctx context.Context, ref string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[ref]
	if !ok {
		return false, ErrUnknownSession
	}
	return sess.status == "succeeded", nil
}
