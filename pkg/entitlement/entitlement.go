// Package entitlement grants premium unlocks from verified payments.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Product ids.
const (
	StarterPack   = "starter_pack"
	PremiumBundle = "premium_bundle"
	MegaPack      = "mega_pack"
)

// Product is a purchasable item.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents"`
}

var catalog = map[string]Product{
	StarterPack:   {ID: StarterPack, Name: "Starter Pack", PriceCents: 100},
	PremiumBundle: {ID: PremiumBundle, Name: "Premium Bundle", PriceCents: 299},
	MegaPack:      {ID: MegaPack, Name: "Mega Pack", PriceCents: 499},
}

// Lookup returns the catalog entry for id.
func Lookup(id string) (Product, bool) {
	p, ok := catalog[id]
	return p, ok
}

// Catalog lists products by price.
func Catalog() []Product {
	out := make([]Product, 0, len(catalog))
	for _, p := range catalog {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Product) int { return a.PriceCents - b.PriceCents })
	return out
}

// Store holds entitlement sets keyed by player id. Grant reports whether
// the product was newly added.
type Store interface {
	Owned(ctx context.Context, playerID string) ([]string, error)
	Grant(ctx context.Context, playerID, product string) (bool, error)
}

// Backend is an opaque payment provider.
type Backend interface {
	CreatePaymentSession(ctx context.Context, product Product, playerID string) (string, error)
	VerifyPayment(ctx context.Context, sessionRef string) (bool, error)
}

type Status string

const (
	StatusGranted      Status = "granted"
	StatusAlreadyOwned Status = "already_owned"
	StatusFailed       Status = "failed"
)

// Result describes the outcome of a purchase attempt.
type Result struct {
	Status     Status `json:"status"`
	Product    string `json:"product"`
	SessionRef string `json:"session_ref,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Service runs purchases against a payment backend and records grants.
type Service struct {
	store      Store
	backend    Backend
	privileged map[string]bool
	logger     *slog.Logger
}

// NewService creates a service. Privileged player ids receive the starter
// pack on Load without payment.
func NewService(store Store, backend Backend, privileged []string, logger *slog.Logger) *Service {
	p := make(map[string]bool, len(privileged))
	for _, id := range privileged {
		p[id] = true
	}
	return &Service{store: store, backend: backend, privileged: p, logger: logger}
}

// Load returns the player's entitlements.
func (s *Service) Load(ctx context.Context, playerID string) ([]string, error) {
	if s.privileged[playerID] {
		if added, err := s.store.Grant(ctx, playerID, StarterPack); err != nil {
			return nil, fmt.Errorf("failed to grant privileged starter pack: %w", err)
		} else if added {
			s.logger.Info("Granted starter pack to privileged player", "player_uid", playerID)
		}
	}
	owned, err := s.store.Owned(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entitlements: %w", err)
	}
	slices.Sort(owned)
	return owned, nil
}

// Purchase buys product for the player. Only a verified payment grants the
// entitlement.
func (s *Service) Purchase(ctx context.Context, playerID, productID string) Result {
	log := s.logger.With("player_uid", playerID, "product", productID)
	res := Result{Product: productID}

	product, ok := Lookup(productID)
	if !ok {
		res.Status, res.Reason = StatusFailed, "unknown product"
		return res
	}

	owned, err := s.store.Owned(ctx, playerID)
	if err != nil {
		log.Error("Failed to read entitlements", "error", err)
		res.Status, res.Reason = StatusFailed, "entitlement store unavailable"
		return res
	}
	if slices.Contains(owned, productID) {
		res.Status = StatusAlreadyOwned
		return res
	}

	ref, err := s.backend.CreatePaymentSession(ctx, product, playerID)
	if err != nil {
		log.Warn("Failed to create payment session", "error", err)
		res.Status, res.Reason = StatusFailed, fmt.Sprintf("payment session: %v", err)
		return res
	}
	res.SessionRef = ref

	paid, err := s.backend.VerifyPayment(ctx, ref)
	if err != nil {
		log.Warn("Failed to verify payment", "session_ref", ref, "error", err)
		res.Status, res.Reason = StatusFailed, fmt.Sprintf("payment verification: %v", err)
		return res
	}
	if !paid {
		res.Status, res.Reason = StatusFailed, "payment not completed"
		return res
	}

	added, err := s.store.Grant(ctx, playerID, productID)
	if err != nil {
		log.Error("Payment verified but grant failed", "session_ref", ref, "error", err)
		res.Status, res.Reason = StatusFailed, "entitlement store unavailable"
		return res
	}
	if !added {
		res.Status = StatusAlreadyOwned
		return res
	}
	log.Info("Entitlement granted", "session_ref", ref)
	res.Status = StatusGranted
	return res
}
