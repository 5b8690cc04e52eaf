package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/wasteland/internal/logger"
	"github.com/jwebster45206/wasteland/pkg/entitlement"
	"github.com/jwebster45206/wasteland/pkg/survival"
)

// Purchaser runs purchases and reads entitlement sets.
type Purchaser interface {
	Purchase(ctx context.Context, playerID, productID string) entitlement.Result
	Load(ctx context.Context, playerID string) ([]string, error)
}

// PurchaseObserver counts purchase outcomes.
type PurchaseObserver interface {
	PurchaseCompleted(product, status string)
}

// GrantNotifier announces new entitlements to subscribers.
type GrantNotifier interface {
	PublishEntitlementGranted(ctx context.Context, gameID, product string) error
}

type PurchaseRequest struct {
	PlayerUID string `json:"player_uid"`
	Item      string `json:"item"`
}

type PurchaseResponse struct {
	entitlement.Result
	Entitlements []string `json:"entitlements"`
}

type EntitlementsResponse struct {
	PlayerUID    string                `json:"player_uid"`
	Entitlements []string              `json:"entitlements"`
	Catalog      []entitlement.Product `json:"catalog"`
}

type PurchaseHandler struct {
	purchaser Purchaser
	sessions  Sessions
	observer  PurchaseObserver
	notifier  GrantNotifier
	logger    *slog.Logger
}

// NewPurchaseHandler creates the purchase handler. observer and notifier
// may be nil.
func NewPurchaseHandler(purchaser Purchaser, sessions Sessions, observer PurchaseObserver, notifier GrantNotifier, logger *slog.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchaser: purchaser,
		sessions:  sessions,
		observer:  observer,
		notifier:  notifier,
		logger:    logger,
	}
}

// ServeHTTP handles POST /v1/purchases
func (h *PurchaseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	id, ok := parsePlayerID(req.PlayerUID)
	if !ok {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid player uid format")
		return
	}
	product := strings.ToLower(strings.TrimSpace(req.Item))

	ctx := r.Context()
	res := h.purchaser.Purchase(ctx, id.String(), product)
	if h.observer != nil {
		h.observer.PurchaseCompleted(product, string(res.Status))
	}

	if res.Status == entitlement.StatusGranted {
		log := logger.WithPlayer(h.logger, id.String()).With("product", product)
		if g, ok := h.sessions.Get(id); ok {
			_, err := g.Do(func(e *survival.Engine) error {
				e.GrantEntitlement(product)
				if product == entitlement.StarterPack {
					e.ClaimStarterPack()
				}
				return e.Save(ctx)
			})
			if err != nil {
				log.Warn("Failed to save after purchase", "error", err)
			}
		}
		if h.notifier != nil {
			if err := h.notifier.PublishEntitlementGranted(ctx, id.String(), product); err != nil {
				log.Warn("Failed to publish entitlement grant", "error", err)
			}
		}
	}

	owned, err := h.purchaser.Load(ctx, id.String())
	if err != nil {
		h.logger.Warn("Failed to reload entitlements", "player_uid", id.String(), "error", err)
	}

	status := http.StatusOK
	if res.Status == entitlement.StatusFailed {
		status = http.StatusPaymentRequired
		if _, known := entitlement.Lookup(product); !known {
			status = http.StatusBadRequest
		}
	}
	if owned == nil {
		owned = []string{}
	}
	writeJSON(w, h.logger, status, PurchaseResponse{Result: res, Entitlements: owned})
}

type EntitlementHandler struct {
	purchaser Purchaser
	logger    *slog.Logger
}

func NewEntitlementHandler(purchaser Purchaser, logger *slog.Logger) *EntitlementHandler {
	return &EntitlementHandler{purchaser: purchaser, logger: logger}
}

// ServeHTTP handles GET /v1/entitlements/{uid}
func (h *EntitlementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}
	parts := splitPath(r.URL.Path, "/v1/entitlements")
	if len(parts) != 1 {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid path. Expected /v1/entitlements/{uid}")
		return
	}
	id, ok := parsePlayerID(parts[0])
	if !ok {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid player uid format")
		return
	}

	owned, err := h.purchaser.Load(r.Context(), id.String())
	if err != nil {
		h.logger.Error("Failed to load entitlements", "player_uid", id.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load entitlements")
		return
	}
	if owned == nil {
		owned = []string{}
	}
	writeJSON(w, h.logger, http.StatusOK, EntitlementsResponse{
		PlayerUID:    id.String(),
		Entitlements: owned,
		Catalog:      entitlement.Catalog(),
	})
}
