package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/wasteland/internal/logger"
	"github.com/jwebster45206/wasteland/internal/session"
	"github.com/jwebster45206/wasteland/pkg/survival"
	"github.com/jwebster45206/wasteland/pkg/textfilter"
)

// Sessions opens and finds live games.
type Sessions interface {
	Open(ctx context.Context, id uuid.UUID, name string, mode survival.GameMode) (*session.Game, bool, error)
	Get(id uuid.UUID) (*session.Game, bool)
}

// JournalReader drains a player's narrative log.
type JournalReader interface {
	Drain(ctx context.Context, playerID string) ([]survival.Entry, error)
}

// Publisher announces game events to subscribers.
type Publisher interface {
	PublishDayCompleted(ctx context.Context, gameID string, day int, vitals survival.Vitals) error
	PublishEncounterResolved(ctx context.Context, gameID string, outcome survival.Outcome) error
	PublishPlayerDied(ctx context.Context, gameID string, death survival.Death) error
}

type CreateGameRequest struct {
	PlayerName string `json:"player_name"`
	PlayerUID  string `json:"player_uid,omitempty"`
	GameMode   string `json:"game_mode,omitempty"`
}

type ActionRequest struct {
	Action string `json:"action"`
	Item   string `json:"item,omitempty"`
	Index  *int   `json:"index,omitempty"`
	Code   string `json:"code,omitempty"`
}

type GameResponse struct {
	State    survival.View    `json:"state"`
	Messages []survival.Entry `json:"messages"`
	Result   any              `json:"result,omitempty"`
}

type LogResponse struct {
	PlayerUID string           `json:"player_uid"`
	Entries   []survival.Entry `json:"entries"`
}

type GameHandler struct {
	sessions  Sessions
	journal   JournalReader
	publisher Publisher
	names     *textfilter.NameFilter
	logger    *slog.Logger
}

// NewGameHandler creates the game handler. journal and publisher may be nil.
func NewGameHandler(sessions Sessions, journal JournalReader, publisher Publisher, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		sessions:  sessions,
		journal:   journal,
		publisher: publisher,
		names:     textfilter.NewNameFilter(),
		logger:    logger,
	}
}

// ServeHTTP handles HTTP requests for games
// Routes:
// POST /v1/games                 - Load or create a game
// GET /v1/games/{uid}            - Read game state
// DELETE /v1/games/{uid}         - Reset progress
// POST /v1/games/{uid}/actions   - Perform an action
// GET /v1/games/{uid}/log        - Drain the narrative journal
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/v1/games")

	if len(parts) == 0 {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.handleCreate(w, r)
		return
	}

	id, ok := parsePlayerID(parts[0])
	if !ok {
		h.logger.Warn("Invalid player uid", "id", parts[0])
		writeError(w, h.logger, http.StatusBadRequest, "Invalid player uid format")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleRead(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleReset(w, r, id)
	case len(parts) == 2 && parts[1] == "actions" && r.Method == http.MethodPost:
		h.handleAction(w, r, id)
	case len(parts) == 2 && parts[1] == "log" && r.Method == http.MethodGet:
		h.handleLog(w, r, id)
	case len(parts) <= 2:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *GameHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	id := uuid.Nil
	if req.PlayerUID != "" {
		var ok bool
		if id, ok = parsePlayerID(req.PlayerUID); !ok {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid player uid format")
			return
		}
	}
	name := strings.TrimSpace(req.PlayerName)
	if name != "" || id == uuid.Nil {
		var changed bool
		if name, changed = h.names.Clean(name); changed {
			h.logger.Debug("Player name cleaned", "requested", req.PlayerName, "name", name)
		}
	}

	g, created, err := h.sessions.Open(r.Context(), id, name, survival.ParseGameMode(req.GameMode))
	if err != nil {
		h.logger.Error("Failed to open game", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to open game")
		return
	}
	messages, _ := g.Do(func(*survival.Engine) error { return nil })

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, h.logger, status, GameResponse{State: g.View(), Messages: nonNil(messages)})
}

// game returns the live game, loading it from storage when needed.
func (h *GameHandler) game(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*session.Game, bool) {
	if g, ok := h.sessions.Get(id); ok {
		return g, true
	}
	g, created, err := h.sessions.Open(r.Context(), id, "", survival.ModeNormal)
	if err != nil {
		logger.WithPlayer(h.logger, id.String()).Error("Failed to load game", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game")
		return nil, false
	}
	if created {
		h.logger.Debug("No saved game found, started a new one", "player_uid", id.String())
	}
	return g, true
}

func (h *GameHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	g, ok := h.game(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, GameResponse{State: g.View(), Messages: []survival.Entry{}})
}

func (h *GameHandler) handleReset(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	g, ok := h.game(w, r, id)
	if !ok {
		return
	}
	messages, _ := g.Do(func(e *survival.Engine) error {
		e.ResetProgress(r.Context())
		return nil
	})
	logger.WithPlayer(h.logger, id.String()).Info("Progress reset")
	writeJSON(w, h.logger, http.StatusOK, GameResponse{State: g.View(), Messages: nonNil(messages)})
}

func (h *GameHandler) handleLog(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if h.journal == nil {
		writeError(w, h.logger, http.StatusNotFound, "Journal not configured")
		return
	}
	entries, err := h.journal.Drain(r.Context(), id.String())
	if err != nil {
		logger.WithPlayer(h.logger, id.String()).Error("Failed to drain journal", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read journal")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, LogResponse{PlayerUID: id.String(), Entries: nonNil(entries)})
}

func (h *GameHandler) handleAction(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))

	g, ok := h.game(w, r, id)
	if !ok {
		return
	}

	log := logger.WithPlayer(h.logger, id.String()).With("action", req.Action)
	ctx := r.Context()
	var (
		result    any
		deathSeen *survival.Death
		day       int
		vitals    survival.Vitals
	)
	messages, err := g.Do(func(e *survival.Engine) error {
		before := e.LastDeath()
		var err error
		result, err = h.perform(ctx, e, req)
		if err != nil {
			return err
		}
		if req.Action != "radiation" {
			if err := e.Save(ctx); err != nil {
				log.Warn("Failed to save after action", "error", err)
			}
		}
		if d := e.LastDeath(); d != nil && d != before {
			deathSeen = d
		}
		day, vitals = e.Day(), e.Vitals()
		return nil
	})
	if err != nil {
		status, msg := actionError(err)
		log.Debug("Action rejected", "error", err)
		writeError(w, h.logger, status, msg)
		return
	}

	if h.publisher != nil {
		switch req.Action {
		case "rest":
			_ = h.publisher.PublishDayCompleted(ctx, id.String(), day, vitals)
		case "resolve":
			if o, ok := result.(survival.Outcome); ok {
				_ = h.publisher.PublishEncounterResolved(ctx, id.String(), o)
			}
		}
		if deathSeen != nil {
			_ = h.publisher.PublishPlayerDied(ctx, id.String(), *deathSeen)
		}
	}

	writeJSON(w, h.logger, http.StatusOK, GameResponse{State: g.View(), Messages: nonNil(messages), Result: result})
}

var errUnknownAction = errors.New("unknown action")

// perform dispatches one player action to the engine.
func (h *GameHandler) perform(ctx context.Context, e *survival.Engine, req ActionRequest) (any, error) {
	switch req.Action {
	case "rest":
		return nil, e.Rest(ctx)
	case "explore":
		kind, err := e.BeginExpedition()
		if err != nil {
			return nil, err
		}
		return map[string]string{"encounter": string(kind)}, nil
	case "resolve":
		return e.ResolveEncounter(ctx)
	case "bunker":
		item, ok := e.CheckBunker()
		return map[string]any{"found": ok, "item": item}, nil
	case "use":
		if req.Item != "" {
			return nil, e.UseItemByName(req.Item)
		}
		if req.Index == nil {
			return nil, survival.ErrInvalidSlot
		}
		return nil, e.UseItem(*req.Index)
	case "companion":
		return map[string]bool{"used": e.UseCompanion()}, nil
	case "upgrade":
		name, ok := e.UpgradeBase()
		return map[string]any{"applied": ok, "upgrade": name}, nil
	case "craft":
		name, ok := e.Craft()
		return map[string]any{"crafted": ok, "item": name}, nil
	case "redeem":
		return nil, e.RedeemGiftCode(req.Code)
	case "radiation":
		return map[string]string{"level": e.CheckRadiation()}, nil
	default:
		return nil, errUnknownAction
	}
}

func actionError(err error) (int, string) {
	switch {
	case errors.Is(err, errUnknownAction):
		return http.StatusBadRequest, "Unknown action. Supported: rest, explore, resolve, bunker, use, companion, upgrade, craft, redeem, radiation"
	case errors.Is(err, survival.ErrInvalidSlot), errors.Is(err, survival.ErrUnknownCode):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, survival.ErrEncounterPending),
		errors.Is(err, survival.ErrNoEncounter),
		errors.Is(err, survival.ErrCodeRedeemed):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "Action failed"
	}
}

func nonNil(entries []survival.Entry) []survival.Entry {
	if entries == nil {
		return []survival.Entry{}
	}
	return entries
}
