package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nathoo/rulekit/editor"
	"github.com/nathoo/rulekit/engine"
	"github.com/nathoo/rulekit/engine/events"
	"github.com/nathoo/rulekit/internal/storage"
	"github.com/nathoo/rulekit/types"
)

// MaxFrames bounds the signal frames accepted by one simulate request.
const MaxFrames = 10000

// Handler serves the script endpoints.
type Handler struct {
	store storage.Store
	log   *slog.Logger
	now   func() time.Time
}

func NewHandler(store storage.Store, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log, now: time.Now}
}

// ScriptInfo is returned after a script is stored.
type ScriptInfo struct {
	ID         uuid.UUID        `json:"id"`
	Warnings   []string         `json:"warnings,omitempty"`
	Statistics types.Statistics `json:"statistics"`
}

// ValidationReport is the body of POST /scripts/validate.
type ValidationReport struct {
	Valid      bool             `json:"valid"`
	Errors     []string         `json:"errors,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
	Statistics types.Statistics `json:"statistics"`
}

// SimulateRequest runs a stored script over a sequence of signal frames.
// A nil Seed draws from the wall clock.
type SimulateRequest struct {
	Seed   *int64          `json:"seed,omitempty"`
	Frames []types.Signals `json:"frames"`
}

// FrameError reports action errors raised during one tick.
type FrameError struct {
	Tick    int    `json:"tick"`
	Message string `json:"message"`
}

// SimulateResponse carries every tick's result and the final state.
type SimulateResponse struct {
	Results     []types.Result      `json:"results"`
	Errors      []FrameError        `json:"errors,omitempty"`
	Outcome     types.GameStateName `json:"outcome"`
	EventCounts map[string]int      `json:"eventCounts"`
	State       *types.State        `json:"state"`
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		_ = c.Error(err)
		fail(c, http.StatusServiceUnavailable, &APIError{Code: ErrorStoreUnavailable, Message: "script store unavailable"})
		return
	}
	respond(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) CreateScript(c *gin.Context) {
	g, ok := h.bindScript(c)
	if !ok {
		return
	}
	report, ok := h.checkScript(c, g)
	if !ok {
		return
	}

	id, err := h.store.Create(c.Request.Context(), g)
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.log.Info("script created", "id", id, "rules", len(g.Rules))
	respond(c, http.StatusCreated, ScriptInfo{ID: id, Warnings: report.Warnings, Statistics: g.Statistics})
}

func (h *Handler) GetScript(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	g, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	respond(c, http.StatusOK, g)
}

func (h *Handler) UpdateScript(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	g, ok := h.bindScript(c)
	if !ok {
		return
	}
	report, ok := h.checkScript(c, g)
	if !ok {
		return
	}

	if err := h.store.Update(c.Request.Context(), id, g); err != nil {
		h.storeError(c, err)
		return
	}
	respond(c, http.StatusOK, ScriptInfo{ID: id, Warnings: report.Warnings, Statistics: g.Statistics})
}

func (h *Handler) DeleteScript(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateScript reports errors and warnings without storing anything.
func (h *Handler) ValidateScript(c *gin.Context) {
	g, ok := h.bindScript(c)
	if !ok {
		return
	}
	ve := editor.Check(g)
	respond(c, http.StatusOK, ValidationReport{
		Valid:      len(ve.Errors) == 0,
		Errors:     ve.Errors,
		Warnings:   ve.Warnings,
		Statistics: types.ComputeStatistics(g),
	})
}

func (h *Handler) SimulateScript(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Sprintf("invalid simulate request: %v", err))
		return
	}
	if len(req.Frames) > MaxFrames {
		badRequest(c, fmt.Sprintf("too many frames: %d (max %d)", len(req.Frames), MaxFrames))
		return
	}

	g, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}

	respond(c, http.StatusOK, h.simulate(g, req))
}

// simulate ticks a fresh engine once per frame, stopping when the game ends.
func (h *Handler) simulate(g *types.GameScript, req SimulateRequest) SimulateResponse {
	var eng *engine.Engine
	if req.Seed != nil {
		eng = engine.NewSeeded(g, *req.Seed)
	} else {
		eng = engine.New(g)
	}
	eng.Logger = h.log
	eng.Now = h.now

	resp := SimulateResponse{
		Results:     []types.Result{},
		EventCounts: map[string]int{},
	}
	for _, frame := range req.Frames {
		if eng.Over() {
			break
		}
		res, err := eng.Tick(frame)
		if err != nil {
			resp.Errors = append(resp.Errors, FrameError{Tick: res.Tick, Message: err.Error()})
		}
		resp.Results = append(resp.Results, res)
		for k, n := range events.Count(res.Events) {
			resp.EventCounts[k] += n
		}
	}
	resp.Outcome = eng.State.GameState
	resp.State = eng.State
	return resp
}

func (h *Handler) bindScript(c *gin.Context) (*types.GameScript, bool) {
	var g types.GameScript
	if err := c.ShouldBindJSON(&g); err != nil {
		badRequest(c, fmt.Sprintf("invalid script document: %v", err))
		return nil, false
	}
	return &g, true
}

// checkScript rejects scripts with validation errors and stamps the
// statistics and modification time on valid ones.
func (h *Handler) checkScript(c *gin.Context, g *types.GameScript) (*editor.ValidationError, bool) {
	ve := editor.Check(g)
	if len(ve.Errors) > 0 {
		fail(c, http.StatusUnprocessableEntity, &APIError{
			Code:     ErrorInvalidScript,
			Message:  "script has validation errors",
			Details:  ve.Errors,
			Warnings: ve.Warnings,
		})
		return nil, false
	}
	g.Statistics = types.ComputeStatistics(g)
	g.LastModified = h.now().UTC().Format(time.RFC3339)
	return ve, true
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		notFound(c)
		return
	}
	_ = c.Error(err)
	internalError(c, "script store error")
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid script id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}
