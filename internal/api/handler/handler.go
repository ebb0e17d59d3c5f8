// Package handler implements the HTTP handlers for the scheduling API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carwyn/sixnations/internal/engine"
	"github.com/carwyn/sixnations/internal/model"
	"github.com/carwyn/sixnations/internal/store"
)

// Repository is the slice of the store the handlers use. Kept as an
// interface so tests can run against an in-memory fake.
type Repository interface {
	ListTeams(ctx context.Context) ([]model.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (model.Team, error)
	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)
	UpdateTeam(ctx context.Context, t model.Team) error
	DeleteTeam(ctx context.Context, id uuid.UUID) error

	ListStadiums(ctx context.Context) ([]model.Stadium, error)
	GetStadium(ctx context.Context, id uuid.UUID) (model.Stadium, error)
	CreateStadium(ctx context.Context, st model.Stadium) (model.Stadium, error)
	UpdateStadium(ctx context.Context, st model.Stadium) error
	DeleteStadium(ctx context.Context, id uuid.UUID) error

	ListPlayers(ctx context.Context, teamID *uuid.UUID) ([]model.Player, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (model.Player, error)
	CreatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	UpdatePlayer(ctx context.Context, p model.Player) error
	DeletePlayer(ctx context.Context, id uuid.UUID) error

	ListFixtures(ctx context.Context, season int) ([]model.Fixture, error)
	GetFixture(ctx context.Context, id uuid.UUID) (model.Fixture, error)
	DeleteFixture(ctx context.Context, id uuid.UUID) error

	StageProvisional(ctx context.Context, season int, fixtures []model.Fixture) error
	ListProvisional(ctx context.Context, season int) ([]model.Fixture, error)
	PromoteProvisional(ctx context.Context, season int) (int, error)
	DiscardProvisional(ctx context.Context, season int) error

	HealthCheck(ctx context.Context) error
}

// Generator runs one schedule generation. Implemented by *engine.Engine.
type Generator interface {
	Generate(ctx context.Context, teams []model.Team, season int, opts engine.Options) (*model.Schedule, error)
}

// Handler bundles the dependencies of all routes.
type Handler struct {
	repo      Repository
	generator Generator
	logger    *zap.Logger
}

// New creates a Handler.
func New(repo Repository, generator Generator, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, generator: generator, logger: logger}
}

// --- helpers ---

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps the engine error taxonomy and store sentinel errors to
// HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var (
		validationErr *engine.ValidationError
		schedulingErr *engine.SchedulingError
		lookupErr     *engine.DataLookupError
	)
	switch {
	case errors.As(err, &validationErr):
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &schedulingErr):
		h.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	// A DataLookupError may wrap ErrNotFound (roster team with no stadium
	// row), which is a failed generation, not a missing resource.
	case errors.As(err, &lookupErr):
		h.logger.Error("data lookup failed", zap.Error(err))
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		h.respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func seasonQuery(r *http.Request) (int, bool) {
	season, err := strconv.Atoi(r.URL.Query().Get("season"))
	return season, err == nil && season > 0
}

// --- health ---

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) HealthDB(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.HealthCheck(r.Context()); err != nil {
		h.respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- teams ---

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.repo.ListTeams(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, teams)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	team, err := h.repo.GetTeam(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, team)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var team model.Team
	if !h.decode(w, r, &team) {
		return
	}
	created, err := h.repo.CreateTeam(r.Context(), team)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var team model.Team
	if !h.decode(w, r, &team) {
		return
	}
	team.ID = id
	if err := h.repo.UpdateTeam(r.Context(), team); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, team)
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteTeam(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- stadiums ---

func (h *Handler) ListStadiums(w http.ResponseWriter, r *http.Request) {
	stadiums, err := h.repo.ListStadiums(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, stadiums)
}

func (h *Handler) GetStadium(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	stadium, err := h.repo.GetStadium(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, stadium)
}

func (h *Handler) CreateStadium(w http.ResponseWriter, r *http.Request) {
	var stadium model.Stadium
	if !h.decode(w, r, &stadium) {
		return
	}
	created, err := h.repo.CreateStadium(r.Context(), stadium)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateStadium(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var stadium model.Stadium
	if !h.decode(w, r, &stadium) {
		return
	}
	stadium.ID = id
	if err := h.repo.UpdateStadium(r.Context(), stadium); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, stadium)
}

func (h *Handler) DeleteStadium(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteStadium(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- players ---

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	var teamID *uuid.UUID
	if raw := r.URL.Query().Get("team_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid team_id"})
			return
		}
		teamID = &id
	}
	players, err := h.repo.ListPlayers(r.Context(), teamID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, players)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	player, err := h.repo.GetPlayer(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, player)
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var player model.Player
	if !h.decode(w, r, &player) {
		return
	}
	created, err := h.repo.CreatePlayer(r.Context(), player)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var player model.Player
	if !h.decode(w, r, &player) {
		return
	}
	player.ID = id
	if err := h.repo.UpdatePlayer(r.Context(), player); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, player)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeletePlayer(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- fixtures ---

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonQuery(r)
	if !ok {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "season query parameter required"})
		return
	}
	fixtures, err := h.repo.ListFixtures(r.Context(), season)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, fixtures)
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	fixture, err := h.repo.GetFixture(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, fixture)
}

func (h *Handler) DeleteFixture(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteFixture(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- schedule generation ---

type generateRequest struct {
	Season        int    `json:"season"`
	VenueStrategy string `json:"venue_strategy"`
	RoundOrdering string `json:"round_ordering"`
	RestWeeks     []int  `json:"rest_weeks"`
	Seed          *int64 `json:"seed"`
}

type generateResponse struct {
	Season   int             `json:"season"`
	Fixtures []model.Fixture `json:"fixtures"`
	Summary  []string        `json:"summary"`
	Staged   bool            `json:"staged"`
}

// GenerateSchedule runs the engine over the stored roster and stages the
// result as provisional fixtures for review.
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Season <= 0 {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "season is required"})
		return
	}

	teams, err := h.repo.ListTeams(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	schedule, err := h.generator.Generate(r.Context(), teams, req.Season, engine.Options{
		VenueStrategy: req.VenueStrategy,
		RoundOrdering: req.RoundOrdering,
		RestWeeks:     req.RestWeeks,
		Seed:          req.Seed,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.repo.StageProvisional(r.Context(), req.Season, schedule.Fixtures); err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("schedule generated",
		zap.Int("season", req.Season),
		zap.Int("fixtures", len(schedule.Fixtures)),
	)
	h.respondJSON(w, http.StatusOK, generateResponse{
		Season:   req.Season,
		Fixtures: schedule.Fixtures,
		Summary:  schedule.Summary,
		Staged:   true,
	})
}

// ListProvisional returns the staged schedule for a season.
func (h *Handler) ListProvisional(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonQuery(r)
	if !ok {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "season query parameter required"})
		return
	}
	fixtures, err := h.repo.ListProvisional(r.Context(), season)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, fixtures)
}

type promoteRequest struct {
	Season int `json:"season"`
}

// PromoteSchedule makes the staged fixtures authoritative.
func (h *Handler) PromoteSchedule(w http.ResponseWriter, r *http.Request) {
	var req promoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	promoted, err := h.repo.PromoteProvisional(r.Context(), req.Season)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logger.Info("schedule promoted", zap.Int("season", req.Season), zap.Int("fixtures", promoted))
	h.respondJSON(w, http.StatusOK, map[string]int{"promoted": promoted})
}

// DiscardProvisional drops the staged schedule for a season.
func (h *Handler) DiscardProvisional(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonQuery(r)
	if !ok {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "season query parameter required"})
		return
	}
	if err := h.repo.DiscardProvisional(r.Context(), season); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
