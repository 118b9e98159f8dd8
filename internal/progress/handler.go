// AngelaMos | 2026
// handler.go

package progress

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/codeburry/api/internal/core"
	"github.com/codeburry/api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Get("/leaderboard", h.Leaderboard)

	r.Route("/progress", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Post("/lessons/complete", h.CompleteLesson)
		r.Post("/water", h.Water)
		r.Post("/trees", h.PlantTree)
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeProgressError(w, err)
		return
	}
	core.OK(w, resp)
}

func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CompleteLesson(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeProgressError(w, err)
		return
	}
	core.OK(w, resp)
}

func (h *Handler) Water(w http.ResponseWriter, r *http.Request) {
	var req WaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Water(r.Context(), middleware.GetUserID(r.Context()), req.Amount)
	if err != nil {
		writeProgressError(w, err)
		return
	}
	core.OK(w, resp)
}

func (h *Handler) PlantTree(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.PlantTree(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeProgressError(w, err)
		return
	}
	core.OK(w, resp)
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, LeaderboardResponse{Entries: entries})
}

func writeProgressError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "User")
		return
	}
	core.JSONError(w, err)
}
