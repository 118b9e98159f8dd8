// AngelaMos | 2026
// handler.go

package auth

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
	cookie    CookieSettings
	validator *validator.Validate
}

func NewHandler(service *Service, cookie CookieSettings) *Handler {
	return &Handler{
		service:   service,
		cookie:    cookie,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the account endpoints. limiter guards the
// credential endpoints and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter)
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		r.Post("/logout", h.Logout)

		r.With(authenticator).Get("/me", h.GetMe)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	req.Normalize()
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	session, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			core.JSONError(w, core.ConflictError("Email already in use"))
			return
		}
		core.JSONError(w, err)
		return
	}

	h.cookie.Set(w, session.Token, session.ExpiresAt)
	core.Created(w, AuthResponse{User: session.User})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	req.Normalize()
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	session, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.Unauthorized(w, "Invalid credentials")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.cookie.Set(w, session.Token, session.ExpiresAt)
	core.OK(w, AuthResponse{User: session.User})
}

func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookie.Clear(w)
	core.Message(w, "Logged out")
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, AuthResponse{User: *user})
}
