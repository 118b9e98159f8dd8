// AngelaMos | 2026
// handler.go

package community

import (
	"encoding/json"
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

// RegisterRoutes mounts the feed. Reads are public; writes need a session
// and are rate limited per user and route when limiter is non-nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/community/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			if limiter != nil {
				r.Use(limiter)
			}

			r.Post("/", h.CreatePost)
			r.Post("/{postID}/like", h.LikePost)
			r.Post("/{postID}/comment", h.AddComment)
		})
	})
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, posts)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	content, ok := h.decodeContent(w, r)
	if !ok {
		return
	}

	post, err := h.service.CreatePost(r.Context(), authorFrom(r), content)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, post)
}

func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	resp, err := h.service.LikePost(r.Context(), postID, middleware.GetUserID(r.Context()))
	if err != nil {
		writeFeedError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	content, ok := h.decodeContent(w, r)
	if !ok {
		return
	}

	resp, err := h.service.AddComment(r.Context(), postID, authorFrom(r), content)
	if err != nil {
		writeFeedError(w, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) decodeContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return "", false
	}

	req.Normalize()
	if req.Content == "" {
		core.BadRequest(w, "Content required")
		return "", false
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return "", false
	}

	return req.Content, true
}

func writeFeedError(w http.ResponseWriter, err error) {
	switch appErr := core.StatusFor(err); {
	case appErr == nil:
		core.InternalServerError(w, err)
	case appErr.Code == "NOT_FOUND":
		core.NotFound(w, "")
	case appErr.Code == "DUPLICATE_ACTION":
		core.JSONError(w, core.DuplicateActionError("Already liked"))
	default:
		core.JSONError(w, appErr)
	}
}

func authorFrom(r *http.Request) Author {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		return Author{}
	}
	return Author{
		ID:     claims.UserID,
		Name:   claims.Name,
		Avatar: claims.Avatar,
	}
}
