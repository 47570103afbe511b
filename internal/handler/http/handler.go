package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"shortlinks/internal/domain"
)

// LinkService defines the service methods needed by the handler
// Using an interface instead of the concrete type allows for easy mocking in tests
type LinkService interface {
	Create(ctx context.Context, url, code string) (*domain.Link, error)
	Get(ctx context.Context, code string) (*domain.Link, error)
	List(ctx context.Context) ([]*domain.Link, error)
	Delete(ctx context.Context, code string) error
	RecordClick(ctx context.Context, code string) error
	Resolve(ctx context.Context, code string) (string, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	links  LinkService
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(links LinkService, logger *slog.Logger) *Handler {
	return &Handler{
		links:  links,
		logger: logger,
	}
}

// Request DTOs - kept separate from domain models so the API contract
// stays stable even if the domain changes

type CreateLinkRequest struct {
	URL  string `json:"url"`
	Code string `json:"code,omitempty"`
}

type UpdateLinkRequest struct {
	Action string `json:"action"`
}

// Routes builds the ServeMux for the service
// The redirect wildcard is the least specific pattern, so the literal
// /links, /healthz and /metrics routes always win over it
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /links", h.CreateLink)
	mux.HandleFunc("GET /links", h.ListLinks)
	mux.HandleFunc("GET /links/{code}", h.GetLink)
	mux.HandleFunc("DELETE /links/{code}", h.DeleteLink)
	mux.HandleFunc("PATCH /links/{code}", h.UpdateLink)
	mux.HandleFunc("GET /healthz", h.Health)

	// Public redirect route
	mux.HandleFunc("GET /{code}", h.Redirect)

	return mux
}

// CreateLink handles POST /links
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid URL")
		return
	}
	defer r.Body.Close()

	link, err := h.links.Create(r.Context(), req.URL, req.Code)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, link)
}

// ListLinks handles GET /links
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, links)
}

// GetLink handles GET /links/{code}
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	link, err := h.links.Get(r.Context(), code)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, link)
}

// DeleteLink handles DELETE /links/{code}
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	if err := h.links.Delete(r.Context(), code); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "Link deleted successfully")
}

// UpdateLink handles PATCH /links/{code}
// The only supported action is "click", which records a click without
// going through the public redirect
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var req UpdateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid action")
		return
	}
	defer r.Body.Close()

	if req.Action != "click" {
		respondError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	if err := h.links.RecordClick(r.Context(), code); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "Click recorded")
}

// Redirect handles GET /{code}, the public redirect route
// The click increment happens before the redirect is written; a failed
// increment surfaces as an error instead of silently losing the count
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	target, err := h.links.Resolve(r.Context(), code)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	// 302 rather than 301: targets can be deleted and codes reassigned,
	// so clients must not cache the mapping permanently
	http.Redirect(w, r, target, http.StatusFound)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"version": "1.0",
	})
}

// respondServiceError maps service errors onto HTTP status codes
// Not-found responses stay generic: the caller cannot tell a malformed
// code from a missing one. Unclassified errors are logged with detail
// server-side and answered with a generic 500 body.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		respondError(w, http.StatusBadRequest, "Invalid URL")
	case errors.Is(err, domain.ErrInvalidCode):
		respondError(w, http.StatusBadRequest, "Code must be 6-8 alphanumeric characters")
	case errors.Is(err, domain.ErrCodeConflict):
		respondError(w, http.StatusConflict, "Code already exists")
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "Link not found")
	default:
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
