package profiles

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/belegwerk/belegwerk/internal/platform/httpx"
)

// maxBrandingBytes caps uploaded logo and letterhead images.
const maxBrandingBytes = 5 << 20

// Handler serves the profile and billing settings endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a profile handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// Show handles GET /profiles/{id}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Update handles PUT /profiles/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "validation failed", err.Error())
		return
	}
	p, err := h.service.UpdateProfile(r.Context(), id, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// ShowSettings handles GET /profiles/{id}/settings.
func (h *Handler) ShowSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s, err := h.service.GetSettings(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// SaveSettings handles PUT /profiles/{id}/settings.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req SettingsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "validation failed", err.Error())
		return
	}
	s, err := h.service.SaveSettings(r.Context(), id, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// UploadBranding handles POST /profiles/{id}/{slot} where slot is logo or
// letterhead. The body is the raw image.
func (h *Handler) UploadBranding(slot BrandingSlot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBrandingBytes+1))
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "read upload", err.Error())
			return
		}
		if len(data) == 0 {
			httpx.Problem(w, http.StatusBadRequest, "empty upload", "")
			return
		}
		if len(data) > maxBrandingBytes {
			httpx.Problem(w, http.StatusRequestEntityTooLarge, "upload too large", "")
			return
		}
		p, err := h.service.UploadBranding(r.Context(), id, slot, data)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusOK, p)
	}
}

// RemoveBranding handles DELETE /profiles/{id}/{slot}.
func (h *Handler) RemoveBranding(slot BrandingSlot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		p, err := h.service.RemoveBranding(r.Context(), id, slot)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusOK, p)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "profile not found", "")
	case errors.Is(err, ErrUnsupportedImage):
		httpx.Problem(w, http.StatusUnsupportedMediaType, "unsupported image format", err.Error())
	default:
		h.logger.Error("profile request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "internal error", "")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "invalid id", "")
		return 0, false
	}
	return id, true
}
