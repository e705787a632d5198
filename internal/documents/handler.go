package documents

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/belegwerk/belegwerk/internal/platform/httpx"
)

// Handler exposes the document endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create document", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListDocumentsRequest{Limit: 50}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		k := Kind(kind)
		req.Kind = &k
	}
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			req.CustomerID = &id
		}
	}

	docs, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, "list documents", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

// Render generates the PDF for a document and returns it inline. The
// document keeps its number across repeated renders.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	doc, data, err := h.service.Render(r.Context(), id)
	if err != nil {
		h.respondError(w, "render document", err)
		return
	}
	h.servePDF(w, *doc.Number, data)
}

// ConvertOffer derives and renders an order confirmation from an offer.
func (h *Handler) ConvertOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	doc, data, err := h.service.ConvertOfferToConfirmation(r.Context(), id)
	if err != nil {
		h.respondError(w, "convert offer", err)
		return
	}
	h.servePDF(w, *doc.Number, data)
}

// ConvertConfirmation derives and renders an invoice from a confirmation.
func (h *Handler) ConvertConfirmation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	doc, data, err := h.service.ConvertConfirmationToInvoice(r.Context(), id)
	if err != nil {
		h.respondError(w, "convert confirmation", err)
		return
	}
	h.servePDF(w, *doc.Number, data)
}

// Download serves the stored page stream of an already rendered document.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	data, err := h.service.DocumentPDF(r.Context(), id)
	if err != nil {
		h.respondError(w, "download document", err)
		return
	}
	httpx.PDF(w, "dokument.pdf", data)
}

func (h *Handler) servePDF(w http.ResponseWriter, number string, data []byte) {
	httpx.PDF(w, number+".pdf", data)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrWrongKind), errors.Is(err, ErrNotFinalized):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
