package offline

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/facturio/facturio/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the offline queue.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// Enqueue stores a submission for later delivery.
func (h *Handler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req EnqueueRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	item, err := h.service.Enqueue(r.Context(), ItemInput{
		InvoiceNumber: req.InvoiceNumber,
		Company:       req.Company,
		Customer:      req.Customer,
		Amount:        req.Amount,
		Payload:       req.Payload,
	})
	if err != nil {
		h.logger.Error("enqueue failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// Pending lists queued items oldest first.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	items, err := h.service.PendingItems(r.Context(), limit)
	if err != nil {
		h.logger.Error("list pending failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	httpx.JSON(w, http.StatusOK, PendingResponse{Items: items, Total: len(items)})
}

// Stats counts queue items by status.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("queue stats failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

// PurgeSent removes delivered items.
func (h *Handler) PurgeSent(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.PurgeSent(r.Context())
	if err != nil {
		h.logger.Error("purge sent failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, PurgeResponse{Removed: removed})
}
