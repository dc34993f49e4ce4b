package history

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/facturio/facturio/internal/platform/httpx"
	"github.com/facturio/facturio/internal/shared"
)

// Handler wires HTTP endpoints for the submission history.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// List returns history entries matching the query-string filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	dateFrom, err := parseDateParam(r.URL.Query().Get("date_from"), false)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "date_from must be YYYY-MM-DD")
		return
	}
	dateTo, err := parseDateParam(r.URL.Query().Get("date_to"), true)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "date_to must be YYYY-MM-DD")
		return
	}

	filter := Filter{
		Company:  r.URL.Query().Get("company"),
		Customer: r.URL.Query().Get("customer"),
		Status:   Status(r.URL.Query().Get("status")),
		Search:   r.URL.Query().Get("search"),
		DateFrom: dateFrom,
		DateTo:   dateTo,
	}
	if r.URL.Query().Has("page") || r.URL.Query().Has("per_page") {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		p := shared.NewPagination(page, perPage, 0)
		filter.Limit = p.PerPage
		filter.Offset = p.Offset()
	}

	entries, err := h.service.LoadHistory(r.Context(), filter)
	if err != nil {
		h.logger.Error("load history failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Entries: entries, Total: len(entries)})
}

// GetStats returns aggregate stats over a trailing window.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	if company == "" {
		company = AllCompanies
	}
	periodDays := 30
	if raw := r.URL.Query().Get("period_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "period_days must be an integer")
			return
		}
		periodDays = n
	}

	stats, err := h.service.GetStats(r.Context(), company, periodDays)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidPeriod) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
			return
		}
		h.logger.Error("get stats failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

// Dashboard returns the cached headline numbers.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

// SaveBatch persists submission outcomes.
func (h *Handler) SaveBatch(w http.ResponseWriter, r *http.Request) {
	var req SaveBatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	inputs := make([]EntryInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		in := EntryInput{
			InvoiceNumber: e.InvoiceNumber,
			Company:       e.Company,
			Customer:      e.Customer,
			Status:        Status(e.Status),
			Amount:        e.Amount,
			PDFURL:        e.PDFURL,
			Details:       e.Details,
		}
		if e.SentAt != nil {
			in.SentAt = *e.SentAt
		}
		if req.SourceFile != "" {
			src := req.SourceFile
			in.SourceFile = &src
		}
		inputs = append(inputs, in)
	}

	saved, err := h.service.SaveBatch(r.Context(), inputs)
	if err != nil {
		h.logger.Error("save batch failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("batch saved", slog.Int("entries", saved))
	httpx.JSON(w, http.StatusCreated, SaveBatchResponse{Saved: saved})
}

// UpdatePDFPath links a downloaded PDF to its history entry.
func (h *Handler) UpdatePDFPath(w http.ResponseWriter, r *http.Request) {
	var req UpdatePDFPathRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.UpdatePDFPath(r.Context(), req.InvoiceNumber, req.Company, req.LocalPath); err != nil {
		h.logger.Error("update pdf path failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear removes the full history and reports the removed count.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.ClearHistory(r.Context())
	if err != nil {
		h.logger.Error("clear history failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("history cleared", slog.Int64("removed", removed))
	httpx.JSON(w, http.StatusOK, ClearResponse{Removed: removed})
}

// Companies lists distinct companies for filter selection.
func (h *Handler) Companies(w http.ResponseWriter, r *http.Request) {
	h.listDistinct(w, r, h.service.ListCompanies)
}

// Customers lists distinct customers for filter selection.
func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	h.listDistinct(w, r, h.service.ListCustomers)
}

func (h *Handler) listDistinct(w http.ResponseWriter, r *http.Request, load func(ctx context.Context) ([]string, error)) {
	values, err := load(r.Context())
	if err != nil {
		h.logger.Error("list distinct failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	httpx.JSON(w, http.StatusOK, values)
}

// parseDateParam accepts YYYY-MM-DD; endOfDay extends to the last instant so
// "to" filters are inclusive. A malformed value is the caller's error, never
// a dropped predicate.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
