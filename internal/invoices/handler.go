package invoices

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/excel"
	"github.com/facturio/facturio/internal/observability"
	"github.com/facturio/facturio/internal/platform/httpx"
)

// Handler exposes the batch validation endpoint.
type Handler struct {
	logger         *slog.Logger
	metrics        *observability.Metrics
	uploadMaxBytes int64
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, metrics *observability.Metrics, uploadMaxBytes int64) *Handler {
	return &Handler{logger: logger, metrics: metrics, uploadMaxBytes: uploadMaxBytes}
}

// Validate accepts a multipart workbook upload, parses both sheets and runs
// every validation check. Load failures are reported as a single problem,
// never as a validation error list.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", "multipart field \"file\" is required")
		return
	}
	defer func() { _ = file.Close() }()

	batch, err := excel.LoadReader(file)
	if err != nil {
		h.logger.Warn("parse workbook failed", slog.String("file", header.Filename), slog.Any("error", err))
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Workbook", err.Error())
		return
	}

	result := Validate(header.Filename, &batch.Invoices, &batch.Concepts)
	h.metrics.ObserveBatch(result.Valid, result.CountByCategory())

	resp := ValidateResponse{
		BatchID:      uuid.NewString(),
		SourceFile:   header.Filename,
		Valid:        result.Valid,
		InvoiceCount: batch.Invoices.Len(),
		ConceptCount: batch.Concepts.Len(),
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		Errors:       result.Errors,
	}
	if result.Valid {
		resp.Totals = BatchTotals(BindRows(&batch.Invoices), BindConcepts(&batch.Concepts))
	}

	h.logger.Info("batch validated",
		slog.String("batch_id", resp.BatchID),
		slog.String("file", header.Filename),
		slog.Bool("valid", result.Valid),
		slog.Int("errors", resp.ErrorCount),
		slog.Int("warnings", resp.WarningCount),
	)
	httpx.JSON(w, http.StatusOK, resp)
}
