package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vanshika/muletrace/internal/ingest"
	"github.com/vanshika/muletrace/internal/service"
)

// APIHandlers exposes the analysis endpoints.
type APIHandlers struct {
	logger         *slog.Logger
	service        *service.AnalysisService
	maxUploadBytes int64
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.AnalysisService, maxUploadBytes int64) *APIHandlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 64 << 20
	}
	return &APIHandlers{
		logger:         logger,
		service:        svc,
		maxUploadBytes: maxUploadBytes,
	}
}

// handleUpload accepts a multipart CSV upload (field name "file") and
// responds with the full analysis report.
func (h *APIHandlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	report, err := h.service.AnalyzeCSV(r.Context(), file)
	if err != nil {
		h.respondAnalysisError(w, err, "csv upload analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// handleAnalyze accepts a JSON array of transaction records and responds
// with the full analysis report.
func (h *APIHandlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	txs, err := ingest.ReadJSON(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.AnalyzeBatch(r.Context(), txs)
	if err != nil {
		h.respondAnalysisError(w, err, "batch analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *APIHandlers) respondAnalysisError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrBatchTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		h.logger.Error(logMsg, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
