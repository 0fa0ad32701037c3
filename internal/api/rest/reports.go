package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/berwahousing/records-backend/internal/auth"
	"github.com/berwahousing/records-backend/internal/models"
	"github.com/berwahousing/records-backend/internal/pkg/logger"
	"github.com/berwahousing/records-backend/internal/report"
)

// GenerateClientReport handles GET /reports/clients/{format}.
// The pipeline: fetch records, sort, render, stream the document, then
// append one history entry. Streaming and the history insert are not
// transactional: once bytes are on the wire the document is delivered, and
// a failed history insert can only be logged.
func (h *Handler) GenerateClientReport(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	kind, err := report.ParseKind(mux.Vars(r)["format"])
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	opts := report.ParseOptions(r.URL.Query())

	doc, count, err := h.reports.Generate(r.Context(), kind, opts)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	if _, err := w.Write(doc.Data); err != nil {
		// Client went away mid-stream; nothing was fully delivered, so no
		// history entry is written.
		slog.Warn("report stream aborted",
			"request_id", logger.FromContext(r.Context()),
			"format", kind.Label(),
			"error", err,
		)
		return
	}

	if err := h.reports.RecordGeneration(r.Context(), claims.UserID, kind, count); err != nil {
		// The document is already delivered; the caller cannot be told.
		slog.Error("report history entry lost",
			"request_id", logger.FromContext(r.Context()),
			"user", claims.Username,
			"format", kind.Label(),
			"error", err,
		)
	}
}

// ListReports handles GET /reports: the full history joined with generator
// usernames, newest first. The SPA applies any filtering and column sorting
// to the returned list.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reports.ListHistory(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*models.ReportEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}
