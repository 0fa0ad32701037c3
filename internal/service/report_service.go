// Package service orchestrates the report pipeline: fetch records, apply the
// requested ordering, render the document, and record the generation in the
// history log.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/berwahousing/records-backend/internal/models"
	"github.com/berwahousing/records-backend/internal/pkg/metrics"
	"github.com/berwahousing/records-backend/internal/report"
	"github.com/berwahousing/records-backend/internal/repository"
)

// ReportService builds client reports and maintains the generation history.
type ReportService struct {
	clients repository.ClientRepository
	reports repository.ReportRepository
	now     func() time.Time
}

// NewReportService creates a report service over the given repositories.
func NewReportService(clients repository.ClientRepository, reports repository.ReportRepository) *ReportService {
	return &ReportService{clients: clients, reports: reports, now: time.Now}
}

// Generate fetches all client records and renders them in the requested
// format. It returns the document and the record count at formatting time.
// The count is taken before rendering so the history entry written later
// matches the document content exactly.
func (s *ReportService) Generate(ctx context.Context, kind report.Kind, opts report.Options) (*report.Document, int, error) {
	start := s.now()

	records, err := s.clients.ListClients(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch clients: %w", err)
	}

	// The type filter (active/inactive) is accepted but ignored: client
	// records carry no status attribute.
	report.SortRecords(records, opts.SortBy)

	count := len(records)
	doc, err := report.Build(records, opts, kind, s.now())
	if err != nil {
		return nil, 0, err
	}

	metrics.ReportBuildDurationSeconds.WithLabelValues(kind.Label()).Observe(s.now().Sub(start).Seconds())
	return doc, count, nil
}

// RecordGeneration appends one history entry for a delivered report. Called
// only after the document bytes have been streamed; the entry is therefore
// best-effort and a failure here cannot be surfaced to the caller anymore.
func (s *ReportService) RecordGeneration(ctx context.Context, userID int64, kind report.Kind, count int) error {
	entry := &models.ReportEntry{
		UserID:      userID,
		ReportType:  kind.Label(),
		Details:     fmt.Sprintf("Client report with %d records", count),
		GeneratedAt: s.now(),
	}
	if err := s.reports.CreateReportEntry(ctx, entry); err != nil {
		return fmt.Errorf("record report generation: %w", err)
	}
	metrics.ReportsGeneratedTotal.WithLabelValues(kind.Label()).Inc()
	return nil
}

// ListHistory returns all history entries joined with the generator
// username, newest first. Filtering and column sorting are applied by the
// consumer on the full list.
func (s *ReportService) ListHistory(ctx context.Context) ([]*models.ReportEntry, error) {
	entries, err := s.reports.ListReportEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list report history: %w", err)
	}
	return entries, nil
}
