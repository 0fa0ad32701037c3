// Package report renders client records into downloadable documents.
// Rendering is a pure transformation: identical records, options, and
// generation time produce identical document content.
package report

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/berwahousing/records-backend/internal/models"
)

// Kind identifies a target document format.
type Kind string

const (
	// KindPDF is the tabular-print (paginated, human-readable) format.
	KindPDF Kind = "pdf"
	// KindExcel is the spreadsheet format.
	KindExcel Kind = "excel"
)

// FormatError reports an unsupported target format.
type FormatError struct {
	Kind string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported report format %q", e.Kind)
}

// ParseKind validates a format string from the request path.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindPDF:
		return KindPDF, nil
	case KindExcel:
		return KindExcel, nil
	default:
		return "", &FormatError{Kind: s}
	}
}

// Label is the report type recorded in the history log.
func (k Kind) Label() string {
	if k == KindExcel {
		return "Excel"
	}
	return "PDF"
}

// Ext is the download file extension.
func (k Kind) Ext() string {
	if k == KindExcel {
		return "xlsx"
	}
	return "pdf"
}

// ContentType is the response MIME type.
func (k Kind) ContentType() string {
	if k == KindExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Sort field values accepted in the request.
const (
	SortByName = "name"
	SortByDate = "date"
)

// Type filter values accepted in the request. Active/inactive are declared
// by the frontend but no status attribute exists on client records, so the
// filter is accepted and ignored.
const (
	TypeAll      = "all"
	TypeActive   = "active"
	TypeInactive = "inactive"
)

// Options is the per-request option set. Constructed once, consumed once.
type Options struct {
	Type           string
	IncludeAddress bool
	IncludeNotes   bool
	SortBy         string
}

// DefaultOptions mirrors the frontend's initial state.
func DefaultOptions() Options {
	return Options{Type: TypeAll, IncludeAddress: true, IncludeNotes: false, SortBy: SortByName}
}

// ParseOptions reads options from request query parameters. Unknown or
// missing values fall back to defaults.
func ParseOptions(q url.Values) Options {
	opts := DefaultOptions()

	switch q.Get("type") {
	case TypeActive:
		opts.Type = TypeActive
	case TypeInactive:
		opts.Type = TypeInactive
	}
	if v, err := strconv.ParseBool(q.Get("address")); err == nil {
		opts.IncludeAddress = v
	}
	if v, err := strconv.ParseBool(q.Get("notes")); err == nil {
		opts.IncludeNotes = v
	}
	if q.Get("sort") == SortByDate {
		opts.SortBy = SortByDate
	}
	return opts
}

// SortRecords orders records in place by the requested field. The sort is
// stable so records that compare equal keep their store order.
func SortRecords(records []*models.Client, sortBy string) {
	switch sortBy {
	case SortByDate:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		})
	case SortByName:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Name) < strings.ToLower(records[j].Name)
		})
	}
}

// Document is a rendered report ready to stream to the caller.
type Document struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Filename returns the suggested download name for a report generated at the
// given time: clients-report-<epoch-millis>.<ext>.
func Filename(kind Kind, generatedAt time.Time) string {
	return fmt.Sprintf("clients-report-%d.%s", generatedAt.UnixMilli(), kind.Ext())
}

// Build renders records into the requested format. Records are rendered in
// the order supplied; callers sort beforehand if they want an ordering.
// generatedAt is the only timestamp that may appear in the document and is
// pinned so output is deterministic for identical input.
func Build(records []*models.Client, opts Options, kind Kind, generatedAt time.Time) (*Document, error) {
	var data []byte
	var err error

	switch kind {
	case KindPDF:
		data, err = buildPDF(records, opts, generatedAt)
	case KindExcel:
		data, err = buildExcel(records)
	default:
		return nil, &FormatError{Kind: string(kind)}
	}
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", kind, err)
	}

	return &Document{
		Data:        data,
		Filename:    Filename(kind, generatedAt),
		ContentType: kind.ContentType(),
	}, nil
}
