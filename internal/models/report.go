package models

import "time"

// ReportEntry is one row of the report generation history.
// Append-only: created exactly once per successful report emission,
// never updated or deleted by the application.
// Username is populated by the join with users on reads; it is not a
// column of the reports table.
type ReportEntry struct {
	ID          int64     `json:"reportId" db:"report_id"`
	UserID      int64     `json:"userId" db:"user_id"`
	Username    string    `json:"username" db:"username"`
	ReportType  string    `json:"reportType" db:"report_type"`
	Details     string    `json:"details" db:"details"`
	GeneratedAt time.Time `json:"generatedAt" db:"generated_at"`
}
