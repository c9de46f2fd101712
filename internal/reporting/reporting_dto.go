package reporting

import (
	"time"

	"github.com/google/uuid"
)

// SessionSummary counts statuses for one session against the full member
// roster. Absent includes members with no stored record.
type SessionSummary struct {
	SessionID   uuid.UUID `json:"session_id"`
	SessionName string    `json:"session_name"`
	MemberCount int64     `json:"member_count"`
	Present     int64     `json:"present"`
	Late        int64     `json:"late"`
	Absent      int64     `json:"absent"`
}

// OrganizationSummary is the tenant-wide rollup.
type OrganizationSummary struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	SessionCount   int64     `json:"session_count"`
	MemberCount    int64     `json:"member_count"`
	RecordCount    int64     `json:"record_count"`
	Present        int64     `json:"present"`
	Late           int64     `json:"late"`
	Absent         int64     `json:"absent"`
}

// MonthlyBucket is one month of record counts in a yearly summary.
type MonthlyBucket struct {
	Month   int   `json:"month"`
	Present int64 `json:"present"`
	Late    int64 `json:"late"`
	Absent  int64 `json:"absent"`
}

// WindowSummary totals records over a time window.
type WindowSummary struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Present int64     `json:"present"`
	Late    int64     `json:"late"`
	Absent  int64     `json:"absent"`
}

type windowQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}
