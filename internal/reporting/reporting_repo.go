package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=reporting_repo.go -destination=mock/reporting_repo_mock.go -package=mock

type Repository interface {
	SessionSummary(ctx context.Context, organizationID, sessionID uuid.UUID) (*SessionSummary, error)
	OrganizationSummary(ctx context.Context, organizationID uuid.UUID) (*OrganizationSummary, error)
	MonthlySummary(ctx context.Context, organizationID uuid.UUID, year int) ([]MonthlyBucket, error)
	WindowSummary(ctx context.Context, organizationID uuid.UUID, from, to time.Time) (*WindowSummary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// sessionSummaryQuery counts per-status against the member roster, so absent
// covers members with no stored record.
const sessionSummaryQuery = `
SELECT
	s.id                                                          AS session_id,
	s.name                                                        AS session_name,
	(SELECT COUNT(*) FROM users u
		WHERE u.organization_id = s.organization_id)              AS member_count,
	COUNT(*) FILTER (WHERE r.status = 'PRESENT')                  AS present,
	COUNT(*) FILTER (WHERE r.status = 'LATE')                     AS late,
	(SELECT COUNT(*) FROM users u
		WHERE u.organization_id = s.organization_id)
		- COUNT(*) FILTER (WHERE r.status IN ('PRESENT', 'LATE')) AS absent
FROM attendance_sessions s
LEFT JOIN attendance_records r ON r.session_id = s.id
WHERE s.organization_id = ? AND s.id = ?
GROUP BY s.id, s.name
`

func (r *repository) SessionSummary(ctx context.Context, organizationID, sessionID uuid.UUID) (*SessionSummary, error) {
	var summary SessionSummary
	err := r.db.WithContext(ctx).
		Raw(sessionSummaryQuery, organizationID, sessionID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	if summary.SessionID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &summary, nil
}

const organizationSummaryQuery = `
SELECT
	? ::uuid                                                 AS organization_id,
	(SELECT COUNT(*) FROM attendance_sessions s
		WHERE s.organization_id = ?)                         AS session_count,
	(SELECT COUNT(*) FROM users u
		WHERE u.organization_id = ?)                         AS member_count,
	COUNT(r.id)                                              AS record_count,
	COUNT(*) FILTER (WHERE r.status = 'PRESENT')             AS present,
	COUNT(*) FILTER (WHERE r.status = 'LATE')                AS late,
	COUNT(*) FILTER (WHERE r.status = 'ABSENT')              AS absent
FROM attendance_records r
WHERE r.organization_id = ?
`

func (r *repository) OrganizationSummary(ctx context.Context, organizationID uuid.UUID) (*OrganizationSummary, error) {
	var summary OrganizationSummary
	err := r.db.WithContext(ctx).
		Raw(organizationSummaryQuery, organizationID, organizationID, organizationID, organizationID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

const monthlySummaryQuery = `
SELECT
	EXTRACT(MONTH FROM r.timestamp)::int           AS month,
	COUNT(*) FILTER (WHERE r.status = 'PRESENT')   AS present,
	COUNT(*) FILTER (WHERE r.status = 'LATE')      AS late,
	COUNT(*) FILTER (WHERE r.status = 'ABSENT')    AS absent
FROM attendance_records r
WHERE r.organization_id = ?
	AND EXTRACT(YEAR FROM r.timestamp) = ?
GROUP BY month
ORDER BY month ASC
`

func (r *repository) MonthlySummary(ctx context.Context, organizationID uuid.UUID, year int) ([]MonthlyBucket, error) {
	var buckets []MonthlyBucket
	err := r.db.WithContext(ctx).
		Raw(monthlySummaryQuery, organizationID, year).
		Scan(&buckets).Error
	return buckets, err
}

const windowSummaryQuery = `
SELECT
	COUNT(*) FILTER (WHERE r.status = 'PRESENT')   AS present,
	COUNT(*) FILTER (WHERE r.status = 'LATE')      AS late,
	COUNT(*) FILTER (WHERE r.status = 'ABSENT')    AS absent
FROM attendance_records r
WHERE r.organization_id = ?
	AND r.timestamp >= ? AND r.timestamp < ?
`

func (r *repository) WindowSummary(ctx context.Context, organizationID uuid.UUID, from, to time.Time) (*WindowSummary, error) {
	var summary WindowSummary
	err := r.db.WithContext(ctx).
		Raw(windowSummaryQuery, organizationID, from, to).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	summary.From = from
	summary.To = to
	return &summary, nil
}
