package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/automaton-triage/internal/domain/records"
)

type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Save insert/update analysis record
func (r *RecordRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO triage_records
(id, ticket_key, sentry_org, sentry_issue_id, priority, is_urgent,
 comment_status, priority_status, report, archive_url, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 priority=VALUES(priority), is_urgent=VALUES(is_urgent),
 comment_status=VALUES(comment_status), priority_status=VALUES(priority_status),
 report=VALUES(report), archive_url=VALUES(archive_url);
`
	// Non-nullable string fields get safe defaults
	ticket := stringOrDash(rec.TicketKey)
	priority := stringOrDash(rec.Priority)
	commentStatus := stringOrDash(rec.CommentStatus)
	priorityStatus := stringOrDash(rec.PriorityStatus)
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, ticket, rec.SentryOrg, rec.SentryIssueID, priority, rec.IsUrgent,
		commentStatus, priorityStatus, rec.ReportJSON, rec.ArchiveURL, created,
	)
	return err
}

// Paginate with offset + limit, newest first
func (r *RecordRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, ticket_key, sentry_org, sentry_issue_id, priority, is_urgent,
       comment_status, priority_status, report, archive_url, created_at
FROM triage_records
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LatestByTicket returns the newest record for one Jira issue.
// sql.ErrNoRows passes through so callers can map it to not-found.
func (r *RecordRepository) LatestByTicket(ctx context.Context, ticketKey string) (*domain.Record, error) {
	const q = `
SELECT id, ticket_key, sentry_org, sentry_issue_id, priority, is_urgent,
       comment_status, priority_status, report, archive_url, created_at
FROM triage_records
WHERE ticket_key=? ORDER BY created_at DESC, id DESC LIMIT 1;
`
	return scanRecord(r.db.QueryRowContext(ctx, q, ticketKey))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var rec domain.Record
	if err := row.Scan(
		&rec.ID, &rec.TicketKey, &rec.SentryOrg, &rec.SentryIssueID, &rec.Priority, &rec.IsUrgent,
		&rec.CommentStatus, &rec.PriorityStatus, &rec.ReportJSON, &rec.ArchiveURL, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
