package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/avahart/kudos/internal/apperror"
	"github.com/avahart/kudos/internal/model"
	"github.com/avahart/kudos/internal/repository"
)

// Compile-time check that *DB implements repository.SubmissionRepository.
var _ repository.SubmissionRepository = (*DB)(nil)

const submissionColumns = `id, form_id, name, role, company, quote, email, created_at, approved_at`

// Create inserts a new pending submission. approved_at starts NULL; the
// form_id foreign key rejects submissions for forms that don't exist.
func (db *DB) Create(ctx context.Context, submission *model.Submission) error {
	submission.CreatedAt = time.Now().UTC()
	submission.ApprovedAt = nil

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO submissions (form_id, name, role, company, quote, email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		submission.FormID,
		submission.Name,
		submission.Role,
		submission.Company,
		submission.Quote,
		submission.Email,
		submission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating submission: %w", err)
	}

	submission.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading submission id: %w", err)
	}
	return nil
}

// GetByID retrieves a single submission.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.Submission, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)

	submission, err := scanSubmission(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("submission", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting submission %d: %w", id, err)
	}
	return submission, nil
}

// ListByForm returns every submission for the form, newest first. This is
// the moderation queue ordering (created_at, not approved_at).
func (db *DB) ListByForm(ctx context.Context, formID int64) ([]model.Submission, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+submissionColumns+`
		 FROM submissions
		 WHERE form_id = ?
		 ORDER BY created_at DESC, id DESC`,
		formID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing submissions: %w", err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// ListApprovedByForm returns only approved submissions, most recently
// approved first. This is the public wall ordering.
func (db *DB) ListApprovedByForm(ctx context.Context, formID int64) ([]model.Submission, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+submissionColumns+`
		 FROM submissions
		 WHERE form_id = ? AND approved_at IS NOT NULL
		 ORDER BY approved_at DESC, id DESC`,
		formID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing approved submissions: %w", err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// Approve is a conditional update: it only matches rows whose approved_at is
// still NULL, so a prior approval timestamp is never overwritten and two
// racing approvals resolve in the database rather than in process.
func (db *DB) Approve(ctx context.Context, id int64, at time.Time) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE submissions
		 SET approved_at = ?
		 WHERE id = ? AND approved_at IS NULL`,
		at, id,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: approving submission %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return affected > 0, nil
}

// scanSubmission reads one submissions row. approved_at comes back through
// sql.NullTime and is mapped onto the *time.Time model field.
func scanSubmission(scan func(dest ...any) error) (*model.Submission, error) {
	var s model.Submission
	var approvedAt sql.NullTime

	err := scan(
		&s.ID,
		&s.FormID,
		&s.Name,
		&s.Role,
		&s.Company,
		&s.Quote,
		&s.Email,
		&s.CreatedAt,
		&approvedAt,
	)
	if err != nil {
		return nil, err
	}

	if approvedAt.Valid {
		t := approvedAt.Time
		s.ApprovedAt = &t
	}
	return &s, nil
}

func collectSubmissions(rows *sql.Rows) ([]model.Submission, error) {
	submissions := []model.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning submission row: %w", err)
		}
		submissions = append(submissions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating submissions: %w", err)
	}
	return submissions, nil
}
