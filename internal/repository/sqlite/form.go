package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/avahart/kudos/internal/apperror"
	"github.com/avahart/kudos/internal/model"
	"github.com/avahart/kudos/internal/repository"
)

// Compile-time check that *DB implements repository.FormRepository.
var _ repository.FormRepository = (*DB)(nil)

// CreateWithCreator inserts the creator and its form inside one transaction.
// SQLite serializes writers, so the slug existence check and both inserts
// are atomic: a concurrent registration of the same slug cannot interleave,
// and a failed form insert rolls the creator back with it.
func (db *DB) CreateWithCreator(ctx context.Context, creator *model.Creator, form *model.Form) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM forms WHERE slug = ?`, form.Slug,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking slug %s: %w", form.Slug, err)
	}
	if exists > 0 {
		return apperror.Conflict("form", form.Slug)
	}

	now := time.Now().UTC()
	creator.CreatedAt = now
	form.CreatedAt = now

	res, err := tx.ExecContext(ctx,
		`INSERT INTO creators (name, created_at) VALUES (?, ?)`,
		creator.Name, creator.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating creator: %w", err)
	}
	creator.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading creator id: %w", err)
	}

	form.CreatorID = creator.ID
	res, err = tx.ExecContext(ctx,
		`INSERT INTO forms (creator_id, slug, title, created_at) VALUES (?, ?, ?, ?)`,
		form.CreatorID, form.Slug, form.Title, form.CreatedAt,
	)
	if err != nil {
		// Backstop for the UNIQUE constraint in case a writer slipped in
		// between transactions on a non-serialized backend.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("form", form.Slug)
		}
		return fmt.Errorf("sqlite: creating form: %w", err)
	}
	form.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading form id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing form registration: %w", err)
	}
	return nil
}

// GetBySlug retrieves a form by its slug.
func (db *DB) GetBySlug(ctx context.Context, slug string) (*model.Form, error) {
	var form model.Form

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, creator_id, slug, title, created_at
		 FROM forms
		 WHERE slug = ?`,
		slug,
	).Scan(
		&form.ID,
		&form.CreatorID,
		&form.Slug,
		&form.Title,
		&form.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("form", slug)
		}
		return nil, fmt.Errorf("sqlite: getting form %s: %w", slug, err)
	}

	return &form, nil
}

// GetDetailBySlug retrieves the form joined with its creator's display name.
func (db *DB) GetDetailBySlug(ctx context.Context, slug string) (*model.FormDetail, error) {
	var detail model.FormDetail

	err := db.conn.QueryRowContext(ctx,
		`SELECT f.id, f.title, f.slug, c.name
		 FROM forms f
		 INNER JOIN creators c ON c.id = f.creator_id
		 WHERE f.slug = ?`,
		slug,
	).Scan(
		&detail.ID,
		&detail.Title,
		&detail.Slug,
		&detail.CreatorName,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("form", slug)
		}
		return nil, fmt.Errorf("sqlite: getting form detail %s: %w", slug, err)
	}

	return &detail, nil
}

// ResetForm deletes a form, its creator and all of its submissions.
// Maintenance helper for the seed tool; deliberately not part of the
// repository interfaces — the moderation contract has no delete.
func (db *DB) ResetForm(ctx context.Context, slug string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var formID, creatorID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id, creator_id FROM forms WHERE slug = ?`, slug,
	).Scan(&formID, &creatorID)
	if err == sql.ErrNoRows {
		return nil // nothing to reset
	}
	if err != nil {
		return fmt.Errorf("sqlite: looking up form %s: %w", slug, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE form_id = ?`, formID); err != nil {
		return fmt.Errorf("sqlite: deleting submissions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, formID); err != nil {
		return fmt.Errorf("sqlite: deleting form: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM creators WHERE id = ?`, creatorID); err != nil {
		return fmt.Errorf("sqlite: deleting creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing reset: %w", err)
	}
	return nil
}
