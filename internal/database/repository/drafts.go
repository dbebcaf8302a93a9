package repository

import (
	"context"
	"database/sql"
)

// DraftRepo handles saved generator drafts.
type DraftRepo struct {
	db *sql.DB
}

func NewDraftRepo(db *sql.DB) *DraftRepo { return &DraftRepo{db: db} }

func (r *DraftRepo) Insert(ctx context.Context, d Draft) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO drafts(id, content_type, tone, length, brief, body, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`, d.ID, d.ContentType, d.Tone, d.Length, d.Brief, d.Body, d.CreatedAt)
	return err
}

// List returns the newest drafts first; limit <= 0 means no limit.
func (r *DraftRepo) List(ctx context.Context, limit int) ([]Draft, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, content_type, tone, length, brief, body, created_at FROM drafts ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DraftRepo) Get(ctx context.Context, id string) (*Draft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, content_type, tone, length, brief, body, created_at FROM drafts WHERE id = ?`, id)
	d, err := scanDraft(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DraftRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	return err
}

func scanDraft(row scanner) (Draft, error) {
	var d Draft
	err := row.Scan(&d.ID, &d.ContentType, &d.Tone, &d.Length, &d.Brief, &d.Body, &d.CreatedAt)
	return d, err
}
