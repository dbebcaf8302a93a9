package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/rangmanch/internal/library"
)

// ContentRepo handles the content catalog.
type ContentRepo struct {
	db *sql.DB
}

func NewContentRepo(db *sql.DB) *ContentRepo { return &ContentRepo{db: db} }

const contentColumns = "id, title, type, date, status, views, thumbnail"

// List returns the whole catalog in catalog order.
func (r *ContentRepo) List(ctx context.Context) ([]library.ContentItem, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+contentColumns+" FROM content_items ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []library.ContentItem{}
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Get returns the item with id, or nil when there is none.
func (r *ContentRepo) Get(ctx context.Context, id int) (*library.ContentItem, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+contentColumns+" FROM content_items WHERE id = ?", id)
	item, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ContentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM content_items").Scan(&n)
	return n, err
}

// Upsert inserts or updates an item. New items go to the end of the catalog.
func (r *ContentRepo) Upsert(ctx context.Context, item library.ContentItem) error {
	return upsertContent(ctx, r.db, item)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertContent(ctx context.Context, db execer, item library.ContentItem) error {
	if item.Views < 0 {
		return fmt.Errorf("content %d: views must not be negative", item.ID)
	}
	_, err := db.ExecContext(ctx, `
	INSERT INTO content_items(id, title, type, date, status, views, thumbnail, position)
	VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM content_items))
	ON CONFLICT(id) DO UPDATE SET
	 title=excluded.title,
	 type=excluded.type,
	 date=excluded.date,
	 status=excluded.status,
	 views=excluded.views,
	 thumbnail=excluded.thumbnail,
	 updated_at=CURRENT_TIMESTAMP;
	`, item.ID, item.Title, item.Type, item.DateISO(), item.Status, item.Views, item.Thumbnail)
	return err
}

// ReplaceAll swaps the catalog for items in one transaction, keeping their order.
func (r *ContentRepo) ReplaceAll(ctx context.Context, items []library.ContentItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM content_items"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear catalog: %w", err)
	}
	for _, item := range items {
		if err := upsertContent(ctx, tx, item); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert content %d: %w", item.ID, err)
		}
	}
	return tx.Commit()
}

// Duplicate copies id to a new item at the end of the catalog. The copy is a
// draft with no views. It returns nil when id does not exist. The new id is
// taken inside the insert, so concurrent duplicates never share one.
func (r *ContentRepo) Duplicate(ctx context.Context, id int) (*library.ContentItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	src, err := scanContent(tx.QueryRowContext(ctx, "SELECT "+contentColumns+" FROM content_items WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cp := src
	cp.Title = src.Title + " (Copy)"
	cp.Status = library.StatusDraft
	cp.Views = 0
	err = tx.QueryRowContext(ctx, `
	INSERT INTO content_items(id, title, type, date, status, views, thumbnail, position)
	SELECT COALESCE(MAX(id), 0) + 1, ?, ?, ?, ?, 0, ?, COALESCE(MAX(position), 0) + 1
	FROM content_items
	RETURNING id;
	`, cp.Title, cp.Type, cp.DateISO(), cp.Status, cp.Thumbnail).Scan(&cp.ID)
	if err != nil {
		return nil, fmt.Errorf("duplicate content %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &cp, nil
}

// Delete removes id and reports whether a row was removed.
func (r *ContentRepo) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM content_items WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContent(row scanner) (library.ContentItem, error) {
	var (
		item library.ContentItem
		date string
	)
	if err := row.Scan(&item.ID, &item.Title, &item.Type, &date, &item.Status, &item.Views, &item.Thumbnail); err != nil {
		return library.ContentItem{}, err
	}
	d, err := library.ParseDate(date)
	if err != nil {
		return library.ContentItem{}, err
	}
	item.Date = d
	return item, nil
}
