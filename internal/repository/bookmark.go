package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Bookmark is the persisted record: a surrogate id assigned by the
// database, required title/url/rating, and a description that is never
// null once stored (it defaults to the empty string).
type Bookmark struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	URL         string `db:"url" json:"url"`
	Rating      int    `db:"rating" json:"rating"`
	Description string `db:"description" json:"description"`
}

// NewBookmark carries the client-supplied fields of a bookmark to insert.
// The id is never part of it; the database assigns one.
type NewBookmark struct {
	Title       string
	URL         string
	Rating      int
	Description string
}

// UpdateBookmarkFields is the explicit optional-field set for a partial
// update. A nil field is left untouched; only non-nil fields reach the
// UPDATE statement, so unrecognized input can never be injected.
type UpdateBookmarkFields struct {
	Title       *string
	URL         *string
	Rating      *int
	Description *string
}

// IsEmpty reports whether no field is set, i.e. the update would be a no-op.
func (f UpdateBookmarkFields) IsEmpty() bool {
	return f.Title == nil && f.URL == nil && f.Rating == nil && f.Description == nil
}

// changes returns the column/value pairs for the supplied fields.
func (f UpdateBookmarkFields) changes() map[string]any {
	set := make(map[string]any, 4)
	if f.Title != nil {
		set["title"] = *f.Title
	}
	if f.URL != nil {
		set["url"] = *f.URL
	}
	if f.Rating != nil {
		set["rating"] = *f.Rating
	}
	if f.Description != nil {
		set["description"] = *f.Description
	}
	return set
}

// BookmarkRepository exposes the five operations against the bookmarks
// table. Row counts are returned for delete/update so callers can map
// "zero rows" to not-found.
type BookmarkRepository interface {
	List(ctx context.Context) ([]Bookmark, error)
	GetByID(ctx context.Context, id int64) (Bookmark, error)
	Insert(ctx context.Context, bookmark NewBookmark) (Bookmark, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	Update(ctx context.Context, id int64, fields UpdateBookmarkFields) (int64, error)
}

// psql builds queries with Postgres-style $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresBookmarkRepository implements BookmarkRepository over a pgx pool.
// Every operation is a single statement; consistency is delegated entirely
// to the database (bigserial id assignment, per-statement atomicity).
type PostgresBookmarkRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookmarkRepository constructs the repository.
func NewPostgresBookmarkRepository(pool *pgxpool.Pool) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{pool: pool}
}

// List returns every bookmark. The id is a bigserial, so ordering by it
// yields insertion order.
func (r *PostgresBookmarkRepository) List(ctx context.Context) ([]Bookmark, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, url, rating, description FROM bookmarks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}

	bookmarks, err := pgx.CollectRows(rows, pgx.RowToStructByName[Bookmark])
	if err != nil {
		return nil, fmt.Errorf("scanning bookmarks: %w", err)
	}
	return bookmarks, nil
}

// GetByID returns the bookmark with the given id. When no row matches,
// the error chain contains pgx.ErrNoRows.
func (r *PostgresBookmarkRepository) GetByID(ctx context.Context, id int64) (Bookmark, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, url, rating, description FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return Bookmark{}, fmt.Errorf("fetching bookmark %d: %w", id, err)
	}

	bookmark, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Bookmark])
	if err != nil {
		return Bookmark{}, fmt.Errorf("fetching bookmark %d: %w", id, err)
	}
	return bookmark, nil
}

// Insert persists a new bookmark and returns the full row, including the
// id assigned by the database's sequence.
func (r *PostgresBookmarkRepository) Insert(ctx context.Context, bookmark NewBookmark) (Bookmark, error) {
	rows, err := r.pool.Query(ctx,
		`INSERT INTO bookmarks (title, url, rating, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, url, rating, description`,
		bookmark.Title, bookmark.URL, bookmark.Rating, bookmark.Description)
	if err != nil {
		return Bookmark{}, fmt.Errorf("inserting bookmark: %w", err)
	}

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Bookmark])
	if err != nil {
		return Bookmark{}, fmt.Errorf("inserting bookmark: %w", err)
	}
	return created, nil
}

// DeleteByID removes the bookmark with the given id and returns the number
// of rows removed (0 or 1).
func (r *PostgresBookmarkRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("deleting bookmark %d: %w", id, err)
	}
	return tag.RowsAffected(), nil
}

// Update applies only the supplied fields to the row matching id and
// returns the number of rows affected (0 or 1). The SET clause is built
// dynamically from the present fields.
//
// Callers must ensure fields is non-empty; an empty SET is a caller bug,
// not a database condition.
func (r *PostgresBookmarkRepository) Update(ctx context.Context, id int64, fields UpdateBookmarkFields) (int64, error) {
	if fields.IsEmpty() {
		return 0, fmt.Errorf("updating bookmark %d: no fields supplied", id)
	}

	query, args, err := psql.Update("bookmarks").
		SetMap(fields.changes()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building bookmark update: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("updating bookmark %d: %w", id, err)
	}
	return tag.RowsAffected(), nil
}
