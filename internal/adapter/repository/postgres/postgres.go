package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

type linkDB struct {
	Code        string    `db:"code"`
	OriginalURL string    `db:"original_url"`
	CreatedAt   time.Time `db:"created_at"`
	Hits        uint64    `db:"hits"`
}

func (l *linkDB) toEntity() *entity.Link {
	return &entity.Link{
		Code:        l.Code,
		OriginalURL: l.OriginalURL,
		CreatedAt:   l.CreatedAt,
		Hits:        l.Hits,
	}
}

// LinkRepository persists links in PostgreSQL. Uniqueness of codes and hit
// increments are enforced by single statements, never by read-then-write.
type LinkRepository struct {
	db           *sqlx.DB
	queryTimeout time.Duration
}

// NewLinkRepository creates a repository whose statements are bounded by queryTimeout.
// A zero timeout leaves the caller's context untouched.
func NewLinkRepository(db *sqlx.DB, queryTimeout time.Duration) *LinkRepository {
	return &LinkRepository{
		db:           db,
		queryTimeout: queryTimeout,
	}
}

func (r *LinkRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

func (r *LinkRepository) Create(ctx context.Context, code, originalURL string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.Create"
	const query = `INSERT INTO links(code, original_url) VALUES ($1, $2)
		RETURNING code, original_url, created_at, hits`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var link linkDB

	if err := r.db.GetContext(ctx, &link, query, code, originalURL); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrDuplicateCode)
		}

		return nil, fmt.Errorf("%s: failed to insert into links table: %w", op, err)
	}

	return link.toEntity(), nil
}

func (r *LinkRepository) Lookup(ctx context.Context, code string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.Lookup"
	const query = `SELECT code, original_url, created_at, hits FROM links WHERE code = $1`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var link linkDB

	if err := r.db.GetContext(ctx, &link, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from links table: %w", op, err)
	}

	return link.toEntity(), nil
}

func (r *LinkRepository) IncrementHits(ctx context.Context, code string) error {
	const op = "adapter.repository.postgres.LinkRepository.IncrementHits"
	const query = `UPDATE links SET hits = hits + 1 WHERE code = $1`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("%s: failed to update links table row: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	return nil
}
