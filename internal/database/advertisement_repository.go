package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"streamvault/models"
)

// sqliteTimeLayout is fixed width so text comparison orders chronologically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

var ErrAdvertisementNotFound = errors.New("advertisement request not found")

const conditionalInsertSQLite = `
	INSERT INTO advertisement_requests (id, email, description, budget, user_ip, created_at, updated_at)
	SELECT ?, ?, ?, ?, ?, ?, ?
	WHERE NOT EXISTS (
		SELECT 1 FROM advertisement_requests WHERE user_ip = ? AND created_at >= ?
	)`

// Postgres cannot infer parameter types from an INSERT ... SELECT list.
const conditionalInsertPostgres = `
	INSERT INTO advertisement_requests (id, email, description, budget, user_ip, created_at, updated_at)
	SELECT $1::uuid, $2::text, $3::text, $4::numeric, $5::text, $6::timestamptz, $7::timestamptz
	WHERE NOT EXISTS (
		SELECT 1 FROM advertisement_requests WHERE user_ip = $8 AND created_at >= $9
	)`

// AdvertisementRepository persists advertisement requests.
type AdvertisementRepository struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func NewAdvertisementRepository(db *sql.DB, d dialect) *AdvertisementRepository {
	return &AdvertisementRepository{db: db, dialect: d, now: time.Now}
}

// List returns every request, newest first.
func (r *AdvertisementRepository) List(ctx context.Context) ([]models.AdvertisementRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, description, budget, user_ip, created_at, updated_at
		FROM advertisement_requests
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query advertisement requests: %w", err)
	}
	defer rows.Close()

	requests := make([]models.AdvertisementRequest, 0)
	for rows.Next() {
		req, err := scanAdvertisement(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate advertisement requests: %w", err)
	}
	return requests, nil
}

// InsertIfNoRecent stores req unless a request from the same user_ip was
// created at or after since. The check and the insert run as one statement
// (and, on postgres, under a per-address advisory lock) so concurrent
// creates from one address cannot both succeed. inserted is false when the
// request was rejected by the window.
func (r *AdvertisementRepository) InsertIfNoRecent(ctx context.Context, req models.NewAdvertisementRequest, since time.Time) (models.AdvertisementRequest, bool, error) {
	now := r.now().UTC()
	row := models.AdvertisementRequest{
		ID:          uuid.NewString(),
		Email:       req.Email,
		Description: req.Description,
		Budget:      req.Budget,
		UserIP:      req.UserIP,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.AdvertisementRequest{}, false, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	if r.dialect == dialectPostgres {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, req.UserIP); err != nil {
			return models.AdvertisementRequest{}, false, fmt.Errorf("lock user ip: %w", err)
		}
	}

	query := conditionalInsertSQLite
	if r.dialect == dialectPostgres {
		query = conditionalInsertPostgres
	}
	res, err := tx.ExecContext(ctx, query,
		row.ID, row.Email, row.Description, row.Budget, row.UserIP,
		r.timeArg(row.CreatedAt), r.timeArg(row.UpdatedAt),
		req.UserIP, r.timeArg(since),
	)
	if err != nil {
		return models.AdvertisementRequest{}, false, fmt.Errorf("insert advertisement request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.AdvertisementRequest{}, false, fmt.Errorf("insert advertisement request: %w", err)
	}
	if affected == 0 {
		return models.AdvertisementRequest{}, false, nil
	}

	if err := tx.Commit(); err != nil {
		return models.AdvertisementRequest{}, false, fmt.Errorf("commit advertisement request: %w", err)
	}
	return row, true, nil
}

// ExistsSince reports whether userIP created a request at or after since.
func (r *AdvertisementRepository) ExistsSince(ctx context.Context, userIP string, since time.Time) (bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(`
		SELECT id FROM advertisement_requests
		WHERE user_ip = ? AND created_at >= ?
		LIMIT 1`), userIP, r.timeArg(since)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query recent advertisement request: %w", err)
	}
	return true, nil
}

// Get returns a single request by id.
func (r *AdvertisementRepository) Get(ctx context.Context, id string) (models.AdvertisementRequest, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.rebind(`
		SELECT id, email, description, budget, user_ip, created_at, updated_at
		FROM advertisement_requests
		WHERE id = ?`), id)
	req, err := scanAdvertisement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AdvertisementRequest{}, ErrAdvertisementNotFound
	}
	return req, err
}

// Delete removes a request. Deleting an unknown id is not an error.
func (r *AdvertisementRepository) Delete(ctx context.Context, id string) error {
	if r.dialect == dialectPostgres {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("delete advertisement request: invalid id %q", id)
		}
	}
	if _, err := r.db.ExecContext(ctx, r.dialect.rebind(`DELETE FROM advertisement_requests WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete advertisement request: %w", err)
	}
	return nil
}

func (r *AdvertisementRepository) timeArg(t time.Time) any {
	if r.dialect == dialectSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdvertisement(s rowScanner) (models.AdvertisementRequest, error) {
	var (
		req              models.AdvertisementRequest
		created, updated dbTime
	)
	if err := s.Scan(&req.ID, &req.Email, &req.Description, &req.Budget, &req.UserIP, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return req, err
		}
		return req, fmt.Errorf("scan advertisement request: %w", err)
	}
	req.CreatedAt = time.Time(created)
	req.UpdatedAt = time.Time(updated)
	return req, nil
}

// dbTime scans timestamps stored either natively or as sqliteTimeLayout text.
type dbTime time.Time

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = dbTime(v.UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		*t = dbTime(time.Time{})
		return nil
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	*t = dbTime(parsed.UTC())
	return nil
}
