package db

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/student-records/student-api/internal/platform/httpx"
	"github.com/student-records/student-api/internal/shared"
)

// SQLSTATE codes mapped onto shared sentinels.
const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

// New creates a new PostgreSQL connection pool.
func New(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("platform/db: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("platform/db: new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("platform/db: ping: %w", err)
	}

	return pool, nil
}

// Classify translates driver errors into shared sentinels. Missing rows
// become ErrNotFound, duplicate keys ErrConflict, dangling references
// ErrValidation and unparsable literals such as a malformed uuid
// ErrBadRequest. Client messages name the offending field, never the
// constraint.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return httpx.NewError(http.StatusConflict, httpx.CodeConflict,
				"Duplicate value for "+constraintField(pgErr),
				fmt.Errorf("%w: %s", shared.ErrConflict, pgErr.ConstraintName))
		case foreignKeyViolation:
			return httpx.NewError(http.StatusUnprocessableEntity, httpx.CodeValidation,
				"Unknown reference for "+constraintField(pgErr),
				fmt.Errorf("%w: %s", shared.ErrValidation, pgErr.ConstraintName))
		case invalidTextRepresentation:
			return httpx.NewError(http.StatusBadRequest, httpx.CodeBadRequest, "Invalid id",
				fmt.Errorf("%w: %s", shared.ErrBadRequest, pgErr.Message))
		}
	}
	return err
}

// constraintField recovers the JSON field name from a postgres generated
// constraint name such as students_student_id_key.
func constraintField(pgErr *pgconn.PgError) string {
	name := pgErr.ConstraintName
	for _, suffix := range []string{"_fkey", "_pkey", "_key"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			name = trimmed
			break
		}
	}
	if pgErr.TableName != "" {
		name = strings.TrimPrefix(name, pgErr.TableName+"_")
	} else if _, rest, ok := strings.Cut(name, "_"); ok {
		name = rest
	}
	if name == "" {
		return "field"
	}
	parts := strings.Split(name, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// NotFoundIfNone returns ErrNotFound when a write touched no rows.
func NotFoundIfNone(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
