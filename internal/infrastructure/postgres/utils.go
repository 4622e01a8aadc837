package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Diesel-api/internal/domain"
)

// Querier lo que comparten *pgxpool.Pool y pgx.Tx: los repos funcionan igual dentro o fuera de una tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isCheckViolation verifica si un error es una violación de constraint CHECK (23514).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

// wrapWrite traduce unicidad a domain.ErrConflict y CHECK a domain.ErrInvalidInput.
func wrapWrite(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	if isCheckViolation(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullable cadena vacía -> NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// filterBuilder arma cláusulas WHERE con placeholders posicionales.
type filterBuilder struct {
	where []string
	args  []any
}

func newFilter(cond string, arg any) *filterBuilder {
	return &filterBuilder{where: []string{cond + " = $1"}, args: []any{arg}}
}

// add agrega "expr <op> $n" donde expr lleva el placeholder como %s.
func (f *filterBuilder) add(expr string, arg any) {
	f.args = append(f.args, arg)
	f.where = append(f.where, fmt.Sprintf(expr, fmt.Sprintf("$%d", len(f.args))))
}

func (f *filterBuilder) sql() string {
	return " WHERE " + strings.Join(f.where, " AND ")
}

// page LIMIT/OFFSET; limit <= 0 no limita.
func (f *filterBuilder) page(limit, offset int) string {
	out := ""
	if limit > 0 {
		f.args = append(f.args, limit)
		out += fmt.Sprintf(" LIMIT $%d", len(f.args))
	}
	if offset > 0 {
		f.args = append(f.args, offset)
		out += fmt.Sprintf(" OFFSET $%d", len(f.args))
	}
	return out
}
