package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"hrleave/internal/platform/querier"
)

const uniqueViolation = "23505"

// Store holds the PostgreSQL adapters. Every query runs on the unit of work
// bound to the context when there is one.
type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) q(ctx context.Context) querier.Querier {
	return querier.From(ctx, s.DB)
}

// Repositories exposes the store through the repository ports.
func (s *Store) Repositories() Repositories {
	return Repositories{
		Balances:     &BalanceStore{s},
		Transactions: &TransactionStore{s},
		Policies:     &PolicyStore{s},
		Encashments:  &EncashmentStore{s},
		YearConfigs:  &YearConfigStore{s},
		LeaveTypes:   &LeaveTypeStore{s},
	}
}

// translateUnique maps a unique violation on constraint to target.
func translateUnique(err error, constraint string, target *Error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint {
		return target
	}
	return err
}

// whereBuilder accumulates positional predicates.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(format string, value any) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) raw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	out := " WHERE " + w.clauses[0]
	for _, c := range w.clauses[1:] {
		out += " AND " + c
	}
	return out
}

func (w *whereBuilder) page(p PageRequest) (string, []any) {
	args := append([]any{}, w.args...)
	args = append(args, p.Limit, p.Offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}
