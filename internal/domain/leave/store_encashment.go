package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type EncashmentStore struct {
	*Store
}

const encashmentColumns = `id, employee_id, balance_id, total_days, amount, status, COALESCE(payroll_ref, ''), paid_at,
      created_by, updated_by, created_at, updated_at`

func scanEncashment(row pgx.Row) (*LeaveEncashment, error) {
	var e LeaveEncashment
	if err := row.Scan(&e.ID, &e.EmployeeID, &e.BalanceID, &e.TotalDays, &e.Amount, &e.Status, &e.PayrollRef, &e.PaidAt,
		&e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EncashmentStore) Create(ctx context.Context, e *LeaveEncashment) error {
	err := s.q(ctx).QueryRow(ctx, `
    INSERT INTO leave_encashments (employee_id, balance_id, total_days, amount, status, created_by, updated_by, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, e.EmployeeID, e.BalanceID, e.TotalDays, e.Amount, e.Status, e.CreatedBy, e.UpdatedBy, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	return translateUnique(err, "leave_encashments_single_pending", ErrEncashmentPendingExists)
}

// Update only transitions rows that are still PENDING, so a concurrent
// payment cannot be applied twice.
func (s *EncashmentStore) Update(ctx context.Context, e *LeaveEncashment) error {
	tag, err := s.q(ctx).Exec(ctx, `
    UPDATE leave_encashments
    SET status = $2, payroll_ref = NULLIF($3, ''), paid_at = $4, updated_by = $5, updated_at = $6
    WHERE id = $1 AND status = 'PENDING'
  `, e.ID, e.Status, e.PayrollRef, e.PaidAt, e.UpdatedBy, e.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEncashmentNotPending
	}
	return nil
}

func (s *EncashmentStore) FindByID(ctx context.Context, id int64) (*LeaveEncashment, error) {
	e, err := scanEncashment(s.q(ctx).QueryRow(ctx, `SELECT `+encashmentColumns+` FROM leave_encashments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (s *EncashmentStore) FindPendingByBalance(ctx context.Context, balanceID int64) (*LeaveEncashment, error) {
	e, err := scanEncashment(s.q(ctx).QueryRow(ctx, `
    SELECT `+encashmentColumns+` FROM leave_encashments WHERE balance_id = $1 AND status = 'PENDING'
  `, balanceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (s *EncashmentStore) FindPaginatedList(ctx context.Context, filter EncashmentFilter, page PageRequest) (Page[LeaveEncashment], error) {
	var w whereBuilder
	if filter.EmployeeID != 0 {
		w.add("employee_id = $%d", filter.EmployeeID)
	}
	if filter.BalanceID != 0 {
		w.add("balance_id = $%d", filter.BalanceID)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}

	result := Page[LeaveEncashment]{Items: []LeaveEncashment{}, Limit: page.Limit, Offset: page.Offset}
	if err := s.q(ctx).QueryRow(ctx, `SELECT COUNT(1) FROM leave_encashments`+w.sql(), w.args...).Scan(&result.Total); err != nil {
		return result, err
	}

	limit, args := w.page(page)
	rows, err := s.q(ctx).Query(ctx, `SELECT `+encashmentColumns+` FROM leave_encashments`+w.sql()+` ORDER BY created_at DESC, id DESC`+limit, args...)
	if err != nil {
		return result, err
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanEncashment(rows)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, *e)
	}
	return result, rows.Err()
}
