package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type BalanceStore struct {
	*Store
}

const balanceColumns = `id, employee_id, leave_type_id, policy_id, year, beginning_balance, earned, used,
      carried_over, encashed, remaining, status, remarks, version, created_by, updated_by,
      created_at, updated_at, archived_at`

func scanBalance(row pgx.Row) (*LeaveBalance, error) {
	var b LeaveBalance
	if err := row.Scan(&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.PolicyID, &b.Year, &b.BeginningBalance, &b.Earned, &b.Used,
		&b.CarriedOver, &b.Encashed, &b.Remaining, &b.Status, &b.Remarks, &b.Version, &b.CreatedBy, &b.UpdatedBy,
		&b.CreatedAt, &b.UpdatedAt, &b.ArchivedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BalanceStore) Create(ctx context.Context, b *LeaveBalance) error {
	err := s.q(ctx).QueryRow(ctx, `
    INSERT INTO leave_balances (employee_id, leave_type_id, policy_id, year, beginning_balance, earned, used,
      carried_over, encashed, remaining, status, remarks, version, created_by, updated_by, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING id
  `, b.EmployeeID, b.LeaveTypeID, b.PolicyID, b.Year, b.BeginningBalance, b.Earned, b.Used,
		b.CarriedOver, b.Encashed, b.Remaining, b.Status, b.Remarks, b.Version, b.CreatedBy, b.UpdatedBy, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
	return translateUnique(err, "leave_balances_employee_id_leave_type_id_year_key", ErrBalanceExists)
}

// Update writes b only when the stored version still equals b.Version and
// advances the version on success.
func (s *BalanceStore) Update(ctx context.Context, b *LeaveBalance) error {
	var next int64
	err := s.q(ctx).QueryRow(ctx, `
    UPDATE leave_balances
    SET policy_id = $3, beginning_balance = $4, earned = $5, used = $6, carried_over = $7,
        encashed = $8, remaining = $9, status = $10, remarks = $11, updated_by = $12,
        updated_at = $13, archived_at = $14, version = version + 1
    WHERE id = $1 AND version = $2
    RETURNING version
  `, b.ID, b.Version, b.PolicyID, b.BeginningBalance, b.Earned, b.Used, b.CarriedOver,
		b.Encashed, b.Remaining, b.Status, b.Remarks, b.UpdatedBy, b.UpdatedAt, b.ArchivedAt).Scan(&next)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrConcurrentUpdate
	}
	if err != nil {
		return err
	}
	b.Version = next
	return nil
}

func (s *BalanceStore) FindByID(ctx context.Context, id int64) (*LeaveBalance, error) {
	b, err := scanBalance(s.q(ctx).QueryRow(ctx, `
    SELECT `+balanceColumns+`
    FROM leave_balances
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (s *BalanceStore) FindByLeaveType(ctx context.Context, employeeID, leaveTypeID int64, year int) (*LeaveBalance, error) {
	b, err := scanBalance(s.q(ctx).QueryRow(ctx, `
    SELECT `+balanceColumns+`
    FROM leave_balances
    WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
  `, employeeID, leaveTypeID, year))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (s *BalanceStore) FindPaginatedList(ctx context.Context, filter BalanceFilter, page PageRequest) (Page[LeaveBalance], error) {
	var w whereBuilder
	if filter.EmployeeID != 0 {
		w.add("employee_id = $%d", filter.EmployeeID)
	}
	if filter.LeaveTypeID != 0 {
		w.add("leave_type_id = $%d", filter.LeaveTypeID)
	}
	if filter.Year != 0 {
		w.add("year = $%d", filter.Year)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if !filter.IncludeArchived {
		w.raw("archived_at IS NULL")
	}

	result := Page[LeaveBalance]{Items: []LeaveBalance{}, Limit: page.Limit, Offset: page.Offset}
	if err := s.q(ctx).QueryRow(ctx, `SELECT COUNT(1) FROM leave_balances`+w.sql(), w.args...).Scan(&result.Total); err != nil {
		return result, err
	}

	limit, args := w.page(page)
	rows, err := s.q(ctx).Query(ctx, `SELECT `+balanceColumns+` FROM leave_balances`+w.sql()+` ORDER BY year DESC, employee_id, leave_type_id`+limit, args...)
	if err != nil {
		return result, err
	}
	defer rows.Close()
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, *b)
	}
	return result, rows.Err()
}

func (s *BalanceStore) ExistsForYear(ctx context.Context, year int) (bool, error) {
	var exists bool
	err := s.q(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leave_balances WHERE year = $1)`, year).Scan(&exists)
	return exists, err
}

type TransactionStore struct {
	*Store
}

// Append inserts one ledger row. Rows are never updated or deleted.
func (s *TransactionStore) Append(ctx context.Context, tx *LeaveTransaction) error {
	return s.q(ctx).QueryRow(ctx, `
    INSERT INTO leave_transactions (balance_id, transaction_type, days, remarks, created_by, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, tx.BalanceID, tx.TransactionType, tx.Days, tx.Remarks, tx.CreatedBy, tx.CreatedAt).Scan(&tx.ID)
}

func (s *TransactionStore) FindByBalance(ctx context.Context, balanceID int64) ([]LeaveTransaction, error) {
	rows, err := s.q(ctx).Query(ctx, `
    SELECT id, balance_id, transaction_type, days, remarks, created_by, created_at
    FROM leave_transactions
    WHERE balance_id = $1
    ORDER BY created_at DESC, id DESC
  `, balanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LeaveTransaction{}
	for rows.Next() {
		var tx LeaveTransaction
		if err := rows.Scan(&tx.ID, &tx.BalanceID, &tx.TransactionType, &tx.Days, &tx.Remarks, &tx.CreatedBy, &tx.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
