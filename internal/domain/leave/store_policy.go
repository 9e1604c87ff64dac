package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type PolicyStore struct {
	*Store
}

const policyColumns = `id, leave_type_id, version, annual_entitlement, allowed_employment_types,
      allowed_employee_statuses, minimum_service_months, status, effective_date, expiry_date, remarks,
      created_by, updated_by, created_at, updated_at`

const singleActivePolicyIndex = "leave_policies_single_active"

func scanPolicy(row pgx.Row) (*LeavePolicy, error) {
	var p LeavePolicy
	if err := row.Scan(&p.ID, &p.LeaveTypeID, &p.Version, &p.AnnualEntitlement, &p.AllowedEmploymentTypes,
		&p.AllowedEmployeeStatuses, &p.MinimumServiceMonths, &p.Status, &p.EffectiveDate, &p.ExpiryDate, &p.Remarks,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PolicyStore) Create(ctx context.Context, p *LeavePolicy) error {
	err := s.q(ctx).QueryRow(ctx, `
    INSERT INTO leave_policies (leave_type_id, version, annual_entitlement, allowed_employment_types,
      allowed_employee_statuses, minimum_service_months, status, effective_date, expiry_date, remarks,
      created_by, updated_by, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    RETURNING id
  `, p.LeaveTypeID, p.Version, p.AnnualEntitlement, p.AllowedEmploymentTypes,
		p.AllowedEmployeeStatuses, p.MinimumServiceMonths, p.Status, p.EffectiveDate, p.ExpiryDate, p.Remarks,
		p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	return translateUnique(err, singleActivePolicyIndex, ErrPolicyActiveExists)
}

// Update refuses to touch rows that are already RETIRED.
func (s *PolicyStore) Update(ctx context.Context, p *LeavePolicy) error {
	tag, err := s.q(ctx).Exec(ctx, `
    UPDATE leave_policies
    SET annual_entitlement = $2, allowed_employment_types = $3, allowed_employee_statuses = $4,
        minimum_service_months = $5, status = $6, effective_date = $7, expiry_date = $8, remarks = $9,
        updated_by = $10, updated_at = $11
    WHERE id = $1 AND status <> 'RETIRED'
  `, p.ID, p.AnnualEntitlement, p.AllowedEmploymentTypes, p.AllowedEmployeeStatuses,
		p.MinimumServiceMonths, p.Status, p.EffectiveDate, p.ExpiryDate, p.Remarks, p.UpdatedBy, p.UpdatedAt)
	if err != nil {
		return translateUnique(err, singleActivePolicyIndex, ErrPolicyActiveExists)
	}
	if tag.RowsAffected() == 0 {
		return ErrPolicyRetired
	}
	return nil
}

func (s *PolicyStore) FindByID(ctx context.Context, id int64) (*LeavePolicy, error) {
	p, err := scanPolicy(s.q(ctx).QueryRow(ctx, `SELECT `+policyColumns+` FROM leave_policies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (s *PolicyStore) FindActiveByLeaveType(ctx context.Context, leaveTypeID int64) (*LeavePolicy, error) {
	p, err := scanPolicy(s.q(ctx).QueryRow(ctx, `
    SELECT `+policyColumns+`
    FROM leave_policies
    WHERE leave_type_id = $1 AND status = 'ACTIVE'
  `, leaveTypeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (s *PolicyStore) FindAllActive(ctx context.Context) ([]LeavePolicy, error) {
	rows, err := s.q(ctx).Query(ctx, `
    SELECT `+policyColumns+`
    FROM leave_policies
    WHERE status = 'ACTIVE'
    ORDER BY leave_type_id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LeavePolicy{}
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PolicyStore) NextVersion(ctx context.Context, leaveTypeID int64) (int, error) {
	var next int
	err := s.q(ctx).QueryRow(ctx, `
    SELECT COALESCE(MAX(version), 0) + 1 FROM leave_policies WHERE leave_type_id = $1
  `, leaveTypeID).Scan(&next)
	return next, err
}

func (s *PolicyStore) FindPaginatedList(ctx context.Context, filter PolicyFilter, page PageRequest) (Page[LeavePolicy], error) {
	var w whereBuilder
	if filter.LeaveTypeID != 0 {
		w.add("leave_type_id = $%d", filter.LeaveTypeID)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}

	result := Page[LeavePolicy]{Items: []LeavePolicy{}, Limit: page.Limit, Offset: page.Offset}
	if err := s.q(ctx).QueryRow(ctx, `SELECT COUNT(1) FROM leave_policies`+w.sql(), w.args...).Scan(&result.Total); err != nil {
		return result, err
	}

	limit, args := w.page(page)
	rows, err := s.q(ctx).Query(ctx, `SELECT `+policyColumns+` FROM leave_policies`+w.sql()+` ORDER BY leave_type_id, version DESC`+limit, args...)
	if err != nil {
		return result, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, *p)
	}
	return result, rows.Err()
}

type LeaveTypeStore struct {
	*Store
}

func (s *LeaveTypeStore) FindByCode(ctx context.Context, code string) (*LeaveType, error) {
	var lt LeaveType
	err := s.q(ctx).QueryRow(ctx, `SELECT id, code, name FROM leave_types WHERE code = $1`, code).Scan(&lt.ID, &lt.Code, &lt.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (s *LeaveTypeStore) FindByID(ctx context.Context, id int64) (*LeaveType, error) {
	var lt LeaveType
	err := s.q(ctx).QueryRow(ctx, `SELECT id, code, name FROM leave_types WHERE id = $1`, id).Scan(&lt.ID, &lt.Code, &lt.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lt, nil
}
