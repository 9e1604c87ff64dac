package leave

import (
	"context"
)

// EmployeeDirectory reads the employee records owned by the employee domain
// and serves them through ActiveEmployeeIdsPort.
type EmployeeDirectory struct {
	*Store
}

func NewEmployeeDirectory(store *Store) *EmployeeDirectory {
	return &EmployeeDirectory{Store: store}
}

func (d *EmployeeDirectory) ListEligible(ctx context.Context, filter EligibilityFilter) ([]EligibleEmployee, error) {
	var w whereBuilder
	w.raw("archived_at IS NULL")
	if len(filter.EmploymentTypes) > 0 {
		w.add("employment_type = ANY($%d)", filter.EmploymentTypes)
	}
	if len(filter.EmployeeStatuses) > 0 {
		w.add("employee_status = ANY($%d)", filter.EmployeeStatuses)
	}

	rows, err := d.q(ctx).Query(ctx, `
    SELECT id, hire_date, employment_type, employee_status
    FROM employees`+w.sql()+`
    ORDER BY id
  `, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []EligibleEmployee{}
	for rows.Next() {
		var e EligibleEmployee
		if err := rows.Scan(&e.ID, &e.HireDate, &e.EmploymentType, &e.EmployeeStatus); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
