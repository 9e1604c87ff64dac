package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type YearConfigStore struct {
	*Store
}

const yearConfigColumns = `id, year, cutoff_start_date, cutoff_end_date, remarks, created_by, updated_by,
      created_at, updated_at, archived_at`

const liveYearIndex = "leave_year_configurations_live_year"

func scanYearConfig(row pgx.Row) (*LeaveYearConfiguration, error) {
	var c LeaveYearConfiguration
	if err := row.Scan(&c.ID, &c.Year, &c.CutoffStartDate, &c.CutoffEndDate, &c.Remarks, &c.CreatedBy, &c.UpdatedBy,
		&c.CreatedAt, &c.UpdatedAt, &c.ArchivedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *YearConfigStore) Create(ctx context.Context, c *LeaveYearConfiguration) error {
	err := s.q(ctx).QueryRow(ctx, `
    INSERT INTO leave_year_configurations (year, cutoff_start_date, cutoff_end_date, remarks, created_by, updated_by, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, c.Year, c.CutoffStartDate, c.CutoffEndDate, c.Remarks, c.CreatedBy, c.UpdatedBy, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	return translateUnique(err, liveYearIndex, ErrYearConfigExists)
}

func (s *YearConfigStore) Update(ctx context.Context, c *LeaveYearConfiguration) error {
	tag, err := s.q(ctx).Exec(ctx, `
    UPDATE leave_year_configurations
    SET year = $2, cutoff_start_date = $3, cutoff_end_date = $4, remarks = $5, updated_by = $6,
        updated_at = $7, archived_at = $8
    WHERE id = $1
  `, c.ID, c.Year, c.CutoffStartDate, c.CutoffEndDate, c.Remarks, c.UpdatedBy, c.UpdatedAt, c.ArchivedAt)
	if err != nil {
		return translateUnique(err, liveYearIndex, ErrYearConfigExists)
	}
	if tag.RowsAffected() == 0 {
		return ErrYearConfigNotFound
	}
	return nil
}

func (s *YearConfigStore) FindByID(ctx context.Context, id int64) (*LeaveYearConfiguration, error) {
	c, err := scanYearConfig(s.q(ctx).QueryRow(ctx, `SELECT `+yearConfigColumns+` FROM leave_year_configurations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// FindByYear ignores archived configurations.
func (s *YearConfigStore) FindByYear(ctx context.Context, year int) (*LeaveYearConfiguration, error) {
	c, err := scanYearConfig(s.q(ctx).QueryRow(ctx, `
    SELECT `+yearConfigColumns+`
    FROM leave_year_configurations
    WHERE year = $1 AND archived_at IS NULL
  `, year))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (s *YearConfigStore) FindPaginatedList(ctx context.Context, filter YearConfigFilter, page PageRequest) (Page[LeaveYearConfiguration], error) {
	var w whereBuilder
	if !filter.IncludeArchived {
		w.raw("archived_at IS NULL")
	}

	result := Page[LeaveYearConfiguration]{Items: []LeaveYearConfiguration{}, Limit: page.Limit, Offset: page.Offset}
	if err := s.q(ctx).QueryRow(ctx, `SELECT COUNT(1) FROM leave_year_configurations`+w.sql(), w.args...).Scan(&result.Total); err != nil {
		return result, err
	}

	limit, args := w.page(page)
	rows, err := s.q(ctx).Query(ctx, `SELECT `+yearConfigColumns+` FROM leave_year_configurations`+w.sql()+` ORDER BY year DESC, id DESC`+limit, args...)
	if err != nil {
		return result, err
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanYearConfig(rows)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, *c)
	}
	return result, rows.Err()
}
