package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var defaultLeaveTypes = []struct {
	Code string
	Name string
}{
	{"VL", "Vacation Leave"},
	{"SL", "Sick Leave"},
	{"EL", "Emergency Leave"},
	{"ML", "Maternity Leave"},
	{"PL", "Paternity Leave"},
}

// Seed inserts the default leave types when missing. Existing rows are kept.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, lt := range defaultLeaveTypes {
		if _, err := pool.Exec(ctx, `
      INSERT INTO leave_types (code, name)
      VALUES ($1, $2)
      ON CONFLICT (code) DO NOTHING
    `, lt.Code, lt.Name); err != nil {
			return err
		}
	}
	return nil
}
