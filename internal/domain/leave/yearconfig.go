package leave

import "time"

// CutoffWindow returns the configured window of a year, or the calendar year
// when cfg is nil.
func CutoffWindow(year int, cfg *LeaveYearConfiguration) (time.Time, time.Time) {
	if cfg != nil {
		return cfg.CutoffStartDate, cfg.CutoffEndDate
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

func (c *LeaveYearConfiguration) IsArchived() bool {
	return c.ArchivedAt != nil
}
