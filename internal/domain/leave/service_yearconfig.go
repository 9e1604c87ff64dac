package leave

import (
	"context"
	"fmt"
)

func (s *Service) CreateYearConfiguration(ctx context.Context, cmd CreateLeaveYearConfigurationCommand) (*LeaveYearConfiguration, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var created *LeaveYearConfiguration
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.repos.YearConfigs.FindByYear(ctx, cmd.Year)
		if err != nil {
			return internal("load leave year configuration", err)
		}
		if existing != nil {
			return ErrYearConfigExists.withMessage(fmt.Sprintf("leave year configuration for %d already exists", cmd.Year))
		}
		now := s.now()
		c := &LeaveYearConfiguration{
			Year:            cmd.Year,
			CutoffStartDate: cmd.CutoffStartDate,
			CutoffEndDate:   cmd.CutoffEndDate,
			Remarks:         cmd.Remarks,
			CreatedBy:       cmd.Actor,
			UpdatedBy:       cmd.Actor,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repos.YearConfigs.Create(ctx, c); err != nil {
			return internal("create leave year configuration", err)
		}
		created = c
		return s.record(ctx, ActivityEntry{
			Actor:      cmd.Actor,
			Action:     ActionYearConfigCreate,
			EntityType: EntityYearConfig,
			EntityID:   c.ID,
			After:      c,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateYearConfiguration edits a configuration until the first balance of
// its year exists.
func (s *Service) UpdateYearConfiguration(ctx context.Context, cmd UpdateLeaveYearConfigurationCommand) (*LeaveYearConfiguration, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var updated *LeaveYearConfiguration
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		c, err := s.loadYearConfig(ctx, cmd.ID)
		if err != nil {
			return err
		}
		inUse, err := s.repos.Balances.ExistsForYear(ctx, c.Year)
		if err != nil {
			return internal("check balances for year", err)
		}
		if inUse {
			return ErrYearConfigInUse
		}
		if cmd.Year != c.Year && !c.IsArchived() {
			other, err := s.repos.YearConfigs.FindByYear(ctx, cmd.Year)
			if err != nil {
				return internal("load leave year configuration", err)
			}
			if other != nil {
				return ErrYearConfigExists
			}
			inUse, err := s.repos.Balances.ExistsForYear(ctx, cmd.Year)
			if err != nil {
				return internal("check balances for year", err)
			}
			if inUse {
				return ErrYearConfigInUse
			}
		}
		before := *c
		c.Year = cmd.Year
		c.CutoffStartDate = cmd.CutoffStartDate
		c.CutoffEndDate = cmd.CutoffEndDate
		c.Remarks = cmd.Remarks
		c.UpdatedBy = cmd.Actor
		c.UpdatedAt = s.now()
		if err := s.repos.YearConfigs.Update(ctx, c); err != nil {
			return internal("update leave year configuration", err)
		}
		updated = c
		return s.record(ctx, ActivityEntry{
			Actor:      cmd.Actor,
			Action:     ActionYearConfigUpdate,
			EntityType: EntityYearConfig,
			EntityID:   c.ID,
			Before:     before,
			After:      c,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) ArchiveYearConfiguration(ctx context.Context, id int64, actor string) (*LeaveYearConfiguration, error) {
	return s.setYearConfigArchived(ctx, id, actor, true)
}

// RestoreYearConfiguration fails with a conflict when another live
// configuration now owns the year.
func (s *Service) RestoreYearConfiguration(ctx context.Context, id int64, actor string) (*LeaveYearConfiguration, error) {
	return s.setYearConfigArchived(ctx, id, actor, false)
}

func (s *Service) setYearConfigArchived(ctx context.Context, id int64, actor string, archived bool) (*LeaveYearConfiguration, error) {
	action := ActionYearConfigRestore
	if archived {
		action = ActionYearConfigArchive
	}

	var out *LeaveYearConfiguration
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		c, err := s.loadYearConfig(ctx, id)
		if err != nil {
			return err
		}
		if c.IsArchived() == archived {
			out = c
			return nil
		}
		if !archived {
			live, err := s.repos.YearConfigs.FindByYear(ctx, c.Year)
			if err != nil {
				return internal("load leave year configuration", err)
			}
			if live != nil {
				return ErrYearConfigExists
			}
		}
		before := *c
		now := s.now()
		if archived {
			c.ArchivedAt = &now
		} else {
			c.ArchivedAt = nil
		}
		c.UpdatedBy = actor
		c.UpdatedAt = now
		if err := s.repos.YearConfigs.Update(ctx, c); err != nil {
			return internal("update leave year configuration", err)
		}
		out = c
		return s.record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     action,
			EntityType: EntityYearConfig,
			EntityID:   c.ID,
			Before:     before,
			After:      c,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetYearConfiguration(ctx context.Context, id int64) (*LeaveYearConfiguration, error) {
	return s.loadYearConfig(ctx, id)
}

// FindYearConfiguration returns the live configuration of a year.
func (s *Service) FindYearConfiguration(ctx context.Context, year int) (*LeaveYearConfiguration, error) {
	c, err := s.repos.YearConfigs.FindByYear(ctx, year)
	if err != nil {
		return nil, internal("load leave year configuration", err)
	}
	if c == nil {
		return nil, ErrYearConfigNotFound
	}
	return c, nil
}

func (s *Service) loadYearConfig(ctx context.Context, id int64) (*LeaveYearConfiguration, error) {
	c, err := s.repos.YearConfigs.FindByID(ctx, id)
	if err != nil {
		return nil, internal("load leave year configuration", err)
	}
	if c == nil {
		return nil, ErrYearConfigNotFound
	}
	return c, nil
}

func (s *Service) ListYearConfigurations(ctx context.Context, filter YearConfigFilter, page PageRequest) (Page[LeaveYearConfiguration], error) {
	result, err := s.repos.YearConfigs.FindPaginatedList(ctx, filter, normalizePage(page))
	if err != nil {
		return Page[LeaveYearConfiguration]{}, internal("list leave year configurations", err)
	}
	return result, nil
}
