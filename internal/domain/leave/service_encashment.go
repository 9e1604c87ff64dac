package leave

import "context"

func (s *Service) CreateEncashment(ctx context.Context, cmd CreateLeaveEncashmentCommand) (*LeaveEncashment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var created *LeaveEncashment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		b, err := s.loadBalance(ctx, cmd.BalanceID)
		if err != nil {
			return err
		}
		if b.EmployeeID != cmd.EmployeeID {
			return ErrEncashmentOwner
		}
		if b.IsArchived() {
			return ErrBalanceArchived
		}
		if !b.IsOpen() {
			return ErrBalanceClosed
		}
		if cmd.TotalDays.GreaterThan(b.Remaining) {
			return ErrInsufficientBalance.withMessage("cannot encash " + cmd.TotalDays.String() + " days, remaining is " + b.Remaining.String())
		}
		pending, err := s.pendingEncashment(ctx, b.ID)
		if err != nil {
			return err
		}
		if pending != nil {
			return ErrEncashmentPendingExists
		}

		now := s.now()
		e := &LeaveEncashment{
			EmployeeID: cmd.EmployeeID,
			BalanceID:  cmd.BalanceID,
			TotalDays:  cmd.TotalDays,
			Amount:     cmd.Amount,
			Status:     EncashmentStatusPending,
			CreatedBy:  cmd.Actor,
			UpdatedBy:  cmd.Actor,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repos.Encashments.Create(ctx, e); err != nil {
			return internal("create leave encashment", err)
		}
		// Bumping the version makes a debit that raced past the hold check
		// lose its compare-and-swap.
		b.UpdatedBy = cmd.Actor
		b.UpdatedAt = now
		if err := s.saveBalance(ctx, b, "reserve leave balance"); err != nil {
			return err
		}
		created = e
		return s.record(ctx, ActivityEntry{
			Actor:      cmd.Actor,
			Action:     ActionEncashmentCreate,
			EntityType: EntityEncashment,
			EntityID:   e.ID,
			After:      e,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// MarkAsPaid settles a PENDING encashment and posts the matching ENCASHMENT
// debit to its balance in the same unit of work. The encashment leaves
// PENDING first so the debit draws on the days it was holding.
func (s *Service) MarkAsPaid(ctx context.Context, cmd MarkAsPaidLeaveEncashmentCommand) (*LeaveEncashment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var paid *LeaveEncashment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.loadEncashment(ctx, cmd.ID)
		if err != nil {
			return err
		}
		before := *e
		if err := e.MarkPaid(cmd.PayrollRef, cmd.Actor, s.now()); err != nil {
			return err
		}
		if err := s.repos.Encashments.Update(ctx, e); err != nil {
			return internal("update leave encashment", err)
		}
		b, err := s.loadBalance(ctx, e.BalanceID)
		if err != nil {
			return err
		}
		entry, err := s.postAndSave(ctx, b, TransactionEncashment, e.TotalDays.Neg(), "encashment paid: "+cmd.PayrollRef, cmd.Actor)
		if err != nil {
			return err
		}
		paid = e
		return s.record(ctx, ActivityEntry{
			Actor:      cmd.Actor,
			Action:     ActionEncashmentPaid,
			EntityType: EntityEncashment,
			EntityID:   e.ID,
			Before:     before,
			After:      map[string]any{"encashment": e, "transaction": entry},
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.EncashmentPaid()
	s.metrics.TransactionPosted(string(TransactionEncashment))
	return paid, nil
}

func (s *Service) GetEncashment(ctx context.Context, id int64) (*LeaveEncashment, error) {
	return s.loadEncashment(ctx, id)
}

func (s *Service) loadEncashment(ctx context.Context, id int64) (*LeaveEncashment, error) {
	e, err := s.repos.Encashments.FindByID(ctx, id)
	if err != nil {
		return nil, internal("load leave encashment", err)
	}
	if e == nil {
		return nil, ErrEncashmentNotFound
	}
	return e, nil
}

func (s *Service) ListEncashments(ctx context.Context, filter EncashmentFilter, page PageRequest) (Page[LeaveEncashment], error) {
	result, err := s.repos.Encashments.FindPaginatedList(ctx, filter, normalizePage(page))
	if err != nil {
		return Page[LeaveEncashment]{}, internal("list leave encashments", err)
	}
	return result, nil
}
