package leave

import (
	"context"

	"go.uber.org/zap"
)

func (s *Service) CreateBalance(ctx context.Context, cmd CreateLeaveBalanceCommand) (*LeaveBalance, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var created *LeaveBalance
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		lt, err := s.repos.LeaveTypes.FindByID(ctx, cmd.LeaveTypeID)
		if err != nil {
			return internal("load leave type", err)
		}
		if lt == nil {
			return ErrLeaveTypeNotFound
		}
		existing, err := s.repos.Balances.FindByLeaveType(ctx, cmd.EmployeeID, cmd.LeaveTypeID, cmd.Year)
		if err != nil {
			return internal("load leave balance", err)
		}
		if existing != nil {
			return ErrBalanceExists
		}

		b, opening := NewBalance(cmd.EmployeeID, cmd.LeaveTypeID, cmd.PolicyID, cmd.Year, cmd.BeginningBalance, cmd.Earned, cmd.Remarks, cmd.Actor, s.now())
		if err := s.insertBalance(ctx, b, opening); err != nil {
			return err
		}
		created = b
		return s.record(ctx, ActivityEntry{
			Actor:      cmd.Actor,
			Action:     ActionBalanceCreate,
			EntityType: EntityBalance,
			EntityID:   b.ID,
			After:      b,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) insertBalance(ctx context.Context, b *LeaveBalance, opening *LeaveTransaction) error {
	if err := s.repos.Balances.Create(ctx, b); err != nil {
		return internal("create leave balance", err)
	}
	if opening == nil {
		return nil
	}
	opening.BalanceID = b.ID
	if err := s.repos.Transactions.Append(ctx, opening); err != nil {
		return internal("append opening transaction", err)
	}
	return nil
}

// RecordTransaction posts one signed movement to a balance and appends the
// matching ledger row atomically.
func (s *Service) RecordTransaction(ctx context.Context, cmd RecordTransactionCommand) (*LeaveTransaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var posted *LeaveTransaction
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		b, err := s.loadBalance(ctx, cmd.BalanceID)
		if err != nil {
			return err
		}
		before := *b
		posted, err = s.postAndSave(ctx, b, cmd.TransactionType, cmd.Days, cmd.Remarks, cmd.Actor)
		if err != nil {
			return err
		}
		return s.record(ctx, ActivityEntry{
			Actor:      cmd.Actor,
			Action:     ActionBalancePost,
			EntityType: EntityBalance,
			EntityID:   b.ID,
			Before:     before,
			After:      map[string]any{"balance": b, "transaction": posted},
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.TransactionPosted(string(posted.TransactionType))
	return posted, nil
}

// CarryOver moves days from a year N balance into the same employee and leave
// type balance of year N+1, then closes the source.
func (s *Service) CarryOver(ctx context.Context, cmd CarryOverCommand) (*LeaveBalance, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var target *LeaveBalance
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		source, err := s.loadBalance(ctx, cmd.SourceBalanceID)
		if err != nil {
			return err
		}
		target, err = s.repos.Balances.FindByLeaveType(ctx, source.EmployeeID, source.LeaveTypeID, source.Year+1)
		if err != nil {
			return internal("load carry-over target", err)
		}
		if target == nil {
			return ErrCarryTargetNotFound
		}
		if err := s.ensureNothingPending(ctx, source.ID, "carry over"); err != nil {
			return err
		}
		remarks := cmd.Remarks
		if remarks == "" {
			remarks = "carry over"
		}

		if _, err := s.postAndSave(ctx, source, TransactionAdjustment, cmd.Days.Neg(), remarks, cmd.Actor); err != nil {
			return err
		}
		if _, err := s.postAndSave(ctx, target, TransactionCarry, cmd.Days, remarks, cmd.Actor); err != nil {
			return err
		}
		if err := source.Close(cmd.Actor, s.now()); err != nil {
			return err
		}
		if err := s.saveBalance(ctx, source, "close leave balance"); err != nil {
			return err
		}
		return s.record(ctx, ActivityEntry{
			Actor:      cmd.Actor,
			Action:     ActionBalanceCarryOver,
			EntityType: EntityBalance,
			EntityID:   source.ID,
			After:      map[string]any{"source": source, "target": target, "days": cmd.Days},
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.TransactionPosted(string(TransactionAdjustment))
	s.metrics.TransactionPosted(string(TransactionCarry))
	return target, nil
}

func (s *Service) CloseBalance(ctx context.Context, id int64, actor string) (*LeaveBalance, error) {
	var closed *LeaveBalance
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		b, err := s.loadBalance(ctx, id)
		if err != nil {
			return err
		}
		before := *b
		if err := s.ensureNothingPending(ctx, b.ID, "close"); err != nil {
			return err
		}
		if err := b.Close(actor, s.now()); err != nil {
			return err
		}
		if err := s.saveBalance(ctx, b, "close leave balance"); err != nil {
			return err
		}
		closed = b
		return s.record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     ActionBalanceClose,
			EntityType: EntityBalance,
			EntityID:   b.ID,
			Before:     before,
			After:      b,
		})
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

func (s *Service) ArchiveBalance(ctx context.Context, id int64, actor string) (*LeaveBalance, error) {
	return s.setBalanceArchived(ctx, id, actor, true)
}

func (s *Service) RestoreBalance(ctx context.Context, id int64, actor string) (*LeaveBalance, error) {
	return s.setBalanceArchived(ctx, id, actor, false)
}

func (s *Service) setBalanceArchived(ctx context.Context, id int64, actor string, archived bool) (*LeaveBalance, error) {
	action := ActionBalanceRestore
	if archived {
		action = ActionBalanceArchive
	}

	var out *LeaveBalance
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		b, err := s.loadBalance(ctx, id)
		if err != nil {
			return err
		}
		if b.IsArchived() == archived {
			out = b
			return nil
		}
		if archived {
			if err := s.ensureNothingPending(ctx, b.ID, "archive"); err != nil {
				return err
			}
		}
		before := *b
		now := s.now()
		if archived {
			b.ArchivedAt = &now
		} else {
			b.ArchivedAt = nil
		}
		b.UpdatedBy = actor
		b.UpdatedAt = now
		if err := s.saveBalance(ctx, b, "update leave balance"); err != nil {
			return err
		}
		out = b
		return s.record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     action,
			EntityType: EntityBalance,
			EntityID:   b.ID,
			Before:     before,
			After:      b,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetBalance(ctx context.Context, id int64) (*LeaveBalance, error) {
	return s.loadBalance(ctx, id)
}

// FindBalance returns nil without error when the employee has no balance for
// the leave type and year.
func (s *Service) FindBalance(ctx context.Context, employeeID, leaveTypeID int64, year int) (*LeaveBalance, error) {
	b, err := s.repos.Balances.FindByLeaveType(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return nil, internal("load leave balance", err)
	}
	return b, nil
}

func (s *Service) ListBalances(ctx context.Context, filter BalanceFilter, page PageRequest) (Page[LeaveBalance], error) {
	result, err := s.repos.Balances.FindPaginatedList(ctx, filter, normalizePage(page))
	if err != nil {
		return Page[LeaveBalance]{}, internal("list leave balances", err)
	}
	return result, nil
}

// ListTransactions returns the balance's ledger, newest first.
func (s *Service) ListTransactions(ctx context.Context, balanceID int64) ([]LeaveTransaction, error) {
	if _, err := s.loadBalance(ctx, balanceID); err != nil {
		return nil, err
	}
	rows, err := s.repos.Transactions.FindByBalance(ctx, balanceID)
	if err != nil {
		return nil, internal("list leave transactions", err)
	}
	return rows, nil
}

func (s *Service) ReconcileBalance(ctx context.Context, balanceID int64) (ReconciliationReport, error) {
	var report ReconciliationReport
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		b, err := s.loadBalance(ctx, balanceID)
		if err != nil {
			return err
		}
		rows, err := s.repos.Transactions.FindByBalance(ctx, balanceID)
		if err != nil {
			return internal("list leave transactions", err)
		}
		report = b.Reconcile(rows)
		return nil
	})
	if err != nil {
		return ReconciliationReport{}, err
	}
	if !report.Balanced {
		s.log(ctx).Warn("leave balance out of reconciliation",
			zap.Int64("balance_id", report.BalanceID),
			zap.String("stored", report.Stored.String()),
			zap.String("formula", report.Formula.String()),
			zap.String("ledger_sum", report.LedgerSum.String()),
		)
	}
	return report, nil
}
