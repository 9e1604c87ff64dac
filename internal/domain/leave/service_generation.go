package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"hrleave/internal/platform/lock"
)

// Generate creates an OPEN balance for every entry whose (employee, leave
// type, year) does not exist yet. Existing triples and duplicates within the
// batch are skipped, so the call is safe to repeat. One activity entry
// summarizes the whole batch.
func (s *Service) Generate(ctx context.Context, year int, entries []GenerationEntry, actor string) (GenerationResult, error) {
	if year < 1900 || year > 9999 {
		return GenerationResult{}, invalid("year is out of range", nil)
	}
	var result GenerationResult
	err := s.withYearLock(ctx, year, func(ctx context.Context) error {
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			result, err = s.generateInTx(ctx, year, entries, actor)
			return err
		})
	})
	if err != nil {
		return GenerationResult{}, err
	}
	s.afterGeneration(ctx, result)
	return result, nil
}

// GenerateForYear generates balances for the employees matching the optional
// filters under one leave type's active policy, or under every active policy
// when no leave type code is given.
func (s *Service) GenerateForYear(ctx context.Context, cmd GenerateForYearCommand) (GenerationResult, error) {
	if err := cmd.Validate(); err != nil {
		return GenerationResult{}, err
	}
	filter := EligibilityFilter{EmploymentTypes: cmd.EmploymentTypes, EmployeeStatuses: cmd.EmployeeStatuses}
	return s.generateFromPolicies(ctx, cmd.Year, cmd.LeaveTypeCode, filter, cmd.Actor)
}

// GenerateForAllEmployees generates balances under every active policy for
// the whole eligible population.
func (s *Service) GenerateForAllEmployees(ctx context.Context, cmd GenerateForAllEmployeesCommand) (GenerationResult, error) {
	if err := cmd.Validate(); err != nil {
		return GenerationResult{}, err
	}
	return s.generateFromPolicies(ctx, cmd.Year, "", EligibilityFilter{}, cmd.Actor)
}

func (s *Service) generateFromPolicies(ctx context.Context, year int, leaveTypeCode string, filter EligibilityFilter, actor string) (GenerationResult, error) {
	if s.eligibility == nil {
		return GenerationResult{}, internal("eligibility port is not configured", errors.New("nil ActiveEmployeeIdsPort"))
	}

	var result GenerationResult
	err := s.withYearLock(ctx, year, func(ctx context.Context) error {
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			policies, err := s.policiesFor(ctx, leaveTypeCode)
			if err != nil {
				return err
			}
			cfg, err := s.repos.YearConfigs.FindByYear(ctx, year)
			if err != nil {
				return internal("load leave year configuration", err)
			}
			_, cutoffEnd := CutoffWindow(year, cfg)

			employees, err := s.eligibility.ListEligible(ctx, filter)
			if err != nil {
				return internal("list eligible employees", err)
			}
			entries := BuildGenerationEntries(policies, employees, cutoffEnd)

			result, err = s.generateInTx(ctx, year, entries, actor)
			return err
		})
	})
	if err != nil {
		return GenerationResult{}, err
	}
	s.afterGeneration(ctx, result)
	return result, nil
}

func (s *Service) policiesFor(ctx context.Context, leaveTypeCode string) ([]LeavePolicy, error) {
	if leaveTypeCode != "" {
		p, err := s.GetActivePolicy(ctx, leaveTypeCode)
		if err != nil {
			return nil, err
		}
		return []LeavePolicy{*p}, nil
	}
	policies, err := s.repos.Policies.FindAllActive(ctx)
	if err != nil {
		return nil, internal("list active leave policies", err)
	}
	return policies, nil
}

func (s *Service) generateInTx(ctx context.Context, year int, entries []GenerationEntry, actor string) (GenerationResult, error) {
	result := GenerationResult{
		RunID:   uuid.NewString(),
		Year:    year,
		Created: []LeaveBalance{},
	}
	seen := make(map[balanceKey]struct{}, len(entries))
	knownTypes := make(map[int64]struct{})
	for _, entry := range entries {
		key := balanceKey{employeeID: entry.EmployeeID, leaveTypeID: entry.LeaveTypeID}
		if _, dup := seen[key]; dup {
			result.SkippedCount++
			continue
		}
		seen[key] = struct{}{}

		if entry.EmployeeID <= 0 || entry.LeaveTypeID <= 0 {
			return GenerationResult{}, invalid(fmt.Sprintf("generation entry has invalid identity (employee %d, leave type %d)", entry.EmployeeID, entry.LeaveTypeID), nil)
		}
		if entry.AnnualEntitlement.IsNegative() {
			return GenerationResult{}, invalid("annual entitlement must not be negative", nil)
		}
		if err := requireScale("AnnualEntitlement", entry.AnnualEntitlement); err != nil {
			return GenerationResult{}, err
		}
		if _, ok := knownTypes[entry.LeaveTypeID]; !ok {
			lt, err := s.repos.LeaveTypes.FindByID(ctx, entry.LeaveTypeID)
			if err != nil {
				return GenerationResult{}, internal("load leave type", err)
			}
			if lt == nil {
				return GenerationResult{}, ErrLeaveTypeNotFound.withMessage(fmt.Sprintf("leave type %d not found", entry.LeaveTypeID))
			}
			knownTypes[entry.LeaveTypeID] = struct{}{}
		}

		existing, err := s.repos.Balances.FindByLeaveType(ctx, entry.EmployeeID, entry.LeaveTypeID, year)
		if err != nil {
			return GenerationResult{}, internal("load leave balance", err)
		}
		if existing != nil {
			result.SkippedCount++
			continue
		}

		b, opening := NewBalance(entry.EmployeeID, entry.LeaveTypeID, entry.PolicyID, year, decimal.Zero, entry.AnnualEntitlement, entry.Remarks, actor, s.now())
		if err := s.insertBalance(ctx, b, opening); err != nil {
			return GenerationResult{}, err
		}
		result.Created = append(result.Created, *b)
		result.CreatedCount++
	}

	if err := s.record(ctx, ActivityEntry{
		Actor:      actor,
		Action:     ActionBalanceGenerate,
		EntityType: EntityBalance,
		After: map[string]any{
			"runId":        result.RunID,
			"year":         year,
			"createdCount": result.CreatedCount,
			"skippedCount": result.SkippedCount,
			"created":      result.Created,
		},
	}); err != nil {
		return GenerationResult{}, err
	}
	return result, nil
}

func (s *Service) withYearLock(ctx context.Context, year int, fn func(ctx context.Context) error) error {
	release, err := s.locker.Acquire(ctx, fmt.Sprintf("leave-generation:%d", year), s.lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return ErrGenerationInProgress
		}
		return internal("acquire generation lock", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log(ctx).Warn("leave generation lock release failed", zap.Int("year", year), zap.Error(err))
		}
	}()
	return fn(ctx)
}

func (s *Service) afterGeneration(ctx context.Context, result GenerationResult) {
	s.metrics.BalancesGenerated(result.CreatedCount, result.SkippedCount)
	s.log(ctx).Info("leave balances generated",
		zap.String("run_id", result.RunID),
		zap.Int("year", result.Year),
		zap.Int("created", result.CreatedCount),
		zap.Int("skipped", result.SkippedCount),
	)
}
