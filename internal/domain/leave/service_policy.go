package leave

import (
	"context"
	"strings"
)

// GetActivePolicy resolves the leave type by code and returns its ACTIVE policy.
func (s *Service) GetActivePolicy(ctx context.Context, leaveTypeCode string) (*LeavePolicy, error) {
	code := strings.TrimSpace(leaveTypeCode)
	if code == "" {
		return nil, invalid("leave type code is required", nil)
	}
	lt, err := s.repos.LeaveTypes.FindByCode(ctx, code)
	if err != nil {
		return nil, internal("load leave type", err)
	}
	if lt == nil {
		return nil, ErrLeaveTypeNotFound.withMessage("leave type " + code + " not found")
	}
	p, err := s.repos.Policies.FindActiveByLeaveType(ctx, lt.ID)
	if err != nil {
		return nil, internal("load active leave policy", err)
	}
	if p == nil {
		return nil, ErrPolicyNotFound.withMessage("no active policy for leave type " + code)
	}
	return p, nil
}

func (s *Service) GetPolicy(ctx context.Context, id int64) (*LeavePolicy, error) {
	return s.loadPolicy(ctx, id)
}

func (s *Service) loadPolicy(ctx context.Context, id int64) (*LeavePolicy, error) {
	p, err := s.repos.Policies.FindByID(ctx, id)
	if err != nil {
		return nil, internal("load leave policy", err)
	}
	if p == nil {
		return nil, ErrPolicyNotFound
	}
	return p, nil
}

func (s *Service) ListPolicies(ctx context.Context, filter PolicyFilter, page PageRequest) (Page[LeavePolicy], error) {
	result, err := s.repos.Policies.FindPaginatedList(ctx, filter, normalizePage(page))
	if err != nil {
		return Page[LeavePolicy]{}, internal("list leave policies", err)
	}
	return result, nil
}

func (s *Service) ensureNoOtherActive(ctx context.Context, leaveTypeID, exceptID int64) error {
	active, err := s.repos.Policies.FindActiveByLeaveType(ctx, leaveTypeID)
	if err != nil {
		return internal("load active leave policy", err)
	}
	if active != nil && active.ID != exceptID {
		return ErrPolicyActiveExists
	}
	return nil
}

func (s *Service) CreatePolicy(ctx context.Context, cmd CreateLeavePolicyCommand) (*LeavePolicy, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var created *LeavePolicy
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		lt, err := s.repos.LeaveTypes.FindByID(ctx, cmd.LeaveTypeID)
		if err != nil {
			return internal("load leave type", err)
		}
		if lt == nil {
			return ErrLeaveTypeNotFound
		}
		status := PolicyStatusActive
		if cmd.Draft {
			status = PolicyStatusDraft
		} else if err := s.ensureNoOtherActive(ctx, cmd.LeaveTypeID, 0); err != nil {
			return err
		}
		version, err := s.repos.Policies.NextVersion(ctx, cmd.LeaveTypeID)
		if err != nil {
			return internal("next policy version", err)
		}

		now := s.now()
		p := &LeavePolicy{
			LeaveTypeID:             cmd.LeaveTypeID,
			Version:                 version,
			AnnualEntitlement:       cmd.AnnualEntitlement,
			AllowedEmploymentTypes:  nonNil(cmd.AllowedEmploymentTypes),
			AllowedEmployeeStatuses: nonNil(cmd.AllowedEmployeeStatuses),
			MinimumServiceMonths:    cmd.MinimumServiceMonths,
			Status:                  status,
			EffectiveDate:           cmd.EffectiveDate,
			ExpiryDate:              cmd.ExpiryDate,
			Remarks:                 cmd.Remarks,
			CreatedBy:               cmd.Actor,
			UpdatedBy:               cmd.Actor,
			CreatedAt:               now,
			UpdatedAt:               now,
		}
		if err := s.repos.Policies.Create(ctx, p); err != nil {
			return internal("create leave policy", err)
		}
		created = p
		return s.record(ctx, ActivityEntry{
			Actor:      cmd.Actor,
			Action:     ActionPolicyCreate,
			EntityType: EntityPolicy,
			EntityID:   p.ID,
			After:      p,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) UpdatePolicy(ctx context.Context, cmd UpdateLeavePolicyCommand) (*LeavePolicy, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var updated *LeavePolicy
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.loadPolicy(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if p.Status == PolicyStatusRetired {
			return ErrPolicyRetired
		}
		before := *p
		p.AnnualEntitlement = cmd.AnnualEntitlement
		p.AllowedEmploymentTypes = nonNil(cmd.AllowedEmploymentTypes)
		p.AllowedEmployeeStatuses = nonNil(cmd.AllowedEmployeeStatuses)
		p.MinimumServiceMonths = cmd.MinimumServiceMonths
		p.EffectiveDate = cmd.EffectiveDate
		p.ExpiryDate = cmd.ExpiryDate
		p.Remarks = cmd.Remarks
		p.UpdatedBy = cmd.Actor
		p.UpdatedAt = s.now()
		if err := s.repos.Policies.Update(ctx, p); err != nil {
			return internal("update leave policy", err)
		}
		updated = p
		return s.record(ctx, ActivityEntry{
			Actor:      cmd.Actor,
			Action:     ActionPolicyUpdate,
			EntityType: EntityPolicy,
			EntityID:   p.ID,
			Before:     before,
			After:      p,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) ActivatePolicy(ctx context.Context, id int64, actor string) (*LeavePolicy, error) {
	var activated *LeavePolicy
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.loadPolicy(ctx, id)
		if err != nil {
			return err
		}
		if err := s.ensureNoOtherActive(ctx, p.LeaveTypeID, p.ID); err != nil {
			return err
		}
		before := *p
		if err := p.Activate(actor, s.now()); err != nil {
			return err
		}
		if err := s.repos.Policies.Update(ctx, p); err != nil {
			return internal("activate leave policy", err)
		}
		activated = p
		return s.record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     ActionPolicyActivate,
			EntityType: EntityPolicy,
			EntityID:   p.ID,
			Before:     before,
			After:      p,
		})
	})
	if err != nil {
		return nil, err
	}
	return activated, nil
}

// CanRetire loads the policy and evaluates CanRetirePolicy without changing it.
func (s *Service) CanRetire(ctx context.Context, id int64) (RetireDecision, error) {
	p, err := s.loadPolicy(ctx, id)
	if err != nil {
		return RetireDecision{}, err
	}
	return CanRetirePolicy(p), nil
}

func (s *Service) RetirePolicy(ctx context.Context, cmd RetireLeavePolicyCommand) (*LeavePolicy, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var retired *LeavePolicy
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.loadPolicy(ctx, cmd.ID)
		if err != nil {
			return err
		}
		before := *p
		if err := p.Retire(cmd.ExpiryDate, cmd.Actor, s.now()); err != nil {
			return err
		}
		if err := s.repos.Policies.Update(ctx, p); err != nil {
			return internal("retire leave policy", err)
		}
		retired = p
		return s.record(ctx, ActivityEntry{
			Actor:      cmd.Actor,
			Action:     ActionPolicyRetire,
			EntityType: EntityPolicy,
			EntityID:   p.ID,
			Before:     before,
			After:      p,
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.PolicyRetired()
	return retired, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
