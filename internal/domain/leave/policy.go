package leave

import (
	"slices"
	"strings"
	"time"
)

// CanRetirePolicy decides whether a policy may move to RETIRED. It has no
// side effects.
func CanRetirePolicy(p *LeavePolicy) RetireDecision {
	if p == nil {
		return RetireDecision{Reason: "policy not found"}
	}
	switch p.Status {
	case PolicyStatusActive:
		return RetireDecision{CanRetire: true}
	case PolicyStatusRetired:
		return RetireDecision{Reason: "policy is already retired"}
	default:
		return RetireDecision{Reason: "only active policies can be retired, current status is " + string(p.Status)}
	}
}

func (p *LeavePolicy) Retire(expiry *time.Time, actor string, at time.Time) error {
	decision := CanRetirePolicy(p)
	if !decision.CanRetire {
		return ErrPolicyNotRetirable.withMessage(decision.Reason)
	}
	p.Status = PolicyStatusRetired
	if expiry != nil {
		p.ExpiryDate = expiry
	}
	p.UpdatedBy = actor
	p.UpdatedAt = at
	return nil
}

func (p *LeavePolicy) Activate(actor string, at time.Time) error {
	if p.Status == PolicyStatusRetired {
		return ErrPolicyRetired
	}
	if p.Status != PolicyStatusDraft {
		return ErrPolicyNotDraft
	}
	p.Status = PolicyStatusActive
	p.UpdatedBy = actor
	p.UpdatedAt = at
	return nil
}

// Eligible reports whether the employee satisfies the policy's allow-lists
// and minimum service at asOf. An empty allow-list admits everyone.
func (p *LeavePolicy) Eligible(e EligibleEmployee, asOf time.Time) bool {
	if !allowed(p.AllowedEmploymentTypes, e.EmploymentType) {
		return false
	}
	if !allowed(p.AllowedEmployeeStatuses, e.EmployeeStatus) {
		return false
	}
	if p.MinimumServiceMonths <= 0 {
		return true
	}
	if e.HireDate == nil {
		return false
	}
	return ServiceMonths(*e.HireDate, asOf) >= p.MinimumServiceMonths
}

func allowed(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	return slices.ContainsFunc(list, func(v string) bool {
		return strings.EqualFold(v, value)
	})
}

// ServiceMonths counts completed calendar months between hire and asOf.
func ServiceMonths(hire, asOf time.Time) int {
	if asOf.Before(hire) {
		return 0
	}
	months := (asOf.Year()-hire.Year())*12 + int(asOf.Month()) - int(hire.Month())
	if asOf.Day() < hire.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
