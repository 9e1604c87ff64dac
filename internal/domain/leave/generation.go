package leave

import (
	"strconv"
	"time"
)

type balanceKey struct {
	employeeID  int64
	leaveTypeID int64
}

// BuildGenerationEntries pairs every policy with every employee it admits at
// asOf. Employees are visited in the order given, policies in the order given.
func BuildGenerationEntries(policies []LeavePolicy, employees []EligibleEmployee, asOf time.Time) []GenerationEntry {
	var entries []GenerationEntry
	for i := range policies {
		p := &policies[i]
		policyID := p.ID
		for _, e := range employees {
			if !p.Eligible(e, asOf) {
				continue
			}
			entries = append(entries, GenerationEntry{
				EmployeeID:        e.ID,
				LeaveTypeID:       p.LeaveTypeID,
				PolicyID:          &policyID,
				AnnualEntitlement: p.AnnualEntitlement,
				Remarks:           "generated from policy v" + strconv.Itoa(p.Version),
			})
		}
	}
	return entries
}
