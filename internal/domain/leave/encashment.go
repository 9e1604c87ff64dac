package leave

import "time"

func (e *LeaveEncashment) IsPending() bool {
	return e.Status == EncashmentStatusPending
}

// MarkPaid moves a PENDING encashment to PAID. PAID is terminal.
func (e *LeaveEncashment) MarkPaid(payrollRef, actor string, at time.Time) error {
	if !e.IsPending() {
		return ErrEncashmentNotPending
	}
	e.Status = EncashmentStatusPaid
	e.PayrollRef = payrollRef
	paidAt := at
	e.PaidAt = &paidAt
	e.UpdatedBy = actor
	e.UpdatedAt = at
	return nil
}
