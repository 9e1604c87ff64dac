package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewBalance builds an OPEN balance and the opening ledger row that makes the
// ledger sum equal to remaining from inception. The opening row is nil when
// nothing is granted.
func NewBalance(employeeID, leaveTypeID int64, policyID *int64, year int, beginning, earned decimal.Decimal, remarks, actor string, at time.Time) (*LeaveBalance, *LeaveTransaction) {
	b := &LeaveBalance{
		EmployeeID:       employeeID,
		LeaveTypeID:      leaveTypeID,
		PolicyID:         policyID,
		Year:             year,
		BeginningBalance: beginning,
		Earned:           earned,
		Used:             decimal.Zero,
		CarriedOver:      decimal.Zero,
		Encashed:         decimal.Zero,
		Status:           BalanceStatusOpen,
		Remarks:          remarks,
		Version:          1,
		CreatedBy:        actor,
		UpdatedBy:        actor,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
	b.Remaining = b.Formula()

	opening := beginning.Add(earned)
	if opening.IsZero() {
		return b, nil
	}
	return b, &LeaveTransaction{
		TransactionType: TransactionAdjustment,
		Days:            opening,
		Remarks:         openingBalanceRemark,
		CreatedBy:       actor,
		CreatedAt:       at,
	}
}

// Formula is beginning + earned + carried_over - used - encashed.
func (b *LeaveBalance) Formula() decimal.Decimal {
	return b.BeginningBalance.Add(b.Earned).Add(b.CarriedOver).Sub(b.Used).Sub(b.Encashed)
}

func (b *LeaveBalance) IsOpen() bool {
	return b.Status == BalanceStatusOpen
}

func (b *LeaveBalance) IsArchived() bool {
	return b.ArchivedAt != nil
}

// Post applies one signed ledger movement to the balance and returns the
// transaction row to append. The balance is left untouched on error.
func (b *LeaveBalance) Post(txType TransactionType, days decimal.Decimal, remarks, actor string, at time.Time) (*LeaveTransaction, error) {
	return b.PostHolding(txType, days, decimal.Zero, remarks, actor, at)
}

// PostHolding is Post where held days, reserved by a pending encashment, are
// not available to debits.
func (b *LeaveBalance) PostHolding(txType TransactionType, days, held decimal.Decimal, remarks, actor string, at time.Time) (*LeaveTransaction, error) {
	if !txType.IsValid() {
		return nil, invalid("unknown transaction type "+string(txType), nil)
	}
	if days.IsZero() {
		return nil, invalid("transaction days must not be zero", nil)
	}
	if txType.RequiresNegative() && !days.IsNegative() {
		return nil, ErrSignRule.withMessage(string(txType) + " transactions must be negative")
	}
	if txType.RequiresPositive() && !days.IsPositive() {
		return nil, ErrSignRule.withMessage(string(txType) + " transactions must be positive")
	}
	if b.IsArchived() {
		return nil, ErrBalanceArchived
	}
	if !b.IsOpen() {
		return nil, ErrBalanceClosed
	}
	if days.IsNegative() && b.Remaining.Sub(held).Add(days).IsNegative() {
		msg := "insufficient leave balance: remaining " + b.Remaining.String() + ", requested " + days.Neg().String()
		if held.IsPositive() {
			msg += ", held for pending encashment " + held.String()
		}
		return nil, ErrInsufficientBalance.withMessage(msg)
	}

	switch txType {
	case TransactionRequest:
		b.Used = b.Used.Add(days.Neg())
	case TransactionEncashment:
		b.Encashed = b.Encashed.Add(days.Neg())
	case TransactionCarry:
		b.CarriedOver = b.CarriedOver.Add(days)
	case TransactionAdjustment:
		b.Earned = b.Earned.Add(days)
	}
	b.Remaining = b.Formula()
	b.UpdatedBy = actor
	b.UpdatedAt = at

	return &LeaveTransaction{
		BalanceID:       b.ID,
		TransactionType: txType,
		Days:            days,
		Remarks:         remarks,
		CreatedBy:       actor,
		CreatedAt:       at,
	}, nil
}

func (b *LeaveBalance) Close(actor string, at time.Time) error {
	if b.IsArchived() {
		return ErrBalanceArchived
	}
	if !b.IsOpen() {
		return ErrBalanceClosed
	}
	b.Status = BalanceStatusClosed
	b.UpdatedBy = actor
	b.UpdatedAt = at
	return nil
}

// Reconcile compares the stored remaining with the formula and the signed
// sum of the given ledger rows.
func (b *LeaveBalance) Reconcile(transactions []LeaveTransaction) ReconciliationReport {
	sum := decimal.Zero
	for _, tx := range transactions {
		sum = sum.Add(tx.Days)
	}
	formula := b.Formula()
	return ReconciliationReport{
		BalanceID:    b.ID,
		Stored:       b.Remaining,
		Formula:      formula,
		LedgerSum:    sum,
		Transactions: len(transactions),
		Balanced:     b.Remaining.Equal(formula) && b.Remaining.Equal(sum),
	}
}
