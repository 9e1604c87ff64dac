package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaveType struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type LeaveBalance struct {
	ID               int64           `json:"id"`
	EmployeeID       int64           `json:"employeeId"`
	LeaveTypeID      int64           `json:"leaveTypeId"`
	PolicyID         *int64          `json:"policyId,omitempty"`
	Year             int             `json:"year"`
	BeginningBalance decimal.Decimal `json:"beginningBalance"`
	Earned           decimal.Decimal `json:"earned"`
	Used             decimal.Decimal `json:"used"`
	CarriedOver      decimal.Decimal `json:"carriedOver"`
	Encashed         decimal.Decimal `json:"encashed"`
	Remaining        decimal.Decimal `json:"remaining"`
	Status           BalanceStatus   `json:"status"`
	Remarks          string          `json:"remarks,omitempty"`
	Version          int64           `json:"version"`
	CreatedBy        string          `json:"createdBy,omitempty"`
	UpdatedBy        string          `json:"updatedBy,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	ArchivedAt       *time.Time      `json:"archivedAt,omitempty"`
}

type LeaveTransaction struct {
	ID              int64           `json:"id"`
	BalanceID       int64           `json:"balanceId"`
	TransactionType TransactionType `json:"transactionType"`
	Days            decimal.Decimal `json:"days"`
	Remarks         string          `json:"remarks,omitempty"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type LeavePolicy struct {
	ID                      int64           `json:"id"`
	LeaveTypeID             int64           `json:"leaveTypeId"`
	Version                 int             `json:"version"`
	AnnualEntitlement       decimal.Decimal `json:"annualEntitlement"`
	AllowedEmploymentTypes  []string        `json:"allowedEmploymentTypes"`
	AllowedEmployeeStatuses []string        `json:"allowedEmployeeStatuses"`
	MinimumServiceMonths    int             `json:"minimumServiceMonths"`
	Status                  PolicyStatus    `json:"status"`
	EffectiveDate           *time.Time      `json:"effectiveDate,omitempty"`
	ExpiryDate              *time.Time      `json:"expiryDate,omitempty"`
	Remarks                 string          `json:"remarks,omitempty"`
	CreatedBy               string          `json:"createdBy,omitempty"`
	UpdatedBy               string          `json:"updatedBy,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
	UpdatedAt               time.Time       `json:"updatedAt"`
}

type LeaveEncashment struct {
	ID         int64            `json:"id"`
	EmployeeID int64            `json:"employeeId"`
	BalanceID  int64            `json:"balanceId"`
	TotalDays  decimal.Decimal  `json:"totalDays"`
	Amount     decimal.Decimal  `json:"amount"`
	Status     EncashmentStatus `json:"status"`
	PayrollRef string           `json:"payrollRef,omitempty"`
	PaidAt     *time.Time       `json:"paidAt,omitempty"`
	CreatedBy  string           `json:"createdBy,omitempty"`
	UpdatedBy  string           `json:"updatedBy,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type LeaveYearConfiguration struct {
	ID              int64      `json:"id"`
	Year            int        `json:"year"`
	CutoffStartDate time.Time  `json:"cutoffStartDate"`
	CutoffEndDate   time.Time  `json:"cutoffEndDate"`
	Remarks         string     `json:"remarks,omitempty"`
	CreatedBy       string     `json:"createdBy,omitempty"`
	UpdatedBy       string     `json:"updatedBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	ArchivedAt      *time.Time `json:"archivedAt,omitempty"`
}

// EligibleEmployee is the minimal employee view handed out by the eligibility port.
type EligibleEmployee struct {
	ID             int64      `json:"id"`
	HireDate       *time.Time `json:"hireDate,omitempty"`
	EmploymentType string     `json:"employmentType"`
	EmployeeStatus string     `json:"employeeStatus"`
}

type GenerationEntry struct {
	EmployeeID        int64           `json:"employeeId"`
	LeaveTypeID       int64           `json:"leaveTypeId"`
	PolicyID          *int64          `json:"policyId,omitempty"`
	AnnualEntitlement decimal.Decimal `json:"annualEntitlement"`
	Remarks           string          `json:"remarks,omitempty"`
}

type GenerationResult struct {
	RunID        string         `json:"runId"`
	Year         int            `json:"year"`
	CreatedCount int            `json:"createdCount"`
	SkippedCount int            `json:"skippedCount"`
	Created      []LeaveBalance `json:"created"`
}

type RetireDecision struct {
	CanRetire bool   `json:"canRetire"`
	Reason    string `json:"reason,omitempty"`
}

type ReconciliationReport struct {
	BalanceID    int64           `json:"balanceId"`
	Stored       decimal.Decimal `json:"stored"`
	Formula      decimal.Decimal `json:"formula"`
	LedgerSum    decimal.Decimal `json:"ledgerSum"`
	Transactions int             `json:"transactions"`
	Balanced     bool            `json:"balanced"`
}

type PageRequest struct {
	Limit  int
	Offset int
}

type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
