package leave

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func validateStruct(cmd any) error {
	if err := validatorInstance().Struct(cmd); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return invalid(formatFieldError(fieldErrs[0]), err)
		}
		return invalid("invalid command", err)
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gt", "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lt", "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

func requirePositive(field string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return invalid(field+" must be greater than zero", nil)
	}
	return nil
}

func requireNonNegative(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return invalid(field+" must not be negative", nil)
	}
	return nil
}

// DayScale is the number of decimal places stored for day and amount values.
const DayScale = 2

func requireScale(field string, value decimal.Decimal) error {
	if !value.Equal(value.Round(DayScale)) {
		return invalid(fmt.Sprintf("%s must have at most %d decimal places", field, DayScale), nil)
	}
	return nil
}

func requireOrderedDates(startField string, start *time.Time, endField string, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return invalid(endField+" must not be before "+startField, nil)
	}
	return nil
}

type CreateLeaveBalanceCommand struct {
	EmployeeID       int64           `json:"employeeId" validate:"required,gt=0"`
	LeaveTypeID      int64           `json:"leaveTypeId" validate:"required,gt=0"`
	PolicyID         *int64          `json:"policyId,omitempty" validate:"omitempty,gt=0"`
	Year             int             `json:"year" validate:"required,gte=1900,lte=9999"`
	BeginningBalance decimal.Decimal `json:"beginningBalance"`
	Earned           decimal.Decimal `json:"earned"`
	Remarks          string          `json:"remarks" validate:"max=500"`
	Actor            string          `json:"-"`
}

func (c CreateLeaveBalanceCommand) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if err := requireNonNegative("BeginningBalance", c.BeginningBalance); err != nil {
		return err
	}
	if err := requireNonNegative("Earned", c.Earned); err != nil {
		return err
	}
	if err := requireScale("BeginningBalance", c.BeginningBalance); err != nil {
		return err
	}
	return requireScale("Earned", c.Earned)
}

type RecordTransactionCommand struct {
	BalanceID       int64           `json:"balanceId" validate:"required,gt=0"`
	TransactionType TransactionType `json:"transactionType" validate:"required,oneof=REQUEST ENCASHMENT ADJUSTMENT CARRY"`
	Days            decimal.Decimal `json:"days"`
	Remarks         string          `json:"remarks" validate:"max=500"`
	Actor           string          `json:"-"`
}

func (c RecordTransactionCommand) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if c.Days.IsZero() {
		return invalid("Days must not be zero", nil)
	}
	return requireScale("Days", c.Days)
}

type CarryOverCommand struct {
	SourceBalanceID int64           `json:"sourceBalanceId" validate:"required,gt=0"`
	Days            decimal.Decimal `json:"days"`
	Remarks         string          `json:"remarks" validate:"max=500"`
	Actor           string          `json:"-"`
}

func (c CarryOverCommand) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if err := requirePositive("Days", c.Days); err != nil {
		return err
	}
	return requireScale("Days", c.Days)
}

type CreateLeaveEncashmentCommand struct {
	EmployeeID int64           `json:"employeeId" validate:"required,gt=0"`
	BalanceID  int64           `json:"balanceId" validate:"required,gt=0"`
	TotalDays  decimal.Decimal `json:"totalDays"`
	Amount     decimal.Decimal `json:"amount"`
	Actor      string          `json:"-"`
}

func (c CreateLeaveEncashmentCommand) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if err := requirePositive("TotalDays", c.TotalDays); err != nil {
		return err
	}
	if err := requireNonNegative("Amount", c.Amount); err != nil {
		return err
	}
	if err := requireScale("TotalDays", c.TotalDays); err != nil {
		return err
	}
	return requireScale("Amount", c.Amount)
}

type MarkAsPaidLeaveEncashmentCommand struct {
	ID         int64  `json:"id" validate:"required,gt=0"`
	PayrollRef string `json:"payrollRef" validate:"required,max=100"`
	Actor      string `json:"-"`
}

func (c MarkAsPaidLeaveEncashmentCommand) Validate() error {
	if strings.TrimSpace(c.PayrollRef) == "" {
		return invalid("PayrollRef is required", nil)
	}
	return validateStruct(c)
}

type CreateLeavePolicyCommand struct {
	LeaveTypeID             int64           `json:"leaveTypeId" validate:"required,gt=0"`
	AnnualEntitlement       decimal.Decimal `json:"annualEntitlement"`
	AllowedEmploymentTypes  []string        `json:"allowedEmploymentTypes" validate:"dive,required,max=50"`
	AllowedEmployeeStatuses []string        `json:"allowedEmployeeStatuses" validate:"dive,required,max=50"`
	MinimumServiceMonths    int             `json:"minimumServiceMonths" validate:"gte=0,lte=600"`
	EffectiveDate           *time.Time      `json:"effectiveDate,omitempty"`
	ExpiryDate              *time.Time      `json:"expiryDate,omitempty"`
	Remarks                 string          `json:"remarks" validate:"max=500"`
	Draft                   bool            `json:"draft"`
	Actor                   string          `json:"-"`
}

func (c CreateLeavePolicyCommand) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if err := requireNonNegative("AnnualEntitlement", c.AnnualEntitlement); err != nil {
		return err
	}
	if err := requireScale("AnnualEntitlement", c.AnnualEntitlement); err != nil {
		return err
	}
	return requireOrderedDates("EffectiveDate", c.EffectiveDate, "ExpiryDate", c.ExpiryDate)
}

type UpdateLeavePolicyCommand struct {
	ID                      int64           `json:"id" validate:"required,gt=0"`
	AnnualEntitlement       decimal.Decimal `json:"annualEntitlement"`
	AllowedEmploymentTypes  []string        `json:"allowedEmploymentTypes" validate:"dive,required,max=50"`
	AllowedEmployeeStatuses []string        `json:"allowedEmployeeStatuses" validate:"dive,required,max=50"`
	MinimumServiceMonths    int             `json:"minimumServiceMonths" validate:"gte=0,lte=600"`
	EffectiveDate           *time.Time      `json:"effectiveDate,omitempty"`
	ExpiryDate              *time.Time      `json:"expiryDate,omitempty"`
	Remarks                 string          `json:"remarks" validate:"max=500"`
	Actor                   string          `json:"-"`
}

func (c UpdateLeavePolicyCommand) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if err := requireNonNegative("AnnualEntitlement", c.AnnualEntitlement); err != nil {
		return err
	}
	if err := requireScale("AnnualEntitlement", c.AnnualEntitlement); err != nil {
		return err
	}
	return requireOrderedDates("EffectiveDate", c.EffectiveDate, "ExpiryDate", c.ExpiryDate)
}

type RetireLeavePolicyCommand struct {
	ID         int64      `json:"id" validate:"required,gt=0"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	Actor      string     `json:"-"`
}

func (c RetireLeavePolicyCommand) Validate() error {
	return validateStruct(c)
}

type CreateLeaveYearConfigurationCommand struct {
	Year            int       `json:"year" validate:"required,gte=1900,lte=9999"`
	CutoffStartDate time.Time `json:"cutoffStartDate" validate:"required"`
	CutoffEndDate   time.Time `json:"cutoffEndDate" validate:"required"`
	Remarks         string    `json:"remarks" validate:"max=500"`
	Actor           string    `json:"-"`
}

func (c CreateLeaveYearConfigurationCommand) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	return requireOrderedDates("CutoffStartDate", &c.CutoffStartDate, "CutoffEndDate", &c.CutoffEndDate)
}

type UpdateLeaveYearConfigurationCommand struct {
	ID              int64     `json:"id" validate:"required,gt=0"`
	Year            int       `json:"year" validate:"required,gte=1900,lte=9999"`
	CutoffStartDate time.Time `json:"cutoffStartDate" validate:"required"`
	CutoffEndDate   time.Time `json:"cutoffEndDate" validate:"required"`
	Remarks         string    `json:"remarks" validate:"max=500"`
	Actor           string    `json:"-"`
}

func (c UpdateLeaveYearConfigurationCommand) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	return requireOrderedDates("CutoffStartDate", &c.CutoffStartDate, "CutoffEndDate", &c.CutoffEndDate)
}

type GenerateForYearCommand struct {
	Year             int      `json:"year" validate:"required,gte=1900,lte=9999"`
	LeaveTypeCode    string   `json:"leaveTypeCode,omitempty" validate:"max=50"`
	EmploymentTypes  []string `json:"employmentTypes,omitempty" validate:"dive,required"`
	EmployeeStatuses []string `json:"employeeStatuses,omitempty" validate:"dive,required"`
	Actor            string   `json:"-"`
}

func (c GenerateForYearCommand) Validate() error {
	return validateStruct(c)
}

type GenerateForAllEmployeesCommand struct {
	Year  int    `json:"year" validate:"required,gte=1900,lte=9999"`
	Actor string `json:"-"`
}

func (c GenerateForAllEmployeesCommand) Validate() error {
	return validateStruct(c)
}
