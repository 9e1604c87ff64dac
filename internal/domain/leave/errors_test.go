package leave

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesByCode(t *testing.T) {
	detailed := ErrInsufficientBalance.withMessage("remaining 1, requested 3")
	assert.ErrorIs(t, detailed, ErrInsufficientBalance)
	assert.NotErrorIs(t, detailed, ErrBalanceClosed)

	wrapped := fmt.Errorf("posting: %w", detailed)
	assert.ErrorIs(t, wrapped, ErrInsufficientBalance)
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, ErrInvalidCommand.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, ErrBalanceNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, ErrEncashmentNotPending.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrInternal.HTTPStatus())
}

func TestInternalWrapping(t *testing.T) {
	assert.NoError(t, internal("noop", nil))

	cause := errors.New("connection reset")
	err := internal("load leave balance", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "load leave balance: connection reset", err.Error())

	assert.Same(t, ErrConcurrentUpdate, internal("update", ErrConcurrentUpdate))
	assert.Equal(t, KindInternal, KindOf(cause))
}

func TestCommandValidation(t *testing.T) {
	valid := CreateLeaveBalanceCommand{EmployeeID: 1, LeaveTypeID: 2, Year: 2025, Earned: d("15")}
	require.NoError(t, valid.Validate())

	missing := CreateLeaveBalanceCommand{LeaveTypeID: 2, Year: 2025}
	err := missing.Validate()
	require.ErrorIs(t, err, ErrInvalidCommand)
	assert.Contains(t, err.Error(), "EmployeeID")

	negative := valid
	negative.Earned = d("-1")
	assert.ErrorIs(t, negative.Validate(), ErrInvalidCommand)

	assert.ErrorIs(t, RecordTransactionCommand{BalanceID: 1, TransactionType: "BONUS", Days: d("1")}.Validate(), ErrInvalidCommand)
	assert.ErrorIs(t, RecordTransactionCommand{BalanceID: 1, TransactionType: TransactionRequest}.Validate(), ErrInvalidCommand)
	assert.NoError(t, RecordTransactionCommand{BalanceID: 1, TransactionType: TransactionRequest, Days: d("-1")}.Validate())

	assert.ErrorIs(t, CreateLeaveEncashmentCommand{EmployeeID: 1, BalanceID: 1}.Validate(), ErrInvalidCommand)
	assert.ErrorIs(t, MarkAsPaidLeaveEncashmentCommand{ID: 1, PayrollRef: "  "}.Validate(), ErrInvalidCommand)
	assert.NoError(t, MarkAsPaidLeaveEncashmentCommand{ID: 1, PayrollRef: "PR-001"}.Validate())

	start := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	err = CreateLeaveYearConfigurationCommand{Year: 2025, CutoffStartDate: start, CutoffEndDate: end}.Validate()
	require.ErrorIs(t, err, ErrInvalidCommand)
	assert.Contains(t, err.Error(), "CutoffEndDate")

	assert.ErrorIs(t, GenerateForAllEmployeesCommand{Year: 12}.Validate(), ErrInvalidCommand)
	assert.ErrorIs(t, CreateLeavePolicyCommand{LeaveTypeID: 1, AnnualEntitlement: d("15.125")}.Validate(), ErrInvalidCommand)
	assert.ErrorIs(t, CreateLeavePolicyCommand{LeaveTypeID: 1, AllowedEmploymentTypes: []string{""}}.Validate(), ErrInvalidCommand)
}

func TestDayValuesLimitedToTwoDecimals(t *testing.T) {
	cases := []struct {
		name string
		cmd  interface{ Validate() error }
		ok   bool
	}{
		{"debit with three places", RecordTransactionCommand{BalanceID: 1, TransactionType: TransactionRequest, Days: d("-0.335")}, false},
		{"debit with two places", RecordTransactionCommand{BalanceID: 1, TransactionType: TransactionRequest, Days: d("-0.33")}, true},
		{"trailing zeros", RecordTransactionCommand{BalanceID: 1, TransactionType: TransactionRequest, Days: d("-0.500")}, true},
		{"earned", CreateLeaveBalanceCommand{EmployeeID: 1, LeaveTypeID: 1, Year: 2025, Earned: d("1.001")}, false},
		{"beginning balance", CreateLeaveBalanceCommand{EmployeeID: 1, LeaveTypeID: 1, Year: 2025, BeginningBalance: d("0.125")}, false},
		{"carry over", CarryOverCommand{SourceBalanceID: 1, Days: d("2.555")}, false},
		{"encashment days", CreateLeaveEncashmentCommand{EmployeeID: 1, BalanceID: 1, TotalDays: d("1.234")}, false},
		{"encashment amount", CreateLeaveEncashmentCommand{EmployeeID: 1, BalanceID: 1, TotalDays: d("1"), Amount: d("10.005")}, false},
		{"policy update", UpdateLeavePolicyCommand{ID: 1, AnnualEntitlement: d("12.499")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidCommand)
			assert.Contains(t, err.Error(), "decimal places")
		})
	}
}
