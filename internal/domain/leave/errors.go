package leave

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInvalid Kind = iota + 1
	KindNotFound
	KindConflict
	KindInternal
)

// Error is the business error returned by every use case. Two errors are
// considered equal by errors.Is when their codes match, so callers can test
// against the sentinel values below even after details were attached.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalid:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (e *Error) withMessage(message string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: message, Err: e.Err}
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidCommand = newError(KindInvalid, "invalid_command", "invalid command")
	ErrSignRule       = newError(KindInvalid, "leave_transaction_sign", "transaction days do not match the transaction type sign rule")

	ErrBalanceNotFound     = newError(KindNotFound, "leave_balance_not_found", "leave balance not found")
	ErrPolicyNotFound      = newError(KindNotFound, "leave_policy_not_found", "leave policy not found")
	ErrLeaveTypeNotFound   = newError(KindNotFound, "leave_type_not_found", "leave type not found")
	ErrEncashmentNotFound  = newError(KindNotFound, "leave_encashment_not_found", "leave encashment not found")
	ErrYearConfigNotFound  = newError(KindNotFound, "leave_year_configuration_not_found", "leave year configuration not found")
	ErrCarryTargetNotFound = newError(KindNotFound, "leave_carry_target_not_found", "no balance exists for the following year")

	ErrBalanceExists           = newError(KindConflict, "leave_balance_exists", "leave balance already exists for employee, leave type and year")
	ErrBalanceClosed           = newError(KindConflict, "leave_balance_closed", "leave balance is closed")
	ErrBalanceArchived         = newError(KindConflict, "leave_balance_archived", "leave balance is archived")
	ErrInsufficientBalance     = newError(KindConflict, "leave_insufficient_balance", "insufficient leave balance")
	ErrConcurrentUpdate        = newError(KindConflict, "leave_balance_concurrent_update", "leave balance was modified by another request")
	ErrPolicyActiveExists      = newError(KindConflict, "leave_policy_active_exists", "an active policy already exists for this leave type")
	ErrPolicyNotRetirable      = newError(KindConflict, "leave_policy_not_retirable", "leave policy cannot be retired")
	ErrPolicyRetired           = newError(KindConflict, "leave_policy_retired", "retired leave policies cannot be changed")
	ErrPolicyNotDraft          = newError(KindConflict, "leave_policy_not_draft", "only draft policies can be activated")
	ErrEncashmentNotPending    = newError(KindConflict, "leave_encashment_not_pending", "leave encashment is not pending")
	ErrEncashmentPendingExists = newError(KindConflict, "leave_encashment_pending_exists", "balance has a pending encashment")
	ErrEncashmentOwner         = newError(KindConflict, "leave_encashment_owner", "balance does not belong to employee")
	ErrYearConfigExists        = newError(KindConflict, "leave_year_configuration_exists", "leave year configuration already exists")
	ErrYearConfigInUse         = newError(KindConflict, "leave_year_configuration_in_use", "leave year configuration is in use by balances")
	ErrGenerationInProgress    = newError(KindConflict, "leave_generation_in_progress", "balance generation for this year is already running")

	ErrInternal = newError(KindInternal, "leave_internal", "internal failure")
)

// KindOf returns the taxonomy kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// internal wraps a repository or infrastructure failure.
func internal(message string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindInternal, Code: ErrInternal.Code, Message: message, Err: err}
}

func invalid(message string, err error) error {
	return &Error{Kind: KindInvalid, Code: ErrInvalidCommand.Code, Message: message, Err: err}
}
