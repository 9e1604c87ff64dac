package leave

//go:generate mockgen -destination=mocks/mocks.go -package=mocks hrleave/internal/domain/leave ActiveEmployeeIdsPort,Locker

import (
	"context"
	"time"
)

type BalanceFilter struct {
	EmployeeID      int64
	LeaveTypeID     int64
	Year            int
	Status          BalanceStatus
	IncludeArchived bool
}

type PolicyFilter struct {
	LeaveTypeID int64
	Status      PolicyStatus
}

type EncashmentFilter struct {
	EmployeeID int64
	BalanceID  int64
	Status     EncashmentStatus
}

type YearConfigFilter struct {
	IncludeArchived bool
}

type EligibilityFilter struct {
	EmploymentTypes  []string
	EmployeeStatuses []string
}

// BalanceRepository persists balances. Update is a compare-and-swap on
// Version: it must fail with ErrConcurrentUpdate when the stored version does
// not match and bump the version on success.
type BalanceRepository interface {
	Create(ctx context.Context, b *LeaveBalance) error
	Update(ctx context.Context, b *LeaveBalance) error
	FindByID(ctx context.Context, id int64) (*LeaveBalance, error)
	FindByLeaveType(ctx context.Context, employeeID, leaveTypeID int64, year int) (*LeaveBalance, error)
	FindPaginatedList(ctx context.Context, filter BalanceFilter, page PageRequest) (Page[LeaveBalance], error)
	ExistsForYear(ctx context.Context, year int) (bool, error)
}

type TransactionRepository interface {
	Append(ctx context.Context, tx *LeaveTransaction) error
	FindByBalance(ctx context.Context, balanceID int64) ([]LeaveTransaction, error)
}

type PolicyRepository interface {
	Create(ctx context.Context, p *LeavePolicy) error
	Update(ctx context.Context, p *LeavePolicy) error
	FindByID(ctx context.Context, id int64) (*LeavePolicy, error)
	FindActiveByLeaveType(ctx context.Context, leaveTypeID int64) (*LeavePolicy, error)
	FindAllActive(ctx context.Context) ([]LeavePolicy, error)
	NextVersion(ctx context.Context, leaveTypeID int64) (int, error)
	FindPaginatedList(ctx context.Context, filter PolicyFilter, page PageRequest) (Page[LeavePolicy], error)
}

type EncashmentRepository interface {
	Create(ctx context.Context, e *LeaveEncashment) error
	Update(ctx context.Context, e *LeaveEncashment) error
	FindByID(ctx context.Context, id int64) (*LeaveEncashment, error)
	FindPendingByBalance(ctx context.Context, balanceID int64) (*LeaveEncashment, error)
	FindPaginatedList(ctx context.Context, filter EncashmentFilter, page PageRequest) (Page[LeaveEncashment], error)
}

type YearConfigurationRepository interface {
	Create(ctx context.Context, c *LeaveYearConfiguration) error
	Update(ctx context.Context, c *LeaveYearConfiguration) error
	FindByID(ctx context.Context, id int64) (*LeaveYearConfiguration, error)
	FindByYear(ctx context.Context, year int) (*LeaveYearConfiguration, error)
	FindPaginatedList(ctx context.Context, filter YearConfigFilter, page PageRequest) (Page[LeaveYearConfiguration], error)
}

type LeaveTypeLookup interface {
	FindByCode(ctx context.Context, code string) (*LeaveType, error)
	FindByID(ctx context.Context, id int64) (*LeaveType, error)
}

// ActiveEmployeeIdsPort resolves the employees a generation run may cover.
type ActiveEmployeeIdsPort interface {
	ListEligible(ctx context.Context, filter EligibilityFilter) ([]EligibleEmployee, error)
}

type ActivityEntry struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   int64
	Before     any
	After      any
}

type ActivityLog interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// TransactionPort runs fn inside one unit of work. Any error returned by fn
// rolls the unit back.
type TransactionPort interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

type Repositories struct {
	Balances     BalanceRepository
	Transactions TransactionRepository
	Policies     PolicyRepository
	Encashments  EncashmentRepository
	YearConfigs  YearConfigurationRepository
	LeaveTypes   LeaveTypeLookup
}
