package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"hrleave/internal/platform/lock"
	"hrleave/internal/platform/logging"
)

const defaultLockTTL = 5 * time.Minute

// Metrics receives counters for ledger activity. Implementations must be
// safe for concurrent use.
type Metrics interface {
	BalancesGenerated(created, skipped int)
	TransactionPosted(transactionType string)
	EncashmentPaid()
	PolicyRetired()
}

type noopMetrics struct{}

func (noopMetrics) BalancesGenerated(int, int) {}
func (noopMetrics) TransactionPosted(string)   {}
func (noopMetrics) EncashmentPaid()            {}
func (noopMetrics) PolicyRetired()             {}

type Deps struct {
	Repositories
	Tx          TransactionPort
	Activity    ActivityLog
	Eligibility ActiveEmployeeIdsPort
	Locker      Locker
	Metrics     Metrics
	Logger      *zap.Logger
	LockTTL     time.Duration
	Clock       func() time.Time
}

type Service struct {
	repos       Repositories
	tx          TransactionPort
	activity    ActivityLog
	eligibility ActiveEmployeeIdsPort
	locker      Locker
	metrics     Metrics
	logger      *zap.Logger
	lockTTL     time.Duration
	now         func() time.Time
}

func NewService(deps Deps) *Service {
	s := &Service{
		repos:       deps.Repositories,
		tx:          deps.Tx,
		activity:    deps.Activity,
		eligibility: deps.Eligibility,
		locker:      deps.Locker,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		lockTTL:     deps.LockTTL,
		now:         deps.Clock,
	}
	if s.locker == nil {
		s.locker = lock.NewMemory()
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.lockTTL <= 0 {
		s.lockTTL = defaultLockTTL
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logging.FromContext(ctx, s.logger)
}

func (s *Service) record(ctx context.Context, entry ActivityEntry) error {
	if err := s.activity.Record(ctx, entry); err != nil {
		return internal("record activity", err)
	}
	return nil
}

func (s *Service) loadBalance(ctx context.Context, id int64) (*LeaveBalance, error) {
	b, err := s.repos.Balances.FindByID(ctx, id)
	if err != nil {
		return nil, internal("load leave balance", err)
	}
	if b == nil {
		return nil, ErrBalanceNotFound
	}
	return b, nil
}

// postAndSave applies one posting through the aggregate and persists the
// balance and ledger row. Debits cannot consume days held by a pending
// encashment. Callers must already be inside a unit of work.
func (s *Service) postAndSave(ctx context.Context, b *LeaveBalance, txType TransactionType, days decimal.Decimal, remarks, actor string) (*LeaveTransaction, error) {
	held := decimal.Zero
	if days.IsNegative() {
		pending, err := s.pendingEncashment(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		if pending != nil {
			held = pending.TotalDays
		}
	}
	entry, err := b.PostHolding(txType, days, held, remarks, actor, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.saveBalance(ctx, b, "update leave balance"); err != nil {
		return nil, err
	}
	if err := s.repos.Transactions.Append(ctx, entry); err != nil {
		return nil, internal("append leave transaction", err)
	}
	return entry, nil
}

func (s *Service) pendingEncashment(ctx context.Context, balanceID int64) (*LeaveEncashment, error) {
	e, err := s.repos.Encashments.FindPendingByBalance(ctx, balanceID)
	if err != nil {
		return nil, internal("check pending encashment", err)
	}
	return e, nil
}

// ensureNothingPending refuses to take a balance out of circulation while an
// encashment still needs to post against it.
func (s *Service) ensureNothingPending(ctx context.Context, balanceID int64, action string) error {
	pending, err := s.pendingEncashment(ctx, balanceID)
	if err != nil {
		return err
	}
	if pending != nil {
		return ErrEncashmentPendingExists.withMessage(fmt.Sprintf("cannot %s balance %d while encashment %d is pending", action, balanceID, pending.ID))
	}
	return nil
}

// saveBalance persists b, keeping a lost version race as a conflict.
func (s *Service) saveBalance(ctx context.Context, b *LeaveBalance, op string) error {
	if err := s.repos.Balances.Update(ctx, b); err != nil {
		if errors.Is(err, ErrConcurrentUpdate) {
			return err
		}
		return internal(op, err)
	}
	return nil
}

func normalizePage(p PageRequest) PageRequest {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
