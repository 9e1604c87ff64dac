package leave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hrleave/internal/domain/leave"
	"hrleave/internal/domain/leave/memory"
	"hrleave/internal/domain/leave/mocks"
	"hrleave/internal/platform/lock"
)

func newGenerationService(t *testing.T, store *memory.Store, port leave.ActiveEmployeeIdsPort, locker leave.Locker) *leave.Service {
	t.Helper()
	return leave.NewService(leave.Deps{
		Repositories: store.Repositories(),
		Tx:           store,
		Activity:     store,
		Eligibility:  port,
		Locker:       locker,
		LockTTL:      time.Minute,
		Clock:        func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) },
	})
}

func TestGenerateForYearPassesFiltersToPort(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := memory.New()
	vl := store.AddLeaveType("VL", "Vacation Leave")

	port := mocks.NewMockActiveEmployeeIdsPort(ctrl)
	locker := mocks.NewMockLocker(ctrl)
	released := false

	locker.EXPECT().
		Acquire(gomock.Any(), "leave-generation:2025", time.Minute).
		Return(func(context.Context) error { released = true; return nil }, nil)
	port.EXPECT().
		ListEligible(gomock.Any(), leave.EligibilityFilter{EmploymentTypes: []string{"REGULAR"}}).
		Return([]leave.EligibleEmployee{{ID: 1, EmploymentType: "REGULAR"}, {ID: 2, EmploymentType: "REGULAR"}}, nil)

	svc := newGenerationService(t, store, port, locker)
	ctx := context.Background()
	_, err := svc.CreatePolicy(ctx, leave.CreateLeavePolicyCommand{LeaveTypeID: vl.ID, AnnualEntitlement: dec("12")})
	require.NoError(t, err)

	result, err := svc.GenerateForYear(ctx, leave.GenerateForYearCommand{Year: 2025, LeaveTypeCode: "VL", EmploymentTypes: []string{"REGULAR"}, Actor: "system"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedCount)
	assert.True(t, released)
}

func TestGenerateWhileLockHeld(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := memory.New()
	port := mocks.NewMockActiveEmployeeIdsPort(ctrl)
	locker := mocks.NewMockLocker(ctrl)

	locker.EXPECT().
		Acquire(gomock.Any(), "leave-generation:2025", gomock.Any()).
		Return(nil, lock.ErrNotAcquired)

	svc := newGenerationService(t, store, port, locker)
	_, err := svc.GenerateForAllEmployees(context.Background(), leave.GenerateForAllEmployeesCommand{Year: 2025})
	require.ErrorIs(t, err, leave.ErrGenerationInProgress)
	assert.Equal(t, leave.KindConflict, leave.KindOf(err))
}

func TestGenerateLockBackendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := memory.New()
	locker := mocks.NewMockLocker(ctrl)

	locker.EXPECT().
		Acquire(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis: connection refused"))

	svc := newGenerationService(t, store, mocks.NewMockActiveEmployeeIdsPort(ctrl), locker)
	_, err := svc.Generate(context.Background(), 2025, []leave.GenerationEntry{{EmployeeID: 1, LeaveTypeID: 1, AnnualEntitlement: dec("1")}}, "system")
	require.Error(t, err)
	assert.Equal(t, leave.KindInternal, leave.KindOf(err))
}

func TestGenerateEligibilityFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := memory.New()
	vl := store.AddLeaveType("VL", "Vacation Leave")
	port := mocks.NewMockActiveEmployeeIdsPort(ctrl)
	port.EXPECT().ListEligible(gomock.Any(), gomock.Any()).Return(nil, errors.New("directory timeout"))

	svc := newGenerationService(t, store, port, lock.NewMemory())
	_, err := svc.CreatePolicy(context.Background(), leave.CreateLeavePolicyCommand{LeaveTypeID: vl.ID, AnnualEntitlement: dec("12")})
	require.NoError(t, err)

	_, err = svc.GenerateForAllEmployees(context.Background(), leave.GenerateForAllEmployeesCommand{Year: 2025})
	require.Error(t, err)
	assert.Equal(t, leave.KindInternal, leave.KindOf(err))
	assert.Len(t, store.Activity(), 1)
}

func TestGenerateRequiresEligibilityPort(t *testing.T) {
	store := memory.New()
	svc := leave.NewService(leave.Deps{Repositories: store.Repositories(), Tx: store, Activity: store})

	_, err := svc.GenerateForAllEmployees(context.Background(), leave.GenerateForAllEmployeesCommand{Year: 2025})
	require.Error(t, err)
	assert.Equal(t, leave.KindInternal, leave.KindOf(err))
}
