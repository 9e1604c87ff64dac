package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanRetirePolicy(t *testing.T) {
	assert.True(t, CanRetirePolicy(&LeavePolicy{Status: PolicyStatusActive}).CanRetire)

	draft := CanRetirePolicy(&LeavePolicy{Status: PolicyStatusDraft})
	assert.False(t, draft.CanRetire)
	assert.Contains(t, draft.Reason, "DRAFT")

	retired := CanRetirePolicy(&LeavePolicy{Status: PolicyStatusRetired})
	assert.False(t, retired.CanRetire)
	assert.NotEmpty(t, retired.Reason)

	assert.False(t, CanRetirePolicy(nil).CanRetire)
}

func TestRetireStampsExpiry(t *testing.T) {
	expiry := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	p := &LeavePolicy{Status: PolicyStatusActive}

	require.NoError(t, p.Retire(&expiry, "hr", testNow))
	assert.Equal(t, PolicyStatusRetired, p.Status)
	assert.Equal(t, &expiry, p.ExpiryDate)

	err := p.Retire(nil, "hr", testNow)
	assert.ErrorIs(t, err, ErrPolicyNotRetirable)
}

func TestActivate(t *testing.T) {
	p := &LeavePolicy{Status: PolicyStatusDraft}
	require.NoError(t, p.Activate("hr", testNow))
	assert.Equal(t, PolicyStatusActive, p.Status)

	assert.ErrorIs(t, p.Activate("hr", testNow), ErrPolicyNotDraft)
	assert.ErrorIs(t, (&LeavePolicy{Status: PolicyStatusRetired}).Activate("hr", testNow), ErrPolicyRetired)
}

func TestServiceMonths(t *testing.T) {
	hire := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		asOf time.Time
		want int
	}{
		{time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 9},
		{time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), 12},
		{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ServiceMonths(hire, tc.asOf), tc.asOf.Format("2006-01-02"))
	}
}

func TestEligible(t *testing.T) {
	hired := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	p := &LeavePolicy{
		AllowedEmploymentTypes:  []string{"REGULAR", "PROBATIONARY"},
		AllowedEmployeeStatuses: []string{"ACTIVE"},
		MinimumServiceMonths:    12,
	}

	assert.True(t, p.Eligible(EligibleEmployee{ID: 1, HireDate: &hired, EmploymentType: "regular", EmployeeStatus: "ACTIVE"}, cutoff))
	assert.False(t, p.Eligible(EligibleEmployee{ID: 2, HireDate: &hired, EmploymentType: "CONTRACTUAL", EmployeeStatus: "ACTIVE"}, cutoff))
	assert.False(t, p.Eligible(EligibleEmployee{ID: 3, HireDate: &hired, EmploymentType: "REGULAR", EmployeeStatus: "RESIGNED"}, cutoff))
	assert.False(t, p.Eligible(EligibleEmployee{ID: 4, EmploymentType: "REGULAR", EmployeeStatus: "ACTIVE"}, cutoff))

	recent := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, p.Eligible(EligibleEmployee{ID: 5, HireDate: &recent, EmploymentType: "REGULAR", EmployeeStatus: "ACTIVE"}, cutoff))

	open := &LeavePolicy{}
	assert.True(t, open.Eligible(EligibleEmployee{ID: 6}, cutoff))
}

func TestBuildGenerationEntries(t *testing.T) {
	hired := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	policies := []LeavePolicy{
		{ID: 10, LeaveTypeID: 1, Version: 2, AnnualEntitlement: d("15")},
		{ID: 11, LeaveTypeID: 2, Version: 1, AnnualEntitlement: d("10"), AllowedEmploymentTypes: []string{"REGULAR"}},
	}
	employees := []EligibleEmployee{
		{ID: 100, HireDate: &hired, EmploymentType: "REGULAR"},
		{ID: 101, HireDate: &hired, EmploymentType: "CONTRACTUAL"},
	}

	entries := BuildGenerationEntries(policies, employees, testNow)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(100), entries[0].EmployeeID)
	assert.Equal(t, int64(1), entries[0].LeaveTypeID)
	assert.Equal(t, int64(10), *entries[0].PolicyID)
	assert.Equal(t, "generated from policy v2", entries[0].Remarks)
	assert.Equal(t, int64(101), entries[1].EmployeeID)
	assert.Equal(t, int64(100), entries[2].EmployeeID)
	assert.Equal(t, int64(11), *entries[2].PolicyID)
}

func TestCutoffWindow(t *testing.T) {
	start, end := CutoffWindow(2025, nil)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), end)

	cfg := &LeaveYearConfiguration{
		Year:            2025,
		CutoffStartDate: time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC),
		CutoffEndDate:   time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
	}
	start, end = CutoffWindow(2025, cfg)
	assert.Equal(t, cfg.CutoffStartDate, start)
	assert.Equal(t, cfg.CutoffEndDate, end)
}
