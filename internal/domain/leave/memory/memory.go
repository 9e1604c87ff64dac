// Package memory holds in-process adapters for every leave port. Units of
// work are serialized and rolled back by restoring a snapshot.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"hrleave/internal/domain/leave"
)

type txKey struct{}

type state struct {
	nextID       int64
	balances     map[int64]leave.LeaveBalance
	transactions []leave.LeaveTransaction
	policies     map[int64]leave.LeavePolicy
	encashments  map[int64]leave.LeaveEncashment
	yearConfigs  map[int64]leave.LeaveYearConfiguration
	activity     []leave.ActivityEntry
}

func (s state) clone() state {
	return state{
		nextID:       s.nextID,
		balances:     maps.Clone(s.balances),
		transactions: slices.Clone(s.transactions),
		policies:     maps.Clone(s.policies),
		encashments:  maps.Clone(s.encashments),
		yearConfigs:  maps.Clone(s.yearConfigs),
		activity:     slices.Clone(s.activity),
	}
}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data state

	leaveTypes map[int64]leave.LeaveType
	employees  []leave.EligibleEmployee

	// FailActivity, when set, is returned by every Record call.
	FailActivity error
}

func New() *Store {
	return &Store{
		data: state{
			balances:    map[int64]leave.LeaveBalance{},
			policies:    map[int64]leave.LeavePolicy{},
			encashments: map[int64]leave.LeaveEncashment{},
			yearConfigs: map[int64]leave.LeaveYearConfiguration{},
		},
		leaveTypes: map[int64]leave.LeaveType{},
	}
}

func (s *Store) Repositories() leave.Repositories {
	return leave.Repositories{
		Balances:     &balanceRepo{s},
		Transactions: &transactionRepo{s},
		Policies:     &policyRepo{s},
		Encashments:  &encashmentRepo{s},
		YearConfigs:  &yearConfigRepo{s},
		LeaveTypes:   &leaveTypeRepo{s},
	}
}

func (s *Store) id() int64 {
	s.data.nextID++
	return s.data.nextID
}

// RunInTx serializes units of work and restores the pre-call state when fn fails.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Record(_ context.Context, entry leave.ActivityEntry) error {
	if s.FailActivity != nil {
		return s.FailActivity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.activity = append(s.data.activity, entry)
	return nil
}

// Activity returns the committed activity entries in write order.
func (s *Store) Activity() []leave.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.activity)
}

func (s *Store) AddLeaveType(code, name string) leave.LeaveType {
	s.mu.Lock()
	defer s.mu.Unlock()
	lt := leave.LeaveType{ID: s.id(), Code: code, Name: name}
	s.leaveTypes[lt.ID] = lt
	return lt
}

func (s *Store) AddEmployee(e leave.EligibleEmployee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = append(s.employees, e)
}

// ListEligible implements leave.ActiveEmployeeIdsPort.
func (s *Store) ListEligible(_ context.Context, filter leave.EligibilityFilter) ([]leave.EligibleEmployee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []leave.EligibleEmployee{}
	for _, e := range s.employees {
		if !matches(filter.EmploymentTypes, e.EmploymentType) || !matches(filter.EmployeeStatuses, e.EmployeeStatus) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func matches(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	return slices.ContainsFunc(list, func(v string) bool { return strings.EqualFold(v, value) })
}

func paginate[T any](items []T, page leave.PageRequest) leave.Page[T] {
	result := leave.Page[T]{Items: []T{}, Total: len(items), Limit: page.Limit, Offset: page.Offset}
	if page.Offset >= len(items) {
		return result
	}
	end := len(items)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	result.Items = append(result.Items, items[page.Offset:end]...)
	return result
}

func sortedValues[T any](m map[int64]T) []T {
	keys := slices.Collect(maps.Keys(m))
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
