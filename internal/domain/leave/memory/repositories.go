package memory

import (
	"context"
	"sort"

	"hrleave/internal/domain/leave"
)

type balanceRepo struct{ s *Store }

func (r *balanceRepo) Create(_ context.Context, b *leave.LeaveBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.balances {
		if existing.EmployeeID == b.EmployeeID && existing.LeaveTypeID == b.LeaveTypeID && existing.Year == b.Year {
			return leave.ErrBalanceExists
		}
	}
	b.ID = r.s.id()
	r.s.data.balances[b.ID] = *b
	return nil
}

func (r *balanceRepo) Update(_ context.Context, b *leave.LeaveBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.data.balances[b.ID]
	if !ok || stored.Version != b.Version {
		return leave.ErrConcurrentUpdate
	}
	b.Version++
	r.s.data.balances[b.ID] = *b
	return nil
}

func (r *balanceRepo) FindByID(_ context.Context, id int64) (*leave.LeaveBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.data.balances[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *balanceRepo) FindByLeaveType(_ context.Context, employeeID, leaveTypeID int64, year int) (*leave.LeaveBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.data.balances {
		if b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID && b.Year == year {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *balanceRepo) FindPaginatedList(_ context.Context, f leave.BalanceFilter, page leave.PageRequest) (leave.Page[leave.LeaveBalance], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []leave.LeaveBalance
	for _, b := range sortedValues(r.s.data.balances) {
		switch {
		case f.EmployeeID != 0 && b.EmployeeID != f.EmployeeID,
			f.LeaveTypeID != 0 && b.LeaveTypeID != f.LeaveTypeID,
			f.Year != 0 && b.Year != f.Year,
			f.Status != "" && b.Status != f.Status,
			!f.IncludeArchived && b.ArchivedAt != nil:
			continue
		}
		items = append(items, b)
	}
	return paginate(items, page), nil
}

func (r *balanceRepo) ExistsForYear(_ context.Context, year int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.data.balances {
		if b.Year == year {
			return true, nil
		}
	}
	return false, nil
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Append(_ context.Context, tx *leave.LeaveTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx.ID = r.s.id()
	r.s.data.transactions = append(r.s.data.transactions, *tx)
	return nil
}

func (r *transactionRepo) FindByBalance(_ context.Context, balanceID int64) ([]leave.LeaveTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []leave.LeaveTransaction{}
	for _, tx := range r.s.data.transactions {
		if tx.BalanceID == balanceID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type policyRepo struct{ s *Store }

func (r *policyRepo) activeConflict(p *leave.LeavePolicy) bool {
	if p.Status != leave.PolicyStatusActive {
		return false
	}
	for _, other := range r.s.data.policies {
		if other.ID != p.ID && other.LeaveTypeID == p.LeaveTypeID && other.Status == leave.PolicyStatusActive {
			return true
		}
	}
	return false
}

func (r *policyRepo) Create(_ context.Context, p *leave.LeavePolicy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.activeConflict(p) {
		return leave.ErrPolicyActiveExists
	}
	p.ID = r.s.id()
	r.s.data.policies[p.ID] = *p
	return nil
}

func (r *policyRepo) Update(_ context.Context, p *leave.LeavePolicy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.data.policies[p.ID]
	if !ok || stored.Status == leave.PolicyStatusRetired {
		return leave.ErrPolicyRetired
	}
	if r.activeConflict(p) {
		return leave.ErrPolicyActiveExists
	}
	r.s.data.policies[p.ID] = *p
	return nil
}

func (r *policyRepo) FindByID(_ context.Context, id int64) (*leave.LeavePolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.policies[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *policyRepo) FindActiveByLeaveType(_ context.Context, leaveTypeID int64) (*leave.LeavePolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.data.policies {
		if p.LeaveTypeID == leaveTypeID && p.Status == leave.PolicyStatusActive {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *policyRepo) FindAllActive(_ context.Context) ([]leave.LeavePolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []leave.LeavePolicy{}
	for _, p := range sortedValues(r.s.data.policies) {
		if p.Status == leave.PolicyStatusActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *policyRepo) NextVersion(_ context.Context, leaveTypeID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	highest := 0
	for _, p := range r.s.data.policies {
		if p.LeaveTypeID == leaveTypeID && p.Version > highest {
			highest = p.Version
		}
	}
	return highest + 1, nil
}

func (r *policyRepo) FindPaginatedList(_ context.Context, f leave.PolicyFilter, page leave.PageRequest) (leave.Page[leave.LeavePolicy], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []leave.LeavePolicy
	for _, p := range sortedValues(r.s.data.policies) {
		if (f.LeaveTypeID != 0 && p.LeaveTypeID != f.LeaveTypeID) || (f.Status != "" && p.Status != f.Status) {
			continue
		}
		items = append(items, p)
	}
	return paginate(items, page), nil
}

type encashmentRepo struct{ s *Store }

func (r *encashmentRepo) Create(_ context.Context, e *leave.LeaveEncashment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	r.s.data.encashments[e.ID] = *e
	return nil
}

func (r *encashmentRepo) Update(_ context.Context, e *leave.LeaveEncashment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.data.encashments[e.ID]
	if !ok || stored.Status != leave.EncashmentStatusPending {
		return leave.ErrEncashmentNotPending
	}
	r.s.data.encashments[e.ID] = *e
	return nil
}

func (r *encashmentRepo) FindByID(_ context.Context, id int64) (*leave.LeaveEncashment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.encashments[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *encashmentRepo) FindPendingByBalance(_ context.Context, balanceID int64) (*leave.LeaveEncashment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.data.encashments {
		if e.BalanceID == balanceID && e.Status == leave.EncashmentStatusPending {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *encashmentRepo) FindPaginatedList(_ context.Context, f leave.EncashmentFilter, page leave.PageRequest) (leave.Page[leave.LeaveEncashment], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []leave.LeaveEncashment
	for _, e := range sortedValues(r.s.data.encashments) {
		switch {
		case f.EmployeeID != 0 && e.EmployeeID != f.EmployeeID,
			f.BalanceID != 0 && e.BalanceID != f.BalanceID,
			f.Status != "" && e.Status != f.Status:
			continue
		}
		items = append(items, e)
	}
	return paginate(items, page), nil
}

type yearConfigRepo struct{ s *Store }

func (r *yearConfigRepo) liveYearTaken(c *leave.LeaveYearConfiguration) bool {
	if c.ArchivedAt != nil {
		return false
	}
	for _, other := range r.s.data.yearConfigs {
		if other.ID != c.ID && other.Year == c.Year && other.ArchivedAt == nil {
			return true
		}
	}
	return false
}

func (r *yearConfigRepo) Create(_ context.Context, c *leave.LeaveYearConfiguration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.liveYearTaken(c) {
		return leave.ErrYearConfigExists
	}
	c.ID = r.s.id()
	r.s.data.yearConfigs[c.ID] = *c
	return nil
}

func (r *yearConfigRepo) Update(_ context.Context, c *leave.LeaveYearConfiguration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.yearConfigs[c.ID]; !ok {
		return leave.ErrYearConfigNotFound
	}
	if r.liveYearTaken(c) {
		return leave.ErrYearConfigExists
	}
	r.s.data.yearConfigs[c.ID] = *c
	return nil
}

func (r *yearConfigRepo) FindByID(_ context.Context, id int64) (*leave.LeaveYearConfiguration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.yearConfigs[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *yearConfigRepo) FindByYear(_ context.Context, year int) (*leave.LeaveYearConfiguration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.yearConfigs {
		if c.Year == year && c.ArchivedAt == nil {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *yearConfigRepo) FindPaginatedList(_ context.Context, f leave.YearConfigFilter, page leave.PageRequest) (leave.Page[leave.LeaveYearConfiguration], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []leave.LeaveYearConfiguration
	for _, c := range sortedValues(r.s.data.yearConfigs) {
		if !f.IncludeArchived && c.ArchivedAt != nil {
			continue
		}
		items = append(items, c)
	}
	return paginate(items, page), nil
}

type leaveTypeRepo struct{ s *Store }

func (r *leaveTypeRepo) FindByCode(_ context.Context, code string) (*leave.LeaveType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, lt := range r.s.leaveTypes {
		if lt.Code == code {
			return &lt, nil
		}
	}
	return nil, nil
}

func (r *leaveTypeRepo) FindByID(_ context.Context, id int64) (*leave.LeaveType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lt, ok := r.s.leaveTypes[id]
	if !ok {
		return nil, nil
	}
	return &lt, nil
}
