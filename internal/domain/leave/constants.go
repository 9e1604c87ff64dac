package leave

type BalanceStatus string

const (
	BalanceStatusOpen   BalanceStatus = "OPEN"
	BalanceStatusClosed BalanceStatus = "CLOSED"
)

type TransactionType string

const (
	TransactionRequest    TransactionType = "REQUEST"
	TransactionEncashment TransactionType = "ENCASHMENT"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
	TransactionCarry      TransactionType = "CARRY"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionRequest, TransactionEncashment, TransactionAdjustment, TransactionCarry:
		return true
	}
	return false
}

// RequiresNegative reports whether postings of this type always reduce the balance.
func (t TransactionType) RequiresNegative() bool {
	return t == TransactionRequest || t == TransactionEncashment
}

// RequiresPositive reports whether postings of this type always add to the balance.
func (t TransactionType) RequiresPositive() bool {
	return t == TransactionCarry
}

type PolicyStatus string

const (
	PolicyStatusDraft   PolicyStatus = "DRAFT"
	PolicyStatusActive  PolicyStatus = "ACTIVE"
	PolicyStatusRetired PolicyStatus = "RETIRED"
)

type EncashmentStatus string

const (
	EncashmentStatusPending EncashmentStatus = "PENDING"
	EncashmentStatusPaid    EncashmentStatus = "PAID"
)

const (
	ActionBalanceCreate     = "leave.balance.create"
	ActionBalanceGenerate   = "leave.balance.generate"
	ActionBalancePost       = "leave.balance.post"
	ActionBalanceCarryOver  = "leave.balance.carry_over"
	ActionBalanceClose      = "leave.balance.close"
	ActionBalanceArchive    = "leave.balance.archive"
	ActionBalanceRestore    = "leave.balance.restore"
	ActionPolicyCreate      = "leave.policy.create"
	ActionPolicyUpdate      = "leave.policy.update"
	ActionPolicyActivate    = "leave.policy.activate"
	ActionPolicyRetire      = "leave.policy.retire"
	ActionEncashmentCreate  = "leave.encashment.create"
	ActionEncashmentPaid    = "leave.encashment.mark_paid"
	ActionYearConfigCreate  = "leave.year_config.create"
	ActionYearConfigUpdate  = "leave.year_config.update"
	ActionYearConfigArchive = "leave.year_config.archive"
	ActionYearConfigRestore = "leave.year_config.restore"

	EntityBalance    = "leave_balance"
	EntityPolicy     = "leave_policy"
	EntityEncashment = "leave_encashment"
	EntityYearConfig = "leave_year_configuration"

	openingBalanceRemark = "opening balance"
)
