package models

// GroupType classifies the setting a savings group operates in.
type GroupType string

const (
	GroupTypeRural     GroupType = "rural"
	GroupTypeUrban     GroupType = "urban"
	GroupTypeCommunity GroupType = "community"
)

// Valid reports whether t is one of the supported group types.
func (t GroupType) Valid() bool {
	switch t {
	case GroupTypeRural, GroupTypeUrban, GroupTypeCommunity:
		return true
	}
	return false
}

// Currency is the denomination contributions and loans are expressed in.
type Currency string

const (
	CurrencySTX Currency = "STX"
	CurrencyUSD Currency = "USD"
	CurrencyBTC Currency = "BTC"
)

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencySTX, CurrencyUSD, CurrencyBTC:
		return true
	}
	return false
}

// Group represents a rotating savings group registered with the registry.
// Groups are keyed by an auto-incrementing ID that is never reused.
type Group struct {
	// ID is the registry-assigned identifier, issued in creation order starting at 0.
	ID uint64 `json:"id"`

	// Name is the display name of the group. Unique across all live groups.
	Name string `json:"name"`

	// MaxMembers caps the number of members (1-50).
	MaxMembers uint64 `json:"max_members"`

	// ContribAmount is the periodic contribution unit each member pays.
	ContribAmount uint64 `json:"contrib_amount"`

	// CycleDuration is the length of one contribution period.
	CycleDuration uint64 `json:"cycle_duration"`

	// PenaltyRate is the late-contribution penalty percentage (0-100).
	PenaltyRate uint64 `json:"penalty_rate"`

	// VotingThreshold is the approval percentage required for group decisions (1-100).
	VotingThreshold uint64 `json:"voting_threshold"`

	// GroupType classifies the group (rural, urban, community).
	GroupType GroupType `json:"group_type"`

	// InterestRate is the loan interest rate (0-20).
	InterestRate uint64 `json:"interest_rate"`

	// GracePeriod is the number of periods before penalties apply (0-30).
	GracePeriod uint64 `json:"grace_period"`

	// Location describes where the group meets.
	Location string `json:"location"`

	// Currency is the denomination of all amounts on the group.
	Currency Currency `json:"currency"`

	// Status is true for active groups. Always true on creation.
	Status bool `json:"status"`

	// MinContrib is the smallest accepted contribution.
	MinContrib uint64 `json:"min_contrib"`

	// MaxLoan is the largest loan the group may issue.
	MaxLoan uint64 `json:"max_loan"`

	// Creator is the principal that created the group. Only the creator may update it.
	Creator Principal `json:"creator"`

	// CreatedAt is the logical time (block height) of creation.
	CreatedAt uint64 `json:"created_at"`

	// LastUpdatedAt is the logical time of the most recent create or update.
	LastUpdatedAt uint64 `json:"last_updated_at"`
}

// GroupUpdate records the most recent update applied to a group.
// It is overwritten on every update; it is not a history log.
type GroupUpdate struct {
	GroupID       uint64    `json:"group_id"`
	Name          string    `json:"name"`
	MaxMembers    uint64    `json:"max_members"`
	ContribAmount uint64    `json:"contrib_amount"`
	UpdatedAt     uint64    `json:"updated_at"`
	Updater       Principal `json:"updater"`
}
