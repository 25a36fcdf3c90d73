package models

// Settings is a read-only view of the registry-wide configuration.
type Settings struct {
	// AuthorityContract is empty until configured.
	AuthorityContract Principal `json:"authority_contract,omitempty"`

	// CreationFee is charged on each successful create at its then-current value.
	CreationFee uint64 `json:"creation_fee"`

	// MaxGroups is the ceiling on ids ever issued.
	MaxGroups uint64 `json:"max_groups"`

	// NextGroupID is the id the next successful create will receive.
	NextGroupID uint64 `json:"next_group_id"`
}
