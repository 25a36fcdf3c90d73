package models

// Principal identifies a caller, a group creator or the authority contract.
type Principal string

// PlaceholderPrincipal is the reserved null principal. It can never be configured
// as the authority contract.
const PlaceholderPrincipal Principal = "SP000000000000000000002Q6VF78"

// String returns the principal as a plain string.
func (p Principal) String() string {
	return string(p)
}

// IsZero reports whether the principal is empty.
func (p Principal) IsZero() bool {
	return p == ""
}
