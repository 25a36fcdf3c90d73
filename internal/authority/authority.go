// Package authority provides AuthorityOracle implementations: a fixed allow-list,
// a CEL expression over the caller, and a combinator over both.
package authority

import (
	"context"
	"strings"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
)

// Oracle reports whether a principal is a verified authority.
type Oracle interface {
	IsVerifiedAuthority(ctx context.Context, p models.Principal) bool
}

// Static verifies the principals in a fixed set.
type Static struct {
	principals map[models.Principal]struct{}
}

// NewStatic creates a Static oracle from principals. Empty entries are ignored.
func NewStatic(principals ...models.Principal) *Static {
	s := &Static{principals: make(map[models.Principal]struct{}, len(principals))}
	for _, p := range principals {
		if p.IsZero() {
			continue
		}
		s.principals[p] = struct{}{}
	}
	return s
}

// ParseList splits a comma separated principal list, trimming whitespace.
func ParseList(list string) []models.Principal {
	var out []models.Principal
	for _, part := range strings.Split(list, ",") {
		if p := models.Principal(strings.TrimSpace(part)); !p.IsZero() {
			out = append(out, p)
		}
	}
	return out
}

func (s *Static) IsVerifiedAuthority(_ context.Context, p models.Principal) bool {
	_, ok := s.principals[p]
	return ok
}

// Len returns the number of verified principals.
func (s *Static) Len() int {
	return len(s.principals)
}

// AnyOf verifies a principal accepted by at least one of its oracles.
type AnyOf []Oracle

func (a AnyOf) IsVerifiedAuthority(ctx context.Context, p models.Principal) bool {
	for _, o := range a {
		if o.IsVerifiedAuthority(ctx, p) {
			return true
		}
	}
	return false
}

// Deny verifies nobody.
type Deny struct{}

func (Deny) IsVerifiedAuthority(context.Context, models.Principal) bool {
	return false
}
