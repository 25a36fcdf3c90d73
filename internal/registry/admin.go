package registry

import (
	"context"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

// SetAuthorityContract configures the principal that receives creation fees.
// It can be set exactly once; the placeholder (and empty) principal is rejected.
func (r *Registry) SetAuthorityContract(ctx context.Context, call Call, p models.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Update(ctx, func(tx storage.Txn) error {
		if p.IsZero() || p == models.PlaceholderPrincipal {
			return ErrInvalidAuthority
		}
		s, err := r.loadSnapshot(ctx, tx)
		if err != nil {
			return err
		}
		if !s.authorityContract.IsZero() {
			return ErrAlreadyConfigured
		}
		return putJSON(ctx, tx, keyAuthorityContract, p)
	})
	if err != nil {
		r.observe("SetAuthorityContract", err, "principal", p, "caller", call.Caller)
		return err
	}

	r.metrics.AuthoritySet()
	r.logger.Info("Authority contract set", "principal", p, "caller", call.Caller)
	return nil
}

// SetCreationFee replaces the fee charged on subsequent creates. It requires the
// authority contract to be configured and performs no caller check.
func (r *Registry) SetCreationFee(ctx context.Context, call Call, fee uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Update(ctx, func(tx storage.Txn) error {
		s, err := r.loadSnapshot(ctx, tx)
		if err != nil {
			return err
		}
		if s.authorityContract.IsZero() {
			return ErrNotConfigured
		}
		return putJSON(ctx, tx, keyCreationFee, fee)
	})
	if err != nil {
		r.observe("SetCreationFee", err, "fee", fee, "caller", call.Caller)
		return err
	}

	r.logger.Info("Creation fee set", "fee", fee, "caller", call.Caller)
	return nil
}
