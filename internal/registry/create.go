package registry

import (
	"context"
	"fmt"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

// CreateGroupParams are the caller-supplied fields of a new group.
type CreateGroupParams struct {
	Name            string
	MaxMembers      uint64
	ContribAmount   uint64
	CycleDuration   uint64
	PenaltyRate     uint64
	VotingThreshold uint64
	GroupType       models.GroupType
	InterestRate    uint64
	GracePeriod     uint64
	Location        string
	Currency        models.Currency
	MinContrib      uint64
	MaxLoan         uint64
}

// CreateGroup validates p, charges the current creation fee from the caller to the
// authority contract and registers the group. It returns the new group id.
//
// Checks run in a fixed order and the first failure is returned:
// capacity, each field in declaration order, caller authority, name uniqueness,
// authority contract configured.
func (r *Registry) CreateGroup(ctx context.Context, call Call, p CreateGroupParams) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		id      uint64
		fee     uint64
		receipt string
	)
	err := r.store.Update(ctx, func(tx storage.Txn) error {
		receipt = ""
		s, err := r.loadSnapshot(ctx, tx)
		if err != nil {
			return err
		}

		guards := []guard{
			{ErrMaxGroupsExceeded, when(func() bool { return s.nextGroupID >= r.maxGroups })},
			{ErrInvalidNameParam, when(func() bool { return !validText(p.Name) })},
			{ErrInvalidMaxMembers, when(func() bool { return !validMaxMembers(p.MaxMembers) })},
			{ErrInvalidContribAmount, when(func() bool { return p.ContribAmount == 0 })},
			{ErrInvalidCycleDuration, when(func() bool { return p.CycleDuration == 0 })},
			{ErrInvalidPenaltyRate, when(func() bool { return p.PenaltyRate > maxPercent })},
			{ErrInvalidVotingThreshold, when(func() bool { return p.VotingThreshold < 1 || p.VotingThreshold > maxPercent })},
			{ErrInvalidGroupType, when(func() bool { return !p.GroupType.Valid() })},
			{ErrInvalidInterestRate, when(func() bool { return p.InterestRate > maxInterest })},
			{ErrInvalidGracePeriod, when(func() bool { return p.GracePeriod > maxGracePeriod })},
			{ErrInvalidLocation, when(func() bool { return !validText(p.Location) })},
			{ErrInvalidCurrency, when(func() bool { return !p.Currency.Valid() })},
			{ErrInvalidMinContrib, when(func() bool { return p.MinContrib == 0 })},
			{ErrInvalidMaxLoan, when(func() bool { return p.MaxLoan == 0 })},
			{ErrNotAuthorized, when(func() bool { return !r.oracle.IsVerifiedAuthority(ctx, call.Caller) })},
			{ErrGroupAlreadyExists, func() (bool, error) {
				_, taken, err := lookupName(ctx, tx, p.Name)
				return taken, err
			}},
			{ErrAuthorityNotVerified, when(func() bool { return s.authorityContract.IsZero() })},
		}
		if err := firstFailure(guards); err != nil {
			return err
		}

		id = s.nextGroupID
		fee = s.creationFee
		group := models.Group{
			ID:              id,
			Name:            p.Name,
			MaxMembers:      p.MaxMembers,
			ContribAmount:   p.ContribAmount,
			CycleDuration:   p.CycleDuration,
			PenaltyRate:     p.PenaltyRate,
			VotingThreshold: p.VotingThreshold,
			GroupType:       p.GroupType,
			InterestRate:    p.InterestRate,
			GracePeriod:     p.GracePeriod,
			Location:        p.Location,
			Currency:        p.Currency,
			Status:          true,
			MinContrib:      p.MinContrib,
			MaxLoan:         p.MaxLoan,
			Creator:         call.Caller,
			CreatedAt:       call.Height,
			LastUpdatedAt:   call.Height,
		}

		if err := putJSON(ctx, tx, groupKey(id), group); err != nil {
			return err
		}
		if err := putJSON(ctx, tx, groupNameKey(p.Name), id); err != nil {
			return err
		}
		if err := putJSON(ctx, tx, keyNextGroupID, id+1); err != nil {
			return err
		}

		// Last step: a failed transfer discards every staged write above.
		charged, err := r.payments.Transfer(ctx, fee, call.Caller, s.authorityContract)
		if err != nil {
			return fmt.Errorf("creation fee transfer: %w", err)
		}
		receipt = charged
		return nil
	})
	if err != nil {
		// The fee was charged but the writes never landed.
		if receipt != "" {
			r.refund(ctx, receipt, err)
		}
		r.observe("CreateGroup", err, "name", p.Name, "caller", call.Caller)
		return 0, err
	}

	r.metrics.GroupCreated(fee)
	r.logger.Info("Group created",
		"group_id", id,
		"name", p.Name,
		"creator", call.Caller,
		"fee", fee,
		"height", call.Height,
	)
	return id, nil
}

func (r *Registry) refund(ctx context.Context, receipt string, cause error) {
	if err := r.payments.Refund(ctx, receipt); err != nil {
		r.logger.Error("Creation fee refund failed",
			"transfer_id", receipt,
			"cause", cause,
			"error", err,
		)
	}
}
