package registry

import (
	"context"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

// UpdateGroupParams are the mutable fields of a group.
type UpdateGroupParams struct {
	Name          string
	MaxMembers    uint64
	ContribAmount uint64
}

// UpdateGroup replaces the name, member cap and contribution amount of group id.
// Only the group's creator may update it. Renaming to the group's current name is
// allowed. The group's last-update record is overwritten on success.
func (r *Registry) UpdateGroup(ctx context.Context, call Call, id uint64, p UpdateGroupParams) (*models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated models.Group
	err := r.store.Update(ctx, func(tx storage.Txn) error {
		group, err := loadGroup(ctx, tx, id)
		if err != nil {
			return err
		}

		guards := []guard{
			{ErrNotAuthorized, when(func() bool { return group.Creator != call.Caller })},
			{ErrInvalidParam, when(func() bool { return !validText(p.Name) })},
			{ErrInvalidParam, when(func() bool { return !validMaxMembers(p.MaxMembers) })},
			{ErrInvalidParam, when(func() bool { return p.ContribAmount == 0 })},
			{ErrNameCollision, func() (bool, error) {
				owner, taken, err := lookupName(ctx, tx, p.Name)
				return taken && owner != id, err
			}},
		}
		if err := firstFailure(guards); err != nil {
			return err
		}

		updated = *group
		updated.Name = p.Name
		updated.MaxMembers = p.MaxMembers
		updated.ContribAmount = p.ContribAmount
		updated.LastUpdatedAt = call.Height

		if err := putJSON(ctx, tx, groupKey(id), updated); err != nil {
			return err
		}
		if group.Name != p.Name {
			if err := tx.Delete(ctx, groupNameKey(group.Name)); err != nil {
				return err
			}
			if err := putJSON(ctx, tx, groupNameKey(p.Name), id); err != nil {
				return err
			}
		}
		return putJSON(ctx, tx, groupUpdateKey(id), models.GroupUpdate{
			GroupID:       id,
			Name:          p.Name,
			MaxMembers:    p.MaxMembers,
			ContribAmount: p.ContribAmount,
			UpdatedAt:     call.Height,
			Updater:       call.Caller,
		})
	})
	if err != nil {
		r.observe("UpdateGroup", err, "group_id", id, "caller", call.Caller)
		return nil, err
	}

	r.metrics.GroupUpdated()
	r.logger.Info("Group updated",
		"group_id", id,
		"name", updated.Name,
		"updater", call.Caller,
		"height", call.Height,
	)
	return &updated, nil
}
