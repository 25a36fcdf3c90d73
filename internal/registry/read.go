package registry

import (
	"context"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

// view runs fn under the registry read lock.
func (r *Registry) view(ctx context.Context, fn func(storage.Reader) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.View(ctx, fn)
}

// GetGroup returns the group with the given id, or ErrNotFound.
func (r *Registry) GetGroup(ctx context.Context, id uint64) (*models.Group, error) {
	var group *models.Group
	err := r.view(ctx, func(rd storage.Reader) error {
		var err error
		group, err = loadGroup(ctx, rd, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroupUpdate returns the last update applied to group id, or ErrNotFound if
// the group has never been updated.
func (r *Registry) GetGroupUpdate(ctx context.Context, id uint64) (*models.GroupUpdate, error) {
	var update models.GroupUpdate
	err := r.view(ctx, func(rd storage.Reader) error {
		found, err := getJSON(ctx, rd, groupUpdateKey(id), &update)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &update, nil
}

// GetGroupCount returns the number of ids ever issued.
func (r *Registry) GetGroupCount(ctx context.Context) (uint64, error) {
	var count uint64
	err := r.view(ctx, func(rd storage.Reader) error {
		_, err := getJSON(ctx, rd, keyNextGroupID, &count)
		return err
	})
	return count, err
}

// CheckGroupExistence reports whether a live group currently holds name.
func (r *Registry) CheckGroupExistence(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.view(ctx, func(rd storage.Reader) error {
		var err error
		_, exists, err = lookupName(ctx, rd, name)
		return err
	})
	return exists, err
}

// GetGroupIDByName resolves name through the uniqueness index, or ErrNotFound.
func (r *Registry) GetGroupIDByName(ctx context.Context, name string) (uint64, error) {
	var id uint64
	err := r.view(ctx, func(rd storage.Reader) error {
		var (
			found bool
			err   error
		)
		id, found, err = lookupName(ctx, rd, name)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		return nil
	})
	return id, err
}

// Settings returns the registry-wide configuration.
func (r *Registry) Settings(ctx context.Context) (models.Settings, error) {
	var s snapshot
	err := r.view(ctx, func(rd storage.Reader) error {
		var err error
		s, err = r.loadSnapshot(ctx, rd)
		return err
	})
	if err != nil {
		return models.Settings{}, err
	}
	return models.Settings{
		AuthorityContract: s.authorityContract,
		CreationFee:       s.creationFee,
		MaxGroups:         r.maxGroups,
		NextGroupID:       s.nextGroupID,
	}, nil
}
