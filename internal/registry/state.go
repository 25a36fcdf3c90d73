package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

const (
	keyNextGroupID       = "registry/next-group-id"
	keyAuthorityContract = "registry/authority-contract"
	keyCreationFee       = "registry/creation-fee"
)

func groupKey(id uint64) string {
	return fmt.Sprintf("group/%020d", id)
}

func groupUpdateKey(id uint64) string {
	return fmt.Sprintf("group-update/%020d", id)
}

func groupNameKey(name string) string {
	return "group-name/" + name
}

func codeLabel(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}

// getJSON decodes the value at key into v. It reports false when the key is absent.
func getJSON(ctx context.Context, r storage.Reader, key string, v any) (bool, error) {
	raw, err := r.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func putJSON(ctx context.Context, tx storage.Txn, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := tx.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// snapshot is the registry-wide configuration read at the start of an operation.
type snapshot struct {
	nextGroupID       uint64
	authorityContract models.Principal
	creationFee       uint64
}

func (r *Registry) loadSnapshot(ctx context.Context, rd storage.Reader) (snapshot, error) {
	s := snapshot{creationFee: r.defaultFee}
	if _, err := getJSON(ctx, rd, keyNextGroupID, &s.nextGroupID); err != nil {
		return snapshot{}, err
	}
	if _, err := getJSON(ctx, rd, keyAuthorityContract, &s.authorityContract); err != nil {
		return snapshot{}, err
	}
	if _, err := getJSON(ctx, rd, keyCreationFee, &s.creationFee); err != nil {
		return snapshot{}, err
	}
	return s, nil
}

func lookupName(ctx context.Context, rd storage.Reader, name string) (uint64, bool, error) {
	var id uint64
	found, err := getJSON(ctx, rd, groupNameKey(name), &id)
	return id, found, err
}

func loadGroup(ctx context.Context, rd storage.Reader, id uint64) (*models.Group, error) {
	var g models.Group
	found, err := getJSON(ctx, rd, groupKey(id), &g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &g, nil
}
