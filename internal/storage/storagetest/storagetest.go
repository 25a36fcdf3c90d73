// Package storagetest holds the behavior every storage.Store backend must share.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

var errAbort = errors.New("abort")

// Run exercises store against the storage.Store contract. The store must be empty.
func Run(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get of absent key returns ErrNotFound", func(t *testing.T) {
		err := store.View(ctx, func(r storage.Reader) error {
			_, err := r.Get(ctx, "missing")
			return err
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Update commits writes", func(t *testing.T) {
		require.NoError(t, store.Update(ctx, func(tx storage.Txn) error {
			if err := tx.Set(ctx, "a", []byte("1")); err != nil {
				return err
			}
			return tx.Set(ctx, "b", []byte("2"))
		}))

		require.NoError(t, store.View(ctx, func(r storage.Reader) error {
			v, err := r.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), v)
			v, err = r.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, []byte("2"), v)
			return nil
		}))
	})

	t.Run("Update observes its own pending writes", func(t *testing.T) {
		require.NoError(t, store.Update(ctx, func(tx storage.Txn) error {
			if err := tx.Set(ctx, "pending", []byte("x")); err != nil {
				return err
			}
			v, err := tx.Get(ctx, "pending")
			if err != nil {
				return err
			}
			assert.Equal(t, []byte("x"), v)

			if err := tx.Delete(ctx, "pending"); err != nil {
				return err
			}
			_, err = tx.Get(ctx, "pending")
			assert.ErrorIs(t, err, storage.ErrNotFound)
			return nil
		}))
	})

	t.Run("failed Update leaves no writes", func(t *testing.T) {
		err := store.Update(ctx, func(tx storage.Txn) error {
			if err := tx.Set(ctx, "a", []byte("overwritten")); err != nil {
				return err
			}
			if err := tx.Set(ctx, "c", []byte("3")); err != nil {
				return err
			}
			if err := tx.Delete(ctx, "b"); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		require.NoError(t, store.View(ctx, func(r storage.Reader) error {
			v, err := r.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), v)

			_, err = r.Get(ctx, "b")
			assert.NoError(t, err)

			_, err = r.Get(ctx, "c")
			assert.ErrorIs(t, err, storage.ErrNotFound)
			return nil
		}))
	})

	t.Run("Set overwrites and Delete removes", func(t *testing.T) {
		require.NoError(t, store.Update(ctx, func(tx storage.Txn) error {
			if err := tx.Set(ctx, "a", []byte("10")); err != nil {
				return err
			}
			return tx.Delete(ctx, "b")
		}))

		require.NoError(t, store.View(ctx, func(r storage.Reader) error {
			v, err := r.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("10"), v)

			_, err = r.Get(ctx, "b")
			assert.ErrorIs(t, err, storage.ErrNotFound)
			return nil
		}))
	})

	t.Run("Delete of absent key succeeds", func(t *testing.T) {
		assert.NoError(t, store.Update(ctx, func(tx storage.Txn) error {
			return tx.Delete(ctx, "never-written")
		}))
	})
}
