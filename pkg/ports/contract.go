package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/keysort/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractKey builds a small frozen key: one question, two leaves.
func contractKey(t *testing.T) *domain.Key {
	t.Helper()
	trait := domain.Trait{Name: "arrangement", TrueLabel: "opposite", FalseLabel: "alternate"}
	acer := domain.NewItem("Acer", "rubrum").With("arrangement", domain.Label("opposite"))
	prunus := domain.NewItem("Prunus", "serotina").With("arrangement", domain.Label("alternate"))

	key := domain.NewKey()
	root, err := key.AddOption([]domain.Item{acer, prunus}, &trait)
	require.NoError(t, err)
	left, err := key.AddLeaf(acer)
	require.NoError(t, err)
	right, err := key.AddLeaf(prunus)
	require.NoError(t, err)
	require.NoError(t, key.Link(root, true, left))
	require.NoError(t, key.Link(root, false, right))
	key.Freeze()
	return key
}

// RunKeyStoreContract runs a suite of tests to verify that a KeyStore implementation
// adheres to the defined interface contract.
func RunKeyStoreContract(t *testing.T, store KeyStore) {
	ctx := context.Background()
	keyID := "contract-test-key-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		key := contractKey(t)

		err := store.Save(ctx, keyID, key)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, keyID)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, loaded.Frozen(), "loaded keys are frozen")
		assert.Equal(t, key.Len(), loaded.Len())

		root := loaded.Root()
		require.NotNil(t, root)
		require.NotNil(t, root.Trait)
		assert.Equal(t, "arrangement", root.Trait.Name)

		id, err := loaded.Identify(domain.AnswerMap(map[string]bool{"arrangement": true}))
		require.NoError(t, err)
		require.True(t, id.Resolved())
		assert.Equal(t, "Acer rubrum", id.Item.Name())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+keyID)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, keyID, contractKey(t)))
		require.NoError(t, store.Save(ctx, keyID, contractKey(t)))
		loaded, err := store.Load(ctx, keyID)
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.Len())
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, keyID, contractKey(t))
		require.NoError(t, err)

		err = store.Delete(ctx, keyID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, keyID)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound, "Load after Delete should return ErrKeyNotFound")

		assert.NoError(t, store.Delete(ctx, keyID), "Delete of a missing key is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := keyID + "-1"
		id2 := keyID + "-2"
		require.NoError(t, store.Save(ctx, id1, contractKey(t)))
		require.NoError(t, store.Save(ctx, id2, contractKey(t)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
