package sequence_test

import (
	"context"
	"testing"

	"github.com/ipfs/go-datastore"
	"github.com/stretchr/testify/require"

	"github.com/depotnetwork/go-storage-market/sequence"
)

func TestSequence(t *testing.T) {
	ctx := context.Background()
	ds := datastore.NewMapDatastore()

	t.Run("identifiers start at one and increase", func(t *testing.T) {
		seq := sequence.New(ds, datastore.NewKey("ids"))
		next, err := seq.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(1), next)

		next, err = seq.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(2), next)
	})

	t.Run("two instances on the same key count together", func(t *testing.T) {
		key := datastore.NewKey("shared")
		seq1 := sequence.New(ds, key)
		seq2 := sequence.New(ds, key)

		next, err := seq1.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(1), next)

		next, err = seq2.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(2), next)

		next, err = seq1.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(3), next)
	})

	t.Run("separate keys count separately", func(t *testing.T) {
		seq1 := sequence.New(ds, datastore.NewKey("listings"))
		seq2 := sequence.New(ds, datastore.NewKey("contracts"))

		next, err := seq1.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(1), next)

		next, err = seq2.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(1), next)
	})
}
