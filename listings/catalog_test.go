package listings_test

import (
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/ipfs/go-datastore"
	dss "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/require"

	"github.com/depotnetwork/go-storage-market/listings"
	"github.com/depotnetwork/go-storage-market/registry"
	"github.com/depotnetwork/go-storage-market/shared"
	"github.com/depotnetwork/go-storage-market/shared/params"
	tut "github.com/depotnetwork/go-storage-market/shared_testutil"
)

func TestCreateListing(t *testing.T) {
	provider := tut.NewIDAddr(t, 100)

	t.Run("allocates sequential ids from one", func(t *testing.T) {
		catalog, providers := newCatalog(t)
		require.NoError(t, providers.Register(provider, 1000, abi.NewTokenAmount(10)))

		id, err := catalog.CreateListing(provider, 500, abi.NewTokenAmount(5), 4320, 8640)
		require.NoError(t, err)
		require.Equal(t, listings.ListingID(1), id)

		id, err = catalog.CreateListing(provider, 200, abi.NewTokenAmount(3), 4320, 4320)
		require.NoError(t, err)
		require.Equal(t, listings.ListingID(2), id)

		listing, err := catalog.GetListing(listings.ListingID(1))
		require.NoError(t, err)
		require.Equal(t, provider, listing.Provider)
		require.Equal(t, uint64(500), listing.SpaceMB)
		require.Equal(t, abi.NewTokenAmount(5), listing.PricePerEpoch)
		require.Equal(t, abi.ChainEpoch(4320), listing.MinDuration)
		require.Equal(t, abi.ChainEpoch(8640), listing.MaxDuration)
		require.True(t, listing.Available)
	})

	t.Run("requires an active provider", func(t *testing.T) {
		catalog, providers := newCatalog(t)

		_, err := catalog.CreateListing(provider, 500, abi.NewTokenAmount(5), 4320, 8640)
		require.ErrorIs(t, err, registry.ErrProviderNotFound)

		require.NoError(t, providers.Register(provider, 1000, abi.NewTokenAmount(10)))
		require.NoError(t, providers.Update(provider, 1000, abi.NewTokenAmount(10), false))

		_, err = catalog.CreateListing(provider, 500, abi.NewTokenAmount(5), 4320, 8640)
		require.ErrorIs(t, err, registry.ErrProviderNotFound)
	})

	t.Run("bounds space by the provider's capacity", func(t *testing.T) {
		catalog, providers := newCatalog(t)
		require.NoError(t, providers.Register(provider, 1000, abi.NewTokenAmount(10)))

		_, err := catalog.CreateListing(provider, 1001, abi.NewTokenAmount(5), 4320, 8640)
		require.ErrorIs(t, err, shared.ErrInvalidAmount)

		_, err = catalog.CreateListing(provider, 0, abi.NewTokenAmount(5), 4320, 8640)
		require.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("enforces price and duration bounds", func(t *testing.T) {
		catalog, providers := newCatalog(t)
		require.NoError(t, providers.Register(provider, 1000, abi.NewTokenAmount(10)))

		_, err := catalog.CreateListing(provider, 500, abi.NewTokenAmount(0), 4320, 8640)
		require.ErrorIs(t, err, shared.ErrInvalidAmount)

		_, err = catalog.CreateListing(provider, 500, abi.NewTokenAmount(5), params.MinRentalDuration-1, 8640)
		require.ErrorIs(t, err, shared.ErrInvalidAmount)

		_, err = catalog.CreateListing(provider, 500, abi.NewTokenAmount(5), 4320, 4319)
		require.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("capacity is not reserved across listings", func(t *testing.T) {
		// a provider may over-list; only purchase reserves space
		catalog, providers := newCatalog(t)
		require.NoError(t, providers.Register(provider, 1000, abi.NewTokenAmount(10)))

		_, err := catalog.CreateListing(provider, 800, abi.NewTokenAmount(5), 4320, 8640)
		require.NoError(t, err)
		_, err = catalog.CreateListing(provider, 800, abi.NewTokenAmount(5), 4320, 8640)
		require.NoError(t, err)
	})
}

func TestGetListing(t *testing.T) {
	catalog, _ := newCatalog(t)
	_, err := catalog.GetListing(listings.ListingID(42))
	require.ErrorIs(t, err, listings.ErrListingNotFound)
}

func TestMarkPurchased(t *testing.T) {
	provider := tut.NewIDAddr(t, 100)
	catalog, providers := newCatalog(t)
	require.NoError(t, providers.Register(provider, 1000, abi.NewTokenAmount(10)))

	id, err := catalog.CreateListing(provider, 500, abi.NewTokenAmount(5), 4320, 8640)
	require.NoError(t, err)

	require.NoError(t, catalog.MarkPurchased(id))
	listing, err := catalog.GetListing(id)
	require.NoError(t, err)
	require.False(t, listing.Available)

	require.ErrorIs(t, catalog.MarkPurchased(listings.ListingID(9)), listings.ErrListingNotFound)
}

func TestListListings(t *testing.T) {
	provider := tut.NewIDAddr(t, 100)
	catalog, providers := newCatalog(t)
	require.NoError(t, providers.Register(provider, 1000, abi.NewTokenAmount(10)))

	_, err := catalog.CreateListing(provider, 500, abi.NewTokenAmount(5), 4320, 8640)
	require.NoError(t, err)
	_, err = catalog.CreateListing(provider, 300, abi.NewTokenAmount(4), 4320, 8640)
	require.NoError(t, err)

	all, err := catalog.ListListings()
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func newCatalog(t *testing.T) (listings.ListingCatalog, registry.ProviderRegistry) {
	ds := dss.MutexWrap(datastore.NewMapDatastore())
	providers := registry.NewProviderRegistry(ds)
	return listings.NewListingCatalog(ds, providers, params.MinRentalDuration), providers
}
