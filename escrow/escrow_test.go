package escrow_test

import (
	"context"
	"testing"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/ipfs/go-datastore"
	dss "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/require"

	"github.com/depotnetwork/go-storage-market/escrow"
	"github.com/depotnetwork/go-storage-market/listings"
	"github.com/depotnetwork/go-storage-market/registry"
	"github.com/depotnetwork/go-storage-market/shared"
	"github.com/depotnetwork/go-storage-market/shared/params"
	tut "github.com/depotnetwork/go-storage-market/shared_testutil"
)

func TestPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("settles payment, fee and capacity", func(t *testing.T) {
		h := newHarness(t)
		h.node.Height = abi.ChainEpoch(1000)
		listingID := h.createListing(t, 500, 5, 4320, 8640)
		h.node.AddFunds(h.client, abi.NewTokenAmount(30000))

		contractID, err := h.escrow.Purchase(ctx, h.client, listingID, 4320, h.fileRef(t, 400))
		require.NoError(t, err)
		require.Equal(t, escrow.ContractID(1), contractID)

		contract, err := h.escrow.GetContract(contractID)
		require.NoError(t, err)
		require.Equal(t, h.provider, contract.Provider)
		require.Equal(t, h.client, contract.Client)
		require.Equal(t, listingID, contract.ListingID)
		require.Equal(t, abi.NewTokenAmount(21600), contract.TotalPayment)
		require.Equal(t, abi.ChainEpoch(1000), contract.StartEpoch)
		require.Equal(t, abi.ChainEpoch(5320), contract.EndEpoch)
		require.Equal(t, escrow.ContractActive, contract.Status)

		// fee identity: provider payment + platform fee == total payment
		providerBalance, err := h.node.GetBalance(ctx, h.provider)
		require.NoError(t, err)
		require.Equal(t, abi.NewTokenAmount(21492), providerBalance)
		custodyBalance, err := h.node.GetBalance(ctx, h.custody)
		require.NoError(t, err)
		require.Equal(t, abi.NewTokenAmount(108), custodyBalance)
		clientBalance, err := h.node.GetBalance(ctx, h.client)
		require.NoError(t, err)
		require.Equal(t, abi.NewTokenAmount(8400), clientBalance)

		info, err := h.providers.GetProvider(h.provider)
		require.NoError(t, err)
		require.Equal(t, uint64(500), info.AvailableSpace)

		listing, err := h.catalog.GetListing(listingID)
		require.NoError(t, err)
		require.False(t, listing.Available)

		metadata, err := h.escrow.GetFileMetadata(contractID, escrow.PrimaryFileID)
		require.NoError(t, err)
		require.Equal(t, uint64(400), metadata.SizeMB)
		require.True(t, metadata.PayloadCID.Defined())

		c, err := contract.Cid()
		require.NoError(t, err)
		require.True(t, c.Defined())
	})

	t.Run("fee truncates toward zero", func(t *testing.T) {
		h := newHarness(t)
		listingID := h.createListing(t, 500, 3, 4320, 8640)
		h.node.AddFunds(h.client, abi.NewTokenAmount(20000))

		contractID, err := h.escrow.Purchase(ctx, h.client, listingID, 4441, h.fileRef(t, 100))
		require.NoError(t, err)

		contract, err := h.escrow.GetContract(contractID)
		require.NoError(t, err)
		require.Equal(t, abi.NewTokenAmount(13323), contract.TotalPayment)

		providerBalance, err := h.node.GetBalance(ctx, h.provider)
		require.NoError(t, err)
		custodyBalance, err := h.node.GetBalance(ctx, h.custody)
		require.NoError(t, err)
		require.Equal(t, abi.NewTokenAmount(66), custodyBalance)
		require.Equal(t, contract.TotalPayment, big.Add(providerBalance, custodyBalance))
	})

	t.Run("fails for an unknown listing", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.escrow.Purchase(ctx, h.client, listings.ListingID(42), 4320, h.fileRef(t, 100))
		require.ErrorIs(t, err, listings.ErrListingNotFound)
	})

	t.Run("listings are single use", func(t *testing.T) {
		h := newHarness(t)
		listingID := h.createListing(t, 500, 5, 4320, 8640)
		h.node.AddFunds(h.client, abi.NewTokenAmount(100000))

		_, err := h.escrow.Purchase(ctx, h.client, listingID, 4320, h.fileRef(t, 100))
		require.NoError(t, err)

		_, err = h.escrow.Purchase(ctx, h.client, listingID, 4320, h.fileRef(t, 100))
		require.ErrorIs(t, err, listings.ErrListingNotFound)
	})

	t.Run("bounds duration by the listing range", func(t *testing.T) {
		h := newHarness(t)
		listingID := h.createListing(t, 500, 5, 4320, 8640)
		h.node.AddFunds(h.client, abi.NewTokenAmount(100000))

		_, err := h.escrow.Purchase(ctx, h.client, listingID, 4319, h.fileRef(t, 100))
		require.ErrorIs(t, err, shared.ErrInvalidAmount)
		_, err = h.escrow.Purchase(ctx, h.client, listingID, 8641, h.fileRef(t, 100))
		require.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("bounds the file by the listing space", func(t *testing.T) {
		h := newHarness(t)
		listingID := h.createListing(t, 500, 5, 4320, 8640)
		h.node.AddFunds(h.client, abi.NewTokenAmount(100000))

		_, err := h.escrow.Purchase(ctx, h.client, listingID, 4320, h.fileRef(t, 501))
		require.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("rejects malformed file refs", func(t *testing.T) {
		h := newHarness(t)
		listingID := h.createListing(t, 500, 5, 4320, 8640)
		h.node.AddFunds(h.client, abi.NewTokenAmount(100000))

		file := h.fileRef(t, 100)
		file.KeyHash = []byte("short")
		_, err := h.escrow.Purchase(ctx, h.client, listingID, 4320, file)
		require.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("aborts without effect on insufficient funds", func(t *testing.T) {
		h := newHarness(t)
		listingID := h.createListing(t, 500, 5, 4320, 8640)
		h.node.AddFunds(h.client, abi.NewTokenAmount(100))

		_, err := h.escrow.Purchase(ctx, h.client, listingID, 4320, h.fileRef(t, 100))
		require.ErrorIs(t, err, shared.ErrInsufficientFunds)

		// no contract, no transfers, listing still available, capacity intact
		_, err = h.escrow.GetContract(escrow.ContractID(1))
		require.ErrorIs(t, err, escrow.ErrContractNotFound)
		require.Empty(t, h.node.Transfers)
		listing, err := h.catalog.GetListing(listingID)
		require.NoError(t, err)
		require.True(t, listing.Available)
		info, err := h.providers.GetProvider(h.provider)
		require.NoError(t, err)
		require.Equal(t, uint64(1000), info.AvailableSpace)
	})

	t.Run("deducts capacity from the freshest record", func(t *testing.T) {
		h := newHarness(t)
		listingID := h.createListing(t, 500, 5, 4320, 8640)
		// provider capacity changed after the listing was published
		require.NoError(t, h.providers.Update(h.provider, 600, abi.NewTokenAmount(10), true))
		h.node.AddFunds(h.client, abi.NewTokenAmount(30000))

		_, err := h.escrow.Purchase(ctx, h.client, listingID, 4320, h.fileRef(t, 100))
		require.NoError(t, err)

		info, err := h.providers.GetProvider(h.provider)
		require.NoError(t, err)
		require.Equal(t, uint64(100), info.AvailableSpace)
	})

	t.Run("over-listed capacity fails before value moves", func(t *testing.T) {
		h := newHarness(t)
		listingID := h.createListing(t, 500, 5, 4320, 8640)
		require.NoError(t, h.providers.Update(h.provider, 400, abi.NewTokenAmount(10), true))
		h.node.AddFunds(h.client, abi.NewTokenAmount(30000))

		_, err := h.escrow.Purchase(ctx, h.client, listingID, 4320, h.fileRef(t, 100))
		require.ErrorIs(t, err, shared.ErrInvalidAmount)
		require.Empty(t, h.node.Transfers)
	})
}

type harness struct {
	escrow    escrow.Escrow
	catalog   listings.ListingCatalog
	providers registry.ProviderRegistry
	node      *tut.FakeMarketNode
	provider  address.Address
	client    address.Address
	custody   address.Address
}

func newHarness(t *testing.T) *harness {
	ds := dss.MutexWrap(datastore.NewMapDatastore())
	node := tut.NewFakeMarketNode()
	providers := registry.NewProviderRegistry(ds)
	catalog := listings.NewListingCatalog(ds, providers, params.MinRentalDuration)
	h := &harness{
		catalog:   catalog,
		providers: providers,
		node:      node,
		provider:  tut.NewIDAddr(t, 100),
		client:    tut.NewIDAddr(t, 500),
		custody:   tut.NewIDAddr(t, 999),
	}
	h.escrow = escrow.NewEscrow(ds, catalog, providers, node, h.custody, params.PlatformFeeNum, params.PlatformFeeDenom)
	require.NoError(t, providers.Register(h.provider, 1000, abi.NewTokenAmount(10)))
	return h
}

func (h *harness) createListing(t *testing.T, spaceMB uint64, price int64, minDuration, maxDuration abi.ChainEpoch) listings.ListingID {
	id, err := h.catalog.CreateListing(h.provider, spaceMB, abi.NewTokenAmount(price), minDuration, maxDuration)
	require.NoError(t, err)
	return id
}

func (h *harness) fileRef(t *testing.T, sizeMB uint64) escrow.FileRef {
	return escrow.FileRef{
		PayloadCID: tut.MakeCid(t, []byte("payload")),
		SizeMB:     sizeMB,
		Name:       "backup.tar",
		KeyHash:    tut.MakeKeyHash(t, "encryption-key"),
	}
}
