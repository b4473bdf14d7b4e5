package listings

import (
	"context"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-statestore"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/depotnetwork/go-storage-market/registry"
	"github.com/depotnetwork/go-storage-market/sequence"
	"github.com/depotnetwork/go-storage-market/shared"
)

var log = logging.Logger("listings")

// DSListingsPrefix is the datastore prefix for listing records
var DSListingsPrefix = "/storagemarket/listings"

// DSListingCounter is the datastore key for the listing id sequence
var DSListingCounter = "/storagemarket/counters/listings"

// NewListingCatalog returns a ListingCatalog persisting listings to the
// given datastore. The rental floor bounds every listing's minimum
// duration.
func NewListingCatalog(ds datastore.Batching, providers registry.ProviderRegistry, rentalFloor abi.ChainEpoch) ListingCatalog {
	return &listingCatalog{
		store:       statestore.New(namespace.Wrap(ds, datastore.NewKey(DSListingsPrefix))),
		ids:         sequence.New(ds, datastore.NewKey(DSListingCounter)),
		providers:   providers,
		rentalFloor: rentalFloor,
	}
}

type listingCatalog struct {
	store       *statestore.StateStore
	ids         *sequence.Sequence
	providers   registry.ProviderRegistry
	rentalFloor abi.ChainEpoch
}

var _ ListingCatalog = (*listingCatalog)(nil)

func (lc *listingCatalog) CreateListing(provider address.Address, spaceMB uint64, pricePerEpoch abi.TokenAmount, minDuration abi.ChainEpoch, maxDuration abi.ChainEpoch) (ListingID, error) {
	registered, err := lc.providers.IsRegistered(provider)
	if err != nil {
		return 0, err
	}
	if !registered {
		return 0, xerrors.Errorf("creating listing for %s: %w", provider, registry.ErrProviderNotFound)
	}

	info, err := lc.providers.GetProvider(provider)
	if err != nil {
		return 0, err
	}
	if spaceMB == 0 || spaceMB > info.AvailableSpace {
		return 0, xerrors.Errorf("listing of %dMB exceeds provider's %dMB: %w", spaceMB, info.AvailableSpace, shared.ErrInvalidAmount)
	}
	if pricePerEpoch.Nil() || pricePerEpoch.LessThanEqual(big.Zero()) {
		return 0, xerrors.Errorf("price per epoch must be positive: %w", shared.ErrInvalidAmount)
	}
	if minDuration < lc.rentalFloor {
		return 0, xerrors.Errorf("minimum duration %d below rental floor %d: %w", minDuration, lc.rentalFloor, shared.ErrInvalidAmount)
	}
	if maxDuration < minDuration {
		return 0, xerrors.Errorf("maximum duration %d below minimum %d: %w", maxDuration, minDuration, shared.ErrInvalidAmount)
	}

	next, err := lc.ids.Next(context.TODO())
	if err != nil {
		return 0, err
	}
	id := ListingID(next)

	listing := Listing{
		ID:            id,
		Provider:      provider,
		SpaceMB:       spaceMB,
		PricePerEpoch: pricePerEpoch,
		MinDuration:   minDuration,
		MaxDuration:   maxDuration,
		Available:     true,
	}
	if err := lc.store.Begin(uint64(id), &listing); err != nil {
		return 0, err
	}

	log.Infow("listing created", "listing", id, "provider", provider, "spaceMB", spaceMB, "pricePerEpoch", pricePerEpoch)
	return id, nil
}

func (lc *listingCatalog) GetListing(id ListingID) (Listing, error) {
	has, err := lc.store.Has(uint64(id))
	if err != nil {
		return ListingUndefined, err
	}
	if !has {
		return ListingUndefined, xerrors.Errorf("listing %d: %w", id, ErrListingNotFound)
	}
	var listing Listing
	if err := lc.store.Get(uint64(id)).Get(&listing); err != nil {
		return ListingUndefined, err
	}
	return listing, nil
}

func (lc *listingCatalog) ListListings() ([]Listing, error) {
	var out []Listing
	if err := lc.store.List(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (lc *listingCatalog) MarkPurchased(id ListingID) error {
	has, err := lc.store.Has(uint64(id))
	if err != nil {
		return err
	}
	if !has {
		return xerrors.Errorf("retiring listing %d: %w", id, ErrListingNotFound)
	}

	return lc.store.Get(uint64(id)).Mutate(func(l *Listing) error {
		l.Available = false
		return nil
	})
}
