package listings

import (
	"errors"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
)

//go:generate cbor-gen-for Listing

// ListingID is an identifier for a published storage offer, allocated
// sequentially from 1
type ListingID uint64

// Listing is a provider's published offer: capacity, price per epoch and
// the allowed rental duration range. A listing is single use: once
// purchased it is marked unavailable and never relisted.
type Listing struct {
	ID            ListingID
	Provider      address.Address
	SpaceMB       uint64
	PricePerEpoch abi.TokenAmount
	MinDuration   abi.ChainEpoch
	MaxDuration   abi.ChainEpoch
	Available     bool
}

// ListingUndefined is a listing with no information
var ListingUndefined = Listing{}

// ErrListingNotFound means no listing exists for the id, or the listing is
// no longer available for purchase
var ErrListingNotFound = errors.New("listing not found")

// ListingCatalog tracks published storage offers
type ListingCatalog interface {
	// CreateListing publishes an offer for a registered provider. Capacity
	// is checked against the provider's available space at creation time
	// only; it is reserved at purchase, not at listing.
	CreateListing(provider address.Address, spaceMB uint64, pricePerEpoch abi.TokenAmount, minDuration abi.ChainEpoch, maxDuration abi.ChainEpoch) (ListingID, error)

	// GetListing returns the listing for an id
	GetListing(id ListingID) (Listing, error)

	// ListListings returns all listings, consumed ones included
	ListListings() ([]Listing, error)

	// MarkPurchased retires a listing after a successful purchase
	MarkPurchased(id ListingID) error
}
