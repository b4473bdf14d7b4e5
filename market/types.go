package market

import (
	"context"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/depotnetwork/go-storage-market/disputes"
	"github.com/depotnetwork/go-storage-market/escrow"
	"github.com/depotnetwork/go-storage-market/listings"
	"github.com/depotnetwork/go-storage-market/registry"
	"github.com/depotnetwork/go-storage-market/shared/params"
)

// Config carries the platform parameters a market is constructed with.
// OwnerAddress arbitrates disputes; CustodyAddress holds escrowed value.
type Config struct {
	OwnerAddress             address.Address
	CustodyAddress           address.Address
	MinRentalDuration        abi.ChainEpoch
	PlatformFeeNum           int64
	PlatformFeeDenom         int64
	AutoResolveEvidenceBytes int
}

// DefaultConfig returns a Config with the standard platform parameters:
// a 0.5% fee, a 4320 epoch rental floor and a 128 byte auto-resolve
// evidence threshold
func DefaultConfig(owner address.Address, custody address.Address) Config {
	return Config{
		OwnerAddress:             owner,
		CustodyAddress:           custody,
		MinRentalDuration:        params.MinRentalDuration,
		PlatformFeeNum:           params.PlatformFeeNum,
		PlatformFeeDenom:         params.PlatformFeeDenom,
		AutoResolveEvidenceBytes: params.AutoResolveEvidenceBytes,
	}
}

// StorageMarket is the host-facing surface of the marketplace. The host is
// responsible for verifying each caller address before passing it in; the
// market trusts caller identities and serializes all operations internally.
type StorageMarket interface {
	// RegisterAsProvider creates the caller's provider record with a
	// baseline reputation
	RegisterAsProvider(ctx context.Context, caller address.Address, availableSpace uint64, pricePerMB abi.TokenAmount) error

	// UpdateProviderDetails replaces the caller's offering terms, keeping
	// earned reputation and completion history. Setting active to false
	// withdraws the provider from the market.
	UpdateProviderDetails(ctx context.Context, caller address.Address, availableSpace uint64, pricePerMB abi.TokenAmount, active bool) error

	// CreateStorageListing publishes a single-use listing of the caller's
	// space at the given per-epoch price
	CreateStorageListing(ctx context.Context, caller address.Address, spaceMB uint64, pricePerEpoch abi.TokenAmount,
		minDuration abi.ChainEpoch, maxDuration abi.ChainEpoch) (listings.ListingID, error)

	// PurchaseStorage settles a listing purchase for the caller: payment and
	// platform fee move, the contract and file metadata are recorded, the
	// provider's capacity shrinks and the listing is consumed
	PurchaseStorage(ctx context.Context, caller address.Address, listingID listings.ListingID,
		duration abi.ChainEpoch, file escrow.FileRef) (escrow.ContractID, error)

	// ResolveStorageDispute opens or arbitrates a dispute on an active
	// contract, depending on whether the caller is the owner or a party
	ResolveStorageDispute(ctx context.Context, caller address.Address, contractID escrow.ContractID, dispute disputes.DisputeParams) error

	// GetProvider returns a provider's current record
	GetProvider(provider address.Address) (registry.ProviderInfo, error)

	// ListProviders returns all provider records, active or not
	ListProviders() ([]registry.ProviderInfo, error)

	// GetListing returns a listing by id
	GetListing(listingID listings.ListingID) (listings.Listing, error)

	// ListListings returns all listings, consumed ones included
	ListListings() ([]listings.Listing, error)

	// GetContract returns a contract by id
	GetContract(contractID escrow.ContractID) (escrow.StorageContract, error)

	// ListContracts returns all contracts in any status
	ListContracts() ([]escrow.StorageContract, error)

	// GetFileMetadata returns the stored file record for a contract
	GetFileMetadata(contractID escrow.ContractID, fileID uint64) (escrow.FileMetadata, error)

	// GetDispute returns the persisted dispute filing for a contract
	GetDispute(contractID escrow.ContractID) (disputes.DisputeRecord, error)

	// SubscribeToDisputeEvents listens for dispute filings and resolutions
	SubscribeToDisputeEvents(subscriber disputes.Subscriber) disputes.Unsubscribe
}
