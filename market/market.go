package market

import (
	"context"
	"sync"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/ipfs/go-datastore"

	"github.com/depotnetwork/go-storage-market/disputes"
	"github.com/depotnetwork/go-storage-market/escrow"
	"github.com/depotnetwork/go-storage-market/listings"
	"github.com/depotnetwork/go-storage-market/registry"
	"github.com/depotnetwork/go-storage-market/shared"
)

// NewStorageMarket assembles the marketplace over a single datastore. The
// node supplies chain height and performs every ledger transfer; the host
// must run each transfer batch of an operation atomically for the
// all-or-nothing settlement guarantees to hold.
func NewStorageMarket(ds datastore.Batching, node shared.MarketNode, cfg Config) StorageMarket {
	providers := registry.NewProviderRegistry(ds)
	catalog := listings.NewListingCatalog(ds, providers, cfg.MinRentalDuration)
	contracts := escrow.NewEscrow(ds, catalog, providers, node, cfg.CustodyAddress, cfg.PlatformFeeNum, cfg.PlatformFeeDenom)
	resolver := disputes.NewDisputeResolver(ds, contracts, providers, node, cfg.OwnerAddress, cfg.CustodyAddress, cfg.AutoResolveEvidenceBytes)
	return &storageMarket{
		providers: providers,
		catalog:   catalog,
		contracts: contracts,
		resolver:  resolver,
	}
}

type storageMarket struct {
	// lk serializes operations: every state transition observes a quiescent
	// market, matching the one-transaction-at-a-time execution model
	lk        sync.Mutex
	providers registry.ProviderRegistry
	catalog   listings.ListingCatalog
	contracts escrow.Escrow
	resolver  disputes.DisputeResolver
}

var _ StorageMarket = (*storageMarket)(nil)

func (m *storageMarket) RegisterAsProvider(ctx context.Context, caller address.Address, availableSpace uint64, pricePerMB abi.TokenAmount) error {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.providers.Register(caller, availableSpace, pricePerMB)
}

func (m *storageMarket) UpdateProviderDetails(ctx context.Context, caller address.Address, availableSpace uint64, pricePerMB abi.TokenAmount, active bool) error {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.providers.Update(caller, availableSpace, pricePerMB, active)
}

func (m *storageMarket) CreateStorageListing(ctx context.Context, caller address.Address, spaceMB uint64, pricePerEpoch abi.TokenAmount,
	minDuration abi.ChainEpoch, maxDuration abi.ChainEpoch) (listings.ListingID, error) {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.catalog.CreateListing(caller, spaceMB, pricePerEpoch, minDuration, maxDuration)
}

func (m *storageMarket) PurchaseStorage(ctx context.Context, caller address.Address, listingID listings.ListingID,
	duration abi.ChainEpoch, file escrow.FileRef) (escrow.ContractID, error) {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.contracts.Purchase(ctx, caller, listingID, duration, file)
}

func (m *storageMarket) ResolveStorageDispute(ctx context.Context, caller address.Address, contractID escrow.ContractID, dispute disputes.DisputeParams) error {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.resolver.Resolve(ctx, caller, contractID, dispute)
}

func (m *storageMarket) GetProvider(provider address.Address) (registry.ProviderInfo, error) {
	return m.providers.GetProvider(provider)
}

func (m *storageMarket) ListProviders() ([]registry.ProviderInfo, error) {
	return m.providers.ListProviders()
}

func (m *storageMarket) GetListing(listingID listings.ListingID) (listings.Listing, error) {
	return m.catalog.GetListing(listingID)
}

func (m *storageMarket) ListListings() ([]listings.Listing, error) {
	return m.catalog.ListListings()
}

func (m *storageMarket) GetContract(contractID escrow.ContractID) (escrow.StorageContract, error) {
	return m.contracts.GetContract(contractID)
}

func (m *storageMarket) ListContracts() ([]escrow.StorageContract, error) {
	return m.contracts.ListContracts()
}

func (m *storageMarket) GetFileMetadata(contractID escrow.ContractID, fileID uint64) (escrow.FileMetadata, error) {
	return m.contracts.GetFileMetadata(contractID, fileID)
}

func (m *storageMarket) GetDispute(contractID escrow.ContractID) (disputes.DisputeRecord, error) {
	return m.resolver.GetDispute(contractID)
}

func (m *storageMarket) SubscribeToDisputeEvents(subscriber disputes.Subscriber) disputes.Unsubscribe {
	return m.resolver.SubscribeToEvents(subscriber)
}
