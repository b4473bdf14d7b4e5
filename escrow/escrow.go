package escrow

import (
	"context"
	"fmt"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-statestore"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/depotnetwork/go-storage-market/listings"
	"github.com/depotnetwork/go-storage-market/registry"
	"github.com/depotnetwork/go-storage-market/sequence"
	"github.com/depotnetwork/go-storage-market/shared"
)

var log = logging.Logger("escrow")

// DSContractsPrefix is the datastore prefix for contract records
var DSContractsPrefix = "/storagemarket/contracts"

// DSFilesPrefix is the datastore prefix for file metadata records
var DSFilesPrefix = "/storagemarket/files"

// DSContractCounter is the datastore key for the contract id sequence
var DSContractCounter = "/storagemarket/counters/contracts"

// NewEscrow returns an Escrow settling purchases through the given node's
// ledger, with payments routed via the custody address. The fee fraction
// feeNum/feeDenom is retained in custody on every settlement.
func NewEscrow(ds datastore.Batching, catalog listings.ListingCatalog, providers registry.ProviderRegistry,
	node shared.MarketNode, custody address.Address, feeNum int64, feeDenom int64) Escrow {
	return &escrow{
		contracts: statestore.New(namespace.Wrap(ds, datastore.NewKey(DSContractsPrefix))),
		files:     statestore.New(namespace.Wrap(ds, datastore.NewKey(DSFilesPrefix))),
		ids:       sequence.New(ds, datastore.NewKey(DSContractCounter)),
		catalog:   catalog,
		providers: providers,
		node:      node,
		custody:   custody,
		feeNum:    feeNum,
		feeDenom:  feeDenom,
	}
}

type escrow struct {
	contracts *statestore.StateStore
	files     *statestore.StateStore
	ids       *sequence.Sequence
	catalog   listings.ListingCatalog
	providers registry.ProviderRegistry
	node      shared.MarketNode
	custody   address.Address
	feeNum    int64
	feeDenom  int64
}

var _ Escrow = (*escrow)(nil)

func (e *escrow) Purchase(ctx context.Context, client address.Address, listingID listings.ListingID, duration abi.ChainEpoch, file FileRef) (ContractID, error) {
	listing, err := e.catalog.GetListing(listingID)
	if err != nil {
		return 0, err
	}
	if !listing.Available {
		return 0, xerrors.Errorf("listing %d already purchased: %w", listingID, listings.ErrListingNotFound)
	}
	if duration < listing.MinDuration || duration > listing.MaxDuration {
		return 0, xerrors.Errorf("duration %d outside listing range [%d, %d]: %w",
			duration, listing.MinDuration, listing.MaxDuration, shared.ErrInvalidAmount)
	}
	if err := file.Validate(); err != nil {
		return 0, err
	}
	if file.SizeMB > listing.SpaceMB {
		return 0, xerrors.Errorf("file of %dMB exceeds listing's %dMB: %w", file.SizeMB, listing.SpaceMB, shared.ErrInvalidAmount)
	}

	// over-listed providers are caught before any value moves; the
	// authoritative deduction below still targets the freshest record
	info, err := e.providers.GetProvider(listing.Provider)
	if err != nil {
		return 0, err
	}
	if info.AvailableSpace < listing.SpaceMB {
		return 0, xerrors.Errorf("provider %s no longer holds %dMB: %w", listing.Provider, listing.SpaceMB, shared.ErrInvalidAmount)
	}

	totalPayment := big.Mul(listing.PricePerEpoch, big.NewInt(int64(duration)))
	platformFee := big.Div(big.Mul(totalPayment, big.NewInt(e.feeNum)), big.NewInt(e.feeDenom))
	providerPayment := big.Sub(totalPayment, platformFee)

	head, err := e.node.ChainHead(ctx)
	if err != nil {
		return 0, err
	}

	// every fallible transfer precedes the first record write
	if err := e.node.Transfer(ctx, client, e.custody, totalPayment); err != nil {
		return 0, xerrors.Errorf("escrowing payment for listing %d: %w", listingID, err)
	}
	if err := e.node.Transfer(ctx, e.custody, listing.Provider, providerPayment); err != nil {
		return 0, xerrors.Errorf("settling provider payment for listing %d: %w", listingID, err)
	}

	next, err := e.ids.Next(ctx)
	if err != nil {
		return 0, err
	}
	id := ContractID(next)

	contract := StorageContract{
		ID:            id,
		Provider:      listing.Provider,
		Client:        client,
		ListingID:     listingID,
		SpaceMB:       listing.SpaceMB,
		PricePerEpoch: listing.PricePerEpoch,
		StartEpoch:    head,
		EndEpoch:      head + duration,
		TotalPayment:  totalPayment,
		Status:        ContractActive,
	}
	if err := e.contracts.Begin(uint64(id), &contract); err != nil {
		return 0, err
	}

	metadata := FileMetadata{
		ContractID: id,
		FileID:     PrimaryFileID,
		PayloadCID: file.PayloadCID,
		SizeMB:     file.SizeMB,
		Name:       file.Name,
		KeyHash:    file.KeyHash,
	}
	if err := e.files.Begin(newFileKey(id, PrimaryFileID), &metadata); err != nil {
		return 0, err
	}

	// re-reads the provider record, so a capacity change committed since
	// the check above still settles against the latest value
	if err := e.providers.DeductSpace(listing.Provider, listing.SpaceMB); err != nil {
		return 0, err
	}
	if err := e.catalog.MarkPurchased(listingID); err != nil {
		return 0, err
	}

	log.Infow("purchase settled", "contract", id, "listing", listingID, "client", client,
		"provider", listing.Provider, "total", totalPayment, "fee", platformFee)
	return id, nil
}

func (e *escrow) GetContract(id ContractID) (StorageContract, error) {
	has, err := e.contracts.Has(uint64(id))
	if err != nil {
		return StorageContractUndefined, err
	}
	if !has {
		return StorageContractUndefined, xerrors.Errorf("contract %d: %w", id, ErrContractNotFound)
	}
	var contract StorageContract
	if err := e.contracts.Get(uint64(id)).Get(&contract); err != nil {
		return StorageContractUndefined, err
	}
	return contract, nil
}

func (e *escrow) ListContracts() ([]StorageContract, error) {
	var out []StorageContract
	if err := e.contracts.List(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *escrow) GetFileMetadata(id ContractID, fileID uint64) (FileMetadata, error) {
	has, err := e.files.Has(newFileKey(id, fileID))
	if err != nil {
		return FileMetadataUndefined, err
	}
	if !has {
		return FileMetadataUndefined, xerrors.Errorf("file %d of contract %d: %w", fileID, id, ErrContractNotFound)
	}
	var metadata FileMetadata
	if err := e.files.Get(newFileKey(id, fileID)).Get(&metadata); err != nil {
		return FileMetadataUndefined, err
	}
	return metadata, nil
}

func (e *escrow) MutateContract(id ContractID, mutator func(*StorageContract) error) error {
	has, err := e.contracts.Has(uint64(id))
	if err != nil {
		return err
	}
	if !has {
		return xerrors.Errorf("contract %d: %w", id, ErrContractNotFound)
	}
	return e.contracts.Get(uint64(id)).Mutate(mutator)
}

func newFileKey(id ContractID, fileID uint64) fmt.Stringer {
	return &fileKey{contract: id, file: fileID}
}

type fileKey struct {
	contract ContractID
	file     uint64
}

func (k *fileKey) String() string {
	return fmt.Sprintf("%d/%d", k.contract, k.file)
}
