package escrow

import (
	"context"
	"errors"

	"github.com/filecoin-project/go-address"
	cborutil "github.com/filecoin-project/go-cbor-util"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/depotnetwork/go-storage-market/listings"
	"github.com/depotnetwork/go-storage-market/shared"
	"github.com/depotnetwork/go-storage-market/shared/params"
)

//go:generate cbor-gen-for StorageContract FileMetadata

// ContractID is an identifier for a funded storage contract, allocated
// sequentially from 1
type ContractID uint64

// ContractStatus is the lifecycle state of a storage contract
type ContractStatus = uint64

const (
	// ContractActive is the status of every freshly settled contract
	ContractActive = ContractStatus(iota)

	// ContractResolvedClient means the owner arbitrated in the client's favor
	ContractResolvedClient

	// ContractResolvedProvider means the owner arbitrated in the provider's favor
	ContractResolvedProvider

	// ContractDisputedByClient means the client filed a dispute awaiting arbitration
	ContractDisputedByClient

	// ContractDisputedByProvider means the provider filed a dispute awaiting arbitration
	ContractDisputedByProvider

	// ContractAutoResolved means a client filing resolved itself on evidence size
	ContractAutoResolved
)

// ContractStatuses maps contract statuses to human readable strings
var ContractStatuses = []string{
	"ContractActive",
	"ContractResolvedClient",
	"ContractResolvedProvider",
	"ContractDisputedByClient",
	"ContractDisputedByProvider",
	"ContractAutoResolved",
}

// IsTerminalStatus returns true if no further transition can leave the
// given status. Filed disputes are not terminal: they await arbitration
// indefinitely.
func IsTerminalStatus(status ContractStatus) bool {
	switch status {
	case ContractResolvedClient, ContractResolvedProvider, ContractAutoResolved:
		return true
	default:
		return false
	}
}

// PrimaryFileID is the file slot populated at purchase time
const PrimaryFileID = uint64(1)

// StorageContract is an executed, funded agreement between a client and a
// provider. It is an append-only settlement record: the status is the only
// field that ever changes, and the record is never deleted.
type StorageContract struct {
	ID            ContractID
	Provider      address.Address
	Client        address.Address
	ListingID     listings.ListingID
	SpaceMB       uint64
	PricePerEpoch abi.TokenAmount
	StartEpoch    abi.ChainEpoch
	EndEpoch      abi.ChainEpoch
	TotalPayment  abi.TokenAmount
	Status        ContractStatus
}

// StorageContractUndefined is a contract with no information
var StorageContractUndefined = StorageContract{}

// Cid derives a stable content identifier for the contract record
func (sc *StorageContract) Cid() (cid.Cid, error) {
	nd, err := cborutil.AsIpld(sc)
	if err != nil {
		return cid.Undef, err
	}
	return nd.Cid(), nil
}

// FileRef describes the file a purchase stores: an opaque payload
// reference plus metadata. No file content moves through the market.
type FileRef struct {
	PayloadCID cid.Cid
	SizeMB     uint64
	Name       string
	KeyHash    []byte
}

// Validate checks a file reference is well formed
func (f *FileRef) Validate() error {
	if !f.PayloadCID.Defined() {
		return xerrors.Errorf("file payload cid is undefined: %w", shared.ErrInvalidAmount)
	}
	if len(f.KeyHash) != params.KeyHashLength {
		return xerrors.Errorf("key hash must be %d bytes, got %d: %w", params.KeyHashLength, len(f.KeyHash), shared.ErrInvalidAmount)
	}
	if len(f.Name) == 0 || len(f.Name) > params.MaxFileNameBytes {
		return xerrors.Errorf("file name must be 1-%d bytes: %w", params.MaxFileNameBytes, shared.ErrInvalidAmount)
	}
	return nil
}

// FileMetadata is the write-once record of a stored file, keyed by
// (contract, file id). It is purely informational: no value movement
// depends on it after the size check at purchase.
type FileMetadata struct {
	ContractID ContractID
	FileID     uint64
	PayloadCID cid.Cid
	SizeMB     uint64
	Name       string
	KeyHash    []byte
}

// FileMetadataUndefined is file metadata with no information
var FileMetadataUndefined = FileMetadata{}

// ErrContractNotFound means no contract record exists for the id
var ErrContractNotFound = errors.New("contract not found")

// Escrow converts listings into funded contracts and tracks the results.
// Settlement is all or nothing: every fallible transfer happens before the
// first record write, so an aborted purchase leaves no state behind.
type Escrow interface {
	// Purchase settles a listing: escrows the client's payment via custody,
	// pays the provider minus the platform fee, records the contract and
	// file metadata, reserves provider capacity and retires the listing
	Purchase(ctx context.Context, client address.Address, listingID listings.ListingID, duration abi.ChainEpoch, file FileRef) (ContractID, error)

	// GetContract returns the contract for an id
	GetContract(id ContractID) (StorageContract, error)

	// ListContracts returns all settled contracts
	ListContracts() ([]StorageContract, error)

	// GetFileMetadata returns the metadata stored under (contract, file id)
	GetFileMetadata(id ContractID, fileID uint64) (FileMetadata, error)

	// MutateContract rewrites a contract record against its freshest
	// committed value. Used by dispute resolution for status transitions.
	MutateContract(id ContractID, mutator func(*StorageContract) error) error
}
