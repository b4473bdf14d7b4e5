package disputes

import (
	"context"
	"errors"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/depotnetwork/go-storage-market/escrow"
)

//go:generate cbor-gen-for DisputeRecord

// KindClientFavored is the arbitration kind that refunds the client and
// penalizes the provider. Any other kind resolves in the provider's favor.
const KindClientFavored = "client-favored"

// DisputeParams carries a filing or ruling: a kind string, free form
// evidence and the filer's requested resolution. Evidence is surfaced to
// the owner and to subscribers; its content is never validated.
type DisputeParams struct {
	Kind              string
	Evidence          []byte
	ResolutionRequest string
}

// DisputeRecord is the persisted filing for a contract, kept so the owner
// can review evidence before arbitrating
type DisputeRecord struct {
	ContractID        escrow.ContractID
	Filer             address.Address
	Kind              string
	Evidence          []byte
	ResolutionRequest string
	FiledAt           abi.ChainEpoch
}

// DisputeRecordUndefined is a dispute record with no information
var DisputeRecordUndefined = DisputeRecord{}

// DisputeEvent is an event in a dispute's lifecycle
type DisputeEvent uint64

const (
	// DisputeEventFiled indicates a party filed a dispute awaiting arbitration
	DisputeEventFiled = DisputeEvent(iota)

	// DisputeEventAutoResolved indicates a client filing resolved itself on
	// evidence size, bypassing arbitration
	DisputeEventAutoResolved

	// DisputeEventArbitrated indicates the owner ruled on a contract
	DisputeEventArbitrated
)

// DisputeEvents maps dispute events to human readable strings
var DisputeEvents = []string{
	"DisputeEventFiled",
	"DisputeEventAutoResolved",
	"DisputeEventArbitrated",
}

// Subscriber is a callback registered to listen for dispute events
type Subscriber func(event DisputeEvent, record DisputeRecord, contract escrow.StorageContract)

// Unsubscribe removes a previously registered subscriber
type Unsubscribe func()

// ErrDisputeNotFound means no filing exists for the contract
var ErrDisputeNotFound = errors.New("dispute not found")

// DisputeResolver adjudicates contract disagreements. Owner rulings are
// authoritative and final; party filings either auto resolve on evidence
// size or persist until the owner rules.
type DisputeResolver interface {
	// Resolve opens or arbitrates a dispute on an active contract. Only
	// the platform owner, the contract's provider or its client may call;
	// a contract that has left the active status rejects further calls.
	Resolve(ctx context.Context, caller address.Address, contractID escrow.ContractID, dispute DisputeParams) error

	// GetDispute returns the persisted filing for a contract
	GetDispute(contractID escrow.ContractID) (DisputeRecord, error)

	// SubscribeToEvents listens for dispute filings and resolutions
	SubscribeToEvents(subscriber Subscriber) Unsubscribe
}
