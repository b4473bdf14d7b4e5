package disputes

import (
	"context"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-statestore"
	"github.com/hannahhoward/go-pubsub"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/depotnetwork/go-storage-market/escrow"
	"github.com/depotnetwork/go-storage-market/registry"
	"github.com/depotnetwork/go-storage-market/shared"
	"github.com/depotnetwork/go-storage-market/shared/params"
)

var log = logging.Logger("disputes")

// DSDisputesPrefix is the datastore prefix for dispute filings
var DSDisputesPrefix = "/storagemarket/disputes"

// NewDisputeResolver returns a DisputeResolver arbitrating on behalf of
// the given owner, refunding from the custody address. A client filing
// with evidence longer than autoResolveEvidenceBytes resolves immediately.
func NewDisputeResolver(ds datastore.Batching, contracts escrow.Escrow, providers registry.ProviderRegistry,
	node shared.MarketNode, owner address.Address, custody address.Address, autoResolveEvidenceBytes int) DisputeResolver {
	return &resolver{
		store:          statestore.New(namespace.Wrap(ds, datastore.NewKey(DSDisputesPrefix))),
		contracts:      contracts,
		providers:      providers,
		node:           node,
		owner:          owner,
		custody:        custody,
		autoResolveLen: autoResolveEvidenceBytes,
		pubSub:         pubsub.New(disputeDispatcher),
	}
}

type resolver struct {
	store          *statestore.StateStore
	contracts      escrow.Escrow
	providers      registry.ProviderRegistry
	node           shared.MarketNode
	owner          address.Address
	custody        address.Address
	autoResolveLen int
	pubSub         *pubsub.PubSub
}

var _ DisputeResolver = (*resolver)(nil)

func (dr *resolver) Resolve(ctx context.Context, caller address.Address, contractID escrow.ContractID, dispute DisputeParams) error {
	contract, err := dr.contracts.GetContract(contractID)
	if err != nil {
		return err
	}
	if caller != dr.owner && caller != contract.Provider && caller != contract.Client {
		return xerrors.Errorf("caller %s is not a party to contract %d: %w", caller, contractID, shared.ErrNotAuthorized)
	}
	if contract.Status != escrow.ContractActive {
		return xerrors.Errorf("contract %d is %s: %w", contractID, escrow.ContractStatuses[contract.Status], shared.ErrNotAuthorized)
	}

	if caller == dr.owner {
		return dr.arbitrate(ctx, contract, dispute)
	}
	return dr.file(ctx, caller, contract, dispute)
}

// arbitrate applies an owner ruling: authoritative and final
func (dr *resolver) arbitrate(ctx context.Context, contract escrow.StorageContract, dispute DisputeParams) error {
	if dispute.Kind == KindClientFavored {
		refund := refundShare(contract.TotalPayment, params.ClientFavoredRefundNum)
		if err := dr.node.Transfer(ctx, dr.custody, contract.Client, refund); err != nil {
			return xerrors.Errorf("refunding client for contract %d: %w", contract.ID, err)
		}
		if _, err := dr.providers.DockReputation(contract.Provider); err != nil {
			return err
		}
		if err := dr.setStatus(contract.ID, escrow.ContractResolvedClient); err != nil {
			return err
		}
		contract.Status = escrow.ContractResolvedClient
		dr.publish(DisputeEventArbitrated, dr.ruling(contract, dispute), contract)
		log.Infow("arbitrated in client's favor", "contract", contract.ID, "refund", refund)
		return nil
	}

	// provider favored: no value moves, the contract counts as completed
	if err := dr.providers.RecordCompletion(contract.Provider); err != nil {
		return err
	}
	if err := dr.setStatus(contract.ID, escrow.ContractResolvedProvider); err != nil {
		return err
	}
	contract.Status = escrow.ContractResolvedProvider
	dr.publish(DisputeEventArbitrated, dr.ruling(contract, dispute), contract)
	log.Infow("arbitrated in provider's favor", "contract", contract.ID)
	return nil
}

// file records a party's dispute. A client filing with oversized evidence
// resolves immediately on size alone.
func (dr *resolver) file(ctx context.Context, filer address.Address, contract escrow.StorageContract, dispute DisputeParams) error {
	head, err := dr.node.ChainHead(ctx)
	if err != nil {
		return err
	}

	autoResolve := filer == contract.Client && len(dispute.Evidence) > dr.autoResolveLen
	var status escrow.ContractStatus
	switch {
	case autoResolve:
		status = escrow.ContractAutoResolved
	case filer == contract.Client:
		status = escrow.ContractDisputedByClient
	default:
		status = escrow.ContractDisputedByProvider
	}

	if autoResolve {
		refund := refundShare(contract.TotalPayment, params.AutoResolveRefundNum)
		if err := dr.node.Transfer(ctx, dr.custody, contract.Client, refund); err != nil {
			return xerrors.Errorf("auto-refunding client for contract %d: %w", contract.ID, err)
		}
	}

	record := DisputeRecord{
		ContractID:        contract.ID,
		Filer:             filer,
		Kind:              dispute.Kind,
		Evidence:          dispute.Evidence,
		ResolutionRequest: dispute.ResolutionRequest,
		FiledAt:           head,
	}
	if err := dr.store.Begin(uint64(contract.ID), &record); err != nil {
		return err
	}
	if err := dr.setStatus(contract.ID, status); err != nil {
		return err
	}
	contract.Status = status

	if autoResolve {
		dr.publish(DisputeEventAutoResolved, record, contract)
		log.Infow("dispute auto-resolved on evidence size", "contract", contract.ID, "filer", filer, "evidenceBytes", len(dispute.Evidence))
	} else {
		dr.publish(DisputeEventFiled, record, contract)
		log.Infow("dispute filed", "contract", contract.ID, "filer", filer, "kind", dispute.Kind)
	}
	return nil
}

func (dr *resolver) GetDispute(contractID escrow.ContractID) (DisputeRecord, error) {
	has, err := dr.store.Has(uint64(contractID))
	if err != nil {
		return DisputeRecordUndefined, err
	}
	if !has {
		return DisputeRecordUndefined, xerrors.Errorf("contract %d: %w", contractID, ErrDisputeNotFound)
	}
	var record DisputeRecord
	if err := dr.store.Get(uint64(contractID)).Get(&record); err != nil {
		return DisputeRecordUndefined, err
	}
	return record, nil
}

func (dr *resolver) SubscribeToEvents(subscriber Subscriber) Unsubscribe {
	return Unsubscribe(dr.pubSub.Subscribe(subscriber))
}

func (dr *resolver) setStatus(id escrow.ContractID, status escrow.ContractStatus) error {
	return dr.contracts.MutateContract(id, func(sc *escrow.StorageContract) error {
		sc.Status = status
		return nil
	})
}

// ruling shapes an owner decision as a record for subscribers; rulings are
// not persisted since the contract status already carries the outcome
func (dr *resolver) ruling(contract escrow.StorageContract, dispute DisputeParams) DisputeRecord {
	return DisputeRecord{
		ContractID:        contract.ID,
		Filer:             dr.owner,
		Kind:              dispute.Kind,
		Evidence:          dispute.Evidence,
		ResolutionRequest: dispute.ResolutionRequest,
	}
}

func (dr *resolver) publish(event DisputeEvent, record DisputeRecord, contract escrow.StorageContract) {
	if err := dr.pubSub.Publish(internalEvent{event, record, contract}); err != nil {
		log.Warnf("publishing dispute event %s: %s", DisputeEvents[event], err)
	}
}

func refundShare(total abi.TokenAmount, num int64) abi.TokenAmount {
	return big.Div(big.Mul(total, big.NewInt(num)), big.NewInt(params.RefundDenom))
}

type internalEvent struct {
	evt      DisputeEvent
	record   DisputeRecord
	contract escrow.StorageContract
}

func disputeDispatcher(evt pubsub.Event, subscriberFn pubsub.SubscriberFn) error {
	ie, ok := evt.(internalEvent)
	if !ok {
		return xerrors.New("wrong type of event")
	}
	cb, ok := subscriberFn.(Subscriber)
	if !ok {
		return xerrors.New("wrong type of callback")
	}
	cb(ie.evt, ie.record, ie.contract)
	return nil
}
