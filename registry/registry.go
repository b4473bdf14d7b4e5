package registry

import (
	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-statestore"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/depotnetwork/go-storage-market/shared"
	"github.com/depotnetwork/go-storage-market/shared/params"
)

var log = logging.Logger("registry")

// DSProvidersPrefix is the datastore prefix for provider records
var DSProvidersPrefix = "/storagemarket/providers"

// NewProviderRegistry returns a ProviderRegistry persisting records to the
// given datastore
func NewProviderRegistry(ds datastore.Batching) ProviderRegistry {
	return &providerRegistry{
		store: statestore.New(namespace.Wrap(ds, datastore.NewKey(DSProvidersPrefix))),
	}
}

type providerRegistry struct {
	store *statestore.StateStore
}

var _ ProviderRegistry = (*providerRegistry)(nil)

func (r *providerRegistry) Register(provider address.Address, availableSpace uint64, pricePerMB abi.TokenAmount) error {
	has, err := r.store.Has(provider)
	if err != nil {
		return err
	}
	if has {
		var existing ProviderInfo
		if err := r.store.Get(provider).Get(&existing); err != nil {
			return err
		}
		if existing.Active {
			return xerrors.Errorf("registering %s: %w", provider, ErrAlreadyRegistered)
		}
	}

	if err := validateOffer(availableSpace, pricePerMB); err != nil {
		return xerrors.Errorf("registering %s: %w", provider, err)
	}

	info := ProviderInfo{
		Provider:       provider,
		AvailableSpace: availableSpace,
		PricePerMB:     pricePerMB,
		Reputation:     params.BaselineReputation,
		TotalCompleted: 0,
		Active:         true,
	}

	if has {
		// deactivated record, overwrite as if fresh
		if err := r.store.Get(provider).Mutate(func(pi *ProviderInfo) error {
			*pi = info
			return nil
		}); err != nil {
			return err
		}
	} else if err := r.store.Begin(provider, &info); err != nil {
		return err
	}

	log.Infow("provider registered", "provider", provider, "spaceMB", availableSpace, "pricePerMB", pricePerMB)
	return nil
}

func (r *providerRegistry) Update(provider address.Address, availableSpace uint64, pricePerMB abi.TokenAmount, active bool) error {
	has, err := r.store.Has(provider)
	if err != nil {
		return err
	}
	if !has {
		return xerrors.Errorf("updating %s: %w", provider, ErrProviderNotFound)
	}

	if err := validateOffer(availableSpace, pricePerMB); err != nil {
		return xerrors.Errorf("updating %s: %w", provider, err)
	}

	return r.store.Get(provider).Mutate(func(pi *ProviderInfo) error {
		pi.AvailableSpace = availableSpace
		pi.PricePerMB = pricePerMB
		pi.Active = active
		return nil
	})
}

func (r *providerRegistry) IsRegistered(provider address.Address) (bool, error) {
	has, err := r.store.Has(provider)
	if err != nil || !has {
		return false, err
	}
	var info ProviderInfo
	if err := r.store.Get(provider).Get(&info); err != nil {
		return false, err
	}
	return info.Active, nil
}

func (r *providerRegistry) GetProvider(provider address.Address) (ProviderInfo, error) {
	has, err := r.store.Has(provider)
	if err != nil {
		return ProviderInfoUndefined, err
	}
	if !has {
		return ProviderInfoUndefined, xerrors.Errorf("provider %s: %w", provider, ErrProviderNotFound)
	}
	var info ProviderInfo
	if err := r.store.Get(provider).Get(&info); err != nil {
		return ProviderInfoUndefined, err
	}
	return info, nil
}

func (r *providerRegistry) ListProviders() ([]ProviderInfo, error) {
	var out []ProviderInfo
	if err := r.store.List(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *providerRegistry) DeductSpace(provider address.Address, spaceMB uint64) error {
	has, err := r.store.Has(provider)
	if err != nil {
		return err
	}
	if !has {
		return xerrors.Errorf("deducting space from %s: %w", provider, ErrProviderNotFound)
	}

	// the mutate reads the freshest committed record, so a capacity change
	// committed since the caller's earlier reads is still honored
	return r.store.Get(provider).Mutate(func(pi *ProviderInfo) error {
		if pi.AvailableSpace < spaceMB {
			return xerrors.Errorf("provider %s has %dMB available, needs %dMB: %w",
				provider, pi.AvailableSpace, spaceMB, shared.ErrInvalidAmount)
		}
		pi.AvailableSpace -= spaceMB
		return nil
	})
}

func (r *providerRegistry) DockReputation(provider address.Address) (uint64, error) {
	has, err := r.store.Has(provider)
	if err != nil {
		return 0, err
	}
	if !has {
		return 0, xerrors.Errorf("docking reputation of %s: %w", provider, ErrProviderNotFound)
	}

	var docked uint64
	err = r.store.Get(provider).Mutate(func(pi *ProviderInfo) error {
		pi.Reputation -= pi.Reputation / params.ReputationPenaltyDivisor
		if pi.Reputation > params.MaxReputation {
			pi.Reputation = params.MaxReputation
		}
		docked = pi.Reputation
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Infow("provider reputation docked", "provider", provider, "reputation", docked)
	return docked, nil
}

func (r *providerRegistry) RecordCompletion(provider address.Address) error {
	has, err := r.store.Has(provider)
	if err != nil {
		return err
	}
	if !has {
		return xerrors.Errorf("recording completion for %s: %w", provider, ErrProviderNotFound)
	}

	return r.store.Get(provider).Mutate(func(pi *ProviderInfo) error {
		pi.TotalCompleted++
		return nil
	})
}

func validateOffer(availableSpace uint64, pricePerMB abi.TokenAmount) error {
	if availableSpace == 0 {
		return xerrors.Errorf("available space must be positive: %w", shared.ErrInvalidAmount)
	}
	if pricePerMB.Nil() || pricePerMB.LessThanEqual(big.Zero()) {
		return xerrors.Errorf("price per MB must be positive: %w", shared.ErrInvalidAmount)
	}
	return nil
}
