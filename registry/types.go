package registry

import (
	"errors"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
)

//go:generate cbor-gen-for ProviderInfo

// ProviderInfo is the persisted record for a storage provider: advertised
// capacity and pricing plus the platform's view of its trustworthiness.
// Records are never deleted; a provider withdrawing from the market is
// marked inactive instead.
type ProviderInfo struct {
	Provider       address.Address
	AvailableSpace uint64 // megabytes
	PricePerMB     abi.TokenAmount
	Reputation     uint64 // 0-100
	TotalCompleted uint64
	Active         bool
}

// ProviderInfoUndefined is provider info with no information
var ProviderInfoUndefined = ProviderInfo{}

// ErrAlreadyRegistered means the address already has an active provider record
var ErrAlreadyRegistered = errors.New("provider already registered")

// ErrProviderNotFound means no provider record exists for the address
var ErrProviderNotFound = errors.New("provider not found")

// ProviderRegistry tracks provider records. Mutations replace one full
// record per write and always target the freshest committed value.
type ProviderRegistry interface {
	// Register creates a provider record with baseline reputation. It
	// fails with ErrAlreadyRegistered while an active record exists; a
	// deactivated record is overwritten as if fresh.
	Register(provider address.Address, availableSpace uint64, pricePerMB abi.TokenAmount) error

	// Update overwrites capacity, price and the activity flag, preserving
	// reputation and completion counters
	Update(provider address.Address, availableSpace uint64, pricePerMB abi.TokenAmount, active bool) error

	// IsRegistered is true only for an existing, active record
	IsRegistered(provider address.Address) (bool, error)

	// GetProvider returns the current record for a provider
	GetProvider(provider address.Address) (ProviderInfo, error)

	// ListProviders returns all provider records
	ListProviders() ([]ProviderInfo, error)

	// DeductSpace decrements available space against the freshest record,
	// failing with an invalid amount error rather than going negative
	DeductSpace(provider address.Address, spaceMB uint64) error

	// DockReputation applies the dispute penalty, docking a tenth of the
	// current score, and returns the new score
	DockReputation(provider address.Address) (uint64, error)

	// RecordCompletion increments the completed contract counter
	RecordCompletion(provider address.Address) error
}
