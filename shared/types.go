package shared

import (
	"context"
	"errors"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
)

// Errors that cross component boundaries. Component specific kinds
// (provider/listing/contract not found) live in their own packages.
var (
	// ErrInvalidAmount means a quantity, price or duration was out of range
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNotAuthorized means the caller may not perform this operation on
	// this record in its current state
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInsufficientFunds means a ledger transfer could not be funded
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ChainReader supplies the current logical time. Epochs are the unit of
// rental duration: a contract purchased for N epochs ends N epochs after
// the head at purchase time.
type ChainReader interface {
	ChainHead(ctx context.Context) (abi.ChainEpoch, error)
}

// Ledger moves value between market participants. Implementations must
// enlist transfers in the host's per operation transaction: a transfer
// that has been applied when the enclosing operation aborts must be
// reverted by the host.
type Ledger interface {
	// Transfer moves amount from one address to another, failing with
	// ErrInsufficientFunds when the source balance does not cover it
	Transfer(ctx context.Context, from address.Address, to address.Address, amount abi.TokenAmount) error

	// GetBalance returns the current balance for an address
	GetBalance(ctx context.Context, addr address.Address) (abi.TokenAmount, error)
}

// MarketNode is the node collaborator the host supplies when constructing
// the market: logical time plus custody ledger access
type MarketNode interface {
	ChainReader
	Ledger
}
