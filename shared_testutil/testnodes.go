package shared_testutil

import (
	"context"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"golang.org/x/xerrors"

	"github.com/depotnetwork/go-storage-market/shared"
)

// TransferRecord captures one ledger movement made through the fake node
type TransferRecord struct {
	From   address.Address
	To     address.Address
	Amount abi.TokenAmount
}

// FakeMarketNode implements shared.MarketNode with an in-memory ledger and
// a settable chain height, recording every transfer it applies
type FakeMarketNode struct {
	Height    abi.ChainEpoch
	Balances  map[address.Address]abi.TokenAmount
	Transfers []TransferRecord
}

var _ shared.MarketNode = (*FakeMarketNode)(nil)

// NewFakeMarketNode constructs a FakeMarketNode with no balances at height 0
func NewFakeMarketNode() *FakeMarketNode {
	return &FakeMarketNode{
		Balances: map[address.Address]abi.TokenAmount{},
	}
}

// AddFunds credits an address outside of any transfer
func (n *FakeMarketNode) AddFunds(addr address.Address, amount abi.TokenAmount) {
	n.Balances[addr] = big.Add(n.balance(addr), amount)
}

// ChainHead returns the configured height
func (n *FakeMarketNode) ChainHead(ctx context.Context) (abi.ChainEpoch, error) {
	return n.Height, nil
}

// GetBalance returns the balance for an address, zero if never funded
func (n *FakeMarketNode) GetBalance(ctx context.Context, addr address.Address) (abi.TokenAmount, error) {
	return n.balance(addr), nil
}

// Transfer moves value between balances, failing without effect when the
// source cannot cover the amount
func (n *FakeMarketNode) Transfer(ctx context.Context, from address.Address, to address.Address, amount abi.TokenAmount) error {
	fromBalance := n.balance(from)
	if fromBalance.LessThan(amount) {
		return xerrors.Errorf("transferring %s from %s: %w", amount, from, shared.ErrInsufficientFunds)
	}
	n.Balances[from] = big.Sub(fromBalance, amount)
	n.Balances[to] = big.Add(n.balance(to), amount)
	n.Transfers = append(n.Transfers, TransferRecord{From: from, To: to, Amount: amount})
	return nil
}

func (n *FakeMarketNode) balance(addr address.Address) abi.TokenAmount {
	if b, ok := n.Balances[addr]; ok {
		return b
	}
	return big.Zero()
}
