package token

import (
	"cosmossdk.io/math"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/state"
)

// LedgerToken is a Token whose balances live in the pool's own store, one
// ledger namespace per denom. It is the asset used by the local daemon and by
// tests; deployments integrating an external asset system provide their own
// Token implementation instead.
type LedgerToken struct {
	denom  string
	ledger ledger.Ledger
}

var _ Token = LedgerToken{}

// NewLedgerToken builds an in-store token for denom with the given metadata.
func NewLedgerToken(denom, name, symbol string, decimals uint8) LedgerToken {
	return LedgerToken{
		denom:  denom,
		ledger: ledger.New(LedgerPrefix(denom), name, symbol, decimals),
	}
}

// Denom returns the asset identifier.
func (t LedgerToken) Denom() string { return t.denom }

// Ledger exposes the backing ledger for genesis export and inspection.
func (t LedgerToken) Ledger() ledger.Ledger { return t.ledger }

func (t LedgerToken) BalanceOf(ctx state.Context, account ledger.Address) (math.Int, error) {
	return t.ledger.BalanceOf(ctx, account)
}

func (t LedgerToken) Transfer(ctx state.Context, from, to ledger.Address, amount math.Int) error {
	return t.ledger.Transfer(ctx, from, to, amount)
}

func (t LedgerToken) TransferFrom(ctx state.Context, spender, from, to ledger.Address, amount math.Int) error {
	return t.ledger.TransferFrom(ctx, spender, from, to, amount)
}

func (t LedgerToken) Approve(ctx state.Context, owner, spender ledger.Address, amount math.Int) error {
	return t.ledger.Approve(ctx, owner, spender, amount)
}

func (t LedgerToken) Allowance(ctx state.Context, owner, spender ledger.Address) (math.Int, error) {
	return t.ledger.Allowance(ctx, owner, spender)
}

// Mint credits freshly created units to an account. It is a faucet-style
// convenience for local deployments and is not part of the Token surface the
// pool consumes.
func (t LedgerToken) Mint(ctx state.Context, to ledger.Address, amount math.Int) error {
	return t.ledger.Mint(ctx, to, amount)
}
