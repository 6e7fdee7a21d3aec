// Package token defines the asset capability the pool operates against and a
// reference implementation backed by an in-store ledger namespace.
package token

import (
	"cosmossdk.io/math"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/state"
)

// Token is the external asset surface consumed by the pool: balance lookup,
// direct transfer, allowance-based transfer and approval management. A failed
// transfer is reported as a non-nil error; implementations wrapping systems
// with boolean results map false to an error.
type Token interface {
	// Denom returns the asset identifier. It is unique per deployment and
	// never empty.
	Denom() string

	BalanceOf(ctx state.Context, account ledger.Address) (math.Int, error)
	Transfer(ctx state.Context, from, to ledger.Address, amount math.Int) error
	TransferFrom(ctx state.Context, spender, from, to ledger.Address, amount math.Int) error
	Approve(ctx state.Context, owner, spender ledger.Address, amount math.Int) error
	Allowance(ctx state.Context, owner, spender ledger.Address) (math.Int, error)
}
