package pool

import (
	"fmt"

	"cosmossdk.io/math"
)

// Invariant is a consistency check over the pool's committed state. It
// returns a description and whether the invariant is broken.
type Invariant func() (string, bool)

// AllInvariants chains every registered invariant and reports the first
// broken one.
func (p *Pool) AllInvariants() Invariant {
	return func() (string, bool) {
		for _, inv := range []Invariant{
			p.ReservePairingInvariant(),
			p.ShareSupplyInvariant(),
			p.ReserveBackingInvariant(),
		} {
			if msg, broken := inv(); broken {
				return msg, true
			}
		}
		return "all pool invariants hold", false
	}
}

// ReservePairingInvariant checks that reserves are non-negative and empty
// out together: a pool never holds only one side.
func (p *Pool) ReservePairingInvariant() Invariant {
	return func() (string, bool) {
		p.mu.RLock()
		defer p.mu.RUnlock()

		reserve0, reserve1, err := p.reserves(p.newContext())
		if err != nil {
			return fmt.Sprintf("reserve pairing: %v", err), true
		}
		if reserve0.IsNegative() || reserve1.IsNegative() {
			return fmt.Sprintf("reserve pairing: negative reserves %s/%s", reserve0, reserve1), true
		}
		if reserve0.IsZero() != reserve1.IsZero() {
			return fmt.Sprintf("reserve pairing: one-sided reserves %s/%s", reserve0, reserve1), true
		}
		return "reserve pairing holds", false
	}
}

// ShareSupplyInvariant checks that the share supply equals the sum of all
// share balances, and that shares and reserves are empty together.
func (p *Pool) ShareSupplyInvariant() Invariant {
	return func() (string, bool) {
		p.mu.RLock()
		defer p.mu.RUnlock()

		ctx := p.newContext()
		supply, err := p.shares.TotalSupply(ctx)
		if err != nil {
			return fmt.Sprintf("share supply: %v", err), true
		}
		balances, err := p.shares.Balances(ctx)
		if err != nil {
			return fmt.Sprintf("share supply: %v", err), true
		}
		sum := math.ZeroInt()
		for _, b := range balances {
			if b.Amount.IsNegative() {
				return fmt.Sprintf("share supply: negative balance %s for %s", b.Amount, b.Address), true
			}
			sum = sum.Add(b.Amount)
		}
		if !sum.Equal(supply) {
			return fmt.Sprintf("share supply: supply %s but balances sum to %s", supply, sum), true
		}

		reserve0, _, err := p.reserves(ctx)
		if err != nil {
			return fmt.Sprintf("share supply: %v", err), true
		}
		if supply.IsZero() != reserve0.IsZero() {
			return fmt.Sprintf("share supply: supply %s against reserve %s", supply, reserve0), true
		}
		return "share supply holds", false
	}
}

// ReserveBackingInvariant checks that the pool account's token balances
// cover the recorded reserves. Assets without a wired token backend are
// skipped.
func (p *Pool) ReserveBackingInvariant() Invariant {
	return func() (string, bool) {
		p.mu.RLock()
		defer p.mu.RUnlock()

		ctx := p.newContext()
		reserve0, reserve1, err := p.reserves(ctx)
		if err != nil {
			return fmt.Sprintf("reserve backing: %v", err), true
		}
		for _, side := range []struct {
			denom   string
			reserve math.Int
		}{
			{p.asset0, reserve0},
			{p.asset1, reserve1},
		} {
			t, ok := p.tokens[side.denom]
			if !ok {
				continue
			}
			held, err := t.BalanceOf(ctx, PoolAddress)
			if err != nil {
				return fmt.Sprintf("reserve backing: %v", err), true
			}
			if held.LT(side.reserve) {
				return fmt.Sprintf("reserve backing: pool holds %s %s against reserve %s", held, side.denom, side.reserve), true
			}
		}
		return "reserve backing holds", false
	}
}

// CheckInvariants runs every invariant and surfaces the first broken one as
// an error. The verify command and tests call it after mutating operations.
func (p *Pool) CheckInvariants() error {
	if msg, broken := p.AllInvariants()(); broken {
		return ErrInvariantBroken.Wrap(msg)
	}
	return nil
}
