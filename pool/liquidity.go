package pool

import (
	"context"
	"time"

	"cosmossdk.io/math"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/state"
)

// AddLiquidity deposits up to the desired amounts of both assets, settling
// the actual deposit against the current reserve ratio, and mints liquidity
// shares to the recipient. It returns the amounts actually deposited and the
// shares minted.
//
// The caller must have approved the pool account as spender on both assets.
func (p *Pool) AddLiquidity(goCtx context.Context, caller ledger.Address, assetA, assetB string, amountADesired, amountBDesired, amountAMin, amountBMin math.Int, to ledger.Address, deadline time.Time) (amountA, amountB, liquidity math.Int, err error) {
	err = p.run(goCtx, "add_liquidity", func(ctx state.Context) error {
		var ferr error
		amountA, amountB, liquidity, ferr = p.addLiquidity(ctx, caller, assetA, assetB,
			amountADesired, amountBDesired, amountAMin, amountBMin, to, deadline)
		return ferr
	})
	if err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	return amountA, amountB, liquidity, nil
}

func (p *Pool) addLiquidity(ctx state.Context, caller ledger.Address, assetA, assetB string, amountADesired, amountBDesired, amountAMin, amountBMin math.Int, to ledger.Address, deadline time.Time) (math.Int, math.Int, math.Int, error) {
	fail := func(err error) (math.Int, math.Int, math.Int, error) {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	// 1. Guards: deadline, pair match, input sanity
	if err := ensureNotExpired(ctx, deadline); err != nil {
		return fail(err)
	}
	aIsZero, err := p.orient(assetA, assetB)
	if err != nil {
		return fail(err)
	}
	for _, v := range []math.Int{amountADesired, amountBDesired, amountAMin, amountBMin} {
		if !validAmount(v) {
			return fail(ErrInvalidAmount.Wrap("amounts must be non-negative"))
		}
	}

	// 2. Read reserves in the caller's (A, B) orientation
	reserve0, reserve1, err := p.reserves(ctx)
	if err != nil {
		return fail(err)
	}
	reserveA, reserveB := reserve0, reserve1
	if !aIsZero {
		reserveA, reserveB = reserve1, reserve0
	}

	// 3. Settle the deposit against the current ratio. The first deposit
	// takes the desired amounts as given; later deposits scale one side
	// down to preserve the ratio, flooring.
	var amountA, amountB math.Int
	if reserveA.IsZero() && reserveB.IsZero() {
		amountA, amountB = amountADesired, amountBDesired
	} else {
		amountBOptimal, err := SafeMulDiv(amountADesired, reserveB, reserveA)
		if err != nil {
			return fail(err)
		}
		if amountBOptimal.LTE(amountBDesired) {
			if amountBOptimal.LT(amountBMin) {
				return fail(ErrInsufficientBAmount.Wrapf("settled %s below minimum %s", amountBOptimal, amountBMin))
			}
			amountA, amountB = amountADesired, amountBOptimal
		} else {
			amountAOptimal, err := SafeMulDiv(amountBDesired, reserveA, reserveB)
			if err != nil {
				return fail(err)
			}
			// amountAOptimal <= amountADesired here, since scaling desired A
			// up already overshot desired B
			if amountAOptimal.LT(amountAMin) {
				return fail(ErrInsufficientAAmount.Wrapf("settled %s below minimum %s", amountAOptimal, amountAMin))
			}
			amountA, amountB = amountAOptimal, amountBDesired
		}
	}

	// 4. Shares to mint: geometric mean for the first deposit, pro-rata
	// minimum afterwards
	amount0, amount1 := amountA, amountB
	if !aIsZero {
		amount0, amount1 = amountB, amountA
	}
	supply, err := p.shares.TotalSupply(ctx)
	if err != nil {
		return fail(err)
	}
	var liquidity math.Int
	switch {
	case supply.IsZero() && reserve0.IsZero():
		product, err := SafeMul(amount0, amount1)
		if err != nil {
			return fail(err)
		}
		liquidity, err = IntSqrt(product)
		if err != nil {
			return fail(err)
		}
	case supply.IsZero() || reserve0.IsZero():
		// Reserves and share supply empty out together; a mismatch means
		// the store was tampered with.
		return fail(ErrInvalidState.Wrapf("share supply %s against reserves %s/%s", supply, reserve0, reserve1))
	default:
		liquidity0, err := SafeMulDiv(amount0, supply, reserve0)
		if err != nil {
			return fail(err)
		}
		liquidity1, err := SafeMulDiv(amount1, supply, reserve1)
		if err != nil {
			return fail(err)
		}
		liquidity = math.MinInt(liquidity0, liquidity1)
	}
	if liquidity.IsZero() {
		return fail(ErrInsufficientLiquidityMinted.Wrap("deposit too small"))
	}

	// 5. Effects: mint shares, grow reserves, record the event
	if err := p.shares.Mint(ctx, to, liquidity); err != nil {
		return fail(err)
	}
	newReserve0, err := SafeAdd(reserve0, amount0)
	if err != nil {
		return fail(err)
	}
	newReserve1, err := SafeAdd(reserve1, amount1)
	if err != nil {
		return fail(err)
	}
	if err := p.setReserves(ctx, newReserve0, newReserve1); err != nil {
		return fail(err)
	}
	ctx.EventManager().EmitEvent(NewLiquidityAddedEvent(caller, amount0, amount1, liquidity))

	// 6. Pull the settled amounts from the caller
	if err := p.pull(ctx, assetA, caller, amountA); err != nil {
		return fail(err)
	}
	if err := p.pull(ctx, assetB, caller, amountB); err != nil {
		return fail(err)
	}

	return amountA, amountB, liquidity, nil
}

// RemoveLiquidity burns the caller's liquidity shares and pays out the
// proportional part of both reserves to the recipient, flooring.
func (p *Pool) RemoveLiquidity(goCtx context.Context, caller ledger.Address, assetA, assetB string, liquidity, amountAMin, amountBMin math.Int, to ledger.Address, deadline time.Time) (amountA, amountB math.Int, err error) {
	err = p.run(goCtx, "remove_liquidity", func(ctx state.Context) error {
		var ferr error
		amountA, amountB, ferr = p.removeLiquidity(ctx, caller, assetA, assetB,
			liquidity, amountAMin, amountBMin, to, deadline)
		return ferr
	})
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return amountA, amountB, nil
}

func (p *Pool) removeLiquidity(ctx state.Context, caller ledger.Address, assetA, assetB string, liquidity, amountAMin, amountBMin math.Int, to ledger.Address, deadline time.Time) (math.Int, math.Int, error) {
	fail := func(err error) (math.Int, math.Int, error) {
		return math.Int{}, math.Int{}, err
	}

	// 1. Guards
	if err := ensureNotExpired(ctx, deadline); err != nil {
		return fail(err)
	}
	aIsZero, err := p.orient(assetA, assetB)
	if err != nil {
		return fail(err)
	}
	for _, v := range []math.Int{liquidity, amountAMin, amountBMin} {
		if !validAmount(v) {
			return fail(ErrInvalidAmount.Wrap("amounts must be non-negative"))
		}
	}
	if liquidity.IsZero() {
		return fail(ErrInvalidAmount.Wrap("liquidity must be positive"))
	}

	// 2. Holdings check up front; it also guarantees a positive supply for
	// the pro-rata division below
	balance, err := p.shares.BalanceOf(ctx, caller)
	if err != nil {
		return fail(err)
	}
	if balance.LT(liquidity) {
		return fail(ledger.ErrInsufficientBalance.Wrapf("remove %s exceeds share balance %s of %s", liquidity, balance, caller))
	}
	supply, err := p.shares.TotalSupply(ctx)
	if err != nil {
		return fail(err)
	}

	// 3. Pro-rata amounts, flooring
	reserve0, reserve1, err := p.reserves(ctx)
	if err != nil {
		return fail(err)
	}
	amount0, err := SafeMulDiv(liquidity, reserve0, supply)
	if err != nil {
		return fail(err)
	}
	amount1, err := SafeMulDiv(liquidity, reserve1, supply)
	if err != nil {
		return fail(err)
	}
	amountA, amountB := amount0, amount1
	if !aIsZero {
		amountA, amountB = amount1, amount0
	}

	// 4. Minimum bounds
	if amountA.LT(amountAMin) {
		return fail(ErrInsufficientAOutput.Wrapf("withdraw %s below minimum %s", amountA, amountAMin))
	}
	if amountB.LT(amountBMin) {
		return fail(ErrInsufficientBOutput.Wrapf("withdraw %s below minimum %s", amountB, amountBMin))
	}

	// 5. Effects: burn shares, shrink reserves, record the event
	if err := p.shares.Burn(ctx, caller, liquidity); err != nil {
		return fail(err)
	}
	newReserve0, err := SafeSub(reserve0, amount0)
	if err != nil {
		return fail(err)
	}
	newReserve1, err := SafeSub(reserve1, amount1)
	if err != nil {
		return fail(err)
	}
	if err := p.setReserves(ctx, newReserve0, newReserve1); err != nil {
		return fail(err)
	}
	ctx.EventManager().EmitEvent(NewLiquidityRemovedEvent(caller, amount0, amount1))

	// 6. Pay the recipient
	if err := p.push(ctx, assetA, to, amountA); err != nil {
		return fail(err)
	}
	if err := p.push(ctx, assetB, to, amountB); err != nil {
		return fail(err)
	}

	return amountA, amountB, nil
}
