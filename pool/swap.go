package pool

import (
	"context"
	"time"

	"cosmossdk.io/math"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/state"
)

// GetAmountOut quotes the output for a swap of amountIn against the given
// reserves under the constant-product rule with no fee:
//
//	amountOut = floor(amountIn * reserveOut / (reserveIn + amountIn))
func GetAmountOut(amountIn, reserveIn, reserveOut math.Int) (math.Int, error) {
	if !validAmount(amountIn) {
		return math.Int{}, ErrInvalidAmount.Wrap("input must be non-negative")
	}
	if amountIn.IsZero() {
		return math.Int{}, ErrInsufficientInputAmount.Wrap("input must be positive")
	}
	if !validAmount(reserveIn) || !validAmount(reserveOut) {
		return math.Int{}, ErrInvalidAmount.Wrap("reserves must be non-negative")
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return math.Int{}, ErrNoLiquidity.Wrapf("reserves %s/%s", reserveIn, reserveOut)
	}
	denominator, err := SafeAdd(reserveIn, amountIn)
	if err != nil {
		return math.Int{}, err
	}
	return SafeMulDiv(amountIn, reserveOut, denominator)
}

// SwapExactTokensForTokens swaps an exact input amount of path[0] for as much
// of path[1] as the reserves yield, paying the output to the recipient. It
// fails if the output falls short of amountOutMin.
//
// The caller must have approved the pool account as spender on the input
// asset.
func (p *Pool) SwapExactTokensForTokens(goCtx context.Context, caller ledger.Address, amountIn, amountOutMin math.Int, path []string, to ledger.Address, deadline time.Time) (math.Int, error) {
	start := time.Now()
	var amountOut math.Int
	err := p.run(goCtx, "swap", func(ctx state.Context) error {
		var ferr error
		amountOut, ferr = p.swapExactIn(ctx, caller, amountIn, amountOutMin, path, to, deadline)
		return ferr
	})
	if p.metrics != nil {
		tokenIn, tokenOut := "invalid", "invalid"
		if len(path) == 2 {
			tokenIn, tokenOut = path[0], path[1]
		}
		status := "success"
		if err != nil {
			status = "failed"
		}
		p.metrics.SwapsTotal.WithLabelValues(tokenIn, tokenOut, status).Inc()
		p.metrics.SwapLatency.Observe(time.Since(start).Seconds())
		if err == nil {
			p.metrics.SwapVolume.WithLabelValues(tokenIn).Add(gaugeValue(amountIn))
		}
	}
	if err != nil {
		return math.Int{}, err
	}
	return amountOut, nil
}

func (p *Pool) swapExactIn(ctx state.Context, caller ledger.Address, amountIn, amountOutMin math.Int, path []string, to ledger.Address, deadline time.Time) (math.Int, error) {
	fail := func(err error) (math.Int, error) {
		return math.Int{}, err
	}

	// 1. Guards: deadline, path shape, pair match, input sanity
	if err := ensureNotExpired(ctx, deadline); err != nil {
		return fail(err)
	}
	if len(path) != 2 {
		return fail(ErrInvalidPath.Wrapf("path length %d, want 2", len(path)))
	}
	tokenIn, tokenOut := path[0], path[1]
	inIsZero, err := p.orient(tokenIn, tokenOut)
	if err != nil {
		if ErrInvalidTokens.Is(err) {
			return fail(ErrInvalidPair.Wrapf("%s/%s does not match pair %s/%s", tokenIn, tokenOut, p.asset0, p.asset1))
		}
		return fail(err)
	}
	if !validAmount(amountOutMin) {
		return fail(ErrInvalidAmount.Wrap("minimum output must be non-negative"))
	}

	// 2. Quote against reserves oriented to the trade direction
	reserve0, reserve1, err := p.reserves(ctx)
	if err != nil {
		return fail(err)
	}
	reserveIn, reserveOut := reserve0, reserve1
	if !inIsZero {
		reserveIn, reserveOut = reserve1, reserve0
	}
	amountOut, err := GetAmountOut(amountIn, reserveIn, reserveOut)
	if err != nil {
		return fail(err)
	}
	// A quote flooring to zero is still a valid trade when the caller set no
	// minimum: the input grows one reserve, the other stays put.
	if amountOut.LT(amountOutMin) {
		return fail(ErrInsufficientOutputAmount.Wrapf("output %s below minimum %s", amountOut, amountOutMin))
	}

	// 3. New reserves; the product must not shrink
	oldK, err := SafeMul(reserveIn, reserveOut)
	if err != nil {
		return fail(err)
	}
	newReserveIn, err := SafeAdd(reserveIn, amountIn)
	if err != nil {
		return fail(err)
	}
	newReserveOut, err := SafeSub(reserveOut, amountOut)
	if err != nil {
		return fail(err)
	}
	newK, err := SafeMul(newReserveIn, newReserveOut)
	if err != nil {
		return fail(err)
	}
	if newK.LT(oldK) {
		return fail(ErrInvariantBroken.Wrapf("product %s would drop below %s", newK, oldK))
	}

	// 4. Effects: move reserves, record the event
	newReserve0, newReserve1 := newReserveIn, newReserveOut
	if !inIsZero {
		newReserve0, newReserve1 = newReserveOut, newReserveIn
	}
	if err := p.setReserves(ctx, newReserve0, newReserve1); err != nil {
		return fail(err)
	}
	ctx.EventManager().EmitEvent(NewSwapExecutedEvent(caller, tokenIn, tokenOut, amountIn, amountOut))

	// 5. Settle: pull the input from the caller, pay the output to the
	// recipient
	if err := p.pull(ctx, tokenIn, caller, amountIn); err != nil {
		return fail(err)
	}
	if err := p.push(ctx, tokenOut, to, amountOut); err != nil {
		return fail(err)
	}

	return amountOut, nil
}
