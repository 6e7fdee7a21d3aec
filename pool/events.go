package pool

import (
	"cosmossdk.io/math"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/state"
)

// Event types for the pool module
const (
	EventTypeLiquidityAdded   = "liquidity_added"
	EventTypeLiquidityRemoved = "liquidity_removed"
	EventTypeSwapExecuted     = "swap_executed"
)

// Event attribute keys
const (
	AttributeKeyProvider  = "provider"
	AttributeKeyUser      = "user"
	AttributeKeyTokenIn   = "token_in"
	AttributeKeyTokenOut  = "token_out"
	AttributeKeyAmountIn  = "amount_in"
	AttributeKeyAmountOut = "amount_out"
	AttributeKeyAmount0   = "amount0"
	AttributeKeyAmount1   = "amount1"
	AttributeKeyLiquidity = "liquidity"
)

// NewLiquidityAddedEvent reports a deposit. Attribute order is part of the
// event contract: provider, amount0, amount1, liquidity.
func NewLiquidityAddedEvent(provider ledger.Address, amount0, amount1, liquidity math.Int) state.Event {
	return state.NewEvent(
		EventTypeLiquidityAdded,
		state.NewAttribute(AttributeKeyProvider, provider.String()),
		state.NewAttribute(AttributeKeyAmount0, amount0.String()),
		state.NewAttribute(AttributeKeyAmount1, amount1.String()),
		state.NewAttribute(AttributeKeyLiquidity, liquidity.String()),
	)
}

// NewLiquidityRemovedEvent reports a withdrawal. Attribute order: provider,
// amount0, amount1.
func NewLiquidityRemovedEvent(provider ledger.Address, amount0, amount1 math.Int) state.Event {
	return state.NewEvent(
		EventTypeLiquidityRemoved,
		state.NewAttribute(AttributeKeyProvider, provider.String()),
		state.NewAttribute(AttributeKeyAmount0, amount0.String()),
		state.NewAttribute(AttributeKeyAmount1, amount1.String()),
	)
}

// liquidityAmounts reads the per-asset amounts back off a liquidity event.
// Unparseable attributes count as zero.
func liquidityAmounts(ev state.Event) (amount0, amount1 math.Int) {
	amount0, amount1 = math.ZeroInt(), math.ZeroInt()
	for _, attr := range ev.Attributes {
		v, ok := math.NewIntFromString(attr.Value)
		if !ok {
			continue
		}
		switch attr.Key {
		case AttributeKeyAmount0:
			amount0 = v
		case AttributeKeyAmount1:
			amount1 = v
		}
	}
	return amount0, amount1
}

// NewSwapExecutedEvent reports a swap. Attribute order: user, tokenIn,
// tokenOut, amountIn, amountOut.
func NewSwapExecutedEvent(user ledger.Address, tokenIn, tokenOut string, amountIn, amountOut math.Int) state.Event {
	return state.NewEvent(
		EventTypeSwapExecuted,
		state.NewAttribute(AttributeKeyUser, user.String()),
		state.NewAttribute(AttributeKeyTokenIn, tokenIn),
		state.NewAttribute(AttributeKeyTokenOut, tokenOut),
		state.NewAttribute(AttributeKeyAmountIn, amountIn.String()),
		state.NewAttribute(AttributeKeyAmountOut, amountOut.String()),
	)
}
