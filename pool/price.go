package pool

import (
	"math/big"

	"cosmossdk.io/math"
)

// PricePrecision is the fixed-point scale of GetPrice results: a price of
// exactly 1 comes back as 10^18.
var PricePrecision = math.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// GetPrice quotes the marginal price of one unit of assetA in terms of
// assetB, scaled by PricePrecision and floored. The supplied pair must match
// the pool's pair in either order.
func (p *Pool) GetPrice(assetA, assetB string) (math.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	aIsZero, err := p.orient(assetA, assetB)
	if err != nil {
		return math.Int{}, err
	}

	ctx := p.newContext()
	reserve0, reserve1, err := p.reserves(ctx)
	if err != nil {
		return math.Int{}, err
	}
	numerator, denominator := reserve1, reserve0
	if !aIsZero {
		numerator, denominator = reserve0, reserve1
	}
	if numerator.IsZero() || denominator.IsZero() {
		return math.Int{}, ErrNoLiquidity.Wrapf("reserves %s/%s", reserve0, reserve1)
	}
	return SafeMulDiv(numerator, PricePrecision, denominator)
}
