package pool

import (
	"math/big"

	"cosmossdk.io/math"
)

// Overflow-safe arithmetic for pool state transitions. All amounts are bound
// to 256 bits; every step that could exceed that range is checked here rather
// than left to panic inside math.Int.

// SafeAdd adds two math.Int values with overflow checking
func SafeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())
	if result.BitLen() > math.MaxBitLen {
		return math.Int{}, ErrOverflow.Wrapf("addition overflow: %s + %s", a, b)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeSub subtracts b from a with underflow checking
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, ErrOverflow.Wrapf("subtraction underflow: %s - %s", a, b)
	}
	return a.Sub(b), nil
}

// SafeMul multiplies two math.Int values with overflow checking
func SafeMul(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if result.BitLen() > math.MaxBitLen {
		return math.Int{}, ErrOverflow.Wrapf("multiplication overflow: %s * %s", a, b)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeQuo divides a by b, flooring, with division-by-zero checking
func SafeQuo(a, b math.Int) (math.Int, error) {
	if b.IsZero() {
		return math.Int{}, ErrOverflow.Wrap("division by zero")
	}
	return math.NewIntFromBigInt(new(big.Int).Quo(a.BigInt(), b.BigInt())), nil
}

// SafeMulDiv computes floor(a * b / c). The intermediate product is subject
// to the same 256-bit bound as every other amount.
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, ErrOverflow.Wrap("division by zero")
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if product.BitLen() > math.MaxBitLen {
		return math.Int{}, ErrOverflow.Wrapf("mul-div overflow: %s * %s / %s", a, b, c)
	}
	return math.NewIntFromBigInt(product.Quo(product, c.BigInt())), nil
}

// IntSqrt returns the greatest integer s with s*s <= y, via the Babylonian
// method.
func IntSqrt(y math.Int) (math.Int, error) {
	if y.IsNil() || y.IsNegative() {
		return math.Int{}, ErrInvalidAmount.Wrapf("square root of %s", y)
	}
	if y.IsZero() {
		return y, nil
	}
	if y.LTE(math.NewInt(3)) {
		return math.OneInt(), nil
	}

	yb := y.BigInt()
	two := big.NewInt(2)
	z := new(big.Int).Set(yb)
	x := new(big.Int).Quo(yb, two)
	x.Add(x, big.NewInt(1))
	for x.Cmp(z) < 0 {
		z.Set(x)
		next := new(big.Int).Quo(yb, x)
		next.Add(next, x)
		x = next.Quo(next, two)
	}
	return math.NewIntFromBigInt(z), nil
}
