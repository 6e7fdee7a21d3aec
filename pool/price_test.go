package pool_test

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/keelworks/pairpool/pool"
	"github.com/keelworks/pairpool/testutil"
)

// TestGetPrice_EqualReserves tests that balanced reserves quote exactly one,
// at fixed-point scale
func TestGetPrice_EqualReserves(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	_, _, _, err := f.Pool.AddLiquidity(ctx, testutil.Alice,
		testutil.DenomA, testutil.DenomB,
		math.NewInt(5_000_000), math.NewInt(5_000_000), math.ZeroInt(), math.ZeroInt(),
		testutil.Alice, f.Deadline())
	require.NoError(t, err)

	price, err := f.Pool.GetPrice(testutil.DenomA, testutil.DenomB)
	require.NoError(t, err)
	require.True(t, price.Equal(pool.PricePrecision))

	price, err = f.Pool.GetPrice(testutil.DenomB, testutil.DenomA)
	require.NoError(t, err)
	require.True(t, price.Equal(pool.PricePrecision))
}

// TestGetPrice_Skewed tests both quote directions on unbalanced reserves
func TestGetPrice_Skewed(t *testing.T) {
	f := testutil.NewFixture(t)
	seedPool(t, f)

	// 4M uusdc per 1M uatom: uatom quotes at 4, uusdc at 0.25.
	price, err := f.Pool.GetPrice(testutil.DenomA, testutil.DenomB)
	require.NoError(t, err)
	require.True(t, price.Equal(pool.PricePrecision.MulRaw(4)))

	price, err = f.Pool.GetPrice(testutil.DenomB, testutil.DenomA)
	require.NoError(t, err)
	require.True(t, price.Equal(pool.PricePrecision.QuoRaw(4)))
}

// TestGetPrice_NoLiquidity tests rejection against an empty pool
func TestGetPrice_NoLiquidity(t *testing.T) {
	f := testutil.NewFixture(t)

	_, err := f.Pool.GetPrice(testutil.DenomA, testutil.DenomB)
	require.ErrorIs(t, err, pool.ErrNoLiquidity)
}

// TestGetPrice_UnknownAsset tests rejection of pairs outside the pool
func TestGetPrice_UnknownAsset(t *testing.T) {
	f := testutil.NewFixture(t)
	seedPool(t, f)

	_, err := f.Pool.GetPrice("uosmo", testutil.DenomB)
	require.ErrorIs(t, err, pool.ErrInvalidTokens)

	_, err = f.Pool.GetPrice(testutil.DenomA, testutil.DenomA)
	require.ErrorIs(t, err, pool.ErrInvalidTokens)
}
