package pool_test

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/keelworks/pairpool/pool"
	"github.com/keelworks/pairpool/state"
	"github.com/keelworks/pairpool/testutil"
)

// TestNewPool_Valid tests pool construction and the pair accessors
func TestNewPool_Valid(t *testing.T) {
	f := testutil.NewFixture(t)

	require.Equal(t, testutil.DenomA, f.Pool.Asset0())
	require.Equal(t, testutil.DenomB, f.Pool.Asset1())

	r0, r1, err := f.Pool.Reserves(context.Background())
	require.NoError(t, err)
	require.True(t, r0.IsZero())
	require.True(t, r1.IsZero())

	supply, err := f.Pool.ShareTotalSupply(context.Background())
	require.NoError(t, err)
	require.True(t, supply.IsZero())
}

// TestNewPool_ZeroAddress tests rejection of missing asset identifiers
func TestNewPool_ZeroAddress(t *testing.T) {
	store := state.StoreFromDB(dbm.NewMemDB())

	_, err := pool.New(store, "", "uusdc")
	require.ErrorIs(t, err, pool.ErrZeroAddress)

	_, err = pool.New(store, "uatom", "")
	require.ErrorIs(t, err, pool.ErrZeroAddress)
}

// TestNewPool_IdenticalAddresses tests rejection of a same-asset pair
func TestNewPool_IdenticalAddresses(t *testing.T) {
	store := state.StoreFromDB(dbm.NewMemDB())

	_, err := pool.New(store, "uatom", "uatom")
	require.ErrorIs(t, err, pool.ErrIdenticalAddresses)
}

// TestNewPool_InvalidDenom tests rejection of denoms that collide with the
// store key separator
func TestNewPool_InvalidDenom(t *testing.T) {
	store := state.StoreFromDB(dbm.NewMemDB())

	_, err := pool.New(store, "ua/tom", "uusdc")
	require.ErrorIs(t, err, pool.ErrInvalidTokens)
}

// TestNewPool_Reopen tests that the stored pair pins the pool identity
func TestNewPool_Reopen(t *testing.T) {
	db := dbm.NewMemDB()
	store := state.StoreFromDB(db)

	_, err := pool.New(store, "uatom", "uusdc")
	require.NoError(t, err)

	// Same pair reopens cleanly.
	_, err = pool.New(store, "uatom", "uusdc")
	require.NoError(t, err)

	// A different pair against the same store is refused.
	_, err = pool.New(store, "uatom", "uosmo")
	require.ErrorIs(t, err, pool.ErrInvalidState)
}

// TestTokenLookup tests wired and unknown token resolution
func TestTokenLookup(t *testing.T) {
	f := testutil.NewFixture(t)

	tok, err := f.Pool.Token(testutil.DenomA)
	require.NoError(t, err)
	require.Equal(t, testutil.DenomA, tok.Denom())

	_, err = f.Pool.Token("uosmo")
	require.ErrorIs(t, err, pool.ErrUnknownToken)
}

// TestShareOperations tests transfer and allowance handling on minted shares
func TestShareOperations(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	_, _, minted, err := f.Pool.AddLiquidity(ctx, testutil.Alice, testutil.DenomA, testutil.DenomB,
		math.NewInt(1_000_000), math.NewInt(4_000_000), math.ZeroInt(), math.ZeroInt(),
		testutil.Alice, f.Deadline())
	require.NoError(t, err)
	require.True(t, minted.IsPositive())

	// Plain transfer moves shares between holders.
	third := minted.QuoRaw(3)
	require.NoError(t, f.Pool.ShareTransfer(ctx, testutil.Alice, testutil.Bob, third))

	bobShares, err := f.Pool.ShareBalanceOf(ctx, testutil.Bob)
	require.NoError(t, err)
	require.True(t, bobShares.Equal(third))

	// Delegated transfer needs an approval first.
	err = f.Pool.ShareTransferFrom(ctx, testutil.Carol, testutil.Alice, testutil.Carol, third)
	require.Error(t, err)

	require.NoError(t, f.Pool.ShareApprove(ctx, testutil.Alice, testutil.Carol, third))
	allowance, err := f.Pool.ShareAllowance(ctx, testutil.Alice, testutil.Carol)
	require.NoError(t, err)
	require.True(t, allowance.Equal(third))

	require.NoError(t, f.Pool.ShareTransferFrom(ctx, testutil.Carol, testutil.Alice, testutil.Carol, third))

	allowance, err = f.Pool.ShareAllowance(ctx, testutil.Alice, testutil.Carol)
	require.NoError(t, err)
	require.True(t, allowance.IsZero())

	supply, err := f.Pool.ShareTotalSupply(ctx)
	require.NoError(t, err)
	require.True(t, supply.Equal(minted))
}
