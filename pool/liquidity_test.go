package pool_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/pool"
	"github.com/keelworks/pairpool/state"
	"github.com/keelworks/pairpool/testutil"
)

// seedPool deposits the canonical (1M uatom, 4M uusdc) first position as
// Alice and returns the minted shares (2M).
func seedPool(t testutil.TB, f *testutil.Fixture) math.Int {
	t.Helper()
	_, _, minted, err := f.Pool.AddLiquidity(context.Background(), testutil.Alice,
		testutil.DenomA, testutil.DenomB,
		math.NewInt(1_000_000), math.NewInt(4_000_000), math.ZeroInt(), math.ZeroInt(),
		testutil.Alice, f.Deadline())
	require.NoError(t, err)
	return minted
}

// TestAddLiquidity_FirstDeposit tests the geometric-mean share mint on an
// empty pool
func TestAddLiquidity_FirstDeposit(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	amountA, amountB, liquidity, err := f.Pool.AddLiquidity(ctx, testutil.Alice,
		testutil.DenomA, testutil.DenomB,
		math.NewInt(1_000_000), math.NewInt(4_000_000), math.ZeroInt(), math.ZeroInt(),
		testutil.Alice, f.Deadline())
	require.NoError(t, err)

	// First deposit takes the desired amounts and mints sqrt(1M * 4M) = 2M.
	require.True(t, amountA.Equal(math.NewInt(1_000_000)))
	require.True(t, amountB.Equal(math.NewInt(4_000_000)))
	require.True(t, liquidity.Equal(math.NewInt(2_000_000)))

	r0, r1, err := f.Pool.Reserves(ctx)
	require.NoError(t, err)
	require.True(t, r0.Equal(math.NewInt(1_000_000)))
	require.True(t, r1.Equal(math.NewInt(4_000_000)))

	shares, err := f.Pool.ShareBalanceOf(ctx, testutil.Alice)
	require.NoError(t, err)
	require.True(t, shares.Equal(liquidity))

	// The deposit moved from Alice to the pool account.
	sctx := state.NewContext(state.StoreFromDB(f.Store), f.Clock.Now(), log.NewNopLogger())
	held, err := f.TokenA.BalanceOf(sctx, pool.PoolAddress)
	require.NoError(t, err)
	require.True(t, held.Equal(math.NewInt(1_000_000)))
	aliceA, err := f.TokenA.BalanceOf(sctx, testutil.Alice)
	require.NoError(t, err)
	require.True(t, aliceA.Equal(testutil.FundedBalance.Sub(math.NewInt(1_000_000))))

	require.NoError(t, f.Pool.CheckInvariants())
}

// TestAddLiquidity_SettlesAgainstRatio tests both settlement branches on a
// seeded pool
func TestAddLiquidity_SettlesAgainstRatio(t *testing.T) {
	cases := []struct {
		name     string
		desiredA int64
		desiredB int64
		wantA    int64
		wantB    int64
		wantLiq  int64
	}{
		{"scales B down", 500_000, 3_000_000, 500_000, 2_000_000, 1_000_000},
		{"scales A down", 500_000, 1_000_000, 250_000, 1_000_000, 500_000},
		{"exact ratio", 250_000, 1_000_000, 250_000, 1_000_000, 500_000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := testutil.NewFixture(t)
			seedPool(t, f)

			amountA, amountB, liquidity, err := f.Pool.AddLiquidity(context.Background(), testutil.Bob,
				testutil.DenomA, testutil.DenomB,
				math.NewInt(tc.desiredA), math.NewInt(tc.desiredB), math.ZeroInt(), math.ZeroInt(),
				testutil.Bob, f.Deadline())
			require.NoError(t, err)
			require.True(t, amountA.Equal(math.NewInt(tc.wantA)), "amountA = %s", amountA)
			require.True(t, amountB.Equal(math.NewInt(tc.wantB)), "amountB = %s", amountB)
			require.True(t, liquidity.Equal(math.NewInt(tc.wantLiq)), "liquidity = %s", liquidity)

			require.NoError(t, f.Pool.CheckInvariants())
		})
	}
}

// TestAddLiquidity_ReversedAssetOrder tests that caller orientation does not
// change the stored pair orientation
func TestAddLiquidity_ReversedAssetOrder(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	// Deposit quoted as (uusdc, uatom).
	amountA, amountB, liquidity, err := f.Pool.AddLiquidity(ctx, testutil.Alice,
		testutil.DenomB, testutil.DenomA,
		math.NewInt(4_000_000), math.NewInt(1_000_000), math.ZeroInt(), math.ZeroInt(),
		testutil.Alice, f.Deadline())
	require.NoError(t, err)
	require.True(t, amountA.Equal(math.NewInt(4_000_000)))
	require.True(t, amountB.Equal(math.NewInt(1_000_000)))
	require.True(t, liquidity.Equal(math.NewInt(2_000_000)))

	// Reserves are stored in pool order regardless.
	r0, r1, err := f.Pool.Reserves(ctx)
	require.NoError(t, err)
	require.True(t, r0.Equal(math.NewInt(1_000_000)))
	require.True(t, r1.Equal(math.NewInt(4_000_000)))
}

// TestAddLiquidity_MinimumBounds tests the per-side minimum checks
func TestAddLiquidity_MinimumBounds(t *testing.T) {
	t.Run("B below minimum", func(t *testing.T) {
		f := testutil.NewFixture(t)
		seedPool(t, f)

		// Settled B would be 2M; requiring more must fail.
		_, _, _, err := f.Pool.AddLiquidity(context.Background(), testutil.Bob,
			testutil.DenomA, testutil.DenomB,
			math.NewInt(500_000), math.NewInt(3_000_000), math.ZeroInt(), math.NewInt(2_000_001),
			testutil.Bob, f.Deadline())
		require.ErrorIs(t, err, pool.ErrInsufficientBAmount)
	})

	t.Run("A below minimum", func(t *testing.T) {
		f := testutil.NewFixture(t)
		seedPool(t, f)

		// Settled A would be 250k; requiring more must fail.
		_, _, _, err := f.Pool.AddLiquidity(context.Background(), testutil.Bob,
			testutil.DenomA, testutil.DenomB,
			math.NewInt(500_000), math.NewInt(1_000_000), math.NewInt(250_001), math.ZeroInt(),
			testutil.Bob, f.Deadline())
		require.ErrorIs(t, err, pool.ErrInsufficientAAmount)
	})
}

// TestAddLiquidity_InsufficientLiquidityMinted tests rejection of deposits
// that floor to zero shares
func TestAddLiquidity_InsufficientLiquidityMinted(t *testing.T) {
	f := testutil.NewFixture(t)
	seedPool(t, f)

	_, _, _, err := f.Pool.AddLiquidity(context.Background(), testutil.Bob,
		testutil.DenomA, testutil.DenomB,
		math.NewInt(1), math.NewInt(1), math.ZeroInt(), math.ZeroInt(),
		testutil.Bob, f.Deadline())
	require.ErrorIs(t, err, pool.ErrInsufficientLiquidityMinted)
}

// TestAddLiquidity_WrongPair tests rejection of assets outside the pair
func TestAddLiquidity_WrongPair(t *testing.T) {
	f := testutil.NewFixture(t)

	_, _, _, err := f.Pool.AddLiquidity(context.Background(), testutil.Alice,
		testutil.DenomA, "uosmo",
		math.NewInt(1), math.NewInt(1), math.ZeroInt(), math.ZeroInt(),
		testutil.Alice, f.Deadline())
	require.ErrorIs(t, err, pool.ErrInvalidTokens)
}

// TestAddLiquidity_Expired tests that a passed deadline leaves every piece
// of state untouched
func TestAddLiquidity_Expired(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	deadline := f.Clock.Now().Add(time.Minute)
	f.Clock.Advance(2 * time.Minute)

	_, _, _, err := f.Pool.AddLiquidity(ctx, testutil.Alice,
		testutil.DenomA, testutil.DenomB,
		math.NewInt(1_000_000), math.NewInt(4_000_000), math.ZeroInt(), math.ZeroInt(),
		testutil.Alice, deadline)
	require.ErrorIs(t, err, pool.ErrExpired)

	r0, r1, err := f.Pool.Reserves(ctx)
	require.NoError(t, err)
	require.True(t, r0.IsZero())
	require.True(t, r1.IsZero())

	supply, err := f.Pool.ShareTotalSupply(ctx)
	require.NoError(t, err)
	require.True(t, supply.IsZero())

	sctx := state.NewContext(state.StoreFromDB(f.Store), f.Clock.Now(), log.NewNopLogger())
	aliceA, err := f.TokenA.BalanceOf(sctx, testutil.Alice)
	require.NoError(t, err)
	require.True(t, aliceA.Equal(testutil.FundedBalance))
}

// TestAddLiquidity_DeadlineBoundary tests that a deadline equal to the
// operation time is still accepted
func TestAddLiquidity_DeadlineBoundary(t *testing.T) {
	f := testutil.NewFixture(t)

	_, _, _, err := f.Pool.AddLiquidity(context.Background(), testutil.Alice,
		testutil.DenomA, testutil.DenomB,
		math.NewInt(1_000), math.NewInt(1_000), math.ZeroInt(), math.ZeroInt(),
		testutil.Alice, f.Clock.Now())
	require.NoError(t, err)
}

// TestAddLiquidity_TransferFailureRollsBack tests that a failed deposit pull
// discards the already-applied mint and reserve writes
func TestAddLiquidity_TransferFailureRollsBack(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	// Dave holds funds but never approved the pool as spender.
	dave := ledger.Address("dave")
	sctx := state.NewContext(state.StoreFromDB(f.Store), f.Clock.Now(), log.NewNopLogger())
	require.NoError(t, f.TokenA.Mint(sctx, dave, math.NewInt(10_000)))
	require.NoError(t, f.TokenB.Mint(sctx, dave, math.NewInt(10_000)))

	_, _, _, err := f.Pool.AddLiquidity(ctx, dave,
		testutil.DenomA, testutil.DenomB,
		math.NewInt(1_000), math.NewInt(1_000), math.ZeroInt(), math.ZeroInt(),
		dave, f.Deadline())
	require.ErrorIs(t, err, pool.ErrTransferFailed)

	// Nothing stuck: reserves, shares and balances are all back where they
	// started.
	r0, r1, err := f.Pool.Reserves(ctx)
	require.NoError(t, err)
	require.True(t, r0.IsZero())
	require.True(t, r1.IsZero())

	supply, err := f.Pool.ShareTotalSupply(ctx)
	require.NoError(t, err)
	require.True(t, supply.IsZero())

	daveA, err := f.TokenA.BalanceOf(sctx, dave)
	require.NoError(t, err)
	require.True(t, daveA.Equal(math.NewInt(10_000)))

	require.NoError(t, f.Pool.CheckInvariants())
}

// TestAddLiquidity_Event tests the published event and its attribute order
func TestAddLiquidity_Event(t *testing.T) {
	sink := &testutil.RecordingSink{}
	f := testutil.NewFixture(t, pool.WithEventSink(sink))

	seedPool(t, f)

	events := sink.Events()
	require.Len(t, events, 1)
	require.Equal(t, pool.EventTypeLiquidityAdded, events[0].Type)
	require.Equal(t, []state.Attribute{
		{Key: pool.AttributeKeyProvider, Value: "alice"},
		{Key: pool.AttributeKeyAmount0, Value: "1000000"},
		{Key: pool.AttributeKeyAmount1, Value: "4000000"},
		{Key: pool.AttributeKeyLiquidity, Value: "2000000"},
	}, events[0].Attributes)
}

// TestRemoveLiquidity_ProRata tests the floor pro-rata payout
func TestRemoveLiquidity_ProRata(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	minted := seedPool(t, f)

	half := minted.QuoRaw(2)
	amountA, amountB, err := f.Pool.RemoveLiquidity(ctx, testutil.Alice,
		testutil.DenomA, testutil.DenomB,
		half, math.ZeroInt(), math.ZeroInt(), testutil.Bob, f.Deadline())
	require.NoError(t, err)
	require.True(t, amountA.Equal(math.NewInt(500_000)))
	require.True(t, amountB.Equal(math.NewInt(2_000_000)))

	r0, r1, err := f.Pool.Reserves(ctx)
	require.NoError(t, err)
	require.True(t, r0.Equal(math.NewInt(500_000)))
	require.True(t, r1.Equal(math.NewInt(2_000_000)))

	// Paid to the designated recipient, not the caller.
	sctx := state.NewContext(state.StoreFromDB(f.Store), f.Clock.Now(), log.NewNopLogger())
	bobA, err := f.TokenA.BalanceOf(sctx, testutil.Bob)
	require.NoError(t, err)
	require.True(t, bobA.Equal(testutil.FundedBalance.Add(math.NewInt(500_000))))

	require.NoError(t, f.Pool.CheckInvariants())
}

// TestRemoveLiquidity_Full tests draining the pool back to empty
func TestRemoveLiquidity_Full(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	minted := seedPool(t, f)

	amountA, amountB, err := f.Pool.RemoveLiquidity(ctx, testutil.Alice,
		testutil.DenomA, testutil.DenomB,
		minted, math.ZeroInt(), math.ZeroInt(), testutil.Alice, f.Deadline())
	require.NoError(t, err)
	require.True(t, amountA.Equal(math.NewInt(1_000_000)))
	require.True(t, amountB.Equal(math.NewInt(4_000_000)))

	r0, r1, err := f.Pool.Reserves(ctx)
	require.NoError(t, err)
	require.True(t, r0.IsZero())
	require.True(t, r1.IsZero())

	supply, err := f.Pool.ShareTotalSupply(ctx)
	require.NoError(t, err)
	require.True(t, supply.IsZero())

	require.NoError(t, f.Pool.CheckInvariants())
}

// TestRemoveLiquidity_MinimumBounds tests the per-side output floors
func TestRemoveLiquidity_MinimumBounds(t *testing.T) {
	t.Run("A below minimum", func(t *testing.T) {
		f := testutil.NewFixture(t)
		minted := seedPool(t, f)

		_, _, err := f.Pool.RemoveLiquidity(context.Background(), testutil.Alice,
			testutil.DenomA, testutil.DenomB,
			minted.QuoRaw(2), math.NewInt(500_001), math.ZeroInt(), testutil.Alice, f.Deadline())
		require.ErrorIs(t, err, pool.ErrInsufficientAOutput)
	})

	t.Run("B below minimum", func(t *testing.T) {
		f := testutil.NewFixture(t)
		minted := seedPool(t, f)

		_, _, err := f.Pool.RemoveLiquidity(context.Background(), testutil.Alice,
			testutil.DenomA, testutil.DenomB,
			minted.QuoRaw(2), math.ZeroInt(), math.NewInt(2_000_001), testutil.Alice, f.Deadline())
		require.ErrorIs(t, err, pool.ErrInsufficientBOutput)
	})
}

// TestRemoveLiquidity_InsufficientShares tests rejection when the caller
// holds fewer shares than requested
func TestRemoveLiquidity_InsufficientShares(t *testing.T) {
	f := testutil.NewFixture(t)
	seedPool(t, f)

	_, _, err := f.Pool.RemoveLiquidity(context.Background(), testutil.Bob,
		testutil.DenomA, testutil.DenomB,
		math.NewInt(1), math.ZeroInt(), math.ZeroInt(), testutil.Bob, f.Deadline())
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)
}

// TestRemoveLiquidity_ZeroLiquidity tests rejection of a zero burn
func TestRemoveLiquidity_ZeroLiquidity(t *testing.T) {
	f := testutil.NewFixture(t)
	seedPool(t, f)

	_, _, err := f.Pool.RemoveLiquidity(context.Background(), testutil.Alice,
		testutil.DenomA, testutil.DenomB,
		math.ZeroInt(), math.ZeroInt(), math.ZeroInt(), testutil.Alice, f.Deadline())
	require.ErrorIs(t, err, pool.ErrInvalidAmount)
}

// TestRemoveLiquidity_Expired tests that a passed deadline leaves state
// untouched
func TestRemoveLiquidity_Expired(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	minted := seedPool(t, f)

	deadline := f.Clock.Now().Add(time.Minute)
	f.Clock.Advance(2 * time.Minute)

	_, _, err := f.Pool.RemoveLiquidity(ctx, testutil.Alice,
		testutil.DenomA, testutil.DenomB,
		minted, math.ZeroInt(), math.ZeroInt(), testutil.Alice, deadline)
	require.ErrorIs(t, err, pool.ErrExpired)

	r0, r1, err := f.Pool.Reserves(ctx)
	require.NoError(t, err)
	require.True(t, r0.Equal(math.NewInt(1_000_000)))
	require.True(t, r1.Equal(math.NewInt(4_000_000)))

	shares, err := f.Pool.ShareBalanceOf(ctx, testutil.Alice)
	require.NoError(t, err)
	require.True(t, shares.Equal(minted))
}

// TestRemoveLiquidity_Event tests the published event and its attribute
// order
func TestRemoveLiquidity_Event(t *testing.T) {
	sink := &testutil.RecordingSink{}
	f := testutil.NewFixture(t, pool.WithEventSink(sink))
	minted := seedPool(t, f)
	sink.Reset()

	_, _, err := f.Pool.RemoveLiquidity(context.Background(), testutil.Alice,
		testutil.DenomA, testutil.DenomB,
		minted, math.ZeroInt(), math.ZeroInt(), testutil.Alice, f.Deadline())
	require.NoError(t, err)

	events := sink.Events()
	require.Len(t, events, 1)
	require.Equal(t, pool.EventTypeLiquidityRemoved, events[0].Type)
	require.Equal(t, []state.Attribute{
		{Key: pool.AttributeKeyProvider, Value: "alice"},
		{Key: pool.AttributeKeyAmount0, Value: "1000000"},
		{Key: pool.AttributeKeyAmount1, Value: "4000000"},
	}, events[0].Attributes)
}

// TestLiquidity_RoundTripProperty tests that a single provider depositing
// and then removing everything gets exactly the settled deposit back
func TestLiquidity_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := testutil.NewFixture(t)
		ctx := context.Background()

		desiredA := math.NewInt(rapid.Int64Range(2, 1_000_000).Draw(t, "desiredA"))
		desiredB := math.NewInt(rapid.Int64Range(2, 1_000_000).Draw(t, "desiredB"))

		amountA, amountB, liquidity, err := f.Pool.AddLiquidity(ctx, testutil.Alice,
			testutil.DenomA, testutil.DenomB,
			desiredA, desiredB, math.ZeroInt(), math.ZeroInt(),
			testutil.Alice, f.Deadline())
		if err != nil {
			t.Fatalf("add: %v", err)
		}

		outA, outB, err := f.Pool.RemoveLiquidity(ctx, testutil.Alice,
			testutil.DenomA, testutil.DenomB,
			liquidity, math.ZeroInt(), math.ZeroInt(), testutil.Alice, f.Deadline())
		if err != nil {
			t.Fatalf("remove: %v", err)
		}

		// Removing the full share supply pays out the full reserves.
		if !outA.Equal(amountA) || !outB.Equal(amountB) {
			t.Fatalf("round trip (%s, %s) != deposit (%s, %s)", outA, outB, amountA, amountB)
		}
		r0, r1, err := f.Pool.Reserves(ctx)
		if err != nil {
			t.Fatalf("reserves: %v", err)
		}
		if !r0.IsZero() || !r1.IsZero() {
			t.Fatalf("pool not drained: %s/%s", r0, r1)
		}
		if err := f.Pool.CheckInvariants(); err != nil {
			t.Fatalf("invariants: %v", err)
		}
	})
}
