// Package testutil builds memory-backed pool fixtures for tests.
package testutil

import (
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/pool"
	"github.com/keelworks/pairpool/state"
	"github.com/keelworks/pairpool/token"
)

// Canonical fixture assets and accounts.
const (
	DenomA = "uatom"
	DenomB = "uusdc"
)

var (
	Alice = ledger.Address("alice")
	Bob   = ledger.Address("bob")
	Carol = ledger.Address("carol")
)

// FundedBalance is minted to each fixture account in both assets.
var FundedBalance = math.NewInt(1_000_000_000)

// Clock is a manual clock for deadline tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the current fixture time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TB is the slice of the testing surface fixtures need. Both *testing.T and
// *rapid.T satisfy it, so fixtures work inside property checks.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
}

// Fixture is a memory-backed pool with two ledger tokens and pre-funded,
// pool-approved accounts.
type Fixture struct {
	Pool   *pool.Pool
	Store  *dbm.MemDB
	Clock  *Clock
	TokenA token.LedgerToken
	TokenB token.LedgerToken
}

// NewFixture builds a pool over a fresh MemDB. Alice, Bob and Carol hold
// FundedBalance of both assets and have approved the pool as spender with
// the unlimited sentinel.
func NewFixture(t TB, opts ...pool.Option) *Fixture {
	t.Helper()

	db := dbm.NewMemDB()
	store := state.StoreFromDB(db)

	tokenA := token.NewLedgerToken(DenomA, "Test Atom", "ATOM", 6)
	tokenB := token.NewLedgerToken(DenomB, "Test USD", "USDC", 6)

	ctx := state.NewContext(store, time.Time{}, log.NewNopLogger())
	for _, tok := range []token.LedgerToken{tokenA, tokenB} {
		for _, acct := range []ledger.Address{Alice, Bob, Carol} {
			require.NoError(t, tok.Mint(ctx, acct, FundedBalance))
			require.NoError(t, tok.Approve(ctx, acct, pool.PoolAddress, ledger.MaxAllowance))
		}
	}

	clock := NewClock()
	all := append([]pool.Option{
		pool.WithLogger(log.NewNopLogger()),
		pool.WithClock(clock.Now),
		pool.WithTokens(tokenA, tokenB),
	}, opts...)

	p, err := pool.New(store, DenomA, DenomB, all...)
	require.NoError(t, err)

	return &Fixture{
		Pool:   p,
		Store:  db,
		Clock:  clock,
		TokenA: tokenA,
		TokenB: tokenB,
	}
}

// Deadline returns a deadline comfortably in the clock's future.
func (f *Fixture) Deadline() time.Time {
	return f.Clock.Now().Add(time.Hour)
}
