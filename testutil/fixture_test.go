package testutil

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"pgregory.net/rapid"

	"github.com/keelworks/pairpool/state"
)

// The fixture must accept both harnesses.
var (
	_ TB = (*testing.T)(nil)
	_ TB = (*rapid.T)(nil)
)

// TestFixtureUnderRapid tests fixture construction inside a property check
func TestFixtureUnderRapid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := NewFixture(rt)

		ctx := state.NewContext(state.StoreFromDB(f.Store), time.Time{}, log.NewNopLogger())
		bal, err := f.TokenA.BalanceOf(ctx, Alice)
		if err != nil {
			rt.Fatalf("balance: %v", err)
		}
		if !bal.Equal(FundedBalance) {
			rt.Fatalf("funded %s, want %s", bal, FundedBalance)
		}
	})
}
