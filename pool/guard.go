package pool

import (
	"time"

	"github.com/keelworks/pairpool/state"
)

// ensureNotExpired fails with ErrExpired when the operation time is strictly
// past the deadline. Checked once at operation entry; a deadline equal to the
// operation time is still valid.
func ensureNotExpired(ctx state.Context, deadline time.Time) error {
	if ctx.Now().After(deadline) {
		return ErrExpired.Wrapf("deadline %s passed at %s",
			deadline.UTC().Format(time.RFC3339), ctx.Now().UTC().Format(time.RFC3339))
	}
	return nil
}

// orient maps a caller-supplied (assetA, assetB) ordering onto the pool's
// (asset0, asset1) order. aIsZero reports whether assetA is asset0.
func (p *Pool) orient(assetA, assetB string) (aIsZero bool, err error) {
	switch {
	case assetA == p.asset0 && assetB == p.asset1:
		return true, nil
	case assetA == p.asset1 && assetB == p.asset0:
		return false, nil
	default:
		return false, ErrInvalidTokens.Wrapf("pool pair is %s/%s, got %s/%s",
			p.asset0, p.asset1, assetA, assetB)
	}
}
