// Package pool implements a single-pair constant-product market: pooled
// reserves of two assets, proportional liquidity shares, fee-free swap
// pricing with floor division, and strict numeric invariants. Mutating
// operations run on a store branch committed only on full success, so a
// failed operation leaves no trace.
package pool

import (
	"context"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/state"
	"github.com/keelworks/pairpool/token"
)

// PoolAddress is the account that holds pooled reserves in ledger-backed
// tokens. Callers approve it as spender before depositing or swapping.
const PoolAddress = ledger.Address("pairpool")

// EventSink receives committed events. Sink errors are logged and never
// surface into operation results.
type EventSink interface {
	Publish(ctx context.Context, events []state.Event) error
}

// Pool is the pair aggregate. All mutating operations serialize on its lock
// and run on a branched store; views take the read lock.
type Pool struct {
	mu sync.RWMutex

	store   storetypes.KVStore
	logger  log.Logger
	now     func() time.Time
	metrics *Metrics
	sink    EventSink
	tokens  map[string]token.Token
	shares  ledger.Ledger

	asset0 string
	asset1 string
}

// Option configures a Pool at construction.
type Option func(*Pool)

// WithLogger sets the operation logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Pool) { p.logger = logger }
}

// WithClock overrides the operation time source. Deadlines are checked
// against it once at operation entry.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) { p.now = now }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Pool) { p.metrics = m }
}

// WithTokens registers the asset capabilities operations transfer through.
func WithTokens(tokens ...token.Token) Option {
	return func(p *Pool) {
		for _, t := range tokens {
			p.tokens[t.Denom()] = t
		}
	}
}

// WithEventSink forwards committed events to sink.
func WithEventSink(sink EventSink) Option {
	return func(p *Pool) { p.sink = sink }
}

// New opens a pool for the given asset pair over store. A fresh store is
// initialized with the pair and zero reserves; a store that already holds a
// pair must hold this one.
func New(store storetypes.KVStore, assetA, assetB string, opts ...Option) (*Pool, error) {
	if assetA == "" || assetB == "" {
		return nil, ErrZeroAddress.Wrap("asset identifiers must be non-empty")
	}
	if assetA == assetB {
		return nil, ErrIdenticalAddresses.Wrapf("asset %q on both sides", assetA)
	}
	if !validDenom(assetA) || !validDenom(assetB) {
		return nil, ErrInvalidTokens.Wrapf("asset identifiers %q, %q contain reserved separator", assetA, assetB)
	}

	p := &Pool{
		store:  store,
		logger: log.NewNopLogger(),
		now:    time.Now,
		tokens: make(map[string]token.Token),
		shares: ledger.New(SharesKeyPrefix, ShareTokenName, ShareTokenSymbol, ShareTokenDecimals),
		asset0: assetA,
		asset1: assetB,
	}
	for _, opt := range opts {
		opt(p)
	}

	ctx := p.newContext()
	pair := p.pairStore(ctx)
	if stored0 := pair.Get(Asset0Key); stored0 != nil {
		stored1 := pair.Get(Asset1Key)
		if string(stored0) != assetA || string(stored1) != assetB {
			return nil, ErrInvalidState.Wrapf("store holds pair %s/%s, requested %s/%s",
				stored0, stored1, assetA, assetB)
		}
	} else {
		pair.Set(Asset0Key, []byte(assetA))
		pair.Set(Asset1Key, []byte(assetB))
	}

	return p, nil
}

// Asset0 returns the first asset identifier of the pair.
func (p *Pool) Asset0() string { return p.asset0 }

// Asset1 returns the second asset identifier of the pair.
func (p *Pool) Asset1() string { return p.asset1 }

// Shares exposes the liquidity share ledger for inspection and export.
func (p *Pool) Shares() ledger.Ledger { return p.shares }

// Reserve0 returns the pooled amount of asset0.
func (p *Pool) Reserve0(goCtx context.Context) (math.Int, error) {
	r0, _, err := p.Reserves(goCtx)
	return r0, err
}

// Reserve1 returns the pooled amount of asset1.
func (p *Pool) Reserve1(goCtx context.Context) (math.Int, error) {
	_, r1, err := p.Reserves(goCtx)
	return r1, err
}

// Reserves returns both pooled amounts.
func (p *Pool) Reserves(goCtx context.Context) (math.Int, math.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reserves(p.newContext())
}

// ShareBalanceOf returns the liquidity share balance of addr.
func (p *Pool) ShareBalanceOf(goCtx context.Context, addr ledger.Address) (math.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.shares.BalanceOf(p.newContext(), addr)
}

// ShareTotalSupply returns the outstanding liquidity share supply.
func (p *Pool) ShareTotalSupply(goCtx context.Context) (math.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.shares.TotalSupply(p.newContext())
}

// ShareAllowance returns spender's remaining allowance over owner's shares.
func (p *Pool) ShareAllowance(goCtx context.Context, owner, spender ledger.Address) (math.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.shares.Allowance(p.newContext(), owner, spender)
}

// ShareTransfer moves liquidity shares between holders.
func (p *Pool) ShareTransfer(goCtx context.Context, from, to ledger.Address, amount math.Int) error {
	return p.run(goCtx, "share_transfer", func(ctx state.Context) error {
		return p.shares.Transfer(ctx, from, to, amount)
	})
}

// ShareApprove sets spender's allowance over owner's shares.
func (p *Pool) ShareApprove(goCtx context.Context, owner, spender ledger.Address, amount math.Int) error {
	return p.run(goCtx, "share_approve", func(ctx state.Context) error {
		return p.shares.Approve(ctx, owner, spender, amount)
	})
}

// ShareTransferFrom moves shares on the strength of an allowance.
func (p *Pool) ShareTransferFrom(goCtx context.Context, spender, from, to ledger.Address, amount math.Int) error {
	return p.run(goCtx, "share_transfer_from", func(ctx state.Context) error {
		return p.shares.TransferFrom(ctx, spender, from, to, amount)
	})
}

// Token returns the registered capability for denom.
func (p *Pool) Token(denom string) (token.Token, error) {
	t, ok := p.tokens[denom]
	if !ok {
		return nil, ErrUnknownToken.Wrapf("denom %q", denom)
	}
	return t, nil
}

// TokenBalance returns addr's balance of a registered token.
func (p *Pool) TokenBalance(goCtx context.Context, denom string, addr ledger.Address) (math.Int, error) {
	t, err := p.Token(denom)
	if err != nil {
		return math.Int{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return t.BalanceOf(p.newContext(), addr)
}

// run executes one mutating operation: take the write lock, branch the
// store, run fn, and commit only if fn succeeded. Events reach the sink
// after commit.
func (p *Pool) run(goCtx context.Context, op string, fn func(ctx state.Context) error) error {
	start := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx := p.newContext()
	cctx, write := ctx.CacheContext()
	if err := fn(cctx); err != nil {
		p.metrics.recordOperation(op, "failed", time.Since(start).Seconds())
		return err
	}
	write()
	p.metrics.recordOperation(op, "success", time.Since(start).Seconds())
	p.afterCommit(goCtx, ctx)
	return nil
}

// afterCommit publishes events and refreshes counters and gauges. Runs under
// the write lock with the operation already durable; all metric writes for
// committed state happen here.
func (p *Pool) afterCommit(goCtx context.Context, ctx state.Context) {
	events := ctx.EventManager().Events()
	if p.sink != nil && len(events) > 0 {
		if err := p.sink.Publish(goCtx, events); err != nil {
			p.logger.Error("event sink publish failed", "err", err)
		}
	}
	if p.metrics == nil {
		return
	}
	for _, ev := range events {
		var vec *prometheus.CounterVec
		switch ev.Type {
		case EventTypeLiquidityAdded:
			vec = p.metrics.LiquidityAdded
		case EventTypeLiquidityRemoved:
			vec = p.metrics.LiquidityRemoved
		default:
			continue
		}
		amount0, amount1 := liquidityAmounts(ev)
		p.metrics.recordLiquidityFlow(vec, p.asset0, p.asset1, amount0, amount1)
	}
	r0, r1, err := p.reserves(ctx)
	if err != nil {
		return
	}
	supply, err := p.shares.TotalSupply(ctx)
	if err != nil {
		return
	}
	p.metrics.recordReserves(p.asset0, p.asset1, gaugeValue(r0), gaugeValue(r1), gaugeValue(supply))
}

func (p *Pool) newContext() state.Context {
	return state.NewContext(p.store, p.now(), p.logger)
}

func (p *Pool) pairStore(ctx state.Context) storetypes.KVStore {
	return prefix.NewStore(ctx.KVStore(), PairKeyPrefix)
}

// reserves reads both pooled amounts. Absent keys mean zero.
func (p *Pool) reserves(ctx state.Context) (math.Int, math.Int, error) {
	r0, err := p.getReserve(ctx, Reserve0Key)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	r1, err := p.getReserve(ctx, Reserve1Key)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return r0, r1, nil
}

func (p *Pool) getReserve(ctx state.Context, key []byte) (math.Int, error) {
	bz := p.pairStore(ctx).Get(key)
	if bz == nil {
		return math.ZeroInt(), nil
	}
	var v math.Int
	if err := v.Unmarshal(bz); err != nil {
		return math.Int{}, ErrInvalidState.Wrapf("corrupted reserve entry: %v", err)
	}
	return v, nil
}

// setReserves writes both reserves. Reserves empty out together or not at
// all; anything else means the transition itself is broken.
func (p *Pool) setReserves(ctx state.Context, r0, r1 math.Int) error {
	if r0.IsNegative() || r1.IsNegative() {
		return ErrInvalidState.Wrapf("negative reserves %s/%s", r0, r1)
	}
	if r0.IsZero() != r1.IsZero() {
		return ErrInvalidState.Wrapf("one-sided reserves %s/%s", r0, r1)
	}

	pair := p.pairStore(ctx)
	for _, entry := range []struct {
		key   []byte
		value math.Int
	}{
		{Reserve0Key, r0},
		{Reserve1Key, r1},
	} {
		if entry.value.IsZero() {
			pair.Delete(entry.key)
			continue
		}
		bz, err := entry.value.Marshal()
		if err != nil {
			return err
		}
		pair.Set(entry.key, bz)
	}
	return nil
}

// pull draws amount of denom from the payer into the pool account, spending
// the payer's approval of the pool.
func (p *Pool) pull(ctx state.Context, denom string, from ledger.Address, amount math.Int) error {
	t, err := p.Token(denom)
	if err != nil {
		return err
	}
	if err := t.TransferFrom(ctx, PoolAddress, from, PoolAddress, amount); err != nil {
		return ErrTransferFailed.Wrapf("pull %s %s from %s: %v", amount, denom, from, err)
	}
	return nil
}

// push pays amount of denom out of the pool account.
func (p *Pool) push(ctx state.Context, denom string, to ledger.Address, amount math.Int) error {
	t, err := p.Token(denom)
	if err != nil {
		return err
	}
	if err := t.Transfer(ctx, PoolAddress, to, amount); err != nil {
		return ErrTransferFailed.Wrapf("push %s %s to %s: %v", amount, denom, to, err)
	}
	return nil
}

func validDenom(denom string) bool {
	for i := 0; i < len(denom); i++ {
		if denom[i] == '/' {
			return false
		}
	}
	return true
}

func validAmount(v math.Int) bool {
	return !v.IsNil() && !v.IsNegative()
}
