package pool

import (
	"context"
	"sort"

	"cosmossdk.io/math"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/state"
	"github.com/keelworks/pairpool/token"
)

// GenesisState is the full exported state of a pool: the pair, its reserves,
// the share ledger, and the ledger of every wired token backend.
type GenesisState struct {
	Asset0   string         `json:"asset0"`
	Asset1   string         `json:"asset1"`
	Reserve0 math.Int       `json:"reserve0"`
	Reserve1 math.Int       `json:"reserve1"`
	Shares   LedgerGenesis  `json:"shares"`
	Tokens   []TokenGenesis `json:"tokens"`
}

// LedgerGenesis is the exported content of one ledger.
type LedgerGenesis struct {
	Balances   []ledger.Balance        `json:"balances,omitempty"`
	Allowances []ledger.AllowanceEntry `json:"allowances,omitempty"`
}

// TokenGenesis is the exported content and metadata of one token ledger.
type TokenGenesis struct {
	Denom    string `json:"denom"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	LedgerGenesis
}

// Validate checks a genesis document for internal consistency before any of
// it touches the store.
func (gs *GenesisState) Validate() error {
	if gs.Asset0 == "" || gs.Asset1 == "" {
		return ErrZeroAddress.Wrap("genesis assets must be set")
	}
	if gs.Asset0 == gs.Asset1 {
		return ErrIdenticalAddresses.Wrapf("genesis assets both %s", gs.Asset0)
	}
	if !validDenom(gs.Asset0) || !validDenom(gs.Asset1) {
		return ErrInvalidTokens.Wrapf("genesis assets %s/%s", gs.Asset0, gs.Asset1)
	}
	if gs.Reserve0.IsNil() || gs.Reserve1.IsNil() || gs.Reserve0.IsNegative() || gs.Reserve1.IsNegative() {
		return ErrInvalidState.Wrap("genesis reserves must be non-negative")
	}
	if gs.Reserve0.IsZero() != gs.Reserve1.IsZero() {
		return ErrInvalidState.Wrapf("one-sided genesis reserves %s/%s", gs.Reserve0, gs.Reserve1)
	}
	if err := gs.Shares.validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(gs.Tokens))
	for _, tg := range gs.Tokens {
		if !validDenom(tg.Denom) || tg.Denom == "" {
			return ErrInvalidTokens.Wrapf("genesis token denom %q", tg.Denom)
		}
		if _, dup := seen[tg.Denom]; dup {
			return ErrInvalidState.Wrapf("duplicate genesis token %s", tg.Denom)
		}
		seen[tg.Denom] = struct{}{}
		if err := tg.LedgerGenesis.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (lg LedgerGenesis) validate() error {
	for _, b := range lg.Balances {
		if !b.Address.Valid() {
			return ErrInvalidState.Wrapf("genesis balance address %q", b.Address)
		}
		if b.Amount.IsNil() || !b.Amount.IsPositive() {
			return ErrInvalidState.Wrapf("genesis balance %v for %s", b.Amount, b.Address)
		}
	}
	for _, a := range lg.Allowances {
		if !a.Owner.Valid() || !a.Spender.Valid() {
			return ErrInvalidState.Wrapf("genesis allowance %q -> %q", a.Owner, a.Spender)
		}
		if a.Amount.IsNil() || a.Amount.IsNegative() {
			return ErrInvalidState.Wrapf("genesis allowance amount %v", a.Amount)
		}
	}
	return nil
}

// ExportGenesis snapshots the committed pool state. Token backends that are
// not ledger-backed have no exportable content and are skipped.
func (p *Pool) ExportGenesis() (*GenesisState, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ctx := p.newContext()
	reserve0, reserve1, err := p.reserves(ctx)
	if err != nil {
		return nil, err
	}
	shares, err := exportLedger(ctx, p.shares)
	if err != nil {
		return nil, err
	}

	denoms := make([]string, 0, len(p.tokens))
	for denom := range p.tokens {
		denoms = append(denoms, denom)
	}
	sort.Strings(denoms)

	var tokens []TokenGenesis
	for _, denom := range denoms {
		lt, ok := p.tokens[denom].(token.LedgerToken)
		if !ok {
			continue
		}
		l := lt.Ledger()
		lg, err := exportLedger(ctx, l)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, TokenGenesis{
			Denom:         denom,
			Name:          l.Name(),
			Symbol:        l.Symbol(),
			Decimals:      l.Decimals(),
			LedgerGenesis: lg,
		})
	}

	return &GenesisState{
		Asset0:   p.asset0,
		Asset1:   p.asset1,
		Reserve0: reserve0,
		Reserve1: reserve1,
		Shares:   shares,
		Tokens:   tokens,
	}, nil
}

// ImportGenesis loads a genesis document into an empty pool in one
// transaction. The document's pair must match the pool's, and every genesis
// token must have a wired ledger-backed token.
func (p *Pool) ImportGenesis(goCtx context.Context, gs *GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	return p.run(goCtx, "import_genesis", func(ctx state.Context) error {
		if gs.Asset0 != p.asset0 || gs.Asset1 != p.asset1 {
			return ErrInvalidState.Wrapf("genesis pair %s/%s does not match pool %s/%s",
				gs.Asset0, gs.Asset1, p.asset0, p.asset1)
		}

		// Refuse to layer a genesis over live state.
		supply, err := p.shares.TotalSupply(ctx)
		if err != nil {
			return err
		}
		reserve0, _, err := p.reserves(ctx)
		if err != nil {
			return err
		}
		if !supply.IsZero() || !reserve0.IsZero() {
			return ErrInvalidState.Wrap("import requires an empty pool")
		}

		for _, tg := range gs.Tokens {
			t, ok := p.tokens[tg.Denom]
			if !ok {
				return ErrUnknownToken.Wrapf("genesis token %s has no wired backend", tg.Denom)
			}
			lt, ok := t.(token.LedgerToken)
			if !ok {
				return ErrInvalidState.Wrapf("genesis token %s backend is not ledger-backed", tg.Denom)
			}
			if err := importLedger(ctx, lt.Ledger(), tg.LedgerGenesis); err != nil {
				return err
			}
		}
		if err := importLedger(ctx, p.shares, gs.Shares); err != nil {
			return err
		}

		// Reserves last, once the backing balances exist.
		for _, side := range []struct {
			denom   string
			reserve math.Int
		}{
			{p.asset0, gs.Reserve0},
			{p.asset1, gs.Reserve1},
		} {
			t, ok := p.tokens[side.denom]
			if !ok {
				continue
			}
			held, err := t.BalanceOf(ctx, PoolAddress)
			if err != nil {
				return err
			}
			if held.LT(side.reserve) {
				return ErrInvalidState.Wrapf("genesis reserve %s %s exceeds pool holdings %s",
					side.reserve, side.denom, held)
			}
		}
		return p.setReserves(ctx, gs.Reserve0, gs.Reserve1)
	})
}

func exportLedger(ctx state.Context, l ledger.Ledger) (LedgerGenesis, error) {
	balances, err := l.Balances(ctx)
	if err != nil {
		return LedgerGenesis{}, err
	}
	allowances, err := l.Allowances(ctx)
	if err != nil {
		return LedgerGenesis{}, err
	}
	return LedgerGenesis{Balances: balances, Allowances: allowances}, nil
}

func importLedger(ctx state.Context, l ledger.Ledger, lg LedgerGenesis) error {
	for _, b := range lg.Balances {
		if err := l.Mint(ctx, b.Address, b.Amount); err != nil {
			return err
		}
	}
	for _, a := range lg.Allowances {
		if err := l.Approve(ctx, a.Owner, a.Spender, a.Amount); err != nil {
			return err
		}
	}
	return nil
}
