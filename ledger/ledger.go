// Package ledger implements fungible balance bookkeeping over a prefixed
// key-value space: balances, allowances and total supply, with mint, burn,
// transfer and allowance-based spending. The pool uses one ledger for its
// liquidity shares and one per in-store reference token.
package ledger

import (
	"math/big"
	"strings"

	"cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	"github.com/keelworks/pairpool/state"
)

// keySeparator joins the owner and spender parts of an allowance key.
// Addresses must not contain it.
const keySeparator = "/"

// Address identifies an account. The empty string is the null identifier and
// is rejected wherever an account takes part in a transfer or approval.
type Address string

// Empty reports whether the address is the null identifier.
func (a Address) Empty() bool { return a == "" }

// Valid reports whether the address can be stored: non-empty and free of the
// key separator.
func (a Address) Valid() bool { return a != "" && !strings.Contains(string(a), keySeparator) }

func (a Address) String() string { return string(a) }

// MaxAllowance is the unlimited-allowance sentinel (2^256 - 1). TransferFrom
// never decrements an allowance set to this value.
var MaxAllowance = math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))

// Ledger tracks balances, allowances and total supply for one fungible unit
// under its own key prefix. The zero value is not usable; construct with New.
type Ledger struct {
	prefix   []byte
	name     string
	symbol   string
	decimals uint8
}

// New builds a ledger bound to the given key prefix. Name, symbol and
// decimals are fixed metadata reported as-is.
func New(keyPrefix []byte, name, symbol string, decimals uint8) Ledger {
	return Ledger{prefix: keyPrefix, name: name, symbol: symbol, decimals: decimals}
}

// Name returns the display name of the unit.
func (l Ledger) Name() string { return l.name }

// Symbol returns the ticker symbol of the unit.
func (l Ledger) Symbol() string { return l.symbol }

// Decimals returns the display precision of the unit.
func (l Ledger) Decimals() uint8 { return l.decimals }

func (l Ledger) store(ctx state.Context) storetypes.KVStore {
	return prefix.NewStore(ctx.KVStore(), l.prefix)
}

// BalanceOf returns the balance of addr. Unknown accounts hold zero.
func (l Ledger) BalanceOf(ctx state.Context, addr Address) (math.Int, error) {
	return l.getInt(ctx, BalanceKey(addr))
}

// TotalSupply returns the total amount in circulation.
func (l Ledger) TotalSupply(ctx state.Context) (math.Int, error) {
	return l.getInt(ctx, SupplyKey)
}

// Allowance returns the amount spender may currently draw from owner.
func (l Ledger) Allowance(ctx state.Context, owner, spender Address) (math.Int, error) {
	return l.getInt(ctx, AllowanceKey(owner, spender))
}

// Mint creates amount new units and credits them to addr.
func (l Ledger) Mint(ctx state.Context, to Address, amount math.Int) error {
	if !to.Valid() {
		return ErrInvalidReceiver.Wrapf("mint to %q", to)
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	supply, err := l.TotalSupply(ctx)
	if err != nil {
		return err
	}
	newSupply, err := safeAdd(supply, amount)
	if err != nil {
		return ErrOverflow.Wrapf("minting %s onto supply %s", amount, supply)
	}

	balance, err := l.BalanceOf(ctx, to)
	if err != nil {
		return err
	}
	newBalance, err := safeAdd(balance, amount)
	if err != nil {
		return ErrOverflow.Wrapf("crediting %s onto balance %s", amount, balance)
	}

	if err := l.setInt(ctx, SupplyKey, newSupply); err != nil {
		return err
	}
	return l.setInt(ctx, BalanceKey(to), newBalance)
}

// Burn destroys amount units held by from.
func (l Ledger) Burn(ctx state.Context, from Address, amount math.Int) error {
	if !from.Valid() {
		return ErrInvalidSender.Wrapf("burn from %q", from)
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	balance, err := l.BalanceOf(ctx, from)
	if err != nil {
		return err
	}
	if balance.LT(amount) {
		return ErrInsufficientBalance.Wrapf("burn %s exceeds balance %s of %s", amount, balance, from)
	}

	supply, err := l.TotalSupply(ctx)
	if err != nil {
		return err
	}
	if supply.LT(amount) {
		// Supply below a held balance means the store was tampered with.
		return ErrInvalidState.Wrapf("burn %s exceeds total supply %s", amount, supply)
	}

	if err := l.setInt(ctx, SupplyKey, supply.Sub(amount)); err != nil {
		return err
	}
	return l.setInt(ctx, BalanceKey(from), balance.Sub(amount))
}

// Transfer moves amount from one account to another.
func (l Ledger) Transfer(ctx state.Context, from, to Address, amount math.Int) error {
	if !from.Valid() {
		return ErrInvalidSender.Wrapf("transfer from %q", from)
	}
	if !to.Valid() {
		return ErrInvalidReceiver.Wrapf("transfer to %q", to)
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	fromBalance, err := l.BalanceOf(ctx, from)
	if err != nil {
		return err
	}
	if fromBalance.LT(amount) {
		return ErrInsufficientBalance.Wrapf("transfer %s exceeds balance %s of %s", amount, fromBalance, from)
	}

	toBalance, err := l.BalanceOf(ctx, to)
	if err != nil {
		return err
	}
	newToBalance, err := safeAdd(toBalance, amount)
	if err != nil {
		return ErrOverflow.Wrapf("crediting %s onto balance %s", amount, toBalance)
	}

	if err := l.setInt(ctx, BalanceKey(from), fromBalance.Sub(amount)); err != nil {
		return err
	}
	return l.setInt(ctx, BalanceKey(to), newToBalance)
}

// Approve sets spender's allowance over owner's balance to amount, replacing
// any previous value.
func (l Ledger) Approve(ctx state.Context, owner, spender Address, amount math.Int) error {
	if !owner.Valid() {
		return ErrInvalidApprover.Wrapf("approve by %q", owner)
	}
	if !spender.Valid() {
		return ErrInvalidSpender.Wrapf("approve for %q", spender)
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	return l.setInt(ctx, AllowanceKey(owner, spender), amount)
}

// TransferFrom moves amount from one account to another on the strength of
// the spender's allowance. An allowance of MaxAllowance is unlimited and is
// not decremented.
func (l Ledger) TransferFrom(ctx state.Context, spender, from, to Address, amount math.Int) error {
	if !spender.Valid() {
		return ErrInvalidSpender.Wrapf("spend by %q", spender)
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	allowance, err := l.Allowance(ctx, from, spender)
	if err != nil {
		return err
	}
	unlimited := allowance.Equal(MaxAllowance)
	if !unlimited && allowance.LT(amount) {
		return ErrInsufficientAllowance.Wrapf("spend %s exceeds allowance %s of %s for %s", amount, allowance, from, spender)
	}

	if err := l.Transfer(ctx, from, to, amount); err != nil {
		return err
	}

	if !unlimited {
		return l.setInt(ctx, AllowanceKey(from, spender), allowance.Sub(amount))
	}
	return nil
}

// Balance is one exported account balance.
type Balance struct {
	Address Address  `json:"address"`
	Amount  math.Int `json:"amount"`
}

// AllowanceEntry is one exported owner/spender allowance.
type AllowanceEntry struct {
	Owner   Address  `json:"owner"`
	Spender Address  `json:"spender"`
	Amount  math.Int `json:"amount"`
}

// Balances returns every non-zero balance in key order.
func (l Ledger) Balances(ctx state.Context) ([]Balance, error) {
	var out []Balance
	it := storetypes.KVStorePrefixIterator(l.store(ctx), BalanceKeyPrefix)
	defer it.Close()
	for ; it.Valid(); it.Next() {
		var amount math.Int
		if err := amount.Unmarshal(it.Value()); err != nil {
			return nil, ErrInvalidState.Wrapf("corrupted balance entry: %v", err)
		}
		addr := Address(it.Key()[len(BalanceKeyPrefix):])
		out = append(out, Balance{Address: addr, Amount: amount})
	}
	return out, nil
}

// Allowances returns every non-zero allowance in key order.
func (l Ledger) Allowances(ctx state.Context) ([]AllowanceEntry, error) {
	var out []AllowanceEntry
	it := storetypes.KVStorePrefixIterator(l.store(ctx), AllowanceKeyPrefix)
	defer it.Close()
	for ; it.Valid(); it.Next() {
		var amount math.Int
		if err := amount.Unmarshal(it.Value()); err != nil {
			return nil, ErrInvalidState.Wrapf("corrupted allowance entry: %v", err)
		}
		owner, spender, ok := strings.Cut(string(it.Key()[len(AllowanceKeyPrefix):]), keySeparator)
		if !ok {
			return nil, ErrInvalidState.Wrapf("malformed allowance key %q", it.Key())
		}
		out = append(out, AllowanceEntry{Owner: Address(owner), Spender: Address(spender), Amount: amount})
	}
	return out, nil
}

func (l Ledger) getInt(ctx state.Context, key []byte) (math.Int, error) {
	bz := l.store(ctx).Get(key)
	if bz == nil {
		return math.ZeroInt(), nil
	}
	var v math.Int
	if err := v.Unmarshal(bz); err != nil {
		return math.ZeroInt(), ErrInvalidState.Wrapf("corrupted entry at %q: %v", key, err)
	}
	return v, nil
}

func (l Ledger) setInt(ctx state.Context, key []byte, v math.Int) error {
	store := l.store(ctx)
	if v.IsZero() {
		store.Delete(key)
		return nil
	}
	bz, err := v.Marshal()
	if err != nil {
		return err
	}
	store.Set(key, bz)
	return nil
}

func validateAmount(amount math.Int) error {
	if amount.IsNil() {
		return ErrInvalidAmount.Wrap("amount is nil")
	}
	if amount.IsNegative() {
		return ErrInvalidAmount.Wrapf("amount %s is negative", amount)
	}
	return nil
}

// safeAdd adds two math.Int values with overflow checking against the
// 256-bit bound.
func safeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())
	if result.BitLen() > math.MaxBitLen {
		return math.Int{}, ErrOverflow.Wrap("addition result exceeds maximum value")
	}
	return math.NewIntFromBigInt(result), nil
}
