package ledger

// Store key prefixes within a ledger's namespace
var (
	BalanceKeyPrefix   = []byte{0x01} // prefix for account balances
	AllowanceKeyPrefix = []byte{0x02} // prefix for owner/spender allowances
	SupplyKey          = []byte{0x03} // key for total supply
)

// BalanceKey returns the store key for an account balance
func BalanceKey(addr Address) []byte {
	return append(BalanceKeyPrefix, []byte(addr)...)
}

// AllowanceKey returns the store key for an owner/spender allowance
func AllowanceKey(owner, spender Address) []byte {
	key := append(AllowanceKeyPrefix, []byte(owner)...)
	key = append(key, []byte(keySeparator)...)
	return append(key, []byte(spender)...)
}
