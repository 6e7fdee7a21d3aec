package token

// TokenKeyPrefix is the store namespace holding all reference token ledgers.
// It must not collide with the pool's own prefixes.
var TokenKeyPrefix = []byte{0x10}

// LedgerPrefix returns the key prefix for one token's ledger namespace.
func LedgerPrefix(denom string) []byte {
	key := append(TokenKeyPrefix, []byte(denom)...)
	return append(key, []byte("/")...)
}
