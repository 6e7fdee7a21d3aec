package pool

// ModuleName defines the module name
const ModuleName = "pool"

// Store key prefixes
var (
	PairKeyPrefix   = []byte{0x01} // prefix for pair metadata and reserves
	SharesKeyPrefix = []byte{0x02} // namespace for the liquidity share ledger
)

// Keys under PairKeyPrefix
var (
	Asset0Key   = []byte("asset0")
	Asset1Key   = []byte("asset1")
	Reserve0Key = []byte("reserve0")
	Reserve1Key = []byte("reserve1")
)

// Liquidity share token metadata
const (
	ShareTokenName     = "Pairpool Liquidity"
	ShareTokenSymbol   = "PLP"
	ShareTokenDecimals = 18
)
