package server

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// LoginRequest authenticates the operator account.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// AddLiquidityRequest deposits both assets against the current ratio.
// Amounts are base-10 integer strings. Deadline is RFC3339; when empty the
// server applies a short default.
type AddLiquidityRequest struct {
	Caller         string `json:"caller"`
	AssetA         string `json:"asset_a" binding:"required"`
	AssetB         string `json:"asset_b" binding:"required"`
	AmountADesired string `json:"amount_a_desired" binding:"required"`
	AmountBDesired string `json:"amount_b_desired" binding:"required"`
	AmountAMin     string `json:"amount_a_min"`
	AmountBMin     string `json:"amount_b_min"`
	Recipient      string `json:"recipient"`
	Deadline       string `json:"deadline"`
}

// AddLiquidityResponse reports the settled deposit.
type AddLiquidityResponse struct {
	AmountA   string `json:"amount_a"`
	AmountB   string `json:"amount_b"`
	Liquidity string `json:"liquidity"`
}

// RemoveLiquidityRequest burns shares for a pro-rata payout.
type RemoveLiquidityRequest struct {
	Caller     string `json:"caller"`
	AssetA     string `json:"asset_a" binding:"required"`
	AssetB     string `json:"asset_b" binding:"required"`
	Liquidity  string `json:"liquidity" binding:"required"`
	AmountAMin string `json:"amount_a_min"`
	AmountBMin string `json:"amount_b_min"`
	Recipient  string `json:"recipient"`
	Deadline   string `json:"deadline"`
}

// RemoveLiquidityResponse reports the payout.
type RemoveLiquidityResponse struct {
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
}

// SwapRequest trades an exact input along a two-asset path.
type SwapRequest struct {
	Caller       string   `json:"caller"`
	AmountIn     string   `json:"amount_in" binding:"required"`
	AmountOutMin string   `json:"amount_out_min"`
	Path         []string `json:"path" binding:"required"`
	Recipient    string   `json:"recipient"`
	Deadline     string   `json:"deadline"`
}

// SwapResponse reports the executed output.
type SwapResponse struct {
	AmountOut string `json:"amount_out"`
}

// PoolResponse is the public pool snapshot.
type PoolResponse struct {
	Asset0      string `json:"asset0"`
	Asset1      string `json:"asset1"`
	Reserve0    string `json:"reserve0"`
	Reserve1    string `json:"reserve1"`
	ShareSupply string `json:"share_supply"`
}

// PriceResponse is a fixed-point price quote.
type PriceResponse struct {
	Asset     string `json:"asset"`
	Price     string `json:"price"`
	Precision string `json:"precision"`
}

// QuoteResponse is a swap quote without execution.
type QuoteResponse struct {
	TokenIn   string `json:"token_in"`
	TokenOut  string `json:"token_out"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
}

// BalancesResponse lists an account's asset and share balances.
type BalancesResponse struct {
	Account  string            `json:"account"`
	Balances map[string]string `json:"balances"`
	Shares   string            `json:"shares"`
}
