package server

import (
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/gin-gonic/gin"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/pool"
)

// handleLogin exchanges operator credentials for a bearer token.
func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	tok, expiresAt, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication failed"})
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: tok, ExpiresAt: expiresAt.Unix()})
}

// handleGetPool returns the pair, reserves and share supply.
func (s *Server) handleGetPool(c *gin.Context) {
	ctx := c.Request.Context()

	reserve0, reserve1, err := s.pool.Reserves(ctx)
	if err != nil {
		s.writeError(c, err)
		return
	}
	supply, err := s.pool.ShareTotalSupply(ctx)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, PoolResponse{
		Asset0:      s.pool.Asset0(),
		Asset1:      s.pool.Asset1(),
		Reserve0:    reserve0.String(),
		Reserve1:    reserve1.String(),
		ShareSupply: supply.String(),
	})
}

// handleGetPrice quotes ?asset= in units of the counter asset. With no query
// parameter it quotes asset0.
func (s *Server) handleGetPrice(c *gin.Context) {
	asset := c.Query("asset")
	if asset == "" {
		asset = s.pool.Asset0()
	}
	counter := s.pool.Asset1()
	if asset == s.pool.Asset1() {
		counter = s.pool.Asset0()
	}

	price, err := s.pool.GetPrice(asset, counter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, PriceResponse{
		Asset:     asset,
		Price:     price.String(),
		Precision: pool.PricePrecision.String(),
	})
}

// handleQuote prices a hypothetical swap of ?amount_in= of ?token_in=
// without executing it.
func (s *Server) handleQuote(c *gin.Context) {
	tokenIn := c.Query("token_in")
	if tokenIn == "" {
		tokenIn = s.pool.Asset0()
	}
	var tokenOut string
	switch tokenIn {
	case s.pool.Asset0():
		tokenOut = s.pool.Asset1()
	case s.pool.Asset1():
		tokenOut = s.pool.Asset0()
	default:
		s.writeError(c, pool.ErrInvalidPair.Wrapf("token_in %q not in pair %s/%s",
			tokenIn, s.pool.Asset0(), s.pool.Asset1()))
		return
	}

	amountIn, ok := parseAmount(c, "amount_in", c.Query("amount_in"))
	if !ok {
		return
	}

	ctx := c.Request.Context()
	reserve0, reserve1, err := s.pool.Reserves(ctx)
	if err != nil {
		s.writeError(c, err)
		return
	}
	reserveIn, reserveOut := reserve0, reserve1
	if tokenIn == s.pool.Asset1() {
		reserveIn, reserveOut = reserve1, reserve0
	}

	amountOut, err := pool.GetAmountOut(amountIn, reserveIn, reserveOut)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuoteResponse{
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  amountIn.String(),
		AmountOut: amountOut.String(),
	})
}

// handleGetBalances reports an account's holdings of both pool assets and
// its liquidity shares.
func (s *Server) handleGetBalances(c *gin.Context) {
	account := ledger.Address(c.Param("account"))
	if !account.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account identifier"})
		return
	}

	ctx := c.Request.Context()
	balances := make(map[string]string, 2)
	for _, denom := range []string{s.pool.Asset0(), s.pool.Asset1()} {
		bal, err := s.pool.TokenBalance(ctx, denom, account)
		if err != nil {
			s.writeError(c, err)
			return
		}
		balances[denom] = bal.String()
	}
	shares, err := s.pool.ShareBalanceOf(ctx, account)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalancesResponse{
		Account:  account.String(),
		Balances: balances,
		Shares:   shares.String(),
	})
}

// handleAddLiquidity executes a deposit on behalf of the request's caller.
func (s *Server) handleAddLiquidity(c *gin.Context) {
	var req AddLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	caller, ok := s.callerAddress(c, req.Caller)
	if !ok {
		return
	}
	desiredA, ok := parseAmount(c, "amount_a_desired", req.AmountADesired)
	if !ok {
		return
	}
	desiredB, ok := parseAmount(c, "amount_b_desired", req.AmountBDesired)
	if !ok {
		return
	}
	minA, ok := parseOptionalAmount(c, "amount_a_min", req.AmountAMin)
	if !ok {
		return
	}
	minB, ok := parseOptionalAmount(c, "amount_b_min", req.AmountBMin)
	if !ok {
		return
	}
	deadline, ok := s.parseDeadline(c, req.Deadline)
	if !ok {
		return
	}
	recipient := caller
	if req.Recipient != "" {
		recipient = ledger.Address(req.Recipient)
	}

	amountA, amountB, liquidity, err := s.pool.AddLiquidity(c.Request.Context(), caller,
		req.AssetA, req.AssetB, desiredA, desiredB, minA, minB, recipient, deadline)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AddLiquidityResponse{
		AmountA:   amountA.String(),
		AmountB:   amountB.String(),
		Liquidity: liquidity.String(),
	})
}

// handleRemoveLiquidity burns the caller's shares for a pro-rata payout.
func (s *Server) handleRemoveLiquidity(c *gin.Context) {
	var req RemoveLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	caller, ok := s.callerAddress(c, req.Caller)
	if !ok {
		return
	}
	liquidity, ok := parseAmount(c, "liquidity", req.Liquidity)
	if !ok {
		return
	}
	minA, ok := parseOptionalAmount(c, "amount_a_min", req.AmountAMin)
	if !ok {
		return
	}
	minB, ok := parseOptionalAmount(c, "amount_b_min", req.AmountBMin)
	if !ok {
		return
	}
	deadline, ok := s.parseDeadline(c, req.Deadline)
	if !ok {
		return
	}
	recipient := caller
	if req.Recipient != "" {
		recipient = ledger.Address(req.Recipient)
	}

	amountA, amountB, err := s.pool.RemoveLiquidity(c.Request.Context(), caller,
		req.AssetA, req.AssetB, liquidity, minA, minB, recipient, deadline)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, RemoveLiquidityResponse{
		AmountA: amountA.String(),
		AmountB: amountB.String(),
	})
}

// handleSwap executes an exact-input swap along the request path.
func (s *Server) handleSwap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	caller, ok := s.callerAddress(c, req.Caller)
	if !ok {
		return
	}
	amountIn, ok := parseAmount(c, "amount_in", req.AmountIn)
	if !ok {
		return
	}
	amountOutMin, ok := parseOptionalAmount(c, "amount_out_min", req.AmountOutMin)
	if !ok {
		return
	}
	deadline, ok := s.parseDeadline(c, req.Deadline)
	if !ok {
		return
	}
	recipient := caller
	if req.Recipient != "" {
		recipient = ledger.Address(req.Recipient)
	}

	amountOut, err := s.pool.SwapExactTokensForTokens(c.Request.Context(), caller,
		amountIn, amountOutMin, req.Path, recipient, deadline)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SwapResponse{AmountOut: amountOut.String()})
}

// callerAddress resolves the acting account: the explicit request field
// first, the authenticated identity as fallback.
func (s *Server) callerAddress(c *gin.Context, explicit string) (ledger.Address, bool) {
	caller := ledger.Address(explicit)
	if caller.Empty() {
		caller = ledger.Address(c.GetString("username"))
	}
	if !caller.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "caller account required"})
		return "", false
	}
	return caller, true
}

func parseAmount(c *gin.Context, field, raw string) (math.Int, bool) {
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: field + " is required"})
		return math.Int{}, false
	}
	v, ok := math.NewIntFromString(raw)
	if !ok || v.IsNegative() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: field + " must be a non-negative integer"})
		return math.Int{}, false
	}
	return v, true
}

// parseOptionalAmount treats an absent value as zero.
func parseOptionalAmount(c *gin.Context, field, raw string) (math.Int, bool) {
	if raw == "" {
		return math.ZeroInt(), true
	}
	return parseAmount(c, field, raw)
}

func (s *Server) parseDeadline(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now().Add(s.cfg.DefaultDeadline), true
	}
	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "deadline must be RFC3339", Details: err.Error()})
		return time.Time{}, false
	}
	return deadline, true
}

// writeError maps engine errors onto HTTP statuses. Every registered
// precondition failure is the caller's to fix; state corruption is ours.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.IsOf(err, pool.ErrInvalidState, pool.ErrInvariantBroken, pool.ErrOverflow, pool.ErrUnknownToken) {
		status = http.StatusInternalServerError
	}

	codespace, code, msg := errors.ABCIInfo(err, false)
	if codespace == errors.UndefinedCodespace {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", c.GetString("request_id"), "err", err)
	}

	c.JSON(status, ErrorResponse{
		Error: msg,
		Code:  fmt.Sprintf("%s/%d", codespace, code),
	})
}
