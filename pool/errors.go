package pool

import (
	"cosmossdk.io/errors"
)

// Pool sentinel errors
var (
	ErrZeroAddress                 = errors.Register(ModuleName, 1, "zero asset identifier")
	ErrIdenticalAddresses          = errors.Register(ModuleName, 2, "identical asset identifiers")
	ErrInvalidTokens               = errors.Register(ModuleName, 3, "assets do not match pool pair")
	ErrInvalidPath                 = errors.Register(ModuleName, 4, "invalid swap path")
	ErrInvalidPair                 = errors.Register(ModuleName, 5, "path does not match pool pair")
	ErrExpired                     = errors.Register(ModuleName, 6, "deadline expired")
	ErrInsufficientAAmount         = errors.Register(ModuleName, 7, "insufficient A amount")
	ErrInsufficientBAmount         = errors.Register(ModuleName, 8, "insufficient B amount")
	ErrInsufficientLiquidityMinted = errors.Register(ModuleName, 9, "insufficient liquidity minted")
	ErrInsufficientAOutput         = errors.Register(ModuleName, 10, "insufficient A output")
	ErrInsufficientBOutput         = errors.Register(ModuleName, 11, "insufficient B output")
	ErrInsufficientInputAmount     = errors.Register(ModuleName, 12, "insufficient input amount")
	ErrInsufficientOutputAmount    = errors.Register(ModuleName, 13, "insufficient output amount")
	ErrNoLiquidity                 = errors.Register(ModuleName, 14, "no liquidity in pool")
	ErrTransferFailed              = errors.Register(ModuleName, 15, "token transfer failed")
	ErrInvalidAmount               = errors.Register(ModuleName, 16, "invalid amount")
	ErrOverflow                    = errors.Register(ModuleName, 17, "arithmetic overflow")
	ErrInvariantBroken             = errors.Register(ModuleName, 18, "constant product invariant violated")
	ErrInvalidState                = errors.Register(ModuleName, 19, "invalid pool state")
	ErrUnknownToken                = errors.Register(ModuleName, 20, "no token capability registered")
)
