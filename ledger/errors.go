package ledger

import (
	"cosmossdk.io/errors"
)

// ModuleName is the codespace for ledger errors.
const ModuleName = "ledger"

// Ledger sentinel errors
var (
	ErrInsufficientBalance   = errors.Register(ModuleName, 1, "insufficient balance")
	ErrInvalidSender         = errors.Register(ModuleName, 2, "invalid sender")
	ErrInvalidReceiver       = errors.Register(ModuleName, 3, "invalid receiver")
	ErrInsufficientAllowance = errors.Register(ModuleName, 4, "insufficient allowance")
	ErrInvalidApprover       = errors.Register(ModuleName, 5, "invalid approver")
	ErrInvalidSpender        = errors.Register(ModuleName, 6, "invalid spender")
	ErrInvalidAmount         = errors.Register(ModuleName, 7, "invalid amount")
	ErrOverflow              = errors.Register(ModuleName, 8, "arithmetic overflow")
	ErrInvalidState          = errors.Register(ModuleName, 9, "invalid ledger state")
)
