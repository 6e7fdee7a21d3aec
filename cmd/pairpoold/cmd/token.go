package cmd

import (
	"github.com/spf13/cobra"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/pool"
)

// newTokenCmd groups local reference-token administration. These commands
// write the token ledgers directly and exist so a local pool can be funded
// without an external asset system.
func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Administer the local reference tokens",
	}
	cmd.AddCommand(newTokenMintCmd(), newTokenApproveCmd())
	return cmd
}

// newTokenMintCmd credits freshly created units to an account.
func newTokenMintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mint <denom> <account> <amount>",
		Short: "Mint reference-token units to an account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := ledger.Address(args[1])
			if !account.Valid() {
				return ledger.ErrInvalidReceiver.Wrapf("account %q", args[1])
			}
			amount, err := parseAmountArg("amount", args[2])
			if err != nil {
				return err
			}

			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			tok, ok := e.tokens[args[0]]
			if !ok {
				return pool.ErrUnknownToken.Wrapf("denom %q", args[0])
			}
			if err := tok.Mint(e.ctx, account, amount); err != nil {
				return err
			}
			bal, err := tok.BalanceOf(e.ctx, account)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"denom":   args[0],
				"account": account.String(),
				"balance": bal.String(),
			})
		},
	}
}

// newTokenApproveCmd grants the pool account spending rights, the
// precondition for add-liquidity and swap.
func newTokenApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve <denom> <amount>",
		Short: "Approve the pool as spender of the caller's tokens",
		Long: `Approve the pool account as spender over the caller's balance of one
asset. Deposits and swaps pull funds through this allowance. Pass
--unlimited to grant the never-decremented maximum allowance.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFlag(cmd)
			if err != nil {
				return err
			}
			unlimited, err := cmd.Flags().GetBool("unlimited")
			if err != nil {
				return err
			}

			amount := ledger.MaxAllowance
			if !unlimited {
				if len(args) != 2 {
					return pool.ErrInvalidAmount.Wrap("amount required unless --unlimited is set")
				}
				amount, err = parseAmountArg("amount", args[1])
				if err != nil {
					return err
				}
			}

			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			tok, ok := e.tokens[args[0]]
			if !ok {
				return pool.ErrUnknownToken.Wrapf("denom %q", args[0])
			}
			if err := tok.Approve(e.ctx, caller, pool.PoolAddress, amount); err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"denom":     args[0],
				"owner":     caller.String(),
				"spender":   pool.PoolAddress.String(),
				"allowance": amount.String(),
			})
		},
	}

	cmd.Flags().String("from", "", "acting account (required)")
	cmd.Flags().Bool("unlimited", false, "grant the unlimited allowance sentinel")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
