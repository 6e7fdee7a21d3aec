package cmd

import (
	"github.com/spf13/cobra"

	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/pool"
)

// newPoolCmd prints the pair, reserves and share supply.
func newPoolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pool",
		Short: "Show the pool's pair, reserves and share supply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			reserve0, reserve1, err := e.pool.Reserves(cmd.Context())
			if err != nil {
				return err
			}
			supply, err := e.pool.ShareTotalSupply(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"asset0":       e.pool.Asset0(),
				"asset1":       e.pool.Asset1(),
				"reserve0":     reserve0.String(),
				"reserve1":     reserve1.String(),
				"share_supply": supply.String(),
			})
		},
	}
}

// newPriceCmd quotes one asset in units of the other.
func newPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price <assetA> <assetB>",
		Short: "Quote one unit of assetA in units of assetB, scaled by 10^18",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			price, err := e.pool.GetPrice(args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"asset":     args[0],
				"price":     price.String(),
				"precision": pool.PricePrecision.String(),
			})
		},
	}
}

// newQuoteCmd prices a hypothetical exact-input swap without executing it.
func newQuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <tokenIn> <tokenOut> <amountIn>",
		Short: "Quote an exact-input swap without executing it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amountIn, err := parseAmountArg("amountIn", args[2])
			if err != nil {
				return err
			}

			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			reserve0, reserve1, err := e.pool.Reserves(cmd.Context())
			if err != nil {
				return err
			}
			reserveIn, reserveOut := reserve0, reserve1
			switch {
			case args[0] == e.pool.Asset0() && args[1] == e.pool.Asset1():
			case args[0] == e.pool.Asset1() && args[1] == e.pool.Asset0():
				reserveIn, reserveOut = reserve1, reserve0
			default:
				return pool.ErrInvalidPair.Wrapf("pool pair is %s/%s, got %s/%s",
					e.pool.Asset0(), e.pool.Asset1(), args[0], args[1])
			}

			amountOut, err := pool.GetAmountOut(amountIn, reserveIn, reserveOut)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"token_in":   args[0],
				"token_out":  args[1],
				"amount_in":  amountIn.String(),
				"amount_out": amountOut.String(),
			})
		},
	}
}

// newBalanceCmd prints an account's asset and share balances.
func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Show an account's asset and pool share balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := ledger.Address(args[0])
			if !account.Valid() {
				return ledger.ErrInvalidReceiver.Wrapf("account %q", args[0])
			}

			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			out := map[string]string{"account": account.String()}
			for _, denom := range []string{e.pool.Asset0(), e.pool.Asset1()} {
				bal, err := e.pool.TokenBalance(cmd.Context(), denom, account)
				if err != nil {
					return err
				}
				out[denom] = bal.String()
			}
			shares, err := e.pool.ShareBalanceOf(cmd.Context(), account)
			if err != nil {
				return err
			}
			out["shares"] = shares.String()
			return printJSON(cmd, out)
		},
	}
}
