package cmd

import (
	"cosmossdk.io/math"
	"github.com/spf13/cobra"
)

// newAddLiquidityCmd deposits both assets against the current ratio.
func newAddLiquidityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-liquidity <assetA> <assetB> <desiredA> <desiredB>",
		Short: "Deposit liquidity and mint pool shares",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFlag(cmd)
			if err != nil {
				return err
			}
			recipient, err := recipientFlag(cmd, caller)
			if err != nil {
				return err
			}
			deadline, err := deadlineFlag(cmd)
			if err != nil {
				return err
			}
			desiredA, err := parseAmountArg("desiredA", args[2])
			if err != nil {
				return err
			}
			desiredB, err := parseAmountArg("desiredB", args[3])
			if err != nil {
				return err
			}
			minA, minB, err := minAmountFlags(cmd)
			if err != nil {
				return err
			}

			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			amountA, amountB, liquidity, err := e.pool.AddLiquidity(cmd.Context(), caller,
				args[0], args[1], desiredA, desiredB, minA, minB, recipient, deadline)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"amount_a":  amountA.String(),
				"amount_b":  amountB.String(),
				"liquidity": liquidity.String(),
			})
		},
	}

	addTxFlags(cmd)
	cmd.Flags().String("min-a", "0", "minimum accepted amount of assetA")
	cmd.Flags().String("min-b", "0", "minimum accepted amount of assetB")
	return cmd
}

// newRemoveLiquidityCmd burns shares for a pro-rata payout.
func newRemoveLiquidityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-liquidity <assetA> <assetB> <liquidity>",
		Short: "Burn pool shares and withdraw both assets",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFlag(cmd)
			if err != nil {
				return err
			}
			recipient, err := recipientFlag(cmd, caller)
			if err != nil {
				return err
			}
			deadline, err := deadlineFlag(cmd)
			if err != nil {
				return err
			}
			liquidity, err := parseAmountArg("liquidity", args[2])
			if err != nil {
				return err
			}
			minA, minB, err := minAmountFlags(cmd)
			if err != nil {
				return err
			}

			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			amountA, amountB, err := e.pool.RemoveLiquidity(cmd.Context(), caller,
				args[0], args[1], liquidity, minA, minB, recipient, deadline)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"amount_a": amountA.String(),
				"amount_b": amountB.String(),
			})
		},
	}

	addTxFlags(cmd)
	cmd.Flags().String("min-a", "0", "minimum accepted amount of assetA")
	cmd.Flags().String("min-b", "0", "minimum accepted amount of assetB")
	return cmd
}

// newSwapCmd trades an exact input amount along a two-asset path.
func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap <tokenIn> <tokenOut> <amountIn>",
		Short: "Swap an exact input amount for the counter asset",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFlag(cmd)
			if err != nil {
				return err
			}
			recipient, err := recipientFlag(cmd, caller)
			if err != nil {
				return err
			}
			deadline, err := deadlineFlag(cmd)
			if err != nil {
				return err
			}
			amountIn, err := parseAmountArg("amountIn", args[2])
			if err != nil {
				return err
			}
			minOutRaw, err := cmd.Flags().GetString("min-out")
			if err != nil {
				return err
			}
			minOut, err := parseAmountArg("min-out", minOutRaw)
			if err != nil {
				return err
			}

			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			amountOut, err := e.pool.SwapExactTokensForTokens(cmd.Context(), caller,
				amountIn, minOut, []string{args[0], args[1]}, recipient, deadline)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"amount_in":  amountIn.String(),
				"amount_out": amountOut.String(),
			})
		},
	}

	addTxFlags(cmd)
	cmd.Flags().String("min-out", "0", "minimum accepted output amount")
	return cmd
}

func minAmountFlags(cmd *cobra.Command) (math.Int, math.Int, error) {
	minARaw, err := cmd.Flags().GetString("min-a")
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	minA, err := parseAmountArg("min-a", minARaw)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	minBRaw, err := cmd.Flags().GetString("min-b")
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	minB, err := parseAmountArg("min-b", minBRaw)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return minA, minB, nil
}
