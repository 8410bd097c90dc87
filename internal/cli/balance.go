package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-l2/internal/cli/render"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// NewBalanceCmd creates the balance command
func NewBalanceCmd() *cobra.Command {
	var chain string

	cmd := &cobra.Command{
		Use:   "balance <contract> <account>",
		Short: "Read an ERC20 balance from a manifest contract",
		Long: `Read balanceOf(account) from a manifest contract. The chain defaults to
the selected network; pinned networks can be read without switching.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var chainID uint64
			switch {
			case chain != "":
				network, err := app.Resolver.ResolveNetwork(cmd.Context(), chain)
				if err != nil {
					return fmt.Errorf("failed to resolve chain %s: %w", chain, err)
				}
				chainID = network.ChainID
			case app.Config.Network != nil:
				chainID = app.Config.Network.ChainID
			default:
				return fmt.Errorf("no network selected, use --chain or --network")
			}

			result, err := app.ReadTokenBalance.Run(cmd.Context(), usecase.ReadTokenBalanceParams{
				Contract: args[0],
				ChainID:  chainID,
				Account:  args[1],
			})
			if err != nil {
				return err
			}

			renderer := render.NewBalanceRenderer(cmd.OutOrStdout(), useColor(app), app.Config.JSON)
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&chain, "chain", "", "Network to read from (name or chain id)")

	return cmd
}
