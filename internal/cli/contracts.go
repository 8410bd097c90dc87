package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-l2/internal/cli/render"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// NewContractsCmd creates the contracts command
func NewContractsCmd() *cobra.Command {
	var (
		chain   string
		connect bool
	)

	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "List manifest contracts and their bindings",
		Long: `List every contract in the manifest with its address per chain and
whether a binding is ready. Without --connect, chains that are not
connected yet are reported as connecting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListContractsParams{Connect: connect}
			if chain != "" {
				network, err := app.Resolver.ResolveNetwork(cmd.Context(), chain)
				if err != nil {
					return fmt.Errorf("failed to resolve chain %s: %w", chain, err)
				}
				params.ChainID = network.ChainID
			}

			// pinned chains are connected read-only before listing
			for _, chainID := range app.Config.PinnedChains {
				if err := app.Registry.ConnectPinned(cmd.Context(), chainID); err != nil {
					app.Log.Warn("pinned network unavailable", "chain_id", chainID, "error", err)
				}
			}

			result, err := app.ListContracts.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewContractsRenderer(cmd.OutOrStdout(), useColor(app), app.Config.JSON)
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&chain, "chain", "", "Only list contracts on this network (name or chain id)")
	cmd.Flags().BoolVar(&connect, "connect", false, "Wait for connections instead of reporting them as connecting")

	return cmd
}
