package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-l2/internal/cli/render"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List known networks",
		Long: `List the built-in networks and those configured in treb-l2.toml,
with their chain id, RPC endpoint and pinned/active role.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			renderer := render.NewNetworksRenderer(cmd.OutOrStdout(), useColor(app))
			return renderer.Render(result)
		},
	}

	return cmd
}
