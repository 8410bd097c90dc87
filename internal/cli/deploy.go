package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-l2/internal/adapters/progress"
	"github.com/trebuchet-org/treb-l2/internal/app"
	"github.com/trebuchet-org/treb-l2/internal/cli/render"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy <l1-token-address>",
		Short: "Deploy the L2 standard token for an L1 token",
		Long: `Call createStandardL2Token on the L2 token factory of the selected
network and wait for the StandardL2TokenCreated event.

Pinned networks are connected read-only first, then the selected network
with the configured signer. The confirmation wait is not bound by
--timeout; interrupt with Ctrl+C.`,
		Example: `  treb-l2 deploy 0x6B175474E89094C44Da98b954EedeAC495271d0F --network optimism --name "Dai Stablecoin" --symbol DAI`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return runDeploy(cmd, app, args[0])
		},
	}

	cmd.Flags().String("name", "", "L2 token name (default from treb-l2.toml [deploy])")
	cmd.Flags().String("symbol", "", "L2 token symbol (default from treb-l2.toml [deploy])")
	cmd.Flags().String("factory", "", "Manifest name of the factory contract")
	cmd.Flags().BoolP("yes", "y", false, "Skip the transaction confirmation prompt")
	cmd.Flags().String("gas-policy", "", "Gas price policy: auto, suggested, fast or fixed")
	cmd.Flags().Float64("gas-gwei", 0, "Gas price in gwei for the fixed policy")

	return cmd
}

func runDeploy(cmd *cobra.Command, app *app.App, source string) error {
	cfg := app.Config
	if cfg.Network == nil {
		return fmt.Errorf("no network selected, use --network or set network in treb-l2.toml [deploy]")
	}
	if cfg.Deploy.TokenName == "" || cfg.Deploy.TokenSymbol == "" {
		return fmt.Errorf("token name and symbol are required, use --name and --symbol")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, chainID := range cfg.PinnedChains {
		if err := app.Registry.ConnectPinned(ctx, chainID); err != nil {
			app.Log.Warn("pinned network unavailable", "chain_id", chainID, "error", err)
		}
	}
	if err := app.Registry.ConnectActive(ctx, cfg.Network.ChainID); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.Network.Name, err)
	}

	// follow switches of the active endpoint while the deployment runs
	if adaptor, ok := app.Registry.Adaptor(cfg.Network.ChainID); ok {
		watchCtx, cancelWatch := context.WithCancel(ctx)
		defer cancelWatch()
		go app.Watcher.Watch(watchCtx, adaptor.Backend(), cfg.Network.ChainID)
	}

	app.DeployL2Token.Observe(progress.NewSessionLogger(app.Log))
	// the shared sink is also the one the approval prompt pauses
	if observer, ok := app.Progress.(usecase.SessionObserver); ok && !cfg.JSON {
		app.DeployL2Token.Observe(observer)
	}

	result, err := app.DeployL2Token.Run(ctx, usecase.DeployL2TokenParams{SourceAddress: source})
	if err != nil {
		return err
	}

	renderer := render.NewDeployRenderer(cmd.OutOrStdout(), useColor(app), cfg.JSON)
	if err := renderer.Render(result); err != nil {
		return err
	}
	if result.Session.State != domain.StateDeployed {
		return ErrAlreadyReported
	}
	return nil
}
