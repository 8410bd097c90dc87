package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-l2/internal/adapters/progress"
	"github.com/trebuchet-org/treb-l2/internal/app"
	"github.com/trebuchet-org/treb-l2/internal/config"
	domainconfig "github.com/trebuchet-org/treb-l2/internal/domain/config"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// releaseKey is the context key for the func that closes the app
	releaseKey contextKey = "release"
)

// ErrAlreadyReported is returned by commands that printed their own failure
var ErrAlreadyReported = errors.New("already reported")

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treb-l2",
		Short: "Deploy L2 standard tokens for L1 tokens",
		Long: `treb-l2 deploys the L2 representation of an L1 token through the
L2 standard token factory and keeps contract bindings for every
configured network.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipsApp(cmd.Name()) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			// Set up viper
			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink = progress.NewNopSink()
			if !v.GetBool("json") {
				sink = progress.NewSpinnerProgressReporterTo(cmd.ErrOrStderr())
			}

			// Initialize app with DI
			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			if shouldWarnMissingConfig(cmd.Name(), appInstance.Config) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: no "+config.ProjectFileName+" found, using defaults and environment variables")
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// deploy waits for confirmation until interrupted
			var cancel context.CancelFunc
			if appInstance.Config.Timeout > 0 && cmd.Name() != "deploy" {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			} else {
				ctx, cancel = context.WithCancel(ctx)
			}
			// run by Execute whether or not the command succeeded
			ctx = context.WithValue(ctx, releaseKey, func() {
				cancel()
				appInstance.Close()
			})

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., optimism, 10)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout for commands other than deploy (default 5m)")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Add main commands
	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	balanceCmd := NewBalanceCmd()
	balanceCmd.GroupID = "main"
	rootCmd.AddCommand(balanceCmd)

	// Management commands
	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	contractsCmd := NewContractsCmd()
	contractsCmd.GroupID = "management"
	rootCmd.AddCommand(contractsCmd)

	// Version command
	versionCmd := NewVersionCmd()
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

func skipsApp(cmdName string) bool {
	return cmdName == "version" || cmdName == "help" || cmdName == "completion"
}

// shouldWarnMissingConfig reports whether the command runs without a project file
func shouldWarnMissingConfig(cmdName string, cfg *domainconfig.RuntimeConfig) bool {
	if skipsApp(cmdName) || cfg.JSON {
		return false
	}
	return cfg.ConfigFile == ""
}

// getApp retrieves the app instance from the command context
// Execute runs root and then closes the app the command opened, also when
// the command failed.
func Execute(root *cobra.Command) error {
	cmd, err := root.ExecuteC()
	if cmd != nil {
		release(cmd)
	}
	return err
}

func release(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		return
	}
	if fn, ok := ctx.Value(releaseKey).(func()); ok {
		fn()
	}
}

func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// useColor reports whether output should be colored
func useColor(a *app.App) bool {
	return !a.Config.JSON
}
