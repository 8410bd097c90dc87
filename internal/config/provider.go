package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-l2/internal/adapters/network"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
)

// EnvPrefix prefixes every environment variable read through viper
const EnvPrefix = "TREB_L2"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project-root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env must be loaded before the project file so ${VAR} values expand
	loadDotEnv(projectRoot)

	file, err := loadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:  projectRoot,
		RPCEndpoints: make(map[string]string),
		Networks:     make(map[string]*config.Network),
	}
	if file != nil {
		cfg.ConfigFile = filepath.Join(projectRoot, ProjectFileName)
		file.applyDefaults(v)
		cfg.RPCEndpoints = lo.Assign(cfg.RPCEndpoints, file.RPCEndpoints)
		for name, section := range file.Networks {
			cfg.Networks[name] = &config.Network{
				Name:        name,
				ChainID:     section.ChainID,
				RPCURL:      section.RPCURL,
				ExplorerURL: section.ExplorerURL,
			}
		}
	}

	cfg.Debug = v.GetBool("debug")
	cfg.NonInteractive = v.GetBool("non-interactive")
	cfg.JSON = v.GetBool("json")
	cfg.Timeout = v.GetDuration("timeout")
	cfg.ManifestPath = v.GetString("manifest")

	cfg.Deploy = config.DeployConfig{
		Factory:     v.GetString("factory"),
		TokenName:   v.GetString("name"),
		TokenSymbol: v.GetString("symbol"),
	}
	cfg.Signer = config.SignerConfig{
		PrivateKey: v.GetString("private-key"),
		Confirm:    v.GetBool("confirm") && !v.GetBool("yes"),
	}
	cfg.Gas = config.GasConfig{
		Policy:     config.GasPolicyKind(strings.ToLower(v.GetString("gas-policy"))),
		Multiplier: v.GetFloat64("gas-multiplier"),
		Gwei:       v.GetFloat64("gas-gwei"),
	}
	cfg.Connect = config.ConnectConfig{
		Attempts:     v.GetUint("connect-attempts"),
		Delay:        v.GetDuration("connect-delay"),
		PollInterval: v.GetDuration("poll-interval"),
	}

	resolver := network.NewResolver(cfg)

	// Resolve network if specified
	if networkName := v.GetString("network"); networkName != "" {
		net, err := resolver.ResolveNetwork(context.Background(), networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = net
	}

	for _, input := range splitList(v.GetStringSlice("pinned")) {
		net, err := resolver.ResolveNetwork(context.Background(), input)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve pinned network %s: %w", input, err)
		}
		cfg.PinnedChains = append(cfg.PinnedChains, net.ChainID)
	}
	cfg.PinnedChains = lo.Uniq(cfg.PinnedChains)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList flattens comma separated values, as given through env vars
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// FindProjectRoot walks up from current directory to find treb-l2.toml.
// Without one, the working directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non-interactive", false)
	v.SetDefault("project-root", projectRoot)
	v.SetDefault("factory", domain.ContractL2TokenFactory)
	v.SetDefault("confirm", true)
	v.SetDefault("gas-policy", string(config.GasPolicyAuto))
	v.SetDefault("manifest", "contracts.yaml")
	v.SetDefault("connect-attempts", 3)
	v.SetDefault("connect-delay", "1s")
	v.SetDefault("poll-interval", "2s")

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			err := v.BindPFlag(f.Name, f)
			if err != nil {
				panic(err)
			}
		})
	}

	return v
}
