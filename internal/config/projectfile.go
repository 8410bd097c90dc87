package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ProjectFileName is the project configuration file searched for from the working directory up
const ProjectFileName = "treb-l2.toml"

// ProjectFile is the raw treb-l2.toml structure
type ProjectFile struct {
	RPCEndpoints map[string]string         `toml:"rpc_endpoints"`
	Networks     map[string]NetworkSection `toml:"networks"`
	Deploy       DeploySection             `toml:"deploy"`
	Signer       SignerSection             `toml:"signer"`
	Gas          GasSection                `toml:"gas"`
	Manifest     ManifestSection           `toml:"manifest"`
	Connect      ConnectSection            `toml:"connect"`
}

// NetworkSection declares a network the built-in table does not know
type NetworkSection struct {
	ChainID     uint64 `toml:"chain_id"`
	RPCURL      string `toml:"rpc_url"`
	ExplorerURL string `toml:"explorer_url"`
}

type DeploySection struct {
	Network string   `toml:"network"`
	Pinned  []string `toml:"pinned"` // network names or chain ids
	Factory string   `toml:"factory"`
	Name    string   `toml:"name"`
	Symbol  string   `toml:"symbol"`
}

type SignerSection struct {
	PrivateKey string `toml:"private_key"` //nolint:gosec // usually an env var reference
	Confirm    *bool  `toml:"confirm"`
}

type GasSection struct {
	Policy     string  `toml:"policy"`
	Multiplier float64 `toml:"multiplier"`
	Gwei       float64 `toml:"gwei"`
}

type ManifestSection struct {
	Path string `toml:"path"`
}

type ConnectSection struct {
	Attempts     uint   `toml:"attempts"`
	Delay        string `toml:"delay"`
	PollInterval string `toml:"poll_interval"`
}

// loadDotEnv loads .env and .env.local from the project root so that
// ${VAR} references in treb-l2.toml can be expanded
func loadDotEnv(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadProjectFile loads and parses treb-l2.toml.
// Returns (nil, nil) when the file does not exist.
func loadProjectFile(projectRoot string) (*ProjectFile, error) {
	path := filepath.Join(projectRoot, ProjectFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var file ProjectFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}

	file.expandEnv()
	return &file, nil
}

// expandEnv expands environment variables in all string values
func (f *ProjectFile) expandEnv() {
	for name, url := range f.RPCEndpoints {
		f.RPCEndpoints[name] = os.ExpandEnv(url)
	}
	for name, network := range f.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		network.ExplorerURL = os.ExpandEnv(network.ExplorerURL)
		f.Networks[name] = network
	}

	f.Deploy.Network = os.ExpandEnv(f.Deploy.Network)
	for i, pinned := range f.Deploy.Pinned {
		f.Deploy.Pinned[i] = os.ExpandEnv(pinned)
	}
	f.Deploy.Name = os.ExpandEnv(f.Deploy.Name)
	f.Deploy.Symbol = os.ExpandEnv(f.Deploy.Symbol)
	f.Signer.PrivateKey = os.ExpandEnv(f.Signer.PrivateKey)
	f.Manifest.Path = os.ExpandEnv(f.Manifest.Path)
}

// applyDefaults layers the file's values under flags and environment variables
func (f *ProjectFile) applyDefaults(v *viper.Viper) {
	setString := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			v.SetDefault(key, value)
		}
	}

	setString("network", f.Deploy.Network)
	if len(f.Deploy.Pinned) > 0 {
		v.SetDefault("pinned", f.Deploy.Pinned)
	}
	setString("factory", f.Deploy.Factory)
	setString("name", f.Deploy.Name)
	setString("symbol", f.Deploy.Symbol)

	setString("private-key", f.Signer.PrivateKey)
	if f.Signer.Confirm != nil {
		v.SetDefault("confirm", *f.Signer.Confirm)
	}

	setString("gas-policy", f.Gas.Policy)
	if f.Gas.Multiplier != 0 {
		v.SetDefault("gas-multiplier", f.Gas.Multiplier)
	}
	if f.Gas.Gwei != 0 {
		v.SetDefault("gas-gwei", f.Gas.Gwei)
	}

	setString("manifest", f.Manifest.Path)

	if f.Connect.Attempts != 0 {
		v.SetDefault("connect-attempts", f.Connect.Attempts)
	}
	setString("connect-delay", f.Connect.Delay)
	setString("poll-interval", f.Connect.PollInterval)
}
