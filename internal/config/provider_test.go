package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// unsetAfter removes variables godotenv may have set for the rest of the process
func unsetAfter(t *testing.T, keys ...string) {
	t.Cleanup(func() {
		for _, key := range keys {
			_ = os.Unsetenv(key)
		}
	})
}

func TestProvider_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Provider(SetupViper(dir, nil))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Empty(t, cfg.ConfigFile)
	assert.Nil(t, cfg.Network)
	assert.Empty(t, cfg.PinnedChains)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.Equal(t, domain.ContractL2TokenFactory, cfg.Deploy.Factory)
	assert.True(t, cfg.Signer.Confirm)
	assert.Empty(t, cfg.Signer.PrivateKey)
	assert.Equal(t, config.GasPolicyAuto, cfg.Gas.Policy)
	assert.Equal(t, "contracts.yaml", cfg.ManifestPath)
	assert.Equal(t, config.ConnectConfig{Attempts: 3, Delay: time.Second, PollInterval: 2 * time.Second}, cfg.Connect)
}

func TestProvider_ProjectFile(t *testing.T) {
	dir := writeProject(t, map[string]string{
		ProjectFileName: `
[rpc_endpoints]
optimism = "${TREBL2_TEST_OP_RPC}"
mainnet = "https://eth.example"

[networks.devnet]
chain_id = 901
rpc_url = "http://127.0.0.1:9545"

[deploy]
network = "optimism"
pinned = ["mainnet", "901"]
name = "Dai Stablecoin"
symbol = "DAI"

[signer]
private_key = "${TREBL2_TEST_KEY}"
confirm = false

[gas]
policy = "fast"
multiplier = 1.5

[manifest]
path = "deployments/contracts.yaml"

[connect]
attempts = 5
delay = "250ms"
poll_interval = "100ms"
`,
		".env": "TREBL2_TEST_OP_RPC=https://op.example\n",
	})
	unsetAfter(t, "TREBL2_TEST_OP_RPC")
	t.Setenv("TREBL2_TEST_KEY", "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")

	cfg, err := Provider(SetupViper(dir, nil))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ProjectFileName), cfg.ConfigFile)
	require.NotNil(t, cfg.Network)
	assert.Equal(t, uint64(10), cfg.Network.ChainID)
	assert.Equal(t, "https://op.example", cfg.Network.RPCURL)
	assert.Equal(t, []uint64{1, 901}, cfg.PinnedChains)
	assert.Equal(t, "http://127.0.0.1:9545", cfg.Networks["devnet"].RPCURL)

	assert.Equal(t, config.DeployConfig{
		Factory:     domain.ContractL2TokenFactory,
		TokenName:   "Dai Stablecoin",
		TokenSymbol: "DAI",
	}, cfg.Deploy)
	assert.Equal(t, "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", cfg.Signer.PrivateKey)
	assert.False(t, cfg.Signer.Confirm)
	assert.Equal(t, config.GasConfig{Policy: config.GasPolicyFast, Multiplier: 1.5}, cfg.Gas)
	assert.Equal(t, "deployments/contracts.yaml", cfg.ManifestPath)
	assert.Equal(t, config.ConnectConfig{Attempts: 5, Delay: 250 * time.Millisecond, PollInterval: 100 * time.Millisecond}, cfg.Connect)
}

func TestProvider_Precedence(t *testing.T) {
	dir := writeProject(t, map[string]string{
		ProjectFileName: `
[deploy]
name = "File Token"
symbol = "FILE"
network = "optimism"
`,
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("TREB_L2_NAME", "Env Token")
		t.Setenv("TREB_L2_GAS_POLICY", "suggested")

		cfg, err := Provider(SetupViper(dir, nil))
		require.NoError(t, err)
		assert.Equal(t, "Env Token", cfg.Deploy.TokenName)
		assert.Equal(t, "FILE", cfg.Deploy.TokenSymbol)
		assert.Equal(t, config.GasPolicySuggested, cfg.Gas.Policy)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("TREB_L2_NAME", "Env Token")

		cmd := &cobra.Command{Use: "deploy"}
		cmd.Flags().String("name", "", "")
		cmd.Flags().String("symbol", "", "")
		cmd.Flags().StringP("network", "n", "", "")
		cmd.Flags().Bool("yes", false, "")
		require.NoError(t, cmd.Flags().Set("name", "Flag Token"))
		require.NoError(t, cmd.Flags().Set("network", "420"))
		require.NoError(t, cmd.Flags().Set("yes", "true"))

		cfg, err := Provider(SetupViper(dir, cmd))
		require.NoError(t, err)
		assert.Equal(t, "Flag Token", cfg.Deploy.TokenName)
		assert.Equal(t, "FILE", cfg.Deploy.TokenSymbol, "unset flags fall through to the file")
		assert.Equal(t, "optimism-goerli", cfg.Network.Name)
		assert.False(t, cfg.Signer.Confirm, "--yes skips confirmation")
	})

	t.Run("pinned from env", func(t *testing.T) {
		t.Setenv("TREB_L2_PINNED", "mainnet,11155111")

		cfg, err := Provider(SetupViper(dir, nil))
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 11155111}, cfg.PinnedChains)
	})
}

func TestProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr string
	}{
		{
			name:    "malformed file",
			file:    "[deploy\nnetwork = ",
			wantErr: "failed to parse treb-l2.toml",
		},
		{
			name:    "unknown network",
			file:    "[deploy]\nnetwork = \"atlantis\"",
			wantErr: "failed to resolve network atlantis",
		},
		{
			name:    "unknown pinned network",
			file:    "[deploy]\npinned = [\"atlantis\"]",
			wantErr: "failed to resolve pinned network atlantis",
		},
		{
			name:    "active network pinned",
			file:    "[deploy]\nnetwork = \"optimism\"\npinned = [\"10\"]",
			wantErr: "network optimism is pinned",
		},
		{
			name:    "unknown gas policy",
			file:    "[gas]\npolicy = \"cheap\"",
			wantErr: `unknown gas policy "cheap"`,
		},
		{
			name:    "fixed policy without price",
			file:    "[gas]\npolicy = \"fixed\"",
			wantErr: "fixed gas policy requires gas.gwei > 0",
		},
		{
			name:    "empty factory",
			file:    "[deploy]\nfactory = \" \"",
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, map[string]string{ProjectFileName: tt.file})

			cfg, err := Provider(SetupViper(dir, nil))
			if tt.wantErr == "" {
				// blank values never override the defaults
				require.NoError(t, err)
				assert.Equal(t, domain.ContractL2TokenFactory, cfg.Deploy.Factory)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	t.Run("walks up to the project file", func(t *testing.T) {
		root := writeProject(t, map[string]string{ProjectFileName: ""})
		nested := filepath.Join(root, "scripts", "deploy")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		t.Chdir(nested)

		found, err := FindProjectRoot()
		require.NoError(t, err)
		assertSameDir(t, root, found)
	})

	t.Run("falls back to the working directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		found, err := FindProjectRoot()
		require.NoError(t, err)
		assertSameDir(t, dir, found)
	})
}

// assertSameDir compares paths after resolving symlinks such as /tmp on macOS
func assertSameDir(t *testing.T, want, got string) {
	t.Helper()
	wantReal, err := filepath.EvalSymlinks(want)
	require.NoError(t, err)
	gotReal, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, wantReal, gotReal)
}
