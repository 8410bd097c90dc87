package app

import (
	"log/slog"

	"github.com/trebuchet-org/treb-l2/internal/adapters/network"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config   *config.RuntimeConfig
	Log      *slog.Logger
	Progress usecase.ProgressSink

	// Shared dependencies
	Registry  *usecase.ContractRegistry
	Resolver  *network.Resolver
	Connector *network.Connector
	Watcher   *network.Watcher

	// Use cases
	DeployL2Token    *usecase.DeployL2Token
	ListNetworks     *usecase.ListNetworks
	ListContracts    *usecase.ListContracts
	ReadTokenBalance *usecase.ReadTokenBalance
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	progress usecase.ProgressSink,
	registry *usecase.ContractRegistry,
	resolver *network.Resolver,
	connector *network.Connector,
	watcher *network.Watcher,
	deployL2Token *usecase.DeployL2Token,
	listNetworks *usecase.ListNetworks,
	listContracts *usecase.ListContracts,
	readTokenBalance *usecase.ReadTokenBalance,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		Progress:         progress,
		Registry:         registry,
		Resolver:         resolver,
		Connector:        connector,
		Watcher:          watcher,
		DeployL2Token:    deployL2Token,
		ListNetworks:     listNetworks,
		ListContracts:    listContracts,
		ReadTokenBalance: readTokenBalance,
	}, nil
}

// Close abandons pending connections and closes every client
func (a *App) Close() {
	a.Registry.Close()
	a.Connector.Close()
}
