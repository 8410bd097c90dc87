//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-l2/internal/adapters"
	"github.com/trebuchet-org/treb-l2/internal/config"
	"github.com/trebuchet-org/treb-l2/internal/logging"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Registry is the binding resolver for every use case
		usecase.NewContractRegistry,
		wire.Bind(new(usecase.BindingResolver), new(*usecase.ContractRegistry)),

		// Use cases
		usecase.NewDeployL2Token,
		usecase.NewListNetworks,
		usecase.NewListContracts,
		usecase.NewReadTokenBalance,

		// App
		NewApp,
	)
	return nil, nil
}
