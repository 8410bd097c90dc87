// Hand-maintained injector matching the wire.Build graph in wire.go.
// Running wire regenerates this file with the same InitApp.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package app

import (
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-l2/internal/adapters/abi"
	"github.com/trebuchet-org/treb-l2/internal/adapters/events"
	"github.com/trebuchet-org/treb-l2/internal/adapters/gasprice"
	"github.com/trebuchet-org/treb-l2/internal/adapters/manifest"
	"github.com/trebuchet-org/treb-l2/internal/adapters/network"
	"github.com/trebuchet-org/treb-l2/internal/adapters/signer"
	"github.com/trebuchet-org/treb-l2/internal/adapters/transactor"
	"github.com/trebuchet-org/treb-l2/internal/config"
	"github.com/trebuchet-org/treb-l2/internal/logging"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// Injectors from wire.go:

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	runtimeConfig, err := config.Provider(v)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(runtimeConfig)
	manifestManifest, err := manifest.NewManifest(runtimeConfig, logger)
	if err != nil {
		return nil, err
	}
	resolver := network.NewResolver(runtimeConfig)
	signerProvider, err := signer.FromConfig(runtimeConfig, sink)
	if err != nil {
		return nil, err
	}
	connector := network.NewConnector(runtimeConfig, resolver, signerProvider, logger)
	feed := events.NewFeed(logger)
	contractRegistry, err := usecase.NewContractRegistry(manifestManifest, connector, feed, logger)
	if err != nil {
		return nil, err
	}
	watcher := network.NewWatcher(runtimeConfig, feed, logger)
	transactorTransactor := transactor.NewTransactor(runtimeConfig, logger)
	gasPricePolicy, err := gasprice.FromConfig(runtimeConfig)
	if err != nil {
		return nil, err
	}
	eventDecoder := abi.NewEventDecoder(logger)
	deployL2Token := usecase.NewDeployL2Token(runtimeConfig, contractRegistry, transactorTransactor, gasPricePolicy, eventDecoder, logger)
	listNetworks := usecase.NewListNetworks(resolver, connector, contractRegistry)
	listContracts := usecase.NewListContracts(manifestManifest, resolver, contractRegistry, sink)
	readTokenBalance := usecase.NewReadTokenBalance(contractRegistry)
	app, err := NewApp(runtimeConfig, logger, sink, contractRegistry, resolver, connector, watcher, deployL2Token, listNetworks, listContracts, readTokenBalance)
	if err != nil {
		return nil, err
	}
	return app, nil
}
