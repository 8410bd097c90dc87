package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/treb-l2/internal/adapters/abi"
	"github.com/trebuchet-org/treb-l2/internal/adapters/events"
	"github.com/trebuchet-org/treb-l2/internal/adapters/gasprice"
	"github.com/trebuchet-org/treb-l2/internal/adapters/manifest"
	"github.com/trebuchet-org/treb-l2/internal/adapters/network"
	"github.com/trebuchet-org/treb-l2/internal/adapters/signer"
	"github.com/trebuchet-org/treb-l2/internal/adapters/transactor"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// ManifestSet provides the contract manifest
var ManifestSet = wire.NewSet(
	manifest.NewManifest,
	wire.Bind(new(usecase.ContractManifest), new(*manifest.Manifest)),
)

// NetworkSet provides network resolution, connections and switch detection
var NetworkSet = wire.NewSet(
	network.NewResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*network.Resolver)),

	network.NewConnector,
	wire.Bind(new(usecase.NetworkConnector), new(*network.Connector)),

	network.NewWatcher,

	events.NewFeed,
	wire.Bind(new(usecase.NetworkFeed), new(*events.Feed)),
)

// SignerSet provides the configured signer
var SignerSet = wire.NewSet(
	signer.FromConfig,
)

// TransactionSet provides transaction submission and receipt decoding
var TransactionSet = wire.NewSet(
	gasprice.FromConfig,

	transactor.NewTransactor,
	wire.Bind(new(usecase.Transactor), new(*transactor.Transactor)),

	abi.NewEventDecoder,
	wire.Bind(new(usecase.EventDecoder), new(*abi.EventDecoder)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ManifestSet,
	NetworkSet,
	SignerSet,
	TransactionSet,
)
