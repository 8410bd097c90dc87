package manifest

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-l2/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultManifest []byte

// knownABIs maps the abi names usable in a manifest to their bindings
var knownABIs = map[string]func() abi.ABI{
	"L2StandardTokenFactory": func() abi.ABI { return bindings.NewL2StandardTokenFactory().ABI() },
	"ERC20":                  func() abi.ABI { return bindings.NewERC20().ABI() },
}

// File is the YAML layout of a contract manifest
type File struct {
	Contracts []ContractSpec `yaml:"contracts"`
}

// ContractSpec is one contract and its address on each chain
type ContractSpec struct {
	Name        string            `yaml:"name"`
	ABI         string            `yaml:"abi,omitempty"`
	ABIJSON     string            `yaml:"abi_json,omitempty"`
	Deployments map[uint64]string `yaml:"deployments"`
}

// Manifest is the static registry of contract names, addresses and ABIs
type Manifest struct {
	entries map[domain.ContractKey]domain.ContractEntry
	names   map[string]bool
}

// NewManifest loads the built-in contracts and the project's manifest file if present
func NewManifest(cfg *config.RuntimeConfig, log *slog.Logger) (*Manifest, error) {
	m := &Manifest{
		entries: make(map[domain.ContractKey]domain.ContractEntry),
		names:   make(map[string]bool),
	}
	if err := m.Load(defaultManifest); err != nil {
		return nil, fmt.Errorf("failed to load built-in manifest: %w", err)
	}

	path := cfg.ManifestPath
	if path == "" {
		return m, nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Debug("no project manifest", "path", path)
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	if err := m.Load(data); err != nil {
		return nil, fmt.Errorf("failed to load manifest %s: %w", path, err)
	}
	log.Debug("loaded project manifest", "path", path, "contracts", len(m.names))
	return m, nil
}

// Load merges a YAML manifest. Later entries override earlier ones per (name, chain).
func (m *Manifest) Load(data []byte) error {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}

	for _, spec := range file.Contracts {
		if spec.Name == "" {
			return fmt.Errorf("manifest entry without a name")
		}
		contractABI, abiName, err := resolveABI(spec)
		if err != nil {
			return fmt.Errorf("contract %s: %w", spec.Name, err)
		}
		for chainID, address := range spec.Deployments {
			if !common.IsHexAddress(address) {
				return fmt.Errorf("contract %s on chain %d: %w: %q", spec.Name, chainID, domain.ErrInvalidAddress, address)
			}
			entry := domain.ContractEntry{
				Name:    spec.Name,
				ChainID: chainID,
				Address: common.HexToAddress(address),
				ABIName: abiName,
				ABI:     contractABI,
			}
			m.entries[entry.Key()] = entry
		}
		m.names[spec.Name] = true
	}
	return nil
}

func resolveABI(spec ContractSpec) (abi.ABI, string, error) {
	if spec.ABIJSON != "" {
		parsed, err := abi.JSON(strings.NewReader(spec.ABIJSON))
		if err != nil {
			return abi.ABI{}, "", fmt.Errorf("invalid abi_json: %w", err)
		}
		return parsed, "inline", nil
	}
	name := spec.ABI
	if name == "" {
		name = spec.Name
	}
	ctor, ok := knownABIs[name]
	if !ok {
		return abi.ABI{}, "", fmt.Errorf("unknown abi %q (known: %s)", name, strings.Join(lo.Keys(knownABIs), ", "))
	}
	return ctor(), name, nil
}

// Lookup returns the manifest entry for name on chainID
func (m *Manifest) Lookup(name string, chainID uint64) (domain.ContractEntry, error) {
	if !m.names[name] {
		return domain.ContractEntry{}, &domain.ConfigurationError{
			Name:        name,
			ChainID:     chainID,
			Reason:      "unknown contract",
			Suggestions: m.suggest(name),
		}
	}

	entry, ok := m.entries[domain.ContractKey{Name: name, ChainID: chainID}]
	if !ok {
		chains := lo.FilterMap(lo.Values(m.entries), func(e domain.ContractEntry, _ int) (string, bool) {
			return fmt.Sprintf("%d", e.ChainID), e.Name == name
		})
		sort.Strings(chains)
		return domain.ContractEntry{}, &domain.ConfigurationError{
			Name:    name,
			ChainID: chainID,
			Reason:  fmt.Sprintf("not deployed on this chain (available on: %s)", strings.Join(chains, ", ")),
		}
	}
	return entry, nil
}

// Entries returns every (name, chain) entry ordered by name, then chain id
func (m *Manifest) Entries() []domain.ContractEntry {
	entries := lo.Values(m.entries)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ChainID < entries[j].ChainID
	})
	return entries
}

// Names returns the sorted contract names
func (m *Manifest) Names() []string {
	names := lo.Keys(m.names)
	sort.Strings(names)
	return names
}

// suggest returns known names close to an unknown one
func (m *Manifest) suggest(name string) []string {
	names := m.Names()
	suggestions := lo.Map(fuzzy.Find(name, names), func(match fuzzy.Match, _ int) string {
		return match.Str
	})
	for _, candidate := range names {
		if len(fuzzy.Find(candidate, []string{name})) > 0 {
			suggestions = append(suggestions, candidate)
		}
	}
	suggestions = lo.Uniq(suggestions)
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

// Ensure the adapter implements the interface
var _ usecase.ContractManifest = (*Manifest)(nil)
