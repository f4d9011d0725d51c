package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/sahilm/fuzzy"

	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// ErrUnknownNetwork is returned for names missing from the networks file
var ErrUnknownNetwork = errors.New("unknown network")

// networksTOML represents the raw networks.toml structure
type networksTOML struct {
	Networks map[string]config.Network `toml:"networks"`
}

// NetworkResolver resolves network names from networks.toml
type NetworkResolver struct {
	path string

	once     sync.Once
	networks map[string]config.Network
	loadErr  error
}

// NewNetworkResolver creates a new network resolver. The file is read on first use.
func NewNetworkResolver(path string) *NetworkResolver {
	return &NetworkResolver{path: path}
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.NetworksFile)
}

// Names returns the configured network names in sorted order
func (r *NetworkResolver) Names(_ context.Context) []string {
	networks, err := r.load()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve returns the network with ${VAR} references expanded
func (r *NetworkResolver) Resolve(ctx context.Context, name string) (*config.Network, error) {
	networks, err := r.load()
	if err != nil {
		return nil, err
	}

	raw, ok := networks[name]
	if !ok {
		msg := fmt.Sprintf("%q not found in %s", name, r.path)
		if suggestions := Suggest(name, r.Names(ctx)); len(suggestions) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, msg)
	}

	network := raw
	network.Name = name
	if network.ChainID == 0 {
		return nil, fmt.Errorf("network %s: chain_id is required", name)
	}

	var missing []string
	expand := func(s string) string {
		return os.Expand(s, func(key string) string {
			val, ok := os.LookupEnv(key)
			if !ok {
				missing = append(missing, key)
			}
			return val
		})
	}
	network.RPCURL = expand(network.RPCURL)
	network.PrivateKey = expand(network.PrivateKey)
	network.ExplorerURL = expand(network.ExplorerURL)

	if len(missing) > 0 {
		return nil, fmt.Errorf("network %s: environment variables not set: %s", name, strings.Join(missing, ", "))
	}
	if network.RPCURL == "" {
		return nil, fmt.Errorf("network %s: rpc_url is required", name)
	}

	return &network, nil
}

func (r *NetworkResolver) load() (map[string]config.Network, error) {
	r.once.Do(func() {
		var raw networksTOML
		if _, err := toml.DecodeFile(r.path, &raw); err != nil {
			r.loadErr = fmt.Errorf("failed to parse %s: %w", r.path, err)
			return
		}
		r.networks = raw.Networks
		if r.networks == nil {
			r.networks = make(map[string]config.Network)
		}
	})
	return r.networks, r.loadErr
}

// Suggest returns up to three configured names close to name
func Suggest(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)
	out := make([]string, 0, 3)
	for _, m := range matches {
		if len(out) == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// Ensure NetworkResolver implements usecase.NetworkResolver
var _ usecase.NetworkResolver = (*NetworkResolver)(nil)
