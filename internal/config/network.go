package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/samber/lo"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
)

const chainIDCacheFile = "chain-ids.json"

// ChainIDFetcher asks an RPC endpoint for its chain ID
type ChainIDFetcher func(ctx context.Context, rpcURL string) (uint64, error)

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	dataDir       string
	foundryConfig *config.FoundryConfig
	fetch         ChainIDFetcher
	cache         *NetworkCache
	mu            sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks  map[string]uint64 `json:"networks"` // name -> chainID
	RPCs      map[string]uint64 `json:"rpcs"`     // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a resolver that caches chain IDs in dataDir
func NewNetworkResolver(dataDir string, foundryConfig *config.FoundryConfig) *NetworkResolver {
	return NewNetworkResolverWithFetcher(dataDir, foundryConfig, fetchChainID)
}

// NewNetworkResolverWithFetcher creates a resolver with a custom chain ID source
func NewNetworkResolverWithFetcher(dataDir string, foundryConfig *config.FoundryConfig, fetch ChainIDFetcher) *NetworkResolver {
	r := &NetworkResolver{
		dataDir:       dataDir,
		foundryConfig: foundryConfig,
		fetch:         fetch,
	}
	r.loadCache()
	return r
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.DataDir, cfg.FoundryConfig)
}

// GetNetworks returns the names of all configured networks, sorted
func (r *NetworkResolver) GetNetworks() []string {
	names := lo.Keys(r.foundryConfig.RpcEndpoints)
	slices.Sort(names)
	return names
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(ctx context.Context, networkName string) (*config.Network, error) {
	rpcURL, exists := r.foundryConfig.RpcEndpoints[networkName]
	if !exists {
		return nil, fmt.Errorf("network '%s' not found in foundry.toml [rpc_endpoints]", networkName)
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("network '%s' has an empty RPC URL (is the env var set?)", networkName)
	}

	r.mu.RLock()
	chainID, cached := r.cache.RPCs[rpcURL]
	r.mu.RUnlock()

	if !cached {
		fetched, err := r.fetch(ctx, rpcURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
		}
		chainID = fetched
		r.updateCache(networkName, rpcURL, chainID)
	}

	return &config.Network{
		Name:    networkName,
		RPCURL:  rpcURL,
		ChainID: chainID,
	}, nil
}

func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId: %w", err)
	}
	return chainID.Uint64(), nil
}

func newNetworkCache() *NetworkCache {
	return &NetworkCache{
		Networks: make(map[string]uint64),
		RPCs:     make(map[string]uint64),
	}
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = newNetworkCache()

	data, err := os.ReadFile(filepath.Join(r.dataDir, chainIDCacheFile))
	if err != nil {
		return
	}

	var cache NetworkCache
	if err := json.Unmarshal(data, &cache); err != nil || cache.RPCs == nil || cache.Networks == nil {
		return
	}
	r.cache = &cache
}

// updateCache records a resolved chain ID and persists the cache
func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// the cache only saves round trips
	_ = r.saveCache()
}

func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(r.dataDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(r.dataDir, chainIDCacheFile), data, 0644)
}
