package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is the part of the node API used to deploy contracts
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dial connects to an RPC endpoint and verifies it serves the expected chain.
// A zero chainID accepts whatever the node reports.
func Dial(ctx context.Context, rpcURL string, chainID uint64) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	if chainID != 0 && networkChainID.Uint64() != chainID {
		client.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", chainID, networkChainID.Uint64())
	}

	return client, nil
}

var _ Backend = (*ethclient.Client)(nil)
