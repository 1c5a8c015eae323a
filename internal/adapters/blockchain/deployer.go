package blockchain

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// EVMDeployer signs and broadcasts contract creation transactions and waits
// for them to be mined
type EVMDeployer struct {
	backend Backend
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
	log     *slog.Logger
}

// NewEVMDeployer creates a deployer that signs with key for the given chain
func NewEVMDeployer(backend Backend, key *ecdsa.PrivateKey, chainID uint64, log *slog.Logger) *EVMDeployer {
	return &EVMDeployer{
		backend: backend,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: new(big.Int).SetUint64(chainID),
		log:     log,
	}
}

// DeployContract sends the creation transaction and blocks until it is mined
func (d *EVMDeployer) DeployContract(ctx context.Context, artifact *models.Artifact, args ...any) (*models.DeployReceipt, error) {
	parsed, bytecode, err := decodeArtifact(artifact)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(d.key, d.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx

	address, tx, _, err := bind.DeployContract(opts, *parsed, bytecode, d.backend, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send creation transaction: %w", err)
	}
	d.log.Debug("creation transaction sent", "contract", artifact.Name, "tx", tx.Hash().Hex(), "address", address.Hex())

	receipt, err := bind.WaitMined(ctx, d.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: tx %s", domain.ErrDeploymentReverted, tx.Hash().Hex())
	}

	code, err := d.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("no code at %s after deployment", address.Hex())
	}

	result := &models.DeployReceipt{
		Address:  address.Hex(),
		TxHash:   tx.Hash().Hex(),
		GasUsed:  receipt.GasUsed,
		Deployer: d.from.Hex(),
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return result, nil
}

// decodeArtifact parses the ABI and creation code of an artifact
func decodeArtifact(artifact *models.Artifact) (*abi.ABI, []byte, error) {
	if artifact.Bytecode.IsEmpty() {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrNoBytecode, artifact.Name)
	}

	bytecode := common.FromHex(artifact.Bytecode.Hex())

	parsed := &abi.ABI{}
	if len(artifact.ABI) > 0 {
		p, err := abi.JSON(bytes.NewReader(artifact.ABI))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse ABI of %s: %w", artifact.Name, err)
		}
		parsed = &p
	}
	return parsed, bytecode, nil
}

var _ usecase.ContractDeployer = (*EVMDeployer)(nil)
