package models

import (
	"fmt"
	"time"
)

// Deployment is a contract instance created by a migration
type Deployment struct {
	ID           string    `json:"id" yaml:"id"`
	MigrationID  uint      `json:"migrationId" yaml:"migrationId"`
	ContractName string    `json:"contractName" yaml:"contractName"`
	Address      string    `json:"address" yaml:"address"`
	Namespace    string    `json:"namespace" yaml:"namespace"`
	ChainID      uint64    `json:"chainId" yaml:"chainId"`
	Network      string    `json:"network,omitempty" yaml:"network,omitempty"`
	Deployer     string    `json:"deployer" yaml:"deployer"`
	ArtifactPath string    `json:"artifactPath,omitempty" yaml:"artifactPath,omitempty"`
	Transaction  TxInfo    `json:"transaction" yaml:"transaction"`
	DryRun       bool      `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
}

// TxInfo holds the contract creation transaction details
type TxInfo struct {
	Hash        string `json:"hash,omitempty" yaml:"hash,omitempty"`
	BlockNumber uint64 `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	GasUsed     uint64 `json:"gasUsed" yaml:"gasUsed"`
}

// DeploymentID builds the registry key for a contract in a namespace and chain
func DeploymentID(namespace string, chainID uint64, contractName string) string {
	return fmt.Sprintf("%s/%d/%s", namespace, chainID, contractName)
}

// DeployReceipt is what a contract deployer reports back for a single creation
type DeployReceipt struct {
	Address     string
	TxHash      string
	BlockNumber uint64
	GasUsed     uint64
	Deployer    string
	Simulated   bool
}
