package models

import "time"

// MigrationRecord marks a migration as applied to a namespace on a chain
type MigrationRecord struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Namespace   string    `json:"namespace"`
	ChainID     uint64    `json:"chainId"`
	Deployments []string  `json:"deployments"`
	CompletedAt time.Time `json:"completedAt"`
}
