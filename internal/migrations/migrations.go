// Package migrations holds the deployment steps compiled into the binary.
package migrations

import (
	"context"

	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// All returns the built-in migrations
func All() []usecase.Migration {
	return []usecase.Migration{
		{ID: 1, Name: "deploy_contracts", Source: "builtin", Up: DeployContracts},
	}
}

// Builtin serves the compiled-in migrations as a MigrationSource
type Builtin struct{}

// NewBuiltin creates the built-in migration source
func NewBuiltin() *Builtin {
	return &Builtin{}
}

func (Builtin) Migrations(context.Context) ([]usecase.Migration, error) {
	return All(), nil
}

var _ usecase.MigrationSource = (*Builtin)(nil)
