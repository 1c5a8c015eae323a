//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/simple-storage/internal/adapters"
	"github.com/trebuchet-org/simple-storage/internal/config"
	"github.com/trebuchet-org/simple-storage/internal/logging"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewRunMigrations,
		usecase.NewMigrationStatus,
		usecase.NewListDeployments,
		usecase.NewShowDeployment,
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
