package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/simple-storage/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	store LocalConfigStore
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigStore) *SetConfig {
	return &SetConfig{
		store: store,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Value) == "" {
		return nil, fmt.Errorf("value for %s must not be empty", key)
	}

	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch key {
	case config.ConfigKeyNamespace:
		cfg.Namespace = params.Value
	case config.ConfigKeyNetwork:
		cfg.Network = params.Value
	}

	if err := uc.store.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: cfg,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		Value:         params.Value,
	}, nil
}

func parseConfigKey(raw string) (config.ConfigKey, error) {
	key, ok := config.ParseConfigKey(strings.ToLower(raw))
	if ok {
		return key, nil
	}

	validKeys := []string{}
	for _, k := range config.ValidConfigKeys() {
		if k == config.ConfigKeyNamespace {
			validKeys = append(validKeys, string(k)+" (ns)")
		} else {
			validKeys = append(validKeys, string(k))
		}
	}
	return "", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", raw, strings.Join(validKeys, ", "))
}
