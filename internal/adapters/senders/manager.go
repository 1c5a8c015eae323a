package senders

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
)

// Manager resolves the senders configured for the active namespace
type Manager struct {
	namespace string
	deployer  string
	configs   map[string]config.SenderConfig
}

// NewManager creates a sender manager from the runtime configuration
func NewManager(cfg *config.RuntimeConfig) *Manager {
	m := &Manager{
		namespace: cfg.Namespace,
		configs:   map[string]config.SenderConfig{},
	}
	if cfg.DeployConfig != nil {
		m.deployer = cfg.DeployConfig.Deployer
		if cfg.DeployConfig.Senders != nil {
			m.configs = cfg.DeployConfig.Senders
		}
	}
	return m
}

// GetSender retrieves a sender configuration by name
func (m *Manager) GetSender(name string) (string, config.SenderConfig, error) {
	if name == "" {
		return m.getDefaultSender()
	}

	if sender, ok := m.configs[name]; ok {
		return name, sender, nil
	}

	// Try case-insensitive lookup
	for key, sender := range m.configs {
		if strings.EqualFold(key, name) {
			return key, sender, nil
		}
	}

	return "", config.SenderConfig{}, fmt.Errorf("%w: sender '%s' not found in namespace %s",
		domain.ErrSenderNotConfigured, name, m.namespace)
}

// getDefaultSender returns the sender used when none is named
func (m *Manager) getDefaultSender() (string, config.SenderConfig, error) {
	if len(m.configs) == 1 {
		for name, sender := range m.configs {
			return name, sender, nil
		}
	}

	for _, name := range []string{"deployer", "default", "local"} {
		if sender, ok := m.configs[name]; ok {
			return name, sender, nil
		}
	}

	return "", config.SenderConfig{}, fmt.Errorf("%w: no deployer sender in namespace %s (add [ns.%s.senders.deployer] to migrate.toml)",
		domain.ErrSenderNotConfigured, m.namespace, m.namespace)
}

// DeployerKey returns the private key that signs contract creations
func (m *Manager) DeployerKey() (*ecdsa.PrivateKey, error) {
	name, sender, err := m.GetSender(m.deployer)
	if err != nil {
		return nil, err
	}

	switch sender.Type {
	case config.SenderTypePrivateKey, "":
		key, err := parsePrivateKey(sender.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("sender %s: %w", name, err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: sender %s has unsupported type %q", domain.ErrSenderNotConfigured, name, sender.Type)
	}
}

// DeployerAddress returns the address of the deployer sender
func (m *Manager) DeployerAddress() (common.Address, error) {
	key, err := m.DeployerKey()
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

func parsePrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if raw == "" {
		return nil, fmt.Errorf("%w: private_key is empty", domain.ErrSenderNotConfigured)
	}
	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
