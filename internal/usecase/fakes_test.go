package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type memArtifacts struct {
	artifacts map[string]*models.Artifact
}

func newMemArtifacts(names ...string) *memArtifacts {
	m := &memArtifacts{artifacts: map[string]*models.Artifact{}}
	for _, name := range names {
		m.artifacts[name] = &models.Artifact{
			Name:         name,
			ArtifactPath: "out/" + name + ".sol/" + name + ".json",
			ABI:          []byte(`[]`),
			Bytecode:     models.Bytecode{Object: "0x6080604052"},
		}
	}
	return m
}

func (m *memArtifacts) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	a, ok := m.artifacts[name]
	if !ok {
		return nil, domain.ArtifactNotFoundErr{Name: name}
	}
	return a, nil
}

type fakeContractDeployer struct {
	mu       sync.Mutex
	deployed []string
	args     [][]any
	failOn   map[string]error
	dryRun   bool
}

func (f *fakeContractDeployer) DeployContract(ctx context.Context, artifact *models.Artifact, args ...any) (*models.DeployReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[artifact.Name]; ok {
		return nil, err
	}
	f.deployed = append(f.deployed, artifact.Name)
	f.args = append(f.args, args)
	n := len(f.deployed)
	return &models.DeployReceipt{
		Address:     fmt.Sprintf("0x%040x", n),
		TxHash:      fmt.Sprintf("0x%064x", n),
		BlockNumber: uint64(n),
		GasUsed:     21000,
		Deployer:    "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		Simulated:   f.dryRun,
	}, nil
}

type fakeDeployerFactory struct {
	deployer *fakeContractDeployer
	dryRun   *bool
	closed   bool
	err      error
}

func (f *fakeDeployerFactory) NewDeployer(ctx context.Context, network *config.Network, dryRun bool) (ContractDeployer, func(), error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.dryRun = &dryRun
	f.deployer.dryRun = dryRun
	return f.deployer, func() { f.closed = true }, nil
}

type memRegistry struct {
	deployments map[string]*models.Deployment
	migrations  []*models.MigrationRecord
}

func newMemRegistry() *memRegistry {
	return &memRegistry{deployments: map[string]*models.Deployment{}}
}

func (r *memRegistry) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	d, ok := r.deployments[id]
	if !ok {
		return nil, fmt.Errorf("deployment %s: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

func (r *memRegistry) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	for _, d := range r.deployments {
		if d.ChainID == chainID && strings.EqualFold(d.Address, address) {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRegistry) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	var out []*models.Deployment
	for _, d := range r.deployments {
		if filter.Namespace != "" && d.Namespace != filter.Namespace {
			continue
		}
		if filter.ChainID != 0 && d.ChainID != filter.ChainID {
			continue
		}
		if filter.ContractName != "" && d.ContractName != filter.ContractName {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *memRegistry) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	r.deployments[deployment.ID] = deployment
	return nil
}

func (r *memRegistry) CompletedMigrations(ctx context.Context, namespace string, chainID uint64) ([]*models.MigrationRecord, error) {
	var out []*models.MigrationRecord
	for _, m := range r.migrations {
		if m.Namespace == namespace && m.ChainID == chainID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRegistry) SaveMigration(ctx context.Context, record *models.MigrationRecord) error {
	for i, m := range r.migrations {
		if m.ID == record.ID && m.Namespace == record.Namespace && m.ChainID == record.ChainID {
			r.migrations[i] = record
			return nil
		}
	}
	r.migrations = append(r.migrations, record)
	return nil
}

type staticSource []Migration

func (s staticSource) Migrations(context.Context) ([]Migration, error) {
	return s, nil
}

type fakeConfirmer struct {
	answer bool
	asked  []string
}

func (f *fakeConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	f.asked = append(f.asked, prompt)
	return f.answer, nil
}

// deployAll builds a migration that deploys the named contracts without arguments
func deployAll(id uint, name string, contracts ...string) Migration {
	return Migration{
		ID:   id,
		Name: name,
		Up: func(ctx context.Context, artifacts Artifacts, deployer Deployer) error {
			for _, c := range contracts {
				a, err := artifacts.Require(ctx, c)
				if err != nil {
					return err
				}
				if _, err := deployer.Deploy(ctx, a); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

var errBoom = errors.New("boom")

type recordingSink struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *recordingSink) OnProgress(ctx context.Context, event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) last() ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return ProgressEvent{}
	}
	return r.events[len(r.events)-1]
}

func (r *recordingSink) stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	stages := make([]string, len(r.events))
	for i, e := range r.events {
		stages[i] = e.Stage
	}
	return stages
}
