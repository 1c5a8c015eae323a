package deployments

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

const (
	DataDir         = ".migrate"
	DeploymentsFile = "deployments.json"
	MigrationsFile  = "migrations.json"
)

// FileRepository stores deployments and applied migrations in json files
type FileRepository struct {
	dataDir     string
	mu          sync.RWMutex
	deployments map[string]*models.Deployment
	migrations  map[string][]*models.MigrationRecord // "namespace/chainID" -> records
	byAddress   map[uint64]map[string]string         // chainID -> lowercase address -> deployment ID
}

// NewFileRepository creates a repository in the configured data directory
func NewFileRepository(cfg *config.RuntimeConfig) (*FileRepository, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(cfg.ProjectRoot, DataDir)
	}
	return NewFileRepositoryAt(dataDir)
}

// NewFileRepositoryAt creates a repository rooted at dataDir
func NewFileRepositoryAt(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", dataDir, err)
	}

	r := &FileRepository{
		dataDir:     dataDir,
		deployments: make(map[string]*models.Deployment),
		migrations:  make(map[string][]*models.MigrationRecord),
	}

	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	return r, nil
}

// load reads all registry files
func (r *FileRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadFile(DeploymentsFile, &r.deployments); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load deployments: %w", err)
	}
	if err := r.loadFile(MigrationsFile, &r.migrations); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if r.deployments == nil {
		r.deployments = make(map[string]*models.Deployment)
	}
	if r.migrations == nil {
		r.migrations = make(map[string][]*models.MigrationRecord)
	}

	r.rebuildLookups()
	return nil
}

func (r *FileRepository) loadFile(filename string, v any) error {
	data, err := os.ReadFile(filepath.Join(r.dataDir, filename))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// saveFile writes data to a temp file and renames it over the target
func (r *FileRepository) saveFile(filename string, v any) error {
	path := filepath.Join(r.dataDir, filename)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func (r *FileRepository) rebuildLookups() {
	r.byAddress = make(map[uint64]map[string]string)
	for id, dep := range r.deployments {
		if r.byAddress[dep.ChainID] == nil {
			r.byAddress[dep.ChainID] = make(map[string]string)
		}
		r.byAddress[dep.ChainID][strings.ToLower(dep.Address)] = id
	}
}

// GetDeployment retrieves a deployment by ID
func (r *FileRepository) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dep, exists := r.deployments[id]
	if !exists {
		return nil, fmt.Errorf("deployment %s: %w", id, domain.ErrNotFound)
	}

	clone := *dep
	return &clone, nil
}

// GetDeploymentByAddress retrieves a deployment by chain ID and address
func (r *FileRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byAddress[chainID][strings.ToLower(address)]
	if !exists {
		return nil, fmt.Errorf("deployment at %s on chain %d: %w", address, chainID, domain.ErrNotFound)
	}

	clone := *r.deployments[id]
	return &clone, nil
}

// ListDeployments returns the deployments matching the filter
func (r *FileRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Deployment
	for _, dep := range r.deployments {
		if filter.Namespace != "" && dep.Namespace != filter.Namespace {
			continue
		}
		if filter.ChainID != 0 && dep.ChainID != filter.ChainID {
			continue
		}
		if filter.ContractName != "" && dep.ContractName != filter.ContractName {
			continue
		}
		if filter.MigrationID != 0 && dep.MigrationID != filter.MigrationID {
			continue
		}
		clone := *dep
		result = append(result, &clone)
	}
	return result, nil
}

// SaveDeployment stores a deployment, replacing an earlier one with the same ID
func (r *FileRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment.ID == "" {
		return fmt.Errorf("deployment of %s has no id", deployment.ContractName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *deployment
	r.deployments[deployment.ID] = &clone
	r.rebuildLookups()

	if err := r.saveFile(DeploymentsFile, r.deployments); err != nil {
		return fmt.Errorf("failed to save deployments: %w", err)
	}
	return nil
}

// CompletedMigrations returns the migrations applied to a namespace on a chain, by ID
func (r *FileRepository) CompletedMigrations(ctx context.Context, namespace string, chainID uint64) ([]*models.MigrationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.migrations[migrationKey(namespace, chainID)]
	out := make([]*models.MigrationRecord, len(records))
	for i, rec := range records {
		clone := *rec
		out[i] = &clone
	}
	return out, nil
}

// SaveMigration records a migration as applied
func (r *FileRepository) SaveMigration(ctx context.Context, record *models.MigrationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := migrationKey(record.Namespace, record.ChainID)
	clone := *record
	records := slices.DeleteFunc(r.migrations[key], func(m *models.MigrationRecord) bool {
		return m.ID == record.ID
	})
	records = append(records, &clone)
	slices.SortFunc(records, func(a, b *models.MigrationRecord) int {
		return cmp.Compare(a.ID, b.ID)
	})
	r.migrations[key] = records

	if err := r.saveFile(MigrationsFile, r.migrations); err != nil {
		return fmt.Errorf("failed to save migrations: %w", err)
	}
	return nil
}

func migrationKey(namespace string, chainID uint64) string {
	return fmt.Sprintf("%s/%d", namespace, chainID)
}

var (
	_ usecase.DeploymentRepository = (*FileRepository)(nil)
	_ usecase.MigrationRepository  = (*FileRepository)(nil)
)
