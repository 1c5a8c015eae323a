package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

// Artifacts gives a migration named access to compiled contracts
type Artifacts interface {
	Require(ctx context.Context, name string) (*models.Artifact, error)
}

// Deployer is handed to a migration to create contracts on the target network
type Deployer interface {
	Deploy(ctx context.Context, artifact *models.Artifact, args ...any) (*models.Deployment, error)
}

// MigrationFunc is the body of a migration
type MigrationFunc func(ctx context.Context, artifacts Artifacts, deployer Deployer) error

// Migration is a numbered deployment step. Migrations run in ID order and
// each one runs at most once per namespace and chain unless reset.
type Migration struct {
	ID     uint
	Name   string
	Source string
	Up     MigrationFunc
}

// Label returns the migration in N_name form
func (m Migration) Label() string {
	return fmt.Sprintf("%d_%s", m.ID, m.Name)
}

// SortMigrations orders migrations by ID and rejects duplicate IDs
func SortMigrations(migrations []Migration) ([]Migration, error) {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].ID == sorted[i-1].ID {
			return nil, fmt.Errorf("%w: %s and %s share id %d",
				domain.ErrDuplicateMigration, sorted[i-1].Label(), sorted[i].Label(), sorted[i].ID)
		}
	}
	return sorted, nil
}

// repositoryArtifacts adapts an ArtifactRepository to the Artifacts capability
type repositoryArtifacts struct {
	repo ArtifactRepository
}

// NewArtifacts exposes an ArtifactRepository to migrations
func NewArtifacts(repo ArtifactRepository) Artifacts {
	return &repositoryArtifacts{repo: repo}
}

func (a *repositoryArtifacts) Require(ctx context.Context, name string) (*models.Artifact, error) {
	return a.repo.GetArtifact(ctx, name)
}
