package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
	"gopkg.in/yaml.v3"
)

// DefaultDir is where manifests live relative to the project root
const DefaultDir = "migrations"

var fileNamePattern = regexp.MustCompile(`^(\d+)_([A-Za-z0-9_\-]+)\.ya?ml$`)

// Manifest is a declarative migration:
//
//	# migrations/2_deploy_token.yaml
//	contracts:
//	  - Token
//	  - Faucet
type Manifest struct {
	Name      string   `yaml:"name,omitempty"`
	Contracts []string `yaml:"contracts"`
}

// Source combines the compiled-in migrations with the YAML manifests found
// in the project's migrations directory
type Source struct {
	dir     string
	builtin usecase.MigrationSource
	log     *slog.Logger
}

// NewSource creates a migration source for the project
func NewSource(cfg *config.RuntimeConfig, builtin usecase.MigrationSource, log *slog.Logger) *Source {
	dir := cfg.MigrationsDir
	if dir == "" {
		dir = DefaultDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot, dir)
	}
	return &Source{dir: dir, builtin: builtin, log: log}
}

// Migrations returns built-in and manifest migrations
func (s *Source) Migrations(ctx context.Context) ([]usecase.Migration, error) {
	var all []usecase.Migration
	if s.builtin != nil {
		builtin, err := s.builtin.Migrations(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, builtin...)
	}

	manifests, err := s.Load()
	if err != nil {
		return nil, err
	}
	return append(all, manifests...), nil
}

// Load parses every manifest in the migrations directory
func (s *Source) Load() ([]usecase.Migration, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []usecase.Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := fileNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}

		id, err := strconv.ParseUint(match[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid migration number in %s: %w", entry.Name(), err)
		}

		path := filepath.Join(s.dir, entry.Name())
		m, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		if len(m.Contracts) == 0 {
			return nil, fmt.Errorf("migration %s lists no contracts", entry.Name())
		}

		name := m.Name
		if name == "" {
			name = match[2]
		}
		migrations = append(migrations, usecase.Migration{
			ID:     uint(id),
			Name:   name,
			Source: path,
			Up:     deployContracts(m.Contracts),
		})
		s.log.Debug("loaded migration manifest", "file", entry.Name(), "contracts", len(m.Contracts))
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].ID < migrations[j].ID })
	return migrations, nil
}

func parseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", filepath.Base(path), err)
	}
	return &m, nil
}

// deployContracts requires every listed artifact, then deploys each one
// without constructor arguments
func deployContracts(names []string) usecase.MigrationFunc {
	return func(ctx context.Context, artifacts usecase.Artifacts, deployer usecase.Deployer) error {
		for _, name := range names {
			artifact, err := artifacts.Require(ctx, name)
			if err != nil {
				return err
			}
			if _, err := deployer.Deploy(ctx, artifact); err != nil {
				return err
			}
		}
		return nil
	}
}

var _ usecase.MigrationSource = (*Source)(nil)
