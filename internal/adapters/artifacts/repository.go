package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// TruffleBuildDir is where truffle writes compiled contracts
const TruffleBuildDir = "build/contracts"

const maxSuggestions = 3

// Repository reads compiled contract artifacts from disk. It understands the
// forge layout (out/Name.sol/Name.json) and the truffle one
// (build/contracts/Name.json).
type Repository struct {
	projectRoot string
	outDir      string
	log         *slog.Logger

	mu      sync.RWMutex
	index   map[string][]string // contract name -> artifact paths
	indexed bool
	cache   map[string]*models.Artifact
}

// NewRepository creates a repository rooted at the project's artifacts directory
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	outDir := cfg.ArtifactsDir
	if outDir == "" {
		outDir = "out"
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(cfg.ProjectRoot, outDir)
	}
	return &Repository{
		projectRoot: cfg.ProjectRoot,
		outDir:      outDir,
		log:         log,
		cache:       make(map[string]*models.Artifact),
	}
}

// GetArtifact loads the artifact of the named contract
func (r *Repository) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path, err := r.locate(ctx, name)
	if err != nil {
		return nil, err
	}

	artifact, err := r.load(name, path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = artifact
	r.mu.Unlock()

	r.log.Debug("loaded artifact", "contract", name, "path", artifact.ArtifactPath)
	return artifact, nil
}

// ListArtifacts returns the names of all contracts with an artifact
func (r *Repository) ListArtifacts(ctx context.Context) ([]string, error) {
	index, err := r.buildIndex()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// locate finds the artifact file of a contract
func (r *Repository) locate(ctx context.Context, name string) (string, error) {
	candidates := []string{
		filepath.Join(r.outDir, name+".sol", name+".json"),
		filepath.Join(r.projectRoot, TruffleBuildDir, name+".json"),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	index, err := r.buildIndex()
	if err != nil {
		return "", err
	}

	paths := index[name]
	switch len(paths) {
	case 0:
		names, err := r.ListArtifacts(ctx)
		if err != nil {
			return "", err
		}
		return "", domain.ArtifactNotFoundErr{Name: name, Suggestions: suggest(name, names)}
	case 1:
		return paths[0], nil
	default:
		rel := make([]string, len(paths))
		for i, p := range paths {
			rel[i] = r.relative(p)
		}
		return "", fmt.Errorf("multiple artifacts found for %s:\n  - %s", name, strings.Join(rel, "\n  - "))
	}
}

// buildIndex walks the artifact directories once and maps contract names to files
func (r *Repository) buildIndex() (map[string][]string, error) {
	r.mu.RLock()
	if r.indexed {
		index := r.index
		r.mu.RUnlock()
		return index, nil
	}
	r.mu.RUnlock()

	index := make(map[string][]string)
	for _, dir := range []string{r.outDir, filepath.Join(r.projectRoot, TruffleBuildDir)} {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".json" {
				return nil
			}
			// forge emits Name.0.8.20.json when several compiler versions are used
			name := strings.TrimSuffix(d.Name(), ".json")
			if i := strings.Index(name, "."); i > 0 {
				name = name[:i]
			}
			index[name] = append(index[name], path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to index artifacts in %s: %w", r.relative(dir), err)
		}
	}

	r.mu.Lock()
	r.index = index
	r.indexed = true
	r.mu.Unlock()

	r.log.Debug("indexed artifacts", "count", len(index), "out", r.relative(r.outDir))
	return index, nil
}

// artifactFile is the on-disk shape; metadata is an object in forge
// output and a JSON encoded string in truffle output
type artifactFile struct {
	models.Artifact
	Metadata json.RawMessage `json:"metadata"`
}

func (r *Repository) load(name, path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", r.relative(path), err)
	}

	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", r.relative(path), err)
	}

	if len(file.ABI) > 0 {
		if _, err := abi.JSON(bytes.NewReader(file.ABI)); err != nil {
			return nil, fmt.Errorf("invalid ABI in %s: %w", r.relative(path), err)
		}
	}

	artifact := file.Artifact
	artifact.Name = name
	artifact.ArtifactPath = r.relative(path)

	if meta, ok := parseMetadata(file.Metadata); ok {
		artifact.Compiler = meta.Compiler.Version
		if artifact.SourcePath == "" {
			for source := range meta.Settings.CompilationTarget {
				artifact.SourcePath = source
			}
		}
	}

	return &artifact, nil
}

func parseMetadata(raw json.RawMessage) (*models.ArtifactMetadata, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false
		}
		raw = []byte(s)
	}
	var meta models.ArtifactMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, false
	}
	return &meta, true
}

func (r *Repository) relative(path string) string {
	if rel, err := filepath.Rel(r.projectRoot, path); err == nil {
		return rel
	}
	return path
}

// suggest returns close matches for a misspelled contract name
func suggest(name string, names []string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(s string) {
		if !seen[s] && len(out) < maxSuggestions {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, n := range names {
		if strings.EqualFold(n, name) {
			add(n)
		}
	}

	matches := fuzzy.Find(name, names)
	sort.Stable(matches)
	for _, m := range matches {
		add(m.Str)
	}

	lower := strings.ToLower(name)
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), lower) || strings.HasPrefix(lower, strings.ToLower(n)) {
			add(n)
		}
	}
	return out
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
