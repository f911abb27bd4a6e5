package builds

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/reusee/arcflow/names"
)

// Package is the file set of an execution package, keyed by slash separated relative path.
type Package struct {
	ProjectID string
	Meta      PackageMeta
	Files     map[string][]byte
}

type PackageMeta struct {
	Name  string    `json:"name"`
	Built time.Time `json:"built"`
}

const (
	PackageMetaFile = "package.json"
	ProjectFile     = "data/project.json"
	SceneFile       = "data/scene.json"
	ModelsDir       = "data/models"
)

// ModelFile is the path of the geometry model of an object type.
func ModelFile(typeName string) string {
	return ModelsDir + "/" + names.ModuleName(typeName) + ".json"
}

func newPackage(projectID string, meta PackageMeta) *Package {
	return &Package{
		ProjectID: projectID,
		Meta:      meta,
		Files:     make(map[string][]byte),
	}
}

func (p *Package) add(path string, content []byte) {
	p.Files[path] = content
}

func (p *Package) addMeta() error {
	content, err := json.MarshalIndent(p.Meta, "", "  ")
	if err != nil {
		return err
	}
	p.add(PackageMetaFile, content)
	return nil
}

func (p *Package) Paths() []string {
	return slices.Sorted(maps.Keys(p.Files))
}

var ErrUnsafePath = errors.New("unsafe package path")

// WriteUnder writes the package to <root>/<project id> and returns that directory.
// Project ids that would leave root are rejected.
func (p *Package) WriteUnder(root string) (string, error) {
	id := p.ProjectID
	if id == "" ||
		strings.HasPrefix(id, ".") ||
		strings.ContainsAny(id, `/\`) ||
		!filepath.IsLocal(id) {
		return "", fmt.Errorf("%w: project id %q", ErrUnsafePath, id)
	}
	dir := filepath.Join(root, id)
	return dir, p.WriteDir(dir)
}

// WriteDir writes the files under dir. The script is made executable.
func (p *Package) WriteDir(dir string) error {
	for _, path := range p.Paths() {
		if !filepath.IsLocal(filepath.FromSlash(path)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, path)
		}
		target := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		mode := os.FileMode(0644)
		if path == scriptPath {
			mode = 0755
		}
		if err := os.WriteFile(target, p.Files[path], mode); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
