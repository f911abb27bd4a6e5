package storages

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/reusee/arcflow/projects"
)

// Dir stores documents as files under <root>/<kind>/<id>.json, or .yaml / .yml.
// Updates keep the format of the existing file.
type Dir struct {
	root string
}

var _ Storage = new(Dir)

func NewDir(root string) *Dir {
	return &Dir{
		root: root,
	}
}

var docExts = []string{".json", ".yaml", ".yml"}

func validID(id string) error {
	if id == "" ||
		strings.HasPrefix(id, ".") ||
		!filepath.IsLocal(id) ||
		strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid document id %q", id)
	}
	return nil
}

func (d *Dir) find(kind Kind, id string) (string, error) {
	if err := validID(id); err != nil {
		return "", &Error{Op: "get " + string(kind), Err: err}
	}
	for _, ext := range docExts {
		path := filepath.Join(d.root, string(kind), id+ext)
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", &Error{Op: "get " + string(kind), Err: err}
		}
		return path, nil
	}
	return "", &NotFoundError{Kind: kind, ID: id}
}

func getDoc[T any](
	ctx context.Context,
	d *Dir,
	kind Kind,
	id string,
	decode func([]byte, projects.Format) (*T, error),
) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := d.find(kind, id)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Op: "get " + string(kind), Err: err}
	}
	ret, err := decode(content, projects.FormatOf(path))
	if err != nil {
		return nil, &Error{Op: "get " + string(kind), Err: fmt.Errorf("%s: %w", path, err)}
	}
	return ret, nil
}

func (d *Dir) put(ctx context.Context, kind Kind, id string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validID(id); err != nil {
		return &Error{Op: "update " + string(kind), Err: err}
	}
	path, err := d.find(kind, id)
	if errors.Is(err, ErrNotFound) {
		path = filepath.Join(d.root, string(kind), id+".json")
	} else if err != nil {
		return err
	}

	content, err := projects.Encode(value, projects.FormatOf(path))
	if err != nil {
		return &Error{Op: "update " + string(kind), Err: err}
	}
	if err := writeFile(path, content); err != nil {
		return &Error{Op: "update " + string(kind), Err: err}
	}
	return nil
}

// writeFile replaces path atomically.
func writeFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func (d *Dir) ids(ctx context.Context, kind Kind) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(d.root, string(kind)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "list " + string(kind), Err: err}
	}
	var ret []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if !slices.Contains(docExts, strings.ToLower(ext)) || strings.HasPrefix(name, ".") {
			continue
		}
		ret = append(ret, strings.TrimSuffix(name, ext))
	}
	slices.Sort(ret)
	return slices.Compact(ret), nil
}

func (d *Dir) GetProject(ctx context.Context, id string) (*projects.Project, error) {
	return getDoc(ctx, d, KindProject, id, projects.DecodeProject)
}

func (d *Dir) GetScene(ctx context.Context, id string) (*projects.Scene, error) {
	return getDoc(ctx, d, KindScene, id, projects.DecodeScene)
}

func (d *Dir) GetObjectType(ctx context.Context, id string) (*projects.ObjectType, error) {
	return getDoc(ctx, d, KindObjectType, id, projects.DecodeObjectType)
}

func (d *Dir) GetProjectSources(ctx context.Context, id string) (*projects.ProjectSources, error) {
	return getDoc(ctx, d, KindProjectSources, id, projects.DecodeProjectSources)
}

func (d *Dir) GetModel(ctx context.Context, id string, modelType projects.ModelType) (*projects.ObjectModel, error) {
	model, err := getDoc(ctx, d, KindModel, id, projects.DecodeObjectModel)
	if err != nil {
		return nil, err
	}
	return modelOfType(model, id, modelType)
}

func (d *Dir) ProjectIDs(ctx context.Context) ([]string, error) {
	return d.ids(ctx, KindProject)
}

func (d *Dir) ObjectTypeIDs(ctx context.Context) ([]string, error) {
	return d.ids(ctx, KindObjectType)
}

func (d *Dir) UpdateProject(ctx context.Context, project *projects.Project) error {
	return d.put(ctx, KindProject, project.ID, project)
}

func (d *Dir) UpdateScene(ctx context.Context, scene *projects.Scene) error {
	return d.put(ctx, KindScene, scene.ID, scene)
}

func (d *Dir) UpdateObjectType(ctx context.Context, objectType *projects.ObjectType) error {
	return d.put(ctx, KindObjectType, objectType.ID, objectType)
}

func (d *Dir) UpdateProjectSources(ctx context.Context, sources *projects.ProjectSources) error {
	return d.put(ctx, KindProjectSources, sources.ID, sources)
}

func (d *Dir) UpdateModel(ctx context.Context, model *projects.ObjectModel) error {
	return d.put(ctx, KindModel, model.ID(), model)
}
