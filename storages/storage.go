package storages

import (
	"context"
	"errors"
	"fmt"

	"github.com/reusee/arcflow/projects"
)

// Storage holds the documents a build reads and an import writes.
type Storage interface {
	GetProject(ctx context.Context, id string) (*projects.Project, error)
	GetScene(ctx context.Context, id string) (*projects.Scene, error)
	GetObjectType(ctx context.Context, id string) (*projects.ObjectType, error)
	GetProjectSources(ctx context.Context, id string) (*projects.ProjectSources, error)
	GetModel(ctx context.Context, id string, modelType projects.ModelType) (*projects.ObjectModel, error)
	ProjectIDs(ctx context.Context) ([]string, error)
	ObjectTypeIDs(ctx context.Context) ([]string, error)

	UpdateProject(ctx context.Context, project *projects.Project) error
	UpdateScene(ctx context.Context, scene *projects.Scene) error
	UpdateObjectType(ctx context.Context, objectType *projects.ObjectType) error
	UpdateProjectSources(ctx context.Context, sources *projects.ProjectSources) error
	UpdateModel(ctx context.Context, model *projects.ObjectModel) error
}

var ErrNotFound = errors.New("not found in storage")

type Kind string

const (
	KindProject        Kind = "project"
	KindScene          Kind = "scene"
	KindObjectType     Kind = "object_type"
	KindProjectSources Kind = "project_sources"
	KindModel          Kind = "model"
)

type NotFoundError struct {
	Kind Kind
	ID   string
}

var _ error = new(NotFoundError)

func (n *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s %s", n.Kind, n.ID, ErrNotFound.Error())
}

func (n *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// modelOfType treats a model stored under another type as missing.
func modelOfType(model *projects.ObjectModel, id string, modelType projects.ModelType) (*projects.ObjectModel, error) {
	if model.Type != modelType {
		return nil, &NotFoundError{Kind: KindModel, ID: id + "/" + modelType.Key()}
	}
	return model, nil
}

// Error is a storage failure other than a missing document.
type Error struct {
	Op  string
	Err error
}

var _ error = new(Error)

func (e *Error) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
