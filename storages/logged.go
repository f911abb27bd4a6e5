package storages

import (
	"context"
	"errors"
	"time"

	"github.com/reusee/arcflow/logs"
	"github.com/reusee/arcflow/projects"
)

// Logged logs every operation of a Storage.
type Logged struct {
	Storage
	logger logs.Logger
}

var _ Storage = Logged{}

func NewLogged(storage Storage, logger logs.Logger) Logged {
	return Logged{
		Storage: storage,
		logger:  logger,
	}
}

func (l Logged) log(ctx context.Context, op string, id string, t0 time.Time, err error) {
	switch {
	case err == nil:
		l.logger.DebugContext(ctx, "storage", "op", op, "id", id, "duration", time.Since(t0))
	case errors.Is(err, ErrNotFound):
		l.logger.InfoContext(ctx, "storage", "op", op, "id", id, "error", err)
	default:
		l.logger.WarnContext(ctx, "storage", "op", op, "id", id, "error", err)
	}
}

func (l Logged) GetProject(ctx context.Context, id string) (ret *projects.Project, err error) {
	defer func(t0 time.Time) { l.log(ctx, "get project", id, t0, err) }(time.Now())
	return l.Storage.GetProject(ctx, id)
}

func (l Logged) GetScene(ctx context.Context, id string) (ret *projects.Scene, err error) {
	defer func(t0 time.Time) { l.log(ctx, "get scene", id, t0, err) }(time.Now())
	return l.Storage.GetScene(ctx, id)
}

func (l Logged) GetObjectType(ctx context.Context, id string) (ret *projects.ObjectType, err error) {
	defer func(t0 time.Time) { l.log(ctx, "get object type", id, t0, err) }(time.Now())
	return l.Storage.GetObjectType(ctx, id)
}

func (l Logged) GetProjectSources(ctx context.Context, id string) (ret *projects.ProjectSources, err error) {
	defer func(t0 time.Time) { l.log(ctx, "get project sources", id, t0, err) }(time.Now())
	return l.Storage.GetProjectSources(ctx, id)
}

func (l Logged) GetModel(ctx context.Context, id string, modelType projects.ModelType) (ret *projects.ObjectModel, err error) {
	defer func(t0 time.Time) { l.log(ctx, "get model", id, t0, err) }(time.Now())
	return l.Storage.GetModel(ctx, id, modelType)
}

func (l Logged) UpdateProject(ctx context.Context, project *projects.Project) (err error) {
	defer func(t0 time.Time) { l.log(ctx, "update project", project.ID, t0, err) }(time.Now())
	return l.Storage.UpdateProject(ctx, project)
}

func (l Logged) UpdateScene(ctx context.Context, scene *projects.Scene) (err error) {
	defer func(t0 time.Time) { l.log(ctx, "update scene", scene.ID, t0, err) }(time.Now())
	return l.Storage.UpdateScene(ctx, scene)
}

func (l Logged) UpdateObjectType(ctx context.Context, objectType *projects.ObjectType) (err error) {
	defer func(t0 time.Time) { l.log(ctx, "update object type", objectType.ID, t0, err) }(time.Now())
	return l.Storage.UpdateObjectType(ctx, objectType)
}

func (l Logged) UpdateProjectSources(ctx context.Context, sources *projects.ProjectSources) (err error) {
	defer func(t0 time.Time) { l.log(ctx, "update project sources", sources.ID, t0, err) }(time.Now())
	return l.Storage.UpdateProjectSources(ctx, sources)
}

func (l Logged) UpdateModel(ctx context.Context, model *projects.ObjectModel) (err error) {
	defer func(t0 time.Time) { l.log(ctx, "update model", model.ID(), t0, err) }(time.Now())
	return l.Storage.UpdateModel(ctx, model)
}
