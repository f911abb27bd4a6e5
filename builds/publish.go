package builds

import (
	"context"
	"errors"
	"fmt"

	"github.com/reusee/arcflow/logs"
	"github.com/reusee/arcflow/notifies"
	"github.com/reusee/arcflow/projects"
	"github.com/reusee/arcflow/sources"
	"github.com/reusee/arcflow/storages"
	"github.com/reusee/arcflow/vars"
)

const scriptPath = sources.ScriptFile

// Publish assembles the execution package of a project.
type Publish func(ctx context.Context, projectID string, packageName string) (*Package, error)

func (Module) Publish(
	getStorage storages.GetStorage,
	builtins sources.BuiltinTypes,
	newSpan logs.NewSpan,
	logger logs.Logger,
	notifier notifies.Notifier,
	clock Clock,
) Publish {
	return func(ctx context.Context, projectID string, packageName string) (pkg *Package, err error) {
		ctx, _ = newSpan(ctx, "")
		logger.InfoContext(ctx, "publish", "project", projectID, "package", packageName)

		defer func() {
			event := notifies.Event{
				ProjectID: projectID,
				Package:   packageName,
				Time:      clock(),
			}
			if err != nil {
				logger.ErrorContext(ctx, "publish", "project", projectID, "error", err, "outcome", OutcomeOf(err))
				event.Kind = notifies.EventFailed
				event.Error = err.Error()
				err = logs.WrapSpan(ctx, err)
			} else {
				logger.InfoContext(ctx, "published", "project", projectID, "files", len(pkg.Files))
				event.Kind = notifies.EventPublished
				event.Files = len(pkg.Files)
			}
			_ = notifier.Notify(ctx, event)
		}()

		storage, err := getStorage(ctx)
		if err != nil {
			return nil, err
		}
		return build(ctx, storage, builtins, logger, projectID, PackageMeta{
			Name:  packageName,
			Built: clock(),
		})
	}
}

func build(
	ctx context.Context,
	storage storages.Storage,
	builtins sources.BuiltinTypes,
	logger logs.Logger,
	projectID string,
	meta PackageMeta,
) (*Package, error) {

	project, err := storage.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	scene, err := storage.GetScene(ctx, project.SceneID)
	if err != nil {
		return nil, err
	}

	pkg := newPackage(projectID, meta)

	// documents
	for path, doc := range map[string]any{
		ProjectFile: project,
		SceneFile:   scene,
	} {
		content, err := projects.Encode(doc, projects.FormatJSON)
		if err != nil {
			return nil, err
		}
		pkg.add(path, content)
	}

	// object types
	if err := addObjectTypes(ctx, storage, builtins, scene, pkg); err != nil {
		return nil, err
	}

	// script
	script, err := mainScript(ctx, storage, builtins, logger, project, scene)
	if err != nil {
		return nil, err
	}
	pkg.add(scriptPath, []byte(script))

	// auxiliary modules
	for path, generate := range map[string]func(*projects.Project) (string, error){
		sources.ResourcesFile:    sources.ResourcesSource,
		sources.ActionsFile:      sources.ActionsSource,
		sources.ActionPointsFile: sources.ActionPointsSource,
	} {
		src, err := generate(project)
		if err != nil {
			return nil, err
		}
		pkg.add(path, []byte(src))
	}

	if err := pkg.addMeta(); err != nil {
		return nil, err
	}

	return pkg, nil
}

// addObjectTypes adds a module per object type used by the scene and per base type they derive from,
// and the geometry model of every scene object type that has one.
// Built-in types are provided by the runtime.
func addObjectTypes(
	ctx context.Context,
	storage storages.Storage,
	builtins sources.BuiltinTypes,
	scene *projects.Scene,
	pkg *Package,
) error {
	added := make(map[string]bool)
	for _, typeName := range scene.ObjectTypes() {
		if builtins.Has(typeName) {
			continue
		}
		objectType, err := getObjectType(ctx, storage, typeName)
		if err != nil {
			return err
		}
		if ref := vars.DerefOrZero(objectType.Model); ref.ID != "" {
			model, err := storage.GetModel(ctx, ref.ID, ref.Type)
			if err != nil {
				return err
			}
			content, err := projects.Encode(model, projects.FormatJSON)
			if err != nil {
				return err
			}
			pkg.add(ModelFile(typeName), content)
		}

		for !added[typeName] {
			pkg.add(sources.ObjectTypeModule(objectType.ID), []byte(objectType.Source))
			added[typeName] = true
			typeName = objectType.Base
			if typeName == "" || builtins.Has(typeName) || added[typeName] {
				break
			}
			objectType, err = getObjectType(ctx, storage, typeName)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func getObjectType(ctx context.Context, storage storages.Storage, typeName string) (*projects.ObjectType, error) {
	objectType, err := storage.GetObjectType(ctx, typeName)
	if err != nil {
		return nil, err
	}
	if objectType.ID != typeName {
		return nil, fmt.Errorf("object type %s stored as %s", typeName, objectType.ID)
	}
	return objectType, nil
}

// mainScript generates the script of a project with logic.
// Without logic, a stored script is used if it checks, otherwise a script without the main loop is generated.
func mainScript(
	ctx context.Context,
	storage storages.Storage,
	builtins sources.BuiltinTypes,
	logger logs.Logger,
	project *projects.Project,
	scene *projects.Scene,
) (string, error) {
	if project.HasLogic() {
		return sources.ProgramSource(project, scene, builtins, true)
	}

	stored, err := storage.GetProjectSources(ctx, project.ID)
	if errors.Is(err, storages.ErrNotFound) {
		logger.InfoContext(ctx, "no stored script, generating one", "project", project.ID)
		return sources.ProgramSource(project, scene, builtins, false)
	}
	if err != nil {
		return "", err
	}

	if err := sources.Check(sources.ScriptFile, stored.Script); err != nil {
		return "", fmt.Errorf("stored script of %s: %w", project.ID, err)
	}
	return stored.Script, nil
}
