package builds

import (
	"context"

	"github.com/reusee/arcflow/logs"
	"github.com/reusee/arcflow/notifies"
	"github.com/reusee/arcflow/projects"
	"github.com/reusee/arcflow/sources"
	"github.com/reusee/arcflow/storages"
)

// ImportScript replaces the logic of a stored project with the flow of script,
// then stores the script as the project sources. Nothing is stored if the script does not match the project.
type ImportScript func(ctx context.Context, projectID string, script string) (*projects.Project, error)

func (Module) ImportScript(
	getStorage storages.GetStorage,
	newSpan logs.NewSpan,
	logger logs.Logger,
	notifier notifies.Notifier,
	clock Clock,
) ImportScript {
	return func(ctx context.Context, projectID string, script string) (ret *projects.Project, err error) {
		ctx, _ = newSpan(ctx, "")
		logger.InfoContext(ctx, "import", "project", projectID, "bytes", len(script))

		defer func() {
			event := notifies.Event{
				Kind:      notifies.EventImported,
				ProjectID: projectID,
				Time:      clock(),
			}
			if err != nil {
				logger.ErrorContext(ctx, "import", "project", projectID, "error", err, "outcome", OutcomeOf(err))
				event.Kind = notifies.EventFailed
				event.Error = err.Error()
				err = logs.WrapSpan(ctx, err)
			} else {
				logger.InfoContext(ctx, "imported", "project", projectID)
			}
			_ = notifier.Notify(ctx, event)
		}()

		storage, err := getStorage(ctx)
		if err != nil {
			return nil, err
		}

		project, err := storage.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		updated := project.Clone()
		updated.ClearLogic()
		if err := sources.LogicFromSource(script, updated); err != nil {
			return nil, err
		}

		if err := storage.UpdateProjectSources(ctx, &projects.ProjectSources{
			ID:     projectID,
			Script: script,
		}); err != nil {
			return nil, err
		}
		if err := storage.UpdateProject(ctx, updated); err != nil {
			logger.WarnContext(ctx, "project sources updated without the project logic", "project", projectID, "error", err)
			return nil, err
		}

		return updated, nil
	}
}
