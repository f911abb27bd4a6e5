package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reusee/arcflow/builds"
	"github.com/reusee/arcflow/cmds"
	"github.com/reusee/arcflow/flowconfigs"
	"github.com/reusee/arcflow/logs"
	"github.com/reusee/arcflow/modes"
	"github.com/reusee/arcflow/projects"
	"github.com/reusee/arcflow/sources"
	"github.com/reusee/arcflow/storages"
	"github.com/reusee/dscope"
)

type action func(ctx context.Context, scope dscope.Scope) error

var run action

var noLoop = cmds.Switch("-no-loop")

func define(name string, desc string, fn any) {
	cmds.Define(name, cmds.Func(fn).Desc(desc))
}

func init() {
	define("build", "publish a project into the output directory", func(projectID string) {
		run = buildProject(projectID)
	})
	define("build-all", "publish every stored project", func() {
		run = buildAll
	})
	define("import", "replace the logic of a stored project with the flow of a script", func(projectID string, scriptPath string) {
		run = importScript(projectID, scriptPath)
	})
	define("check", "build a project in memory and check the generated modules", func(projectID string) {
		run = checkProject(projectID)
	})
	define("emit", "print the script of a project file and a scene file", func(projectPath string, scenePath string) {
		run = emitScript(projectPath, scenePath)
	})
	define("extract", "print a project file with its logic taken from a script", func(projectPath string, scriptPath string) {
		run = extractLogic(projectPath, scriptPath)
	})
}

func main() {
	cmds.Execute(os.Args[1:])
	if run == nil {
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	err := run(ctx, scope)
	outcome := builds.OutcomeOf(err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", outcome, err)
	}
	os.Exit(outcome.ExitCode())
}

func buildProject(projectID string) action {
	return func(ctx context.Context, scope dscope.Scope) (err error) {
		scope.Call(func(
			publish builds.Publish,
			packageName flowconfigs.PackageName,
			outputDir flowconfigs.OutputDir,
			logger logs.Logger,
		) {
			var pkg *builds.Package
			pkg, err = publish(ctx, projectID, string(packageName))
			if err != nil {
				return
			}
			var dir string
			if dir, err = pkg.WriteUnder(string(outputDir)); err != nil {
				return
			}
			logger.Info("package written", "dir", dir)
		})
		return
	}
}

func buildAll(ctx context.Context, scope dscope.Scope) (err error) {
	scope.Call(func(
		getStorage storages.GetStorage,
		publishAll builds.PublishAll,
		packageName flowconfigs.PackageName,
		outputDir flowconfigs.OutputDir,
		logger logs.Logger,
	) {
		var storage storages.Storage
		storage, err = getStorage(ctx)
		if err != nil {
			return
		}
		var ids []string
		ids, err = storage.ProjectIDs(ctx)
		if err != nil {
			return
		}
		pkgs, publishErr := publishAll(ctx, ids, string(packageName))
		for _, pkg := range pkgs {
			if pkg == nil {
				continue
			}
			var dir string
			if dir, err = pkg.WriteUnder(string(outputDir)); err != nil {
				return
			}
			logger.Info("package written", "dir", dir)
		}
		err = publishErr
	})
	return
}

func importScript(projectID string, scriptPath string) action {
	return func(ctx context.Context, scope dscope.Scope) (err error) {
		content, err := os.ReadFile(scriptPath)
		if err != nil {
			return err
		}
		scope.Call(func(
			importScript builds.ImportScript,
		) {
			_, err = importScript(ctx, projectID, string(content))
		})
		return
	}
}

func checkProject(projectID string) action {
	return func(ctx context.Context, scope dscope.Scope) (err error) {
		scope.Call(func(
			publish builds.Publish,
			logger logs.Logger,
		) {
			var pkg *builds.Package
			pkg, err = publish(ctx, projectID, "check")
			if err != nil {
				return
			}
			if err = sources.Check(sources.ScriptFile, string(pkg.Files[sources.ScriptFile])); err != nil {
				return
			}
			var inspection *sources.Inspection
			inspection, err = sources.InspectResources(string(pkg.Files[sources.ResourcesFile]))
			if err != nil {
				return
			}
			logger.Info("check",
				"project", projectID,
				"actions", len(inspection.Actions),
				"action_points", len(inspection.ActionPoints),
			)
			fmt.Printf("%s: ok, %d actions, %d action points\n",
				projectID, len(inspection.Actions), len(inspection.ActionPoints))
		})
		return
	}
}

func readProject(path string) (*projects.Project, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return projects.DecodeProject(content, projects.FormatOf(path))
}

func emitScript(projectPath string, scenePath string) action {
	return func(ctx context.Context, scope dscope.Scope) (err error) {
		project, err := readProject(projectPath)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(scenePath)
		if err != nil {
			return err
		}
		scene, err := projects.DecodeScene(content, projects.FormatOf(scenePath))
		if err != nil {
			return err
		}
		builtins := dscope.Get[sources.BuiltinTypes](scope)
		src, err := sources.ProgramSource(project, scene, builtins, !*noLoop && project.HasLogic())
		if err != nil {
			return err
		}
		_, err = os.Stdout.WriteString(src)
		return err
	}
}

func extractLogic(projectPath string, scriptPath string) action {
	return func(ctx context.Context, scope dscope.Scope) (err error) {
		project, err := readProject(projectPath)
		if err != nil {
			return err
		}
		script, err := os.ReadFile(scriptPath)
		if err != nil {
			return err
		}
		updated := project.Clone()
		updated.ClearLogic()
		if err := sources.LogicFromSource(string(script), updated); err != nil {
			return err
		}
		format := projects.FormatOf(projectPath)
		content, err := projects.Encode(updated, format)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(content)
		return err
	}
}
