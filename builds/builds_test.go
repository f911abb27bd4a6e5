package builds

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/reusee/arcflow/chains"
	"github.com/reusee/arcflow/flowconfigs"
	"github.com/reusee/arcflow/modes"
	"github.com/reusee/arcflow/notifies"
	"github.com/reusee/arcflow/projects"
	"github.com/reusee/arcflow/sources"
	"github.com/reusee/arcflow/storages"
	"github.com/reusee/dscope"
)

var testTime = time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []notifies.Event
}

func (r *recorder) Notify(_ context.Context, event notifies.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) kinds() (ret []notifies.EventKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		ret = append(ret, event.Kind)
	}
	slices.Sort(ret)
	return
}

type testEnv struct {
	dir      string
	storage  *storages.Dir
	recorder *recorder
	scope    dscope.Scope
}

func newEnv(t *testing.T) *testEnv {
	dir := t.TempDir()
	if err := os.CopyFS(dir, os.DirFS("testdata")); err != nil {
		t.Fatal(err)
	}
	env := &testEnv{
		dir:      dir,
		storage:  storages.NewDir(dir),
		recorder: new(recorder),
	}
	env.scope = dscope.New(
		modes.ForTest(t),
		new(Module),
	).Fork(
		dscope.Provide(flowconfigs.NewLoader()),
		func() storages.GetStorage {
			return func(context.Context) (storages.Storage, error) {
				return env.storage, nil
			}
		},
		func() notifies.Notifier {
			return env.recorder
		},
		func() Clock {
			return func() time.Time {
				return testTime
			}
		},
	)
	return env
}

func (e *testEnv) project(t *testing.T, id string) *projects.Project {
	project, err := e.storage.GetProject(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return project
}

func (e *testEnv) update(t *testing.T, fn func(*projects.Project)) {
	project := e.project(t, "demo_v0")
	fn(project)
	if err := e.storage.UpdateProject(context.Background(), project); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) setSources(t *testing.T, script string) {
	if err := e.storage.UpdateProjectSources(context.Background(), &projects.ProjectSources{
		ID:     "demo_v0",
		Script: script,
	}); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) generated(t *testing.T, mainLoop bool) string {
	ctx := context.Background()
	project := e.project(t, "demo_v0")
	scene, err := e.storage.GetScene(ctx, project.SceneID)
	if err != nil {
		t.Fatal(err)
	}
	builtins := dscope.Get[sources.BuiltinTypes](e.scope)
	src, err := sources.ProgramSource(project, scene, builtins, mainLoop)
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func TestPublish(t *testing.T) {
	env := newEnv(t)
	expectedScript := env.generated(t, true)

	env.scope.Call(func(
		publish Publish,
	) {
		pkg, err := publish(context.Background(), "demo_v0", "demo package")
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff([]string{
			"action_points.star",
			"actions.star",
			"data/models/box.json",
			"data/project.json",
			"data/scene.json",
			"object_types/box.star",
			"object_types/container.star",
			"object_types/tester.star",
			"package.json",
			"resources.star",
			"script.star",
		}, pkg.Paths()); diff != "" {
			t.Fatal(diff)
		}

		if string(pkg.Files["script.star"]) != expectedScript {
			t.Fatal(cmp.Diff(expectedScript, string(pkg.Files["script.star"])))
		}
		if !strings.Contains(expectedScript, "while True:") {
			t.Fatalf("got %s", expectedScript)
		}

		var meta PackageMeta
		if err := json.Unmarshal(pkg.Files["package.json"], &meta); err != nil {
			t.Fatal(err)
		}
		if meta.Name != "demo package" || !meta.Built.Equal(testTime) {
			t.Fatalf("got %+v", meta)
		}

		project, err := projects.DecodeProject(pkg.Files["data/project.json"], projects.FormatJSON)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(env.project(t, "demo_v0"), project); diff != "" {
			t.Fatal(diff)
		}

		box, err := env.storage.GetObjectType(context.Background(), "Box")
		if err != nil {
			t.Fatal(err)
		}
		if string(pkg.Files["object_types/box.star"]) != box.Source {
			t.Fatalf("got %s", pkg.Files["object_types/box.star"])
		}

		model, err := projects.DecodeObjectModel(pkg.Files["data/models/box.json"], projects.FormatJSON)
		if err != nil {
			t.Fatal(err)
		}
		if model.Ref() != *box.Model || model.Box.SizeX != 0.1 {
			t.Fatalf("got %+v", model)
		}

		inspection, err := sources.InspectResources(string(pkg.Files["resources.star"]))
		if err != nil {
			t.Fatal(err)
		}
		if len(inspection.Actions) != 3 || inspection.Project != "demo_v0" {
			t.Fatalf("got %+v", inspection)
		}

		// write
		out := filepath.Join(t.TempDir(), "pkg")
		if err := pkg.WriteDir(out); err != nil {
			t.Fatal(err)
		}
		stat, err := os.Stat(filepath.Join(out, "script.star"))
		if err != nil {
			t.Fatal(err)
		}
		if stat.Mode().Perm()&0100 == 0 {
			t.Fatalf("got %v", stat.Mode())
		}
		content, err := os.ReadFile(filepath.Join(out, "object_types", "tester.star"))
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != string(pkg.Files["object_types/tester.star"]) {
			t.Fatalf("got %s", content)
		}
	})

	if diff := cmp.Diff([]notifies.EventKind{notifies.EventPublished}, env.recorder.kinds()); diff != "" {
		t.Fatal(diff)
	}
	event := env.recorder.events[0]
	if event.ProjectID != "demo_v0" || event.Files != 11 || !event.Time.Equal(testTime) {
		t.Fatalf("got %+v", event)
	}
}

func TestPublishStoredScript(t *testing.T) {
	env := newEnv(t)
	stored := strings.ReplaceAll(env.generated(t, true), "while True:", "for _ in range(3):")
	env.update(t, func(project *projects.Project) {
		project.ClearLogic()
	})
	env.setSources(t, stored)

	env.scope.Call(func(
		publish Publish,
	) {
		pkg, err := publish(context.Background(), "demo_v0", "pkg")
		if err != nil {
			t.Fatal(err)
		}
		if string(pkg.Files["script.star"]) != stored {
			t.Fatalf("got %s", pkg.Files["script.star"])
		}
	})
}

func TestPublishInvalidStoredScript(t *testing.T) {
	env := newEnv(t)
	env.update(t, func(project *projects.Project) {
		project.ClearLogic()
	})
	env.setSources(t, "def main(:\n")

	env.scope.Call(func(
		publish Publish,
	) {
		_, err := publish(context.Background(), "demo_v0", "pkg")
		if !errors.Is(err, chains.ErrSource) {
			t.Fatalf("got %v", err)
		}
		if OutcomeOf(err) != OutcomeInvalidProject {
			t.Fatalf("got %v", OutcomeOf(err))
		}
	})

	if diff := cmp.Diff([]notifies.EventKind{notifies.EventFailed}, env.recorder.kinds()); diff != "" {
		t.Fatal(diff)
	}
}

func TestPublishWithoutStoredScript(t *testing.T) {
	env := newEnv(t)
	env.update(t, func(project *projects.Project) {
		project.ClearLogic()
	})

	env.scope.Call(func(
		publish Publish,
	) {
		pkg, err := publish(context.Background(), "demo_v0", "pkg")
		if err != nil {
			t.Fatal(err)
		}
		script := string(pkg.Files["script.star"])
		if strings.Contains(script, "while") || strings.Contains(script, "move_to") {
			t.Fatalf("got %s", script)
		}
		if err := sources.Check(sources.ScriptFile, script); err != nil {
			t.Fatal(err)
		}
	})
}

func TestPublishNotFound(t *testing.T) {
	env := newEnv(t)
	env.scope.Call(func(
		publish Publish,
	) {
		_, err := publish(context.Background(), "nope", "pkg")
		if OutcomeOf(err) != OutcomeNotFound {
			t.Fatalf("got %v", err)
		}

		// base type missing
		if err := os.Remove(filepath.Join(env.dir, "object_type", "Container.json")); err != nil {
			t.Fatal(err)
		}
		_, err = publish(context.Background(), "demo_v0", "pkg")
		if !errors.Is(err, storages.ErrNotFound) {
			t.Fatalf("got %v", err)
		}
		var notFound *storages.NotFoundError
		if !errors.As(err, &notFound) || notFound.ID != "Container" {
			t.Fatalf("got %v", err)
		}
	})
}

func TestPublishMissingModel(t *testing.T) {
	env := newEnv(t)
	if err := os.Remove(filepath.Join(env.dir, "model", "box_model.json")); err != nil {
		t.Fatal(err)
	}
	env.scope.Call(func(
		publish Publish,
	) {
		_, err := publish(context.Background(), "demo_v0", "pkg")
		var notFound *storages.NotFoundError
		if !errors.As(err, &notFound) || notFound.Kind != storages.KindModel || notFound.ID != "box_model" {
			t.Fatalf("got %v", err)
		}
		if OutcomeOf(err) != OutcomeNotFound {
			t.Fatalf("got %v", OutcomeOf(err))
		}
	})
}

func TestPublishWithoutModels(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	box, err := env.storage.GetObjectType(ctx, "Box")
	if err != nil {
		t.Fatal(err)
	}
	box.Model = nil
	if err := env.storage.UpdateObjectType(ctx, box); err != nil {
		t.Fatal(err)
	}
	env.scope.Call(func(
		publish Publish,
	) {
		pkg, err := publish(ctx, "demo_v0", "pkg")
		if err != nil {
			t.Fatal(err)
		}
		for _, path := range pkg.Paths() {
			if strings.HasPrefix(path, ModelsDir+"/") {
				t.Fatalf("got %s", path)
			}
		}
	})
}

func TestPublishMalformedChain(t *testing.T) {
	env := newEnv(t)
	env.update(t, func(project *projects.Project) {
		cache, _, _ := project.ActionsCache()
		cache["MoveToTester"].Outputs = nil
	})
	env.scope.Call(func(
		publish Publish,
	) {
		_, err := publish(context.Background(), "demo_v0", "pkg")
		if !errors.Is(err, chains.ErrSourceGeneration) {
			t.Fatalf("got %v", err)
		}
		if OutcomeOf(err).ExitCode() != 4 {
			t.Fatalf("got %v", OutcomeOf(err))
		}
	})
}

const reorderedScript = `load("resources.star", "Resources")

def main():
    res = Resources()
    robot = res.objects["Robot"]
    while True:
        robot.move_to(res.MoveToTester)
        robot.move_to(res.MoveToBoxOUT)
        robot.move_to(res.MoveToBoxIN)

main()
`

func TestImportScript(t *testing.T) {
	env := newEnv(t)
	env.scope.Call(func(
		importScript ImportScript,
		publish Publish,
	) {
		ctx := context.Background()
		updated, err := importScript(ctx, "demo_v0", reorderedScript)
		if err != nil {
			t.Fatal(err)
		}
		_, first, last := updated.ActionsCache()
		if first != "MoveToTester" || last != "MoveToBoxIN" {
			t.Fatalf("got %v %v", first, last)
		}

		stored := env.project(t, "demo_v0")
		if diff := cmp.Diff(updated, stored); diff != "" {
			t.Fatal(diff)
		}
		storedSources, err := env.storage.GetProjectSources(ctx, "demo_v0")
		if err != nil {
			t.Fatal(err)
		}
		if storedSources.Script != reorderedScript {
			t.Fatalf("got %s", storedSources.Script)
		}

		// publish follows the imported flow
		pkg, err := publish(ctx, "demo_v0", "pkg")
		if err != nil {
			t.Fatal(err)
		}
		script := string(pkg.Files["script.star"])
		if strings.Index(script, "res.MoveToTester") > strings.Index(script, "res.MoveToBoxIN") {
			t.Fatalf("got %s", script)
		}
	})

	if diff := cmp.Diff([]notifies.EventKind{
		notifies.EventImported,
		notifies.EventPublished,
	}, env.recorder.kinds()); diff != "" {
		t.Fatal(diff)
	}
}

func TestImportInvalidScript(t *testing.T) {
	env := newEnv(t)
	original := env.project(t, "demo_v0")
	env.scope.Call(func(
		importScript ImportScript,
	) {
		ctx := context.Background()
		for _, script := range []string{
			strings.ReplaceAll(reorderedScript, "MoveToTester", "MoveToNowhere"),
			strings.ReplaceAll(reorderedScript, "MoveToTester", "MoveToBoxIN"),
			strings.ReplaceAll(reorderedScript, "        robot.move_to(res.MoveToTester)\n", ""),
			"",
		} {
			_, err := importScript(ctx, "demo_v0", script)
			if !errors.Is(err, chains.ErrSource) {
				t.Fatalf("got %v", err)
			}
			if OutcomeOf(err) != OutcomeInvalidProject {
				t.Fatalf("got %v", OutcomeOf(err))
			}
		}
		if diff := cmp.Diff(original, env.project(t, "demo_v0")); diff != "" {
			t.Fatal(diff)
		}
		if _, err := env.storage.GetProjectSources(ctx, "demo_v0"); !errors.Is(err, storages.ErrNotFound) {
			t.Fatalf("got %v", err)
		}

		_, err := importScript(ctx, "nope", reorderedScript)
		if OutcomeOf(err) != OutcomeNotFound {
			t.Fatalf("got %v", err)
		}
	})
}

type failingSources struct {
	storages.Storage
}

var errSourcesDown = errors.New("sources down")

func (failingSources) UpdateProjectSources(context.Context, *projects.ProjectSources) error {
	return errSourcesDown
}

func TestImportSourcesFailure(t *testing.T) {
	env := newEnv(t)
	original := env.project(t, "demo_v0")
	env.scope.Fork(
		func() storages.GetStorage {
			return func(context.Context) (storages.Storage, error) {
				return failingSources{Storage: env.storage}, nil
			}
		},
	).Call(func(
		importScript ImportScript,
	) {
		_, err := importScript(context.Background(), "demo_v0", reorderedScript)
		if !errors.Is(err, errSourcesDown) {
			t.Fatalf("got %v", err)
		}
	})
	if diff := cmp.Diff(original, env.project(t, "demo_v0")); diff != "" {
		t.Fatal(diff)
	}
}

func TestPublishAll(t *testing.T) {
	env := newEnv(t)
	copied := env.project(t, "demo_v0").Clone()
	copied.ID = "demo_v0_copy"
	if err := env.storage.UpdateProject(context.Background(), copied); err != nil {
		t.Fatal(err)
	}

	env.scope.Fork(
		dscope.Provide(flowconfigs.MaxConcurrentBuilds(2)),
	).Call(func(
		publishAll PublishAll,
	) {
		pkgs, err := publishAll(context.Background(), []string{"demo_v0", "nope", "demo_v0_copy"}, "pkg")
		if err == nil || !errors.Is(err, storages.ErrNotFound) {
			t.Fatalf("got %v", err)
		}
		if !strings.Contains(err.Error(), "nope") {
			t.Fatalf("got %v", err)
		}
		if len(pkgs) != 3 || pkgs[0] == nil || pkgs[1] != nil || pkgs[2] == nil {
			t.Fatalf("got %v", pkgs)
		}
		if pkgs[2].ProjectID != "demo_v0_copy" {
			t.Fatalf("got %v", pkgs[2].ProjectID)
		}
		if string(pkgs[0].Files["script.star"]) != string(pkgs[2].Files["script.star"]) {
			t.Fatal("should be the same script")
		}
	})

	if diff := cmp.Diff([]notifies.EventKind{
		notifies.EventFailed,
		notifies.EventPublished,
		notifies.EventPublished,
	}, env.recorder.kinds()); diff != "" {
		t.Fatal(diff)
	}
}

func TestOutcome(t *testing.T) {
	for err, expected := range map[error]Outcome{
		nil: OutcomeOK,
		&storages.NotFoundError{Kind: storages.KindScene, ID: "s"}: OutcomeNotFound,
		&chains.SourceError{Kind: chains.KindParse}:                OutcomeInvalidProject,
		&chains.GenerationError{Msg: "x"}:                          OutcomeInvalidProject,
		errors.New("disk full"):                                    OutcomeError,
	} {
		if got := OutcomeOf(err); got != expected {
			t.Fatalf("%v: got %v", err, got)
		}
	}
}

func TestWriteUnder(t *testing.T) {
	root := t.TempDir()
	pkg := newPackage("demo_v0", PackageMeta{Name: "pkg", Built: testTime})
	pkg.add(scriptPath, []byte("x = 1\n"))
	dir, err := pkg.WriteUnder(root)
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(root, "demo_v0") {
		t.Fatalf("got %s", dir)
	}
	if _, err := os.Stat(filepath.Join(dir, scriptPath)); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"", ".", "..", "../x", "a/../../x", "/abs", `a\b`, ".hidden"} {
		pkg := newPackage(id, PackageMeta{})
		pkg.add(scriptPath, []byte("x = 1\n"))
		if _, err := pkg.WriteUnder(root); !errors.Is(err, ErrUnsafePath) {
			t.Fatalf("%q: got %v", id, err)
		}
	}
	entries, err := os.ReadDir(filepath.Dir(root))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if entry.Name() == "x" {
			t.Fatal("written outside root")
		}
	}

	pkg = newPackage("demo_v0", PackageMeta{})
	pkg.add("../escape.star", nil)
	if err := pkg.WriteDir(filepath.Join(root, "other")); !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("got %v", err)
	}
}
