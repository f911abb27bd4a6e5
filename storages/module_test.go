package storages

import (
	"context"
	"errors"
	"testing"

	"github.com/reusee/arcflow/flowconfigs"
	"github.com/reusee/arcflow/modes"
	"github.com/reusee/dscope"
)

func TestModule(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Fork(
		dscope.Provide(flowconfigs.NewLoader()),
		dscope.Provide(flowconfigs.StorageDir("testdata")),
	).Call(func(
		getStorage GetStorage,
	) {
		ctx := context.Background()
		storage, err := getStorage(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := storage.(Logged); !ok {
			t.Fatalf("got %T", storage)
		}
		again, err := getStorage(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if again != storage {
			t.Fatal("should be cached")
		}
		project, err := storage.GetProject(ctx, "demo_v0")
		if err != nil {
			t.Fatal(err)
		}
		if project.ID != "demo_v0" {
			t.Fatalf("got %v", project.ID)
		}
		if _, err := storage.GetScene(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v", err)
		}
	})
}

func TestModuleNoStorage(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Fork(
		dscope.Provide(flowconfigs.NewLoader()),
	).Call(func(
		getStorage GetStorage,
	) {
		if _, err := getStorage(context.Background()); !errors.Is(err, ErrNoStorage) {
			t.Fatalf("got %v", err)
		}
	})
}
