package projects

import (
	"errors"
	"os"
	"reflect"
	"testing"
)

func loadProject(t *testing.T, path string) *Project {
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	project, err := DecodeProject(content, FormatOf(path))
	if err != nil {
		t.Fatal(err)
	}
	return project
}

func TestDecodeProject(t *testing.T) {
	project := loadProject(t, "testdata/project.json")
	if project.ID != "demo_v0" || project.SceneID != "scene1" {
		t.Fatalf("got %+v", project)
	}
	if len(project.Objects) != 3 {
		t.Fatalf("got %v", len(project.Objects))
	}
	action := project.Objects[0].ActionPoints[0].Actions[0]
	if action.ID != "MoveToBoxIN" || action.ObjectID() != "robot" || action.Method() != "move_to" {
		t.Fatalf("got %+v", action)
	}
	speed, ok := action.Parameter("speed")
	if !ok || speed.ValueDouble != 15 {
		t.Fatalf("got %+v", speed)
	}
}

func TestDecodeProjectYAML(t *testing.T) {
	project := loadProject(t, "testdata/project.yaml")
	action, err := project.FindAction("MoveToBoxIN")
	if err != nil {
		t.Fatal(err)
	}
	attempts, _ := action.Parameter("attempts")
	if v, err := attempts.Value(); err != nil || v != int64(3) {
		t.Fatalf("got %v %v", v, err)
	}
	careful, _ := action.Parameter("careful")
	if v, err := careful.Value(); err != nil || v != true {
		t.Fatalf("got %v %v", v, err)
	}
}

func TestDecodeSchemaViolation(t *testing.T) {
	content, err := os.ReadFile("testdata/bad_project.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeProject(content, FormatJSON); err == nil {
		t.Fatal("should fail")
	}
	if _, err := DecodeProject([]byte(`{"id": "x"}`), FormatJSON); err == nil {
		t.Fatal("should fail")
	}
	if _, err := DecodeProject([]byte(`{`), FormatJSON); err == nil {
		t.Fatal("should fail")
	}
}

func TestEncodeDecode(t *testing.T) {
	project := loadProject(t, "testdata/project.json")
	for _, format := range []Format{FormatJSON, FormatYAML} {
		content, err := Encode(project, format)
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := DecodeProject(content, format)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(project, decoded) {
			t.Fatalf("got %+v", decoded)
		}
	}
}

func TestDecodeScene(t *testing.T) {
	content, err := os.ReadFile("testdata/scene.json")
	if err != nil {
		t.Fatal(err)
	}
	scene, err := DecodeScene(content, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if types := scene.ObjectTypes(); !reflect.DeepEqual(types, []string{"Robot", "Tester", "Box"}) {
		t.Fatalf("got %v", types)
	}
	cache := scene.ObjectsCache(true)
	if cache["box_in"] == nil || cache["box_in"].ID != "BoxIN" {
		t.Fatalf("got %v", cache)
	}
	if _, err := scene.Object("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestActionsCache(t *testing.T) {
	project := loadProject(t, "testdata/project.json")
	cache, first, last := project.ActionsCache()
	if len(cache) != 3 {
		t.Fatalf("got %v", cache)
	}
	if first != "MoveToBoxIN" || last != "MoveToBoxOUT" {
		t.Fatalf("got %v %v", first, last)
	}

	project.ClearLogic()
	cache, first, last = project.ActionsCache()
	if len(cache) != 3 || first != "" || last != "" {
		t.Fatalf("got %v %v %v", cache, first, last)
	}
}

func TestObjectsCache(t *testing.T) {
	project := loadProject(t, "testdata/project.json")
	byID := project.ObjectsCache(false)
	if byID["BoxOUT"] == nil {
		t.Fatalf("got %v", byID)
	}
	byVar := project.ObjectsCache(true)
	if byVar["box_out"] == nil || byVar["box_out"].ID != "BoxOUT" {
		t.Fatalf("got %v", byVar)
	}
	if byVar["tester"] != byID["Tester"] {
		t.Fatal()
	}
}

func TestClearLogic(t *testing.T) {
	project := loadProject(t, "testdata/project.json")
	if !project.HasLogic() {
		t.Fatal()
	}
	original := project.Clone()

	project.ClearLogic()
	if project.HasLogic() {
		t.Fatal()
	}
	once := project.Clone()
	project.ClearLogic()
	if !reflect.DeepEqual(once, project) {
		t.Fatal("not idempotent")
	}

	// only slots are touched
	original.ClearLogic()
	if !reflect.DeepEqual(original, project) {
		t.Fatal()
	}
}

func TestClone(t *testing.T) {
	project := loadProject(t, "testdata/project.json")
	clone := project.Clone()
	if !reflect.DeepEqual(project, clone) {
		t.Fatal()
	}
	clone.Objects[0].ActionPoints[0].Actions[0].Inputs[0].Default = "x"
	clone.Objects[0].ActionPoints[0].Actions[0].Parameters[0].ValueString = "x"
	if project.Objects[0].ActionPoints[0].Actions[0].Inputs[0].Default != First {
		t.Fatal("shared inputs")
	}
	if project.Objects[0].ActionPoints[0].Actions[0].Parameters[0].ValueString != "gripper1" {
		t.Fatal("shared parameters")
	}
}

func TestFindActionPoint(t *testing.T) {
	project := loadProject(t, "testdata/project.json")

	ap, err := project.FindActionPoint("Tester.input")
	if err != nil {
		t.Fatal(err)
	}
	if ap.ID != "input" {
		t.Fatalf("got %v", ap.ID)
	}

	obj, ap, err := project.LookupActionPoint("BoxOUT.transfer")
	if err != nil {
		t.Fatal(err)
	}
	if obj.ID != "BoxOUT" || ap.ID != "transfer" {
		t.Fatalf("got %v %v", obj.ID, ap.ID)
	}

	// bare ids resolve to the first match
	obj, _, err = project.LookupActionPoint("transfer")
	if err != nil {
		t.Fatal(err)
	}
	if obj.ID != "BoxIN" {
		t.Fatalf("got %v", obj.ID)
	}

	_, err = project.FindActionPoint("BoxIN.nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) || notFound.ID != "BoxIN.nope" {
		t.Fatalf("got %v", err)
	}
}

func TestFindActionAndObject(t *testing.T) {
	project := loadProject(t, "testdata/project.json")
	if _, err := project.FindAction("MoveToTester"); err != nil {
		t.Fatal(err)
	}
	if _, err := project.FindAction("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
	if _, err := project.FindObject("BoxIN"); err != nil {
		t.Fatal(err)
	}
	if _, err := project.FindObject("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestParseActionType(t *testing.T) {
	obj, method, err := ParseActionType("robot/move_to")
	if err != nil {
		t.Fatal(err)
	}
	if obj != "robot" || method != "move_to" {
		t.Fatalf("got %v %v", obj, method)
	}
	for _, typ := range []string{"", "robot", "/move", "robot/", "a/b/c"} {
		if _, _, err := ParseActionType(typ); err == nil {
			t.Fatalf("%q should fail", typ)
		}
	}
}

func TestParameterValue(t *testing.T) {
	p := Parameter{ID: "x", Type: "nope"}
	if _, err := p.Value(); err == nil {
		t.Fatal("should fail")
	}
	p = Parameter{ID: "x", Type: TypeEnum, ValueString: "fast"}
	if v, err := p.Value(); err != nil || v != "fast" {
		t.Fatalf("got %v %v", v, err)
	}
	if p.IsReference() {
		t.Fatal()
	}
}

func TestDecodeObjectModel(t *testing.T) {
	model, err := DecodeObjectModel([]byte(`{"type": "Box", "box": {"id": "box_model", "size_x": 0.1, "size_y": 0.2, "size_z": 0.3}}`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if model.Ref() != (Model{ID: "box_model", Type: ModelBox}) || model.Box.SizeZ != 0.3 {
		t.Fatalf("got %+v", model)
	}

	model, err = DecodeObjectModel([]byte("type: Sphere\nsphere:\n  id: ball\n  radius: 2\n"), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if model.ID() != "ball" || model.Geometry() != model.Sphere {
		t.Fatalf("got %+v", model)
	}

	for _, doc := range []string{
		`{"type": "Box", "sphere": {"id": "x", "radius": 1}}`,
		`{"type": "Cone", "box": {"id": "x", "size_x": 1, "size_y": 1, "size_z": 1}}`,
		`{"type": "Cylinder", "cylinder": {"id": "x", "radius": -1, "height": 1}}`,
		`{"type": "Box", "box": {"id": "x", "size_x": 1, "size_y": 1, "size_z": 1}, "color": "red"}`,
	} {
		if _, err := DecodeObjectModel([]byte(doc), FormatJSON); err == nil {
			t.Fatalf("should fail: %s", doc)
		}
	}
}

func TestParseModelType(t *testing.T) {
	for _, typ := range ModelTypes {
		got, err := ParseModelType(typ.Key())
		if err != nil || got != typ {
			t.Fatalf("got %v %v", got, err)
		}
	}
	if _, err := ParseModelType("cone"); err == nil {
		t.Fatal("should fail")
	}
}
