package sources

import (
	"fmt"
	"slices"

	"github.com/reusee/arcflow/chains"
	"github.com/reusee/arcflow/names"
	"github.com/reusee/arcflow/projects"
	"go.starlark.net/syntax"
)

const (
	ScriptFile       = "script.star"
	ResourcesFile    = "resources.star"
	ActionsFile      = "actions.star"
	ActionPointsFile = "action_points.star"

	ObjectTypesDir     = "object_types"
	RuntimeModule      = "arcor2/runtime.star"
	BuiltinTypesModule = "arcor2/object_types.star"

	header = "# generated by arcflow"
)

// BuiltinTypes names the object types provided by the runtime.
type BuiltinTypes []string

func (b BuiltinTypes) Has(typeName string) bool {
	return slices.Contains(b, typeName)
}

func ObjectTypeModule(typeName string) string {
	return ObjectTypesDir + "/" + names.ModuleName(typeName) + ".star"
}

// ProgramSource generates the main script of a project.
// One call statement is emitted per action in flow order, each referencing the action id verbatim
// through the resources binding. A project without logic yields declarations only.
func ProgramSource(
	project *projects.Project,
	scene *projects.Scene,
	builtins BuiltinTypes,
	mainLoop bool,
) (string, error) {

	if err := chains.CheckIDs(project); err != nil {
		return "", &chains.GenerationError{Err: err}
	}
	chain, err := chains.Walk(project)
	if err != nil {
		return "", err
	}

	// variables
	taken := map[string]string{
		"res":           "",
		"main":          "",
		names.Resources: "",
	}
	var userTypes, builtinTypes []string
	for _, typeName := range scene.ObjectTypes() {
		if !names.IsIdentifier(typeName) {
			return "", &chains.GenerationError{Msg: fmt.Sprintf("object type %q is not an identifier", typeName)}
		}
		taken[typeName] = ""
		if builtins.Has(typeName) {
			builtinTypes = append(builtinTypes, typeName)
		} else {
			userTypes = append(userTypes, typeName)
		}
	}
	slices.Sort(userTypes)
	slices.Sort(builtinTypes)
	for _, obj := range scene.Objects {
		varName := names.VarName(obj.ID)
		if other, ok := taken[varName]; ok {
			return "", &chains.GenerationError{
				Msg: fmt.Sprintf("variable %s of scene object %s collides with %q", varName, obj.ID, other),
			}
		}
		taken[varName] = obj.ID
	}

	w := new(writer)
	w.line(0, header)
	w.blank()
	for _, typeName := range userTypes {
		w.line(0, "load(%s, %s)", quote(ObjectTypeModule(typeName)), quote(typeName))
	}
	if len(builtinTypes) > 0 {
		w.line(0, "load(%s, %s)", quote(BuiltinTypesModule), quoteAll(builtinTypes))
	}
	w.line(0, "load(%s, %s)", quote(ResourcesFile), quote(names.Resources))
	w.blank()
	w.blank()

	w.line(0, "def main():")
	w.line(1, "res = %s()", names.Resources)
	for _, obj := range scene.Objects {
		w.line(1, "%s = res.objects[%s]", names.VarName(obj.ID), quote(obj.ID))
	}

	if len(chain) > 0 {
		depth := 1
		if mainLoop {
			w.line(1, "while True:")
			depth = 2
		}
		for _, action := range chain {
			objectID, method, err := projects.ParseActionType(action.Type)
			if err != nil {
				return "", &chains.GenerationError{ActionID: action.ID, Err: err}
			}
			varName := names.VarName(objectID)
			if taken[varName] == "" {
				return "", &chains.GenerationError{
					ActionID: action.ID,
					Msg:      fmt.Sprintf("object %s is not in scene %s", objectID, scene.ID),
				}
			}
			if !names.IsIdentifier(method) {
				return "", &chains.GenerationError{
					ActionID: action.ID,
					Msg:      fmt.Sprintf("method %q is not an identifier", method),
				}
			}
			w.line(depth, "%s.%s(res.%s)", varName, method, action.ID)
		}
	}

	w.blank()
	w.blank()
	w.line(0, "main()")

	return w.String(), nil
}

func quote(s string) string {
	return syntax.Quote(s, false)
}

func quoteAll(ss []string) string {
	w := new(writer)
	for i, s := range ss {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(quote(s))
	}
	return w.String()
}
