package sources

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/reusee/arcflow/chains"
	"github.com/reusee/arcflow/names"
	"github.com/reusee/arcflow/projects"
)

type apBinding struct {
	name   string
	object *projects.ProjectObject
	ap     *projects.ActionPoint
}

func actionPointBindings(project *projects.Project) ([]apBinding, error) {
	var ret []apBinding
	seen := make(map[string]string)
	for obj, ap := range project.ActionPoints() {
		name := names.ActionPointBinding(obj.ID, ap.ID)
		ref := projects.ActionPointRef(obj.ID, ap.ID)
		if other, ok := seen[name]; ok {
			return nil, &chains.GenerationError{
				Msg: fmt.Sprintf("action points %s and %s bind to the same name %s", other, ref, name),
			}
		}
		if names.IsReserved(name) || name == names.Resources {
			return nil, &chains.GenerationError{Msg: fmt.Sprintf("action point %s binds to reserved name %s", ref, name)}
		}
		seen[name] = ref
		ret = append(ret, apBinding{
			name:   name,
			object: obj,
			ap:     ap,
		})
	}
	slices.SortFunc(ret, func(a, b apBinding) int {
		return cmp.Compare(a.name, b.name)
	})
	return ret, nil
}

func sortedActions(project *projects.Project) []*projects.Action {
	actions := slices.Collect(project.Actions())
	slices.SortFunc(actions, func(a, b *projects.Action) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return actions
}

// ResourcesSource generates the resources module: one binding per action point, one binding per action
// named verbatim by its id, and the Resources constructor used by the main script.
func ResourcesSource(project *projects.Project) (string, error) {
	if err := chains.CheckIDs(project); err != nil {
		return "", &chains.GenerationError{Err: err}
	}
	if err := chains.CheckParameters(project); err != nil {
		return "", err
	}
	if err := chains.CheckReferences(project); err != nil {
		return "", &chains.GenerationError{Err: err}
	}
	aps, err := actionPointBindings(project)
	if err != nil {
		return "", err
	}
	actions := sortedActions(project)

	w := new(writer)
	w.line(0, header)
	w.blank()
	w.line(0, "load(%s, %s)", quote(RuntimeModule), quoteAll([]string{"action", "action_point", "resources"}))
	w.blank()

	for _, binding := range aps {
		pose := binding.ap.Pose
		w.line(0, "%s = action_point(", binding.name)
		w.line(1, "object = %s,", quote(binding.object.ID))
		w.line(1, "id = %s,", quote(binding.ap.ID))
		w.line(1, "position = (%s, %s, %s),",
			floatLiteral(pose.Position.X),
			floatLiteral(pose.Position.Y),
			floatLiteral(pose.Position.Z),
		)
		w.line(1, "orientation = (%s, %s, %s, %s),",
			floatLiteral(pose.Orientation.X),
			floatLiteral(pose.Orientation.Y),
			floatLiteral(pose.Orientation.Z),
			floatLiteral(pose.Orientation.W),
		)
		w.line(0, ")")
		w.blank()
	}

	for _, action := range actions {
		w.line(0, "%s = action(", action.ID)
		w.line(1, "id = %s,", quote(action.ID))
		w.line(1, "type = %s,", quote(action.Type))
		for _, param := range action.Parameters {
			value, err := parameterLiteral(project, param)
			if err != nil {
				return "", &chains.GenerationError{ActionID: action.ID, Err: err}
			}
			w.line(1, "%s = %s,", param.ID, value)
		}
		w.line(0, ")")
		w.blank()
	}

	w.blank()
	w.line(0, "def %s():", names.Resources)
	w.line(1, "return resources(")
	w.line(2, "project = %s,", quote(project.ID))
	w.line(2, "scene = %s,", quote(project.SceneID))
	apNames := make([]string, 0, len(aps))
	for _, binding := range aps {
		apNames = append(apNames, binding.name)
	}
	writeList(w, 2, "action_points", apNames)
	actionIDs := make([]string, 0, len(actions))
	for _, action := range actions {
		actionIDs = append(actionIDs, action.ID)
	}
	writeList(w, 2, "actions", actionIDs)
	w.line(1, ")")

	return w.String(), nil
}

func writeList(w *writer, depth int, name string, elems []string) {
	if len(elems) == 0 {
		w.line(depth, "%s = [],", name)
		return
	}
	w.line(depth, "%s = [", name)
	for _, elem := range elems {
		w.line(depth+1, "%s,", elem)
	}
	w.line(depth, "],")
}

func parameterLiteral(project *projects.Project, param projects.Parameter) (string, error) {
	switch param.Type {
	case projects.TypeString, projects.TypeEnum:
		return quote(param.ValueString), nil
	case projects.TypeDouble:
		return floatLiteral(param.ValueDouble), nil
	case projects.TypeInteger:
		return strconv.FormatInt(param.ValueInteger, 10), nil
	case projects.TypeBoolean:
		if param.ValueBool {
			return "True", nil
		}
		return "False", nil
	case projects.TypeActionPoint, projects.TypePose:
		obj, ap, err := project.LookupActionPoint(param.ValueString)
		if err != nil {
			return "", fmt.Errorf("parameter %s: %w", param.ID, err)
		}
		binding := names.ActionPointBinding(obj.ID, ap.ID)
		if param.Type == projects.TypePose {
			return binding + ".pose", nil
		}
		return binding, nil
	}
	return "", fmt.Errorf("parameter %s: unknown type %q", param.ID, param.Type)
}

func floatLiteral(f float64) string {
	switch {
	case math.IsNaN(f):
		return `float("nan")`
	case math.IsInf(f, 1):
		return `float("inf")`
	case math.IsInf(f, -1):
		return `float("-inf")`
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
