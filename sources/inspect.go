package sources

import (
	"fmt"

	"github.com/reusee/arcflow/chains"
	"github.com/reusee/arcflow/names"
	"github.com/reusee/arcflow/projects"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

var (
	actionCtor      = starlark.String("action")
	actionPointCtor = starlark.String("action_point")
	poseCtor        = starlark.String("pose")
	resourcesCtor   = starlark.String("resources")
)

// Inspection is what a resources module binds, as seen by a recording runtime.
type Inspection struct {
	Project      string
	Scene        string
	Actions      map[string]ActionBinding
	ActionPoints map[string]ActionPointBinding
}

type ActionBinding struct {
	ID         string
	Type       string
	Parameters map[string]any
}

type ActionPointBinding struct {
	Object string
	ID     string
	Pose   projects.Pose
}

// ActionPointValue is a parameter holding an action point, by reference.
type ActionPointValue string

// InspectResources evaluates a resources module against a runtime that only records values.
// Every top level action binding must be named by the id of the action it holds.
func InspectResources(src string) (*Inspection, error) {
	if _, err := Parse(ResourcesFile, src); err != nil {
		return nil, err
	}

	thread := &starlark.Thread{
		Name: "inspect",
		Load: func(_ *starlark.Thread, module string) (starlark.StringDict, error) {
			if module != RuntimeModule {
				return nil, fmt.Errorf("cannot load %s", module)
			}
			return runtimeModule(), nil
		},
	}
	globals, err := starlark.ExecFileOptions(fileOptions, thread, ResourcesFile, src, nil)
	if err != nil {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: err}
	}

	ctor, ok := globals[names.Resources].(starlark.Callable)
	if !ok {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: errNoResources}
	}
	value, err := starlark.Call(thread, ctor, nil, nil)
	if err != nil {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: err}
	}
	res, ok := value.(*starlarkstruct.Struct)
	if !ok || res.Constructor() != resourcesCtor {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: fmt.Errorf("%s() returned %s", names.Resources, value.Type())}
	}

	ret := &Inspection{
		Actions:      make(map[string]ActionBinding),
		ActionPoints: make(map[string]ActionPointBinding),
	}
	if ret.Project, err = attrString(res, "project"); err != nil {
		return nil, err
	}
	if ret.Scene, err = attrString(res, "scene"); err != nil {
		return nil, err
	}

	for name, value := range globals {
		s, ok := value.(*starlarkstruct.Struct)
		if !ok {
			continue
		}
		switch s.Constructor() {

		case actionCtor:
			binding, err := toActionBinding(s)
			if err != nil {
				return nil, err
			}
			if binding.ID != name {
				return nil, &chains.SourceError{
					Kind:     chains.KindUnknown,
					ActionID: binding.ID,
					Err:      fmt.Errorf("bound to %s", name),
				}
			}
			ret.Actions[name] = binding

		case actionPointCtor:
			binding, err := toActionPointBinding(s)
			if err != nil {
				return nil, err
			}
			ret.ActionPoints[name] = binding

		}
	}

	// every listed action must be bound at top level
	list, err := res.Attr("actions")
	if err != nil {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: err}
	}
	iterable, ok := list.(starlark.Iterable)
	if !ok {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: fmt.Errorf("actions is %s", list.Type())}
	}
	iter := iterable.Iterate()
	defer iter.Done()
	var elem starlark.Value
	for iter.Next(&elem) {
		s, ok := elem.(*starlarkstruct.Struct)
		if !ok || s.Constructor() != actionCtor {
			return nil, &chains.SourceError{Kind: chains.KindParse, Err: fmt.Errorf("not an action: %s", elem)}
		}
		id, err := attrString(s, "id")
		if err != nil {
			return nil, err
		}
		if _, ok := ret.Actions[id]; !ok {
			return nil, &chains.SourceError{Kind: chains.KindMissing, ActionID: id}
		}
	}

	return ret, nil
}

func runtimeModule() starlark.StringDict {
	return starlark.StringDict{
		"action": structBuiltin("action", actionCtor, nil),
		"action_point": structBuiltin("action_point", actionPointCtor, func(kwargs []starlark.Tuple) ([]starlark.Tuple, error) {
			fields := make(starlark.StringDict)
			for _, kv := range kwargs {
				key, _ := starlark.AsString(kv[0])
				if key == "position" || key == "orientation" {
					fields[key] = kv[1]
				}
			}
			pose := starlarkstruct.FromStringDict(poseCtor, fields)
			return append(kwargs, starlark.Tuple{starlark.String("pose"), pose}), nil
		}),
		"resources": structBuiltin("resources", resourcesCtor, nil),
	}
}

func structBuiltin(
	name string,
	ctor starlark.Value,
	extend func([]starlark.Tuple) ([]starlark.Tuple, error),
) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) > 0 {
			return nil, fmt.Errorf("%s: unexpected positional arguments", b.Name())
		}
		if extend != nil {
			var err error
			kwargs, err = extend(kwargs)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", b.Name(), err)
			}
		}
		return starlarkstruct.FromKeywords(ctor, kwargs), nil
	})
}

func attrString(s *starlarkstruct.Struct, name string) (string, error) {
	value, err := s.Attr(name)
	if err != nil {
		return "", &chains.SourceError{Kind: chains.KindParse, Err: err}
	}
	str, ok := starlark.AsString(value)
	if !ok {
		return "", &chains.SourceError{Kind: chains.KindParse, Err: fmt.Errorf("%s is %s", name, value.Type())}
	}
	return str, nil
}

func toActionBinding(s *starlarkstruct.Struct) (binding ActionBinding, err error) {
	if binding.ID, err = attrString(s, "id"); err != nil {
		return
	}
	if binding.Type, err = attrString(s, "type"); err != nil {
		return
	}
	binding.Parameters = make(map[string]any)
	for _, name := range s.AttrNames() {
		if name == "id" || name == "type" {
			continue
		}
		value, err := s.Attr(name)
		if err != nil {
			return binding, &chains.SourceError{Kind: chains.KindParse, ActionID: binding.ID, Err: err}
		}
		v, err := toGoValue(value)
		if err != nil {
			return binding, &chains.SourceError{Kind: chains.KindParse, ActionID: binding.ID, Err: err}
		}
		binding.Parameters[name] = v
	}
	return
}

func toActionPointBinding(s *starlarkstruct.Struct) (binding ActionPointBinding, err error) {
	if binding.Object, err = attrString(s, "object"); err != nil {
		return
	}
	if binding.ID, err = attrString(s, "id"); err != nil {
		return
	}
	poseValue, err := s.Attr("pose")
	if err != nil {
		return binding, &chains.SourceError{Kind: chains.KindParse, Err: err}
	}
	pose, ok := poseValue.(*starlarkstruct.Struct)
	if !ok {
		return binding, &chains.SourceError{Kind: chains.KindParse, Err: fmt.Errorf("pose is %s", poseValue.Type())}
	}
	binding.Pose, err = toPose(pose)
	return
}

func toGoValue(value starlark.Value) (any, error) {
	switch v := value.(type) {
	case starlark.String:
		return string(v), nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.Float:
		return float64(v), nil
	case starlark.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("integer out of range: %s", v)
		}
		return i, nil
	case *starlarkstruct.Struct:
		switch v.Constructor() {
		case actionPointCtor:
			ap, err := toActionPointBinding(v)
			if err != nil {
				return nil, err
			}
			return ActionPointValue(projects.ActionPointRef(ap.Object, ap.ID)), nil
		case poseCtor:
			return toPose(v)
		}
	}
	return nil, fmt.Errorf("unsupported value: %s", value.Type())
}

func toPose(s *starlarkstruct.Struct) (pose projects.Pose, err error) {
	position, err := floats(s, "position", 3)
	if err != nil {
		return
	}
	orientation, err := floats(s, "orientation", 4)
	if err != nil {
		return
	}
	pose.Position = projects.Position{X: position[0], Y: position[1], Z: position[2]}
	pose.Orientation = projects.Orientation{X: orientation[0], Y: orientation[1], Z: orientation[2], W: orientation[3]}
	return
}

func floats(s *starlarkstruct.Struct, name string, n int) ([]float64, error) {
	value, err := s.Attr(name)
	if err != nil {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: err}
	}
	indexable, ok := value.(starlark.Indexable)
	if !ok || indexable.Len() != n {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: fmt.Errorf("%s must have %d elements", name, n)}
	}
	ret := make([]float64, n)
	for i := range n {
		f, ok := starlark.AsFloat(indexable.Index(i))
		if !ok {
			return nil, &chains.SourceError{Kind: chains.KindParse, Err: fmt.Errorf("%s[%d] is not a number", name, i)}
		}
		ret[i] = f
	}
	return ret, nil
}
