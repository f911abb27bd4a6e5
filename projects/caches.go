package projects

import (
	"iter"

	"github.com/reusee/arcflow/names"
)

// Actions iterates all actions of the project in storage order.
func (p *Project) Actions() iter.Seq[*Action] {
	return func(yield func(*Action) bool) {
		for i := range p.Objects {
			obj := &p.Objects[i]
			for j := range obj.ActionPoints {
				ap := &obj.ActionPoints[j]
				for k := range ap.Actions {
					if !yield(&ap.Actions[k]) {
						return
					}
				}
			}
		}
	}
}

// ActionPoints iterates action points with their owning objects in storage order.
func (p *Project) ActionPoints() iter.Seq2[*ProjectObject, *ActionPoint] {
	return func(yield func(*ProjectObject, *ActionPoint) bool) {
		for i := range p.Objects {
			obj := &p.Objects[i]
			for j := range obj.ActionPoints {
				if !yield(obj, &obj.ActionPoints[j]) {
					return
				}
			}
		}
	}
}

// ActionsCache maps action ids to actions and reports the entry and exit actions.
// first and last are empty when no action carries the sentinels.
func (p *Project) ActionsCache() (cache map[string]*Action, first string, last string) {
	cache = make(map[string]*Action)
	for action := range p.Actions() {
		cache[action.ID] = action
		if len(action.Inputs) > 0 && action.Inputs[0].Default == First {
			first = action.ID
		}
		if len(action.Outputs) > 0 && action.Outputs[0].Default == Last {
			last = action.ID
		}
	}
	return
}

// ObjectsCache maps object ids to objects. With byVarName, keys are the generated variable names.
func (p *Project) ObjectsCache(byVarName bool) map[string]*ProjectObject {
	cache := make(map[string]*ProjectObject, len(p.Objects))
	for i := range p.Objects {
		obj := &p.Objects[i]
		if byVarName {
			cache[names.VarName(obj.ID)] = obj
		} else {
			cache[obj.ID] = obj
		}
	}
	return cache
}

// ObjectsCache maps scene object ids, or their variable names, to scene objects.
func (s *Scene) ObjectsCache(byVarName bool) map[string]*SceneObject {
	cache := make(map[string]*SceneObject, len(s.Objects))
	for i := range s.Objects {
		obj := &s.Objects[i]
		if byVarName {
			cache[names.VarName(obj.ID)] = obj
		} else {
			cache[obj.ID] = obj
		}
	}
	return cache
}
