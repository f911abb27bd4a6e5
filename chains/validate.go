package chains

import (
	"fmt"

	"github.com/reusee/arcflow/names"
	"github.com/reusee/arcflow/projects"
)

// CheckIDs checks that action ids are unique and usable verbatim as anchors in generated code.
func CheckIDs(project *projects.Project) error {
	bindings := make(map[string]bool)
	for obj, ap := range project.ActionPoints() {
		bindings[names.ActionPointBinding(obj.ID, ap.ID)] = true
	}
	seen := make(map[string]bool)
	for action := range project.Actions() {
		id := action.ID
		switch {
		case seen[id]:
			return &IDError{ActionID: id, Duplicated: true, Msg: "duplicated"}
		case id == projects.First || id == projects.Last:
			return &IDError{ActionID: id, Msg: "collides with a flow sentinel"}
		case !names.IsIdentifier(id):
			return &IDError{ActionID: id, Msg: "not an identifier"}
		case names.IsReserved(id) || id == names.Resources:
			return &IDError{ActionID: id, Msg: "reserved name"}
		case bindings[id]:
			return &IDError{ActionID: id, Msg: "collides with an action point binding"}
		}
		seen[id] = true
	}
	return nil
}

// Walk returns the actions in flow order from the entry to the exit.
// A project without logic yields an empty chain.
func Walk(project *projects.Project) ([]*projects.Action, error) {
	cache := make(map[string]*projects.Action)
	var entries, exits []string
	linked, total := 0, 0
	for action := range project.Actions() {
		total++
		cache[action.ID] = action
		numIn, numOut := len(action.Inputs), len(action.Outputs)
		if numIn > 1 || numOut > 1 {
			return nil, &GenerationError{ActionID: action.ID, Msg: "more than one input or output"}
		}
		if numIn == 0 && numOut == 0 {
			continue
		}
		if numIn == 0 || numOut == 0 {
			return nil, &GenerationError{ActionID: action.ID, Msg: "partially linked"}
		}
		linked++
		if action.Inputs[0].Default == projects.First {
			entries = append(entries, action.ID)
		}
		if action.Outputs[0].Default == projects.Last {
			exits = append(exits, action.ID)
		}
	}

	if linked == 0 {
		return nil, nil
	}
	if len(entries) != 1 {
		return nil, &GenerationError{Msg: fmt.Sprintf("expecting exactly one entry action, got %d", len(entries))}
	}
	if len(exits) != 1 {
		return nil, &GenerationError{Msg: fmt.Sprintf("expecting exactly one exit action, got %d", len(exits))}
	}

	var chain []*projects.Action
	visited := make(map[string]bool)
	prev := projects.First
	id := entries[0]
	for {
		action := cache[id]
		if action == nil {
			return nil, &GenerationError{ActionID: prev, Msg: fmt.Sprintf("output references unknown action %s", id)}
		}
		if visited[id] {
			return nil, &GenerationError{ActionID: id, Msg: "cycle"}
		}
		if len(action.Inputs) == 0 || action.Inputs[0].Default != prev {
			return nil, &GenerationError{ActionID: id, Msg: fmt.Sprintf("input does not reference %s", prev)}
		}
		visited[id] = true
		chain = append(chain, action)
		next := action.Outputs[0].Default
		if next == projects.Last {
			break
		}
		prev, id = id, next
	}

	if len(chain) != total {
		for action := range project.Actions() {
			if !visited[action.ID] {
				return nil, &GenerationError{ActionID: action.ID, Msg: "unreachable from the entry action"}
			}
		}
		return nil, &GenerationError{Msg: "duplicated action ids"}
	}

	return chain, nil
}

// CheckReferences checks that action point parameters resolve within the project.
func CheckReferences(project *projects.Project) error {
	for action := range project.Actions() {
		for _, param := range action.Parameters {
			if !param.IsReference() {
				continue
			}
			if _, err := project.FindActionPoint(param.ValueString); err != nil {
				return fmt.Errorf("action %s parameter %s: %w", action.ID, param.ID, err)
			}
		}
	}
	return nil
}

// CheckParameters checks that parameter ids can be emitted as keyword arguments.
func CheckParameters(project *projects.Project) error {
	for action := range project.Actions() {
		seen := make(map[string]bool)
		for _, param := range action.Parameters {
			switch {
			case !names.IsIdentifier(param.ID):
				return &GenerationError{ActionID: action.ID, Msg: fmt.Sprintf("parameter %q is not an identifier", param.ID)}
			case param.ID == "id" || param.ID == "type":
				return &GenerationError{ActionID: action.ID, Msg: fmt.Sprintf("parameter %q is reserved", param.ID)}
			case seen[param.ID]:
				return &GenerationError{ActionID: action.ID, Msg: fmt.Sprintf("parameter %q duplicated", param.ID)}
			}
			seen[param.ID] = true
		}
	}
	return nil
}
