package sources

import (
	"github.com/reusee/arcflow/chains"
	"github.com/reusee/arcflow/projects"
)

// ActionsSource generates a module enumerating action ids.
func ActionsSource(project *projects.Project) (string, error) {
	if err := chains.CheckIDs(project); err != nil {
		return "", &chains.GenerationError{Err: err}
	}
	w := new(writer)
	w.line(0, header)
	w.blank()
	var ids []string
	for _, action := range sortedActions(project) {
		ids = append(ids, quote(action.ID))
	}
	writeConst(w, "ACTIONS", "[", "]", ids)
	return w.String(), nil
}

// ActionPointsSource generates a module mapping action point references to their bindings.
func ActionPointsSource(project *projects.Project) (string, error) {
	aps, err := actionPointBindings(project)
	if err != nil {
		return "", err
	}
	w := new(writer)
	w.line(0, header)
	w.blank()
	var entries []string
	for _, binding := range aps {
		entries = append(entries,
			quote(projects.ActionPointRef(binding.object.ID, binding.ap.ID))+": "+quote(binding.name))
	}
	writeConst(w, "ACTION_POINTS", "{", "}", entries)
	return w.String(), nil
}

func writeConst(w *writer, name string, opening, closing string, elems []string) {
	if len(elems) == 0 {
		w.line(0, "%s = %s%s", name, opening, closing)
		return
	}
	w.line(0, "%s = %s", name, opening)
	for _, elem := range elems {
		w.line(1, "%s,", elem)
	}
	w.line(0, "%s", closing)
}
