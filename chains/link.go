package chains

import (
	"errors"

	"github.com/reusee/arcflow/projects"
)

// Link rewrites input and output slots so that the actions form a chain in the order of ids.
// ids must name every action of the project exactly once; otherwise a *SourceError is returned
// and the project is left untouched.
func Link(project *projects.Project, ids []string) error {
	if err := CheckIDs(project); err != nil {
		kind := KindInvalid
		var idErr *IDError
		if errors.As(err, &idErr) {
			if idErr.Duplicated {
				kind = KindDuplicate
			}
			return &SourceError{Kind: kind, ActionID: idErr.ActionID, Err: err}
		}
		return &SourceError{Kind: kind, Err: err}
	}

	cache, _, _ := project.ActionsCache()
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := cache[id]; !ok {
			return &SourceError{Kind: KindUnknown, ActionID: id}
		}
		if seen[id] {
			return &SourceError{Kind: KindDuplicate, ActionID: id}
		}
		seen[id] = true
	}
	for action := range project.Actions() {
		if !seen[action.ID] {
			return &SourceError{Kind: KindMissing, ActionID: action.ID}
		}
	}

	for i, id := range ids {
		prev := projects.First
		if i > 0 {
			prev = ids[i-1]
		}
		next := projects.Last
		if i < len(ids)-1 {
			next = ids[i+1]
		}
		action := cache[id]
		action.Inputs = []projects.ActionIO{{Default: prev}}
		action.Outputs = []projects.ActionIO{{Default: next}}
	}

	return nil
}
