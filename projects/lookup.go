package projects

import "strings"

// FindActionPoint resolves "<object>.<ap>" references, or bare action point ids to the first match.
func (p *Project) FindActionPoint(ref string) (*ActionPoint, error) {
	_, ap, err := p.LookupActionPoint(ref)
	return ap, err
}

func (p *Project) LookupActionPoint(ref string) (*ProjectObject, *ActionPoint, error) {
	objID, apID, qualified := strings.Cut(ref, ".")
	for obj, ap := range p.ActionPoints() {
		if qualified {
			if obj.ID == objID && ap.ID == apID {
				return obj, ap, nil
			}
		} else if ap.ID == ref {
			return obj, ap, nil
		}
	}
	return nil, nil, &NotFoundError{What: "action point", ID: ref}
}

func (p *Project) FindAction(id string) (*Action, error) {
	for action := range p.Actions() {
		if action.ID == id {
			return action, nil
		}
	}
	return nil, &NotFoundError{What: "action", ID: id}
}

func (p *Project) FindObject(id string) (*ProjectObject, error) {
	for i := range p.Objects {
		if p.Objects[i].ID == id {
			return &p.Objects[i], nil
		}
	}
	return nil, &NotFoundError{What: "object", ID: id}
}

func ActionPointRef(objectID, apID string) string {
	return objectID + "." + apID
}
