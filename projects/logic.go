package projects

// ClearLogic empties every input and output slot.
func (p *Project) ClearLogic() {
	for action := range p.Actions() {
		action.Inputs = nil
		action.Outputs = nil
	}
}

func (p *Project) HasLogic() bool {
	for action := range p.Actions() {
		if len(action.Inputs) > 0 || len(action.Outputs) > 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (p *Project) Clone() *Project {
	ret := *p
	ret.Objects = make([]ProjectObject, len(p.Objects))
	for i, obj := range p.Objects {
		obj.ActionPoints = cloneActionPoints(obj.ActionPoints)
		ret.Objects[i] = obj
	}
	if p.Objects == nil {
		ret.Objects = nil
	}
	return &ret
}

func cloneActionPoints(aps []ActionPoint) []ActionPoint {
	if aps == nil {
		return nil
	}
	ret := make([]ActionPoint, len(aps))
	for i, ap := range aps {
		if ap.Actions != nil {
			actions := make([]Action, len(ap.Actions))
			for j, action := range ap.Actions {
				action.Parameters = cloneSlice(action.Parameters)
				action.Inputs = cloneSlice(action.Inputs)
				action.Outputs = cloneSlice(action.Outputs)
				actions[j] = action
			}
			ap.Actions = actions
		}
		ret[i] = ap
	}
	return ret
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
