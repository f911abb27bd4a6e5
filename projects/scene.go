package projects

type Scene struct {
	ID            string        `json:"id" yaml:"id"`
	RobotSystemID string        `json:"robot_system_id,omitempty" yaml:"robot_system_id,omitempty"`
	Desc          string        `json:"desc,omitempty" yaml:"desc,omitempty"`
	Objects       []SceneObject `json:"objects,omitempty" yaml:"objects,omitempty"`
}

type SceneObject struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"`
	Pose Pose   `json:"pose" yaml:"pose"`
}

// ObjectTypes returns the distinct object type names of the scene in order of first use.
func (s *Scene) ObjectTypes() []string {
	seen := make(map[string]bool)
	var ret []string
	for _, obj := range s.Objects {
		if seen[obj.Type] {
			continue
		}
		seen[obj.Type] = true
		ret = append(ret, obj.Type)
	}
	return ret
}

func (s *Scene) Object(id string) (*SceneObject, error) {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return &s.Objects[i], nil
		}
	}
	return nil, &NotFoundError{What: "scene object", ID: id}
}

// ObjectType is the definition of a scene object type. Base names the parent type, if any.
type ObjectType struct {
	ID     string `json:"id" yaml:"id"`
	Desc   string `json:"desc,omitempty" yaml:"desc,omitempty"`
	Source string `json:"source" yaml:"source"`
	Base   string `json:"base,omitempty" yaml:"base,omitempty"`
	Model  *Model `json:"model,omitempty" yaml:"model,omitempty"`
}
