package projects

import "fmt"

type ParameterType string

const (
	TypeString      ParameterType = "string"
	TypeDouble      ParameterType = "double"
	TypeInteger     ParameterType = "integer"
	TypeBoolean     ParameterType = "boolean"
	TypeEnum        ParameterType = "enum"
	TypeActionPoint ParameterType = "ActionPoint"
	TypePose        ParameterType = "pose"
)

// Parameter is a type tagged value. Which value field is meaningful is decided by Type.
type Parameter struct {
	ID           string        `json:"id" yaml:"id"`
	Type         ParameterType `json:"type" yaml:"type"`
	ValueString  string        `json:"value_string,omitempty" yaml:"value_string,omitempty"`
	ValueDouble  float64       `json:"value_double,omitempty" yaml:"value_double,omitempty"`
	ValueInteger int64         `json:"value_integer,omitempty" yaml:"value_integer,omitempty"`
	ValueBool    bool          `json:"value_bool,omitempty" yaml:"value_bool,omitempty"`
}

// IsReference reports whether the value is an action point reference of the form "<object>.<ap>".
func (p Parameter) IsReference() bool {
	return p.Type == TypeActionPoint || p.Type == TypePose
}

func (p Parameter) Value() (any, error) {
	switch p.Type {
	case TypeString, TypeEnum, TypeActionPoint, TypePose:
		return p.ValueString, nil
	case TypeDouble:
		return p.ValueDouble, nil
	case TypeInteger:
		return p.ValueInteger, nil
	case TypeBoolean:
		return p.ValueBool, nil
	}
	return nil, fmt.Errorf("parameter %s: unknown type %q", p.ID, p.Type)
}
