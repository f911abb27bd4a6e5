package projects

import (
	"fmt"
	"strings"
)

type Project struct {
	ID      string          `json:"id" yaml:"id"`
	SceneID string          `json:"scene_id" yaml:"scene_id"`
	Desc    string          `json:"desc,omitempty" yaml:"desc,omitempty"`
	Objects []ProjectObject `json:"objects,omitempty" yaml:"objects,omitempty"`
}

type ProjectObject struct {
	ID           string        `json:"id" yaml:"id"`
	ActionPoints []ActionPoint `json:"action_points,omitempty" yaml:"action_points,omitempty"`
}

type ActionPoint struct {
	ID      string   `json:"id" yaml:"id"`
	Pose    Pose     `json:"pose" yaml:"pose"`
	Actions []Action `json:"actions,omitempty" yaml:"actions,omitempty"`
}

type Action struct {
	ID         string      `json:"id" yaml:"id"`
	Type       string      `json:"type" yaml:"type"`
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Inputs     []ActionIO  `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs    []ActionIO  `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// ActionIO is a flow slot. Default holds First, Last or the id of the adjacent action.
type ActionIO struct {
	Default string `json:"default" yaml:"default"`
}

const (
	First = "start"
	Last  = "end"
)

// ObjectID returns the object part of the action type "<object-id>/<method>".
func (a *Action) ObjectID() string {
	obj, _, _ := strings.Cut(a.Type, "/")
	return obj
}

func (a *Action) Method() string {
	_, method, _ := strings.Cut(a.Type, "/")
	return method
}

func ParseActionType(typ string) (objectID string, method string, err error) {
	objectID, method, ok := strings.Cut(typ, "/")
	if !ok || objectID == "" || method == "" || strings.Contains(method, "/") {
		return "", "", fmt.Errorf("bad action type %q", typ)
	}
	return objectID, method, nil
}

func (a *Action) Parameter(id string) (*Parameter, bool) {
	for i := range a.Parameters {
		if a.Parameters[i].ID == id {
			return &a.Parameters[i], true
		}
	}
	return nil, false
}

type Pose struct {
	Position    Position    `json:"position" yaml:"position"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
}

type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

type Orientation struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
	W float64 `json:"w" yaml:"w"`
}

// ProjectSources is the stored, possibly hand edited, main script of a project.
type ProjectSources struct {
	ID     string `json:"id" yaml:"id"`
	Script string `json:"script" yaml:"script"`
}
