package projects

import (
	"fmt"
	"strings"
)

type ModelType string

const (
	ModelBox      ModelType = "Box"
	ModelSphere   ModelType = "Sphere"
	ModelCylinder ModelType = "Cylinder"
	ModelMesh     ModelType = "Mesh"
)

var ModelTypes = []ModelType{ModelBox, ModelSphere, ModelCylinder, ModelMesh}

// Key is the lower case name used as a document field and in service paths.
func (m ModelType) Key() string {
	return strings.ToLower(string(m))
}

func ParseModelType(s string) (ModelType, error) {
	for _, t := range ModelTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown model type %q", s)
}

// Model references the geometry model of an object type.
type Model struct {
	ID   string    `json:"id" yaml:"id"`
	Type ModelType `json:"type" yaml:"type"`
}

type Box struct {
	ID    string  `json:"id" yaml:"id"`
	SizeX float64 `json:"size_x" yaml:"size_x"`
	SizeY float64 `json:"size_y" yaml:"size_y"`
	SizeZ float64 `json:"size_z" yaml:"size_z"`
}

type Sphere struct {
	ID     string  `json:"id" yaml:"id"`
	Radius float64 `json:"radius" yaml:"radius"`
}

type Cylinder struct {
	ID     string  `json:"id" yaml:"id"`
	Radius float64 `json:"radius" yaml:"radius"`
	Height float64 `json:"height" yaml:"height"`
}

type Mesh struct {
	ID          string `json:"id" yaml:"id"`
	URI         string `json:"uri" yaml:"uri"`
	FocusPoints []Pose `json:"focus_points,omitempty" yaml:"focus_points,omitempty"`
}

// ObjectModel is a geometry model tagged with its type. The field named by Type is the only one set.
type ObjectModel struct {
	Type     ModelType `json:"type" yaml:"type"`
	Box      *Box      `json:"box,omitempty" yaml:"box,omitempty"`
	Sphere   *Sphere   `json:"sphere,omitempty" yaml:"sphere,omitempty"`
	Cylinder *Cylinder `json:"cylinder,omitempty" yaml:"cylinder,omitempty"`
	Mesh     *Mesh     `json:"mesh,omitempty" yaml:"mesh,omitempty"`
}

// Geometry returns the model body, or nil.
func (o *ObjectModel) Geometry() any {
	switch {
	case o.Type == ModelBox && o.Box != nil:
		return o.Box
	case o.Type == ModelSphere && o.Sphere != nil:
		return o.Sphere
	case o.Type == ModelCylinder && o.Cylinder != nil:
		return o.Cylinder
	case o.Type == ModelMesh && o.Mesh != nil:
		return o.Mesh
	}
	return nil
}

func (o *ObjectModel) ID() string {
	switch g := o.Geometry().(type) {
	case *Box:
		return g.ID
	case *Sphere:
		return g.ID
	case *Cylinder:
		return g.ID
	case *Mesh:
		return g.ID
	}
	return ""
}

func (o *ObjectModel) Ref() Model {
	return Model{
		ID:   o.ID(),
		Type: o.Type,
	}
}
