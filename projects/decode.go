package projects

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schema string

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

func DecodeProject(data []byte, format Format) (*Project, error) {
	ret := new(Project)
	if err := decode("#Project", data, format, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func DecodeScene(data []byte, format Format) (*Scene, error) {
	ret := new(Scene)
	if err := decode("#Scene", data, format, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func DecodeObjectType(data []byte, format Format) (*ObjectType, error) {
	ret := new(ObjectType)
	if err := decode("#ObjectType", data, format, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func DecodeProjectSources(data []byte, format Format) (*ProjectSources, error) {
	ret := new(ProjectSources)
	if err := decode("#ProjectSources", data, format, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func DecodeObjectModel(data []byte, format Format) (*ObjectModel, error) {
	ret := new(ObjectModel)
	if err := decode("#ObjectModel", data, format, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// decode validates the document against the schema definition, then unmarshals it.
func decode(def string, data []byte, format Format, target any) error {
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
		var err error
		data, err = json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
	}

	// a cue context is not safe for concurrent use, so each call gets its own
	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(schema, cue.Filename("schema.cue"))
	if err := schemaValue.Err(); err != nil {
		return err
	}
	value := ctx.CompileBytes(data, cue.Filename(def+".json"))
	if err := value.Err(); err != nil {
		return fmt.Errorf("decode %s: %w", def, err)
	}
	value = schemaValue.LookupPath(cue.ParsePath(def)).Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validate %s: %w", def, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s: %w", def, err)
	}
	return nil
}

func Encode(v any, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
