package sources

import (
	"strings"

	"github.com/reusee/arcflow/chains"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Parse parses a script. Any failure is a *chains.SourceError of KindParse.
func Parse(filename string, src string) (*syntax.File, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: errEmptyScript}
	}
	file, err := fileOptions.Parse(filename, src, 0)
	if err != nil {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: err}
	}
	return file, nil
}

// Check parses a script and resolves its names, without running it.
func Check(filename string, src string) error {
	file, err := Parse(filename, src)
	if err != nil {
		return err
	}
	if err := resolve.File(file, isPredeclared, starlark.Universe.Has); err != nil {
		return &chains.SourceError{Kind: chains.KindParse, Err: err}
	}
	if _, err := mainFunc(file); err != nil {
		return err
	}
	return nil
}

func isPredeclared(string) bool {
	return false
}
