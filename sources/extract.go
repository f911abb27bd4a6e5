package sources

import (
	"errors"

	"github.com/reusee/arcflow/chains"
	"github.com/reusee/arcflow/names"
	"github.com/reusee/arcflow/projects"
	"go.starlark.net/syntax"
)

var (
	errEmptyScript  = errors.New("empty script")
	errNoMain       = errors.New("no main function")
	errNoResources  = errors.New("main does not bind " + names.Resources + "()")
	errNestedMain   = errors.New("main must be a top level function")
	errMainHasParam = errors.New("main must not take parameters")
)

// LogicFromSource recovers the flow chain from a script and rewrites the slots of project to match it.
// Only input and output slots are changed, and only when the whole script validates.
func LogicFromSource(src string, project *projects.Project) error {
	file, err := Parse(ScriptFile, src)
	if err != nil {
		return err
	}
	ids, err := ActionIDs(file)
	if err != nil {
		return err
	}
	return chains.Link(project, ids)
}

// ActionIDs collects, in program order, every action referenced by main through the resources binding.
func ActionIDs(file *syntax.File) ([]string, error) {
	main, err := mainFunc(file)
	if err != nil {
		return nil, err
	}

	res := resourcesName(main)
	if res == "" {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: errNoResources}
	}

	var ids []string
	for _, stmt := range main.Body {
		syntax.Walk(stmt, func(node syntax.Node) bool {
			dot, ok := node.(*syntax.DotExpr)
			if !ok {
				return true
			}
			if ident, ok := dot.X.(*syntax.Ident); ok && ident.Name == res {
				if !names.IsReserved(dot.Name.Name) {
					ids = append(ids, dot.Name.Name)
				}
			}
			return true
		})
	}

	return ids, nil
}

func mainFunc(file *syntax.File) (*syntax.DefStmt, error) {
	for _, stmt := range file.Stmts {
		def, ok := stmt.(*syntax.DefStmt)
		if !ok || def.Name.Name != "main" {
			continue
		}
		if len(def.Params) > 0 {
			return nil, &chains.SourceError{Kind: chains.KindParse, Err: errMainHasParam}
		}
		return def, nil
	}
	// a main defined anywhere else is not an entry point
	found := false
	syntax.Walk(file, func(node syntax.Node) bool {
		if def, ok := node.(*syntax.DefStmt); ok && def.Name.Name == "main" {
			found = true
		}
		return !found
	})
	if found {
		return nil, &chains.SourceError{Kind: chains.KindParse, Err: errNestedMain}
	}
	return nil, &chains.SourceError{Kind: chains.KindParse, Err: errNoMain}
}

// resourcesName returns the name main binds to Resources(), or "".
func resourcesName(main *syntax.DefStmt) string {
	for _, stmt := range main.Body {
		assign, ok := stmt.(*syntax.AssignStmt)
		if !ok || assign.Op != syntax.EQ {
			continue
		}
		lhs, ok := assign.LHS.(*syntax.Ident)
		if !ok {
			continue
		}
		call, ok := assign.RHS.(*syntax.CallExpr)
		if !ok {
			continue
		}
		if fn, ok := call.Fn.(*syntax.Ident); ok && fn.Name == names.Resources {
			return lhs.Name
		}
	}
	return ""
}
