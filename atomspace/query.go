package atomspace

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// queryEnv is the shared CEL environment for query expressions. Built once;
// cel environments are immutable and safe for concurrent use.
var queryEnv = func() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("type", cel.StringType),
		cel.Variable("truth", cel.DoubleType),
		cel.Variable("confidence", cel.DoubleType),
		cel.Variable("attention", cel.DoubleType),
	)
	if err != nil {
		panic(fmt.Sprintf("atomspace: building query environment: %v", err))
	}
	return env
}()

// CompileQuery compiles a CEL expression into an atom predicate usable with
// Space.Query. The expression sees the variables name (string), type
// (string, e.g. "Concept"), truth, confidence, and attention (doubles) and
// must evaluate to a boolean.
//
// Example:
//
//	pred, err := atomspace.CompileQuery(`type == "Process" && truth > 0.4`)
//	if err != nil {
//	    return err
//	}
//	plans := space.Query(pred)
//
// Evaluation errors on individual atoms are treated as non-matches.
func CompileQuery(expr string) (func(*Atom) bool, error) {
	ast, issues := queryEnv.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling query %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("query %q must evaluate to a boolean, got %s", expr, ast.OutputType())
	}

	prg, err := queryEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("building query program: %w", err)
	}

	return func(atom *Atom) bool {
		out, _, err := prg.Eval(map[string]any{
			"name":       atom.Name(),
			"type":       atom.Type().String(),
			"truth":      atom.TruthValue(),
			"confidence": atom.Confidence(),
			"attention":  atom.Attention(),
		})
		if err != nil {
			return false
		}
		match, ok := out.Value().(bool)
		return ok && match
	}, nil
}
