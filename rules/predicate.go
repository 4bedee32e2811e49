package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// WhenExpr compiles a string expression into an LHS predicate, as an
// alternative to writing a Go closure. The expression evaluates against one
// fnode with this environment:
//
//	tag               the element's tag name
//	text              the element's text content
//	attr(name)        attribute value, "" when unset
//	hasAttr(name)     whether the attribute is set
//	score(type)       the fnode's score for a type (0 when not borne)
//	hasType(type)     whether the fnode bears a type
//	note(type)        the note for a type, nil when unset
//
// Example: WhenExpr(`tag == "a" && attr("href") contains "signout"`).
func WhenExpr(src string) (Predicate, error) {
	program, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compiling predicate %q: %w", src, err)
	}
	return func(f *Fnode) bool {
		out, err := vm.Run(program, predicateEnv(f))
		if err != nil {
			return false
		}
		b, ok := out.(bool)
		return ok && b
	}, nil
}

func predicateEnv(f *Fnode) map[string]interface{} {
	el := f.Element()
	return map[string]interface{}{
		"tag":  el.TagName(),
		"text": el.TextContent(),
		"attr": func(name string) string {
			v, _ := el.Attr(name)
			return v
		},
		"hasAttr": func(name string) bool {
			_, ok := el.Attr(name)
			return ok
		},
		"score":   f.ScoreFor,
		"hasType": f.HasType,
		"note": func(t string) interface{} {
			n, _ := f.NoteFor(t)
			return n
		},
	}
}
