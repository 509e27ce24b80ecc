package policy

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/esselltwo/gradr/internal/gradebook"
)

// lookups are the formula functions that read a category.
var lookups = map[string]bool{
	"score":   true,
	"grade":   true,
	"missing": true,
	"graded":  true,
}

// References returns the categories a formula reads, in order of first use.
// Only literal category names are found.
func References(source string) ([]string, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: empty formula", gradebook.ErrInvalidInput)
	}
	tree, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid formula: %w", err)
	}

	v := &refVisitor{seen: make(map[string]bool)}
	ast.Walk(&tree.Node, v)
	return v.refs, nil
}

// References returns the categories the formula reads.
func (f *Formula) References() []string {
	refs, _ := References(f.source)
	return refs
}

type refVisitor struct {
	seen map[string]bool
	refs []string
}

func (v *refVisitor) Visit(node *ast.Node) {
	call, ok := (*node).(*ast.CallNode)
	if !ok || len(call.Arguments) != 1 {
		return
	}
	callee, ok := call.Callee.(*ast.IdentifierNode)
	if !ok || !lookups[callee.Value] {
		return
	}
	arg, ok := call.Arguments[0].(*ast.StringNode)
	if !ok || v.seen[arg.Value] {
		return
	}
	v.seen[arg.Value] = true
	v.refs = append(v.refs, arg.Value)
}
