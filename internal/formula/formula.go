// Package formula evaluates the symbolic arithmetic expressions users attach
// to character-sheet effects. An expression may reference other stats by
// name ("strengthMod + 2"); references resolve through a Resolver, which in
// practice recurses back into the stat evaluator. The package never fails:
// input that does not parse is returned as literal text, and input that
// parses but cannot be fully resolved comes back as the partially
// substituted expression.
package formula

// Resolver supplies numeric values for free identifiers. A false return
// means the name is unknown and the identifier stays in the expression.
// Implementations may recurse arbitrarily deep (resolving a name can
// trigger further formula evaluation); cycle handling is the resolver's
// concern and surfaces here only as a NaN substitution.
type Resolver interface {
	Resolve(name string) (float64, bool)
}

// Evaluate parses expr, substitutes every identifier the resolver knows,
// and numerically folds the result.
//
//   - parse failure: the raw input, verbatim, as text
//   - all identifiers resolved: the numeric result (possibly NaN or ±Inf)
//   - unresolved identifiers remain: the substituted expression as text
func Evaluate(expr string, r Resolver) Value {
	root, err := parse(expr)
	if err != nil {
		return Text(expr)
	}
	substituted, unresolved := substitute(root, r)
	if unresolved > 0 {
		return Text(render(substituted))
	}
	return Num(fold(substituted))
}

// substitute walks the tree replacing resolvable identifiers with number
// nodes. It returns the rewritten tree and how many identifiers remain.
func substitute(n node, r Resolver) (node, int) {
	switch t := n.(type) {
	case identNode:
		if r != nil {
			if v, ok := r.Resolve(t.name); ok {
				return numNode{val: v}, 0
			}
		}
		return t, 1
	case unaryNode:
		operand, unresolved := substitute(t.operand, r)
		return unaryNode{op: t.op, operand: operand}, unresolved
	case binaryNode:
		left, lu := substitute(t.left, r)
		right, ru := substitute(t.right, r)
		return binaryNode{op: t.op, left: left, right: right}, lu + ru
	default:
		return n, 0
	}
}
