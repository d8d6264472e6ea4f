package formula

import (
	"fmt"
	"math"
	"strings"
)

// Operator precedence, low to high. Unary minus binds tighter than any
// binary operator.
const (
	precAdd   = 1 // + -
	precMul   = 2 // * / %
	precUnary = 3
	precAtom  = 4
)

type node interface {
	// precedence is used by render to insert the minimal parentheses that
	// keep the printed expression equivalent to the tree.
	precedence() int
}

type numNode struct {
	val float64
}

type identNode struct {
	name string
}

type unaryNode struct {
	op      byte // '-'
	operand node
}

type binaryNode struct {
	op          byte // '+' '-' '*' '/' '%'
	left, right node
}

func (numNode) precedence() int   { return precAtom }
func (identNode) precedence() int { return precAtom }
func (unaryNode) precedence() int { return precUnary }

func (n binaryNode) precedence() int {
	switch n.op {
	case '+', '-':
		return precAdd
	default:
		return precMul
	}
}

// parser is a plain recursive-descent parser over the scanned tokens:
//
//	expr    = term  (('+'|'-') term)*
//	term    = unary (('*'|'/'|'%') unary)*
//	unary   = ('+'|'-')* primary
//	primary = NUMBER | IDENT | '(' expr ')'
type parser struct {
	toks []token
	pos  int
}

// parse turns an expression string into a syntax tree. Any scan or grammar
// error is returned to the caller, which falls back to treating the input
// as plain text.
func parse(input string) (node, error) {
	toks, err := scan(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokEOF {
		return nil, fmt.Errorf("unexpected %q after expression", p.peek().lexeme)
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().typ {
		case tokPlus:
			p.next()
			right, err := p.term()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: '+', left: left, right: right}
		case tokMinus:
			p.next()
			right, err := p.term()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: '-', left: left, right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var op byte
		switch p.peek().typ {
		case tokStar:
			op = '*'
		case tokSlash:
			op = '/'
		case tokPercent:
			op = '%'
		default:
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) unary() (node, error) {
	switch p.peek().typ {
	case tokMinus:
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: '-', operand: operand}, nil
	case tokPlus:
		// Unary plus is a no-op, drop it from the tree.
		p.next()
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.typ {
	case tokNumber:
		return numNode{val: t.num}, nil
	case tokIdent:
		return identNode{name: t.lexeme}, nil
	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.typ != tokRParen {
			return nil, fmt.Errorf("expected ')', got %q", closing.lexeme)
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q", t.lexeme)
	}
}

// render prints a tree back to formula text, parenthesizing only where the
// child binds looser than its parent. Substituted numbers print in the same
// shortest form the evaluator uses, so "foo + 2" round-trips unchanged.
func render(n node) string {
	var b strings.Builder
	renderInto(&b, n, 0, false)
	return b.String()
}

func renderInto(b *strings.Builder, n node, parent int, rightChild bool) {
	prec := n.precedence()
	needParens := prec < parent || (prec == parent && rightChild)
	if needParens {
		b.WriteByte('(')
	}
	switch t := n.(type) {
	case numNode:
		b.WriteString(formatNumber(t.val))
	case identNode:
		b.WriteString(t.name)
	case unaryNode:
		b.WriteByte(t.op)
		renderInto(b, t.operand, precUnary, false)
	case binaryNode:
		renderInto(b, t.left, prec, false)
		b.WriteByte(' ')
		b.WriteByte(t.op)
		b.WriteByte(' ')
		renderInto(b, t.right, prec, true)
	}
	if needParens {
		b.WriteByte(')')
	}
}

// fold numerically evaluates a tree that contains no identifiers.
// IEEE semantics apply: division by zero yields ±Inf and NaN propagates,
// which is how cycle markers travel through dependent formulas.
func fold(n node) float64 {
	switch t := n.(type) {
	case numNode:
		return t.val
	case identNode:
		return math.NaN() // callers never fold unresolved identifiers
	case unaryNode:
		return -fold(t.operand)
	case binaryNode:
		l, r := fold(t.left), fold(t.right)
		switch t.op {
		case '+':
			return l + r
		case '-':
			return l - r
		case '*':
			return l * r
		case '/':
			return l / r
		default:
			return math.Mod(l, r)
		}
	}
	return math.NaN()
}
