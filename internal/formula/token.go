package formula

import (
	"fmt"
	"strconv"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokLParen
	tokRParen
)

type token struct {
	typ    tokenType
	lexeme string
	num    float64 // parsed value for tokNumber
}

// scan splits the expression into tokens. Any character outside the
// arithmetic grammar is a scan error; callers treat that as "not a formula".
func scan(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+':
			toks = append(toks, token{typ: tokPlus, lexeme: "+"})
			i++
		case c == '-':
			toks = append(toks, token{typ: tokMinus, lexeme: "-"})
			i++
		case c == '*':
			toks = append(toks, token{typ: tokStar, lexeme: "*"})
			i++
		case c == '/':
			toks = append(toks, token{typ: tokSlash, lexeme: "/"})
			i++
		case c == '%':
			toks = append(toks, token{typ: tokPercent, lexeme: "%"})
			i++
		case c == '(':
			toks = append(toks, token{typ: tokLParen, lexeme: "("})
			i++
		case c == ')':
			toks = append(toks, token{typ: tokRParen, lexeme: ")"})
			i++
		case isDigit(c) || c == '.':
			start := i
			for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
				i++
			}
			lex := input[start:i]
			n, err := strconv.ParseFloat(lex, 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q at offset %d", lex, start)
			}
			toks = append(toks, token{typ: tokNumber, lexeme: lex, num: n})
		case isIdentStart(c):
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			toks = append(toks, token{typ: tokIdent, lexeme: input[start:i]})
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
		}
	}
	toks = append(toks, token{typ: tokEOF})
	return toks, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
