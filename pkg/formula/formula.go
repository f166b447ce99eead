// Package formula parses and evaluates the expressions stored on computed
// fields.
//
// Supported syntax:
//   - literals: numbers, quoted strings, true/false, null
//   - field references: `qty`, `customer.name`
//   - arithmetic: + - * / % and unary minus (+ concatenates when either side is a string)
//   - comparisons: == != < <= > >=
//   - boolean composition: && || !
//   - calls: abs(x), round(x), round(x, places), min(a, ...), max(a, ...), concat(a, ...), if(cond, a, b)
package formula

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmpty is returned when parsing a blank formula.
var ErrEmpty = errors.New("formula: expression is empty")

// SyntaxError reports a malformed formula with the byte offset of the
// offending token.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula: %s at offset %d", e.Message, e.Offset)
}

// Expression is a parsed formula.
type Expression struct {
	source string
	root   node
	fields []string
}

// Parse compiles a formula.
func Parse(source string) (*Expression, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, ErrEmpty
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, &SyntaxError{Offset: tok.pos, Message: fmt.Sprintf("unexpected token %q", tok.raw)}
	}

	seen := make(map[string]struct{})
	root.collect(seen)
	fields := make([]string, 0, len(seen))
	for name := range seen {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	return &Expression{source: trimmed, root: root, fields: fields}, nil
}

// Check reports whether source parses.
func Check(source string) error {
	_, err := Parse(source)
	return err
}

// String returns the trimmed source.
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Fields lists the field references in the expression, sorted and
// de-duplicated. Dotted references are reported in full.
func (e *Expression) Fields() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.fields...)
}

// Eval computes the expression against a set of field values. Missing
// references evaluate to null.
func (e *Expression) Eval(values map[string]any) (any, error) {
	if e == nil || e.root == nil {
		return nil, ErrEmpty
	}
	return e.root.eval(values)
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) match(kinds ...tokenKind) (token, bool) {
	tok, ok := p.peek()
	if !ok {
		return token{}, false
	}
	for _, kind := range kinds {
		if tok.kind == kind {
			p.pos++
			return tok, true
		}
	}
	return token{}, false
}

func (p *parser) endOffset() int {
	if len(p.tokens) == 0 {
		return 0
	}
	last := p.tokens[len(p.tokens)-1]
	return last.pos + len(last.raw)
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.match(tokenOr); !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = logicalNode{op: tokenOr, left: left, right: right}
	}
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.match(tokenAnd); !ok {
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = logicalNode{op: tokenAnd, left: left, right: right}
	}
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := p.match(tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte)
	if !ok {
		return left, nil
	}
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return compareNode{op: op.kind, left: left, right: right}, nil
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(tokenPlus, tokenMinus)
		if !ok {
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = arithNode{op: op.kind, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(tokenStar, tokenSlash, tokenPercent)
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = arithNode{op: op.kind, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if op, ok := p.match(tokenMinus, tokenNot); ok {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: op.kind, inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, &SyntaxError{Offset: p.endOffset(), Message: "unexpected end of expression"}
	}
	p.pos++

	switch tok.kind {
	case tokenNumber:
		return numberLiteral(tok.raw), nil
	case tokenString:
		return literalNode{value: tok.raw}, nil
	case tokenBool:
		return literalNode{value: tok.raw == "true"}, nil
	case tokenNull:
		return literalNode{value: nil}, nil
	case tokenLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, ok := p.match(tokenRParen); !ok {
			return nil, &SyntaxError{Offset: p.endOffset(), Message: "missing closing ')'"}
		}
		return inner, nil
	case tokenIdentifier:
		if _, ok := p.match(tokenLParen); ok {
			return p.parseCall(tok)
		}
		return refNode{name: tok.raw}, nil
	default:
		return nil, &SyntaxError{Offset: tok.pos, Message: fmt.Sprintf("unexpected token %q", tok.raw)}
	}
}

func (p *parser) parseCall(name token) (node, error) {
	fn, ok := builtins[strings.ToLower(name.raw)]
	if !ok {
		return nil, &SyntaxError{Offset: name.pos, Message: fmt.Sprintf("unknown function %q", name.raw)}
	}

	var args []node
	if _, ok := p.match(tokenRParen); !ok {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := p.match(tokenComma); ok {
				continue
			}
			if _, ok := p.match(tokenRParen); ok {
				break
			}
			return nil, &SyntaxError{Offset: p.endOffset(), Message: fmt.Sprintf("missing ')' after arguments to %s", name.raw)}
		}
	}

	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return nil, &SyntaxError{Offset: name.pos, Message: fmt.Sprintf("wrong number of arguments to %s", name.raw)}
	}
	return callNode{name: strings.ToLower(name.raw), fn: fn, args: args}, nil
}
