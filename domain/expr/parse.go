package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax reports malformed expression text. Callers that reach the
// parser after the cheap lexical checks wrap this into their own
// computation-failure error.
var ErrSyntax = errors.New("invalid expression syntax")

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPow
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Parse converts expression text into a tree. The grammar covers numeric
// literals (decimal and exponent notation), named variables, the binary
// operators + - * / ** (with ^ accepted as a power alias), unary +/-,
// parentheses and single-argument calls of the supported functions.
func Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrSyntax, tok.text, tok.pos)
	}
	return e, nil
}

// MustParse parses or panics. For fixtures and tests.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			i = scanNumber(input, i)
			text := input[start:i]
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return nil, fmt.Errorf("%w: bad number %q at position %d", ErrSyntax, text, start)
			}
			toks = append(toks, token{kind: tokNumber, text: text, pos: start})
		case isIdentStart(c):
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: input[start:i], pos: start})
		case c == '+':
			toks = append(toks, token{kind: tokPlus, text: "+", pos: i})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, text: "-", pos: i})
			i++
		case c == '*':
			if i+1 < len(input) && input[i+1] == '*' {
				toks = append(toks, token{kind: tokPow, text: "**", pos: i})
				i += 2
			} else {
				toks = append(toks, token{kind: tokStar, text: "*", pos: i})
				i++
			}
		case c == '^':
			toks = append(toks, token{kind: tokPow, text: "^", pos: i})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash, text: "/", pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at position %d", ErrSyntax, string(c), i)
		}
	}
	toks = append(toks, token{kind: tokEOF, text: "", pos: len(input)})
	return toks, nil
}

// scanNumber consumes digits, one decimal point and an optional exponent
// starting at i, returning the index just past the literal.
func scanNumber(input string, i int) int {
	for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
		i++
	}
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			j++
		}
		if j < len(input) && input[j] >= '0' && input[j] <= '9' {
			i = j
			for i < len(input) && input[i] >= '0' && input[i] <= '9' {
				i++
			}
		}
	}
	return i
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) next() token {
	tok := p.toks[p.i]
	if tok.kind != tokEOF {
		p.i++
	}
	return tok
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = Bin{Op: OpAdd, L: left, R: right}
		case tokMinus:
			p.next()
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = Bin{Op: OpSub, L: left, R: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = Bin{Op: OpMul, L: left, R: right}
		case tokSlash:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = Bin{Op: OpDiv, L: left, R: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.peek().kind {
	case tokMinus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Neg{X: x}, nil
	case tokPlus:
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokPow {
		p.next()
		// Right-associative, and the exponent may carry its own sign:
		// x**-2, 2**3**2 == 2**(3**2).
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Bin{Op: OpPow, L: base, R: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q at position %d", ErrSyntax, tok.text, tok.pos)
		}
		return Num{Value: v}, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			if !IsFunction(tok.text) {
				return nil, fmt.Errorf("%w: unknown function %q at position %d", ErrSyntax, tok.text, tok.pos)
			}
			p.next()
			arg, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			if closing := p.next(); closing.kind != tokRParen {
				return nil, fmt.Errorf("%w: expected ) at position %d", ErrSyntax, closing.pos)
			}
			return Call{Fn: tok.text, Arg: arg}, nil
		}
		return Var{Name: tok.text}, nil
	case tokLParen:
		e, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ) at position %d", ErrSyntax, closing.pos)
		}
		return e, nil
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrSyntax, tok.text, tok.pos)
}
