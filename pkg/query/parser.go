package query

import (
	"fmt"
	"strconv"

	"github.com/brody715/lumidb/pkg/value"
)

// ParseError carries the span of the offending token, per spec.md §4.C:
// "Any ErrorToken encountered before parsing surfaces as a parse error
// carrying the token's span."
type ParseError struct {
	Message    string
	Start, End int
}

func (e *ParseError) Error() string { return e.Message }

// Parser is a recursive-descent, single-token-lookahead parser for the
// grammar in spec.md §4.C:
//
//	query := func ( '|' func )*  EOS
//	func  := IDENT ( '(' args? ')' )?
//	args  := value ( ',' value )*
//	value := StringLiteral | FloatLiteral | Identifier
//
// Grounded on the teacher's pkg/sql/parser.go shape (a Parser struct
// holding a Lexer and the current lookahead token, advanced explicitly).
type Parser struct {
	lexer *Lexer
	tok   Token
}

// NewParser creates a Parser over input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.advance()
	return p
}

func (p *Parser) advance() { p.tok = p.lexer.NextToken() }

// ParseQuery parses a complete pipeline query string.
func ParseQuery(input string) (Query, error) {
	return NewParser(input).parseQuery()
}

func (p *Parser) parseQuery() (Query, error) {
	if err := p.checkNotError(); err != nil {
		return Query{}, err
	}
	if p.tok.Kind == KindEOS {
		return Query{}, &ParseError{Message: "empty query", Start: p.tok.Start, End: p.tok.End}
	}

	var funcs []QueryFunction
	for {
		fn, err := p.parseFunc()
		if err != nil {
			return Query{}, err
		}
		funcs = append(funcs, fn)

		if p.tok.Kind == KindPipe {
			p.advance()
			continue
		}
		break
	}

	if p.tok.Kind != KindEOS {
		return Query{}, &ParseError{
			Message: fmt.Sprintf("unexpected token %q at end of query", p.tok.Text),
			Start:   p.tok.Start, End: p.tok.End,
		}
	}
	return Query{Functions: funcs}, nil
}

func (p *Parser) parseFunc() (QueryFunction, error) {
	if err := p.checkNotError(); err != nil {
		return QueryFunction{}, err
	}
	if p.tok.Kind != KindIdentifier {
		return QueryFunction{}, &ParseError{
			Message: fmt.Sprintf("expected function name, got %s", p.tok.Kind),
			Start:   p.tok.Start, End: p.tok.End,
		}
	}
	name := p.tok.Text
	p.advance()

	var args []value.Value
	if p.tok.Kind == KindLParen {
		p.advance()
		if p.tok.Kind != KindRParen {
			var err error
			args, err = p.parseArgs()
			if err != nil {
				return QueryFunction{}, err
			}
		}
		if err := p.checkNotError(); err != nil {
			return QueryFunction{}, err
		}
		if p.tok.Kind != KindRParen {
			return QueryFunction{}, &ParseError{
				Message: fmt.Sprintf("expected ')', got %s", p.tok.Kind),
				Start:   p.tok.Start, End: p.tok.End,
			}
		}
		p.advance()
	}

	return QueryFunction{Name: name, Args: args}, nil
}

func (p *Parser) parseArgs() ([]value.Value, error) {
	var args []value.Value
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, v)

		if p.tok.Kind == KindComma {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

func (p *Parser) parseValue() (value.Value, error) {
	if err := p.checkNotError(); err != nil {
		return value.Value{}, err
	}

	switch p.tok.Kind {
	case KindString:
		v := value.FromString(p.tok.Text)
		p.advance()
		return v, nil
	case KindFloat:
		f, err := strconv.ParseFloat(p.tok.Text, 32)
		if err != nil {
			return value.Value{}, &ParseError{
				Message: fmt.Sprintf("invalid float literal %q", p.tok.Text),
				Start:   p.tok.Start, End: p.tok.End,
			}
		}
		p.advance()
		return value.FromFloat(float32(f)), nil
	case KindIdentifier:
		text := p.tok.Text
		p.advance()
		if text == "null" {
			return value.Null, nil
		}
		return value.FromString(text), nil
	default:
		return value.Value{}, &ParseError{
			Message: fmt.Sprintf("expected a value, got %s", p.tok.Kind),
			Start:   p.tok.Start, End: p.tok.End,
		}
	}
}

func (p *Parser) checkNotError() error {
	if p.tok.Kind == KindError {
		return &ParseError{
			Message: fmt.Sprintf("unexpected character %q", p.tok.Text),
			Start:   p.tok.Start, End: p.tok.End,
		}
	}
	return nil
}
