// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl implements the lexer and parser for signal expressions like
// "clk, data[3], addr[0..4], 1" and cell connection strings like
// "C=clk, D=data[3], CE=1".
//
package hdl

import (
	"math"
	"strings"
	"unicode"

	"github.com/db47h/netlist/internal/lex"
	"github.com/pkg/errors"
)

// Tokens
const (
	EOF lex.Type = lex.EOF
	Raw lex.Type = iota
	Ident
	BracketOpen
	BracketClose
	Comma
	Int
	Range
	Equal
)

// Lexer returns a new lexer for signal expressions and connection strings.
//
func Lexer(input string) lex.Interface {
	return lex.New(strings.NewReader(input), lexInit)
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$' || r == '\\'
}

func isIdent(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.EOF:
		return lexEOF
	case unicode.IsSpace(r):
		l.AcceptWhile(unicode.IsSpace)
	case isIdentStart(r):
		return lexIdent
	case r == '[':
		l.Emit(BracketOpen, "[")
	case r == ']':
		l.Emit(BracketClose, "]")
	case r == ',':
		l.Emit(Comma, ",")
	case '0' <= r && r <= '9':
		return lexNumber
	case r == '=':
		l.Emit(Equal, "=")
	case r == '.':
		n := l.Next()
		if n == '.' {
			l.Emit(Range, "..")
			break
		}
		l.Backup()
		fallthrough
	default:
		l.Emit(Raw, r)
		return lexEOF
	}
	return nil
}

// maxInt is the largest integer literal. Larger values are emitted as -1.
const maxInt = math.MaxInt32

func lexNumber(l *lex.Lexer) lex.StateFn {
	i := int(l.Current() - '0')
	r := l.Next()
	for '0' <= r && r <= '9' {
		d := int(r - '0')
		switch {
		case i < 0:
		case i > (maxInt-d)/10:
			i = -1
		default:
			i = i*10 + d
		}
		r = l.Next()
	}
	l.Backup()
	l.Emit(Int, i)
	return nil
}

func lexIdent(l *lex.Lexer) lex.StateFn {
	var buf strings.Builder
	buf.Grow(8)
	buf.WriteRune(l.Current())
	r := l.Next()
	for isIdent(r) {
		buf.WriteRune(r)
		r = l.Next()
	}
	l.Backup()
	l.Emit(Ident, buf.String())
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(lex.EOF, "end of input")
	return lexEOF
}

// Pin is a simple wire or port name
//
type Pin struct {
	Name string
	Pos  lex.Pos
}

// PinIndex is an indexed wire bit w[index]
//
type PinIndex struct {
	Pin
	Index int
}

// PinRange is an inclusive bit range w[start..end]
//
type PinRange struct {
	Pin
	Start int
	End   int
}

// Const is a constant bit value, 0 or 1.
//
type Const struct {
	Value int
	Pos   lex.Pos
}

// PinAssignment is a cell port to signal assignment. port=sig
//
type PinAssignment struct {
	LHS Pin
	RHS interface{}
}

// Parser is a simplistic parser
//
type Parser struct {
	Input string
	l     lex.Interface
	i     lex.Item
	state int
}

const (
	stateInit = iota
	stateStarted
	stateDone
)

// Next returns the next item in the input stream, or nil at the end of input.
// It recognizes signal names optionally followed by an index or range, and
// constants, separated by commas. allowConns specifies if port=signal
// assignments are expected instead of plain signals.
//
func (p *Parser) Next(allowConns bool) (interface{}, error) {
	if p.state == stateDone {
		return nil, nil
	}
	if p.l == nil {
		p.l = Lexer(p.Input)
	}

	p.i = p.l.Lex()
	if p.state == stateInit && p.i.Type == EOF {
		p.state = stateDone
		return nil, nil
	}
	p.state = stateStarted

	if allowConns {
		return p.assignment()
	}
	sig, err := p.getSig()
	if err != nil {
		p.state = stateDone
		return nil, err
	}
	if err = p.endItem(); err != nil {
		return nil, err
	}
	return sig, nil
}

func (p *Parser) assignment() (interface{}, error) {
	if p.i.Type != Ident {
		p.state = stateDone
		return nil, parseError(p.Input, p.i.Pos, "expected port name")
	}
	port := Pin{p.i.Value.(string), p.i.Pos}
	p.i = p.l.Lex()
	if p.i.Type != Equal {
		p.state = stateDone
		return nil, parseError(p.Input, p.i.Pos, "expected '=' after port name")
	}
	p.i = p.l.Lex()
	sig, err := p.getSig()
	if err != nil {
		p.state = stateDone
		return nil, err
	}
	if err = p.endItem(); err != nil {
		return nil, err
	}
	return PinAssignment{port, sig}, nil
}

// endItem checks that the current token terminates an item.
//
func (p *Parser) endItem() error {
	switch p.i.Type {
	case EOF:
		p.state = stateDone
		return nil
	case Comma:
		return nil
	}
	p.state = stateDone
	return parseError(p.Input, p.i.Pos, "unexpected "+p.i.String())
}

func (p *Parser) getSig() (interface{}, error) {
	if p.i.Type == Int {
		c := Const{p.i.Value.(int), p.i.Pos}
		if c.Value < 0 || c.Value > 1 {
			return nil, parseError(p.Input, p.i.Pos, "constant must be 0 or 1")
		}
		p.i = p.l.Lex()
		return c, nil
	}
	if p.i.Type != Ident {
		return nil, parseError(p.Input, p.i.Pos, "expected signal name")
	}
	pin := Pin{p.i.Value.(string), p.i.Pos}
	// after ident, expect ',', '[' or EOF
	p.i = p.l.Lex()
	if p.i.Type != BracketOpen {
		return pin, nil
	}
	p.i = p.l.Lex()
	if p.i.Type != Int {
		return nil, parseError(p.Input, p.i.Pos, "integer value expected after '['")
	}
	start, err := p.index()
	if err != nil {
		return nil, err
	}
	end := -1
	p.i = p.l.Lex()
	if p.i.Type == Range {
		p.i = p.l.Lex()
		if p.i.Type != Int {
			return nil, parseError(p.Input, p.i.Pos, "integer value expected after '..'")
		}
		if end, err = p.index(); err != nil {
			return nil, err
		}
		p.i = p.l.Lex()
	}
	if p.i.Type != BracketClose {
		return nil, parseError(p.Input, p.i.Pos, "closing ']' expected after index or range")
	}
	p.i = p.l.Lex()
	if end >= 0 {
		return PinRange{pin, start, end}, nil
	}
	return PinIndex{pin, start}, nil
}

// index returns the value of the current Int token.
func (p *Parser) index() (int, error) {
	v := p.i.Value.(int)
	if v < 0 {
		return 0, parseError(p.Input, p.i.Pos, "integer value out of range")
	}
	return v, nil
}

func parseError(in string, pos lex.Pos, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
