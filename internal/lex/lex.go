// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lex provides a small state-function based lexer engine.
//
// A lexer is driven by StateFn functions. Each call to Lex runs state
// functions until one of them emits an item:
//
//	func lexInit(l *lex.Lexer) lex.StateFn {
//		r := l.Next()
//		if r == lex.EOF {
//			l.Emit(lex.EOF, "end of input")
//			return nil
//		}
//		...
//	}
//
package lex

import (
	"bufio"
	"fmt"
	"io"
)

// EOF is both the rune returned by Next at the end of input and the item type
// emitted for it.
//
const EOF = -1

// Type is the type of a lexed item.
//
type Type int

// Pos is a rune offset in the input.
//
type Pos int

// Item is a lexed token.
//
type Item struct {
	Type  Type
	Pos   Pos
	Value interface{}
}

func (i Item) String() string {
	if i.Type == EOF {
		return "end of input"
	}
	switch v := i.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case rune:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprint(i.Value)
}

// StateFn is a lexer state function. A nil StateFn returns the lexer to its
// initial state.
//
type StateFn func(l *Lexer) StateFn

// Interface is implemented by lexers.
//
type Interface interface {
	Lex() Item
}

// Lexer holds the state of a lexer.
//
type Lexer struct {
	r     *bufio.Reader
	init  StateFn
	state StateFn
	items []Item

	cur   rune
	pos   Pos // position of cur
	start Pos // start of the current token
	back  []rune
	prev  []rune
	err   error
}

// New returns a new lexer reading from r. init is the initial state.
//
func New(r io.Reader, init StateFn) *Lexer {
	return &Lexer{r: bufio.NewReader(r), init: init, pos: -1, cur: EOF}
}

// Lex returns the next item.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		st := l.state
		if st == nil {
			// new token
			l.start = l.pos + 1
			st = l.init
		}
		l.state = st(l)
	}
	i := l.items[0]
	l.items = l.items[1:]
	return i
}

// Next returns the next rune in the input or EOF.
//
func (l *Lexer) Next() rune {
	var r rune
	if n := len(l.back); n > 0 {
		r = l.back[n-1]
		l.back = l.back[:n-1]
	} else if l.err != nil {
		r = EOF
	} else {
		var err error
		r, _, err = l.r.ReadRune()
		if err != nil {
			l.err = err
			r = EOF
		}
	}
	l.prev = append(l.prev, l.cur)
	l.cur = r
	l.pos++
	return r
}

// Backup pushes the current rune back into the input.
//
func (l *Lexer) Backup() {
	n := len(l.prev)
	if n == 0 {
		panic("lex: Backup called without a matching Next")
	}
	l.back = append(l.back, l.cur)
	l.cur = l.prev[n-1]
	l.prev = l.prev[:n-1]
	l.pos--
}

// Current returns the last rune returned by Next.
//
func (l *Lexer) Current() rune { return l.cur }

// Pos returns the position of the current rune.
//
func (l *Lexer) Pos() Pos { return l.pos }

// AcceptWhile reads runes while f returns true. The first rune for which f
// returns false is pushed back.
//
func (l *Lexer) AcceptWhile(f func(r rune) bool) {
	for r := l.Next(); r != EOF && f(r); r = l.Next() {
	}
	l.Backup()
}

// Emit emits an item of type t starting at the beginning of the current token.
//
func (l *Lexer) Emit(t Type, value interface{}) {
	l.items = append(l.items, Item{Type: t, Pos: l.start, Value: value})
	l.start = l.pos + 1
	// the rune history is only needed within a token.
	l.prev = l.prev[:0]
}
