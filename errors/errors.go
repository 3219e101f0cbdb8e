// Copyright 2024 The Ruchy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines the span-bearing error type shared by the lexer,
// parser, interpreter, and transpiler. Every error in the
// core carries a kind, a message, and a source span; none are ever
// silently swallowed.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ruchy-lang/ruchy/token"
)

// Kind classifies an Error without requiring callers to string-match
// messages. Kinds are grouped per stage but kept in one
// enum because all three stages share the same List/Error plumbing.
type Kind int

const (
	// Parse-stage kinds.
	UnexpectedToken Kind = iota
	IncompleteConstruct
	UnsupportedSyntax
	ConstNotAllowed

	// Interpreter-stage kinds.
	UnboundName
	TypeError
	ArityError
	DivisionByZero
	NonExhaustiveMatch
	PatternShapeMismatch
	IndexOutOfBounds
	AssignToImmutable
	IOError
	Overflow
	UserRaised
	BudgetExceeded
	Unsupported

	// Transpile-stage kinds.
	UnresolvedBuiltin
	MixedTypeUsage
	UnsupportedConstruct
)

var kindNames = map[Kind]string{
	UnexpectedToken:      "unexpected token",
	IncompleteConstruct:  "incomplete construct",
	UnsupportedSyntax:    "unsupported syntax",
	ConstNotAllowed:      "const declarations are not allowed",
	UnboundName:          "unbound name",
	TypeError:            "type error",
	ArityError:           "wrong number of arguments",
	DivisionByZero:       "division by zero",
	NonExhaustiveMatch:   "non-exhaustive match",
	PatternShapeMismatch: "pattern shape mismatch",
	IndexOutOfBounds:     "index out of bounds",
	AssignToImmutable:    "assignment to immutable binding",
	IOError:              "I/O error",
	Overflow:             "arithmetic overflow",
	UserRaised:           "user error",
	BudgetExceeded:       "evaluation budget exceeded",
	Unsupported:          "unsupported operation",
	UnresolvedBuiltin:    "unresolved built-in",
	MixedTypeUsage:       "mixed type usage",
	UnsupportedConstruct: "unsupported construct",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "error"
}

// Error is a single span-bearing diagnostic. It is the common type
// produced by the lexer, parser, interp, and transpile packages.
type Error struct {
	Kind Kind
	Span token.Span
	Msg  string
}

// Newf creates an Error with the given kind, span, and formatted message.
func Newf(kind Kind, span token.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// Position renders the error's line:col against src, the 1-based form
// every user-visible diagnostic reports.
func (e *Error) Position(filename, src string) token.Position {
	return token.PositionIn(src, filename, e.Span.Start)
}

// Report renders "file:line:col: message" (the Position's String form,
// then the message) the way the embedder is expected to print a
// single-line diagnostic.
func (e *Error) Report(filename, src string) string {
	pos := e.Position(filename, src)
	return fmt.Sprintf("%s: %s", pos.String(), e.Error())
}

// Caret renders a two-line diagnostic: the report line followed by the
// offending source line with a caret under the span's start column.
func (e *Error) Caret(filename, src string) string {
	pos := e.Position(filename, src)
	lines := strings.Split(src, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return e.Report(filename, src)
	}
	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", max(0, pos.Column-1)) + "^"
	return fmt.Sprintf("%s\n%s\n%s", e.Report(filename, src), line, caret)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// List collects errors encountered during one pass (lex, parse, typecheck,
// transpile). Errors are kept in span order, so the first error
// reported is always the earliest in the source.
type List struct {
	errs []*Error
}

// Add appends err to the list.
func (l *List) Add(err *Error) { l.errs = append(l.errs, err) }

// Len reports how many errors have been collected.
func (l *List) Len() int { return len(l.errs) }

// All returns the collected errors sorted by span start.
func (l *List) All() []*Error {
	sorted := make([]*Error, len(l.errs))
	copy(sorted, l.errs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})
	return sorted
}

// First returns the earliest error by span, or nil if none were
// collected. The parser hands this one back to the caller while still
// retaining the follow-ons for diagnostics.
func (l *List) First() *Error {
	if len(l.errs) == 0 {
		return nil
	}
	all := l.All()
	return all[0]
}

// Err returns l as an error (nil if empty), so callers can return it
// directly from a function signature of the form (T, error).
func (l *List) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}

func (l *List) Error() string {
	all := l.All()
	parts := make([]string, len(all))
	for i, e := range all {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}
