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

// Package ruchy is the embedding surface for the rest of this module: it
// wires the parser, interpreter, built-in registry, and transpiler
// behind the handful of entry points an embedder actually needs.
package ruchy

import (
	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/builtin"
	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/interp"
	"github.com/ruchy-lang/ruchy/parser"
	"github.com/ruchy-lang/ruchy/transpile"
)

// Parse parses src (attributed to filename in diagnostics) into an AST.
// On a syntax error it returns the first collected *errors.Error; the
// returned Expr is still the best-effort partial tree the parser
// recovered.
func Parse(filename, src string) (*ast.Expr, error) {
	return parser.ParseFile(filename, src)
}

// ParseExpr parses src as a single expression.
func ParseExpr(src string) (*ast.Expr, error) {
	return parser.ParseExpr(src)
}

// Option configures an evaluation session or transpile pass. The same
// functional-options style is used end to end: interp.Option under the
// hood for Evaluate, transpile.Option for Transpile.
type Option = interp.Option

// Re-exported constructors so callers configuring a session never need to
// import the interp package directly.
var (
	WithDeadline      = interp.WithDeadline
	WithStepBudget    = interp.WithStepBudget
	WithTransactional = interp.WithTransactional
	WithLogger        = interp.WithLogger
	WithBuiltins      = interp.WithBuiltins
)

// BuiltinRegistry returns the default name→Intrinsic table wired from
// opts, letting an embedder register its own host functions via
// WithBuiltins(extra) without re-deriving the default set.
func BuiltinRegistry(opts builtin.Options) map[string]interp.Intrinsic {
	return builtin.NewRegistry(opts)
}

// Session is one configured interpreter plus the built-in registry it
// was constructed with, produced by NewSession. Re-using a Session across
// several Evaluate calls amortizes registry construction.
type Session struct {
	interp *interp.Interp
}

// NewSession builds a Session from the default built-in registry
// (bioOpts) and the given evaluation options.
func NewSession(bioOpts builtin.Options, opts ...Option) *Session {
	reg := builtin.NewRegistry(bioOpts)
	return &Session{interp: interp.New(reg, opts...)}
}

// Evaluate runs e to a value in a fresh root scope.
func (s *Session) Evaluate(e *ast.Expr) (interp.Value, error) {
	return s.interp.Eval(e, interp.NewRootScope())
}

// EvaluateIn runs e against an existing scope, letting a REPL-style
// caller carry bindings across successive calls the way a shell keeps
// its environment between commands.
func (s *Session) EvaluateIn(e *ast.Expr, env *interp.Scope) (interp.Value, error) {
	return s.interp.Eval(e, env)
}

// Evaluate is the one-shot convenience form of NewSession(...).Evaluate:
// parse-once, default builtins, no reuse across calls.
func Evaluate(e *ast.Expr, opts ...Option) (interp.Value, error) {
	return NewSession(builtin.DefaultOptions(), opts...).Evaluate(e)
}

// TranspileOption configures Transpile/TranspileProgram.
type TranspileOption = transpile.Option

var (
	WithTarget  = transpile.WithTarget
	WithLibrary = transpile.WithLibrary
)

// Transpile lowers e to a target-language fragment; it
// does not wrap the result in an imports block or driver function.
func Transpile(e *ast.Expr, opts ...TranspileOption) (string, error) {
	return transpile.Transpile(e, opts...)
}

// TranspileProgram lowers e to a complete, runnable target-language
// source file: imports block followed by a main driver (or, with
// WithLibrary(true), no driver at all).
func TranspileProgram(e *ast.Expr, opts ...TranspileOption) (string, error) {
	return transpile.TranspileProgram(e, opts...)
}

// Diagnostic renders err as a single "file:line:col: message" line
// against src, the way an embedder's REPL or test harness reports a
// failure to its user. err must be (or wrap) an
// *errors.Error; any other error is returned via its own Error() text.
func Diagnostic(filename, src string, err error) string {
	if rerr, ok := err.(*rerrors.Error); ok {
		return rerr.Report(filename, src)
	}
	return err.Error()
}
