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

// Package transpile lowers an *ast.Expr to a token stream in the
// canonical Rust target, mirroring how ast.Print (a
// same-language round-trip printer) walks the tree but emitting target
// syntax instead and tracking which built-in-family imports the emitted
// program needs. Like ast/print.go, emission is a single recursive
// descent over ExprKind with no separate IR.
package transpile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/builtin"
	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/token"
)

// builtinTemplates tries each family's Transpile* function in turn until
// one claims the name. Order follows registry.go's NewRegistry wiring
// order (io/assert/types, math, json, yaml, http, fs, dataframe).
var builtinTemplates = []func(name string, args []string) (string, []string, bool){
	builtin.TranspileIO,
	builtin.TranspileTypeConstructors,
	builtin.TranspileMath,
	builtin.TranspileJSON,
	builtin.TranspileYAML,
	builtin.TranspileHTTP,
	builtin.TranspileFS,
	builtin.TranspileDataframe,
}

// Config carries the transpiler's knobs.
// Target is reserved for future non-Rust backends; the only implemented
// value today is "rust".
type Config struct {
	Target  string
	AsLib   bool // if true, TranspileProgram omits the main() wrapper
}

// Option configures a Config, following interp.Option's convention.
type Option func(*Config)

// WithTarget selects the emission target. Only "rust" (the default) is
// implemented; other values are accepted so callers can thread a dialect
// through without a compile-time dependency on this package's internals.
func WithTarget(name string) Option { return func(c *Config) { c.Target = name } }

// WithLibrary suppresses the main() driver wrapper TranspileProgram would
// otherwise emit, for source files meant to be transpiled as a library
// module rather than a runnable program.
func WithLibrary(asLib bool) Option { return func(c *Config) { c.AsLib = asLib } }

// emitter carries the mutable state of one transpilation pass: the output
// buffer, the set of external imports built-in expansion has requested,
// and the error list (transpile errors are collected, not panicked).
type emitter struct {
	cfg     Config
	out     strings.Builder
	imports map[string]bool
	errs    rerrors.List
}

// Transpile lowers e to a Rust expression/item fragment. It does not wrap
// the result in a main function or imports block; use TranspileProgram
// for a runnable driver.
func Transpile(e *ast.Expr, opts ...Option) (string, error) {
	em := newEmitter(opts)
	em.emit(e)
	if em.errs.Len() > 0 {
		return "", em.errs.Err()
	}
	return em.out.String(), nil
}

// TranspileProgram lowers e into a complete runnable source file: an
// imports block derived from the registry usages, followed by a main
// function whose body is the translated top-level block. main never
// carries a return type.
func TranspileProgram(e *ast.Expr, opts ...Option) (string, error) {
	em := newEmitter(opts)
	items, stmts := splitTopLevel(e)

	hasMain := false
	for _, it := range items {
		if it.Kind == ast.KindFunction && it.FuncName == "main" {
			hasMain = true
		}
	}
	if hasMain && len(stmts) > 0 && !em.cfg.AsLib {
		em.fail(stmts[0].Span, rerrors.UnsupportedConstruct,
			"top-level statements cannot be combined with an explicit main function")
	}

	itemOut := make([]string, len(items))
	for i, it := range items {
		itemOut[i] = em.emitToString(it)
	}
	stmtOut := make([]string, len(stmts))
	for i, st := range stmts {
		stmtOut[i] = em.emitToString(st)
	}
	if em.errs.Len() > 0 {
		return "", em.errs.Err()
	}

	var b strings.Builder
	for _, imp := range em.sortedImports() {
		fmt.Fprintf(&b, "use %s;\n", imp)
	}
	if len(em.imports) > 0 {
		b.WriteByte('\n')
	}
	for _, it := range itemOut {
		b.WriteString(it)
		b.WriteString("\n\n")
	}
	if em.cfg.AsLib || hasMain {
		if em.cfg.AsLib {
			for _, st := range stmtOut {
				b.WriteString(st)
				b.WriteString(";\n")
			}
		}
		return b.String(), nil
	}
	b.WriteString("fn main() {\n")
	for _, st := range stmtOut {
		lines := strings.Split(st, "\n")
		for i, line := range lines {
			b.WriteString("    ")
			b.WriteString(line)
			if i == len(lines)-1 {
				b.WriteByte(';')
			}
			b.WriteByte('\n')
		}
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// splitTopLevel separates a program's top-level block into Rust item
// declarations (functions, modules, type definitions, imports), which are
// emitted at file scope, and loose statements, which become the body of
// the synthesized main driver. A non-block expression is a single
// statement.
func splitTopLevel(e *ast.Expr) (items, stmts []*ast.Expr) {
	var all []*ast.Expr
	if e != nil && e.Kind == ast.KindBlock {
		all = e.Block
	} else if e != nil {
		all = []*ast.Expr{e}
	}
	for _, it := range all {
		switch it.Kind {
		case ast.KindFunction, ast.KindModule, ast.KindStruct, ast.KindEnum,
			ast.KindTrait, ast.KindImpl, ast.KindTypeAlias, ast.KindImport,
			ast.KindExport:
			items = append(items, it)
		default:
			stmts = append(stmts, it)
		}
	}
	return items, stmts
}

func newEmitter(opts []Option) *emitter {
	cfg := Config{Target: "rust"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &emitter{cfg: cfg, imports: map[string]bool{}}
}

func (em *emitter) requireImport(path string) { em.imports[path] = true }

// sortedImports returns the accumulated import set in lexical order.
func (em *emitter) sortedImports() []string {
	out := make([]string, 0, len(em.imports))
	for imp := range em.imports {
		out = append(out, imp)
	}
	sort.Strings(out)
	return out
}

func (em *emitter) fail(span token.Span, kind rerrors.Kind, format string, args ...any) {
	em.errs.Add(rerrors.Newf(kind, span, format, args...))
}

// emit is the recursive core, dispatching on e.Kind the way ast.Print's
// printExpr does, but targeting Rust syntax instead of Ruchy's own.
func (em *emitter) emit(e *ast.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.KindInteger:
		if e.Int < 0 {
			em.out.WriteString("(-")
			em.out.WriteString(strconv.FormatInt(-e.Int, 10))
			em.out.WriteByte(')')
		} else {
			em.out.WriteString(strconv.FormatInt(e.Int, 10))
		}
	case ast.KindFloat:
		em.out.WriteString(strconv.FormatFloat(e.Float, 'g', -1, 64))
		if e.Float == float64(int64(e.Float)) {
			em.out.WriteString("_f64")
		}
	case ast.KindString:
		fmt.Fprintf(&em.out, "%q.to_string()", e.Str)
	case ast.KindInterpString:
		em.emitInterpString(e)
	case ast.KindBool:
		em.out.WriteString(strconv.FormatBool(e.Bool))
	case ast.KindChar:
		fmt.Fprintf(&em.out, "%q", e.Char)
	case ast.KindByte:
		fmt.Fprintf(&em.out, "%du8", e.Byte)
	case ast.KindUnit, ast.KindNil:
		em.out.WriteString("()")

	case ast.KindIdentifier:
		em.out.WriteString(escapeIdent(e.Name))
	case ast.KindQualifiedName:
		parts := make([]string, len(e.Path))
		for i, p := range e.Path {
			parts[i] = escapeIdent(p)
		}
		em.out.WriteString(strings.Join(parts, "::"))

	case ast.KindList:
		em.out.WriteString("vec![")
		em.emitList(e.Items)
		em.out.WriteByte(']')
	case ast.KindTuple:
		em.out.WriteByte('(')
		em.emitList(e.Items)
		if len(e.Items) == 1 {
			em.out.WriteByte(',')
		}
		em.out.WriteByte(')')
	case ast.KindObject:
		em.emitObject(e)
	case ast.KindRange:
		em.emit(e.RangeStart)
		if e.Inclusive {
			em.out.WriteString("..=")
		} else {
			em.out.WriteString("..")
		}
		em.emit(e.RangeEnd)
	case ast.KindSpread:
		em.emit(e.Inner)

	case ast.KindBinary:
		em.emitBinary(e)
	case ast.KindUnary:
		em.emitUnary(e)
	case ast.KindAssign:
		em.emit(e.Left)
		em.out.WriteString(" = ")
		em.emit(e.Right)
	case ast.KindCompoundAssign:
		em.emit(e.Left)
		fmt.Fprintf(&em.out, " %s= ", e.Op)
		em.emit(e.Right)
	case ast.KindIndex:
		em.emit(e.Left)
		em.out.WriteByte('[')
		em.emit(e.Index)
		em.out.WriteByte(']')
	case ast.KindFieldAccess:
		em.emit(e.Left)
		em.out.WriteByte('.')
		em.out.WriteString(escapeIdent(e.Field))

	case ast.KindIf:
		em.out.WriteString("if ")
		em.emit(e.Cond)
		em.out.WriteByte(' ')
		em.emitBody(e.Then)
		if e.Else != nil {
			em.out.WriteString(" else ")
			em.emitBody(e.Else)
		}
	case ast.KindMatch:
		em.emitMatch(e)
	case ast.KindWhile:
		em.out.WriteString("while ")
		em.emit(e.Cond)
		em.out.WriteByte(' ')
		em.emitBody(e.Body)
	case ast.KindFor:
		em.out.WriteString("for ")
		em.out.WriteString(rustPattern(e.ForPattern))
		em.out.WriteString(" in ")
		em.emit(e.ForIter)
		em.out.WriteByte(' ')
		em.emitBody(e.Body)
	case ast.KindLoop:
		em.out.WriteString("loop ")
		em.emitBody(e.Body)
	case ast.KindBreak:
		em.out.WriteString("break")
		if e.Value != nil {
			em.out.WriteByte(' ')
			em.emit(e.Value)
		}
	case ast.KindContinue:
		em.out.WriteString("continue")
	case ast.KindReturn:
		em.out.WriteString("return")
		if e.Value != nil {
			em.out.WriteByte(' ')
			em.emit(e.Value)
		}
	case ast.KindTry:
		em.emit(e.Inner)
		em.out.WriteByte('?')

	case ast.KindLet:
		em.emitLet(e)
	case ast.KindBlock:
		em.emitBlock(e.Block)
	case ast.KindLambda:
		em.out.WriteByte('|')
		em.emitParams(e.Params)
		em.out.WriteString("| ")
		em.emit(e.Body)
	case ast.KindFunction:
		em.emitFunction(e)
	case ast.KindModule:
		em.emitModule(e)
	case ast.KindImport:
		em.emitImport(e)
	case ast.KindExport:
		em.emit(e.Inner)
	case ast.KindTypeAlias:
		fmt.Fprintf(&em.out, "type %s = %s;", escapeIdent(e.TypeAliasName), e.TypeAliasTarget)
	case ast.KindStruct:
		em.emitStruct(e)
	case ast.KindEnum:
		em.emitEnum(e)
	case ast.KindTrait:
		em.emitTraitStub(e)
	case ast.KindImpl:
		em.emitImpl(e)

	case ast.KindCall:
		em.emitCall(e)
	case ast.KindMethodCall:
		em.emit(e.Callee)
		em.out.WriteByte('.')
		em.out.WriteString(escapeIdent(e.Method))
		em.out.WriteByte('(')
		em.emitList(e.Args)
		em.out.WriteByte(')')
	case ast.KindMacro:
		em.emitMacroCall(e)

	case ast.KindAsyncBlock:
		em.out.WriteString("async ")
		em.emitBody(e.Body)
	case ast.KindAwait:
		em.emit(e.Inner)
		em.out.WriteString(".await")
	case ast.KindActor:
		em.fail(e.Span, rerrors.UnsupportedConstruct, "actor declarations have no transpilation target")
	case ast.KindSpawn, ast.KindSend:
		em.fail(e.Span, rerrors.UnsupportedConstruct, "spawn/send have no transpilation target")

	case ast.KindDataframe:
		em.emitDataframe(e)

	default:
		em.fail(e.Span, rerrors.UnsupportedConstruct, "unsupported expression kind %d", e.Kind)
	}
}

func (em *emitter) emitList(items []*ast.Expr) {
	for i, it := range items {
		if i > 0 {
			em.out.WriteString(", ")
		}
		em.emit(it)
	}
}

// emitBody emits a construct's body without doubling braces when the
// body is already a block.
func (em *emitter) emitBody(e *ast.Expr) {
	if e != nil && e.Kind == ast.KindBlock {
		em.emit(e)
		return
	}
	em.out.WriteString("{ ")
	em.emit(e)
	em.out.WriteString(" }")
}

// emitBlock leaves the last item unterminated so the block's value is the
// final expression, matching the interpreter's blocks-yield-their-last-
// expression rule; a trailing let still needs its semicolon.
func (em *emitter) emitBlock(items []*ast.Expr) {
	em.out.WriteString("{\n")
	for i, it := range items {
		em.emit(it)
		if i == len(items)-1 && it.Kind != ast.KindLet && it.Kind != ast.KindImport {
			em.out.WriteString("\n")
		} else {
			em.out.WriteString(";\n")
		}
	}
	em.out.WriteString("}")
}

// emitInterpString lowers an f"...{expr}..." literal to a format!
// invocation whose template collapses each embedded expression to a
// positional `{}` hole.
func (em *emitter) emitInterpString(e *ast.Expr) {
	var tmpl strings.Builder
	var args []*ast.Expr
	for _, part := range e.Parts {
		if part.Expr == nil {
			lit := strings.ReplaceAll(part.Lit, "{", "{{")
			lit = strings.ReplaceAll(lit, "}", "}}")
			tmpl.WriteString(lit)
			continue
		}
		tmpl.WriteString("{}")
		args = append(args, part.Expr)
	}
	fmt.Fprintf(&em.out, "format!(%q", tmpl.String())
	for _, a := range args {
		em.out.WriteString(", ")
		em.emit(a)
	}
	em.out.WriteByte(')')
}

func (em *emitter) emitObject(e *ast.Expr) {
	em.requireImport("std::collections::HashMap")
	em.out.WriteString("HashMap::from([")
	for i, f := range e.Fields {
		if i > 0 {
			em.out.WriteString(", ")
		}
		fmt.Fprintf(&em.out, "(%q.to_string(), ", f.Name)
		em.emit(f.Value)
		em.out.WriteString(")")
	}
	em.out.WriteString("])")
}

func (em *emitter) emitBinary(e *ast.Expr) {
	if e.Op == token.PIPELINE {
		// a |> f is f(a).
		em.emit(e.Right)
		em.out.WriteByte('(')
		em.emit(e.Left)
		em.out.WriteByte(')')
		return
	}
	if e.Op == token.NULL_COALESCE {
		// The left side of ?? is Option-shaped in the emitted program.
		em.out.WriteByte('(')
		em.emit(e.Left)
		em.out.WriteString(").unwrap_or(")
		em.emit(e.Right)
		em.out.WriteByte(')')
		return
	}
	if e.Op == token.POW {
		// Rust has no ** operator; emit the checked pow call.
		em.out.WriteByte('(')
		em.emit(e.Left)
		em.out.WriteString(".pow(")
		em.emit(e.Right)
		em.out.WriteString(" as u32))")
		return
	}
	em.out.WriteByte('(')
	em.emit(e.Left)
	fmt.Fprintf(&em.out, " %s ", e.Op)
	em.emit(e.Right)
	em.out.WriteByte(')')
}

func (em *emitter) emitUnary(e *ast.Expr) {
	op := e.Op.String()
	if e.Op == token.NOT {
		op = "!"
	}
	em.out.WriteString(op)
	em.emit(e.Operand)
}

func (em *emitter) emitMatch(e *ast.Expr) {
	em.out.WriteString("match ")
	em.emit(e.Scrutinee)
	em.out.WriteString(" {\n")
	for _, arm := range e.Arms {
		em.out.WriteString(rustPattern(arm.Pattern))
		if arm.Guard != nil {
			em.out.WriteString(" if ")
			em.emit(arm.Guard)
		}
		em.out.WriteString(" => ")
		em.emit(arm.Body)
		em.out.WriteString(",\n")
	}
	em.out.WriteString("}")
}

func (em *emitter) emitLet(e *ast.Expr) {
	em.out.WriteString("let ")
	if e.Mutable {
		em.out.WriteString("mut ")
	}
	em.out.WriteString(rustPattern(e.LetPattern))
	if e.LetType != "" {
		em.out.WriteString(": ")
		em.out.WriteString(rustType(e.LetType))
	}
	em.out.WriteString(" = ")
	em.emit(e.LetValue)
	if e.LetBody != nil {
		em.out.WriteString(";\n")
		em.emit(e.LetBody)
	}
}

func (em *emitter) emitParams(params []ast.Param) {
	for i, p := range params {
		if i > 0 {
			em.out.WriteString(", ")
		}
		if p.Mut {
			em.out.WriteString("mut ")
		}
		em.out.WriteString(rustPattern(p.Pattern))
	}
}

// emitFunction emits a named fn item. main is special-cased: it never
// gets a return-type annotation, whatever the source declared.
func (em *emitter) emitFunction(e *ast.Expr) {
	if e.IsPub {
		em.out.WriteString("pub ")
	}
	if e.IsAsync {
		em.out.WriteString("async ")
	}
	em.out.WriteString("fn ")
	em.out.WriteString(escapeIdent(e.FuncName))
	em.out.WriteByte('(')
	em.emitTypedParams(e.Params, e.Body)
	em.out.WriteByte(')')
	if e.FuncName != "main" && e.ReturnType != "" {
		em.out.WriteString(" -> ")
		em.out.WriteString(rustType(e.ReturnType))
	}
	em.out.WriteString(" ")
	em.emit(e.Body)
}

// emitTypedParams annotates each parameter: the declared type when one
// was written, otherwise the narrow usage-based inference over the
// function body.
func (em *emitter) emitTypedParams(params []ast.Param, body *ast.Expr) {
	for i, p := range params {
		if i > 0 {
			em.out.WriteString(", ")
		}
		if p.Mut {
			em.out.WriteString("mut ")
		}
		em.out.WriteString(rustPattern(p.Pattern))
		em.out.WriteString(": ")
		if p.Type != "" {
			em.out.WriteString(rustType(p.Type))
			continue
		}
		name := ""
		if names := p.Pattern.Names(); len(names) > 0 {
			name = names[0]
		}
		em.out.WriteString(em.inferParamType(name, body, p.Span))
	}
}

// inferParamType implements the narrow inference for an
// unannotated parameter: used as a callee it becomes a closure type over
// its call's argument count; used only numerically it becomes i64; used
// only in string positions, String. Mixed numeric/string usage cannot be
// reconciled for the target and is a transpile error with the
// parameter's span. Anything else falls back to a printable bound.
func (em *emitter) inferParamType(name string, body *ast.Expr, span token.Span) string {
	if name == "" {
		return "impl std::fmt::Debug"
	}
	var numeric, stringy bool
	callArity := -1
	ast.Inspect(body, func(e *ast.Expr) bool {
		switch e.Kind {
		case ast.KindCall:
			if e.Callee != nil && e.Callee.Kind == ast.KindIdentifier && e.Callee.Name == name {
				callArity = len(e.Args)
			}
		case ast.KindBinary:
			l, r := e.Left, e.Right
			isParam := func(x *ast.Expr) bool {
				return x != nil && x.Kind == ast.KindIdentifier && x.Name == name
			}
			if !isParam(l) && !isParam(r) {
				return true
			}
			switch e.Op {
			case token.SUB, token.MUL, token.QUO, token.REM, token.POW,
				token.LSS, token.LEQ, token.GTR, token.GEQ:
				numeric = true
			case token.ADD:
				other := r
				if isParam(r) {
					other = l
				}
				if other != nil {
					switch other.Kind {
					case ast.KindString, ast.KindInterpString:
						stringy = true
					case ast.KindInteger, ast.KindFloat:
						numeric = true
					}
				}
			}
		}
		return true
	})
	switch {
	case numeric && stringy:
		em.fail(span, rerrors.MixedTypeUsage, "parameter %s is used both numerically and as a string", name)
		return "i64"
	case callArity >= 0:
		args := make([]string, callArity)
		for i := range args {
			args[i] = "i64"
		}
		return "impl Fn(" + strings.Join(args, ", ") + ") -> i64"
	case numeric:
		return "i64"
	case stringy:
		return "String"
	default:
		return "impl std::fmt::Debug"
	}
}

func (em *emitter) emitModule(e *ast.Expr) {
	em.out.WriteString("mod ")
	em.out.WriteString(escapeIdent(e.ModuleName))
	em.out.WriteString(" {\n")
	for _, item := range e.ModuleBody {
		em.emit(item)
		em.out.WriteString("\n")
	}
	em.out.WriteString("}")
}

// emitImport lowers every supported import form to a `use`
// declaration, joining dotted source paths with Rust's `::` separator.
func (em *emitter) emitImport(e *ast.Expr) {
	base := strings.Join(escapeAll(e.ImportPath), "::")
	if len(e.ImportItems) == 0 {
		em.out.WriteString("use ")
		em.out.WriteString(base)
		em.out.WriteByte(';')
		return
	}
	names := make([]string, len(e.ImportItems))
	for i, item := range e.ImportItems {
		switch item.Kind {
		case ast.ImportWildcard:
			names[i] = "*"
		case ast.ImportAliased:
			names[i] = fmt.Sprintf("%s as %s", escapeIdent(item.Name), escapeIdent(item.Alias))
		default:
			names[i] = escapeIdent(item.Name)
		}
	}
	fmt.Fprintf(&em.out, "use %s::{%s};", base, strings.Join(names, ", "))
}

func escapeAll(path []string) []string {
	out := make([]string, len(path))
	for i, p := range path {
		switch p {
		case ".", "..", "self", "super", "crate":
			out[i] = p
		default:
			out[i] = escapeIdent(p)
		}
	}
	return out
}

func (em *emitter) emitStruct(e *ast.Expr) {
	em.out.WriteString("struct ")
	em.out.WriteString(escapeIdent(e.StructName))
	em.out.WriteString(" {\n")
	for _, f := range e.StructFields {
		fmt.Fprintf(&em.out, "    pub %s: %s,\n", escapeIdent(f.Name), rustType(f.Type))
	}
	em.out.WriteString("}")
	// A class declaration carries methods; emit them as the impl block an
	// explicit `impl Name { ... }` would have produced.
	if len(e.ImplMethods) > 0 {
		em.out.WriteString("\n\n")
		em.emitImpl(e)
	}
}

func (em *emitter) emitEnum(e *ast.Expr) {
	em.out.WriteString("enum ")
	em.out.WriteString(escapeIdent(e.EnumName))
	em.out.WriteString(" {\n")
	for _, v := range e.EnumVariants {
		em.out.WriteString("    ")
		em.out.WriteString(escapeIdent(v.Name))
		switch {
		case len(v.Tuple) > 0:
			em.out.WriteByte('(')
			em.out.WriteString(strings.Join(v.Tuple, ", "))
			em.out.WriteByte(')')
		case len(v.Record) > 0:
			em.out.WriteString(" { ")
			for i, f := range v.Record {
				if i > 0 {
					em.out.WriteString(", ")
				}
				fmt.Fprintf(&em.out, "%s: %s", escapeIdent(f.Name), rustType(f.Type))
			}
			em.out.WriteString(" }")
		}
		em.out.WriteString(",\n")
	}
	em.out.WriteString("}")
}

func (em *emitter) emitTraitStub(e *ast.Expr) {
	em.out.WriteString("trait ")
	em.out.WriteString(escapeIdent(e.TraitName))
	em.out.WriteString(" {\n")
	for _, m := range e.TraitMethods {
		fmt.Fprintf(&em.out, "    fn %s(&self);\n", escapeIdent(m.FuncName))
	}
	em.out.WriteString("}")
}

func (em *emitter) emitImpl(e *ast.Expr) {
	em.out.WriteString("impl ")
	if e.ImplTrait != "" {
		em.out.WriteString(escapeIdent(e.ImplTrait))
		em.out.WriteString(" for ")
	}
	em.out.WriteString(escapeIdent(e.ImplTarget))
	em.out.WriteString(" {\n")
	for _, m := range e.ImplMethods {
		em.emit(m)
		em.out.WriteString("\n")
	}
	em.out.WriteString("}")
}

func (em *emitter) emitCall(e *ast.Expr) {
	if e.Callee.Kind == ast.KindIdentifier && em.emitBuiltinCall(e, e.Callee.Name) {
		return
	}
	em.emit(e.Callee)
	em.out.WriteByte('(')
	em.emitList(e.Args)
	em.out.WriteByte(')')
}

// emitBuiltinCall expands registry built-ins: a call
// whose callee resolves via the registry to a built-in gets substituted
// with a template that validates arity at transpile time, inlines the
// target runtime-dependency call (JSON/YAML → serde, HTTP → a blocking
// client, filesystem → std::fs/path/env calls), and records the import
// the template needs, rather than falling through to a plain
// callee(args) emission. Returns false for any name the registry doesn't
// reserve, so the caller emits an ordinary function call instead.
func (em *emitter) emitBuiltinCall(e *ast.Expr, name string) bool {
	arity, reserved := builtin.Arities[name]
	if !reserved {
		return false
	}
	if len(e.Args) < arity.Min || (arity.Max >= 0 && len(e.Args) > arity.Max) {
		em.fail(e.Span, rerrors.ArityError, "%s takes %s, got %d", name, arityDesc(arity), len(e.Args))
		em.out.WriteString("unimplemented!()")
		return true
	}

	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = em.emitToString(a)
	}
	for _, tmpl := range builtinTemplates {
		if expr, imports, ok := tmpl(name, args); ok {
			for _, imp := range imports {
				em.requireImport(imp)
			}
			em.out.WriteString(expr)
			return true
		}
	}
	em.fail(e.Span, rerrors.UnresolvedBuiltin, "no transpile template for built-in %q", name)
	em.out.WriteString("unimplemented!()")
	return true
}

func arityDesc(a builtin.Arity) string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("at least %d argument(s)", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("exactly %d argument(s)", a.Min)
	default:
		return fmt.Sprintf("between %d and %d arguments", a.Min, a.Max)
	}
}

// emitToString renders e to a standalone Rust expression string without
// disturbing the caller's output buffer. A strings.Builder panics if
// copied after its first write, so this spins up a fresh sub-emitter
// that shares the parent's imports set by reference (nested
// requireImport calls from argument expressions still register) instead
// of snapshotting em.out.
func (em *emitter) emitToString(e *ast.Expr) string {
	sub := &emitter{cfg: em.cfg, imports: em.imports}
	sub.emit(e)
	for _, err := range sub.errs.All() {
		em.errs.Add(err)
	}
	return sub.out.String()
}

func (em *emitter) emitMacroCall(e *ast.Expr) {
	em.out.WriteString(e.MacroName)
	em.out.WriteString("!(")
	em.emitList(e.Args)
	em.out.WriteByte(')')
}

func (em *emitter) emitDataframe(e *ast.Expr) {
	em.requireImport("std::collections::HashMap")
	em.out.WriteString("DataFrame::from_columns(HashMap::from([")
	for i, col := range e.DataframeColumns {
		if i > 0 {
			em.out.WriteString(", ")
		}
		fmt.Fprintf(&em.out, "(%q.to_string(), vec![", col.Name)
		em.emitList(col.Values)
		em.out.WriteString("])")
	}
	em.out.WriteString("]))")
}

// escapeIdent escapes a raw identifier that collides with a Rust reserved
// word using Rust's raw-identifier mechanism, leaving the three
// self-referring names untouched.
func escapeIdent(name string) string {
	switch name {
	case "self", "Self", "super", "crate":
		return name
	}
	if rustKeywords[name] {
		return "r#" + name
	}
	return name
}

var rustKeywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "else": true,
	"enum": true, "extern": true, "false": true, "fn": true, "for": true,
	"if": true, "impl": true, "in": true, "let": true, "loop": true,
	"match": true, "mod": true, "move": true, "mut": true, "pub": true,
	"ref": true, "return": true, "static": true, "struct": true, "trait": true,
	"true": true, "type": true, "unsafe": true, "use": true, "where": true,
	"while": true, "async": true, "await": true, "dyn": true, "abstract": true,
	"become": true, "box": true, "do": true, "final": true, "macro": true,
	"override": true, "priv": true, "typeof": true, "unsized": true,
	"virtual": true, "yield": true, "try": true,
}

// rustType maps a Ruchy-spelled type name to its Rust equivalent where the
// two differ; unrecognized names pass through unchanged.
func rustType(name string) string {
	switch name {
	case "int":
		return "i64"
	case "float":
		return "f64"
	case "str", "string":
		return "String"
	case "bool":
		return "bool"
	case "char":
		return "char"
	case "Vec":
		return "Vec<_>"
	case "HashMap":
		return "std::collections::HashMap<_, _>"
	default:
		return name
	}
}

// rustPattern renders a Pattern the way ast.PrintPattern does for Ruchy
// source, but targeting Rust's destructuring syntax: tuples/lists both
// become Rust tuple/slice patterns, and a rest-pattern becomes `..`
// (Rust's binding-free rest marker). The name of a named rest capture is
// dropped, so the emitted pattern does not bind it.
func rustPattern(p *ast.Pattern) string {
	if p == nil {
		return "_"
	}
	switch p.Kind {
	case ast.PatternWildcard:
		return "_"
	case ast.PatternLiteral:
		return ast.Print(p.Literal)
	case ast.PatternIdentifier:
		return escapeIdent(p.Name)
	case ast.PatternTuple:
		return "(" + joinPatterns(p) + ")"
	case ast.PatternList:
		return "[" + joinPatterns(p) + "]"
	case ast.PatternStruct:
		var b strings.Builder
		b.WriteString(escapeIdent(p.StructName))
		b.WriteString(" { ")
		for i, name := range p.FieldNames {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(escapeIdent(name))
		}
		if p.HasRest {
			b.WriteString(", ..")
		}
		b.WriteString(" }")
		return b.String()
	case ast.PatternEnumVariant:
		var b strings.Builder
		if p.EnumName != "" {
			b.WriteString(escapeIdent(p.EnumName))
			b.WriteString("::")
		}
		b.WriteString(escapeIdent(p.VariantName))
		if len(p.Payload) > 0 {
			b.WriteByte('(')
			for i, sub := range p.Payload {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(rustPattern(sub))
			}
			b.WriteByte(')')
		}
		return b.String()
	case ast.PatternRange:
		op := "..="
		if !p.RangeIncl {
			op = ".."
		}
		return ast.Print(p.RangeLow) + op + ast.Print(p.RangeHigh)
	case ast.PatternOr:
		parts := make([]string, len(p.Alts))
		for i, alt := range p.Alts {
			parts[i] = rustPattern(alt)
		}
		return strings.Join(parts, " | ")
	default:
		return "_"
	}
}

func joinPatterns(p *ast.Pattern) string {
	parts := make([]string, 0, len(p.Elems)+1)
	for i, e := range p.Elems {
		if p.Rest != nil && i == p.RestIndex {
			parts = append(parts, "..")
		}
		parts = append(parts, rustPattern(e))
	}
	if p.Rest != nil && p.RestIndex >= len(p.Elems) {
		parts = append(parts, "..")
	}
	return strings.Join(parts, ", ")
}
