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

package interp

import (
	"fmt"
	"time"

	"github.com/ruchy-lang/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/token"
)

// Interp is one evaluation session: a Config plus the built-in registry
// it was constructed with. Bindings live in the Scope chain passed to
// Eval, but Interp itself carries mutable state that evaluation updates:
// the step counter and the method table filled in by type declarations.
// Eval calls on one Interp are therefore not safe to run concurrently.
type Interp struct {
	cfg      Config
	builtins map[string]Intrinsic
	steps    int64
	methods  map[string]map[string]*Closure
}

// New builds an Interp from options, starting from the given builtin
// registry and layering WithBuiltins extensions on top.
func New(registry map[string]Intrinsic, opts ...Option) *Interp {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	merged := make(map[string]Intrinsic, len(registry)+len(cfg.ExtraBuiltins))
	for k, v := range registry {
		merged[k] = v
	}
	for k, v := range cfg.ExtraBuiltins {
		merged[k] = v
	}
	return &Interp{cfg: cfg, builtins: merged, methods: map[string]map[string]*Closure{}}
}

func (in *Interp) registerMethod(typeName, methodName string, cl *Closure) {
	m, ok := in.methods[typeName]
	if !ok {
		m = map[string]*Closure{}
		in.methods[typeName] = m
	}
	m[methodName] = cl
}

func (in *Interp) lookupMethod(typeName, methodName string) (*Closure, bool) {
	m, ok := in.methods[typeName]
	if !ok {
		return nil, false
	}
	cl, ok := m[methodName]
	return cl, ok
}

func (in *Interp) logf(format string, args ...any) {
	if in.cfg.Logger != nil {
		in.cfg.Logger.Printf(format, args...)
	}
}

// Eval evaluates e against env.
// When the Interp was built with WithTransactional, the top scope is
// snapshotted first and restored if Eval returns an error.
func (in *Interp) Eval(e *ast.Expr, env *Scope) (Value, error) {
	if in.cfg.Transactional {
		snap := env.Snapshot()
		v, err := in.eval(e, env)
		if err != nil {
			in.logf("transactional eval failed, restoring scope: %v", err)
			env.Restore(snap)
		}
		return v, err
	}
	return in.eval(e, env)
}

func (in *Interp) budgetErr(span token.Span) error {
	return rerrors.Newf(rerrors.BudgetExceeded, span, "evaluation budget exceeded")
}

// eval is the recursive core. It never panics: every unreachable-in-
// practice branch still returns a span-bearing *errors.Error rather than
// trusting the parser's output.
func (in *Interp) eval(e *ast.Expr, env *Scope) (Value, error) {
	if e == nil {
		return Nil, nil
	}
	if !in.cfg.Deadline.IsZero() && time.Now().After(in.cfg.Deadline) {
		return Nil, rerrors.Newf(rerrors.BudgetExceeded, e.Span, "evaluation deadline exceeded")
	}
	if in.cfg.StepBudget > 0 {
		in.steps++
		if in.steps > in.cfg.StepBudget {
			return Nil, in.budgetErr(e.Span)
		}
	}

	switch e.Kind {
	case ast.KindInteger:
		return Int(e.Int), nil
	case ast.KindFloat:
		return Float(e.Float), nil
	case ast.KindString:
		return String(e.Str), nil
	case ast.KindInterpString:
		return in.evalInterpString(e, env)
	case ast.KindBool:
		return Bool(e.Bool), nil
	case ast.KindChar:
		return Char(e.Char), nil
	case ast.KindByte:
		return Byte(e.Byte), nil
	case ast.KindUnit, ast.KindNil:
		return Nil, nil

	case ast.KindIdentifier:
		if v, ok := env.Lookup(e.Name); ok {
			return v, nil
		}
		if _, ok := in.builtins[e.Name]; ok {
			return BuiltinValue(e.Name), nil
		}
		return Nil, rerrors.Newf(rerrors.UnboundName, e.Span, "unbound name %q", e.Name)
	case ast.KindQualifiedName:
		return in.evalQualifiedName(e, env)

	case ast.KindList:
		elems, err := in.evalExprList(e.Items, env)
		if err != nil {
			return Nil, err
		}
		return Array(elems), nil
	case ast.KindTuple:
		elems, err := in.evalExprList(e.Items, env)
		if err != nil {
			return Nil, err
		}
		return Tuple(elems), nil
	case ast.KindObject:
		return in.evalObject(e, env)
	case ast.KindRange:
		start, err := in.eval(e.RangeStart, env)
		if err != nil {
			return Nil, err
		}
		end, err := in.eval(e.RangeEnd, env)
		if err != nil {
			return Nil, err
		}
		return Range(start, end, e.Inclusive), nil
	case ast.KindSpread:
		return in.eval(e.Inner, env)

	case ast.KindBinary:
		return in.evalBinary(e, env)
	case ast.KindUnary:
		return in.evalUnary(e, env)
	case ast.KindAssign:
		return in.evalAssign(e, env)
	case ast.KindCompoundAssign:
		return in.evalCompoundAssign(e, env)
	case ast.KindIndex:
		return in.evalIndex(e, env)
	case ast.KindFieldAccess:
		return in.evalFieldAccess(e, env)

	case ast.KindIf:
		cond, err := in.eval(e.Cond, env)
		if err != nil {
			return Nil, err
		}
		if cond.Truthy() {
			return in.eval(e.Then, env.Child())
		}
		if e.Else != nil {
			return in.eval(e.Else, env.Child())
		}
		return Nil, nil
	case ast.KindMatch:
		return in.evalMatch(e, env)
	case ast.KindWhile:
		return in.evalWhile(e, env)
	case ast.KindFor:
		return in.evalFor(e, env)
	case ast.KindLoop:
		return in.evalLoop(e, env)
	case ast.KindBreak:
		var v Value
		if e.Value != nil {
			var err error
			v, err = in.eval(e.Value, env)
			if err != nil {
				return Nil, err
			}
		}
		return Nil, breakSignal(e.Label, v)
	case ast.KindContinue:
		return Nil, continueSignal(e.Label)
	case ast.KindReturn:
		var v Value
		if e.Value != nil {
			var err error
			v, err = in.eval(e.Value, env)
			if err != nil {
				return Nil, err
			}
		}
		return Nil, returnSignal(v)
	case ast.KindTry:
		return in.evalTry(e, env)

	case ast.KindLet:
		return in.evalLet(e, env)
	case ast.KindBlock:
		return in.evalBlock(e.Block, env)
	case ast.KindLambda:
		return in.evalLambda(e, env), nil
	case ast.KindFunction:
		return in.evalFunctionDecl(e, env)
	case ast.KindModule:
		return in.evalModule(e, env)
	case ast.KindImport:
		// Module resolution against other source files is outside this
		// evaluator's scope; a bare `import`/`from ... import ...` is a
		// no-op at eval time when no matching in-memory module was
		// registered in env.
		return Nil, nil
	case ast.KindExport:
		return in.eval(e.Inner, env)
	case ast.KindTypeAlias:
		return Nil, nil
	case ast.KindStruct:
		return in.evalStructDecl(e, env)
	case ast.KindEnum:
		return in.evalEnumDecl(e, env)
	case ast.KindTrait:
		return Nil, nil
	case ast.KindImpl:
		return in.evalImpl(e, env)

	case ast.KindCall:
		return in.evalCall(e, env)
	case ast.KindMethodCall:
		return in.evalMethodCall(e, env)
	case ast.KindMacro:
		return in.evalMacro(e, env)

	case ast.KindAsyncBlock:
		// Async blocks run to completion eagerly in the synchronous
		// interpreter.
		return in.eval(e.Body, env.Child())
	case ast.KindAwait:
		v, err := in.eval(e.Inner, env)
		if err != nil {
			return Nil, err
		}
		// .await is an identity on non-future values.
		return v, nil
	case ast.KindActor:
		return in.evalActorDecl(e, env)
	case ast.KindSpawn:
		return Nil, rerrors.Newf(rerrors.Unsupported, e.Span, "spawn requires an actor runtime, which this interpreter does not provide")
	case ast.KindSend:
		return Nil, rerrors.Newf(rerrors.Unsupported, e.Span, "send requires an actor runtime, which this interpreter does not provide")

	case ast.KindDataframe:
		return in.evalDataframe(e, env)

	default:
		return Nil, rerrors.Newf(rerrors.Unsupported, e.Span, "unsupported expression kind %d", e.Kind)
	}
}

func (in *Interp) evalExprList(items []*ast.Expr, env *Scope) ([]Value, error) {
	out := make([]Value, 0, len(items))
	for _, it := range items {
		v, err := in.eval(it, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (in *Interp) evalInterpString(e *ast.Expr, env *Scope) (Value, error) {
	var b []byte
	for _, part := range e.Parts {
		if part.Expr == nil {
			b = append(b, part.Lit...)
			continue
		}
		v, err := in.eval(part.Expr, env)
		if err != nil {
			return Nil, err
		}
		b = append(b, v.String()...)
	}
	return String(string(b)), nil
}

func (in *Interp) evalObject(e *ast.Expr, env *Scope) (Value, error) {
	obj := EmptyObject()
	for _, f := range e.Fields {
		v, err := in.eval(f.Value, env)
		if err != nil {
			return Nil, err
		}
		obj = obj.ObjectSet(f.Name, v)
	}
	return obj, nil
}

// evalQualifiedName resolves a.b.c by walking field access on successive
// objects/modules bound in env, matching how evalModule exposes members.
func (in *Interp) evalQualifiedName(e *ast.Expr, env *Scope) (Value, error) {
	if len(e.Path) == 0 {
		return Nil, rerrors.Newf(rerrors.UnboundName, e.Span, "empty qualified name")
	}
	v, ok := env.Lookup(e.Path[0])
	if !ok {
		return Nil, rerrors.Newf(rerrors.UnboundName, e.Span, "unbound name %q", e.Path[0])
	}
	for _, seg := range e.Path[1:] {
		fv, ok := v.ObjectGet(seg)
		if !ok {
			return Nil, rerrors.Newf(rerrors.UnboundName, e.Span, "no member %q on %s", seg, v.TypeName())
		}
		v = fv
	}
	return v, nil
}

func (in *Interp) evalLet(e *ast.Expr, env *Scope) (Value, error) {
	v, err := in.eval(e.LetValue, env)
	if err != nil {
		return Nil, err
	}
	if err := bindPattern(env, e.LetPattern, v, e.Mutable); err != nil {
		return Nil, err
	}
	if e.LetBody != nil {
		return in.eval(e.LetBody, env)
	}
	return Nil, nil
}

// evalBlock opens a new scope for the block and threads a fresh child scope
// past every let so a shadowing let never mutates the binding an
// already-built closure captured.
func (in *Interp) evalBlock(items []*ast.Expr, env *Scope) (Value, error) {
	cur := env.Child()
	var last Value = Nil
	for _, it := range items {
		if it.Kind == ast.KindLet && it.LetBody == nil {
			cur = cur.Child()
		}
		v, err := in.eval(it, cur)
		if err != nil {
			return Nil, err
		}
		last = v
	}
	return last, nil
}

func (in *Interp) evalLambda(e *ast.Expr, env *Scope) Value {
	cl := in.buildClosure("", e.Params, e.Body, env, e.IsAsync)
	return ClosureValue(cl)
}

func (in *Interp) evalFunctionDecl(e *ast.Expr, env *Scope) (Value, error) {
	cl := in.buildClosure(e.FuncName, e.Params, e.Body, env, e.IsAsync)
	v := ClosureValue(cl)
	env.Declare(e.FuncName, v, false)
	return v, nil
}

func (in *Interp) buildClosure(name string, params []ast.Param, body *ast.Expr, env *Scope, async bool) *Closure {
	cl := &Closure{Name: name, Env: env, IsAsync: async}
	for _, p := range params {
		cp := ClosureParam{Mutable: p.Mut}
		if len(p.Pattern.Names()) > 0 {
			cp.Name = p.Pattern.Names()[0]
		}
		if p.Default != nil {
			def := p.Default
			cp.Default = func(callEnv *Scope) (Value, error) { return in.eval(def, callEnv) }
		}
		cl.Params = append(cl.Params, cp)
	}
	cl.Body = func(callEnv *Scope) (Value, error) {
		v, err := in.eval(body, callEnv)
		if err != nil {
			if s, ok := asSignal(err); ok && s.kind == signalReturn {
				return s.value, nil
			}
			return Nil, err
		}
		return v, nil
	}
	return cl
}

func (in *Interp) evalStructDecl(e *ast.Expr, env *Scope) (Value, error) {
	// Struct declarations register a constructor builtin-like closure: the
	// interpreter represents an instance as an Object tagged with
	// __type=name, matching evalModule's __type convention.
	fields := e.StructFields
	name := e.StructName
	cl := &Closure{Name: name, Env: env}
	for _, f := range fields {
		cl.Params = append(cl.Params, ClosureParam{Name: f.Name})
	}
	cl.Body = func(callEnv *Scope) (Value, error) {
		obj := EmptyObject().ObjectSet("__type", String(name))
		for _, f := range fields {
			v, _ := callEnv.Lookup(f.Name)
			obj = obj.ObjectSet(f.Name, v)
		}
		return obj, nil
	}
	v := ClosureValue(cl)
	env.Declare(name, v, false)
	// A class declaration carries its methods on the struct node; register
	// them exactly as an explicit impl block would.
	for _, m := range e.ImplMethods {
		mcl := in.buildClosure(m.FuncName, m.Params, m.Body, env, m.IsAsync)
		in.registerMethod(name, m.FuncName, mcl)
	}
	return v, nil
}

func (in *Interp) evalEnumDecl(e *ast.Expr, env *Scope) (Value, error) {
	// Bind each variant under EnumName as either a zero-arg EnumVariant
	// value (unit variant) or a constructor closure (tuple/record payload).
	container := EmptyObject()
	for _, variant := range e.EnumVariants {
		variant := variant
		if len(variant.Tuple) == 0 && len(variant.Record) == 0 {
			container = container.ObjectSet(variant.Name, Enum(e.EnumName, variant.Name, nil))
			continue
		}
		arity := len(variant.Tuple)
		fieldNames := make([]string, 0, len(variant.Record))
		for _, f := range variant.Record {
			fieldNames = append(fieldNames, f.Name)
		}
		if arity == 0 {
			arity = len(fieldNames)
		}
		cl := &Closure{Name: variant.Name, Env: env}
		for i := 0; i < arity; i++ {
			n := fmt.Sprintf("_%d", i)
			if i < len(fieldNames) {
				n = fieldNames[i]
			}
			cl.Params = append(cl.Params, ClosureParam{Name: n})
		}
		enumName, variantName := e.EnumName, variant.Name
		params := cl.Params
		cl.Body = func(callEnv *Scope) (Value, error) {
			payload := make([]Value, len(params))
			for i, p := range params {
				v, _ := callEnv.Lookup(p.Name)
				payload[i] = v
			}
			return Enum(enumName, variantName, payload), nil
		}
		container = container.ObjectSet(variant.Name, ClosureValue(cl))
	}
	env.Declare(e.EnumName, container, false)
	return container, nil
}

func (in *Interp) evalImpl(e *ast.Expr, env *Scope) (Value, error) {
	// Methods declared in impl blocks are registered in a process-wide
	// method table keyed by (type name, method name) so evalMethodCall can
	// find them for Object-shaped receivers.
	for _, m := range e.ImplMethods {
		cl := in.buildClosure(m.FuncName, m.Params, m.Body, env, m.IsAsync)
		in.registerMethod(e.ImplTarget, m.FuncName, cl)
	}
	return Nil, nil
}

func (in *Interp) evalActorDecl(e *ast.Expr, env *Scope) (Value, error) {
	for _, m := range e.ActorBody {
		if m.Kind == ast.KindFunction {
			cl := in.buildClosure(m.FuncName, m.Params, m.Body, env, m.IsAsync)
			in.registerMethod(e.ActorName, m.FuncName, cl)
		}
	}
	obj := EmptyObject().ObjectSet("__type", String(e.ActorName))
	env.Declare(e.ActorName, obj, false)
	return obj, nil
}

// evalModule implements the two-pass module rule.
func (in *Interp) evalModule(e *ast.Expr, env *Scope) (Value, error) {
	in.logf("module %s: two-pass evaluation of %d items", e.ModuleName, len(e.ModuleBody))
	modScope := env.Child()

	// Pass 1: register every Function/Module binding up front so sibling
	// functions can reference each other regardless of source order.
	for _, item := range e.ModuleBody {
		switch item.Kind {
		case ast.KindFunction:
			cl := in.buildClosure(item.FuncName, item.Params, item.Body, modScope, item.IsAsync)
			modScope.Declare(item.FuncName, ClosureValue(cl), false)
		case ast.KindModule:
			if _, err := in.evalModule(item, modScope); err != nil {
				return Nil, err
			}
		}
	}

	// Evaluate remaining non-function/non-module top-level items (struct,
	// enum, let, impl, etc.) now that the function namespace exists.
	for _, item := range e.ModuleBody {
		switch item.Kind {
		case ast.KindFunction, ast.KindModule:
			continue
		default:
			if _, err := in.eval(item, modScope); err != nil {
				return Nil, err
			}
		}
	}

	// Pass 2: build the public namespace object.
	ns := EmptyObject().ObjectSet("__type", String("Module")).ObjectSet("__name", String(e.ModuleName))
	for _, item := range e.ModuleBody {
		switch item.Kind {
		case ast.KindFunction:
			if item.IsPub {
				v, _ := modScope.Lookup(item.FuncName)
				ns = ns.ObjectSet(item.FuncName, v)
			}
		case ast.KindModule:
			v, _ := modScope.Lookup(item.ModuleName)
			ns = ns.ObjectSet(item.ModuleName, v)
		}
	}
	env.Declare(e.ModuleName, ns, false)
	return ns, nil
}
