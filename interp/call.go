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
	"strings"

	"github.com/ruchy-lang/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/token"
)

func (in *Interp) evalCall(e *ast.Expr, env *Scope) (Value, error) {
	// A synthetic `as$Type` cast call, produced by parser.parseCast.
	if e.Callee.Kind == ast.KindIdentifier && strings.HasPrefix(e.Callee.Name, "as$") {
		return in.evalCast(e, env)
	}

	callee, err := in.eval(e.Callee, env)
	if err != nil {
		return Nil, err
	}
	args, err := in.evalExprList(e.Args, env)
	if err != nil {
		return Nil, err
	}
	return in.applyCallable(callee, args, e.Span)
}

func (in *Interp) applyCallable(callee Value, args []Value, span token.Span) (Value, error) {
	switch callee.Kind() {
	case KindClosure:
		return in.callClosure(callee.AsClosure(), args, span)
	case KindBuiltin:
		intrinsic, ok := in.builtins[callee.AsBuiltin().Name]
		if !ok {
			return Nil, rerrors.Newf(rerrors.UnresolvedBuiltin, span, "unresolved built-in %q", callee.AsBuiltin().Name)
		}
		return intrinsic(&Context{Interp: in, Span: span}, args)
	default:
		return Nil, rerrors.Newf(rerrors.TypeError, span, "value of type %s is not callable", callee.TypeName())
	}
}

func (in *Interp) callClosure(cl *Closure, args []Value, span token.Span) (Value, error) {
	callEnv := cl.Env.Child()
	required := 0
	for _, p := range cl.Params {
		if p.Default == nil {
			required++
		}
	}
	if len(args) < required || len(args) > len(cl.Params) {
		return Nil, rerrors.Newf(rerrors.ArityError, span, "expected %d argument(s), got %d", len(cl.Params), len(args))
	}
	for i, p := range cl.Params {
		var v Value
		if i < len(args) {
			v = args[i]
		} else {
			dv, err := p.Default(callEnv)
			if err != nil {
				return Nil, err
			}
			v = dv
		}
		if p.Name != "" {
			callEnv.Declare(p.Name, v, p.Mutable)
		}
	}
	return cl.Body(callEnv)
}

// evalCast implements `expr as Type`: a best-effort runtime conversion
// between Ruchy's scalar kinds. The transpiler performs the equivalent
// conversion statically; the interpreter performs it at the call site
// since it has no static types to consult.
func (in *Interp) evalCast(e *ast.Expr, env *Scope) (Value, error) {
	typeName := strings.TrimPrefix(e.Callee.Name, "as$")
	if len(e.Args) != 1 {
		return Nil, rerrors.Newf(rerrors.ArityError, e.Span, "cast takes exactly one operand")
	}
	v, err := in.eval(e.Args[0], env)
	if err != nil {
		return Nil, err
	}
	switch typeName {
	case "int":
		switch v.Kind() {
		case KindInteger:
			return v, nil
		case KindFloat:
			return Int(int64(v.AsFloat())), nil
		case KindBool:
			if v.AsBool() {
				return Int(1), nil
			}
			return Int(0), nil
		case KindChar:
			return Int(int64(v.AsChar())), nil
		}
	case "float":
		switch v.Kind() {
		case KindFloat:
			return v, nil
		case KindInteger:
			return Float(float64(v.AsInt())), nil
		}
	case "str":
		return String(v.String()), nil
	}
	return Nil, rerrors.Newf(rerrors.TypeError, e.Span, "cannot cast %s as %s", v.TypeName(), typeName)
}

func (in *Interp) evalMethodCall(e *ast.Expr, env *Scope) (Value, error) {
	recv, err := in.eval(e.Callee, env)
	if err != nil {
		return Nil, err
	}
	args, err := in.evalExprList(e.Args, env)
	if err != nil {
		return Nil, err
	}
	// User-defined methods via `impl Type { ... }` take priority over the
	// built-in method table.
	if typeName, ok := recv.ObjectGet("__type"); ok {
		if cl, found := in.lookupMethod(typeName.AsString(), e.Method); found {
			return in.callClosure(cl, append([]Value{recv}, args...), e.Span)
		}
	}
	if recv.Kind() == KindEnumVariant {
		if cl, found := in.lookupMethod(recv.AsEnum().EnumName, e.Method); found {
			return in.callClosure(cl, append([]Value{recv}, args...), e.Span)
		}
	}
	// A callable member of an object/module namespace: m.a(3) calls the
	// function bound under "a" in module m, without a receiver argument.
	if recv.Kind() == KindObject {
		if member, ok := recv.ObjectGet(e.Method); ok {
			if member.Kind() == KindClosure || member.Kind() == KindBuiltin {
				return in.applyCallable(member, args, e.Span)
			}
		}
	}
	return in.callBuiltinMethod(recv, e.Method, args, e.Span)
}

func (in *Interp) evalMacro(e *ast.Expr, env *Scope) (Value, error) {
	args, err := in.evalExprList(e.Args, env)
	if err != nil {
		return Nil, err
	}
	if intrinsic, ok := in.builtins[e.MacroName]; ok {
		return intrinsic(&Context{Interp: in, Span: e.Span}, args)
	}
	return Nil, rerrors.Newf(rerrors.UnresolvedBuiltin, e.Span, "unresolved macro %q", e.MacroName)
}
