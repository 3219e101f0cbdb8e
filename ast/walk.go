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

package ast

// Walk traverses an AST in depth-first order: it calls before(e); e must
// not be nil. If before returns true, Walk recurses into each non-nil
// child, followed by a call to after. Either callback may be nil.
func Walk(e *Expr, before func(*Expr) bool, after func(*Expr)) {
	if e == nil {
		return
	}
	if before != nil && !before(e) {
		return
	}
	for _, c := range children(e) {
		Walk(c, before, after)
	}
	if after != nil {
		after(e)
	}
}

// children returns the direct Expr children of e, in source order, for
// every ExprKind that carries one.
func children(e *Expr) []*Expr {
	var out []*Expr
	add := func(c *Expr) {
		if c != nil {
			out = append(out, c)
		}
	}
	addAll := func(cs []*Expr) {
		for _, c := range cs {
			add(c)
		}
	}

	switch e.Kind {
	case KindInterpString:
		for _, p := range e.Parts {
			add(p.Expr)
		}
	case KindList, KindTuple:
		addAll(e.Items)
	case KindObject:
		for _, f := range e.Fields {
			add(f.Value)
		}
	case KindRange:
		add(e.RangeStart)
		add(e.RangeEnd)
	case KindSpread, KindAwait, KindTry:
		add(e.Inner)
	case KindBinary:
		add(e.Left)
		add(e.Right)
	case KindUnary:
		add(e.Operand)
	case KindAssign, KindCompoundAssign:
		add(e.Left)
		add(e.Right)
	case KindIndex:
		add(e.Left)
		add(e.Index)
	case KindFieldAccess:
		add(e.Left)
	case KindIf:
		add(e.Cond)
		add(e.Then)
		add(e.Else)
	case KindMatch:
		add(e.Scrutinee)
		for _, arm := range e.Arms {
			add(arm.Guard)
			add(arm.Body)
		}
	case KindWhile:
		add(e.Cond)
		add(e.Body)
	case KindFor:
		add(e.ForIter)
		add(e.Body)
	case KindLoop:
		add(e.Body)
	case KindBreak:
		add(e.Value)
	case KindReturn:
		add(e.Value)
	case KindLet:
		add(e.LetValue)
		add(e.LetBody)
	case KindBlock:
		addAll(e.Block)
	case KindLambda, KindFunction:
		for _, p := range e.Params {
			add(p.Default)
		}
		add(e.Body)
	case KindModule:
		addAll(e.ModuleBody)
	case KindStruct:
		// fields carry only type names, no sub-expressions
	case KindEnum:
		// variants carry only type names, no sub-expressions
	case KindTrait:
		addAll(e.TraitMethods)
	case KindImpl:
		addAll(e.ImplMethods)
	case KindCall:
		add(e.Callee)
		addAll(e.Args)
	case KindMethodCall:
		add(e.Callee)
		addAll(e.Args)
	case KindMacro:
		addAll(e.Args)
	case KindAsyncBlock:
		add(e.Body)
	case KindActor:
		addAll(e.ActorBody)
	case KindSpawn, KindSend:
		add(e.Inner)
	case KindDataframe:
		for _, col := range e.DataframeColumns {
			addAll(col.Values)
		}
	}
	return out
}

// Inspect calls f on e and every Expr reachable from it, in depth-first
// order. If f returns false for a node, that node's children are skipped.
func Inspect(e *Expr, f func(*Expr) bool) {
	Walk(e, f, nil)
}
