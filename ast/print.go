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

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders e as Ruchy source text. It is the canonical AST
// formatter the round-trip tests rely on: parsing Print(e) must
// reproduce an AST equivalent to e (modulo spans and comments).
func Print(e *Expr) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

func printExpr(b *strings.Builder, e *Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case KindInteger:
		b.WriteString(strconv.FormatInt(e.Int, 10))
		b.WriteString(e.IntSuf)
	case KindFloat:
		b.WriteString(strconv.FormatFloat(e.Float, 'g', -1, 64))
	case KindString:
		fmt.Fprintf(b, "%q", e.Str)
	case KindInterpString:
		b.WriteString(`f"`)
		for _, p := range e.Parts {
			if p.Expr != nil {
				b.WriteByte('{')
				printExpr(b, p.Expr)
				b.WriteByte('}')
			} else {
				b.WriteString(p.Lit)
			}
		}
		b.WriteByte('"')
	case KindBool:
		b.WriteString(strconv.FormatBool(e.Bool))
	case KindChar:
		fmt.Fprintf(b, "%q", e.Char)
	case KindByte:
		fmt.Fprintf(b, "b'\\x%02x'", e.Byte)
	case KindUnit:
		b.WriteString("()")
	case KindNil:
		b.WriteString("nil")
	case KindIdentifier:
		b.WriteString(e.Name)
	case KindQualifiedName:
		b.WriteString(strings.Join(e.Path, "."))
	case KindList:
		b.WriteByte('[')
		printExprList(b, e.Items)
		b.WriteByte(']')
	case KindTuple:
		b.WriteByte('(')
		printExprList(b, e.Items)
		if len(e.Items) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case KindObject:
		b.WriteByte('{')
		for i, f := range e.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			printExpr(b, f.Value)
		}
		b.WriteByte('}')
	case KindRange:
		printExpr(b, e.RangeStart)
		if e.Inclusive {
			b.WriteString("..=")
		} else {
			b.WriteString("..")
		}
		printExpr(b, e.RangeEnd)
	case KindSpread:
		b.WriteString("...")
		printExpr(b, e.Inner)
	case KindBinary:
		b.WriteByte('(')
		printExpr(b, e.Left)
		fmt.Fprintf(b, " %s ", e.Op)
		printExpr(b, e.Right)
		b.WriteByte(')')
	case KindUnary:
		fmt.Fprintf(b, "%s", e.Op)
		printExpr(b, e.Operand)
	case KindAssign:
		printExpr(b, e.Left)
		b.WriteString(" = ")
		printExpr(b, e.Right)
	case KindCompoundAssign:
		printExpr(b, e.Left)
		fmt.Fprintf(b, " %s= ", e.Op)
		printExpr(b, e.Right)
	case KindIndex:
		printExpr(b, e.Left)
		b.WriteByte('[')
		printExpr(b, e.Index)
		b.WriteByte(']')
	case KindFieldAccess:
		printExpr(b, e.Left)
		b.WriteByte('.')
		b.WriteString(e.Field)
	case KindIf:
		b.WriteString("if ")
		printExpr(b, e.Cond)
		b.WriteByte(' ')
		printBody(b, e.Then)
		if e.Else != nil {
			b.WriteString(" else ")
			printBody(b, e.Else)
		}
	case KindMatch:
		b.WriteString("match ")
		printExpr(b, e.Scrutinee)
		b.WriteString(" { ")
		for i, arm := range e.Arms {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(PrintPattern(arm.Pattern))
			if arm.Guard != nil {
				b.WriteString(" if ")
				printExpr(b, arm.Guard)
			}
			b.WriteString(" => ")
			printExpr(b, arm.Body)
		}
		b.WriteString(" }")
	case KindWhile:
		b.WriteString("while ")
		printExpr(b, e.Cond)
		b.WriteByte(' ')
		printBody(b, e.Body)
	case KindFor:
		b.WriteString("for ")
		b.WriteString(PrintPattern(e.ForPattern))
		b.WriteString(" in ")
		printExpr(b, e.ForIter)
		b.WriteByte(' ')
		printBody(b, e.Body)
	case KindLoop:
		b.WriteString("loop ")
		printBody(b, e.Body)
	case KindBreak:
		b.WriteString("break")
		if e.Value != nil {
			b.WriteByte(' ')
			printExpr(b, e.Value)
		}
	case KindContinue:
		b.WriteString("continue")
	case KindReturn:
		b.WriteString("return")
		if e.Value != nil {
			b.WriteByte(' ')
			printExpr(b, e.Value)
		}
	case KindTry:
		printExpr(b, e.Inner)
		b.WriteByte('?')
	case KindLet:
		b.WriteString("let ")
		if e.Mutable {
			b.WriteString("mut ")
		}
		b.WriteString(PrintPattern(e.LetPattern))
		if e.LetType != "" {
			b.WriteString(": ")
			b.WriteString(e.LetType)
		}
		b.WriteString(" = ")
		printExpr(b, e.LetValue)
		if e.LetBody != nil {
			b.WriteString("; ")
			printExpr(b, e.LetBody)
		}
	case KindBlock:
		b.WriteString("{ ")
		for i, item := range e.Block {
			if i > 0 {
				b.WriteString("; ")
			}
			printExpr(b, item)
		}
		b.WriteString(" }")
	case KindLambda:
		b.WriteByte('|')
		printParams(b, e.Params)
		b.WriteString("| ")
		printExpr(b, e.Body)
	case KindFunction:
		if e.IsPub {
			b.WriteString("pub ")
		}
		if e.IsAsync {
			b.WriteString("async ")
		}
		b.WriteString("fun ")
		b.WriteString(e.FuncName)
		b.WriteByte('(')
		printParams(b, e.Params)
		b.WriteByte(')')
		if e.ReturnType != "" {
			b.WriteString(" -> ")
			b.WriteString(e.ReturnType)
		}
		b.WriteByte(' ')
		printBody(b, e.Body)
	case KindModule:
		b.WriteString("mod ")
		b.WriteString(e.ModuleName)
		b.WriteString(" { ")
		for i, item := range e.ModuleBody {
			if i > 0 {
				b.WriteString(" ")
			}
			printExpr(b, item)
		}
		b.WriteString(" }")
	case KindImport:
		b.WriteString("import ")
		b.WriteString(strings.Join(e.ImportPath, "."))
	case KindCall:
		printExpr(b, e.Callee)
		b.WriteByte('(')
		printExprList(b, e.Args)
		b.WriteByte(')')
	case KindMethodCall:
		printExpr(b, e.Callee)
		b.WriteByte('.')
		b.WriteString(e.Method)
		b.WriteByte('(')
		printExprList(b, e.Args)
		b.WriteByte(')')
	case KindMacro:
		b.WriteString(e.MacroName)
		b.WriteString("!(")
		printExprList(b, e.Args)
		b.WriteByte(')')
	case KindAsyncBlock:
		b.WriteString("async ")
		printBody(b, e.Body)
	case KindAwait:
		printExpr(b, e.Inner)
		b.WriteString(".await")
	case KindDataframe:
		b.WriteString("df![")
		for i, col := range e.DataframeColumns {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%q => [", col.Name)
			printExprList(b, col.Values)
			b.WriteByte(']')
		}
		b.WriteByte(']')
	default:
		b.WriteString("<?>")
	}
}

// printBody prints a construct's body without doubling braces when the
// body is already a block, so printing is a fixpoint: parse(Print(e))
// prints back to the same text.
func printBody(b *strings.Builder, e *Expr) {
	if e != nil && e.Kind == KindBlock {
		printExpr(b, e)
		return
	}
	b.WriteString("{ ")
	printExpr(b, e)
	b.WriteString(" }")
}

func printExprList(b *strings.Builder, items []*Expr) {
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		printExpr(b, it)
	}
}

func printParams(b *strings.Builder, params []Param) {
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Mut {
			b.WriteString("mut ")
		}
		b.WriteString(PrintPattern(p.Pattern))
		if p.Type != "" {
			b.WriteString(": ")
			b.WriteString(p.Type)
		}
		if p.Default != nil {
			b.WriteString(" = ")
			printExpr(b, p.Default)
		}
	}
}

// PrintPattern renders p as Ruchy pattern syntax.
func PrintPattern(p *Pattern) string {
	var b strings.Builder
	printPattern(&b, p)
	return b.String()
}

func printPattern(b *strings.Builder, p *Pattern) {
	if p == nil {
		return
	}
	switch p.Kind {
	case PatternWildcard:
		b.WriteByte('_')
	case PatternLiteral:
		printExpr(b, p.Literal)
	case PatternIdentifier:
		b.WriteString(p.Name)
	case PatternTuple:
		b.WriteByte('(')
		printPatternList(b, p)
		b.WriteByte(')')
	case PatternList:
		b.WriteByte('[')
		printPatternList(b, p)
		b.WriteByte(']')
	case PatternStruct:
		b.WriteString(p.StructName)
		b.WriteString(" { ")
		for i, name := range p.FieldNames {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			if p.FieldPats[i] != nil {
				b.WriteString(": ")
				printPattern(b, p.FieldPats[i])
			}
		}
		if p.HasRest {
			b.WriteString(", ..")
		}
		b.WriteString(" }")
	case PatternEnumVariant:
		if p.EnumName != "" {
			b.WriteString(p.EnumName)
			b.WriteByte('.')
		}
		b.WriteString(p.VariantName)
		if len(p.Payload) > 0 {
			b.WriteByte('(')
			for i, sub := range p.Payload {
				if i > 0 {
					b.WriteString(", ")
				}
				printPattern(b, sub)
			}
			b.WriteByte(')')
		}
	case PatternRange:
		printExpr(b, p.RangeLow)
		if p.RangeIncl {
			b.WriteString("..=")
		} else {
			b.WriteString("..")
		}
		printExpr(b, p.RangeHigh)
	case PatternOr:
		for i, alt := range p.Alts {
			if i > 0 {
				b.WriteString(" | ")
			}
			printPattern(b, alt)
		}
	}
}

func printPatternList(b *strings.Builder, p *Pattern) {
	wrote := false
	for i, e := range p.Elems {
		if p.Rest != nil && i == p.RestIndex {
			if wrote {
				b.WriteString(", ")
			}
			b.WriteString("...")
			printPattern(b, p.Rest)
			wrote = true
		}
		if wrote {
			b.WriteString(", ")
		}
		printPattern(b, e)
		wrote = true
	}
	if p.Rest != nil && p.RestIndex >= len(p.Elems) {
		if wrote {
			b.WriteString(", ")
		}
		b.WriteString("...")
		printPattern(b, p.Rest)
	}
}
