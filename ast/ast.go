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

// Package ast declares Expr, the single tagged-union node type shared by
// the parser, interpreter, and transpiler. Every Expr
// carries a source Span; the interpreter and transpiler both walk this
// same tree, so a change to the shape here is a change to both stages at
// once.
package ast

import "github.com/ruchy-lang/ruchy/token"

// ExprKind tags the variant held by an Expr. Expression-oriented: Ruchy
// has no separate statement node — every statement is an Expr of unit
// type.
type ExprKind int

const (
	KindInvalid ExprKind = iota

	// Literals
	KindInteger
	KindFloat
	KindString
	KindInterpString
	KindBool
	KindChar
	KindByte
	KindUnit
	KindNil

	// Names
	KindIdentifier
	KindQualifiedName

	// Aggregates
	KindList
	KindTuple
	KindObject
	KindRange
	KindSpread

	// Operators
	KindBinary
	KindUnary
	KindAssign
	KindCompoundAssign
	KindIndex
	KindFieldAccess

	// Control flow
	KindIf
	KindMatch
	KindWhile
	KindFor
	KindLoop
	KindBreak
	KindContinue
	KindReturn
	KindTry

	// Bindings / scopes
	KindLet
	KindBlock
	KindLambda
	KindFunction
	KindModule
	KindImport
	KindExport
	KindTypeAlias
	KindStruct
	KindEnum
	KindTrait
	KindImpl

	// Calls and methods
	KindCall
	KindMethodCall
	KindMacro

	// Concurrency
	KindAsyncBlock
	KindAwait
	KindActor
	KindSpawn
	KindSend

	// Dataframe
	KindDataframe
)

// Attr is a source-level attribute attached to an Expr, e.g. a
// `#[derive(Foo)]` annotation.
type Attr struct {
	Name string
	Args []string
	Span token.Span
}

// Comment is a single //-style or /*-style comment.
type Comment struct {
	Span token.Span
	Text string
}

// Expr is the single AST node type for every expression-shaped construct
// in the language. Kind selects which of the fields below are meaningful
// for a given node; neither this package nor the Go type system checks
// which fields are set for a Kind.
type Expr struct {
	Kind ExprKind
	Span token.Span

	Attributes      []Attr
	LeadingComments []Comment
	TrailingComment *Comment

	// Literal payloads.
	Int      int64
	IntSuf   string // optional integer literal suffix, e.g. "i64"
	Float    float64
	Str      string
	Bool     bool
	Char     rune
	Byte     byte
	Parts    []InterpPart // KindInterpString

	// Name payloads.
	Name  string   // KindIdentifier
	Path  []string // KindQualifiedName

	// Aggregate payloads.
	Items      []*Expr // KindList, KindTuple
	Fields     []ObjectField // KindObject
	RangeStart *Expr // KindRange
	RangeEnd   *Expr
	Inclusive  bool
	Inner      *Expr // KindSpread, KindAwait, KindTry, unary operand container for postfix forms

	// Operator payloads.
	Op       token.Token // KindBinary, KindUnary, KindCompoundAssign
	Left     *Expr       // KindBinary, KindAssign/KindCompoundAssign target, KindIndex/KindFieldAccess receiver
	Right    *Expr       // KindBinary, KindAssign/KindCompoundAssign value
	Operand  *Expr       // KindUnary
	Index    *Expr       // KindIndex
	Field    string      // KindFieldAccess

	// Control-flow payloads.
	Cond  *Expr   // KindIf, KindWhile
	Then  *Expr   // KindIf
	Else  *Expr   // KindIf
	Arms  []MatchArm // KindMatch
	Scrutinee *Expr  // KindMatch
	Body  *Expr   // KindWhile, KindFor, KindLoop, KindFunction, KindLambda
	ForPattern *Pattern // KindFor
	ForIter    *Expr    // KindFor
	Label      string   // KindBreak, KindContinue, KindWhile/For/Loop label
	Value      *Expr    // KindBreak, KindReturn

	// Binding payloads.
	LetPattern *Pattern // KindLet
	Mutable    bool     // KindLet, param mut
	LetType    string   // KindLet declared type, optional
	LetValue   *Expr    // KindLet
	LetBody    *Expr    // KindLet trailing body (let-in form), optional

	Block []*Expr // KindBlock

	Params     []Param  // KindLambda, KindFunction
	ReturnType string   // KindFunction
	TypeParams []string // KindFunction
	IsPub      bool      // KindFunction, KindModule members
	IsAsync    bool      // KindFunction, KindLambda, KindAsyncBlock

	FuncName string // KindFunction

	ModuleName string  // KindModule
	ModuleBody []*Expr // KindModule

	ImportPath  []string     // KindImport
	ImportItems []ImportItem // KindImport

	TypeAliasName   string // KindTypeAlias
	TypeAliasTarget string

	StructName   string        // KindStruct
	StructFields []StructField // KindStruct

	EnumName     string        // KindEnum
	EnumVariants []EnumVariant // KindEnum

	TraitName    string   // KindTrait
	TraitMethods []*Expr  // KindTrait, each a KindFunction

	ImplTarget  string  // KindImpl
	ImplTrait   string  // KindImpl, optional
	ImplMethods []*Expr // KindImpl, each a KindFunction

	// Call payloads.
	Callee    *Expr   // KindCall, KindMethodCall receiver
	Args      []*Expr // KindCall, KindMethodCall, KindMacro
	Method    string  // KindMethodCall
	MacroName string  // KindMacro

	// Concurrency payloads.
	ActorName   string        // KindActor
	ActorFields []StructField // KindActor
	ActorBody   []*Expr       // KindActor, methods

	// Dataframe payload.
	DataframeColumns []DataframeColumn // KindDataframe
}

// InterpPart is one segment of an interpolated string: either a literal
// run of text or an embedded expression re-parsed from within `{ }`.
type InterpPart struct {
	Lit  string
	Expr *Expr // nil when Lit is set
}

// ObjectField is one `name: expr` entry of a KindObject literal.
type ObjectField struct {
	Name  string
	Value *Expr
	Span  token.Span
}

// Param is one function or lambda parameter.
type Param struct {
	Pattern *Pattern
	Type    string
	Default *Expr
	Mut     bool
	Span    token.Span
}

// MatchArm is one `pattern [if guard] => body` arm of a KindMatch.
type MatchArm struct {
	Pattern *Pattern
	Guard   *Expr
	Body    *Expr
	Span    token.Span
}

// ImportItem is one imported name within an import declaration.
type ImportItem struct {
	Kind  ImportItemKind
	Name  string
	Alias string // set when Kind == ImportAliased
	Span  token.Span
}

// ImportItemKind distinguishes the three import-item shapes the
// transpiler and interpreter preserve.
type ImportItemKind int

const (
	ImportNamed ImportItemKind = iota
	ImportAliased
	ImportWildcard
)

// StructField is one field of a KindStruct or KindActor declaration.
type StructField struct {
	Name string
	Type string
	Span token.Span
}

// EnumVariant is one variant of a KindEnum declaration. Tuple and Record
// are both nil for a unit variant; otherwise one of them holds the shape
// of its payload.
type EnumVariant struct {
	Name    string
	Tuple   []string      // tuple-payload field types, if any
	Record  []StructField // record-payload fields, if any
	Span    token.Span
}

// DataframeColumn is one `"name" => [values...]` entry of a `df!` literal.
type DataframeColumn struct {
	Name   string
	Values []*Expr
	Span   token.Span
}

// Pos and End implement the span accessors every node exposes.
func (e *Expr) Pos() token.Pos { return e.Span.Start }
func (e *Expr) End() token.Pos { return e.Span.End }

// PatternKind tags the variant held by a Pattern.
type PatternKind int

const (
	PatternWildcard PatternKind = iota
	PatternLiteral
	PatternIdentifier
	PatternTuple
	PatternList
	PatternStruct
	PatternEnumVariant
	PatternRange
	PatternOr
)

// Pattern is the parallel sum type used by let-bindings, function
// parameters, and match arms to destructure a Value.
type Pattern struct {
	Kind PatternKind
	Span token.Span

	// PatternIdentifier
	Name string

	// PatternLiteral
	Literal *Expr

	// PatternTuple, PatternList
	Elems []*Pattern
	Rest  *Pattern // bound name for "...rest"; nil if no rest. Kind PatternIdentifier or PatternWildcard.
	RestIndex int   // position of Rest within Elems ordering, -1 if none

	// PatternStruct
	StructName string
	FieldNames []string
	FieldPats  []*Pattern
	HasRest    bool // `..` present, ignore remaining fields

	// PatternEnumVariant
	EnumName    string
	VariantName string
	Payload     []*Pattern

	// PatternRange
	RangeLow  *Expr
	RangeHigh *Expr
	RangeIncl bool

	// PatternOr
	Alts []*Pattern
}

func (p *Pattern) Pos() token.Pos { return p.Span.Start }
func (p *Pattern) End() token.Pos { return p.Span.End }

// Names returns every identifier bound by p, in left-to-right order.
// Used to check that every name a pattern binds is in scope in its arm
// body, and by the or-pattern name-set check.
func (p *Pattern) Names() []string {
	var names []string
	var walk func(*Pattern)
	walk = func(p *Pattern) {
		if p == nil {
			return
		}
		switch p.Kind {
		case PatternIdentifier:
			if p.Name != "_" {
				names = append(names, p.Name)
			}
		case PatternTuple, PatternList:
			for _, e := range p.Elems {
				walk(e)
			}
			if p.Rest != nil {
				walk(p.Rest)
			}
		case PatternStruct:
			for _, fp := range p.FieldPats {
				walk(fp)
			}
		case PatternEnumVariant:
			for _, e := range p.Payload {
				walk(e)
			}
		case PatternOr:
			if len(p.Alts) > 0 {
				walk(p.Alts[0])
			}
		}
	}
	walk(p)
	return names
}
