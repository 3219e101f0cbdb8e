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

package parser

import (
	"github.com/ruchy-lang/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/token"
)

// parsePattern parses the pattern grammar used by let-bindings, for-loops,
// and match arms, including or-patterns (`|`). Payload, tuple, list and
// struct-field sub-patterns are parsed through it too, so they may hold
// or-patterns; parameters use parsePatternPrimary and may not.
func (p *parser) parsePattern() *ast.Pattern {
	first := p.parsePatternPrimary()
	if p.tok != token.OR {
		return first
	}
	alts := []*ast.Pattern{first}
	for p.tok == token.OR {
		p.next()
		alts = append(alts, p.parsePatternPrimary())
	}
	// Every alternative must bind the same set of names, or the arm body
	// would see names that are only sometimes in scope.
	want := first.Names()
	for _, alt := range alts[1:] {
		if !sameNameSet(want, alt.Names()) {
			p.errors.Add(rerrors.Newf(rerrors.UnsupportedSyntax, alt.Span,
				"or-pattern alternatives must bind the same names"))
			break
		}
	}
	return &ast.Pattern{Kind: ast.PatternOr, Span: first.Span, Alts: alts}
}

func sameNameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, n := range a {
		set[n] = true
	}
	for _, n := range b {
		if !set[n] {
			return false
		}
	}
	return true
}

func (p *parser) parsePatternPrimary() *ast.Pattern {
	start := p.span()
	switch p.tok {
	case token.IDENT:
		name := p.lit
		p.next()
		if name == "_" {
			return &ast.Pattern{Kind: ast.PatternWildcard, Span: start}
		}
		// EnumName.Variant(payload...) or a bare EnumVariant/Identifier.
		if p.tok == token.DOT {
			return p.parseEnumVariantPattern(name, start)
		}
		if p.tok == token.LPAREN {
			return p.parseEnumVariantPatternNoEnum(name, start)
		}
		if p.tok == token.LBRACE {
			return p.parseStructPattern(name, start)
		}
		return &ast.Pattern{Kind: ast.PatternIdentifier, Name: name, Span: start}
	case token.INT, token.FLOAT, token.STRING, token.CHAR, token.TRUE, token.FALSE, token.NIL, token.SUB:
		lit := p.parseOperand()
		if p.tok == token.RANGE || p.tok == token.RANGE_INCL {
			incl := p.tok == token.RANGE_INCL
			p.next()
			hi := p.parseOperand()
			return &ast.Pattern{Kind: ast.PatternRange, Span: start.Union(hi.Span), RangeLow: lit, RangeHigh: hi, RangeIncl: incl}
		}
		return &ast.Pattern{Kind: ast.PatternLiteral, Span: start, Literal: lit}
	case token.LPAREN:
		return p.parseTuplePattern()
	case token.LBRACK:
		return p.parseListPattern()
	case token.SPREAD:
		p.next()
		name := p.parseIdentName()
		return &ast.Pattern{Kind: ast.PatternIdentifier, Name: name, Span: start}
	default:
		p.errf(start, "unsupported pattern syntax at %s", p.describeCurrent())
		p.sync(token.FAT_ARROW, token.ASSIGN, token.RBRACE, token.COMMA)
		return &ast.Pattern{Kind: ast.PatternWildcard, Span: start}
	}
}

func (p *parser) parseEnumVariantPattern(enumName string, start token.Span) *ast.Pattern {
	p.next() //.
	variant := p.parseIdentName()
	pat := &ast.Pattern{Kind: ast.PatternEnumVariant, Span: start, EnumName: enumName, VariantName: variant}
	if p.tok == token.LPAREN {
		p.next()
		for p.tok != token.RPAREN && p.tok != token.EOF {
			pat.Payload = append(pat.Payload, p.parsePattern())
			if p.tok == token.COMMA {
				p.next()
				continue
			}
			break
		}
		p.expect(token.RPAREN)
	}
	return pat
}

func (p *parser) parseEnumVariantPatternNoEnum(variant string, start token.Span) *ast.Pattern {
	pat := &ast.Pattern{Kind: ast.PatternEnumVariant, Span: start, VariantName: variant}
	p.next() // (
	for p.tok != token.RPAREN && p.tok != token.EOF {
		pat.Payload = append(pat.Payload, p.parsePattern())
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return pat
}

func (p *parser) parseStructPattern(name string, start token.Span) *ast.Pattern {
	p.next() // {
	pat := &ast.Pattern{Kind: ast.PatternStruct, Span: start, StructName: name}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if p.tok == token.RANGE {
			pat.HasRest = true
			p.next()
			break
		}
		fname := p.parseIdentName()
		var fpat *ast.Pattern
		if p.tok == token.COLON {
			p.next()
			fpat = p.parsePattern()
		} else {
			fpat = &ast.Pattern{Kind: ast.PatternIdentifier, Name: fname, Span: start}
		}
		pat.FieldNames = append(pat.FieldNames, fname)
		pat.FieldPats = append(pat.FieldPats, fpat)
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return pat
}

func (p *parser) parseTuplePattern() *ast.Pattern {
	start := p.span()
	p.next() // (
	pat := &ast.Pattern{Kind: ast.PatternTuple, Span: start, RestIndex: -1}
	p.parseSeqPatternElems(pat, token.RPAREN)
	p.expect(token.RPAREN)
	return pat
}

func (p *parser) parseListPattern() *ast.Pattern {
	start := p.span()
	p.next() // [
	pat := &ast.Pattern{Kind: ast.PatternList, Span: start, RestIndex: -1}
	p.parseSeqPatternElems(pat, token.RBRACK)
	p.expect(token.RBRACK)
	return pat
}

// parseSeqPatternElems parses the shared tuple/list-pattern element
// grammar, including at most one `...rest` binding anywhere in the
// sequence.
func (p *parser) parseSeqPatternElems(pat *ast.Pattern, closing token.Token) {
	seenRest := false
	for p.tok != closing && p.tok != token.EOF {
		if p.tok == token.SPREAD {
			if seenRest {
				p.errors.Add(rerrors.Newf(rerrors.UnsupportedSyntax, p.span(), "a rest pattern may appear at most once"))
			}
			p.next()
			restStart := p.span()
			if p.tok == token.IDENT {
				name := p.lit
				p.next()
				pat.Rest = &ast.Pattern{Kind: ast.PatternIdentifier, Name: name, Span: restStart}
			} else {
				pat.Rest = &ast.Pattern{Kind: ast.PatternWildcard, Span: restStart}
			}
			pat.RestIndex = len(pat.Elems)
			seenRest = true
		} else {
			pat.Elems = append(pat.Elems, p.parsePattern())
		}
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
}
