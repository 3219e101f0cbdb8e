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

// Package parser implements a parser for Ruchy source text.
// ParseFile parses a whole source file and ParseExpr a single expression
// or `;`-separated sequence; each returns an *ast.Expr, and on malformed
// input also the first collected error. The parser never panics.
package parser

import (
	"github.com/ruchy-lang/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/token"
)

// parser holds the parser's internal state for one source text: a
// scanner, one token of lookahead, a collected error list, and bounded
// error-recovery bookkeeping so synchronization can never spin forever.
type parser struct {
	src     string
	lex     *lexer.Lexer
	errors  rerrors.List

	pos     token.Pos
	tok     token.Token
	lit     string
	curSpan token.Span

	syncPos token.Pos
	syncCnt int
}

// ParseFile parses src (attributed to filename for diagnostics) as a
// sequence of top-level expressions and returns the resulting block Expr.
// On a syntax error it returns the first collected error; all collected
// errors are still reachable via errors.List if the caller needs them.
func ParseFile(filename, src string) (*ast.Expr, error) {
	p := &parser{src: src, lex: lexer.New(src)}
	p.next()

	start := p.pos
	var items []*ast.Expr
	for p.tok != token.EOF {
		items = append(items, p.parseTopLevel())
		p.skipSeparators()
	}
	block := &ast.Expr{
		Kind:  ast.KindBlock,
		Span:  token.Span{Start: start, End: p.pos},
		Block: items,
	}
	if p.errors.Len() > 0 {
		return block, p.errors.First()
	}
	return block, nil
}

// ParseExpr parses src as one expression, or as a `;`-separated sequence
// of them. A single item (a bare `let` included) is returned as is, so a
// caller evaluating it against its own scope receives the binding; two or
// more items are wrapped in a block Expr. It is also how the grammar is
// re-entered from within an interpolated-string hole.
func ParseExpr(src string) (*ast.Expr, error) {
	p := &parser{src: src, lex: lexer.New(src)}
	p.next()
	start := p.pos
	e := p.parseTopLevel()
	p.skipSeparators()
	if p.tok != token.EOF {
		items := []*ast.Expr{e}
		for p.tok != token.EOF {
			items = append(items, p.parseTopLevel())
			p.skipSeparators()
		}
		e = &ast.Expr{Kind: ast.KindBlock, Span: token.Span{Start: start, End: p.pos}, Block: items}
	}
	if p.errors.Len() > 0 {
		return e, p.errors.First()
	}
	return e, nil
}

func (p *parser) next() {
	t := p.lex.Scan()
	for t.Kind == token.ERROR {
		p.errors.Add(rerrors.Newf(rerrors.UnexpectedToken, t.Span, "%s", t.Err))
		t = p.lex.Scan()
	}
	p.pos, p.tok, p.lit = t.Span.Start, t.Kind, t.Lit
	p.curSpan = t.Span
}

func (p *parser) span() token.Span { return p.curSpan }

func (p *parser) errf(span token.Span, format string, args ...any) {
	p.errors.Add(rerrors.Newf(rerrors.UnexpectedToken, span, format, args...))
}

// expect consumes tok if it is current, else records an error and does
// not advance — callers proceed with best-effort recovery.
func (p *parser) expect(tok token.Token) token.Span {
	span := p.span()
	if p.tok != tok {
		p.errf(span, "expected %s, found %s", tok, p.describeCurrent())
		return span
	}
	p.next()
	return span
}

func (p *parser) describeCurrent() string {
	if p.lit != "" {
		return p.lit
	}
	return p.tok.String()
}

// sync advances past tokens until one of the given synchronization tokens
// (or EOF) is current, bounding the number of no-progress calls so the
// parser always terminates.
func (p *parser) sync(follow ...token.Token) {
	if p.pos == p.syncPos {
		p.syncCnt++
		if p.syncCnt > 10 {
			// Pathological recovery loop: force progress.
			p.next()
			p.syncCnt = 0
			return
		}
	} else {
		p.syncPos = p.pos
		p.syncCnt = 0
	}
	for p.tok != token.EOF {
		for _, f := range follow {
			if p.tok == f {
				return
			}
		}
		if p.tok == token.SEMICOLON {
			p.next()
			return
		}
		p.next()
	}
}

func (p *parser) skipSeparators() {
	for p.tok == token.SEMICOLON {
		p.next()
	}
}

// parseTopLevel parses one top-level item: a declaration form or a bare
// expression.
func (p *parser) parseTopLevel() *ast.Expr {
	switch p.tok {
	case token.LET:
		return p.parseLet(false)
	case token.FUN:
		return p.parseFunction(false, false)
	case token.ASYNC:
		return p.parseAsyncDecl()
	case token.MOD:
		return p.parseModule()
	case token.CLASS:
		return p.parseClass()
	case token.STRUCT:
		return p.parseStruct()
	case token.ENUM:
		return p.parseEnum()
	case token.TRAIT:
		return p.parseTrait()
	case token.IMPL:
		return p.parseImpl()
	case token.TYPE:
		return p.parseTypeAlias()
	case token.USE, token.IMPORT, token.FROM:
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	case token.PUB:
		return p.parsePub()
	case token.ACTOR:
		return p.parseActor()
	case token.CONST:
		span := p.span()
		p.errors.Add(rerrors.Newf(rerrors.ConstNotAllowed, span, "const declarations are not allowed; use let"))
		p.sync(token.SEMICOLON)
		return &ast.Expr{Kind: ast.KindUnit, Span: span}
	default:
		return p.parseExpr()
	}
}

func (p *parser) parsePub() *ast.Expr {
	start := p.span()
	p.next() // consume 'pub'
	var e *ast.Expr
	switch p.tok {
	case token.FUN:
		e = p.parseFunction(true, false)
	case token.ASYNC:
		p.next()
		e = p.parseFunction(true, true)
	case token.MOD:
		e = p.parseModule()
		e.IsPub = true
	default:
		e = p.parseTopLevel()
	}
	e.IsPub = true
	e.Span = start.Union(e.Span)
	return e
}

func (p *parser) parseExport() *ast.Expr {
	start := p.span()
	p.next() // consume 'export'
	inner := p.parseTopLevel()
	return &ast.Expr{Kind: ast.KindExport, Span: start.Union(inner.Span), Inner: inner, IsPub: true}
}

func (p *parser) parseAsyncDecl() *ast.Expr {
	start := p.span()
	p.next() // consume 'async'
	if p.tok == token.FUN {
		return withStart(p.parseFunction(false, true), start)
	}
	if p.tok == token.LBRACE {
		body := p.parseBlock()
		return &ast.Expr{Kind: ast.KindAsyncBlock, Span: start.Union(body.Span), Body: body, IsAsync: true}
	}
	// async |params| expr — async lambda.
	lam := p.parseLambda()
	lam.IsAsync = true
	lam.Span = start.Union(lam.Span)
	return lam
}

func withStart(e *ast.Expr, start token.Span) *ast.Expr {
	e.Span = start.Union(e.Span)
	return e
}

