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
	"github.com/ruchy-lang/ruchy/token"
)

// parseLet parses `let [mut] pattern [: type] = value`. It never sets
// LetBody: whatever follows the let is parsed as the next item of the
// enclosing block or file.
func (p *parser) parseLet(_ bool) *ast.Expr {
	start := p.span()
	p.next() // let
	mut := false
	if p.tok == token.MUT {
		mut = true
		p.next()
	}
	pat := p.parsePattern()
	typ := ""
	if p.tok == token.COLON {
		p.next()
		typ = p.parseTypeName()
	}
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	e := &ast.Expr{
		Kind: ast.KindLet, Span: start.Union(val.Span),
		LetPattern: pat, Mutable: mut, LetType: typ, LetValue: val,
	}
	return e
}

// parseFunction parses `fun name(params) [-> type] { body }`.
func (p *parser) parseFunction(isPub, isAsync bool) *ast.Expr {
	start := p.span()
	p.next() // fun
	name := p.parseIdentName()
	var typeParams []string
	if p.tok == token.LSS {
		p.next()
		for p.tok != token.GTR && p.tok != token.EOF {
			typeParams = append(typeParams, p.parseIdentName())
			if p.tok == token.COMMA {
				p.next()
				continue
			}
			break
		}
		p.expect(token.GTR)
	}
	p.expect(token.LPAREN)
	params := p.parseParamListUntil(token.RPAREN)
	p.expect(token.RPAREN)
	retType := ""
	if p.tok == token.ARROW {
		p.next()
		retType = p.parseTypeName()
	}
	body := p.parseBlock()
	return &ast.Expr{
		Kind: ast.KindFunction, Span: start.Union(body.Span),
		FuncName: name, Params: params, ReturnType: retType, TypeParams: typeParams,
		Body: body, IsPub: isPub, IsAsync: isAsync,
	}
}

// parseModule parses `mod Name { items... }`, applying the two-pass
// evaluation discipline's static counterpart: member functions/nested
// modules are marked pub when prefixed with `pub`.
func (p *parser) parseModule() *ast.Expr {
	start := p.span()
	p.next() // mod
	name := p.parseIdentName()
	p.expect(token.LBRACE)
	var body []*ast.Expr
	for p.tok != token.RBRACE && p.tok != token.EOF {
		body = append(body, p.parseTopLevel())
		p.skipSeparators()
	}
	end := p.expect(token.RBRACE)
	return &ast.Expr{Kind: ast.KindModule, Span: start.Union(end), ModuleName: name, ModuleBody: body}
}

func (p *parser) parseStruct() *ast.Expr {
	start := p.span()
	p.next() // struct
	name := p.parseIdentName()
	p.expect(token.LBRACE)
	var fields []ast.StructField
	for p.tok != token.RBRACE && p.tok != token.EOF {
		fs := p.span()
		fname := p.parseIdentName()
		p.expect(token.COLON)
		ftype := p.parseTypeName()
		fields = append(fields, ast.StructField{Name: fname, Type: ftype, Span: fs})
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	end := p.expect(token.RBRACE)
	return &ast.Expr{Kind: ast.KindStruct, Span: start.Union(end), StructName: name, StructFields: fields}
}

// parseClass parses `class Name { field: type, fun m(self) { ... } }` as
// a struct declaration carrying its methods, which the interpreter
// registers the same way an explicit impl block would and the transpiler
// emits as a struct followed by an impl.
func (p *parser) parseClass() *ast.Expr {
	start := p.span()
	p.next() // class
	name := p.parseIdentName()
	p.expect(token.LBRACE)
	var fields []ast.StructField
	var methods []*ast.Expr
	for p.tok != token.RBRACE && p.tok != token.EOF {
		switch p.tok {
		case token.FUN:
			methods = append(methods, p.parseFunction(true, false))
		case token.PUB:
			p.next()
			if p.tok == token.FUN {
				methods = append(methods, p.parseFunction(true, false))
			}
		default:
			fs := p.span()
			fname := p.parseIdentName()
			if fname == "" {
				p.sync(token.RBRACE, token.FUN)
				continue
			}
			p.expect(token.COLON)
			ftype := p.parseTypeName()
			fields = append(fields, ast.StructField{Name: fname, Type: ftype, Span: fs})
			if p.tok == token.COMMA {
				p.next()
			}
		}
	}
	end := p.expect(token.RBRACE)
	span := start.Union(end)
	return &ast.Expr{
		Kind: ast.KindStruct, Span: span,
		StructName: name, StructFields: fields,
		ImplTarget: name, ImplMethods: methods,
	}
}

func (p *parser) parseEnum() *ast.Expr {
	start := p.span()
	p.next() // enum
	name := p.parseIdentName()
	p.expect(token.LBRACE)
	var variants []ast.EnumVariant
	for p.tok != token.RBRACE && p.tok != token.EOF {
		vs := p.span()
		vname := p.parseIdentName()
		v := ast.EnumVariant{Name: vname, Span: vs}
		if p.tok == token.LPAREN {
			p.next()
			for p.tok != token.RPAREN && p.tok != token.EOF {
				v.Tuple = append(v.Tuple, p.parseTypeName())
				if p.tok == token.COMMA {
					p.next()
					continue
				}
				break
			}
			p.expect(token.RPAREN)
		} else if p.tok == token.LBRACE {
			p.next()
			for p.tok != token.RBRACE && p.tok != token.EOF {
				fs := p.span()
				fname := p.parseIdentName()
				p.expect(token.COLON)
				ftype := p.parseTypeName()
				v.Record = append(v.Record, ast.StructField{Name: fname, Type: ftype, Span: fs})
				if p.tok == token.COMMA {
					p.next()
					continue
				}
				break
			}
			p.expect(token.RBRACE)
		}
		variants = append(variants, v)
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	end := p.expect(token.RBRACE)
	return &ast.Expr{Kind: ast.KindEnum, Span: start.Union(end), EnumName: name, EnumVariants: variants}
}

func (p *parser) parseTrait() *ast.Expr {
	start := p.span()
	p.next() // trait
	name := p.parseIdentName()
	p.expect(token.LBRACE)
	var methods []*ast.Expr
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if p.tok == token.FUN {
			methods = append(methods, p.parseFunction(true, false))
		} else {
			p.sync(token.RBRACE, token.FUN)
		}
	}
	end := p.expect(token.RBRACE)
	return &ast.Expr{Kind: ast.KindTrait, Span: start.Union(end), TraitName: name, TraitMethods: methods}
}

func (p *parser) parseImpl() *ast.Expr {
	start := p.span()
	p.next() // impl
	first := p.parseTypeName()
	target := first
	traitName := ""
	if p.tok == token.FOR {
		p.next()
		traitName = first
		target = p.parseTypeName()
	}
	p.expect(token.LBRACE)
	var methods []*ast.Expr
	for p.tok != token.RBRACE && p.tok != token.EOF {
		isPub := false
		if p.tok == token.PUB {
			isPub = true
			p.next()
		}
		if p.tok == token.FUN {
			methods = append(methods, p.parseFunction(isPub, false))
		} else {
			p.sync(token.RBRACE, token.FUN)
		}
	}
	end := p.expect(token.RBRACE)
	return &ast.Expr{Kind: ast.KindImpl, Span: start.Union(end), ImplTarget: target, ImplTrait: traitName, ImplMethods: methods}
}

func (p *parser) parseTypeAlias() *ast.Expr {
	start := p.span()
	p.next() // type
	name := p.parseIdentName()
	p.expect(token.ASSIGN)
	target := p.parseTypeName()
	return &ast.Expr{Kind: ast.KindTypeAlias, Span: start, TypeAliasName: name, TypeAliasTarget: target}
}

// parseImport handles every supported import spelling:
// `import a.b.c`, `import a.b as x`, `from a.b import x[, y as z][, *]`,
// and the JS-style `import { x, y } from a.b`.
func (p *parser) parseImport() *ast.Expr {
	start := p.span()
	if p.tok == token.FROM {
		p.next()
		path := p.parseDottedPath()
		p.expect(token.IMPORT)
		var items []ast.ImportItem
		if p.tok == token.MUL {
			// wildcard spelled as '*', which lexes as MUL.
			items = append(items, ast.ImportItem{Kind: ast.ImportWildcard})
			p.next()
		} else {
			items = p.parseImportItemList()
		}
		return &ast.Expr{Kind: ast.KindImport, Span: start, ImportPath: path, ImportItems: items}
	}

	p.next() // use | import
	if p.tok == token.LBRACE {
		// import { x, y } from a.b
		p.next()
		items := p.parseImportItemListUntil(token.RBRACE)
		p.expect(token.RBRACE)
		p.expect(token.FROM)
		path := p.parseDottedPath()
		return &ast.Expr{Kind: ast.KindImport, Span: start, ImportPath: path, ImportItems: items}
	}

	path := p.parseDottedPath()
	if p.tok == token.AS {
		p.next()
		alias := p.parseIdentName()
		return &ast.Expr{Kind: ast.KindImport, Span: start, ImportPath: path, ImportItems: []ast.ImportItem{{Kind: ast.ImportAliased, Name: path[len(path)-1], Alias: alias}}}
	}
	return &ast.Expr{Kind: ast.KindImport, Span: start, ImportPath: path}
}

// parseDottedPath reads a `.`-joined path, including leading relative
// markers (`.`, `..`) and `self`/`super`/`crate` segments.
func (p *parser) parseDottedPath() []string {
	var path []string
	for p.tok == token.RANGE || p.tok == token.DOT {
		if p.tok == token.RANGE {
			path = append(path, "..")
		} else {
			path = append(path, ".")
		}
		p.next()
	}
	for {
		if p.tok != token.IDENT {
			break
		}
		path = append(path, p.lit)
		p.next()
		if p.tok != token.DOT {
			break
		}
		p.next()
	}
	return path
}

func (p *parser) parseImportItemList() []ast.ImportItem {
	return p.parseImportItemListUntil(token.SEMICOLON, token.EOF)
}

func (p *parser) parseImportItemListUntil(closing ...token.Token) []ast.ImportItem {
	isClose := func(t token.Token) bool {
		for _, c := range closing {
			if t == c {
				return true
			}
		}
		return false
	}
	var items []ast.ImportItem
	for !isClose(p.tok) && p.tok != token.EOF {
		span := p.span()
		name := p.parseIdentName()
		if p.tok == token.AS {
			p.next()
			alias := p.parseIdentName()
			items = append(items, ast.ImportItem{Kind: ast.ImportAliased, Name: name, Alias: alias, Span: span})
		} else {
			items = append(items, ast.ImportItem{Kind: ast.ImportNamed, Name: name, Span: span})
		}
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	return items
}

func (p *parser) parseActor() *ast.Expr {
	start := p.span()
	p.next() // actor
	name := p.parseIdentName()
	p.expect(token.LBRACE)
	var fields []ast.StructField
	var body []*ast.Expr
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if p.tok == token.FUN {
			body = append(body, p.parseFunction(true, false))
			continue
		}
		fs := p.span()
		fname := p.parseIdentName()
		if fname == "" {
			p.sync(token.RBRACE, token.FUN)
			continue
		}
		p.expect(token.COLON)
		ftype := p.parseTypeName()
		fields = append(fields, ast.StructField{Name: fname, Type: ftype, Span: fs})
		if p.tok == token.COMMA {
			p.next()
		}
	}
	end := p.expect(token.RBRACE)
	return &ast.Expr{Kind: ast.KindActor, Span: start.Union(end), ActorName: name, ActorFields: fields, ActorBody: body}
}
