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
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/token"
)

// parseExpr parses a full expression, starting at the lowest precedence
// level (assignment).
func (p *parser) parseExpr() *ast.Expr {
	return p.parseAssign()
}

func (p *parser) parseAssign() *ast.Expr {
	left := p.parseRange()
	switch p.tok {
	case token.FAT_ARROW:
		return p.parseArrowLambda(left)
	case token.ASSIGN:
		start := left.Span
		p.next()
		right := p.parseAssign()
		return &ast.Expr{Kind: ast.KindAssign, Span: start.Union(right.Span), Left: left, Right: right}
	case token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN, token.QUO_ASSIGN,
		token.REM_ASSIGN, token.AND_ASSIGN, token.OR_ASSIGN, token.XOR_ASSIGN,
		token.SHL_ASSIGN, token.SHR_ASSIGN:
		op := p.tok
		start := left.Span
		p.next()
		right := p.parseAssign()
		return &ast.Expr{Kind: ast.KindCompoundAssign, Op: compoundBaseOp(op), Span: start.Union(right.Span), Left: left, Right: right}
	}
	return left
}

// parseRange handles the `a..b` / `a..=b` expression level, which sits
// between assignment and the pipeline operator: the bounds are full
// binary expressions but a range is never itself a range bound.
func (p *parser) parseRange() *ast.Expr {
	left := p.parseBinary(token.PipelinePrec)
	if p.tok == token.RANGE || p.tok == token.RANGE_INCL {
		incl := p.tok == token.RANGE_INCL
		p.next()
		right := p.parseBinary(token.PipelinePrec)
		return &ast.Expr{
			Kind: ast.KindRange, Span: left.Span.Union(right.Span),
			RangeStart: left, RangeEnd: right, Inclusive: incl,
		}
	}
	return left
}

// parseArrowLambda converts an already-parsed expression into the
// parameter list of the `x => expr` arrow form, which is semantically
// identical to `|x| expr`. Only an identifier, a tuple of
// identifiers, or the unit `()` can appear to the left of the arrow.
func (p *parser) parseArrowLambda(left *ast.Expr) *ast.Expr {
	p.next() // =>
	params, ok := arrowParams(left)
	if !ok {
		p.errf(left.Span, "invalid arrow-lambda parameter list")
	}
	body := p.parseExpr()
	return &ast.Expr{Kind: ast.KindLambda, Span: left.Span.Union(body.Span), Params: params, Body: body}
}

func arrowParams(e *ast.Expr) ([]ast.Param, bool) {
	identParam := func(item *ast.Expr) ast.Param {
		return ast.Param{
			Pattern: &ast.Pattern{Kind: ast.PatternIdentifier, Name: item.Name, Span: item.Span},
			Span:    item.Span,
		}
	}
	switch e.Kind {
	case ast.KindUnit:
		return nil, true
	case ast.KindIdentifier:
		return []ast.Param{identParam(e)}, true
	case ast.KindTuple:
		params := make([]ast.Param, 0, len(e.Items))
		for _, item := range e.Items {
			if item.Kind != ast.KindIdentifier {
				return nil, false
			}
			params = append(params, identParam(item))
		}
		return params, true
	}
	return nil, false
}

func compoundBaseOp(op token.Token) token.Token {
	switch op {
	case token.ADD_ASSIGN:
		return token.ADD
	case token.SUB_ASSIGN:
		return token.SUB
	case token.MUL_ASSIGN:
		return token.MUL
	case token.QUO_ASSIGN:
		return token.QUO
	case token.REM_ASSIGN:
		return token.REM
	case token.AND_ASSIGN:
		return token.AND
	case token.OR_ASSIGN:
		return token.OR
	case token.XOR_ASSIGN:
		return token.XOR
	case token.SHL_ASSIGN:
		return token.SHL
	case token.SHR_ASSIGN:
		return token.SHR
	}
	return op
}

// parseBinary implements precedence-climbing for the binary-operator
// levels (pipeline down through power), bottoming out at
// the unary/postfix grammar.
func (p *parser) parseBinary(minPrec int) *ast.Expr {
	left := p.parseUnary()
	for {
		prec := token.BinaryPrecedence(p.tok)
		if prec < minPrec || prec == token.LowestPrec || prec == token.AssignPrec {
			return left
		}
		op := p.tok
		opSpan := p.span()
		p.next()
		nextMin := prec + 1
		if token.IsRightAssociative(op) {
			nextMin = prec
		}
		right := p.parseBinary(nextMin)
		left = &ast.Expr{
			Kind: ast.KindBinary,
			Span: left.Span.Union(right.Span),
			Op:   op,
			Left: left, Right: right,
		}
		_ = opSpan
	}
}

// parseUnary handles prefix unary operators, `await`, and spread, then
// falls through to the cast level.
func (p *parser) parseUnary() *ast.Expr {
	switch p.tok {
	case token.SUB, token.NOT, token.TILDE, token.ADD:
		op := p.tok
		start := p.span()
		p.next()
		operand := p.parseUnary()
		return &ast.Expr{Kind: ast.KindUnary, Span: start.Union(operand.Span), Op: op, Operand: operand}
	case token.AWAIT:
		start := p.span()
		p.next()
		inner := p.parseUnary()
		return &ast.Expr{Kind: ast.KindAwait, Span: start.Union(inner.Span), Inner: inner}
	case token.SPREAD:
		start := p.span()
		p.next()
		inner := p.parseUnary()
		return &ast.Expr{Kind: ast.KindSpread, Span: start.Union(inner.Span), Inner: inner}
	}
	return p.parseCast()
}

func (p *parser) parseCast() *ast.Expr {
	e := p.parsePostfix()
	for p.tok == token.AS {
		p.next()
		typeName := p.parseTypeName()
		e = &ast.Expr{Kind: ast.KindCall, Span: e.Span, Callee: &ast.Expr{Kind: ast.KindIdentifier, Name: "as$" + typeName}, Args: []*ast.Expr{e}}
	}
	return e
}

// parseTypeName reads a dotted type reference used in `as`, type
// annotations, and declared return/param types. Kept deliberately simple:
// the transpiler's own type inference does the real
// work; the parser only needs the textual name.
func (p *parser) parseTypeName() string {
	if p.tok != token.IDENT {
		p.errf(p.span(), "expected type name, found %s", p.describeCurrent())
		return ""
	}
	var b strings.Builder
	b.WriteString(p.lit)
	p.next()
	for p.tok == token.LSS {
		// generic type arguments, e.g. Vec<int> — consumed verbatim.
		depth := 0
		b.WriteByte('<')
		p.next()
		depth++
		for depth > 0 && p.tok != token.EOF {
			switch p.tok {
			case token.LSS:
				depth++
				b.WriteByte('<')
			case token.GTR:
				depth--
				b.WriteByte('>')
			default:
				b.WriteString(p.describeCurrent())
			}
			p.next()
		}
	}
	for p.tok == token.DOT {
		p.next()
		b.WriteByte('.')
		if p.tok == token.IDENT {
			b.WriteString(p.lit)
			p.next()
		}
	}
	return b.String()
}

// parsePostfix handles call, index, field/method access, `?` propagation,
// and `.await`, left-associatively, the highest-precedence level.
func (p *parser) parsePostfix() *ast.Expr {
	e := p.parseOperand()
	for {
		switch p.tok {
		case token.LPAREN:
			// A '(' that opens a new line starts the next newline-separated
			// expression; it does not call the expression before it.
			if e.Span.IsValid() && e.Span.End <= p.pos && strings.Contains(p.src[e.Span.End:p.pos], "\n") {
				return e
			}
			e = p.parseCall(e)
		case token.LBRACK:
			e = p.parseIndex(e)
		case token.DOT:
			e = p.parseFieldOrMethod(e)
		case token.OPT_CHAIN:
			p.next()
			field := p.parseIdentName()
			e = &ast.Expr{Kind: ast.KindFieldAccess, Span: e.Span, Left: e, Field: field}
		case token.QUESTION:
			span := p.span()
			p.next()
			e = &ast.Expr{Kind: ast.KindTry, Span: e.Span.Union(span), Inner: e}
		case token.NULL_COALESCE:
			// handled at binary-precedence level; stop postfix loop here.
			return e
		default:
			return e
		}
	}
}

func (p *parser) parseCall(callee *ast.Expr) *ast.Expr {
	p.next() // (
	args := p.parseArgList(token.RPAREN)
	end := p.expect(token.RPAREN)
	return &ast.Expr{Kind: ast.KindCall, Span: callee.Span.Union(end), Callee: callee, Args: args}
}

func (p *parser) parseArgList(closing token.Token) []*ast.Expr {
	var args []*ast.Expr
	for p.tok != closing && p.tok != token.EOF {
		args = append(args, p.parseExpr())
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	return args
}

func (p *parser) parseIndex(receiver *ast.Expr) *ast.Expr {
	p.next() // [
	idx := p.parseExpr()
	end := p.expect(token.RBRACK)
	return &ast.Expr{Kind: ast.KindIndex, Span: receiver.Span.Union(end), Left: receiver, Index: idx}
}

func (p *parser) parseFieldOrMethod(receiver *ast.Expr) *ast.Expr {
	p.next() //.
	if p.tok == token.AWAIT {
		span := p.span()
		p.next()
		return &ast.Expr{Kind: ast.KindAwait, Span: receiver.Span.Union(span), Inner: receiver}
	}
	name := p.parseIdentName()
	if p.tok == token.LPAREN {
		p.next()
		args := p.parseArgList(token.RPAREN)
		end := p.expect(token.RPAREN)
		return &ast.Expr{Kind: ast.KindMethodCall, Span: receiver.Span.Union(end), Callee: receiver, Method: name, Args: args}
	}
	return &ast.Expr{Kind: ast.KindFieldAccess, Span: receiver.Span, Left: receiver, Field: name}
}

func (p *parser) parseIdentName() string {
	if p.tok != token.IDENT {
		p.errf(p.span(), "expected identifier, found %s", p.describeCurrent())
		return ""
	}
	name := p.lit
	p.next()
	return name
}

// parseOperand parses the grammar's lowest level: literals, identifiers,
// parenthesized/tuple expressions, list/object literals, lambdas,
// if/match/control-flow forms that may appear as expressions, and the
// dataframe literal.
func (p *parser) parseOperand() *ast.Expr {
	start := p.span()
	switch p.tok {
	case token.INT:
		return p.parseIntLit()
	case token.FLOAT:
		v, _ := strconv.ParseFloat(strings.ReplaceAll(p.lit, "_", ""), 64)
		e := &ast.Expr{Kind: ast.KindFloat, Span: start, Float: v}
		p.next()
		return e
	case token.STRING:
		e := &ast.Expr{Kind: ast.KindString, Span: start, Str: p.lit}
		p.next()
		return e
	case token.INTERP_STRING:
		return p.parseInterpString()
	case token.CHAR:
		r := []rune(p.lit)
		var c rune
		if len(r) > 0 {
			c = r[0]
		}
		e := &ast.Expr{Kind: ast.KindChar, Span: start, Char: c}
		p.next()
		return e
	case token.BYTE:
		var by byte
		if len(p.lit) > 0 {
			by = p.lit[0]
		}
		e := &ast.Expr{Kind: ast.KindByte, Span: start, Byte: by}
		p.next()
		return e
	case token.TRUE, token.FALSE:
		e := &ast.Expr{Kind: ast.KindBool, Span: start, Bool: p.tok == token.TRUE}
		p.next()
		return e
	case token.NIL:
		p.next()
		return &ast.Expr{Kind: ast.KindNil, Span: start}
	case token.IDENT:
		return p.parseIdentOrQualified()
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACK:
		return p.parseList()
	case token.LBRACE:
		return p.parseObjectOrBlockExpr()
	case token.OR, token.LOR:
		// `|x| expr` starts with a single '|' (OR); `|| expr` lexes as one
		// LOR token for the empty parameter list.
		return p.parseLambda()
	case token.IF:
		return p.parseIf()
	case token.MATCH:
		return p.parseMatchExpr()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseForExpr()
	case token.LOOP:
		return p.parseLoopExpr()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		p.next()
		return &ast.Expr{Kind: ast.KindContinue, Span: start}
	case token.RETURN:
		return p.parseReturn()
	case token.ASYNC:
		return p.parseAsyncDecl()
	case token.SPAWN:
		p.next()
		inner := p.parseUnary()
		return &ast.Expr{Kind: ast.KindSpawn, Span: start.Union(inner.Span), Inner: inner}
	case token.SEND:
		p.next()
		inner := p.parseUnary()
		return &ast.Expr{Kind: ast.KindSend, Span: start.Union(inner.Span), Inner: inner}
	}

	p.errf(start, "unexpected token %s", p.describeCurrent())
	p.sync(token.SEMICOLON, token.RBRACE, token.RPAREN, token.RBRACK)
	return &ast.Expr{Kind: ast.KindUnit, Span: start}
}

func (p *parser) parseIntLit() *ast.Expr {
	start := p.span()
	raw := p.lit
	suffix := ""
	numPart := raw
	// Split a trailing type suffix like "10i64" from the digits, being
	// careful not to eat hex/bin/oct prefixes' letters.
	if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") &&
		!strings.HasPrefix(raw, "0b") && !strings.HasPrefix(raw, "0B") &&
		!strings.HasPrefix(raw, "0o") && !strings.HasPrefix(raw, "0O") {
		i := 0
		for i < len(raw) && (raw[i] >= '0' && raw[i] <= '9' || raw[i] == '_') {
			i++
		}
		numPart, suffix = raw[:i], raw[i:]
	} else {
		i := 2
		for i < len(raw) && isAlnumOrUnderscore(raw[i]) {
			i++
		}
		// No separate suffix support for prefixed literals; keep as-is.
		numPart = raw[:i]
	}
	clean := strings.ReplaceAll(numPart, "_", "")
	var v int64
	switch {
	case strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X"):
		v, _ = strconv.ParseInt(clean[2:], 16, 64)
	case strings.HasPrefix(clean, "0b") || strings.HasPrefix(clean, "0B"):
		v, _ = strconv.ParseInt(clean[2:], 2, 64)
	case strings.HasPrefix(clean, "0o") || strings.HasPrefix(clean, "0O"):
		v, _ = strconv.ParseInt(clean[2:], 8, 64)
	default:
		v, _ = strconv.ParseInt(clean, 10, 64)
	}
	p.next()
	return &ast.Expr{Kind: ast.KindInteger, Span: start, Int: v, IntSuf: suffix}
}

func isAlnumOrUnderscore(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *parser) parseInterpString() *ast.Expr {
	start := p.span()
	raw := p.lit
	p.next()
	segs := lexer.SplitInterpolation(raw)
	parts := make([]ast.InterpPart, 0, len(segs))
	for _, s := range segs {
		if !s.IsExpr {
			parts = append(parts, ast.InterpPart{Lit: s.Lit})
			continue
		}
		sub, err := ParseExpr(s.ExprSrc)
		if err != nil {
			p.errors.Add(rerrors.Newf(rerrors.UnexpectedToken, start, "invalid expression in string interpolation: %v", err))
		}
		parts = append(parts, ast.InterpPart{Expr: sub})
	}
	return &ast.Expr{Kind: ast.KindInterpString, Span: start, Parts: parts}
}

func (p *parser) parseIdentOrQualified() *ast.Expr {
	start := p.span()
	name := p.lit
	p.next()

	// Macro call form: name!(args) — covers df![...] and any other
	// macro-style builtin.
	if p.tok == token.NOT {
		p.next()
		if name == "df" && p.tok == token.LBRACK {
			return p.parseDataframe(start)
		}
		p.expect(token.LPAREN)
		args := p.parseArgList(token.RPAREN)
		end := p.expect(token.RPAREN)
		return &ast.Expr{Kind: ast.KindMacro, Span: start.Union(end), MacroName: name, Args: args}
	}

	if p.tok != token.DOT {
		return &ast.Expr{Kind: ast.KindIdentifier, Span: start, Name: name}
	}
	path := []string{name}
	end := start
	for p.tok == token.DOT {
		// A qualified name is only formed when every following segment is
		// itself a plain identifier with no call/index afterwards; anything
		// else falls back to postfix field/method access on an Identifier.
		save := p.snapshot()
		p.next()
		if p.tok != token.IDENT {
			p.restore(save)
			break
		}
		seg := p.lit
		segSpan := p.span()
		p.next()
		if p.tok == token.LPAREN || p.tok == token.LBRACK || p.tok == token.DOT && len(path) > 8 {
			p.restore(save)
			break
		}
		path = append(path, seg)
		end = segSpan
	}
	if len(path) == 1 {
		return &ast.Expr{Kind: ast.KindIdentifier, Span: start, Name: name}
	}
	return &ast.Expr{Kind: ast.KindQualifiedName, Span: start.Union(end), Path: path}
}

type parserSnapshot struct {
	lex     lexer.Lexer
	pos     token.Pos
	tok     token.Token
	lit     string
	curSpan token.Span
}

func (p *parser) snapshot() parserSnapshot {
	return parserSnapshot{lex: *p.lex, pos: p.pos, tok: p.tok, lit: p.lit, curSpan: p.curSpan}
}

func (p *parser) restore(s parserSnapshot) {
	lexCopy := s.lex
	p.lex = &lexCopy
	p.pos, p.tok, p.lit, p.curSpan = s.pos, s.tok, s.lit, s.curSpan
}

func (p *parser) parseParenOrTuple() *ast.Expr {
	start := p.span()
	p.next() // (
	if p.tok == token.RPAREN {
		end := p.span()
		p.next()
		return &ast.Expr{Kind: ast.KindUnit, Span: start.Union(end)}
	}
	first := p.parseExpr()
	if p.tok == token.COMMA {
		items := []*ast.Expr{first}
		for p.tok == token.COMMA {
			p.next()
			if p.tok == token.RPAREN {
				break
			}
			items = append(items, p.parseExpr())
		}
		end := p.expect(token.RPAREN)
		return &ast.Expr{Kind: ast.KindTuple, Span: start.Union(end), Items: items}
	}
	end := p.expect(token.RPAREN)
	first.Span = start.Union(end)
	return first
}

func (p *parser) parseList() *ast.Expr {
	start := p.span()
	p.next() // [
	var items []*ast.Expr
	for p.tok != token.RBRACK && p.tok != token.EOF {
		items = append(items, p.parseExpr())
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	end := p.expect(token.RBRACK)
	return &ast.Expr{Kind: ast.KindList, Span: start.Union(end), Items: items}
}

func (p *parser) parseObjectOrBlockExpr() *ast.Expr {
	// Disambiguate `{ field: value, ... }` (object literal) from
	// `{ expr; expr }` (block). Heuristic: an empty `{}` or an IDENT/STRING
	// immediately followed by ':' at the start is an object literal.
	save := p.snapshot()
	start := p.span()
	p.next() // {
	if p.tok == token.RBRACE {
		end := p.span()
		p.next()
		return &ast.Expr{Kind: ast.KindObject, Span: start.Union(end)}
	}
	looksLikeField := (p.tok == token.IDENT || p.tok == token.STRING) && p.peekIsColon()
	p.restore(save)
	if looksLikeField {
		return p.parseObject()
	}
	return p.parseBlock()
}

// peekIsColon reports whether the token after the current one is ':'.
// Used only for the object-vs-block disambiguation above.
func (p *parser) peekIsColon() bool {
	save := p.snapshot()
	name := p.lit
	p.next()
	isColon := p.tok == token.COLON
	p.restore(save)
	_ = name
	return isColon
}

func (p *parser) parseObject() *ast.Expr {
	start := p.span()
	p.expect(token.LBRACE)
	var fields []ast.ObjectField
	for p.tok != token.RBRACE && p.tok != token.EOF {
		fieldStart := p.span()
		var name string
		if p.tok == token.STRING {
			name = p.lit
			p.next()
		} else {
			name = p.parseIdentName()
		}
		p.expect(token.COLON)
		val := p.parseExpr()
		fields = append(fields, ast.ObjectField{Name: name, Value: val, Span: fieldStart.Union(val.Span)})
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	end := p.expect(token.RBRACE)
	return &ast.Expr{Kind: ast.KindObject, Span: start.Union(end), Fields: fields}
}

func (p *parser) parseBlock() *ast.Expr {
	start := p.span()
	p.expect(token.LBRACE)
	var items []*ast.Expr
	for p.tok != token.RBRACE && p.tok != token.EOF {
		items = append(items, p.parseTopLevel())
		p.skipSeparators()
	}
	end := p.expect(token.RBRACE)
	return &ast.Expr{Kind: ast.KindBlock, Span: start.Union(end), Block: items}
}

func (p *parser) parseLambda() *ast.Expr {
	start := p.span()
	var params []ast.Param
	switch p.tok {
	case token.LOR:
		p.next() // ||
	case token.OR:
		p.next() // |
		params = p.parseParamListUntil(token.OR)
		p.expect(token.OR)
	default:
		p.errf(start, "expected lambda parameter list")
	}
	body := p.parseExpr()
	return &ast.Expr{Kind: ast.KindLambda, Span: start.Union(body.Span), Params: params, Body: body}
}

func (p *parser) parseParamListUntil(closing token.Token) []ast.Param {
	var params []ast.Param
	for p.tok != closing && p.tok != token.EOF {
		params = append(params, p.parseParam())
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	return params
}

func (p *parser) parseParam() ast.Param {
	start := p.span()
	mut := false
	if p.tok == token.MUT {
		mut = true
		p.next()
	}
	// parsePatternPrimary, not parsePattern: inside `|x| ...` the closing
	// `|` of the parameter list must not be taken for an or-pattern
	// separator.
	pat := p.parsePatternPrimary()
	typ := ""
	if p.tok == token.COLON {
		p.next()
		typ = p.parseTypeName()
	}
	var def *ast.Expr
	if p.tok == token.ASSIGN {
		p.next()
		def = p.parseExpr()
	}
	return ast.Param{Pattern: pat, Type: typ, Default: def, Mut: mut, Span: start}
}

func (p *parser) parseIf() *ast.Expr {
	start := p.span()
	p.next() // if
	cond := p.parseExprNoStructLit()
	then := p.parseBlock()
	e := &ast.Expr{Kind: ast.KindIf, Span: start.Union(then.Span), Cond: cond, Then: then}
	if p.tok == token.ELSE {
		p.next()
		if p.tok == token.IF {
			e.Else = p.parseIf()
		} else {
			e.Else = p.parseBlock()
		}
		e.Span = start.Union(e.Else.Span)
	}
	return e
}

// parseExprNoStructLit parses a condition expression. Ruchy's object
// literal uses `{` the same as a block, so control-flow conditions parse
// expressions without allowing a bare `{...}` object literal at the top
// level — that brace belongs to the following block/then-branch.
func (p *parser) parseExprNoStructLit() *ast.Expr {
	return p.parseRange()
}

func (p *parser) parseWhile() *ast.Expr {
	start := p.span()
	p.next()
	cond := p.parseExprNoStructLit()
	body := p.parseBlock()
	return &ast.Expr{Kind: ast.KindWhile, Span: start.Union(body.Span), Cond: cond, Body: body}
}

func (p *parser) parseForExpr() *ast.Expr {
	start := p.span()
	p.next()
	pat := p.parsePattern()
	p.expect(token.IN)
	iter := p.parseExprNoStructLit()
	body := p.parseBlock()
	return &ast.Expr{Kind: ast.KindFor, Span: start.Union(body.Span), ForPattern: pat, ForIter: iter, Body: body}
}

func (p *parser) parseLoopExpr() *ast.Expr {
	start := p.span()
	p.next()
	body := p.parseBlock()
	return &ast.Expr{Kind: ast.KindLoop, Span: start.Union(body.Span), Body: body}
}

func (p *parser) parseBreak() *ast.Expr {
	start := p.span()
	p.next()
	e := &ast.Expr{Kind: ast.KindBreak, Span: start}
	if p.tok != token.SEMICOLON && p.tok != token.RBRACE && p.tok != token.EOF && p.tok != token.COMMA {
		e.Value = p.parseExpr()
		e.Span = start.Union(e.Value.Span)
	}
	return e
}

func (p *parser) parseReturn() *ast.Expr {
	start := p.span()
	p.next()
	e := &ast.Expr{Kind: ast.KindReturn, Span: start}
	if p.tok != token.SEMICOLON && p.tok != token.RBRACE && p.tok != token.EOF {
		e.Value = p.parseExpr()
		e.Span = start.Union(e.Value.Span)
	}
	return e
}

func (p *parser) parseMatchExpr() *ast.Expr {
	start := p.span()
	p.next() // match
	scrutinee := p.parseExprNoStructLit()
	p.expect(token.LBRACE)
	var arms []ast.MatchArm
	for p.tok != token.RBRACE && p.tok != token.EOF {
		armStart := p.span()
		pat := p.parsePattern()
		var guard *ast.Expr
		if p.tok == token.IF {
			p.next()
			// Not parseExpr: the arm's own `=>` must not be taken for an
			// arrow lambda while the guard is still being read.
			guard = p.parseExprNoStructLit()
		}
		p.expect(token.FAT_ARROW)
		body := p.parseExpr()
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Span: armStart.Union(body.Span)})
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	end := p.expect(token.RBRACE)
	return &ast.Expr{Kind: ast.KindMatch, Span: start.Union(end), Scrutinee: scrutinee, Arms: arms}
}

func (p *parser) parseDataframe(start token.Span) *ast.Expr {
	p.expect(token.LBRACK)
	var cols []ast.DataframeColumn
	for p.tok != token.RBRACK && p.tok != token.EOF {
		colStart := p.span()
		if p.tok != token.STRING {
			p.errf(colStart, "expected column name string in dataframe literal")
			p.sync(token.RBRACK)
			break
		}
		name := p.lit
		p.next()
		p.expect(token.FAT_ARROW)
		p.expect(token.LBRACK)
		values := p.parseArgList(token.RBRACK)
		end := p.expect(token.RBRACK)
		cols = append(cols, ast.DataframeColumn{Name: name, Values: values, Span: colStart.Union(end)})
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	end := p.expect(token.RBRACK)
	return &ast.Expr{Kind: ast.KindDataframe, Span: start.Union(end), DataframeColumns: cols}
}
