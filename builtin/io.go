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

package builtin

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/interp"
)

var defaultStdout Writer = os.Stdout

func registerIO(reg map[string]interp.Intrinsic, opts Options) {
	var stdin *bufio.Reader
	if opts.Stdin == nil {
		stdin = bufio.NewReader(os.Stdin)
	}

	reg["println"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		fmt.Fprintln(opts.Stdout, joinArgs(args))
		return interp.Nil, nil
	}
	reg["print"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		fmt.Fprint(opts.Stdout, joinArgs(args))
		return interp.Nil, nil
	}
	reg["input"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) > 0 {
			fmt.Fprint(opts.Stdout, args[0].String())
		}
		var line string
		var err error
		if opts.Stdin != nil {
			line, err = opts.Stdin.ReadString('\n')
		} else {
			line, err = stdin.ReadString('\n')
		}
		if err != nil && line == "" {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "input: %v", err)
		}
		return interp.String(trimNewline(line)), nil
	}
}

func joinArgs(args []interp.Value) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += " "
		}
		s += a.String()
	}
	return s
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// TranspileIO returns the println!/print!/assert! expansion for the io
// and assertion builtins given their already-emitted argument
// expressions. input() expands to a block that flushes
// a prompt and reads a trimmed line, matching registerIO's behavior.
func TranspileIO(name string, args []string) (expr string, imports []string, ok bool) {
	switch name {
	case "println", "print":
		macro := name
		if len(args) == 0 {
			return macro + "!()", nil, true
		}
		placeholders := strings.TrimSpace(strings.Repeat("{} ", len(args)))
		return fmt.Sprintf(`%s!("%s", %s)`, macro, placeholders, strings.Join(args, ", ")), nil, true
	case "input":
		prompt := `""`
		if len(args) > 0 {
			prompt = args[0]
		}
		return fmt.Sprintf(`{ use std::io::Write; print!("{}", %s); std::io::stdout().flush().unwrap(); `+
			`let mut line = String::new(); std::io::stdin().read_line(&mut line).unwrap(); `+
			`line.trim_end_matches(&['\n', '\r'][..]).to_string() }`, prompt), []string{"std::io"}, true
	case "assert":
		if len(args) > 1 {
			return fmt.Sprintf("assert!(%s, %s)", args[0], args[1]), nil, true
		}
		return fmt.Sprintf("assert!(%s)", args[0]), nil, true
	case "assert_eq":
		if len(args) > 2 {
			return fmt.Sprintf("assert_eq!(%s, %s, %s)", args[0], args[1], args[2]), nil, true
		}
		return fmt.Sprintf("assert_eq!(%s, %s)", args[0], args[1]), nil, true
	}
	return "", nil, false
}

// TranspileTypeConstructors returns the cast/container expansion for
// int/float/str/Vec/HashMap given their already-emitted argument
// expressions.
func TranspileTypeConstructors(name string, args []string) (expr string, imports []string, ok bool) {
	switch name {
	case "int":
		return fmt.Sprintf("(%s as i64)", args[0]), nil, true
	case "float":
		return fmt.Sprintf("(%s as f64)", args[0]), nil, true
	case "str":
		return fmt.Sprintf("(%s).to_string()", args[0]), nil, true
	case "Vec":
		return fmt.Sprintf("vec![%s]", strings.Join(args, ", ")), nil, true
	case "HashMap":
		pairs := make([]string, 0, len(args)/2)
		for i := 0; i+1 < len(args); i += 2 {
			pairs = append(pairs, fmt.Sprintf("(%s, %s)", args[i], args[i+1]))
		}
		return fmt.Sprintf("std::collections::HashMap::from([%s])", strings.Join(pairs, ", ")), []string{"std::collections::HashMap"}, true
	}
	return "", nil, false
}

// registerAssertions wires assert/assert_eq: both raise a span-bearing
// UserRaised error rather than returning a bool, so
// `assert(false)` halts evaluation the way a failed assertion must.
func registerAssertions(reg map[string]interp.Intrinsic) {
	reg["assert"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) < 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "assert takes at least one argument")
		}
		if args[0].Truthy() {
			return interp.Nil, nil
		}
		msg := "assertion failed"
		if len(args) > 1 {
			msg = args[1].String()
		}
		return interp.Nil, rerrors.Newf(rerrors.UserRaised, ctx.Span, "%s", msg)
	}
	reg["assert_eq"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) < 2 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "assert_eq takes at least two arguments")
		}
		if args[0].Equal(args[1]) {
			return interp.Nil, nil
		}
		return interp.Nil, rerrors.Newf(rerrors.UserRaised, ctx.Span,
			"assertion failed: %s != %s", args[0].String(), args[1].String())
	}
}

// registerTypeConstructors wires the conversion/container constructors:
// int/float/str convert a scalar, Vec/HashMap
// build empty or pre-seeded containers from variadic arguments.
func registerTypeConstructors(reg map[string]interp.Intrinsic) {
	reg["int"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "int takes exactly one argument")
		}
		return castNumeric(ctx, args[0], true)
	}
	reg["float"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "float takes exactly one argument")
		}
		return castNumeric(ctx, args[0], false)
	}
	reg["str"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "str takes exactly one argument")
		}
		return interp.String(args[0].String()), nil
	}
	reg["Vec"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		return interp.Array(append([]interp.Value(nil), args...)), nil
	}
	reg["HashMap"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		obj := interp.EmptyObject()
		if len(args)%2 != 0 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "HashMap takes key/value pairs")
		}
		for i := 0; i < len(args); i += 2 {
			if args[i].Kind() != interp.KindString {
				return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "HashMap keys must be strings")
			}
			obj = obj.ObjectSet(args[i].AsString(), args[i+1])
		}
		return obj, nil
	}
}

func castNumeric(ctx *interp.Context, v interp.Value, toInt bool) (interp.Value, error) {
	switch v.Kind() {
	case interp.KindInteger:
		if toInt {
			return v, nil
		}
		return interp.Float(float64(v.AsInt())), nil
	case interp.KindFloat:
		if toInt {
			return interp.Int(int64(v.AsFloat())), nil
		}
		return v, nil
	case interp.KindString:
		return parseNumericString(ctx, v.AsString(), toInt)
	case interp.KindBool:
		b := int64(0)
		if v.AsBool() {
			b = 1
		}
		if toInt {
			return interp.Int(b), nil
		}
		return interp.Float(float64(b)), nil
	default:
		return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "cannot convert %s to a number", v.TypeName())
	}
}
