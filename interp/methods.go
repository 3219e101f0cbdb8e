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

	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/token"
)

// callBuiltinMethod dispatches the fixed builtin method table for
// Array/Tuple/String/Object receivers: .length, .len(), .push(), .map(),
// .filter(), .reduce(), string methods, and .items().
func (in *Interp) callBuiltinMethod(recv Value, method string, args []Value, span token.Span) (Value, error) {
	switch recv.Kind() {
	case KindArray, KindTuple:
		return in.callArrayMethod(recv, method, args, span)
	case KindString:
		return callStringMethod(recv, method, args, span)
	case KindObject:
		return callObjectMethod(recv, method, args, span)
	case KindRange:
		seq, err := in.iterate(recv, span)
		if err != nil {
			return Nil, err
		}
		return in.callArrayMethod(Array(seq), method, args, span)
	default:
		return Nil, rerrors.Newf(rerrors.UnboundName, span, "no method %q on %s", method, recv.TypeName())
	}
}

func (in *Interp) callArrayMethod(recv Value, method string, args []Value, span token.Span) (Value, error) {
	elems := recv.AsSlice()
	switch method {
	case "length", "len":
		return Int(int64(len(elems))), nil
	case "push":
		if len(args) != 1 {
			return Nil, rerrors.Newf(rerrors.ArityError, span, "push takes exactly one argument")
		}
		return Array(append(append([]Value(nil), elems...), args[0])), nil
	case "pop":
		if len(elems) == 0 {
			return Nil, rerrors.Newf(rerrors.IndexOutOfBounds, span, "pop on empty array")
		}
		return elems[len(elems)-1], nil
	case "first":
		if len(elems) == 0 {
			return Nil, nil
		}
		return elems[0], nil
	case "last":
		if len(elems) == 0 {
			return Nil, nil
		}
		return elems[len(elems)-1], nil
	case "reverse":
		out := make([]Value, len(elems))
		for i, v := range elems {
			out[len(elems)-1-i] = v
		}
		return Array(out), nil
	case "map":
		if len(args) != 1 {
			return Nil, rerrors.Newf(rerrors.ArityError, span, "map takes exactly one argument")
		}
		out := make([]Value, len(elems))
		for i, v := range elems {
			r, err := in.applyCallable(args[0], []Value{v}, span)
			if err != nil {
				return Nil, err
			}
			out[i] = r
		}
		return Array(out), nil
	case "filter":
		if len(args) != 1 {
			return Nil, rerrors.Newf(rerrors.ArityError, span, "filter takes exactly one argument")
		}
		var out []Value
		for _, v := range elems {
			r, err := in.applyCallable(args[0], []Value{v}, span)
			if err != nil {
				return Nil, err
			}
			if r.Truthy() {
				out = append(out, v)
			}
		}
		return Array(out), nil
	case "reduce":
		if len(args) != 2 {
			return Nil, rerrors.Newf(rerrors.ArityError, span, "reduce takes exactly two arguments (initial, fn)")
		}
		acc := args[0]
		for _, v := range elems {
			r, err := in.applyCallable(args[1], []Value{acc, v}, span)
			if err != nil {
				return Nil, err
			}
			acc = r
		}
		return acc, nil
	case "contains":
		if len(args) != 1 {
			return Nil, rerrors.Newf(rerrors.ArityError, span, "contains takes exactly one argument")
		}
		for _, v := range elems {
			if v.Equal(args[0]) {
				return Bool(true), nil
			}
		}
		return Bool(false), nil
	case "join":
		sep := ""
		if len(args) == 1 {
			sep = args[0].AsString()
		}
		parts := make([]string, len(elems))
		for i, v := range elems {
			parts[i] = v.String()
		}
		return String(strings.Join(parts, sep)), nil
	default:
		return Nil, rerrors.Newf(rerrors.UnboundName, span, "no method %q on %s", method, recv.TypeName())
	}
}

func callStringMethod(recv Value, method string, args []Value, span token.Span) (Value, error) {
	s := recv.AsString()
	switch method {
	case "length", "len":
		return Int(int64(len([]rune(s)))), nil
	case "upper", "to_uppercase":
		return String(strings.ToUpper(s)), nil
	case "lower", "to_lowercase":
		return String(strings.ToLower(s)), nil
	case "trim":
		return String(strings.TrimSpace(s)), nil
	case "split":
		sep := ""
		if len(args) == 1 {
			sep = args[0].AsString()
		}
		var parts []string
		if sep == "" {
			parts = strings.Fields(s)
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = String(p)
		}
		return Array(out), nil
	case "contains":
		if len(args) != 1 {
			return Nil, rerrors.Newf(rerrors.ArityError, span, "contains takes exactly one argument")
		}
		return Bool(strings.Contains(s, args[0].AsString())), nil
	case "starts_with":
		if len(args) != 1 {
			return Nil, rerrors.Newf(rerrors.ArityError, span, "starts_with takes exactly one argument")
		}
		return Bool(strings.HasPrefix(s, args[0].AsString())), nil
	case "ends_with":
		if len(args) != 1 {
			return Nil, rerrors.Newf(rerrors.ArityError, span, "ends_with takes exactly one argument")
		}
		return Bool(strings.HasSuffix(s, args[0].AsString())), nil
	case "replace":
		if len(args) != 2 {
			return Nil, rerrors.Newf(rerrors.ArityError, span, "replace takes exactly two arguments")
		}
		return String(strings.ReplaceAll(s, args[0].AsString(), args[1].AsString())), nil
	case "chars":
		runes := []rune(s)
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = Char(r)
		}
		return Array(out), nil
	default:
		return Nil, rerrors.Newf(rerrors.UnboundName, span, "no method %q on str", method)
	}
}

func callObjectMethod(recv Value, method string, args []Value, span token.Span) (Value, error) {
	switch method {
	case "items":
		keys := recv.ObjectKeys()
		out := make([]Value, 0, len(keys))
		for _, k := range keys {
			v, _ := recv.ObjectGet(k)
			out = append(out, Tuple([]Value{String(k), v}))
		}
		return Array(out), nil
	case "keys":
		keys := recv.ObjectKeys()
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = String(k)
		}
		return Array(out), nil
	case "values":
		keys := recv.ObjectKeys()
		out := make([]Value, len(keys))
		for i, k := range keys {
			v, _ := recv.ObjectGet(k)
			out[i] = v
		}
		return Array(out), nil
	case "get":
		if len(args) != 1 {
			return Nil, rerrors.Newf(rerrors.ArityError, span, "get takes exactly one argument")
		}
		v, ok := recv.ObjectGet(args[0].AsString())
		if !ok {
			return Nil, nil
		}
		return v, nil
	default:
		return Nil, rerrors.Newf(rerrors.UnboundName, span, "no method %q on object", method)
	}
}
