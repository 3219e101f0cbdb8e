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
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/cockroachdb/apd/v3"
	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/interp"
)

// registerJSON wires the json_* family. Decoding goes through
// json.Decoder with UseNumber so numbers that overflow int64/float64
// fall back to interp.BigNum via apd.Decimal instead of losing
// precision.
func registerJSON(reg map[string]interp.Intrinsic) {
	reg["json_parse"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 || args[0].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "json_parse takes exactly one string argument")
		}
		return decodeJSON(ctx, []byte(args[0].AsString()))
	}
	reg["json_stringify"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "json_stringify takes exactly one argument")
		}
		b, err := json.Marshal(valueToAny(args[0]))
		if err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "json_stringify: %v", err)
		}
		return interp.String(string(b)), nil
	}
	reg["json_pretty"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "json_pretty takes exactly one argument")
		}
		b, err := json.MarshalIndent(valueToAny(args[0]), "", "  ")
		if err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "json_pretty: %v", err)
		}
		return interp.String(string(b)), nil
	}
	reg["json_read"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 || args[0].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "json_read takes exactly one path argument")
		}
		b, err := os.ReadFile(args[0].AsString())
		if err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "json_read: %v", err)
		}
		return decodeJSON(ctx, b)
	}
	reg["json_write"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 2 || args[0].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "json_write takes a path and a value")
		}
		b, err := json.MarshalIndent(valueToAny(args[1]), "", "  ")
		if err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "json_write: %v", err)
		}
		if err := os.WriteFile(args[0].AsString(), b, 0o644); err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "json_write: %v", err)
		}
		return interp.Nil, nil
	}
	reg["json_validate"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 || args[0].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "json_validate takes exactly one string argument")
		}
		return interp.Bool(json.Valid([]byte(args[0].AsString()))), nil
	}
	reg["json_type"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "json_type takes exactly one argument")
		}
		return interp.String(jsonTypeName(args[0])), nil
	}
	reg["json_merge"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 2 || args[0].Kind() != interp.KindObject || args[1].Kind() != interp.KindObject {
			return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "json_merge takes two objects")
		}
		out := args[0]
		for _, k := range args[1].ObjectKeys() {
			v, _ := args[1].ObjectGet(k)
			out = out.ObjectSet(k, v)
		}
		return out, nil
	}
	reg["json_get"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 2 || args[0].Kind() != interp.KindObject || args[1].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "json_get takes an object and a string key")
		}
		v, ok := args[0].ObjectGet(args[1].AsString())
		if !ok {
			return interp.Nil, nil
		}
		return v, nil
	}
	reg["json_set"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 3 || args[0].Kind() != interp.KindObject || args[1].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "json_set takes an object, a string key, and a value")
		}
		return args[0].ObjectSet(args[1].AsString(), args[2]), nil
	}
}

func decodeJSON(ctx *interp.Context, b []byte) (interp.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "json_parse: %v", err)
	}
	return anyToValue(raw), nil
}

func anyToValue(raw any) interp.Value {
	switch v := raw.(type) {
	case nil:
		return interp.Nil
	case bool:
		return interp.Bool(v)
	case string:
		return interp.String(v)
	case json.Number:
		return numberToValue(v)
	case []any:
		elems := make([]interp.Value, len(v))
		for i, e := range v {
			elems[i] = anyToValue(e)
		}
		return interp.Array(elems)
	case map[string]any:
		obj := interp.EmptyObject()
		for k, e := range v {
			obj = obj.ObjectSet(k, anyToValue(e))
		}
		return obj
	default:
		return interp.Nil
	}
}

// numberToValue converts a json.Number to Integer, Float, or BigNum.
func numberToValue(n json.Number) interp.Value {
	if i, err := n.Int64(); err == nil {
		return interp.Int(i)
	}
	if f, err := n.Float64(); err == nil && !math.IsInf(f, 0) {
		return interp.Float(f)
	}
	d, _, err := apd.NewFromString(n.String())
	if err != nil {
		return interp.Float(0)
	}
	return interp.BigNum(d)
}

func valueToAny(v interp.Value) any {
	switch v.Kind() {
	case interp.KindNil:
		return nil
	case interp.KindBool:
		return v.AsBool()
	case interp.KindInteger:
		return v.AsInt()
	case interp.KindFloat:
		return v.AsFloat()
	case interp.KindByte:
		return v.AsByte()
	case interp.KindChar:
		return string(v.AsChar())
	case interp.KindString:
		return v.AsString()
	case interp.KindBigNum:
		return v.AsBigNum().String()
	case interp.KindArray, interp.KindTuple:
		elems := v.AsSlice()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = valueToAny(e)
		}
		return out
	case interp.KindObject:
		out := map[string]any{}
		for _, k := range v.ObjectKeys() {
			fv, _ := v.ObjectGet(k)
			out[k] = valueToAny(fv)
		}
		return out
	default:
		return v.String()
	}
}

// TranspileJSON returns the serde_json expansion for a json_* builtin call
// given its already-emitted argument expressions. Every
// case records "serde_json" so the emitter adds the crate import exactly
// once regardless of how many json_* calls a program makes.
func TranspileJSON(name string, args []string) (expr string, imports []string, ok bool) {
	const serdeJSON = "serde_json"
	switch name {
	case "json_parse":
		return fmt.Sprintf("serde_json::from_str::<serde_json::Value>(&%s).unwrap()", args[0]), []string{serdeJSON}, true
	case "json_stringify":
		return fmt.Sprintf("serde_json::to_string(&%s).unwrap()", args[0]), []string{serdeJSON}, true
	case "json_pretty":
		return fmt.Sprintf("serde_json::to_string_pretty(&%s).unwrap()", args[0]), []string{serdeJSON}, true
	case "json_read":
		return fmt.Sprintf("serde_json::from_str::<serde_json::Value>(&std::fs::read_to_string(%s).unwrap()).unwrap()", args[0]),
			[]string{serdeJSON, "std::fs"}, true
	case "json_write":
		return fmt.Sprintf("std::fs::write(%s, serde_json::to_string_pretty(&%s).unwrap()).unwrap()", args[0], args[1]),
			[]string{serdeJSON, "std::fs"}, true
	case "json_validate":
		return fmt.Sprintf("serde_json::from_str::<serde_json::Value>(&%s).is_ok()", args[0]), []string{serdeJSON}, true
	case "json_type":
		return fmt.Sprintf(`match %s { serde_json::Value::Null => "null", serde_json::Value::Bool(_) => "boolean", `+
			`serde_json::Value::Number(_) => "number", serde_json::Value::String(_) => "string", `+
			`serde_json::Value::Array(_) => "array", serde_json::Value::Object(_) => "object" }`, args[0]),
			[]string{serdeJSON}, true
	case "json_merge":
		return fmt.Sprintf("{ let mut m = %s.as_object().unwrap().clone(); m.extend(%s.as_object().unwrap().clone()); serde_json::Value::Object(m) }",
			args[0], args[1]), []string{serdeJSON}, true
	case "json_get":
		return fmt.Sprintf("%s.get(%s).cloned().unwrap_or(serde_json::Value::Null)", args[0], args[1]), []string{serdeJSON}, true
	case "json_set":
		return fmt.Sprintf("{ let mut v = %s.clone(); v[%s] = %s.clone(); v }", args[0], args[1], args[2]), []string{serdeJSON}, true
	}
	return "", nil, false
}

func jsonTypeName(v interp.Value) string {
	switch v.Kind() {
	case interp.KindNil:
		return "null"
	case interp.KindBool:
		return "boolean"
	case interp.KindInteger, interp.KindFloat, interp.KindBigNum:
		return "number"
	case interp.KindString:
		return "string"
	case interp.KindArray, interp.KindTuple:
		return "array"
	case interp.KindObject:
		return "object"
	default:
		return "unknown"
	}
}
