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
	"fmt"

	"gopkg.in/yaml.v3"

	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/interp"
)

// registerYAML wires yaml_parse/yaml_stringify alongside the json_* family.
// Encoding shares valueToAny with it; decoding goes through yamlToValue,
// which mirrors anyToValue, so a document decoded from either format lands
// on the same Value shape.
func registerYAML(reg map[string]interp.Intrinsic) {
	reg["yaml_parse"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 || args[0].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "yaml_parse takes exactly one string argument")
		}
		var raw any
		if err := yaml.Unmarshal([]byte(args[0].AsString()), &raw); err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "yaml_parse: %v", err)
		}
		return yamlToValue(raw), nil
	}
	reg["yaml_stringify"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "yaml_stringify takes exactly one argument")
		}
		b, err := yaml.Marshal(valueToAny(args[0]))
		if err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "yaml_stringify: %v", err)
		}
		return interp.String(string(b)), nil
	}
}

// TranspileYAML returns the serde_yaml expansion for yaml_parse/
// yaml_stringify given their already-emitted argument expressions.
func TranspileYAML(name string, args []string) (expr string, imports []string, ok bool) {
	switch name {
	case "yaml_parse":
		return fmt.Sprintf("serde_yaml::from_str::<serde_yaml::Value>(&%s).unwrap()", args[0]), []string{"serde_yaml"}, true
	case "yaml_stringify":
		return fmt.Sprintf("serde_yaml::to_string(&%s).unwrap()", args[0]), []string{"serde_yaml"}, true
	}
	return "", nil, false
}

// yamlToValue mirrors anyToValue for yaml.v3's decode shapes: maps come
// back as map[string]any (unlike yaml.v2's map[interface{}]interface{})
// and numbers decode directly as int/float64 rather than through a
// deferred-parse type like encoding/json's json.Number.
func yamlToValue(raw any) interp.Value {
	switch v := raw.(type) {
	case nil:
		return interp.Nil
	case bool:
		return interp.Bool(v)
	case string:
		return interp.String(v)
	case int:
		return interp.Int(int64(v))
	case int64:
		return interp.Int(v)
	case float64:
		return interp.Float(v)
	case []any:
		elems := make([]interp.Value, len(v))
		for i, e := range v {
			elems[i] = yamlToValue(e)
		}
		return interp.Array(elems)
	case map[string]any:
		obj := interp.EmptyObject()
		for k, e := range v {
			obj = obj.ObjectSet(k, yamlToValue(e))
		}
		return obj
	default:
		return interp.Nil
	}
}
