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

// Package builtin is the shared built-in registry: one table of
// process-wide free-identifier names, each resolved either to an
// interp.Intrinsic (for the tree-walking evaluator) or to a code
// template consumed by package transpile. Keeping both sides in one
// package avoids the two stages drifting out of sync on names or arity.
package builtin

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/ruchy-lang/ruchy/interp"
	"github.com/ruchy-lang/ruchy/internal/filesystem"
)

// Names lists every reserved free identifier this registry resolves, in
// declaration order, so transpile and tooling can range over it without
// reflecting on the registry map (map order is unspecified in Go). This
// includes both the reserved builtin groups and the df_* helpers
// that operate on a `df![...]` literal's shape (see dataframe.go).
var Names = []string{
	"println", "print", "input", "assert", "assert_eq",
	"int", "float", "str", "Vec", "HashMap",
	"sqrt", "pow", "abs", "min", "max", "floor", "ceil", "round",
	"json_parse", "json_stringify", "json_pretty", "json_read", "json_write",
	"json_validate", "json_type", "json_merge", "json_get", "json_set",
	"yaml_parse", "yaml_stringify",
	"http_get", "http_post", "http_put", "http_delete",
	"file_read", "file_write", "file_exists", "path_join", "env_get",
	"df", "df_columns", "df_rows", "df_merge",
}

// Arity bounds the positional argument count a registry entry accepts.
// Max of -1 means unbounded (variadic).
type Arity struct{ Min, Max int }

// Arities gives every name in Names except "df" a static arity, since a
// bare map[string]interp.Intrinsic carries no such metadata; "df" names
// the df![...] literal, which the parser turns into a KindDataframe node
// rather than a call. package
// transpile uses this to validate a built-in call's argument count at
// transpile time.
var Arities = map[string]Arity{
	"println": {0, -1}, "print": {0, -1}, "input": {0, 1},
	"assert": {1, 2}, "assert_eq": {2, -1},
	"int": {1, 1}, "float": {1, 1}, "str": {1, 1},
	"Vec": {0, -1}, "HashMap": {0, -1},
	"sqrt": {1, 1}, "floor": {1, 1}, "ceil": {1, 1}, "round": {1, 1},
	"pow": {2, 2}, "abs": {1, 1}, "min": {1, -1}, "max": {1, -1},
	"json_parse": {1, 1}, "json_stringify": {1, 1}, "json_pretty": {1, 1},
	"json_read": {1, 1}, "json_write": {2, 2}, "json_validate": {1, 1},
	"json_type": {1, 1}, "json_merge": {2, 2}, "json_get": {2, 2}, "json_set": {3, 3},
	"yaml_parse": {1, 1}, "yaml_stringify": {1, 1},
	"http_get": {1, 3}, "http_post": {1, 3}, "http_put": {1, 3}, "http_delete": {1, 3},
	"file_read": {1, 1}, "file_write": {2, 2}, "file_exists": {1, 1},
	"path_join": {0, -1}, "env_get": {1, 2},
	"df_columns": {1, 1}, "df_rows": {1, 1}, "df_merge": {2, 2},
}

// Options configures the registry construction: the filesystem builtins
// run against, the HTTP client's timeout, and the writer println/print
// use. Mirrors interp.Config's "pass knobs by value" convention.
type Options struct {
	FS         fs.FS
	HTTPClient *http.Client
	Stdout     Writer
	Stdin      Reader
}

// Writer is the minimal sink println/print write to; *os.File and
// *bytes.Buffer both satisfy it.
type Writer interface {
	Write(p []byte) (n int, err error)
}

// Reader is the minimal source input() reads a line from.
type Reader interface {
	ReadString(delim byte) (string, error)
}

// DefaultOptions returns the registry's defaults: the real OS filesystem
// rooted at the working directory (internal/filesystem.OSFS, the
// io/fs-compliant wrapper around os), a 30s-timeout HTTP
// client, and os.Stdout/os.Stdin left to the caller to wire.
func DefaultOptions() Options {
	return Options{
		FS:         &filesystem.OSFS{CWD: "."},
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewRegistry builds the interpreter-side name→Intrinsic table. The
// transpiler never calls this constructor, since it never executes an
// Intrinsic; it consults Arities plus the Transpile* template functions
// exported alongside each family's register* function (io.go, math.go,
// json.go, yaml.go, http.go, fs.go, dataframe.go) to expand a built-in
// call into target source instead.
func NewRegistry(opts Options) map[string]interp.Intrinsic {
	if opts.Stdout == nil {
		opts.Stdout = defaultStdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = DefaultOptions().HTTPClient
	}
	if opts.FS == nil {
		opts.FS = DefaultOptions().FS
	}

	reg := map[string]interp.Intrinsic{}
	registerIO(reg, opts)
	registerAssertions(reg)
	registerTypeConstructors(reg)
	registerMath(reg)
	registerJSON(reg)
	registerYAML(reg)
	registerHTTP(reg, opts)
	registerFS(reg, opts)
	registerDataframe(reg)
	return reg
}
