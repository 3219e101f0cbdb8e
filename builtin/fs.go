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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/interp"
)

// registerFS wires file_read/file_write/file_exists/path_join/env_get
// against opts.FS, an io/fs.FS the way internal/filesystem.OSFS exposes
// one — so tests can swap in an fstest.MapFS instead of touching disk.
func registerFS(reg map[string]interp.Intrinsic, opts Options) {
	reg["file_read"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 || args[0].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "file_read takes exactly one path argument")
		}
		b, err := fs.ReadFile(opts.FS, args[0].AsString())
		if err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "file_read: %v", err)
		}
		return interp.String(string(b)), nil
	}
	reg["file_write"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 2 || args[0].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "file_write takes a path and a string")
		}
		w, ok := opts.FS.(interface {
			WriteFile(name string, data []byte, perm fs.FileMode) error
		})
		if ok {
			if err := w.WriteFile(args[0].AsString(), []byte(args[1].String()), 0o644); err != nil {
				return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "file_write: %v", err)
			}
			return interp.Nil, nil
		}
		if err := os.WriteFile(args[0].AsString(), []byte(args[1].String()), 0o644); err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "file_write: %v", err)
		}
		return interp.Nil, nil
	}
	reg["file_exists"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 || args[0].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "file_exists takes exactly one path argument")
		}
		_, err := fs.Stat(opts.FS, args[0].AsString())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return interp.Bool(false), nil
			}
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "file_exists: %v", err)
		}
		return interp.Bool(true), nil
	}
	reg["path_join"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			if a.Kind() != interp.KindString {
				return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "path_join requires string arguments")
			}
			parts[i] = a.AsString()
		}
		return interp.String(path.Join(parts...)), nil
	}
	reg["env_get"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) < 1 || args[0].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "env_get takes a variable name")
		}
		v, ok := os.LookupEnv(args[0].AsString())
		if !ok {
			if len(args) > 1 {
				return args[1], nil
			}
			return interp.Nil, nil
		}
		return interp.String(v), nil
	}
}

// TranspileFS returns the std::fs/std::path/std::env expansion for a
// filesystem/path/env builtin call given its already-emitted argument
// expressions.
func TranspileFS(name string, args []string) (expr string, imports []string, ok bool) {
	switch name {
	case "file_read":
		return fmt.Sprintf("std::fs::read_to_string(%s).unwrap()", args[0]), []string{"std::fs"}, true
	case "file_write":
		return fmt.Sprintf("std::fs::write(%s, %s).unwrap()", args[0], args[1]), []string{"std::fs"}, true
	case "file_exists":
		return fmt.Sprintf("std::path::Path::new(%s).exists()", args[0]), []string{"std::path"}, true
	case "path_join":
		if len(args) == 0 {
			return `String::new()`, nil, true
		}
		var b strings.Builder
		fmt.Fprintf(&b, "std::path::PathBuf::from(%s)", args[0])
		for _, a := range args[1:] {
			fmt.Fprintf(&b, ".join(%s)", a)
		}
		b.WriteString(".to_string_lossy().to_string()")
		return b.String(), []string{"std::path"}, true
	case "env_get":
		if len(args) > 1 {
			return fmt.Sprintf("std::env::var(%s).unwrap_or_else(|_| %s.to_string())", args[0], args[1]), []string{"std::env"}, true
		}
		return fmt.Sprintf("std::env::var(%s).ok()", args[0]), []string{"std::env"}, true
	}
	return "", nil, false
}
