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
	"log"
	"time"

	"github.com/ruchy-lang/ruchy/token"
)

// Intrinsic is one entry of the shared built-in registry's interpreter
// half: a symbolic name dispatched against already
// evaluated arguments plus a Context giving it access to I/O capability,
// the call span, and the embedder's Config.
type Intrinsic func(ctx *Context, args []Value) (Value, error)

// Context is threaded through every Intrinsic call so built-ins can
// report errors with a span and honor the embedder's resource limits.
type Context struct {
	Interp *Interp
	Span   token.Span
}

// Config carries the evaluation-session knobs: a deadline/budget pair
// for cancellation, a transactional-eval flag, and a logger — passed by
// value into New/Eval and never mutated after construction.
type Config struct {
	Deadline      time.Time // zero means no deadline
	StepBudget    int64     // zero means unbounded; decremented once per evaluated Expr
	Transactional bool      // snapshot env before Eval, restore on error
	Logger        *log.Logger
	ExtraBuiltins map[string]Intrinsic
}

// Option configures a Config; New(opts...) applies each in order over
// zero-value defaults.
type Option func(*Config)

// WithDeadline bounds evaluation by wall-clock time.
func WithDeadline(t time.Time) Option {
	return func(c *Config) { c.Deadline = t }
}

// WithStepBudget bounds evaluation by expression-step count, the
// memory/CPU-agnostic analogue of a memory cap.
func WithStepBudget(n int64) Option {
	return func(c *Config) { c.StepBudget = n }
}

// WithTransactional enables transactional eval: the top scope is
// snapshotted before Eval and restored if Eval returns an error.
func WithTransactional(on bool) Option {
	return func(c *Config) { c.Transactional = on }
}

// WithLogger attaches a diagnostic logger; nil (the default) is silent.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithBuiltins merges extra name→Intrinsic entries into the registry,
// letting an embedder extend or override the default builtin set.
func WithBuiltins(extra map[string]Intrinsic) Option {
	return func(c *Config) {
		if c.ExtraBuiltins == nil {
			c.ExtraBuiltins = map[string]Intrinsic{}
		}
		for k, v := range extra {
			c.ExtraBuiltins[k] = v
		}
	}
}
