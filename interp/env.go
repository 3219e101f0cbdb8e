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

// binding is one name's slot in a Scope: a Value plus whether it was
// declared `let mut`.
type binding struct {
	value   Value
	mutable bool
}

// Scope is one frame of the environment stack. A Closure
// captures a *Scope handle, not a copy, so later assignments to an
// enclosing binding are visible through every closure that captured it —
// the mechanism the two-pass module rule depends on.
type Scope struct {
	parent *Scope
	vars   map[string]*binding
}

// NewRootScope creates an empty top-level scope with no parent.
func NewRootScope() *Scope {
	return &Scope{vars: map[string]*binding{}}
}

// Child creates a new scope linked to s, the pattern used for block
// bodies, loop iterations, and call frames.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, vars: map[string]*binding{}}
}

// Declare introduces name in this scope, shadowing any outer binding of
// the same name. A closure that already captured this exact *Scope would
// see a later Declare of the same name, so evalBlock opens a fresh child
// scope before every let to keep shadowing from reaching back into
// already-built closures.
func (s *Scope) Declare(name string, v Value, mutable bool) {
	s.vars[name] = &binding{value: v, mutable: mutable}
}

// Lookup walks the scope chain from s outward, returning the first
// binding found.
func (s *Scope) Lookup(name string) (Value, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if b, ok := scope.vars[name]; ok {
			return b.value, true
		}
	}
	return Nil, false
}

// Assign rebinds an existing name in the nearest enclosing scope that
// declared it. Returns (ok, mutableViolation): ok is false if the name
// was never declared; mutableViolation is true if it was declared
// without `mut`.
func (s *Scope) Assign(name string, v Value) (ok bool, mutableViolation bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if b, found := scope.vars[name]; found {
			if !b.mutable {
				return true, true
			}
			b.value = v
			return true, false
		}
	}
	return false, false
}

// Checkpoint is an opaque copy of one scope's bindings, produced by
// Snapshot and consumed by Restore.
type Checkpoint struct {
	vars map[string]binding
}

// Snapshot captures the top scope's bindings for a transactional eval.
// Values are ref-counted handles, cheaply cloned; the map itself is
// copied so later Declare/Assign calls on s don't mutate the snapshot.
func (s *Scope) Snapshot() Checkpoint {
	vars := make(map[string]binding, len(s.vars))
	for k, b := range s.vars {
		vars[k] = *b
	}
	return Checkpoint{vars: vars}
}

// Restore replaces s's bindings with a prior Snapshot, mutability flags
// included. Closures that captured s before Restore continue to observe
// whatever s holds after Restore — by design, since they hold the same
// *Scope handle.
func (s *Scope) Restore(snap Checkpoint) {
	s.vars = make(map[string]*binding, len(snap.vars))
	for k, b := range snap.vars {
		b := b
		s.vars[k] = &b
	}
}
