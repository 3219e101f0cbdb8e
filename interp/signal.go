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

// signal carries non-local control flow (break/continue/return) out of
// eval through ordinary Go error returns, the way a recursive-descent
// evaluator without exceptions has to. It implements error so it can
// travel the same return channel as a real *errors.Error; callers that
// need to tell the two apart use the as* helpers below.
type signal struct {
	kind  signalKind
	label string
	value Value
}

type signalKind int

const (
	signalBreak signalKind = iota
	signalContinue
	signalReturn
)

func (s *signal) Error() string {
	switch s.kind {
	case signalBreak:
		return "break outside loop"
	case signalContinue:
		return "continue outside loop"
	default:
		return "return outside function"
	}
}

func asSignal(err error) (*signal, bool) {
	s, ok := err.(*signal)
	return s, ok
}

func breakSignal(label string, value Value) error {
	return &signal{kind: signalBreak, label: label, value: value}
}

func continueSignal(label string) error {
	return &signal{kind: signalContinue, label: label}
}

func returnSignal(value Value) error {
	return &signal{kind: signalReturn, value: value}
}
