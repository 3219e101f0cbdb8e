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

// Command ruchyfront is a thin driver over package ruchy: it parses a
// source file and either evaluates it or transpiles it, printing the
// result to stdout. It exists to exercise the embedding API end to end
// from the command line, not as a product CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ruchy-lang/ruchy"
)

var (
	modeFlag = flag.String("mode", "eval", `what to do with the parsed file: "eval" or "transpile"`)
	libFlag  = flag.Bool("lib", false, "in transpile mode, omit the main() driver wrapper")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: ruchyfront [flags] <file>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "ruchyfront: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	e, err := ruchy.Parse(path, string(src))
	if err != nil {
		return fmt.Errorf("%s", ruchy.Diagnostic(path, string(src), err))
	}

	switch *modeFlag {
	case "eval":
		v, err := ruchy.Evaluate(e)
		if err != nil {
			return fmt.Errorf("%s", ruchy.Diagnostic(path, string(src), err))
		}
		fmt.Println(v.String())
	case "transpile":
		out, err := ruchy.TranspileProgram(e, ruchy.WithLibrary(*libFlag))
		if err != nil {
			return fmt.Errorf("%s", ruchy.Diagnostic(path, string(src), err))
		}
		fmt.Print(out)
	default:
		return fmt.Errorf("unknown -mode %q", *modeFlag)
	}
	return nil
}
