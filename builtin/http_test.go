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

package builtin_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/builtin"
	"github.com/ruchy-lang/ruchy/interp"
)

func TestHTTPVerbsAgainstTestServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Method", r.Method)
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	reg := builtin.NewRegistry(builtin.Options{HTTPClient: srv.Client()})

	resp, err := call(t, reg, "http_get", interp.String(srv.URL+"/echo"))
	qt.Assert(t, qt.IsNil(err))
	status, ok := resp.ObjectGet("status")
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(status.AsInt(), int64(http.StatusOK)))
	headers, ok := resp.ObjectGet("headers")
	qt.Assert(t, qt.Equals(ok, true))
	method, ok := headers.ObjectGet("X-Method")
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(method.AsString(), http.MethodGet))

	resp, err = call(t, reg, "http_post", interp.String(srv.URL+"/echo"), interp.String(`{"a":1}`))
	qt.Assert(t, qt.IsNil(err))
	body, ok := resp.ObjectGet("body")
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(body.AsString(), `{"a":1}`))
}

func TestHTTPVerbWithInvalidHeaderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := builtin.NewRegistry(builtin.Options{HTTPClient: srv.Client()})
	headers := interp.EmptyObject().ObjectSet("Bad Name", interp.String("x"))

	_, err := call(t, reg, "http_get", interp.String(srv.URL), interp.String(""), headers)
	qt.Assert(t, qt.Equals(err != nil, true))
}
