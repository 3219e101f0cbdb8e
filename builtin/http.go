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
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"

	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/interp"
)

// httpTranspileVerbs maps each http_* intrinsic to the reqwest::blocking
// client method it expands to.
var httpTranspileVerbs = map[string]string{
	"http_get": "get", "http_post": "post", "http_put": "put", "http_delete": "delete",
}

// TranspileHTTP returns the reqwest::blocking expansion for an http_*
// builtin call given its already-emitted argument expressions (url[,
// body[, headers]]), matching the per-verb dispatch registerHTTP uses at
// eval time. The generated request always calls error_for_status so a
// non-2xx response raises instead of handing back the error body.
func TranspileHTTP(name string, args []string) (expr string, imports []string, ok bool) {
	verb, known := httpTranspileVerbs[name]
	if !known {
		return "", nil, false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "{ let mut req = reqwest::blocking::Client::new().%s(%s);", verb, args[0])
	if len(args) > 1 {
		fmt.Fprintf(&b, " req = req.body(%s.clone());", args[1])
	}
	if len(args) > 2 {
		fmt.Fprintf(&b, " for (k, v) in %s.iter() { req = req.header(k.as_str(), v.as_str()); }", args[2])
	}
	b.WriteString(" let resp = req.send().unwrap().error_for_status().unwrap(); resp.text().unwrap() }")
	return b.String(), []string{"reqwest"}, true
}

// registerHTTP wires the http_* family, one
// intrinsic per verb rather than one generic "http call" entry point.
// Every call returns an Object{status, body, headers}.
func registerHTTP(reg map[string]interp.Intrinsic, opts Options) {
	reg["http_get"] = httpVerb(http.MethodGet, opts)
	reg["http_post"] = httpVerb(http.MethodPost, opts)
	reg["http_put"] = httpVerb(http.MethodPut, opts)
	reg["http_delete"] = httpVerb(http.MethodDelete, opts)
}

func httpVerb(method string, opts Options) interp.Intrinsic {
	return func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) < 1 || args[0].Kind() != interp.KindString {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "%s takes a URL as its first argument", strings.ToLower(method))
		}
		url := args[0].AsString()

		var body io.Reader
		var bodyStr string
		if len(args) > 1 && args[1].Kind() == interp.KindString {
			bodyStr = args[1].AsString()
			body = strings.NewReader(bodyStr)
		}

		req, err := http.NewRequest(method, url, body)
		if err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "%s %s: %v", method, url, err)
		}
		if bodyStr != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if len(args) > 2 && args[2].Kind() == interp.KindObject {
			for _, k := range args[2].ObjectKeys() {
				hv, _ := args[2].ObjectGet(k)
				v := hv.String()
				if !httpguts.ValidHeaderFieldName(k) || !httpguts.ValidHeaderFieldValue(v) {
					return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "invalid header %q", k)
				}
				req.Header.Set(k, v)
			}
		}

		resp, err := opts.HTTPClient.Do(req)
		if err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "%s %s: %v", method, url, err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return interp.Nil, rerrors.Newf(rerrors.IOError, ctx.Span, "%s %s: reading body: %v", method, url, err)
		}

		headers := interp.EmptyObject()
		for k := range resp.Header {
			headers = headers.ObjectSet(k, interp.String(resp.Header.Get(k)))
		}

		result := interp.EmptyObject().
			ObjectSet("status", interp.Int(int64(resp.StatusCode))).
			ObjectSet("body", interp.String(string(respBody))).
			ObjectSet("headers", headers)
		return result, nil
	}
}
