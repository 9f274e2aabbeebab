/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package remote implements client.DB against a server's HTTP API, so a
// Client can run against a database on another machine exactly as it would
// against an in-process one.
package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/pkg/errors"

	"github.com/exo-explore/private-search/data"
	"github.com/exo-explore/private-search/httpapi"
	"github.com/exo-explore/private-search/internal"
	"github.com/exo-explore/private-search/pir"
)

// HTTPDatabase is a client.DB backed by a remote server's /params, /hint,
// /a and /query endpoints.
type HTTPDatabase struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPDatabase returns an HTTPDatabase targeting baseURL, using
// http.DefaultClient.
func NewHTTPDatabase(baseURL string) *HTTPDatabase {
	return &HTTPDatabase{BaseURL: baseURL, Client: http.DefaultClient}
}

// Params implements client.DB by fetching GET /params.
func (h *HTTPDatabase) Params() (pir.Params, error) {
	var doc httpapi.ParamsDoc
	if err := h.get("/params", &doc); err != nil {
		return pir.Params{}, err
	}

	q, ok := new(big.Int).SetString(doc.Q, 10)
	if !ok {
		return pir.Params{}, errors.Wrap(internal.ErrDecode, "params: invalid q")
	}
	p, ok := new(big.Int).SetString(doc.P, 10)
	if !ok {
		return pir.Params{}, errors.Wrap(internal.ErrDecode, "params: invalid p")
	}

	// The wire carries only M, N, Q and P, so the rest (Sigma) comes from
	// GenParams with P's exponent. The seed GenParams draws is not the
	// server's: callers fetch A directly via the A method rather than
	// regenerating it from a seed.
	params, err := pir.GenParams(doc.M, doc.N, pir.Params{P: p}.ModPower())
	if err != nil {
		return pir.Params{}, err
	}
	params.Q = q
	return params, nil
}

// Hint implements client.DB by fetching GET /hint.
func (h *HTTPDatabase) Hint() (data.Matrix, error) {
	var doc httpapi.MatrixDoc
	if err := h.get("/hint", &doc); err != nil {
		return nil, err
	}

	return httpapi.DocToMatrix(doc)
}

// A implements client.DB by fetching GET /a.
func (h *HTTPDatabase) A() (data.Matrix, error) {
	var doc httpapi.MatrixDoc
	if err := h.get("/a", &doc); err != nil {
		return nil, err
	}

	return httpapi.DocToMatrix(doc)
}

// Respond implements client.DB by POSTing c to /query.
func (h *HTTPDatabase) Respond(c data.Vector) (data.Vector, error) {
	req := httpapi.QueryRequest{Query: vectorToStrings(c)}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "remote: error while encoding query")
	}

	resp, err := h.Client.Post(h.BaseURL+"/query", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(internal.ErrTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(internal.ErrTransport, decodeErrorBody(resp))
	}

	var out httpapi.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(internal.ErrDecode, err.Error())
	}

	return stringsToVector(out.Response)
}

func (h *HTTPDatabase) get(path string, out interface{}) error {
	resp, err := h.Client.Get(h.BaseURL + path)
	if err != nil {
		return errors.Wrap(internal.ErrTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrap(internal.ErrTransport, decodeErrorBody(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(internal.ErrDecode, err.Error())
	}

	return nil
}

func decodeErrorBody(resp *http.Response) string {
	var doc struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil || doc.Error == "" {
		return fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return doc.Error
}

func vectorToStrings(v data.Vector) []string {
	out := make([]string, len(v))
	for i, c := range v {
		out[i] = c.String()
	}
	return out
}

func stringsToVector(s []string) (data.Vector, error) {
	v := make(data.Vector, len(s))
	for i, str := range s {
		n, ok := new(big.Int).SetString(str, 10)
		if !ok {
			return nil, errors.Wrap(internal.ErrDecode, "invalid integer in response")
		}
		v[i] = n
	}
	return v, nil
}
