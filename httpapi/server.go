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

// Package httpapi exposes a server.Database over four plain net/http
// endpoints: params, hint, A and query.
package httpapi

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/exo-explore/private-search/data"
	"github.com/exo-explore/private-search/internal"
	"github.com/exo-explore/private-search/server"
)

// ParamsDoc is the wire representation of GET /params.
type ParamsDoc struct {
	M int    `json:"m"`
	N int    `json:"n"`
	Q string `json:"q"`
	P string `json:"p"`
}

// MatrixDoc is the wire representation of GET /hint and GET /a: entries
// in row-major order, as decimal strings.
type MatrixDoc struct {
	Rows int      `json:"rows"`
	Cols int      `json:"cols"`
	Data []string `json:"data"`
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query []string `json:"query"`
}

// QueryResponse is the body returned by POST /query.
type QueryResponse struct {
	Response []string `json:"response"`
}

type errorDoc struct {
	Error string `json:"error"`
}

// NewMux wires the four endpoints against db.
func NewMux(db server.Database) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/params", paramsHandler(db))
	mux.HandleFunc("/hint", hintHandler(db))
	mux.HandleFunc("/a", aHandler(db))
	mux.HandleFunc("/query", queryHandler(db))
	return mux
}

func paramsHandler(db server.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := db.Params()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ParamsDoc{
			M: p.M,
			N: p.N,
			Q: p.Q.String(),
			P: p.P.String(),
		})
	}
}

func hintHandler(db server.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := db.Hint()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matrixToDoc(h))
	}
}

func aHandler(db server.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := db.A()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matrixToDoc(a))
	}
}

func queryHandler(db server.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, internal.ErrInvalidInput)
			return
		}

		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.Join(internal.ErrInvalidInput, err))
			return
		}

		c, err := stringsToVector(req.Query)
		if err != nil {
			writeError(w, err)
			return
		}

		resp, err := db.Respond(c)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, QueryResponse{Response: vectorToStrings(resp)})
	}
}

func matrixToDoc(m data.Matrix) MatrixDoc {
	out := make([]string, 0, m.Rows()*m.Cols())
	for _, row := range m {
		out = append(out, vectorToStrings(row)...)
	}
	return MatrixDoc{Rows: m.Rows(), Cols: m.Cols(), Data: out}
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
			return nil, internal.ErrInvalidInput
		}
		v[i] = n
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, internal.ErrDatabaseNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, internal.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorDoc{Error: err.Error()})
}

// DocToMatrix rebuilds a data.Matrix from its wire representation.
func DocToMatrix(doc MatrixDoc) (data.Matrix, error) {
	rows := make([]data.Vector, doc.Rows)
	for i := 0; i < doc.Rows; i++ {
		row, err := stringsToVector(doc.Data[i*doc.Cols : (i+1)*doc.Cols])
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return data.NewMatrix(rows)
}
