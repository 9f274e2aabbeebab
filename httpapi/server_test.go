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

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exo-explore/private-search/data"
	"github.com/exo-explore/private-search/server"
)

type fixedSource struct {
	records []server.Record
}

func (s *fixedSource) Fetch(ctx context.Context) ([]server.Record, error) {
	return s.records, nil
}

func recordsFromNames(names ...string) []server.Record {
	records := make([]server.Record, len(names))
	for i, n := range names {
		raw, _ := json.Marshal(map[string]string{"name": n})
		records[i] = server.Record{Name: n, Raw: raw}
	}
	return records
}

func newReadyEncodingDB(t *testing.T) *server.EncodingDatabase {
	t.Helper()
	db := server.NewEncodingDatabase(&fixedSource{records: recordsFromNames("alpha", "beta")}, 64, 17)
	require.NoError(t, db.Update(context.Background()))
	return db
}

func TestParamsHandler(t *testing.T) {
	db := newReadyEncodingDB(t)
	ts := httptest.NewServer(NewMux(db))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/params")
	require.NoError(t, err)
	defer resp.Body.Close()

	var doc ParamsDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, 2, doc.M)
	assert.Equal(t, 64, doc.N)
}

func TestParamsHandler_NotReady(t *testing.T) {
	db := server.NewEncodingDatabase(&fixedSource{}, 64, 17)
	ts := httptest.NewServer(NewMux(db))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/params")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 503, resp.StatusCode)
}

func TestQueryHandler_RoundTrip(t *testing.T) {
	db := newReadyEncodingDB(t)
	ts := httptest.NewServer(NewMux(db))
	defer ts.Close()

	c := data.NewConstantVector(2, big.NewInt(0))
	body, err := json.Marshal(QueryRequest{Query: vectorToStrings(c)})
	require.NoError(t, err)

	resp, err := ts.Client().Post(ts.URL+"/query", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	var out QueryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Response, 2)
}

func TestQueryHandler_InvalidInput(t *testing.T) {
	db := newReadyEncodingDB(t)
	ts := httptest.NewServer(NewMux(db))
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/query", "application/json", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}

func TestDocToMatrix_RoundTrip(t *testing.T) {
	db := newReadyEncodingDB(t)
	hint, err := db.Hint()
	require.NoError(t, err)

	doc := matrixToDoc(hint)
	back, err := DocToMatrix(doc)
	require.NoError(t, err)

	assert.Equal(t, hint.Rows(), back.Rows())
	assert.Equal(t, hint.Cols(), back.Cols())
}
