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

package remote

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exo-explore/private-search/client"
	"github.com/exo-explore/private-search/data"
	"github.com/exo-explore/private-search/embedding"
	"github.com/exo-explore/private-search/httpapi"
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

func TestHTTPDatabase_ParamsHintA(t *testing.T) {
	source := &fixedSource{records: recordsFromNames("alpha", "beta")}
	db := server.NewEncodingDatabase(source, 64, 17)
	require.NoError(t, db.Update(context.Background()))

	ts := httptest.NewServer(httpapi.NewMux(db))
	defer ts.Close()

	remoteDB := NewHTTPDatabase(ts.URL)

	p, err := remoteDB.Params()
	require.NoError(t, err)
	assert.Equal(t, 2, p.M)

	hint, err := remoteDB.Hint()
	require.NoError(t, err)
	assert.Equal(t, 2, hint.Rows())

	a, err := remoteDB.A()
	require.NoError(t, err)
	assert.Equal(t, 2, a.Rows())
}

func TestHTTPDatabase_RespondRoundTrips(t *testing.T) {
	source := &fixedSource{records: recordsFromNames("alpha", "beta")}
	db := server.NewEncodingDatabase(source, 64, 17)
	require.NoError(t, db.Update(context.Background()))

	ts := httptest.NewServer(httpapi.NewMux(db))
	defer ts.Close()

	remoteDB := NewHTTPDatabase(ts.URL)

	p, err := remoteDB.Params()
	require.NoError(t, err)

	c := data.NewConstantVector(p.M, big.NewInt(0))

	v, err := remoteDB.Respond(c)
	require.NoError(t, err)
	assert.Equal(t, p.M, len(v))
}

func TestClient_QueryOverHTTP(t *testing.T) {
	embeddingSource := &fixedSource{records: recordsFromNames("Bitcoin", "Ethereum", "Tesla")}
	encodingSource := &fixedSource{records: recordsFromNames("Bitcoin", "Ethereum", "Tesla")}

	embedder := embedding.NewHashingEmbedder()
	embeddingDB := server.NewEmbeddingDatabase(embeddingSource, embedder, 64, 17)
	encodingDB := server.NewEncodingDatabase(encodingSource, 64, 17)
	require.NoError(t, embeddingDB.Update(context.Background()))
	require.NoError(t, encodingDB.Update(context.Background()))

	embeddingSrv := httptest.NewServer(httpapi.NewMux(embeddingDB))
	defer embeddingSrv.Close()
	encodingSrv := httptest.NewServer(httpapi.NewMux(encodingDB))
	defer encodingSrv.Close()

	c := client.NewClient(
		embedder,
		client.NewRemoteConnection(NewHTTPDatabase(embeddingSrv.URL)),
		client.NewRemoteConnection(NewHTTPDatabase(encodingSrv.URL)),
	)

	got, err := c.Query("Tell me about Tesla")
	require.NoError(t, err)
	assert.Contains(t, got, "Tesla")
}
