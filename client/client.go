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

// Package client runs the two-stage semantic retrieval pipeline against
// either a local or a remote pair of SimplePIR databases.
package client

import (
	"math/big"
	"sort"

	"github.com/pkg/errors"

	"github.com/exo-explore/private-search/data"
	"github.com/exo-explore/private-search/embedding"
	"github.com/exo-explore/private-search/internal"
	"github.com/exo-explore/private-search/pir"
	"github.com/exo-explore/private-search/recordcodec"
)

// DB is the capability set a database exposes to a querying client,
// regardless of whether it lives in-process or behind HTTP.
type DB interface {
	Respond(c data.Vector) (data.Vector, error)
	Params() (pir.Params, error)
	Hint() (data.Matrix, error)
	A() (data.Matrix, error)
}

// Connection is a tagged union of a local, in-process DB and a remote one
// reached over the network; exactly one side is set. Both sides satisfy
// the same DB contract, so the rest of the client never branches on which
// one it holds.
type Connection struct {
	local  DB
	remote DB
}

// NewLocalConnection wraps an in-process database.
func NewLocalConnection(db DB) Connection {
	return Connection{local: db}
}

// NewRemoteConnection wraps a database reached over the network.
func NewRemoteConnection(db DB) Connection {
	return Connection{remote: db}
}

func (c Connection) db() DB {
	if c.local != nil {
		return c.local
	}
	return c.remote
}

// Respond implements DB by delegating to whichever side is set.
func (c Connection) Respond(v data.Vector) (data.Vector, error) { return c.db().Respond(v) }

// Params implements DB by delegating to whichever side is set.
func (c Connection) Params() (pir.Params, error) { return c.db().Params() }

// Hint implements DB by delegating to whichever side is set.
func (c Connection) Hint() (data.Matrix, error) { return c.db().Hint() }

// A implements DB by delegating to whichever side is set.
func (c Connection) A() (data.Matrix, error) { return c.db().A() }

// Client orchestrates the two-stage pipeline: embed the query text, PIR
// against the embedding database to find the closest record, then PIR
// against the encoding database with a one-hot vector to retrieve it.
type Client struct {
	Embedder    embedding.Embedder
	EmbeddingDB Connection
	EncodingDB  Connection
}

// NewClient returns a Client wired to the given embedder and databases.
func NewClient(embedder embedding.Embedder, embeddingDB, encodingDB Connection) *Client {
	return &Client{Embedder: embedder, EmbeddingDB: embeddingDB, EncodingDB: encodingDB}
}

// Query runs the single-query algorithm and returns the decoded record
// string.
func (c *Client) Query(text string) (string, error) {
	v, err := c.recoverEncodingRow(text)
	if err != nil {
		return "", err
	}

	s, err := recordcodec.DecodeVector(v)
	if err != nil {
		return "", err
	}

	return s, nil
}

// QueryTopK runs the embedding stage once, then retrieves the k closest
// records' decoded strings. Per-result decode failures are skipped rather
// than failing the whole call.
func (c *Client) QueryTopK(text string, k int) ([]string, error) {
	if k <= 0 {
		return nil, errors.Wrap(internal.ErrInvalidInput, "k must be > 0")
	}

	y, err := c.embedQuery(text)
	if err != nil {
		return nil, err
	}

	indices := topKIndices(y, k)

	results := make([]string, 0, len(indices))
	for _, idx := range indices {
		v, err := c.recoverEncodingRowAt(idx)
		if err != nil {
			return nil, err
		}
		s, err := recordcodec.DecodeVector(v)
		if err != nil {
			continue
		}
		results = append(results, s)
	}

	return results, nil
}

// embedQuery runs steps 1-5 of the single-query algorithm, returning the
// recovered embedding-DB plaintext vector.
func (c *Client) embedQuery(text string) (data.Vector, error) {
	e, err := c.Embedder.EmbedText(text)
	if err != nil {
		return nil, errors.Wrap(internal.ErrEmbedding, err.Error())
	}
	if len(e) == 0 {
		return nil, errors.Wrap(internal.ErrInvalidInput, "empty embedding")
	}

	pe, err := c.EmbeddingDB.Params()
	if err != nil {
		return nil, err
	}
	adjusted := e.PadOrTruncate(pe.M)

	a, err := c.EmbeddingDB.A()
	if err != nil {
		return nil, err
	}
	se, ce, err := pir.GenerateQuery(pe, adjusted, a)
	if err != nil {
		return nil, err
	}

	re, err := c.EmbeddingDB.Respond(ce)
	if err != nil {
		return nil, err
	}

	hint, err := c.EmbeddingDB.Hint()
	if err != nil {
		return nil, err
	}

	return pir.Recover(hint, se, re, pe)
}

// recoverEncodingRow runs the full eleven-step pipeline for text and
// returns the recovered encoding-DB plaintext vector.
func (c *Client) recoverEncodingRow(text string) (data.Vector, error) {
	y, err := c.embedQuery(text)
	if err != nil {
		return nil, err
	}

	idx := argmax(y)

	return c.recoverEncodingRowAt(idx)
}

// recoverEncodingRowAt runs steps 7-10 of the single-query algorithm for a
// row index already chosen by the embedding stage.
func (c *Client) recoverEncodingRowAt(idx int) (data.Vector, error) {
	pc, err := c.EncodingDB.Params()
	if err != nil {
		return nil, err
	}

	u := data.OneHot(idx+1, idx).PadOrTruncate(pc.M)

	a, err := c.EncodingDB.A()
	if err != nil {
		return nil, err
	}
	sc, cc, err := pir.GenerateQuery(pc, u, a)
	if err != nil {
		return nil, err
	}

	rc, err := c.EncodingDB.Respond(cc)
	if err != nil {
		return nil, err
	}

	hint, err := c.EncodingDB.Hint()
	if err != nil {
		return nil, err
	}

	return pir.Recover(hint, sc, rc, pc)
}

// argmax returns the index of the largest entry in y, breaking ties by
// first occurrence.
func argmax(y data.Vector) int {
	best := 0
	for i := 1; i < len(y); i++ {
		if y[i].Cmp(y[best]) > 0 {
			best = i
		}
	}
	return best
}

// topKIndices returns the indices of the k largest entries of y, in
// descending order of value, breaking ties by first occurrence.
func topKIndices(y data.Vector, k int) []int {
	type scored struct {
		idx int
		val *big.Int
	}
	scoredVals := make([]scored, len(y))
	for i, v := range y {
		scoredVals[i] = scored{idx: i, val: v}
	}

	sort.SliceStable(scoredVals, func(i, j int) bool {
		return scoredVals[i].val.Cmp(scoredVals[j].val) > 0
	})

	if k > len(scoredVals) {
		k = len(scoredVals)
	}

	indices := make([]int, k)
	for i := 0; i < k; i++ {
		indices[i] = scoredVals[i].idx
	}

	return indices
}
