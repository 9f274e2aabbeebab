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

package server

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/exo-explore/private-search/data"
	"github.com/exo-explore/private-search/embedding"
	"github.com/exo-explore/private-search/internal"
	"github.com/exo-explore/private-search/pir"
	"github.com/exo-explore/private-search/recordcodec"
)

// DefaultSecretDimension is the LWE secret dimension n used by both
// database flavours unless a constructor is told otherwise.
const DefaultSecretDimension = 2048

// DefaultModPower is the default k for which p = 2^k.
const DefaultModPower = 17

// Database is the server-side capability set shared by the embedding and
// encoding databases: refresh the plaintext from the record source, and
// serve the public material and query responses a client needs.
type Database interface {
	Update(ctx context.Context) error
	Respond(c data.Vector) (data.Vector, error)
	Params() (pir.Params, error)
	Hint() (data.Matrix, error)
	A() (data.Matrix, error)
}

// generation is one immutable (P, D, H, A) quadruple. A database instance
// replaces its generation wholesale; it never mutates one in place.
type generation struct {
	params pir.Params
	d      data.Matrix
	hint   data.Matrix
	a      data.Matrix
}

// simplePIRDatabase is the shared core behind EmbeddingDatabase and
// EncodingDatabase: a single protected generation slot, rebuilt by build
// from whatever records the source currently holds.
type simplePIRDatabase struct {
	mu     sync.RWMutex
	gen    *generation
	n      int
	k      int
	source RecordSource
	build  func([]Record) (data.Matrix, error)
}

func newSimplePIRDatabase(n, k int, source RecordSource, build func([]Record) (data.Matrix, error)) *simplePIRDatabase {
	return &simplePIRDatabase{n: n, k: k, source: source, build: build}
}

// Update fetches fresh records, builds a new plaintext matrix, and on
// success atomically replaces the generation. On any failure the previous
// generation, if any, remains live.
func (db *simplePIRDatabase) Update(ctx context.Context) error {
	records, err := db.source.Fetch(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.Wrap(internal.ErrInvalidInput, "record source returned no records")
	}

	d, err := db.build(records)
	if err != nil {
		return err
	}
	if d.Rows() != d.Cols() {
		return errors.Wrap(internal.ErrShapeMismatch, "built matrix is not square")
	}

	params, err := pir.GenParams(d.Rows(), db.n, db.k)
	if err != nil {
		return errors.Wrap(err, "error while generating params")
	}

	hint, a, err := pir.GenHint(params, d)
	if err != nil {
		return errors.Wrap(err, "error while generating hint")
	}

	gen := &generation{params: params, d: d, hint: hint, a: a}

	db.mu.Lock()
	db.gen = gen
	db.mu.Unlock()

	return nil
}

// Respond implements Database.
func (db *simplePIRDatabase) Respond(c data.Vector) (data.Vector, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.gen == nil {
		return nil, internal.ErrDatabaseNotReady
	}

	return pir.ProcessQuery(db.gen.d, c, db.gen.params.Q)
}

// Params implements Database.
func (db *simplePIRDatabase) Params() (pir.Params, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.gen == nil {
		return pir.Params{}, internal.ErrDatabaseNotReady
	}

	return db.gen.params, nil
}

// Hint implements Database.
func (db *simplePIRDatabase) Hint() (data.Matrix, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.gen == nil {
		return nil, internal.ErrDatabaseNotReady
	}

	return db.gen.hint, nil
}

// A implements Database.
func (db *simplePIRDatabase) A() (data.Matrix, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.gen == nil {
		return nil, internal.ErrDatabaseNotReady
	}

	return db.gen.a, nil
}

// EncodingDatabase stores each record's full JSON encoding, record i in
// column i: decoding the response to a one-hot query at index i returns
// record i's original JSON.
type EncodingDatabase struct {
	*simplePIRDatabase
}

// NewEncodingDatabase returns an empty EncodingDatabase fed by source.
func NewEncodingDatabase(source RecordSource, n, k int) *EncodingDatabase {
	build := func(records []Record) (data.Matrix, error) {
		raws := make([]string, len(records))
		for i, r := range records {
			raws[i] = string(r.Raw)
		}
		return recordcodec.Encode(raws)
	}

	return &EncodingDatabase{newSimplePIRDatabase(n, k, source, build)}
}

// EmbeddingDatabase stores each record's embedding, one per row, in the
// same order as the corresponding EncodingDatabase's records.
type EmbeddingDatabase struct {
	*simplePIRDatabase
}

// NewEmbeddingDatabase returns an empty EmbeddingDatabase fed by source,
// using embedder to turn record names into vectors.
func NewEmbeddingDatabase(source RecordSource, embedder embedding.Embedder, n, k int) *EmbeddingDatabase {
	build := func(records []Record) (data.Matrix, error) {
		names := make([]string, len(records))
		for i, r := range records {
			names[i] = r.Name
		}
		m, err := embedder.EmbedRecords(names)
		if err != nil {
			return nil, errors.Wrap(internal.ErrEmbedding, err.Error())
		}
		return m, nil
	}

	return &EmbeddingDatabase{newSimplePIRDatabase(n, k, source, build)}
}
