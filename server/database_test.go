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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exo-explore/private-search/embedding"
	"github.com/exo-explore/private-search/internal"
)

type fixedSource struct {
	records []Record
	err     error
}

func (s *fixedSource) Fetch(ctx context.Context) ([]Record, error) {
	return s.records, s.err
}

func recordsFromNames(names ...string) []Record {
	records := make([]Record, len(names))
	for i, n := range names {
		raw, _ := json.Marshal(map[string]string{"name": n})
		records[i] = Record{Name: n, Raw: raw}
	}
	return records
}

func TestEncodingDatabase_NotReadyBeforeUpdate(t *testing.T) {
	db := NewEncodingDatabase(&fixedSource{records: recordsFromNames("a")}, 64, 17)

	_, err := db.Params()
	assert.ErrorIs(t, err, internal.ErrDatabaseNotReady)
}

func TestEncodingDatabase_UpdateThenParams(t *testing.T) {
	db := NewEncodingDatabase(&fixedSource{records: recordsFromNames("alpha", "beta")}, 64, 17)

	err := db.Update(context.Background())
	require.NoError(t, err)

	params, err := db.Params()
	require.NoError(t, err)
	assert.Equal(t, 2, params.M)
}

func TestEncodingDatabase_EmptyRecordsFailsUpdate(t *testing.T) {
	db := NewEncodingDatabase(&fixedSource{records: nil}, 64, 17)

	err := db.Update(context.Background())
	assert.ErrorIs(t, err, internal.ErrInvalidInput)

	_, err = db.Params()
	assert.ErrorIs(t, err, internal.ErrDatabaseNotReady)
}

func TestEmbeddingDatabase_UpdateThenHintAndA(t *testing.T) {
	db := NewEmbeddingDatabase(&fixedSource{records: recordsFromNames("Bitcoin", "Ethereum", "Tesla")}, embedding.NewHashingEmbedder(), 64, 17)

	err := db.Update(context.Background())
	require.NoError(t, err)

	_, err = db.A()
	require.NoError(t, err)
	_, err = db.Hint()
	require.NoError(t, err)
}
