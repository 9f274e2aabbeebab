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

package embedding

import (
	"hash/fnv"
	"math"
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/exo-explore/private-search/data"
	"github.com/exo-explore/private-search/internal"
)

// quantScale multiplies every L2-normalised feature before QuantizeFloat32
// truncates it, so that entries in (-1, 1) do not all collapse to zero. The
// dot product of two embeddings is then at most quantScale^2 = 16384,
// inside the signed plaintext range of p = 2^17.
const quantScale = 128

// HashingEmbedder is a deterministic, model-free Embedder: it hashes the
// trigrams of the (lower-cased) input text into a fixed Width-dimensional
// float32 vector, L2-normalises it, scales it by quantScale and quantises
// each entry. It exists so the rest of the pipeline is testable end to end
// without a real sentence-transformer model, which is out of scope for
// this repository.
type HashingEmbedder struct{}

// NewHashingEmbedder returns a ready-to-use HashingEmbedder.
func NewHashingEmbedder() *HashingEmbedder {
	return &HashingEmbedder{}
}

// EmbedText implements Embedder.
func (e *HashingEmbedder) EmbedText(s string) (data.Vector, error) {
	vec := hashFeatures(s)
	normalize(vec)

	out := make(data.Vector, Width)
	for i, f := range vec {
		q, err := QuantizeFloat32(f * quantScale)
		if err != nil {
			return nil, errors.Wrap(err, "embed text")
		}
		out[i] = q
	}

	return out, nil
}

// EmbedRecords implements Embedder. The square side is max(Width,
// len(records)); records beyond Width would otherwise land in zero rows
// that argmax could select, so EmbedRecords rejects that case instead of
// silently producing an unreachable row.
func (e *HashingEmbedder) EmbedRecords(records []string) (data.Matrix, error) {
	if len(records) > Width {
		return nil, errors.Wrapf(internal.ErrInvalidInput, "embed records: %d records exceed embedding width %d", len(records), Width)
	}

	side := Width
	if len(records) > side {
		side = len(records)
	}

	rows := make([]data.Vector, side)
	for i := 0; i < side; i++ {
		if i < len(records) {
			v, err := e.EmbedText(records[i])
			if err != nil {
				return nil, err
			}
			rows[i] = v.PadOrTruncate(side)
		} else {
			rows[i] = data.NewConstantVector(side, big.NewInt(0))
		}
	}

	return data.NewMatrix(rows)
}

// hashFeatures hashes every trigram of s into one of Width buckets, adding
// a +1/-1 contribution to the bucket depending on a second hash bit, the
// standard feature-hashing trick for turning sparse text features into a
// fixed-size dense vector.
func hashFeatures(s string) []float32 {
	vec := make([]float32, Width)
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 {
		return vec
	}

	runes := []rune(s)
	n := 3
	if len(runes) < n {
		n = len(runes)
	}

	for i := 0; i+n <= len(runes); i++ {
		gram := string(runes[i : i+n])

		h := fnv.New32a()
		_, _ = h.Write([]byte(gram))
		bucket := h.Sum32() % uint32(Width)

		sh := fnv.New32a()
		_, _ = sh.Write([]byte(gram + "#sign"))
		sign := float32(1)
		if sh.Sum32()%2 == 0 {
			sign = -1
		}

		vec[bucket] += sign
	}

	return vec
}

// normalize scales vec to unit L2 norm in place. The zero vector is left
// unchanged.
func normalize(vec []float32) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] /= norm
	}
}
