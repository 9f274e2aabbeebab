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

// Package embedding defines the contract a text embedder must satisfy to
// feed the embedding-DB side of the pipeline, along with the bit-exact
// float-to-bigint quantisation both the embedder and the embedding
// database must agree on.
package embedding

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/exo-explore/private-search/data"
)

// Width is the fixed embedding dimension every Embedder implementation
// must produce.
const Width = 384

// Embedder turns free text into a vector suitable for the embedding-DB
// PIR stage, and a record list into the embedding-DB's plaintext matrix.
// The real implementation (a sentence-transformer model) is an external
// collaborator outside this module's scope; HashingEmbedder is a
// deterministic stand-in satisfying the same contract.
type Embedder interface {
	// EmbedText returns the embedding of s as a length-Width vector of
	// signed big integers.
	EmbedText(s string) (data.Vector, error)
	// EmbedRecords embeds each record as a row, in the same order as the
	// encoding database's columns, padded to a square of side
	// max(Width, len(records)).
	EmbedRecords(records []string) (data.Matrix, error)
}

// QuantizeFloat32 maps a finite IEEE-754 binary32 value to a big integer
// by decomposing it into sign, mantissa and exponent, forming the exact
// rational mantissa * 2^exponent, and truncating towards zero. NaN and
// infinite inputs are a caller error.
func QuantizeFloat32(x float32) (*big.Int, error) {
	if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
		return nil, errors.New("quantize: NaN and infinite values are not representable")
	}

	bits := math.Float32bits(x)
	sign := int64(1)
	if bits>>31 == 1 {
		sign = -1
	}

	rawExp := (bits >> 23) & 0xFF
	mantissaBits := bits & 0x7FFFFF

	var mantissa int64
	var exp int
	if rawExp == 0 {
		// zero or subnormal: no implicit leading bit.
		mantissa = int64(mantissaBits)
		exp = 1 - 127 - 23
	} else {
		mantissa = int64(mantissaBits) | (1 << 23)
		exp = int(rawExp) - 127 - 23
	}

	m := big.NewInt(mantissa)
	if exp >= 0 {
		m.Lsh(m, uint(exp))
	} else {
		m.Rsh(m, uint(-exp))
	}
	m.Mul(m, big.NewInt(sign))

	return m, nil
}
