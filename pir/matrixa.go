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

package pir

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"

	"github.com/exo-explore/private-search/data"
)

// GenA deterministically derives the public m x n matrix from seed by
// seeding a ChaCha20 stream with the 64-bit seed (key = seed little-endian
// in the low 8 bytes, zero padding elsewhere, zero nonce, counter 0) and
// drawing m*n signed 64-bit words from the stream in row-major order,
// taking each word's absolute value. The same seed always yields the same
// matrix.
func GenA(seed uint64, m, n int) (data.Matrix, error) {
	var key [chacha20.KeySize]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	nonce := make([]byte, chacha20.NonceSize)

	stream, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		return nil, errors.Wrap(err, "error while seeding chacha20 stream")
	}

	rows := make([]data.Vector, m)
	word := make([]byte, 8)
	zero := make([]byte, 8)
	for i := 0; i < m; i++ {
		row := make(data.Vector, n)
		for j := 0; j < n; j++ {
			stream.XORKeyStream(word, zero)
			raw := int64(binary.LittleEndian.Uint64(word))
			v := new(big.Int).SetInt64(raw)
			v.Abs(v)
			row[j] = v
		}
		rows[i] = row
	}

	return data.NewMatrix(rows)
}
