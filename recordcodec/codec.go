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

// Package recordcodec packs variable-length strings into the square
// BigInt matrix a SimplePIR encoding database stores, and decodes columns
// of such a matrix back into strings.
package recordcodec

import (
	"encoding/binary"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/exo-explore/private-search/data"
	"github.com/exo-explore/private-search/internal"
)

const chunkSize = 8

// Encode packs records into a square BigInt matrix. Every record is
// right-padded with NUL bytes to the length of the longest record, then
// split into 8-byte little-endian chunks; chunk j of record i becomes
// D[j][i]. The matrix side is max(#records, chunks-per-record); unused
// rows and columns are zero.
func Encode(records []string) (data.Matrix, error) {
	maxLen := 0
	for _, r := range records {
		if len(r) > maxLen {
			maxLen = len(r)
		}
	}

	chunksPerRecord := (maxLen + chunkSize - 1) / chunkSize
	side := len(records)
	if chunksPerRecord > side {
		side = chunksPerRecord
	}
	if side == 0 {
		side = 1
	}

	m := data.NewConstantMatrix(side, side, big.NewInt(0))
	for col, r := range records {
		padded := make([]byte, chunksPerRecord*chunkSize)
		copy(padded, r)

		for row := 0; row < chunksPerRecord; row++ {
			chunk := padded[row*chunkSize : (row+1)*chunkSize]
			m[row][col] = new(big.Int).SetUint64(binary.LittleEndian.Uint64(chunk))
		}
	}

	return m, nil
}

// DecodeVector decodes a column of an encoding matrix back into a string:
// each entry's low 8 bytes, little-endian, concatenated, UTF-8 decoded,
// with trailing NULs stripped. Entries that went negative through
// pir.Recover's centering are first folded back into their unsigned
// 64-bit representative by adding 2^64. Returns internal.ErrDecode if the
// recovered bytes are not valid UTF-8.
func DecodeVector(y data.Vector) (string, error) {
	var buf []byte
	for _, c := range y {
		u := toUint64(c)
		word := make([]byte, chunkSize)
		binary.LittleEndian.PutUint64(word, u)
		buf = append(buf, word...)
	}

	s := strings.TrimRight(string(buf), "\x00")
	if !utf8.ValidString(s) {
		return "", internal.ErrDecode
	}

	return s, nil
}

// DecodeMatrix decodes every column of m, dropping columns that decode to
// the empty string or that fail to decode as valid UTF-8.
func DecodeMatrix(m data.Matrix) []string {
	var records []string
	for col := 0; col < m.Cols(); col++ {
		v, err := m.GetCol(col)
		if err != nil {
			break
		}
		s, err := DecodeVector(v)
		if err != nil {
			continue
		}
		if s != "" {
			records = append(records, s)
		}
	}

	return records
}

// toUint64 returns x's low 64 bits as an unsigned value, folding negative
// inputs back into the unsigned range by adding 2^64 first -- the inverse
// of pir.Recover's centering for values that started out non-negative.
func toUint64(x *big.Int) uint64 {
	q := new(big.Int).Lsh(big.NewInt(1), 64)
	v := new(big.Int).Mod(x, q)

	var buf [8]byte
	v.FillBytes(buf[:])
	// FillBytes is big-endian and left-pads; we want the low 8 bytes as
	// an unsigned 64-bit integer.
	return binary.BigEndian.Uint64(buf[:])
}
