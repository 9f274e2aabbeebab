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

package data

import (
	"fmt"
	"math/big"
)

// ModMulVec calculates the dot product of v and other, reducing the
// running sum modulo q after every term, so the accumulator never grows
// past q in magnitude, matching the "unreduced arithmetic" convention
// where operands may be negative big integers but every partial sum is kept
// as a non-negative representative mod q.
func (v Vector) ModMulVec(other Vector, q *big.Int) (*big.Int, error) {
	if len(v) != len(other) {
		return nil, fmt.Errorf("vectors should be of same length")
	}

	sum := new(big.Int)
	term := new(big.Int)
	for i, c := range v {
		term.Mul(c, other[i])
		sum.Add(sum, term)
		sum.Mod(sum, q)
	}

	return sum, nil
}

// ModMulVec multiplies matrix m by vector v modulo q, reducing every row's
// accumulator after each term (see Vector.ModMulVec).
func (m Matrix) ModMulVec(v Vector, q *big.Int) (Vector, error) {
	if m.Cols() != len(v) {
		return nil, fmt.Errorf("cannot multiply matrix by a vector")
	}

	res := make(Vector, m.Rows())
	for i, row := range m {
		r, err := row.ModMulVec(v, q)
		if err != nil {
			return nil, err
		}
		res[i] = r
	}

	return res, nil
}

// ModMul multiplies matrices m and other modulo q, reducing every
// accumulator after each term (see Vector.ModMulVec).
func (m Matrix) ModMul(other Matrix, q *big.Int) (Matrix, error) {
	if m.Cols() != other.Rows() {
		return nil, fmt.Errorf("cannot multiply matrices")
	}

	prod := make([]Vector, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		prod[i] = make(Vector, other.Cols())
		for j := 0; j < other.Cols(); j++ {
			col, err := other.GetCol(j)
			if err != nil {
				return nil, err
			}
			v, err := m[i].ModMulVec(col, q)
			if err != nil {
				return nil, err
			}
			prod[i][j] = v
		}
	}

	return NewMatrix(prod)
}
