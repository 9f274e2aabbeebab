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
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector_ModMulVec(t *testing.T) {
	q := big.NewInt(7)
	v := Vector{big.NewInt(5), big.NewInt(-3)}
	other := Vector{big.NewInt(4), big.NewInt(6)}

	// 5*4 + (-3)*6 = 20 - 18 = 2
	got, err := v.ModMulVec(other, q)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(2), got)

	_, err = v.ModMulVec(Vector{big.NewInt(1)}, q)
	assert.Error(t, err)
}

func TestMatrix_ModMulVec(t *testing.T) {
	q := big.NewInt(1000000)
	m := Matrix{
		Vector{big.NewInt(1), big.NewInt(2)},
		Vector{big.NewInt(3), big.NewInt(4)},
	}
	v := Vector{big.NewInt(5), big.NewInt(6)}

	got, err := m.ModMulVec(v, q)
	assert.NoError(t, err)
	assert.Equal(t, Vector{big.NewInt(17), big.NewInt(39)}, got)
}

func TestMatrix_ModMul(t *testing.T) {
	q := big.NewInt(1000000)
	m1 := Matrix{
		Vector{big.NewInt(1), big.NewInt(2)},
		Vector{big.NewInt(3), big.NewInt(4)},
	}
	m2 := Matrix{
		Vector{big.NewInt(1), big.NewInt(0)},
		Vector{big.NewInt(0), big.NewInt(1)},
	}

	got, err := m1.ModMul(m2, q)
	assert.NoError(t, err)
	assert.Equal(t, m1, got)
}
