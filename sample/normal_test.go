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

package sample

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mean(vec []*big.Int) *big.Float {
	meanI := big.NewInt(0)
	for i := 0; i < len(vec); i++ {
		meanI.Add(meanI, vec[i])
	}
	ret := new(big.Float).SetInt(meanI)
	ret.Quo(ret, big.NewFloat(float64(len(vec))))
	return ret
}

func variance(vec []*big.Int) *big.Float {
	meanI := big.NewInt(0)
	square := new(big.Int)
	for i := 0; i < len(vec); i++ {
		square.Mul(vec[i], vec[i])
		meanI.Add(meanI, square)
	}
	ret := new(big.Float).SetInt(meanI)
	ret.Quo(ret, big.NewFloat(float64(len(vec))))
	return ret
}

// TestSimple_Normal checks that NormalNegative's empirical mean and
// variance land close to the 0-mean, sigma^2 variance it is parameterised
// with.
func TestSimple_Normal(t *testing.T) {
	sigma := 10.0
	c := NewNormalNegative(big.NewFloat(sigma), 256)

	vec := make([]*big.Int, 10000)
	for i := 0; i < len(vec); i++ {
		var err error
		vec[i], err = c.Sample()
		assert.NoError(t, err)
	}

	me, _ := mean(vec).Float64()
	v, _ := variance(vec).Float64()

	assert.InDelta(t, 0, me, sigma)
	assert.InDelta(t, sigma*sigma, v, sigma*sigma)
}
