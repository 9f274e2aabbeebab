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

import "math/big"

// PadOrTruncate returns a new Vector of length n: v is zero-padded if
// shorter, or truncated to its first n entries if longer.
func (v Vector) PadOrTruncate(n int) Vector {
	res := make(Vector, n)
	for i := 0; i < n; i++ {
		if i < len(v) {
			res[i] = new(big.Int).Set(v[i])
		} else {
			res[i] = big.NewInt(0)
		}
	}

	return res
}

// OneHot returns a length-n Vector with a single 1 at idx and zeros
// elsewhere.
func OneHot(n, idx int) Vector {
	v := NewConstantVector(n, big.NewInt(0))
	v[idx] = big.NewInt(1)

	return v
}

// Center re-centers a vector of non-negative residues mod p into the
// signed range [-p/2, p/2): values >= p/2 become raw - p.
func (v Vector) Center(p *big.Int) Vector {
	half := new(big.Int).Rsh(p, 1)
	res := make(Vector, len(v))
	for i, raw := range v {
		if raw.Cmp(half) >= 0 {
			res[i] = new(big.Int).Sub(raw, p)
		} else {
			res[i] = new(big.Int).Set(raw)
		}
	}

	return res
}
