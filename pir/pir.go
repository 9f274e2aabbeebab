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
	"math/big"

	"github.com/pkg/errors"

	"github.com/exo-explore/private-search/data"
	"github.com/exo-explore/private-search/sample"
)

// GenHint regenerates A from p.Seed and computes H = D*A mod q. The
// server keeps both: A is public material handed to clients, H lets the
// client recover answers linearly in n rather than in m.
func GenHint(p Params, d data.Matrix) (hint data.Matrix, a data.Matrix, err error) {
	a, err = GenA(p.Seed, p.M, p.N)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error while generating A")
	}

	hint, err = d.ModMul(a, p.Q)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error while computing hint")
	}

	return hint, a, nil
}

// Encrypt computes c = A*s + e + Delta*v (mod q), where e[i] is drawn from
// a discrete Gaussian with standard deviation p.Sigma, rounded to an
// integer and scaled by p.P so the noise stays below the most significant
// plaintext bit. len(v) must equal p.M.
func Encrypt(p Params, v data.Vector, a data.Matrix, s data.Vector) (data.Vector, error) {
	if len(v) != p.M {
		return nil, errors.New("encrypt: v must have length m")
	}

	as, err := a.ModMulVec(s, p.Q)
	if err != nil {
		return nil, errors.Wrap(err, "error while computing A*s")
	}

	noise := sample.NewNormalNegative(big.NewFloat(p.Sigma), noisePrecision)
	delta := p.Delta()

	c := make(data.Vector, p.M)
	term := new(big.Int)
	for i := 0; i < p.M; i++ {
		e, err := noise.Sample()
		if err != nil {
			return nil, errors.Wrap(err, "error while sampling noise")
		}
		e.Mul(e, p.P)

		term.Mul(delta, v[i])

		ci := new(big.Int).Add(as[i], e)
		ci.Add(ci, term)
		ci.Mod(ci, p.Q)

		c[i] = ci
	}

	return c, nil
}

// GenerateQuery samples a fresh secret s uniform in [0, q)^n and encrypts
// v under it, returning both the secret (kept by the caller) and the
// ciphertext c sent to the server.
func GenerateQuery(p Params, v data.Vector, a data.Matrix) (s data.Vector, c data.Vector, err error) {
	sampler := sample.NewUniform(p.Q)
	s, err = data.NewRandomVector(p.N, sampler)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error while sampling secret")
	}

	c, err = Encrypt(p, v, a, s)
	if err != nil {
		return nil, nil, err
	}

	return s, c, nil
}

// ProcessQuery computes r = D*c mod q. It runs entirely server-side and
// involves no cryptographic secrets.
func ProcessQuery(d data.Matrix, c data.Vector, q *big.Int) (data.Vector, error) {
	return d.ModMulVec(c, q)
}

// Recover decodes the server's response r into the plaintext vector y,
// using the hint H and the secret s that produced the original query.
// Results are signed big integers in [-p/2, p/2).
func Recover(h data.Matrix, s data.Vector, r data.Vector, p Params) (data.Vector, error) {
	t, err := h.ModMulVec(s, p.Q)
	if err != nil {
		return nil, errors.Wrap(err, "error while computing H*s")
	}
	if len(r) != len(t) {
		return nil, errors.New("recover: response and hint length mismatch")
	}

	delta := p.Delta()
	raw := make(data.Vector, len(r))
	diff := new(big.Int)
	for i := range r {
		diff.Sub(r[i], t[i])
		diff.Mod(diff, p.Q)
		raw[i] = new(big.Int).Div(diff, delta)
	}

	return raw.Center(p.P), nil
}
