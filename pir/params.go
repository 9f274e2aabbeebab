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

// Package pir implements the SimplePIR primitive: parameter generation,
// the deterministic public matrix, hint derivation, encryption and
// recovery. All arithmetic is carried out over math/big so that no
// intermediate value can overflow.
package pir

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

// noiseSigma is the Gaussian noise standard deviation mandated for LWE
// noise sampling.
const noiseSigma = 3.2

// noisePrecision is the bit precision passed to the discrete Gaussian
// sampler; it controls how closely the rejection sampler's tail matches a
// true continuous Gaussian.
const noisePrecision = 128

// Params holds the immutable parameters of one SimplePIR database
// instance.
type Params struct {
	// N is the LWE secret dimension.
	N int
	// M is the number of samples, i.e. the square side of the database.
	M int
	// Q is the ciphertext modulus, fixed at 2^64.
	Q *big.Int
	// P is the plaintext modulus, 2^K for some caller-chosen K.
	P *big.Int
	// Sigma is the Gaussian noise standard deviation.
	Sigma float64
	// Seed deterministically regenerates the public matrix A.
	Seed uint64
}

// Delta returns the scaling factor floor(Q/P) that embeds a plaintext
// into the high-order bits of a ciphertext.
func (p Params) Delta() *big.Int {
	return new(big.Int).Div(p.Q, p.P)
}

// ModPower returns bit_length(P) - 1, the K for which P = 2^K. It is used
// by a client reconstructing Params from the wire representation of
// /params, which carries only M, N, Q and P.
func (p Params) ModPower() int {
	return p.P.BitLen() - 1
}

// GenParams allocates a fresh Params with Q = 2^64, P = 2^k, Sigma = 3.2,
// and a freshly-sampled 64-bit seed drawn from system entropy.
func GenParams(m, n, k int) (Params, error) {
	seedBytes := make([]byte, 8)
	if _, err := rand.Read(seedBytes); err != nil {
		return Params{}, errors.Wrap(err, "error while sampling seed")
	}
	var seed uint64
	for _, b := range seedBytes {
		seed = (seed << 8) | uint64(b)
	}

	q := new(big.Int).Lsh(big.NewInt(1), 64)
	p := new(big.Int).Lsh(big.NewInt(1), uint(k))

	return Params{
		N:     n,
		M:     m,
		Q:     q,
		P:     p,
		Sigma: noiseSigma,
		Seed:  seed,
	}, nil
}
