/*
Copyright © 2020 ConsenSys

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bls381

import (
	"math/big"

	"github.com/consensys/gurvy/bls381/fp"
)

// Frobenius coefficients of the tower, powers of the sextic non-residue
// xi = 1+u. They are derived once from the modulus instead of being
// hardcoded limb by limb.
//
//	frobCoeffB1 = xi^((p-1)/3)	multiplies B1 in e6.Frobenius
//	frobCoeffB2 = xi^(2(p-1)/3)	multiplies B2 in e6.Frobenius
//	frobCoeffC1 = xi^((p-1)/6)	multiplies C1 in e12.Frobenius
//
// The *Square variants are the p^2 counterparts, obtained from
// gamma^(p+1) = gamma * conj(gamma) since raising an e2 element to p is
// conjugation (p = 3 mod 4).
var (
	frobCoeffB1       e2
	frobCoeffB2       e2
	frobCoeffC1       e2
	frobCoeffB1Square e2
	frobCoeffB2Square e2
	frobCoeffC1Square e2

	// untwist-Frobenius-twist endomorphism coefficients (g2.go)
	psiCoeffX e2 // xi^(-(p-1)/3)
	psiCoeffY e2 // xi^(-(p-1)/2)

	// exponents used by the e2 square root (e2.go)
	pMinus3Over4 big.Int
	pMinus1Over2 big.Int
)

func init() {
	p := fp.Modulus()
	one := big.NewInt(1)

	pMinus1Over2.Sub(p, one).Rsh(&pMinus1Over2, 1)
	pMinus3Over4.Sub(p, big.NewInt(3)).Rsh(&pMinus3Over4, 2)

	var xi e2
	xi.A0.SetOne()
	xi.A1.SetOne()

	// (p-1)/6 is an integer: p = 1 mod 6
	var e big.Int
	e.Sub(p, one).Div(&e, big.NewInt(6))
	frobCoeffC1.Exp(&xi, &e)
	frobCoeffB1.Square(&frobCoeffC1)
	frobCoeffB2.Square(&frobCoeffB1)

	var conj e2
	frobCoeffC1Square.Conjugate(&frobCoeffC1).MulAssign(&frobCoeffC1)
	frobCoeffB1Square.Conjugate(&frobCoeffB1).MulAssign(&frobCoeffB1)
	frobCoeffB2Square.Conjugate(&frobCoeffB2).MulAssign(&frobCoeffB2)

	psiCoeffX.Inverse(&frobCoeffB1)
	conj.Square(&frobCoeffC1).MulAssign(&frobCoeffC1) // xi^((p-1)/2)
	psiCoeffY.Inverse(&conj)
}
