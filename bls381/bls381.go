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

// Package bls381 implements the BLS381 pairing-friendly elliptic curve:
// a Barreto-Lynn-Scott curve of embedding degree 12 over a 381-bit field,
// with its quadratic twist, the degree-12 tower extension and the optimal
// Ate pairing e: G1 x G2 -> GT.
package bls381

import (
	"math/big"
	"sync"

	"github.com/consensys/gurvy"
	"github.com/consensys/gurvy/bls381/fp"
	"github.com/consensys/gurvy/bls381/fr"
	"github.com/consensys/gurvy/utils/debug"
)

// ID of the curve in the gurvy registry
const ID = gurvy.BLS381

// tAbsVal is the absolute value of t, the seed of the BLS family the
// curve is built from. The seed itself is negative: t = -0xd201000000010000
const tAbsVal uint64 = 15132376222941642752 // 0xd201000000010000

// window parameters of the ScalarMulByGen generator tables
const (
	sGen = 4
	bGen = sGen
)

var bls381 Curve
var initOnce sync.Once

// BLS381 returns the unique (per runtime) BLS381 curve object
func BLS381() *Curve {
	initOnce.Do(initBLS381)
	return &bls381
}

// Curve describes the curve: coefficients, generators, cofactors and the
// precomputed data the group and pairing operations rely on
type Curve struct {
	B      fp.Element // y^2 = x^3 + B on the fp curve
	Btwist e2         // y^2 = x^3 + Btwist on the e2 twist (M-twist: Btwist = B*(1+u))

	g1Gen G1Jac
	g2Gen G2Jac

	g1Infinity G1Jac
	g2Infinity G2Jac

	// NAF decomposition of tAbsVal, the Miller loop counter
	loopCounter []int8

	// cofactors of the r-torsion subgroups inside the two curves
	g1Cofactor big.Int
	g2Cofactor big.Int

	frModulus big.Int

	// multiples of the generators, tGenG1[i] = (i+1)*g1Gen
	tGenG1 [(1 << bGen) - 1]G1Jac
	tGenG2 [(1 << bGen) - 1]G2Jac
}

func initBLS381() {
	// curve coefficients
	bls381.B.SetUint64(4)
	bls381.Btwist.A0.SetUint64(4)
	bls381.Btwist.A1.SetUint64(4)

	// generators
	bls381.g1Gen.X.SetString("0x17f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb")
	bls381.g1Gen.Y.SetString("0x08b3f481e3aaa0f1a09e30ed741d8ae4fcf5e095d5d00af600db18cb2c04b3edd03cc744a2888ae40caa232946c5e7e1")
	bls381.g1Gen.Z.SetOne()

	bls381.g2Gen.X.SetString(
		"0x024aa2b2f08f0a91260805272dc51051c6e47ad4fa403b02b4510b647ae3d1770bac0326a805bbefd48056c8c121bdb8",
		"0x13e02b6052719f607dacd3a088274f65596bd0d09920b61ab5da61bbdc7f5049334cf11213945d57e5ac7d055d042b7e")
	bls381.g2Gen.Y.SetString(
		"0x0ce5d527727d6e118cc9cdc6da2e351aadfd9baa8cbdd3a76d429a695160d12c923ac9cc3baca289e193548608b82801",
		"0x0606c4a02ea734cc32acd2b02bc28b99cb3e287e85a763af267492ab572e99ab3f370d275cec1da1aaa9075ff05f79be")
	bls381.g2Gen.Z.SetOne()

	// points at infinity ((1:1:0) in Jacobian coordinates)
	bls381.g1Infinity.X.SetOne()
	bls381.g1Infinity.Y.SetOne()
	bls381.g2Infinity.X.SetOne()
	bls381.g2Infinity.Y.SetOne()

	// the whole BLS family is parametrized by the seed x:
	//   r  = x^4 - x^2 + 1
	//   p  = (x-1)^2 * r / 3 + x
	//   h1 = (x-1)^2 / 3
	//   h2 = (x^8 - 4x^7 + 5x^6 - 4x^4 + 6x^3 - 4x^2 - 4x + 13) / 9
	// deriving everything from x keeps a single source of truth, and the
	// assertions below tie the seed to the fp/fr moduli
	var x, xMinus1Square, rComputed, pComputed big.Int
	x.SetUint64(tAbsVal)
	x.Neg(&x)

	three := big.NewInt(3)
	xMinus1Square.Sub(&x, big.NewInt(1))
	xMinus1Square.Mul(&xMinus1Square, &xMinus1Square)

	rComputed.Mul(&x, &x)
	pComputed.Mul(&rComputed, &rComputed)       // x^4
	rComputed.Sub(&pComputed, &rComputed)       // x^4 - x^2
	rComputed.Add(&rComputed, big.NewInt(1))    // x^4 - x^2 + 1
	debug.Assert(rComputed.Cmp(fr.Modulus()) == 0, "bls381: seed does not generate the fr modulus")

	pComputed.Mul(&xMinus1Square, &rComputed)
	pComputed.Div(&pComputed, three)
	pComputed.Add(&pComputed, &x)
	debug.Assert(pComputed.Cmp(fp.Modulus()) == 0, "bls381: seed does not generate the fp modulus")

	bls381.g1Cofactor.Div(&xMinus1Square, three)
	bls381.g2Cofactor = *g2CofactorFromSeed(&x)

	bls381.frModulus = *fr.Modulus()

	// Miller loop counter, LSB first (the NAF of a 64-bit value fits on
	// 65 digits)
	lambda := new(big.Int).SetUint64(tAbsVal)
	var naf [65]int8
	length := gurvy.NafDecomposition(lambda, naf[:])
	bls381.loopCounter = naf[:length]

	// generator multiples for ScalarMulByGen
	bls381.tGenG1[0].Set(&bls381.g1Gen)
	for j := 1; j < len(bls381.tGenG1); j++ {
		bls381.tGenG1[j].Set(&bls381.tGenG1[j-1]).AddAssign(&bls381, &bls381.g1Gen)
	}
	bls381.tGenG2[0].Set(&bls381.g2Gen)
	for j := 1; j < len(bls381.tGenG2); j++ {
		bls381.tGenG2[j].Set(&bls381.tGenG2[j-1]).AddAssign(&bls381, &bls381.g2Gen)
	}
}

func g2CofactorFromSeed(x *big.Int) *big.Int {
	// Horner evaluation of
	// (x^8 - 4x^7 + 5x^6 + 0x^5 - 4x^4 + 6x^3 - 4x^2 - 4x + 13) / 9
	coeffs := []int64{1, -4, 5, 0, -4, 6, -4, -4, 13}
	h := new(big.Int)
	for _, c := range coeffs {
		h.Mul(h, x)
		h.Add(h, big.NewInt(c))
	}
	return h.Div(h, big.NewInt(9))
}

// G1Gen returns a copy of the affine G1 generator
func (curve *Curve) G1Gen() G1Affine {
	var g G1Affine
	g.FromJacobian(&curve.g1Gen)
	return g
}

// G2Gen returns a copy of the affine G2 generator
func (curve *Curve) G2Gen() G2Affine {
	var g G2Affine
	g.FromJacobian(&curve.g2Gen)
	return g
}
