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

// This maintenance tool runs the curve self-checks and prints a report.
// The curve parameters are derived from the seed at init time, so the
// checks double as a regression net when touching the derivation code.
package main

import (
	"math/big"
	"os"

	"github.com/consensys/gurvy/bls381"
	"github.com/consensys/gurvy/bls381/fr"
	"github.com/consensys/gurvy/logger"
)

func main() {
	log := logger.Logger()
	curve := bls381.BLS381() // panics if the seed and the moduli disagree
	log.Info().Msg("curve parameters derived from seed")

	failed := false
	check := func(name string, ok bool) {
		if ok {
			log.Info().Str("check", name).Msg("ok")
		} else {
			log.Error().Str("check", name).Msg("FAILED")
			failed = true
		}
	}

	g1 := curve.G1Gen()
	g2 := curve.G2Gen()
	check("g1 generator on curve", g1.IsOnCurve(curve))
	check("g2 generator on curve", g2.IsOnCurve(curve))
	check("g1 generator in subgroup", g1.IsInSubGroup(curve))
	check("g2 generator in subgroup", g2.IsInSubGroup(curve))

	// e(aG1, bG2) == e(G1, G2)^(ab)
	var a, b, ab fr.Element
	a.Rand()
	b.Rand()
	ab.Mul(&a, &b)

	var p1 bls381.G1Jac
	var p2 bls381.G2Jac
	var aG1 bls381.G1Affine
	var bG2 bls381.G2Affine
	p1.FromAffine(&g1).ScalarMul(curve, &p1, a)
	aG1.FromJacobian(&p1)
	p2.FromAffine(&g2).ScalarMul(curve, &p2, b)
	bG2.FromJacobian(&p2)

	lhs := curve.Pair(aG1, bG2)
	base := curve.Pair(g1, g2)
	var abBig big.Int
	ab.ToBigIntRegular(&abBig)
	var rhs bls381.PairingResult
	rhs.Exp(&base, &abBig)
	check("pairing bilinearity", lhs.Equal(&rhs))

	one := curve.Pair(bls381.G1Affine{}, g2)
	check("pairing absorbs identity", one.IsOne())

	buf := g1.Bytes()
	var back bls381.G1Affine
	_, err := back.SetBytes(curve, buf[:])
	check("g1 compressed round trip", err == nil && back.Equal(&g1))

	if failed {
		os.Exit(1)
	}
	log.Info().Msg("all checks passed")
}
