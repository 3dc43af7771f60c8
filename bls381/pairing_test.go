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
	"bytes"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/consensys/gurvy/bls381/fr"
)

func pairingPoints(curve *Curve) (G1Affine, G2Affine) {
	p := randomG1(curve)
	q := randomG2(curve)
	var pAff G1Affine
	var qAff G2Affine
	pAff.FromJacobian(&p)
	qAff.FromJacobian(&q)
	return pAff, qAff
}

func TestPairingBilinearity(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	p, q := pairingPoints(curve)

	var a, b, ab fr.Element
	a.Rand()
	b.Rand()
	ab.Mul(&a, &b)

	var aP G1Jac
	var bQ G2Jac
	var aPAff G1Affine
	var bQAff G2Affine
	aP.FromAffine(&p).ScalarMul(curve, &aP, a)
	aPAff.FromJacobian(&aP)
	bQ.FromAffine(&q).ScalarMul(curve, &bQ, b)
	bQAff.FromJacobian(&bQ)

	lhs := curve.Pair(aPAff, bQAff)

	base := curve.Pair(p, q)
	var abBig big.Int
	ab.ToBigIntRegular(&abBig)
	var rhs PairingResult
	rhs.Exp(&base, &abBig)

	if !lhs.Equal(&rhs) {
		t.Fatal("e(aP, bQ) != e(P, Q)^(ab)")
	}

	// moving the product to either side
	var abP G1Jac
	var abPAff G1Affine
	abP.FromAffine(&p).ScalarMul(curve, &abP, ab)
	abPAff.FromJacobian(&abP)
	viaG1 := curve.Pair(abPAff, q)
	if !viaG1.Equal(&rhs) {
		t.Fatal("e([ab]P, Q) != e(P, Q)^(ab)")
	}

	var abQ G2Jac
	var abQAff G2Affine
	abQ.FromAffine(&q).ScalarMul(curve, &abQ, ab)
	abQAff.FromJacobian(&abQ)
	viaG2 := curve.Pair(p, abQAff)
	if !viaG2.Equal(&rhs) {
		t.Fatal("e(P, [ab]Q) != e(P, Q)^(ab)")
	}
}

func TestPairingFixedScalar(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	g1 := curve.G1Gen()
	g2 := curve.G2Gen()

	// fixed scalar, so the scenario is reproducible across runs
	var k fr.Element
	k.SetString("28711701353367088040456559958549142033344770389")

	var kP G1Jac
	var kQ G2Jac
	var kPAff G1Affine
	var kQAff G2Affine
	kP.FromAffine(&g1).ScalarMul(curve, &kP, k)
	kPAff.FromJacobian(&kP)
	kQ.FromAffine(&g2).ScalarMul(curve, &kQ, k)
	kQAff.FromJacobian(&kQ)

	left := curve.Pair(kPAff, g2)
	right := curve.Pair(g1, kQAff)
	if !left.Equal(&right) {
		t.Fatal("e([k]G1, G2) != e(G1, [k]G2)")
	}

	var kBig big.Int
	k.ToBigIntRegular(&kBig)
	base := curve.Pair(g1, g2)
	var ref PairingResult
	ref.Exp(&base, &kBig)
	if !left.Equal(&ref) {
		t.Fatal("e([k]G1, G2) != e(G1, G2)^k")
	}

	// the scenario value survives its 576-byte encoding
	buf := left.Bytes()
	var back PairingResult
	require.NoError(t, back.SetBytes(buf[:]))
	require.True(t, back.Equal(&left))
}

func TestPairingNonDegeneracy(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	g1 := curve.G1Gen()
	g2 := curve.G2Gen()
	base := curve.Pair(g1, g2)
	if base.IsOne() {
		t.Fatal("e(G1, G2) must not be 1")
	}

	// the result lives in the r-torsion of e12
	var toOrder PairingResult
	toOrder.Exp(&base, &curve.frModulus)
	if !toOrder.IsOne() {
		t.Fatal("pairing result must have order dividing r")
	}

	// and is unitary
	var conj, prod PairingResult
	conj.Conjugate(&base)
	prod.Mul(&base, &conj)
	if !prod.IsOne() {
		t.Fatal("pairing result must be unitary")
	}
}

func TestPairingIdentity(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	_, q := pairingPoints(curve)
	p, _ := pairingPoints(curve)

	res := curve.Pair(G1Affine{}, q)
	if !res.IsOne() {
		t.Fatal("e(O, Q) must be 1")
	}
	res = curve.Pair(p, G2Affine{})
	if !res.IsOne() {
		t.Fatal("e(P, O) must be 1")
	}
}

func TestPairingAdditivity(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	p1, q := pairingPoints(curve)
	p2, _ := pairingPoints(curve)

	var sum G1Jac
	var sumAff G1Affine
	sum.FromAffine(&p1).AddMixed(&p2)
	sumAff.FromJacobian(&sum)

	lhs := curve.Pair(sumAff, q)
	first := curve.Pair(p1, q)
	second := curve.Pair(p2, q)
	var rhs PairingResult
	rhs.Mul(&first, &second)

	if !lhs.Equal(&rhs) {
		t.Fatal("e(P1+P2, Q) != e(P1, Q)*e(P2, Q)")
	}
}

func TestMillerLoopPrepared(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	p, q := pairingPoints(curve)
	qp := curve.PrepareG2(&q)

	var direct, prepared PairingResult
	curve.MillerLoop(p, q, &direct)
	curve.MillerLoopPrepared(p, &qp, &prepared)
	if !direct.Equal(&prepared) {
		t.Fatal("prepared and direct Miller loops disagree")
	}

	pr1 := curve.Pair(p, q)
	pr2 := curve.PairPrepared(p, &qp)
	if !pr1.Equal(&pr2) {
		t.Fatal("Pair and PairPrepared disagree")
	}

	// a prepared point serves any number of G1 arguments
	p2, _ := pairingPoints(curve)
	pr1 = curve.Pair(p2, q)
	pr2 = curve.PairPrepared(p2, &qp)
	if !pr1.Equal(&pr2) {
		t.Fatal("reusing a prepared point gave a different pairing")
	}
}

func TestMultiPair(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	const n = 4
	ps := make([]G1Affine, n)
	qs := make([]G2Affine, n)
	for i := 0; i < n; i++ {
		ps[i], qs[i] = pairingPoints(curve)
	}
	// a pair with an identity member contributes 1
	qs[2] = G2Affine{}

	multi := curve.MultiPair(ps, qs)

	var expected PairingResult
	expected.SetOne()
	for i := 0; i < n; i++ {
		single := curve.Pair(ps[i], qs[i])
		expected.MulAssign(&single)
	}

	if !multi.Equal(&expected) {
		t.Fatal("MultiPair and the product of Pairs disagree")
	}

	empty := curve.MultiPair(nil, nil)
	if !empty.IsOne() {
		t.Fatal("an empty MultiPair must be 1")
	}
}

func TestG2PreparedIO(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	_, q := pairingPoints(curve)
	qp := curve.PrepareG2(&q)

	var buf bytes.Buffer
	written, err := qp.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), written)

	var back G2Prepared
	read, err := back.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, written, read)

	if !cmp.Equal(qp, back, cmp.AllowUnexported(G2Prepared{}, lineCoeffs{}, e2{})) {
		t.Fatal(cmp.Diff(qp, back, cmp.AllowUnexported(G2Prepared{}, lineCoeffs{}, e2{})))
	}

	// the deserialized table pairs identically
	p, _ := pairingPoints(curve)
	pr1 := curve.PairPrepared(p, &qp)
	pr2 := curve.PairPrepared(p, &back)
	require.True(t, pr1.Equal(&pr2))

	// infinity marker round trip
	infPrepared := curve.PrepareG2(&G2Affine{})
	buf.Reset()
	_, err = infPrepared.WriteTo(&buf)
	require.NoError(t, err)
	var backInf G2Prepared
	_, err = backInf.ReadFrom(&buf)
	require.NoError(t, err)
	require.True(t, backInf.IsInfinity())
}

func TestGTSerialization(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	p, q := pairingPoints(curve)
	res := curve.Pair(p, q)

	b := res.Bytes()
	var back GT
	require.NoError(t, back.SetBytes(b[:]))
	require.True(t, back.Equal(&res))

	require.Error(t, back.SetBytes(b[:SizeOfGT-1]))
}

func BenchmarkPairing(b *testing.B) {
	curve := BLS381()
	p, q := pairingPoints(curve)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		curve.Pair(p, q)
	}
}

func BenchmarkMillerLoop(b *testing.B) {
	curve := BLS381()
	p, q := pairingPoints(curve)
	var res PairingResult
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		curve.MillerLoop(p, q, &res)
	}
}

func BenchmarkMillerLoopPrepared(b *testing.B) {
	curve := BLS381()
	p, q := pairingPoints(curve)
	qp := curve.PrepareG2(&q)
	var res PairingResult
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		curve.MillerLoopPrepared(p, &qp, &res)
	}
}

func BenchmarkFinalExponentiation(b *testing.B) {
	curve := BLS381()
	p, q := pairingPoints(curve)
	var ml PairingResult
	curve.MillerLoop(p, q, &ml)
	var res PairingResult
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res.FinalExponentiation(&ml)
	}
}
