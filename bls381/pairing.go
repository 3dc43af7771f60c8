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
	"github.com/consensys/gurvy/utils/debug"
	"github.com/consensys/gurvy/utils/parallel"
)

// lineCoeffs are the coefficients (a, b, c) of a Miller loop line
// a*x + b*y + c = 0, before evaluation at the G1 argument
type lineCoeffs struct {
	A, B, C e2
}

// G2Prepared holds the line coefficients of a fixed G2 point, in Miller
// loop consumption order. Preparing once amortizes the G2 share of the
// work over many pairings with the same point.
type G2Prepared struct {
	coeffs   []lineCoeffs
	infinity bool
}

// IsInfinity reports whether the prepared point is the identity
func (pp *G2Prepared) IsInfinity() bool {
	return pp.infinity
}

// lineThrough computes the coefficients of the line through two distinct
// twist points, as the cross product of their homogeneous coordinates
func lineThrough(p1, p2 *G2Jac, l *lineCoeffs) {
	// homogeneous (X*Z : Y : Z^3) from Jacobian (X : Y : Z)
	var x1, z1, x2, z2, t e2
	x1.Mul(&p1.X, &p1.Z)
	z1.Square(&p1.Z).MulAssign(&p1.Z)
	x2.Mul(&p2.X, &p2.Z)
	z2.Square(&p2.Z).MulAssign(&p2.Z)

	l.A.Mul(&p1.Y, &z2)
	t.Mul(&z1, &p2.Y)
	l.A.SubAssign(&t)

	l.B.Mul(&z1, &x2)
	t.Mul(&x1, &z2)
	l.B.SubAssign(&t)

	l.C.Mul(&x1, &p2.Y)
	t.Mul(&p1.Y, &x2)
	l.C.SubAssign(&t)
}

// doubleStep computes the tangent line at t (as the line through t and
// -2t) and advances t to 2t
func doubleStep(t *G2Jac, l *lineCoeffs) {
	var twoT, minusTwoT G2Jac
	twoT.Double(t)
	minusTwoT.Neg(&twoT)
	lineThrough(t, &minusTwoT, l)
	t.Set(&twoT)
}

// addStep computes the line through t and q and advances t to t+q
func addStep(curve *Curve, t, q *G2Jac, l *lineCoeffs) {
	lineThrough(t, q, l)
	t.AddAssign(curve, q)
}

// mulByLine evaluates the line at p and multiplies f by the resulting
// sparse e12 element
func mulByLine(f *PairingResult, l *lineCoeffs, p *G1Affine) {
	var c1, c4 e2
	c1.MulByElement(&l.A, &p.X)
	c4.MulByElement(&l.B, &p.Y)
	f.MulBy014(&l.C, &c1, &c4)
}

// PrepareG2 precomputes the Miller loop line coefficients of q
func (curve *Curve) PrepareG2(q *G2Affine) G2Prepared {
	var pp G2Prepared
	if q.IsInfinity() {
		pp.infinity = true
		return pp
	}

	var t, qJac, qNeg G2Jac
	qJac.FromAffine(q)
	qNeg.Neg(&qJac)
	t.Set(&qJac)

	pp.coeffs = make([]lineCoeffs, 0, 2*len(curve.loopCounter))
	var l lineCoeffs
	for i := len(curve.loopCounter) - 2; i >= 0; i-- {
		doubleStep(&t, &l)
		pp.coeffs = append(pp.coeffs, l)
		if curve.loopCounter[i] == 1 {
			addStep(curve, &t, &qJac, &l)
			pp.coeffs = append(pp.coeffs, l)
		} else if curve.loopCounter[i] == -1 {
			addStep(curve, &t, &qNeg, &l)
			pp.coeffs = append(pp.coeffs, l)
		}
	}
	return pp
}

// MillerLoop computes the Miller loop f_{t,q}(p). The output is only
// meaningful up to the final exponentiation.
func (curve *Curve) MillerLoop(p G1Affine, q G2Affine, result *PairingResult) *PairingResult {
	result.SetOne()
	if p.IsInfinity() || q.IsInfinity() {
		return result
	}

	var t, qJac, qNeg G2Jac
	qJac.FromAffine(&q)
	qNeg.Neg(&qJac)
	t.Set(&qJac)

	var l lineCoeffs
	for i := len(curve.loopCounter) - 2; i >= 0; i-- {
		result.Square(result)
		doubleStep(&t, &l)
		mulByLine(result, &l, &p)
		if curve.loopCounter[i] == 1 {
			addStep(curve, &t, &qJac, &l)
			mulByLine(result, &l, &p)
		} else if curve.loopCounter[i] == -1 {
			addStep(curve, &t, &qNeg, &l)
			mulByLine(result, &l, &p)
		}
	}

	// the seed is negative: conjugation stands in for the inversion, the
	// difference is wiped out by the final exponentiation
	result.Conjugate(result)
	return result
}

// MillerLoopPrepared replays precomputed line coefficients against p
func (curve *Curve) MillerLoopPrepared(p G1Affine, qp *G2Prepared, result *PairingResult) *PairingResult {
	result.SetOne()
	if p.IsInfinity() || qp.infinity {
		return result
	}

	k := 0
	for i := len(curve.loopCounter) - 2; i >= 0; i-- {
		result.Square(result)
		mulByLine(result, &qp.coeffs[k], &p)
		k++
		if curve.loopCounter[i] != 0 {
			mulByLine(result, &qp.coeffs[k], &p)
			k++
		}
	}
	debug.Assert(k == len(qp.coeffs), "millerLoop: prepared coefficients out of sync")

	result.Conjugate(result)
	return result
}

// FinalExponentiation raises x to (p^12-1)/r, mapping Miller loop outputs
// to the r-torsion subgroup GT of e12
func (z *e12) FinalExponentiation(x *e12) *e12 {
	var result e12
	result.Set(x)

	// easy part: x^((p^6-1)(p^2+1))
	var buf e12
	buf.Conjugate(&result) // x^(p^6): the p^6 Frobenius is conjugation
	result.Inverse(&result)
	buf.MulAssign(&result)
	result.FrobeniusSquare(&buf).MulAssign(&buf)

	// hard part: ^(3(p^4-p^2+1)/r), the addition chain of
	// https://eprint.iacr.org/2020/875.pdf section 5
	var t0, t1, t2 e12
	t0.CyclotomicSquare(&result)
	t1.ExptHalf(&t0)
	t2.InverseUnitary(&result)
	t1.MulAssign(&t2)
	t2.Expt(&t1)
	t1.InverseUnitary(&t1)
	t1.MulAssign(&t2)
	t2.Expt(&t1)
	t1.Frobenius(&t1)
	t1.MulAssign(&t2)
	result.MulAssign(&t0)
	t0.Expt(&t1)
	t2.Expt(&t0)
	t0.FrobeniusSquare(&t1)
	t1.InverseUnitary(&t1)
	t1.MulAssign(&t2)
	t1.MulAssign(&t0)
	result.MulAssign(&t1)

	z.Set(&result)
	return z
}

// Pair computes the bilinear pairing e(p, q). If either input is the
// identity the result is 1.
func (curve *Curve) Pair(p G1Affine, q G2Affine) PairingResult {
	var result PairingResult
	curve.MillerLoop(p, q, &result)
	result.FinalExponentiation(&result)
	return result
}

// PairPrepared computes e(p, q) from a prepared q
func (curve *Curve) PairPrepared(p G1Affine, qp *G2Prepared) PairingResult {
	var result PairingResult
	curve.MillerLoopPrepared(p, qp, &result)
	result.FinalExponentiation(&result)
	return result
}

// MultiPair computes prod_i e(ps[i], qs[i]) sharing a single final
// exponentiation across the Miller loops. Pairs with an identity member
// contribute 1 to the product.
func (curve *Curve) MultiPair(ps []G1Affine, qs []G2Affine) PairingResult {
	debug.Assert(len(ps) == len(qs), "multiPair: mismatched slice lengths")

	var result PairingResult
	result.SetOne()
	if len(ps) == 0 {
		return result
	}

	loops := make([]PairingResult, len(ps))
	parallel.Execute(0, len(ps), func(start, end int) {
		for i := start; i < end; i++ {
			curve.MillerLoop(ps[i], qs[i], &loops[i])
		}
	})
	for i := range loops {
		result.MulAssign(&loops[i])
	}
	result.FinalExponentiation(&result)
	return result
}
