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
	"math/bits"
)

// e12 is a degree-2 finite field extension of e6:
// C0 + C1w where w^2 = v is the quadratic non-residue of e6
type e12 struct {
	C0, C1 e6
}

// PairingResult target group of the pairing
type PairingResult = e12

// GT is an alias kept for callers thinking in terms of the abstract
// pairing groups G1 x G2 -> GT
type GT = e12

// SetString sets an e12 element from twelve field-element strings
func (z *e12) SetString(s0, s1, s2, s3, s4, s5, s6, s7, s8, s9, s10, s11 string) *e12 {
	z.C0.SetString(s0, s1, s2, s3, s4, s5)
	z.C1.SetString(s6, s7, s8, s9, s10, s11)
	return z
}

// SetZero sets an e12 element to 0
func (z *e12) SetZero() *e12 {
	z.C0.SetZero()
	z.C1.SetZero()
	return z
}

// SetOne sets an e12 element to 1
func (z *e12) SetOne() *e12 {
	z.C0.SetOne()
	z.C1.SetZero()
	return z
}

// Set sets an e12 element from another
func (z *e12) Set(x *e12) *e12 {
	z.C0 = x.C0
	z.C1 = x.C1
	return z
}

// SetRandom sets z to a uniform random value
func (z *e12) SetRandom() *e12 {
	z.C0.SetRandom()
	z.C1.SetRandom()
	return z
}

// Equal returns true if the two elements are equal, false otherwise
func (z *e12) Equal(x *e12) bool {
	return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1)
}

// IsZero returns true if z is zero
func (z *e12) IsZero() bool {
	return z.C0.IsZero() && z.C1.IsZero()
}

// IsOne returns true if z is one
func (z *e12) IsOne() bool {
	var one e12
	one.SetOne()
	return z.Equal(&one)
}

func (z *e12) String() string {
	return "(" + z.C0.String() + ")+(" + z.C1.String() + ")*w"
}

// Add adds two elements of e12
func (z *e12) Add(x, y *e12) *e12 {
	z.C0.Add(&x.C0, &y.C0)
	z.C1.Add(&x.C1, &y.C1)
	return z
}

// Sub two elements of e12
func (z *e12) Sub(x, y *e12) *e12 {
	z.C0.Sub(&x.C0, &y.C0)
	z.C1.Sub(&x.C1, &y.C1)
	return z
}

// Mul sets z to the e12-product of x,y, returns z
func (z *e12) Mul(x, y *e12) *e12 {
	// Algorithm 20 from https://eprint.iacr.org/2010/354.pdf
	var a, b, c e6
	a.Add(&x.C0, &x.C1)
	b.Add(&y.C0, &y.C1)
	a.MulAssign(&b)
	b.Mul(&x.C0, &y.C0)
	c.Mul(&x.C1, &y.C1)
	z.C1.Sub(&a, &b).SubAssign(&c)
	z.C0.MulByNonResidue(&c).AddAssign(&b)
	return z
}

// MulAssign sets z to the e12-product of z,x, returns z
func (z *e12) MulAssign(x *e12) *e12 {
	return z.Mul(z, x)
}

// Square sets z to the e12-square of x, returns z
func (z *e12) Square(x *e12) *e12 {
	// complex squaring: w^2 = v
	var c0, c2, c3 e6
	c0.Sub(&x.C0, &x.C1)
	c3.MulByNonResidue(&x.C1).Neg(&c3).AddAssign(&x.C0)
	c2.Mul(&x.C0, &x.C1)
	c0.MulAssign(&c3).AddAssign(&c2)
	z.C1.Double(&c2)
	c2.MulByNonResidue(&c2)
	z.C0.Add(&c0, &c2)
	return z
}

// Inverse sets z to the e12-inverse of x, returns z
//
// x == 0 is outside the domain and yields an unspecified result.
func (z *e12) Inverse(x *e12) *e12 {
	// Algorithm 23 from https://eprint.iacr.org/2010/354.pdf
	var t0, t1, tmp e6
	t0.Square(&x.C0)
	t1.Square(&x.C1)
	tmp.MulByNonResidue(&t1)
	t0.SubAssign(&tmp)
	t1.Inverse(&t0)
	z.C0.Mul(&x.C0, &t1)
	z.C1.Mul(&x.C1, &t1).Neg(&z.C1)
	return z
}

// Conjugate sets z to the conjugate of x (negation of the C1 coordinate)
func (z *e12) Conjugate(x *e12) *e12 {
	z.C0 = x.C0
	z.C1.Neg(&x.C1)
	return z
}

// InverseUnitary inverses a unitary element: for elements of norm 1 (in
// particular any pairing output after the final exponentiation) the
// inverse is the conjugate
func (z *e12) InverseUnitary(x *e12) *e12 {
	return z.Conjugate(x)
}

// MulBy014 multiplies z by a sparse element of the form
//
//	c0 + c1*v + c4*v*w
//
// which is the shape of a Miller loop line evaluation
func (z *e12) MulBy014(c0, c1, c4 *e2) *e12 {
	var a, b, s e6
	var d e2

	s.B0 = *c0
	s.B1 = *c1
	a.MulByNotv2(&z.C0, &s)
	b.MulByE2(&z.C1, c4).MulByNonResidue(&b)

	d.Add(c1, c4)
	s.B1 = d
	z.C1.AddAssign(&z.C0).
		MulByNotv2(&z.C1, &s).
		SubAssign(&a).
		SubAssign(&b)
	z.C0.MulByNonResidue(&b).AddAssign(&a)
	return z
}

// CyclotomicSquare squares a cyclotomic element (an element of norm 1
// living in the cyclotomic subgroup, e.g. the output of the easy part of
// the final exponentiation) using Granger-Scott compressed squaring,
// https://eprint.iacr.org/2009/565.pdf section 3.2
func (z *e12) CyclotomicSquare(x *e12) *e12 {
	// x = (x0,x1,x2,x3,x4,x5) over e2, ordered
	// (C0.B0, C0.B1, C0.B2, C1.B0, C1.B1, C1.B2)
	var t [9]e2

	t[0].Square(&x.C1.B1)
	t[1].Square(&x.C0.B0)
	t[6].Add(&x.C1.B1, &x.C0.B0).
		Square(&t[6]).
		SubAssign(&t[0]).
		SubAssign(&t[1]) // 2*x4*x0
	t[2].Square(&x.C0.B2)
	t[3].Square(&x.C1.B0)
	t[7].Add(&x.C0.B2, &x.C1.B0).
		Square(&t[7]).
		SubAssign(&t[2]).
		SubAssign(&t[3]) // 2*x2*x3
	t[4].Square(&x.C1.B2)
	t[5].Square(&x.C0.B1)
	t[8].Add(&x.C1.B2, &x.C0.B1).
		Square(&t[8]).
		SubAssign(&t[4]).
		SubAssign(&t[5]).
		MulByNonResidue(&t[8]) // 2*x5*x1*(1+u)

	t[0].MulByNonResidue(&t[0]).AddAssign(&t[1]) // x4^2*(1+u) + x0^2
	t[2].MulByNonResidue(&t[2]).AddAssign(&t[3]) // x2^2*(1+u) + x3^2
	t[4].MulByNonResidue(&t[4]).AddAssign(&t[5]) // x5^2*(1+u) + x1^2

	z.C0.B0.Sub(&t[0], &x.C0.B0).Double(&z.C0.B0).AddAssign(&t[0])
	z.C0.B1.Sub(&t[2], &x.C0.B1).Double(&z.C0.B1).AddAssign(&t[2])
	z.C0.B2.Sub(&t[4], &x.C0.B2).Double(&z.C0.B2).AddAssign(&t[4])

	z.C1.B0.Add(&t[8], &x.C1.B0).Double(&z.C1.B0).AddAssign(&t[8])
	z.C1.B1.Add(&t[6], &x.C1.B1).Double(&z.C1.B1).AddAssign(&t[6])
	z.C1.B2.Add(&t[7], &x.C1.B2).Double(&z.C1.B2).AddAssign(&t[7])
	return z
}

// Frobenius raises x to the field characteristic p
func (z *e12) Frobenius(x *e12) *e12 {
	z.C0.Frobenius(&x.C0)
	z.C1.Frobenius(&x.C1).MulByE2(&z.C1, &frobCoeffC1)
	return z
}

// FrobeniusSquare raises x to p^2
func (z *e12) FrobeniusSquare(x *e12) *e12 {
	z.C0.FrobeniusSquare(&x.C0)
	z.C1.FrobeniusSquare(&x.C1).MulByE2(&z.C1, &frobCoeffC1Square)
	return z
}

// FrobeniusCube raises x to p^3
func (z *e12) FrobeniusCube(x *e12) *e12 {
	z.FrobeniusSquare(x)
	return z.Frobenius(z)
}

// Expt raises a cyclotomic element to |t|, the absolute value of the curve
// seed, then conjugates to account for the sign of t
func (z *e12) Expt(x *e12) *e12 {
	return z.exptAbs(x, tAbsVal)
}

// ExptHalf raises a cyclotomic element to |t|/2 (t is even), then
// conjugates to account for the sign of t
func (z *e12) ExptHalf(x *e12) *e12 {
	return z.exptAbs(x, tAbsVal>>1)
}

func (z *e12) exptAbs(x *e12, e uint64) *e12 {
	var result e12
	result.Set(x)
	for i := bits.Len64(e) - 2; i >= 0; i-- {
		result.CyclotomicSquare(&result)
		if e&(1<<uint(i)) != 0 {
			result.MulAssign(x)
		}
	}
	result.Conjugate(&result)
	z.Set(&result)
	return z
}

// Exp sets z = x^e (e is treated as public data)
func (z *e12) Exp(x *e12, e *big.Int) *e12 {
	var res e12
	res.SetOne()
	for i := e.BitLen() - 1; i >= 0; i-- {
		res.Square(&res)
		if e.Bit(i) == 1 {
			res.MulAssign(x)
		}
	}
	z.Set(&res)
	return z
}
