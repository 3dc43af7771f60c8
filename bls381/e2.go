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

// e2 is a degree-2 finite field extension of fp.Element: A0 + A1*u where
// u^2 = -1 is a quadratic non-residue in fp
type e2 struct {
	A0, A1 fp.Element
}

// SetString sets an e2 element from two field-element strings
func (z *e2) SetString(s0, s1 string) *e2 {
	z.A0.SetString(s0)
	z.A1.SetString(s1)
	return z
}

// SetZero sets an e2 element to 0
func (z *e2) SetZero() *e2 {
	z.A0.SetZero()
	z.A1.SetZero()
	return z
}

// SetOne sets an e2 element to 1
func (z *e2) SetOne() *e2 {
	z.A0.SetOne()
	z.A1.SetZero()
	return z
}

// Set sets an e2 element from another
func (z *e2) Set(x *e2) *e2 {
	z.A0 = x.A0
	z.A1 = x.A1
	return z
}

// SetRandom sets z to a uniform random value
func (z *e2) SetRandom() *e2 {
	z.A0.Rand()
	z.A1.Rand()
	return z
}

// Equal returns true if the two elements are equal, false otherwise
func (z *e2) Equal(x *e2) bool {
	return z.A0.Equal(&x.A0) && z.A1.Equal(&x.A1)
}

// IsZero returns true if the two elements are equal, false otherwise
func (z *e2) IsZero() bool {
	return z.A0.IsZero() && z.A1.IsZero()
}

// IsOne returns true if z is one
func (z *e2) IsOne() bool {
	return z.A0.IsOne() && z.A1.IsZero()
}

func (z *e2) String() string {
	return z.A0.String() + "+" + z.A1.String() + "*u"
}

// Add adds two elements of e2
func (z *e2) Add(x, y *e2) *e2 {
	z.A0.Add(&x.A0, &y.A0)
	z.A1.Add(&x.A1, &y.A1)
	return z
}

// AddAssign adds x to z
func (z *e2) AddAssign(x *e2) *e2 {
	return z.Add(z, x)
}

// Sub two elements of e2
func (z *e2) Sub(x, y *e2) *e2 {
	z.A0.Sub(&x.A0, &y.A0)
	z.A1.Sub(&x.A1, &y.A1)
	return z
}

// SubAssign subs x from z
func (z *e2) SubAssign(x *e2) *e2 {
	return z.Sub(z, x)
}

// Double doubles an e2 element
func (z *e2) Double(x *e2) *e2 {
	z.A0.Double(&x.A0)
	z.A1.Double(&x.A1)
	return z
}

// Neg negates an e2 element
func (z *e2) Neg(x *e2) *e2 {
	z.A0.Neg(&x.A0)
	z.A1.Neg(&x.A1)
	return z
}

// Conjugate conjugates an element in e2 (z = A0 - A1*u)
func (z *e2) Conjugate(x *e2) *e2 {
	z.A0 = x.A0
	z.A1.Neg(&x.A1)
	return z
}

// Mul sets z to the e2-product of x,y, returns z
func (z *e2) Mul(x, y *e2) *e2 {
	// (a+bu)(c+du) == (ac-bd) + (ad+bc)u, computed with 3 fp multiplications
	// (Karatsuba)
	var ac, bd, cplusd, aplusb fp.Element
	ac.Mul(&x.A0, &y.A0)
	bd.Mul(&x.A1, &y.A1)
	cplusd.Add(&y.A0, &y.A1)
	aplusb.Add(&x.A0, &x.A1)
	z.A1.Mul(&aplusb, &cplusd).SubAssign(&ac).SubAssign(&bd)
	z.A0.Sub(&ac, &bd)
	return z
}

// MulAssign sets z to the e2-product of z,x, returns z
func (z *e2) MulAssign(x *e2) *e2 {
	return z.Mul(z, x)
}

// MulByElement multiplies an element in e2 by an element in fp
func (z *e2) MulByElement(x *e2, y *fp.Element) *e2 {
	yCopy := *y
	z.A0.Mul(&x.A0, &yCopy)
	z.A1.Mul(&x.A1, &yCopy)
	return z
}

// Square sets z to the e2-square of x, returns z
func (z *e2) Square(x *e2) *e2 {
	// (a+bu)^2 == (a+b)(a-b) + 2ab*u, computed with 2 fp multiplications
	var aplusb, aminusb, ab fp.Element
	aplusb.Add(&x.A0, &x.A1)
	aminusb.Sub(&x.A0, &x.A1)
	ab.Mul(&x.A0, &x.A1)
	z.A0.Mul(&aplusb, &aminusb)
	z.A1.Double(&ab)
	return z
}

// Inverse sets z to the e2-inverse of x, returns z
//
// x == 0 is outside the domain and yields an unspecified result.
func (z *e2) Inverse(x *e2) *e2 {
	// 1/(a+bu) == (a-bu)/(a^2+b^2): invert the norm in fp, then multiply
	// by the conjugate
	var t0, t1 fp.Element
	t0.Square(&x.A0)
	t1.Square(&x.A1)
	t0.AddAssign(&t1)
	t1.Inverse(&t0)
	z.A0.Mul(&x.A0, &t1)
	z.A1.Mul(&x.A1, &t1).Neg(&z.A1)
	return z
}

// MulByNonResidue multiplies an e2 element by the cubic/sextic non-residue (1+u)
func (z *e2) MulByNonResidue(x *e2) *e2 {
	// (a+bu)(1+u) == (a-b) + (a+b)u
	var a fp.Element
	a.Sub(&x.A0, &x.A1)
	z.A1.Add(&x.A0, &x.A1)
	z.A0 = a
	return z
}

// Exp sets z = x^e (e is treated as public data)
func (z *e2) Exp(x *e2, e *big.Int) *e2 {
	var res e2
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

// Legendre returns 1 if z is a nonzero square in e2, -1 if it is not a
// square, 0 if z == 0. The norm map carries the question down to fp.
func (z *e2) Legendre() int {
	var n fp.Element
	var t fp.Element
	n.Square(&z.A0)
	t.Square(&z.A1)
	n.AddAssign(&t)
	return n.Legendre()
}

// Sqrt sets z to a square root of x if it exists, and returns z; it
// returns nil otherwise.
func (z *e2) Sqrt(x *e2) *e2 {
	// Adj, Rodriguez-Henriquez "Square root computation over even extension fields"
	// https://eprint.iacr.org/2012/685.pdf (algorithm 9, q = 3 mod 4 case)
	var a1, alpha, x0, minusOne, b e2

	minusOne.SetOne().Neg(&minusOne)

	a1.Exp(x, &pMinus3Over4)
	alpha.Square(&a1).MulAssign(x)
	x0.Mul(&a1, x)
	if alpha.Equal(&minusOne) {
		// z = x0 * u
		z.A0.Neg(&x0.A1)
		z.A1 = x0.A0
	} else {
		b.SetOne().AddAssign(&alpha)
		b.Exp(&b, &pMinus1Over2)
		z.Mul(&b, &x0)
	}
	var square e2
	square.Square(z)
	if !square.Equal(x) {
		return nil
	}
	return z
}

// LexicographicallyLargest returns true if z is strictly larger than its
// negation under the (A1, A0) big-endian comparison used by the point
// compression format
func (z *e2) LexicographicallyLargest() bool {
	if z.A1.IsZero() {
		return z.A0.LexicographicallyLargest()
	}
	return z.A1.LexicographicallyLargest()
}

// Select sets z to x0 if c == 0 and to x1 otherwise, without branching on c
func (z *e2) Select(c int, x0, x1 *e2) *e2 {
	z.A0.Select(c, &x0.A0, &x1.A0)
	z.A1.Select(c, &x0.A1, &x1.A1)
	return z
}
