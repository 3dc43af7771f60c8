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

import "github.com/consensys/gurvy/bls381/fp"

// e6 is a degree-3 finite field extension of e2:
// B0 + B1v + B2v^2 where v^3 = 1+u is the cubic non-residue of e2
type e6 struct {
	B0, B1, B2 e2
}

// SetString sets an e6 element from six field-element strings
func (z *e6) SetString(s0, s1, s2, s3, s4, s5 string) *e6 {
	z.B0.SetString(s0, s1)
	z.B1.SetString(s2, s3)
	z.B2.SetString(s4, s5)
	return z
}

// SetZero sets an e6 element to 0
func (z *e6) SetZero() *e6 {
	z.B0.SetZero()
	z.B1.SetZero()
	z.B2.SetZero()
	return z
}

// SetOne sets an e6 element to 1
func (z *e6) SetOne() *e6 {
	z.B0.SetOne()
	z.B1.SetZero()
	z.B2.SetZero()
	return z
}

// Set sets an e6 element from another
func (z *e6) Set(x *e6) *e6 {
	z.B0 = x.B0
	z.B1 = x.B1
	z.B2 = x.B2
	return z
}

// SetRandom sets z to a uniform random value
func (z *e6) SetRandom() *e6 {
	z.B0.SetRandom()
	z.B1.SetRandom()
	z.B2.SetRandom()
	return z
}

// Equal returns true if the two elements are equal, false otherwise
func (z *e6) Equal(x *e6) bool {
	return z.B0.Equal(&x.B0) && z.B1.Equal(&x.B1) && z.B2.Equal(&x.B2)
}

// IsZero returns true if z is zero
func (z *e6) IsZero() bool {
	return z.B0.IsZero() && z.B1.IsZero() && z.B2.IsZero()
}

func (z *e6) String() string {
	return "(" + z.B0.String() + ")+(" + z.B1.String() + ")*v+(" + z.B2.String() + ")*v**2"
}

// Add adds two elements of e6
func (z *e6) Add(x, y *e6) *e6 {
	z.B0.Add(&x.B0, &y.B0)
	z.B1.Add(&x.B1, &y.B1)
	z.B2.Add(&x.B2, &y.B2)
	return z
}

// AddAssign adds x to z
func (z *e6) AddAssign(x *e6) *e6 {
	return z.Add(z, x)
}

// Sub two elements of e6
func (z *e6) Sub(x, y *e6) *e6 {
	z.B0.Sub(&x.B0, &y.B0)
	z.B1.Sub(&x.B1, &y.B1)
	z.B2.Sub(&x.B2, &y.B2)
	return z
}

// SubAssign subs x from z
func (z *e6) SubAssign(x *e6) *e6 {
	return z.Sub(z, x)
}

// Double doubles an element in e6
func (z *e6) Double(x *e6) *e6 {
	z.B0.Double(&x.B0)
	z.B1.Double(&x.B1)
	z.B2.Double(&x.B2)
	return z
}

// Neg negates an element in e6
func (z *e6) Neg(x *e6) *e6 {
	z.B0.Neg(&x.B0)
	z.B1.Neg(&x.B1)
	z.B2.Neg(&x.B2)
	return z
}

// Mul sets z to the e6-product of x,y, returns z
func (z *e6) Mul(x, y *e6) *e6 {
	// Algorithm 13 from https://eprint.iacr.org/2010/354.pdf
	var rb0, b0, b1, b2, b3, b4 e2
	b0.Mul(&x.B0, &y.B0) // step 1
	b1.Mul(&x.B1, &y.B1) // step 2
	b2.Mul(&x.B2, &y.B2) // step 3

	// step 4
	b3.Add(&x.B1, &x.B2)
	b4.Add(&y.B1, &y.B2)
	rb0.Mul(&b3, &b4).
		SubAssign(&b1).
		SubAssign(&b2).
		MulByNonResidue(&rb0).
		AddAssign(&b0)

	// step 5
	b3.Add(&x.B0, &x.B1)
	b4.Add(&y.B0, &y.B1)
	z.B1.Mul(&b3, &b4).
		SubAssign(&b0).
		SubAssign(&b1)
	b3.MulByNonResidue(&b2)
	z.B1.AddAssign(&b3)

	// step 6
	b3.Add(&x.B0, &x.B2)
	b4.Add(&y.B0, &y.B2)
	z.B2.Mul(&b3, &b4).
		SubAssign(&b0).
		SubAssign(&b2).
		AddAssign(&b1)
	z.B0 = rb0
	return z
}

// MulAssign sets z to the e6-product of z,x, returns z
func (z *e6) MulAssign(x *e6) *e6 {
	return z.Mul(z, x)
}

// MulByE2 multiplies x by an element in e2
func (z *e6) MulByE2(x *e6, y *e2) *e6 {
	yCopy := *y
	z.B0.Mul(&x.B0, &yCopy)
	z.B1.Mul(&x.B1, &yCopy)
	z.B2.Mul(&x.B2, &yCopy)
	return z
}

// MulByElement multiplies x by an element in fp
func (z *e6) MulByElement(x *e6, y *fp.Element) *e6 {
	yCopy := *y
	z.B0.MulByElement(&x.B0, &yCopy)
	z.B1.MulByElement(&x.B1, &yCopy)
	z.B2.MulByElement(&x.B2, &yCopy)
	return z
}

// MulByNotv2 multiplies x by y with y.B2 = 0
func (z *e6) MulByNotv2(x, y *e6) *e6 {
	// Algorithm 15 from https://eprint.iacr.org/2010/354.pdf
	var rb0, b0, b1, b2, b3 e2
	b0.Mul(&x.B0, &y.B0) // step 1
	b1.Mul(&x.B1, &y.B1) // step 2

	// step 3
	b2.Add(&x.B1, &x.B2)
	rb0.Mul(&b2, &y.B1).
		SubAssign(&b1).
		MulByNonResidue(&rb0).
		AddAssign(&b0)

	// step 4
	b2.Add(&x.B0, &x.B1)
	b3.Add(&y.B0, &y.B1)
	z.B1.Mul(&b2, &b3).
		SubAssign(&b0).
		SubAssign(&b1)

	// step 5
	b2.Add(&x.B0, &x.B2)
	z.B2.Mul(&b2, &y.B0).
		SubAssign(&b0).
		AddAssign(&b1)
	z.B0 = rb0
	return z
}

// Square sets z to the e6-product of x,x, returns z
func (z *e6) Square(x *e6) *e6 {
	// Algorithm 16 from https://eprint.iacr.org/2010/354.pdf
	var c4, c5, c1, c2, c3, c0 e2
	c4.Mul(&x.B0, &x.B1).Double(&c4) // step 1
	c5.Square(&x.B2)                 // step 2
	c1.MulByNonResidue(&c5).AddAssign(&c4)
	c2.Sub(&c4, &c5)                 // step 4
	c3.Square(&x.B0)                 // step 5
	c4.Sub(&x.B0, &x.B1).AddAssign(&x.B2)
	c5.Mul(&x.B1, &x.B2).Double(&c5) // step 7
	c4.Square(&c4)                   // step 8
	c0.MulByNonResidue(&c5).AddAssign(&c3)
	z.B2.Add(&c2, &c4).AddAssign(&c5).SubAssign(&c3) // step 10
	z.B0 = c0
	z.B1 = c1
	return z
}

// Inverse sets z to the e6-inverse of x, returns z
//
// x == 0 is outside the domain and yields an unspecified result.
func (z *e6) Inverse(x *e6) *e6 {
	// Algorithm 17 from https://eprint.iacr.org/2010/354.pdf
	// step 9 is wrong in the paper: t1 = H^2 - G*I (instead of t1 = H^2 + G*I)
	var t [7]e2
	var c [3]e2
	var buf e2
	t[0].Square(&x.B0)     // step 1
	t[1].Square(&x.B1)     // step 2
	t[2].Square(&x.B2)     // step 3
	t[3].Mul(&x.B0, &x.B1) // step 4
	t[4].Mul(&x.B0, &x.B2) // step 5
	t[5].Mul(&x.B1, &x.B2) // step 6
	c[0].MulByNonResidue(&t[5]).
		Neg(&c[0]).
		AddAssign(&t[0]) // step 7
	c[1].MulByNonResidue(&t[2]).
		SubAssign(&t[3]) // step 8
	c[2].Sub(&t[1], &t[4]) // step 9
	t[6].Mul(&x.B2, &c[1]) // step 10
	buf.Mul(&x.B1, &c[2])
	t[6].AddAssign(&buf).
		MulByNonResidue(&t[6])
	buf.Mul(&x.B0, &c[0])
	t[6].AddAssign(&buf) // step 11
	t[6].Inverse(&t[6])  // step 12
	z.B0.Mul(&c[0], &t[6])
	z.B1.Mul(&c[1], &t[6])
	z.B2.Mul(&c[2], &t[6])
	return z
}

// MulByNonResidue multiplies an e6 element by v (the cubic non-residue of
// the e12 tower level)
func (z *e6) MulByNonResidue(x *e6) *e6 {
	// (B0 + B1v + B2v^2)*v == ((1+u)*B2) + B0v + B1v^2
	z.B2, z.B1, z.B0 = x.B1, x.B0, x.B2
	z.B0.MulByNonResidue(&z.B0)
	return z
}

// Frobenius raises x to the field characteristic p
func (z *e6) Frobenius(x *e6) *e6 {
	z.B0.Conjugate(&x.B0)
	z.B1.Conjugate(&x.B1).MulAssign(&frobCoeffB1)
	z.B2.Conjugate(&x.B2).MulAssign(&frobCoeffB2)
	return z
}

// FrobeniusSquare raises x to p^2
func (z *e6) FrobeniusSquare(x *e6) *e6 {
	z.B0.Set(&x.B0)
	z.B1.Mul(&x.B1, &frobCoeffB1Square)
	z.B2.Mul(&x.B2, &frobCoeffB2Square)
	return z
}
