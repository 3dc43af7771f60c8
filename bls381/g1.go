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
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gurvy/bls381/fp"
	"github.com/consensys/gurvy/bls381/fr"
	"github.com/consensys/gurvy/utils/debug"
	"github.com/consensys/gurvy/utils/parallel"
)

// G1Jac is a point on the curve y^2 = x^3 + B in Jacobian coordinates
// (x = X/Z^2, y = Y/Z^3); the point at infinity has Z = 0
type G1Jac struct {
	X, Y, Z fp.Element
}

// G1Affine is a point on the curve y^2 = x^3 + B in affine coordinates;
// the point at infinity is (0, 0)
type G1Affine struct {
	X, Y fp.Element
}

// Set sets p to the provided point
func (p *G1Jac) Set(a *G1Jac) *G1Jac {
	p.X = a.X
	p.Y = a.Y
	p.Z = a.Z
	return p
}

// Equal tests if two points in Jacobian coordinates are equal (as curve
// points, not coordinate-wise)
func (p *G1Jac) Equal(a *G1Jac) bool {
	if p.Z.IsZero() || a.Z.IsZero() {
		return p.Z.IsZero() && a.Z.IsZero()
	}
	var pAff, aAff G1Affine
	pAff.FromJacobian(p)
	aAff.FromJacobian(a)
	return pAff.Equal(&aAff)
}

// Neg sets p to the curve negative of a
func (p *G1Jac) Neg(a *G1Jac) *G1Jac {
	p.Set(a)
	p.Y.Neg(&a.Y)
	return p
}

// SubAssign subtracts a from p
func (p *G1Jac) SubAssign(curve *Curve, a *G1Jac) *G1Jac {
	var tmp G1Jac
	tmp.Neg(a)
	return p.AddAssign(curve, &tmp)
}

// Select sets p to p0 if c == 0 and to p1 otherwise, without branching on c
func (p *G1Jac) Select(c int, p0, p1 *G1Jac) *G1Jac {
	p.X.Select(c, &p0.X, &p1.X)
	p.Y.Select(c, &p0.Y, &p1.Y)
	p.Z.Select(c, &p0.Z, &p1.Z)
	return p
}

// AddAssign point addition in Jacobian coordinates
// https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian-3.html#addition-add-2007-bl
func (p *G1Jac) AddAssign(curve *Curve, a *G1Jac) *G1Jac {
	// p is infinity, return a
	if p.Z.IsZero() {
		p.Set(a)
		return p
	}

	// a is infinity, return p
	if a.Z.IsZero() {
		return p
	}

	var Z1Z1, Z2Z2, U1, U2, S1, S2, H, I, J, r, V fp.Element
	Z1Z1.Square(&a.Z)
	Z2Z2.Square(&p.Z)
	U1.Mul(&a.X, &Z2Z2)
	U2.Mul(&p.X, &Z1Z1)
	S1.Mul(&a.Y, &p.Z).MulAssign(&Z2Z2)
	S2.Mul(&p.Y, &a.Z).MulAssign(&Z1Z1)

	// if p == a, we double instead
	if U1.Equal(&U2) && S1.Equal(&S2) {
		return p.DoubleAssign()
	}

	H.Sub(&U2, &U1)
	I.Double(&H).Square(&I)
	J.Mul(&H, &I)
	r.Sub(&S2, &S1).Double(&r)
	V.Mul(&U1, &I)
	p.X.Square(&r).SubAssign(&J).SubAssign(&V).SubAssign(&V)
	p.Y.Sub(&V, &p.X).MulAssign(&r)
	S1.MulAssign(&J).Double(&S1)
	p.Y.SubAssign(&S1)
	p.Z.AddAssign(&a.Z).Square(&p.Z).SubAssign(&Z1Z1).SubAssign(&Z2Z2).MulAssign(&H)

	return p
}

// AddMixed point addition with an affine point
// https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian-0.html#addition-madd-2007-bl
func (p *G1Jac) AddMixed(a *G1Affine) *G1Jac {
	// a is infinity, return p
	if a.X.IsZero() && a.Y.IsZero() {
		return p
	}

	// p is infinity, return a
	if p.Z.IsZero() {
		p.X = a.X
		p.Y = a.Y
		p.Z.SetOne()
		return p
	}

	var Z1Z1, U2, S2, H, HH, I, J, r, V fp.Element
	Z1Z1.Square(&p.Z)
	U2.Mul(&a.X, &Z1Z1)
	S2.Mul(&a.Y, &p.Z).MulAssign(&Z1Z1)

	// if p == a, we double instead
	if U2.Equal(&p.X) && S2.Equal(&p.Y) {
		return p.DoubleAssign()
	}

	H.Sub(&U2, &p.X)
	HH.Square(&H)
	I.Double(&HH).Double(&I)
	J.Mul(&H, &I)
	r.Sub(&S2, &p.Y).Double(&r)
	V.Mul(&p.X, &I)
	p.X.Square(&r).SubAssign(&J).SubAssign(&V).SubAssign(&V)
	J.MulAssign(&p.Y).Double(&J)
	p.Y.Sub(&V, &p.X).MulAssign(&r)
	p.Y.SubAssign(&J)
	p.Z.AddAssign(&H).Square(&p.Z).SubAssign(&Z1Z1).SubAssign(&HH)

	return p
}

// Double doubles a point in Jacobian coordinates
func (p *G1Jac) Double(a *G1Jac) *G1Jac {
	p.Set(a)
	return p.DoubleAssign()
}

// DoubleAssign doubles p in place
// https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian-0.html#doubling-dbl-2009-l
func (p *G1Jac) DoubleAssign() *G1Jac {
	var XX, YY, YYYY, ZZ, S, M, T fp.Element
	XX.Square(&p.X)
	YY.Square(&p.Y)
	YYYY.Square(&YY)
	ZZ.Square(&p.Z)
	S.Add(&p.X, &YY).Square(&S).SubAssign(&XX).SubAssign(&YYYY).Double(&S)
	M.Double(&XX).AddAssign(&XX)
	p.Z.AddAssign(&p.Y).Square(&p.Z).SubAssign(&YY).SubAssign(&ZZ)
	T.Square(&M)
	p.X = T
	T.Double(&S)
	p.X.SubAssign(&T)
	p.Y.Sub(&S, &p.X).MulAssign(&M)
	YYYY.Double(&YYYY).Double(&YYYY).Double(&YYYY)
	p.Y.SubAssign(&YYYY)

	return p
}

// FromAffine sets p to the Jacobian representative of a
func (p *G1Jac) FromAffine(a *G1Affine) *G1Jac {
	if a.X.IsZero() && a.Y.IsZero() {
		p.X.SetOne()
		p.Y.SetOne()
		p.Z.SetZero()
		return p
	}
	p.X = a.X
	p.Y = a.Y
	p.Z.SetOne()
	return p
}

// FromJacobian normalizes a into affine coordinates
func (p *G1Affine) FromJacobian(a *G1Jac) *G1Affine {
	if a.Z.IsZero() {
		p.X.SetZero()
		p.Y.SetZero()
		return p
	}
	var zInv, zInv2 fp.Element
	zInv.Inverse(&a.Z)
	zInv2.Square(&zInv)
	p.X.Mul(&a.X, &zInv2)
	p.Y.Mul(&a.Y, &zInv2).MulAssign(&zInv)
	return p
}

// Set sets p to the provided point
func (p *G1Affine) Set(a *G1Affine) *G1Affine {
	p.X = a.X
	p.Y = a.Y
	return p
}

// Equal tests coordinate-wise equality (which is point equality in
// affine coordinates)
func (p *G1Affine) Equal(a *G1Affine) bool {
	return p.X.Equal(&a.X) && p.Y.Equal(&a.Y)
}

// Neg sets p to the curve negative of a
func (p *G1Affine) Neg(a *G1Affine) *G1Affine {
	p.X = a.X
	if a.X.IsZero() && a.Y.IsZero() {
		p.Y.SetZero()
		return p
	}
	p.Y.Neg(&a.Y)
	return p
}

// IsInfinity reports whether p is the point at infinity
func (p *G1Affine) IsInfinity() bool {
	return p.X.IsZero() && p.Y.IsZero()
}

func (p *G1Jac) String() string {
	var a G1Affine
	a.FromJacobian(p)
	return a.String()
}

func (p *G1Affine) String() string {
	if p.IsInfinity() {
		return "O"
	}
	return "E([" + p.X.String() + "," + p.Y.String() + "])"
}

// IsOnCurve returns true if p satisfies the curve equation y^2 = x^3 + B
// (the point at infinity is on the curve)
func (p *G1Affine) IsOnCurve(curve *Curve) bool {
	if p.IsInfinity() {
		return true
	}
	var left, right fp.Element
	left.Square(&p.Y)
	right.Square(&p.X).MulAssign(&p.X).AddAssign(&curve.B)
	return left.Equal(&right)
}

// IsOnCurve returns true if p satisfies the (projective) curve equation
func (p *G1Jac) IsOnCurve(curve *Curve) bool {
	var a G1Affine
	a.FromJacobian(p)
	return a.IsOnCurve(curve)
}

// IsInSubGroup returns true if p is in the r-torsion subgroup (p must
// already be on the curve)
func (p *G1Jac) IsInSubGroup(curve *Curve) bool {
	var t G1Jac
	t.mulBig(curve, p, &curve.frModulus)
	return t.Z.IsZero()
}

// IsInSubGroup returns true if p is in the r-torsion subgroup
func (p *G1Affine) IsInSubGroup(curve *Curve) bool {
	var j G1Jac
	j.FromAffine(p)
	return j.IsInSubGroup(curve)
}

// ClearCofactor maps a curve point to the r-torsion subgroup by scalar
// multiplication with the G1 cofactor
func (p *G1Jac) ClearCofactor(curve *Curve, a *G1Jac) *G1Jac {
	return p.mulBig(curve, a, &curve.g1Cofactor)
}

// mulBig is a variable-time double-and-add scalar multiplication by an
// arbitrary (public) big.Int
func (p *G1Jac) mulBig(curve *Curve, a *G1Jac, e *big.Int) *G1Jac {
	var res G1Jac
	res.Set(&curve.g1Infinity)
	aCopy := *a
	for i := e.BitLen() - 1; i >= 0; i-- {
		res.DoubleAssign()
		if e.Bit(i) == 1 {
			res.AddAssign(curve, &aCopy)
		}
	}
	p.Set(&res)
	return p
}

// ScalarMul multiplies a by scalar. The window digits are selected with
// arithmetic masks and a dummy addition is performed for zero digits, so
// the table access pattern does not depend on the scalar. The Jacobian
// addition formulas still branch on their exceptional cases (identity
// operand, equal inputs), so a residual timing signal remains while the
// accumulator is the identity, i.e. for the scalar's leading zero
// windows.
func (p *G1Jac) ScalarMul(curve *Curve, a *G1Jac, scalar fr.Element) *G1Jac {
	// 4-bit fixed-window double-and-add
	var table [16]G1Jac
	table[0].Set(a) // dummy slot, additions selecting it are discarded
	table[1].Set(a)
	for i := 2; i < len(table); i++ {
		table[i].Set(&table[i-1]).AddAssign(curve, a)
	}

	s := scalar
	s.FromMont()

	var res, tmp, add G1Jac
	res.Set(&curve.g1Infinity)
	for k := fr.Limbs*16 - 1; k >= 0; k-- {
		res.DoubleAssign().DoubleAssign().DoubleAssign().DoubleAssign()
		digit := int((s[k/16] >> (uint(k%16) * 4)) & 0xf)

		// constant-time table lookup
		add.Set(&table[0])
		for j := 1; j < len(table); j++ {
			c := int((uint32(digit^j) - 1) >> 31) // 1 iff digit == j
			add.Select(c, &add, &table[j])
		}

		tmp.Set(&res).AddAssign(curve, &add)
		isZero := int((uint32(digit) - 1) >> 31) // 1 iff digit == 0
		res.Select(isZero, &tmp, &res)
	}
	p.Set(&res)
	return p
}

// ScalarMulByGen multiplies the G1 generator by scalar, using the
// precomputed table of generator multiples
func (p *G1Jac) ScalarMulByGen(curve *Curve, scalar fr.Element) *G1Jac {
	s := scalar
	s.FromMont()
	var res G1Jac
	res.Set(&curve.g1Infinity)
	for k := fr.Limbs*16 - 1; k >= 0; k-- {
		res.DoubleAssign().DoubleAssign().DoubleAssign().DoubleAssign()
		digit := (s[k/16] >> (uint(k%16) * 4)) & 0xf
		if digit != 0 {
			res.AddAssign(curve, &curve.tGenG1[digit-1])
		}
	}
	p.Set(&res)
	return p
}

// WindowedMultiExp sets p = sum_i scalars[i]*points[i], splitting the
// input across the available CPUs and reducing each share with the
// windowed bucket method. Variable time, for public data only.
func (p *G1Jac) WindowedMultiExp(curve *Curve, points []G1Jac, scalars []fr.Element) *G1Jac {
	debug.Assert(len(scalars) == len(points), "windowedMultiExp: mismatched slice lengths")
	p.Set(&curve.g1Infinity)
	if len(points) == 0 {
		return p
	}
	var lock sync.Mutex
	parallel.Execute(0, len(points), func(start, end int) {
		var t G1Jac
		t.windowedMultiExp(curve, points[start:end], scalars[start:end])
		lock.Lock()
		p.AddAssign(curve, &t)
		lock.Unlock()
	})
	return p
}

// windowedMultiExp reduces one share of the input serially
func (p *G1Jac) windowedMultiExp(curve *Curve, points []G1Jac, scalars []fr.Element) *G1Jac {
	const c = 4
	const nbChunks = (fr.Bits + c - 1) / c

	regular := make([]fr.Element, len(scalars))
	for i := 0; i < len(scalars); i++ {
		regular[i] = scalars[i]
		regular[i].FromMont()
	}

	var res G1Jac
	res.Set(&curve.g1Infinity)
	for chunk := nbChunks - 1; chunk >= 0; chunk-- {
		if chunk != nbChunks-1 {
			for i := 0; i < c; i++ {
				res.DoubleAssign()
			}
		}
		var buckets [(1 << c) - 1]G1Jac
		occupied := bitset.New(uint(len(buckets)))
		for i := 0; i < len(regular); i++ {
			digit := (regular[i][chunk/16] >> (uint(chunk%16) * 4)) & 0xf
			if digit == 0 {
				continue
			}
			if !occupied.Test(uint(digit - 1)) {
				buckets[digit-1].Set(&points[i])
				occupied.Set(uint(digit - 1))
			} else {
				buckets[digit-1].AddAssign(curve, &points[i])
			}
		}

		// sum_j (j+1)*buckets[j] folded into res with a running sum
		var runningSum G1Jac
		runningSum.Set(&curve.g1Infinity)
		for j := len(buckets) - 1; j >= 0; j-- {
			if occupied.Test(uint(j)) {
				runningSum.AddAssign(curve, &buckets[j])
			}
			res.AddAssign(curve, &runningSum)
		}
	}
	p.Set(&res)
	return p
}

// MultiExp sets p = sum_i scalars[i]*points[i] and returns a channel that
// yields the result once it is computed. Infinity points are allowed, a
// zero scalar skips its point.
func (p *G1Jac) MultiExp(curve *Curve, points []G1Affine, scalars []fr.Element) chan G1Jac {
	debug.Assert(len(scalars) == len(points), "multiExp: mismatched slice lengths")
	chRes := make(chan G1Jac, 1)

	go func() {
		// Pippenger bucket method, c-bit windows processed in parallel
		const c = 4
		const nbChunks = (fr.Bits + c - 1) / c

		// scalars in regular form, extracted once
		regular := make([]fr.Element, len(scalars))
		for i := 0; i < len(scalars); i++ {
			regular[i] = scalars[i]
			regular[i].FromMont()
		}

		var chunks [nbChunks]G1Jac
		parallel.Execute(0, nbChunks, func(start, end int) {
			for chunk := start; chunk < end; chunk++ {
				var buckets [(1 << c) - 1]G1Jac
				occupied := bitset.New(uint(len(buckets)))
				for i := 0; i < len(regular); i++ {
					digit := (regular[i][chunk/16] >> (uint(chunk%16) * 4)) & 0xf
					if digit == 0 {
						continue
					}
					if !occupied.Test(uint(digit - 1)) {
						buckets[digit-1].FromAffine(&points[i])
						occupied.Set(uint(digit - 1))
					} else {
						buckets[digit-1].AddMixed(&points[i])
					}
				}

				// sum_j (j+1)*buckets[j] with two running sums
				var runningSum, acc G1Jac
				runningSum.Set(&curve.g1Infinity)
				acc.Set(&curve.g1Infinity)
				for j := len(buckets) - 1; j >= 0; j-- {
					if occupied.Test(uint(j)) {
						runningSum.AddAssign(curve, &buckets[j])
					}
					acc.AddAssign(curve, &runningSum)
				}
				chunks[chunk] = acc
			}
		})

		var res G1Jac
		res.Set(&chunks[nbChunks-1])
		for chunk := nbChunks - 2; chunk >= 0; chunk-- {
			for i := 0; i < c; i++ {
				res.DoubleAssign()
			}
			res.AddAssign(curve, &chunks[chunk])
		}
		p.Set(&res)
		chRes <- *p
	}()
	return chRes
}
