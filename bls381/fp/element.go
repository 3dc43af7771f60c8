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

// Package fp contains field arithmetic operations modulo
// p = 0x1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab
// (the BLS381 base field).
//
// Elements are stored in Montgomery form (z*2^384 mod p); all derived
// constants are computed once from the modulus at package init.
package fp

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"math/bits"
)

// Limbs number of 64 bits words needed to represent an Element
const Limbs = 6

// Bits number of bits needed to represent an Element
const Bits = 381

// Bytes number of bytes needed to represent an Element
const Bytes = Limbs * 8

// Element represents a field element stored on 6 words (uint64)
// Element is in Montgomery form
type Element [Limbs]uint64

const modulusHex = "1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab"

var (
	qElement Element // q, the modulus, in regular form
	rSquare  Element // (2^384)^2 mod q, to move into Montgomery form
	rOne     Element // 2^384 mod q, the Montgomery form of 1

	qInvNeg uint64 // -q^(-1) mod 2^64

	_modulus       big.Int
	qMinusTwo      big.Int // exponent of the Fermat inversion
	qMinusOneDiv2  big.Int
	qPlusOneDiv4   big.Int // sqrt exponent, valid since q = 3 mod 4
	qMinusOneDiv2E Element // (q-1)/2 in regular form, for lexicographic comparisons
)

func init() {
	if _, ok := _modulus.SetString(modulusHex, 16); !ok {
		panic("fp: invalid modulus")
	}

	fromBig(&qElement, &_modulus)

	// -q^(-1) mod 2^64
	var radix, qLow, inv big.Int
	radix.Lsh(big.NewInt(1), 64)
	qLow.Mod(&_modulus, &radix)
	inv.ModInverse(&qLow, &radix)
	inv.Sub(&radix, &inv)
	qInvNeg = inv.Uint64()

	var t big.Int
	t.Lsh(big.NewInt(1), 384).Mod(&t, &_modulus)
	fromBig(&rOne, &t)
	t.Lsh(big.NewInt(1), 768).Mod(&t, &_modulus)
	fromBig(&rSquare, &t)

	qMinusTwo.Sub(&_modulus, big.NewInt(2))
	qMinusOneDiv2.Sub(&_modulus, big.NewInt(1)).Rsh(&qMinusOneDiv2, 1)
	qPlusOneDiv4.Add(&_modulus, big.NewInt(1)).Rsh(&qPlusOneDiv4, 2)
	fromBig(&qMinusOneDiv2E, &qMinusOneDiv2)
}

// Modulus returns q as a big.Int
// q = 4002409555221667393417789825735904156556882819939007885332058136124031650490837864442687629129015664037894272559787
func Modulus() *big.Int {
	return new(big.Int).Set(&_modulus)
}

// fromBig sets the limbs of z from the absolute value of v; v must fit
func fromBig(z *Element, v *big.Int) {
	var zero Element
	*z = zero
	words := v.Bits()
	for i, w := range words {
		z[i] = uint64(w)
	}
}

// SetZero z = 0
func (z *Element) SetZero() *Element {
	var zero Element
	*z = zero
	return z
}

// SetOne z = 1 (in Montgomery form)
func (z *Element) SetOne() *Element {
	*z = rOne
	return z
}

// Set z = x
func (z *Element) Set(x *Element) *Element {
	*z = *x
	return z
}

// SetUint64 z = v (v is converted in Montgomery form)
func (z *Element) SetUint64(v uint64) *Element {
	var zero Element
	*z = zero
	z[0] = v
	return z.Mul(z, &rSquare)
}

// SetBigInt sets z = v mod q (v is converted in Montgomery form)
func (z *Element) SetBigInt(v *big.Int) *Element {
	var t big.Int
	t.Mod(v, &_modulus)
	fromBig(z, &t)
	return z.Mul(z, &rSquare)
}

// SetString sets z from a decimal or 0x-prefixed hexadecimal string,
// reduced mod q. It panics if the string is not a valid number.
func (z *Element) SetString(s string) *Element {
	var v big.Int
	if _, ok := v.SetString(s, 0); !ok {
		panic("fp: invalid number " + s)
	}
	return z.SetBigInt(&v)
}

// SetRandom sets z to a uniform random value using the provided entropy source
func (z *Element) SetRandom(r io.Reader) (*Element, error) {
	var buf [Bytes]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		// mask the excess bits above the modulus bit length, then reject
		buf[0] &= 0x1f
		var v big.Int
		v.SetBytes(buf[:])
		if v.Cmp(&_modulus) < 0 {
			fromBig(z, &v)
			return z.Mul(z, &rSquare), nil
		}
	}
}

// Rand is SetRandom with crypto/rand as the entropy source
func (z *Element) Rand() *Element {
	if _, err := z.SetRandom(rand.Reader); err != nil {
		panic(err)
	}
	return z
}

// IsZero returns z == 0
func (z *Element) IsZero() bool {
	return (z[0] | z[1] | z[2] | z[3] | z[4] | z[5]) == 0
}

// IsOne returns z == 1
func (z *Element) IsOne() bool {
	return z.Equal(&rOne)
}

// Equal returns z == x
func (z *Element) Equal(x *Element) bool {
	return z[0] == x[0] && z[1] == x[1] && z[2] == x[2] && z[3] == x[3] && z[4] == x[4] && z[5] == x[5]
}

func smallerThanModulus(z *Element) bool {
	for i := Limbs - 1; i >= 0; i-- {
		if z[i] < qElement[i] {
			return true
		}
		if z[i] > qElement[i] {
			return false
		}
	}
	return false // z == q
}

func subModulus(z *Element) {
	var b uint64
	z[0], b = bits.Sub64(z[0], qElement[0], 0)
	z[1], b = bits.Sub64(z[1], qElement[1], b)
	z[2], b = bits.Sub64(z[2], qElement[2], b)
	z[3], b = bits.Sub64(z[3], qElement[3], b)
	z[4], b = bits.Sub64(z[4], qElement[4], b)
	z[5], _ = bits.Sub64(z[5], qElement[5], b)
}

// Add z = x + y mod q
func (z *Element) Add(x, y *Element) *Element {
	var carry uint64
	z[0], carry = bits.Add64(x[0], y[0], 0)
	z[1], carry = bits.Add64(x[1], y[1], carry)
	z[2], carry = bits.Add64(x[2], y[2], carry)
	z[3], carry = bits.Add64(x[3], y[3], carry)
	z[4], carry = bits.Add64(x[4], y[4], carry)
	z[5], _ = bits.Add64(x[5], y[5], carry)
	// q fits on 381 bits: the sum cannot overflow 6 words
	if !smallerThanModulus(z) {
		subModulus(z)
	}
	return z
}

// AddAssign z = z + x mod q
func (z *Element) AddAssign(x *Element) *Element {
	return z.Add(z, x)
}

// Double z = 2 * x mod q
func (z *Element) Double(x *Element) *Element {
	return z.Add(x, x)
}

// Sub z = x - y mod q
func (z *Element) Sub(x, y *Element) *Element {
	var b uint64
	z[0], b = bits.Sub64(x[0], y[0], 0)
	z[1], b = bits.Sub64(x[1], y[1], b)
	z[2], b = bits.Sub64(x[2], y[2], b)
	z[3], b = bits.Sub64(x[3], y[3], b)
	z[4], b = bits.Sub64(x[4], y[4], b)
	z[5], b = bits.Sub64(x[5], y[5], b)
	if b != 0 {
		var c uint64
		z[0], c = bits.Add64(z[0], qElement[0], 0)
		z[1], c = bits.Add64(z[1], qElement[1], c)
		z[2], c = bits.Add64(z[2], qElement[2], c)
		z[3], c = bits.Add64(z[3], qElement[3], c)
		z[4], c = bits.Add64(z[4], qElement[4], c)
		z[5], _ = bits.Add64(z[5], qElement[5], c)
	}
	return z
}

// SubAssign z = z - x mod q
func (z *Element) SubAssign(x *Element) *Element {
	return z.Sub(z, x)
}

// Neg z = q - x
func (z *Element) Neg(x *Element) *Element {
	if x.IsZero() {
		return z.SetZero()
	}
	var b uint64
	z[0], b = bits.Sub64(qElement[0], x[0], 0)
	z[1], b = bits.Sub64(qElement[1], x[1], b)
	z[2], b = bits.Sub64(qElement[2], x[2], b)
	z[3], b = bits.Sub64(qElement[3], x[3], b)
	z[4], b = bits.Sub64(qElement[4], x[4], b)
	z[5], _ = bits.Sub64(qElement[5], x[5], b)
	return z
}

// madd0 hi = a*b + c (discards lo bits)
func madd0(a, b, c uint64) (hi uint64) {
	var carry, lo uint64
	hi, lo = bits.Mul64(a, b)
	_, carry = bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return
}

// madd1 hi, lo = a*b + c
func madd1(a, b, c uint64) (hi uint64, lo uint64) {
	var carry uint64
	hi, lo = bits.Mul64(a, b)
	lo, carry = bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return
}

// madd2 hi, lo = a*b + c + d
func madd2(a, b, c, d uint64) (hi uint64, lo uint64) {
	var carry uint64
	hi, lo = bits.Mul64(a, b)
	c, carry = bits.Add64(c, d, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	lo, carry = bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return
}

// Mul z = x * y mod q (CIOS Montgomery multiplication)
func (z *Element) Mul(x, y *Element) *Element {
	// Montgomery CIOS; since q < 2^383 the intermediate result fits on
	// Limbs+1 words and a single final subtraction suffices
	var t [Limbs + 2]uint64

	for i := 0; i < Limbs; i++ {
		// t = t + x*y[i]
		var c uint64
		c, t[0] = madd1(y[i], x[0], t[0])
		for j := 1; j < Limbs; j++ {
			c, t[j] = madd2(y[i], x[j], t[j], c)
		}
		t[Limbs], t[Limbs+1] = bits.Add64(t[Limbs], c, 0)

		// t = (t + m*q) / 2^64
		m := t[0] * qInvNeg
		c = madd0(m, qElement[0], t[0])
		for j := 1; j < Limbs; j++ {
			c, t[j-1] = madd2(m, qElement[j], t[j], c)
		}
		t[Limbs-1], c = bits.Add64(t[Limbs], c, 0)
		t[Limbs] = t[Limbs+1] + c
	}

	copy(z[:], t[:Limbs])
	if !smallerThanModulus(z) {
		subModulus(z)
	}
	return z
}

// MulAssign z = z * x mod q
func (z *Element) MulAssign(x *Element) *Element {
	return z.Mul(z, x)
}

// Square z = x * x mod q
func (z *Element) Square(x *Element) *Element {
	return z.Mul(x, x)
}

// FromMont converts z in place from Montgomery to regular form
func (z *Element) FromMont() *Element {
	for i := 0; i < Limbs; i++ {
		m := z[0] * qInvNeg
		c := madd0(m, qElement[0], z[0])
		for j := 1; j < Limbs; j++ {
			c, z[j-1] = madd2(m, qElement[j], z[j], c)
		}
		z[Limbs-1] = c
	}
	if !smallerThanModulus(z) {
		subModulus(z)
	}
	return z
}

// ToMont converts z in place to Montgomery form
func (z *Element) ToMont() *Element {
	return z.Mul(z, &rSquare)
}

// ToBigIntRegular sets res to the regular (non Montgomery) value of z
func (z *Element) ToBigIntRegular(res *big.Int) *big.Int {
	t := *z
	t.FromMont()
	var b [Bytes]byte
	for i := 0; i < Limbs; i++ {
		for j := 0; j < 8; j++ {
			b[Bytes-1-8*i-j] = byte(t[i] >> (8 * j))
		}
	}
	return res.SetBytes(b[:])
}

// String returns the decimal representation of z (regular form)
func (z *Element) String() string {
	var b big.Int
	return z.ToBigIntRegular(&b).String()
}

// Bytes returns the value of z (regular form) as a fixed-width big-endian byte array
func (z *Element) Bytes() (res [Bytes]byte) {
	t := *z
	t.FromMont()
	for i := 0; i < Limbs; i++ {
		for j := 0; j < 8; j++ {
			res[Bytes-1-8*i-j] = byte(t[i] >> (8 * j))
		}
	}
	return
}

// SetBytes sets z from a big-endian byte slice, reduced mod q
func (z *Element) SetBytes(e []byte) *Element {
	var v big.Int
	v.SetBytes(e)
	return z.SetBigInt(&v)
}

// ErrNotInField is returned by SetBytesCanonical when the input is >= q
var ErrNotInField = errors.New("byte string encodes a value outside the field")

// SetBytesCanonical sets z from a big-endian byte slice of exactly Bytes
// bytes; unlike SetBytes it rejects non canonical encodings
func (z *Element) SetBytesCanonical(e []byte) error {
	if len(e) != Bytes {
		return ErrNotInField
	}
	var v big.Int
	v.SetBytes(e)
	if v.Cmp(&_modulus) >= 0 {
		return ErrNotInField
	}
	fromBig(z, &v)
	z.Mul(z, &rSquare)
	return nil
}

// Exp z = x^e mod q (e is treated as public data)
func (z *Element) Exp(x Element, e *big.Int) *Element {
	z.SetOne()
	for i := e.BitLen() - 1; i >= 0; i-- {
		z.Square(z)
		if e.Bit(i) == 1 {
			z.MulAssign(&x)
		}
	}
	return z
}

// Inverse z = x^-1 mod q
//
// The exponentiation schedule is fixed (x^(q-2)), so the sequence of
// operations does not depend on the value of x. x == 0 is outside the
// domain and yields an unspecified result.
func (z *Element) Inverse(x *Element) *Element {
	return z.Exp(*x, &qMinusTwo)
}

// Legendre returns the Legendre symbol of z (0 if z=0, 1 if z is a
// nonzero square, -1 otherwise)
func (z *Element) Legendre() int {
	var l Element
	l.Exp(*z, &qMinusOneDiv2)
	if l.IsZero() {
		return 0
	}
	if l.IsOne() {
		return 1
	}
	return -1
}

// Sqrt sets z to a square root of x if it exists, and returns z; it
// returns nil if x is not a square. Valid since q = 3 mod 4.
func (z *Element) Sqrt(x *Element) *Element {
	var y, square Element
	y.Exp(*x, &qPlusOneDiv4)
	square.Square(&y)
	if !square.Equal(x) {
		return nil
	}
	z.Set(&y)
	return z
}

// Select sets z to x0 if c == 0 and to x1 otherwise, without branching on c
func (z *Element) Select(c int, x0, x1 *Element) *Element {
	mask := uint64((int64(c) | -int64(c)) >> 63) // 0 when c == 0, all ones otherwise
	for i := 0; i < Limbs; i++ {
		z[i] = x0[i] ^ (mask & (x0[i] ^ x1[i]))
	}
	return z
}

// Cmp compares z and x (regular form): -1 if z < x, 0 if z == x, 1 if z > x
func (z *Element) Cmp(x *Element) int {
	zz, xx := *z, *x
	zz.FromMont()
	xx.FromMont()
	for i := Limbs - 1; i >= 0; i-- {
		if zz[i] > xx[i] {
			return 1
		}
		if zz[i] < xx[i] {
			return -1
		}
	}
	return 0
}

// LexicographicallyLargest returns true if z (regular form) is strictly
// larger than (q-1)/2
func (z *Element) LexicographicallyLargest() bool {
	t := *z
	t.FromMont()
	for i := Limbs - 1; i >= 0; i-- {
		if t[i] > qMinusOneDiv2E[i] {
			return true
		}
		if t[i] < qMinusOneDiv2E[i] {
			return false
		}
	}
	return false
}
