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

// Package fr contains field arithmetic operations modulo
// r = 0x73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001,
// the order of the BLS381 G1 and G2 groups (the scalar field).
//
// Elements are stored in Montgomery form (z*2^256 mod r).
package fr

import (
	"crypto/rand"
	"io"
	"math/big"
	"math/bits"
)

// Limbs number of 64 bits words needed to represent an Element
const Limbs = 4

// Bits number of bits needed to represent an Element
const Bits = 255

// Bytes number of bytes needed to represent an Element
const Bytes = Limbs * 8

// Element represents a field element stored on 4 words (uint64)
// Element is in Montgomery form
type Element [Limbs]uint64

const modulusHex = "73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001"

var (
	qElement Element // r, the modulus, in regular form
	rSquare  Element // (2^256)^2 mod r
	rOne     Element // 2^256 mod r, the Montgomery form of 1

	qInvNeg uint64 // -r^(-1) mod 2^64

	_modulus  big.Int
	qMinusTwo big.Int
)

func init() {
	if _, ok := _modulus.SetString(modulusHex, 16); !ok {
		panic("fr: invalid modulus")
	}

	fromBig(&qElement, &_modulus)

	var radix, qLow, inv big.Int
	radix.Lsh(big.NewInt(1), 64)
	qLow.Mod(&_modulus, &radix)
	inv.ModInverse(&qLow, &radix)
	inv.Sub(&radix, &inv)
	qInvNeg = inv.Uint64()

	var t big.Int
	t.Lsh(big.NewInt(1), 256).Mod(&t, &_modulus)
	fromBig(&rOne, &t)
	t.Lsh(big.NewInt(1), 512).Mod(&t, &_modulus)
	fromBig(&rSquare, &t)

	qMinusTwo.Sub(&_modulus, big.NewInt(2))
}

// Modulus returns r as a big.Int
// r = 52435875175126190479447740508185965837690552500527637822603658699938581184513
func Modulus() *big.Int {
	return new(big.Int).Set(&_modulus)
}

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

// SetBigInt sets z = v mod r (v is converted in Montgomery form)
func (z *Element) SetBigInt(v *big.Int) *Element {
	var t big.Int
	t.Mod(v, &_modulus)
	fromBig(z, &t)
	return z.Mul(z, &rSquare)
}

// SetString sets z from a decimal or 0x-prefixed hexadecimal string,
// reduced mod r. It panics if the string is not a valid number.
func (z *Element) SetString(s string) *Element {
	var v big.Int
	if _, ok := v.SetString(s, 0); !ok {
		panic("fr: invalid number " + s)
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
		buf[0] &= 0x7f
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
	return (z[0] | z[1] | z[2] | z[3]) == 0
}

// IsOne returns z == 1
func (z *Element) IsOne() bool {
	return z.Equal(&rOne)
}

// Equal returns z == x
func (z *Element) Equal(x *Element) bool {
	return z[0] == x[0] && z[1] == x[1] && z[2] == x[2] && z[3] == x[3]
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
	return false
}

func subModulus(z *Element) {
	var b uint64
	z[0], b = bits.Sub64(z[0], qElement[0], 0)
	z[1], b = bits.Sub64(z[1], qElement[1], b)
	z[2], b = bits.Sub64(z[2], qElement[2], b)
	z[3], _ = bits.Sub64(z[3], qElement[3], b)
}

// Add z = x + y mod r
func (z *Element) Add(x, y *Element) *Element {
	var carry uint64
	z[0], carry = bits.Add64(x[0], y[0], 0)
	z[1], carry = bits.Add64(x[1], y[1], carry)
	z[2], carry = bits.Add64(x[2], y[2], carry)
	z[3], _ = bits.Add64(x[3], y[3], carry)
	// r fits on 255 bits: the sum cannot overflow 4 words
	if !smallerThanModulus(z) {
		subModulus(z)
	}
	return z
}

// AddAssign z = z + x mod r
func (z *Element) AddAssign(x *Element) *Element {
	return z.Add(z, x)
}

// Double z = 2 * x mod r
func (z *Element) Double(x *Element) *Element {
	return z.Add(x, x)
}

// Sub z = x - y mod r
func (z *Element) Sub(x, y *Element) *Element {
	var b uint64
	z[0], b = bits.Sub64(x[0], y[0], 0)
	z[1], b = bits.Sub64(x[1], y[1], b)
	z[2], b = bits.Sub64(x[2], y[2], b)
	z[3], b = bits.Sub64(x[3], y[3], b)
	if b != 0 {
		var c uint64
		z[0], c = bits.Add64(z[0], qElement[0], 0)
		z[1], c = bits.Add64(z[1], qElement[1], c)
		z[2], c = bits.Add64(z[2], qElement[2], c)
		z[3], _ = bits.Add64(z[3], qElement[3], c)
	}
	return z
}

// SubAssign z = z - x mod r
func (z *Element) SubAssign(x *Element) *Element {
	return z.Sub(z, x)
}

// Neg z = r - x
func (z *Element) Neg(x *Element) *Element {
	if x.IsZero() {
		return z.SetZero()
	}
	var b uint64
	z[0], b = bits.Sub64(qElement[0], x[0], 0)
	z[1], b = bits.Sub64(qElement[1], x[1], b)
	z[2], b = bits.Sub64(qElement[2], x[2], b)
	z[3], _ = bits.Sub64(qElement[3], x[3], b)
	return z
}

func madd0(a, b, c uint64) (hi uint64) {
	var carry, lo uint64
	hi, lo = bits.Mul64(a, b)
	_, carry = bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return
}

func madd1(a, b, c uint64) (hi uint64, lo uint64) {
	var carry uint64
	hi, lo = bits.Mul64(a, b)
	lo, carry = bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return
}

func madd2(a, b, c, d uint64) (hi uint64, lo uint64) {
	var carry uint64
	hi, lo = bits.Mul64(a, b)
	c, carry = bits.Add64(c, d, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	lo, carry = bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return
}

// Mul z = x * y mod r (CIOS Montgomery multiplication)
func (z *Element) Mul(x, y *Element) *Element {
	var t [Limbs + 2]uint64

	for i := 0; i < Limbs; i++ {
		var c uint64
		c, t[0] = madd1(y[i], x[0], t[0])
		for j := 1; j < Limbs; j++ {
			c, t[j] = madd2(y[i], x[j], t[j], c)
		}
		t[Limbs], t[Limbs+1] = bits.Add64(t[Limbs], c, 0)

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

// MulAssign z = z * x mod r
func (z *Element) MulAssign(x *Element) *Element {
	return z.Mul(z, x)
}

// Square z = x * x mod r
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

// SetBytes sets z from a big-endian byte slice, reduced mod r
func (z *Element) SetBytes(e []byte) *Element {
	var v big.Int
	v.SetBytes(e)
	return z.SetBigInt(&v)
}

// Exp z = x^e mod r (e is treated as public data)
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

// Inverse z = x^-1 mod r
//
// The exponentiation schedule is fixed (x^(r-2)); x == 0 is outside the
// domain and yields an unspecified result.
func (z *Element) Inverse(x *Element) *Element {
	return z.Exp(*x, &qMinusTwo)
}
