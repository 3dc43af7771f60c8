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

package fp

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
)

func genElement() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		var e Element
		e.Rand()
		return gopter.NewGenResult(e, gopter.NoShrinker)
	}
}

// toBig is a test helper returning the regular form value
func toBig(e *Element) *big.Int {
	var b big.Int
	return e.ToBigIntRegular(&b)
}

func TestElementArithmetic(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	q := Modulus()

	properties.Property("Add matches big.Int addition", prop.ForAll(
		func(a, b Element) bool {
			var c Element
			c.Add(&a, &b)
			expected := new(big.Int).Add(toBig(&a), toBig(&b))
			expected.Mod(expected, q)
			return toBig(&c).Cmp(expected) == 0
		},
		genElement(), genElement(),
	))

	properties.Property("Sub matches big.Int subtraction", prop.ForAll(
		func(a, b Element) bool {
			var c Element
			c.Sub(&a, &b)
			expected := new(big.Int).Sub(toBig(&a), toBig(&b))
			expected.Mod(expected, q)
			return toBig(&c).Cmp(expected) == 0
		},
		genElement(), genElement(),
	))

	properties.Property("Mul matches big.Int multiplication", prop.ForAll(
		func(a, b Element) bool {
			var c Element
			c.Mul(&a, &b)
			expected := new(big.Int).Mul(toBig(&a), toBig(&b))
			expected.Mod(expected, q)
			return toBig(&c).Cmp(expected) == 0
		},
		genElement(), genElement(),
	))

	properties.Property("Square equals Mul by self", prop.ForAll(
		func(a Element) bool {
			var s, m Element
			s.Square(&a)
			m.Mul(&a, &a)
			return s.Equal(&m)
		},
		genElement(),
	))

	properties.Property("Neg is the additive inverse", prop.ForAll(
		func(a Element) bool {
			var n, sum Element
			n.Neg(&a)
			sum.Add(&a, &n)
			return sum.IsZero()
		},
		genElement(),
	))

	properties.Property("Double equals Add to self", prop.ForAll(
		func(a Element) bool {
			var d, s Element
			d.Double(&a)
			s.Add(&a, &a)
			return d.Equal(&s)
		},
		genElement(),
	))

	properties.Property("Inverse is the multiplicative inverse", prop.ForAll(
		func(a Element) bool {
			if a.IsZero() {
				return true
			}
			var inv, p Element
			inv.Inverse(&a)
			p.Mul(&a, &inv)
			return p.IsOne()
		},
		genElement(),
	))

	properties.Property("Exp matches big.Int exponentiation", prop.ForAll(
		func(a, e Element) bool {
			exponent := toBig(&e)
			var r Element
			r.Exp(a, exponent)
			expected := new(big.Int).Exp(toBig(&a), exponent, q)
			return toBig(&r).Cmp(expected) == 0
		},
		genElement(), genElement(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestElementMulCarryChain(t *testing.T) {
	t.Parallel()
	q := Modulus()

	// (q-1)^2 mod q == 1: every outer iteration of the CIOS loop carries
	// out of the top accumulator word
	var qm1 big.Int
	qm1.Sub(q, big.NewInt(1))
	var a, c Element
	a.SetBigInt(&qm1)
	c.Mul(&a, &a)
	if !c.IsOne() {
		t.Fatalf("(q-1)^2 mod q = %s, want 1", c.String())
	}

	// all-ones operand against the big.Int oracle
	var x big.Int
	x.Lsh(big.NewInt(1), 380).Sub(&x, big.NewInt(1))
	var expected big.Int
	expected.Mul(&x, &x).Mod(&expected, q)
	var xe, got Element
	xe.SetBigInt(&x)
	got.Mul(&xe, &xe)
	if toBig(&got).Cmp(&expected) != 0 {
		t.Fatalf("(2^380-1)^2 mod q = %s, want %s", got.String(), expected.String())
	}
}

func TestElementMontgomeryConversions(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("FromMont then ToMont is the identity", prop.ForAll(
		func(a Element) bool {
			b := a
			b.FromMont().ToMont()
			return b.Equal(&a)
		},
		genElement(),
	))

	properties.Property("Bytes then SetBytes is the identity", prop.ForAll(
		func(a Element) bool {
			b := a.Bytes()
			var c Element
			c.SetBytes(b[:])
			return c.Equal(&a)
		},
		genElement(),
	))

	properties.Property("SetBytesCanonical accepts canonical encodings", prop.ForAll(
		func(a Element) bool {
			b := a.Bytes()
			var c Element
			if err := c.SetBytesCanonical(b[:]); err != nil {
				return false
			}
			return c.Equal(&a)
		},
		genElement(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestElementSetBytesCanonicalRejectsModulus(t *testing.T) {
	t.Parallel()
	q := Modulus()
	buf := make([]byte, Bytes)
	q.FillBytes(buf)

	var e Element
	if err := e.SetBytesCanonical(buf); err != ErrNotInField {
		t.Fatal("expected ErrNotInField for the modulus itself")
	}

	if err := e.SetBytesCanonical(buf[1:]); err != ErrNotInField {
		t.Fatal("expected ErrNotInField for a short buffer")
	}
}

func TestElementSqrt(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("Sqrt of a square recovers the value up to sign", prop.ForAll(
		func(a Element) bool {
			var square, root, check Element
			square.Square(&a)
			if root.Sqrt(&square) == nil {
				return false
			}
			check.Square(&root)
			return check.Equal(&square)
		},
		genElement(),
	))

	properties.Property("Legendre symbol of a nonzero square is 1", prop.ForAll(
		func(a Element) bool {
			if a.IsZero() {
				return true
			}
			var square Element
			square.Square(&a)
			return square.Legendre() == 1
		},
		genElement(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestElementSelect(t *testing.T) {
	t.Parallel()
	var a, b, c Element
	a.SetUint64(42)
	b.SetUint64(1337)

	c.Select(0, &a, &b)
	if !c.Equal(&a) {
		t.Fatal("Select(0) must pick the first operand")
	}
	c.Select(1, &a, &b)
	if !c.Equal(&b) {
		t.Fatal("Select(1) must pick the second operand")
	}
}

func TestElementLexicographicallyLargest(t *testing.T) {
	t.Parallel()
	var one, minusOne Element
	one.SetOne()
	minusOne.Neg(&one)

	if one.LexicographicallyLargest() {
		t.Fatal("1 is not larger than (q-1)/2")
	}
	if !minusOne.LexicographicallyLargest() {
		t.Fatal("q-1 is larger than (q-1)/2")
	}

	// an element and its negation never agree
	var a, n Element
	a.Rand()
	if a.IsZero() {
		a.SetOne()
	}
	n.Neg(&a)
	if a.LexicographicallyLargest() == n.LexicographicallyLargest() {
		t.Fatal("exactly one of a, -a must be lexicographically largest")
	}
}

func BenchmarkElementMul(b *testing.B) {
	var x, y Element
	x.Rand()
	y.Rand()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x.Mul(&x, &y)
	}
}

func BenchmarkElementInverse(b *testing.B) {
	var x Element
	x.Rand()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x.Inverse(&x)
	}
}
