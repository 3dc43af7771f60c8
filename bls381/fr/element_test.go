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

package fr

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

func toBig(e *Element) *big.Int {
	var b big.Int
	return e.ToBigIntRegular(&b)
}

func TestElementArithmetic(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	r := Modulus()

	properties.Property("Add matches big.Int addition", prop.ForAll(
		func(a, b Element) bool {
			var c Element
			c.Add(&a, &b)
			expected := new(big.Int).Add(toBig(&a), toBig(&b))
			expected.Mod(expected, r)
			return toBig(&c).Cmp(expected) == 0
		},
		genElement(), genElement(),
	))

	properties.Property("Sub matches big.Int subtraction", prop.ForAll(
		func(a, b Element) bool {
			var c Element
			c.Sub(&a, &b)
			expected := new(big.Int).Sub(toBig(&a), toBig(&b))
			expected.Mod(expected, r)
			return toBig(&c).Cmp(expected) == 0
		},
		genElement(), genElement(),
	))

	properties.Property("Mul matches big.Int multiplication", prop.ForAll(
		func(a, b Element) bool {
			var c Element
			c.Mul(&a, &b)
			expected := new(big.Int).Mul(toBig(&a), toBig(&b))
			expected.Mod(expected, r)
			return toBig(&c).Cmp(expected) == 0
		},
		genElement(), genElement(),
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
			var res Element
			res.Exp(a, exponent)
			expected := new(big.Int).Exp(toBig(&a), exponent, r)
			return toBig(&res).Cmp(expected) == 0
		},
		genElement(), genElement(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestElementMulCarryChain(t *testing.T) {
	t.Parallel()
	r := Modulus()

	// (r-1)^2 mod r == 1: every outer iteration of the CIOS loop carries
	// out of the top accumulator word
	var rm1 big.Int
	rm1.Sub(r, big.NewInt(1))
	var a, c Element
	a.SetBigInt(&rm1)
	c.Mul(&a, &a)
	if !c.IsOne() {
		t.Fatalf("(r-1)^2 mod r = %s, want 1", c.String())
	}

	// all-ones operand against the big.Int oracle
	var x big.Int
	x.Lsh(big.NewInt(1), 250).Sub(&x, big.NewInt(1))
	var expected big.Int
	expected.Mul(&x, &x).Mod(&expected, r)
	var xe, got Element
	xe.SetBigInt(&x)
	got.Mul(&xe, &xe)
	if toBig(&got).Cmp(&expected) != 0 {
		t.Fatalf("(2^250-1)^2 mod r = %s, want %s", got.String(), expected.String())
	}
}

func TestElementConversions(t *testing.T) {
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

	properties.Property("String parses back with SetString", prop.ForAll(
		func(a Element) bool {
			var c Element
			c.SetString(a.String())
			return c.Equal(&a)
		},
		genElement(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
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
