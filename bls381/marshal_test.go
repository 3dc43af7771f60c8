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
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/consensys/gurvy/bls381/fp"
)

func genG1Affine(curve *Curve) gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		p := randomG1(curve)
		var a G1Affine
		a.FromJacobian(&p)
		return gopter.NewGenResult(a, gopter.NoShrinker)
	}
}

func genG2Affine(curve *Curve) gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		p := randomG2(curve)
		var a G2Affine
		a.FromJacobian(&p)
		return gopter.NewGenResult(a, gopter.NoShrinker)
	}
}

func TestG1Serialization(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10
	properties := gopter.NewProperties(parameters)

	properties.Property("compressed round trip", prop.ForAll(
		func(a G1Affine) bool {
			buf := a.Bytes()
			var back G1Affine
			n, err := back.SetBytes(curve, buf[:])
			return err == nil && n == SizeOfG1Compressed && back.Equal(&a)
		},
		genG1Affine(curve),
	))

	properties.Property("uncompressed round trip", prop.ForAll(
		func(a G1Affine) bool {
			buf := a.RawBytes()
			var back G1Affine
			n, err := back.SetBytes(curve, buf[:])
			return err == nil && n == SizeOfG1Uncompressed && back.Equal(&a)
		},
		genG1Affine(curve),
	))

	properties.Property("unchecked decoding agrees on subgroup points", prop.ForAll(
		func(a G1Affine) bool {
			buf := a.Bytes()
			var back G1Affine
			_, err := back.SetBytesUnchecked(curve, buf[:])
			return err == nil && back.Equal(&a)
		},
		genG1Affine(curve),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestG1SerializationInfinity(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	var inf G1Affine
	buf := inf.Bytes()
	require.Equal(t, mCompressed|mInfinity, buf[0])
	var back G1Affine
	n, err := back.SetBytes(curve, buf[:])
	require.NoError(t, err)
	require.Equal(t, SizeOfG1Compressed, n)
	require.True(t, back.IsInfinity())

	raw := inf.RawBytes()
	require.Equal(t, mInfinity, raw[0])
	n, err = back.SetBytes(curve, raw[:])
	require.NoError(t, err)
	require.Equal(t, SizeOfG1Uncompressed, n)
	require.True(t, back.IsInfinity())
}

func TestG1SerializationErrors(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	g := curve.G1Gen()
	var back G1Affine

	// short buffer
	_, err := back.SetBytes(curve, nil)
	require.ErrorIs(t, err, ErrInvalidEncoding)
	buf := g.Bytes()
	_, err = back.SetBytes(curve, buf[:SizeOfG1Compressed-1])
	require.ErrorIs(t, err, ErrInvalidEncoding)

	// the y-sort flag is reserved for compressed encodings
	raw := g.RawBytes()
	raw[0] |= mYLargest
	_, err = back.SetBytes(curve, raw[:])
	require.ErrorIs(t, err, ErrInvalidEncoding)

	// infinity with a non-zero body
	bad := make([]byte, SizeOfG1Compressed)
	bad[0] = mCompressed | mInfinity
	bad[17] = 1
	_, err = back.SetBytes(curve, bad)
	require.ErrorIs(t, err, ErrInvalidEncoding)

	// x coordinate outside the field
	q := fp.Modulus()
	tooBig := make([]byte, SizeOfG1Compressed)
	q.FillBytes(tooBig)
	tooBig[0] |= mCompressed
	_, err = back.SetBytes(curve, tooBig)
	require.ErrorIs(t, err, fp.ErrNotInField)

	// x with no matching y on the curve: walk from the generator's x
	// until x^3+4 is a non-residue
	var x, ySquared fp.Element
	x.Set(&g.X)
	var one fp.Element
	one.SetOne()
	for {
		x.AddAssign(&one)
		ySquared.Square(&x).MulAssign(&x).AddAssign(&curve.B)
		if ySquared.Legendre() == -1 {
			break
		}
	}
	notOnCurve := make([]byte, SizeOfG1Compressed)
	xb := x.Bytes()
	copy(notOnCurve, xb[:])
	notOnCurve[0] |= mCompressed
	_, err = back.SetBytes(curve, notOnCurve)
	require.ErrorIs(t, err, ErrPointNotOnCurve)
}

func TestG1SerializationSubGroup(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	full := randomG1FullGroup(curve)
	if full.IsInSubGroup(curve) {
		t.Skip("sampled a subgroup point by chance")
	}
	var aff G1Affine
	aff.FromJacobian(&full)
	raw := aff.RawBytes()

	var back G1Affine
	_, err := back.SetBytes(curve, raw[:])
	require.ErrorIs(t, err, ErrPointNotInSubGroup)

	// the unchecked decoder accepts it
	_, err = back.SetBytesUnchecked(curve, raw[:])
	require.NoError(t, err)
	require.True(t, back.Equal(&aff))
}

func TestG2Serialization(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10
	properties := gopter.NewProperties(parameters)

	properties.Property("compressed round trip", prop.ForAll(
		func(a G2Affine) bool {
			buf := a.Bytes()
			var back G2Affine
			n, err := back.SetBytes(curve, buf[:])
			return err == nil && n == SizeOfG2Compressed && back.Equal(&a)
		},
		genG2Affine(curve),
	))

	properties.Property("uncompressed round trip", prop.ForAll(
		func(a G2Affine) bool {
			buf := a.RawBytes()
			var back G2Affine
			n, err := back.SetBytes(curve, buf[:])
			return err == nil && n == SizeOfG2Uncompressed && back.Equal(&a)
		},
		genG2Affine(curve),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestG2SerializationSubGroup(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	full := randomG2FullGroup(curve)
	if full.IsInSubGroup(curve) {
		t.Skip("sampled a subgroup point by chance")
	}
	var aff G2Affine
	aff.FromJacobian(&full)
	raw := aff.RawBytes()

	var back G2Affine
	_, err := back.SetBytes(curve, raw[:])
	require.ErrorIs(t, err, ErrPointNotInSubGroup)

	_, err = back.SetBytesUnchecked(curve, raw[:])
	require.NoError(t, err)
	require.True(t, back.Equal(&aff))
}

func TestBatchDecode(t *testing.T) {
	t.Parallel()
	curve := BLS381()

	const n = 16
	expected := make([]G1Affine, n)
	bufs := make([][]byte, n)
	for i := 0; i < n; i++ {
		p := randomG1(curve)
		expected[i].FromJacobian(&p)
		b := expected[i].Bytes()
		bufs[i] = b[:]
	}

	decoded, err := BatchDecodeG1Affine(curve, bufs)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.True(t, decoded[i].Equal(&expected[i]))
	}

	// one corrupt entry fails the batch
	bufs[5] = bufs[5][:SizeOfG1Compressed-1]
	_, err = BatchDecodeG1Affine(curve, bufs)
	require.Error(t, err)

	// G2 side
	expected2 := make([]G2Affine, n)
	bufs2 := make([][]byte, n)
	for i := 0; i < n; i++ {
		p := randomG2(curve)
		expected2[i].FromJacobian(&p)
		b := expected2[i].RawBytes()
		bufs2[i] = b[:]
	}
	decoded2, err := BatchDecodeG2Affine(curve, bufs2)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.True(t, decoded2[i].Equal(&expected2[i]))
	}
}

func BenchmarkG1Decompress(b *testing.B) {
	curve := BLS381()
	g := curve.G1Gen()
	buf := g.Bytes()
	var back G1Affine
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = back.SetBytes(curve, buf[:])
	}
}
