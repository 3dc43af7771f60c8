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
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/consensys/gurvy/bls381/fp"
)

// Serialized sizes, in bytes. The format is the one introduced by ZCash:
// a compressed point stores the x coordinate only, with three flag bits
// folded in the most significant byte.
const (
	SizeOfG1Compressed   = fp.Bytes
	SizeOfG1Uncompressed = 2 * fp.Bytes
	SizeOfG2Compressed   = 2 * fp.Bytes
	SizeOfG2Uncompressed = 4 * fp.Bytes
	SizeOfGT             = 12 * fp.Bytes
)

// flag bits of the most significant byte of an encoded point
const (
	mCompressed byte = 0x80 // compressed encoding
	mInfinity   byte = 0x40 // point at infinity
	mYLargest   byte = 0x20 // y is the lexicographically largest of the two roots
	mFlags      byte = mCompressed | mInfinity | mYLargest
)

// Decoding error taxonomy. Each decoder reports the first failed layer:
// the shape of the buffer, field membership of the coordinates, the curve
// equation, then the subgroup.
var (
	ErrInvalidEncoding    = errors.New("invalid point encoding")
	ErrPointNotOnCurve    = errors.New("point is not on the curve")
	ErrPointNotInSubGroup = errors.New("point is not in the correct subgroup")
)

// Bytes returns the compressed serialization of p
func (p *G1Affine) Bytes() (res [SizeOfG1Compressed]byte) {
	if p.IsInfinity() {
		res[0] = mCompressed | mInfinity
		return
	}
	x := p.X.Bytes()
	copy(res[:], x[:])
	res[0] |= mCompressed
	if p.Y.LexicographicallyLargest() {
		res[0] |= mYLargest
	}
	return
}

// RawBytes returns the uncompressed serialization of p
func (p *G1Affine) RawBytes() (res [SizeOfG1Uncompressed]byte) {
	if p.IsInfinity() {
		res[0] = mInfinity
		return
	}
	x := p.X.Bytes()
	y := p.Y.Bytes()
	copy(res[:fp.Bytes], x[:])
	copy(res[fp.Bytes:], y[:])
	return
}

// SetBytes decodes p from buf (compressed or uncompressed), validating
// field membership, the curve equation and subgroup membership. It
// returns the number of bytes read.
func (p *G1Affine) SetBytes(curve *Curve, buf []byte) (int, error) {
	n, err := p.setBytes(curve, buf, true)
	return n, err
}

// SetBytesUnchecked is SetBytes without the subgroup check. It is meant
// for callers that obtained the encoding from a trusted source; feeding
// the resulting point to ScalarMul or Pair without the check breaks
// their guarantees.
func (p *G1Affine) SetBytesUnchecked(curve *Curve, buf []byte) (int, error) {
	return p.setBytes(curve, buf, false)
}

func (p *G1Affine) setBytes(curve *Curve, buf []byte, subGroupCheck bool) (int, error) {
	if len(buf) < SizeOfG1Compressed {
		return 0, ErrInvalidEncoding
	}
	flags := buf[0] & mFlags

	if flags&mCompressed == 0 {
		// uncompressed encoding
		if len(buf) < SizeOfG1Uncompressed {
			return 0, ErrInvalidEncoding
		}
		if flags&mYLargest != 0 {
			return 0, ErrInvalidEncoding
		}
		if flags&mInfinity != 0 {
			if !isZeroed(buf[0]&^mFlags, buf[1:SizeOfG1Uncompressed]) {
				return 0, ErrInvalidEncoding
			}
			p.X.SetZero()
			p.Y.SetZero()
			return SizeOfG1Uncompressed, nil
		}

		var raw [fp.Bytes]byte
		copy(raw[:], buf[:fp.Bytes])
		raw[0] &= ^mFlags
		if err := p.X.SetBytesCanonical(raw[:]); err != nil {
			return 0, err
		}
		if err := p.Y.SetBytesCanonical(buf[fp.Bytes:SizeOfG1Uncompressed]); err != nil {
			return 0, err
		}
		if !p.IsOnCurve(curve) {
			return 0, ErrPointNotOnCurve
		}
		if subGroupCheck && !p.IsInSubGroup(curve) {
			return 0, ErrPointNotInSubGroup
		}
		return SizeOfG1Uncompressed, nil
	}

	// compressed encoding
	if flags&mInfinity != 0 {
		if flags&mYLargest != 0 || !isZeroed(buf[0]&^mFlags, buf[1:SizeOfG1Compressed]) {
			return 0, ErrInvalidEncoding
		}
		p.X.SetZero()
		p.Y.SetZero()
		return SizeOfG1Compressed, nil
	}

	var raw [fp.Bytes]byte
	copy(raw[:], buf[:fp.Bytes])
	raw[0] &= ^mFlags
	if err := p.X.SetBytesCanonical(raw[:]); err != nil {
		return 0, err
	}

	var ySquared fp.Element
	ySquared.Square(&p.X).MulAssign(&p.X).AddAssign(&curve.B)
	if p.Y.Sqrt(&ySquared) == nil {
		return 0, ErrPointNotOnCurve
	}
	if p.Y.LexicographicallyLargest() != (flags&mYLargest != 0) {
		p.Y.Neg(&p.Y)
	}
	if subGroupCheck && !p.IsInSubGroup(curve) {
		return 0, ErrPointNotInSubGroup
	}
	return SizeOfG1Compressed, nil
}

// Bytes returns the compressed serialization of p. The x coordinate is
// stored as x.A1 || x.A0.
func (p *G2Affine) Bytes() (res [SizeOfG2Compressed]byte) {
	if p.IsInfinity() {
		res[0] = mCompressed | mInfinity
		return
	}
	a1 := p.X.A1.Bytes()
	a0 := p.X.A0.Bytes()
	copy(res[:fp.Bytes], a1[:])
	copy(res[fp.Bytes:], a0[:])
	res[0] |= mCompressed
	if p.Y.LexicographicallyLargest() {
		res[0] |= mYLargest
	}
	return
}

// RawBytes returns the uncompressed serialization of p
func (p *G2Affine) RawBytes() (res [SizeOfG2Uncompressed]byte) {
	if p.IsInfinity() {
		res[0] = mInfinity
		return
	}
	xa1 := p.X.A1.Bytes()
	xa0 := p.X.A0.Bytes()
	ya1 := p.Y.A1.Bytes()
	ya0 := p.Y.A0.Bytes()
	copy(res[:fp.Bytes], xa1[:])
	copy(res[fp.Bytes:2*fp.Bytes], xa0[:])
	copy(res[2*fp.Bytes:3*fp.Bytes], ya1[:])
	copy(res[3*fp.Bytes:], ya0[:])
	return
}

// SetBytes decodes p from buf (compressed or uncompressed), validating
// field membership, the twist equation and subgroup membership. It
// returns the number of bytes read.
func (p *G2Affine) SetBytes(curve *Curve, buf []byte) (int, error) {
	return p.setBytes(curve, buf, true)
}

// SetBytesUnchecked is SetBytes without the subgroup check
func (p *G2Affine) SetBytesUnchecked(curve *Curve, buf []byte) (int, error) {
	return p.setBytes(curve, buf, false)
}

func (p *G2Affine) setBytes(curve *Curve, buf []byte, subGroupCheck bool) (int, error) {
	if len(buf) < SizeOfG2Compressed {
		return 0, ErrInvalidEncoding
	}
	flags := buf[0] & mFlags

	if flags&mCompressed == 0 {
		// uncompressed encoding
		if len(buf) < SizeOfG2Uncompressed {
			return 0, ErrInvalidEncoding
		}
		if flags&mYLargest != 0 {
			return 0, ErrInvalidEncoding
		}
		if flags&mInfinity != 0 {
			if !isZeroed(buf[0]&^mFlags, buf[1:SizeOfG2Uncompressed]) {
				return 0, ErrInvalidEncoding
			}
			p.X.SetZero()
			p.Y.SetZero()
			return SizeOfG2Uncompressed, nil
		}

		var raw [fp.Bytes]byte
		copy(raw[:], buf[:fp.Bytes])
		raw[0] &= ^mFlags
		if err := p.X.A1.SetBytesCanonical(raw[:]); err != nil {
			return 0, err
		}
		if err := p.X.A0.SetBytesCanonical(buf[fp.Bytes : 2*fp.Bytes]); err != nil {
			return 0, err
		}
		if err := p.Y.A1.SetBytesCanonical(buf[2*fp.Bytes : 3*fp.Bytes]); err != nil {
			return 0, err
		}
		if err := p.Y.A0.SetBytesCanonical(buf[3*fp.Bytes : 4*fp.Bytes]); err != nil {
			return 0, err
		}
		if !p.IsOnCurve(curve) {
			return 0, ErrPointNotOnCurve
		}
		if subGroupCheck && !p.IsInSubGroup(curve) {
			return 0, ErrPointNotInSubGroup
		}
		return SizeOfG2Uncompressed, nil
	}

	// compressed encoding
	if flags&mInfinity != 0 {
		if flags&mYLargest != 0 || !isZeroed(buf[0]&^mFlags, buf[1:SizeOfG2Compressed]) {
			return 0, ErrInvalidEncoding
		}
		p.X.SetZero()
		p.Y.SetZero()
		return SizeOfG2Compressed, nil
	}

	var raw [fp.Bytes]byte
	copy(raw[:], buf[:fp.Bytes])
	raw[0] &= ^mFlags
	if err := p.X.A1.SetBytesCanonical(raw[:]); err != nil {
		return 0, err
	}
	if err := p.X.A0.SetBytesCanonical(buf[fp.Bytes : 2*fp.Bytes]); err != nil {
		return 0, err
	}

	var ySquared e2
	ySquared.Square(&p.X).MulAssign(&p.X).AddAssign(&curve.Btwist)
	if p.Y.Sqrt(&ySquared) == nil {
		return 0, ErrPointNotOnCurve
	}
	if p.Y.LexicographicallyLargest() != (flags&mYLargest != 0) {
		p.Y.Neg(&p.Y)
	}
	if subGroupCheck && !p.IsInSubGroup(curve) {
		return 0, ErrPointNotInSubGroup
	}
	return SizeOfG2Compressed, nil
}

func isZeroed(head byte, rest []byte) bool {
	if head != 0 {
		return false
	}
	for _, b := range rest {
		if b != 0 {
			return false
		}
	}
	return true
}

// Bytes returns the serialization of z: the twelve fp coordinates in
// order C0.B0.A0 ... C1.B2.A1, each as a big-endian canonical integer
func (z *e12) Bytes() (res [SizeOfGT]byte) {
	coords := [...]*fp.Element{
		&z.C0.B0.A0, &z.C0.B0.A1, &z.C0.B1.A0, &z.C0.B1.A1, &z.C0.B2.A0, &z.C0.B2.A1,
		&z.C1.B0.A0, &z.C1.B0.A1, &z.C1.B1.A0, &z.C1.B1.A1, &z.C1.B2.A0, &z.C1.B2.A1,
	}
	for i, c := range coords {
		b := c.Bytes()
		copy(res[i*fp.Bytes:], b[:])
	}
	return
}

// SetBytes sets z from a buffer produced by Bytes, rejecting non
// canonical coordinates
func (z *e12) SetBytes(buf []byte) error {
	if len(buf) < SizeOfGT {
		return ErrInvalidEncoding
	}
	coords := [...]*fp.Element{
		&z.C0.B0.A0, &z.C0.B0.A1, &z.C0.B1.A0, &z.C0.B1.A1, &z.C0.B2.A0, &z.C0.B2.A1,
		&z.C1.B0.A0, &z.C1.B0.A1, &z.C1.B1.A0, &z.C1.B1.A1, &z.C1.B2.A0, &z.C1.B2.A1,
	}
	for i, c := range coords {
		if err := c.SetBytesCanonical(buf[i*fp.Bytes : (i+1)*fp.Bytes]); err != nil {
			return err
		}
	}
	return nil
}

// BatchDecodeG1Affine decodes the provided buffers concurrently. It
// fails on the first decoding error.
func BatchDecodeG1Affine(curve *Curve, bufs [][]byte) ([]G1Affine, error) {
	points := make([]G1Affine, len(bufs))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range bufs {
		i := i
		g.Go(func() error {
			_, err := points[i].SetBytes(curve, bufs[i])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// BatchDecodeG2Affine decodes the provided buffers concurrently. It
// fails on the first decoding error.
func BatchDecodeG2Affine(curve *Curve, bufs [][]byte) ([]G2Affine, error) {
	points := make([]G2Affine, len(bufs))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range bufs {
		i := i
		g.Go(func() error {
			_, err := points[i].SetBytes(curve, bufs[i])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
