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
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/consensys/gurvy/bls381/fp"
)

// preparedWire is the serialized form of a G2Prepared: each line is the
// canonical big-endian bytes of its six fp coordinates
// (A.A0, A.A1, B.A0, B.A1, C.A0, C.A1)
type preparedWire struct {
	Infinity bool     `cbor:"1,keyasint"`
	Coeffs   [][]byte `cbor:"2,keyasint"`
}

const lineWireSize = 6 * fp.Bytes

// WriteTo serializes pp in CBOR and returns the number of bytes written
func (pp *G2Prepared) WriteTo(w io.Writer) (int64, error) {
	wire := preparedWire{Infinity: pp.infinity}
	wire.Coeffs = make([][]byte, len(pp.coeffs))
	for i := range pp.coeffs {
		buf := make([]byte, lineWireSize)
		l := &pp.coeffs[i]
		coords := [...]*fp.Element{&l.A.A0, &l.A.A1, &l.B.A0, &l.B.A1, &l.C.A0, &l.C.A1}
		for j, c := range coords {
			b := c.Bytes()
			copy(buf[j*fp.Bytes:], b[:])
		}
		wire.Coeffs[i] = buf
	}

	cw := &countingWriter{w: w}
	if err := cbor.NewEncoder(cw).Encode(&wire); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom deserializes pp from a CBOR stream produced by WriteTo and
// returns the number of bytes read
func (pp *G2Prepared) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	var wire preparedWire
	if err := cbor.NewDecoder(cr).Decode(&wire); err != nil {
		return cr.n, err
	}

	pp.infinity = wire.Infinity
	pp.coeffs = make([]lineCoeffs, len(wire.Coeffs))
	for i, buf := range wire.Coeffs {
		if len(buf) != lineWireSize {
			return cr.n, ErrInvalidEncoding
		}
		l := &pp.coeffs[i]
		coords := [...]*fp.Element{&l.A.A0, &l.A.A1, &l.B.A0, &l.B.A1, &l.C.A0, &l.C.A1}
		for j, c := range coords {
			if err := c.SetBytesCanonical(buf[j*fp.Bytes : (j+1)*fp.Bytes]); err != nil {
				return cr.n, err
			}
		}
	}
	return cr.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
