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

// Package gurvy provides elliptic curves with efficient bilinear pairings.
//
// Each supported curve lives in its own package (e.g. gurvy/bls381); this
// package only carries the curve identifiers shared by consumers that need
// to ensure two serialized artifacts were produced on the same curve.
package gurvy

// ID of a curve, used to ensure compatibility of binary artifacts
// (a proving key generated on BLS381 must not verify on BN256)
type ID uint16

// do not modify the order of this enum: IDs are serialized
const (
	UNKNOWN ID = iota
	BLS377
	BLS381
	BN256
)

func (id ID) String() string {
	switch id {
	case BLS377:
		return "bls377"
	case BLS381:
		return "bls381"
	case BN256:
		return "bn256"
	default:
		return "unknown"
	}
}
