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

// Package debug hosts assertions on internal invariants.
//
// Violating an assertion is a programming error, not a recoverable
// condition: the arithmetic preconditions (non-zero inverses, matching
// slice lengths) are part of the API contract and a caller breaking them
// would otherwise get a cryptographically meaningless result.
package debug

import "fmt"

// Assert panics if condition is false
func Assert(condition bool, args ...interface{}) {
	if !condition {
		msg := "assertion failed"
		if len(args) > 0 {
			msg = fmt.Sprint(args...)
		}
		panic(msg)
	}
}
