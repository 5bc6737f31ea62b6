// SPDX-License-Identifier: MIT

package harness

import "errors"

// ErrDisagreement reports that the serial and parallel inverses differ by more
// than the verification tolerance. It indicates a fault in the engine, not in
// the caller's input.
var ErrDisagreement = errors.New("harness: serial and parallel inverses disagree")
