// SPDX-License-Identifier: MIT

// Package harness times the serial and the parallel variant of one inversion
// method on the same input.
//
// Run clones the input twice, builds the worker pool, then measures two scoped
// executions: serial first, parallel second. Cloning, pool construction,
// verification and result packaging all sit outside the timed regions. The
// parallel inverse is returned; by default it is checked against the serial
// one element-wise and a mismatch is reported as ErrDisagreement.
package harness
