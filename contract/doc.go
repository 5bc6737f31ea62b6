// SPDX-License-Identifier: MIT

// Package contract defines the documents exchanged with the engine process:
// the request (method, matrix_size, matrix_elements or matrix_input), the
// success response and the error-only failure response.
//
// Request validation happens here, before any engine runs: required fields,
// size range, element count == n², and finite numeric tokens. Failures are
// classified into caller-input errors and internal faults; the message shown
// to the caller is one fixed line per failure kind and never carries
// internal detail for faults.
package contract
