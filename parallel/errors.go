// SPDX-License-Identifier: MIT

package parallel

import "errors"

var (
	// ErrWorkerFailure reports a panic raised inside a chunk. It is an
	// infrastructure fault, never a domain outcome.
	ErrWorkerFailure = errors.New("parallel: worker failure")

	// ErrInvalidRange is returned when hi < lo.
	ErrInvalidRange = errors.New("parallel: invalid range")
)
