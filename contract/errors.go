// SPDX-License-Identifier: MIT

package contract

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed reports a request document that is not valid JSON or YAML.
	ErrMalformed = errors.New("contract: malformed request")

	// ErrMissingField reports an absent method, matrix_size or element source.
	ErrMissingField = errors.New("contract: missing required field")

	// ErrSizeRange reports matrix_size outside [MinSize, MaxSize].
	ErrSizeRange = errors.New("contract: matrix size out of range")

	// ErrInputShape reports an element count that differs from n², or a token
	// that is not a finite number.
	ErrInputShape = errors.New("contract: invalid matrix input")
)

// InputError is a caller-facing validation failure. Error returns only the
// detail line, which is shown to the caller verbatim; errors.Is matches Kind.
type InputError struct {
	Kind   error
	Detail string
}

func (e *InputError) Error() string { return e.Detail }

func (e *InputError) Unwrap() error { return e.Kind }

func inputErrorf(kind error, format string, args ...any) error {
	return &InputError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
