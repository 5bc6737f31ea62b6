// SPDX-License-Identifier: MIT

package contract

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/katalvlaran/matinv/harness"
	"github.com/katalvlaran/matinv/inverse"
)

// Response is the success document.
type Response struct {
	InverseMatrix [][]float64 `json:"inverse_matrix"`
	SerialTime    float64     `json:"serial_time"`   // seconds
	ParallelTime  float64     `json:"parallel_time"` // seconds
	Method        string      `json:"method"`
	MatrixSize    int         `json:"matrix_size"`
}

// ErrorResponse is the failure document; it carries no other field.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Status classifies an outcome for the transport layer.
type Status int

const (
	StatusOK Status = iota
	StatusBadInput
	StatusInternal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBadInput:
		return "bad_input"
	default:
		return "internal"
	}
}

// ExitCode maps the status onto a process exit code: 0, 2 (caller) or 1 (internal).
func (s Status) ExitCode() int {
	switch s {
	case StatusOK:
		return 0
	case StatusBadInput:
		return 2
	default:
		return 1
	}
}

// Caller-facing messages for errors that do not carry their own detail.
const (
	msgSingular      = "Matrix is singular and cannot be inverted"
	msgUnknownMethod = "Unknown method"
	msgInternal      = "Computation failed: internal error"
)

// Classify maps err onto a Status. Validation failures and singular matrices
// are the caller's; everything else (worker failures, disagreement between
// variants, cancellation, I/O) is internal.
func Classify(err error) Status {
	var inErr *InputError
	switch {
	case err == nil:
		return StatusOK
	case errors.As(err, &inErr), errors.Is(err, inverse.ErrSingular), errors.Is(err, inverse.ErrUnknownMethod):
		return StatusBadInput
	default:
		return StatusInternal
	}
}

// Assemble maps a harness result onto the response document. Pure data
// transformation: durations become float seconds, the inverse becomes a grid.
func Assemble(res *harness.Result) Response {
	return Response{
		InverseMatrix: res.Inverse.Grid(),
		SerialTime:    res.Timing.Serial.Seconds(),
		ParallelTime:  res.Timing.Parallel.Seconds(),
		Method:        res.Timing.Method.Label(),
		MatrixSize:    res.Timing.Size,
	}
}

// Failure builds the error document for err with one message per failure kind.
func Failure(err error) ErrorResponse {
	var inErr *InputError
	switch {
	case errors.As(err, &inErr):
		return ErrorResponse{Error: inErr.Detail}
	case errors.Is(err, inverse.ErrSingular):
		return ErrorResponse{Error: msgSingular}
	case errors.Is(err, inverse.ErrUnknownMethod):
		return ErrorResponse{Error: msgUnknownMethod}
	default:
		return ErrorResponse{Error: msgInternal}
	}
}

// Respond turns the outcome of a run into the document to send and its status.
func Respond(res *harness.Result, err error) (any, Status) {
	if err != nil {
		return Failure(err), Classify(err)
	}

	return Assemble(res), StatusOK
}

// Encode writes doc as a single JSON document followed by a newline.
func Encode(w io.Writer, doc any) error {
	return json.NewEncoder(w).Encode(doc)
}
