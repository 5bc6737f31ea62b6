// SPDX-License-Identifier: MIT

package contract

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/katalvlaran/matinv/inverse"
	"github.com/katalvlaran/matinv/matrix"
)

// Size bounds accepted by Validate.
const (
	MinSize = 1
	MaxSize = 5000
)

// Request is the engine input document. Exactly one element source is
// needed; when both are present MatrixElements wins.
type Request struct {
	Method         string    `json:"method"`
	MatrixSize     int       `json:"matrix_size"`
	MatrixElements []float64 `json:"matrix_elements,omitempty"`
	MatrixInput    string    `json:"matrix_input,omitempty"`
}

// Input is a validated request, ready for the harness.
type Input struct {
	Method inverse.Method
	Size   int
	Matrix *matrix.Dense
}

// Decode reads one request document (JSON, or YAML with the same keys) from r.
// A document starting with '{' is streamed straight into Request; anything
// else goes through the YAML decoder.
func Decode(r io.Reader) (*Request, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("Decode: %w", err)
	}

	var req Request
	if first == '{' {
		if err = json.NewDecoder(br).Decode(&req); err != nil {
			return nil, malformed(err)
		}

		return &req, nil
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("Decode: %w", err)
	}
	if err = yaml.Unmarshal(data, &req); err != nil {
		return nil, malformed(err)
	}

	return &req, nil
}

// peekNonSpace skips leading whitespace and returns the next byte without
// consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}

		return b, br.UnreadByte()
	}
}

func malformed(err error) error {
	return &InputError{Kind: ErrMalformed, Detail: "Invalid request document: " + err.Error()}
}

// Validate checks the request in a fixed order (fields → method → size →
// elements) and builds the input matrix.
//
// Errors (all *InputError):
//   - ErrMissingField, inverse.ErrUnknownMethod, ErrSizeRange, ErrInputShape.
func (r *Request) Validate() (*Input, error) {
	if r.Method == "" || r.MatrixSize == 0 || (r.MatrixElements == nil && strings.TrimSpace(r.MatrixInput) == "") {
		return nil, inputErrorf(ErrMissingField, "Missing required parameters")
	}
	method, err := inverse.ParseMethod(r.Method)
	if err != nil {
		return nil, inputErrorf(inverse.ErrUnknownMethod, "Unknown method %q: expected %q or %q", r.Method, inverse.NameLU, inverse.NameGauss)
	}
	n := r.MatrixSize
	if n < MinSize || n > MaxSize {
		return nil, inputErrorf(ErrSizeRange, "Invalid matrix size %d. Must be between %d and %d.", n, MinSize, MaxSize)
	}

	elements := r.MatrixElements
	if elements == nil {
		if elements, err = ParseElements(r.MatrixInput); err != nil {
			return nil, err
		}
	}
	if len(elements) != n*n {
		return nil, inputErrorf(ErrInputShape, "Expected %d elements, got %d", n*n, len(elements))
	}

	m, err := matrix.NewSquare(n, elements)
	if err != nil {
		if errors.Is(err, matrix.ErrNaNInf) {
			return nil, inputErrorf(ErrInputShape, "Matrix elements must be finite numbers")
		}

		return nil, err
	}

	return &Input{Method: method, Size: n, Matrix: m}, nil
}

// ParseElements splits a whitespace-separated blob into finite float64 values.
// The first token that is not a finite number is reported.
func ParseElements(text string) ([]float64, error) {
	fields := strings.Fields(text)
	out := make([]float64, len(fields))
	for i, tok := range fields {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, inputErrorf(ErrInputShape, "Invalid number: %s", tok)
		}
		out[i] = v
	}

	return out, nil
}
