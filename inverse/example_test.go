// SPDX-License-Identifier: MIT

package inverse_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/matinv/inverse"
	"github.com/katalvlaran/matinv/matrix"
)

func ExampleGaussJordan() {
	a, _ := matrix.NewSquare(2, []float64{2, 0, 0, 2})
	inv, err := inverse.GaussJordan(context.Background(), a)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(inv)
	// Output:
	// [0.5, 0]
	// [0, 0.5]
}

func ExampleFactorize() {
	a, _ := matrix.NewSquare(2, []float64{4, 3, 6, 3})
	f, err := inverse.Factorize(context.Background(), a)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("perm:", f.Perm)
	fmt.Printf("det: %.4g\n", f.Determinant())
	// Output:
	// perm: [1 0]
	// det: -6
}

func ExampleLUParallel_singular() {
	a, _ := matrix.NewSquare(2, []float64{1, 2, 2, 4})
	_, err := inverse.LUParallel(context.Background(), a, inverse.WithWorkers(2))
	fmt.Println(errors.Is(err, inverse.ErrSingular))
	// Output:
	// true
}
