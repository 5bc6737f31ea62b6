// SPDX-License-Identifier: MIT

package harness

import (
	"context"
	"math"
	"math/rand"
	"strings"

	"github.com/go-logr/logr/funcr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/katalvlaran/matinv/inverse"
	"github.com/katalvlaran/matinv/matrix"
)

type fakeObserver struct {
	timings  []Timing
	failures []error
	methods  []inverse.Method
}

func (f *fakeObserver) ObserveTiming(t Timing) { f.timings = append(f.timings, t) }

func (f *fakeObserver) ObserveFailure(m inverse.Method, err error) {
	f.methods = append(f.methods, m)
	f.failures = append(f.failures, err)
}

func square(n int, vals ...float64) *matrix.Dense {
	GinkgoHelper()
	m, err := matrix.NewSquare(n, vals)
	Expect(err).NotTo(HaveOccurred())

	return m
}

func randomDominant(n int, seed int64) *matrix.Dense {
	GinkgoHelper()
	rng := rand.New(rand.NewSource(seed))
	vals := make([]float64, n*n)
	for i := range vals {
		vals[i] = rng.Float64()*2 - 1
	}
	for i := 0; i < n; i++ {
		vals[i*n+i] += float64(n)
	}

	return square(n, vals...)
}

var _ = Describe("Run", func() {
	var (
		ctx context.Context
		obs *fakeObserver
	)

	BeforeEach(func() {
		ctx = context.Background()
		obs = &fakeObserver{}
	})

	DescribeTable("inverts the 2x2 scenario with both variants",
		func(method inverse.Method) {
			res, err := Run(ctx, method, square(2, 4, 3, 6, 3), WithWorkers(2), WithObserver(obs))
			Expect(err).NotTo(HaveOccurred())

			grid := res.Inverse.Grid()
			Expect(grid[0]).To(HaveExactElements(BeNumerically("~", -0.5, 1e-12), BeNumerically("~", 0.5, 1e-12)))
			Expect(grid[1]).To(HaveExactElements(BeNumerically("~", 1, 1e-12), BeNumerically("~", -2.0/3.0, 1e-12)))

			Expect(res.Timing.Method).To(Equal(method))
			Expect(res.Timing.Size).To(Equal(2))
			Expect(res.Timing.Workers).To(Equal(2))
			Expect(res.Timing.Serial).To(BeNumerically(">=", 0))
			Expect(res.Timing.Parallel).To(BeNumerically(">=", 0))

			Expect(obs.timings).To(HaveLen(1))
			Expect(obs.failures).To(BeEmpty())
		},
		Entry("gauss", inverse.Gauss),
		Entry("lu", inverse.LUDecomposition),
	)

	It("returns the diagonal inverse exactly", func() {
		res, err := Run(ctx, inverse.Gauss, square(2, 2, 0, 0, 2))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Inverse.Grid()).To(Equal([][]float64{{0.5, 0}, {0, 0.5}}))
	})

	It("leaves the caller's matrix untouched", func() {
		a := randomDominant(12, 5)
		before := append([]float64(nil), a.RawData()...)
		_, err := Run(ctx, inverse.LUDecomposition, a, WithWorkers(3))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.RawData()).To(Equal(before))
	})

	It("produces A·A⁻¹ ≈ I for larger inputs with a single worker", func() {
		a := randomDominant(40, 1)
		for _, m := range []inverse.Method{inverse.Gauss, inverse.LUDecomposition} {
			res, err := Run(ctx, m, a, WithWorkers(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Timing.Workers).To(Equal(1))

			p, err := matrix.Mul(a, res.Inverse)
			Expect(err).NotTo(HaveOccurred())
			ok, err := matrix.IsIdentity(p, matrix.WithEpsilon(1e-6*40))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		}
	})

	Context("with a singular matrix", func() {
		It("reports ErrSingular and tells the observer", func() {
			var lines []string
			log := funcr.New(func(prefix, args string) {
				lines = append(lines, args)
			}, funcr.Options{Verbosity: 1})

			res, err := Run(ctx, inverse.LUDecomposition, square(2, 1, 2, 2, 4),
				WithObserver(obs), WithLogger(log))
			Expect(err).To(MatchError(inverse.ErrSingular))
			Expect(res).To(BeNil())

			Expect(obs.timings).To(BeEmpty())
			Expect(obs.failures).To(HaveLen(1))
			Expect(obs.methods).To(Equal([]inverse.Method{inverse.LUDecomposition}))

			joined := strings.Join(lines, "\n")
			Expect(joined).To(ContainSubstring("matrix is singular"))
			Expect(joined).NotTo(ContainSubstring(`"error"`))
		})

		It("rejects the zero matrix", func() {
			_, err := Run(ctx, inverse.Gauss, square(3, make([]float64, 9)...))
			Expect(err).To(MatchError(inverse.ErrSingular))
		})
	})

	Context("with invalid input", func() {
		It("rejects unknown methods", func() {
			_, err := Run(ctx, inverse.Method(42), square(1, 1), WithObserver(obs))
			Expect(err).To(MatchError(inverse.ErrUnknownMethod))
			Expect(obs.failures).To(HaveLen(1))
		})

		It("rejects non-square matrices", func() {
			rect, err := matrix.NewDense(2, 3)
			Expect(err).NotTo(HaveOccurred())
			_, err = Run(ctx, inverse.Gauss, rect)
			Expect(err).To(MatchError(matrix.ErrNonSquare))
		})

		It("stops on a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Run(cctx, inverse.Gauss, randomDominant(4, 2))
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	It("fails an inverse that does not fit in a float64", func() {
		_, err := Run(ctx, inverse.LUDecomposition, square(1, 1e-310), WithObserver(obs))
		Expect(err).To(MatchError(inverse.ErrNotRepresentable))
		Expect(obs.failures).To(HaveLen(1))
		Expect(obs.timings).To(BeEmpty())
	})

	It("honours a stricter pivot tolerance", func() {
		a := square(2, 1, 1, 1, 1+1e-6)
		_, err := Run(ctx, inverse.Gauss, a)
		Expect(err).NotTo(HaveOccurred())
		_, err = Run(ctx, inverse.Gauss, a, WithTolerance(1e-3))
		Expect(err).To(MatchError(inverse.ErrSingular))
	})
})

var _ = Describe("options", func() {
	It("verifies by default", func() {
		o := gatherOptions()
		Expect(o.verify).To(BeTrue())
		Expect(o.verifyTol).To(Equal(DefaultVerifyTolerance))
		Expect(o.tolerance).To(Equal(inverse.DefaultPivotTolerance))
	})

	It("lets the last verify option win", func() {
		Expect(gatherOptions(WithVerify(1e-3), WithoutVerify()).verify).To(BeFalse())
		o := gatherOptions(WithoutVerify(), WithVerify(1e-3))
		Expect(o.verify).To(BeTrue())
		Expect(o.verifyTol).To(Equal(1e-3))
	})

	It("ignores a nil observer", func() {
		Expect(gatherOptions(WithObserver(nil)).observer).To(Equal(nopObserver{}))
	})

	DescribeTable("WithVerify panics on nonsense",
		func(tol float64) {
			Expect(func() { WithVerify(tol) }).To(Panic())
		},
		Entry("zero", 0.0),
		Entry("negative", -1.0),
		Entry("NaN", math.NaN()),
		Entry("Inf", math.Inf(1)),
	)

	DescribeTable("WithTolerance panics outside [0, 1)",
		func(tol float64) {
			Expect(func() { WithTolerance(tol) }).To(PanicWith(panicPivotTolerance))
		},
		Entry("negative", -1e-12),
		Entry("one", 1.0),
		Entry("NaN", math.NaN()),
		Entry("Inf", math.Inf(1)),
	)

	It("accepts a zero pivot tolerance", func() {
		Expect(gatherOptions(WithTolerance(0)).tolerance).To(BeZero())
	})
})

var _ = Describe("agree", func() {
	It("accepts equal inverses", func() {
		a := square(2, 1, 2, 3, 4)
		Expect(agree(a, a.CloneDense(), 1e-9)).To(Succeed())
	})

	It("reports the largest difference", func() {
		a := square(2, 1, 2, 3, 4)
		b := square(2, 1, 2, 3, 4.5)
		err := agree(a, b, 1e-9)
		Expect(err).To(MatchError(ErrDisagreement))
		Expect(err.Error()).To(ContainSubstring("0.5"))
	})

	It("rejects different sizes", func() {
		Expect(agree(square(1, 1), square(2, 1, 0, 0, 1), 1)).To(MatchError(ErrDisagreement))
	})
})

var _ = Describe("Timing", func() {
	It("computes speedup", func() {
		Expect(Timing{Serial: 300, Parallel: 100}.Speedup()).To(BeNumerically("~", 3.0))
		Expect(Timing{Serial: 300}.Speedup()).To(BeZero())
	})
})

