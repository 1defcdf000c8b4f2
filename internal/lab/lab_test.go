package lab_test

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/numlab/internal/config"
	"github.com/san-kum/numlab/internal/experiment"
	"github.com/san-kum/numlab/internal/lab"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func allLines(r *lab.Report) string {
	var sb strings.Builder
	for _, s := range r.Sections {
		sb.WriteString(s.Title + "\n")
		for _, line := range s.Lines {
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

var _ = Describe("Lab", func() {
	var (
		ctx context.Context
		cfg *config.Config
		l   *lab.Lab
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = config.GetPreset("quick")
		cfg.Output.Figures = GinkgoT().TempDir()
		l = lab.New(cfg, quietLogger())
	})

	It("lists the studies in run order", func() {
		Expect(lab.Studies()).To(Equal([]string{"float", "matrix", "interp", "convolve", "ode"}))
		for _, name := range lab.Studies() {
			Expect(lab.Describe(name)).NotTo(BeEmpty())
		}
	})

	It("rejects unknown studies", func() {
		_, err := l.Run(ctx, "fourier")
		Expect(err).To(MatchError(lab.ErrUnknownStudy))
	})

	Describe("float study", func() {
		It("finds the neighbours of 0.25", func() {
			r, err := l.Run(ctx, "float")
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Summary["e_agrees"]).To(Equal(1.0))
			Expect(r.Summary["a_upper_exponent"]).To(Equal(-53.0))
			Expect(r.Summary["a_lower_exponent"]).To(Equal(-54.0))
			Expect(r.Summary["gap_above_a"]).To(Equal(math.Ldexp(1, -54)))
			Expect(r.Summary["gap_below_a"]).To(Equal(math.Ldexp(1, -55)))

			text := allLines(r)
			Expect(text).To(ContainSubstring("Lower number (C):  0.24999999999999997224442438437108648940920829772949218750"))
			Expect(text).To(ContainSubstring("Validation probes"))
			Expect(text).To(ContainSubstring("ranges undefined"))
			Expect(r.Figures).To(BeEmpty())
		})
	})

	Describe("matrix study", func() {
		It("factorises, solves and inverts the coursework system", func() {
			r, err := l.Run(ctx, "matrix")
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Summary["det"]).To(BeNumerically("~", 712224, 1e-6))
			Expect(r.Summary["det_gonum"]).To(BeNumerically("~", r.Summary["det"], 1e-6))
			Expect(r.Summary["lu_max_diff"]).To(BeNumerically("<", 1e-12))
			Expect(r.Summary["solve_residual"]).To(BeNumerically("<", 1e-12))
			Expect(r.Summary["inverse_gonum_diff"]).To(BeNumerically("<", 1e-12))
			Expect(r.Summary["identity_error"]).To(BeNumerically("<", 1e-12))
			Expect(allLines(r)).To(ContainSubstring("A A^-1 rounded to 4 decimals"))
		})

		It("reports a zero pivot", func() {
			cfg.Matrix.A = [][]float64{{0, 1}, {1, 0}}
			cfg.Matrix.B = []float64{1, 1}
			_, err := l.Run(ctx, "matrix")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("interp study", func() {
		It("builds both interpolants on the sample grid", func() {
			r, err := l.Run(ctx, "interp")
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Figures).To(HaveLen(2))
			cmp := r.Figure("interpolationComparison")
			Expect(cmp).NotTo(BeNil())
			Expect(cmp.Series).To(HaveLen(3))
			Expect(cmp.Series[1].X).To(HaveLen(cfg.Interp.Samples))
			Expect(r.Summary["max_difference"]).To(BeNumerically(">", 0))
			Expect(r.Summary["spline_max_abs"]).To(BeNumerically("<", 1))
		})
	})

	Describe("convolve study", func() {
		It("peaks where the pulse is centred", func() {
			cfg.Convolution.Exponent = 12
			r, err := l.Run(ctx, "convolve")
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Summary["peak"]).To(BeNumerically("~", 4/math.Sqrt2*2*math.Erf(0.5), 0.05))
			Expect(r.Summary["peak_t"]).To(BeNumerically("~", 6, 0.1))
			Expect(r.Summary["max_error"]).To(BeNumerically("<", 0.05))
			Expect(r.Figures).To(HaveLen(3))
		})

		It("gives the same answer with the radix-2 backend", func() {
			dsp, err := l.Run(ctx, "convolve")
			Expect(err).NotTo(HaveOccurred())

			cfg.Convolution.Backend = "radix2"
			radix, err := l.Run(ctx, "convolve")
			Expect(err).NotTo(HaveOccurred())
			Expect(radix.Summary["peak"]).To(BeNumerically("~", dsp.Summary["peak"], 1e-9))
		})

		It("rejects an unknown backend", func() {
			cfg.Convolution.Backend = "fftw"
			_, err := l.Run(ctx, "convolve")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ode study", func() {
		It("shows fourth-order convergence for RK4", func() {
			r, err := l.Run(ctx, "ode")
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Summary["grad_rk4"]).To(BeNumerically(">", 0))
			Expect(r.Summary["ratio_doubled_normal"]).To(BeNumerically("~", 16, 4))
			Expect(r.Summary["ratio_normal_halved"]).To(BeNumerically("~", 16, 4))
			Expect(math.Abs(r.Summary["ratio_ab4_rk4"])).To(BeNumerically(">", 1))
			Expect(r.Summary["max_rel_error_ab4"]).To(BeNumerically(">", r.Summary["max_rel_error_rk4"]))

			Expect(r.Figures).To(HaveLen(4))
			sq := r.Figure("diffEqSolnE")
			Expect(sq).NotTo(BeNil())
			Expect(sq.Series).To(HaveLen(len(cfg.ODE.Periods)))
		})

		It("stops when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := l.Run(cctx, "ode")
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("Compare", func() {
		It("reports residuals for a closed-form circuit", func() {
			r, err := l.Compare(ctx, "rc_step", nil, []string{"euler", "rk4", "ab4"})
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Figures).To(HaveLen(2))
			Expect(r.Summary).To(HaveKey("rk4.max_rel_error"))
			Expect(r.Summary["euler.max_rel_error"]).To(BeNumerically(">", r.Summary["rk4.max_rel_error"]))
			Expect(r.Summary["rk4.final"]).To(BeNumerically("~", math.Exp(-cfg.ODE.Stop), 1e-6))
		})

		It("plots only the solution for a square wave", func() {
			r, err := l.Solve(ctx, "rc_square", experiment.Params{"period": 2}, "rk4")
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Study).To(Equal("solve"))
			Expect(r.Figures).To(HaveLen(1))
			Expect(r.Summary).To(HaveKey("rk4.stability"))
		})

		It("rejects unknown methods", func() {
			_, err := l.Compare(ctx, "rc_step", nil, []string{"verlet"})
			Expect(err).To(HaveOccurred())
		})

		It("exposes the registry behind the configured methods", func() {
			Expect(l.Registry().ListMethods()).To(ContainElements(cfg.ODE.Methods))
			Expect(l.Registry().ListCircuits()).To(ConsistOf("rc_square", "rc_step"))
		})

		It("falls back to the configured methods", func() {
			cfg.ODE.Methods = []string{"euler", "ab4_euler"}
			r, err := l.Compare(ctx, "rc_step", nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Summary).To(HaveKey("euler.final"))
			Expect(r.Summary).To(HaveKey("ab4_euler.final"))
			Expect(r.Summary).NotTo(HaveKey("rk4.final"))
		})

		It("rejects an unregistered configured method", func() {
			cfg.ODE.Methods = []string{"no-such-method"}
			_, err := l.Compare(ctx, "rc_step", nil, nil)
			Expect(err).To(MatchError(config.ErrInvalid))

			_, err = l.Run(ctx, "ode")
			Expect(err).To(MatchError(config.ErrInvalid))
		})

		It("publishes residuals after the exact solution underflows", func() {
			cfg.ODE.Stop = 800
			cfg.ODE.Step = 0.05
			cfg.Output.Format = "svg"
			r, err := l.Compare(ctx, "rc_step", nil, []string{"rk4"})
			Expect(err).NotTo(HaveOccurred())
			grad := r.Summary["rk4.gradient"]
			Expect(math.IsNaN(grad) || math.IsInf(grad, 0)).To(BeTrue())

			paths, err := l.Publish(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).To(HaveLen(2))
		})
	})

	Describe("output", func() {
		It("publishes every figure", func() {
			cfg.Output.Format = "svg"
			r, err := l.Run(ctx, "interp")
			Expect(err).NotTo(HaveOccurred())

			paths, err := l.Publish(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).To(ConsistOf(
				filepath.Join(cfg.Output.Figures, "interpolationComparison.svg"),
				filepath.Join(cfg.Output.Figures, "interpolationComparison2.svg"),
			))
			for _, p := range paths {
				Expect(p).To(BeARegularFile())
				info, err := os.Stat(p)
				Expect(err).NotTo(HaveOccurred())
				Expect(info.Size()).To(BeNumerically(">", 0))
			}
		})

		It("renders sections and previews", func() {
			r, err := l.Run(ctx, "interp")
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			Expect(lab.Render(&buf, r, lab.RenderOptions{Preview: true, Width: 40, Height: 8})).To(Succeed())
			out := buf.String()
			Expect(out).To(ContainSubstring("INTERP"))
			Expect(out).To(ContainSubstring("Spline second derivatives"))
			Expect(out).To(ContainSubstring("Cubic spline interpolation only"))
		})

		It("lists series with trend lines without previews", func() {
			r, err := l.Run(ctx, "interp")
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			Expect(lab.Render(&buf, r, lab.RenderOptions{Width: 30, Height: 8})).To(Succeed())
			out := buf.String()
			Expect(out).To(ContainSubstring("Cubic spline"))
			Expect(out).To(ContainSubstring("▁"))
		})
	})
})
