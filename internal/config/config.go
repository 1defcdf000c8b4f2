package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFigures  = "figures"
	DefaultFormat   = "eps"
	DefaultDataDir  = ".numlab"
	DefaultLogLevel = "info"

	DefaultProbe    = 0.25
	DefaultDecimals = 100

	DefaultSamples = 1000

	DefaultExponent = 12

	DefaultStep = 1e-3
	DefaultStop = 10.0
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Output      OutputConfig      `yaml:"output"`
	Float       FloatConfig       `yaml:"float"`
	Matrix      MatrixConfig      `yaml:"matrix"`
	Interp      InterpConfig      `yaml:"interp"`
	Convolution ConvolutionConfig `yaml:"convolution"`
	ODE         ODEConfig         `yaml:"ode"`
}

type OutputConfig struct {
	Figures       string `yaml:"figures"`
	Format        string `yaml:"format"`
	Plots         bool   `yaml:"plots"`
	Preview       bool   `yaml:"preview"`
	PreviewWidth  int    `yaml:"preview_width"`
	PreviewHeight int    `yaml:"preview_height"`
	DataDir       string `yaml:"data_dir"`
	Save          bool   `yaml:"save"`
	LogLevel      string `yaml:"log_level"`
}

// FloatConfig drives the neighbour-probing study. Value is probed twice more
// through its own neighbours; Probes are extra validation inputs.
type FloatConfig struct {
	Value    float64   `yaml:"value"`
	Probes   []float64 `yaml:"probes"`
	Decimals int       `yaml:"decimals"`
}

type MatrixConfig struct {
	A             [][]float64 `yaml:"a"`
	B             []float64   `yaml:"b"`
	RoundDecimals int         `yaml:"round_decimals"`
}

type InterpConfig struct {
	X       []float64 `yaml:"x"`
	Y       []float64 `yaml:"y"`
	Samples int       `yaml:"samples"`
}

// ConvolutionConfig samples 2^Exponent points on [Start, Stop].
type ConvolutionConfig struct {
	Start          float64 `yaml:"start"`
	Stop           float64 `yaml:"stop"`
	Exponent       int     `yaml:"exponent"`
	PulseStart     float64 `yaml:"pulse_start"`
	PulseEnd       float64 `yaml:"pulse_end"`
	PulseHeight    float64 `yaml:"pulse_height"`
	ResponseSpread float64 `yaml:"response_spread"`
	Backend        string  `yaml:"backend"`
}

func (c ConvolutionConfig) Samples() int { return 1 << c.Exponent }

type ODEConfig struct {
	V0      float64   `yaml:"v0"`
	X0      float64   `yaml:"x0"`
	Start   float64   `yaml:"start"`
	Stop    float64   `yaml:"stop"`
	Step    float64   `yaml:"step"`
	Periods []float64 `yaml:"periods"`
	// Methods are compared when `compare` is given no method names.
	Methods []string `yaml:"methods"`
}

func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Figures:       DefaultFigures,
			Format:        DefaultFormat,
			Plots:         true,
			PreviewWidth:  60,
			PreviewHeight: 12,
			DataDir:       DefaultDataDir,
			LogLevel:      DefaultLogLevel,
		},
		Float: FloatConfig{
			Value:    DefaultProbe,
			Probes:   []float64{-0.25, 0},
			Decimals: DefaultDecimals,
		},
		Matrix: MatrixConfig{
			A: [][]float64{
				{3, 1, 0, 0, 0},
				{3, 9, 4, 0, 0},
				{0, 8, 20, 10, 0},
				{0, 0, -22, 31, -25},
				{0, 0, 0, -35, 61},
			},
			B:             []float64{2, 5, -4, 8, 9},
			RoundDecimals: 4,
		},
		Interp: InterpConfig{
			X:       []float64{-0.75, -0.5, -0.35, -0.1, 0.05, 0.1, 0.23, 0.29, 0.48, 0.6, 0.92, 1.05, 1.5},
			Y:       []float64{0.10, 0.30, 0.47, 0.66, 0.60, 0.54, 0.30, 0.15, -0.32, -0.54, -0.60, -0.47, -0.08},
			Samples: DefaultSamples,
		},
		Convolution: ConvolutionConfig{
			Start:          -50,
			Stop:           50,
			Exponent:       DefaultExponent,
			PulseStart:     5,
			PulseEnd:       7,
			PulseHeight:    4,
			ResponseSpread: 4,
			Backend:        "dsp",
		},
		ODE: ODEConfig{
			V0:      1,
			X0:      1,
			Start:   0,
			Stop:    DefaultStop,
			Step:    DefaultStep,
			Periods: []float64{0.5, 2},
			Methods: []string{"rk4", "ab4"},
		},
	}
}

// Load overlays the YAML file at path onto DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Overlay(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay replaces the values of c that the YAML file at path sets, then
// validates the result.
func (c *Config) Overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first value no study could run with.
func (c *Config) Validate() error {
	switch {
	case c.Output.PreviewWidth < 2 || c.Output.PreviewHeight < 1:
		return fmt.Errorf("%w: preview size %dx%d", ErrInvalid, c.Output.PreviewWidth, c.Output.PreviewHeight)
	case c.Float.Decimals < 0:
		return fmt.Errorf("%w: float.decimals %d", ErrInvalid, c.Float.Decimals)
	case len(c.Matrix.A) == 0 || len(c.Matrix.B) != len(c.Matrix.A):
		return fmt.Errorf("%w: matrix.a is %d rows, matrix.b has %d entries", ErrInvalid, len(c.Matrix.A), len(c.Matrix.B))
	case len(c.Interp.X) != len(c.Interp.Y):
		return fmt.Errorf("%w: interp has %d x and %d y values", ErrInvalid, len(c.Interp.X), len(c.Interp.Y))
	case c.Interp.Samples < 2:
		return fmt.Errorf("%w: interp.samples %d", ErrInvalid, c.Interp.Samples)
	case c.Convolution.Exponent < 1 || c.Convolution.Exponent > 24:
		return fmt.Errorf("%w: convolution.exponent %d", ErrInvalid, c.Convolution.Exponent)
	case c.Convolution.Stop <= c.Convolution.Start:
		return fmt.Errorf("%w: convolution range [%g, %g]", ErrInvalid, c.Convolution.Start, c.Convolution.Stop)
	case c.Convolution.ResponseSpread <= 0:
		return fmt.Errorf("%w: convolution.response_spread %g", ErrInvalid, c.Convolution.ResponseSpread)
	case c.ODE.V0 == 0:
		return fmt.Errorf("%w: ode.v0 must be non-zero", ErrInvalid)
	case c.ODE.X0 == 0:
		return fmt.Errorf("%w: ode.x0 must be non-zero for relative residuals", ErrInvalid)
	case c.ODE.Step <= 0 || c.ODE.Stop <= c.ODE.Start:
		return fmt.Errorf("%w: ode grid [%g, %g] step %g", ErrInvalid, c.ODE.Start, c.ODE.Stop, c.ODE.Step)
	case (c.ODE.Stop-c.ODE.Start)/c.ODE.Step < 6:
		return fmt.Errorf("%w: ode grid needs at least 4 points at half the doubled step", ErrInvalid)
	}
	if len(c.ODE.Methods) == 0 {
		return fmt.Errorf("%w: ode.methods is empty", ErrInvalid)
	}
	for _, p := range c.ODE.Periods {
		if p <= 0 {
			return fmt.Errorf("%w: ode period %g", ErrInvalid, p)
		}
	}
	return nil
}
