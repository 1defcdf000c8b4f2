package linalg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Matrix is a dense row-major matrix of float64.
type Matrix struct {
	rows, cols int
	data       []float64
}

func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

// FromRows copies a rectangular [][]float64 into a new Matrix.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty rows", ErrBadShape)
	}
	m, err := NewMatrix(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrBadShape, i, len(r), m.cols)
		}
		copy(m.data[i*m.cols:(i+1)*m.cols], r)
	}
	return m, nil
}

// MustFromRows is FromRows for literals known to be rectangular.
func MustFromRows(rows [][]float64) *Matrix {
	m, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// Column builds an n x 1 column vector.
func Column(v []float64) *Matrix {
	m := &Matrix{rows: len(v), cols: 1, data: make([]float64, len(v))}
	copy(m.data, v)
	return m
}

func Identity(n int) *Matrix {
	m := &Matrix{rows: n, cols: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// Dims mirrors the (rows, cols) shape accessor used by gonum.
func (m *Matrix) Dims() (int, int) { return m.rows, m.cols }

func (m *Matrix) IsSquare() bool { return m.rows == m.cols }

// At returns m[i][j]; it panics on out-of-range indices like a slice would.
func (m *Matrix) At(i, j int) float64 {
	return m.data[m.index(i, j)]
}

func (m *Matrix) Set(i, j int, v float64) {
	m.data[m.index(i, j)] = v
}

func (m *Matrix) index(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("%v: (%d,%d) in %dx%d", ErrOutOfRange, i, j, m.rows, m.cols))
	}
	return i*m.cols + j
}

func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, m.cols)
	copy(out, m.data[m.index(i, 0):m.index(i, 0)+m.cols])
	return out
}

func (m *Matrix) Col(j int) []float64 {
	out := make([]float64, m.rows)
	for i := range out {
		out[i] = m.At(i, j)
	}
	return out
}

// SetCol overwrites column j with v.
func (m *Matrix) SetCol(j int, v []float64) error {
	if len(v) != m.rows {
		return fmt.Errorf("%w: column of length %d into %d rows", ErrDimensionMismatch, len(v), m.rows)
	}
	for i, x := range v {
		m.Set(i, j, x)
	}
	return nil
}

func (m *Matrix) Clone() *Matrix {
	c := &Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	copy(c.data, m.data)
	return c
}

func (m *Matrix) ToRows() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// RawData returns a row-major copy of the elements, ready for mat.NewDense.
func (m *Matrix) RawData() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)
	return out
}

// Round returns a copy with every element rounded to the given decimals.
func (m *Matrix) Round(decimals int) *Matrix {
	c := m.Clone()
	scale := math.Pow(10, float64(decimals))
	for i, v := range c.data {
		r := math.Round(v*scale) / scale
		if r == 0 {
			r = 0 // drop negative zero
		}
		c.data[i] = r
	}
	return c
}

// MaxAbsDiff returns max |a[i][j] - b[i][j]|.
func MaxAbsDiff(a, b *Matrix) (float64, error) {
	if a == nil || b == nil {
		return 0, ErrNilMatrix
	}
	if a.rows != b.rows || a.cols != b.cols {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}
	d := 0.0
	for i := range a.data {
		d = math.Max(d, math.Abs(a.data[i]-b.data[i]))
	}
	return d, nil
}

// String prints rows in brackets with %g formatting.
func (m *Matrix) String() string {
	return m.Format('g', -1)
}

// Format prints rows in brackets using strconv verb and precision, with
// columns right-aligned.
func (m *Matrix) Format(verb byte, prec int) string {
	cells := make([]string, len(m.data))
	width := 0
	for i, v := range m.data {
		cells[i] = strconv.FormatFloat(v, verb, prec, 64)
		width = max(width, len(cells[i]))
	}

	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		if i == 0 {
			sb.WriteString("[[")
		} else {
			sb.WriteString(" [")
		}
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			cell := cells[i*m.cols+j]
			sb.WriteString(strings.Repeat(" ", width-len(cell)))
			sb.WriteString(cell)
		}
		sb.WriteByte(']')
		if i == m.rows-1 {
			sb.WriteByte(']')
		} else {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Mul computes the product a·b with the naive triple loop.
func Mul(a, b *Matrix) (*Matrix, error) {
	if a == nil || b == nil {
		return nil, opErrorf(opMul, ErrNilMatrix)
	}
	if a.cols != b.rows {
		return nil, opErrorf(opMul, fmt.Errorf("%w: %dx%d · %dx%d", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols))
	}

	out := &Matrix{rows: a.rows, cols: b.cols, data: make([]float64, a.rows*b.cols)}
	for i := 0; i < a.rows; i++ {
		for j := 0; j < b.cols; j++ {
			sum := 0.0
			for k := 0; k < a.cols; k++ {
				sum += a.data[i*a.cols+k] * b.data[k*b.cols+j]
			}
			out.data[i*out.cols+j] = sum
		}
	}
	return out, nil
}
