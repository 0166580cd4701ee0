package emath

// 3-vectors and 3x3 matrices, used for the color transforms

import(
	"errors"
	"fmt"
	"math"

	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point
	"gonum.org/v1/gonum/mat"
)

// Use local types so we can hang methods off them. Mat3 is row-major.
type Vec3 f64.Vec3
type Mat3 f64.Mat3

// A SingularMatrixError is returned when a Mat3 can't be inverted;
// Condition is gonum's estimate of the condition number (+Inf if the
// LU factorization itself failed).
type SingularMatrixError struct {
	Condition float64
}

func (e *SingularMatrixError)Error() string {
	return fmt.Sprintf("matrix is singular or near-singular (condition number %g)", e.Condition)
}

func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Diag places the vector on the diagonal of a matrix
func Diag(v Vec3) Mat3 {
	return Mat3{
		v[0],    0,    0,
		   0, v[1],    0,
		   0,    0, v[2],
	}
}

func (a Mat3)Mult(b Mat3) Mat3 {
	return Mat3{
		a[3*0+0]*b[3*0+0] + a[3*0+1]*b[3*1+0] + a[3*0+2]*b[3*2+0],
		a[3*0+0]*b[3*0+1] + a[3*0+1]*b[3*1+1] + a[3*0+2]*b[3*2+1],
		a[3*0+0]*b[3*0+2] + a[3*0+1]*b[3*1+2] + a[3*0+2]*b[3*2+2],

		a[3*1+0]*b[3*0+0] + a[3*1+1]*b[3*1+0] + a[3*1+2]*b[3*2+0],
		a[3*1+0]*b[3*0+1] + a[3*1+1]*b[3*1+1] + a[3*1+2]*b[3*2+1],
		a[3*1+0]*b[3*0+2] + a[3*1+1]*b[3*1+2] + a[3*1+2]*b[3*2+2],

		a[3*2+0]*b[3*0+0] + a[3*2+1]*b[3*1+0] + a[3*2+2]*b[3*2+0],
		a[3*2+0]*b[3*0+1] + a[3*2+1]*b[3*1+1] + a[3*2+2]*b[3*2+1],
		a[3*2+0]*b[3*0+2] + a[3*2+1]*b[3*1+2] + a[3*2+2]*b[3*2+2],
	}
}

// Apply computes m.v, which is the same thing as the row-vector
// product v.transpose(m).
func (m Mat3)Apply(v Vec3) Vec3 {
	return Vec3{
		(m[3*0+0]*v[0] + m[3*0+1]*v[1] + m[3*0+2]*v[2]),
		(m[3*1+0]*v[0] + m[3*1+1]*v[1] + m[3*1+2]*v[2]),
		(m[3*2+0]*v[0] + m[3*2+1]*v[1] + m[3*2+2]*v[2]),
	}
}

func (m Mat3)At(row, col int) float64 { return m[3*row+col] }

func (m Mat3)Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Dense copies the matrix into a gonum matrix
func (m Mat3)Dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8]})
}

// Mat3FromDense copies the top-left 3x3 block of a gonum matrix, starting at row `row0`.
func Mat3FromDense(d mat.Matrix, row0 int) Mat3 {
	m := Mat3{}
	for r:=0; r<3; r++ {
		for c:=0; c<3; c++ {
			m[3*r+c] = d.At(row0+r, c)
		}
	}
	return m
}

// Inverse leans on gonum's LU-based inverse, which also estimates the
// condition number; anything gonum flags as ill-conditioned comes back
// as a *SingularMatrixError.
func (m Mat3)Inverse() (Mat3, error) {
	var inv mat.Dense
	if err := inv.Inverse(m.Dense()); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return Mat3{}, &SingularMatrixError{Condition: float64(cond)}
		}
		return Mat3{}, err
	}

	return Mat3FromDense(&inv, 0), nil
}

// MaxAbsDiff returns the entry where the two matrices differ the most.
func (m Mat3)MaxAbsDiff(n Mat3) (row, col int, diff float64) {
	for i:=0; i<9; i++ {
		if d := math.Abs(m[i] - n[i]); d > diff {
			row, col, diff = i/3, i%3, d
		}
	}
	return
}

func (m Mat3)String() string {
	str := fmt.Sprintf("[%10f, %10f, %10f]\n", m[3*0+0], m[3*0+1], m[3*0+2])
	str += fmt.Sprintf("[%10f, %10f, %10f]\n", m[3*1+0], m[3*1+1], m[3*1+2])
	str += fmt.Sprintf("[%10f, %10f, %10f]\n", m[3*2+0], m[3*2+1], m[3*2+2])
	return str
}

func (v Vec3)String() string {
	return fmt.Sprintf("[%12.10f, %12.10f, %12.10f]", v[0], v[1], v[2])
}

func (v Vec3)Sub(w Vec3) Vec3     { return Vec3{v[0]-w[0], v[1]-w[1], v[2]-w[2]} }
func (v Vec3)Scale(k float64) Vec3 { return Vec3{v[0]*k, v[1]*k, v[2]*k} }
func (v Vec3)Norm() float64        { return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]) }

// Distance is the euclidean distance between the two points
func (v Vec3)Distance(w Vec3) float64 { return v.Sub(w).Norm() }

func (v *Vec3)FloorAt(min float64) {
	if v[0] < min { v[0] = min }
	if v[1] < min { v[1] = min }
	if v[2] < min { v[2] = min }
}

func (v *Vec3)CeilingAt(max float64) {
	if v[0] > max { v[0] = max }
	if v[1] > max { v[1] = max }
	if v[2] > max { v[2] = max }
}
