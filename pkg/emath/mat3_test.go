package emath

import(
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyIsRowVectorTimesTranspose(t *testing.T) {
	m := Mat3{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	v := Vec3{1, 0, -1}

	assert.Equal(t, Vec3{-2, -2, -2}, m.Apply(v))
	assert.Equal(t, Vec3{-6, -6, -6}, m.Transpose().Apply(v))
}

func TestDiagMult(t *testing.T) {
	m := Identity3().Mult(Diag(Vec3{2, 3, 4}))
	assert.Equal(t, Vec3{2, 3, 4}, m.Apply(Vec3{1, 1, 1}))
}

func TestInverse(t *testing.T) {
	m := Mat3{
		2, 0, 1,
		0, 1, 0,
		1, 0, 1,
	}
	inv, err := m.Inverse()
	require.NoError(t, err)

	prod := m.Mult(inv)
	_, _, diff := prod.MaxAbsDiff(Identity3())
	assert.Less(t, diff, 1e-12)
}

func TestInverseSingular(t *testing.T) {
	m := Mat3{
		1, 2, 3,
		2, 4, 6,
		0, 0, 1,
	}
	_, err := m.Inverse()
	require.Error(t, err)

	var sme *SingularMatrixError
	assert.True(t, errors.As(err, &sme))
}

func TestMaxAbsDiff(t *testing.T) {
	a := Identity3()
	b := Identity3()
	b[5] = 0.25

	row, col, diff := a.MaxAbsDiff(b)
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)
	assert.InDelta(t, 0.25, diff, 1e-15)
}

func TestQuantize8(t *testing.T) {
	assert.Equal(t, uint8(0), Quantize8(-0.5))
	assert.Equal(t, uint8(255), Quantize8(1.2))
	assert.Equal(t, uint8(128), Quantize8(0.5))
}
