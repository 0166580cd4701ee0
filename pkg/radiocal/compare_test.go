package radiocal

import(
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/radiocal/pkg/emath"
)

func filledPatch(r image.Rectangle, col emath.Vec3) *Patch {
	p := NewPatch(r)
	for i := range p.Pix {
		p.Pix[i] = col
	}
	return p
}

func TestCompareWithSelf(t *testing.T) {
	p := NewPatch(image.Rect(5, 5, 12, 9))
	for i := range p.Pix {
		f := float64(i) / 17.0
		p.Pix[i] = emath.Vec3{f, 0.5 - f, 1.3 * f} // includes out of range values
	}

	c, err := Compare(p, p)
	require.NoError(t, err)
	assert.Equal(t, emath.Vec3{0, 0, 0}, c.ErrorPct)
	assert.Equal(t, c.ResultAvg, c.RefAvg)
	assert.InDelta(t, 0.0, c.DeltaE, 1e-9)

	min, max := c.AbsDiff.MinMax()
	assert.Zero(t, min)
	assert.Zero(t, max)
}

func TestCompareKnownValues(t *testing.T) {
	r := image.Rect(0, 0, 3, 3)
	c, err := Compare(filledPatch(r, emath.Vec3{1, 0.5, 0}), filledPatch(image.Rect(10, 10, 13, 13), emath.Vec3{0, 0.5, 0}))
	require.NoError(t, err)

	assert.Equal(t, emath.Vec3{255, 128, 0}, c.ResultAvg)
	assert.Equal(t, emath.Vec3{0, 128, 0}, c.RefAvg)
	assert.InDelta(t, 255.0/256*100, c.ErrorPct[0], 1e-9)
	assert.Zero(t, c.ErrorPct[1])
	assert.Greater(t, c.DeltaE, 0.0)
	assert.Equal(t, 255.0, c.AbsDiff.Get(2, 2))
}

func TestCompareShapeMismatch(t *testing.T) {
	_, err := Compare(NewPatch(image.Rect(0, 0, 4, 4)), NewPatch(image.Rect(0, 0, 4, 5)))
	var shapeErr *PatchShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 5, shapeErr.Reference.Dy())
}

func TestWriteRows(t *testing.T) {
	c := Comparison{
		ResultAvg: emath.Vec3{10, 20.5, 30},
		RefAvg:    emath.Vec3{12, 20, 30},
		ErrorPct:  emath.Vec3{-0.78125, 0.1953125, 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, c))
	assert.Equal(t, "10.0000,20.5000,30.0000\n12.0000,20.0000,30.0000\n-0.7812,0.1953,0.0000\n", buf.String())
}
