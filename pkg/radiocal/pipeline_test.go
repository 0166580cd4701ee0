package radiocal

import(
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/radiocal/pkg/bayer"
	"github.com/abworrall/radiocal/pkg/camera"
	"github.com/abworrall/radiocal/pkg/ecolor"
	"github.com/abworrall/radiocal/pkg/emath"
)

// Fills a gray16 image with an RGGB mosaic of a single flat sensor color
func flatRaw(r image.Rectangle, col [3]uint16) *image.Gray16 {
	img := image.NewGray16(r)
	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			img.SetGray16(x, y, color.Gray16{Y: col[bayer.RGGB.ChannelAt(x, y)]})
		}
	}
	return img
}

// A mosaic where every photosite has a different value
func gradientRaw(r image.Rectangle) *image.Gray16 {
	img := image.NewGray16(r)
	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(0x0800 + 0x0731*x + 0x1303*y)})
		}
	}
	return img
}

func TestForwardIdentityQuantizes(t *testing.T) {
	r := image.Rect(0, 0, 2, 2)

	for _, col := range [][3]uint16{
		{0x4CCD, 0x8000, 0xB333},
		{0x0010, 0x8000, 0xFFFF}, // red would round to level zero
	} {
		src := Sources{Raw: flatRaw(r, col), Rendered: image.NewRGBA(r)}
		res, err := ForwardWithModel(camera.NewIdentityModel(camera.Forward), bayer.RGGB, 2, src, 0, r)
		require.NoError(t, err)

		names := []string{}
		for _, s := range res.Stages {
			names = append(names, s.Name)
		}
		assert.Equal(t, []string{"demosaiced", "transformed", "gamutmapped", "tonemapped"}, names)

		for y:=0; y<2; y++ {
			for x:=0; x<2; x++ {
				out := res.Output.Get(x, y)
				for c:=0; c<3; c++ {
					v := float64(col[c]) / 0xFFFF
					want := math.Max(1, math.Round(v*256)) / 256
					assert.InDelta(t, want, out[c], 1e-12, "pixel (%d,%d) channel %d", x, y, c)
				}
			}
		}
	}
}

func TestForwardThenBackwardReconstructs(t *testing.T) {
	bounds := image.Rect(0, 0, 7, 6)
	r := image.Rect(1, 1, 6, 5) // odd origin, so parity comes from absolute coords
	raw := gradientRaw(bounds)

	fwd, err := ForwardWithModel(camera.NewIdentityModel(camera.Forward), bayer.RGGB, 3,
		Sources{Raw: raw, Rendered: image.NewRGBA(bounds)}, 7, r)
	require.NoError(t, err)

	// The forward output becomes the rendered image for the way back
	rendered := image.NewRGBA64(bounds)
	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			rendered.SetRGBA64(x, y, ecolor.ToRGBA64(fwd.Output.Get(x, y)))
		}
	}

	bwd, err := BackwardWithModel(camera.NewIdentityModel(camera.Backward), bayer.RGGB, 3,
		Sources{Raw: raw, Rendered: rendered}, 7, r)
	require.NoError(t, err)
	assert.Equal(t, "remosaiced", bwd.Stages[len(bwd.Stages)-1].Name)
	assert.Equal(t, camera.Backward, bwd.Direction)

	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			out, ref := bwd.Output.Get(x, y), bwd.Reference.Get(x, y)
			active := bayer.RGGB.ChannelAt(x, y)
			for c:=0; c<3; c++ {
				if c != active {
					assert.Zero(t, out[c])
					assert.Zero(t, ref[c])
					continue
				}
				assert.InDelta(t, ref[c], out[c], 1.0/256, "pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestBackwardSingularTransform(t *testing.T) {
	r := image.Rect(0, 0, 2, 2)
	m := camera.NewIdentityModel(camera.Backward)
	m.Combined = emath.Mat3{
		1, 2, 3,
		2, 4, 6,
		0, 0, 1,
	}

	src := Sources{Raw: flatRaw(r, [3]uint16{1, 2, 3}), Rendered: image.NewRGBA(r)}
	_, err := BackwardWithModel(m, bayer.RGGB, 1, src, 0, r)
	require.Error(t, err)

	var sErr *SingularTransformError
	assert.True(t, errors.As(err, &sErr))
	assert.False(t, IsFatal(err))
}

func TestPatchOutsideImage(t *testing.T) {
	src := Sources{Raw: flatRaw(image.Rect(0, 0, 4, 4), [3]uint16{1, 2, 3}), Rendered: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	_, err := ForwardWithModel(camera.NewIdentityModel(camera.Forward), bayer.RGGB, 1, src, 0, image.Rect(2, 2, 6, 6))
	assert.ErrorContains(t, err, "not inside raw image")
}

func TestRunStageIgnoresWorkerCount(t *testing.T) {
	m := camera.NewIdentityModel(camera.Forward)
	m.Gamut.ControlPoints = []emath.Vec3{{0.1, 0.2, 0.3}, {0.9, 0.5, 0.1}}
	m.Gamut.Weights = []emath.Vec3{{0.3, -0.1, 0.2}, {-0.05, 0.4, 0.1}}

	r := image.Rect(3, 2, 20, 15)
	in := NewPatch(r)
	for i := range in.Pix {
		f := float64(i) / float64(len(in.Pix))
		in.Pix[i] = emath.Vec3{f, 1 - f, f * f}
	}

	var outs []*Patch
	for _, n := range []int{1, 4, 16} {
		env, err := NewEnv(m, bayer.RGGB, n)
		require.NoError(t, err)
		outs = append(outs, env.RunStage(in, MapGamut))
	}
	assert.Equal(t, outs[0].Pix, outs[1].Pix)
	assert.Equal(t, outs[0].Pix, outs[2].Pix)
	assert.Equal(t, r, outs[0].Rect)
}

func TestPixelTrace(t *testing.T) {
	r := image.Rect(0, 0, 2, 2)
	src := Sources{Raw: flatRaw(r, [3]uint16{0x4000, 0x8000, 0xC000}), Rendered: image.NewRGBA(r)}
	res, err := ForwardWithModel(camera.NewIdentityModel(camera.Forward), bayer.RGGB, 1, src, 3, r)
	require.NoError(t, err)

	str := res.PixelTrace(image.Point{1, 1})
	assert.Contains(t, str, "Pixel @(1,1)")
	assert.Contains(t, str, "gamutmapped")
	assert.Contains(t, str, "reference(8bit)")

	assert.Contains(t, res.PixelTrace(image.Point{5, 5}), "not in patch")
}
