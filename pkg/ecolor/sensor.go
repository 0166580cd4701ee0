package ecolor

import(
	"image/color"

	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/radiocal/pkg/emath"
)

// All of this stuff expects color channel values in the range [0, 1.0];
// the sensor gives values in the range [0, 0xFFFF], and 8-bit rendered
// images get widened to that range by color.Color.RGBA().

// NewSensorColor treats the input RGB channels as [0, 0xFFFF], and
// scales them down to unit floats.
func NewSensorColor(col color.Color) emath.Vec3 {
	r, g, b, _ := col.RGBA()

	return emath.Vec3{
		float64(r) / float64(0xFFFF),
		float64(g) / float64(0xFFFF),
		float64(b) / float64(0xFFFF),
	}
}

// NewSensorSample reads a single photosite value from a mosaic image. The
// image is expected to be grayscale (one sample per pixel); anything
// else gets flattened via the standard gray model.
func NewSensorSample(col color.Color) float64 {
	g := color.Gray16Model.Convert(col).(color.Gray16)
	return float64(g.Y) / float64(0xFFFF)
}

// ToRGBA8 generates the 8-bit color that would be written out for this
// value. This is one of the few places in the pipeline where clipping
// happens.
func ToRGBA8(v emath.Vec3) color.RGBA {
	return color.RGBA{emath.Quantize8(v[0]), emath.Quantize8(v[1]), emath.Quantize8(v[2]), 0xFF}
}

func ToRGBA64(v emath.Vec3) color.RGBA64 {
	return color.RGBA64{emath.Quantize16(v[0]), emath.Quantize16(v[1]), emath.Quantize16(v[2]), 0xFFFF}
}

// Levels8 returns the 8-bit levels for each channel, as floats, so they
// can be averaged.
func Levels8(v emath.Vec3) emath.Vec3 {
	return emath.Vec3{
		float64(emath.Quantize8(v[0])),
		float64(emath.Quantize8(v[1])),
		float64(emath.Quantize8(v[2])),
	}
}

// ToHDR is unclipped.
func ToHDR(v emath.Vec3) hdrcolor.RGB {
	return hdrcolor.RGB{R: v[0], G: v[1], B: v[2]}
}
