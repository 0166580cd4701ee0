package radiocal

import(
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/radiocal/pkg/ecolor"
	"github.com/abworrall/radiocal/pkg/emath"
)

// A Comparison summarizes how far a result patch is from its
// reference. All the averages are in 8-bit levels [0,255], computed
// after quantizing each pixel the same way an exported image would be.
type Comparison struct {
	ResultAvg emath.Vec3
	RefAvg    emath.Vec3
	ErrorPct  emath.Vec3      // (ResultAvg - RefAvg) / 256 * 100, signed

	DeltaE    float64         // CIEDE2000 between the two average colors
	AbsDiff   emath.FloatGrid // per pixel, largest abs level difference over the channels
}

func (c Comparison)String() string {
	return fmt.Sprintf("result %s, ref %s, err%% %s, dE %.3f",
		c.ResultAvg, c.RefAvg, c.ErrorPct, c.DeltaE)
}

// Compare averages each channel over both patches independently, and
// reports the difference as a percentage of the 8-bit range. Comparing
// a patch with itself always gives exactly zero error.
func Compare(result, reference *Patch) (Comparison, error) {
	if !result.SameShape(reference) {
		return Comparison{}, &PatchShapeError{Result: result.Rect, Reference: reference.Rect}
	}

	dx, dy := result.Rect.Dx(), result.Rect.Dy()
	c := Comparison{AbsDiff: emath.NewFloatGrid(dx, dy)}

	resTot, refTot := emath.Vec3{}, emath.Vec3{}
	for y:=0; y<dy; y++ {
		for x:=0; x<dx; x++ {
			res := ecolor.Levels8(result.Get(result.Rect.Min.X + x, result.Rect.Min.Y + y))
			ref := ecolor.Levels8(reference.Get(reference.Rect.Min.X + x, reference.Rect.Min.Y + y))

			maxDiff := 0.0
			for ch:=0; ch<3; ch++ {
				resTot[ch] += res[ch]
				refTot[ch] += ref[ch]
				maxDiff = math.Max(maxDiff, math.Abs(res[ch] - ref[ch]))
			}
			c.AbsDiff.Set(x, y, maxDiff)
		}
	}

	n := float64(dx * dy)
	if n == 0 {
		return c, nil
	}
	for ch:=0; ch<3; ch++ {
		c.ResultAvg[ch] = resTot[ch] / n
		c.RefAvg[ch]    = refTot[ch] / n
		c.ErrorPct[ch]  = (c.ResultAvg[ch] - c.RefAvg[ch]) / 256.0 * 100.0
	}

	c.DeltaE = levelsToColorful(c.ResultAvg).DistanceCIEDE2000(levelsToColorful(c.RefAvg))

	return c, nil
}

func levelsToColorful(v emath.Vec3) colorful.Color {
	return colorful.Color{R: v[0] / 255.0, G: v[1] / 255.0, B: v[2] / 255.0}
}

// Heatmap writes out the per-pixel differences as a grayscale image.
func (c Comparison)Heatmap(title, filename string, scale int) error {
	return c.AbsDiff.ToImg(title, filename, scale)
}
