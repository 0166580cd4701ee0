package radiocal

import(
	"image"

	"github.com/abworrall/radiocal/pkg/bayer"
	"github.com/abworrall/radiocal/pkg/emath"
)

// A PixelFunc computes one pipeline stage for one pixel. It must not
// look at any other pixel, or mutate the env, so the stages can be
// run over a patch in any order (and in parallel) with the same
// result. `pos` is in source image coords.
type PixelFunc func(env *Env, pos image.Point, col emath.Vec3) emath.Vec3

type Stage struct {
	Name string
	Func PixelFunc
}

var(
	ForwardStages = []Stage{
		{"transformed", TransformByCombined},
		{"gamutmapped", MapGamut},
		{"tonemapped",  Tonemap},
	}

	BackwardStages = []Stage{
		{"revtonemapped",   RevTonemap},
		{"revgamutmapped",  MapGamut},
		{"revtransformed",  TransformByInverseCombined},
		{"remosaiced",      RemosaicByLayout},
	}
)

// TransformByCombined applies the color transform and white balance in
// one go; as a row vector product that's `col . transpose(Combined)`.
func TransformByCombined(env *Env, pos image.Point, col emath.Vec3) emath.Vec3 {
	return env.Model.Combined.Apply(col)
}

// TransformByInverseCombined undoes TransformByCombined. The env must
// have been set up with an inverse.
func TransformByInverseCombined(env *Env, pos image.Point, col emath.Vec3) emath.Vec3 {
	return env.Inverse.Apply(col)
}

// MapGamut runs the RBF; the same evaluator serves both directions,
// they just load different control points & weights.
func MapGamut(env *Env, pos image.Point, col emath.Vec3) emath.Vec3 {
	return env.Model.Gamut.Evaluate(col)
}

func Tonemap(env *Env, pos image.Point, col emath.Vec3) emath.Vec3 {
	return env.Model.ToneCurve.Tonemap(col)
}

func RevTonemap(env *Env, pos image.Point, col emath.Vec3) emath.Vec3 {
	return env.Model.ToneCurve.RevTonemap(col)
}

// RemosaicByLayout keeps only the channel the sensor would have
// recorded at this position.
func RemosaicByLayout(env *Env, pos image.Point, col emath.Vec3) emath.Vec3 {
	return bayer.Remosaic(env.Layout, pos, col)
}
