package ecolor

import(
	"fmt"
	"math"

	"github.com/abworrall/radiocal/pkg/emath"
)

const ToneCurveLevels = 256

// A ToneCurve is the camera's response function, discretized into 256
// rendered levels. Entry [i][c] holds the (normalized) sensor value
// that renders to level (i+1)/256 on channel c.
//
// Indices are 0-based in here; the +1 only shows up when converting
// between an index and a rendered value.
type ToneCurve [ToneCurveLevels]emath.Vec3

// LinearToneCurve is the curve where sensor value == rendered value.
func LinearToneCurve() ToneCurve {
	tc := ToneCurve{}
	for i:=0; i<ToneCurveLevels; i++ {
		v := float64(i+1) / float64(ToneCurveLevels)
		tc[i] = emath.Vec3{v, v, v}
	}
	return tc
}

func levelToRendered(i int) float64 { return float64(i+1) / float64(ToneCurveLevels) }

// Tonemap maps a sensor-referred color to a rendered color. For each
// channel it finds the level whose stored sensor value is closest to
// the input; ties go to the lowest level.
func (tc *ToneCurve)Tonemap(sensor emath.Vec3) emath.Vec3 {
	out := emath.Vec3{}
	for c:=0; c<3; c++ {
		best, bestDiff := 0, math.Inf(1)
		for i:=0; i<ToneCurveLevels; i++ {
			if d := math.Abs(tc[i][c] - sensor[c]); d < bestDiff {
				best, bestDiff = i, d
			}
		}
		out[c] = levelToRendered(best)
	}
	return out
}

// RevTonemap maps a rendered color back to a sensor-referred one, by
// quantizing each channel to a level in [1,256] and reading the table.
func (tc *ToneCurve)RevTonemap(rendered emath.Vec3) emath.Vec3 {
	out := emath.Vec3{}
	for c:=0; c<3; c++ {
		level := emath.ClampInt(int(math.Round(rendered[c] * float64(ToneCurveLevels))), 1, ToneCurveLevels)
		out[c] = tc[level-1][c]
	}
	return out
}

// Validate checks each channel is non-decreasing. The nearest-match
// lookup in Tonemap only has a well defined answer for monotonic curves.
func (tc *ToneCurve)Validate() error {
	for c:=0; c<3; c++ {
		for i:=1; i<ToneCurveLevels; i++ {
			if tc[i][c] < tc[i-1][c] {
				return fmt.Errorf("tone curve channel %d decreases at level %d (%f < %f)", c, i, tc[i][c], tc[i-1][c])
			}
		}
	}
	return nil
}

func (tc *ToneCurve)String() string {
	return fmt.Sprintf("ToneCurve[first %s, mid %s, last %s]", tc[0], tc[ToneCurveLevels/2-1], tc[ToneCurveLevels-1])
}
