package ecolor

import(
	"fmt"

	"github.com/abworrall/radiocal/pkg/emath"
)

// A GamutModel is the learned, nonlinear part of the camera model: a
// radial basis function over a set of control points, plus an affine
// term. The kernel is the plain euclidean distance to each control
// point (not a gaussian).
type GamutModel struct {
	ControlPoints []emath.Vec3 // N points in the source color space
	Weights       []emath.Vec3 // N rows; Weights[i][c] is the weight of point i for output channel c
	Bias          [4]emath.Vec3 // Bias[0] is the constant term; Bias[1..3] multiply input channels 0..2
}

// IdentityGamutModel passes colors straight through: one control
// point with zero weight, and an identity affine term.
func IdentityGamutModel() GamutModel {
	return GamutModel{
		ControlPoints: []emath.Vec3{{0, 0, 0}},
		Weights:       []emath.Vec3{{0, 0, 0}},
		Bias: [4]emath.Vec3{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	}
}

func (gm GamutModel)NumControlPoints() int { return len(gm.ControlPoints) }

func (gm GamutModel)String() string {
	return fmt.Sprintf("Gamut[%d ctrl points, bias %s %s %s %s]",
		len(gm.ControlPoints), gm.Bias[0], gm.Bias[1], gm.Bias[2], gm.Bias[3])
}

// Evaluate maps a single color through the RBF. For each output channel:
//   sum_i( w[i][c] * |col - cp[i]| ) + b[0][c] + b[1][c]*col[0] + b[2][c]*col[1] + b[3][c]*col[2]
func (gm GamutModel)Evaluate(col emath.Vec3) emath.Vec3 {
	out := emath.Vec3{}

	for i:=0; i<len(gm.ControlPoints); i++ {
		dist := col.Distance(gm.ControlPoints[i])
		w := gm.Weights[i]
		out[0] += w[0] * dist
		out[1] += w[1] * dist
		out[2] += w[2] * dist
	}

	for c:=0; c<3; c++ {
		out[c] += gm.Bias[0][c] + gm.Bias[1][c]*col[0] + gm.Bias[2][c]*col[1] + gm.Bias[3][c]*col[2]
	}

	return out
}

// Scaled returns a copy with all the weights and biases multiplied by k.
func (gm GamutModel)Scaled(k float64) GamutModel {
	ret := GamutModel{
		ControlPoints: append([]emath.Vec3{}, gm.ControlPoints...),
		Weights:       make([]emath.Vec3, len(gm.Weights)),
	}
	for i, w := range gm.Weights {
		ret.Weights[i] = w.Scale(k)
	}
	for i, b := range gm.Bias {
		ret.Bias[i] = b.Scale(k)
	}
	return ret
}
