package camera

import(
	"fmt"
	"path/filepath"

	"github.com/abworrall/radiocal/pkg/ecolor"
	"github.com/abworrall/radiocal/pkg/emath"
)

// Direction says which way a pipeline runs; each direction has its own
// set of model tables.
type Direction int

const(
	Forward  Direction = iota // raw sensor -> rendered
	Backward                  // rendered -> raw sensor
)

func (d Direction)String() string {
	switch d {
	case Forward:  return "forward"
	case Backward: return "backward"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Prefix is the filename prefix the model tables use for this direction.
func (d Direction)Prefix() string {
	if d == Backward {
		return "jpg2raw"
	}
	return "raw2jpg"
}

// The four tables that make up a model, for one direction.
type ModelFiles struct {
	Transform     string
	ControlPoints string
	Coefs         string
	RespFcns      string
}

func NewModelFiles(dir string, d Direction) ModelFiles {
	return ModelFiles{
		Transform:     filepath.Join(dir, d.Prefix()+"_transform.txt"),
		ControlPoints: filepath.Join(dir, d.Prefix()+"_ctrlPoints.txt"),
		Coefs:         filepath.Join(dir, d.Prefix()+"_coefs.txt"),
		RespFcns:      filepath.Join(dir, d.Prefix()+"_respFcns.txt"),
	}
}

// A Model holds the camera model tables for one direction, sliced up
// into the pieces the pipelines need. It is read-only once loaded.
type Model struct {
	Direction         Direction
	Files             ModelFiles
	WhiteBalanceIndex int         // 1-based, as used in the transform table

	ColorTransform    emath.Mat3
	WhiteBalance      emath.Mat3  // diagonal
	Combined          emath.Mat3  // ColorTransform x WhiteBalance, as stored in the model

	Gamut             ecolor.GamutModel
	ToneCurve         ecolor.ToneCurve
}

// NewIdentityModel builds a model that does nothing: identity
// transforms, a pass-through gamut model and a linear tone curve.
func NewIdentityModel(d Direction) *Model {
	return &Model{
		Direction:         d,
		WhiteBalanceIndex: 1,
		ColorTransform:    emath.Identity3(),
		WhiteBalance:      emath.Identity3(),
		Combined:          emath.Identity3(),
		Gamut:             ecolor.IdentityGamutModel(),
		ToneCurve:         ecolor.LinearToneCurve(),
	}
}

func (m *Model)String() string {
	str := fmt.Sprintf("Model[%s, wb#%d, %s]\n", m.Direction, m.WhiteBalanceIndex, m.Files.Transform)
	str += fmt.Sprintf("ColorTransform:\n%s", m.ColorTransform)
	str += fmt.Sprintf("WhiteBalance:\n%s", m.WhiteBalance)
	str += fmt.Sprintf("Combined:\n%s", m.Combined)
	str += fmt.Sprintf("%s\n%s\n", m.Gamut, m.ToneCurve.String())
	return str
}
