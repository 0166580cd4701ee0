package camera

import(
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/abworrall/radiocal/pkg/ecolor"
	"github.com/abworrall/radiocal/pkg/emath"
)

const(
	// The transform table starts with the color transform (3 rows), and
	// then has a block of 5 rows per white balance setting.
	colorTransformRows = 3
	wbBlockRows        = 5
	wbScaleRow         = 3 // within a block; rows 0-2 are the combined transform, row 4 is unused

	DefaultCombinedTolerance = 1e-4
)

type LoadOptions struct {
	CombinedTolerance      float64 // max per-entry difference between stored & recomputed combined transform
	AllowNonMonotonicCurve bool    // skip the tone curve check, and live with first-match lookups
}

func DefaultLoadOptions() LoadOptions {
	return LoadOptions{CombinedTolerance: DefaultCombinedTolerance}
}

// Load reads the four model tables for the direction from `dir`, and
// picks out the white balance setting `wbIndex` (1-based).
func Load(dir string, d Direction, wbIndex int, opts LoadOptions) (*Model, error) {
	m := &Model{
		Direction:         d,
		Files:             NewModelFiles(dir, d),
		WhiteBalanceIndex: wbIndex,
	}

	if err := m.loadTransforms(); err != nil {
		return nil, err
	}
	if err := m.loadGamut(); err != nil {
		return nil, err
	}
	if err := m.loadToneCurve(); err != nil {
		return nil, err
	}

	if err := m.CheckCombined(opts.CombinedTolerance); err != nil {
		return nil, err
	}
	if !opts.AllowNonMonotonicCurve {
		if err := m.ToneCurve.Validate(); err != nil {
			return nil, &ModelIntegrityError{Direction: d, File: m.Files.RespFcns, Reason: err.Error()}
		}
	}

	return m, nil
}

func (m *Model)loadErr(file string, err error) error {
	return &ModelLoadError{Direction: m.Direction, File: file, Err: err}
}

func (m *Model)loadTransforms() error {
	filename := m.Files.Transform
	if m.WhiteBalanceIndex < 1 {
		return m.loadErr(filename, fmt.Errorf("white balance index %d, must be >= 1", m.WhiteBalanceIndex))
	}

	tbl, err := ReadTable(filename, 3)
	if err != nil {
		return m.loadErr(filename, err)
	}

	base := colorTransformRows + wbBlockRows*(m.WhiteBalanceIndex-1)
	if nRows, _ := tbl.Dims(); nRows < base+wbBlockRows {
		return m.loadErr(filename, fmt.Errorf("white balance index %d needs %d rows, table has %d",
			m.WhiteBalanceIndex, base+wbBlockRows, nRows))
	}

	m.ColorTransform = emath.Mat3FromDense(tbl, 0)
	m.Combined = emath.Mat3FromDense(tbl, base)
	m.WhiteBalance = emath.Diag(emath.Vec3{
		tbl.At(base+wbScaleRow, 0),
		tbl.At(base+wbScaleRow, 1),
		tbl.At(base+wbScaleRow, 2),
	})

	return nil
}

func (m *Model)loadGamut() error {
	ctrl, err := ReadTable(m.Files.ControlPoints, 3)
	if err != nil {
		return m.loadErr(m.Files.ControlPoints, err)
	}
	coefs, err := ReadTable(m.Files.Coefs, 3)
	if err != nil {
		return m.loadErr(m.Files.Coefs, err)
	}

	nCtrl, _ := ctrl.Dims()
	if nCoefs, _ := coefs.Dims(); nCoefs != nCtrl+4 {
		return m.loadErr(m.Files.Coefs, fmt.Errorf("%d control points need %d coef rows, found %d",
			nCtrl, nCtrl+4, nCoefs))
	}

	gm := ecolor.GamutModel{
		ControlPoints: make([]emath.Vec3, nCtrl),
		Weights:       make([]emath.Vec3, nCtrl),
	}
	for i:=0; i<nCtrl; i++ {
		gm.ControlPoints[i] = rowVec3(ctrl, i)
		gm.Weights[i] = rowVec3(coefs, i)
	}
	for i:=0; i<4; i++ {
		gm.Bias[i] = rowVec3(coefs, nCtrl+i)
	}

	m.Gamut = gm
	return nil
}

func (m *Model)loadToneCurve() error {
	tbl, err := ReadTable(m.Files.RespFcns, 3)
	if err != nil {
		return m.loadErr(m.Files.RespFcns, err)
	}
	if nRows, _ := tbl.Dims(); nRows != ecolor.ToneCurveLevels {
		return m.loadErr(m.Files.RespFcns, fmt.Errorf("wanted %d rows, found %d", ecolor.ToneCurveLevels, nRows))
	}

	for i:=0; i<ecolor.ToneCurveLevels; i++ {
		m.ToneCurve[i] = rowVec3(tbl, i)
	}
	return nil
}

// CheckCombined recomputes ColorTransform x WhiteBalance, and checks it
// matches the combined transform stored in the model file. A mismatch
// usually means the wrong white balance index was picked.
func (m *Model)CheckCombined(tolerance float64) error {
	if tolerance <= 0 {
		tolerance = DefaultCombinedTolerance
	}

	var prod mat.Dense
	prod.Mul(m.ColorTransform.Dense(), m.WhiteBalance.Dense())
	computed := emath.Mat3FromDense(&prod, 0)

	if row, col, diff := computed.MaxAbsDiff(m.Combined); diff > tolerance {
		return &ModelIntegrityError{
			Direction: m.Direction,
			File:      m.Files.Transform,
			Reason:    fmt.Sprintf("combined transform for white balance #%d mismatch > %g", m.WhiteBalanceIndex, tolerance),
			Row:       row,
			Col:       col,
			Stored:    m.Combined.At(row, col),
			Computed:  computed.At(row, col),
		}
	}

	return nil
}

func rowVec3(d *mat.Dense, row int) emath.Vec3 {
	return emath.Vec3{d.At(row, 0), d.At(row, 1), d.At(row, 2)}
}
