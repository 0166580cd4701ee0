package camera

import(
	"bufio"
	"fmt"
	"os"

	"github.com/abworrall/radiocal/pkg/emath"
)

// Save writes the model out as the four tables, in the layout Load
// expects. Every white balance block up to WhiteBalanceIndex gets a copy
// of this model's settings. Handy for making fixtures and skeleton
// models.
func (m *Model)Save(dir string) error {
	files := NewModelFiles(dir, m.Direction)
	m.Files = files

	transform := []emath.Vec3{}
	transform = append(transform, matRows(m.ColorTransform)...)
	for k:=1; k<=m.WhiteBalanceIndex; k++ {
		transform = append(transform, matRows(m.Combined)...)
		transform = append(transform, emath.Vec3{m.WhiteBalance[0], m.WhiteBalance[4], m.WhiteBalance[8]})
		transform = append(transform, emath.Vec3{float64(k), 0, 0})
	}

	coefs := append([]emath.Vec3{}, m.Gamut.Weights...)
	coefs = append(coefs, m.Gamut.Bias[:]...)

	tables := []struct{
		filename string
		rows     []emath.Vec3
	}{
		{files.Transform, transform},
		{files.ControlPoints, m.Gamut.ControlPoints},
		{files.Coefs, coefs},
		{files.RespFcns, m.ToneCurve[:]},
	}

	for _, t := range tables {
		if err := writeTable(t.filename, t.rows); err != nil {
			return err
		}
	}
	return nil
}

func matRows(m emath.Mat3) []emath.Vec3 {
	return []emath.Vec3{
		{m[0], m[1], m[2]},
		{m[3], m[4], m[5]},
		{m[6], m[7], m[8]},
	}
}

func writeTable(filename string, rows []emath.Vec3) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range rows {
		fmt.Fprintf(w, "%.10g %.10g %.10g\n", r[0], r[1], r[2])
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write '%s': %v", filename, err)
	}
	return f.Close()
}
