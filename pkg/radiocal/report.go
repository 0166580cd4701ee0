package radiocal

import(
	"fmt"
	"image"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/codahale/hdrhistogram"
	"github.com/skypies/util/histogram"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/radiocal/pkg/camera"
)

// PatchReport is the outcome of one pipeline over one patch; either
// Comparison is filled in, or Err is set.
type PatchReport struct {
	Index      int
	Origin     image.Point
	Direction  camera.Direction
	Comparison Comparison
	Err        error
}

// WriteRows writes the three comma separated lines for a patch: result
// averages, reference averages, and the percentage errors.
func WriteRows(w io.Writer, c Comparison) error {
	for _, v := range [][3]float64{c.ResultAvg, c.RefAvg, c.ErrorPct} {
		if _, err := fmt.Fprintf(w, "%.4f,%.4f,%.4f\n", v[0], v[1], v[2]); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport writes the rows for all the successful patches, in
// patch order. Failed patches get a comment line, so the file still
// lines up with the log.
func WriteReport(filename string, reports []PatchReport) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer f.Close()

	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(f, "# patch %03d @%s failed: %v\n", r.Index, r.Origin, r.Err)
			continue
		}
		if err := WriteRows(f, r.Comparison); err != nil {
			return fmt.Errorf("write '%s': %v", filename, err)
		}
	}
	return f.Close()
}

type DirectionSummary struct {
	Attempted    int        `yaml:"attempted"`
	Succeeded    int        `yaml:"succeeded"`
	Failed       int        `yaml:"failed"`
	MeanErrorPct [3]float64 `yaml:"meanerrorpct,flow"`
	MeanAbsPct   [3]float64 `yaml:"meanabserrorpct,flow"`
	MeanDeltaE   float64    `yaml:"meandeltae"`
	AbsErrP50    int64      `yaml:"abserrp50"` // 8-bit levels, per pixel
	AbsErrP95    int64      `yaml:"abserrp95"`
	AbsErrMax    int64      `yaml:"abserrmax"`
}

type Summary struct {
	RunID    string           `yaml:"runid"`
	Camera   CameraInfo       `yaml:"camera"`
	Forward  DirectionSummary `yaml:"forward"`
	Backward DirectionSummary `yaml:"backward"`
}

func (s Summary)AsYaml() string {
	b, err := yaml.Marshal(s)
	if err != nil {
		log.Fatalf("Can't marshal summary yaml: %v\n", err)
	}
	return string(b)
}

func (s Summary)WriteYaml(filename string) error {
	if err := ioutil.WriteFile(filename, []byte(s.AsYaml()), 0644); err != nil {
		return fmt.Errorf("write '%s': %v", filename, err)
	}
	return nil
}

// errorStats accumulates the per-pixel errors for one direction.
type errorStats struct {
	summary   DirectionSummary
	hist      histogram.Histogram
	quantiles *hdrhistogram.Histogram
	sumDeltaE float64
}

func newErrorStats() *errorStats {
	return &errorStats{
		hist:      histogram.Histogram{NumBuckets:256, ValMin:0, ValMax:256},
		quantiles: hdrhistogram.New(0, 255, 3),
	}
}

func (es *errorStats)Add(r PatchReport) {
	es.summary.Attempted++
	if r.Err != nil {
		es.summary.Failed++
		return
	}
	es.summary.Succeeded++

	c := r.Comparison
	for ch:=0; ch<3; ch++ {
		es.summary.MeanErrorPct[ch] += c.ErrorPct[ch]
		if c.ErrorPct[ch] < 0 {
			es.summary.MeanAbsPct[ch] -= c.ErrorPct[ch]
		} else {
			es.summary.MeanAbsPct[ch] += c.ErrorPct[ch]
		}
	}
	es.sumDeltaE += c.DeltaE

	for _, v := range c.AbsDiff.Values() {
		es.hist.Add(histogram.ScalarVal(int(v)))
		es.quantiles.RecordValue(int64(v))
	}
}

func (es *errorStats)Summary() DirectionSummary {
	s := es.summary
	if s.Succeeded > 0 {
		n := float64(s.Succeeded)
		for ch:=0; ch<3; ch++ {
			s.MeanErrorPct[ch] /= n
			s.MeanAbsPct[ch] /= n
		}
		s.MeanDeltaE = es.sumDeltaE / n
		s.AbsErrP50 = es.quantiles.ValueAtQuantile(50)
		s.AbsErrP95 = es.quantiles.ValueAtQuantile(95)
		s.AbsErrMax = es.quantiles.Max()
	}
	return s
}

// Summarize builds the run summary from the per patch reports, and
// writes the report files into dir.
func Summarize(dir, runID string, ci CameraInfo, reports []PatchReport) (Summary, error) {
	s := Summary{RunID: runID, Camera: ci}

	byDir := map[camera.Direction][]PatchReport{}
	for _, r := range reports {
		byDir[r.Direction] = append(byDir[r.Direction], r)
	}

	for _, d := range []camera.Direction{camera.Forward, camera.Backward} {
		es := newErrorStats()
		for _, r := range byDir[d] {
			es.Add(r)
		}

		if err := WriteReport(filepath.Join(dir, d.String()+".txt"), byDir[d]); err != nil {
			return s, err
		}
		log.Printf("%s: per pixel abs error histogram (8-bit levels):\n%v\n", d, es.hist)

		if d == camera.Forward {
			s.Forward = es.Summary()
		} else {
			s.Backward = es.Summary()
		}
	}

	return s, s.WriteYaml(filepath.Join(dir, "summary.yaml"))
}
