package radiocal

import(
	"fmt"
	"image"
	"io/ioutil"
	"log"
	"runtime"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/radiocal/pkg/bayer"
	"github.com/abworrall/radiocal/pkg/camera"
)

/* Example config file ...

modeldir: ./model/nikon-d40
whitebalanceindex: 2
layout: rggb
rawimage: ./data/DSC_0042.tif
renderedimage: ./data/DSC_0042.jpg
patchsize: 32
patches:
  - [ 400, 300]
  - [1200, 800]
outputdir: results
exportscale: 4
verbosity: 1

*/

type Config struct {
	Verbosity              int

	// The camera model
	ModelDir               string
	WhiteBalanceIndex      int      // 1-based, picks a block out of the transform tables
	Layout                 string   // bayer layout of the raw image
	CombinedTolerance      float64
	AllowNonMonotonicCurve bool

	// The images to validate against
	RawImage               string   // single channel mosaic (TIFF)
	RenderedImage          string   // the camera's own rendering of the same shot (JPEG etc)

	// Which patches to look at. If Patches is empty, tile the image.
	PatchSize              int
	Patches                [][2]int // top-left corners, in source image coords
	MaxPatches             int      // 0 means no limit

	Workers                int
	ContinueOnError        bool     // skip patches that fail, rather than abort the run

	OutputDir              string
	ExportScale            int      // upscale factor for exported PNGs, so small patches are viewable
	ExportHDR              bool
	PreviewOperator        string   // tone mapping operator for preview PNGs of each stage, e.g. reinhard05
	DebugPixels            [][2]int // dump all stage values for these pixels (needs verbosity > 1)

	// Values we figure out elsewhere
	BayerLayout            bayer.Layout `yaml:"-"`
}

func NewConfig() Config {
	return Config{
		WhiteBalanceIndex: 1,
		Layout:            "rggb",
		CombinedTolerance: camera.DefaultCombinedTolerance,
		PatchSize:         32,
		Workers:           runtime.NumCPU(),
		ContinueOnError:   true,
		OutputDir:         "results",
		ExportScale:       4,
		BayerLayout:       bayer.RGGB,
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, c.FinalizeConfig()
}

func LoadConfig(filename string) (Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read '%s': %v", filename, err)
	}

	c, err := newConfigFromYaml(contents)
	if err != nil {
		return c, fmt.Errorf("config parse '%s': %v", filename, err)
	}
	return c, nil
}

// FinalizeConfig does sanity checks and other post-processing. Call it
// again after overriding any fields.
func (c *Config)FinalizeConfig() error {
	l, err := bayer.ParseLayout(c.Layout)
	if err != nil {
		return err
	}
	c.BayerLayout = l

	if c.WhiteBalanceIndex < 1 {
		return fmt.Errorf("whitebalanceindex %d, must be >= 1", c.WhiteBalanceIndex)
	}
	if c.PatchSize < 1 {
		return fmt.Errorf("patchsize %d, must be >= 1", c.PatchSize)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.ExportScale < 1 {
		c.ExportScale = 1
	}
	if err := CheckPreviewOperator(c.PreviewOperator); err != nil {
		return err
	}
	if c.PreviewOperator != "" {
		if err := CheckPreviewSize(c.PreviewOperator, c.PatchRect(image.Point{})); err != nil {
			return err
		}
	}

	return nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

func (c Config)LoadOptions() camera.LoadOptions {
	return camera.LoadOptions{
		CombinedTolerance:      c.CombinedTolerance,
		AllowNonMonotonicCurve: c.AllowNonMonotonicCurve,
	}
}

func (c Config)ExportOptions() ExportOptions {
	return ExportOptions{Scale: c.ExportScale, HDR: c.ExportHDR, Preview: c.PreviewOperator}
}

// PatchRect is the rectangle for a patch with top-left corner `origin`.
func (c Config)PatchRect(origin image.Point) image.Rectangle {
	return image.Rectangle{Min: origin, Max: origin.Add(image.Point{c.PatchSize, c.PatchSize})}
}
