package radiocal

import(
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/abworrall/radiocal/pkg/camera"
)

// A Validator runs both pipelines over a batch of patches, and writes
// out the exports and reports.
type Validator struct {
	Config
	RunID     string
	OutputDir string // Config.OutputDir plus the run id
	Sources
	Camera    CameraInfo
}

func NewValidator(cfg Config) *Validator {
	id := uuid.New().String()
	return &Validator{
		Config:    cfg,
		RunID:     id,
		OutputDir: filepath.Join(cfg.OutputDir, id),
	}
}

func (v *Validator)String() string {
	return fmt.Sprintf("Validator[%s] model=%s wb#%d layout=%s", v.RunID, v.ModelDir, v.WhiteBalanceIndex, v.BayerLayout)
}

// LoadImages loads both source images. EXIF info is nice to have, so
// failing to read it only gets logged.
func (v *Validator)LoadImages() error {
	var err error
	if v.Raw, err = LoadImage(v.RawImage); err != nil {
		return err
	}
	if v.Rendered, err = LoadImage(v.RenderedImage); err != nil {
		return err
	}

	if v.Camera, err = LoadCameraInfo(v.RenderedImage); err != nil {
		log.Printf("no camera info: %v\n", err)
	}

	log.Printf("Loaded raw %s (%s), rendered %s (%s), camera %s\n", v.RawImage, v.Raw.Bounds(),
		v.RenderedImage, v.Rendered.Bounds(), v.Camera)
	return nil
}

// Patches returns the top-left corner of each patch to process: either
// those listed in the config, or a grid that tiles the area both images
// cover. MaxPatches caps either list.
func (v *Validator)Patches() []image.Point {
	ret := []image.Point{}

	if len(v.Config.Patches) > 0 {
		for _, p := range v.Config.Patches {
			ret = append(ret, image.Point{p[0], p[1]})
		}

	} else if v.Raw != nil && v.Rendered != nil {
		area := v.Raw.Bounds().Intersect(v.Rendered.Bounds())
		for y:=area.Min.Y; y+v.PatchSize<=area.Max.Y; y+=v.PatchSize {
			for x:=area.Min.X; x+v.PatchSize<=area.Max.X; x+=v.PatchSize {
				ret = append(ret, image.Point{x, y})
			}
		}
	}

	if v.MaxPatches > 0 && len(ret) > v.MaxPatches {
		ret = ret[:v.MaxPatches]
	}
	return ret
}

type patchJob struct {
	// Inputs for the job
	Index    int
	Origin   image.Point

	// Output
	Reports  []PatchReport
	Fatal    error
}

// Run processes all the patches over a pool of goroutines. Model load
// and integrity errors stop the run; anything else only spoils the
// patch it happened in, unless ContinueOnError is false.
func (v *Validator)Run(ctx context.Context) (Summary, error) {
	if err := os.MkdirAll(v.OutputDir, 0755); err != nil {
		return Summary{}, fmt.Errorf("mkdir '%s': %v", v.OutputDir, err)
	}

	origins := v.Patches()
	log.Printf("%s: running %d patches of %dx%d, output to %s\n", v, len(origins), v.PatchSize, v.PatchSize, v.OutputDir)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	jobsChan    := make(chan patchJob, len(origins))
	resultsChan := make(chan patchJob, len(origins))

	// Kick off worker pool
	for i:=0; i<v.Workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			for job := range jobsChan {
				if ctx.Err() != nil {
					continue // drain
				}
				v.runPatch(&job)
				if job.Fatal != nil {
					cancel()
				}
				resultsChan<- job
			}
		}()
	}

	// Feed in jobs
	for i, origin := range origins {
		jobsChan<- patchJob{Index: i, Origin: origin}
	}
	close(jobsChan)

	wg.Wait()
	close(resultsChan)

	jobs := []patchJob{}
	for job := range resultsChan {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Index < jobs[j].Index })

	reports := []PatchReport{}
	var fatal error
	for _, job := range jobs {
		reports = append(reports, job.Reports...)
		if job.Fatal != nil && fatal == nil {
			fatal = job.Fatal
		}
	}

	s, err := Summarize(v.OutputDir, v.RunID, v.Camera, reports)
	if err != nil {
		return s, err
	}
	log.Printf("Run summary:-\n%s", s.AsYaml())

	if fatal != nil {
		return s, fatal
	}
	if err := ctx.Err(); err != nil && len(jobs) < len(origins) {
		return s, fmt.Errorf("run stopped after %d of %d patches: %w", len(jobs), len(origins), err)
	}
	return s, nil
}

// runPatch runs both directions over one patch.
func (v *Validator)runPatch(job *patchJob) {
	r := v.PatchRect(job.Origin)

	for _, d := range []camera.Direction{camera.Forward, camera.Backward} {
		rep := PatchReport{Index: job.Index, Origin: job.Origin, Direction: d}

		if err := v.runDirection(d, job.Index, r, &rep); err != nil {
			rep.Err = &PatchError{Index: job.Index, Direction: d, Origin: job.Origin, Err: err}
			log.Printf("%v\n", rep.Err)
			if IsFatal(err) || !v.ContinueOnError {
				job.Fatal = rep.Err
			}
		} else {
			log.Printf("patch #%03d @%s %s: %s\n", job.Index, job.Origin, d, rep.Comparison)
		}

		job.Reports = append(job.Reports, rep)
		if job.Fatal != nil {
			return
		}
	}
}

func (v *Validator)runDirection(d camera.Direction, index int, r image.Rectangle, rep *PatchReport) error {
	var res *Result
	var err error
	if d == camera.Forward {
		res, err = Forward(v.Config, v.Sources, index, r)
	} else {
		res, err = Backward(v.Config, v.Sources, index, r)
	}
	if err != nil {
		return err
	}

	if err := ExportResult(v.OutputDir, res, v.ExportOptions()); err != nil {
		return err
	}

	c, err := Compare(res.Output, res.Reference)
	if err != nil {
		return err
	}
	rep.Comparison = c

	if v.Verbosity > 0 {
		title := fmt.Sprintf("#%03d %s: err%% %s, dE %.2f", index, d, c.ErrorPct, c.DeltaE)
		if err := c.Heatmap(title, ExportFilename(v.OutputDir, res, "heatmap", "png"), v.ExportScale); err != nil {
			return err
		}
	}
	if v.Verbosity > 1 {
		for _, p := range v.DebugPixels {
			if pt := (image.Point{p[0], p[1]}); pt.In(r) {
				log.Printf("%s", res.PixelTrace(pt))
			}
		}
	}

	return nil
}

// IsFatal is true for errors that will happen for every patch, so
// there's no point carrying on.
func IsFatal(err error) bool {
	var loadErr *camera.ModelLoadError
	var integrityErr *camera.ModelIntegrityError
	return errors.As(err, &loadErr) || errors.As(err, &integrityErr)
}
