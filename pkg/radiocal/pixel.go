package radiocal

import(
	"fmt"
	"image"
	"sync"

	"github.com/abworrall/radiocal/pkg/bayer"
	"github.com/abworrall/radiocal/pkg/camera"
	"github.com/abworrall/radiocal/pkg/ecolor"
	"github.com/abworrall/radiocal/pkg/emath"
)

// Env is everything a PixelFunc might need. It is read-only once
// built; each pipeline invocation gets its own.
type Env struct {
	Model   *camera.Model
	Inverse emath.Mat3   // of Model.Combined; only set for the backward direction
	Layout  bayer.Layout
	Workers int
}

// NewEnv wraps the model. For the backward direction it also inverts the
// combined transform, which can fail.
func NewEnv(m *camera.Model, layout bayer.Layout, workers int) (*Env, error) {
	env := &Env{
		Model:   m,
		Layout:  layout,
		Workers: workers,
	}
	if env.Workers < 1 {
		env.Workers = 1
	}

	if m.Direction == camera.Backward {
		inv, err := m.Combined.Inverse()
		if err != nil {
			sErr := &SingularTransformError{File: m.Files.Transform, Err: err}
			if s, ok := err.(*emath.SingularMatrixError); ok {
				sErr.Condition = s.Condition
			}
			return nil, sErr
		}
		env.Inverse = inv
	}

	return env, nil
}

// RunStage applies the func to every pixel of the input, returning a
// new patch. Rows get spread over a pool of goroutines; since each
// pixel only depends on itself the output doesn't depend on the
// number of workers.
func (env *Env)RunStage(in *Patch, f PixelFunc) *Patch {
	out := NewPatch(in.Rect)

	var wg sync.WaitGroup
	rowsChan := make(chan int, in.Rect.Dy())

	for i:=0; i<env.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rowsChan {
				for x:=in.Rect.Min.X; x<in.Rect.Max.X; x++ {
					pos := image.Point{x, y}
					out.Set(x, y, f(env, pos, in.Get(x, y)))
				}
			}
		}()
	}

	for y:=in.Rect.Min.Y; y<in.Rect.Max.Y; y++ {
		rowsChan<- y
	}
	close(rowsChan)
	wg.Wait()

	return out
}

// RunStages runs a sequence of stages, keeping each intermediate patch.
func (env *Env)RunStages(in NamedPatch, stages []Stage) []NamedPatch {
	ret := []NamedPatch{in}
	curr := in.Patch
	for _, s := range stages {
		curr = env.RunStage(curr, s.Func)
		ret = append(ret, NamedPatch{Name: s.Name, Patch: curr})
	}
	return ret
}

// PixelTrace dumps the value of a single pixel at every stage of the
// pipeline, which is about the only way to debug a model.
func (r *Result)PixelTrace(pt image.Point) string {
	str := fmt.Sprintf("----- Pixel @(%d,%d) [patch #%03d, %s] -----\n", pt.X, pt.Y, r.Index, r.Direction)
	if !pt.In(r.Rect) {
		return str + "(not in patch)\n"
	}

	for _, s := range r.Stages {
		v := s.Get(pt.X, pt.Y)
		str += fmt.Sprintf("%-16s: [%12.10f, %12.10f, %12.10f]\n", s.Name, v[0], v[1], v[2])
	}

	out := ecolor.Levels8(r.Output.Get(pt.X, pt.Y))
	ref := ecolor.Levels8(r.Reference.Get(pt.X, pt.Y))
	str += fmt.Sprintf("%-16s: [%12.0f, %12.0f, %12.0f]\n", "output(8bit)", out[0], out[1], out[2])
	str += fmt.Sprintf("%-16s: [%12.0f, %12.0f, %12.0f]\n", "reference(8bit)", ref[0], ref[1], ref[2])
	str += fmt.Sprintf("\n")

	return str
}
