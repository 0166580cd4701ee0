package radiocal

import(
	"image"

	"github.com/abworrall/radiocal/pkg/bayer"
	"github.com/abworrall/radiocal/pkg/camera"
	"github.com/abworrall/radiocal/pkg/ecolor"
)

// Backward loads the rendered->raw model, and runs it over a single
// patch.
func Backward(cfg Config, src Sources, index int, r image.Rectangle) (*Result, error) {
	m, err := camera.Load(cfg.ModelDir, camera.Backward, cfg.WhiteBalanceIndex, cfg.LoadOptions())
	if err != nil {
		return nil, err
	}
	return BackwardWithModel(m, cfg.BayerLayout, cfg.Workers, src, index, r)
}

// BackwardWithModel takes a patch of the rendered image back to a
// simulated sensor mosaic. The reference is the real mosaic, with each
// sample routed into the channel its photosite records, so the two
// can be compared channel for channel.
func BackwardWithModel(m *camera.Model, l bayer.Layout, workers int, src Sources, index int, r image.Rectangle) (*Result, error) {
	if err := src.check(r); err != nil {
		return nil, err
	}

	env, err := NewEnv(m, l, workers)
	if err != nil {
		return nil, err
	}

	rendered, err := NewPatchFromImage(src.Rendered, r)
	if err != nil {
		return nil, err
	}

	ref := NewPatch(r)
	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			pos := image.Point{x, y}
			ref.Set(x, y, bayer.RouteSample(l, pos, ecolor.NewSensorSample(src.Raw.At(x, y))))
		}
	}

	stages := env.RunStages(NamedPatch{"rendered", rendered}, BackwardStages)

	return &Result{
		Direction: camera.Backward,
		Index:     index,
		Rect:      r,
		Stages:    stages,
		Output:    stages[len(stages)-1].Patch,
		Reference: ref,
	}, nil
}
