package radiocal

import(
	"image"

	"github.com/abworrall/radiocal/pkg/bayer"
	"github.com/abworrall/radiocal/pkg/camera"
)

// Forward loads the raw->rendered model, and runs it over a single
// patch.
func Forward(cfg Config, src Sources, index int, r image.Rectangle) (*Result, error) {
	m, err := camera.Load(cfg.ModelDir, camera.Forward, cfg.WhiteBalanceIndex, cfg.LoadOptions())
	if err != nil {
		return nil, err
	}
	return ForwardWithModel(m, cfg.BayerLayout, cfg.Workers, src, index, r)
}

// ForwardWithModel demosaics the raw patch, pushes it through the
// model, and cuts the matching reference patch out of the rendered
// image.
func ForwardWithModel(m *camera.Model, l bayer.Layout, workers int, src Sources, index int, r image.Rectangle) (*Result, error) {
	if err := src.check(r); err != nil {
		return nil, err
	}

	env, err := NewEnv(m, l, workers)
	if err != nil {
		return nil, err
	}

	// The interpolation needs a pixel of context around the patch.
	mosaic := bayer.NewMosaicFromImage(src.Raw, r.Inset(-1))
	pix, err := bayer.Demosaic(mosaic, l, r)
	if err != nil {
		return nil, err
	}
	demosaiced, err := NewPatchFromPix(r, pix)
	if err != nil {
		return nil, err
	}

	ref, err := NewPatchFromImage(src.Rendered, r)
	if err != nil {
		return nil, err
	}

	stages := env.RunStages(NamedPatch{"demosaiced", demosaiced}, ForwardStages)

	return &Result{
		Direction: camera.Forward,
		Index:     index,
		Rect:      r,
		Stages:    stages,
		Output:    stages[len(stages)-1].Patch,
		Reference: ref,
	}, nil
}
