package radiocal

import(
	"fmt"
	"image"

	"github.com/abworrall/radiocal/pkg/camera"
)

type NamedPatch struct {
	Name string
	*Patch
}

// A Result is everything one pipeline invocation produced for one patch.
type Result struct {
	Direction camera.Direction
	Index     int             // which patch, in the order the driver generated them
	Rect      image.Rectangle

	Stages    []NamedPatch    // the input, and then one per stage, in order
	Output    *Patch          // same as the last stage
	Reference *Patch          // ground truth, cut from the other image
}

func (r *Result)String() string {
	str := fmt.Sprintf("Result[#%03d %s %s] stages:", r.Index, r.Direction, r.Rect)
	for _, s := range r.Stages {
		str += " " + s.Name
	}
	return str
}

// Sources are the two images of the same scene that a model maps
// between.
type Sources struct {
	Raw      image.Image // the sensor mosaic, one sample per pixel
	Rendered image.Image // the camera's own rendering (e.g. the JPEG)
}

func (s Sources)check(r image.Rectangle) error {
	if s.Raw == nil || s.Rendered == nil {
		return fmt.Errorf("need both raw and rendered images")
	}
	if !r.In(s.Raw.Bounds()) {
		return fmt.Errorf("patch %s not inside raw image %s", r, s.Raw.Bounds())
	}
	if !r.In(s.Rendered.Bounds()) {
		return fmt.Errorf("patch %s not inside rendered image %s", r, s.Rendered.Bounds())
	}
	return nil
}
