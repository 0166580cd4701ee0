package radiocal

import(
	"fmt"
	"image"

	"github.com/abworrall/radiocal/pkg/camera"
)

// A SingularTransformError means the backward pipeline could not invert
// the model's combined transform. It only spoils the patch being
// processed.
type SingularTransformError struct {
	File      string
	Condition float64
	Err       error
}

func (e *SingularTransformError)Error() string {
	return fmt.Sprintf("combined transform from '%s' is not invertible: %v", e.File, e.Err)
}

func (e *SingularTransformError)Unwrap() error { return e.Err }

// A PatchShapeError means a result and its reference can't be compared.
type PatchShapeError struct {
	Result    image.Rectangle
	Reference image.Rectangle
}

func (e *PatchShapeError)Error() string {
	return fmt.Sprintf("patch shape mismatch: result %dx%d, reference %dx%d",
		e.Result.Dx(), e.Result.Dy(), e.Reference.Dx(), e.Reference.Dy())
}

// A PatchError wraps anything that goes wrong while processing a
// patch, with enough context to reproduce it.
type PatchError struct {
	Index     int
	Direction camera.Direction
	Origin    image.Point
	Err       error
}

func (e *PatchError)Error() string {
	return fmt.Sprintf("patch #%03d @%s (%s): %v", e.Index, e.Origin, e.Direction, e.Err)
}

func (e *PatchError)Unwrap() error { return e.Err }
