package camera

import "fmt"

// A ModelLoadError means a model table was missing, unparsable, or the
// wrong shape. Nothing from the model can be used.
type ModelLoadError struct {
	Direction Direction
	File      string
	Err       error
}

func (e *ModelLoadError)Error() string {
	return fmt.Sprintf("%s model load '%s': %v", e.Direction, e.File, e.Err)
}

func (e *ModelLoadError)Unwrap() error { return e.Err }

// A ModelIntegrityError means the tables loaded fine, but don't agree
// with each other (or the tone curve isn't usable). It is never
// downgraded to a warning.
type ModelIntegrityError struct {
	Direction Direction
	File      string
	Reason    string

	// Where the stored & recomputed values disagree, if relevant
	Row, Col  int
	Stored    float64
	Computed  float64
}

func (e *ModelIntegrityError)Error() string {
	if e.Stored != e.Computed {
		return fmt.Sprintf("%s model integrity '%s': %s at [%d,%d] (stored %f, computed %f)",
			e.Direction, e.File, e.Reason, e.Row, e.Col, e.Stored, e.Computed)
	}
	return fmt.Sprintf("%s model integrity '%s': %s", e.Direction, e.File, e.Reason)
}
