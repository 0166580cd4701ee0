package radiocal

import(
	"fmt"
	"image"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/tmo"
)

// The intermediate stages aren't display referred, and their PNG exports
// clip. A global tone mapping operator gives a better look at them.
var(
	PreviewOperators = []string{"drago03", "durand", "icam06", "linear", "reinhard05"}
)

// Some operators work on a downsampled copy, and fall over if the
// patch is too small for that.
var previewMinSize = map[string]int{
	"durand": 8,
}

func ListPreviewOperators() string {
	return fmt.Sprintf("%v", PreviewOperators)
}

func CheckPreviewOperator(name string) error {
	if name == "" {
		return nil
	}
	for _, op := range PreviewOperators {
		if op == name {
			return nil
		}
	}
	return fmt.Errorf("preview operator %q not recognized, wanted %s", name, ListPreviewOperators())
}

// CheckPreviewSize reports whether the operator can handle a patch of
// this size.
func CheckPreviewSize(name string, r image.Rectangle) error {
	if min := previewMinSize[name]; r.Dx() < min || r.Dy() < min {
		return fmt.Errorf("preview operator %q needs patches of at least %dx%d, got %dx%d", name, min, min, r.Dx(), r.Dy())
	}
	return nil
}

// newPreviewOperator sets up the tmo operator. The parameters are
// tuned for small, mostly mid-tone patches rather than whole scenes.
func newPreviewOperator(name string, img hdr.Image) (tmo.ToneMappingOperator, error) {
	switch name {
	case "drago03":
		op := tmo.NewDefaultDrago03(img)
		op.Bias = 0.85
		return op, nil

	case "durand":
		return tmo.NewDefaultDurand(img), nil

	case "icam06":
		op := tmo.NewDefaultICam06(img)
		op.MaxClipping = 0.999
		return op, nil

	case "linear":
		return tmo.NewLinear(img), nil

	case "reinhard05":
		return tmo.NewDefaultReinhard05(img), nil
	}

	return nil, fmt.Errorf("preview operator %q not recognized, wanted %s", name, ListPreviewOperators())
}

// Preview tone maps a patch for viewing. The operators assume images
// start at (0,0), as does the returned image.
func Preview(p *Patch, name string) (image.Image, error) {
	if err := CheckPreviewSize(name, p.Rect); err != nil {
		return nil, err
	}
	op, err := newPreviewOperator(name, p.Rebased())
	if err != nil {
		return nil, err
	}
	return op.Perform(), nil
}
