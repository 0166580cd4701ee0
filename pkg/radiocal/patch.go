package radiocal

import(
	"fmt"
	"image"
	"image/color"

	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/radiocal/pkg/ecolor"
	"github.com/abworrall/radiocal/pkg/emath"
)

// A Patch is a small rectangle of float RGB pixels, in the coords of
// the source image it was cut from. Values are nominally in [0,1] but
// are never clipped; clipping only happens on export and comparison.
// Implements the image.Image and hdr.Image interfaces.
type Patch struct {
	Rect image.Rectangle
	Pix  []emath.Vec3 // row-major
}

// Implement image.Image
func (p *Patch)ColorModel() color.Model       { return hdrcolor.RGBModel }
func (p *Patch)Bounds() image.Rectangle       { return p.Rect }
func (p *Patch)At(x, y int) color.Color       { return p.HDRAt(x,y) }

// Implement hdr.Image
func (p *Patch)HDRAt(x, y int) hdrcolor.Color { return ecolor.ToHDR(p.Get(x,y)) }
func (p *Patch)Size() int                     { return p.Rect.Dx() * p.Rect.Dy() }

// Pixel access, in absolute coords
func (p *Patch)offset(x, y int) int           { return (y-p.Rect.Min.Y)*p.Rect.Dx() + (x-p.Rect.Min.X) }
func (p *Patch)Get(x, y int) emath.Vec3       { return p.Pix[p.offset(x,y)] }
func (p *Patch)Set(x, y int, v emath.Vec3)    { p.Pix[p.offset(x,y)] = v }

func NewPatch(r image.Rectangle) *Patch {
	return &Patch{
		Rect: r,
		Pix:  make([]emath.Vec3, r.Dx()*r.Dy()),
	}
}

// NewPatchFromPix wraps pixels that are already in row-major order.
func NewPatchFromPix(r image.Rectangle, pix []emath.Vec3) (*Patch, error) {
	if len(pix) != r.Dx()*r.Dy() {
		return nil, fmt.Errorf("patch %s needs %d pixels, got %d", r, r.Dx()*r.Dy(), len(pix))
	}
	return &Patch{Rect: r, Pix: pix}, nil
}

// NewPatchFromImage cuts a patch out of a rendered (3 channel) image,
// scaling each channel into [0,1].
func NewPatchFromImage(img image.Image, r image.Rectangle) (*Patch, error) {
	if !r.In(img.Bounds()) {
		return nil, fmt.Errorf("patch %s not inside image %s", r, img.Bounds())
	}

	p := NewPatch(r)
	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			p.Set(x, y, ecolor.NewSensorColor(img.At(x, y)))
		}
	}
	return p, nil
}

func (p *Patch)String() string {
	return fmt.Sprintf("Patch%s", p.Rect)
}

// SameShape is true if the patches have the same dimensions (they need
// not be at the same place).
func (p *Patch)SameShape(q *Patch) bool {
	return p.Rect.Dx() == q.Rect.Dx() && p.Rect.Dy() == q.Rect.Dy()
}

// Rebased is the same pixels, with the top-left corner moved to (0,0).
func (p *Patch)Rebased() *Patch {
	return &Patch{Rect: image.Rectangle{Max: p.Rect.Size()}, Pix: p.Pix}
}

// ToRGBA quantizes to 8 bits per channel, with clipping. The output
// image has its origin at (0,0).
func (p *Patch)ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: p.Rect.Size()})
	for y:=p.Rect.Min.Y; y<p.Rect.Max.Y; y++ {
		for x:=p.Rect.Min.X; x<p.Rect.Max.X; x++ {
			img.SetRGBA(x-p.Rect.Min.X, y-p.Rect.Min.Y, ecolor.ToRGBA8(p.Get(x, y)))
		}
	}
	return img
}

func (p *Patch)ToRGBA64() *image.RGBA64 {
	img := image.NewRGBA64(image.Rectangle{Max: p.Rect.Size()})
	for y:=p.Rect.Min.Y; y<p.Rect.Max.Y; y++ {
		for x:=p.Rect.Min.X; x<p.Rect.Max.X; x++ {
			img.SetRGBA64(x-p.Rect.Min.X, y-p.Rect.Min.Y, ecolor.ToRGBA64(p.Get(x, y)))
		}
	}
	return img
}
