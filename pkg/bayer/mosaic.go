package bayer

import(
	"image"

	"github.com/abworrall/radiocal/pkg/ecolor"
)

// A Mosaic is a region of raw sensor data: one sample per photosite,
// scaled to [0,1]. Rect is in absolute image coordinates.
type Mosaic struct {
	Rect image.Rectangle
	Pix  []float64
}

// NewMosaicFromImage copies the samples in `r` (clipped to the image
// bounds) out of a single-channel raw image.
func NewMosaicFromImage(img image.Image, r image.Rectangle) Mosaic {
	r = r.Intersect(img.Bounds())
	m := Mosaic{Rect: r, Pix: make([]float64, r.Dx()*r.Dy())}

	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			m.Pix[m.offset(x, y)] = ecolor.NewSensorSample(img.At(x, y))
		}
	}
	return m
}

func (m Mosaic)offset(x, y int) int { return (y-m.Rect.Min.Y)*m.Rect.Dx() + (x-m.Rect.Min.X) }
func (m Mosaic)At(x, y int) float64  { return m.Pix[m.offset(x, y)] }
func (m Mosaic)In(x, y int) bool     { return image.Point{x, y}.In(m.Rect) }
