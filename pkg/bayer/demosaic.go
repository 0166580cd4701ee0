package bayer

import(
	"fmt"
	"image"

	"github.com/abworrall/radiocal/pkg/emath"
)

// Demosaic reconstructs full RGB values for every pixel in `r`, using
// bilinear interpolation: a channel the photosite recorded is taken as-is,
// the other two are the average of the same-channel photosites in the
// surrounding 3x3 block. Only samples inside the mosaic are used, so
// the edges of the mosaic average over fewer neighbours.
//
// To get the same answer as demosaicing the whole image, the mosaic
// should extend at least one pixel beyond `r` wherever the image does.
func Demosaic(m Mosaic, l Layout, r image.Rectangle) ([]emath.Vec3, error) {
	if !r.In(m.Rect) {
		return nil, fmt.Errorf("demosaic: region %s not inside mosaic %s", r, m.Rect)
	}

	out := make([]emath.Vec3, 0, r.Dx()*r.Dy())
	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			out = append(out, demosaicAt(m, l, x, y))
		}
	}
	return out, nil
}

func demosaicAt(m Mosaic, l Layout, x, y int) emath.Vec3 {
	var sum, n [3]float64

	own := l.ChannelAt(x, y)
	for dy:=-1; dy<=1; dy++ {
		for dx:=-1; dx<=1; dx++ {
			nx, ny := x+dx, y+dy
			if !m.In(nx, ny) {
				continue
			}
			ch := l.ChannelAt(nx, ny)
			if ch == own {
				continue
			}
			sum[ch] += m.At(nx, ny)
			n[ch]++
		}
	}

	ret := emath.Vec3{}
	for c:=0; c<3; c++ {
		switch {
		case c == own: ret[c] = m.At(x, y)
		case n[c] > 0: ret[c] = sum[c] / n[c]
		}
	}
	return ret
}
