package bayer

import(
	"image"

	"github.com/abworrall/radiocal/pkg/emath"
)

// Remosaic simulates the color filter array: only the channel the
// layout assigns to `pos` survives, the other two are zeroed.
func Remosaic(l Layout, pos image.Point, col emath.Vec3) emath.Vec3 {
	ret := emath.Vec3{}
	ch := l.ChannelAt(pos.X, pos.Y)
	ret[ch] = col[ch]
	return ret
}

// RouteSample places a single raw sample into the channel the layout
// assigns to `pos`, so a raw mosaic can be compared channel-for-channel
// against remosaiced colors.
func RouteSample(l Layout, pos image.Point, v float64) emath.Vec3 {
	ret := emath.Vec3{}
	ret[l.ChannelAt(pos.X, pos.Y)] = v
	return ret
}
