package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A FloatGrid is a grid of floats, with some operations. The
// comparator uses one to hold per-pixel errors.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Len() int                { return len(fg.values) }
func (fg *FloatGrid)Values() []float64       { return fg.values }

func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 {
		return 0
	}
	return len(fg.values) / fg.stride
}

func (fg *FloatGrid)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0 ; i<len(fg.values) ; i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	return min, max
}

func (fg *FloatGrid)Mean() float64 {
	if len(fg.values) == 0 {
		return 0.0
	}
	tot := 0.0
	for _, v := range fg.values {
		tot += v
	}
	return tot / float64(len(fg.values))
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}, mean %f]", fg.Dx(), fg.Dy(), min, max, fg.Mean())
}

// ToImg saves a simple grayscale heatmap, based on the range of values
// in the grid, with the title drawn over the top. Each grid cell
// becomes a `scale` x `scale` block, so small patches stay legible.
func (fg *FloatGrid)ToImg(title, filename string, scale int) error {
	if scale < 1 {
		scale = 1
	}
	min, max := fg.MinMax()
	span := max - min
	if span <= 0.0 {
		span = 1.0
	}

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx()*scale, fg.Dy()*scale}})
	for x:=0; x<fg.Dx()*scale; x++ {
		for y:=0; y<fg.Dy()*scale; y++ {
			gray := (fg.Get(x/scale, y/scale) - min) / span
			col := color.RGBA64{Quantize16(gray), Quantize16(gray), Quantize16(gray), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,0,0)
	dc.DrawString(title, 4, 14)
	return dc.SavePNG(filename)
}
