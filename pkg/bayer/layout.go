package bayer

import(
	"fmt"
	"strings"
)

// Channel indices, in the order used by emath.Vec3 colors
const(
	Red   = 0
	Green = 1
	Blue  = 2
)

// A Layout describes which color filter sits over each photosite of a
// 2x2 tile. Coordinates are 0-based and absolute (in the source image),
// so a patch can start anywhere and still pick up the right channels.
type Layout struct {
	Name string
	cfa  [2][2]int // [row%2][col%2] -> channel
}

var(
	// RGGB is the only layout supported.
	//   (even row, even col) = R
	//   (even row, odd  col) = G
	//   (odd  row, even col) = G
	//   (odd  row, odd  col) = B
	RGGB = Layout{Name: "rggb", cfa: [2][2]int{{Red, Green}, {Green, Blue}}}

	supportedLayouts = map[string]Layout{
		"rggb": RGGB,
	}

	// Known, but we don't implement them
	otherLayouts = []string{"bggr", "grbg", "gbrg"}
)

func ParseLayout(name string) (Layout, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return RGGB, nil
	}
	if l, exists := supportedLayouts[name]; exists {
		return l, nil
	}
	for _, other := range otherLayouts {
		if name == other {
			return Layout{}, fmt.Errorf("bayer layout '%s' is not supported (only rggb)", name)
		}
	}
	return Layout{}, fmt.Errorf("unknown bayer layout '%s'", name)
}

// ChannelAt returns which channel the photosite at (x,y) records.
func (l Layout)ChannelAt(x, y int) int {
	return l.cfa[mod2(y)][mod2(x)]
}

func (l Layout)String() string { return strings.ToUpper(l.Name) }

// mod2 copes with negative coords
func mod2(i int) int { return i & 1 }
