package radiocal

import(
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/radiocal/pkg/bayer"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	require.NoError(t, c.FinalizeConfig())

	assert.Equal(t, 1, c.WhiteBalanceIndex)
	assert.Equal(t, bayer.RGGB, c.BayerLayout)
	assert.True(t, c.ContinueOnError)
	assert.Equal(t, 32, c.PatchSize)
	assert.GreaterOrEqual(t, c.Workers, 1)
	assert.Equal(t, image.Rect(10, 20, 42, 52), c.PatchRect(image.Point{10, 20}))
}

func TestConfigFromYaml(t *testing.T) {
	c, err := newConfigFromYaml([]byte(`
modeldir: /tmp/model
whitebalanceindex: 4
patchsize: 16
patches:
  - [100, 200]
  - [ 17,   3]
continueonerror: false
`))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/model", c.ModelDir)
	assert.Equal(t, 4, c.WhiteBalanceIndex)
	assert.Equal(t, [][2]int{{100, 200}, {17, 3}}, c.Patches)
	assert.False(t, c.ContinueOnError)
	assert.Equal(t, "rggb", c.Layout) // default survives

	assert.Contains(t, c.AsYaml(), "whitebalanceindex: 4")
}

func TestConfigRejects(t *testing.T) {
	for _, str := range []string{
		"layout: bggr",
		"whitebalanceindex: 0",
		"patchsize: -1",
		"previewoperator: fattal02",
	} {
		_, err := newConfigFromYaml([]byte(str))
		assert.Error(t, err, str)
	}
}
