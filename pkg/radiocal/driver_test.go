package radiocal

import(
	"bufio"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/abworrall/radiocal/pkg/camera"
	"github.com/abworrall/radiocal/pkg/emath"
)

// Writes an identity model, an 8x8 raw TIFF and a matching PNG into a
// temp dir, and returns a config that points at them.
func testRunConfig(t *testing.T) Config {
	dir := t.TempDir()
	modelDir := filepath.Join(dir, "model")
	require.NoError(t, os.MkdirAll(modelDir, 0755))
	require.NoError(t, camera.NewIdentityModel(camera.Forward).Save(modelDir))
	require.NoError(t, camera.NewIdentityModel(camera.Backward).Save(modelDir))

	bounds := image.Rect(0, 0, 8, 8)
	raw := gradientRaw(bounds)
	rendered := image.NewRGBA(bounds)
	for y:=0; y<8; y++ {
		for x:=0; x<8; x++ {
			rendered.SetRGBA(x, y, color.RGBA{uint8(20 * x), uint8(20 * y), 128, 0xFF})
		}
	}

	rawFile := filepath.Join(dir, "raw.tif")
	f, err := os.Create(rawFile)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, raw, nil))
	require.NoError(t, f.Close())

	renderedFile := filepath.Join(dir, "rendered.png")
	require.NoError(t, WritePNG(rendered, renderedFile))

	cfg := NewConfig()
	cfg.ModelDir = modelDir
	cfg.RawImage = rawFile
	cfg.RenderedImage = renderedFile
	cfg.PatchSize = 4
	cfg.Workers = 2
	cfg.ExportScale = 2
	cfg.OutputDir = filepath.Join(dir, "out")
	require.NoError(t, cfg.FinalizeConfig())
	return cfg
}

func countLines(t *testing.T, filename string) int {
	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()

	n := 0
	for s := bufio.NewScanner(f); s.Scan(); {
		n++
	}
	return n
}

func TestValidatorRun(t *testing.T) {
	v := NewValidator(testRunConfig(t))
	require.NoError(t, v.LoadImages())
	require.Len(t, v.Patches(), 4)

	s, err := v.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, v.RunID, s.RunID)
	assert.Equal(t, 4, s.Forward.Attempted)
	assert.Equal(t, 4, s.Forward.Succeeded)
	assert.Equal(t, 4, s.Backward.Succeeded)
	assert.Zero(t, s.Backward.Failed)

	assert.Equal(t, 12, countLines(t, filepath.Join(v.OutputDir, "forward.txt")))
	assert.Equal(t, 12, countLines(t, filepath.Join(v.OutputDir, "backward.txt")))
	assert.FileExists(t, filepath.Join(v.OutputDir, "summary.yaml"))
	assert.FileExists(t, filepath.Join(v.OutputDir, "000-forward-tonemapped.png"))
	assert.FileExists(t, filepath.Join(v.OutputDir, "003-backward-reference.png"))
	assert.FileExists(t, filepath.Join(v.OutputDir, "002-backward-simulated-raw.tif"))
}

func TestValidatorPatchesFromConfig(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.Patches = [][2]int{{1, 1}, {3, 2}, {0, 0}}
	cfg.MaxPatches = 2

	v := NewValidator(cfg)
	assert.Equal(t, []image.Point{{1, 1}, {3, 2}}, v.Patches())
}

func TestValidatorMissingModelIsFatal(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.ModelDir = t.TempDir()

	v := NewValidator(cfg)
	require.NoError(t, v.LoadImages())
	_, err := v.Run(context.Background())
	require.Error(t, err)

	var patchErr *PatchError
	var loadErr *camera.ModelLoadError
	assert.True(t, errors.As(err, &patchErr))
	assert.True(t, errors.As(err, &loadErr))
	assert.True(t, IsFatal(err))
}

func TestValidatorCancelled(t *testing.T) {
	v := NewValidator(testRunConfig(t))
	require.NoError(t, v.LoadImages())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := v.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Forward.Attempted)
}

// Replaces the backward model with one whose combined transform
// can't be inverted, but is otherwise consistent.
func saveSingularBackwardModel(t *testing.T, dir string) {
	m := camera.NewIdentityModel(camera.Backward)
	m.ColorTransform = emath.Mat3{
		1, 2, 3,
		2, 4, 6,
		0, 0, 1,
	}
	m.Combined = m.ColorTransform.Mult(m.WhiteBalance)
	require.NoError(t, m.Save(dir))
}

func TestValidatorHeatmaps(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.Verbosity = 1

	v := NewValidator(cfg)
	require.NoError(t, v.LoadImages())
	_, err := v.Run(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(v.OutputDir, "000-forward-heatmap.png"))
	assert.FileExists(t, filepath.Join(v.OutputDir, "003-backward-heatmap.png"))
}

func TestValidatorSkipsSingularPatches(t *testing.T) {
	cfg := testRunConfig(t)
	saveSingularBackwardModel(t, cfg.ModelDir)

	v := NewValidator(cfg)
	require.NoError(t, v.LoadImages())
	s, err := v.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, s.Forward.Succeeded)
	assert.Equal(t, 4, s.Backward.Attempted)
	assert.Equal(t, 4, s.Backward.Failed)
	assert.Zero(t, s.Backward.Succeeded)

	contents, err := os.ReadFile(filepath.Join(v.OutputDir, "backward.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	require.Len(t, lines, 4)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "# patch "), l)
		assert.Contains(t, l, "failed")
	}
	assert.Equal(t, 12, countLines(t, filepath.Join(v.OutputDir, "forward.txt")))
}

func TestValidatorStopsOnErrorWhenAsked(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.ContinueOnError = false
	saveSingularBackwardModel(t, cfg.ModelDir)

	v := NewValidator(cfg)
	require.NoError(t, v.LoadImages())
	_, err := v.Run(context.Background())
	require.Error(t, err)

	var patchErr *PatchError
	var singularErr *SingularTransformError
	require.True(t, errors.As(err, &patchErr))
	assert.Equal(t, camera.Backward, patchErr.Direction)
	assert.True(t, errors.As(err, &singularErr))
	assert.False(t, IsFatal(err))
}
