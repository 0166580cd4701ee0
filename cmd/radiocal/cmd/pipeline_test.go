package cmd

import(
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/abworrall/radiocal/pkg/bayer"
	"github.com/abworrall/radiocal/pkg/radiocal"
)

// Writes a flat 8x8 RGGB mosaic, and a rendering of it that the
// identity model reproduces exactly.
func writeImagePair(t *testing.T, dir string) (string, string) {
	bounds := image.Rect(0, 0, 8, 8)
	sensor := [3]uint16{0x4CCD, 0x8000, 0xB333}

	raw := image.NewGray16(bounds)
	rendered := image.NewRGBA(bounds)
	for y:=0; y<8; y++ {
		for x:=0; x<8; x++ {
			raw.SetGray16(x, y, color.Gray16{Y: sensor[bayer.RGGB.ChannelAt(x, y)]})
			rendered.SetRGBA(x, y, color.RGBA{77, 128, 178, 0xFF})
		}
	}

	rawFile := filepath.Join(dir, "raw.tif")
	f, err := os.Create(rawFile)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, raw, nil))
	require.NoError(t, f.Close())

	renderedFile := filepath.Join(dir, "rendered.png")
	require.NoError(t, radiocal.WritePNG(rendered, renderedFile))

	return rawFile, renderedFile
}

func executeWithOutput(args ...string) (string, error) {
	var buf bytes.Buffer
	root := NewRoot(context.Background(), "test")
	root.SetOut(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestForwardCmd(t *testing.T) {
	dir := t.TempDir()
	modelDir := filepath.Join(dir, "model")
	exportDir := filepath.Join(dir, "export")
	require.NoError(t, execute("mkidentity", modelDir))
	rawFile, renderedFile := writeImagePair(t, dir)

	out, err := executeWithOutput("forward", "--model", modelDir, "--raw", rawFile, "--rendered", renderedFile,
		"--patchsize", "4", "--x", "2", "--y", "2", "--export", exportDir)
	require.NoError(t, err)

	assert.Equal(t, "77.0000,128.0000,178.0000\n77.0000,128.0000,178.0000\n0.0000,0.0000,0.0000\n", out)
	assert.FileExists(t, filepath.Join(exportDir, "000-forward-tonemapped.png"))
	assert.FileExists(t, filepath.Join(exportDir, "000-forward-heatmap.png"))
}

func TestBackwardCmd(t *testing.T) {
	dir := t.TempDir()
	modelDir := filepath.Join(dir, "model")
	require.NoError(t, execute("mkidentity", modelDir))
	rawFile, renderedFile := writeImagePair(t, dir)

	out, err := executeWithOutput("backward", "--model", modelDir, "--raw", rawFile, "--rendered", renderedFile,
		"--patchsize", "4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, lines[0], lines[1])
	assert.Equal(t, "0.0000,0.0000,0.0000", lines[2])
}

func TestForwardCmdPatchOutsideImage(t *testing.T) {
	dir := t.TempDir()
	modelDir := filepath.Join(dir, "model")
	require.NoError(t, execute("mkidentity", modelDir))
	rawFile, renderedFile := writeImagePair(t, dir)

	_, err := executeWithOutput("forward", "--model", modelDir, "--raw", rawFile, "--rendered", renderedFile,
		"--patchsize", "4", "--x", "6")
	assert.ErrorContains(t, err, "not inside")
}
