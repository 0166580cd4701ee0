package radiocal

// Writing patches out, so a human can look at them

import(
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/abworrall/radiocal/pkg/camera"
)

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}

// WriteHDR outputs a Radiance HDR image, with no clipping. You can load
// this into photoshop or other HDR tools.
func WriteHDR(img hdr.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		if err := rgbe.Encode(writer, img); err != nil {
			return fmt.Errorf("rgbe encoding '%s': %v", filename, err)
		}
		return nil
	}
}

// WriteTIFF16 keeps 16 bits per channel, which is what the simulated raw
// needs to be compared against the real thing in other tools.
func WriteTIFF16(p *Patch, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return tiff.Encode(writer, p.ToRGBA64(), &tiff.Options{Compression: tiff.Deflate})
	}
}

// ScaleUp blows up an image by an integer factor with no smoothing, so
// each pixel of a small patch stays a crisp block.
func ScaleUp(img image.Image, scale int) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ExportFilename is where a stage of a result lives inside dir.
func ExportFilename(dir string, r *Result, stage, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%03d-%s-%s.%s", r.Index, r.Direction, stage, ext))
}

type ExportOptions struct {
	Scale   int    // upscale factor for PNGs
	HDR     bool   // also write .hdr files
	Preview string // tone mapping operator for preview PNGs, if any
}

// ExportResult writes every stage (and the reference) as an 8-bit PNG,
// and optionally as HDR and a tone mapped preview too. The backward
// output also gets a 16-bit TIFF.
func ExportResult(dir string, r *Result, opts ExportOptions) error {
	all := append([]NamedPatch{}, r.Stages...)
	all = append(all, NamedPatch{"reference", r.Reference})

	for _, s := range all {
		if err := WritePNG(ScaleUp(s.ToRGBA(), opts.Scale), ExportFilename(dir, r, s.Name, "png")); err != nil {
			return err
		}
		if opts.HDR {
			if err := WriteHDR(s.Rebased(), ExportFilename(dir, r, s.Name, "hdr")); err != nil {
				return err
			}
		}
		if opts.Preview != "" {
			img, err := Preview(s.Patch, opts.Preview)
			if err != nil {
				return err
			}
			if err := WritePNG(ScaleUp(img, opts.Scale), ExportFilename(dir, r, s.Name+"-"+opts.Preview, "png")); err != nil {
				return err
			}
		}
	}

	if r.Direction == camera.Backward {
		if err := WriteTIFF16(r.Output, ExportFilename(dir, r, "simulated-raw", "tif")); err != nil {
			return err
		}
	}

	log.Printf("exported %s to %s\n", r, dir)
	return nil
}
