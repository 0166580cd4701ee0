package radiocal

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"
)

// LoadImage decodes a raster image. TIFFs go through x/image/tiff, which
// keeps 16-bit samples intact; anything else goes through whatever
// decoders are registered.
func LoadImage(filename string) (image.Image, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r img '%s': %v", filename, err)
	}
	defer reader.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		img, err := tiff.Decode(reader)
		if err != nil {
			return nil, fmt.Errorf("tiff loading '%s': %v", filename, err)
		}
		return img, nil

	default:
		img, _, err := image.Decode(reader)
		if err != nil {
			return nil, fmt.Errorf("image loading '%s': %v", filename, err)
		}
		return img, nil
	}
}

// CameraInfo is the bit of EXIF metadata that ends up in the run
// summary, so it is clear which camera a model was checked against.
type CameraInfo struct {
	Make         string `yaml:"make,omitempty"`
	Model        string `yaml:"model,omitempty"`
	ISO          int64  `yaml:"iso,omitempty"`
	ExposureTime string `yaml:"exposuretime,omitempty"`
	WhiteBalance int64  `yaml:"whitebalance"` // 0=auto, 1=manual
}

func (ci CameraInfo)String() string {
	return fmt.Sprintf("%s %s (ISO %d, %s, wb=%d)", ci.Make, ci.Model, ci.ISO, ci.ExposureTime, ci.WhiteBalance)
}

// LoadCameraInfo pulls what it can out of the EXIF block. Missing tags
// are left empty; only an unreadable file or EXIF block is an error.
func LoadCameraInfo(filename string) (CameraInfo, error) {
	ci := CameraInfo{}

	reader, err := os.Open(filename)
	if err != nil {
		return ci, fmt.Errorf("open+r exif '%s': %v", filename, err)
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return ci, fmt.Errorf("exif parsing '%s': %v", filename, err)
	}

	if tag,err := ex.Get(exif.Make); err == nil {
		ci.Make, _ = tag.StringVal()
	}
	if tag,err := ex.Get(exif.Model); err == nil {
		ci.Model, _ = tag.StringVal()
	}
	if tag,err := ex.Get(exif.ISOSpeedRatings); err == nil {
		ci.ISO, _ = tag.Int64(0)
	}
	if tag,err := ex.Get(exif.ExposureTime); err == nil {
		if num,denom,err := tag.Rat2(0); err == nil {
			ci.ExposureTime = fmt.Sprintf("%d/%d", num, denom)
		}
	}
	if tag,err := ex.Get(exif.WhiteBalance); err == nil {
		ci.WhiteBalance, _ = tag.Int64(0)
	}

	return ci, nil
}
