package dataset

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/models"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ProbeImage reads the header of an image file and returns its size as
// (1, width, height, channels).
func ProbeImage(path string) (models.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Size{}, apperr.Wrap(err, apperr.CodeIO, "open image "+path)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return models.Size{}, apperr.Wrap(err, apperr.CodeIO, "read image header "+path)
	}
	return models.Size{
		Items:  1,
		Width:  cfg.Width,
		Height: cfg.Height,
		Depth:  channelsOf(cfg.ColorModel),
	}, nil
}

// channelsOf maps a decoder color model to a channel count. Alpha is not
// counted, so RGBA images report 3.
func channelsOf(m color.Model) int {
	switch m {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		return 1
	case color.CMYKModel:
		return 4
	default:
		return 3
	}
}

func isJPEG(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// encodeJPEG decodes src in any registered format and writes it to dst as JPEG.
func encodeJPEG(src, dst string) error {
	img, err := imaging.Open(src)
	if err != nil {
		return apperr.Wrap(err, apperr.CodeIO, "decode image "+src)
	}
	if err := imaging.Save(img, dst, imaging.JPEGQuality(95)); err != nil {
		return apperr.Wrap(err, apperr.CodeIO, "encode image "+dst)
	}
	return nil
}
