package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/go-pdf/fpdf"
)

// ErrUnsupportedImage reports input bytes that do not decode as a raster
// image in a supported pixel format.
var ErrUnsupportedImage = errors.New("unsupported image format")

const jpegQuality = 92

// Output must be byte-for-byte reproducible, so the embedded document
// dates are pinned instead of taken from the clock.
var fixedDocDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// NormalizeImage converts a still image into a single-page PDF sized to the
// image's pixel dimensions. Transparency is flattened onto a white
// background because PDF page content has no alpha channel.
func NormalizeImage(imageBytes []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	flattened, err := flattenToJPEG(img)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetCreationDate(fixedDocDate)
	doc.SetModificationDate(fixedDocDate)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	doc.RegisterImageOptionsReader("page", opts, bytes.NewReader(flattened))
	doc.ImageOptions("page", 0, 0, width, height, false, opts, 0, "")

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("encode pdf page: %w", err)
	}
	return out.Bytes(), nil
}

// flattenToJPEG composes the image over white and re-encodes it as
// three-channel JPEG for embedding.
func flattenToJPEG(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("flatten image: %w", err)
	}
	return buf.Bytes(), nil
}
