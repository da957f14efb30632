// Package imaging validates uploaded item photos and normalizes them to JPEG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// MaxUploadSize is the largest accepted upload in bytes.
	MaxUploadSize = 5 << 20
	// MaxDimension bounds the stored width and height.
	MaxDimension = 1024
	// JPEGQuality is the compression quality of stored photos.
	JPEGQuality = 85
)

// accepted lists the input types citizens and officers may upload.
var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

var (
	// ErrUnsupportedFormat is returned for anything but JPEG, PNG or GIF.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge is returned for uploads above MaxUploadSize.
	ErrTooLarge = errors.New("image too large")
)

// Photo is an uploaded item photo ready for storage.
type Photo struct {
	// JPEG holds the encoded photo.
	JPEG []byte
	// Source is the sniffed type of the upload.
	Source        string
	Width, Height int
}

// Normalize reads an upload, checks its real type from the bytes, and
// re-encodes it as a JPEG no larger than MaxDimension on either side.
// Transparent areas become white and animated GIFs keep their first frame.
func Normalize(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	source := http.DetectContentType(data)
	if !accepted[source] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, source)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnsupportedFormat, source, err)
	}

	flat := flatten(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}

	b := flat.Bounds()
	return &Photo{JPEG: buf.Bytes(), Source: source, Width: b.Dx(), Height: b.Dy()}, nil
}

// fit returns the size of a w×h image scaled down to fit within limit,
// keeping the aspect ratio. Smaller images keep their size.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// flatten draws img onto a white canvas no larger than limit on either side,
// using Catmull-Rom interpolation when it has to shrink.
func flatten(img image.Image, limit int) *image.RGBA {
	src := img.Bounds()
	w, h := fit(src.Dx(), src.Dy(), limit)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == src.Dx() && h == src.Dy() {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	}
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
	image.RegisterFormat("gif", "GIF8?a", gif.Decode, gif.DecodeConfig)
}
