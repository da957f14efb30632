package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, limit  int
		wantW, wantH int
	}{
		{50, 50, 1024, 50, 50},
		{1024, 1024, 1024, 1024, 1024},
		{2048, 1024, 1024, 1024, 512},
		{1000, 4000, 1024, 256, 1024},
		{5000, 2, 1024, 1024, 1},
	}
	for _, tt := range tests {
		w, h := fit(tt.w, tt.h, tt.limit)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fit(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.limit, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestNormalize(t *testing.T) {
	frame := image.NewPaletted(image.Rect(0, 0, 40, 30), color.Palette{color.Black, color.White})
	var gifBuf bytes.Buffer
	if err := gif.Encode(&gifBuf, frame, nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		data       []byte
		wantSource string
		wantW      int
		wantH      int
	}{
		{"jpeg", encodeJPEG(t, solid(100, 80, color.RGBA{255, 0, 0, 255})), "image/jpeg", 100, 80},
		{"png", encodePNG(t, solid(60, 60, color.RGBA{0, 0, 255, 255})), "image/png", 60, 60},
		{"gif", gifBuf.Bytes(), "image/gif", 40, 30},
		{"large photo is shrunk", encodeJPEG(t, solid(2048, 1536, color.RGBA{0, 128, 0, 255})), "image/jpeg", 1024, 768},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photo, err := Normalize(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if photo.Source != tt.wantSource {
				t.Errorf("source = %s, want %s", photo.Source, tt.wantSource)
			}
			if photo.Width != tt.wantW || photo.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", photo.Width, photo.Height, tt.wantW, tt.wantH)
			}

			img, format, err := image.Decode(bytes.NewReader(photo.JPEG))
			if err != nil {
				t.Fatalf("decoding stored photo: %v", err)
			}
			if format != "jpeg" {
				t.Errorf("stored format = %s, want jpeg", format)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("stored size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNormalizeTransparencyBecomesWhite(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 16, 16)))))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(photo.JPEG))
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := img.At(8, 8).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent pixel stored as (%d, %d, %d), want white", r>>8, g>>8, b>>8)
	}
}

func TestNormalizeRejects(t *testing.T) {
	oversized := make([]byte, MaxUploadSize+10)
	copy(oversized, "\xff\xd8\xff")

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"plain text", []byte("not an image"), ErrUnsupportedFormat},
		{"truncated gif", []byte("GIF89a..."), ErrUnsupportedFormat},
		{"too large", oversized, ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(bytes.NewReader(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("Normalize error = %v, want %v", err, tt.want)
			}
		})
	}
}
