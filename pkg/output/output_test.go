package output

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func createTestImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(2, 0, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(0, 1, color.RGBA{10, 20, 30, 255})
	img.SetRGBA(1, 1, color.RGBA{128, 128, 128, 255})
	img.SetRGBA(2, 1, color.RGBA{255, 255, 255, 255})
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{" ppm ", FormatPPM, false},
		{"ppm-ascii", FormatPPMASCII, false},
		{"bmp", FormatBMP, false},
		{"tiff", FormatTIFF, false},
		{"tif", FormatTIFF, false},
		{"gif", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("Expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFormatMetadata(t *testing.T) {
	tests := []struct {
		format      Format
		extension   string
		contentType string
	}{
		{FormatPNG, ".png", "image/png"},
		{FormatPPM, ".ppm", "image/x-portable-pixmap"},
		{FormatPPMASCII, ".ppm", "image/x-portable-pixmap"},
		{FormatBMP, ".bmp", "image/bmp"},
		{FormatTIFF, ".tiff", "image/tiff"},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.extension {
			t.Errorf("%s: expected extension %q, got %q", tt.format, tt.extension, got)
		}
		if got := tt.format.ContentType(); got != tt.contentType {
			t.Errorf("%s: expected content type %q, got %q", tt.format, tt.contentType, got)
		}
	}
	if len(Formats()) != len(tests) {
		t.Errorf("Expected %d formats, got %d", len(tests), len(Formats()))
	}
}

func TestEncode_DecodesBack(t *testing.T) {
	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		FormatPNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		FormatBMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		FormatTIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
	}
	src := createTestImage()

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			decoded, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if decoded.Bounds().Dx() != 3 || decoded.Bounds().Dy() != 2 {
				t.Fatalf("Expected 3x2 image, got %v", decoded.Bounds())
			}
			for y := 0; y < 2; y++ {
				for x := 0; x < 3; x++ {
					want := src.RGBAAt(x, y)
					got := color.RGBAModel.Convert(decoded.At(x, y)).(color.RGBA)
					if got != want {
						t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
					}
				}
			}
		})
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, createTestImage(), Format("gif")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, createTestImage()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := "P3\n3 2\n255\n" +
		"255 0 0\n0 255 0\n0 0 255\n" +
		"10 20 30\n128 128 128\n255 255 255\n"
	if buf.String() != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, buf.String())
	}
}

func TestWritePPMBinary(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, createTestImage(), FormatPPM); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	header := []byte("P6\n3 2\n255\n")
	data := buf.Bytes()
	if !bytes.HasPrefix(data, header) {
		t.Fatalf("Expected P6 header, got %q", data[:min(len(data), len(header))])
	}

	pixels := data[len(header):]
	expected := []byte{255, 0, 0, 0, 255, 0, 0, 0, 255, 10, 20, 30, 128, 128, 128, 255, 255, 255}
	if !bytes.Equal(pixels, expected) {
		t.Errorf("Expected pixels %v, got %v", expected, pixels)
	}
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 225))

	thumb := Thumbnail(src, 80)
	if thumb.Bounds().Dx() != 80 || thumb.Bounds().Dy() != 45 {
		t.Errorf("Expected 80x45 thumbnail, got %v", thumb.Bounds())
	}

	if got := Thumbnail(src, 800); got != image.Image(src) {
		t.Error("Expected images narrower than the thumbnail to be returned unchanged")
	}
	if got := Thumbnail(src, 0); got != image.Image(src) {
		t.Error("Expected a zero width to return the image unchanged")
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	got := Filename("output", "default", FormatPNG, ts)
	expected := filepath.Join("output", "default", "render_20240309_140507.png")
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	if got := Filename("out", "mixed", FormatPPMASCII, ts); filepath.Ext(got) != ".ppm" {
		t.Errorf("Expected .ppm extension, got %q", got)
	}
}
