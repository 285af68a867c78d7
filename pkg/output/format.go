package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image encoding
type Format string

const (
	FormatPNG      Format = "png"
	FormatPPM      Format = "ppm"       // Binary P6
	FormatPPMASCII Format = "ppm-ascii" // Plain-text P3
	FormatBMP      Format = "bmp"
	FormatTIFF     Format = "tiff"
)

// ErrUnknownFormat is returned for format names that cannot be encoded
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists every supported format
func Formats() []Format {
	return []Format{FormatPNG, FormatPPM, FormatPPMASCII, FormatBMP, FormatTIFF}
}

// ParseFormat converts a user-supplied name to a Format
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatPNG, FormatPPM, FormatPPMASCII, FormatBMP, FormatTIFF:
		return f, nil
	case "tif":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	switch f {
	case FormatPPM, FormatPPMASCII:
		return ".ppm"
	default:
		return "." + string(f)
	}
}

// ContentType returns the MIME type for HTTP responses and uploads
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatPPM, FormatPPMASCII:
		return "image/x-portable-pixmap"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatPPM:
		return WritePPMBinary(w, img)
	case FormatPPMASCII:
		return WritePPM(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Filename returns dir/<scene>/render_<timestamp><ext>
func Filename(dir, scene string, format Format, t time.Time) string {
	timestamp := t.Format("20060102_150405")
	return filepath.Join(dir, scene, fmt.Sprintf("render_%s%s", timestamp, format.Extension()))
}
