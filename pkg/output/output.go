package output

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Format names an image encoding
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// ErrUnknownFormat is returned for formats other than ppm, png and bmp
var ErrUnknownFormat = errors.New("unknown image format")

// ParseFormat accepts a format name in any case, with or without a leading dot
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case FormatPPM, FormatPNG, FormatBMP:
		return f, nil
	default:
		return "", fmt.Errorf("%q: %w", name, ErrUnknownFormat)
	}
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%s has no extension: %w", path, ErrUnknownFormat)
	}
	return ParseFormat(ext)
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img *renderer.Image, format Format) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, img)
	case FormatPNG:
		return png.Encode(w, img.ToRGBA())
	case FormatBMP:
		return bmp.Encode(w, img.ToRGBA())
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

// WritePPM writes the plain-text P3 format: a "P3", "<width> <height>" and
// "255" header, then one "r g b" line per pixel in raster order
func WritePPM(w io.Writer, img *renderer.Image) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height)

	line := make([]byte, 0, 12)
	for _, p := range img.Pixels {
		line = line[:0]
		line = strconv.AppendUint(line, uint64(p.R), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, uint64(p.G), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, uint64(p.B), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// SaveImage writes img to path, creating parent directories. An empty format
// is taken from the file extension.
func SaveImage(path string, img *renderer.Image, format Format) (err error) {
	if format == "" {
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	if err := Encode(file, img, format); err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}
