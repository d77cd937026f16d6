package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Pixel is a finalized 8-bit RGB color
type Pixel struct {
	R, G, B uint8
}

// Image is a finished render: Width*Height pixels in raster order, top row first
type Image struct {
	Width  int
	Height int
	Pixels []Pixel
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]Pixel, width*height),
	}
}

// At returns the pixel in column i of row j, with row 0 at the top
func (img *Image) At(i, j int) Pixel {
	return img.Pixels[j*img.Width+i]
}

// Set stores the pixel in column i of row j
func (img *Image) Set(i, j int, p Pixel) {
	img.Pixels[j*img.Width+i] = p
}

// Row returns the pixels of row j; writes go to the image
func (img *Image) Row(j int) []Pixel {
	return img.Pixels[j*img.Width : (j+1)*img.Width]
}

// ToRGBA converts the image for the standard image encoders
func (img *Image) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for j := 0; j < img.Height; j++ {
		for i := 0; i < img.Width; i++ {
			p := img.At(i, j)
			rgba.SetRGBA(i, j, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return rgba
}

// FinalizeColor turns an averaged linear color into an 8-bit pixel:
// gamma 2 (square root), clamp to [0, 0.999], then scale by 256
func FinalizeColor(c core.Vec3) Pixel {
	return Pixel{
		R: finalizeComponent(c.X),
		G: finalizeComponent(c.Y),
		B: finalizeComponent(c.Z),
	}
}

func finalizeComponent(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	return uint8(256 * math.Min(math.Sqrt(v), 0.999))
}
