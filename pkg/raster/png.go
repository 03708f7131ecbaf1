// Package raster renders a bounded window of a universe to an image, one
// pixel per 2^zoom x 2^zoom block of cells.
package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/pkg/errors"

	"hashlife/pkg/life"
)

// Options controls rasterization. The zero value renders live cells black
// on white at one cell per pixel with no margin.
type Options struct {
	// Zoom is the block exponent: each pixel covers a 2^Zoom x 2^Zoom
	// block and is on when any cell in the block is live.
	Zoom uint8
	// Pad widens the box by this many cells on every side.
	Pad int64
	// On and Off are the live and dead pixel colors.
	On, Off color.Color
}

const maxPixels = 1 << 26

// Image renders the boxed region of the universe.
func Image(u *life.Universe, box life.BBox, opts Options) (*image.NRGBA, error) {
	if opts.On == nil {
		opts.On = color.Black
	}
	if opts.Off == nil {
		opts.Off = color.White
	}
	box = life.BBox{
		XMin: box.XMin - opts.Pad,
		YMin: box.YMin - opts.Pad,
		XMax: box.XMax + opts.Pad,
		YMax: box.YMax + opts.Pad,
	}
	if box.XMax < box.XMin || box.YMax < box.YMin {
		return nil, errors.Errorf("empty box %+v", box)
	}
	w := (box.XMax - box.XMin) >> opts.Zoom
	h := (box.YMax - box.YMin) >> opts.Zoom
	if w >= maxPixels || h >= maxPixels || (w+1)*(h+1) > maxPixels {
		return nil, errors.Errorf("image of %dx%d pixels too large", w+1, h+1)
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(w)+1, int(h)+1))
	off := color.NRGBAModel.Convert(opts.Off).(color.NRGBA)
	on := color.NRGBAModel.Convert(opts.On).(color.NRGBA)
	for i := range img.Pix {
		switch i % 4 {
		case 0:
			img.Pix[i] = off.R
		case 1:
			img.Pix[i] = off.G
		case 2:
			img.Pix[i] = off.B
		case 3:
			img.Pix[i] = off.A
		}
	}
	u.ForEachLive(box, func(x, y int64) {
		img.SetNRGBA(int((x-box.XMin)>>opts.Zoom), int((y-box.YMin)>>opts.Zoom), on)
	})
	return img, nil
}

// WritePNG renders the boxed region and encodes it as PNG.
func WritePNG(w io.Writer, u *life.Universe, box life.BBox, opts Options) error {
	img, err := Image(u, box, opts)
	if err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, img), "encode png")
}
