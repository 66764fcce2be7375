// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/GermanBionicSystems/wakeframe/palette"
)

// Display is the panel collaborator.
type Display interface {
	// Bounds returns the addressable region in native panel coordinates.
	Bounds() image.Rectangle
	// WritePixel stores one pixel in the frame being built.
	WritePixel(x, y int, c palette.Color)
	// Commit shows the frame. It blocks until the panel refresh is done.
	Commit() error
	// Hibernate puts the panel into its low-power state.
	Hibernate() error
}

// RegionFlags modify how RegionWriter interprets a buffer.
type RegionFlags uint8

// Valid RegionFlags.
const (
	Invert RegionFlags = 1 << iota
	MirrorY
)

// RegionWriter is implemented by panels that decode a whole encoded image
// themselves. WriteRegion shows the image at (x, y), commits and hibernates.
type RegionWriter interface {
	WriteRegion(b []byte, x, y, w, h int, f RegionFlags) error
}

// Source is an upright image to render.
type Source interface {
	Size() image.Point
	// RGB returns the pixel at (x, y). ok is false for a missing pixel,
	// which is not drawn.
	RGB(x, y int) (r, g, b uint8, ok bool)
}

// Stats counts what happened to the source pixels.
type Stats struct {
	Written int
	// Dropped pixels rotate outside the panel.
	Dropped int
	// Missing pixels would land on the panel but are not in the data.
	Missing int
}

// Upright returns the image size that exactly covers panel bounds b once
// rotated.
func Upright(b image.Rectangle) image.Point {
	return image.Pt(b.Dy(), b.Dx())
}

// Rotate maps source pixel p of an image height rows tall to panel
// coordinates.
func Rotate(p image.Point, height int) image.Point {
	return image.Pt(height-1-p.Y, p.X)
}

// Clearer is implemented by displays whose frame outlives a Commit. Render
// clears it first so missing pixels are not left from the previous frame.
type Clearer interface {
	Clear()
}

// Render writes every available pixel of src to d, then commits and
// hibernates d. Hibernate is attempted even when Commit fails.
//
// Only the source pixels that rotate onto d.Bounds() are read; the others
// are counted as dropped without being visited.
func Render(d Display, src Source) (Stats, error) {
	var st Stats
	if c, ok := d.(Clearer); ok {
		c.Clear()
	}
	size := src.Size()
	bounds := d.Bounds()
	// Row y lands on panel column size.Y-1-y, column x on panel row x.
	y0, y1 := max(0, size.Y-bounds.Max.X), min(size.Y, size.Y-bounds.Min.X)
	x0, x1 := max(0, bounds.Min.Y), min(size.X, bounds.Max.Y)
	st.Dropped = size.X*size.Y - max(0, y1-y0)*max(0, x1-x0)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, ok := src.RGB(x, y)
			if !ok {
				st.Missing++
				continue
			}
			p := Rotate(image.Pt(x, y), size.Y)
			d.WritePixel(p.X, p.Y, palette.Quantize(r, g, b))
			st.Written++
		}
	}
	var errs []error
	if err := d.Commit(); err != nil {
		errs = append(errs, fmt.Errorf("render: commit: %w", err))
	}
	if err := d.Hibernate(); err != nil {
		errs = append(errs, fmt.Errorf("render: hibernate: %w", err))
	}
	return st, errors.Join(errs...)
}

// imageSource adapts an image.Image to Source.
type imageSource struct {
	m image.Image
}

// FromImage returns a Source reading m.
func FromImage(m image.Image) Source {
	return imageSource{m: m}
}

func (s imageSource) Size() image.Point {
	return s.m.Bounds().Size()
}

func (s imageSource) RGB(x, y int) (r, g, b uint8, ok bool) {
	o := s.m.Bounds().Min
	r16, g16, b16, _ := s.m.At(o.X+x, o.Y+y).RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8), true
}
