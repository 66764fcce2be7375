// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package console

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"

	"github.com/GermanBionicSystems/wakeframe/palette"
	"github.com/GermanBionicSystems/wakeframe/render"
)

// Opts represents the options available for this display.
type Opts struct {
	// Width and Height are the native panel dimensions.
	Width  int
	Height int
	// Scale is the number of panel pixels per terminal cell on each axis.
	// Zero means 1.
	Scale   int
	Palette *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// Dev is a panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	bounds  image.Rectangle
	scale   int
	palette ansi256.Palette

	pix      []palette.Color
	buf      bytes.Buffer
	commits  int
	sleeping bool
}

// New returns a Dev that displays at the console. The frame starts white.
func New(opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("console: invalid size %dx%d", opts.Width, opts.Height)
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Dev{
		w:       w,
		bounds:  image.Rect(0, 0, opts.Width, opts.Height),
		scale:   max(opts.Scale, 1),
		palette: *p,
		pix:     make([]palette.Color, opts.Width*opts.Height),
	}
	d.Clear()
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("Console{%dx%d}", d.bounds.Dx(), d.bounds.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := io.WriteString(d.w, "\033[0m\n")
	return err
}

// Bounds implements render.Display.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// WritePixel implements render.Display. Pixels outside Bounds are ignored.
func (d *Dev) WritePixel(x, y int, c palette.Color) {
	if !image.Pt(x, y).In(d.bounds) {
		return
	}
	d.sleeping = false
	d.pix[y*d.bounds.Dx()+x] = c
}

// At returns the color stored at native coordinates (x, y).
func (d *Dev) At(x, y int) palette.Color {
	return d.pix[y*d.bounds.Dx()+x]
}

// Commit implements render.Display.
//
// It prints the frame rotated back upright, one cell per Scale pixels.
func (d *Dev) Commit() error {
	w, h := d.bounds.Dx(), d.bounds.Dy()
	d.buf.Reset()
	// Upright row uy is native column w-1-uy; upright column ux is native
	// row ux.
	for uy := 0; uy < w; uy += d.scale {
		_, _ = d.buf.WriteString("\033[0m")
		for ux := 0; ux < h; ux += d.scale {
			_, _ = io.WriteString(&d.buf, d.palette.Block(color.NRGBAModel.Convert(d.pix[ux*w+w-1-uy]).(color.NRGBA)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.commits++
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Commits returns the number of frames shown so far.
func (d *Dev) Commits() int {
	return d.commits
}

// Hibernate implements render.Display. The frame stays on screen.
func (d *Dev) Hibernate() error {
	d.sleeping = true
	return nil
}

// Sleeping reports whether Hibernate was called since the last WritePixel.
func (d *Dev) Sleeping() bool {
	return d.sleeping
}

// Clear fills the frame with white. It implements render.Clearer.
func (d *Dev) Clear() {
	for i := range d.pix {
		d.pix[i] = palette.White
	}
}

var _ render.Display = &Dev{}
var _ render.Clearer = &Dev{}
var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
