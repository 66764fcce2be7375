// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/wakeframe/palette"
)

var _ display.Drawer = &Drawer{}
var _ conn.Resource = &Drawer{}

// Drawer exposes a Display as an upright display.Drawer. Each Draw renders a
// full frame.
type Drawer struct {
	D    Display
	last Stats
}

func (d *Drawer) String() string {
	return fmt.Sprintf("render.Drawer{%v}", d.D)
}

// Halt implements conn.Resource.
func (d *Drawer) Halt() error {
	return d.D.Hibernate()
}

// ColorModel implements display.Drawer.
func (d *Drawer) ColorModel() color.Model {
	return palette.Model
}

// Bounds implements display.Drawer. It is the upright size of the panel.
func (d *Drawer) Bounds() image.Rectangle {
	return image.Rectangle{Max: Upright(d.D.Bounds())}
}

// Draw implements display.Drawer.
//
// The area outside r is white.
func (d *Drawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	frame := image.NewNRGBA(d.Bounds())
	draw.Draw(frame, frame.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(frame, r, src, sp, draw.Src)
	st, err := Render(d.D, FromImage(frame))
	d.last = st
	return err
}

// Stats returns the counters of the last Draw.
func (d *Drawer) Stats() Stats {
	return d.last
}
