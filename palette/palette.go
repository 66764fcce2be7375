// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package palette

//go:generate go install golang.org/x/tools/cmd/stringer@latest
//go:generate stringer -type=Color -output color_string.go

import (
	"fmt"
	"image/color"
)

// Color is one of the panel's native colors. The values index Palette.
type Color uint8

// Valid Color.
const (
	Black Color = iota
	White
	Red
	Yellow
	Blue
	Green
)

// Colors lists every Color in code order.
var Colors = [...]Color{Black, White, Red, Yellow, Blue, Green}

// Set sets the Color to a value represented by the string s. Set implements the flag.Value interface.
func (c *Color) Set(s string) error {
	switch s {
	case "black":
		*c = Black
	case "white":
		*c = White
	case "red":
		*c = Red
	case "yellow":
		*c = Yellow
	case "blue":
		*c = Blue
	case "green":
		*c = Green
	default:
		return fmt.Errorf("unknown color %q: expected black, white, red, yellow, blue or green", s)
	}
	return nil
}

var nrgba = [...]color.NRGBA{
	Black:  {0, 0, 0, 255},
	White:  {255, 255, 255, 255},
	Red:    {255, 0, 0, 255},
	Yellow: {255, 255, 0, 255},
	Blue:   {0, 0, 255, 255},
	Green:  {0, 255, 0, 255},
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	if int(c) >= len(nrgba) {
		return color.White.RGBA()
	}
	return nrgba[c].RGBA()
}

// Palette is the panel colors indexed by their code.
var Palette = color.Palette{
	nrgba[Black], nrgba[White], nrgba[Red], nrgba[Yellow], nrgba[Blue], nrgba[Green],
}

// Model converts any color to a Color with Quantize.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if p, ok := c.(Color); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return Quantize(uint8(r>>8), uint8(g>>8), uint8(b>>8))
})
