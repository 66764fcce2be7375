// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
)

var monoBold = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gomonobold.TTF)
})

// Diagnostic returns an upright image of the given size with lines of black
// text on white, for showing an error on the panel.
func Diagnostic(size image.Point, lines []string) (image.Image, error) {
	f, err := monoBold()
	if err != nil {
		return nil, fmt.Errorf("render: parsing font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: 18, Hinting: font.HintingFull})
	defer face.Close()

	dc := gg.NewContext(size.X, size.Y)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(face)
	dc.SetColor(color.Black)

	margin := float64(size.X) / 10
	step := float64(face.Metrics().Height.Ceil()) + 12
	y := float64(size.Y) / 4
	for _, l := range lines {
		for _, w := range dc.WordWrap(l, float64(size.X)-2*margin) {
			dc.DrawString(w, margin, y)
			y += step
		}
	}
	return dc.Image(), nil
}
