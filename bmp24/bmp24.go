// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp24

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
)

// HeaderSize is the minimum size of a BMP file header plus info header.
const HeaderSize = 54

// ErrFormatUnsupported is returned for anything but a 24 bits per pixel BMP.
var ErrFormatUnsupported = errors.New("bmp24: format unsupported")

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Format is the container format guessed from the leading bytes.
type Format int

// Valid Format.
const (
	Unknown Format = iota
	BMP
	PNG
)

func (f Format) String() string {
	switch f {
	case BMP:
		return "BMP"
	case PNG:
		return "PNG"
	default:
		return "unknown"
	}
}

// Sniff guesses the container format of b.
func Sniff(b []byte) Format {
	switch {
	case len(b) >= 2 && b[0] == 'B' && b[1] == 'M':
		return BMP
	case len(b) >= 4 && bytes.HasPrefix(pngSignature, b[:min(len(b), len(pngSignature))]):
		return PNG
	default:
		return Unknown
	}
}

// Header is the part of the BMP header needed to locate pixels.
type Header struct {
	PixelDataOffset uint32
	Width           int
	// Height is the image height in rows, always positive.
	Height       int
	BitsPerPixel int
	// TopDown is set when the stored height is negative.
	TopDown bool
}

// Parse validates and parses the header at the start of b.
func Parse(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		if f := Sniff(b); f != BMP && f != Unknown {
			return Header{}, &FormatError{Format: f}
		}
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrFormatUnsupported, len(b), HeaderSize)
	}
	if f := Sniff(b); f != BMP {
		return Header{}, &FormatError{Format: f}
	}
	h := Header{
		PixelDataOffset: binary.LittleEndian.Uint32(b[10:]),
		Width:           int(int32(binary.LittleEndian.Uint32(b[18:]))),
		Height:          int(int32(binary.LittleEndian.Uint32(b[22:]))),
		BitsPerPixel:    int(binary.LittleEndian.Uint16(b[28:])),
	}
	if h.BitsPerPixel != 24 {
		return Header{}, fmt.Errorf("%w: %d bits per pixel, only 24 is supported", ErrFormatUnsupported, h.BitsPerPixel)
	}
	if h.Height < 0 {
		h.Height = -h.Height
		h.TopDown = true
	}
	if h.Width <= 0 || h.Height == 0 {
		return Header{}, fmt.Errorf("%w: invalid dimensions %dx%d", ErrFormatUnsupported, h.Width, h.Height)
	}
	return h, nil
}

// Size returns the image dimensions.
func (h *Header) Size() image.Point {
	return image.Pt(h.Width, h.Height)
}

// RowStride returns the number of bytes per stored row, padding included.
func (h *Header) RowStride() int {
	return ((h.Width*3 + 3) / 4) * 4
}

// Check returns a *DimensionMismatchError if the image is not want.
func (h *Header) Check(want image.Point) error {
	if got := h.Size(); got != want {
		return &DimensionMismatchError{Got: got, Want: want}
	}
	return nil
}

// FormatError is an ErrFormatUnsupported caused by a container other than
// BMP.
type FormatError struct {
	Format Format
}

func (e *FormatError) Error() string {
	if e.Format == Unknown {
		return "bmp24: format unsupported: missing BM marker"
	}
	return fmt.Sprintf("bmp24: format unsupported: %s image", e.Format)
}

// Is makes FormatError match ErrFormatUnsupported.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormatUnsupported
}

// DimensionMismatchError is a warning: the image does not have the panel's
// resolution. Rendering proceeds and out-of-range pixels are dropped.
type DimensionMismatchError struct {
	Got  image.Point
	Want image.Point
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("bmp24: image is %dx%d, panel expects %dx%d", e.Got.X, e.Got.Y, e.Want.X, e.Want.Y)
}

// Image is a read-only view of a 24 bits per pixel BMP. It does not copy the
// data.
type Image struct {
	Header
	data   []byte
	stride int
}

// Decode parses the header of b and returns a view over its pixels.
func Decode(b []byte) (*Image, error) {
	h, err := Parse(b)
	if err != nil {
		return nil, err
	}
	return &Image{Header: h, data: b, stride: h.RowStride()}, nil
}

// offset returns the position of pixel (x, y), y = 0 being the top row.
func (m *Image) offset(x, y int) int {
	row := m.Height - 1 - y
	if m.TopDown {
		row = y
	}
	return int(m.PixelDataOffset) + row*m.stride + x*3
}

// RGB returns the pixel at (x, y). ok is false when the coordinates are
// outside the image or the pixel lies past the end of the data.
func (m *Image) RGB(x, y int) (r, g, b uint8, ok bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0, 0, 0, false
	}
	o := m.offset(x, y)
	if o < 0 || o+3 > len(m.data) {
		return 0, 0, 0, false
	}
	return m.data[o+2], m.data[o+1], m.data[o], true
}
