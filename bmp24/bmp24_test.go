// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp24

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"
)

// header returns a 54 byte header for a w x h image with the given depth.
func header(w, h int32, bpp uint16) []byte {
	b := make([]byte, HeaderSize)
	b[0], b[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(b[10:], HeaderSize)
	binary.LittleEndian.PutUint32(b[14:], 40)
	binary.LittleEndian.PutUint32(b[18:], uint32(w))
	binary.LittleEndian.PutUint32(b[22:], uint32(h))
	binary.LittleEndian.PutUint16(b[26:], 1)
	binary.LittleEndian.PutUint16(b[28:], bpp)
	return b
}

func encode(t *testing.T, m image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, m); err != nil {
		t.Fatalf("bmp.Encode() failed: %v", err)
	}
	return buf.Bytes()
}

func gradient(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGBA(x, y, color.RGBA{uint8(x * 40), uint8(y * 30), uint8(x*7 + y), 255})
		}
	}
	return m
}

func TestParse(t *testing.T) {
	png := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 100)...)
	jpeg := append([]byte{0xff, 0xd8, 0xff, 0xe0}, make([]byte, 100)...)

	for _, tc := range []struct {
		name       string
		data       []byte
		want       Header
		wantFormat Format
		wantErr    bool
	}{
		{
			name: "bottom-up",
			data: header(3, 2, 24),
			want: Header{PixelDataOffset: 54, Width: 3, Height: 2, BitsPerPixel: 24},
		},
		{
			name: "top-down",
			data: header(3, -2, 24),
			want: Header{PixelDataOffset: 54, Width: 3, Height: 2, BitsPerPixel: 24, TopDown: true},
		},
		{name: "empty", data: nil, wantErr: true},
		{name: "short", data: header(3, 2, 24)[:53], wantErr: true},
		{name: "no marker", data: append([]byte{'X', 'M'}, header(3, 2, 24)[2:]...), wantErr: true},
		{name: "png", data: png, wantFormat: PNG, wantErr: true},
		{name: "short png", data: png[:20], wantFormat: PNG, wantErr: true},
		{name: "jpeg", data: jpeg, wantErr: true},
		{name: "8 bits", data: header(3, 2, 8), wantErr: true},
		{name: "32 bits", data: header(3, 2, 32), wantErr: true},
		{name: "zero width", data: header(0, 2, 24), wantErr: true},
		{name: "zero height", data: header(2, 0, 24), wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.data)
			if tc.wantErr {
				if !errors.Is(err, ErrFormatUnsupported) {
					t.Fatalf("Parse() error = %v, want ErrFormatUnsupported", err)
				}
				var fe *FormatError
				if tc.wantFormat != Unknown && (!errors.As(err, &fe) || fe.Format != tc.wantFormat) {
					t.Errorf("Parse() error = %v, want a %s FormatError", err, tc.wantFormat)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Parse() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestRowStride(t *testing.T) {
	for w, want := range map[int]int{1: 4, 2: 8, 3: 12, 4: 12, 5: 16, 480: 1440} {
		h := Header{Width: w}
		if got := h.RowStride(); got != want {
			t.Errorf("RowStride(width=%d) = %d, want %d", w, got, want)
		}
	}
}

func TestDecodeMatchesReference(t *testing.T) {
	for _, size := range []image.Point{{1, 1}, {2, 2}, {3, 5}, {5, 3}, {7, 4}} {
		src := gradient(size.X, size.Y)
		data := encode(t, src)

		m, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode(%v) failed: %v", size, err)
		}
		if diff := cmp.Diff(m.Size(), size); diff != "" {
			t.Fatalf("Size() difference (-got +want):\n%s", diff)
		}
		ref, err := bmp.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("bmp.Decode() failed: %v", err)
		}
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				r, g, b, ok := m.RGB(x, y)
				if !ok {
					t.Fatalf("RGB(%d, %d) missing", x, y)
				}
				r16, g16, b16, _ := ref.At(x, y).RGBA()
				if want := [3]uint8{uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)}; [3]uint8{r, g, b} != want {
					t.Errorf("%v: RGB(%d, %d) = %v, want %v", size, x, y, [3]uint8{r, g, b}, want)
				}
			}
		}
	}
}

func TestDecodePadding(t *testing.T) {
	// 1x2 image: each row is 3 bytes of BGR plus 1 byte of padding, bottom
	// row first.
	data := append(header(1, 2, 24),
		0x03, 0x02, 0x01, 0xee, // bottom row, RGB(1, 2, 3)
		0x30, 0x20, 0x10, 0xee, // top row, RGB(16, 32, 48)
	)
	m, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if r, g, b, ok := m.RGB(0, 0); !ok || r != 0x10 || g != 0x20 || b != 0x30 {
		t.Errorf("RGB(0, 0) = %d, %d, %d, %t", r, g, b, ok)
	}
	if r, g, b, ok := m.RGB(0, 1); !ok || r != 1 || g != 2 || b != 3 {
		t.Errorf("RGB(0, 1) = %d, %d, %d, %t", r, g, b, ok)
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := encode(t, gradient(4, 4))
	// Keep the header and the bottom row only: 4 pixels, 12 bytes.
	m, err := Decode(data[:HeaderSize+12])
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			_, _, _, ok := m.RGB(x, y)
			if want := y == 3; ok != want {
				t.Errorf("RGB(%d, %d) ok = %t, want %t", x, y, ok, want)
			}
		}
	}
	if _, _, _, ok := m.RGB(4, 0); ok {
		t.Error("RGB() outside the image succeeded")
	}
}

func TestDecodeOffsetPastEnd(t *testing.T) {
	data := header(2, 2, 24)
	binary.LittleEndian.PutUint32(data[10:], 1<<31)
	m, err := Decode(append(data, make([]byte, 16)...))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if _, _, _, ok := m.RGB(0, 0); ok {
		t.Error("RGB() read past the end of the data")
	}
}

func TestCheck(t *testing.T) {
	h := Header{Width: 480, Height: 800}
	if err := h.Check(image.Pt(480, 800)); err != nil {
		t.Errorf("Check() = %v", err)
	}
	err := h.Check(image.Pt(800, 480))
	var dm *DimensionMismatchError
	if !errors.As(err, &dm) {
		t.Fatalf("Check() = %v, want a DimensionMismatchError", err)
	}
	if errors.Is(err, ErrFormatUnsupported) {
		t.Error("a dimension mismatch must not be a format error")
	}
}

func TestSniff(t *testing.T) {
	for _, tc := range []struct {
		data []byte
		want Format
	}{
		{[]byte("BM"), BMP},
		{[]byte{0x89, 'P', 'N', 'G'}, PNG},
		{[]byte{0x89, 'P'}, Unknown},
		{[]byte("GIF89a"), Unknown},
	} {
		if got := Sniff(tc.data); got != tc.want {
			t.Errorf("Sniff(%q) = %s, want %s", tc.data, got, tc.want)
		}
	}
}
