// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package spectra6

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"time"

	"golang.org/x/image/bmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/wakeframe/bmp24"
	"github.com/GermanBionicSystems/wakeframe/palette"
	"github.com/GermanBionicSystems/wakeframe/render"
)

// Commands
const (
	panelSetting      byte = 0x00
	powerSetting      byte = 0x01
	powerOff          byte = 0x02
	powerOffSequence  byte = 0x03
	powerOn           byte = 0x04
	boosterSoftStart1 byte = 0x05
	boosterSoftStart2 byte = 0x06
	deepSleepMode     byte = 0x07
	boosterSoftStart3 byte = 0x08
	dataStartTx       byte = 0x10
	displayRefresh    byte = 0x12
	pllControl        byte = 0x30
	vcomDataInterval  byte = 0x50
	tconSetting       byte = 0x60
	resolutionSetting byte = 0x61
	tVcomDC           byte = 0x84
	cmdh              byte = 0xAA
	powerSaving       byte = 0xE3

	deepSleepCheck byte = 0xA5
)

// code is the 4 bit value the panel expects for each palette.Color.
var code = [...]byte{
	palette.Black:  0x0,
	palette.White:  0x1,
	palette.Yellow: 0x2,
	palette.Red:    0x3,
	palette.Blue:   0x5,
	palette.Green:  0x6,
}

// Opts defines the panel configuration.
type Opts struct {
	Width  int
	Height int
	// ResetTimeout bounds the short busy periods.
	ResetTimeout time.Duration
	// RefreshTimeout bounds a full refresh.
	RefreshTimeout time.Duration
}

// EPD7in3E is the 7.3" 800x480 panel.
var EPD7in3E = Opts{
	Width:          800,
	Height:         480,
	ResetTimeout:   time.Second,
	RefreshTimeout: 40 * time.Second,
}

// Dev is a handle to the panel.
type Dev struct {
	c         conn.Conn
	maxTxSize int

	dc   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	bounds image.Rectangle
	// Two pixels per byte, the left one in the high nibble.
	pix  []byte
	opts Opts

	asleep  bool
	refresh time.Duration
}

// New opens a handle to the panel.
func New(p spi.Port, dc, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width%2 != 0 {
		return nil, fmt.Errorf("spectra6: invalid size %dx%d", opts.Width, opts.Height)
	}
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("spectra6: failed to connect over spi: %w", err)
	}
	if err := busy.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, err
	}

	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}

	d := &Dev{
		c:         c,
		maxTxSize: maxTxSize,
		dc:        dc,
		rst:       rst,
		busy:      busy,
		bounds:    image.Rect(0, 0, opts.Width, opts.Height),
		pix:       make([]byte, opts.Width*opts.Height/2),
		opts:      *opts,
	}
	d.Clear()
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("spectra6.Dev{%s, Width: %d, Height: %d}", d.c, d.bounds.Dx(), d.bounds.Dy())
}

// Bounds implements render.Display.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// Clear fills the frame with white. It does not touch the panel. It
// implements render.Clearer.
func (d *Dev) Clear() {
	w := code[palette.White]
	for i := range d.pix {
		d.pix[i] = w<<4 | w
	}
}

// WritePixel implements render.Display. Pixels outside Bounds are ignored.
func (d *Dev) WritePixel(x, y int, c palette.Color) {
	if !image.Pt(x, y).In(d.bounds) || int(c) >= len(code) {
		return
	}
	i := y*d.bounds.Dx() + x
	v := code[c]
	if i%2 == 0 {
		d.pix[i/2] = d.pix[i/2]&0x0F | v<<4
	} else {
		d.pix[i/2] = d.pix[i/2]&0xF0 | v
	}
}

// Commit implements render.Display.
//
// The panel is reset, which also wakes it from deep sleep, loaded with the
// frame and refreshed.
func (d *Dev) Commit() error {
	start := time.Now()
	eh := errorHandler{d: d}
	// The reset wakes the panel even if a later step fails.
	d.asleep = false
	initPanel(&eh, &d.opts)
	eh.sendCommand(dataStartTx)
	eh.sendData(d.pix)
	refresh(&eh, &d.opts)
	if eh.err != nil {
		return fmt.Errorf("spectra6: commit: %w", eh.err)
	}
	d.refresh = time.Since(start)
	return nil
}

// Refresh returns the duration of the last Commit.
func (d *Dev) Refresh() time.Duration {
	return d.refresh
}

// Hibernate implements render.Display.
func (d *Dev) Hibernate() error {
	if d.asleep {
		return nil
	}
	eh := errorHandler{d: d}
	deepSleep(&eh)
	if eh.err != nil {
		return fmt.Errorf("spectra6: hibernate: %w", eh.err)
	}
	d.asleep = true
	return nil
}

// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return d.Hibernate()
}

// WriteRegion implements render.RegionWriter.
//
// b is a BMP image in upright orientation placed at upright (x, y) and
// clipped to w by h pixels. The region is rotated the way render.Render
// rotates a whole image. The frame is cleared, drawn, committed and the
// panel is put in deep sleep.
//
// A 24 bits BMP cut short is still drawn, the missing pixels staying white.
// When nothing can be decoded the panel is only put in deep sleep.
func (d *Dev) WriteRegion(b []byte, x, y, w, h int, f render.RegionFlags) error {
	var src render.Source
	if m, err := bmp.Decode(bytes.NewReader(b)); err == nil {
		src = render.FromImage(m)
	} else if img, err24 := bmp24.Decode(b); err24 == nil {
		src = img
	} else {
		return errors.Join(fmt.Errorf("spectra6: decoding region: %w", err), d.Hibernate())
	}
	size := src.Size()
	w, h = min(w, size.X), min(h, size.Y)

	d.Clear()
	for iy := 0; iy < h; iy++ {
		sy := iy
		if f&render.MirrorY != 0 {
			sy = h - 1 - iy
		}
		for ix := 0; ix < w; ix++ {
			rr, gg, bb, ok := src.RGB(ix, sy)
			if !ok {
				continue
			}
			if f&render.Invert != 0 {
				rr, gg, bb = ^rr, ^gg, ^bb
			}
			p := render.Rotate(image.Pt(x+ix, y+iy), y+h)
			d.WritePixel(p.X, p.Y, palette.Quantize(rr, gg, bb))
		}
	}
	return errors.Join(d.Commit(), d.Hibernate())
}

// errorHandler is a wrapper for error management.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) reset() {
	if eh.err != nil {
		return
	}
	if eh.err = eh.d.rst.Out(gpio.Low); eh.err != nil {
		return
	}
	time.Sleep(10 * time.Millisecond)
	eh.err = eh.d.rst.Out(gpio.High)
	time.Sleep(10 * time.Millisecond)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) sendCommand(cmd byte) {
	eh.dcOut(gpio.Low)
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx([]byte{cmd}, nil)
}

func (eh *errorHandler) sendData(data []byte) {
	eh.dcOut(gpio.High)
	for len(data) > 0 && eh.err == nil {
		n := min(len(data), eh.d.maxTxSize)
		eh.err = eh.d.c.Tx(data[:n], nil)
		data = data[n:]
	}
}

// waitIdle polls the busy pin, which is low while the panel works.
func (eh *errorHandler) waitIdle(timeout time.Duration) {
	if eh.err != nil {
		return
	}
	deadline := time.Now().Add(timeout)
	for eh.d.busy.Read() == gpio.Low {
		if time.Now().After(deadline) {
			eh.err = fmt.Errorf("busy for more than %s", timeout)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

var _ render.Display = &Dev{}
var _ render.RegionWriter = &Dev{}
var _ render.Clearer = &Dev{}
var _ conn.Resource = &Dev{}
