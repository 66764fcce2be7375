// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package spectra6 controls a 7.3" 800x480 six colour e-paper panel over SPI.
//
// The panel stores 4 bits per pixel. A full refresh takes about 20 seconds,
// during which the busy pin is held low.
//
// Dev implements both render.Display, where the caller quantizes and writes
// pixels one at a time, and render.RegionWriter, where the driver decodes a
// whole BMP image itself.
package spectra6
