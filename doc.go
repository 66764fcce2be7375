// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wakeframe is a container for the packages of a battery powered
// e-paper frame.
//
// Each wake runs one cycle: wake classifies why the device woke, schedule
// picks the content and the next sleep, acquire downloads the image, bmp24
// and palette decode and quantize it, render rotates it onto the panel and
// sleep arms the wake sources. cycle ties them together.
//
// Panels live in console (terminal) and spectra6 (SPI).
package wakeframe
