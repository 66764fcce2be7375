// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bmp24 reads uncompressed 24 bits per pixel BMP images in place.
//
// Only the fixed 54 byte header is interpreted:
//
//	offset  size  field
//	0       2     "BM"
//	10      4     pixel data offset
//	18      4     width
//	22      4     height, negative for top-down rows
//	28      2     bits per pixel, must be 24
//
// Rows are padded to a multiple of 4 bytes and each pixel is stored as Blue,
// Green, Red. Pixels that would be read past the end of the data are
// reported as missing rather than failing, so a truncated download still
// renders whatever arrived.
package bmp24
