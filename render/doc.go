// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package render forwards a decoded image to a panel.
//
// Images are authored upright, in portrait orientation, while the panel is
// addressed in its native landscape orientation. Every source pixel (x, y)
// of an image h rows tall lands on panel pixel (h-1-y, x), a 90° clockwise
// rotation. Pixels that fall outside Display.Bounds are dropped.
//
// After the last pixel Render commits the frame and puts the panel into its
// low-power state, in that order. A refresh of a Spectra 6 panel blocks for
// tens of seconds.
package render
