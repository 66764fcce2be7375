// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cycle runs one wake cycle of the frame: classify the wake, pick the
// content, download and show it, then go back to sleep.
//
// Each stage takes the previous stage's output and nothing else:
//
//	wake.Cause -> schedule.Decision -> *acquire.Buffer -> render.Stats -> sleep.Plan
//
// No failure escapes a cycle. A failed download shows nothing; an image in
// an unsupported format shows a diagnostic screen; a size mismatch or a
// truncated download is logged and rendered as far as possible. Every path
// releases the image buffer before the sleep plan is handed to the power
// controller.
package cycle
