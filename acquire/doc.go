// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package acquire streams an image over HTTP into a size-bounded buffer.
//
// Buffers come from an Arena which hands out at most one live Buffer at a
// time, mirroring the single image region a battery-powered device can afford.
// The pipeline owns the Buffer from Fetch until Release; Release is safe to
// call more than once and on a nil Buffer, so it can be deferred right after
// Fetch on every path.
//
// A transfer that ends before the declared Content-Length is not an error:
// the Buffer holds what was received and Truncated reports the shortfall.
package acquire
