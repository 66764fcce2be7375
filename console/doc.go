// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package console implements a six colour panel that outputs to the terminal
// (stdout) using ANSI color codes.
//
// Useful to run the wake cycle on a workstation before flashing a device.
// The frame is shown upright, the way the panel is mounted.
package console
