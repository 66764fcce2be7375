// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package palette maps 24 bits colors to the six colors a Spectra 6 e-paper
// panel can show.
//
// The mapping is a fixed ordered list of threshold rules, not a nearest
// color search: the first rule that matches wins. Reordering the rules
// changes the output.
package palette
