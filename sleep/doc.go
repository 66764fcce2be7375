// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sleep computes the low-power directive that ends a wake cycle and
// hands it to the power controller.
//
// Both buttons are re-armed on every cycle, whichever one caused the current
// wake. On a device EnterLowPower does not return: the next cycle starts from
// a cold boot. Emulator stands in for the power controller on a Linux host
// and does return, reporting why it woke.
package sleep
