// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wake determines why the device is executing the current wake
// cycle.
//
// The power controller reports a coarse Reason at boot. When the Reason is an
// external-pin wake, the two button pins are sampled to find out which one
// was pressed. The sample happens after the wake, without debouncing, so the
// press may already be over; in that case, and when both buttons read as
// pressed, the Primary button wins.
package wake
