// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package schedule picks the content to show and the next sleep period from
// the wake cause and the local hour of day.
package schedule
