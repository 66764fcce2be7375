// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the YAML configuration of a frame.
//
// Load starts from Default, so a file only needs the fields it changes:
//
//	content:
//	  primary_url: https://example.com/metro/display.bmp
//	  secondary_url: https://example.com/screensaver/display.bmp
//	  trigger_url: http://192.168.1.100:3001/generate-image
//	schedule:
//	  timezone: Australia/Melbourne
//	  windows:
//	    - {start: 5, end: 8}
//	    - {start: 15, end: 19}
package config
