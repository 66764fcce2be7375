// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package palette

// Rule is one step of the quantizer.
type Rule struct {
	Name  string
	Match func(r, g, b uint8) bool
	Color Color
}

// Rules is evaluated in order; the first match wins. Default is used when
// nothing matches.
var Rules = []Rule{
	{Name: "dark", Match: func(r, g, b uint8) bool { return max(r, g, b) < 64 }, Color: Black},
	{Name: "light", Match: func(r, g, b uint8) bool { return min(r, g, b) > 192 && max(r, g, b) > 192 }, Color: White},
	{Name: "red dominant, green above 100", Match: func(r, g, b uint8) bool { return r > g && r > b && g > 100 }, Color: Yellow},
	{Name: "red dominant", Match: func(r, g, b uint8) bool { return r > g && r > b }, Color: Red},
	{Name: "green dominant", Match: func(r, g, b uint8) bool { return g > r && g > b }, Color: Green},
	{Name: "blue dominant", Match: func(r, g, b uint8) bool { return b > r && b > g }, Color: Blue},
	{Name: "red and green", Match: func(r, g, b uint8) bool { return r > 150 && g > 150 }, Color: Yellow},
}

// Default is the Color of samples no Rule matches.
const Default = White

// Quantize maps an RGB sample to a Color.
func Quantize(r, g, b uint8) Color {
	for i := range Rules {
		if Rules[i].Match(r, g, b) {
			return Rules[i].Color
		}
	}
	return Default
}
