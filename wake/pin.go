// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wake

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Pin is a wake-capable button input.
type Pin struct {
	Button Button
	// GPIO is the number used to build the wake mask of the power controller.
	GPIO int
	// Active is the level the pin has while the button is pressed.
	Active gpio.Level
	// In is used to sample the pin. May be nil when the pin cannot be read, in
	// which case it reads as released.
	In gpio.PinIn
}

// Sample reads the pin.
func (p *Pin) Sample() PinState {
	s := PinState{Level: !p.Active, Active: p.Active}
	if p.In != nil {
		s.Level = p.In.Read()
	}
	return s
}

// Configure sets the pin up as an input, pulled towards the released level.
func (p *Pin) Configure() error {
	if p.In == nil {
		return nil
	}
	pull := gpio.PullDown
	if p.Active == gpio.Low {
		pull = gpio.PullUp
	}
	if err := p.In.In(pull, gpio.NoEdge); err != nil {
		return fmt.Errorf("wake: configuring %s button on GPIO%d: %w", p.Button, p.GPIO, err)
	}
	return nil
}

func (p *Pin) String() string {
	return fmt.Sprintf("%s(GPIO%d, active %s)", p.Button, p.GPIO, p.Active)
}

// Source reports the raw wake reason of the running cycle.
type Source interface {
	WakeReason() Reason
}

// Fixed is a Source that always reports the same Reason.
type Fixed Reason

// WakeReason implements Source.
func (f Fixed) WakeReason() Reason {
	return Reason(f)
}

// Read queries src and, for an external-pin wake, samples both pins.
func Read(src Source, primary, secondary *Pin) (Cause, bool) {
	r := src.WakeReason()
	var p, s PinState
	if r == ReasonExternalPin {
		p, s = primary.Sample(), secondary.Sample()
	}
	return Classify(r, p, s), Ambiguous(r, p, s)
}
