// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wake

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Reason is the raw wake reason reported by the power controller.
type Reason int

// Valid Reason.
const (
	// ReasonOther covers first boot, external reset and brown-out.
	ReasonOther Reason = iota
	// ReasonTimer is a wake caused by the sleep timer.
	ReasonTimer
	// ReasonExternalPin is an ext1-class wake caused by a monitored pin.
	ReasonExternalPin
)

func (r Reason) String() string {
	switch r {
	case ReasonOther:
		return "other"
	case ReasonTimer:
		return "timer"
	case ReasonExternalPin:
		return "external-pin"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Set sets the Reason to a value represented by the string s. Set implements the flag.Value interface.
func (r *Reason) Set(s string) error {
	switch s {
	case "other", "cold":
		*r = ReasonOther
	case "timer":
		*r = ReasonTimer
	case "external-pin", "ext1", "button":
		*r = ReasonExternalPin
	default:
		return fmt.Errorf("unknown wake reason %q: expected other, timer or external-pin", s)
	}
	return nil
}

// Button identifies one of the two wake-capable buttons.
type Button int

// Valid Button.
const (
	Primary Button = iota
	Secondary
)

func (b Button) String() string {
	switch b {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}

// Kind is the tag of a Cause.
type Kind int

// Valid Kind.
const (
	ColdBoot Kind = iota
	TimerExpired
	ButtonPressed
)

// Cause is why the current cycle runs. Button is only meaningful when Kind
// is ButtonPressed.
type Cause struct {
	Kind   Kind
	Button Button
}

// Pressed returns the Cause for a press of button b.
func Pressed(b Button) Cause {
	return Cause{Kind: ButtonPressed, Button: b}
}

func (c Cause) String() string {
	switch c.Kind {
	case ColdBoot:
		return "cold-boot"
	case TimerExpired:
		return "timer"
	case ButtonPressed:
		return "button:" + c.Button.String()
	default:
		return fmt.Sprintf("Cause(%d)", int(c.Kind))
	}
}

// PinState is an instantaneous pin sample together with the level the pin
// has while its button is pressed.
type PinState struct {
	Level  gpio.Level
	Active gpio.Level
}

// Asserted reports whether the pin reads as pressed.
func (p PinState) Asserted() bool {
	return p.Level == p.Active
}

// Classify maps a raw wake reason and the two button samples to a Cause.
//
// Exactly one asserted pin selects that button. When neither or both are
// asserted the Primary button is reported.
func Classify(r Reason, primary, secondary PinState) Cause {
	switch r {
	case ReasonExternalPin:
		if secondary.Asserted() && !primary.Asserted() {
			return Pressed(Secondary)
		}
		return Pressed(Primary)
	case ReasonTimer:
		return Cause{Kind: TimerExpired}
	default:
		return Cause{Kind: ColdBoot}
	}
}

// Ambiguous reports whether an external-pin wake had to fall back to the
// Primary default because the samples did not single out one button.
func Ambiguous(r Reason, primary, secondary PinState) bool {
	return r == ReasonExternalPin && primary.Asserted() == secondary.Asserted()
}
