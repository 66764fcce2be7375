// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package spectra6

import "time"

type controller interface {
	reset()
	sendCommand(byte)
	sendData([]byte)
	waitIdle(time.Duration)
}

func initPanel(ctrl controller, opts *Opts) {
	ctrl.reset()
	ctrl.waitIdle(opts.ResetTimeout)

	ctrl.sendCommand(cmdh)
	ctrl.sendData([]byte{0x49, 0x55, 0x20, 0x08, 0x09, 0x18})

	ctrl.sendCommand(powerSetting)
	ctrl.sendData([]byte{0x3F})

	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{0x5F, 0x69})

	ctrl.sendCommand(powerOffSequence)
	ctrl.sendData([]byte{0x00, 0x54, 0x00, 0x44})

	ctrl.sendCommand(boosterSoftStart1)
	ctrl.sendData([]byte{0x40, 0x1F, 0x1F, 0x2C})

	ctrl.sendCommand(boosterSoftStart2)
	ctrl.sendData([]byte{0x6F, 0x1F, 0x17, 0x49})

	ctrl.sendCommand(boosterSoftStart3)
	ctrl.sendData([]byte{0x6F, 0x1F, 0x1F, 0x22})

	ctrl.sendCommand(pllControl)
	ctrl.sendData([]byte{0x03})

	// Border follows the white LUT.
	ctrl.sendCommand(vcomDataInterval)
	ctrl.sendData([]byte{0x3F})

	ctrl.sendCommand(tconSetting)
	ctrl.sendData([]byte{0x02, 0x00})

	ctrl.sendCommand(resolutionSetting)
	ctrl.sendData([]byte{
		byte(opts.Width >> 8), byte(opts.Width),
		byte(opts.Height >> 8), byte(opts.Height),
	})

	ctrl.sendCommand(tVcomDC)
	ctrl.sendData([]byte{0x01})

	ctrl.sendCommand(powerSaving)
	ctrl.sendData([]byte{0x2F})
}

// refresh shows the frame already loaded in the panel RAM.
func refresh(ctrl controller, opts *Opts) {
	ctrl.sendCommand(powerOn)
	ctrl.waitIdle(opts.ResetTimeout)

	ctrl.sendCommand(displayRefresh)
	ctrl.sendData([]byte{0x00})
	ctrl.waitIdle(opts.RefreshTimeout)

	ctrl.sendCommand(powerOff)
	ctrl.sendData([]byte{0x00})
	ctrl.waitIdle(opts.ResetTimeout)
}

// deepSleep is left only by a hardware reset.
func deepSleep(ctrl controller) {
	ctrl.sendCommand(deepSleepMode)
	ctrl.sendData([]byte{deepSleepCheck})
}
