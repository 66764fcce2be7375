// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/wakeframe/schedule"
	"github.com/GermanBionicSystems/wakeframe/wake"
)

type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Content  ContentConfig  `yaml:"content"`
	HTTP     HTTPConfig     `yaml:"http"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Buttons  ButtonsConfig  `yaml:"buttons"`
	SPI      SPIConfig      `yaml:"spi"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	// Native panel resolution, landscape.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Style is "pixel" (decode, quantize and rotate here) or "region" (hand
	// the encoded image to the panel driver).
	Style string `yaml:"style"`
}

// ---- CONTENT ----

type ContentConfig struct {
	PrimaryURL   string `yaml:"primary_url"`
	SecondaryURL string `yaml:"secondary_url"`
	// Optional; POSTed before fetching primary content.
	TriggerURL    string        `yaml:"trigger_url"`
	TriggerSettle time.Duration `yaml:"trigger_settle"`
}

// ---- HTTP ----

type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxImageBytes int           `yaml:"max_image_bytes"`
	ChunkSize     int           `yaml:"chunk_size"`
}

// ---- SCHEDULE ----

type ScheduleConfig struct {
	ActivePeriod   time.Duration     `yaml:"active_period"`
	InactivePeriod time.Duration     `yaml:"inactive_period"`
	Windows        []schedule.Window `yaml:"windows"`
	Timezone       string            `yaml:"timezone"`
}

// ---- BUTTONS ----

type ButtonsConfig struct {
	Primary   ButtonConfig `yaml:"primary"`
	Secondary ButtonConfig `yaml:"secondary"`
}

type ButtonConfig struct {
	// Pin is the gpioreg name used to read the button, e.g. "GPIO17".
	Pin string `yaml:"pin"`
	// GPIO is the number armed for external wake.
	GPIO      int  `yaml:"gpio"`
	ActiveLow bool `yaml:"active_low"`
}

// ---- SPI ----

type SPIConfig struct {
	Port  string `yaml:"port"`
	DC    string `yaml:"dc"`
	Reset string `yaml:"reset"`
	Busy  string `yaml:"busy"`
}

// Default returns the configuration of the 7.3" 800x480 Spectra 6 frame.
func Default() *Config {
	s := schedule.Default()
	return &Config{
		Display: DisplayConfig{Width: 800, Height: 480, Style: "pixel"},
		Content: ContentConfig{TriggerSettle: 5 * time.Second},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			MaxImageBytes: 800*480*3 + 54,
			ChunkSize:     512,
		},
		Schedule: ScheduleConfig{
			ActivePeriod:   s.Active,
			InactivePeriod: s.Inactive,
			Windows:        s.Windows,
			Timezone:       "Local",
		},
		Buttons: ButtonsConfig{
			Primary:   ButtonConfig{Pin: "GPIO1", GPIO: 1, ActiveLow: true},
			Secondary: ButtonConfig{Pin: "GPIO2", GPIO: 2, ActiveLow: true},
		},
		SPI: SPIConfig{Port: "SPI0.0", DC: "GPIO22", Reset: "GPIO27", Busy: "GPIO17"},
	}
}

// Load reads the YAML file at path over Default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes YAML over Default.
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ScheduleSpec returns the schedule.Schedule described by the configuration.
func (c *Config) ScheduleSpec() schedule.Schedule {
	return schedule.Schedule{
		Windows:  c.Schedule.Windows,
		Active:   c.Schedule.ActivePeriod,
		Inactive: c.Schedule.InactivePeriod,
	}
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Schedule.Timezone)
}

// WakePin returns the wake.Pin of a button, without its input.
func (b *ButtonConfig) WakePin(id wake.Button) *wake.Pin {
	active := gpio.High
	if b.ActiveLow {
		active = gpio.Low
	}
	return &wake.Pin{Button: id, GPIO: b.GPIO, Active: active}
}
