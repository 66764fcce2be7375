// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/GermanBionicSystems/wakeframe/bmp24"
)

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) error {
	var errs []error

	// ---- display ----

	if cfg.Display.Width <= 0 || cfg.Display.Height <= 0 {
		errs = append(errs, fmt.Errorf("display: invalid resolution %dx%d", cfg.Display.Width, cfg.Display.Height))
	}
	switch cfg.Display.Style {
	case "pixel", "region":
	default:
		errs = append(errs, fmt.Errorf("display: style %q must be pixel or region", cfg.Display.Style))
	}

	// ---- content ----

	for name, u := range map[string]string{
		"primary_url":   cfg.Content.PrimaryURL,
		"secondary_url": cfg.Content.SecondaryURL,
		"trigger_url":   cfg.Content.TriggerURL,
	} {
		if u == "" {
			if name != "trigger_url" {
				errs = append(errs, fmt.Errorf("content: %s is required", name))
			}
			continue
		}
		if p, err := url.Parse(u); err != nil || (p.Scheme != "http" && p.Scheme != "https") || p.Host == "" {
			errs = append(errs, fmt.Errorf("content: %s %q is not an http(s) URL", name, u))
		}
	}
	if cfg.Content.TriggerSettle < 0 {
		errs = append(errs, fmt.Errorf("content: negative trigger_settle %s", cfg.Content.TriggerSettle))
	}

	// ---- http ----

	if cfg.HTTP.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("http: timeout must be positive"))
	}
	if cfg.HTTP.MaxImageBytes < bmp24.HeaderSize {
		errs = append(errs, fmt.Errorf("http: max_image_bytes %d is below the %d byte bitmap header", cfg.HTTP.MaxImageBytes, bmp24.HeaderSize))
	}
	if cfg.HTTP.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("http: chunk_size must be positive"))
	}

	// ---- schedule ----

	if cfg.Schedule.ActivePeriod < time.Second || cfg.Schedule.InactivePeriod < time.Second {
		errs = append(errs, fmt.Errorf("schedule: periods must be at least one second"))
	}
	windows := append(cfg.Schedule.Windows[:0:0], cfg.Schedule.Windows...)
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	for i, w := range windows {
		if w.Start < 0 || w.End > 24 || w.Start >= w.End {
			errs = append(errs, fmt.Errorf("schedule: window %s must satisfy 0 <= start < end <= 24", w))
			continue
		}
		if i > 0 && windows[i-1].End > w.Start {
			errs = append(errs, fmt.Errorf("schedule: windows %s and %s overlap", windows[i-1], w))
		}
	}
	if _, err := cfg.Location(); err != nil {
		errs = append(errs, fmt.Errorf("schedule: timezone: %w", err))
	}

	// ---- buttons ----

	for name, b := range map[string]ButtonConfig{"primary": cfg.Buttons.Primary, "secondary": cfg.Buttons.Secondary} {
		if b.GPIO < 0 || b.GPIO > 63 {
			errs = append(errs, fmt.Errorf("buttons: %s gpio %d out of range 0-63", name, b.GPIO))
		}
	}
	if cfg.Buttons.Primary.GPIO == cfg.Buttons.Secondary.GPIO {
		errs = append(errs, fmt.Errorf("buttons: primary and secondary share GPIO%d", cfg.Buttons.Primary.GPIO))
	}

	return errors.Join(errs...)
}
