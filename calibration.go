// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The opensig authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import "math"

// Calibration is the affine transform between a channel's stored digital
// integers and its physical units: physical = digital*Scale + Offset.
type Calibration struct {
	Scale  float64
	Offset float64
}

// newCalibration derives the transform from the channel's declared ranges.
// A zero or inverted digital range, or a negative derived scale, falls back
// to the identity transform rather than failing: legacy files with broken
// calibration fields remain readable, at the cost of uncalibrated values for
// that channel.
func newCalibration(ch Channel) Calibration {
	digitalRange := ch.DigitalMax - ch.DigitalMin
	if digitalRange == 0 {
		return Calibration{Scale: 1}
	}
	scale := (ch.PhysicalMax - ch.PhysicalMin) / digitalRange
	if scale < 0 {
		return Calibration{Scale: 1}
	}
	return Calibration{
		Scale:  scale,
		Offset: ch.PhysicalMin - scale*ch.DigitalMin,
	}
}

// calibrationTable recomputes the per-channel transforms; it is derived on
// every header load and never persisted.
func calibrationTable(channels []Channel) []Calibration {
	cal := make([]Calibration, len(channels))
	for i, ch := range channels {
		cal[i] = newCalibration(ch)
	}
	return cal
}

// Physical converts a stored digital sample to physical units.
func (c Calibration) Physical(digital int) float64 {
	return float64(digital)*c.Scale + c.Offset
}

// Digital converts a physical value to the nearest digital sample.
func (c Calibration) Digital(physical float64) int {
	if c.Scale == 0 {
		return 0
	}
	return int(math.Round((physical - c.Offset) / c.Scale))
}

// sampleBounds returns the representable range for the given sample width.
func sampleBounds(size int) (min, max int) {
	if size == 3 {
		return -8388608, 8388607
	}
	return math.MinInt16, math.MaxInt16
}

func clampSample(v, size int) int {
	min, max := sampleBounds(size)
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// putSample stores a little-endian signed sample of the given width.
func putSample(b []byte, v, size int) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	if size == 3 {
		b[2] = byte(v >> 16)
	}
}

// getSample loads a little-endian signed sample of the given width.
func getSample(b []byte, size int) int {
	if size == 3 {
		v := int(b[0]) | int(b[1])<<8 | int(b[2])<<16
		if v&0x800000 != 0 {
			v -= 1 << 24
		}
		return v
	}
	return int(int16(uint16(b[0]) | uint16(b[1])<<8))
}
