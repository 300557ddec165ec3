// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The opensig authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrationDerivation(t *testing.T) {
	ch := Channel{
		PhysicalMin: -500,
		PhysicalMax: 500,
		DigitalMin:  -2048,
		DigitalMax:  2047,
	}
	cal := newCalibration(ch)

	wantScale := 1000.0 / 4095.0
	assert.InDelta(t, wantScale, cal.Scale, 1e-12)
	assert.InDelta(t, -500-wantScale*-2048, cal.Offset, 1e-9)

	// Encoding then decoding must stay within one quantization step.
	for _, x := range []float64{-500, -123.4, 0, 0.01, 499.9, 500} {
		got := cal.Physical(cal.Digital(x))
		require.InDelta(t, x, got, math.Abs(cal.Scale)/2+1e-9, "x=%g", x)
	}
}

func TestCalibrationFallback(t *testing.T) {
	// Zero digital range.
	cal := newCalibration(Channel{
		PhysicalMin: -500, PhysicalMax: 500,
		DigitalMin: 100, DigitalMax: 100,
	})
	assert.Equal(t, Calibration{Scale: 1}, cal)

	// Inverted digital range yields a negative scale.
	cal = newCalibration(Channel{
		PhysicalMin: -500, PhysicalMax: 500,
		DigitalMin: 2047, DigitalMax: -2048,
	})
	assert.Equal(t, Calibration{Scale: 1}, cal)

	// Identity transform passes values straight through.
	assert.Equal(t, 42.0, cal.Physical(42))
	assert.Equal(t, 42, cal.Digital(42))
}

func TestSampleCodec(t *testing.T) {
	var buf [3]byte

	for _, v := range []int{0, 1, -1, 1234, -1234, math.MinInt16, math.MaxInt16} {
		putSample(buf[:2], v, 2)
		assert.Equal(t, v, getSample(buf[:2], 2), "16-bit %d", v)
	}

	for _, v := range []int{0, 1, -1, 70000, -70000, -8388608, 8388607} {
		putSample(buf[:3], v, 3)
		assert.Equal(t, v, getSample(buf[:3], 3), "24-bit %d", v)
	}
}

func TestClampSample(t *testing.T) {
	assert.Equal(t, math.MaxInt16, clampSample(1<<20, 2))
	assert.Equal(t, math.MinInt16, clampSample(-(1 << 20), 2))
	assert.Equal(t, 8388607, clampSample(1<<30, 3))
	assert.Equal(t, -8388608, clampSample(-(1 << 30), 3))
	assert.Equal(t, 99, clampSample(99, 2))
}
