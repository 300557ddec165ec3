// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The opensig authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf_test

import (
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/opensig/edf"
	"github.com/stretchr/testify/require"
)

// identityHeader builds a header whose channels calibrate with scale 1 and
// offset 0, so physical values round-trip exactly.
func identityHeader(samplesPerRecord ...int) edf.Header {
	channels := make([]edf.Channel, len(samplesPerRecord))
	for i, n := range samplesPerRecord {
		channels[i] = edf.Channel{
			Label:            fmt.Sprintf("ch%d", i),
			Unit:             "uV",
			PhysicalMin:      math.MinInt16,
			PhysicalMax:      math.MaxInt16,
			DigitalMin:       math.MinInt16,
			DigitalMax:       math.MaxInt16,
			SamplesPerRecord: n,
		}
	}
	return edf.Header{
		SubjectID:    "Subject X",
		RecordingID:  "Recording 1",
		StartTime:    time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		Subtype:      edf.SubtypeEDF,
		RecordLength: 1,
		Channels:     channels,
	}
}

func writeFile(t *testing.T, path string, hdr edf.Header, blocks ...[][]float64) {
	t.Helper()
	w, err := edf.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(hdr))
	for _, b := range blocks {
		require.NoError(t, w.WriteBlock(b))
	}
	require.NoError(t, w.Close())
}

// patchFile overwrites a header field in place, to corrupt test files the
// way damaged real-world recordings are.
func patchFile(t *testing.T, path string, offset int64, field string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte(field), offset)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
