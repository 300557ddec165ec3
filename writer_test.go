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
	"os"
	"path/filepath"
	"testing"

	"github.com/opensig/edf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.edf")
	block := [][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}}
	writeFile(t, path, identityHeader(4, 4), block)

	r, err := edf.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	hdr := r.Header()
	assert.Equal(t, "0", hdr.Version)
	assert.Equal(t, "Subject X", hdr.SubjectID)
	assert.Equal(t, "Recording 1", hdr.RecordingID)
	assert.Equal(t, identityHeader().StartTime, hdr.StartTime)
	assert.Equal(t, edf.SubtypeEDF, hdr.Subtype)
	assert.Equal(t, 2, hdr.SampleSize())
	assert.Equal(t, 1.0, hdr.RecordLength)
	assert.Equal(t, 1, hdr.NumRecords)
	require.Equal(t, 2, hdr.NumChannels())
	assert.Equal(t, "ch0", hdr.Channels[0].Label)
	assert.Equal(t, "uV", hdr.Channels[0].Unit)
	assert.Equal(t, 4, hdr.Channels[0].SamplesPerRecord)
	assert.Empty(t, r.Warnings())

	got, err := r.ReadBlock(0)
	require.NoError(t, err)
	assert.Equal(t, block, got)
}

func TestFinalizePatchesRecordCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.edf")
	block := [][]float64{{1, 2, 3, 4}}
	writeFile(t, path, identityHeader(4), block, block, block)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "3       ", string(b[236:244]))

	r, err := edf.Open(path)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 3, r.Header().NumRecords)
}

func TestWriterSessionOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.edf")
	w, err := edf.Create(path)
	require.NoError(t, err)

	err = w.WriteBlock([][]float64{{1, 2, 3, 4}})
	require.ErrorIs(t, err, edf.ErrNoHeader)

	require.NoError(t, w.WriteHeader(identityHeader(4)))
	require.ErrorIs(t, w.WriteHeader(identityHeader(4)), edf.ErrHeaderWritten)

	require.NoError(t, w.WriteBlock([][]float64{{1, 2, 3, 4}}))
	require.NoError(t, w.Close())

	require.ErrorIs(t, w.WriteBlock([][]float64{{1, 2, 3, 4}}), edf.ErrClosed)
	require.ErrorIs(t, w.Close(), edf.ErrClosed)
}

func TestWriterCloseWithoutHeader(t *testing.T) {
	w, err := edf.Create(filepath.Join(t.TempDir(), "test.edf"))
	require.NoError(t, err)
	require.ErrorIs(t, w.Close(), edf.ErrNoHeader)
}

func TestWriteBlockChannelMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.edf")
	w, err := edf.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(identityHeader(4, 4)))

	// Wrong number of channels.
	err = w.WriteBlock([][]float64{{1, 2, 3, 4}})
	require.ErrorIs(t, err, edf.ErrChannelCount)

	// Wrong samples-per-record on the second channel.
	err = w.WriteBlock([][]float64{{1, 2, 3, 4}, {5, 6}})
	require.ErrorIs(t, err, edf.ErrChannelCount)

	require.NoError(t, w.WriteBlock([][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}}))
	require.NoError(t, w.Close())
}

func TestOutOfRangeValueWarned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.edf")

	hdr := identityHeader(2)
	hdr.Channels[0].PhysicalMin = -100
	hdr.Channels[0].PhysicalMax = 100
	hdr.Channels[0].DigitalMin = -100
	hdr.Channels[0].DigitalMax = 100

	w, err := edf.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(hdr))
	require.NoError(t, w.WriteBlock([][]float64{{150, -150}}))

	warnings := w.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, edf.WarnOutOfRange, warnings[0].Code)
	assert.Equal(t, edf.WarnOutOfRange, warnings[1].Code)
	require.NoError(t, w.Close())

	// The values are still written, not clamped to the physical range.
	r, err := edf.Open(path)
	require.NoError(t, err)
	defer r.Close()
	got, err := r.ReadBlock(0)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{150, -150}}, got)
}

func TestBDFRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.bdf")

	hdr := identityHeader(3)
	hdr.Subtype = edf.SubtypeBDF
	hdr.Channels[0].PhysicalMin = -8388608
	hdr.Channels[0].PhysicalMax = 8388607
	hdr.Channels[0].DigitalMin = -8388608
	hdr.Channels[0].DigitalMax = 8388607

	block := [][]float64{{-70000, 0, 1234567}}
	writeFile(t, path, hdr, block)

	r, err := edf.Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, edf.SubtypeBDF, r.Header().Subtype)
	assert.Equal(t, 3, r.Header().SampleSize())

	got, err := r.ReadBlock(0)
	require.NoError(t, err)
	assert.Equal(t, block, got)
}

func TestHeaderFieldOverflow(t *testing.T) {
	w, err := edf.Create(filepath.Join(t.TempDir(), "test.edf"))
	require.NoError(t, err)

	hdr := identityHeader(4)
	hdr.Channels[0].Label = "a label far too long for sixteen bytes"
	require.ErrorIs(t, w.WriteHeader(hdr), edf.ErrFieldOverflow)
}
