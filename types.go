// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The opensig authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package edf reads and writes European Data Format (EDF/EDF+/BDF) files,
// a fixed-layout binary container for multi-channel physiological
// time-series recordings.
package edf

import "time"

// Format variant tags. The subtype determines the width of the stored
// integer samples: 2 bytes for standard EDF/EDF+, 3 bytes for BDF/24-bit.
const (
	SubtypeEDF   = "edf"
	SubtypeBDF   = "bdf"
	Subtype24Bit = "24BIT"
)

// Header describes a recording: the measurement-level metadata followed by
// one descriptor per channel, in on-disk order.
type Header struct {
	Version      string    // Version of the data format (usually "0")
	SubjectID    string    // Local subject identification
	RecordingID  string    // Local recording identification
	StartTime    time.Time // Start of the recording (two-digit year, 2000-based)
	Subtype      string    // Format variant tag, see Subtype constants
	RecordLength float64   // Duration of one data record in seconds
	NumRecords   int       // Number of data records, -1 if not yet finalized
	HeaderBytes  int       // Declared byte length of the header region
	DataOffset   int       // Byte offset where sample data begins
	Highpass     float64   // Highpass filter setting derived from prefiltering, 0 if absent
	Lowpass      float64   // Lowpass filter setting derived from prefiltering, 0 if absent
	Channels     []Channel // One descriptor per channel
}

// Channel describes a single signal within each data record.
type Channel struct {
	Label            string  // Signal label (e.g. "EEG Fpz-Cz")
	Transducer       string  // Transducer type (e.g. "AgAgCl electrode")
	Unit             string  // Physical dimension (e.g. "uV")
	PhysicalMin      float64 // Minimum physical value
	PhysicalMax      float64 // Maximum physical value
	DigitalMin       float64 // Minimum digital value
	DigitalMax       float64 // Maximum digital value
	Prefiltering     string  // Prefiltering description (e.g. "HP: 0.1 LP: 75")
	SamplesPerRecord int     // Samples for this channel in each data record
	Reserved         string  // Reserved area, carried verbatim
}

// SampleSize returns the stored width of one sample in bytes, derived from
// the subtype tag.
func (h *Header) SampleSize() int {
	if h.Subtype == Subtype24Bit || h.Subtype == SubtypeBDF {
		return 3
	}
	return 2
}

// BlockSize returns the byte length of one data record.
func (h *Header) BlockSize() int {
	return h.SampleSize() * h.sumSamples()
}

func (h *Header) sumSamples() int {
	var n int
	for _, ch := range h.Channels {
		n += ch.SamplesPerRecord
	}
	return n
}

// NumChannels returns the number of channels in each data record.
func (h *Header) NumChannels() int {
	return len(h.Channels)
}
