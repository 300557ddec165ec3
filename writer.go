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
	"bufio"
	"fmt"
	"io"
	"os"
)

// Writer is a write session producing a single EDF/EDF+/BDF file. The
// session must receive exactly one WriteHeader call before any WriteBlock,
// and Close finalizes the record count on disk. A Writer must not be shared
// across goroutines, and a path must not have more than one open writer.
type Writer struct {
	path       string
	f          *os.File
	w          *bufio.Writer
	hdr        *Header
	cal        []Calibration
	warnings   []Warning
	numRecords int
	closed     bool
}

// Create opens a new write session at path, truncating any existing file.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	return &Writer{
		path: path,
		f:    f,
		w:    bufio.NewWriter(f),
	}, nil
}

// WriteHeader encodes and writes the header region. Missing optional fields
// are defaulted (see encodeHeader) and the record count is written as the -1
// sentinel, to be patched when the session closes. It must be called exactly
// once, before the first WriteBlock.
func (w *Writer) WriteHeader(hdr Header) error {
	if w.closed {
		return ErrClosed
	}
	if w.hdr != nil {
		return ErrHeaderWritten
	}

	hdr.NumRecords = -1
	b, err := encodeHeader(&hdr)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	w.hdr = &hdr
	w.cal = calibrationTable(hdr.Channels)
	return nil
}

// WriteBlock appends one data record. samples must hold exactly one slice
// per channel, each of exactly the channel's samples-per-record length.
// Values outside a channel's declared physical range are warned about but
// still written, clamped only by the stored integer width.
func (w *Writer) WriteBlock(samples [][]float64) error {
	if w.closed {
		return ErrClosed
	}
	if w.hdr == nil {
		return ErrNoHeader
	}
	if len(samples) != len(w.hdr.Channels) {
		return fmt.Errorf("%w: got %d channels, header declares %d",
			ErrChannelCount, len(samples), len(w.hdr.Channels))
	}
	for i, ch := range w.hdr.Channels {
		if len(samples[i]) != ch.SamplesPerRecord {
			return fmt.Errorf("%w: channel %d got %d samples, header declares %d",
				ErrChannelCount, i, len(samples[i]), ch.SamplesPerRecord)
		}
	}

	size := w.hdr.SampleSize()
	var scratch [3]byte
	for i, ch := range w.hdr.Channels {
		w.checkPhysicalRange(i, ch, samples[i])
		for _, v := range samples[i] {
			d := clampSample(w.cal[i].Digital(v), size)
			putSample(scratch[:size], d, size)
			if _, err := w.w.Write(scratch[:size]); err != nil {
				return fmt.Errorf("error writing samples: %w", err)
			}
		}
	}

	w.numRecords++
	return nil
}

func (w *Writer) checkPhysicalRange(i int, ch Channel, samples []float64) {
	lo, hi := samples[0], samples[0]
	for _, v := range samples[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo < ch.PhysicalMin {
		w.warnings = append(w.warnings, warnf(WarnOutOfRange,
			"channel %d: value %g below physical min %g", i, lo, ch.PhysicalMin))
	}
	if hi > ch.PhysicalMax {
		w.warnings = append(w.warnings, warnf(WarnOutOfRange,
			"channel %d: value %g above physical max %g", i, hi, ch.PhysicalMax))
	}
}

// Warnings returns the non-fatal diagnostics collected while writing.
func (w *Writer) Warnings() []Warning {
	return w.warnings
}

// Close flushes pending data and patches the record count field with the
// number of blocks written. Subsequent operations fail with ErrClosed.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true

	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("error flushing file: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}
	if w.hdr == nil {
		return ErrNoHeader
	}

	err := finalizeRecordCount(w.path, w.numRecords)
	w.hdr = nil
	w.cal = nil
	w.numRecords = 0
	return err
}

// finalizeRecordCount patches the record count field by streaming the file
// into a temporary sibling and atomically renaming it over the original.
// The write handle was opened append-style, so in-place patching of an
// earlier offset is not assumed to be available. On any failure the
// temporary file is removed and the original is left untouched.
func finalizeRecordCount(path string, numRecords int) error {
	field := fmt.Sprintf("%-*d", recordCountWidth, numRecords)
	if len(field) > recordCountWidth {
		return fmt.Errorf("%w: record count %d", ErrFieldOverflow, numRecords)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening file for finalization: %w", err)
	}
	defer src.Close()

	tmpPath := path + ".finalize"
	dst, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}

	if err := copyWithRecordCount(dst, src, field); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error closing temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error replacing file: %w", err)
	}
	return nil
}

func copyWithRecordCount(dst io.Writer, src io.Reader, field string) error {
	if _, err := io.CopyN(dst, src, recordCountOffset); err != nil {
		return fmt.Errorf("error copying header: %w", err)
	}
	if _, err := io.CopyN(io.Discard, src, recordCountWidth); err != nil {
		return fmt.Errorf("error skipping record count: %w", err)
	}
	if _, err := io.WriteString(dst, field); err != nil {
		return fmt.Errorf("error writing record count: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("error copying data records: %w", err)
	}
	return nil
}
