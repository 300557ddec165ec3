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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Reader is a read session over a single EDF/EDF+/BDF file. The header and
// calibration table are decoded once at open time and are immutable for the
// lifetime of the session. A Reader must not be shared across goroutines.
type Reader struct {
	r           io.ReadSeeker
	f           *os.File // non-nil when the session owns the file handle
	hdr         *Header
	cal         []Calibration
	warnings    []Warning
	blockSize   int
	chanOffsets []int // byte offset of each channel's samples within a block
}

// Open opens the file at path for reading and decodes its header. When the
// header's reserved area carries no subtype tag, the file extension is used
// instead.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error reading file size: %w", err)
	}

	fallback := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	r, err := newReader(f, fi.Size(), fallback)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.f = f
	return r, nil
}

// NewReader decodes a header from rs and returns a read session over it.
// The caller retains ownership of rs; Close will not close it.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("error reading file size: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to header: %w", err)
	}
	return newReader(rs, size, SubtypeEDF)
}

func newReader(rs io.ReadSeeker, size int64, fallbackSubtype string) (*Reader, error) {
	hdr, warnings, err := decodeHeader(rs, size, fallbackSubtype)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		r:        rs,
		hdr:      hdr,
		cal:      calibrationTable(hdr.Channels),
		warnings: warnings,
	}
	r.blockSize = hdr.BlockSize()
	r.chanOffsets = make([]int, len(hdr.Channels))
	offset := 0
	for i, ch := range hdr.Channels {
		r.chanOffsets[i] = offset
		offset += ch.SamplesPerRecord * hdr.SampleSize()
	}
	return r, nil
}

// Header returns the decoded header. Callers must not mutate it.
func (r *Reader) Header() *Header {
	return r.hdr
}

// Warnings returns the non-fatal inconsistencies detected while decoding
// the header.
func (r *Reader) Warnings() []Warning {
	return r.warnings
}

// Labels returns the channel labels in on-disk order.
func (r *Reader) Labels() []string {
	labels := make([]string, len(r.hdr.Channels))
	for i, ch := range r.hdr.Channels {
		labels[i] = ch.Label
	}
	return labels
}

// NumChannels returns the number of channels in each data record.
func (r *Reader) NumChannels() int {
	return len(r.hdr.Channels)
}

// SampleRate returns the sampling frequency of the given channel in Hz.
func (r *Reader) SampleRate(channel int) float64 {
	return float64(r.hdr.Channels[channel].SamplesPerRecord) / r.hdr.RecordLength
}

// SampleCount returns the total number of samples stored for the given
// channel across all data records.
func (r *Reader) SampleCount(channel int) int {
	return r.hdr.Channels[channel].SamplesPerRecord * r.hdr.NumRecords
}

// ReadBlock reads data record k and returns one physical-value slice per
// channel. Reading past the end of the file fails with ErrTruncated.
func (r *Reader) ReadBlock(k int) ([][]float64, error) {
	if r.hdr == nil {
		return nil, ErrClosed
	}
	if k < 0 {
		return nil, fmt.Errorf("negative block index %d", k)
	}

	buf := make([]byte, r.blockSize)
	if err := r.readAt(int64(r.hdr.DataOffset)+int64(k)*int64(r.blockSize), buf); err != nil {
		return nil, fmt.Errorf("block %d: %w", k, err)
	}

	size := r.hdr.SampleSize()
	data := make([][]float64, len(r.hdr.Channels))
	pos := 0
	for i, ch := range r.hdr.Channels {
		data[i] = make([]float64, ch.SamplesPerRecord)
		for s := range data[i] {
			data[i][s] = r.cal[i].Physical(getSample(buf[pos:], size))
			pos += size
		}
	}
	return data, nil
}

// ReadSamples reads the inclusive global sample range [begin, end] for one
// channel, spanning data record boundaries as needed.
func (r *Reader) ReadSamples(channel, begin, end int) ([]float64, error) {
	if r.hdr == nil {
		return nil, ErrClosed
	}
	if err := r.checkChannel(channel); err != nil {
		return nil, err
	}
	if begin < 0 || end < begin {
		return nil, fmt.Errorf("invalid sample range [%d, %d]", begin, end)
	}

	perRecord := r.hdr.Channels[channel].SamplesPerRecord
	beginBlock := begin / perRecord
	endBlock := end / perRecord

	out := make([]float64, 0, end-begin+1)
	chunk := make([]float64, perRecord)
	for k := beginBlock; k <= endBlock; k++ {
		if err := r.readChannelChunk(k, channel, chunk); err != nil {
			return nil, err
		}
		base := k * perRecord
		lo, hi := 0, perRecord-1
		if begin > base {
			lo = begin - base
		}
		if end < base+perRecord-1 {
			hi = end - base
		}
		out = append(out, chunk[lo:hi+1]...)
	}
	return out, nil
}

// ReadSignal reads every stored sample of one channel.
func (r *Reader) ReadSignal(channel int) ([]float64, error) {
	if r.hdr == nil {
		return nil, ErrClosed
	}
	if err := r.checkChannel(channel); err != nil {
		return nil, err
	}
	total := r.SampleCount(channel)
	if total <= 0 {
		return nil, nil
	}
	return r.ReadSamples(channel, 0, total-1)
}

// Close releases the session. If the Reader owns the file handle it is
// closed; subsequent operations fail with ErrClosed.
func (r *Reader) Close() error {
	if r.hdr == nil {
		return ErrClosed
	}
	r.hdr = nil
	r.cal = nil
	r.warnings = nil
	r.r = nil
	if r.f != nil {
		f := r.f
		r.f = nil
		if err := f.Close(); err != nil {
			return fmt.Errorf("error closing file: %w", err)
		}
	}
	return nil
}

// readChannelChunk reads one channel's samples from data record k.
func (r *Reader) readChannelChunk(k, channel int, dst []float64) error {
	size := r.hdr.SampleSize()
	buf := make([]byte, len(dst)*size)
	pos := int64(r.hdr.DataOffset) + int64(k)*int64(r.blockSize) + int64(r.chanOffsets[channel])
	if err := r.readAt(pos, buf); err != nil {
		return fmt.Errorf("block %d channel %d: %w", k, channel, err)
	}
	for i := range dst {
		dst[i] = r.cal[channel].Physical(getSample(buf[i*size:], size))
	}
	return nil
}

func (r *Reader) readAt(pos int64, buf []byte) error {
	if _, err := r.r.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("error seeking to offset %d: %w", pos, err)
	}
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return fmt.Errorf("%w: need %d bytes at offset %d", ErrTruncated, len(buf), pos)
	}
	return nil
}

func (r *Reader) checkChannel(channel int) error {
	if channel < 0 || channel >= len(r.hdr.Channels) {
		return fmt.Errorf("channel index %d out of range", channel)
	}
	return nil
}

// SignalReader streams one channel's physical samples across data records.
type SignalReader struct {
	r       *Reader
	channel int
	pos     int // next absolute sample index
	chunk   []float64
}

// Signal returns a streaming reader over the given channel.
func (r *Reader) Signal(channel int) (*SignalReader, error) {
	if r.hdr == nil {
		return nil, ErrClosed
	}
	if err := r.checkChannel(channel); err != nil {
		return nil, err
	}
	return &SignalReader{
		r:       r,
		channel: channel,
		chunk:   make([]float64, r.hdr.Channels[channel].SamplesPerRecord),
	}, nil
}

// Read fills data with physical values, returning io.EOF once every stored
// sample has been consumed.
func (sr *SignalReader) Read(data []float64) (int, error) {
	if sr.r.hdr == nil {
		return 0, ErrClosed
	}

	perRecord := len(sr.chunk)
	total := sr.r.SampleCount(sr.channel)

	n := 0
	for n < len(data) {
		if sr.pos >= total {
			return n, io.EOF
		}
		k := sr.pos / perRecord
		if err := sr.r.readChannelChunk(k, sr.channel, sr.chunk); err != nil {
			return n, err
		}
		lo := sr.pos % perRecord
		hi := perRecord
		if remaining := total - k*perRecord; remaining < hi {
			hi = remaining
		}
		copied := copy(data[n:], sr.chunk[lo:hi])
		n += copied
		sr.pos += copied
	}
	return n, nil
}
