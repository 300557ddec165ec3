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
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// On-disk header layout: a 256-byte fixed region followed by 256 bytes of
// metadata per channel, stored column-major (all labels, then all
// transducers, and so on). Every field is fixed-width ASCII padded with
// spaces.
const (
	fixedHeaderSize   = 256
	channelHeaderSize = 256

	recordCountOffset = 236
	recordCountWidth  = 8
)

var (
	clockRe    = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{2})$`)
	highpassRe = regexp.MustCompile(`HP:\s*(DC|NaN|[0-9.]+)`)
	lowpassRe  = regexp.MustCompile(`LP:\s*(DC|NaN|[0-9.]+)`)
)

// decodeHeader parses the header region from r. fileSize is the total file
// length, used to recompute the record count when the stored field is the -1
// sentinel; pass a negative size if unknown. fallbackSubtype is used when
// the reserved area carries no subtype tag (typically the file extension).
//
// Recoverable inconsistencies are returned as warnings alongside the header.
func decodeHeader(r io.Reader, fileSize int64, fallbackSubtype string) (*Header, []Warning, error) {
	b := make([]byte, fixedHeaderSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, nil, fmt.Errorf("%w: fixed header: %v", ErrTruncated, err)
	}

	var warnings []Warning
	hdr := &Header{
		Version:     strings.TrimSpace(string(b[0:8])),
		SubjectID:   strings.TrimSpace(string(b[8:88])),
		RecordingID: strings.TrimSpace(string(b[88:168])),
	}

	startTime, err := parseClock(string(b[168:176]), string(b[176:184]))
	if err != nil {
		return nil, nil, err
	}
	hdr.StartTime = startTime

	headerBytes, err := parseIntField(string(b[184:192]), "header length")
	if err != nil {
		return nil, nil, err
	}
	hdr.HeaderBytes = headerBytes
	hdr.DataOffset = headerBytes

	subtype := strings.TrimSpace(string(b[192:236]))
	if len(subtype) > 5 {
		subtype = subtype[:5]
	}
	if subtype == "" {
		subtype = fallbackSubtype
	}
	hdr.Subtype = subtype

	numRecords, err := parseIntField(string(b[236:244]), "record count")
	if err != nil {
		return nil, nil, err
	}
	hdr.NumRecords = numRecords

	recordLength, err := parseFloatField(string(b[244:252]), "record length")
	if err != nil {
		return nil, nil, err
	}
	if recordLength == 0 {
		recordLength = 1
		warnings = append(warnings, warnf(WarnRecordLength,
			"stored record length is 0, coerced to 1 second"))
	}
	hdr.RecordLength = recordLength

	numChannels, err := parseIntField(string(b[252:256]), "channel count")
	if err != nil {
		return nil, nil, err
	}
	if numChannels < 1 {
		return nil, nil, fmt.Errorf("%w: channel count %d", ErrMalformedHeader, numChannels)
	}

	cb := make([]byte, channelHeaderSize*numChannels)
	if _, err := io.ReadFull(r, cb); err != nil {
		return nil, nil, fmt.Errorf("%w: channel headers: %v", ErrTruncated, err)
	}

	hdr.Channels = make([]Channel, numChannels)
	next := channelFields(cb)

	for i := range hdr.Channels {
		hdr.Channels[i].Label = strings.TrimSpace(next(16))
	}
	for i := range hdr.Channels {
		hdr.Channels[i].Transducer = strings.TrimSpace(next(80))
	}
	for i := range hdr.Channels {
		hdr.Channels[i].Unit = strings.TrimSpace(next(8))
	}
	for i := range hdr.Channels {
		v, err := parseFloatField(next(8), "physical min")
		if err != nil {
			return nil, nil, err
		}
		hdr.Channels[i].PhysicalMin = v
	}
	for i := range hdr.Channels {
		v, err := parseFloatField(next(8), "physical max")
		if err != nil {
			return nil, nil, err
		}
		hdr.Channels[i].PhysicalMax = v
	}
	for i := range hdr.Channels {
		v, err := parseFloatField(next(8), "digital min")
		if err != nil {
			return nil, nil, err
		}
		hdr.Channels[i].DigitalMin = v
	}
	for i := range hdr.Channels {
		v, err := parseFloatField(next(8), "digital max")
		if err != nil {
			return nil, nil, err
		}
		hdr.Channels[i].DigitalMax = v
	}
	for i := range hdr.Channels {
		hdr.Channels[i].Prefiltering = strings.TrimSpace(next(80))
	}
	for i := range hdr.Channels {
		v, err := parseIntField(next(8), "samples per record")
		if err != nil {
			return nil, nil, err
		}
		if v <= 0 {
			return nil, nil, fmt.Errorf("%w: channel %d declares %d samples per record",
				ErrMalformedHeader, i, v)
		}
		hdr.Channels[i].SamplesPerRecord = v
	}
	for i := range hdr.Channels {
		hdr.Channels[i].Reserved = strings.TrimSpace(next(32))
	}

	consumed := fixedHeaderSize + channelHeaderSize*numChannels
	if consumed != hdr.HeaderBytes {
		return nil, nil, fmt.Errorf("%w: declared header length %d, parsed %d bytes",
			ErrMalformedHeader, hdr.HeaderBytes, consumed)
	}

	warnings = append(warnings, deriveFilters(hdr)...)

	if hdr.NumRecords == -1 && fileSize >= 0 {
		if blockSize := hdr.BlockSize(); blockSize > 0 {
			hdr.NumRecords = int((fileSize - int64(hdr.DataOffset)) / int64(blockSize))
		}
	}

	return hdr, warnings, nil
}

// channelFields returns a cursor over the column-major channel metadata
// area. Each call consumes one field of the given per-channel width.
func channelFields(b []byte) func(width int) string {
	pos := 0
	return func(width int) string {
		s := string(b[pos : pos+width])
		pos += width
		return s
	}
}

// deriveFilters extracts the recording-level highpass and lowpass settings
// from the per-channel prefiltering strings. When channels disagree the
// highest highpass and lowest lowpass are kept, with a warning each.
func deriveFilters(hdr *Header) []Warning {
	var warnings []Warning
	var highs, lows []float64
	for _, ch := range hdr.Channels {
		if m := highpassRe.FindStringSubmatch(ch.Prefiltering); m != nil {
			if v, ok := filterValue(m[1]); ok {
				highs = append(highs, v)
			}
		}
		if m := lowpassRe.FindStringSubmatch(ch.Prefiltering); m != nil {
			if v, ok := filterValue(m[1]); ok {
				lows = append(lows, v)
			}
		}
	}

	var disagree bool
	hdr.Highpass, disagree = representative(highs, func(a, b float64) bool { return a > b })
	if disagree {
		warnings = append(warnings, warnf(WarnFilterMismatch,
			"channels disagree on highpass filters, keeping highest (%g)", hdr.Highpass))
	}
	hdr.Lowpass, disagree = representative(lows, func(a, b float64) bool { return a < b })
	if disagree {
		warnings = append(warnings, warnf(WarnFilterMismatch,
			"channels disagree on lowpass filters, keeping lowest (%g)", hdr.Lowpass))
	}
	return warnings
}

// filterValue resolves one prefilter token. "DC" and "NaN" both mean no
// effective filter; anything else must be numeric.
func filterValue(token string) (float64, bool) {
	if token == "DC" || token == "NaN" {
		return 0, true
	}
	v, err := strconv.ParseFloat(token, 64)
	return v, err == nil
}

// representative picks a single value from the per-channel settings: the
// first when all agree, otherwise the extreme under better. The second
// return reports disagreement.
func representative(values []float64, better func(a, b float64) bool) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	picked := values[0]
	disagree := false
	for _, v := range values[1:] {
		if v != picked {
			disagree = true
		}
		if better(v, picked) {
			picked = v
		}
	}
	return picked, disagree
}

func parseClock(dateStr, timeStr string) (time.Time, error) {
	d := clockRe.FindStringSubmatch(strings.TrimSpace(dateStr))
	if d == nil {
		return time.Time{}, fmt.Errorf("%w: start date %q", ErrMalformedHeader, dateStr)
	}
	t := clockRe.FindStringSubmatch(strings.TrimSpace(timeStr))
	if t == nil {
		return time.Time{}, fmt.Errorf("%w: start time %q", ErrMalformedHeader, timeStr)
	}

	day, _ := strconv.Atoi(d[1])
	month, _ := strconv.Atoi(d[2])
	year, _ := strconv.Atoi(d[3])
	hour, _ := strconv.Atoi(t[1])
	minute, _ := strconv.Atoi(t[2])
	second, _ := strconv.Atoi(t[3])

	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: start date/time %q %q", ErrMalformedHeader, dateStr, timeStr)
	}

	return time.Date(2000+year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

func parseIntField(s, name string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedHeader, name, s)
	}
	return v, nil
}

func parseFloatField(s, name string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedHeader, name, s)
	}
	return v, nil
}

// fieldWriter accumulates fixed-width ASCII fields, right-padded with
// spaces. A value longer than its field is a caller error, never silently
// truncated.
type fieldWriter struct {
	buf bytes.Buffer
	err error
}

func (w *fieldWriter) field(s string, width int) {
	if w.err != nil {
		return
	}
	if len(s) > width {
		w.err = fmt.Errorf("%w: %q in a %d byte field", ErrFieldOverflow, s, width)
		return
	}
	w.buf.WriteString(s)
	w.buf.WriteString(strings.Repeat(" ", width-len(s)))
}

// encodeHeader serializes the header, filling in defaults for missing
// optional fields and computing the derived lengths. The record count field
// is always written as the -1 sentinel; it is patched during finalization.
func encodeHeader(hdr *Header) ([]byte, error) {
	if len(hdr.Channels) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrMalformedHeader)
	}
	if hdr.RecordLength <= 0 {
		return nil, fmt.Errorf("%w: record length %g", ErrMalformedHeader, hdr.RecordLength)
	}
	for i, ch := range hdr.Channels {
		if ch.SamplesPerRecord <= 0 {
			return nil, fmt.Errorf("%w: channel %d declares %d samples per record",
				ErrMalformedHeader, i, ch.SamplesPerRecord)
		}
	}

	if hdr.Version == "" {
		hdr.Version = "0"
	}
	if hdr.Subtype == "" {
		hdr.Subtype = SubtypeEDF
	}
	for i := range hdr.Channels {
		if hdr.Channels[i].Label == "" {
			hdr.Channels[i].Label = strconv.Itoa(i)
		}
	}

	hdr.HeaderBytes = fixedHeaderSize + channelHeaderSize*len(hdr.Channels)
	hdr.DataOffset = hdr.HeaderBytes

	w := &fieldWriter{}
	w.field(hdr.Version, 8)
	w.field(hdr.SubjectID, 80)
	w.field(hdr.RecordingID, 80)
	w.field(hdr.StartTime.Format("02.01.06"), 8)
	w.field(hdr.StartTime.Format("15.04.05"), 8)
	w.field(strconv.Itoa(hdr.HeaderBytes), 8)
	w.field(hdr.Subtype, 44)
	w.field(strconv.Itoa(-1), recordCountWidth)
	w.field(formatDecimal(hdr.RecordLength, 8), 8)
	w.field(strconv.Itoa(len(hdr.Channels)), 4)

	for _, ch := range hdr.Channels {
		w.field(ch.Label, 16)
	}
	for _, ch := range hdr.Channels {
		w.field(ch.Transducer, 80)
	}
	for _, ch := range hdr.Channels {
		w.field(ch.Unit, 8)
	}
	for _, ch := range hdr.Channels {
		w.field(formatDecimal(ch.PhysicalMin, 8), 8)
	}
	for _, ch := range hdr.Channels {
		w.field(formatDecimal(ch.PhysicalMax, 8), 8)
	}
	for _, ch := range hdr.Channels {
		w.field(strconv.Itoa(int(ch.DigitalMin)), 8)
	}
	for _, ch := range hdr.Channels {
		w.field(strconv.Itoa(int(ch.DigitalMax)), 8)
	}
	for _, ch := range hdr.Channels {
		w.field(ch.Prefiltering, 80)
	}
	for _, ch := range hdr.Channels {
		w.field(strconv.Itoa(ch.SamplesPerRecord), 8)
	}
	for _, ch := range hdr.Channels {
		w.field(ch.Reserved, 32)
	}

	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

// formatDecimal renders a float compactly, dropping decimal places until it
// fits the field width. Values that still do not fit surface as an overflow
// error from the field writer.
func formatDecimal(v float64, width int) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for prec := 2; len(s) > width && prec >= 0; prec-- {
		s = strconv.FormatFloat(v, 'f', prec, 64)
	}
	return s
}
