// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The opensig authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import "errors"

var (
	// ErrMalformedHeader indicates a header field that cannot be parsed, or a
	// declared header length that does not match the bytes consumed.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrTruncated indicates fewer bytes were available than a field or data
	// record requires.
	ErrTruncated = errors.New("truncated file")
	// ErrChannelCount indicates supplied per-channel sample data that does not
	// match the declared channel layout.
	ErrChannelCount = errors.New("channel count mismatch")
	// ErrClosed indicates an operation on a closed session.
	ErrClosed = errors.New("session is closed")
	// ErrNoHeader indicates a data operation before the header was written.
	ErrNoHeader = errors.New("header not yet written")
	// ErrHeaderWritten indicates a second WriteHeader call on the same session.
	ErrHeaderWritten = errors.New("header already written")
	// ErrFieldOverflow indicates a header value that does not fit its
	// fixed-width ASCII field.
	ErrFieldOverflow = errors.New("value exceeds header field width")
)
