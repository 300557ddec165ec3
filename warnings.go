// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The opensig authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import "fmt"

// WarningCode classifies a non-fatal diagnostic.
type WarningCode string

const (
	// WarnRecordLength is emitted when a stored record length of 0 is coerced
	// to 1 second.
	WarnRecordLength WarningCode = "record-length"
	// WarnFilterMismatch is emitted when channels disagree on their highpass
	// or lowpass prefilter settings.
	WarnFilterMismatch WarningCode = "filter-mismatch"
	// WarnOutOfRange is emitted when a written sample falls outside the
	// channel's declared physical range. The value is still written.
	WarnOutOfRange WarningCode = "out-of-range"
)

// Warning is a recoverable inconsistency detected while decoding a header or
// writing samples. Warnings are collected on the session and logged; they
// never abort the operation that produced them.
type Warning struct {
	Code    WarningCode
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

func warnf(code WarningCode, format string, args ...any) Warning {
	w := Warning{Code: code, Message: fmt.Sprintf(format, args...)}
	logger.Warn().Str("code", string(w.Code)).Msg(w.Message)
	return w
}
