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
	"os"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "edf").Logger()

// SetLogger replaces the package logger. Embedding callers that want to
// capture or silence codec diagnostics should install their own logger here.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// L returns the package logger.
func L() *zerolog.Logger {
	return &logger
}
