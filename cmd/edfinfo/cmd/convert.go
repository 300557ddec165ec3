// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The opensig authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cmd

import (
	"github.com/opensig/edf"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Re-encode a recording block by block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := edf.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		w, err := edf.Create(args[1])
		if err != nil {
			return err
		}
		if err := w.WriteHeader(*r.Header()); err != nil {
			w.Close()
			return err
		}

		for k := 0; k < r.Header().NumRecords; k++ {
			block, err := r.ReadBlock(k)
			if err != nil {
				w.Close()
				return err
			}
			if err := w.WriteBlock(block); err != nil {
				w.Close()
				return err
			}
		}
		return w.Close()
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
