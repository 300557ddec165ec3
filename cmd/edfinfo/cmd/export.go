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
	"bufio"
	"os"
	"strconv"

	"github.com/opensig/edf"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Dump one channel's physical samples, one per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, _ := cmd.Flags().GetInt("channel")

		r, err := edf.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		samples, err := r.ReadSignal(channel)
		if err != nil {
			return err
		}

		out := bufio.NewWriter(os.Stdout)
		defer out.Flush()
		for _, v := range samples {
			out.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			out.WriteByte('\n')
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().Int("channel", 0, "Channel index to export")
	rootCmd.AddCommand(exportCmd)
}
