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
	"fmt"

	"github.com/opensig/edf"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print the header of a recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := edf.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		hdr := r.Header()
		fmt.Printf("version:        %s\n", hdr.Version)
		fmt.Printf("subject:        %s\n", hdr.SubjectID)
		fmt.Printf("recording:      %s\n", hdr.RecordingID)
		fmt.Printf("start time:     %s\n", hdr.StartTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("subtype:        %s (%d-byte samples)\n", hdr.Subtype, hdr.SampleSize())
		fmt.Printf("record length:  %gs\n", hdr.RecordLength)
		fmt.Printf("records:        %d\n", hdr.NumRecords)
		fmt.Printf("channels:       %d\n", hdr.NumChannels())
		if hdr.Highpass != 0 || hdr.Lowpass != 0 {
			fmt.Printf("filters:        HP %g Hz, LP %g Hz\n", hdr.Highpass, hdr.Lowpass)
		}

		fmt.Println()
		for i, ch := range hdr.Channels {
			fmt.Printf("%3d  %-16s %8s  %g..%g (%g..%g)  %g Hz\n",
				i, ch.Label, ch.Unit,
				ch.PhysicalMin, ch.PhysicalMax,
				ch.DigitalMin, ch.DigitalMax,
				r.SampleRate(i))
		}

		for _, w := range r.Warnings() {
			fmt.Printf("warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
