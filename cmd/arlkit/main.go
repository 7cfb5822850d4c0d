// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command arlkit inspects observation descriptor files and reports
// imaging parameter recommendations for them.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/radioastro/arlkit/base/errors"
	"github.com/radioastro/arlkit/logx"
	"github.com/radioastro/arlkit/obs"
	"github.com/radioastro/arlkit/ops"
	"github.com/spf13/cobra"
)

var logLevel string

func main() {
	root := &cobra.Command{
		Use:   "arlkit",
		Short: "arlkit inspects radio interferometry observation descriptors",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var lv slog.Level
			if err := lv.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logx.SetLevel(lv)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, or error")
	root.AddCommand(describeCmd(), adviseCmd())
	if errors.Log(root.Execute()) != nil {
		os.Exit(1)
	}
}

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe config.toml",
		Short: "describe an observation configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ob, err := obs.Open(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:       %s\n", ob.Name)
			fmt.Fprintf(out, "phase ctr:  %g, %g\n", ob.PCRA, ob.PCDec)
			fmt.Fprintf(out, "antennas:   %d (%d baselines)\n", ob.NAnt, ob.NBases)
			fmt.Fprintf(out, "times:      %d\n", ob.NTimes())
			fmt.Fprintf(out, "channels:   %d\n", ob.NFreqs())
			if n := ob.NFreqs(); n > 0 {
				fmt.Fprintf(out, "freq range: %g - %g Hz\n", ob.Freqs[0], ob.Freqs[n-1])
			}
			fmt.Fprintf(out, "pols:       %d", ob.NPol)
			if ob.PolFrame != "" {
				fmt.Fprintf(out, " (%s)", ob.PolFrame)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "rmax:       %g m\n", ob.RMax)
			fmt.Fprintf(out, "samples:    %d\n", ob.NTimes()*ob.NFreqs()*ob.NBases)
			return nil
		},
	}
}

func adviseCmd() *cobra.Command {
	adv := ops.Advice{}
	c := &cobra.Command{
		Use:   "advise config.toml",
		Short: "recommend wide-field imaging parameters for an observation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ob, err := obs.Open(args[0])
			if err != nil {
				return err
			}
			if err := ops.Initialize(); err != nil {
				return err
			}
			if err := ops.AdviseWideField(ob, nil, &adv); err != nil {
				return err
			}
			if logx.UserLevelIs(slog.LevelDebug) {
				slog.Debug("advised", "config", args[0], "nbases", ob.NBases)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "npixel:        %d\n", adv.NPixel)
			fmt.Fprintf(out, "cellsize:      %g rad\n", adv.Cellsize)
			fmt.Fprintf(out, "vis slices:    %d\n", adv.VisSlices)
			fmt.Fprintf(out, "wproj planes:  %d\n", adv.WProjPlanes)
			fmt.Fprintf(out, "guard band:    %g\n", adv.GuardBand)
			fmt.Fprintf(out, "del a:         %g\n", adv.DelA)
			return nil
		},
	}
	c.Flags().Float64Var(&adv.GuardBand, "guard-band", 0, "image guard band as a multiple of the primary beam (0 = default)")
	c.Flags().Float64Var(&adv.DelA, "del-a", 0, "tolerated w-term amplitude loss (0 = default)")
	c.Flags().IntVar(&adv.WProjPlanes, "wproj-planes", 0, "w-projection plane count (0 = derive from slices)")
	return c
}
