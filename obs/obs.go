// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obs provides the observation configuration descriptor:
// a read-mostly value bundle describing one observation, consumed by
// nearly every creation, prediction, inversion, and calibration operation.
package obs

import (
	"fmt"

	"github.com/radioastro/arlkit/base/metadata"
)

// Observation describes one observation: the array configuration,
// pointing direction, time and frequency sampling, and polarisation setup.
// It is constructed once and passed by pointer; operations that read it
// must not mutate it.
type Observation struct {
	// Name is the array configuration name, e.g. "LOWBD2" or "LOWBD2-CORE".
	Name string `toml:"name" yaml:"name"`

	// PCRA, PCDec are the pointing direction (phase centre)
	// right ascension and declination, in degrees.
	PCRA  float64 `toml:"pc_ra" yaml:"pc_ra"`
	PCDec float64 `toml:"pc_dec" yaml:"pc_dec"`

	// Times are the sample times, as hour angles in radians.
	Times []float64 `toml:"times" yaml:"times"`

	// Freqs are the channel center frequencies in Hz.
	Freqs []float64 `toml:"freqs" yaml:"freqs"`

	// ChanWidths are the per-channel bandwidths in Hz,
	// parallel to Freqs.
	ChanWidths []float64 `toml:"chan_widths" yaml:"chan_widths"`

	// NBases is the number of baselines, derivable from NAnt.
	NBases int `toml:"nbases" yaml:"nbases"`

	// NAnt is the number of antennas (stations).
	NAnt int `toml:"nant" yaml:"nant"`

	// NPol is the polarisation count per visibility sample (1, 2, or 4).
	NPol int `toml:"npol" yaml:"npol"`

	// NRec is the number of receptors per antenna.
	NRec int `toml:"nrec" yaml:"nrec"`

	// RMax is the maximum baseline length in meters.
	RMax float64 `toml:"rmax" yaml:"rmax"`

	// PolFrame is the polarisation frame name, e.g. "stokesI" or "stokesIQUV".
	PolFrame string `toml:"polframe" yaml:"polframe"`

	// Meta is optional side-band metadata, not serialized.
	Meta metadata.Data `toml:"-" yaml:"-"`
}

// NTimes returns the number of sample times.
func (ob *Observation) NTimes() int { return len(ob.Times) }

// NFreqs returns the number of frequency channels.
func (ob *Observation) NFreqs() int { return len(ob.Freqs) }

// Validate checks the descriptor invariants: the three parallel arrays
// must be mutually consistent, the polarisation count must select a known
// record layout, and the counts must be non-negative.
func (ob *Observation) Validate() error {
	if len(ob.ChanWidths) != len(ob.Freqs) {
		return fmt.Errorf("obs: %d channel widths for %d frequencies", len(ob.ChanWidths), len(ob.Freqs))
	}
	switch ob.NPol {
	case 1, 2, 4:
	default:
		return fmt.Errorf("obs: unsupported polarisation count %d (must be 1, 2, or 4)", ob.NPol)
	}
	if ob.NAnt < 0 {
		return fmt.Errorf("obs: negative antenna count %d", ob.NAnt)
	}
	if ob.NBases != 0 && ob.NBases != Baselines(ob.NAnt) {
		return fmt.Errorf("obs: baseline count %d does not match %d antennas (expected %d)",
			ob.NBases, ob.NAnt, Baselines(ob.NAnt))
	}
	if ob.RMax < 0 {
		return fmt.Errorf("obs: negative maximum baseline %g", ob.RMax)
	}
	return nil
}

// Baselines returns the number of baselines for the given antenna count:
// the number of distinct antenna pairs.
func Baselines(nant int) int {
	return nant * (nant - 1) / 2
}

// AntInfo is the antenna and baseline count pair derived
// from a named array configuration.
type AntInfo struct {
	NAnt   int
	NBases int
}

// known array configurations and their station counts
var arrayConfigs = map[string]int{
	"LOWBD2":      512,
	"LOWBD2-CORE": 166,
	"ASKAP":       36,
	"VLA-A":       27,
}

// ArrayInfo returns the antenna and baseline counts for the given
// array configuration name.
func ArrayInfo(confname string) (AntInfo, error) {
	nant, ok := arrayConfigs[confname]
	if !ok {
		return AntInfo{}, fmt.Errorf("obs: unknown array configuration %q", confname)
	}
	return AntInfo{NAnt: nant, NBases: Baselines(nant)}, nil
}

// PolFrameNPol returns the polarisation count implied by the given
// polarisation frame name.
func PolFrameNPol(frame string) (int, error) {
	switch frame {
	case "stokesI":
		return 1, nil
	case "stokesIQ", "stokesIV", "circularnp", "linearnp":
		return 2, nil
	case "stokesIQUV", "circular", "linear":
		return 4, nil
	default:
		return 0, fmt.Errorf("obs: unknown polarisation frame %q", frame)
	}
}
